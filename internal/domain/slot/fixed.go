package slot

import (
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// FixedRef is one parsed "productId-skuId" token of a fixed-list bundle.
type FixedRef struct {
	ProductID int
	SkuID     int
}

var fixedTokenPattern = regexp.MustCompile(`^\d+-\d+$`)

// ParseFixedTokens validates the configured product tokens and drops the
// malformed ones. Dropping is silent towards the caller; only a warning is
// logged. Order is preserved.
func ParseFixedTokens(tokens []string) []FixedRef {
	refs := make([]FixedRef, 0, len(tokens))
	for _, token := range tokens {
		if !fixedTokenPattern.MatchString(token) {
			log.Warnf("Dropping malformed product token %q", token)
			continue
		}
		parts := strings.SplitN(token, "-", 2)
		productID, _ := strconv.Atoi(parts[0])
		skuID, _ := strconv.Atoi(parts[1])
		if productID == 0 || skuID == 0 {
			log.Warnf("Dropping product token with zero id %q", token)
			continue
		}
		refs = append(refs, FixedRef{ProductID: productID, SkuID: skuID})
	}
	return refs
}
