package imageref

import (
	"fmt"
	"net/url"
	"regexp"
	"time"
)

var assetIDPattern = regexp.MustCompile(`/ids/(\d+)`)

// Normalize rewrites a platform asset URL into its resized, cache-busted
// form for the given width. URLs that do not carry a numeric asset id are
// returned unchanged; this function never fails.
func Normalize(rawURL string, width int) string {
	return NormalizeAt(rawURL, width, time.Now())
}

// NormalizeAt is Normalize with an explicit clock. The version token has
// calendar-day granularity (UTC), so every call within the same day builds
// an identical, cacheable URL.
func NormalizeAt(rawURL string, width int, now time.Time) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return rawURL
	}

	match := assetIDPattern.FindStringSubmatch(u.Path)
	if match == nil {
		return rawURL
	}

	version := now.UTC().Format("20060102") + "0000"

	return fmt.Sprintf("%s://%s/arquivos/ids/%s-%d-auto?v=%s&width=%d&height=auto&aspect=true",
		u.Scheme, u.Host, match[1], width, version, width)
}
