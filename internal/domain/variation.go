package domain

// Variation is a product together with the ordered list of purchasable SKUs
// it offers. Variations are fetched from the catalog and are never mutated
// after that; selection state only references them.
type Variation struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Skus      []Sku  `json:"skus"`
}

// Sku is one purchasable unit of a variation. Prices are integers in minor
// currency units (cents).
type Sku struct {
	ID        int    `json:"sku"`
	SellerID  string `json:"sellerId"`
	Available bool   `json:"available"`
	ListPrice int64  `json:"listPrice"`
	BestPrice int64  `json:"bestPrice"`
	Name      string `json:"skuname"`
	Image     string `json:"image"`
}

// FindSku returns the SKU with the given id, if the variation carries it.
func (v *Variation) FindSku(skuID int) (Sku, bool) {
	for _, s := range v.Skus {
		if s.ID == skuID {
			return s, true
		}
	}
	return Sku{}, false
}

// HasSku reports whether skuID belongs to this variation's SKU list.
func (v *Variation) HasSku(skuID int) bool {
	_, ok := v.FindSku(skuID)
	return ok
}

// DefaultSku picks the SKU to display when a variation is first shown:
// the preferred SKU when it exists and is available, otherwise the first
// available SKU, otherwise the first SKU in list order.
func (v *Variation) DefaultSku(preferredID int) (Sku, bool) {
	if len(v.Skus) == 0 {
		return Sku{}, false
	}
	if preferredID > 0 {
		if s, ok := v.FindSku(preferredID); ok && s.Available {
			return s, true
		}
	}
	for _, s := range v.Skus {
		if s.Available {
			return s, true
		}
	}
	return v.Skus[0], true
}

// DiscountPercent returns the rounded percentage saved when buying at best
// price instead of list price. A non-positive list price yields 0.
func DiscountPercent(listPrice, bestPrice int64) int {
	if listPrice <= 0 || bestPrice >= listPrice {
		return 0
	}
	return int(((listPrice-bestPrice)*100 + listPrice/2) / listPrice)
}
