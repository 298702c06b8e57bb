package domain

// SimulationItem is one line sent to the checkout price simulation.
type SimulationItem struct {
	ItemID   string `json:"itemId"`
	Price    int64  `json:"price"`
	SellerID string `json:"sellerId"`
}

// SimulationResult is the derived pricing of the current selection. It is
// recomputed from scratch on every selection change and must be treated as
// stale while Loading is set.
type SimulationResult struct {
	RegularTotal       int64
	DiscountedTotal    int64
	HasDiscount        bool
	DiscountPercentage int
	Loading            bool
}

// CurrentTotal is the price the shopper would actually pay: the discounted
// total when the simulation produced one, the regular total otherwise.
func (r SimulationResult) CurrentTotal() int64 {
	if r.HasDiscount {
		return r.DiscountedTotal
	}
	return r.RegularTotal
}

// SavedAmount is the difference between the regular and the current total.
func (r SimulationResult) SavedAmount() int64 {
	return r.RegularTotal - r.CurrentTotal()
}

// ShowSaved reports whether the saved amount should be rendered. Equal
// totals never show a saving.
func (r SimulationResult) ShowSaved() bool {
	return r.SavedAmount() > 0
}
