package domain

// CartLineItem is one line of a batch add-to-cart request. The composer
// always commits with Quantity 1 per selected slot.
type CartLineItem struct {
	ItemID   string `json:"itemId"`
	SellerID string `json:"sellerId"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}
