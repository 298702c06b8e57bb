package client

import (
	"math"
	"strconv"

	"github.com/josefo727/oneillco-buy-together/internal/domain"
)

// Wire shapes of the catalog search API. Only the fields the composer
// consumes are declared; everything else passes through undecoded.

type productSearchResult struct {
	ProductID   string       `json:"productId"`
	ProductName string       `json:"productName"`
	Items       []searchItem `json:"items"`
}

type searchItem struct {
	ItemID       string        `json:"itemId"`
	NameComplete string        `json:"nameComplete"`
	Images       []searchImage `json:"images"`
	Sellers      []seller      `json:"sellers"`
}

type searchImage struct {
	ImageURL string `json:"imageUrl"`
}

type seller struct {
	SellerID        string `json:"sellerId"`
	SellerDefault   bool   `json:"sellerDefault"`
	CommertialOffer offer  `json:"commertialOffer"`
}

type offer struct {
	Price       float64 `json:"Price"`
	ListPrice   float64 `json:"ListPrice"`
	IsAvailable bool    `json:"IsAvailable"`
}

type skuVariationsResponse struct {
	Skus []skuVariation `json:"skus"`
}

type skuVariation struct {
	Sku    int              `json:"sku"`
	Images []skuDetailImage `json:"images"`
}

type skuDetailImage struct {
	ImageURL  string `json:"imageUrl"`
	ImageName string `json:"imageName"`
}

// toVariation maps one search result into the domain shape. Items without
// a usable seller are skipped; a result that maps to zero SKUs or carries
// an unparsable product id is dropped entirely (nil).
func (r productSearchResult) toVariation() *domain.Variation {
	productID := atoiSafe(r.ProductID)
	if productID <= 0 {
		return nil
	}

	skus := make([]domain.Sku, 0, len(r.Items))
	for _, item := range r.Items {
		s, ok := item.toSku()
		if !ok {
			continue
		}
		skus = append(skus, s)
	}
	if len(skus) == 0 {
		return nil
	}

	return &domain.Variation{
		ProductID: productID,
		Name:      r.ProductName,
		Skus:      skus,
	}
}

func (it searchItem) toSku() (domain.Sku, bool) {
	skuID := atoiSafe(it.ItemID)
	if skuID <= 0 {
		return domain.Sku{}, false
	}

	sel, ok := pickSeller(it.Sellers)
	if !ok {
		return domain.Sku{}, false
	}

	listPrice := toMinorUnits(sel.CommertialOffer.ListPrice)
	bestPrice := toMinorUnits(sel.CommertialOffer.Price)
	// The offer occasionally reports a "best" price above list; cap it so
	// the bestPrice <= listPrice invariant holds everywhere downstream.
	if bestPrice > listPrice {
		bestPrice = listPrice
	}

	image := ""
	if len(it.Images) > 0 {
		image = it.Images[0].ImageURL
	}

	return domain.Sku{
		ID:        skuID,
		SellerID:  sel.SellerID,
		Available: sel.CommertialOffer.IsAvailable,
		ListPrice: listPrice,
		BestPrice: bestPrice,
		Name:      it.NameComplete,
		Image:     image,
	}, true
}

func pickSeller(sellers []seller) (seller, bool) {
	for _, s := range sellers {
		if s.SellerDefault {
			return s, true
		}
	}
	if len(sellers) > 0 {
		return sellers[0], true
	}
	return seller{}, false
}

func (r skuVariationsResponse) toSkuDetails() []domain.SkuDetails {
	details := make([]domain.SkuDetails, 0, len(r.Skus))
	for _, s := range r.Skus {
		images := make([]domain.SkuImage, 0, len(s.Images))
		for _, img := range s.Images {
			images = append(images, domain.SkuImage{URL: img.ImageURL, Name: img.ImageName})
		}
		details = append(details, domain.SkuDetails{ID: s.Sku, Images: images})
	}
	return details
}

func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
