package composer

import (
	"context"
	"strconv"
	"sync"

	"github.com/josefo727/oneillco-buy-together/internal/domain"
	"github.com/josefo727/oneillco-buy-together/internal/domain/slot"
	"github.com/josefo727/oneillco-buy-together/internal/state"

	log "github.com/sirupsen/logrus"
)

// DetailView is the product view opened from a hotspot. It browses SKUs
// locally, shows the list/best price discount badge and the SKU image
// carousel, and adds a single item to the cart without going through the
// bundle's batch simulation.
type DetailView struct {
	composer  *Composer
	variation *domain.Variation

	mu      sync.Mutex
	sku     domain.Sku
	details []domain.SkuDetails
	adding  bool
}

// OpenHotspot opens the detail view for a hotspot's product. The SKU image
// records are fetched on open; a detail fetch failure degrades to an empty
// carousel instead of blocking the view.
func (c *Composer) OpenHotspot(ctx context.Context, productID int) (*DetailView, error) {
	key := slot.ProductKey(productID)
	variation, sku, ok := c.Displayed(key)
	if !ok {
		return nil, ErrUnknownHotspot
	}

	details, err := c.catalog.GetSkuDetails(ctx, productID)
	if err != nil {
		log.Warnf("Failed to load sku details for product %d: %v", productID, err)
		details = nil
	}

	return &DetailView{
		composer:  c,
		variation: variation,
		sku:       sku,
		details:   details,
	}, nil
}

// Variation returns the product this view shows.
func (d *DetailView) Variation() *domain.Variation {
	return d.variation
}

// CurrentSku returns the SKU the view currently displays.
func (d *DetailView) CurrentSku() domain.Sku {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.sku
}

// ChangeSku switches the displayed SKU. The browse state is local to the
// view; the hotspot's slot keeps its own selection.
func (d *DetailView) ChangeSku(skuID int) error {
	sku, ok := d.variation.FindSku(skuID)
	if !ok {
		return state.ErrSkuMismatch
	}

	d.mu.Lock()
	d.sku = sku
	d.mu.Unlock()
	return nil
}

// DiscountBadge returns the rounded percentage between the current SKU's
// list and best price, 0 when there is no discount to show.
func (d *DetailView) DiscountBadge() int {
	sku := d.CurrentSku()
	return domain.DiscountPercent(sku.ListPrice, sku.BestPrice)
}

// Images returns the carousel images of the current SKU: its main (unnamed)
// image records, empty when the detail fetch failed or the SKU has none.
func (d *DetailView) Images() []domain.SkuImage {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, detail := range d.details {
		if detail.ID == d.sku.ID {
			return detail.MainImages()
		}
	}
	return nil
}

// AddToCart commits the current SKU as a single cart line item. This path
// deliberately bypasses the batch price simulation.
func (d *DetailView) AddToCart(ctx context.Context) error {
	d.mu.Lock()
	if d.adding {
		d.mu.Unlock()
		return ErrCommitInFlight
	}
	d.adding = true
	sku := d.sku
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.adding = false
		d.mu.Unlock()
	}()

	return d.composer.commitSingle(ctx, domain.CartLineItem{
		ItemID:   strconv.Itoa(sku.ID),
		SellerID: sku.SellerID,
		Quantity: 1,
		Price:    sku.BestPrice,
		Name:     sku.Name,
		ImageURL: sku.Image,
	})
}

// IsAdding reports whether the view's add-to-cart is in flight.
func (d *DetailView) IsAdding() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.adding
}
