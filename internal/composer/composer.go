package composer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/josefo727/oneillco-buy-together/internal/client"
	"github.com/josefo727/oneillco-buy-together/internal/config"
	"github.com/josefo727/oneillco-buy-together/internal/domain"
	"github.com/josefo727/oneillco-buy-together/internal/domain/slot"
	"github.com/josefo727/oneillco-buy-together/internal/imageref"
	"github.com/josefo727/oneillco-buy-together/internal/state"

	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrBundleTooSmall is returned when fewer valid fixed-list tokens
	// remain than the minimum bundle size.
	ErrBundleTooSmall = errors.New("not enough valid products for a bundle")
	// ErrCommitInFlight is returned when a commit is attempted while a
	// previous one has not resolved yet.
	ErrCommitInFlight = errors.New("a commit is already in flight")
	// ErrEmptySelection is returned when commit is called with no members.
	ErrEmptySelection = errors.New("no products selected")
	// ErrStaleLoad is returned when a load was superseded by a newer one
	// before its catalog response arrived.
	ErrStaleLoad = errors.New("load superseded by a newer configuration")
	// ErrUnknownCandidate is returned when a chooser confirms a product
	// that is not among the slot's candidates.
	ErrUnknownCandidate = errors.New("product is not a candidate for this slot")
	// ErrUnknownHotspot is returned when a hotspot references a product
	// the catalog never resolved.
	ErrUnknownHotspot = errors.New("hotspot product not loaded")
)

// Mode is the slot-sourcing mode a composer operates in.
type Mode int

const (
	ModeNone Mode = iota
	ModeFixedList
	ModeCollection
	ModeHotspot
)

// Phase is the coarse UI state of the bundle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseContent
	PhaseEmpty
	PhaseError
)

// Options holds the bundle composition policy.
type Options struct {
	MinFixedSlots int
	MaxFixedSlots int
}

// OptionsFromConfig maps the configured bundle policy into composer options.
func OptionsFromConfig(cfg config.BundleConfig) Options {
	return Options{
		MinFixedSlots: cfg.MinFixedSlots,
		MaxFixedSlots: cfg.MaxFixedSlots,
	}
}

// Composer owns the selection state of one rendered bundle and orchestrates
// catalog lookups, price simulation and the cart commit. One composer per
// bundle instance; nothing is shared across bundles.
type Composer struct {
	catalog  client.CatalogClient
	checkout client.CheckoutClient
	opts     Options

	mu         sync.Mutex
	mode       Mode
	phase      Phase
	loadErr    error
	generation uint64

	store      state.SelectionStore
	candidates map[slot.Key][]*domain.Variation
	hotspots   []slot.Hotspot

	sim    domain.SimulationResult
	simSeq uint64

	committing bool
}

func New(catalog client.CatalogClient, checkout client.CheckoutClient, opts Options) *Composer {
	if opts.MinFixedSlots <= 0 {
		opts.MinFixedSlots = 3
	}
	if opts.MaxFixedSlots < opts.MinFixedSlots {
		opts.MaxFixedSlots = opts.MinFixedSlots + 1
	}
	return &Composer{
		catalog:    catalog,
		checkout:   checkout,
		opts:       opts,
		store:      state.NewSelectionStore(),
		candidates: make(map[slot.Key][]*domain.Variation),
	}
}

// beginLoad resets the composer for a new slot configuration and returns
// the generation tag the load must present when applying its results.
func (c *Composer) beginLoad(mode Mode) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.simSeq++ // in-flight simulation results are now stale
	c.mode = mode
	c.phase = PhaseLoading
	c.loadErr = nil
	c.store = state.NewSelectionStore()
	c.candidates = make(map[slot.Key][]*domain.Variation)
	c.hotspots = nil
	c.sim = domain.SimulationResult{}
	return c.generation
}

// failLoad records a collaborator error as the bundle's error state. The
// error never propagates past the composer as a panic or crash; callers
// get it back once and the phase keeps it visible.
func (c *Composer) failLoad(gen uint64, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return ErrStaleLoad
	}
	c.phase = PhaseError
	c.loadErr = err
	return err
}

// LoadFixedList configures the bundle from explicit "productId-skuId"
// tokens. Invalid tokens are dropped; fewer than the minimum leaves the
// bundle empty, more than the maximum keeps only the first ones. Every
// resolved slot starts as a member (opt-out model).
func (c *Composer) LoadFixedList(ctx context.Context, tokens []string) error {
	refs := slot.ParseFixedTokens(tokens)
	if len(refs) < c.opts.MinFixedSlots {
		// still a full reconfiguration: the generation must advance so an
		// in-flight load of the previous token set cannot repopulate the store
		gen := c.beginLoad(ModeFixedList)
		c.mu.Lock()
		if gen == c.generation {
			c.phase = PhaseEmpty
		}
		c.mu.Unlock()
		log.Warnf("Only %d valid product tokens, need %d; bundle renders nothing", len(refs), c.opts.MinFixedSlots)
		return ErrBundleTooSmall
	}
	if len(refs) > c.opts.MaxFixedSlots {
		refs = refs[:c.opts.MaxFixedSlots]
	}

	gen := c.beginLoad(ModeFixedList)

	productIDs := make([]int, len(refs))
	for i, ref := range refs {
		productIDs[i] = ref.ProductID
	}

	variations, err := c.catalog.GetVariations(ctx, productIDs)
	if err != nil {
		return c.failLoad(gen, fmt.Errorf("failed to load bundle products: %w", err))
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrStaleLoad
	}

	resolved := 0
	for i, v := range variations {
		if v == nil {
			continue
		}
		key := slot.ProductKey(refs[i].ProductID)
		c.store.DefineSlot(key)
		if err := c.store.SelectVariation(key, v); err != nil {
			continue
		}
		if sku, ok := v.DefaultSku(refs[i].SkuID); ok {
			if err := c.store.ChangeSku(key, sku.ID); err == nil {
				c.store.ToggleMembership(key)
				resolved++
			}
		}
	}

	if resolved == 0 {
		c.phase = PhaseEmpty
	} else {
		c.phase = PhaseContent
	}
	c.mu.Unlock()

	log.Infof("Fixed-list bundle loaded with %d of %d slots", resolved, len(refs))
	c.recompute(ctx)
	return nil
}

// LoadCollections configures one slot per collection id, each with the
// collection's variations as candidates. No slot is a member until the
// shopper confirms a pick (opt-in model).
func (c *Composer) LoadCollections(ctx context.Context, collectionIDs []string) error {
	gen := c.beginLoad(ModeCollection)

	if len(collectionIDs) == 0 {
		c.mu.Lock()
		if gen == c.generation {
			c.phase = PhaseEmpty
		}
		c.mu.Unlock()
		return nil
	}

	results := make([][]*domain.Variation, len(collectionIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range collectionIDs {
		i, id := i, id
		g.Go(func() error {
			variations, err := c.catalog.GetCollectionVariations(gctx, id)
			if err != nil {
				return err
			}
			results[i] = variations
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return c.failLoad(gen, fmt.Errorf("failed to load collections: %w", err))
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrStaleLoad
	}
	for i := range collectionIDs {
		key := slot.IndexKey(i)
		c.store.DefineSlot(key)
		c.candidates[key] = results[i]
	}
	c.phase = PhaseContent
	c.mu.Unlock()

	log.Infof("Collection bundle loaded with %d slots", len(collectionIDs))
	return nil
}

// LoadHotspots configures the bundle from image hotspots. Markers without
// a product are dropped, and markers whose product the catalog cannot
// resolve never render. Membership stays empty; hotspot adds are
// single-item commits through the detail view.
func (c *Composer) LoadHotspots(ctx context.Context, hotspots []slot.Hotspot) error {
	valid := slot.FilterHotspots(hotspots)

	gen := c.beginLoad(ModeHotspot)

	if len(valid) == 0 {
		c.mu.Lock()
		if gen == c.generation {
			c.phase = PhaseEmpty
		}
		c.mu.Unlock()
		return nil
	}

	productIDs := make([]int, 0, len(valid))
	preferredSku := make(map[int]int)
	seen := make(map[int]bool)
	for _, h := range valid {
		if !seen[h.Product.ProductID] {
			seen[h.Product.ProductID] = true
			productIDs = append(productIDs, h.Product.ProductID)
		}
		if h.Product.SkuID > 0 {
			preferredSku[h.Product.ProductID] = h.Product.SkuID
		}
	}

	variations, err := c.catalog.GetVariations(ctx, productIDs)
	if err != nil {
		return c.failLoad(gen, fmt.Errorf("failed to load hotspot products: %w", err))
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrStaleLoad
	}

	loaded := make(map[int]bool)
	for i, v := range variations {
		if v == nil {
			continue
		}
		key := slot.ProductKey(productIDs[i])
		c.store.DefineSlot(key)
		if err := c.store.SelectVariation(key, v); err != nil {
			continue
		}
		if pref := preferredSku[productIDs[i]]; pref > 0 {
			if sku, ok := v.DefaultSku(pref); ok {
				c.store.ChangeSku(key, sku.ID)
			}
		}
		loaded[productIDs[i]] = true
	}

	for _, h := range valid {
		if loaded[h.Product.ProductID] {
			c.hotspots = append(c.hotspots, h)
		}
	}

	if len(c.hotspots) == 0 {
		c.phase = PhaseEmpty
	} else {
		c.phase = PhaseContent
	}
	c.mu.Unlock()

	log.Infof("Shoppable image loaded with %d hotspots", len(c.Hotspots()))
	return nil
}

// ToggleSlot adds the slot's displayed SKU to the bundle or removes it,
// then recomputes totals.
func (c *Composer) ToggleSlot(ctx context.Context, key slot.Key) error {
	c.mu.Lock()
	added, err := c.store.ToggleMembership(key)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if added {
		log.Debugf("Slot %s added to the bundle", key)
	} else {
		log.Debugf("Slot %s removed from the bundle", key)
	}
	c.recompute(ctx)
	return nil
}

// ChangeSku swaps the displayed SKU of a slot. When the slot is a member
// the bundle and its totals follow atomically.
func (c *Composer) ChangeSku(ctx context.Context, key slot.Key, skuID int) error {
	c.mu.Lock()
	err := c.store.ChangeSku(key, skuID)
	member := err == nil && c.store.IsMember(key)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if member {
		c.recompute(ctx)
	}
	return nil
}

// SlotCandidates returns the variations a collection slot can choose from.
func (c *Composer) SlotCandidates(key slot.Key) []*domain.Variation {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.candidates[key]
}

// ConfirmSlotSelection applies a chooser confirmation: the product must be
// one of the slot's candidates; a zero skuID picks the default SKU. The
// slot becomes a member (or its selection is replaced) and totals follow.
func (c *Composer) ConfirmSlotSelection(ctx context.Context, key slot.Key, productID, skuID int) error {
	c.mu.Lock()

	var chosen *domain.Variation
	for _, v := range c.candidates[key] {
		if v != nil && v.ProductID == productID {
			chosen = v
			break
		}
	}
	if chosen == nil {
		c.mu.Unlock()
		return ErrUnknownCandidate
	}
	// validate the pair before touching the store, so a bad confirmation
	// leaves the slot's current selection and totals as they were
	if skuID > 0 {
		if _, ok := chosen.FindSku(skuID); !ok {
			c.mu.Unlock()
			return state.ErrSkuMismatch
		}
	}

	if err := c.store.SelectVariation(key, chosen); err != nil {
		c.mu.Unlock()
		return err
	}
	if skuID > 0 {
		if err := c.store.ChangeSku(key, skuID); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	if !c.store.IsMember(key) {
		if _, err := c.store.ToggleMembership(key); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.mu.Unlock()

	log.Debugf("Slot %s confirmed with product %d", key, productID)
	c.recompute(ctx)
	return nil
}

// ClearSlotSelection removes a collection slot's pick, if any.
func (c *Composer) ClearSlotSelection(ctx context.Context, key slot.Key) {
	c.mu.Lock()
	removed := c.store.Remove(key)
	c.mu.Unlock()

	if removed {
		c.recompute(ctx)
	}
}

// CurrentSlotSelection reports the product and SKU a member slot holds, so
// a reopened chooser can pre-select it.
func (c *Composer) CurrentSlotSelection(key slot.Key) (productID, skuID int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.IsMember(key) {
		return 0, 0, false
	}
	v, sku, ok := c.store.Displayed(key)
	if !ok {
		return 0, 0, false
	}
	return v.ProductID, sku.ID, true
}

// recompute issues a fresh price simulation for the current selection.
// Only the result of the most recent snapshot is ever applied; responses
// of superseded snapshots are discarded regardless of arrival order.
func (c *Composer) recompute(ctx context.Context) {
	c.mu.Lock()

	c.simSeq++
	seq := c.simSeq

	members := c.store.Members()
	if len(members) == 0 {
		c.sim = domain.SimulationResult{}
		c.mu.Unlock()
		return
	}

	items := make([]domain.SimulationItem, 0, len(members))
	var regularTotal int64
	for _, m := range members {
		items = append(items, domain.SimulationItem{
			ItemID:   strconv.Itoa(m.Sku.ID),
			Price:    m.Sku.BestPrice,
			SellerID: m.Sku.SellerID,
		})
		regularTotal += m.Sku.BestPrice
	}
	c.sim.Loading = true
	c.mu.Unlock()

	go func() {
		result, err := c.checkout.Simulate(ctx, items)

		c.mu.Lock()
		defer c.mu.Unlock()

		if seq != c.simSeq {
			log.Debugf("Discarding superseded simulation snapshot %d (latest %d)", seq, c.simSeq)
			return
		}
		if err != nil {
			log.Errorf("❌ Price simulation failed: %v", err)
			c.sim = domain.SimulationResult{RegularTotal: regularTotal}
			return
		}
		applied := *result
		applied.Loading = false
		c.sim = applied
	}()
}

// Totals returns the current simulation result. Loading is set while the
// newest selection snapshot has not resolved yet.
func (c *Composer) Totals() domain.SimulationResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sim
}

// Commit maps every member to a cart line item and issues one batch
// add-to-cart call. A second commit while one is in flight is rejected,
// and a failed commit leaves the selection untouched for retry.
func (c *Composer) Commit(ctx context.Context) error {
	c.mu.Lock()
	if c.committing {
		c.mu.Unlock()
		return ErrCommitInFlight
	}
	members := c.store.Members()
	if len(members) == 0 {
		c.mu.Unlock()
		return ErrEmptySelection
	}
	c.committing = true
	c.mu.Unlock()
	defer c.endCommit()

	items := make([]domain.CartLineItem, 0, len(members))
	for _, m := range members {
		items = append(items, domain.CartLineItem{
			ItemID:   strconv.Itoa(m.Sku.ID),
			SellerID: m.Sku.SellerID,
			Quantity: 1,
			Price:    m.Sku.BestPrice,
			Name:     m.Sku.Name,
			ImageURL: m.Sku.Image,
		})
	}

	if err := c.checkout.AddToCart(ctx, items); err != nil {
		return fmt.Errorf("failed to commit bundle: %w", err)
	}

	log.Infof("✅ Committed %d products to the cart", len(items))
	return nil
}

// commitSingle is the hotspot detail view's add path: one line item, no
// batch simulation, same double-submit guard as Commit.
func (c *Composer) commitSingle(ctx context.Context, item domain.CartLineItem) error {
	c.mu.Lock()
	if c.committing {
		c.mu.Unlock()
		return ErrCommitInFlight
	}
	c.committing = true
	c.mu.Unlock()
	defer c.endCommit()

	if err := c.checkout.AddToCart(ctx, []domain.CartLineItem{item}); err != nil {
		return fmt.Errorf("failed to add product to cart: %w", err)
	}

	log.Infof("✅ Added product %s to the cart", item.ItemID)
	return nil
}

func (c *Composer) endCommit() {
	c.mu.Lock()
	c.committing = false
	c.mu.Unlock()
}

// IsCommitting reports whether a commit is in flight, for the UI to
// disable its affordance.
func (c *Composer) IsCommitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.committing
}

// Mode returns the slot-sourcing mode of the last load.
func (c *Composer) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mode
}

// Phase returns the coarse UI state of the bundle.
func (c *Composer) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.phase
}

// Err returns the load error when Phase is PhaseError.
func (c *Composer) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loadErr
}

// Members returns the committed selections in slot declaration order.
func (c *Composer) Members() []state.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.Members()
}

// Displayed returns the variation and SKU a slot currently shows.
func (c *Composer) Displayed(key slot.Key) (*domain.Variation, domain.Sku, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.Displayed(key)
}

// IsMember reports whether a slot is part of the bundle.
func (c *Composer) IsMember(key slot.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.IsMember(key)
}

// Hotspots returns the markers that resolved to a catalog product.
func (c *Composer) Hotspots() []slot.Hotspot {
	c.mu.Lock()
	defer c.mu.Unlock()

	hotspots := make([]slot.Hotspot, len(c.hotspots))
	copy(hotspots, c.hotspots)
	return hotspots
}

// MemberThumbnails returns the member SKU images normalized to the given
// width, in slot declaration order, for the bundle summary strip.
func (c *Composer) MemberThumbnails(width int) []string {
	members := c.Members()
	urls := make([]string, 0, len(members))
	for _, m := range members {
		urls = append(urls, imageref.Normalize(m.Sku.Image, width))
	}
	return urls
}

// Close marks the composer as unmounted: in-flight catalog and simulation
// responses arriving afterwards are discarded.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.simSeq++
}
