package state

import (
	"errors"
	"sync"

	"github.com/josefo727/oneillco-buy-together/internal/domain"
	"github.com/josefo727/oneillco-buy-together/internal/domain/slot"
)

var (
	// ErrUnknownSlot is returned for operations on a slot that was never defined.
	ErrUnknownSlot = errors.New("unknown slot")
	// ErrNoDisplayedSku is returned when membership is toggled on a slot
	// that has nothing displayed yet.
	ErrNoDisplayedSku = errors.New("no sku displayed for slot")
	// ErrSkuMismatch is returned when a SKU change names a SKU the slot's
	// displayed variation does not carry.
	ErrSkuMismatch = errors.New("sku does not belong to the displayed variation")
)

// Selection is one committed slot: the displayed variation and SKU pair.
type Selection struct {
	Key       slot.Key
	Variation *domain.Variation
	Sku       domain.Sku
}

// SelectionStore tracks, per slot, the variation and SKU currently on
// display plus whether the slot is part of the bundle. Membership only
// records slot keys; member pairs are always read from the displayed
// state, so a member's SKU belongs to its variation by construction.
type SelectionStore interface {
	DefineSlot(key slot.Key)
	SelectVariation(key slot.Key, v *domain.Variation) error
	ChangeSku(key slot.Key, skuID int) error
	ToggleMembership(key slot.Key) (added bool, err error)
	Remove(key slot.Key) bool
	Displayed(key slot.Key) (*domain.Variation, domain.Sku, bool)
	IsMember(key slot.Key) bool
	Members() []Selection
	Len() int
}

type displayState struct {
	variation *domain.Variation
	sku       domain.Sku
	hasSku    bool
}

type selectionStore struct {
	mu        sync.Mutex
	order     []slot.Key
	displayed map[slot.Key]*displayState
	members   map[slot.Key]struct{}
}

// NewSelectionStore creates an empty store for one bundle instance. Stores
// are never shared across bundles.
func NewSelectionStore() SelectionStore {
	return &selectionStore{
		displayed: make(map[slot.Key]*displayState),
		members:   make(map[slot.Key]struct{}),
	}
}

func (s *selectionStore) DefineSlot(key slot.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.displayed[key]; ok {
		return
	}
	s.displayed[key] = &displayState{}
	s.order = append(s.order, key)
}

// SelectVariation puts a variation on display for the slot. When the slot
// has no SKU yet, or its SKU does not belong to the new variation, the
// default SKU is auto-selected. Membership is not changed.
func (s *selectionStore) SelectVariation(key slot.Key, v *domain.Variation) error {
	if v == nil {
		return errors.New("nil variation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.displayed[key]
	if !ok {
		return ErrUnknownSlot
	}

	st.variation = v
	if !st.hasSku || !v.HasSku(st.sku.ID) {
		sku, ok := v.DefaultSku(0)
		if !ok {
			st.hasSku = false
			return nil
		}
		st.sku = sku
		st.hasSku = true
	}
	return nil
}

// ChangeSku swaps the displayed SKU. When the slot is a member the swap is
// what the bundle sees as well, in one step, because member pairs read the
// displayed state.
func (s *selectionStore) ChangeSku(key slot.Key, skuID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.displayed[key]
	if !ok {
		return ErrUnknownSlot
	}
	if st.variation == nil {
		return ErrNoDisplayedSku
	}

	sku, ok := st.variation.FindSku(skuID)
	if !ok {
		return ErrSkuMismatch
	}

	st.sku = sku
	st.hasSku = true
	return nil
}

// ToggleMembership adds the slot to the bundle using its displayed SKU, or
// removes it when it already is a member.
func (s *selectionStore) ToggleMembership(key slot.Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.displayed[key]
	if !ok {
		return false, ErrUnknownSlot
	}

	if _, member := s.members[key]; member {
		delete(s.members, key)
		return false, nil
	}

	if st.variation == nil || !st.hasSku {
		return false, ErrNoDisplayedSku
	}
	s.members[key] = struct{}{}
	return true, nil
}

// Remove drops the slot from the bundle. Display state is kept so the slot
// can be re-added later.
func (s *selectionStore) Remove(key slot.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, member := s.members[key]; !member {
		return false
	}
	delete(s.members, key)
	return true
}

func (s *selectionStore) Displayed(key slot.Key) (*domain.Variation, domain.Sku, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.displayed[key]
	if !ok || st.variation == nil || !st.hasSku {
		return nil, domain.Sku{}, false
	}
	return st.variation, st.sku, true
}

func (s *selectionStore) IsMember(key slot.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, member := s.members[key]
	return member
}

// Members returns the committed selections in slot declaration order.
func (s *selectionStore) Members() []Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	selections := make([]Selection, 0, len(s.members))
	for _, key := range s.order {
		if _, member := s.members[key]; !member {
			continue
		}
		st := s.displayed[key]
		selections = append(selections, Selection{
			Key:       key,
			Variation: st.variation,
			Sku:       st.sku,
		})
	}
	return selections
}

func (s *selectionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.members)
}
