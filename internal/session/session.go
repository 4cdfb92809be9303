package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
	"storefront-service/internal/zones"
)

// Catalog bundles the read-only store data a session operates over. It is
// swapped wholesale on refresh; existing sessions keep the snapshot they were
// created with.
type Catalog struct {
	Index     *catalog.Index
	Inventory *catalog.Inventory
	Zones     *zones.Resolver
	Config    models.StoreConfig
}

// Candidate is the pending add-to-cart choice: a size with its SKU and the
// stock ceiling snapshotted at pick time.
type Candidate struct {
	Size   string `json:"size"`
	SKU    string `json:"sku"`
	MaxQty int    `json:"max_qty"`
}

// Session holds all selection state for one shopper: the active variant
// group, active variant, pending size candidate, delivery choices, and the
// cart ledger. All mutations go through its methods under the session lock,
// so no two mutations ever interleave.
type Session struct {
	id       string
	catalog  *Catalog
	ledger   *cart.Ledger
	lastSeen time.Time

	mu        sync.Mutex
	group     []models.Variant
	active    *models.Variant
	candidate *Candidate

	deliveryMethod string
	region         string
	town           string
	area           string
	deliveryFee    float64
}

func newSession(id string, cat *Catalog, ledger *cart.Ledger) *Session {
	return &Session{
		id:             id,
		catalog:        cat,
		ledger:         ledger,
		lastSeen:       time.Now(),
		deliveryMethod: models.DeliveryMethodDelivery,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Config returns the store configuration snapshot this session was created
// with.
func (s *Session) Config() models.StoreConfig { return s.catalog.Config }

// Open activates the variant group of the given variant and selects it.
func (s *Session) Open(subCode string) (models.Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.catalog.Index.Find(subCode)
	if !ok {
		return models.Variant{}, models.NewValidationFailure("sub_code", fmt.Sprintf("unknown variant %q", subCode))
	}
	s.group = s.catalog.Index.VariantsOf(v.ParentCode)
	return s.selectLocked(subCode)
}

// Select activates a variant within the currently open group. Selecting a
// variant outside the group fails and leaves the selection unchanged.
func (s *Session) Select(subCode string) (models.Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(subCode)
}

func (s *Session) selectLocked(subCode string) (models.Variant, error) {
	for i := range s.group {
		if s.group[i].SubCode == subCode {
			v := s.group[i]
			s.active = &v
			// any previously picked size belongs to the old variant
			s.candidate = nil
			return v, nil
		}
	}
	return models.Variant{}, models.NewValidationFailure("sub_code", fmt.Sprintf("variant %q is not in the open group", subCode))
}

// PickSize stores the pending add-to-cart candidate for the active variant.
// Sizes with zero stock cannot be picked.
func (s *Session) PickSize(size string) (Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return Candidate{}, models.NewStateFailure("no variant selected")
	}
	qty, sku := s.catalog.Inventory.StockFor(s.active.SubCode, size)
	if qty <= 0 {
		return Candidate{}, models.NewStockFailure(fmt.Sprintf("size %s is out of stock", size))
	}
	s.candidate = &Candidate{Size: size, SKU: sku, MaxQty: qty}
	return *s.candidate, nil
}

// AddToCart turns the pending candidate into a cart line, snapshotting the
// active variant's current display price and the candidate's stock ceiling.
func (s *Session) AddToCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.candidate == nil {
		return models.NewStateFailure("pick a variant and size first")
	}
	line := models.CartLine{
		SKU:         s.candidate.SKU,
		ParentCode:  s.active.ParentCode,
		ProductName: s.active.ProductName,
		Image:       s.active.MainImageURL,
		Color:       s.active.ColorName,
		Size:        s.candidate.Size,
		Price:       s.active.DisplayPrice(),
		MaxQty:      s.candidate.MaxQty,
	}
	return s.ledger.AddOrIncrement(ctx, line)
}

// CloseVariant discards the modal-scoped selection state.
func (s *Session) CloseVariant() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group = nil
	s.active = nil
	s.candidate = nil
}

// RemoveLine deletes a cart line by SKU.
func (s *Session) RemoveLine(ctx context.Context, sku string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Remove(ctx, sku)
}

// SetLineQty changes a cart line quantity within [1, maxQty].
func (s *Session) SetLineQty(ctx context.Context, sku string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.SetQty(ctx, sku, qty)
}

// Lines returns the current cart lines.
func (s *Session) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Lines()
}

// ClearCart empties the cart after a confirmed order.
func (s *Session) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Clear(ctx)
}

// SetDeliveryMethod switches between pickup and delivery.
func (s *Session) SetDeliveryMethod(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if method != models.DeliveryMethodPickup && method != models.DeliveryMethodDelivery {
		return models.NewValidationFailure("method", fmt.Sprintf("unknown delivery method %q", method))
	}
	s.deliveryMethod = method
	return nil
}

// SelectRegion chooses a delivery region, invalidating any previously chosen
// town, area, and fee.
func (s *Session) SelectRegion(region string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = region
	s.town = ""
	s.area = ""
	s.deliveryFee = 0
}

// SelectTown chooses a town within the selected region, invalidating any
// previously chosen area and fee.
func (s *Session) SelectTown(town string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.region == "" {
		return models.NewValidationFailure("region", "select a region first")
	}
	s.town = town
	s.area = ""
	s.deliveryFee = 0
	return nil
}

// SelectArea chooses an area and sets the delivery fee to its listed price.
// An empty area deselects and zeroes the fee.
func (s *Session) SelectArea(area string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if area == "" {
		s.area = ""
		s.deliveryFee = 0
		return nil
	}
	if s.region == "" || s.town == "" {
		return models.NewValidationFailure("area", "select a region and town first")
	}
	fee, ok := s.catalog.Zones.FeeFor(s.region, s.town, area)
	if !ok {
		return models.NewValidationFailure("area", fmt.Sprintf("unknown area %q", area))
	}
	s.area = area
	s.deliveryFee = fee
	return nil
}

// DeliveryMethod returns the current delivery method.
func (s *Session) DeliveryMethod() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliveryMethod
}

// DeliveryFee returns the currently resolved fee.
func (s *Session) DeliveryFee() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliveryFee
}

// AreaChosen reports whether a deliverable area is selected.
func (s *Session) AreaChosen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.area != ""
}

// Address resolves the shipping destination: the zone cascade result for
// delivery orders, or the pickup sentinel.
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deliveryMethod != models.DeliveryMethodDelivery {
		return models.PickupAddress
	}
	if s.area == "" {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s", s.area, s.town, s.region)
}

// Totals computes the current money breakdown from the ledger and delivery
// selection.
func (s *Session) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.ComputeTotals(s.ledger.Lines(), s.deliveryMethod, s.deliveryFee)
}

// State is a read-only view of the session selection for the API layer.
type State struct {
	ID             string                     `json:"id"`
	Group          []models.Variant           `json:"group,omitempty"`
	Active         *models.Variant            `json:"active,omitempty"`
	Sizes          []catalog.SizeAvailability `json:"sizes,omitempty"`
	Candidate      *Candidate                 `json:"candidate,omitempty"`
	DeliveryMethod string                     `json:"delivery_method"`
	Region         string                     `json:"region,omitempty"`
	Town           string                     `json:"town,omitempty"`
	Area           string                     `json:"area,omitempty"`
	DeliveryFee    float64                    `json:"delivery_fee"`
}

// Snapshot returns the current selection state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:             s.id,
		DeliveryMethod: s.deliveryMethod,
		Region:         s.region,
		Town:           s.town,
		Area:           s.area,
		DeliveryFee:    s.deliveryFee,
	}
	if len(s.group) > 0 {
		st.Group = make([]models.Variant, len(s.group))
		copy(st.Group, s.group)
	}
	if s.active != nil {
		v := *s.active
		st.Active = &v
		st.Sizes = s.catalog.Inventory.SizesFor(v.SubCode)
	}
	if s.candidate != nil {
		c := *s.candidate
		st.Candidate = &c
	}
	return st
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
