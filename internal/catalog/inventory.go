package catalog

import "storefront-service/internal/models"

// SizeOrder is the canonical display order for sizes.
var SizeOrder = []string{"S", "M", "L", "XL", "XXL", "3XL", "4XL"}

// lowStockThreshold marks sizes worth a "Left: N" hint.
const lowStockThreshold = 5

// Inventory answers stock questions for (sub code, size) pairs. Absence of a
// record means zero stock, never an error.
type Inventory struct {
	byKey map[invKey]models.InventoryRecord
}

type invKey struct {
	subCode string
	size    string
}

// NewInventory builds the lookup from the flat inventory list. When the feed
// carries duplicate (sub_code, size) rows the first one wins.
func NewInventory(records []models.InventoryRecord) *Inventory {
	inv := &Inventory{byKey: make(map[invKey]models.InventoryRecord, len(records))}
	for _, r := range records {
		k := invKey{subCode: r.SubCode, size: r.Size}
		if _, ok := inv.byKey[k]; ok {
			continue
		}
		inv.byKey[k] = r
	}
	return inv
}

// StockFor returns the stock quantity and SKU identifier for a variant size.
// A missing record yields (0, "").
func (inv *Inventory) StockFor(subCode, size string) (int, string) {
	r, ok := inv.byKey[invKey{subCode: subCode, size: size}]
	if !ok {
		return 0, ""
	}
	if r.StockQty < 0 {
		return 0, r.SKUID
	}
	return r.StockQty, r.SKUID
}

// SizeAvailability is one row of the size picker for a variant.
type SizeAvailability struct {
	Size     string `json:"size"`
	SKUID    string `json:"sku_id"`
	Qty      int    `json:"qty"`
	LowStock bool   `json:"low_stock"`
}

// SizesFor returns availability for every canonical size of a variant, in
// canonical order. Sold-out sizes appear with Qty 0.
func (inv *Inventory) SizesFor(subCode string) []SizeAvailability {
	out := make([]SizeAvailability, 0, len(SizeOrder))
	for _, size := range SizeOrder {
		qty, sku := inv.StockFor(subCode, size)
		out = append(out, SizeAvailability{
			Size:     size,
			SKUID:    sku,
			Qty:      qty,
			LowStock: qty > 0 && qty < lowStockThreshold,
		})
	}
	return out
}
