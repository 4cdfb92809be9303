package catalog

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func testRecords() []models.InventoryRecord {
	return []models.InventoryRecord{
		{SubCode: "TEE-BLK", Size: "M", SKUID: "TEE-BLK-M", StockQty: 10},
		{SubCode: "TEE-BLK", Size: "L", SKUID: "TEE-BLK-L", StockQty: 3},
		{SubCode: "TEE-BLK", Size: "XL", SKUID: "TEE-BLK-XL", StockQty: 0},
	}
}

func TestStockForMissingRecordIsZero(t *testing.T) {
	inv := NewInventory(testRecords())

	qty, sku := inv.StockFor("TEE-BLK", "S")
	assert.Equal(t, 0, qty)
	assert.Equal(t, "", sku)

	qty, sku = inv.StockFor("UNKNOWN", "M")
	assert.Equal(t, 0, qty)
	assert.Equal(t, "", sku)
}

func TestStockForNegativeQtyClampsToZero(t *testing.T) {
	inv := NewInventory([]models.InventoryRecord{
		{SubCode: "TEE-BLK", Size: "M", SKUID: "TEE-BLK-M", StockQty: -2},
	})

	qty, sku := inv.StockFor("TEE-BLK", "M")
	assert.Equal(t, 0, qty)
	assert.Equal(t, "TEE-BLK-M", sku)
}

func TestStockForDuplicateFirstWins(t *testing.T) {
	inv := NewInventory([]models.InventoryRecord{
		{SubCode: "TEE-BLK", Size: "M", SKUID: "FIRST", StockQty: 4},
		{SubCode: "TEE-BLK", Size: "M", SKUID: "SECOND", StockQty: 9},
	})

	qty, sku := inv.StockFor("TEE-BLK", "M")
	assert.Equal(t, 4, qty)
	assert.Equal(t, "FIRST", sku)
}

func TestSizesForCanonicalOrderAndLowStock(t *testing.T) {
	inv := NewInventory(testRecords())

	sizes := inv.SizesFor("TEE-BLK")
	assert.Len(t, sizes, len(SizeOrder))

	for i, s := range sizes {
		assert.Equal(t, SizeOrder[i], s.Size)
	}

	bySize := make(map[string]SizeAvailability)
	for _, s := range sizes {
		bySize[s.Size] = s
	}

	assert.Equal(t, 10, bySize["M"].Qty)
	assert.False(t, bySize["M"].LowStock)

	assert.Equal(t, 3, bySize["L"].Qty)
	assert.True(t, bySize["L"].LowStock)

	assert.Equal(t, 0, bySize["XL"].Qty)
	assert.False(t, bySize["XL"].LowStock, "sold out is not low stock")

	assert.Equal(t, 0, bySize["S"].Qty)
	assert.Equal(t, "", bySize["S"].SKUID)
}
