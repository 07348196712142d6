package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
)

// CategoryRollup aggregates stock for one category.
type CategoryRollup struct {
	Category      string          `json:"category"`
	ItemCount     int             `json:"item_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// LowStockThreshold returns the effective threshold for an item.
func LowStockThreshold(item models.InventoryItem) int {
	if item.MinStock != nil && *item.MinStock > 0 {
		return *item.MinStock
	}
	return DefaultMinStock
}

// LowStock filters a snapshot down to items at or below their threshold.
func LowStock(items []models.InventoryItem) []models.InventoryItem {
	var low []models.InventoryItem
	for _, item := range items {
		threshold := decimal.NewFromInt(int64(LowStockThreshold(item)))
		if item.Quantity.LessThanOrEqual(threshold) {
			low = append(low, item)
		}
	}
	return low
}

// TotalValue sums price x quantity across the snapshot.
func TotalValue(items []models.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(item.Quantity))
	}
	return total
}

// StockByCategory rolls the snapshot up per category, sorted by name.
func StockByCategory(items []models.InventoryItem) []CategoryRollup {
	byCategory := map[string]*CategoryRollup{}
	for _, item := range items {
		rollup, ok := byCategory[item.Category]
		if !ok {
			rollup = &CategoryRollup{
				Category:      item.Category,
				TotalQuantity: decimal.Zero,
				TotalValue:    decimal.Zero,
			}
			byCategory[item.Category] = rollup
		}
		rollup.ItemCount++
		rollup.TotalQuantity = rollup.TotalQuantity.Add(item.Quantity)
		rollup.TotalValue = rollup.TotalValue.Add(item.Price.Mul(item.Quantity))
	}

	rollups := make([]CategoryRollup, 0, len(byCategory))
	for _, rollup := range byCategory {
		rollups = append(rollups, *rollup)
	}
	sort.Slice(rollups, func(i, j int) bool {
		return rollups[i].Category < rollups[j].Category
	})
	return rollups
}
