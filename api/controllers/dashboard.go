package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/api/middleware"
	"github.com/shopkeeperhq/shopkeeper-backend/api/responses"
	inventorysvc "github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	ledgersvc "github.com/shopkeeperhq/shopkeeper-backend/internal/ledger"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

const recentEntryLimit = 10

type dashboardSummary struct {
	ItemCount     int                    `json:"item_count"`
	TotalValue    decimal.Decimal        `json:"total_value"`
	LowStock      []models.InventoryItem `json:"low_stock"`
	RecentEntries []models.StockEntry    `json:"recent_entries"`
}

// DashboardSummary assembles the home screen numbers in one call.
func DashboardSummary(inventory inventorysvc.Service, ledger ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		items, err := inventory.ListItems(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := ledger.ListRecent(r.Context(), userID, recentEntryLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboardSummary{
			ItemCount:     len(items),
			TotalValue:    inventorysvc.TotalValue(items),
			LowStock:      inventorysvc.LowStock(items),
			RecentEntries: entries,
		})
	}
}
