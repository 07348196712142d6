package controllers

import (
	"net/http"

	"github.com/shopkeeperhq/shopkeeper-backend/api/middleware"
	"github.com/shopkeeperhq/shopkeeper-backend/api/responses"
	"github.com/shopkeeperhq/shopkeeper-backend/api/validators"
	checkoutsvc "github.com/shopkeeperhq/shopkeeper-backend/internal/checkout"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

// Checkout settles the cart and returns the persisted invoice.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload checkoutsvc.SettleInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Settle(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}
