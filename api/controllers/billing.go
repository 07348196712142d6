package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/api/middleware"
	"github.com/shopkeeperhq/shopkeeper-backend/api/responses"
	"github.com/shopkeeperhq/shopkeeper-backend/api/validators"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/billing"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

type cartQuoteRequest struct {
	Lines          []billing.Line   `json:"lines" validate:"required"`
	TaxRatePercent decimal.Decimal  `json:"tax_rate_percent"`
	AmountPaid     *decimal.Decimal `json:"amount_paid,omitempty"`
}

type cartQuoteResponse struct {
	Lines     []quotedLine     `json:"lines"`
	Totals    billing.Totals   `json:"totals"`
	ChangeDue *decimal.Decimal `json:"change_due,omitempty"`
}

type quotedLine struct {
	billing.Line
	BaseQty   decimal.Decimal `json:"base_qty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartQuote prices a cart without touching stock. Clients call it on every
// cart edit; settlement is a separate call.
func CartQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userID := middleware.UserIDFromContext(r.Context()); userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload cartQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := billing.NewCartFromLines(payload.Lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := cart.Totals(payload.TaxRatePercent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoted := make([]quotedLine, 0, cart.Len())
		for _, line := range cart.Lines() {
			baseQty, err := line.BaseQty()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			lineTotal, err := line.Total()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			quoted = append(quoted, quotedLine{Line: line, BaseQty: baseQty, LineTotal: lineTotal})
		}

		resp := cartQuoteResponse{Lines: quoted, Totals: totals}
		if payload.AmountPaid != nil {
			change := billing.ChangeDue(*payload.AmountPaid, totals.GrandTotal)
			resp.ChangeDue = &change
		}
		responses.WriteSuccess(w, resp)
	}
}
