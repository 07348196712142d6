package checkout

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/ledger"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/settings"
	dbpkg "github.com/shopkeeperhq/shopkeeper-backend/pkg/db"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/units"
)

// DefaultCustomerName stands in when the cashier skips the name field.
const DefaultCustomerName = "Walk-in"

// SettleLine is one cart line presented for settlement. Prices come from
// the stored item, not the client.
type SettleLine struct {
	ItemID     uuid.UUID       `json:"item_id" validate:"required"`
	Unit       enums.UnitKey   `json:"unit" validate:"required"`
	EnteredQty decimal.Decimal `json:"entered_qty"`
}

// SettleInput is a full checkout request.
type SettleInput struct {
	Lines          []SettleLine    `json:"lines"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	CustomerName   string          `json:"customer_name,omitempty"`
}

// Service turns a cart into an invoice, all-or-nothing.
type Service interface {
	Settle(ctx context.Context, userID string, input SettleInput) (*models.Invoice, error)
	GetInvoice(ctx context.Context, userID string, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, userID string) ([]models.Invoice, error)
}

type service struct {
	client   *dbpkg.Client
	invoices Repository
	items    inventory.Repository
	ledger   ledger.Service
	settings settings.Service
	logg     *logger.Logger
}

// NewService wires a checkout service with the provided dependencies.
func NewService(client *dbpkg.Client, invoices Repository, items inventory.Repository, ledgerSvc ledger.Service, settingsSvc settings.Service, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if invoices == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	return &service{
		client:   client,
		invoices: invoices,
		items:    items,
		ledger:   ledgerSvc,
		settings: settingsSvc,
		logg:     logg,
	}, nil
}

// Settle deducts stock, appends one out ledger entry per line and writes the
// invoice inside a single transaction. Any shortfall rolls the whole sale
// back; no partial deduction ever commits.
func (s *service) Settle(ctx context.Context, userID string, input SettleInput) (*models.Invoice, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "nothing to settle")
	}
	if input.TaxRatePercent.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate cannot be negative")
	}
	for i, line := range input.Lines {
		if !line.EnteredQty.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity,
				fmt.Sprintf("line %d quantity must be positive", i))
		}
	}

	customer := strings.TrimSpace(input.CustomerName)
	if customer == "" {
		customer = DefaultCustomerName
	}

	profile, err := s.settings.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	invoiceID := uuid.New()
	invoiceNo := strings.ToUpper(invoiceID.String()[:8])

	var invoice *models.Invoice
	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)

		subtotal := decimal.Zero
		lines := make([]models.InvoiceLine, 0, len(input.Lines))

		for _, reqLine := range input.Lines {
			item, err := items.FindByID(ctx, userID, reqLine.ItemID)
			if err != nil {
				if stdErrors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "inventory item not found")
				}
				return err
			}

			mult, err := units.Multiplier(reqLine.Unit, item.IsLengthBased)
			if err != nil {
				return err
			}
			baseQty := reqLine.EnteredQty.Mul(mult)
			lineTotal := baseQty.Mul(item.Price)

			ok, err := items.DecrementQuantityGuarded(ctx, userID, item.ID, baseQty)
			if err != nil {
				return err
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("not enough %q in stock", item.Name)).
					WithDetails(map[string]any{
						"item_id":   item.ID.String(),
						"requested": baseQty.String(),
						"available": item.Quantity.String(),
					})
			}

			if _, err := s.ledger.Append(ctx, tx, ledger.AppendEntryInput{
				UserID:      userID,
				ItemID:      item.ID,
				ItemName:    item.Name,
				EntryType:   enums.EntryTypeOut,
				Quantity:    baseQty,
				PriceAtTime: item.Price,
				InvoiceNo:   &invoiceNo,
				Kind:        enums.LedgerKindSale,
			}); err != nil {
				return err
			}

			lines = append(lines, models.InvoiceLine{
				ID:         uuid.New(),
				InvoiceID:  invoiceID,
				ItemID:     item.ID,
				ItemName:   item.Name,
				Unit:       reqLine.Unit,
				EnteredQty: reqLine.EnteredQty,
				BaseQty:    baseQty,
				UnitPrice:  item.Price,
				LineTotal:  lineTotal,
			})
			subtotal = subtotal.Add(lineTotal)
		}

		tax := subtotal.Mul(input.TaxRatePercent).Div(decimal.NewFromInt(100))
		invoice = &models.Invoice{
			ID:             invoiceID,
			UserID:         userID,
			InvoiceNo:      invoiceNo,
			CustomerName:   customer,
			Subtotal:       subtotal,
			TaxRatePercent: input.TaxRatePercent,
			TaxAmount:      tax,
			GrandTotal:     subtotal.Add(tax),
			StoreName:      profile.StoreName,
			StoreAddress:   profile.Address,
			StorePhone:     profile.Phone,
			StoreGSTIN:     profile.GSTIN,
			Lines:          lines,
		}
		return s.invoices.WithTx(tx).Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithInvoiceNo(ctx, invoiceNo)
		s.logg.Info(logCtx, "sale settled")
	}
	return invoice, nil
}

func (s *service) GetInvoice(ctx context.Context, userID string, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, userID, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invoice not found")
		}
		return nil, err
	}
	return invoice, nil
}

func (s *service) ListInvoices(ctx context.Context, userID string) ([]models.Invoice, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.invoices.ListByUser(ctx, userID)
}
