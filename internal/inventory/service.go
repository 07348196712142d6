package inventory

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopkeeperhq/shopkeeper-backend/internal/ledger"
	dbpkg "github.com/shopkeeperhq/shopkeeper-backend/pkg/db"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

const (
	noteInitialStock   = "initial stock"
	noteEditCorrection = "manual edit correction"
	noteBulkReceipt    = "bulk receipt"
)

// Service owns the inventory item lifecycle. Every quantity mutation commits
// atomically with exactly one ledger entry and its mirror event.
type Service interface {
	CreateItem(ctx context.Context, userID string, input CreateItemInput) (*models.InventoryItem, error)
	GetItem(ctx context.Context, userID string, itemID uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, userID string) ([]models.InventoryItem, error)
	AdjustQuantity(ctx context.Context, userID string, itemID uuid.UUID, input AdjustQuantityInput) (*models.InventoryItem, error)
	EditItem(ctx context.Context, userID string, itemID uuid.UUID, input EditItemInput) (*models.InventoryItem, error)
	ApplyCoilReceipt(ctx context.Context, userID string, itemID uuid.UUID, input CoilReceiptInput) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, userID string, itemID uuid.UUID) error
}

type service struct {
	client *dbpkg.Client
	repo   Repository
	ledger ledger.Service
	logg   *logger.Logger
}

// NewService wires an inventory service with the provided dependencies.
func NewService(client *dbpkg.Client, repo Repository, ledgerSvc ledger.Service, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &service{client: client, repo: repo, ledger: ledgerSvc, logg: logg}, nil
}

func (s *service) CreateItem(ctx context.Context, userID string, input CreateItemInput) (*models.InventoryItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item category is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Quantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity cannot be negative")
	}
	if err := validateImage(input.ImageData); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		Category:      strings.TrimSpace(input.Category),
		Description:   input.Description,
		Price:         input.Price,
		Quantity:      input.Quantity,
		MinStock:      input.MinStock,
		IsLengthBased: input.IsLengthBased,
		ImageData:     input.ImageData,
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, item); err != nil {
			return err
		}
		if item.Quantity.IsPositive() {
			note := noteInitialStock
			_, err := s.ledger.Append(ctx, tx, ledger.AppendEntryInput{
				UserID:      userID,
				ItemID:      item.ID,
				ItemName:    item.Name,
				EntryType:   enums.EntryTypeIn,
				Quantity:    item.Quantity,
				PriceAtTime: item.Price,
				Note:        &note,
				Kind:        enums.LedgerKindInitialAdd,
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithItemID(ctx, item.ID.String()), "inventory item created")
	}
	return item, nil
}

func (s *service) GetItem(ctx context.Context, userID string, itemID uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, userID, itemID)
	if err != nil {
		return nil, asNotFound(err)
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

// AdjustQuantity applies a signed delta to the stored quantity. Zero deltas
// are a no-op; a delta that would drive the quantity negative fails with
// nothing committed.
func (s *service) AdjustQuantity(ctx context.Context, userID string, itemID uuid.UUID, input AdjustQuantityInput) (*models.InventoryItem, error) {
	if input.Delta.IsZero() {
		return s.GetItem(ctx, userID, itemID)
	}

	var updated *models.InventoryItem
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		item, err := s.repo.WithTx(tx).FindByID(ctx, userID, itemID)
		if err != nil {
			return asNotFound(err)
		}

		var note *string
		if trimmed := strings.TrimSpace(input.Note); trimmed != "" {
			note = &trimmed
		}
		if err := s.applyDelta(ctx, tx, item, input.Delta, note, enums.LedgerKindManualUpdate); err != nil {
			return err
		}

		updated, err = s.repo.WithTx(tx).FindByID(ctx, userID, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// EditItem applies arbitrary field changes. A quantity change rides along as
// an adjustment entry so the ledger explains the jump.
func (s *service) EditItem(ctx context.Context, userID string, itemID uuid.UUID, input EditItemInput) (*models.InventoryItem, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item category is required")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Quantity != nil && input.Quantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity cannot be negative")
	}
	if err := validateImage(input.ImageData); err != nil {
		return nil, err
	}

	var updated *models.InventoryItem
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		item, err := s.repo.WithTx(tx).FindByID(ctx, userID, itemID)
		if err != nil {
			return asNotFound(err)
		}

		if input.Name != nil {
			item.Name = strings.TrimSpace(*input.Name)
		}
		if input.Category != nil {
			item.Category = strings.TrimSpace(*input.Category)
		}
		if input.Description != nil {
			item.Description = input.Description
		}
		if input.Price != nil {
			item.Price = *input.Price
		}
		if input.MinStock != nil {
			item.MinStock = input.MinStock
		}
		if input.IsLengthBased != nil {
			item.IsLengthBased = *input.IsLengthBased
		}
		if input.ImageData != nil {
			item.ImageData = input.ImageData
		}

		var delta decimal.Decimal
		if input.Quantity != nil {
			delta = input.Quantity.Sub(item.Quantity)
		}

		if err := s.repo.WithTx(tx).Save(ctx, item); err != nil {
			return err
		}

		if !delta.IsZero() {
			note := noteEditCorrection
			if err := s.applyDelta(ctx, tx, item, delta, &note, enums.LedgerKindEditCorrection); err != nil {
				return err
			}
		}

		updated, err = s.repo.WithTx(tx).FindByID(ctx, userID, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ApplyCoilReceipt books coilCount x lengthPerCoil of new stock and forces
// the item onto length-based tracking. The coil cost is logged for the
// operator but never changes the selling price.
func (s *service) ApplyCoilReceipt(ctx context.Context, userID string, itemID uuid.UUID, input CoilReceiptInput) (*models.InventoryItem, error) {
	if input.CoilCount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coil count must be positive")
	}
	lengthPerCoil := DefaultCoilLength
	if input.LengthPerCoil != nil {
		if !input.LengthPerCoil.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "length per coil must be positive")
		}
		lengthPerCoil = *input.LengthPerCoil
	}
	totalLength := lengthPerCoil.Mul(decimal.NewFromInt(int64(input.CoilCount)))

	var updated *models.InventoryItem
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		item, err := s.repo.WithTx(tx).FindByID(ctx, userID, itemID)
		if err != nil {
			return asNotFound(err)
		}

		if !item.IsLengthBased {
			item.IsLengthBased = true
			if err := s.repo.WithTx(tx).Save(ctx, item); err != nil {
				return err
			}
		}

		note := noteBulkReceipt
		if err := s.applyDelta(ctx, tx, item, totalLength, &note, enums.LedgerKindManualUpdate); err != nil {
			return err
		}

		updated, err = s.repo.WithTx(tx).FindByID(ctx, userID, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil && input.CostPerCoil != nil {
		fields := map[string]any{
			"item_id":       itemID.String(),
			"coil_count":    input.CoilCount,
			"cost_per_coil": input.CostPerCoil.String(),
			"total_length":  totalLength.String(),
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "coil receipt booked")
	}
	return updated, nil
}

func (s *service) DeleteItem(ctx context.Context, userID string, itemID uuid.UUID) error {
	if _, err := s.GetItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, itemID)
}

// applyDelta mutates the stored quantity and appends the matching ledger
// entry inside the caller's transaction.
func (s *service) applyDelta(ctx context.Context, tx *gorm.DB, item *models.InventoryItem, delta decimal.Decimal, note *string, kind enums.LedgerEventKind) error {
	repo := s.repo.WithTx(tx)
	entryType := enums.EntryTypeIn
	magnitude := delta

	if delta.IsNegative() {
		entryType = enums.EntryTypeOut
		magnitude = delta.Neg()
		ok, err := repo.DecrementQuantityGuarded(ctx, item.UserID, item.ID, magnitude)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("cannot remove %s from %q", magnitude, item.Name)).
				WithDetails(map[string]any{"item_id": item.ID.String(), "requested": magnitude.String()})
		}
	} else {
		if err := repo.IncrementQuantity(ctx, item.UserID, item.ID, magnitude); err != nil {
			return err
		}
	}

	_, err := s.ledger.Append(ctx, tx, ledger.AppendEntryInput{
		UserID:      item.UserID,
		ItemID:      item.ID,
		ItemName:    item.Name,
		EntryType:   entryType,
		Quantity:    magnitude,
		PriceAtTime: item.Price,
		Note:        note,
		Kind:        kind,
	})
	return err
}

func validateImage(imageData *string) error {
	if imageData == nil {
		return nil
	}
	if len(*imageData) > MaxImageBytes {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("image exceeds %d bytes", MaxImageBytes)).
			WithDetails(map[string]any{"size": len(*imageData), "max": MaxImageBytes})
	}
	return nil
}

func asNotFound(err error) error {
	if err == nil {
		return nil
	}
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "inventory item not found")
	}
	return err
}
