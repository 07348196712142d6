package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/outbox"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/outbox/payloads"
)

// Service records and reads the append-only stock ledger.
type Service interface {
	Append(ctx context.Context, tx *gorm.DB, input AppendEntryInput) (*models.StockEntry, error)
	List(ctx context.Context, userID string) ([]models.StockEntry, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]models.StockEntry, error)
	ExportCSV(ctx context.Context, userID string) ([]byte, error)
}

// AppendEntryInput captures the immutable data a ledger entry requires.
// Quantity is always a positive magnitude; EntryType carries the direction.
type AppendEntryInput struct {
	UserID      string
	ItemID      uuid.UUID
	ItemName    string
	EntryType   enums.EntryType
	Quantity    decimal.Decimal
	PriceAtTime decimal.Decimal
	Note        *string
	InvoiceNo   *string
	Kind        enums.LedgerEventKind
}

type service struct {
	repo   Repository
	outbox *outbox.Service
}

// NewService wires a ledger service with the provided dependencies.
func NewService(repo Repository, outboxSvc *outbox.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{repo: repo, outbox: outboxSvc}, nil
}

// Append writes one ledger entry inside the caller's transaction and queues
// the mirror event with it. The entry is never written outside a quantity
// mutation, so tx is mandatory.
func (s *service) Append(ctx context.Context, tx *gorm.DB, input AppendEntryInput) (*models.StockEntry, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction required")
	}
	if input.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if input.ItemID == uuid.Nil {
		return nil, fmt.Errorf("item id is required")
	}
	if input.ItemName == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if !input.EntryType.IsValid() {
		return nil, fmt.Errorf("invalid entry type %q", input.EntryType)
	}
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "ledger quantity must be positive")
	}

	entry := &models.StockEntry{
		ID:          uuid.New(),
		UserID:      input.UserID,
		ItemID:      input.ItemID,
		ItemName:    input.ItemName,
		EntryType:   input.EntryType,
		Quantity:    input.Quantity,
		PriceAtTime: input.PriceAtTime,
		Note:        input.Note,
		InvoiceNo:   input.InvoiceNo,
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, err
	}

	recordedAt := time.Now()
	if entry.CreatedAt != nil {
		recordedAt = *entry.CreatedAt
	}
	payload := payloads.LedgerEntryRecorded{
		UserID:      entry.UserID,
		EntryID:     entry.ID,
		ItemID:      entry.ItemID,
		ItemName:    entry.ItemName,
		EntryType:   entry.EntryType,
		Quantity:    entry.Quantity,
		PriceAtTime: entry.PriceAtTime,
		Kind:        input.Kind,
		RecordedAt:  recordedAt,
	}
	if entry.Note != nil {
		payload.Note = *entry.Note
	}
	if entry.InvoiceNo != nil {
		payload.InvoiceNo = *entry.InvoiceNo
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventLedgerEntryRecorded,
		AggregateType: enums.AggregateStockEntry,
		AggregateID:   entry.ID,
		Actor:         &outbox.ActorRef{UserID: entry.UserID},
		Data:          payload,
		Version:       1,
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *service) List(ctx context.Context, userID string) ([]models.StockEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListRecent(ctx context.Context, userID string, limit int) ([]models.StockEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.repo.ListRecentByUser(ctx, userID, limit)
}

// ExportCSV renders the ledger newest-first with the fixed header
// Date,Item,Type,Qty,Price.
func (s *service) ExportCSV(ctx context.Context, userID string) ([]byte, error) {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Item", "Type", "Qty", "Price"}); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		date := ""
		if entry.CreatedAt != nil {
			date = entry.CreatedAt.Format(time.RFC3339)
		}
		record := []string{
			date,
			entry.ItemName,
			string(entry.EntryType),
			entry.Quantity.String(),
			entry.PriceAtTime.String(),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
