package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/outbox"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/outbox/payloads"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	sheetID := "sheet-abc"
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			mustLedgerEvent(t, "user-1", "Copper Wire", ""),
			mustLedgerEvent(t, "user-1", "Brass Tap", ""),
		},
	}
	appender := &fakeAppender{errs: []error{errors.New("transient"), nil}}
	profiles := &fakeProfiles{sheets: map[string]string{"user-1": sheetID}}
	service := newTestService(t, repo, profiles, appender, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(repo.failed); got != 1 {
		t.Fatalf("unexpected number of failed rows: %d", got)
	}
	if got := len(repo.published); got != 1 {
		t.Fatalf("unexpected number of published rows: %d", got)
	}
	if repo.failed[0] != repo.events[0].ID {
		t.Fatalf("failed row recorded wrong ID")
	}
	if repo.published[0] != repo.events[1].ID {
		t.Fatalf("published row recorded wrong ID")
	}
	if got := len(appender.rows); got != 1 {
		t.Fatalf("expected one appended row, got %d", got)
	}
	if appender.spreadsheetIDs[0] != sheetID {
		t.Fatalf("row appended to wrong sheet %q", appender.spreadsheetIDs[0])
	}
}

func TestServiceProcessBatchSkipsUsersWithoutSheet(t *testing.T) {
	event := mustLedgerEvent(t, "user-2", "Copper Wire", "")
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	appender := &fakeAppender{}
	profiles := &fakeProfiles{sheets: map[string]string{}}
	service := newTestService(t, repo, profiles, appender, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if len(appender.rows) != 0 {
		t.Fatalf("expected no rows appended, got %d", len(appender.rows))
	}
	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("expected event marked published on skip")
	}
	if len(repo.failed) != 0 {
		t.Fatalf("expected no failure recorded on skip")
	}
}

func TestServiceProcessBatchMarksUndecodablePayloadFailed(t *testing.T) {
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventLedgerEntryRecorded,
		AggregateType: enums.AggregateStockEntry,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1,"data":"not-an-object"}`),
	}
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	appender := &fakeAppender{}
	profiles := &fakeProfiles{sheets: map[string]string{}}
	service := newTestService(t, repo, profiles, appender, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if len(repo.failed) != 1 || repo.failed[0] != event.ID {
		t.Fatalf("expected undecodable event marked failed")
	}
	if len(appender.rows) != 0 {
		t.Fatalf("expected no rows appended, got %d", len(appender.rows))
	}
}

func TestBuildRowLabelsSalesWithInvoiceNo(t *testing.T) {
	recordedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	record := payloads.LedgerEntryRecorded{
		UserID:      "user-1",
		ItemName:    "Copper Wire",
		EntryType:   enums.EntryTypeOut,
		Quantity:    decimal.RequireFromString("3.048"),
		PriceAtTime: decimal.RequireFromString("100"),
		Kind:        enums.LedgerKindSale,
		InvoiceNo:   "8F2A41BC",
		RecordedAt:  recordedAt,
	}

	row := buildRow(record)
	if len(row) != 7 {
		t.Fatalf("unexpected row length %d", len(row))
	}
	if row[0] != "2026-03-14 09:30:00" {
		t.Fatalf("unexpected timestamp %v", row[0])
	}
	if row[1] != "8F2A41BC" {
		t.Fatalf("expected invoice number label, got %v", row[1])
	}
	if row[3] != "out" {
		t.Fatalf("unexpected entry type %v", row[3])
	}
	if row[4] != "3.048" {
		t.Fatalf("unexpected quantity %v", row[4])
	}

	record.InvoiceNo = ""
	record.Kind = enums.LedgerKindManualUpdate
	row = buildRow(record)
	if row[1] != "Manual-Update" {
		t.Fatalf("expected kind label, got %v", row[1])
	}
}

func TestNextBackoffDoublesAndCaps(t *testing.T) {
	base := 500 * time.Millisecond
	backoff := nextBackoff(base, base, maxBackoff)
	if backoff != time.Second {
		t.Fatalf("expected 1s, got %s", backoff)
	}
	for i := 0; i < 10; i++ {
		backoff = nextBackoff(backoff, base, maxBackoff)
	}
	if backoff != maxBackoff {
		t.Fatalf("expected backoff capped at %s, got %s", maxBackoff, backoff)
	}
}

func newTestService(t *testing.T, repo outboxRepository, profiles profileSource, appender rowAppender, outboxCfgOverride *config.OutboxConfig) *Service {
	t.Helper()
	outboxCfg := config.OutboxConfig{
		BatchSize:      10,
		PollIntervalMS: 100,
		MaxAttempts:    5,
	}
	if outboxCfgOverride != nil {
		outboxCfg = *outboxCfgOverride
	}
	cfg := &config.Config{Outbox: outboxCfg}
	logg := logger.New(logger.Options{
		ServiceName: "sheet-sync-test",
		Output:      io.Discard,
	})
	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         &fakeDB{},
		Repository: repo,
		Profiles:   profiles,
		Sheets:     appender,
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func mustLedgerEvent(tb testing.TB, userID, itemName, invoiceNo string) models.OutboxEvent {
	tb.Helper()
	record := payloads.LedgerEntryRecorded{
		UserID:      userID,
		EntryID:     uuid.New(),
		ItemID:      uuid.New(),
		ItemName:    itemName,
		EntryType:   enums.EntryTypeIn,
		Quantity:    decimal.RequireFromString("5"),
		PriceAtTime: decimal.RequireFromString("100"),
		Kind:        enums.LedgerKindManualUpdate,
		InvoiceNo:   invoiceNo,
		RecordedAt:  time.Now(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		tb.Fatalf("marshal record: %v", err)
	}
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Actor:      &outbox.ActorRef{UserID: userID},
		Data:       data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		tb.Fatalf("marshal envelope: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventLedgerEntryRecorded,
		AggregateType: enums.AggregateStockEntry,
		AggregateID:   record.EntryID,
		Payload:       payload,
	}
}

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeDB struct{}

func (f *fakeDB) Ping(context.Context) error {
	return nil
}

type fakeProfiles struct {
	sheets map[string]string
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userID string) (*models.StoreProfile, error) {
	profile := &models.StoreProfile{UserID: userID, StoreName: "Test Shop"}
	if sheet, ok := f.sheets[userID]; ok {
		profile.SheetID = &sheet
	}
	return profile, nil
}

type fakeAppender struct {
	errs           []error
	rows           [][]any
	spreadsheetIDs []string
}

func (f *fakeAppender) AppendRow(ctx context.Context, spreadsheetID string, row []any) error {
	var err error
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	if err != nil {
		return err
	}
	f.rows = append(f.rows, row)
	f.spreadsheetIDs = append(f.spreadsheetIDs, spreadsheetID)
	return nil
}
