package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/metrics"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/outbox"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/outbox/payloads"
)

const (
	jobName = "sheet-sync"

	defaultBatchSize     = 50
	defaultPollMs        = 500
	defaultAppendTimeout = 15 * time.Second
	defaultMaxAttempts   = 10
	maxBackoff           = 10 * time.Second
	jitterWindow         = 250 * time.Millisecond

	sheetTimestampFormat = "2006-01-02 15:04:05"
)

var jitterSource = rand.New(rand.NewSource(time.Now().UnixNano()))

type dbPinger interface {
	Ping(context.Context) error
}

type outboxRepository interface {
	FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type profileSource interface {
	GetProfile(ctx context.Context, userID string) (*models.StoreProfile, error)
}

type rowAppender interface {
	AppendRow(ctx context.Context, spreadsheetID string, row []any) error
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         dbPinger
	Repository outboxRepository
	Profiles   profileSource
	Sheets     rowAppender
	Metrics    *metrics.JobMetrics
}

type Service struct {
	cfg          *config.Config
	logg         *logger.Logger
	db           dbPinger
	repo         outboxRepository
	profiles     profileSource
	sheets       rowAppender
	jobs         *metrics.JobMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Profiles == nil {
		return nil, errors.New("profile source is required")
	}
	if params.Sheets == nil {
		return nil, errors.New("sheets appender is required")
	}

	batch := params.Config.Outbox.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	pollMs := params.Config.Outbox.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		cfg:          params.Config,
		logg:         params.Logger,
		db:           params.DB,
		repo:         params.Repository,
		profiles:     params.Profiles,
		sheets:       params.Sheets,
		jobs:         params.Metrics,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		s.logg.Error(ctx, "database ping failed", err)
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	interval := s.pollInterval
	if interval <= 0 {
		interval = time.Duration(defaultPollMs) * time.Millisecond
	}
	backoff := interval

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "sheet sync context canceled")
			return ctx.Err()
		default:
		}

		processed, err := s.processBatch(ctx)
		if err != nil {
			s.logg.Error(ctx, "sheet sync batch error", err)
			backoff = nextBackoff(backoff, interval, maxBackoff)
			if err := s.sleep(ctx, withJitter(backoff)); err != nil {
				return err
			}
			continue
		}

		backoff = interval

		if processed {
			continue
		}

		if err := s.sleep(ctx, withJitter(interval)); err != nil {
			return err
		}
	}
}

// processBatch drains one batch of pending ledger events into their
// owners' spreadsheets. Append failures are recorded per event and do
// not abort the batch; only mark bookkeeping errors bubble up.
func (s *Service) processBatch(ctx context.Context) (bool, error) {
	start := time.Now()
	defer func() {
		s.jobs.ObserveDuration(jobName, time.Since(start))
	}()

	events, err := s.repo.FetchUnpublished(s.batchSize, s.maxAttempts)
	if err != nil {
		return false, err
	}
	if len(events) == 0 {
		return false, nil
	}

	var markErrs error
	for _, event := range events {
		if markErr := s.processEvent(ctx, event); markErr != nil {
			markErrs = multierr.Append(markErrs, markErr)
		}
	}
	return true, markErrs
}

func (s *Service) processEvent(ctx context.Context, event models.OutboxEvent) error {
	fields := s.eventFields(event)

	record, err := decodeLedgerRecord(event.Payload)
	if err != nil {
		return s.recordFailure(ctx, event, fields, fmt.Errorf("decode payload: %w", err))
	}
	fields["user_id"] = record.UserID
	fields["entry_id"] = record.EntryID.String()

	profile, err := s.profiles.GetProfile(ctx, record.UserID)
	if err != nil {
		return s.recordFailure(ctx, event, fields, fmt.Errorf("load profile: %w", err))
	}
	if profile.SheetID == nil || *profile.SheetID == "" {
		s.logg.Info(s.logg.WithFields(ctx, fields), "no sheet configured, skipping event")
		if markErr := s.repo.MarkPublished(event.ID); markErr != nil {
			return fmt.Errorf("mark published %s: %w", event.ID, markErr)
		}
		return nil
	}

	appendCtx, cancel := context.WithTimeout(ctx, defaultAppendTimeout)
	err = s.sheets.AppendRow(appendCtx, *profile.SheetID, buildRow(record))
	cancel()
	if err != nil {
		return s.recordFailure(ctx, event, fields, fmt.Errorf("append row: %w", err))
	}

	if markErr := s.repo.MarkPublished(event.ID); markErr != nil {
		return fmt.Errorf("mark published %s: %w", event.ID, markErr)
	}
	s.jobs.IncSuccess(jobName)
	s.logg.Info(s.logg.WithFields(ctx, fields), "ledger row synced to sheet")
	return nil
}

func (s *Service) recordFailure(ctx context.Context, event models.OutboxEvent, fields map[string]any, err error) error {
	s.jobs.IncFailure(jobName)

	nextAttempt := event.AttemptCount + 1
	fields["attempt_count"] = nextAttempt
	fields["error"] = err.Error()
	if nextAttempt >= s.maxAttempts {
		fields["terminal_reason"] = "max_attempts"
		s.logg.Warn(s.logg.WithFields(ctx, fields), "sheet sync event will not be retried")
	} else {
		s.logg.Warn(s.logg.WithFields(ctx, fields), "sheet sync event failed")
	}

	if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
		return fmt.Errorf("mark failure %s: %w", event.ID, markErr)
	}
	return nil
}

func decodeLedgerRecord(payload []byte) (payloads.LedgerEntryRecorded, error) {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return payloads.LedgerEntryRecorded{}, err
	}
	var record payloads.LedgerEntryRecorded
	if err := json.Unmarshal(envelope.Data, &record); err != nil {
		return payloads.LedgerEntryRecorded{}, err
	}
	if record.UserID == "" {
		return payloads.LedgerEntryRecorded{}, errors.New("payload missing user id")
	}
	return record, nil
}

// buildRow mirrors the row layout shop owners see in their sheet. Sale
// entries carry the invoice number in the label column, everything else
// carries the event kind.
func buildRow(record payloads.LedgerEntryRecorded) []any {
	label := string(record.Kind)
	if record.InvoiceNo != "" {
		label = record.InvoiceNo
	}
	return []any{
		record.RecordedAt.Format(sheetTimestampFormat),
		label,
		record.ItemName,
		string(record.EntryType),
		record.Quantity.String(),
		record.PriceAtTime.String(),
		record.Note,
	}
}

func (s *Service) eventFields(event models.OutboxEvent) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"batch_size":     s.batchSize,
		"attempt_count":  event.AttemptCount,
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	jitter := time.Duration(jitterSource.Int63n(int64(jitterWindow)))
	return d + jitter
}
