package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
)

// Repository manages persistence for stock ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.StockEntry) error
	ListByUser(ctx context.Context, userID string) ([]models.StockEntry, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.StockEntry, error)
	ListByItem(ctx context.Context, userID string, itemID uuid.UUID) ([]models.StockEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.StockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Entries with a null timestamp sort last so half-written rows never float
// to the top of the ledger view.
const newestFirst = "created_at IS NULL ASC, created_at DESC"

func (r *repository) ListByUser(ctx context.Context, userID string) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(newestFirst).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(newestFirst)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByItem(ctx context.Context, userID string, itemID uuid.UUID) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Order(newestFirst).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
