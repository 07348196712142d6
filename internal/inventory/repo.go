package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
)

// Repository manages persistence for inventory items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	Save(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, userID string, id uuid.UUID) (*models.InventoryItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	IncrementQuantity(ctx context.Context, userID string, id uuid.UUID, amount decimal.Decimal) error
	DecrementQuantityGuarded(ctx context.Context, userID string, id uuid.UUID, amount decimal.Decimal) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) Save(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) FindByID(ctx context.Context, userID string, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete is a soft delete (DeletedAt stamp); the row survives so ledger
// entries keep a resolvable item id, and every read path skips it.
func (r *repository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.InventoryItem{}).Error
}

func (r *repository) IncrementQuantity(ctx context.Context, userID string, id uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("quantity", gorm.Expr("quantity + ?", amount)).Error
}

// DecrementQuantityGuarded only decrements when enough stock remains, so a
// concurrent writer can never drive the quantity negative. Returns false
// when the guard refused the write.
func (r *repository) DecrementQuantityGuarded(ctx context.Context, userID string, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND user_id = ? AND quantity >= ?", id, userID, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
