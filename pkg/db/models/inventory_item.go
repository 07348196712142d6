package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a stocked product owned by a single user.
// Quantity is stored in the item's native unit (meters for length-based
// items, pieces otherwise) and may be fractional. Deletes are soft so
// ledger entries keep a resolvable item id.
type InventoryItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID        string          `gorm:"column:user_id;not null;index"`
	Name          string          `gorm:"column:name;not null"`
	Category      string          `gorm:"column:category;not null"`
	Description   *string         `gorm:"column:description"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(14,4);not null"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:numeric(14,4);not null"`
	MinStock      *int            `gorm:"column:min_stock"`
	IsLengthBased bool            `gorm:"column:is_length_based;not null;default:false"`
	ImageData     *string         `gorm:"column:image_data"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}
