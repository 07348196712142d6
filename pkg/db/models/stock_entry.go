package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
)

// StockEntry is one append-only row in the stock ledger. Quantity is always
// a positive magnitude; EntryType carries the direction.
type StockEntry struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID      string          `gorm:"column:user_id;not null;index"`
	ItemID      uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index"`
	ItemName    string          `gorm:"column:item_name;not null"`
	EntryType   enums.EntryType `gorm:"column:entry_type;not null"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(14,4);not null"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:numeric(14,4);not null"`
	Note        *string         `gorm:"column:note"`
	InvoiceNo   *string         `gorm:"column:invoice_no"`
	CreatedAt   *time.Time      `gorm:"column:created_at;autoCreateTime"`
}
