package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreProfile holds the per-user shop settings printed on invoices and the
// optional spreadsheet the ledger mirrors to.
type StoreProfile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string    `gorm:"column:user_id;not null;uniqueIndex"`
	StoreName string    `gorm:"column:store_name;not null"`
	Address   *string   `gorm:"column:address"`
	Phone     *string   `gorm:"column:phone"`
	GSTIN     *string   `gorm:"column:gstin"`
	SheetID   *string   `gorm:"column:sheet_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
