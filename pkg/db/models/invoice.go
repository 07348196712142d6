package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
)

// Invoice is a settled sale. Store fields are a frozen snapshot of the
// seller's profile at settlement time so reprints never drift.
type Invoice struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID         string          `gorm:"column:user_id;not null;index"`
	InvoiceNo      string          `gorm:"column:invoice_no;not null;index"`
	CustomerName   string          `gorm:"column:customer_name;not null"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(14,4);not null"`
	TaxRatePercent decimal.Decimal `gorm:"column:tax_rate_percent;type:numeric(6,3);not null"`
	TaxAmount      decimal.Decimal `gorm:"column:tax_amount;type:numeric(14,4);not null"`
	GrandTotal     decimal.Decimal `gorm:"column:grand_total;type:numeric(14,4);not null"`
	StoreName      string          `gorm:"column:store_name;not null"`
	StoreAddress   *string         `gorm:"column:store_address"`
	StorePhone     *string         `gorm:"column:store_phone"`
	StoreGSTIN     *string         `gorm:"column:store_gstin"`
	Lines          []InvoiceLine   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// InvoiceLine is one sold line on an invoice. EnteredQty is in the unit the
// cashier keyed in; BaseQty is the converted amount deducted from stock.
type InvoiceLine struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	InvoiceID  uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"column:item_id;type:uuid;not null"`
	ItemName   string          `gorm:"column:item_name;not null"`
	Unit       enums.UnitKey   `gorm:"column:unit;not null"`
	EnteredQty decimal.Decimal `gorm:"column:entered_qty;type:numeric(14,4);not null"`
	BaseQty    decimal.Decimal `gorm:"column:base_qty;type:numeric(14,4);not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(14,4);not null"`
	LineTotal  decimal.Decimal `gorm:"column:line_total;type:numeric(14,4);not null"`
}
