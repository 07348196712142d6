package inventory

import (
	"github.com/shopspring/decimal"
)

// MaxImageBytes caps inline item images; anything larger is rejected at
// ingestion rather than resized.
const MaxImageBytes = 80000

// DefaultMinStock is the low-stock threshold applied when an item has none.
const DefaultMinStock = 5

// DefaultCoilLength is the per-coil length assumed when a receipt omits it.
var DefaultCoilLength = decimal.NewFromInt(90)

// CreateItemInput captures a new inventory item.
type CreateItemInput struct {
	Name          string          `json:"name" validate:"required"`
	Category      string          `json:"category" validate:"required"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinStock      *int            `json:"min_stock,omitempty"`
	IsLengthBased bool            `json:"is_length_based"`
	ImageData     *string         `json:"image_data,omitempty"`
}

// EditItemInput updates item fields; nil fields are left untouched. A
// quantity change is applied as an embedded adjustment so the ledger stays
// consistent with the stored quantity.
type EditItemInput struct {
	Name          *string          `json:"name,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	MinStock      *int             `json:"min_stock,omitempty"`
	IsLengthBased *bool            `json:"is_length_based,omitempty"`
	ImageData     *string          `json:"image_data,omitempty"`
}

// AdjustQuantityInput is a signed stock delta with an operator note.
type AdjustQuantityInput struct {
	Delta decimal.Decimal `json:"delta"`
	Note  string          `json:"note,omitempty"`
}

// CoilReceiptInput books a bulk delivery of coiled material.
type CoilReceiptInput struct {
	CoilCount     int              `json:"coil_count" validate:"required,gt=0"`
	LengthPerCoil *decimal.Decimal `json:"length_per_coil,omitempty"`
	CostPerCoil   *decimal.Decimal `json:"cost_per_coil,omitempty"`
}
