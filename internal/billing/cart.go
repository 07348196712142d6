package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/units"
)

// Line is one cart row. EnteredQty is in the cashier-selected unit; the
// line total always recomputes from the current quantity, unit and price so
// unit switches can never leave a stale amount behind.
type Line struct {
	ItemID        uuid.UUID       `json:"item_id"`
	ItemName      string          `json:"item_name"`
	Unit          enums.UnitKey   `json:"unit"`
	EnteredQty    decimal.Decimal `json:"entered_qty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	IsLengthBased bool            `json:"is_length_based"`
}

// BaseQty converts the entered quantity to the item's native unit.
func (l Line) BaseQty() (decimal.Decimal, error) {
	mult, err := units.Multiplier(l.Unit, l.IsLengthBased)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return l.EnteredQty.Mul(mult), nil
}

// Total is enteredQty x multiplier x unit price.
func (l Line) Total() (decimal.Decimal, error) {
	base, err := l.BaseQty()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return base.Mul(l.UnitPrice), nil
}

// Totals summarizes a priced cart.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Cart is a pure in-memory cart. It never validates against live stock;
// availability is only checked at settlement.
type Cart struct {
	lines []Line
}

// NewCart builds an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// NewCartFromLines builds a cart from pre-assembled lines, validating each
// unit against the line's tracking mode.
func NewCartFromLines(lines []Line) (*Cart, error) {
	cart := NewCart()
	for i, line := range lines {
		if line.EnteredQty.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity,
				fmt.Sprintf("line %d quantity cannot be negative", i))
		}
		if _, err := units.Multiplier(line.Unit, line.IsLengthBased); err != nil {
			return nil, err
		}
		cart.lines = append(cart.lines, line)
	}
	return cart, nil
}

// AddItem appends a new line with one unit of the item in its native unit.
// The same item can appear on several lines, each priced independently.
func (c *Cart) AddItem(item models.InventoryItem) {
	c.lines = append(c.lines, Line{
		ItemID:        item.ID,
		ItemName:      item.Name,
		Unit:          units.Native(item.IsLengthBased),
		EnteredQty:    decimal.NewFromInt(1),
		UnitPrice:     item.Price,
		IsLengthBased: item.IsLengthBased,
	})
}

// SetLineQuantity replaces the entered quantity. Negative values are
// rejected and the line is left unchanged.
func (c *Cart) SetLineQuantity(index int, qty decimal.Decimal) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if qty.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity cannot be negative")
	}
	c.lines[index].EnteredQty = qty
	return nil
}

// SetLineUnit switches the unit the quantity is entered in. The entered
// number is kept as-is; only the conversion changes.
func (c *Cart) SetLineUnit(index int, unit enums.UnitKey) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if _, err := units.Multiplier(unit, c.lines[index].IsLengthBased); err != nil {
		return err
	}
	c.lines[index].Unit = unit
	return nil
}

// RemoveLine drops the line at index.
func (c *Cart) RemoveLine(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Lines returns a copy of the current cart rows.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len reports the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Totals prices the cart at the given tax rate (percent).
func (c *Cart) Totals(taxRatePercent decimal.Decimal) (Totals, error) {
	if taxRatePercent.IsNegative() {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "tax rate cannot be negative")
	}

	subtotal := decimal.Zero
	for _, line := range c.lines {
		total, err := line.Total()
		if err != nil {
			return Totals{}, err
		}
		subtotal = subtotal.Add(total)
	}

	tax := subtotal.Mul(taxRatePercent).Div(decimal.NewFromInt(100))
	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  tax,
		GrandTotal: subtotal.Add(tax),
	}, nil
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.lines) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cart line %d does not exist", index))
	}
	return nil
}

// ChangeDue is the tendered amount minus the grand total. A negative result
// is the outstanding shortfall; rendering it is the caller's concern.
func ChangeDue(paid, grandTotal decimal.Decimal) decimal.Decimal {
	return paid.Sub(grandTotal)
}
