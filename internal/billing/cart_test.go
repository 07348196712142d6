package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
)

func lengthItem(price string) models.InventoryItem {
	return models.InventoryItem{
		ID:            uuid.New(),
		Name:          "Copper Wire",
		Price:         decimal.RequireFromString(price),
		IsLengthBased: true,
	}
}

func pieceItem(price string) models.InventoryItem {
	return models.InventoryItem{
		ID:    uuid.New(),
		Name:  "Switch",
		Price: decimal.RequireFromString(price),
	}
}

func TestAddItemDefaultsToOneNativeUnit(t *testing.T) {
	cart := NewCart()
	cart.AddItem(lengthItem("100"))

	lines := cart.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Unit != enums.UnitMeter {
		t.Fatalf("length item should default to meters, got %s", lines[0].Unit)
	}
	if !lines[0].EnteredQty.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected qty 1, got %s", lines[0].EnteredQty)
	}

	cart2 := NewCart()
	cart2.AddItem(pieceItem("50"))
	if cart2.Lines()[0].Unit != enums.UnitPiece {
		t.Fatalf("piece item should default to pc")
	}
}

func TestAddItemTwiceAppendsSeparateLines(t *testing.T) {
	cart := NewCart()
	item := pieceItem("50")
	cart.AddItem(item)
	cart.AddItem(item)

	if cart.Len() != 2 {
		t.Fatalf("expected 2 lines after adding the same item twice, got %d", cart.Len())
	}
	for i, line := range cart.Lines() {
		if !line.EnteredQty.Equal(decimal.NewFromInt(1)) {
			t.Fatalf("line %d should default to qty 1, got %s", i, line.EnteredQty)
		}
	}
}

func TestLineTotalTenFeetAtHundredPerMeter(t *testing.T) {
	cart := NewCart()
	cart.AddItem(lengthItem("100"))
	if err := cart.SetLineUnit(0, enums.UnitFoot); err != nil {
		t.Fatalf("set unit: %v", err)
	}
	if err := cart.SetLineQuantity(0, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	total, err := cart.Lines()[0].Total()
	if err != nil {
		t.Fatalf("line total: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("304.8")) {
		t.Fatalf("10 ft at 100/m should be 304.8, got %s", total)
	}
}

func TestUnitSwitchKeepsEnteredNumber(t *testing.T) {
	cart := NewCart()
	cart.AddItem(lengthItem("100"))
	if err := cart.SetLineQuantity(0, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if err := cart.SetLineUnit(0, enums.UnitYard); err != nil {
		t.Fatalf("set unit: %v", err)
	}

	line := cart.Lines()[0]
	if !line.EnteredQty.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("entered number should survive unit switches, got %s", line.EnteredQty)
	}
	total, err := line.Total()
	if err != nil {
		t.Fatalf("line total: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("457.2")) {
		t.Fatalf("5 yd at 100/m should be 457.2, got %s", total)
	}
}

func TestSetLineQuantityRejectsNegative(t *testing.T) {
	cart := NewCart()
	cart.AddItem(pieceItem("50"))

	err := cart.SetLineQuantity(0, decimal.RequireFromString("-1"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidQuantity {
		t.Fatalf("expected INVALID_QUANTITY, got %v", err)
	}
	if !cart.Lines()[0].EnteredQty.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("line must be unchanged after rejection, got %s", cart.Lines()[0].EnteredQty)
	}
}

func TestSetLineUnitRejectsLengthUnitOnPieceItem(t *testing.T) {
	cart := NewCart()
	cart.AddItem(pieceItem("50"))

	err := cart.SetLineUnit(0, enums.UnitMeter)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidUnit {
		t.Fatalf("expected INVALID_UNIT, got %v", err)
	}
	if cart.Lines()[0].Unit != enums.UnitPiece {
		t.Fatalf("unit must be unchanged after rejection")
	}
}

func TestRemoveLine(t *testing.T) {
	cart := NewCart()
	cart.AddItem(pieceItem("50"))
	cart.AddItem(lengthItem("100"))

	if err := cart.RemoveLine(0); err != nil {
		t.Fatalf("remove line: %v", err)
	}
	if cart.Len() != 1 {
		t.Fatalf("expected 1 line after removal, got %d", cart.Len())
	}
	if cart.Lines()[0].ItemName != "Copper Wire" {
		t.Fatalf("wrong line removed")
	}

	if err := cart.RemoveLine(5); err == nil {
		t.Fatal("expected out-of-range removal to fail")
	}
}

func TestTotalsAppliesTaxRate(t *testing.T) {
	cart := NewCart()
	item := pieceItem("100")
	cart.AddItem(item)
	if err := cart.SetLineQuantity(0, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	totals, err := cart.Totals(decimal.NewFromInt(18))
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Subtotal.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("expected subtotal 500, got %s", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(decimal.RequireFromString("90")) {
		t.Fatalf("expected tax 90, got %s", totals.TaxAmount)
	}
	if !totals.GrandTotal.Equal(decimal.RequireFromString("590")) {
		t.Fatalf("expected grand total 590, got %s", totals.GrandTotal)
	}

	if _, err := cart.Totals(decimal.RequireFromString("-1")); err == nil {
		t.Fatal("expected negative tax rate to be rejected")
	}
}

func TestChangeDue(t *testing.T) {
	if got := ChangeDue(decimal.NewFromInt(600), decimal.NewFromInt(590)); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected change 10, got %s", got)
	}
	if got := ChangeDue(decimal.NewFromInt(500), decimal.NewFromInt(590)); !got.Equal(decimal.NewFromInt(-90)) {
		t.Fatalf("underpayment should surface the signed shortfall, got %s", got)
	}
}

func TestNewCartFromLinesValidates(t *testing.T) {
	_, err := NewCartFromLines([]Line{{
		ItemID:        uuid.New(),
		Unit:          enums.UnitKey("kg"),
		EnteredQty:    decimal.NewFromInt(1),
		UnitPrice:     decimal.NewFromInt(10),
		IsLengthBased: true,
	}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidUnit {
		t.Fatalf("expected INVALID_UNIT, got %v", err)
	}

	_, err = NewCartFromLines([]Line{{
		ItemID:     uuid.New(),
		Unit:       enums.UnitPiece,
		EnteredQty: decimal.RequireFromString("-2"),
		UnitPrice:  decimal.NewFromInt(10),
	}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidQuantity {
		t.Fatalf("expected INVALID_QUANTITY, got %v", err)
	}
}
