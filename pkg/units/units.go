package units

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
)

// Base-unit multipliers for length-based items. The stored quantity is
// always meters; entered quantities convert through these factors.
var lengthMultipliers = map[enums.UnitKey]decimal.Decimal{
	enums.UnitMeter: decimal.NewFromInt(1),
	enums.UnitFoot:  decimal.RequireFromString("0.3048"),
	enums.UnitYard:  decimal.RequireFromString("0.9144"),
}

// Multiplier resolves the factor that converts an entered quantity in the
// given unit to the item's base unit. Piece items only accept "pc".
func Multiplier(unit enums.UnitKey, isLengthBased bool) (decimal.Decimal, error) {
	if !isLengthBased {
		if unit == enums.UnitPiece {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Decimal{}, errors.New(errors.CodeInvalidUnit,
			fmt.Sprintf("unit %q not valid for piece-based item", unit))
	}
	if m, ok := lengthMultipliers[unit]; ok {
		return m, nil
	}
	return decimal.Decimal{}, errors.New(errors.CodeInvalidUnit,
		fmt.Sprintf("unknown length unit %q", unit))
}

// Selectable returns the units a cashier may pick for an item.
func Selectable(isLengthBased bool) []enums.UnitKey {
	if isLengthBased {
		return []enums.UnitKey{enums.UnitMeter, enums.UnitFoot, enums.UnitYard}
	}
	return []enums.UnitKey{enums.UnitPiece}
}

// Native returns the unit stocked quantities are stored in.
func Native(isLengthBased bool) enums.UnitKey {
	if isLengthBased {
		return enums.UnitMeter
	}
	return enums.UnitPiece
}
