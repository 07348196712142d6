package enums

// UnitKey identifies a sellable unit on a cart line.
type UnitKey string

const (
	UnitMeter UnitKey = "m"
	UnitFoot  UnitKey = "ft"
	UnitYard  UnitKey = "yd"
	UnitPiece UnitKey = "pc"
)

func (u UnitKey) IsValid() bool {
	switch u {
	case UnitMeter, UnitFoot, UnitYard, UnitPiece:
		return true
	}
	return false
}
