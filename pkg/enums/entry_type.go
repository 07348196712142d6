package enums

// EntryType is the direction of a stock ledger entry.
type EntryType string

const (
	EntryTypeIn  EntryType = "in"
	EntryTypeOut EntryType = "out"
)

func (e EntryType) IsValid() bool {
	switch e {
	case EntryTypeIn, EntryTypeOut:
		return true
	}
	return false
}
