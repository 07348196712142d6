package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/enums"
)

// LedgerEntryRecorded mirrors one stock ledger row to downstream sinks.
// Kind carries the sheet row label; sale entries use the invoice number
// instead.
type LedgerEntryRecorded struct {
	UserID      string                `json:"userId"`
	EntryID     uuid.UUID             `json:"entryId"`
	ItemID      uuid.UUID             `json:"itemId"`
	ItemName    string                `json:"itemName"`
	EntryType   enums.EntryType       `json:"entryType"`
	Quantity    decimal.Decimal       `json:"quantity"`
	PriceAtTime decimal.Decimal       `json:"priceAtTime"`
	Note        string                `json:"note,omitempty"`
	InvoiceNo   string                `json:"invoiceNo,omitempty"`
	Kind        enums.LedgerEventKind `json:"kind"`
	RecordedAt  time.Time             `json:"recordedAt"`
}
