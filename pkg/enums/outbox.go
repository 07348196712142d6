package enums

// OutboxEventType names a domain event queued through the outbox.
type OutboxEventType string

const (
	EventLedgerEntryRecorded OutboxEventType = "ledger.entry_recorded"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateStockEntry OutboxAggregateType = "stock_entry"
)

// LedgerEventKind labels the origin of a mirrored ledger row.
type LedgerEventKind string

const (
	LedgerKindInitialAdd     LedgerEventKind = "Initial-Add"
	LedgerKindManualUpdate   LedgerEventKind = "Manual-Update"
	LedgerKindEditCorrection LedgerEventKind = "Edit-Correction"
	LedgerKindSale           LedgerEventKind = "Sale"
)
