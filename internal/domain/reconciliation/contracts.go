package reconciliation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceQuery carries the criteria the advance providers filter on.
type AdvanceQuery struct {
	PartyType      PartyType
	Party          string
	Account        string
	OrderDoctype   string
	AgainstAccount string // optional bank/cash account filter
	Limit          int    // zero means no cap
}

// AdvancePaymentProvider enumerates unreconciled advance payment entries for
// a party on its control account. Order-earmarked advances are included; only
// advances already applied to invoices are excluded.
type AdvancePaymentProvider interface {
	FetchAdvancePayments(ctx context.Context, q AdvanceQuery) ([]PaymentRow, error)
}

// AdvanceJournalProvider enumerates unreconciled advance journal lines for a
// party on its control account, same contract as AdvancePaymentProvider.
type AdvanceJournalProvider interface {
	FetchAdvanceJournals(ctx context.Context, q AdvanceQuery) ([]PaymentRow, error)
}

// InvoiceCondition is the structured filter applied by the invoice provider.
// Column names the account-currency amount column the min/max bounds apply to.
type InvoiceCondition struct {
	FromDate      *time.Time
	ToDate        *time.Time
	Column        Side
	MinimumAmount *decimal.Decimal
	MaximumAmount *decimal.Decimal
}

// OutstandingInvoiceProvider enumerates outstanding invoices for a party on
// its control account. Ordering is provider-defined but stable.
type OutstandingInvoiceProvider interface {
	FetchOutstanding(ctx context.Context, partyType PartyType, party, account string, cond InvoiceCondition) ([]InvoiceRow, error)
}

// PaymentReferenceUpdater applies allocation descriptors to their source
// payment entries and journal entries, durably. PreviewDifference applies a
// single descriptor in memory and reports the payment entry's resulting
// difference amount without persisting anything.
type PaymentReferenceUpdater interface {
	UpdateReferences(ctx context.Context, allocations []AllocationDescriptor) error
	PreviewDifference(ctx context.Context, allocation AllocationDescriptor) (decimal.Decimal, error)
}

// NoteJournalPoster creates and submits a synthesized note journal. Each
// journal is an independent durable operation.
type NoteJournalPoster interface {
	Post(ctx context.Context, journal NoteJournal) error
}

// Settings resolves company-level accounting defaults.
type Settings interface {
	CompanyCurrency(ctx context.Context, company string) (string, error)
	DefaultCostCenter(ctx context.Context, company string) (string, error)
}
