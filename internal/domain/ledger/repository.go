package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openledger/backend/internal/domain/reconciliation"
)

// InvoiceFilter defines filtering options for outstanding invoice queries
type InvoiceFilter struct {
	FromDate       *time.Time       // posting date range start
	ToDate         *time.Time       // posting date range end
	MinOutstanding *decimal.Decimal // lower bound on the outstanding balance
	MaxOutstanding *decimal.Decimal // upper bound on the outstanding balance
}

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByName finds a company by its name
	FindByName(ctx context.Context, name string) (*Company, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByVoucher finds an invoice by doctype and voucher number
	FindByVoucher(ctx context.Context, doctype InvoiceDoctype, voucherNo string) (*Invoice, error)

	// FindOutstanding finds submitted invoices with unsettled balance for a
	// party on its control account, ordered by posting date then voucher
	FindOutstanding(ctx context.Context, partyType reconciliation.PartyType, party, account string, filter InvoiceFilter) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error
}

// PaymentEntryRepository defines the interface for payment entry persistence
type PaymentEntryRepository interface {
	// FindByVoucherNo finds a payment entry with its references
	FindByVoucherNo(ctx context.Context, voucherNo string) (*PaymentEntry, error)

	// FindWithUnallocated finds submitted payment entries that still carry
	// unallocated balance for a party on its control account
	FindWithUnallocated(ctx context.Context, partyType reconciliation.PartyType, party, partyAccount, bankCashAccount string, limit int) ([]PaymentEntry, error)

	// Save creates or updates a payment entry and its references
	Save(ctx context.Context, entry *PaymentEntry) error
}

// JournalEntryRepository defines the interface for journal entry persistence
type JournalEntryRepository interface {
	// FindByVoucherNo finds a journal entry with its account legs
	FindByVoucherNo(ctx context.Context, voucherNo string) (*JournalEntry, error)

	// Save creates or updates a journal entry and its account legs
	Save(ctx context.Context, entry *JournalEntry) error
}
