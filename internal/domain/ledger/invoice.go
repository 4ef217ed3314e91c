package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
)

// InvoiceDoctype distinguishes the two invoice ledgers.
type InvoiceDoctype string

const (
	InvoiceDoctypeSales    InvoiceDoctype = reconciliation.VoucherTypeSalesInvoice
	InvoiceDoctypePurchase InvoiceDoctype = reconciliation.VoucherTypePurchaseInvoice
)

// IsValid checks if the doctype is a known invoice kind
func (d InvoiceDoctype) IsValid() bool {
	return d == InvoiceDoctypeSales || d == InvoiceDoctypePurchase
}

// settlementRounding absorbs 2-decimal display rounding when an allocation
// closes out an invoice.
var settlementRounding = decimal.NewFromFloat(0.009)

// Invoice is a sales or purchase invoice as the reconciliation engine sees
// it: a submitted document carrying an outstanding balance on the party
// control account.
type Invoice struct {
	shared.BaseEntity
	Doctype           InvoiceDoctype
	VoucherNo         string
	Company           string
	PartyType         reconciliation.PartyType
	Party             string
	Account           string
	PostingDate       time.Time
	Currency          valueobject.Currency
	ExchangeRate      decimal.Decimal
	GrandTotal        decimal.Decimal
	OutstandingAmount decimal.Decimal
	Docstatus         Docstatus
}

// NewInvoice creates a draft invoice with outstanding equal to its total
func NewInvoice(doctype InvoiceDoctype, voucherNo, company string, partyType reconciliation.PartyType, party, account string, postingDate time.Time, currency valueobject.Currency, grandTotal decimal.Decimal) (*Invoice, error) {
	if !doctype.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Unknown invoice doctype")
	}
	if voucherNo == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice number cannot be empty")
	}
	if !partyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Unknown party type")
	}
	if grandTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice total cannot be negative")
	}
	return &Invoice{
		BaseEntity:        shared.NewBaseEntity(),
		Doctype:           doctype,
		VoucherNo:         voucherNo,
		Company:           company,
		PartyType:         partyType,
		Party:             party,
		Account:           account,
		PostingDate:       postingDate,
		Currency:          currency,
		ExchangeRate:      decimal.NewFromInt(1),
		GrandTotal:        grandTotal,
		OutstandingAmount: grandTotal,
		Docstatus:         DocstatusDraft,
	}, nil
}

// Submit moves the invoice onto the books
func (inv *Invoice) Submit() error {
	if inv.Docstatus != DocstatusDraft {
		return shared.ErrInvalidState
	}
	inv.Docstatus = DocstatusSubmitted
	return nil
}

// IsOutstanding returns true if the invoice still carries unsettled balance
func (inv *Invoice) IsOutstanding() bool {
	return inv.Docstatus.IsSubmitted() && inv.OutstandingAmount.IsPositive()
}

// ApplyAllocation reduces the invoice's outstanding balance by the allocated
// amount. An overshoot within the settlement rounding closes the invoice at
// zero; anything beyond it is rejected.
func (inv *Invoice) ApplyAllocation(amount decimal.Decimal) error {
	if !inv.Docstatus.IsSubmitted() {
		return shared.ErrInvalidState
	}
	if amount.IsNegative() {
		return shared.ErrInvalidInput
	}
	remaining := inv.OutstandingAmount.Sub(amount)
	if remaining.IsNegative() {
		if remaining.Abs().GreaterThan(settlementRounding) {
			return shared.NewDomainError("ALLOCATION_OVERFLOW", "Allocated amount exceeds invoice outstanding amount")
		}
		remaining = decimal.Zero
	}
	inv.OutstandingAmount = remaining
	return nil
}
