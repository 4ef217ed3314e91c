package reconciliation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// compoundSeparator joins invoice type and number when the UI packs both into
// a single select value, e.g. "Sales Invoice | SI-001".
const compoundSeparator = " | "

// PaymentRow is one candidate advance on the payments slate. Rows are
// rebuilt wholesale on every fetch and carry no identity across fetches.
type PaymentRow struct {
	ReferenceType     string          `json:"reference_type"`
	ReferenceName     string          `json:"reference_name"`
	ReferenceRow      string          `json:"reference_row,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	Currency          string          `json:"currency"`
	DifferenceAmount  decimal.Decimal `json:"difference_amount"`
	DifferenceAccount string          `json:"difference_account,omitempty"`
	InvoiceType       string          `json:"invoice_type,omitempty"`
	InvoiceNumber     string          `json:"invoice_number,omitempty"`
	Idx               int             `json:"idx"`
}

// NormalizeInvoiceReference splits a compound "TYPE | NUMBER" invoice number
// into its two fields. A plain invoice number leaves InvoiceType untouched.
func (r *PaymentRow) NormalizeInvoiceReference() {
	if r.InvoiceNumber == "" || !strings.Contains(r.InvoiceNumber, compoundSeparator) {
		return
	}
	parts := strings.SplitN(r.InvoiceNumber, compoundSeparator, 2)
	r.InvoiceType = parts[0]
	r.InvoiceNumber = parts[1]
}

// HasAllocation reports whether the row supplies the full triple required to
// apply it: invoice type, invoice number and a non-zero allocated amount.
func (r *PaymentRow) HasAllocation() bool {
	return r.InvoiceType != "" && r.InvoiceNumber != "" && !r.AllocatedAmount.IsZero()
}

// IsNoteSource reports whether the row's source document is itself an
// invoice, which routes it down the note-journal path.
func (r *PaymentRow) IsNoteSource() bool {
	return r.ReferenceType == VoucherTypeSalesInvoice || r.ReferenceType == VoucherTypePurchaseInvoice
}

// InvoiceRow is one candidate outstanding invoice on the invoices slate.
type InvoiceRow struct {
	InvoiceType       string          `json:"invoice_type"`
	InvoiceNumber     string          `json:"invoice_number"`
	InvoiceDate       time.Time       `json:"invoice_date"`
	Amount            decimal.Decimal `json:"amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	Currency          string          `json:"currency"`
}

// invoiceKey identifies an invoice within the current slate.
type invoiceKey struct {
	invoiceType   string
	invoiceNumber string
}

// outstandingByInvoice indexes the invoice slate for validation lookups.
func outstandingByInvoice(invoices []InvoiceRow) map[invoiceKey]decimal.Decimal {
	index := make(map[invoiceKey]decimal.Decimal, len(invoices))
	for _, inv := range invoices {
		index[invoiceKey{inv.InvoiceType, inv.InvoiceNumber}] = inv.OutstandingAmount
	}
	return index
}
