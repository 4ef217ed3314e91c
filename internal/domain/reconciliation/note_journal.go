package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoteJournalLine is one leg of a synthesized note journal. Both legs post on
// the party control account and reference the document they settle.
type NoteJournalLine struct {
	Account       string          `json:"account"`
	PartyType     PartyType       `json:"party_type"`
	Party         string          `json:"party"`
	Side          Side            `json:"side"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType string          `json:"reference_type"`
	ReferenceName string          `json:"reference_name"`
	CostCenter    string          `json:"cost_center"`
}

// NoteJournal is the balancing journal fabricated for one invoice-to-invoice
// reconciliation.
type NoteJournal struct {
	VoucherType   string            `json:"voucher_type"`
	PostingDate   time.Time         `json:"posting_date"`
	Company       string            `json:"company"`
	MultiCurrency bool              `json:"multi_currency"`
	Accounts      []NoteJournalLine `json:"accounts"`
}

// synthesizeNoteJournal builds the two-leg journal for a note allocation.
// Leg A reduces the target invoice by the allocated amount on the session's
// dr_or_cr side. Leg B balances it on the opposite side against the source
// invoice, capped at the source's unadjusted amount so the note never
// overstates the reconciled document's own total.
func synthesizeNoteJournal(alloc AllocationDescriptor, company, companyCurrency, costCenter string, postingDate time.Time) NoteJournal {
	voucherType := NoteVoucherTypeDebit
	if alloc.VoucherType == VoucherTypeSalesInvoice {
		voucherType = NoteVoucherTypeCredit
	}

	allocated := alloc.AllocatedAmount.Abs()
	balancing := decimal.Min(allocated, alloc.UnadjustedAmount.Abs())

	return NoteJournal{
		VoucherType:   voucherType,
		PostingDate:   postingDate,
		Company:       company,
		// Allocations sourced from journal rows carry no currency;
		// treat them as company currency.
		MultiCurrency: alloc.Currency != "" && alloc.Currency != companyCurrency,
		Accounts: []NoteJournalLine{
			{
				Account:       alloc.Account,
				PartyType:     alloc.PartyType,
				Party:         alloc.Party,
				Side:          alloc.DrOrCr,
				Amount:        allocated,
				ReferenceType: alloc.AgainstVoucherType,
				ReferenceName: alloc.AgainstVoucher,
				CostCenter:    costCenter,
			},
			{
				Account:       alloc.Account,
				PartyType:     alloc.PartyType,
				Party:         alloc.Party,
				Side:          alloc.DrOrCr.Opposite(),
				Amount:        balancing,
				ReferenceType: alloc.VoucherType,
				ReferenceName: alloc.VoucherNo,
				CostCenter:    costCenter,
			},
		},
	}
}
