package reconciliation

import "github.com/shopspring/decimal"

// AllocationDescriptor carries everything the reference updater and the
// note-journal synthesizer need to apply one allocated payment row, decoupled
// from the row's presentation form.
type AllocationDescriptor struct {
	VoucherType     string // payment side
	VoucherNo       string
	VoucherDetailNo string

	AgainstVoucherType string // invoice side
	AgainstVoucher     string

	Account   string
	PartyType PartyType
	Party     string

	DrOrCr Side // party-account reduction column for this session

	UnadjustedAmount decimal.Decimal
	AllocatedAmount  decimal.Decimal

	DifferenceAmount  decimal.Decimal
	DifferenceAccount string

	Currency string
}

// descriptorFor builds the allocation descriptor for one payment row against
// the document's header criteria.
func (d *Document) descriptorFor(row PaymentRow, drOrCr Side) AllocationDescriptor {
	return AllocationDescriptor{
		VoucherType:        row.ReferenceType,
		VoucherNo:          row.ReferenceName,
		VoucherDetailNo:    row.ReferenceRow,
		AgainstVoucherType: row.InvoiceType,
		AgainstVoucher:     row.InvoiceNumber,
		Account:            d.ReceivablePayableAccount,
		PartyType:          d.PartyType,
		Party:              d.Party,
		DrOrCr:             drOrCr,
		UnadjustedAmount:   row.Amount,
		AllocatedAmount:    row.AllocatedAmount,
		DifferenceAmount:   row.DifferenceAmount,
		DifferenceAccount:  row.DifferenceAccount,
		Currency:           row.Currency,
	}
}

// partitionAllocations splits the applied payment rows into the
// payment-against-invoice group and the note-against-invoice group, preserving
// slate order within each group.
func (d *Document) partitionAllocations(drOrCr Side) (payments, notes []AllocationDescriptor) {
	for _, row := range d.Payments {
		if row.InvoiceNumber == "" || row.AllocatedAmount.IsZero() {
			continue
		}
		desc := d.descriptorFor(row, drOrCr)
		if row.IsNoteSource() {
			notes = append(notes, desc)
		} else {
			payments = append(payments, desc)
		}
	}
	return payments, notes
}
