package reconciliation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/openledger/backend/internal/domain/shared"
)

// Error codes surfaced by the engine.
const (
	ErrCodeMandatoryFieldMissing = "MANDATORY_FIELD_MISSING"
	ErrCodeEmptySlate            = "EMPTY_SLATE"
	ErrCodeUnknownInvoiceRef     = "UNKNOWN_INVOICE_REFERENCE"
	ErrCodeAllocationOverflow    = "ALLOCATION_OVERFLOW"
	ErrCodeNoEffectiveAllocation = "NO_EFFECTIVE_ALLOCATION"
)

// outstandingTolerance absorbs 2-decimal display rounding when checking an
// allocation against the target invoice's outstanding amount. It applies to
// that check only, not to the payment-amount check.
var outstandingTolerance = decimal.NewFromFloat(0.009)

// validateAllocations checks the whole document before any side effect.
// Every violation is fatal.
func (d *Document) validateAllocations() error {
	if len(d.Invoices) == 0 {
		return shared.NewDomainError(ErrCodeEmptySlate, "No records found in the Invoice table")
	}
	if len(d.Payments) == 0 {
		return shared.NewDomainError(ErrCodeEmptySlate, "No records found in the Payment table")
	}

	outstanding := outstandingByInvoice(d.Invoices)
	effective := false

	for _, row := range d.Payments {
		if !row.HasAllocation() {
			continue
		}
		effective = true

		target, ok := outstanding[invoiceKey{row.InvoiceType, row.InvoiceNumber}]
		if !ok {
			return shared.NewDomainError(ErrCodeUnknownInvoiceRef,
				fmt.Sprintf("%s: %s not found in Invoice Details table", row.InvoiceType, row.InvoiceNumber))
		}
		if row.AllocatedAmount.GreaterThan(row.Amount) {
			return shared.NewDomainError(ErrCodeAllocationOverflow,
				fmt.Sprintf("Row %d: Allocated amount %s must be less than or equal to Payment Entry amount %s",
					row.Idx, row.AllocatedAmount, row.Amount))
		}
		if row.AllocatedAmount.Sub(target).GreaterThan(outstandingTolerance) {
			return shared.NewDomainError(ErrCodeAllocationOverflow,
				fmt.Sprintf("Row %d: Allocated amount %s must be less than or equal to invoice outstanding amount %s",
					row.Idx, row.AllocatedAmount, target))
		}
	}

	if !effective {
		return shared.NewDomainError(ErrCodeNoEffectiveAllocation,
			"Please select Allocated Amount, Invoice Type and Invoice Number in at least one row")
	}
	return nil
}
