package reconciliation

// PartyType identifies the kind of counterparty being reconciled.
type PartyType string

const (
	PartyTypeCustomer PartyType = "Customer"
	PartyTypeSupplier PartyType = "Supplier"
	PartyTypeEmployee PartyType = "Employee"
)

// IsValid checks if the party type is a known PartyType
func (p PartyType) IsValid() bool {
	switch p {
	case PartyTypeCustomer, PartyTypeSupplier, PartyTypeEmployee:
		return true
	}
	return false
}

// String returns the string representation of PartyType
func (p PartyType) String() string {
	return string(p)
}

// AccountType classifies the party control account.
type AccountType string

const (
	AccountTypeReceivable AccountType = "Receivable"
	AccountTypePayable    AccountType = "Payable"
)

// AccountTypeOf resolves the control-account type for a party type.
// Customers accumulate receivables; every other party type accumulates
// payables.
func AccountTypeOf(p PartyType) AccountType {
	if p == PartyTypeCustomer {
		return AccountTypeReceivable
	}
	return AccountTypePayable
}

// OrderDoctypeOf returns the order document type whose earmarks the advance
// providers recognise for the given party type.
func OrderDoctypeOf(p PartyType) string {
	if p == PartyTypeCustomer {
		return "Sales Order"
	}
	return "Purchase Order"
}

// Side names an account-currency amount column on a ledger-bearing document.
type Side string

const (
	SideDebit  Side = "debit_in_account_currency"
	SideCredit Side = "credit_in_account_currency"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideDebit {
		return SideCredit
	}
	return SideDebit
}

// String returns the column name the side stands for
func (s Side) String() string {
	return string(s)
}

// AllocationSide returns the party-account reduction column for the account
// type: allocations against a receivable account post credits, allocations
// against a payable account post debits.
func AllocationSide(t AccountType) Side {
	if t == AccountTypeReceivable {
		return SideCredit
	}
	return SideDebit
}

// InvoiceSide returns the column invoices carry their outstanding balance on.
// It is always the opposite of the allocation side.
func InvoiceSide(t AccountType) Side {
	return AllocationSide(t).Opposite()
}

// Voucher document types understood by the engine.
const (
	VoucherTypePaymentEntry    = "Payment Entry"
	VoucherTypeJournalEntry    = "Journal Entry"
	VoucherTypeSalesInvoice    = "Sales Invoice"
	VoucherTypePurchaseInvoice = "Purchase Invoice"
)

// Synthesized note-journal voucher types.
const (
	NoteVoucherTypeCredit = "Credit Note"
	NoteVoucherTypeDebit  = "Debit Note"
)
