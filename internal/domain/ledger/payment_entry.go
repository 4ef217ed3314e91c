package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
)

// PaymentType indicates the direction of a payment entry.
type PaymentType string

const (
	PaymentTypeReceive PaymentType = "Receive"
	PaymentTypePay     PaymentType = "Pay"
)

// IsValid checks if the payment type is known
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeReceive || t == PaymentTypePay
}

// PaymentEntryReference records one allocation of the payment against an
// invoice or journal line. References accumulate as the payment is applied.
type PaymentEntryReference struct {
	ID                uuid.UUID       `json:"id"`
	ReferenceDoctype  string          `json:"reference_doctype"`
	ReferenceName     string          `json:"reference_name"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
}

// PaymentEntry is a cash movement against a party. The unallocated portion
// is what the reconciliation engine offers as an advance.
type PaymentEntry struct {
	shared.BaseEntity
	VoucherNo         string
	Company           string
	PaymentType       PaymentType
	PartyType         reconciliation.PartyType
	Party             string
	PartyAccount      string
	BankCashAccount   string
	PostingDate       time.Time
	Currency          valueobject.Currency // party account currency
	CompanyCurrency   valueobject.Currency
	ExchangeRate      decimal.Decimal
	PaidAmount        decimal.Decimal // account currency
	BasePaidAmount    decimal.Decimal // company currency
	UnallocatedAmount decimal.Decimal
	DifferenceAmount  decimal.Decimal // company currency
	Docstatus         Docstatus
	References        []PaymentEntryReference
}

// NewPaymentEntry creates a draft payment entry with the full paid amount
// unallocated
func NewPaymentEntry(voucherNo, company string, paymentType PaymentType, partyType reconciliation.PartyType, party, partyAccount, bankCashAccount string, postingDate time.Time, currency, companyCurrency valueobject.Currency, exchangeRate, paidAmount decimal.Decimal) (*PaymentEntry, error) {
	if voucherNo == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment voucher number cannot be empty")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Unknown payment type")
	}
	if !partyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Unknown party type")
	}
	if paidAmount.IsNegative() || paidAmount.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Paid amount must be positive")
	}
	if exchangeRate.IsZero() {
		exchangeRate = decimal.NewFromInt(1)
	}
	return &PaymentEntry{
		BaseEntity:        shared.NewBaseEntity(),
		VoucherNo:         voucherNo,
		Company:           company,
		PaymentType:       paymentType,
		PartyType:         partyType,
		Party:             party,
		PartyAccount:      partyAccount,
		BankCashAccount:   bankCashAccount,
		PostingDate:       postingDate,
		Currency:          currency,
		CompanyCurrency:   companyCurrency,
		ExchangeRate:      exchangeRate,
		PaidAmount:        paidAmount,
		BasePaidAmount:    paidAmount.Mul(exchangeRate),
		UnallocatedAmount: paidAmount,
		Docstatus:         DocstatusDraft,
	}, nil
}

// Submit moves the payment entry onto the books
func (p *PaymentEntry) Submit() error {
	if p.Docstatus != DocstatusDraft {
		return shared.ErrInvalidState
	}
	p.Docstatus = DocstatusSubmitted
	return nil
}

// Allocate applies a portion of the payment against a target document. It
// appends a reference row, reduces the unallocated balance and recomputes
// the difference amount. The caller validates the allocation against the
// target's outstanding; the payment only guards its own balance.
func (p *PaymentEntry) Allocate(referenceDoctype, referenceName string, totalAmount, outstandingAmount, allocatedAmount, differenceAmount decimal.Decimal) error {
	if !p.Docstatus.IsSubmitted() {
		return shared.ErrInvalidState
	}
	if allocatedAmount.IsNegative() || allocatedAmount.IsZero() {
		return shared.ErrInvalidInput
	}
	if allocatedAmount.GreaterThan(p.UnallocatedAmount) {
		return shared.NewDomainError("ALLOCATION_OVERFLOW", "Allocated amount exceeds unallocated balance")
	}

	p.References = append(p.References, PaymentEntryReference{
		ID:                uuid.New(),
		ReferenceDoctype:  referenceDoctype,
		ReferenceName:     referenceName,
		TotalAmount:       totalAmount,
		OutstandingAmount: outstandingAmount,
		AllocatedAmount:   allocatedAmount,
	})
	p.UnallocatedAmount = p.UnallocatedAmount.Sub(allocatedAmount)
	return p.recomputeDifference(differenceAmount)
}

// recomputeDifference recalculates the payment's difference amount in
// company currency: the gap between the booked base amount and the paid
// amount converted at the entry's exchange rate, plus any explicit
// difference carried by the allocation.
func (p *PaymentEntry) recomputeDifference(allocationDifference decimal.Decimal) error {
	base, err := valueobject.NewMoney(p.BasePaidAmount, p.CompanyCurrency)
	if err != nil {
		return err
	}
	converted, err := valueobject.NewMoney(p.PaidAmount.Mul(p.ExchangeRate), p.CompanyCurrency)
	if err != nil {
		return err
	}
	gap, err := base.Subtract(converted)
	if err != nil {
		return err
	}
	extra, err := valueobject.NewMoney(allocationDifference, p.CompanyCurrency)
	if err != nil {
		return err
	}
	total, err := gap.Add(extra)
	if err != nil {
		return err
	}
	p.DifferenceAmount = total.Amount()
	return nil
}

// AllocatedTotal sums the allocation references
func (p *PaymentEntry) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, ref := range p.References {
		total = total.Add(ref.AllocatedAmount)
	}
	return total
}

// HasUnallocated returns true if the payment still carries advance balance
func (p *PaymentEntry) HasUnallocated() bool {
	return p.Docstatus.IsSubmitted() && p.UnallocatedAmount.IsPositive()
}
