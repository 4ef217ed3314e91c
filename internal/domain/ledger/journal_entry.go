package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
)

// JournalEntryAccount is one leg of a journal entry. Party legs on a control
// account carry an outstanding balance that reconciliation draws down.
type JournalEntryAccount struct {
	ID                uuid.UUID                `json:"id"`
	Account           string                   `json:"account"`
	PartyType         reconciliation.PartyType `json:"party_type,omitempty"`
	Party             string                   `json:"party,omitempty"`
	Debit             decimal.Decimal          `json:"debit_in_account_currency"`
	Credit            decimal.Decimal          `json:"credit_in_account_currency"`
	AccountCurrency   valueobject.Currency     `json:"account_currency"`
	CostCenter        string                   `json:"cost_center,omitempty"`
	ReferenceType     string                   `json:"reference_type,omitempty"`
	ReferenceName     string                   `json:"reference_name,omitempty"`
	OutstandingAmount decimal.Decimal          `json:"outstanding_amount"`
}

// AmountOn returns the leg's amount on the given side
func (a *JournalEntryAccount) AmountOn(side reconciliation.Side) decimal.Decimal {
	if side == reconciliation.SideDebit {
		return a.Debit
	}
	return a.Credit
}

// ApplyAllocation reduces the leg's outstanding balance
func (a *JournalEntryAccount) ApplyAllocation(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.ErrInvalidInput
	}
	remaining := a.OutstandingAmount.Sub(amount)
	if remaining.IsNegative() {
		if remaining.Abs().GreaterThan(settlementRounding) {
			return shared.NewDomainError("ALLOCATION_OVERFLOW", "Allocated amount exceeds journal line balance")
		}
		remaining = decimal.Zero
	}
	a.OutstandingAmount = remaining
	return nil
}

// JournalEntry is a general journal voucher. Reconciliation both reads them
// (party legs with unapplied balance act as advances) and writes them (note
// journals synthesized for invoice-to-invoice allocations).
type JournalEntry struct {
	shared.BaseEntity
	VoucherNo     string
	VoucherType   string
	Company       string
	PostingDate   time.Time
	MultiCurrency bool
	Remark        string
	Docstatus     Docstatus
	Accounts      []JournalEntryAccount
}

// NewJournalEntry creates a draft journal voucher
func NewJournalEntry(voucherNo, voucherType, company string, postingDate time.Time) (*JournalEntry, error) {
	if voucherNo == "" {
		return nil, shared.NewDomainError("INVALID_JOURNAL", "Journal voucher number cannot be empty")
	}
	if voucherType == "" {
		return nil, shared.NewDomainError("INVALID_JOURNAL", "Journal voucher type cannot be empty")
	}
	return &JournalEntry{
		BaseEntity:  shared.NewBaseEntity(),
		VoucherNo:   voucherNo,
		VoucherType: voucherType,
		Company:     company,
		PostingDate: postingDate,
		Docstatus:   DocstatusDraft,
	}, nil
}

// AddAccount appends a leg to the journal
func (j *JournalEntry) AddAccount(account JournalEntryAccount) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	j.Accounts = append(j.Accounts, account)
}

// TotalDebit sums the debit side across legs
func (j *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, a := range j.Accounts {
		total = total.Add(a.Debit)
	}
	return total
}

// TotalCredit sums the credit side across legs
func (j *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, a := range j.Accounts {
		total = total.Add(a.Credit)
	}
	return total
}

// Validate checks the journal is postable. Single-currency journals must
// balance; multi-currency journals balance in base currency, which the legs
// here do not carry, so only structural checks apply.
func (j *JournalEntry) Validate() error {
	if len(j.Accounts) == 0 {
		return shared.NewDomainError("INVALID_JOURNAL", "Journal entry must have at least one account")
	}
	for _, a := range j.Accounts {
		if a.Account == "" {
			return shared.NewDomainError("INVALID_JOURNAL", "Journal account leg is missing an account")
		}
		if a.Debit.IsPositive() && a.Credit.IsPositive() {
			return shared.NewDomainError("INVALID_JOURNAL", "Journal account leg cannot carry both debit and credit")
		}
	}
	if !j.MultiCurrency && !j.TotalDebit().Equal(j.TotalCredit()) {
		return shared.NewDomainError("INVALID_JOURNAL", "Journal entry debits and credits do not balance")
	}
	return nil
}

// Submit validates and moves the journal onto the books
func (j *JournalEntry) Submit() error {
	if j.Docstatus != DocstatusDraft {
		return shared.ErrInvalidState
	}
	if err := j.Validate(); err != nil {
		return err
	}
	j.Docstatus = DocstatusSubmitted
	return nil
}
