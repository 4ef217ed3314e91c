package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
)

// CompanyModel is the persistence model for the Company entity.
type CompanyModel struct {
	BaseModel
	Name              string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Currency          string `gorm:"type:varchar(3);not null"`
	DefaultCostCenter string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company entity.
func (m *CompanyModel) ToDomain() *ledger.Company {
	return &ledger.Company{
		BaseEntity:        m.BaseModel.ToDomain(),
		Name:              m.Name,
		Currency:          valueobject.Currency(m.Currency),
		DefaultCostCenter: m.DefaultCostCenter,
	}
}

// FromDomain populates the persistence model from a domain Company entity.
func (m *CompanyModel) FromDomain(c *ledger.Company) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Currency = string(c.Currency)
	m.DefaultCostCenter = c.DefaultCostCenter
}

// InvoiceModel is the persistence model for sales and purchase invoices.
// The outstanding balance is mirrored onto the account-currency column the
// invoice posts on, so structured amount filters can address that column by
// name.
type InvoiceModel struct {
	BaseModel
	Doctype                 string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_invoice_doctype_voucher,priority:1"`
	VoucherNo               string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_doctype_voucher,priority:2"`
	Company                 string          `gorm:"type:varchar(200);not null;index"`
	PartyType               string          `gorm:"type:varchar(30);not null;index"`
	Party                   string          `gorm:"type:varchar(200);not null;index"`
	Account                 string          `gorm:"type:varchar(200);not null;index"`
	PostingDate             time.Time       `gorm:"not null;index"`
	Currency                string          `gorm:"type:varchar(3);not null"`
	ExchangeRate            decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"`
	GrandTotal              decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OutstandingAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;index"`
	DebitInAccountCurrency  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditInAccountCurrency decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Docstatus               int             `gorm:"not null;default:0;index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *ledger.Invoice {
	return &ledger.Invoice{
		BaseEntity:        m.BaseModel.ToDomain(),
		Doctype:           ledger.InvoiceDoctype(m.Doctype),
		VoucherNo:         m.VoucherNo,
		Company:           m.Company,
		PartyType:         reconciliation.PartyType(m.PartyType),
		Party:             m.Party,
		Account:           m.Account,
		PostingDate:       m.PostingDate,
		Currency:          valueobject.Currency(m.Currency),
		ExchangeRate:      m.ExchangeRate,
		GrandTotal:        m.GrandTotal,
		OutstandingAmount: m.OutstandingAmount,
		Docstatus:         ledger.Docstatus(m.Docstatus),
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
// The outstanding balance lands on the debit column for receivable parties
// and the credit column for payable parties.
func (m *InvoiceModel) FromDomain(inv *ledger.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.Doctype = string(inv.Doctype)
	m.VoucherNo = inv.VoucherNo
	m.Company = inv.Company
	m.PartyType = string(inv.PartyType)
	m.Party = inv.Party
	m.Account = inv.Account
	m.PostingDate = inv.PostingDate
	m.Currency = string(inv.Currency)
	m.ExchangeRate = inv.ExchangeRate
	m.GrandTotal = inv.GrandTotal
	m.OutstandingAmount = inv.OutstandingAmount

	m.DebitInAccountCurrency = decimal.Zero
	m.CreditInAccountCurrency = decimal.Zero
	side := reconciliation.InvoiceSide(reconciliation.AccountTypeOf(inv.PartyType))
	if side == reconciliation.SideDebit {
		m.DebitInAccountCurrency = inv.OutstandingAmount
	} else {
		m.CreditInAccountCurrency = inv.OutstandingAmount
	}
	m.Docstatus = int(inv.Docstatus)
}

// PaymentEntryModel is the persistence model for the PaymentEntry aggregate.
type PaymentEntryModel struct {
	BaseModel
	VoucherNo         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Company           string          `gorm:"type:varchar(200);not null;index"`
	PaymentType       string          `gorm:"type:varchar(10);not null"`
	PartyType         string          `gorm:"type:varchar(30);not null;index"`
	Party             string          `gorm:"type:varchar(200);not null;index"`
	PartyAccount      string          `gorm:"type:varchar(200);not null;index"`
	BankCashAccount   string          `gorm:"type:varchar(200)"`
	PostingDate       time.Time       `gorm:"not null;index"`
	Currency          string          `gorm:"type:varchar(3);not null"`
	CompanyCurrency   string          `gorm:"type:varchar(3);not null"`
	ExchangeRate      decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BasePaidAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnallocatedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;index"`
	DifferenceAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Docstatus         int             `gorm:"not null;default:0;index"`

	References []PaymentEntryReferenceModel `gorm:"foreignKey:PaymentEntryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PaymentEntryModel) TableName() string {
	return "payment_entries"
}

// PaymentEntryReferenceModel is one allocation row under a payment entry.
type PaymentEntryReferenceModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentEntryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReferenceDoctype  string          `gorm:"type:varchar(30);not null"`
	ReferenceName     string          `gorm:"type:varchar(50);not null;index"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OutstandingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AllocatedAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PaymentEntryReferenceModel) TableName() string {
	return "payment_entry_references"
}

// ToDomain converts the persistence model to a domain PaymentEntry entity.
func (m *PaymentEntryModel) ToDomain() *ledger.PaymentEntry {
	entry := &ledger.PaymentEntry{
		BaseEntity:        m.BaseModel.ToDomain(),
		VoucherNo:         m.VoucherNo,
		Company:           m.Company,
		PaymentType:       ledger.PaymentType(m.PaymentType),
		PartyType:         reconciliation.PartyType(m.PartyType),
		Party:             m.Party,
		PartyAccount:      m.PartyAccount,
		BankCashAccount:   m.BankCashAccount,
		PostingDate:       m.PostingDate,
		Currency:          valueobject.Currency(m.Currency),
		CompanyCurrency:   valueobject.Currency(m.CompanyCurrency),
		ExchangeRate:      m.ExchangeRate,
		PaidAmount:        m.PaidAmount,
		BasePaidAmount:    m.BasePaidAmount,
		UnallocatedAmount: m.UnallocatedAmount,
		DifferenceAmount:  m.DifferenceAmount,
		Docstatus:         ledger.Docstatus(m.Docstatus),
	}
	for _, ref := range m.References {
		entry.References = append(entry.References, ledger.PaymentEntryReference{
			ID:                ref.ID,
			ReferenceDoctype:  ref.ReferenceDoctype,
			ReferenceName:     ref.ReferenceName,
			TotalAmount:       ref.TotalAmount,
			OutstandingAmount: ref.OutstandingAmount,
			AllocatedAmount:   ref.AllocatedAmount,
		})
	}
	return entry
}

// FromDomain populates the persistence model from a domain PaymentEntry.
func (m *PaymentEntryModel) FromDomain(entry *ledger.PaymentEntry) {
	m.FromDomainBaseEntity(entry.BaseEntity)
	m.VoucherNo = entry.VoucherNo
	m.Company = entry.Company
	m.PaymentType = string(entry.PaymentType)
	m.PartyType = string(entry.PartyType)
	m.Party = entry.Party
	m.PartyAccount = entry.PartyAccount
	m.BankCashAccount = entry.BankCashAccount
	m.PostingDate = entry.PostingDate
	m.Currency = string(entry.Currency)
	m.CompanyCurrency = string(entry.CompanyCurrency)
	m.ExchangeRate = entry.ExchangeRate
	m.PaidAmount = entry.PaidAmount
	m.BasePaidAmount = entry.BasePaidAmount
	m.UnallocatedAmount = entry.UnallocatedAmount
	m.DifferenceAmount = entry.DifferenceAmount
	m.Docstatus = int(entry.Docstatus)

	m.References = m.References[:0]
	for _, ref := range entry.References {
		m.References = append(m.References, PaymentEntryReferenceModel{
			ID:                ref.ID,
			PaymentEntryID:    entry.ID,
			ReferenceDoctype:  ref.ReferenceDoctype,
			ReferenceName:     ref.ReferenceName,
			TotalAmount:       ref.TotalAmount,
			OutstandingAmount: ref.OutstandingAmount,
			AllocatedAmount:   ref.AllocatedAmount,
		})
	}
}

// JournalEntryModel is the persistence model for the JournalEntry aggregate.
type JournalEntryModel struct {
	BaseModel
	VoucherNo     string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	VoucherType   string    `gorm:"type:varchar(30);not null;index"`
	Company       string    `gorm:"type:varchar(200);not null;index"`
	PostingDate   time.Time `gorm:"not null;index"`
	MultiCurrency bool      `gorm:"not null;default:false"`
	Remark        string    `gorm:"type:text"`
	Docstatus     int       `gorm:"not null;default:0;index"`

	Accounts []JournalEntryAccountModel `gorm:"foreignKey:JournalEntryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// JournalEntryAccountModel is one leg of a journal entry. Party legs track
// the unapplied remainder reconciliation can still draw on.
type JournalEntryAccountModel struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primary_key"`
	JournalEntryID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Account                 string          `gorm:"type:varchar(200);not null;index"`
	PartyType               string          `gorm:"type:varchar(30);index"`
	Party                   string          `gorm:"type:varchar(200);index"`
	DebitInAccountCurrency  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditInAccountCurrency decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AccountCurrency         string          `gorm:"type:varchar(3)"`
	CostCenter              string          `gorm:"type:varchar(200)"`
	ReferenceType           string          `gorm:"type:varchar(30);index"`
	ReferenceName           string          `gorm:"type:varchar(50);index"`
	OutstandingAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (JournalEntryAccountModel) TableName() string {
	return "journal_entry_accounts"
}

// ToDomain converts the persistence model to a domain JournalEntry entity.
func (m *JournalEntryModel) ToDomain() *ledger.JournalEntry {
	entry := &ledger.JournalEntry{
		BaseEntity:    m.BaseModel.ToDomain(),
		VoucherNo:     m.VoucherNo,
		VoucherType:   m.VoucherType,
		Company:       m.Company,
		PostingDate:   m.PostingDate,
		MultiCurrency: m.MultiCurrency,
		Remark:        m.Remark,
		Docstatus:     ledger.Docstatus(m.Docstatus),
	}
	for _, a := range m.Accounts {
		entry.Accounts = append(entry.Accounts, ledger.JournalEntryAccount{
			ID:                a.ID,
			Account:           a.Account,
			PartyType:         reconciliation.PartyType(a.PartyType),
			Party:             a.Party,
			Debit:             a.DebitInAccountCurrency,
			Credit:            a.CreditInAccountCurrency,
			AccountCurrency:   valueobject.Currency(a.AccountCurrency),
			CostCenter:        a.CostCenter,
			ReferenceType:     a.ReferenceType,
			ReferenceName:     a.ReferenceName,
			OutstandingAmount: a.OutstandingAmount,
		})
	}
	return entry
}

// FromDomain populates the persistence model from a domain JournalEntry.
func (m *JournalEntryModel) FromDomain(entry *ledger.JournalEntry) {
	m.FromDomainBaseEntity(entry.BaseEntity)
	m.VoucherNo = entry.VoucherNo
	m.VoucherType = entry.VoucherType
	m.Company = entry.Company
	m.PostingDate = entry.PostingDate
	m.MultiCurrency = entry.MultiCurrency
	m.Remark = entry.Remark
	m.Docstatus = int(entry.Docstatus)

	m.Accounts = m.Accounts[:0]
	for _, a := range entry.Accounts {
		m.Accounts = append(m.Accounts, JournalEntryAccountModel{
			ID:                      a.ID,
			JournalEntryID:          entry.ID,
			Account:                 a.Account,
			PartyType:               string(a.PartyType),
			Party:                   a.Party,
			DebitInAccountCurrency:  a.Debit,
			CreditInAccountCurrency: a.Credit,
			AccountCurrency:         string(a.AccountCurrency),
			CostCenter:              a.CostCenter,
			ReferenceType:           a.ReferenceType,
			ReferenceName:           a.ReferenceName,
			OutstandingAmount:       a.OutstandingAmount,
		})
	}
}
