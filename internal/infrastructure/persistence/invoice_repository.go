package persistence

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceRepository using GORM. It doubles
// as the reconciliation engine's outstanding-invoice provider, where the
// candidate set is the union of outstanding invoices and submitted journal
// legs that still carry balance on the invoice side.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var (
	_ ledger.InvoiceRepository                  = (*GormInvoiceRepository)(nil)
	_ reconciliation.OutstandingInvoiceProvider = (*GormInvoiceRepository)(nil)
)

// columnFor maps the structured filter side to its model column. The side is
// a closed enum, so the column name is never caller-controlled.
func columnFor(side reconciliation.Side) string {
	if side == reconciliation.SideDebit {
		return "debit_in_account_currency"
	}
	return "credit_in_account_currency"
}

// FindByVoucher finds an invoice by doctype and voucher number
func (r *GormInvoiceRepository) FindByVoucher(ctx context.Context, doctype ledger.InvoiceDoctype, voucherNo string) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("doctype = ? AND voucher_no = ?", string(doctype), voucherNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOutstanding finds submitted invoices with unsettled balance for a
// party on its control account, ordered by posting date then voucher number
func (r *GormInvoiceRepository) FindOutstanding(ctx context.Context, partyType reconciliation.PartyType, party, account string, filter ledger.InvoiceFilter) ([]ledger.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("party_type = ? AND party = ? AND account = ?", string(partyType), party, account).
		Where("docstatus = ?", int(ledger.DocstatusSubmitted)).
		Where("outstanding_amount > 0")
	if filter.FromDate != nil {
		query = query.Where("posting_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("posting_date <= ?", *filter.ToDate)
	}
	if filter.MinOutstanding != nil {
		query = query.Where("outstanding_amount >= ?", *filter.MinOutstanding)
	}
	if filter.MaxOutstanding != nil {
		query = query.Where("outstanding_amount <= ?", *filter.MaxOutstanding)
	}
	if err := query.Order("posting_date, voucher_no").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]ledger.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FetchOutstanding returns the reconciliation candidate invoices: submitted
// invoices plus journal legs carrying balance on the invoice-side column,
// merged and ordered by posting date then voucher number.
func (r *GormInvoiceRepository) FetchOutstanding(ctx context.Context, partyType reconciliation.PartyType, party, account string, cond reconciliation.InvoiceCondition) ([]reconciliation.InvoiceRow, error) {
	rows, err := r.fetchInvoiceRows(ctx, partyType, party, account, cond)
	if err != nil {
		return nil, err
	}
	journalRows, err := r.fetchJournalRows(ctx, partyType, party, account, cond)
	if err != nil {
		return nil, err
	}
	rows = append(rows, journalRows...)

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].InvoiceDate.Equal(rows[j].InvoiceDate) {
			return rows[i].InvoiceDate.Before(rows[j].InvoiceDate)
		}
		return rows[i].InvoiceNumber < rows[j].InvoiceNumber
	})
	return rows, nil
}

func (r *GormInvoiceRepository) fetchInvoiceRows(ctx context.Context, partyType reconciliation.PartyType, party, account string, cond reconciliation.InvoiceCondition) ([]reconciliation.InvoiceRow, error) {
	var invoiceModels []models.InvoiceModel
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("party_type = ? AND party = ? AND account = ?", string(partyType), party, account).
		Where("docstatus = ?", int(ledger.DocstatusSubmitted)).
		Where("outstanding_amount > 0")
	query = applyDateBounds(query, cond)
	query = applyAmountBounds(query, columnFor(cond.Column), cond)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	rows := make([]reconciliation.InvoiceRow, 0, len(invoiceModels))
	for _, model := range invoiceModels {
		rows = append(rows, reconciliation.InvoiceRow{
			InvoiceType:       model.Doctype,
			InvoiceNumber:     model.VoucherNo,
			InvoiceDate:       model.PostingDate,
			Amount:            model.GrandTotal,
			OutstandingAmount: model.OutstandingAmount,
			Currency:          model.Currency,
		})
	}
	return rows, nil
}

// journalCandidate joins a journal leg with its parent voucher fields.
type journalCandidate struct {
	models.JournalEntryAccountModel
	VoucherNo   string
	PostingDate time.Time
}

// fetchJournalRows picks up submitted journal legs posted on the invoice
// side of the party control account that still carry outstanding balance,
// skipping legs already tied to another voucher.
func (r *GormInvoiceRepository) fetchJournalRows(ctx context.Context, partyType reconciliation.PartyType, party, account string, cond reconciliation.InvoiceCondition) ([]reconciliation.InvoiceRow, error) {
	column := columnFor(cond.Column)

	var lines []journalCandidate
	query := r.db.WithContext(ctx).
		Table("journal_entry_accounts AS jea").
		Select("jea.*, je.voucher_no AS voucher_no, je.posting_date AS posting_date").
		Joins("JOIN journal_entries je ON je.id = jea.journal_entry_id").
		Where("je.docstatus = ?", int(ledger.DocstatusSubmitted)).
		Where("jea.account = ? AND jea.party_type = ? AND jea.party = ?", account, string(partyType), party).
		Where("jea.outstanding_amount > 0").
		Where("jea." + column + " > 0").
		Where("jea.reference_type = '' OR jea.reference_type IS NULL")
	query = applyJournalDateBounds(query, cond)
	query = applyAmountBounds(query, "jea."+column, cond)

	if err := query.Scan(&lines).Error; err != nil {
		return nil, err
	}

	rows := make([]reconciliation.InvoiceRow, 0, len(lines))
	for _, line := range lines {
		amount := line.DebitInAccountCurrency
		if cond.Column == reconciliation.SideCredit {
			amount = line.CreditInAccountCurrency
		}
		rows = append(rows, reconciliation.InvoiceRow{
			InvoiceType:       reconciliation.VoucherTypeJournalEntry,
			InvoiceNumber:     line.VoucherNo,
			InvoiceDate:       line.PostingDate,
			Amount:            amount,
			OutstandingAmount: line.OutstandingAmount,
			Currency:          line.AccountCurrency,
		})
	}
	return rows, nil
}

func applyDateBounds(query *gorm.DB, cond reconciliation.InvoiceCondition) *gorm.DB {
	if cond.FromDate != nil {
		query = query.Where("posting_date >= ?", *cond.FromDate)
	}
	if cond.ToDate != nil {
		query = query.Where("posting_date <= ?", *cond.ToDate)
	}
	return query
}

func applyJournalDateBounds(query *gorm.DB, cond reconciliation.InvoiceCondition) *gorm.DB {
	if cond.FromDate != nil {
		query = query.Where("je.posting_date >= ?", *cond.FromDate)
	}
	if cond.ToDate != nil {
		query = query.Where("je.posting_date <= ?", *cond.ToDate)
	}
	return query
}

func applyAmountBounds(query *gorm.DB, column string, cond reconciliation.InvoiceCondition) *gorm.DB {
	if cond.MinimumAmount != nil {
		query = query.Where(column+" >= ?", *cond.MinimumAmount)
	}
	if cond.MaximumAmount != nil {
		query = query.Where(column+" <= ?", *cond.MaximumAmount)
	}
	return query
}
