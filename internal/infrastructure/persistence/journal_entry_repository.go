package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM.
// It also serves reconciliation twice over: as the advance-journal provider
// and as the poster that writes synthesized note journals to the books.
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

var (
	_ ledger.JournalEntryRepository         = (*GormJournalEntryRepository)(nil)
	_ reconciliation.AdvanceJournalProvider = (*GormJournalEntryRepository)(nil)
	_ reconciliation.NoteJournalPoster      = (*GormJournalEntryRepository)(nil)
)

// FindByVoucherNo finds a journal entry with its account legs
func (r *GormJournalEntryRepository) FindByVoucherNo(ctx context.Context, voucherNo string) (*ledger.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Accounts").
		Where("voucher_no = ?", voucherNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a journal entry and its account legs
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *ledger.JournalEntry) error {
	var model models.JournalEntryModel
	model.FromDomain(entry)
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Save(&model).Error
}

// FetchAdvanceJournals returns submitted journal legs posted on the
// allocation side of the party control account that still carry unapplied
// balance. Legs already tied to a voucher other than an order earmark are
// excluded; order earmarks are irrelevant when reconciling against invoices.
func (r *GormJournalEntryRepository) FetchAdvanceJournals(ctx context.Context, q reconciliation.AdvanceQuery) ([]reconciliation.PaymentRow, error) {
	side := reconciliation.AllocationSide(reconciliation.AccountTypeOf(q.PartyType))
	column := columnFor(side)

	var lines []journalCandidate
	query := r.db.WithContext(ctx).
		Table("journal_entry_accounts AS jea").
		Select("jea.*, je.voucher_no AS voucher_no, je.posting_date AS posting_date").
		Joins("JOIN journal_entries je ON je.id = jea.journal_entry_id").
		Where("je.docstatus = ?", int(ledger.DocstatusSubmitted)).
		Where("jea.account = ? AND jea.party_type = ? AND jea.party = ?", q.Account, string(q.PartyType), q.Party).
		Where("jea.outstanding_amount > 0").
		Where("jea."+column+" > 0").
		Where("jea.reference_type = '' OR jea.reference_type IS NULL OR jea.reference_type = ?", q.OrderDoctype)
	if q.AgainstAccount != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM journal_entry_accounts other WHERE other.journal_entry_id = jea.journal_entry_id AND other.account = ?)",
			q.AgainstAccount)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if err := query.Order("posting_date, voucher_no").Scan(&lines).Error; err != nil {
		return nil, err
	}

	rows := make([]reconciliation.PaymentRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, reconciliation.PaymentRow{
			ReferenceType: reconciliation.VoucherTypeJournalEntry,
			ReferenceName: line.VoucherNo,
			ReferenceRow:  line.ID.String(),
			Amount:        line.OutstandingAmount,
			Currency:      line.AccountCurrency,
		})
	}
	return rows, nil
}

// Post writes a synthesized note journal to the books and draws down the
// outstanding balance of both documents it references, all in one
// transaction.
func (r *GormJournalEntryRepository) Post(ctx context.Context, journal reconciliation.NoteJournal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := ledger.NewJournalEntry(
			noteVoucherNo(journal.PostingDate), journal.VoucherType, journal.Company, journal.PostingDate)
		if err != nil {
			return err
		}
		entry.MultiCurrency = journal.MultiCurrency

		for _, line := range journal.Accounts {
			leg := ledger.JournalEntryAccount{
				Account:       line.Account,
				PartyType:     line.PartyType,
				Party:         line.Party,
				CostCenter:    line.CostCenter,
				ReferenceType: line.ReferenceType,
				ReferenceName: line.ReferenceName,
			}
			if line.Side == reconciliation.SideDebit {
				leg.Debit = line.Amount
			} else {
				leg.Credit = line.Amount
			}
			entry.AddAccount(leg)
		}
		if err := entry.Submit(); err != nil {
			return err
		}

		var model models.JournalEntryModel
		model.FromDomain(entry)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		for _, line := range journal.Accounts {
			if err := drawDownVoucher(ctx, tx, line.ReferenceType, line.ReferenceName, line.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// noteVoucherNo generates a voucher number for a synthesized note journal.
func noteVoucherNo(postingDate time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("JV-%s-%s", postingDate.Format("20060102"), suffix)
}
