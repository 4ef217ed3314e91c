package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
)

// GormPaymentEntryRepository implements PaymentEntryRepository using GORM.
// It doubles as the reconciliation engine's advance-payment provider.
type GormPaymentEntryRepository struct {
	db *gorm.DB
}

// NewGormPaymentEntryRepository creates a new GormPaymentEntryRepository
func NewGormPaymentEntryRepository(db *gorm.DB) *GormPaymentEntryRepository {
	return &GormPaymentEntryRepository{db: db}
}

var (
	_ ledger.PaymentEntryRepository         = (*GormPaymentEntryRepository)(nil)
	_ reconciliation.AdvancePaymentProvider = (*GormPaymentEntryRepository)(nil)
)

// FindByVoucherNo finds a payment entry with its references
func (r *GormPaymentEntryRepository) FindByVoucherNo(ctx context.Context, voucherNo string) (*ledger.PaymentEntry, error) {
	var model models.PaymentEntryModel
	if err := r.db.WithContext(ctx).
		Preload("References").
		Where("voucher_no = ?", voucherNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindWithUnallocated finds submitted payment entries that still carry
// unallocated balance for a party on its control account. Order-earmarked
// advances are not excluded; only balance already applied to other vouchers
// is gone from the unallocated amount.
func (r *GormPaymentEntryRepository) FindWithUnallocated(ctx context.Context, partyType reconciliation.PartyType, party, partyAccount, bankCashAccount string, limit int) ([]ledger.PaymentEntry, error) {
	var entryModels []models.PaymentEntryModel
	query := r.db.WithContext(ctx).Model(&models.PaymentEntryModel{}).
		Preload("References").
		Where("party_type = ? AND party = ? AND party_account = ?", string(partyType), party, partyAccount).
		Where("docstatus = ?", int(ledger.DocstatusSubmitted)).
		Where("unallocated_amount > 0")
	if bankCashAccount != "" {
		query = query.Where("bank_cash_account = ?", bankCashAccount)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("posting_date, voucher_no").Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]ledger.PaymentEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Save creates or updates a payment entry and its references
func (r *GormPaymentEntryRepository) Save(ctx context.Context, entry *ledger.PaymentEntry) error {
	var model models.PaymentEntryModel
	model.FromDomain(entry)
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Save(&model).Error
}

// FetchAdvancePayments returns the unapplied payment entries for a party as
// reconciliation candidate rows. The row amount is the entry's unallocated
// remainder, not its original paid amount.
func (r *GormPaymentEntryRepository) FetchAdvancePayments(ctx context.Context, q reconciliation.AdvanceQuery) ([]reconciliation.PaymentRow, error) {
	entries, err := r.FindWithUnallocated(ctx, q.PartyType, q.Party, q.Account, q.AgainstAccount, q.Limit)
	if err != nil {
		return nil, err
	}

	rows := make([]reconciliation.PaymentRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, reconciliation.PaymentRow{
			ReferenceType: reconciliation.VoucherTypePaymentEntry,
			ReferenceName: entry.VoucherNo,
			Amount:        entry.UnallocatedAmount,
			Currency:      string(entry.Currency),
		})
	}
	return rows, nil
}
