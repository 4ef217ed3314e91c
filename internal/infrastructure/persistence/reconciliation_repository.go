package persistence

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
)

// GormPaymentReferenceRepository applies reconciliation allocations to their
// source payment entries and journal entries and draws down the settled
// vouchers, all within one transaction per batch.
type GormPaymentReferenceRepository struct {
	db *gorm.DB
}

// NewGormPaymentReferenceRepository creates a new GormPaymentReferenceRepository
func NewGormPaymentReferenceRepository(db *gorm.DB) *GormPaymentReferenceRepository {
	return &GormPaymentReferenceRepository{db: db}
}

var _ reconciliation.PaymentReferenceUpdater = (*GormPaymentReferenceRepository)(nil)

// UpdateReferences durably applies a batch of allocation descriptors. Each
// descriptor updates its source document (a payment entry gains a reference
// row and loses unallocated balance, a journal leg loses open balance) and
// reduces the outstanding amount of the settled voucher.
func (r *GormPaymentReferenceRepository) UpdateReferences(ctx context.Context, allocations []reconciliation.AllocationDescriptor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, alloc := range allocations {
			if err := applyAllocation(ctx, tx, alloc); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyAllocation(ctx context.Context, tx *gorm.DB, alloc reconciliation.AllocationDescriptor) error {
	switch alloc.VoucherType {
	case reconciliation.VoucherTypePaymentEntry:
		if err := allocatePaymentEntry(ctx, tx, alloc); err != nil {
			return err
		}
	case reconciliation.VoucherTypeJournalEntry:
		if err := drawDownJournal(ctx, tx, alloc.VoucherNo, alloc.VoucherDetailNo, alloc.AllocatedAmount); err != nil {
			return err
		}
	default:
		return shared.NewDomainError("UNKNOWN_VOUCHER_TYPE", "Unsupported allocation source "+alloc.VoucherType)
	}
	return drawDownVoucher(ctx, tx, alloc.AgainstVoucherType, alloc.AgainstVoucher, alloc.AllocatedAmount)
}

// allocatePaymentEntry loads the source payment entry, applies the
// allocation to it and writes the updated entry and its new reference row
// back.
func allocatePaymentEntry(ctx context.Context, tx *gorm.DB, alloc reconciliation.AllocationDescriptor) error {
	var model models.PaymentEntryModel
	if err := tx.WithContext(ctx).
		Preload("References").
		Where("voucher_no = ?", alloc.VoucherNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	total, outstanding, err := voucherBalances(ctx, tx, alloc.AgainstVoucherType, alloc.AgainstVoucher)
	if err != nil {
		return err
	}

	entry := model.ToDomain()
	if err := entry.Allocate(alloc.AgainstVoucherType, alloc.AgainstVoucher,
		total, outstanding, alloc.AllocatedAmount, alloc.DifferenceAmount); err != nil {
		return err
	}

	model.FromDomain(entry)
	if err := tx.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(&model).Error; err != nil {
		return err
	}
	return nil
}

// voucherBalances reads the current total and outstanding of the voucher an
// allocation settles, for the payment entry's reference row.
func voucherBalances(ctx context.Context, tx *gorm.DB, doctype, voucherNo string) (total, outstanding decimal.Decimal, err error) {
	switch doctype {
	case reconciliation.VoucherTypeSalesInvoice, reconciliation.VoucherTypePurchaseInvoice:
		var model models.InvoiceModel
		if err := tx.WithContext(ctx).
			Where("doctype = ? AND voucher_no = ?", doctype, voucherNo).
			First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return decimal.Zero, decimal.Zero, shared.ErrNotFound
			}
			return decimal.Zero, decimal.Zero, err
		}
		return model.GrandTotal, model.OutstandingAmount, nil
	case reconciliation.VoucherTypeJournalEntry:
		var legs []models.JournalEntryAccountModel
		if err := tx.WithContext(ctx).
			Joins("JOIN journal_entries je ON je.id = journal_entry_accounts.journal_entry_id").
			Where("je.voucher_no = ?", voucherNo).
			Where("journal_entry_accounts.outstanding_amount > 0").
			Find(&legs).Error; err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		open := decimal.Zero
		for _, leg := range legs {
			open = open.Add(leg.OutstandingAmount)
		}
		return open, open, nil
	default:
		return decimal.Zero, decimal.Zero, shared.NewDomainError("UNKNOWN_VOUCHER_TYPE",
			"Unsupported settlement target "+doctype)
	}
}

// PreviewDifference applies a single descriptor to its payment entry in
// memory and reports the resulting difference amount without persisting.
func (r *GormPaymentReferenceRepository) PreviewDifference(ctx context.Context, alloc reconciliation.AllocationDescriptor) (decimal.Decimal, error) {
	var model models.PaymentEntryModel
	if err := r.db.WithContext(ctx).
		Preload("References").
		Where("voucher_no = ?", alloc.VoucherNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, shared.ErrNotFound
		}
		return decimal.Zero, err
	}

	total, outstanding, err := voucherBalances(ctx, r.db, alloc.AgainstVoucherType, alloc.AgainstVoucher)
	if err != nil {
		return decimal.Zero, err
	}

	entry := model.ToDomain()
	if err := entry.Allocate(alloc.AgainstVoucherType, alloc.AgainstVoucher,
		total, outstanding, alloc.AllocatedAmount, alloc.DifferenceAmount); err != nil {
		return decimal.Zero, err
	}
	return entry.DifferenceAmount, nil
}
