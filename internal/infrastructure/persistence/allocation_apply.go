package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
)

// drawDownTolerance mirrors the settlement rounding the domain allows when
// an allocation closes a balance out.
var drawDownTolerance = decimal.NewFromFloat(0.009)

// drawDownVoucher reduces the outstanding balance of the referenced voucher
// by the allocated amount. It runs inside the caller's transaction.
func drawDownVoucher(ctx context.Context, tx *gorm.DB, doctype, voucherNo string, amount decimal.Decimal) error {
	switch doctype {
	case reconciliation.VoucherTypeSalesInvoice, reconciliation.VoucherTypePurchaseInvoice:
		return drawDownInvoice(ctx, tx, doctype, voucherNo, amount)
	case reconciliation.VoucherTypeJournalEntry:
		return drawDownJournal(ctx, tx, voucherNo, "", amount)
	default:
		return shared.NewDomainError("UNKNOWN_VOUCHER_TYPE",
			fmt.Sprintf("Cannot settle against %s documents", doctype))
	}
}

func drawDownInvoice(ctx context.Context, tx *gorm.DB, doctype, voucherNo string, amount decimal.Decimal) error {
	var model models.InvoiceModel
	if err := tx.WithContext(ctx).
		Where("doctype = ? AND voucher_no = ?", doctype, voucherNo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	invoice := model.ToDomain()
	if err := invoice.ApplyAllocation(amount); err != nil {
		return err
	}
	model.FromDomain(invoice)
	return tx.WithContext(ctx).Save(&model).Error
}

// drawDownJournal reduces the outstanding balance carried by a journal
// voucher's party legs. With a leg ID the reduction targets that leg alone;
// otherwise it walks the voucher's open legs in order until the amount is
// absorbed.
func drawDownJournal(ctx context.Context, tx *gorm.DB, voucherNo, legID string, amount decimal.Decimal) error {
	var legs []models.JournalEntryAccountModel
	query := tx.WithContext(ctx).
		Joins("JOIN journal_entries je ON je.id = journal_entry_accounts.journal_entry_id").
		Where("je.voucher_no = ?", voucherNo).
		Where("journal_entry_accounts.outstanding_amount > 0").
		Order("journal_entry_accounts.id")
	if legID != "" {
		id, err := uuid.Parse(legID)
		if err != nil {
			return shared.ErrInvalidInput
		}
		query = query.Where("journal_entry_accounts.id = ?", id)
	}
	if err := query.Find(&legs).Error; err != nil {
		return err
	}
	if len(legs) == 0 {
		return shared.ErrNotFound
	}

	remaining := amount
	for i := range legs {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(legs[i].OutstandingAmount, remaining)
		legs[i].OutstandingAmount = legs[i].OutstandingAmount.Sub(take)
		if err := tx.WithContext(ctx).Model(&models.JournalEntryAccountModel{}).
			Where("id = ?", legs[i].ID).
			Update("outstanding_amount", legs[i].OutstandingAmount).Error; err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}
	if remaining.GreaterThan(drawDownTolerance) {
		return shared.NewDomainError("ALLOCATION_OVERFLOW",
			fmt.Sprintf("Allocated amount exceeds the open balance of %s", voucherNo))
	}
	return nil
}
