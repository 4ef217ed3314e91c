package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openledger/backend/internal/domain/shared"
)

// Document is the reconciliation working aggregate. It holds the selection
// criteria plus the current payments and invoices slates. It is transient:
// only the journals and reference updates produced from it become durable.
type Document struct {
	Company                  string           `json:"company"`
	PartyType                PartyType        `json:"party_type"`
	Party                    string           `json:"party"`
	ReceivablePayableAccount string           `json:"receivable_payable_account"`
	BankCashAccount          string           `json:"bank_cash_account,omitempty"`
	FromDate                 *time.Time       `json:"from_date,omitempty"`
	ToDate                   *time.Time       `json:"to_date,omitempty"`
	MinimumAmount            *decimal.Decimal `json:"minimum_amount,omitempty"`
	MaximumAmount            *decimal.Decimal `json:"maximum_amount,omitempty"`
	Limit                    int              `json:"limit,omitempty"`

	Payments []PaymentRow `json:"payments"`
	Invoices []InvoiceRow `json:"invoices"`
}

// AccountType resolves the control-account type from the document's party
// type.
func (d *Document) AccountType() AccountType {
	return AccountTypeOf(d.PartyType)
}

// mandatoryFields lists required header fields in the order they are checked,
// with the labels used in error messages.
var mandatoryFields = []struct {
	label   string
	present func(*Document) bool
}{
	{"Company", func(d *Document) bool { return d.Company != "" }},
	{"Party Type", func(d *Document) bool { return d.PartyType != "" }},
	{"Party", func(d *Document) bool { return d.Party != "" }},
	{"Receivable / Payable Account", func(d *Document) bool { return d.ReceivablePayableAccount != "" }},
}

func (d *Document) checkMandatoryToFetch() error {
	for _, f := range mandatoryFields {
		if !f.present(d) {
			return shared.NewDomainError(ErrCodeMandatoryFieldMissing,
				fmt.Sprintf("Please select %s first", f.label))
		}
	}
	return nil
}

// Engine orchestrates fetch, validate, allocate and post for reconciliation
// documents. All collaborators are injected; the engine holds no state of its
// own and is safe for concurrent use across documents.
type Engine struct {
	advancePayments AdvancePaymentProvider
	advanceJournals AdvanceJournalProvider
	invoices        OutstandingInvoiceProvider
	updater         PaymentReferenceUpdater
	poster          NoteJournalPoster
	settings        Settings
}

// NewEngine creates a reconciliation engine with the given collaborators.
func NewEngine(
	advancePayments AdvancePaymentProvider,
	advanceJournals AdvanceJournalProvider,
	invoices OutstandingInvoiceProvider,
	updater PaymentReferenceUpdater,
	poster NoteJournalPoster,
	settings Settings,
) *Engine {
	return &Engine{
		advancePayments: advancePayments,
		advanceJournals: advanceJournals,
		invoices:        invoices,
		updater:         updater,
		poster:          poster,
		settings:        settings,
	}
}

// FetchUnreconciled replaces both slates of the document: payments with the
// party's unapplied advance payment entries followed by its unapplied advance
// journal lines, and invoices with the party's outstanding invoices. Rows
// carry no identity across fetches.
func (e *Engine) FetchUnreconciled(ctx context.Context, d *Document) error {
	if err := d.checkMandatoryToFetch(); err != nil {
		return err
	}

	q := AdvanceQuery{
		PartyType:      d.PartyType,
		Party:          d.Party,
		Account:        d.ReceivablePayableAccount,
		OrderDoctype:   OrderDoctypeOf(d.PartyType),
		AgainstAccount: d.BankCashAccount,
		Limit:          d.Limit,
	}

	payments, err := e.advancePayments.FetchAdvancePayments(ctx, q)
	if err != nil {
		return err
	}
	journals, err := e.advanceJournals.FetchAdvanceJournals(ctx, q)
	if err != nil {
		return err
	}

	d.Payments = append(payments, journals...)
	for i := range d.Payments {
		d.Payments[i].Idx = i + 1
	}

	invoices, err := e.fetchInvoices(ctx, d)
	if err != nil {
		return err
	}
	d.Invoices = invoices
	return nil
}

// fetchInvoices queries the outstanding invoices for the document's criteria
// and truncates the result to the document's limit if one is set. The min/max
// bounds apply to the column invoices carry their balance on, which is the
// opposite of the session's allocation side.
func (e *Engine) fetchInvoices(ctx context.Context, d *Document) ([]InvoiceRow, error) {
	cond := InvoiceCondition{
		FromDate:      d.FromDate,
		ToDate:        d.ToDate,
		Column:        InvoiceSide(d.AccountType()),
		MinimumAmount: d.MinimumAmount,
		MaximumAmount: d.MaximumAmount,
	}
	invoices, err := e.invoices.FetchOutstanding(ctx, d.PartyType, d.Party, d.ReceivablePayableAccount, cond)
	if err != nil {
		return nil, err
	}
	if d.Limit > 0 && len(invoices) > d.Limit {
		invoices = invoices[:d.Limit]
	}
	return invoices, nil
}

// PreviewDifference computes what the source Payment Entry's difference
// amount would become if the row's allocation were applied, without
// persisting anything. Rows whose source is not a Payment Entry have no
// preview; the result is nil.
func (e *Engine) PreviewDifference(ctx context.Context, d *Document, row PaymentRow) (*decimal.Decimal, error) {
	if row.ReferenceType != VoucherTypePaymentEntry {
		return nil, nil
	}
	row.NormalizeInvoiceReference()

	desc := d.descriptorFor(row, AllocationSide(d.AccountType()))
	diff, err := e.updater.PreviewDifference(ctx, desc)
	if err != nil {
		return nil, err
	}
	return &diff, nil
}

// ReconcileMessage is returned to the caller after a successful reconcile.
const ReconcileMessage = "Successfully Reconciled"

// Reconcile applies the document's allocations. Payment-side allocations are
// handed to the reference updater first, then each note allocation is
// synthesized into a balancing journal and posted. Validation runs against a
// fresh invoice slate so stale outstanding balances cannot slip through. On
// success both slates are re-fetched and the user message is returned.
func (e *Engine) Reconcile(ctx context.Context, d *Document) (string, error) {
	for i := range d.Payments {
		d.Payments[i].NormalizeInvoiceReference()
	}

	invoices, err := e.fetchInvoices(ctx, d)
	if err != nil {
		return "", err
	}
	d.Invoices = invoices

	if err := d.validateAllocations(); err != nil {
		return "", err
	}

	drOrCr := AllocationSide(d.AccountType())
	paymentAllocs, noteAllocs := d.partitionAllocations(drOrCr)

	if len(paymentAllocs) > 0 {
		if err := e.updater.UpdateReferences(ctx, paymentAllocs); err != nil {
			return "", err
		}
	}

	if len(noteAllocs) > 0 {
		if err := e.postNoteJournals(ctx, d, noteAllocs); err != nil {
			return "", err
		}
	}

	if err := e.FetchUnreconciled(ctx, d); err != nil {
		return "", err
	}
	return ReconcileMessage, nil
}

// postNoteJournals synthesizes and submits one balancing journal per note
// allocation. Each journal is an independent durable operation; a failure
// aborts the remainder and propagates.
func (e *Engine) postNoteJournals(ctx context.Context, d *Document, allocs []AllocationDescriptor) error {
	companyCurrency, err := e.settings.CompanyCurrency(ctx, d.Company)
	if err != nil {
		return err
	}
	costCenter, err := e.settings.DefaultCostCenter(ctx, d.Company)
	if err != nil {
		return err
	}

	today := time.Now()
	for _, alloc := range allocs {
		journal := synthesizeNoteJournal(alloc, d.Company, companyCurrency, costCenter, today)
		if err := e.poster.Post(ctx, journal); err != nil {
			return err
		}
	}
	return nil
}
