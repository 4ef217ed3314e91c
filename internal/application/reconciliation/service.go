package reconciliation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
)

const dateLayout = "2006-01-02"

// Service exposes the reconciliation engine to the transport layer. It
// translates request payloads into reconciliation documents and documents
// back into response payloads.
type Service struct {
	engine *reconciliation.Engine
	logger *zap.Logger
}

// NewService creates a new reconciliation Service
func NewService(engine *reconciliation.Engine, logger *zap.Logger) *Service {
	return &Service{
		engine: engine,
		logger: logger,
	}
}

// FetchRequest selects the party ledger to reconcile and optional filters
// on the unsettled invoices offered for allocation.
type FetchRequest struct {
	Company                  string           `json:"company" binding:"required"`
	PartyType                string           `json:"party_type" binding:"required"`
	Party                    string           `json:"party" binding:"required"`
	ReceivablePayableAccount string           `json:"receivable_payable_account" binding:"required"`
	BankCashAccount          string           `json:"bank_cash_account"`
	FromInvoiceDate          string           `json:"from_invoice_date"`
	ToInvoiceDate            string           `json:"to_invoice_date"`
	MinimumInvoiceAmount     *decimal.Decimal `json:"minimum_invoice_amount"`
	MaximumInvoiceAmount     *decimal.Decimal `json:"maximum_invoice_amount"`
	Limit                    int              `json:"limit"`
}

// AllocationRow is one payment-to-invoice pairing submitted for
// reconciliation. InvoiceNumber accepts the combined "Type | Number" form
// produced by the fetch response.
type AllocationRow struct {
	ReferenceType     string          `json:"reference_type" binding:"required"`
	ReferenceName     string          `json:"reference_name" binding:"required"`
	ReferenceRow      string          `json:"reference_row"`
	Amount            decimal.Decimal `json:"amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	Currency          string          `json:"currency"`
	DifferenceAmount  decimal.Decimal `json:"difference_amount"`
	DifferenceAccount string          `json:"difference_account"`
	InvoiceType       string          `json:"invoice_type"`
	InvoiceNumber     string          `json:"invoice_number"`
}

// ReconcileRequest carries the ledger selection plus the allocations to
// apply. Args is accepted for API compatibility and currently unused.
type ReconcileRequest struct {
	FetchRequest
	Allocations []AllocationRow        `json:"allocations" binding:"required"`
	Args        map[string]interface{} `json:"args"`
}

// DifferenceRequest asks for the exchange difference a single allocation
// row would produce if applied.
type DifferenceRequest struct {
	FetchRequest
	Row AllocationRow `json:"row" binding:"required"`
}

// PaymentRowResponse is an unreconciled payment or journal advance
type PaymentRowResponse struct {
	ReferenceType    string          `json:"reference_type"`
	ReferenceName    string          `json:"reference_name"`
	ReferenceRow     string          `json:"reference_row,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	DifferenceAmount decimal.Decimal `json:"difference_amount"`
	Idx              int             `json:"idx"`
}

// InvoiceRowResponse is an outstanding invoice or open journal leg. The
// combined InvoiceNumber is what allocation rows reference.
type InvoiceRowResponse struct {
	InvoiceType       string          `json:"invoice_type"`
	InvoiceNumber     string          `json:"invoice_number"`
	InvoiceDate       string          `json:"invoice_date"`
	Amount            decimal.Decimal `json:"amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	Currency          string          `json:"currency"`
}

// FetchResponse pairs the two slates the user allocates between
type FetchResponse struct {
	Payments []PaymentRowResponse `json:"payments"`
	Invoices []InvoiceRowResponse `json:"invoices"`
}

// ReconcileResponse reports the outcome plus the refreshed slates
type ReconcileResponse struct {
	Message  string               `json:"message"`
	Payments []PaymentRowResponse `json:"payments"`
	Invoices []InvoiceRowResponse `json:"invoices"`
}

// DifferenceResponse carries the previewed exchange difference. The amount
// is null when the row's source cannot carry a difference.
type DifferenceResponse struct {
	DifferenceAmount *decimal.Decimal `json:"difference_amount"`
}

// Fetch loads the unreconciled payments and outstanding invoices for the
// requested party ledger.
func (s *Service) Fetch(ctx context.Context, req FetchRequest) (*FetchResponse, error) {
	doc, err := s.buildDocument(req)
	if err != nil {
		return nil, err
	}

	if err := s.engine.FetchUnreconciled(ctx, doc); err != nil {
		s.logger.Error("Failed to fetch unreconciled entries",
			zap.String("company", req.Company),
			zap.String("party_type", req.PartyType),
			zap.String("party", req.Party),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Fetched unreconciled entries",
		zap.String("party", req.Party),
		zap.Int("payments", len(doc.Payments)),
		zap.Int("invoices", len(doc.Invoices)))
	return &FetchResponse{
		Payments: toPaymentRowResponses(doc.Payments),
		Invoices: toInvoiceRowResponses(doc.Invoices),
	}, nil
}

// Reconcile applies the submitted allocations and returns the refreshed
// slates alongside the confirmation message.
func (s *Service) Reconcile(ctx context.Context, req ReconcileRequest) (*ReconcileResponse, error) {
	doc, err := s.buildDocument(req.FetchRequest)
	if err != nil {
		return nil, err
	}
	doc.Payments = toPaymentRows(req.Allocations)

	message, err := s.engine.Reconcile(ctx, doc)
	if err != nil {
		s.logger.Warn("Reconciliation rejected",
			zap.String("party", req.Party),
			zap.Int("allocations", len(req.Allocations)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Reconciliation applied",
		zap.String("party", req.Party),
		zap.Int("allocations", len(req.Allocations)))
	return &ReconcileResponse{
		Message:  message,
		Payments: toPaymentRowResponses(doc.Payments),
		Invoices: toInvoiceRowResponses(doc.Invoices),
	}, nil
}

// Difference previews the exchange difference one allocation row would
// produce without writing anything.
func (s *Service) Difference(ctx context.Context, req DifferenceRequest) (*DifferenceResponse, error) {
	doc, err := s.buildDocument(req.FetchRequest)
	if err != nil {
		return nil, err
	}

	rows := toPaymentRows([]AllocationRow{req.Row})
	diff, err := s.engine.PreviewDifference(ctx, doc, rows[0])
	if err != nil {
		s.logger.Error("Failed to preview difference",
			zap.String("reference", req.Row.ReferenceName),
			zap.Error(err))
		return nil, err
	}
	return &DifferenceResponse{DifferenceAmount: diff}, nil
}

func (s *Service) buildDocument(req FetchRequest) (*reconciliation.Document, error) {
	doc := &reconciliation.Document{
		Company:                  req.Company,
		PartyType:                reconciliation.PartyType(req.PartyType),
		Party:                    req.Party,
		ReceivablePayableAccount: req.ReceivablePayableAccount,
		BankCashAccount:          req.BankCashAccount,
		MinimumAmount:            req.MinimumInvoiceAmount,
		MaximumAmount:            req.MaximumInvoiceAmount,
		Limit:                    req.Limit,
	}

	from, err := parseDate(req.FromInvoiceDate)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(req.ToInvoiceDate)
	if err != nil {
		return nil, err
	}
	doc.FromDate = from
	doc.ToDate = to
	return doc, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Invalid date "+value+", expected YYYY-MM-DD")
	}
	return &parsed, nil
}

func toPaymentRows(rows []AllocationRow) []reconciliation.PaymentRow {
	out := make([]reconciliation.PaymentRow, 0, len(rows))
	for i, row := range rows {
		out = append(out, reconciliation.PaymentRow{
			ReferenceType:     row.ReferenceType,
			ReferenceName:     row.ReferenceName,
			ReferenceRow:      row.ReferenceRow,
			Amount:            row.Amount,
			AllocatedAmount:   row.AllocatedAmount,
			Currency:          row.Currency,
			DifferenceAmount:  row.DifferenceAmount,
			DifferenceAccount: row.DifferenceAccount,
			InvoiceType:       row.InvoiceType,
			InvoiceNumber:     row.InvoiceNumber,
			Idx:               i + 1,
		})
	}
	return out
}

func toPaymentRowResponses(rows []reconciliation.PaymentRow) []PaymentRowResponse {
	out := make([]PaymentRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, PaymentRowResponse{
			ReferenceType:    row.ReferenceType,
			ReferenceName:    row.ReferenceName,
			ReferenceRow:     row.ReferenceRow,
			Amount:           row.Amount,
			Currency:         row.Currency,
			DifferenceAmount: row.DifferenceAmount,
			Idx:              row.Idx,
		})
	}
	return out
}

func toInvoiceRowResponses(rows []reconciliation.InvoiceRow) []InvoiceRowResponse {
	out := make([]InvoiceRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, InvoiceRowResponse{
			InvoiceType:       row.InvoiceType,
			InvoiceNumber:     row.InvoiceType + " | " + row.InvoiceNumber,
			InvoiceDate:       row.InvoiceDate.Format(dateLayout),
			Amount:            row.Amount,
			OutstandingAmount: row.OutstandingAmount,
			Currency:          row.Currency,
		})
	}
	return out
}
