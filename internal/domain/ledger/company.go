package ledger

import (
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
)

// Company holds the accounting defaults every document in the books refers
// back to: the base currency and the fallback cost center.
type Company struct {
	shared.BaseEntity
	Name              string
	Currency          valueobject.Currency
	DefaultCostCenter string
}

// NewCompany creates a company with its accounting defaults
func NewCompany(name string, currency valueobject.Currency, defaultCostCenter string) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company name cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company currency cannot be empty")
	}
	return &Company{
		BaseEntity:        shared.NewBaseEntity(),
		Name:              name,
		Currency:          currency,
		DefaultCostCenter: defaultCostCenter,
	}, nil
}
