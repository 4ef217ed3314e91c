package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/reconciliation"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
)

// GormCompanyRepository implements CompanyRepository using GORM. It also
// serves as the settings oracle for reconciliation: company base currency
// and default cost center.
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

var (
	_ ledger.CompanyRepository = (*GormCompanyRepository)(nil)
	_ reconciliation.Settings  = (*GormCompanyRepository)(nil)
)

// FindByName finds a company by its name
func (r *GormCompanyRepository) FindByName(ctx context.Context, name string) (*ledger.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *ledger.Company) error {
	var model models.CompanyModel
	model.FromDomain(company)
	return r.db.WithContext(ctx).Save(&model).Error
}

// CompanyCurrency returns the company's base currency
func (r *GormCompanyRepository) CompanyCurrency(ctx context.Context, company string) (string, error) {
	c, err := r.FindByName(ctx, company)
	if err != nil {
		return "", err
	}
	return string(c.Currency), nil
}

// DefaultCostCenter returns the company's fallback cost center
func (r *GormCompanyRepository) DefaultCostCenter(ctx context.Context, company string) (string, error) {
	c, err := r.FindByName(ctx, company)
	if err != nil {
		return "", err
	}
	return c.DefaultCostCenter, nil
}
