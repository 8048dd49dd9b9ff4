package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "main/internal/domain/entity/catalog"
	"main/internal/domain/valueobject"
)

// ProductModel maps the `products` table.
type ProductModel struct {
	UID            uuid.UUID        `gorm:"primaryKey;column:uid;type:uuid;not null"`
	Name           string           `gorm:"column:name;type:varchar(200);not null"`
	Description    string           `gorm:"column:description;type:varchar"`
	Family         string           `gorm:"column:family;type:varchar(30);not null;index"`
	RiskTier       string           `gorm:"column:risk_tier;type:varchar(10);not null"`
	AnnualRate     decimal.Decimal  `gorm:"column:annual_rate;type:decimal(10,6);not null"`
	MinAmount      decimal.Decimal  `gorm:"column:min_amount;type:decimal(14,2);not null"`
	MinTermMonths  int              `gorm:"column:min_term_months;type:integer;not null"`
	MaxTermMonths  *int             `gorm:"column:max_term_months;type:integer"`
	DailyLiquidity bool             `gorm:"column:daily_liquidity;not null;default:false"`
	Active         bool             `gorm:"column:active;not null;default:true"`
	TaxExempt      bool             `gorm:"column:tax_exempt;not null;default:false"`
	ManagementFee  *decimal.Decimal `gorm:"column:management_fee;type:decimal(10,6)"`
	PerformanceFee *decimal.Decimal `gorm:"column:performance_fee;type:decimal(10,6)"`
	CreatedAt      time.Time        `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	DeletedAt      gorm.DeletedAt   `gorm:"column:deleted_at;type:timestamp;index"`
}

func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persisted row into a validated domain product.
func (m ProductModel) ToDomain() (*domain.Product, error) {
	rate, err := valueobject.NewRate(m.AnnualRate)
	if err != nil {
		return nil, fmt.Errorf("product %s annual rate: %w", m.UID, err)
	}
	minAmount, err := valueobject.NewMoney(m.MinAmount)
	if err != nil {
		return nil, fmt.Errorf("product %s minimum amount: %w", m.UID, err)
	}

	product := &domain.Product{
		UID:            m.UID,
		Name:           m.Name,
		Description:    m.Description,
		Family:         domain.ProductFamily(m.Family),
		RiskTier:       domain.RiskTier(m.RiskTier),
		AnnualRate:     rate,
		MinAmount:      minAmount,
		MinTermMonths:  m.MinTermMonths,
		MaxTermMonths:  m.MaxTermMonths,
		DailyLiquidity: m.DailyLiquidity,
		Active:         m.Active,
		TaxExempt:      m.TaxExempt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		deletedAt := m.DeletedAt.Time
		product.DeletedAt = &deletedAt
	}
	if m.ManagementFee != nil {
		fee, err := valueobject.NewRate(*m.ManagementFee)
		if err != nil {
			return nil, fmt.Errorf("product %s management fee: %w", m.UID, err)
		}
		product.ManagementFee = &fee
	}
	if m.PerformanceFee != nil {
		fee, err := valueobject.NewRate(*m.PerformanceFee)
		if err != nil {
			return nil, fmt.Errorf("product %s performance fee: %w", m.UID, err)
		}
		product.PerformanceFee = &fee
	}
	return product, nil
}

// FromDomain converts a domain product into its persisted form.
func FromDomain(p *domain.Product) ProductModel {
	m := ProductModel{
		UID:            p.UID,
		Name:           p.Name,
		Description:    p.Description,
		Family:         p.Family.String(),
		RiskTier:       p.RiskTier.String(),
		AnnualRate:     p.AnnualRate.Decimal(),
		MinAmount:      p.MinAmount.Decimal(),
		MinTermMonths:  p.MinTermMonths,
		MaxTermMonths:  p.MaxTermMonths,
		DailyLiquidity: p.DailyLiquidity,
		Active:         p.Active,
		TaxExempt:      p.TaxExempt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	}
	if p.ManagementFee != nil {
		fee := p.ManagementFee.Decimal()
		m.ManagementFee = &fee
	}
	if p.PerformanceFee != nil {
		fee := p.PerformanceFee.Decimal()
		m.PerformanceFee = &fee
	}
	return m
}
