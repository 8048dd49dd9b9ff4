package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "main/internal/domain/entity/simulation"
	"main/internal/domain/valueobject"
)

// SimulationModel maps the `simulations` table.
type SimulationModel struct {
	UID           uuid.UUID       `gorm:"primaryKey;column:uid;type:uuid;not null"`
	ClientUID     uuid.UUID       `gorm:"column:client_uid;type:uuid;not null;index"`
	ProductUID    uuid.UUID       `gorm:"column:product_uid;type:uuid;not null;index"`
	Invested      decimal.Decimal `gorm:"column:invested;type:decimal(14,2);not null"`
	TermMonths    int             `gorm:"column:term_months;type:integer;not null"`
	MaturityDate  time.Time       `gorm:"column:maturity_date;type:timestamp;not null"`
	GrossFinal    decimal.Decimal `gorm:"column:gross_final;type:decimal(14,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"column:tax_amount;type:decimal(14,2);not null"`
	NetFinal      decimal.Decimal `gorm:"column:net_final;type:decimal(14,2);not null"`
	EffectiveRate decimal.Decimal `gorm:"column:effective_rate;type:decimal(10,6);not null"`
	TaxRate       decimal.Decimal `gorm:"column:tax_rate;type:decimal(10,6);not null"`
	Status        string          `gorm:"column:status;type:varchar(20);not null"`
	Notes         string          `gorm:"column:notes;type:varchar"`
	CreatedAt     time.Time       `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func (SimulationModel) TableName() string {
	return "simulations"
}

// ToDomain converts the persisted row into a domain simulation.
func (m SimulationModel) ToDomain() (*domain.Simulation, error) {
	invested, err := valueobject.NewMoney(m.Invested)
	if err != nil {
		return nil, fmt.Errorf("simulation %s invested amount: %w", m.UID, err)
	}
	grossFinal, err := valueobject.NewMoney(m.GrossFinal)
	if err != nil {
		return nil, fmt.Errorf("simulation %s gross final: %w", m.UID, err)
	}
	taxAmount, err := valueobject.NewMoney(m.TaxAmount)
	if err != nil {
		return nil, fmt.Errorf("simulation %s tax amount: %w", m.UID, err)
	}
	netFinal, err := valueobject.NewMoney(m.NetFinal)
	if err != nil {
		return nil, fmt.Errorf("simulation %s net final: %w", m.UID, err)
	}
	effectiveRate, err := valueobject.NewRate(m.EffectiveRate)
	if err != nil {
		return nil, fmt.Errorf("simulation %s effective rate: %w", m.UID, err)
	}
	taxRate, err := valueobject.NewRate(m.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("simulation %s tax rate: %w", m.UID, err)
	}

	return &domain.Simulation{
		UID:           m.UID,
		ClientUID:     m.ClientUID,
		ProductUID:    m.ProductUID,
		Invested:      invested,
		TermMonths:    m.TermMonths,
		MaturityDate:  m.MaturityDate,
		GrossFinal:    grossFinal,
		TaxAmount:     taxAmount,
		NetFinal:      netFinal,
		EffectiveRate: effectiveRate,
		TaxRate:       taxRate,
		Status:        domain.Status(m.Status),
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

// FromDomain converts a domain simulation into its persisted form.
func FromDomain(s *domain.Simulation) SimulationModel {
	return SimulationModel{
		UID:           s.UID,
		ClientUID:     s.ClientUID,
		ProductUID:    s.ProductUID,
		Invested:      s.Invested.Decimal(),
		TermMonths:    s.TermMonths,
		MaturityDate:  s.MaturityDate,
		GrossFinal:    s.GrossFinal.Decimal(),
		TaxAmount:     s.TaxAmount.Decimal(),
		NetFinal:      s.NetFinal.Decimal(),
		EffectiveRate: s.EffectiveRate.Decimal(),
		TaxRate:       s.TaxRate.Decimal(),
		Status:        s.Status.String(),
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
