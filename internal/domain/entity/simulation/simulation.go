package simulation

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"main/internal/domain/valueobject"
)

// Status tracks the lifecycle of a simulation record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusError, StatusCancelled:
		return true
	default:
		return false
	}
}

var (
	ErrClientRequired  = errors.New("client id is required")
	ErrProductRequired = errors.New("product id is required")
	ErrInvalidTerm     = errors.New("term must be greater than zero")
)

// Simulation is the persisted outcome of one valuation run. The computed
// monetary fields are set once by the valuation step and never mutated;
// only Status and Notes change afterwards.
type Simulation struct {
	UID           uuid.UUID
	ClientUID     uuid.UUID
	ProductUID    uuid.UUID
	Invested      valueobject.Money
	TermMonths    int
	MaturityDate  time.Time
	GrossFinal    valueobject.Money
	TaxAmount     valueobject.Money
	NetFinal      valueobject.Money
	EffectiveRate valueobject.Rate
	TaxRate       valueobject.Rate
	Status        Status
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New assembles a pending simulation record from computed valuation data.
func New(
	clientUID uuid.UUID,
	productUID uuid.UUID,
	invested valueobject.Money,
	termMonths int,
	maturityDate time.Time,
	grossFinal valueobject.Money,
	taxAmount valueobject.Money,
	netFinal valueobject.Money,
	effectiveRate valueobject.Rate,
	taxRate valueobject.Rate,
) (*Simulation, error) {
	if clientUID == uuid.Nil {
		return nil, ErrClientRequired
	}
	if productUID == uuid.Nil {
		return nil, ErrProductRequired
	}
	if termMonths <= 0 {
		return nil, ErrInvalidTerm
	}
	return &Simulation{
		ClientUID:     clientUID,
		ProductUID:    productUID,
		Invested:      invested,
		TermMonths:    termMonths,
		MaturityDate:  maturityDate,
		GrossFinal:    grossFinal,
		TaxAmount:     taxAmount,
		NetFinal:      netFinal,
		EffectiveRate: effectiveRate,
		TaxRate:       taxRate,
		Status:        StatusPending,
	}, nil
}

// MarkCompleted transitions the record to the completed state.
func (s *Simulation) MarkCompleted() {
	s.Status = StatusCompleted
}

// MarkError records a processing failure.
func (s *Simulation) MarkError(reason string) {
	s.Status = StatusError
	s.Notes = reason
}

// Cancel marks the record cancelled with an optional reason.
func (s *Simulation) Cancel(reason string) {
	s.Status = StatusCancelled
	s.Notes = reason
}

// GrossYield is the projected earning before tax.
func (s *Simulation) GrossYield() valueobject.Money {
	return s.GrossFinal.Sub(s.Invested)
}

// NetYield is the projected earning after tax.
func (s *Simulation) NetYield() valueobject.Money {
	return s.NetFinal.Sub(s.Invested)
}

// NetReturnRate is the net yield relative to the invested amount.
// Zero when nothing was invested.
func (s *Simulation) NetReturnRate() valueobject.Rate {
	if s.Invested.IsZero() {
		return valueobject.ZeroRate()
	}
	fraction := s.NetYield().Decimal().Div(s.Invested.Decimal())
	rate, err := valueobject.NewRate(fraction)
	if err != nil {
		// Yields are bounded by the rate and term validation upstream,
		// so an out-of-range fraction indicates corrupted data.
		return valueobject.ZeroRate()
	}
	return rate
}
