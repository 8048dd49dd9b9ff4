package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"main/internal/application/messaging"
	"main/internal/application/service/valuation"
	catalog "main/internal/domain/entity/catalog"
	domain "main/internal/domain/entity/simulation"
	interfaces "main/internal/domain/interfaces"
	"main/internal/domain/valueobject"
)

const maxTermMonths = 600

// Request carries the raw inputs of one simulation.
type Request struct {
	ClientUID  uuid.UUID
	Amount     decimal.Decimal
	TermMonths int
	Family     string
}

// Outcome pairs the persisted record with the product that was selected.
type Outcome struct {
	Simulation *domain.Simulation
	Product    *catalog.Product
}

// Service runs the simulation pipeline: parse family, look up candidate
// products, select the first eligible one, value the investment, persist
// the record and emit a completion event.
type Service struct {
	products    interfaces.ProductRepository
	simulations interfaces.SimulationRepository
	publisher   interfaces.EventPublisher
	calculator  *valuation.Calculator
	logger      *logrus.Logger
}

func NewService(
	products interfaces.ProductRepository,
	simulations interfaces.SimulationRepository,
	publisher interfaces.EventPublisher,
	calculator *valuation.Calculator,
	logger *logrus.Logger,
) *Service {
	return &Service{
		products:    products,
		simulations: simulations,
		publisher:   publisher,
		calculator:  calculator,
		logger:      logger,
	}
}

// Simulate executes the full pipeline for one request. Domain failures are
// returned as typed errors (see errors.go); anything else is an
// infrastructure error wrapped with context.
func (s *Service) Simulate(ctx context.Context, req Request) (*Outcome, error) {
	if req.TermMonths <= 0 || req.TermMonths > maxTermMonths {
		return nil, ErrInvalidTerm
	}
	invested, err := valueobject.NewMoney(req.Amount)
	if err != nil || invested.IsZero() {
		return nil, ErrInvalidAmount
	}

	family, err := catalog.ParseFamily(req.Family)
	if err != nil {
		return nil, &InvalidFamilyError{Name: req.Family}
	}

	candidates, err := s.products.ListByFamily(ctx, family)
	if err != nil {
		return nil, fmt.Errorf("list products for family %s: %w", family, err)
	}

	active := catalog.ActiveOnly(candidates)
	if len(active) == 0 {
		return nil, &NoActiveProductError{Family: family.String()}
	}

	product := catalog.FirstEligible(active, invested, req.TermMonths)
	if product == nil {
		return nil, &NoEligibleProductError{Amount: invested, TermMonths: req.TermMonths}
	}

	result, err := s.calculator.Calculate(product, invested, req.TermMonths)
	if err != nil {
		return nil, fmt.Errorf("value investment: %w", err)
	}

	sim, err := domain.New(
		req.ClientUID,
		product.UID,
		invested,
		req.TermMonths,
		result.MaturityDate,
		result.GrossFinal,
		result.TaxAmount,
		result.NetFinal,
		result.EffectiveRate,
		result.TaxRate,
	)
	if err != nil {
		return nil, fmt.Errorf("build simulation record: %w", err)
	}
	sim.MarkCompleted()

	if err := s.simulations.CreateSimulation(ctx, sim); err != nil {
		return nil, fmt.Errorf("persist simulation: %w", err)
	}

	// The record is committed; a publish failure is an infrastructure
	// warning, never a rollback.
	s.publishCompleted(ctx, sim, product)

	return &Outcome{Simulation: sim, Product: product}, nil
}

func (s *Service) publishCompleted(ctx context.Context, sim *domain.Simulation, product *catalog.Product) {
	event := messaging.SimulationCompletedEvent{
		SimulationUID: sim.UID,
		ClientUID:     sim.ClientUID,
		ProductUID:    product.UID,
		ProductFamily: product.Family.String(),
		Invested:      sim.Invested.String(),
		GrossFinal:    sim.GrossFinal.String(),
		NetFinal:      sim.NetFinal.String(),
		GrossYield:    sim.GrossYield().String(),
		NetYield:      sim.NetYield().String(),
		TermMonths:    sim.TermMonths,
		SimulatedAt:   sim.CreatedAt,
		MaturityDate:  sim.MaturityDate,
	}

	err := s.publisher.Publish(ctx, event, messaging.InvestmentsExchange, messaging.SimulationCompletedRoutingKey)
	if err != nil && s.logger != nil {
		s.logger.WithError(err).WithField("simulation_uid", sim.UID).
			Warn("failed to publish simulation completed event")
	}

	notification := messaging.NotificationEmailEvent{
		SimulationUID: sim.UID,
		ClientUID:     sim.ClientUID,
		ProductName:   product.Name,
		NetFinal:      sim.NetFinal.String(),
		MaturityDate:  sim.MaturityDate,
	}
	err = s.publisher.Publish(ctx, notification, messaging.InvestmentsExchange, messaging.NotificationEmailRoutingKey)
	if err != nil && s.logger != nil {
		s.logger.WithError(err).WithField("simulation_uid", sim.UID).
			Warn("failed to publish notification email event")
	}
}

// GetSimulation loads one simulation by id.
func (s *Service) GetSimulation(ctx context.Context, uid uuid.UUID) (*domain.Simulation, error) {
	return s.simulations.GetSimulation(ctx, uid)
}

// ListByClient returns a client's most recent simulations.
func (s *Service) ListByClient(ctx context.Context, clientUID uuid.UUID, limit int) ([]*domain.Simulation, error) {
	return s.simulations.ListByClient(ctx, clientUID, limit)
}

// ListBetween returns simulations created inside a time window.
func (s *Service) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Simulation, error) {
	return s.simulations.ListBetween(ctx, from, to)
}

// StatsByProductDay aggregates simulation counts and average final values
// per product per day.
func (s *Service) StatsByProductDay(ctx context.Context, from, to *time.Time) ([]interfaces.ProductDayStats, error) {
	return s.simulations.StatsByProductDay(ctx, from, to)
}
