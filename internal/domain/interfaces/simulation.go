package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "main/internal/domain/entity/simulation"
)

// ProductDayStats aggregates simulations per product per day.
type ProductDayStats struct {
	ProductUID    uuid.UUID
	ProductName   string
	Day           time.Time
	Count         int64
	AvgFinalValue float64
}

type SimulationRepository interface {
	// CreateSimulation persists the record and assigns its identifier.
	CreateSimulation(ctx context.Context, sim *domain.Simulation) error
	GetSimulation(ctx context.Context, uid uuid.UUID) (*domain.Simulation, error)
	ListByClient(ctx context.Context, clientUID uuid.UUID, limit int) ([]*domain.Simulation, error)
	ListByProduct(ctx context.Context, productUID uuid.UUID, limit int) ([]*domain.Simulation, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Simulation, error)
	StatsByProductDay(ctx context.Context, from, to *time.Time) ([]ProductDayStats, error)
	Close()
}
