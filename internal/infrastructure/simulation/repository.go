package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "main/internal/domain/entity/simulation"
	interfaces "main/internal/domain/interfaces"
	"main/internal/infrastructure/simulation/models"
)

var ErrSimulationNotFound = errors.New("simulation not found")

const simulationColumns = `uid, client_uid, product_uid, invested, term_months, maturity_date,
	gross_final, tax_amount, net_final, effective_rate, tax_rate, status, notes,
	created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

func (r *Repository) CreateSimulation(ctx context.Context, sim *domain.Simulation) error {
	if sim == nil {
		return errors.New("simulation is nil")
	}
	if sim.UID == uuid.Nil {
		sim.UID = uuid.New()
	}
	now := time.Now().UTC()
	if sim.CreatedAt.IsZero() {
		sim.CreatedAt = now
	}
	sim.UpdatedAt = now

	m := models.FromDomain(sim)
	const query = `
		INSERT INTO simulations (uid, client_uid, product_uid, invested, term_months, maturity_date,
			gross_final, tax_amount, net_final, effective_rate, tax_rate, status, notes,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := r.pool.Exec(ctx, query,
		m.UID, m.ClientUID, m.ProductUID, m.Invested, m.TermMonths, m.MaturityDate,
		m.GrossFinal, m.TaxAmount, m.NetFinal, m.EffectiveRate, m.TaxRate, m.Status, m.Notes,
		m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func (r *Repository) GetSimulation(ctx context.Context, uid uuid.UUID) (*domain.Simulation, error) {
	query := `SELECT ` + simulationColumns + ` FROM simulations WHERE uid = $1`
	row := r.pool.QueryRow(ctx, query, uid)
	sim, err := scanSimulation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSimulationNotFound
		}
		return nil, err
	}
	return sim, nil
}

func (r *Repository) ListByClient(ctx context.Context, clientUID uuid.UUID, limit int) ([]*domain.Simulation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + simulationColumns + `
		FROM simulations
		WHERE client_uid = $1
		ORDER BY created_at DESC
		LIMIT $2`
	return r.querySimulations(ctx, query, clientUID, limit)
}

func (r *Repository) ListByProduct(ctx context.Context, productUID uuid.UUID, limit int) ([]*domain.Simulation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + simulationColumns + `
		FROM simulations
		WHERE product_uid = $1
		ORDER BY created_at DESC
		LIMIT $2`
	return r.querySimulations(ctx, query, productUID, limit)
}

func (r *Repository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Simulation, error) {
	query := `SELECT ` + simulationColumns + `
		FROM simulations
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC`
	return r.querySimulations(ctx, query, from, to)
}

// StatsByProductDay aggregates simulation counts and average net final
// value per product per day, newest day first.
func (r *Repository) StatsByProductDay(ctx context.Context, from, to *time.Time) ([]interfaces.ProductDayStats, error) {
	const query = `
		SELECT s.product_uid,
		       p.name,
		       date_trunc('day', s.created_at) AS day,
		       count(*) AS simulations,
		       avg(s.net_final) AS avg_final_value
		FROM simulations s
		INNER JOIN products p ON p.uid = s.product_uid
		WHERE ($1::timestamp IS NULL OR s.created_at >= $1)
		  AND ($2::timestamp IS NULL OR s.created_at <= $2)
		GROUP BY s.product_uid, p.name, day
		ORDER BY day DESC, p.name ASC`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []interfaces.ProductDayStats
	for rows.Next() {
		var entry interfaces.ProductDayStats
		if err := rows.Scan(&entry.ProductUID, &entry.ProductName, &entry.Day, &entry.Count, &entry.AvgFinalValue); err != nil {
			return nil, err
		}
		stats = append(stats, entry)
	}
	return stats, rows.Err()
}

func (r *Repository) querySimulations(ctx context.Context, query string, args ...interface{}) ([]*domain.Simulation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sims []*domain.Simulation
	for rows.Next() {
		sim, err := scanSimulation(rows)
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	return sims, rows.Err()
}

func scanSimulation(row pgx.Row) (*domain.Simulation, error) {
	var m models.SimulationModel
	err := row.Scan(
		&m.UID,
		&m.ClientUID,
		&m.ProductUID,
		&m.Invested,
		&m.TermMonths,
		&m.MaturityDate,
		&m.GrossFinal,
		&m.TaxAmount,
		&m.NetFinal,
		&m.EffectiveRate,
		&m.TaxRate,
		&m.Status,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m.ToDomain()
}
