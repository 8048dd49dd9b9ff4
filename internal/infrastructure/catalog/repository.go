package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "main/internal/domain/entity/catalog"
	"main/internal/domain/valueobject"
	"main/internal/infrastructure/catalog/models"
)

var ErrProductNotFound = errors.New("product not found")

const productColumns = `uid, name, description, family, risk_tier, annual_rate, min_amount,
	min_term_months, max_term_months, daily_liquidity, active, tax_exempt,
	management_fee, performance_fee, created_at, updated_at, deleted_at`

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

func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	if product.UID == uuid.Nil {
		product.UID = uuid.New()
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	m := models.FromDomain(product)
	const query = `
		INSERT INTO products (uid, name, description, family, risk_tier, annual_rate, min_amount,
			min_term_months, max_term_months, daily_liquidity, active, tax_exempt,
			management_fee, performance_fee, created_at, updated_at, deleted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err := r.pool.Exec(ctx, query,
		m.UID, m.Name, m.Description, m.Family, m.RiskTier, m.AnnualRate, m.MinAmount,
		m.MinTermMonths, m.MaxTermMonths, m.DailyLiquidity, m.Active, m.TaxExempt,
		m.ManagementFee, m.PerformanceFee, m.CreatedAt, m.UpdatedAt, m.DeletedAt,
	)
	return err
}

func (r *Repository) GetProduct(ctx context.Context, uid uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE uid = $1 AND deleted_at IS NULL`
	row := r.pool.QueryRow(ctx, query, uid)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	if product.UID == uuid.Nil {
		return errors.New("product UID is required")
	}
	product.UpdatedAt = time.Now().UTC()

	m := models.FromDomain(product)
	const query = `
		UPDATE products
		SET name=$2,
			description=$3,
			risk_tier=$4,
			annual_rate=$5,
			min_amount=$6,
			min_term_months=$7,
			max_term_months=$8,
			daily_liquidity=$9,
			active=$10,
			tax_exempt=$11,
			management_fee=$12,
			performance_fee=$13,
			updated_at=$14
		WHERE uid=$1 AND deleted_at IS NULL`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.UID, m.Name, m.Description, m.RiskTier, m.AnnualRate, m.MinAmount,
		m.MinTermMonths, m.MaxTermMonths, m.DailyLiquidity, m.Active, m.TaxExempt,
		m.ManagementFee, m.PerformanceFee, m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct soft-deletes the row; historical simulations keep
// referencing it.
func (r *Repository) DeleteProduct(ctx context.Context, uid uuid.UUID) error {
	const query = `UPDATE products SET deleted_at=$2, active=false WHERE uid=$1 AND deleted_at IS NULL`
	cmdTag, err := r.pool.Exec(ctx, query, uid, time.Now().UTC())
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) ListByFamily(ctx context.Context, family domain.ProductFamily) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE family = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, uid ASC`
	return r.queryProducts(ctx, query, family.String())
}

func (r *Repository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE active AND deleted_at IS NULL
		ORDER BY created_at ASC, uid ASC`
	return r.queryProducts(ctx, query)
}

func (r *Repository) ListAvailable(ctx context.Context, amount valueobject.Money, termMonths int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE active AND deleted_at IS NULL
			AND min_amount <= $1
			AND min_term_months <= $2
			AND (max_term_months IS NULL OR max_term_months >= $2)
		ORDER BY created_at ASC, uid ASC`
	return r.queryProducts(ctx, query, amount.Decimal(), termMonths)
}

func (r *Repository) ListRecommended(ctx context.Context, tiers []domain.RiskTier) ([]*domain.Product, error) {
	names := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		names = append(names, tier.String())
	}
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE active AND deleted_at IS NULL
			AND risk_tier = ANY($1)
		ORDER BY annual_rate DESC, uid ASC`
	return r.queryProducts(ctx, query, names)
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var m models.ProductModel
	err := row.Scan(
		&m.UID,
		&m.Name,
		&m.Description,
		&m.Family,
		&m.RiskTier,
		&m.AnnualRate,
		&m.MinAmount,
		&m.MinTermMonths,
		&m.MaxTermMonths,
		&m.DailyLiquidity,
		&m.Active,
		&m.TaxExempt,
		&m.ManagementFee,
		&m.PerformanceFee,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return m.ToDomain()
}
