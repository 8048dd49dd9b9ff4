package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domain "main/internal/domain/entity/catalog"
	"main/internal/domain/valueobject"
	"main/internal/infrastructure/catalog/models"
)

type seedConfig struct {
	DatabaseDSN string
}

// seedProduct describes one catalog row to install.
type seedProduct struct {
	name           string
	description    string
	family         domain.ProductFamily
	riskTier       domain.RiskTier
	annualPercent  float64
	minAmount      float64
	minTermMonths  int
	maxTermMonths  *int
	dailyLiquidity bool
	taxExempt      bool
	managementPct  *float64
	performancePct *float64
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	products, err := buildProducts()
	if err != nil {
		logger.Fatalf("build catalog: %v", err)
	}

	if err := upsertProducts(ctx, pool, products); err != nil {
		logger.Fatalf("save products: %v", err)
	}
	logger.WithField("products", len(products)).Info("catalog seeded")
}

func loadConfig() (*seedConfig, error) {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}
	return &seedConfig{DatabaseDSN: dsn}, nil
}

func buildProducts() ([]*domain.Product, error) {
	months := func(n int) *int { return &n }
	pct := func(v float64) *float64 { return &v }

	seeds := []seedProduct{
		{
			name:           "CDB Banco Alfa 110% CDI",
			description:    "Bank deposit certificate with daily liquidity after grace period",
			family:         domain.FamilyCDB,
			riskTier:       domain.RiskLow,
			annualPercent:  12.5,
			minAmount:      500,
			minTermMonths:  3,
			maxTermMonths:  months(60),
			dailyLiquidity: true,
		},
		{
			name:          "CDB Banco Beta Long Term",
			description:   "Higher rate certificate for longer commitments",
			family:        domain.FamilyCDB,
			riskTier:      domain.RiskLow,
			annualPercent: 13.8,
			minAmount:     5000,
			minTermMonths: 24,
			maxTermMonths: months(120),
		},
		{
			name:           "Tesouro Selic 2029",
			description:    "Floating rate treasury bond tracking the Selic benchmark",
			family:         domain.FamilyTreasurySelic,
			riskTier:       domain.RiskLow,
			annualPercent:  11.25,
			minAmount:      100,
			minTermMonths:  1,
			maxTermMonths:  months(60),
			dailyLiquidity: true,
		},
		{
			name:          "Tesouro Prefixado 2031",
			description:   "Fixed rate treasury bond",
			family:        domain.FamilyTreasuryFixed,
			riskTier:      domain.RiskLow,
			annualPercent: 10.5,
			minAmount:     100,
			minTermMonths: 12,
			maxTermMonths: months(84),
		},
		{
			name:          "Tesouro IPCA+ 2035",
			description:   "Inflation linked treasury bond paying a real rate",
			family:        domain.FamilyTreasuryInflation,
			riskTier:      domain.RiskLow,
			annualPercent: 6.2,
			minAmount:     100,
			minTermMonths: 24,
			maxTermMonths: months(180),
		},
		{
			name:          "LCI Habitacao Prime",
			description:   "Real estate credit note, income tax exempt",
			family:        domain.FamilyRealEstateNote,
			riskTier:      domain.RiskLow,
			annualPercent: 10.8,
			minAmount:     1000,
			minTermMonths: 12,
			maxTermMonths: months(48),
			taxExempt:     true,
		},
		{
			name:          "LCA Agro Forte",
			description:   "Agribusiness credit note, income tax exempt",
			family:        domain.FamilyAgribusinessNote,
			riskTier:      domain.RiskLow,
			annualPercent: 10.4,
			minAmount:     1000,
			minTermMonths: 9,
			maxTermMonths: months(36),
			taxExempt:     true,
		},
		{
			name:           "Fundo Multimercado Dinamico",
			description:    "Multi strategy fund with management and performance fees",
			family:         domain.FamilyFund,
			riskTier:       domain.RiskMedium,
			annualPercent:  14.0,
			minAmount:      1000,
			minTermMonths:  1,
			dailyLiquidity: true,
			managementPct:  pct(1.5),
			performancePct: pct(20),
		},
		{
			name:           "Fundo Acoes Valor",
			description:    "Equity fund for long horizons",
			family:         domain.FamilyFund,
			riskTier:       domain.RiskHigh,
			annualPercent:  16.5,
			minAmount:      2500,
			minTermMonths:  12,
			managementPct:  pct(2),
			performancePct: pct(20),
		},
	}

	products := make([]*domain.Product, 0, len(seeds))
	for _, seed := range seeds {
		product, err := buildProduct(seed)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func buildProduct(seed seedProduct) (*domain.Product, error) {
	annualRate, err := valueobject.NewRateFromPercent(decimal.NewFromFloat(seed.annualPercent))
	if err != nil {
		return nil, err
	}
	minAmount, err := valueobject.NewMoneyFromFloat(seed.minAmount)
	if err != nil {
		return nil, err
	}

	product, err := domain.NewProduct(
		seed.name,
		seed.family,
		seed.riskTier,
		annualRate,
		minAmount,
		seed.minTermMonths,
		seed.maxTermMonths,
		seed.dailyLiquidity,
		seed.taxExempt,
	)
	if err != nil {
		return nil, err
	}
	product.Description = seed.description

	// Stable UIDs keep reruns idempotent.
	product.UID = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("product:"+strings.ToLower(seed.name)))

	if seed.managementPct != nil {
		fee, err := valueobject.NewRateFromPercent(decimal.NewFromFloat(*seed.managementPct))
		if err != nil {
			return nil, err
		}
		if err := product.SetManagementFee(fee); err != nil {
			return nil, err
		}
	}
	if seed.performancePct != nil {
		fee, err := valueobject.NewRateFromPercent(decimal.NewFromFloat(*seed.performancePct))
		if err != nil {
			return nil, err
		}
		if err := product.SetPerformanceFee(fee); err != nil {
			return nil, err
		}
	}
	return product, nil
}

func upsertProducts(ctx context.Context, pool *pgxpool.Pool, products []*domain.Product) error {
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, product := range products {
		product.CreatedAt = now
		product.UpdatedAt = now
		m := models.FromDomain(product)
		batch.Queue(`
			INSERT INTO products (uid, name, description, family, risk_tier, annual_rate, min_amount,
				min_term_months, max_term_months, daily_liquidity, active, tax_exempt,
				management_fee, performance_fee, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (uid) DO UPDATE
			SET name = EXCLUDED.name,
			    description = EXCLUDED.description,
			    family = EXCLUDED.family,
			    risk_tier = EXCLUDED.risk_tier,
			    annual_rate = EXCLUDED.annual_rate,
			    min_amount = EXCLUDED.min_amount,
			    min_term_months = EXCLUDED.min_term_months,
			    max_term_months = EXCLUDED.max_term_months,
			    daily_liquidity = EXCLUDED.daily_liquidity,
			    active = EXCLUDED.active,
			    tax_exempt = EXCLUDED.tax_exempt,
			    management_fee = EXCLUDED.management_fee,
			    performance_fee = EXCLUDED.performance_fee,
			    updated_at = EXCLUDED.updated_at`,
			m.UID,
			m.Name,
			m.Description,
			m.Family,
			m.RiskTier,
			m.AnnualRate,
			m.MinAmount,
			m.MinTermMonths,
			m.MaxTermMonths,
			m.DailyLiquidity,
			m.Active,
			m.TaxExempt,
			m.ManagementFee,
			m.PerformanceFee,
			m.CreatedAt,
			m.UpdatedAt,
		)
	}
	return execBatch(ctx, pool, batch)
}

func execBatch(ctx context.Context, pool *pgxpool.Pool, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	results := pool.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}
