package interfaces

import (
	"context"

	"github.com/google/uuid"

	domain "main/internal/domain/entity/catalog"
	"main/internal/domain/valueobject"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, uid uuid.UUID) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, uid uuid.UUID) error
	// ListByFamily returns products of one family ordered by creation time,
	// oldest first. Ordering is stable so eligibility selection is
	// deterministic per call.
	ListByFamily(ctx context.Context, family domain.ProductFamily) ([]*domain.Product, error)
	ListActive(ctx context.Context) ([]*domain.Product, error)
	ListAvailable(ctx context.Context, amount valueobject.Money, termMonths int) ([]*domain.Product, error)
	// ListRecommended returns active products within the given risk
	// tiers, highest annual rate first.
	ListRecommended(ctx context.Context, tiers []domain.RiskTier) ([]*domain.Product, error)
	Close()
}
