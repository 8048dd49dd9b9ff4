package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "main/internal/domain/entity/catalog"
	interfaces "main/internal/domain/interfaces"
	"main/internal/domain/valueobject"
)

var ErrNilProduct = errors.New("product is nil")

// Service exposes product catalog management and discovery.
type Service struct {
	repo interfaces.ProductRepository
}

func NewService(repo interfaces.ProductRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return ErrNilProduct
	}
	return s.repo.CreateProduct(ctx, product)
}

func (s *Service) GetProduct(ctx context.Context, uid uuid.UUID) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, uid)
}

func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return ErrNilProduct
	}
	return s.repo.UpdateProduct(ctx, product)
}

func (s *Service) DeleteProduct(ctx context.Context, uid uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, uid)
}

func (s *Service) ListByFamily(ctx context.Context, family domain.ProductFamily) ([]*domain.Product, error) {
	return s.repo.ListByFamily(ctx, family)
}

func (s *Service) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListActive(ctx)
}

// ListAvailable returns active products that admit the given amount and
// term.
func (s *Service) ListAvailable(ctx context.Context, amount valueobject.Money, termMonths int) ([]*domain.Product, error) {
	return s.repo.ListAvailable(ctx, amount, termMonths)
}

// Recommend returns the active products an investor profile may hold,
// highest annual rate first.
func (s *Service) Recommend(ctx context.Context, profile domain.InvestorProfile) ([]*domain.Product, error) {
	return s.repo.ListRecommended(ctx, profile.AllowedRiskTiers())
}

func (s *Service) Close() {
	s.repo.Close()
}
