package simulation

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/application/messaging"
	"main/internal/application/service/valuation"
	catalog "main/internal/domain/entity/catalog"
	domain "main/internal/domain/entity/simulation"
	interfaces "main/internal/domain/interfaces"
	"main/internal/domain/valueobject"
)

type fakeProductRepo struct {
	byFamily map[catalog.ProductFamily][]*catalog.Product
	listErr  error
}

func (f *fakeProductRepo) CreateProduct(context.Context, *catalog.Product) error { return nil }
func (f *fakeProductRepo) GetProduct(context.Context, uuid.UUID) (*catalog.Product, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeProductRepo) UpdateProduct(context.Context, *catalog.Product) error { return nil }
func (f *fakeProductRepo) DeleteProduct(context.Context, uuid.UUID) error        { return nil }
func (f *fakeProductRepo) ListByFamily(_ context.Context, family catalog.ProductFamily) ([]*catalog.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byFamily[family], nil
}
func (f *fakeProductRepo) ListActive(context.Context) ([]*catalog.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) ListAvailable(context.Context, valueobject.Money, int) ([]*catalog.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) ListRecommended(context.Context, []catalog.RiskTier) ([]*catalog.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Close() {}

type fakeSimulationRepo struct {
	created   []*domain.Simulation
	createErr error
}

func (f *fakeSimulationRepo) CreateSimulation(_ context.Context, sim *domain.Simulation) error {
	if f.createErr != nil {
		return f.createErr
	}
	if sim.UID == uuid.Nil {
		sim.UID = uuid.New()
	}
	sim.CreatedAt = time.Now().UTC()
	f.created = append(f.created, sim)
	return nil
}
func (f *fakeSimulationRepo) GetSimulation(context.Context, uuid.UUID) (*domain.Simulation, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeSimulationRepo) ListByClient(context.Context, uuid.UUID, int) ([]*domain.Simulation, error) {
	return nil, nil
}
func (f *fakeSimulationRepo) ListByProduct(context.Context, uuid.UUID, int) ([]*domain.Simulation, error) {
	return nil, nil
}
func (f *fakeSimulationRepo) ListBetween(context.Context, time.Time, time.Time) ([]*domain.Simulation, error) {
	return nil, nil
}
func (f *fakeSimulationRepo) StatsByProductDay(context.Context, *time.Time, *time.Time) ([]interfaces.ProductDayStats, error) {
	return nil, nil
}
func (f *fakeSimulationRepo) Close() {}

type fakePublisher struct {
	events      []any
	routingKeys []string
	err         error
}

func (f *fakePublisher) Publish(_ context.Context, event any, _, routingKey string) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	f.routingKeys = append(f.routingKeys, routingKey)
	return nil
}

func testCatalogProduct(t *testing.T, name string, minAmount string, minTerm int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(
		name,
		catalog.FamilyCDB,
		catalog.RiskLow,
		valueobject.MustRateFromPercent(decimal.RequireFromString("10")),
		valueobject.MustMoney(decimal.RequireFromString(minAmount)),
		minTerm,
		nil,
		false,
		false,
	)
	require.NoError(t, err)
	product.UID = uuid.New()
	return product
}

func newTestService(products *fakeProductRepo, sims *fakeSimulationRepo, pub *fakePublisher) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	calc := valuation.NewCalculator().WithClock(func() time.Time {
		return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	})
	return NewService(products, sims, pub, calc, logger)
}

func validRequest() Request {
	return Request{
		ClientUID:  uuid.New(),
		Amount:     decimal.RequireFromString("10000"),
		TermMonths: 12,
		Family:     "cdb",
	}
}

func TestSimulateHappyPath(t *testing.T) {
	product := testCatalogProduct(t, "CDB Alfa", "500", 3)
	products := &fakeProductRepo{byFamily: map[catalog.ProductFamily][]*catalog.Product{
		catalog.FamilyCDB: {product},
	}}
	sims := &fakeSimulationRepo{}
	pub := &fakePublisher{}
	svc := newTestService(products, sims, pub)

	outcome, err := svc.Simulate(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, outcome.Simulation)
	assert.Same(t, product, outcome.Product)
	assert.Equal(t, domain.StatusCompleted, outcome.Simulation.Status)
	assert.Equal(t, "11000.00", outcome.Simulation.GrossFinal.String())
	assert.Equal(t, "10800.00", outcome.Simulation.NetFinal.String())

	require.Len(t, sims.created, 1)
	require.Len(t, pub.events, 2)
	assert.Equal(t, []string{
		messaging.SimulationCompletedRoutingKey,
		messaging.NotificationEmailRoutingKey,
	}, pub.routingKeys)

	event, ok := pub.events[0].(messaging.SimulationCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, outcome.Simulation.UID, event.SimulationUID)
	assert.Equal(t, product.UID, event.ProductUID)
	assert.Equal(t, "cdb", event.ProductFamily)
	assert.Equal(t, "1000.00", event.GrossYield)
	assert.Equal(t, "800.00", event.NetYield)

	notification, ok := pub.events[1].(messaging.NotificationEmailEvent)
	require.True(t, ok)
	assert.Equal(t, outcome.Simulation.UID, notification.SimulationUID)
	assert.Equal(t, product.Name, notification.ProductName)
	assert.Equal(t, "10800.00", notification.NetFinal)
}

func TestSimulateSelectsFirstEligibleInOrder(t *testing.T) {
	strict := testCatalogProduct(t, "CDB Strict", "50000", 24)
	loose := testCatalogProduct(t, "CDB Loose", "100", 1)
	products := &fakeProductRepo{byFamily: map[catalog.ProductFamily][]*catalog.Product{
		catalog.FamilyCDB: {strict, loose},
	}}
	svc := newTestService(products, &fakeSimulationRepo{}, &fakePublisher{})

	outcome, err := svc.Simulate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Same(t, loose, outcome.Product)
}

func TestSimulateInvalidInputs(t *testing.T) {
	svc := newTestService(&fakeProductRepo{}, &fakeSimulationRepo{}, &fakePublisher{})

	req := validRequest()
	req.TermMonths = 0
	_, err := svc.Simulate(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTerm)

	req = validRequest()
	req.TermMonths = 601
	_, err = svc.Simulate(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTerm)

	req = validRequest()
	req.Amount = decimal.Zero
	_, err = svc.Simulate(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	req = validRequest()
	req.Amount = decimal.RequireFromString("-100")
	_, err = svc.Simulate(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSimulateUnknownFamily(t *testing.T) {
	svc := newTestService(&fakeProductRepo{}, &fakeSimulationRepo{}, &fakePublisher{})

	req := validRequest()
	req.Family = "crypto"
	_, err := svc.Simulate(context.Background(), req)

	var invalidFamily *InvalidFamilyError
	require.ErrorAs(t, err, &invalidFamily)
	assert.Equal(t, "crypto", invalidFamily.Name)
	assert.True(t, IsDomainFailure(err))
}

func TestSimulateNoActiveProduct(t *testing.T) {
	inactive := testCatalogProduct(t, "CDB Off", "100", 1)
	inactive.Deactivate()
	products := &fakeProductRepo{byFamily: map[catalog.ProductFamily][]*catalog.Product{
		catalog.FamilyCDB: {inactive},
	}}
	svc := newTestService(products, &fakeSimulationRepo{}, &fakePublisher{})

	_, err := svc.Simulate(context.Background(), validRequest())

	var noActive *NoActiveProductError
	require.ErrorAs(t, err, &noActive)
	assert.Equal(t, "cdb", noActive.Family)
	assert.True(t, IsDomainFailure(err))
}

func TestSimulateNoEligibleProduct(t *testing.T) {
	strict := testCatalogProduct(t, "CDB Strict", "50000", 24)
	products := &fakeProductRepo{byFamily: map[catalog.ProductFamily][]*catalog.Product{
		catalog.FamilyCDB: {strict},
	}}
	svc := newTestService(products, &fakeSimulationRepo{}, &fakePublisher{})

	_, err := svc.Simulate(context.Background(), validRequest())

	var noEligible *NoEligibleProductError
	require.ErrorAs(t, err, &noEligible)
	assert.Equal(t, 12, noEligible.TermMonths)
	assert.True(t, IsDomainFailure(err))
}

func TestSimulateRepositoryFailureIsInfrastructure(t *testing.T) {
	products := &fakeProductRepo{listErr: errors.New("connection reset")}
	svc := newTestService(products, &fakeSimulationRepo{}, &fakePublisher{})

	_, err := svc.Simulate(context.Background(), validRequest())
	require.Error(t, err)
	assert.False(t, IsDomainFailure(err))
}

func TestSimulatePublishFailureStillSucceeds(t *testing.T) {
	product := testCatalogProduct(t, "CDB Alfa", "500", 3)
	products := &fakeProductRepo{byFamily: map[catalog.ProductFamily][]*catalog.Product{
		catalog.FamilyCDB: {product},
	}}
	sims := &fakeSimulationRepo{}
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	svc := newTestService(products, sims, pub)

	outcome, err := svc.Simulate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, outcome.Simulation.Status)
	assert.Len(t, sims.created, 1)
}

func TestSimulateNoPublishOnPersistFailure(t *testing.T) {
	product := testCatalogProduct(t, "CDB Alfa", "500", 3)
	products := &fakeProductRepo{byFamily: map[catalog.ProductFamily][]*catalog.Product{
		catalog.FamilyCDB: {product},
	}}
	sims := &fakeSimulationRepo{createErr: errors.New("insert failed")}
	pub := &fakePublisher{}
	svc := newTestService(products, sims, pub)

	_, err := svc.Simulate(context.Background(), validRequest())
	require.Error(t, err)
	assert.Empty(t, pub.events)
}
