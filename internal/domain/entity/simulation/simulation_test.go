package simulation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/domain/valueobject"
)

func money(t *testing.T, s string) valueobject.Money {
	t.Helper()
	return valueobject.MustMoney(decimal.RequireFromString(s))
}

func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	sim, err := New(
		uuid.New(),
		uuid.New(),
		money(t, "10000.00"),
		12,
		time.Now().UTC().AddDate(0, 12, 0),
		money(t, "11000.00"),
		money(t, "200.00"),
		money(t, "10800.00"),
		valueobject.MustRateFromPercent(decimal.RequireFromString("10")),
		valueobject.MustRateFromPercent(decimal.RequireFromString("20")),
	)
	require.NoError(t, err)
	return sim
}

func TestNewRequiresIdentifiers(t *testing.T) {
	invested := money(t, "100.00")
	rate := valueobject.ZeroRate()

	_, err := New(uuid.Nil, uuid.New(), invested, 1, time.Now(), invested, invested, invested, rate, rate)
	assert.ErrorIs(t, err, ErrClientRequired)

	_, err = New(uuid.New(), uuid.Nil, invested, 1, time.Now(), invested, invested, invested, rate, rate)
	assert.ErrorIs(t, err, ErrProductRequired)

	_, err = New(uuid.New(), uuid.New(), invested, 0, time.Now(), invested, invested, invested, rate, rate)
	assert.ErrorIs(t, err, ErrInvalidTerm)
}

func TestNewStartsPending(t *testing.T) {
	sim := newTestSimulation(t)
	assert.Equal(t, StatusPending, sim.Status)
}

func TestStatusTransitions(t *testing.T) {
	sim := newTestSimulation(t)

	sim.MarkCompleted()
	assert.Equal(t, StatusCompleted, sim.Status)

	sim.MarkError("calculation failed")
	assert.Equal(t, StatusError, sim.Status)
	assert.Equal(t, "calculation failed", sim.Notes)

	sim.Cancel("client request")
	assert.Equal(t, StatusCancelled, sim.Status)
	assert.Equal(t, "client request", sim.Notes)
}

func TestYields(t *testing.T) {
	sim := newTestSimulation(t)

	assert.Equal(t, "1000.00", sim.GrossYield().String())
	assert.Equal(t, "800.00", sim.NetYield().String())
}

func TestNetReturnRate(t *testing.T) {
	sim := newTestSimulation(t)
	assert.True(t, sim.NetReturnRate().Decimal().Equal(decimal.RequireFromString("0.08")))
}

func TestNetReturnRateZeroInvested(t *testing.T) {
	sim := newTestSimulation(t)
	sim.Invested = valueobject.ZeroMoney()
	assert.True(t, sim.NetReturnRate().IsZero())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.True(t, StatusError.IsValid())
	assert.True(t, StatusCancelled.IsValid())
	assert.False(t, Status("done").IsValid())
}
