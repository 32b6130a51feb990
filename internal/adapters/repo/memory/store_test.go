package memory

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/punchclock/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadReturnsEmptyStateByDefault(t *testing.T) {
	store := NewStore(domain.State{})

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Rates)
	assert.Empty(t, state.Sessions)
	assert.NotNil(t, state.Rates)
	assert.NotNil(t, state.Sessions)
}

func TestStoreDoesNotShareMapsWithCallers(t *testing.T) {
	store := NewStore(domain.State{})

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	state.Rates["Staff"] = decimal.NewFromInt(20)
	require.NoError(t, store.Save(context.Background(), state))

	state.Sessions["42"] = domain.ActiveSession{StartedAt: time.Now()}

	reloaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, reloaded.Rates, 1)
	assert.Empty(t, reloaded.Sessions)
	assert.Equal(t, 1, store.Saves())
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	store := NewStore(domain.State{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Save(ctx, domain.NewState()), context.Canceled)
}
