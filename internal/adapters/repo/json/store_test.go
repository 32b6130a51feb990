package json

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/punchclock/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.json")
	config := viper.New()
	config.Set("store.path", path)

	store, err := NewStore(config)
	require.NoError(t, err)
	return store, path
}

func TestStoreLoadMissingFileReturnsEmptyState(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Rates)
	assert.Empty(t, state.Sessions)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "load must not create the file")
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	startedAt := time.Date(2026, 3, 2, 9, 15, 42, 123456789, time.UTC)

	state := domain.NewState()
	state.Rates["Staff"] = decimal.RequireFromString("12.5")
	state.Rates["Member"] = decimal.NewFromInt(10)
	state.Sessions["123456789012345678"] = domain.ActiveSession{StartedAt: startedAt}

	require.NoError(t, store.Save(context.Background(), state))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Rates, 2)
	assert.Equal(t, "12.5", got.Rates["Staff"].String())
	assert.Equal(t, "10", got.Rates["Member"].String())
	require.True(t, got.Sessions.IsActive("123456789012345678"))
	assert.True(t, got.Sessions["123456789012345678"].StartedAt.Equal(startedAt))
}

func TestStoreWritesCompatibleLayout(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	state := domain.NewState()
	state.Rates["Staff"] = decimal.RequireFromString("12.5")
	state.Sessions["42"] = domain.ActiveSession{StartedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}

	require.NoError(t, store.Save(context.Background(), state))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"roles": {"Staff": 12.5},
		"active_sessions": {"42": "2026-03-02T09:00:00Z"}
	}`, string(data))
	assert.Contains(t, string(data), "\n    \"roles\"")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStoreReadsLegacyDataFile(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		`{`,
		`    "roles": {`,
		`        "Member": 10.0,`,
		`        "VIP": 22.75`,
		`    },`,
		`    "active_sessions": {`,
		`        "987654321": "2025-11-08T14:03:27.512345"`,
		`    }`,
		`}`,
	}, "\n")), 0o644))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10", state.Rates["Member"].String())
	assert.Equal(t, "22.75", state.Rates["VIP"].String())
	session := state.Sessions["987654321"]
	require.True(t, session.Valid())
	assert.True(t, session.StartedAt.Equal(time.Date(2025, 11, 8, 14, 3, 27, 512345000, time.UTC)))
}

func TestStoreToleratesCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{
		// hand edited
		"roles": {"Staff": 20,},
		"active_sessions": {},
	}`), 0o600))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20", state.Rates["Staff"].String())
}

func TestStoreKeepsUnparsableTimestampsVerbatim(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"roles": {}, "active_sessions": {"42": "garbage"}}`), 0o600))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Sessions["42"].Valid())

	require.NoError(t, store.Save(context.Background(), state))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"42": "garbage"`)
}

func TestStoreEmptyFileIsTreatedAsNoState(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Rates)
}

func TestStoreLoadFailsOnCorruptData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "not json", content: "{roles", wantErr: "decode state file"},
		{name: "negative rate", content: `{"roles": {"Staff": -4}}`, wantErr: "must not be negative"},
		{name: "string rate", content: `{"roles": {"Staff": "ten"}}`, wantErr: "decode state file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newTestStore(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := store.Load(context.Background())
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestStoreDefaultsToHomeDirectory(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	store, err := NewStore(viper.New())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, ".punchclock", "data.json"), store.Path())
}

func TestStoresOnSamePathShareLock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	config := viper.New()
	config.Set("store.path", path)

	first, err := NewStore(config)
	require.NoError(t, err)
	second, err := NewStore(config)
	require.NoError(t, err)
	assert.Same(t, first.mu, second.mu)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store := first
			if i%2 == 0 {
				store = second
			}
			state := domain.NewState()
			state.Rates["Staff"] = decimal.NewFromInt(int64(i))
			assert.NoError(t, store.Save(context.Background(), state))
		}(i)
	}
	wg.Wait()

	state, err := first.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Rates, 1)
}
