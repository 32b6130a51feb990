package board

import (
	"testing"
	"time"

	"github.com/bnema/punchclock/internal/application"
	"github.com/bnema/punchclock/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBoardWithRatesAndSessions(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render(application.Board{
		Now: now,
		Rates: []domain.RoleRate{
			{Role: "Member", Rate: decimal.NewFromInt(10)},
			{Role: "Staff", Rate: decimal.RequireFromString("20.5")},
		},
		Sessions: []domain.MemberSession{
			{Member: "42", ActiveSession: domain.ActiveSession{StartedAt: now.Add(-150 * time.Minute)}},
			{Member: "7", ActiveSession: domain.ActiveSession{StartedAt: now.Add(-30 * time.Hour)}},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Punch Board")
	assert.Contains(t, output, "roles: 2 | clocked in: 2")
	assert.Contains(t, output, "Member  10.00/h")
	assert.Contains(t, output, "Staff   20.50/h")
	assert.Contains(t, output, "42 since 08:30 (2h 30m)")
	assert.Contains(t, output, "7 since 05:00 on 13 Feb (30h 00m)")
}

func TestRenderEmptyBoard(t *testing.T) {
	output, err := Render(application.Board{Now: time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)})

	require.NoError(t, err)
	assert.Contains(t, output, "roles: 0 | clocked in: 0")
	assert.Contains(t, output, "No role rates configured.")
	assert.Contains(t, output, "Nobody is clocked in.")
}

func TestRenderBoardFlagsInconsistentStarts(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render(application.Board{
		Now: now,
		Sessions: []domain.MemberSession{
			{Member: "1", ActiveSession: domain.ActiveSession{Unparsed: "yesterday"}},
			{Member: "2", ActiveSession: domain.ActiveSession{StartedAt: now.Add(time.Hour)}},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, `[unreadable start "yesterday"]`)
	assert.Contains(t, output, "[starts in the future]")
}

func TestRenderReceipt(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	output, err := RenderReceipt(application.EndResult{
		Settlement: domain.Settlement{
			Member:    "42",
			StartedAt: start,
			EndedAt:   start.Add(150 * time.Minute),
			Elapsed:   150 * time.Minute,
			Rate:      decimal.NewFromInt(10),
			Pay:       decimal.RequireFromString("25"),
		},
		Rate: domain.RateResolution{Rate: decimal.NewFromInt(10), Role: "Member", Matched: true},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Session closed")
	assert.Contains(t, output, "member:   42")
	assert.Contains(t, output, "from:     2026-03-02T09:00:00Z")
	assert.Contains(t, output, "to:       2026-03-02T11:30:00Z")
	assert.Contains(t, output, "duration: 2h 30m")
	assert.Contains(t, output, "rate:     10.00/h (Member)")
	assert.Contains(t, output, "pay:      25.00")
	assert.NotContains(t, output, "No configured role matched")
}

func TestRenderReceiptForUnmatchedRoleAndUnreadableStart(t *testing.T) {
	end := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	output, err := RenderReceipt(application.EndResult{
		Settlement: domain.Settlement{Member: "42", EndedAt: end, Pay: decimal.Zero},
		Rate:       domain.RateResolution{Rate: decimal.Zero},
	})

	require.NoError(t, err)
	assert.NotContains(t, output, "from:")
	assert.Contains(t, output, "duration: 0s")
	assert.Contains(t, output, "pay:      0.00")
	assert.Contains(t, output, "No configured role matched; paid at 0.00/h.")
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		elapsed time.Duration
		want    string
	}{
		{elapsed: -time.Second, want: "0s"},
		{elapsed: 42 * time.Second, want: "42s"},
		{elapsed: 5*time.Minute + 59*time.Second, want: "5m"},
		{elapsed: time.Hour + 5*time.Minute, want: "1h 05m"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, formatElapsed(tc.elapsed))
	}
}
