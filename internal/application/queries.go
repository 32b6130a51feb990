package application

import (
	"fmt"
	"time"

	"github.com/bnema/punchclock/internal/domain"
	"github.com/shopspring/decimal"
)

type RateResult struct {
	Role   domain.RoleName
	Rate   decimal.Decimal
	Change domain.RateChange
}

func (r RateResult) String() string {
	return fmt.Sprintf("Role %s %s with a rate of %s/h", r.Role, r.Change, FormatRate(r.Rate))
}

type StartResult struct {
	Member    domain.MemberID
	StartedAt time.Time
	Rate      domain.RateResolution
}

func (r StartResult) String() string {
	message := fmt.Sprintf("Member %s clocked in at %s, rate %s/h", r.Member, r.StartedAt.Format(time.RFC3339), FormatRate(r.Rate.Rate))
	if !r.Rate.Matched {
		message += " (no configured role matched)"
	}

	return message
}

type EndResult struct {
	Settlement domain.Settlement
	Rate       domain.RateResolution
}

func (r EndResult) String() string {
	return fmt.Sprintf("Member %s clocked out after %s, pay %s",
		r.Settlement.Member,
		FormatElapsed(r.Settlement.Elapsed),
		r.Settlement.Pay.StringFixed(domain.PayPlaces),
	)
}

type SessionStatus struct {
	Member    domain.MemberID
	Active    bool
	StartedAt time.Time
	Elapsed   time.Duration
}

type Board struct {
	Now      time.Time
	Rates    []domain.RoleRate
	Sessions []domain.MemberSession
}

// FormatRate prints at least two decimal places without dropping any
// precision the rate was configured with.
func FormatRate(rate decimal.Decimal) string {
	if rate.Exponent() < -domain.PayPlaces {
		return rate.String()
	}

	return rate.StringFixed(domain.PayPlaces)
}

func FormatElapsed(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}

	return elapsed.Round(time.Second).String()
}
