package application

import (
	"time"

	"github.com/bnema/punchclock/internal/domain"
	"github.com/shopspring/decimal"
)

type SetRateCommand struct {
	Role domain.RoleName
	Rate decimal.Decimal
}

// StartSessionCommand starts a session for Member. Roles are ordered highest
// priority first. A zero Now means the service clock.
type StartSessionCommand struct {
	Member domain.MemberID
	Roles  []domain.RoleName
	Now    time.Time
}

type EndSessionCommand struct {
	Member domain.MemberID
	Roles  []domain.RoleName
	Now    time.Time
}
