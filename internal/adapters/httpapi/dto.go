package httpapi

import (
	"time"

	"github.com/bnema/punchclock/internal/application"
	"github.com/bnema/punchclock/internal/domain"
	"github.com/shopspring/decimal"
)

type setRateRequest struct {
	Role string          `json:"role"`
	Rate decimal.Decimal `json:"rate"`
}

type rolesRequest struct {
	Roles []string `json:"roles"`
}

func (r rolesRequest) roleNames() []domain.RoleName {
	roles := make([]domain.RoleName, 0, len(r.Roles))
	for _, role := range r.Roles {
		roles = append(roles, domain.RoleName(role))
	}
	return roles
}

type RateView struct {
	Role string `json:"role"`
	Rate string `json:"rate"`
}

type RatesView struct {
	Rates []RateView `json:"rates"`
}

type RateChangeView struct {
	Role    string `json:"role"`
	Rate    string `json:"rate"`
	Change  string `json:"change"`
	Message string `json:"message"`
}

type ResolutionView struct {
	Rate    string `json:"rate"`
	Role    string `json:"role,omitempty"`
	Matched bool   `json:"matched"`
}

type SessionView struct {
	Member         string `json:"member"`
	Active         bool   `json:"active"`
	StartedAt      string `json:"started_at,omitempty"`
	ElapsedSeconds int64  `json:"elapsed_seconds,omitempty"`
}

type BoardView struct {
	Now      string        `json:"now"`
	Rates    []RateView    `json:"rates"`
	Sessions []SessionView `json:"sessions"`
}

type StartView struct {
	Member    string         `json:"member"`
	StartedAt string         `json:"started_at"`
	Rate      ResolutionView `json:"rate"`
	Message   string         `json:"message"`
}

type EndView struct {
	Member         string         `json:"member"`
	StartedAt      string         `json:"started_at,omitempty"`
	EndedAt        string         `json:"ended_at"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
	Rate           ResolutionView `json:"rate"`
	Pay            string         `json:"pay"`
	Message        string         `json:"message"`
}

func NewRatesView(rates []domain.RoleRate) RatesView {
	view := RatesView{Rates: make([]RateView, 0, len(rates))}
	for _, rate := range rates {
		view.Rates = append(view.Rates, RateView{Role: string(rate.Role), Rate: application.FormatRate(rate.Rate)})
	}
	return view
}

func NewRateChangeView(result application.RateResult) RateChangeView {
	return RateChangeView{
		Role:    string(result.Role),
		Rate:    application.FormatRate(result.Rate),
		Change:  string(result.Change),
		Message: result.String(),
	}
}

func NewResolutionView(resolution domain.RateResolution) ResolutionView {
	return ResolutionView{
		Rate:    application.FormatRate(resolution.Rate),
		Role:    string(resolution.Role),
		Matched: resolution.Matched,
	}
}

func NewSessionView(status application.SessionStatus) SessionView {
	view := SessionView{Member: string(status.Member), Active: status.Active}
	if status.Active && !status.StartedAt.IsZero() {
		view.StartedAt = domain.FormatInstant(status.StartedAt)
		view.ElapsedSeconds = int64(status.Elapsed / time.Second)
	}
	return view
}

func NewBoardView(board application.Board) BoardView {
	view := BoardView{
		Now:      domain.FormatInstant(board.Now),
		Rates:    NewRatesView(board.Rates).Rates,
		Sessions: make([]SessionView, 0, len(board.Sessions)),
	}

	for _, session := range board.Sessions {
		sessionView := SessionView{Member: string(session.Member), Active: true, StartedAt: session.Stored()}
		if session.Valid() && board.Now.After(session.StartedAt) {
			sessionView.ElapsedSeconds = int64(board.Now.Sub(session.StartedAt) / time.Second)
		}
		view.Sessions = append(view.Sessions, sessionView)
	}

	return view
}

func NewStartView(result application.StartResult) StartView {
	return StartView{
		Member:    string(result.Member),
		StartedAt: domain.FormatInstant(result.StartedAt),
		Rate:      NewResolutionView(result.Rate),
		Message:   result.String(),
	}
}

func NewEndView(result application.EndResult) EndView {
	settlement := result.Settlement
	view := EndView{
		Member:         string(settlement.Member),
		EndedAt:        domain.FormatInstant(settlement.EndedAt),
		ElapsedSeconds: settlement.Elapsed.Seconds(),
		Rate:           NewResolutionView(result.Rate),
		Pay:            settlement.Pay.StringFixed(domain.PayPlaces),
		Message:        result.String(),
	}
	if !settlement.StartedAt.IsZero() {
		view.StartedAt = domain.FormatInstant(settlement.StartedAt)
	}
	return view
}
