package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ActiveSession is the start of an in-progress session. Unparsed keeps the
// stored value verbatim when it could not be read back as a timestamp.
type ActiveSession struct {
	StartedAt time.Time
	Unparsed  string
}

func SessionFromStored(raw string) ActiveSession {
	startedAt, err := ParseInstant(raw)
	if err != nil {
		return ActiveSession{Unparsed: raw}
	}

	return ActiveSession{StartedAt: startedAt}
}

func (s ActiveSession) Stored() string {
	if s.Unparsed != "" || s.StartedAt.IsZero() {
		return s.Unparsed
	}

	return FormatInstant(s.StartedAt)
}

func (s ActiveSession) Valid() bool {
	return s.Unparsed == "" && !s.StartedAt.IsZero()
}

type MemberSession struct {
	Member MemberID
	ActiveSession
}

type Settlement struct {
	Member    MemberID
	StartedAt time.Time
	EndedAt   time.Time
	Elapsed   time.Duration
	Rate      decimal.Decimal
	Pay       decimal.Decimal
}

func (s Settlement) Hours() decimal.Decimal {
	return ElapsedHours(s.Elapsed)
}

// Ledger maps a member to their in-progress session. A member with no entry
// is idle.
type Ledger map[MemberID]ActiveSession

func (l Ledger) IsActive(member MemberID) bool {
	_, ok := l[member]
	return ok
}

func (l Ledger) Start(member MemberID, now time.Time) error {
	if l == nil {
		return fmt.Errorf("%w: ledger is nil", ErrInvalidInput)
	}
	if err := member.Validate(); err != nil {
		return err
	}
	if now.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if existing, ok := l[member]; ok {
		return fmt.Errorf("%w: member %s clocked in at %s", ErrAlreadyActive, member, existing.Stored())
	}

	l[member] = ActiveSession{StartedAt: NormalizeInstant(now)}
	return nil
}

// End closes the member's session and settles it at rate. A session whose
// start is unreadable or later than now is still removed, and settles with
// zero pay alongside ErrDataIntegrity.
func (l Ledger) End(member MemberID, now time.Time, rate decimal.Decimal) (Settlement, error) {
	session, ok := l[member]
	if !ok {
		return Settlement{}, fmt.Errorf("%w: member %s is not clocked in", ErrNotActive, member)
	}
	if now.IsZero() {
		return Settlement{}, fmt.Errorf("%w: end time is required", ErrInvalidInput)
	}
	if err := ValidateRate(rate); err != nil {
		return Settlement{}, err
	}

	now = NormalizeInstant(now)
	delete(l, member)

	settlement := Settlement{
		Member:    member,
		StartedAt: session.StartedAt,
		EndedAt:   now,
		Rate:      rate,
		Pay:       decimal.Zero,
	}
	if !session.Valid() {
		return settlement, fmt.Errorf("%w: member %s has unreadable start time %q", ErrDataIntegrity, member, session.Unparsed)
	}

	elapsed := now.Sub(session.StartedAt)
	if elapsed < 0 {
		return settlement, fmt.Errorf("%w: member %s started at %s, after end time %s", ErrDataIntegrity, member, FormatInstant(session.StartedAt), FormatInstant(now))
	}

	settlement.Elapsed = elapsed
	settlement.Pay = ComputePay(elapsed, rate)
	return settlement, nil
}

// Sorted returns active sessions ordered by start time, then member id.
func (l Ledger) Sorted() []MemberSession {
	sessions := make([]MemberSession, 0, len(l))
	for member, session := range l {
		sessions = append(sessions, MemberSession{Member: member, ActiveSession: session})
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.Before(sessions[j].StartedAt)
		}
		return sessions[i].Member < sessions[j].Member
	})

	return sessions
}
