package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type RateChange string

const (
	RateCreated RateChange = "created"
	RateUpdated RateChange = "updated"
)

type RoleRate struct {
	Role RoleName
	Rate decimal.Decimal
}

// RateTable maps a role name to its hourly rate.
type RateTable map[RoleName]decimal.Decimal

type RateResolution struct {
	Rate    decimal.Decimal
	Role    RoleName
	Matched bool
}

func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: rate %s must not be negative", ErrInvalidInput, rate.String())
	}

	return nil
}

func (t RateTable) Set(role RoleName, rate decimal.Decimal) (RateChange, error) {
	if t == nil {
		return "", fmt.Errorf("%w: rate table is nil", ErrInvalidInput)
	}
	if err := role.Validate(); err != nil {
		return "", err
	}
	if err := ValidateRate(rate); err != nil {
		return "", err
	}

	role = RoleName(strings.TrimSpace(string(role)))
	change := RateCreated
	if _, ok := t[role]; ok {
		change = RateUpdated
	}
	t[role] = rate

	return change, nil
}

func (t RateTable) Lookup(role RoleName) (decimal.Decimal, bool) {
	rate, ok := t[role]
	return rate, ok
}

// Resolve walks roles highest priority first and returns the rate of the
// first one that is configured. No match yields a zero rate with Matched unset.
func (t RateTable) Resolve(roles []RoleName) RateResolution {
	for _, role := range roles {
		if rate, ok := t[role]; ok {
			return RateResolution{Rate: rate, Role: role, Matched: true}
		}
	}

	return RateResolution{Rate: decimal.Zero}
}

// Sorted returns the table entries ordered by role name.
func (t RateTable) Sorted() []RoleRate {
	entries := make([]RoleRate, 0, len(t))
	for role, rate := range t {
		entries = append(entries, RoleRate{Role: role, Rate: rate})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Role < entries[j].Role
	})

	return entries
}
