package domain

import (
	"fmt"
	"strings"
	"unicode"
)

type MemberID string
type RoleName string

func (id MemberID) Validate() error {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	if trimmed != string(id) {
		return fmt.Errorf("%w: member id %q has surrounding whitespace", ErrInvalidInput, string(id))
	}
	if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: member id %q contains control characters", ErrInvalidInput, string(id))
	}

	return nil
}

func (r RoleName) Validate() error {
	trimmed := strings.TrimSpace(string(r))
	if trimmed == "" {
		return fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: role name %q contains control characters", ErrInvalidInput, string(r))
	}

	return nil
}

// NormalizeRoles trims role names and drops blanks and repeats while keeping
// the caller's priority order.
func NormalizeRoles(roles []RoleName) []RoleName {
	normalized := make([]RoleName, 0, len(roles))
	seen := make(map[RoleName]struct{}, len(roles))
	for _, role := range roles {
		trimmed := RoleName(strings.TrimSpace(string(role)))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}

	return normalized
}
