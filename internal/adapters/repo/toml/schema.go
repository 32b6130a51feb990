package toml

import (
	"fmt"

	"github.com/bnema/punchclock/internal/domain"
	"github.com/shopspring/decimal"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version        int                `toml:"version"`
	Roles          map[string]any    `toml:"roles"`
	ActiveSessions map[string]string `toml:"active_sessions"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Roles == nil {
		s.Roles = map[string]any{}
	}
	if s.ActiveSessions == nil {
		s.ActiveSessions = map[string]string{}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func toSchema(state domain.State) fileSchema {
	file := fileSchema{Version: currentSchemaVersion}
	file.applyDefaults()

	for role, rate := range state.Rates {
		file.Roles[string(role)] = rate.String()
	}
	for member, session := range state.Sessions {
		file.ActiveSessions[string(member)] = session.Stored()
	}

	return file
}

func fromSchema(file fileSchema) (domain.State, error) {
	state := domain.NewState()
	for role, raw := range file.Roles {
		rate, err := decodeRate(raw)
		if err != nil {
			return domain.State{}, fmt.Errorf("decode rate for role %q: %w", role, err)
		}
		if err := domain.ValidateRate(rate); err != nil {
			return domain.State{}, fmt.Errorf("decode rate for role %q: %w", role, err)
		}
		state.Rates[domain.RoleName(role)] = rate
	}
	for member, raw := range file.ActiveSessions {
		state.Sessions[domain.MemberID(member)] = domain.SessionFromStored(raw)
	}

	return state, nil
}

// decodeRate reads a rate written as a decimal string. Plain TOML numbers
// from hand-edited files are accepted too.
func decodeRate(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		return decimal.NewFromString(v)
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unsupported rate value %v (%T)", raw, raw)
	}
}
