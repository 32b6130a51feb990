package json

import (
	stdjson "encoding/json"
	"fmt"

	"github.com/bnema/punchclock/internal/domain"
	"github.com/shopspring/decimal"
)

// fileSchema is the data.json layout earlier deployments already wrote.
type fileSchema struct {
	Roles          map[string]stdjson.Number `json:"roles"`
	ActiveSessions map[string]string         `json:"active_sessions"`
}

func toSchema(state domain.State) fileSchema {
	file := fileSchema{
		Roles:          make(map[string]stdjson.Number, len(state.Rates)),
		ActiveSessions: make(map[string]string, len(state.Sessions)),
	}
	for role, rate := range state.Rates {
		file.Roles[string(role)] = stdjson.Number(rate.String())
	}
	for member, session := range state.Sessions {
		file.ActiveSessions[string(member)] = session.Stored()
	}

	return file
}

func fromSchema(file fileSchema) (domain.State, error) {
	state := domain.NewState()
	for role, raw := range file.Roles {
		rate, err := decimal.NewFromString(raw.String())
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
