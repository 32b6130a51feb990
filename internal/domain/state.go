package domain

// State is the single persisted aggregate behind the rate table and the
// session ledger.
type State struct {
	Rates    RateTable
	Sessions Ledger
}

func NewState() State {
	return State{
		Rates:    RateTable{},
		Sessions: Ledger{},
	}
}

func (s *State) ApplyDefaults() {
	if s.Rates == nil {
		s.Rates = RateTable{}
	}
	if s.Sessions == nil {
		s.Sessions = Ledger{}
	}
}

func (s State) Clone() State {
	clone := NewState()
	for role, rate := range s.Rates {
		clone.Rates[role] = rate
	}
	for member, session := range s.Sessions {
		clone.Sessions[member] = session
	}

	return clone
}
