package ports

import (
	"context"

	"github.com/bnema/punchclock/internal/domain"
)

// StateStore persists the whole State aggregate. Load on a store that has
// never been written returns an empty state and no error.
type StateStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
}
