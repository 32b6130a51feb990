package toml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/punchclock/internal/adapters/repo/filestore"
	"github.com/bnema/punchclock/internal/domain"
	"github.com/bnema/punchclock/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	statePathKey    = "store.path"
	stateConfigDir  = ".punchclock"
	stateFileName   = "state.toml"
	tempFilePattern = ".state-*.toml.tmp"
)

type Repository struct {
	statePath string
	mu        *sync.RWMutex
}

var _ ports.StateStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	statePath := cfg.GetString(statePathKey)
	if statePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		statePath = filepath.Join(homeDir, stateConfigDir, stateFileName)
	}

	statePath, err := filestore.NormalizePath(statePath)
	if err != nil {
		return nil, err
	}

	return &Repository{statePath: statePath, mu: filestore.LockForPath(statePath)}, nil
}

func (r *Repository) Path() string {
	return r.statePath
}

func (r *Repository) Load(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.State{}, err
	}

	return fromSchema(file)
}

func (r *Repository) Save(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(toSchema(state))
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, found, err := filestore.ReadOptional(r.statePath)
	if err != nil {
		return fileSchema{}, err
	}

	var file fileSchema
	if found {
		if err := toml.Unmarshal(data, &file); err != nil {
			return fileSchema{}, fmt.Errorf("decode state file: %w", err)
		}
		if err := file.validateVersion(); err != nil {
			return fileSchema{}, err
		}
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	if err := filestore.WriteAtomic(r.statePath, data, tempFilePattern); err != nil {
		return err
	}

	return nil
}
