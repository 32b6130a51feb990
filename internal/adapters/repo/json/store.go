package json

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/punchclock/internal/adapters/repo/filestore"
	"github.com/bnema/punchclock/internal/domain"
	"github.com/bnema/punchclock/internal/ports"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

const (
	statePathKey     = "store.path"
	stateConfigDir   = ".punchclock"
	stateFileName    = "data.json"
	tempFilePattern  = ".data-*.json.tmp"
	stateIndentation = "    "
)

type Store struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.StateStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(statePathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, stateConfigDir, stateFileName)
	}

	path, err := filestore.NormalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Store{path: path, mu: filestore.LockForPath(path)}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, found, err := filestore.ReadOptional(s.path)
	if err != nil {
		return domain.State{}, err
	}
	if !found || len(bytes.TrimSpace(data)) == 0 {
		return domain.NewState(), nil
	}

	var file fileSchema
	if err := stdjson.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return domain.State{}, fmt.Errorf("decode state file %s: %w", s.path, err)
	}

	state, err := fromSchema(file)
	if err != nil {
		return domain.State{}, fmt.Errorf("decode state file %s: %w", s.path, err)
	}

	return state, nil
}

func (s *Store) Save(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := stdjson.MarshalIndent(toSchema(state), "", stateIndentation)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := filestore.WriteAtomic(s.path, data, tempFilePattern); err != nil {
		return fmt.Errorf("save state file %s: %w", s.path, err)
	}

	return nil
}
