// Package file keeps each secret in its own 0600 file below a private
// directory, addressed by its slash-separated key.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/punchclock/internal/adapters/repo/filestore"
	"github.com/bnema/punchclock/internal/ports"
	"github.com/spf13/viper"
)

const (
	secretsDirKey   = "secrets.dir"
	defaultSubdir   = ".punchclock/secrets"
	tempFilePattern = ".secret-*.tmp"
)

type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// NewStoreFromConfig roots the store at secrets.dir, defaulting to
// ~/.punchclock/secrets.
func NewStoreFromConfig(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	if root := strings.TrimSpace(cfg.GetString(secretsDirKey)); root != "" {
		return NewStore(root), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewStore(filepath.Join(homeDir, filepath.FromSlash(defaultSubdir))), nil
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	name, path, err := s.resolve(ctx, key)
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("secret %q value is empty", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := filestore.WriteAtomic(path, []byte(value), tempFilePattern); err != nil {
		return fmt.Errorf("write secret %q: %w", name, err)
	}
	return nil
}

// Get trims the stored value, so a hand-written file ending in a newline
// still matches. An empty file counts as missing.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	name, path, err := s.resolve(ctx, key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	data, found, err := filestore.ReadOptional(path)
	s.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("read secret %q: %w", name, err)
	}

	value := strings.TrimSpace(string(data))
	if !found || value == "" {
		return "", fmt.Errorf("%w: %q", ports.ErrSecretNotFound, name)
	}
	return value, nil
}

// Delete succeeds when the secret is already gone.
func (s *Store) Delete(ctx context.Context, key string) error {
	name, path, err := s.resolve(ctx, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete secret %q: %w", name, err)
	}
	return nil
}

func (s *Store) resolve(ctx context.Context, key string) (name string, path string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	name, err = ports.NormalizeSecretKey(key)
	if err != nil {
		return "", "", err
	}
	return name, filepath.Join(s.root, filepath.FromSlash(name)), nil
}
