// Package env reads secrets from PUNCH_SECRET_* environment variables.
package env

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/punchclock/internal/ports"
)

const Prefix = "PUNCH_SECRET_"

// ErrReadOnly is returned by Put and Delete; the environment is managed by
// whoever starts the process.
var ErrReadOnly = errors.New("environment secret store is read-only")

type lookupFunc func(key string) (string, bool)

type Store struct {
	lookup lookupFunc
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{lookup: os.LookupEnv}
}

// VariableName maps a secret key such as "admin/token" to PUNCH_SECRET_ADMIN_TOKEN.
func VariableName(key string) string {
	var b strings.Builder
	b.WriteString(Prefix)
	for _, r := range strings.TrimSpace(key) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := ports.NormalizeSecretKey(key)
	if err != nil {
		return "", err
	}

	name := VariableName(key)
	value, ok := s.lookup(name)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s is not set", ports.ErrSecretNotFound, name)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := ports.NormalizeSecretKey(key)
	if err != nil {
		return err
	}

	return fmt.Errorf("%w: set %s instead", ErrReadOnly, VariableName(key))
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := ports.NormalizeSecretKey(key)
	if err != nil {
		return err
	}

	return fmt.Errorf("%w: unset %s instead", ErrReadOnly, VariableName(key))
}
