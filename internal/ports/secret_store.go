package ports

import (
	"context"
	"errors"
)

// ErrSecretNotFound is returned by SecretStore.Get when the key holds no value.
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore keeps credentials such as the administrator token outside the
// state aggregate.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
