package ports

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrInvalidSecretKey = errors.New("invalid secret key")

// NormalizeSecretKey trims key and checks it is a relative slash-separated
// name such as "admin/token" that stays inside its store.
func NormalizeSecretKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("%w: secret key is empty", ErrInvalidSecretKey)
	}

	cleaned := path.Clean(strings.ReplaceAll(trimmed, `\`, "/"))
	if path.IsAbs(cleaned) || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w %q", ErrInvalidSecretKey, key)
	}

	return cleaned, nil
}
