package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdminTokenIsRandomAndURLSafe(t *testing.T) {
	t.Parallel()

	first, err := NewAdminToken()
	require.NoError(t, err)
	second, err := NewAdminToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	decoded, err := base64.RawURLEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, decoded, tokenBytes)
}

func TestFingerprintIsStableAndShort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Fingerprint("s3cret"), Fingerprint("s3cret"))
	assert.NotEqual(t, Fingerprint("s3cret"), Fingerprint("other"))
	assert.Len(t, Fingerprint("s3cret"), fingerprintLength)
	assert.NotContains(t, Fingerprint("s3cret"), "s3cret")
}
