// file: internals/helpers/crypto/token_cipher_test.go
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func TestTokenCipherRoundTrip(t *testing.T) {
	tc, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)

	plain := "EAAGm0PX4ZCpsBO1234longlived"
	enc, err := tc.Encrypt(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, enc)

	dec, err := tc.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, plain, dec)
}

func TestTokenCipherEmptyValues(t *testing.T) {
	tc, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)

	enc, err := tc.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, enc)

	dec, err := tc.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, dec)
}

func TestTokenCipherRejectsTamperedCiphertext(t *testing.T) {
	tc, err := NewTokenCipher(testKey(t))
	require.NoError(t, err)

	enc, err := tc.Encrypt("secret-token")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = tc.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestNewTokenCipherRejectsBadKeys(t *testing.T) {
	_, err := NewTokenCipher("")
	assert.Error(t, err)

	_, err = NewTokenCipher("not-base64!!!")
	assert.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("too-short"))
	_, err = NewTokenCipher(short)
	assert.Error(t, err)
}
