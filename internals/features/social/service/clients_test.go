// file: internals/features/social/service/clients_test.go
package service

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedInAuthURLCarriesState(t *testing.T) {
	oauth := NewLinkedInOAuth("client-id", "client-secret", "https://app.example.com/callback")
	state := uuid.NewString()

	parsed, err := url.Parse(oauth.AuthURL(state))
	require.NoError(t, err)

	q := parsed.Query()
	// The callback handler compares this value before exchanging the code.
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://app.example.com/callback", q.Get("redirect_uri"))
}
