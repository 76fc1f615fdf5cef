package security

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityTokenRoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	base64Secret := base64.StdEncoding.EncodeToString(secret)

	token, err := CreateIdentityToken(&Identity{
		ID:        7,
		UserName:  "alice",
		EmpNumber: 12,
		Role:      "USER",
	}, base64Secret, 3600)
	require.NoError(t, err)

	claims, err := ParseIdentityToken(token, secret)
	require.NoError(t, err)

	assert.Equal(t, 7, claims.Identity.ID)
	assert.Equal(t, "alice", claims.UserName)
	assert.Equal(t, 12, claims.EmpNumber)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "timesheets", claims.Issuer)
}

func TestParseIdentityTokenRejectsWrongSecret(t *testing.T) {
	base64Secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

	token, err := CreateIdentityToken(&Identity{ID: 1, UserName: "bob"}, base64Secret, 3600)
	require.NoError(t, err)

	_, err = ParseIdentityToken(token, []byte("another-secret-entirely-32bytes!"))
	assert.Error(t, err)
}
