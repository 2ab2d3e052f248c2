package security

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func TestCreateAndParse(t *testing.T) {
	token, err := CreateIdentityToken(&Identity{ID: 5, UserName: "operador", Email: "op@maxloyalty.mx", Role: "admin"}, testSecret, time.Hour)
	require.NoError(t, err)

	secret, err := DecodeSecret(testSecret)
	require.NoError(t, err)
	claims, err := ParseIdentityToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.Identity.ID)
	assert.Equal(t, "operador", claims.UserName)
	assert.Equal(t, "5", claims.Subject)
}

func TestExpiredToken(t *testing.T) {
	token, err := CreateIdentityToken(&Identity{ID: 1}, testSecret, -time.Minute)
	require.NoError(t, err)

	secret, _ := DecodeSecret(testSecret)
	_, err = ParseIdentityToken(token, secret)
	assert.Error(t, err)
}

func TestWrongSecret(t *testing.T) {
	token, err := CreateIdentityToken(&Identity{ID: 1}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseIdentityToken(token, []byte("other"))
	assert.Error(t, err)
}

func TestBadSecret(t *testing.T) {
	_, err := CreateIdentityToken(&Identity{ID: 1}, "%%%", time.Hour)
	assert.Error(t, err)
	_, err = DecodeSecret("")
	assert.Error(t, err)
}
