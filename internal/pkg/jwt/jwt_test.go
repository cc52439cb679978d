package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_RoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour)

	tok, err := svc.GenerateToken(" Ann@Test.com ")
	require.NoError(t, err)

	id, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "ann@test.com", id.Email)
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := New("secret-a", time.Hour).GenerateToken("a@test.com")
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	svc := New("secret", -time.Minute)
	tok, err := svc.GenerateToken("a@test.com")
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingEmailClaim(t *testing.T) {
	secret := []byte("secret")
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = New("secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
