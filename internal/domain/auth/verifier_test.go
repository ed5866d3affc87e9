package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestVerifyToken_Valid(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	id, err := v.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, []byte("other-secret"), jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := v.VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})

	_, err := v.VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyToken_MissingExpiry(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u1",
	})

	_, err := v.VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyToken_MissingSubject(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := v.VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyToken_Garbage(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.VerifyToken("not-a-token")
	require.Error(t, err)
}
