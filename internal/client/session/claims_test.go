package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return tok
}

func TestParseClaims_ReadsUserID(t *testing.T) {
	tok := signed(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u1",
	})

	c, err := ParseClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	require.NotNil(t, c.ExpiresAt)
}

func TestParseClaims_ExpiredTokenStillDecodes(t *testing.T) {
	tok := signed(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		UserID:           "u2",
	})

	c, err := ParseClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "u2", c.UserID)
}

func TestParseClaims_Errors(t *testing.T) {
	noUser := signed(t, jwt.MapClaims{"sub": "u3"})

	for name, tok := range map[string]string{
		"opaque":        "abc",
		"empty":         "",
		"bad payload":   "eyJhbGciOiJIUzI1NiJ9.!!!.sig",
		"missing claim": noUser,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseClaims(tok)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
