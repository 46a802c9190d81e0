package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	tok, err := Sign("secret", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, Verify("secret", tok))
}

func TestVerifyRejects(t *testing.T) {
	tok, err := Sign("secret", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
		want   error
	}{
		{"wrong secret", "other", tok, ErrInvalidToken},
		{"malformed", "secret", "not-a-token", ErrInvalidToken},
		{"tampered signature", "secret", tok + "x", ErrInvalidToken},
		{"empty", "secret", "", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Verify(tt.secret, tt.token), tt.want)
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	tok, err := Sign("secret", -time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, Verify("secret", tok), ErrExpiredToken)
}
