// Package tokens issues and checks the opaque bearer tokens used by the
// admin surface. A token is an HMAC-signed expiry, nothing more; there is a
// single principal so no claims are carried.
package tokens

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Sign mints a token valid for ttl.
func Sign(secret string, ttl time.Duration) (string, error) {
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	payload := fmt.Sprintf("%d.%x", time.Now().Add(ttl).Unix(), nonce)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + sign(secret, payload), nil
}

// Verify checks the signature first, the expiry second.
func Verify(secret, token string) error {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return ErrInvalidToken
	}
	payload := string(raw)
	if !hmac.Equal([]byte(sig), []byte(sign(secret, payload))) {
		return ErrInvalidToken
	}
	expStr, _, ok := strings.Cut(payload, ".")
	if !ok {
		return ErrInvalidToken
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrInvalidToken
	}
	if time.Now().Unix() > exp {
		return ErrExpiredToken
	}
	return nil
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
