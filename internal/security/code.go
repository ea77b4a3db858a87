package security

import (
	"crypto/rand"
	"encoding/base64"
)

// NewVerificationCode returns an opaque single-use token. 32 bytes of
// crypto/rand keeps it unguessable and collision-free for any realistic
// number of accounts.
func NewVerificationCode() (string, error) {
	b := make([]byte, 32) // 256 бит
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
