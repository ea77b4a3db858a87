package security

import "golang.org/x/crypto/bcrypt"

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), 12)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Bcrypt adapts the package functions to the accounts.CredentialHasher shape.
type Bcrypt struct{}

func (Bcrypt) Hash(pw string) (string, error) { return HashPassword(pw) }
func (Bcrypt) Verify(pw, hash string) bool    { return CheckPassword(hash, pw) }
