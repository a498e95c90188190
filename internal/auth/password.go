package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for new digests.
const PasswordCost = 10

// maxPasswordBytes is the bcrypt input limit. Longer plaintexts are cut to it
// when hashing and when checking, so any length round-trips.
const maxPasswordBytes = 72

// HashPassword returns a salted bcrypt digest of plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(plain), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches digest. A malformed digest is a mismatch.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), bcryptInput(plain)) == nil
}

func bcryptInput(plain string) []byte {
	b := []byte(plain)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
