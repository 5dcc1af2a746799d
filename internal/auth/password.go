package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor for new digests. Stored digests record
// their own cost, so raising this never invalidates existing credentials.
const hashCost = bcrypt.DefaultCost

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// HashPassword hashes a plaintext password using bcrypt. The salt is random,
// so two calls with the same input produce different digests.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	if len(password) > maxPasswordBytes {
		return "", errors.New("password exceeds 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with a stored hash. A
// malformed hash is reported as a mismatch, not a panic.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
