// internal/app/system/authutil/authutil.go
package authutil

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used for stored passwords.
const HashCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword for passwords over
// MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
