package util

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

const pinHashCost = 12

// HashPin hashes a scanner PIN for storage.
func HashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), pinHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPinHash verifies a PIN against its stored bcrypt hash.
func CheckPinHash(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// MaskCode hides most of a presented code for logging.
func MaskCode(code string) string {
	if len(code) <= 4 {
		return "****"
	}
	return code[:4] + "-****"
}
