// Package auth covers password hashing and session token handling.
package auth

import "golang.org/x/crypto/bcrypt"

// Work factor 10, enough to make offline brute force expensive.
const bcryptCost = 10

func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
