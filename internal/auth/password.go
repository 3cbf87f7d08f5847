// Package auth provides password hashing and JWT issuance for the REST
// surface. Socket frames are not authenticated; that is out of scope for the
// relay itself.
package auth

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// HashPassword generates a bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks the password against a stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
