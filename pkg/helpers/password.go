package helpers

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes the plain text password using bcrypt. The input is
// digested first because bcrypt only reads 72 bytes; this must stay in
// step with the credentials value object, which verifies these hashes.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(passwordDigest(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordDigest(plain)) == nil
}

func passwordDigest(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
