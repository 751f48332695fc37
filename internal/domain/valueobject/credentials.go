package valueobject

import (
	"crypto/sha256"
	"encoding/base64"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.@-]+$`)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
	maxPasswordLen = 128
)

// Credentials holds a login identifier (username or email) and a bcrypt
// password hash. The raw password is validated and hashed at construction;
// the hash is opaque afterwards and is never externalized.
type Credentials struct {
	username     string
	passwordHash string
}

// NewCredentials validates the identifier and the plain password, then
// hashes the password. This is the only path that sees a raw password.
func NewCredentials(username, plainPassword string) (Credentials, error) {
	if err := validateUsername(username); err != nil {
		return Credentials{}, err
	}
	if err := validatePassword(plainPassword); err != nil {
		return Credentials{}, err
	}
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{username: username, passwordHash: string(hash)}, nil
}

// CredentialsFromHash rehydrates credentials from storage. The hash was
// produced by NewCredentials at some point, so password-shape checks do
// not apply; only the identifier is re-validated.
func CredentialsFromHash(username, passwordHash string) (Credentials, error) {
	if err := validateUsername(username); err != nil {
		return Credentials{}, err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return Credentials{}, invalid("password", "stored password hash is empty")
	}
	return Credentials{username: username, passwordHash: passwordHash}, nil
}

func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return invalid("username", "username is required")
	}
	if len(username) < minUsernameLen {
		return invalid("username", "username must have at least 3 characters")
	}
	if len(username) > maxUsernameLen {
		return invalid("username", "username must have at most 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return invalid("username", "username may only contain letters, digits, '.', '_', '-' and '@'")
	}
	return nil
}

func validatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return invalid("password", "password is required")
	}
	if len(password) < minPasswordLen {
		return invalid("password", "password must have at least 8 characters")
	}
	if len(password) > maxPasswordLen {
		return invalid("password", "password must have at most 128 characters")
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return invalid("password", "password must contain uppercase, lowercase, digit and symbol")
	}
	return nil
}

func (c Credentials) Username() string { return c.username }

// PasswordHash exposes the stored hash for the persistence layer only.
// Response assembly must never touch it.
func (c Credentials) PasswordHash() string { return c.passwordHash }

// VerifyPassword reports whether candidate matches the stored hash.
// bcrypt's comparison runs in time independent of the outcome.
func (c Credentials) VerifyPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.passwordHash), bcryptInput(candidate)) == nil
}

// bcrypt only reads the first 72 bytes of its input, which is shorter
// than the longest password the domain accepts. The password is digested
// first so the whole range hashes, and the base64 encoding keeps the
// digest free of NUL bytes bcrypt would truncate at.
func bcryptInput(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func (c Credentials) Equal(other Credentials) bool {
	return c.username == other.username && c.passwordHash == other.passwordHash
}
