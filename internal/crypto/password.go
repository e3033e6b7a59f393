package crypto

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PolicyDescription is the user-facing explanation of the password policy.
const PolicyDescription = "The password must contain at least 8 characters, a lowercase letter, an uppercase letter, a digit and a special character."

// BcryptCost is the fixed work factor for credential hashing.
const BcryptCost = 10

const (
	minPasswordLength = 8
	specialChars      = "@$!%*?&"
)

// ValidatePassword reports whether pw satisfies the password policy: at
// least 8 characters, drawn only from letters, digits and @$!%*?&, with at
// least one lowercase letter, one uppercase letter, one digit and one
// special character.
func ValidatePassword(pw string) bool {
	if len(pw) < minPasswordLength {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		default:
			return false
		}
	}

	return lower && upper && digit && special
}

// Hasher produces and verifies one-way salted credential hashes.
type Hasher interface {
	// Hash produces a salted hash of plaintext. Two calls with the same
	// plaintext yield different hashes.
	Hash(plaintext string) (string, error)

	// Compare reports whether plaintext matches hashed. A mismatch is
	// (false, nil); an error is returned only for a malformed stored hash.
	Compare(plaintext, hashed string) (bool, error)
}

// BcryptHasher implements Hasher with bcrypt at [BcryptCost].
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new BcryptHasher.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: BcryptCost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(plaintext, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
