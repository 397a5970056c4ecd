package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements Hasher using bcrypt. Kept so digests written
// before the argon2 migration keep verifying.
type BcryptHasher struct{}

// Hash implements Hasher.Hash
func (h *BcryptHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("password cannot be empty")
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// Verify implements Hasher.Verify
func (h *BcryptHasher) Verify(secret, encodedHash string) (bool, error) {
	if secret == "" {
		return false, errors.New("password cannot be empty")
	}

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(secret))
	if err != nil {
		// Mismatch and malformed digests both verify false; neither is
		// an error the caller can act on.
		return false, nil
	}

	return true, nil
}

// HashVersion implements Hasher.HashVersion
func (h *BcryptHasher) HashVersion() Version {
	return VersionBcrypt
}
