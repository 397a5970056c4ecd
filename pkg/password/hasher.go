package password

import "fmt"

// Version identifies the hashing algorithm used for a stored digest
type Version int

const (
	// VersionBcrypt is the original bcrypt implementation
	VersionBcrypt Version = 1
	// VersionArgon2 uses Argon2id with a PHC-encoded digest
	VersionArgon2 Version = 2

	// CurrentVersion is used for all newly created credentials
	CurrentVersion = VersionArgon2
)

// Hasher defines the interface for credential hashing implementations
type Hasher interface {
	// Hash hashes a secret with a fresh random salt
	Hash(secret string) (string, error)

	// Verify checks the secret against a stored digest. Malformed or
	// foreign digests verify false without an error; errors are
	// reserved for unusable input such as an empty secret.
	Verify(secret, encodedHash string) (bool, error)

	// HashVersion reports which Version the hasher produces
	HashVersion() Version
}

// HasherFactory returns hashers by digest version so old credentials
// stay verifiable after the current algorithm moves on
type HasherFactory interface {
	GetHasher(version Version) (Hasher, error)
	GetCurrentHasher() Hasher
}

// DefaultHasherFactory wires the known hasher versions
type DefaultHasherFactory struct {
	hasherMap map[Version]Hasher
}

// NewDefaultHasherFactory creates a factory with all supported hashers registered
func NewDefaultHasherFactory() *DefaultHasherFactory {
	factory := &DefaultHasherFactory{
		hasherMap: make(map[Version]Hasher),
	}

	factory.hasherMap[VersionBcrypt] = &BcryptHasher{}
	factory.hasherMap[VersionArgon2] = NewArgon2Hasher()

	return factory
}

// GetHasher implements HasherFactory.GetHasher
func (f *DefaultHasherFactory) GetHasher(version Version) (Hasher, error) {
	hasher, ok := f.hasherMap[version]
	if !ok {
		return nil, fmt.Errorf("unsupported password version: %d", version)
	}
	return hasher, nil
}

// GetCurrentHasher implements HasherFactory.GetCurrentHasher
func (f *DefaultHasherFactory) GetCurrentHasher() Hasher {
	return f.hasherMap[CurrentVersion]
}
