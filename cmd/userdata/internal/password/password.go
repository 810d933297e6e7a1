package password

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrEncoding indicates that a secret is not valid UTF-8 text.
	ErrEncoding = errors.New("secret is not valid UTF-8")

	// ErrUnknownAlgorithm indicates an unsupported hasher name in configuration.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)

// Hasher hashes secrets and checks them against stored digests.
type Hasher interface {
	// Hash returns a salted, self-describing digest of secret.
	Hash(secret string) ([]byte, error)

	// Verify reports whether secret matches digest. Malformed digests
	// yield false.
	Verify(digest []byte, secret string) bool
}

// Algorithm names accepted by New.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// Config selects and tunes a Hasher.
type Config struct {
	Algorithm string
	// Cost is the bcrypt work factor. Zero means bcrypt.DefaultCost.
	Cost int
	// Pepper is appended to the secret before hashing. Keep it out of the database.
	Pepper string
}

// New returns the Hasher named by cfg.Algorithm. An empty name selects bcrypt.
func New(cfg Config) (Hasher, error) {
	switch cfg.Algorithm {
	case "", AlgorithmBcrypt:
		return NewBcrypt(cfg.Cost, cfg.Pepper), nil
	case AlgorithmArgon2id:
		return NewArgon2id(cfg.Pepper), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, cfg.Algorithm)
	}
}

func checkEncoding(secret string) error {
	if !utf8.ValidString(secret) {
		return ErrEncoding
	}
	return nil
}
