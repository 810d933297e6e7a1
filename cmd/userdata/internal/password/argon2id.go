package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id implements Hasher using Argon2id. Digests use the PHC string
// format: $argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<hash>.
//
// Verify only accepts digests whose cost parameters do not exceed the
// hasher's own, and runs at most argon2MaxConcurrent derivations at a time.
type Argon2id struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
	pepper      string

	// semaphore; nil disables the limiter
	sem chan struct{}
}

const (
	argon2MaxConcurrent = 2
	argon2MaxKeyLength  = 1024
)

// NewArgon2id returns an Argon2id hasher with recommended defaults.
func NewArgon2id(pepper string) *Argon2id {
	return &Argon2id{
		memory:      32 * 1024, // 32MB
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
		pepper:      pepper,
		sem:         make(chan struct{}, argon2MaxConcurrent),
	}
}

func (a *Argon2id) derive(secret string, salt []byte, iterations, memory uint32, parallelism uint8, keyLength uint32) []byte {
	if a.sem != nil {
		a.sem <- struct{}{}
		defer func() { <-a.sem }()
	}
	return argon2.IDKey([]byte(secret+a.pepper), salt, iterations, memory, parallelism, keyLength)
}

// Hash returns the encoded Argon2id digest of secret.
func (a *Argon2id) Hash(secret string) ([]byte, error) {
	if err := checkEncoding(secret); err != nil {
		return nil, err
	}

	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := a.derive(secret, salt, a.iterations, a.memory, a.parallelism, a.keyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.memory,
		a.iterations,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return []byte(encoded), nil
}

// Verify checks secret against an encoded Argon2id digest.
func (a *Argon2id) Verify(digest []byte, secret string) bool {
	if len(digest) == 0 {
		return false
	}

	parts := strings.Split(string(digest), "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}
	if memory == 0 || iterations == 0 || parallelism == 0 {
		return false
	}
	if memory > a.memory || iterations > a.iterations || parallelism > a.parallelism {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 || len(expected) > argon2MaxKeyLength {
		return false
	}

	computed := a.derive(secret, salt, iterations, memory, parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(expected, computed) == 1
}
