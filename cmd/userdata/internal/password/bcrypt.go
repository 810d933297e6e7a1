package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt implements Hasher using bcrypt.
//
// bcrypt only considers the first 72 bytes of input and rejects longer
// secrets with bcrypt.ErrPasswordTooLong. Digests with a higher cost than
// the hasher's own are rejected by Verify.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt-based hasher. Costs outside
// [bcrypt.MinCost, bcrypt.MaxCost] fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

// Hash hashes secret using bcrypt with a fresh salt.
func (h *Bcrypt) Hash(secret string) ([]byte, error) {
	if err := checkEncoding(secret); err != nil {
		return nil, err
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(secret+h.pepper), h.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}
	return digest, nil
}

// Verify returns true when secret matches digest.
func (h *Bcrypt) Verify(digest []byte, secret string) bool {
	cost, err := bcrypt.Cost(digest)
	if err != nil || cost > h.cost {
		return false
	}
	return bcrypt.CompareHashAndPassword(digest, []byte(secret+h.pepper)) == nil
}
