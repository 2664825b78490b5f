package utils

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies passwords with bcrypt. Plaintext passwords must
// never be logged or persisted.
type Hasher struct {
	Cost int
}

// NewHasher clamps cost into bcrypt's accepted range; zero means the bcrypt
// default.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare is constant-time; a malformed hash is treated as a mismatch.
func (h *Hasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
