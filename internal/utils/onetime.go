package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// OneTimeSecret is a single-use token: Plain goes into the email, only Hash
// and ExpiresAt are stored.
type OneTimeSecret struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

func IssueOneTimeSecret(ttl time.Duration, now time.Time) (OneTimeSecret, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return OneTimeSecret{}, fmt.Errorf("failed to read random token: %w", err)
	}
	plain := hex.EncodeToString(b)
	return OneTimeSecret{
		Plain:     plain,
		Hash:      HashToken(plain),
		ExpiresAt: now.Add(ttl),
	}, nil
}

// HashToken is the lookup key for an emailed token.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
