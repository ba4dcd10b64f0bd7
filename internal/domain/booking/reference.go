package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const referencePrefix = "BK"

// NewReference generates the human-facing booking code: the fixed
// prefix plus 8 uppercase hex characters (4 random bytes). Collisions
// are negligible but not impossible; the storage layer enforces
// uniqueness with an index.
func NewReference() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("booking: reference entropy read failed: %w", err)
	}
	return referencePrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}
