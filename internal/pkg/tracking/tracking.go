package tracking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const prefix = "SD"

// Generate builds an id of the form SD-YYYYMMDD-XXXXXXXX from the UTC date and 4 random bytes.
func Generate(now time.Time) (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("tracking id entropy: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(b[:]))), nil
}
