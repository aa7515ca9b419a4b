package generator

import (
	"strings"

	"github.com/google/uuid"
)

// ShortIDLength is the length of generated short identifiers. Ten hex
// characters out of a 128-bit random value keep the collision probability
// negligible for any realistic table size.
const ShortIDLength = 10

// NewShortID returns a candidate short identifier: a random UUID with the
// hyphens stripped, truncated to ShortIDLength characters.
func NewShortID() string {
	u := strings.ReplaceAll(uuid.NewString(), "-", "")
	return u[:ShortIDLength]
}

// NewUserID returns a stable unique identifier for a new account.
func NewUserID() string {
	return uuid.NewString()
}
