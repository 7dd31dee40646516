package jobs

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewTrackToken returns the short opaque token customers use on the public
// tracking page. 4 random bytes, hex, uppercased; carries no customer data.
func NewTrackToken() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))
}
