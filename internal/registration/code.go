package registration

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"
)

// GenerateDealershipCode derives a short invite code from the dealership
// name: up to four letters of the name, then a random hex suffix.
// "Sunrise Motors" -> "SUNR-3F9A".
func GenerateDealershipCode(name string) string {
	var prefix strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			prefix.WriteRune(unicode.ToUpper(r))
			if prefix.Len() >= 4 {
				break
			}
		}
	}
	if prefix.Len() == 0 {
		prefix.WriteString("DLR")
	}

	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	return prefix.String() + "-" + strings.ToUpper(hex.EncodeToString(buf))
}
