// Package cryptox implements the client-side keyword commitment used by
// external auditors: canonicalization of the keyword, its SHA-256 digest,
// and an asymmetric signature over that digest.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DigestHexLen is the length of a hex-encoded SHA-256 digest.
const DigestHexLen = sha256.Size * 2

// NormalizeKeyword canonicalizes a user-entered keyword: surrounding
// whitespace is trimmed, the text is composed to NFC and lower-cased with
// the language-neutral Unicode mapping. Punctuation and inner whitespace
// are preserved.
//
// Example: "  Acme Corp " -> "acme corp"
func NormalizeKeyword(raw string) string {
	s := strings.TrimSpace(raw)
	s = norm.NFC.String(s)
	// cases.Caser keeps state and is not safe for concurrent use.
	return cases.Lower(language.Und).String(s)
}

// DigestKeyword returns the lowercase hex SHA-256 of the canonical keyword.
func DigestKeyword(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// ValidDigest reports whether s is a 64-char lowercase hex string.
func ValidDigest(s string) bool {
	if len(s) != DigestHexLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
