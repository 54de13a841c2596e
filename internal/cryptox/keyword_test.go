package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeyword(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and lowercases", "  Acme Corp ", "acme corp"},
		{"keeps punctuation", "ABCDE-1234/F.", "abcde-1234/f."},
		{"keeps inner whitespace", "a  b", "a  b"},
		{"tabs and newlines", "\tHIGH_RISK\n", "high_risk"},
		{"unicode whitespace", "\u00a0Ravi Kumar\u2003", "ravi kumar"},
		{"non ascii letters", "\u00c9COLE", "\u00e9cole"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKeyword(tt.in))
		})
	}
}

func TestNormalizeKeyword_ComposesToNFC(t *testing.T) {
	decomposed := "e\u0301cole"
	composed := "\u00e9cole"
	assert.Equal(t, NormalizeKeyword(composed), NormalizeKeyword(decomposed))
}

func TestNormalizeKeyword_EquivalentInputsCollapse(t *testing.T) {
	base := "Acme Corp"
	variants := []string{
		base,
		strings.ToUpper(base),
		strings.ToLower(base),
		"  " + base,
		base + "\n",
		"\t" + strings.ToUpper(base) + "  ",
		"aCME cORP",
	}
	want := NormalizeKeyword(base)
	for _, v := range variants {
		assert.Equal(t, want, NormalizeKeyword(v), "variant %q", v)
	}
}

func TestNormalizeKeyword_Idempotent(t *testing.T) {
	for _, in := range []string{"  MiXeD ", "ABCDE1234F", "Ünïcödé"} {
		once := NormalizeKeyword(in)
		assert.Equal(t, once, NormalizeKeyword(once))
	}
}

func TestDigestKeyword_KnownVector(t *testing.T) {
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		DigestKeyword("abc"))
}

func TestDigestKeyword_DeterministicLowerHex(t *testing.T) {
	a := DigestKeyword("acme corp")
	for i := 0; i < 5; i++ {
		require.Equal(t, a, DigestKeyword("acme corp"))
	}
	assert.Len(t, a, DigestHexLen)
	assert.True(t, ValidDigest(a))
	assert.NotEqual(t, a, DigestKeyword("acme corp."))
}

func keywordHash(raw string) string {
	return DigestKeyword(NormalizeKeyword(raw))
}

func TestDigestKeyword_OfNormalized(t *testing.T) {
	assert.Equal(t, DigestKeyword("acme corp"), keywordHash("  ACME Corp"))
}

func TestValidDigest(t *testing.T) {
	good := DigestKeyword("x")
	assert.True(t, ValidDigest(good))
	assert.False(t, ValidDigest(strings.ToUpper(good)))
	assert.False(t, ValidDigest(good[:63]))
	assert.False(t, ValidDigest(good+"0"))
	assert.False(t, ValidDigest(strings.Repeat("g", 64)))
	assert.False(t, ValidDigest(""))
}
