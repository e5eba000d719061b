package observer

import "fmt"

// fnvOffset and fnvPrime are the 32-bit FNV-1a constants used for the
// semantic ID hash (spec §4.5 step 8).
const (
	fnvOffset uint32 = 0x811c9dc5
	fnvPrime  uint32 = 0x01000193
)

// fieldSep separates fields being mixed into the hash so that e.g.
// ("ab", "c") and ("a", "bc") never collide.
const fieldSep = byte(0x1f)

// semanticHash mixes the seven identity-like attributes from spec §3 into
// an 8-character lowercase hex digest: tag, testID, role, inputType,
// placeholder, name, and the first 20 non-digit characters of visible
// text.
func semanticHash(tag, testID, role, inputType, placeholder, name, text20 string) string {
	h := fnvOffset
	fields := [...]string{tag, testID, role, inputType, placeholder, name, text20}
	for i, f := range fields {
		if i > 0 {
			h ^= uint32(fieldSep)
			h *= fnvPrime
		}
		for j := 0; j < len(f); j++ {
			h ^= uint32(f[j])
			h *= fnvPrime
		}
	}
	return fmt.Sprintf("%08x", h)
}

// firstNonDigitRunes returns the first n characters of s with digits
// dropped, used to build the text20 hash input from arbitrary visible
// text (counters and prices otherwise destabilise the hash across
// observations of the same element).
func firstNonDigitRunes(s string, n int) string {
	out := make([]rune, 0, n)
	for _, r := range s {
		if len(out) >= n {
			break
		}
		if r >= '0' && r <= '9' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// semanticID assembles the full semantic ID `<tag>-<hash8>-<occurrence>`.
func semanticID(tag, hash8 string, occurrence int) string {
	return fmt.Sprintf("%s-%s-%d", tag, hash8, occurrence)
}
