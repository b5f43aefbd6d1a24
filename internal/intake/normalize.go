package intake

import "strings"

// Placeholder strings treated as "no value" during serial normalization.
// Forms come back with the field label, a brand word, or filler typed into
// the serial cell often enough that these have to be rejected outright.
var serialBlacklist = map[string]struct{}{
	"N.A":        {},
	"NA":         {},
	"NONE":       {},
	"SERIAL":     {},
	"SERIE":      {},
	"MARCA":      {},
	"MODELO":     {},
	"REFERENCIA": {},
	"GENERICO":   {},
	"":           {},
	"MOUSE":      {},
	"TECLADO":    {},
	"NULL":       {},
}

// MaxMACLength is the canonical colon-delimited MAC length.
const MaxMACLength = 17

// NormalizeSerial canonicalizes a free-text serial number. It trims,
// upper-cases and cuts at the first slash (serials are sometimes
// dual-printed with a slash-separated alternate), then rejects blacklisted
// placeholders and anything shorter than 3 characters. Rejection is
// reported as "", not as an error: the field is simply unknown.
//
// Idempotent: re-applying to an accepted value yields the same value.
func NormalizeSerial(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if _, junk := serialBlacklist[s]; junk {
		return ""
	}
	if len(s) < 3 {
		return ""
	}
	return s
}

// NormalizeMAC trims, upper-cases and strips embedded spaces, then cuts at
// 17 characters. Colon structure is deliberately not validated: malformed
// input is truncated, not rejected. Empty input stays empty.
func NormalizeMAC(raw string) string {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if len(s) > MaxMACLength {
		s = s[:MaxMACLength]
	}
	return s
}
