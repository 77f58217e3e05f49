package models

import "strings"

// MaxPlateLength is the longest plate the system stores. Chilean plates are
// six characters; two extra positions cover provisional and diplomatic
// formats.
const MaxPlateLength = 8

// NormalizePlate canonicalizes a license plate: uppercase, alphanumeric only,
// truncated to MaxPlateLength. The result is the natural key for vehicles,
// so every lookup and write must pass through here first.
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > MaxPlateLength {
		out = out[:MaxPlateLength]
	}
	return out
}
