//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseUserID verifies the trust-boundary parser never panics and that
// every accepted value round-trips through its string form unchanged.
func FuzzParseUserID(f *testing.F) {
	f.Add("")
	f.Add("01HQXV7J8N4R9T2M5K3P6W8Y0Z")
	f.Add("00000000000000000000000000")
	f.Add("not-a-ulid")
	f.Add("'; DROP TABLE users;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseUserID(input)
		if err != nil {
			return
		}

		roundTrip, err2 := ParseUserID(id.String())
		if err2 != nil {
			t.Errorf("accepted ID failed round-trip: %v", err2)
		}
		if roundTrip != id {
			t.Error("round-trip changed ID value")
		}
		if id.IsZero() {
			t.Error("zero sentinel must never be accepted")
		}
		if !utf8.ValidString(input) {
			t.Error("non-UTF8 input was accepted")
		}
	})
}
