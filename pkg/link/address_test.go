package link

import (
	"errors"
	"testing"
)

func TestAddressString(t *testing.T) {
	a := Address{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	if got := a.String(); got != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("String() = %q", got)
	}
	zero := Address{}
	if got := zero.String(); got != "00:00:00:00:00:00" {
		t.Fatalf("zero String() = %q", got)
	}
	mixed := Address{0x00, 0x01, 0x0A, 0x10, 0x9F, 0xF0}
	if got := mixed.String(); got != "00:01:0A:10:9F:F0" {
		t.Fatalf("mixed String() = %q", got)
	}
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress("AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Address{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	if a != want {
		t.Fatalf("parse = %v, want %v", a, want)
	}

	// Case-insensitive, single digits allowed.
	a, err = ParseAddress("aa:b:0c:D:ee:f")
	if err != nil {
		t.Fatalf("parse lowercase: %v", err)
	}
	if a != (Address{0xAA, 0x0B, 0x0C, 0x0D, 0xEE, 0x0F}) {
		t.Fatalf("parse lowercase = %v", a)
	}
}

func TestParseAddressRoundtrip(t *testing.T) {
	cases := []Address{
		{},
		{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	}
	for _, a := range cases {
		got, err := ParseAddress(a.String())
		if err != nil {
			t.Fatalf("roundtrip %v: %v", a, err)
		}
		if got != a {
			t.Fatalf("roundtrip %v = %v", a, got)
		}
	}
}

func TestParseAddressErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		group int
	}{
		{"five groups", "00:11:22:33:44", -1},
		{"seven groups", "00:11:22:33:44:55:66", -1},
		{"empty string", "", -1},
		{"bad separator", "AA-BB-CC-DD-EE-FF", -1},
		{"bad hex digit", "AA:BB:CG:DD:EE:FF", 2},
		{"empty group", "AA::CC:DD:EE:FF", 1},
		{"group too long", "AA:BB:CC:DD:EE:FFF", 5},
		{"trailing separator", "AA:BB:CC:DD:EE:FF:", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.in)
			if err == nil {
				t.Fatalf("ParseAddress(%q) succeeded", tt.in)
			}
			var ae *AddressError
			if !errors.As(err, &ae) {
				t.Fatalf("error %v is not *AddressError", err)
			}
			if ae.Group != tt.group {
				t.Fatalf("group = %d, want %d (%v)", ae.Group, tt.group, err)
			}
		})
	}
}

// A malformed input must be reported, never silently mapped to the all-zero
// address a caller could mistake for real data.
func TestParseAddressNeverZeroOnError(t *testing.T) {
	a, err := ParseAddress("00:11:22:33:44")
	if err == nil {
		t.Fatal("expected error for five groups")
	}
	if a != (Address{}) {
		t.Fatalf("failed parse returned non-zero value %v", a)
	}
	// And the legitimate zero address still parses fine.
	z, err := ParseAddress("00:00:00:00:00:00")
	if err != nil || z != (Address{}) {
		t.Fatalf("zero address parse = %v, %v", z, err)
	}
}
