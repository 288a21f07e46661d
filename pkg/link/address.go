package link

import (
	"fmt"
	"strconv"
	"strings"
)

// AddressLen is the number of bytes in a link-layer address.
const AddressLen = 6

// Address is a 6-byte link-layer address, analogous to an Ethernet MAC.
// It is a plain value: copied freely, semantically opaque, never validated
// against any allocation scheme.
type Address [AddressLen]byte

// String renders the address in canonical colon-hex form, uppercase and
// zero-padded: "AA:BB:CC:DD:EE:FF".
func (a Address) String() string {
	const digits = "0123456789ABCDEF"
	buf := make([]byte, 0, AddressLen*3-1)
	for i, b := range a {
		if i > 0 {
			buf = append(buf, ':')
		}
		buf = append(buf, digits[b>>4], digits[b&0x0f])
	}
	return string(buf)
}

// AddressError reports why an address string failed to parse.
// Group is the zero-based index of the offending hex group, or -1 when the
// failure is not tied to a single group.
type AddressError struct {
	Input  string
	Group  int
	Reason string
}

func (e *AddressError) Error() string {
	if e.Group >= 0 {
		return fmt.Sprintf("link: bad address %q: group %d: %s", e.Input, e.Group, e.Reason)
	}
	return fmt.Sprintf("link: bad address %q: %s", e.Input, e.Reason)
}

// ParseAddress parses a colon-separated hex address such as
// "aa:bb:cc:dd:ee:ff" (case-insensitive). It requires exactly six groups and
// never falls back to a zero address: any malformed input yields a
// *AddressError, so callers can always tell a parse failure apart from a
// legitimately all-zero address.
func ParseAddress(s string) (Address, error) {
	var a Address
	groups := strings.Split(s, ":")
	if len(groups) != AddressLen {
		return Address{}, &AddressError{Input: s, Group: -1,
			Reason: fmt.Sprintf("expected %d colon-separated groups, got %d", AddressLen, len(groups))}
	}
	for i, g := range groups {
		if g == "" {
			return Address{}, &AddressError{Input: s, Group: i, Reason: "empty group"}
		}
		if len(g) > 2 {
			return Address{}, &AddressError{Input: s, Group: i,
				Reason: fmt.Sprintf("group %q longer than two hex digits", g)}
		}
		v, err := strconv.ParseUint(g, 16, 8)
		if err != nil {
			return Address{}, &AddressError{Input: s, Group: i,
				Reason: fmt.Sprintf("not a hex byte: %q", g)}
		}
		a[i] = byte(v)
	}
	return a, nil
}

// MustParseAddress is ParseAddress for statically known inputs; it panics on
// malformed input and is intended for tests and configuration defaults.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}
