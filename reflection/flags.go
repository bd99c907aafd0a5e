// Package reflection is the run-time half of tsreflect. It defines the
// property descriptor values emitted at build time and the query filter
// that selects property names from them.
package reflection

import "strings"

// PropertyFlag is a bitmask of member qualifiers. The bit values are
// shared with the JavaScript runtime, where they are named PUBLIC,
// PROTECTED, PRIVATE, OPTIONAL and READONLY.
type PropertyFlag uint8

const (
	FlagPublic    PropertyFlag = 1  // PUBLIC
	FlagProtected PropertyFlag = 2  // PROTECTED
	FlagPrivate   PropertyFlag = 4  // PRIVATE
	FlagOptional  PropertyFlag = 8  // OPTIONAL
	FlagReadonly  PropertyFlag = 16 // READONLY
)

// AccessMask covers the three mutually exclusive access flags.
const AccessMask = FlagPublic | FlagProtected | FlagPrivate

var flagNames = []struct {
	flag PropertyFlag
	name string
}{
	{FlagPublic, "PUBLIC"},
	{FlagProtected, "PROTECTED"},
	{FlagPrivate, "PRIVATE"},
	{FlagOptional, "OPTIONAL"},
	{FlagReadonly, "READONLY"},
}

// Has reports whether all bits of other are set in f.
func (f PropertyFlag) Has(other PropertyFlag) bool {
	return f&other == other
}

// Access returns the access part of f: FlagPublic, FlagProtected or
// FlagPrivate for a well-formed descriptor.
func (f PropertyFlag) Access() PropertyFlag {
	return f & AccessMask
}

// Valid reports whether exactly one access flag is set and no unknown bits
// are present.
func (f PropertyFlag) Valid() bool {
	if f&^(AccessMask|FlagOptional|FlagReadonly) != 0 {
		return false
	}
	switch f.Access() {
	case FlagPublic, FlagProtected, FlagPrivate:
		return true
	default:
		return false
	}
}

// String renders the flag set as "PUBLIC|READONLY".
func (f PropertyFlag) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}
