package reflection

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Tristate is a query field: don't care, required present, or required
// absent.
type Tristate uint8

const (
	Any Tristate = iota
	Yes
	No
)

func (t Tristate) String() string {
	switch t {
	case Yes:
		return "true"
	case No:
		return "false"
	default:
		return "any"
	}
}

// MarshalJSON encodes Yes as true, No as false and Any as null.
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false and null.
func (t *Tristate) UnmarshalJSON(data []byte) error {
	switch jsontext.Value(data).Kind() {
	case 't':
		*t = Yes
	case 'f':
		*t = No
	case 'n':
		*t = Any
	default:
		return fmt.Errorf("query field must be true, false or null, got %s", data)
	}
	return nil
}

// PropertyQuery selects descriptors by flag. Fields left at Any do not
// take part in matching.
type PropertyQuery struct {
	Public    Tristate `json:"public,omitzero"`
	Protected Tristate `json:"protected,omitzero"`
	Private   Tristate `json:"private,omitzero"`
	Readonly  Tristate `json:"readonly,omitzero"`
	Optional  Tristate `json:"optional,omitzero"`
}

// DefaultQuery is used when a filter call receives no queries.
var DefaultQuery = PropertyQuery{Public: Yes}

// Compile returns the include and exclude masks of q. A descriptor matches
// when it carries every include bit and none of the exclude bits.
func (q PropertyQuery) Compile() (include, exclude PropertyFlag) {
	fields := []struct {
		state Tristate
		flag  PropertyFlag
	}{
		{q.Public, FlagPublic},
		{q.Protected, FlagProtected},
		{q.Private, FlagPrivate},
		{q.Readonly, FlagReadonly},
		{q.Optional, FlagOptional},
	}
	for _, f := range fields {
		switch f.state {
		case Yes:
			include |= f.flag
		case No:
			exclude |= f.flag
		}
	}
	return include, exclude
}

// ParseQuery decodes a query in the JavaScript runtime's object form, e.g.
// {"public": true, "readonly": false}.
func ParseQuery(data []byte) (PropertyQuery, error) {
	var q PropertyQuery
	if err := json.Unmarshal(data, &q, json.RejectUnknownMembers(true)); err != nil {
		return PropertyQuery{}, fmt.Errorf("parsing property query: %w", err)
	}
	return q, nil
}
