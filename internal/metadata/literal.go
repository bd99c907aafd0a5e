package metadata

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/tsgonest/tsreflect/internal/jsnum"
)

// LiteralType is the primitive domain of a literal value.
type LiteralType string

const (
	LiteralString    LiteralType = "string"
	LiteralNumber    LiteralType = "number"
	LiteralBoolean   LiteralType = "boolean"
	LiteralBigInt    LiteralType = "bigint"
	LiteralNull      LiteralType = "null"
	LiteralUndefined LiteralType = "undefined"
)

// Known reports whether t is one of the literal domains.
func (t LiteralType) Known() bool {
	switch t {
	case LiteralString, LiteralNumber, LiteralBoolean, LiteralBigInt, LiteralNull, LiteralUndefined:
		return true
	}
	return false
}

// Literal is a single fixed value. Literal is comparable and == is value
// equality: strings by text, numbers by IEEE value (0 and -0 are equal),
// bigints by canonical decimal text.
type Literal struct {
	Type   LiteralType
	Text   string // string value, or canonical decimal digits of a bigint
	Number float64
	Bool   bool

	// absent marks a literal decoded without its value.
	absent bool
}

// StringLiteral returns the string literal s.
func StringLiteral(s string) Literal { return Literal{Type: LiteralString, Text: s} }

// NumberLiteral returns the number literal f.
func NumberLiteral(f float64) Literal { return Literal{Type: LiteralNumber, Number: f} }

// BoolLiteral returns true or false.
func BoolLiteral(b bool) Literal { return Literal{Type: LiteralBoolean, Bool: b} }

// Null returns the null literal.
func Null() Literal { return Literal{Type: LiteralNull} }

// Undefined returns the undefined literal.
func Undefined() Literal { return Literal{Type: LiteralUndefined} }

// BigIntLiteral parses a decimal bigint, with or without the trailing "n".
func BigIntLiteral(text string) (Literal, error) {
	digits := strings.TrimSuffix(text, "n")
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Literal{}, fmt.Errorf("invalid bigint literal %q", text)
	}
	return Literal{Type: LiteralBigInt, Text: v.String()}, nil
}

// HasValue reports whether the literal carries a recoverable value.
func (l Literal) HasValue() bool {
	return l.Type.Known() && !l.absent
}

// Value returns the Go value of the literal: string, float64, bool,
// *big.Int, or nil for null and undefined.
func (l Literal) Value() any {
	switch l.Type {
	case LiteralString:
		return l.Text
	case LiteralNumber:
		return l.Number
	case LiteralBoolean:
		return l.Bool
	case LiteralBigInt:
		v, _ := new(big.Int).SetString(l.Text, 10)
		return v
	default:
		return nil
	}
}

// String renders the literal in TypeScript source form.
func (l Literal) String() string {
	if !l.HasValue() {
		return fmt.Sprintf("<%s without value>", l.Type)
	}
	switch l.Type {
	case LiteralString:
		return strconv.Quote(l.Text)
	case LiteralNumber:
		return jsnum.String(l.Number)
	case LiteralBoolean:
		return strconv.FormatBool(l.Bool)
	case LiteralBigInt:
		return l.Text + "n"
	default:
		return string(l.Type)
	}
}

type literalJSON struct {
	Type  LiteralType    `json:"type"`
	Value jsontext.Value `json:"value,omitzero"`
}

// MarshalJSON encodes the literal as {"type": ..., "value": ...}. Bigints
// are encoded as decimal strings; null and undefined have no value.
func (l Literal) MarshalJSON() ([]byte, error) {
	out := literalJSON{Type: l.Type}
	if l.HasValue() {
		var (
			v   []byte
			err error
		)
		switch l.Type {
		case LiteralString, LiteralBigInt:
			v, err = json.Marshal(l.Text)
		case LiteralNumber:
			v, err = json.Marshal(l.Number)
		case LiteralBoolean:
			v, err = json.Marshal(l.Bool)
		}
		if err != nil {
			return nil, err
		}
		out.Value = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes {"type": ..., "value": ...}. A missing value for a
// value-carrying type decodes into a literal without value; consumers
// report it as malformed.
func (l *Literal) UnmarshalJSON(data []byte) error {
	var in literalJSON
	if err := json.Unmarshal(data, &in, json.RejectUnknownMembers(true)); err != nil {
		return err
	}
	if !in.Type.Known() {
		return fmt.Errorf("unknown literal type %q", in.Type)
	}
	*l = Literal{Type: in.Type}
	if in.Type == LiteralNull || in.Type == LiteralUndefined {
		return nil
	}
	if len(in.Value) == 0 || in.Value.Kind() == 'n' {
		l.absent = true
		return nil
	}
	switch in.Type {
	case LiteralString:
		return json.Unmarshal(in.Value, &l.Text)
	case LiteralNumber:
		return json.Unmarshal(in.Value, &l.Number)
	case LiteralBoolean:
		return json.Unmarshal(in.Value, &l.Bool)
	case LiteralBigInt:
		var text string
		if in.Value.Kind() == '0' {
			text = string(in.Value)
		} else if err := json.Unmarshal(in.Value, &text); err != nil {
			return err
		}
		bi, err := BigIntLiteral(text)
		if err != nil {
			return err
		}
		*l = bi
	}
	return nil
}
