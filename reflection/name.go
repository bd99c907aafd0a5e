package reflection

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/tsgonest/tsreflect/internal/jsnum"
)

// NameKind classifies a PropertyName.
type NameKind uint8

const (
	// NameString is a plain string key.
	NameString NameKind = iota
	// NameNumber is a numeric key such as the 6 in { 6: "six" }.
	NameNumber
	// NameExpression is a computed key carried as its source expression,
	// e.g. Symbol.toStringTag. Its run-time value is only known to the
	// program that evaluates the emitted code.
	NameExpression
)

func (k NameKind) String() string {
	switch k {
	case NameString:
		return "string"
	case NameNumber:
		return "number"
	case NameExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// PropertyName is the name of one structural member. It is a comparable
// value: two names are equal when they have the same kind and payload.
type PropertyName struct {
	kind   NameKind
	text   string
	number float64
}

// StringName returns a string property name.
func StringName(s string) PropertyName {
	return PropertyName{kind: NameString, text: s}
}

// NumberName returns a numeric property name.
func NumberName(n float64) PropertyName {
	return PropertyName{kind: NameNumber, number: n}
}

// ExpressionName returns a computed property name carrying its source
// expression.
func ExpressionName(expr string) PropertyName {
	return PropertyName{kind: NameExpression, text: expr}
}

// Kind returns the name's kind.
func (n PropertyName) Kind() NameKind {
	return n.kind
}

// Text returns the string key, the expression source, or the canonical
// JavaScript string form of a numeric key.
func (n PropertyName) Text() string {
	if n.kind == NameNumber {
		return jsnum.String(n.number)
	}
	return n.text
}

// Number returns the numeric key and true for NameNumber names.
func (n PropertyName) Number() (float64, bool) {
	return n.number, n.kind == NameNumber
}

func (n PropertyName) String() string {
	switch n.kind {
	case NameNumber:
		return jsnum.String(n.number)
	case NameExpression:
		return "[" + n.text + "]"
	default:
		return fmt.Sprintf("%q", n.text)
	}
}

type expressionJSON struct {
	Expression string `json:"expression"`
}

// MarshalJSON encodes string names as JSON strings, numeric names as JSON
// numbers and computed names as {"expression": "..."}.
func (n PropertyName) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case NameNumber:
		return json.Marshal(n.number)
	case NameExpression:
		return json.Marshal(expressionJSON{Expression: n.text})
	default:
		return json.Marshal(n.text)
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *PropertyName) UnmarshalJSON(data []byte) error {
	switch jsontext.Value(data).Kind() {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = StringName(s)
	case '0':
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*n = NumberName(f)
	case '{':
		var e expressionJSON
		if err := json.Unmarshal(data, &e, json.RejectUnknownMembers(true)); err != nil {
			return err
		}
		if e.Expression == "" {
			return fmt.Errorf("property name expression must not be empty")
		}
		*n = ExpressionName(e.Expression)
	default:
		return fmt.Errorf("property name must be a string, number or {\"expression\": ...}, got %s", data)
	}
	return nil
}
