package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsgonest/tsreflect/internal/jsnum"
	"github.com/tsgonest/tsreflect/internal/metadata"
	"github.com/tsgonest/tsreflect/reflection"
)

// jsLiteral renders l as a JavaScript expression.
func jsLiteral(l metadata.Literal) (string, error) {
	if !l.HasValue() {
		return "", fmt.Errorf("cannot emit %s", l)
	}
	switch l.Type {
	case metadata.LiteralString:
		return jsString(l.Text), nil
	case metadata.LiteralNumber:
		return jsNumber(l.Number), nil
	case metadata.LiteralBoolean:
		return strconv.FormatBool(l.Bool), nil
	case metadata.LiteralBigInt:
		return l.Text + "n", nil
	case metadata.LiteralNull:
		return "null", nil
	default:
		return "undefined", nil
	}
}

// jsPropertyName renders a descriptor name: a string literal, a number, or
// the expression itself (Symbol.iterator).
func jsPropertyName(n reflection.PropertyName) string {
	switch n.Kind() {
	case reflection.NameNumber:
		f, _ := n.Number()
		return jsNumber(f)
	case reflection.NameExpression:
		return n.Text()
	default:
		return jsString(n.Text())
	}
}

// jsNumber renders f the way Number.prototype.toString does. Negative
// values are valid array elements as they stand.
func jsNumber(f float64) string {
	return jsnum.String(f)
}

func jsString(s string) string {
	return "\"" + jsStringEscape(s) + "\""
}

// isJSIdentifier reports whether s can be written as a bare object key.
func isJSIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$') {
				return false
			}
		} else {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '$') {
				return false
			}
		}
	}
	return true
}

// jsObjectKey returns an object literal key for name. Site ids are never
// identifiers ("src/a.ts:1:1"), so they end up quoted. `__proto__` uses
// computed key syntax so the prototype setter is not triggered.
func jsObjectKey(name string) string {
	if name == "__proto__" {
		return `["__proto__"]`
	}
	if isJSIdentifier(name) {
		return name
	}
	return jsString(name)
}

// jsStringEscape escapes a string so it can be safely embedded inside a
// JavaScript double-quoted string literal. It handles backslashes, quotes,
// control characters (< 0x20), and Unicode line/paragraph separators.
func jsStringEscape(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '"':
			buf.WriteString(`\"`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\u2028':
			buf.WriteString(`\u2028`)
		case '\u2029':
			buf.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&buf, `\x%02x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	return buf.String()
}
