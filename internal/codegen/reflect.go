package codegen

import (
	"strconv"
	"strings"

	"github.com/tsgonest/tsreflect/internal/metadata"
	"github.com/tsgonest/tsreflect/reflection"
)

// DefaultRuntimeIdentifier is the local name the run-time filter factory is
// bound to in generated modules.
const DefaultRuntimeIdentifier = "__tsreflectPropertiesOf"

// EmitProperties renders descriptors as a JavaScript array literal:
//
//	[{ name: "a", flags: 1 }, { name: 6, flags: 17 }]
func EmitProperties(ds []reflection.PropertyDescriptor) string {
	if len(ds) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, d := range ds {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("{ name: ")
		sb.WriteString(jsPropertyName(d.Name))
		sb.WriteString(", flags: ")
		sb.WriteString(strconv.Itoa(int(d.Flags)))
		sb.WriteString(" }")
	}
	sb.WriteByte(']')
	return sb.String()
}

// EmitPropertiesOfCall renders the expression that replaces a
// propertiesOf<T>() call site: the filter factory seeded with the
// descriptors of T.
func EmitPropertiesOfCall(identifier string, ds []reflection.PropertyDescriptor) string {
	if identifier == "" {
		identifier = DefaultRuntimeIdentifier
	}
	return identifier + "(" + EmitProperties(ds) + ")"
}

// EmitValues renders literal values as a JavaScript array literal:
//
//	[1, "x", true, null, undefined, 10n]
func EmitValues(values []metadata.Literal) (string, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		s, err := jsLiteral(v)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}
