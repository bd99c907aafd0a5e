package metadata

import (
	"fmt"
	"strings"
)

// Validate checks that every node of m has exactly one active variant:
// a known Kind and no payload fields belonging to another Kind.
func (m *Metadata) Validate() error {
	return m.validate("$")
}

func (m *Metadata) validate(path string) error {
	if m == nil {
		return fmt.Errorf("%s: missing type", path)
	}

	allowed := map[string]bool{}
	switch m.Kind {
	case KindKeyword:
		allowed["keyword"] = true
		switch m.Keyword {
		case KeywordBoolean, KeywordNumber, KeywordString, KeywordSymbol, KeywordBigInt, KeywordObject, KeywordVoid:
		default:
			return fmt.Errorf("%s: unknown keyword %q", path, m.Keyword)
		}
	case KindLiteral:
		allowed["literal"] = true
		if m.Literal != nil && !m.Literal.Type.Known() {
			return fmt.Errorf("%s: unknown literal type %q", path, m.Literal.Type)
		}
	case KindUnion, KindIntersection:
		allowed["members"] = true
	case KindTuple:
		allowed["elements"] = true
	case KindArray:
		allowed["element"] = true
		if m.Element == nil {
			return fmt.Errorf("%s: array without element type", path)
		}
	case KindObject, KindFunction:
		allowed["properties"] = true
		allowed["numberIndex"] = true
		allowed["stringIndex"] = true
	case KindPromise:
		allowed["properties"] = true
	case KindClass:
		allowed["name"] = true
	case KindRef:
		allowed["ref"] = true
		if m.Ref == "" {
			return fmt.Errorf("%s: ref without name", path)
		}
	case KindNever, KindUnspecified:
	default:
		return fmt.Errorf("%s: unknown kind %q", path, m.Kind)
	}

	for _, field := range m.setFields() {
		if !allowed[field] {
			return fmt.Errorf("%s: field %q is not valid for kind %q", path, field, m.Kind)
		}
	}

	for i := range m.Members {
		if err := m.Members[i].validate(fmt.Sprintf("%s.members[%d]", path, i)); err != nil {
			return err
		}
	}
	for i := range m.Elements {
		if err := m.Elements[i].validate(fmt.Sprintf("%s.elements[%d]", path, i)); err != nil {
			return err
		}
	}
	if m.Element != nil {
		if err := m.Element.validate(path + ".element"); err != nil {
			return err
		}
	}
	for i, p := range m.Properties {
		ppath := fmt.Sprintf("%s.properties[%d]", path, i)
		if err := p.Declaration.validate(ppath + ".declaration"); err != nil {
			return err
		}
		if p.Type != nil {
			if err := p.Type.validate(ppath + ".type"); err != nil {
				return err
			}
		}
		if p.NameType != nil {
			if err := p.NameType.validate(ppath + ".nameType"); err != nil {
				return err
			}
		}
	}
	if m.Symbol != nil {
		for i, em := range m.Symbol.Members {
			if err := em.Name.validate(fmt.Sprintf("%s.symbol.members[%d].name", path, i)); err != nil {
				return err
			}
		}
	}
	if m.NumberIndex != nil {
		if err := m.NumberIndex.validate(path + ".numberIndex"); err != nil {
			return err
		}
	}
	if m.StringIndex != nil {
		if err := m.StringIndex.validate(path + ".stringIndex"); err != nil {
			return err
		}
	}
	return nil
}

func (d *MemberDeclaration) validate(path string) error {
	if d == nil {
		return nil
	}
	switch d.Kind {
	case MemberProperty, MemberMethod, MemberGetter, MemberSetter, MemberAccessor, MemberParameter:
	default:
		return fmt.Errorf("%s: unknown member kind %q", path, d.Kind)
	}
	switch d.Visibility {
	case VisibilityDefault, VisibilityPublic, VisibilityProtected, VisibilityPrivate:
	default:
		return fmt.Errorf("%s: unknown visibility %q", path, d.Visibility)
	}
	return d.Name.validate(path + ".name")
}

func (n DeclarationName) validate(path string) error {
	switch n.Kind {
	case NameIdentifier, NameString, NameNumeric, NamePrivate:
		if n.Expression != "" {
			return fmt.Errorf("%s: expression is only valid for computed names", path)
		}
	case NameComputed:
		if n.Text != "" {
			return fmt.Errorf("%s: computed name carries its expression, not text", path)
		}
	default:
		return fmt.Errorf("%s: unknown name kind %q", path, n.Kind)
	}
	return nil
}

// setFields lists the variant payload fields that are set on m.
func (m *Metadata) setFields() []string {
	var fields []string
	if m.Keyword != "" {
		fields = append(fields, "keyword")
	}
	if m.Literal != nil {
		fields = append(fields, "literal")
	}
	if len(m.Members) > 0 {
		fields = append(fields, "members")
	}
	if len(m.Elements) > 0 {
		fields = append(fields, "elements")
	}
	if m.Element != nil {
		fields = append(fields, "element")
	}
	if len(m.Properties) > 0 {
		fields = append(fields, "properties")
	}
	if m.NumberIndex != nil {
		fields = append(fields, "numberIndex")
	}
	if m.StringIndex != nil {
		fields = append(fields, "stringIndex")
	}
	if m.Name != "" {
		fields = append(fields, "name")
	}
	if m.Ref != "" {
		fields = append(fields, "ref")
	}
	return fields
}

// Describe renders m in a TypeScript-like notation for diagnostics.
func Describe(m *Metadata) string {
	if m == nil {
		return "<nil>"
	}
	if m.Symbol != nil && m.Symbol.Name != "" {
		return m.Symbol.Name
	}
	switch m.Kind {
	case KindKeyword:
		return string(m.Keyword)
	case KindLiteral:
		if m.Literal == nil {
			return "<literal without value>"
		}
		return m.Literal.String()
	case KindUnion:
		return joinDescribed(m.Members, " | ")
	case KindIntersection:
		return joinDescribed(m.Members, " & ")
	case KindTuple:
		return "[" + joinDescribed(m.Elements, ", ") + "]"
	case KindArray:
		return Describe(m.Element) + "[]"
	case KindObject, KindFunction, KindPromise:
		names := make([]string, len(m.Properties))
		for i, p := range m.Properties {
			names[i] = p.Name
		}
		prefix := ""
		if m.Kind != KindObject {
			prefix = string(m.Kind) + " "
		}
		if len(names) == 0 {
			return prefix + "{}"
		}
		return prefix + "{ " + strings.Join(names, "; ") + " }"
	case KindClass:
		return m.Name
	case KindNever:
		return "never"
	case KindUnspecified:
		return "unknown"
	case KindRef:
		return m.Ref
	default:
		return fmt.Sprintf("<%s>", m.Kind)
	}
}

func joinDescribed(ms []Metadata, sep string) string {
	parts := make([]string, len(ms))
	for i := range ms {
		parts[i] = Describe(&ms[i])
	}
	return strings.Join(parts, sep)
}
