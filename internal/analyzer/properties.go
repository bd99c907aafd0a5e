package analyzer

import (
	"fmt"

	"github.com/tsgonest/tsreflect/internal/diagnostic"
	"github.com/tsgonest/tsreflect/internal/jsnum"
	"github.com/tsgonest/tsreflect/internal/metadata"
	"github.com/tsgonest/tsreflect/reflection"
)

// ExtractProperties returns one descriptor per apparent member of t, in
// declaration order. Enumerations yield their members, each public and
// readonly. Types without structural members (keywords, literals, arrays
// and so on) yield an empty, non-nil slice.
func ExtractProperties(t *metadata.Metadata, scope Scope) ([]reflection.PropertyDescriptor, error) {
	ds, err := extract(t, scope)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		ds = []reflection.PropertyDescriptor{}
	}
	return ds, nil
}

func extract(t *metadata.Metadata, s Scope) ([]reflection.PropertyDescriptor, error) {
	s, err := s.descend(t)
	if err != nil {
		return nil, err
	}
	t, s, ok, err := s.resolve(t)
	if err != nil || !ok {
		return nil, err
	}

	if t.Symbol.IsEnum() {
		return enumMembers(t)
	}

	switch t.Kind {
	case metadata.KindObject:
		return members(t, s)
	case metadata.KindFunction, metadata.KindPromise:
		s.Diagnostics.Info(diagnostic.CategoryOpaqueType, s.Site, metadata.Describe(t),
			fmt.Sprintf("only the apparent members of the %s type are reflected", t.Kind))
		return members(t, s)
	case metadata.KindIntersection:
		return intersectionMembers(t, s)
	case metadata.KindUnion:
		return unionMembers(t, s)
	case metadata.KindKeyword, metadata.KindLiteral, metadata.KindTuple,
		metadata.KindArray, metadata.KindClass, metadata.KindNever, metadata.KindUnspecified:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrUnsupportedType, t.Kind)
	}
}

// enumMembers describes the members of an enumeration.
func enumMembers(t *metadata.Metadata) ([]reflection.PropertyDescriptor, error) {
	ds := make([]reflection.PropertyDescriptor, 0, len(t.Symbol.Members))
	for _, m := range t.Symbol.Members {
		if m.Name.Kind == metadata.NamePrivate {
			return nil, fmt.Errorf("%w: enum %s: private member name %s", ErrUnsupportedName, metadata.Describe(t), m.Name.Text)
		}
		name, err := declaredName(m.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("enum %s: %w", metadata.Describe(t), err)
		}
		ds = append(ds, reflection.PropertyDescriptor{Name: name, Flags: reflection.FlagPublic | reflection.FlagReadonly})
	}
	return ds, nil
}

// members describes the properties of an object-like type. Index
// signatures contribute nothing.
func members(t *metadata.Metadata, s Scope) ([]reflection.PropertyDescriptor, error) {
	ds := make([]reflection.PropertyDescriptor, 0, len(t.Properties))
	for _, p := range t.Properties {
		if p.Declaration != nil && p.Declaration.Name.Kind == metadata.NamePrivate {
			s.Diagnostics.WarnWithHint(diagnostic.CategoryUnsupportedName, s.Site, metadata.Describe(t),
				fmt.Sprintf("member %s has a private name and is skipped", p.Declaration.Name.Text),
				"use the private modifier to keep the member visible to reflection")
			continue
		}
		name, err := propertyName(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", metadata.Describe(t), err)
		}
		ds = append(ds, reflection.PropertyDescriptor{Name: name, Flags: propertyFlags(p.Declaration)})
	}
	return ds, nil
}

// intersectionMembers merges the members of each constituent by name. The
// first occurrence keeps its position.
func intersectionMembers(t *metadata.Metadata, s Scope) ([]reflection.PropertyDescriptor, error) {
	var merged []reflection.PropertyDescriptor
	index := make(map[reflection.PropertyName]int)
	for i := range t.Members {
		ds, err := extract(&t.Members[i], s)
		if err != nil {
			return nil, err
		}
		for _, d := range ds {
			if at, ok := index[d.Name]; ok {
				merged[at].Flags = mergeFlags(merged[at].Flags, d.Flags)
				continue
			}
			index[d.Name] = len(merged)
			merged = append(merged, d)
		}
	}
	return merged, nil
}

// unionMembers keeps the members present in every constituent, in the
// order of the first one. A constituent without members leaves nothing.
func unionMembers(t *metadata.Metadata, s Scope) ([]reflection.PropertyDescriptor, error) {
	var common []reflection.PropertyDescriptor
	for i := range t.Members {
		ds, err := extract(&t.Members[i], s)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			common = ds
			continue
		}
		flags := make(map[reflection.PropertyName]reflection.PropertyFlag, len(ds))
		for _, d := range ds {
			flags[d.Name] = d.Flags
		}
		kept := make([]reflection.PropertyDescriptor, 0, len(common))
		for _, d := range common {
			if f, ok := flags[d.Name]; ok {
				d.Flags = mergeFlags(d.Flags, f)
				kept = append(kept, d)
			}
		}
		common = kept
	}
	return common, nil
}

// mergeFlags combines the flags of one member seen in two constituents.
// Constituents that disagree leave the member public with no qualifiers.
func mergeFlags(a, b reflection.PropertyFlag) reflection.PropertyFlag {
	if a == b {
		return a
	}
	return reflection.FlagPublic
}

func propertyFlags(decl *metadata.MemberDeclaration) reflection.PropertyFlag {
	if decl == nil {
		return reflection.FlagPublic
	}
	var flags reflection.PropertyFlag
	switch decl.Visibility {
	case metadata.VisibilityPrivate:
		flags = reflection.FlagPrivate
	case metadata.VisibilityProtected:
		flags = reflection.FlagProtected
	default:
		flags = reflection.FlagPublic
	}
	if decl.Optional {
		flags |= reflection.FlagOptional
	}
	// A get accessor without a setter cannot be assigned.
	if decl.Readonly || decl.Kind == metadata.MemberGetter {
		flags |= reflection.FlagReadonly
	}
	return flags
}

// propertyName picks the descriptor name of p: the expression of a
// computed name, a number for canonical numeric keys, or the symbol name.
func propertyName(p metadata.Property) (reflection.PropertyName, error) {
	if p.Declaration != nil && p.Declaration.Name.Kind == metadata.NameComputed {
		return declaredName(p.Declaration.Name, p.NameType)
	}
	name := p.Name
	if name == "" && p.Declaration != nil {
		name = p.Declaration.Name.Text
	}
	if name == "" {
		return reflection.PropertyName{}, fmt.Errorf("%w: member without a name", ErrUnsupportedName)
	}
	if isNumberLiteral(p.NameType) {
		if f, ok := jsnum.CanonicalNumeric(name); ok {
			return reflection.NumberName(f), nil
		}
	}
	return reflection.StringName(name), nil
}

// declaredName converts a declared member name. Numeric names become
// numbers when written in canonical form ("6" but not "06").
func declaredName(n metadata.DeclarationName, nameType *metadata.Metadata) (reflection.PropertyName, error) {
	switch n.Kind {
	case metadata.NameComputed:
		if n.Expression == "" {
			return reflection.PropertyName{}, fmt.Errorf("%w: computed name without expression", ErrUnsupportedName)
		}
		return reflection.ExpressionName(n.Expression), nil
	case metadata.NameNumeric:
		if f, ok := jsnum.CanonicalNumeric(n.Text); ok {
			return reflection.NumberName(f), nil
		}
	case metadata.NamePrivate:
		return reflection.PropertyName{}, fmt.Errorf("%w: private name %s", ErrUnsupportedName, n.Text)
	}
	if n.Text == "" {
		return reflection.PropertyName{}, fmt.Errorf("%w: member without a name", ErrUnsupportedName)
	}
	if isNumberLiteral(nameType) {
		if f, ok := jsnum.CanonicalNumeric(n.Text); ok {
			return reflection.NumberName(f), nil
		}
	}
	return reflection.StringName(n.Text), nil
}

func isNumberLiteral(m *metadata.Metadata) bool {
	return m != nil && m.Kind == metadata.KindLiteral && m.Literal != nil && m.Literal.Type == metadata.LiteralNumber
}
