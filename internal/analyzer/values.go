package analyzer

import (
	"fmt"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/tsgonest/tsreflect/internal/metadata"
)

// EnumerateValues returns the finite set of literal values t can hold,
// depth-first and left to right, without duplicates. The first occurrence
// of a value keeps its position. Unbounded types contribute nothing, so
// number enumerates to an empty slice while boolean enumerates to
// [true, false].
func EnumerateValues(t *metadata.Metadata, scope Scope) ([]metadata.Literal, error) {
	set := linkedhashset.New()
	if err := enumerate(t, scope, set); err != nil {
		return nil, err
	}
	return literals(set), nil
}

func literals(set *linkedhashset.Set) []metadata.Literal {
	out := make([]metadata.Literal, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(metadata.Literal))
	}
	return out
}

func enumerate(t *metadata.Metadata, s Scope, into *linkedhashset.Set) error {
	s, err := s.descend(t)
	if err != nil {
		return err
	}
	t, s, ok, err := s.resolve(t)
	if err != nil || !ok {
		return err
	}

	switch t.Kind {
	case metadata.KindLiteral:
		if t.Literal == nil || !t.Literal.HasValue() {
			return fmt.Errorf("%w: %s", ErrMalformedLiteral, metadata.Describe(t))
		}
		into.Add(*t.Literal)
	case metadata.KindKeyword:
		switch t.Keyword {
		case metadata.KeywordBoolean:
			into.Add(metadata.BoolLiteral(true), metadata.BoolLiteral(false))
		case metadata.KeywordVoid:
			into.Add(metadata.Undefined())
		}
	case metadata.KindUnion:
		return enumerateUnion(t, s, into)
	case metadata.KindUnspecified, metadata.KindObject, metadata.KindFunction, metadata.KindArray,
		metadata.KindTuple, metadata.KindIntersection, metadata.KindPromise, metadata.KindClass,
		metadata.KindNever:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrUnsupportedType, t.Kind)
	}
	return nil
}

func enumerateUnion(t *metadata.Metadata, s Scope, into *linkedhashset.Set) error {
	var dominated map[metadata.LiteralType]bool
	if s.Dominance {
		dominated = s.dominatedDomains(t.Members)
	}
	for i := range t.Members {
		if len(dominated) == 0 {
			if err := enumerate(&t.Members[i], s, into); err != nil {
				return err
			}
			continue
		}
		member := linkedhashset.New()
		if err := enumerate(&t.Members[i], s, member); err != nil {
			return err
		}
		for _, v := range member.Values() {
			if !dominated[v.(metadata.Literal).Type] {
				into.Add(v)
			}
		}
	}
	return nil
}

// dominatedDomains lists the literal domains swallowed by an unbounded
// keyword anywhere in the flattened union: nested unions and refs are
// looked through, as the checker flattens ("x" | string) | "y" to string.
func (s Scope) dominatedDomains(members []metadata.Metadata) map[metadata.LiteralType]bool {
	var out map[metadata.LiteralType]bool
	seen := make(map[string]bool)
	var visit func(m *metadata.Metadata)
	visit = func(m *metadata.Metadata) {
		for m.Kind == metadata.KindRef {
			if seen[m.Ref] || s.onPath(m.Ref) {
				return
			}
			seen[m.Ref] = true
			resolved, ok := s.Registry.Lookup(m.Ref)
			if !ok || resolved == nil {
				return
			}
			m = resolved
		}
		if m.Kind == metadata.KindUnion {
			for i := range m.Members {
				visit(&m.Members[i])
			}
			return
		}
		if m.Kind != metadata.KindKeyword {
			return
		}
		var domain metadata.LiteralType
		switch m.Keyword {
		case metadata.KeywordString:
			domain = metadata.LiteralString
		case metadata.KeywordNumber:
			domain = metadata.LiteralNumber
		case metadata.KeywordBigInt:
			domain = metadata.LiteralBigInt
		default:
			return
		}
		if out == nil {
			out = make(map[metadata.LiteralType]bool)
		}
		out[domain] = true
	}
	for i := range members {
		visit(&members[i])
	}
	return out
}
