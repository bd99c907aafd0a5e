// Package analyzer reflects resolved types: it classifies the members of a
// structural type into flagged property descriptors and enumerates the
// literal values of an algebraic type.
package analyzer

import (
	"fmt"
	"slices"

	"github.com/tsgonest/tsreflect/internal/diagnostic"
	"github.com/tsgonest/tsreflect/internal/metadata"
)

// DefaultMaxDepth is the maximum nesting depth of a walk when the scope
// does not set one. Recursive types are cut by the ref path; the depth
// limit bounds long non-cyclic chains.
const DefaultMaxDepth = 64

// Scope is the context threaded through every recursive call of the
// extractor and the enumerator. It is passed by value: entering a
// reference yields a new Scope, so sibling branches never observe each
// other's walk path.
type Scope struct {
	// Registry resolves KindRef nodes.
	Registry *metadata.TypeRegistry
	// Diagnostics receives non-fatal findings. May be nil.
	Diagnostics *diagnostic.Collector
	// Site identifies the reflection site in diagnostics.
	Site string
	// Dominance drops literals made redundant by a sibling keyword of the
	// same domain in a union ("a" | string enumerates to nothing).
	Dominance bool
	// MaxDepth bounds the walk. Zero means DefaultMaxDepth.
	MaxDepth int

	path  []string // refs on the current walk path
	depth int
}

// NewScope returns a scope with dominance enabled and the default depth.
func NewScope(registry *metadata.TypeRegistry, diags *diagnostic.Collector) Scope {
	return Scope{
		Registry:    registry,
		Diagnostics: diags,
		Dominance:   true,
		MaxDepth:    DefaultMaxDepth,
	}
}

// WithSite returns a copy of s reporting diagnostics for site.
func (s Scope) WithSite(site string) Scope {
	s.Site = site
	return s
}

func (s Scope) maxDepth() int {
	if s.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return s.MaxDepth
}

// descend returns the scope for a child of t.
func (s Scope) descend(t *metadata.Metadata) (Scope, error) {
	if t == nil {
		return s, fmt.Errorf("%w: missing type", ErrUnsupportedType)
	}
	s.depth++
	if s.depth > s.maxDepth() {
		return s, fmt.Errorf("%w: %s: nesting deeper than %d", ErrUnsupportedType, metadata.Describe(t), s.maxDepth())
	}
	return s, nil
}

// enter returns a copy of s with ref on the walk path.
func (s Scope) enter(ref string) Scope {
	s.path = append(slices.Clip(s.path), ref)
	return s
}

func (s Scope) onPath(ref string) bool {
	return slices.Contains(s.path, ref)
}

// resolve follows KindRef nodes until a concrete type is reached. It
// reports ok=false when a ref is already on the walk path: the caller
// treats the node as contributing nothing.
func (s Scope) resolve(t *metadata.Metadata) (_ *metadata.Metadata, _ Scope, ok bool, err error) {
	for t.Kind == metadata.KindRef {
		if s.onPath(t.Ref) {
			s.Diagnostics.Warn(diagnostic.CategoryRecursiveType, s.Site, t.Ref,
				fmt.Sprintf("recursive reference to %s contributes nothing", t.Ref))
			return nil, s, false, nil
		}
		resolved, found := s.Registry.Lookup(t.Ref)
		if !found || resolved == nil {
			return nil, s, false, fmt.Errorf("%w: unresolved reference %q", ErrUnsupportedType, t.Ref)
		}
		s = s.enter(t.Ref)
		if s, err = s.descend(resolved); err != nil {
			return nil, s, false, err
		}
		t = resolved
	}
	return t, s, true, nil
}
