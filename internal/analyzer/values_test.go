package analyzer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tsgonest/tsreflect/internal/diagnostic"
	"github.com/tsgonest/tsreflect/internal/metadata"
)

func litNode(l metadata.Literal) metadata.Metadata {
	return metadata.Metadata{Kind: metadata.KindLiteral, Literal: &l}
}

func keyword(k metadata.Keyword) metadata.Metadata {
	return metadata.Metadata{Kind: metadata.KindKeyword, Keyword: k}
}

func union(members ...metadata.Metadata) *metadata.Metadata {
	return &metadata.Metadata{Kind: metadata.KindUnion, Members: members}
}

func TestEnumerateValues(t *testing.T) {
	ten, _ := metadata.BigIntLiteral("10")
	tests := []struct {
		name string
		typ  *metadata.Metadata
		want []metadata.Literal
	}{
		{
			name: "single literal",
			typ:  &metadata.Metadata{Kind: metadata.KindLiteral, Literal: &ten},
			want: []metadata.Literal{ten},
		},
		{
			name: "boolean keyword",
			typ:  &metadata.Metadata{Kind: metadata.KindKeyword, Keyword: metadata.KeywordBoolean},
			want: []metadata.Literal{metadata.BoolLiteral(true), metadata.BoolLiteral(false)},
		},
		{
			name: "number keyword",
			typ:  &metadata.Metadata{Kind: metadata.KindKeyword, Keyword: metadata.KeywordNumber},
			want: []metadata.Literal{},
		},
		{
			name: "void keyword",
			typ:  &metadata.Metadata{Kind: metadata.KindKeyword, Keyword: metadata.KeywordVoid},
			want: []metadata.Literal{metadata.Undefined()},
		},
		{
			name: "duplicate members",
			typ:  union(litNode(metadata.NumberLiteral(1)), litNode(metadata.NumberLiteral(1)), litNode(metadata.NumberLiteral(2))),
			want: []metadata.Literal{metadata.NumberLiteral(1), metadata.NumberLiteral(2)},
		},
		{
			name: "keyword dominates sibling literals",
			typ: union(
				litNode(metadata.NumberLiteral(1)), litNode(metadata.NumberLiteral(2)),
				litNode(metadata.StringLiteral("x")), litNode(metadata.StringLiteral("y")),
				keyword(metadata.KeywordString),
			),
			want: []metadata.Literal{metadata.NumberLiteral(1), metadata.NumberLiteral(2)},
		},
		{
			name: "nested keyword dominates outer siblings",
			typ: union(
				*union(litNode(metadata.StringLiteral("x")), keyword(metadata.KeywordString)),
				litNode(metadata.StringLiteral("y")),
				litNode(metadata.NumberLiteral(1)),
			),
			want: []metadata.Literal{metadata.NumberLiteral(1)},
		},
		{
			name: "nullable boolean",
			typ:  union(keyword(metadata.KeywordBoolean), litNode(metadata.Null()), litNode(metadata.Undefined()), litNode(metadata.BoolLiteral(true))),
			want: []metadata.Literal{metadata.BoolLiteral(true), metadata.BoolLiteral(false), metadata.Null(), metadata.Undefined()},
		},
		{
			name: "nested unions flatten in order",
			typ: union(
				*union(litNode(metadata.StringLiteral("a")), litNode(metadata.StringLiteral("b"))),
				litNode(metadata.StringLiteral("a")),
				litNode(metadata.StringLiteral("c")),
			),
			want: []metadata.Literal{metadata.StringLiteral("a"), metadata.StringLiteral("b"), metadata.StringLiteral("c")},
		},
		{
			name: "structural types contribute nothing",
			typ: union(
				metadata.Metadata{Kind: metadata.KindObject},
				metadata.Metadata{Kind: metadata.KindArray, Element: &metadata.Metadata{Kind: metadata.KindNever}},
				metadata.Metadata{Kind: metadata.KindClass, Name: "Date"},
				metadata.Metadata{Kind: metadata.KindUnspecified},
				litNode(metadata.NumberLiteral(3)),
			),
			want: []metadata.Literal{metadata.NumberLiteral(3)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, _ := newTestScope()
			got, err := EnumerateValues(tt.typ, scope)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEnumerateValues_DominanceDisabled(t *testing.T) {
	scope, _ := newTestScope()
	scope.Dominance = false
	typ := union(litNode(metadata.StringLiteral("x")), keyword(metadata.KeywordString), litNode(metadata.NumberLiteral(1)))

	got, err := EnumerateValues(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []metadata.Literal{metadata.StringLiteral("x"), metadata.NumberLiteral(1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEnumerateValues_DominanceThroughRefs(t *testing.T) {
	// type S = string; type N = "n" | number
	scope, _ := newTestScope()
	scope.Registry.Register("S", &metadata.Metadata{Kind: metadata.KindKeyword, Keyword: metadata.KeywordString})
	scope.Registry.Register("N", union(litNode(metadata.StringLiteral("n")), keyword(metadata.KeywordNumber)))
	ref := func(name string) metadata.Metadata { return metadata.Metadata{Kind: metadata.KindRef, Ref: name} }

	tests := []struct {
		name string
		typ  *metadata.Metadata
		want []metadata.Literal
	}{
		{"S | \"x\"", union(ref("S"), litNode(metadata.StringLiteral("x"))), []metadata.Literal{}},
		{"N | 1 | \"y\"", union(ref("N"), litNode(metadata.NumberLiteral(1)), litNode(metadata.StringLiteral("y"))),
			[]metadata.Literal{metadata.StringLiteral("n"), metadata.StringLiteral("y")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EnumerateValues(tt.typ, scope)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEnumerateValues_NegativeZeroDeduplicates(t *testing.T) {
	scope, _ := newTestScope()
	negZero := metadata.NumberLiteral(0)
	negZero.Number = -negZero.Number
	got, err := EnumerateValues(union(litNode(metadata.NumberLiteral(0)), litNode(negZero)), scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected a single zero, got %v", got)
	}
}

func TestEnumerateValues_Idempotent(t *testing.T) {
	typ := union(litNode(metadata.NumberLiteral(2)), litNode(metadata.StringLiteral("a")), keyword(metadata.KeywordBoolean))
	scope, _ := newTestScope()
	first, err := EnumerateValues(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := EnumerateValues(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %v and %v", first, second)
	}
}

func TestEnumerateValues_MalformedLiteral(t *testing.T) {
	scope, _ := newTestScope()
	_, err := EnumerateValues(union(litNode(metadata.NumberLiteral(1)), metadata.Metadata{Kind: metadata.KindLiteral}), scope)
	if !errors.Is(err, ErrMalformedLiteral) {
		t.Errorf("expected ErrMalformedLiteral, got %v", err)
	}
}

func TestEnumerateValues_UnknownKind(t *testing.T) {
	scope, _ := newTestScope()
	_, err := EnumerateValues(union(metadata.Metadata{Kind: "conditional"}), scope)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestEnumerateValues_RecursiveRef(t *testing.T) {
	// type Json = "a" | 1 | Json
	scope, diags := newTestScope()
	scope.Registry.Register("Json", union(
		litNode(metadata.StringLiteral("a")),
		litNode(metadata.NumberLiteral(1)),
		metadata.Metadata{Kind: metadata.KindRef, Ref: "Json"},
	))

	got, err := EnumerateValues(&metadata.Metadata{Kind: metadata.KindRef, Ref: "Json"}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []metadata.Literal{metadata.StringLiteral("a"), metadata.NumberLiteral(1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	diagsList := diags.Diagnostics()
	if len(diagsList) != 1 || diagsList[0].Category != diagnostic.CategoryRecursiveType {
		t.Errorf("expected one recursive-type warning, got %v", diagsList)
	}
}

func TestEnumerateValues_SiblingRefsAreNotRecursive(t *testing.T) {
	// type Pair = Bit | Bit, where the second Bit is not on the path of the first.
	scope, diags := newTestScope()
	scope.Registry.Register("Bit", union(litNode(metadata.NumberLiteral(0)), litNode(metadata.NumberLiteral(1))))
	ref := metadata.Metadata{Kind: metadata.KindRef, Ref: "Bit"}

	got, err := EnumerateValues(union(ref, ref), scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected [0 1], got %v", got)
	}
	if diags.WarningCount() != 0 {
		t.Errorf("expected no warnings, got %s", diags.FormatAll())
	}
}

func TestEnumerateValues_MaxDepth(t *testing.T) {
	// A chain of 10 distinct refs exceeds a depth of 5.
	scope, _ := newTestScope()
	scope.MaxDepth = 5
	names := []string{"T0", "T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8", "T9"}
	for i, name := range names {
		if i == len(names)-1 {
			scope.Registry.Register(name, union(litNode(metadata.NumberLiteral(1))))
			continue
		}
		scope.Registry.Register(name, union(metadata.Metadata{Kind: metadata.KindRef, Ref: names[i+1]}))
	}

	_, err := EnumerateValues(&metadata.Metadata{Kind: metadata.KindRef, Ref: "T0"}, scope)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}

	scope.MaxDepth = 0 // default
	got, err := EnumerateValues(&metadata.Metadata{Kind: metadata.KindRef, Ref: "T0"}, scope)
	if err != nil {
		t.Fatalf("unexpected error with default depth: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected [1], got %v", got)
	}
}

func TestScope_EnterDoesNotLeak(t *testing.T) {
	s := Scope{}
	a := s.enter("A")
	b := a.enter("B")
	c := a.enter("C")

	if s.onPath("A") {
		t.Error("parent scope must not observe child path")
	}
	if !b.onPath("A") || !b.onPath("B") || b.onPath("C") {
		t.Errorf("unexpected path for b: %v", b.path)
	}
	if !c.onPath("C") || c.onPath("B") {
		t.Errorf("unexpected path for c: %v", c.path)
	}
}
