package analyzer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tsgonest/tsreflect/internal/diagnostic"
	"github.com/tsgonest/tsreflect/internal/metadata"
	"github.com/tsgonest/tsreflect/reflection"
)

func prop(name string, decl *metadata.MemberDeclaration) metadata.Property {
	return metadata.Property{Name: name, Declaration: decl, Type: &metadata.Metadata{Kind: metadata.KindKeyword, Keyword: metadata.KeywordString}}
}

func decl(kind metadata.MemberKind, name string) *metadata.MemberDeclaration {
	return &metadata.MemberDeclaration{Kind: kind, Name: metadata.DeclarationName{Kind: metadata.NameIdentifier, Text: name}}
}

func numberLit(f float64) *metadata.Metadata {
	l := metadata.NumberLiteral(f)
	return &metadata.Metadata{Kind: metadata.KindLiteral, Literal: &l}
}

func newTestScope() (Scope, *diagnostic.Collector) {
	diags := diagnostic.NewCollector(false, false)
	return NewScope(metadata.NewTypeRegistry(), diags).WithSite("test.ts:1:1"), diags
}

func TestExtractProperties_ClassMembers(t *testing.T) {
	// class C { a: string; private b?: string; protected readonly c: string; get d() {} }
	b := decl(metadata.MemberProperty, "b")
	b.Visibility = metadata.VisibilityPrivate
	b.Optional = true
	c := decl(metadata.MemberProperty, "c")
	c.Visibility = metadata.VisibilityProtected
	c.Readonly = true

	typ := &metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{
		prop("a", decl(metadata.MemberProperty, "a")),
		prop("b", b),
		prop("c", c),
		prop("d", decl(metadata.MemberGetter, "d")),
		prop("e", decl(metadata.MemberAccessor, "e")),
		prop("f", nil),
	}}
	scope, _ := newTestScope()

	got, err := ExtractProperties(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []reflection.PropertyDescriptor{
		{Name: reflection.StringName("a"), Flags: reflection.FlagPublic},
		{Name: reflection.StringName("b"), Flags: reflection.FlagPrivate | reflection.FlagOptional},
		{Name: reflection.StringName("c"), Flags: reflection.FlagProtected | reflection.FlagReadonly},
		{Name: reflection.StringName("d"), Flags: reflection.FlagPublic | reflection.FlagReadonly},
		{Name: reflection.StringName("e"), Flags: reflection.FlagPublic},
		{Name: reflection.StringName("f"), Flags: reflection.FlagPublic},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	for _, d := range got {
		if !d.Flags.Valid() {
			t.Errorf("descriptor %v does not carry exactly one access flag", d)
		}
	}
}

func TestExtractProperties_Enum(t *testing.T) {
	// enum E { A, B }
	a, b := metadata.NumberLiteral(0), metadata.NumberLiteral(1)
	typ := &metadata.Metadata{
		Kind: metadata.KindUnion,
		Members: []metadata.Metadata{
			{Kind: metadata.KindLiteral, Literal: &a},
			{Kind: metadata.KindLiteral, Literal: &b},
		},
		Symbol: &metadata.Declaration{Kind: metadata.DeclarationEnum, Name: "E", Members: []metadata.EnumMember{
			{Name: metadata.DeclarationName{Kind: metadata.NameIdentifier, Text: "A"}, Value: &a},
			{Name: metadata.DeclarationName{Kind: metadata.NameIdentifier, Text: "B"}, Value: &b},
		}},
	}
	scope, _ := newTestScope()

	got, err := ExtractProperties(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []reflection.PropertyDescriptor{
		{Name: reflection.StringName("A"), Flags: reflection.FlagPublic | reflection.FlagReadonly},
		{Name: reflection.StringName("B"), Flags: reflection.FlagPublic | reflection.FlagReadonly},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractProperties_EnumPrivateNameIsFatal(t *testing.T) {
	typ := &metadata.Metadata{
		Kind: metadata.KindNever,
		Symbol: &metadata.Declaration{Kind: metadata.DeclarationEnum, Name: "E", Members: []metadata.EnumMember{
			{Name: metadata.DeclarationName{Kind: metadata.NamePrivate, Text: "#A"}},
		}},
	}
	scope, _ := newTestScope()

	_, err := ExtractProperties(typ, scope)
	if !errors.Is(err, ErrUnsupportedName) {
		t.Errorf("expected ErrUnsupportedName, got %v", err)
	}
}

func TestExtractProperties_PrivateNameSkipped(t *testing.T) {
	typ := &metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{
		prop("a", decl(metadata.MemberProperty, "a")),
		prop("#secret", &metadata.MemberDeclaration{Kind: metadata.MemberProperty, Name: metadata.DeclarationName{Kind: metadata.NamePrivate, Text: "#secret"}}),
	}}
	scope, diags := newTestScope()

	got, err := ExtractProperties(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != reflection.StringName("a") {
		t.Errorf("expected only a, got %v", got)
	}
	if diags.WarningCount() != 1 {
		t.Fatalf("expected 1 warning, got %d", diags.WarningCount())
	}
	if d := diags.Diagnostics()[0]; d.Category != diagnostic.CategoryUnsupportedName || d.Site != "test.ts:1:1" {
		t.Errorf("unexpected diagnostic %v", d)
	}
}

func TestExtractProperties_Names(t *testing.T) {
	tests := []struct {
		name string
		p    metadata.Property
		want reflection.PropertyName
	}{
		{"numeric key", metadata.Property{Name: "6", NameType: numberLit(6)}, reflection.NumberName(6)},
		{"exponent key", metadata.Property{Name: "1e-7", NameType: numberLit(1e-7)}, reflection.NumberName(1e-7)},
		{"non-canonical numeric key", metadata.Property{Name: "06", NameType: numberLit(6)}, reflection.StringName("06")},
		{"numeric text without number name type", metadata.Property{Name: "6"}, reflection.StringName("6")},
		{"computed", metadata.Property{
			Name:        "__@toStringTag@12",
			Declaration: &metadata.MemberDeclaration{Kind: metadata.MemberProperty, Name: metadata.DeclarationName{Kind: metadata.NameComputed, Expression: "Symbol.toStringTag"}},
		}, reflection.ExpressionName("Symbol.toStringTag")},
		{"declaration name fallback", metadata.Property{Declaration: decl(metadata.MemberMethod, "run")}, reflection.StringName("run")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, _ := newTestScope()
			got, err := ExtractProperties(&metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{tt.p}}, scope)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 || got[0].Name != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExtractProperties_NamelessMember(t *testing.T) {
	scope, _ := newTestScope()
	_, err := ExtractProperties(&metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{{}}}, scope)
	if !errors.Is(err, ErrUnsupportedName) {
		t.Errorf("expected ErrUnsupportedName, got %v", err)
	}
}

func TestExtractProperties_NoStructuralMembers(t *testing.T) {
	str := metadata.StringLiteral("x")
	cases := []metadata.Metadata{
		{Kind: metadata.KindKeyword, Keyword: metadata.KeywordNumber},
		{Kind: metadata.KindLiteral, Literal: &str},
		{Kind: metadata.KindUnion},
		{Kind: metadata.KindTuple},
		{Kind: metadata.KindArray, Element: &metadata.Metadata{Kind: metadata.KindNever}},
		{Kind: metadata.KindClass, Name: "Date"},
		{Kind: metadata.KindNever},
		{Kind: metadata.KindUnspecified},
		{Kind: metadata.KindObject, StringIndex: &metadata.Metadata{Kind: metadata.KindUnspecified}},
	}
	for _, c := range cases {
		t.Run(string(c.Kind), func(t *testing.T) {
			scope, _ := newTestScope()
			got, err := ExtractProperties(&c, scope)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", got)
			}
		})
	}
}

func TestExtractProperties_UnknownKind(t *testing.T) {
	scope, _ := newTestScope()
	_, err := ExtractProperties(&metadata.Metadata{Kind: "mapped"}, scope)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractProperties_Intersection(t *testing.T) {
	// { a: string; b: string } & { readonly b: string; c?: string }
	rb := decl(metadata.MemberProperty, "b")
	rb.Readonly = true
	oc := decl(metadata.MemberProperty, "c")
	oc.Optional = true
	typ := &metadata.Metadata{Kind: metadata.KindIntersection, Members: []metadata.Metadata{
		{Kind: metadata.KindObject, Properties: []metadata.Property{prop("a", nil), prop("b", nil)}},
		{Kind: metadata.KindKeyword, Keyword: metadata.KeywordString},
		{Kind: metadata.KindObject, Properties: []metadata.Property{prop("b", rb), prop("c", oc)}},
	}}
	scope, _ := newTestScope()

	got, err := ExtractProperties(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []reflection.PropertyDescriptor{
		{Name: reflection.StringName("a"), Flags: reflection.FlagPublic},
		{Name: reflection.StringName("b"), Flags: reflection.FlagPublic},
		{Name: reflection.StringName("c"), Flags: reflection.FlagPublic | reflection.FlagOptional},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractProperties_IntersectionSharedFlags(t *testing.T) {
	// { readonly id?: string } & { readonly id?: string; x: string }
	id := decl(metadata.MemberProperty, "id")
	id.Readonly = true
	id.Optional = true
	typ := &metadata.Metadata{Kind: metadata.KindIntersection, Members: []metadata.Metadata{
		{Kind: metadata.KindObject, Properties: []metadata.Property{prop("id", id)}},
		{Kind: metadata.KindObject, Properties: []metadata.Property{prop("id", id), prop("x", nil)}},
	}}
	scope, _ := newTestScope()

	got, err := ExtractProperties(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []reflection.PropertyDescriptor{
		{Name: reflection.StringName("id"), Flags: reflection.FlagPublic | reflection.FlagOptional | reflection.FlagReadonly},
		{Name: reflection.StringName("x"), Flags: reflection.FlagPublic},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractProperties_Union(t *testing.T) {
	// interface A { readonly name: string; displayName: string }
	// interface B { readonly name: string; hobbies: string[] }
	// interface C { age: number }
	name := decl(metadata.MemberProperty, "name")
	name.Readonly = true
	a := metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{
		prop("name", name), prop("displayName", decl(metadata.MemberProperty, "displayName")),
	}}
	b := metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{
		prop("hobbies", decl(metadata.MemberProperty, "hobbies")), prop("name", name),
	}}
	c := metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{
		prop("age", decl(metadata.MemberProperty, "age")),
	}}
	mutableName := metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{
		prop("name", decl(metadata.MemberProperty, "name")),
	}}
	tests := []struct {
		name string
		typ  *metadata.Metadata
		want []reflection.PropertyDescriptor
	}{
		{"A | B", union(a, b), []reflection.PropertyDescriptor{
			{Name: reflection.StringName("name"), Flags: reflection.FlagPublic | reflection.FlagReadonly},
		}},
		{"A | C", union(a, c), []reflection.PropertyDescriptor{}},
		{"A | B | C", union(a, b, c), []reflection.PropertyDescriptor{}},
		{"single constituent", union(a), []reflection.PropertyDescriptor{
			{Name: reflection.StringName("name"), Flags: reflection.FlagPublic | reflection.FlagReadonly},
			{Name: reflection.StringName("displayName"), Flags: reflection.FlagPublic},
		}},
		{"disagreeing flags", union(a, mutableName), []reflection.PropertyDescriptor{
			{Name: reflection.StringName("name"), Flags: reflection.FlagPublic},
		}},
		{"with a keyword", union(a, keyword(metadata.KeywordString)), []reflection.PropertyDescriptor{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, _ := newTestScope()
			got, err := ExtractProperties(tt.typ, scope)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExtractProperties_UnionThroughRefs(t *testing.T) {
	registry := metadata.NewTypeRegistry()
	registry.Register("A", &metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{prop("id", nil), prop("a", nil)}})
	registry.Register("B", &metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{prop("b", nil), prop("id", nil)}})
	typ := &metadata.Metadata{Kind: metadata.KindUnion, Members: []metadata.Metadata{
		{Kind: metadata.KindRef, Ref: "A"},
		{Kind: metadata.KindRef, Ref: "B"},
	}}
	scope := NewScope(registry, nil)

	got, err := ExtractProperties(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []reflection.PropertyDescriptor{{Name: reflection.StringName("id"), Flags: reflection.FlagPublic}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractProperties_PromiseAndFunctionNoteInfo(t *testing.T) {
	scope, diags := newTestScope()
	typ := &metadata.Metadata{Kind: metadata.KindPromise, Properties: []metadata.Property{prop("then", decl(metadata.MemberMethod, "then"))}}

	got, err := ExtractProperties(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 descriptor, got %v", got)
	}
	if diags.InfoCount() != 1 {
		t.Errorf("expected 1 info diagnostic, got %d", diags.InfoCount())
	}
}

func TestExtractProperties_Ref(t *testing.T) {
	// interface Node { value: string; next?: Node }
	scope, diags := newTestScope()
	next := decl(metadata.MemberProperty, "next")
	next.Optional = true
	scope.Registry.Register("Node", &metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{
		prop("value", nil),
		{Name: "next", Declaration: next, Type: &metadata.Metadata{Kind: metadata.KindRef, Ref: "Node"}},
	}})

	got, err := ExtractProperties(&metadata.Metadata{Kind: metadata.KindRef, Ref: "Node"}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].Flags != reflection.FlagPublic|reflection.FlagOptional {
		t.Errorf("unexpected descriptors %v", got)
	}
	// Member types are not walked by the extractor.
	if diags.WarningCount() != 0 {
		t.Errorf("expected no warnings, got %s", diags.FormatAll())
	}
}

func TestExtractProperties_RecursiveIntersection(t *testing.T) {
	// type T = { a: string } & T
	scope, diags := newTestScope()
	scope.Registry.Register("T", &metadata.Metadata{Kind: metadata.KindIntersection, Members: []metadata.Metadata{
		{Kind: metadata.KindObject, Properties: []metadata.Property{prop("a", nil)}},
		{Kind: metadata.KindRef, Ref: "T"},
	}})

	got, err := ExtractProperties(&metadata.Metadata{Kind: metadata.KindRef, Ref: "T"}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != reflection.StringName("a") {
		t.Errorf("expected [a], got %v", got)
	}
	if diags.WarningCount() != 1 || diags.Diagnostics()[0].Category != diagnostic.CategoryRecursiveType {
		t.Errorf("expected one recursive-type warning, got %s", diags.FormatAll())
	}
}

func TestExtractProperties_UnresolvedRef(t *testing.T) {
	scope, _ := newTestScope()
	_, err := ExtractProperties(&metadata.Metadata{Kind: metadata.KindRef, Ref: "Missing"}, scope)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractProperties_Idempotent(t *testing.T) {
	typ := &metadata.Metadata{Kind: metadata.KindObject, Properties: []metadata.Property{
		prop("a", nil), prop("6", nil),
	}}
	scope, _ := newTestScope()
	first, err := ExtractProperties(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ExtractProperties(typ, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %v and %v", first, second)
	}
}
