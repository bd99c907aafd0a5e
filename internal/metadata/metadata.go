// Package metadata defines the type description model consumed by the
// reflection engine. A Metadata value is a resolved TypeScript type as
// handed over by the type-resolution layer: a tagged variant over a closed
// set of shapes (keywords, literals, unions, intersections, tuples, arrays,
// objects, functions and a few opaque kinds).
package metadata

// Metadata represents one node of a resolved type. Kind selects the
// variant; only the fields documented for that Kind may be set.
type Metadata struct {
	// Kind identifies the variant.
	Kind Kind `json:"kind"`

	// Keyword names the primitive for KindKeyword.
	Keyword Keyword `json:"keyword,omitempty"`

	// Literal holds the value for KindLiteral.
	Literal *Literal `json:"literal,omitempty"`

	// Members holds the constituents of KindUnion and KindIntersection.
	Members []Metadata `json:"members,omitempty"`

	// Elements holds the element types of KindTuple.
	Elements []Metadata `json:"elements,omitempty"`

	// Element holds the element type of KindArray.
	Element *Metadata `json:"element,omitempty"`

	// Properties holds the apparent members of KindObject, KindFunction
	// and KindPromise, in declaration order.
	Properties []Property `json:"properties,omitempty"`

	// NumberIndex and StringIndex hold index signature value types of
	// KindObject and KindFunction.
	NumberIndex *Metadata `json:"numberIndex,omitempty"`
	StringIndex *Metadata `json:"stringIndex,omitempty"`

	// Name is the class name for KindClass.
	Name string `json:"name,omitempty"`

	// Ref names a registry entry for KindRef.
	Ref string `json:"ref,omitempty"`

	// Symbol is the declaration the type originates from, when known.
	// Enumerations are recognized through it.
	Symbol *Declaration `json:"symbol,omitempty"`
}

// Kind represents the variant of a Metadata node.
type Kind string

const (
	KindKeyword      Kind = "keyword"
	KindLiteral      Kind = "literal"
	KindUnion        Kind = "union"
	KindIntersection Kind = "intersection"
	KindTuple        Kind = "tuple"
	KindArray        Kind = "array"
	KindObject       Kind = "object"
	KindFunction     Kind = "function"
	KindClass        Kind = "class"   // opaque, e.g. Date or a DOM class
	KindPromise      Kind = "promise" // opaque apart from its properties
	KindNever        Kind = "never"
	KindUnspecified  Kind = "unspecified" // any, unknown
	KindRef          Kind = "ref"         // reference to a registry entry
)

// Keyword is an unbounded (or, for boolean, two-valued) primitive.
type Keyword string

const (
	KeywordBoolean Keyword = "boolean"
	KeywordNumber  Keyword = "number"
	KeywordString  Keyword = "string"
	KeywordSymbol  Keyword = "symbol"
	KeywordBigInt  Keyword = "bigint"
	KeywordObject  Keyword = "object"
	KeywordVoid    Keyword = "void"
)

// Property is one apparent member of a structural type.
type Property struct {
	// Name is the member's symbol name as the checker reports it. For
	// numeric keys this is the key's string form ("6").
	Name string `json:"name"`

	// NameType is the type of the key when known. A number literal here
	// marks a numeric key.
	NameType *Metadata `json:"nameType,omitempty"`

	// Declaration describes the member's declaration. Members synthesized
	// by mapped types have none.
	Declaration *MemberDeclaration `json:"declaration,omitempty"`

	// Type is the member's value type.
	Type *Metadata `json:"type,omitempty"`
}

// MemberKind is the syntactic form of a member declaration.
type MemberKind string

const (
	MemberProperty  MemberKind = "property"
	MemberMethod    MemberKind = "method"
	MemberGetter    MemberKind = "getter"   // get accessor without a setter
	MemberSetter    MemberKind = "setter"   // set accessor without a getter
	MemberAccessor  MemberKind = "accessor" // get/set pair
	MemberParameter MemberKind = "parameter"
)

// Visibility is the declared access modifier.
type Visibility string

const (
	VisibilityDefault   Visibility = ""
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// MemberDeclaration carries what the declaration inspector knows about a
// member.
type MemberDeclaration struct {
	Kind       MemberKind      `json:"kind"`
	Name       DeclarationName `json:"name"`
	Visibility Visibility      `json:"visibility,omitempty"`
	Optional   bool            `json:"optional,omitzero"`
	Readonly   bool            `json:"readonly,omitzero"`
}

// NameKind is the syntactic form of a declared member name.
type NameKind string

const (
	NameIdentifier NameKind = "identifier" // foo
	NameString     NameKind = "string"     // "foo bar"
	NameNumeric    NameKind = "numeric"    // 6
	NameComputed   NameKind = "computed"   // [Symbol.iterator]
	NamePrivate    NameKind = "private"    // #secret
)

// DeclarationName is a declared member name.
type DeclarationName struct {
	Kind NameKind `json:"kind"`
	// Text is the name's text for identifier, string, numeric and private
	// names.
	Text string `json:"text,omitempty"`
	// Expression is the source text of a computed name's expression.
	Expression string `json:"expression,omitempty"`
}

// DeclarationKind classifies a type's originating declaration.
type DeclarationKind string

const (
	DeclarationEnum      DeclarationKind = "enum"
	DeclarationClass     DeclarationKind = "class"
	DeclarationInterface DeclarationKind = "interface"
	DeclarationAlias     DeclarationKind = "alias"
)

// Declaration describes the declaration a type originates from.
type Declaration struct {
	Kind DeclarationKind `json:"kind"`
	Name string          `json:"name,omitempty"`
	// Members lists enum members in declaration order. Only set when
	// Kind == DeclarationEnum.
	Members []EnumMember `json:"members,omitempty"`
}

// IsEnum reports whether d declares an enumeration.
func (d *Declaration) IsEnum() bool {
	return d != nil && d.Kind == DeclarationEnum
}

// EnumMember is one enumeration member: its declared name and value.
type EnumMember struct {
	Name  DeclarationName `json:"name"`
	Value *Literal        `json:"value,omitempty"`
}

// TypeRegistry holds named types so that KindRef nodes can be resolved and
// recursive types can be described without infinite trees.
type TypeRegistry struct {
	Types map[string]*Metadata
}

// NewTypeRegistry creates an empty type registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{Types: make(map[string]*Metadata)}
}

// Register adds a named type to the registry.
func (r *TypeRegistry) Register(name string, m *Metadata) {
	r.Types[name] = m
}

// Has checks if a named type is registered.
func (r *TypeRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Types[name]
	return ok
}

// Lookup returns the named type.
func (r *TypeRegistry) Lookup(name string) (*Metadata, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r.Types[name]
	return m, ok
}
