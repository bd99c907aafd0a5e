package analyzer

import "errors"

// Fatal reflection errors. They are returned wrapped with the description
// of the offending type; test with errors.Is.
var (
	// ErrUnsupportedType reports a type the engine cannot classify: an
	// unknown variant, an unresolved reference, or a walk deeper than the
	// scope allows.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMalformedLiteral reports a literal without a recoverable value.
	ErrMalformedLiteral = errors.New("malformed literal")

	// ErrUnsupportedName reports a member name that cannot become a
	// descriptor name.
	ErrUnsupportedName = errors.New("unsupported member name")
)
