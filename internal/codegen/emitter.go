// Package codegen renders reflection results as JavaScript: the array
// literals and seeded filter calls that replace reflection call sites, the
// generated module exporting them, and the JSON manifest.
package codegen

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

// Emitter builds JavaScript source code with proper indentation.
type Emitter struct {
	buf    strings.Builder
	indent int
}

// NewEmitter creates a new JavaScript code emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

func (e *Emitter) writeIndent() {
	e.buf.WriteString(strings.Repeat(indentUnit, e.indent))
}

// Line writes a single line of code at the current indentation level.
func (e *Emitter) Line(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line == "" {
		e.buf.WriteByte('\n')
		return
	}
	e.writeIndent()
	e.buf.WriteString(line)
	e.buf.WriteByte('\n')
}

// Comment writes a line comment.
func (e *Emitter) Comment(text string) {
	e.Line("// %s", text)
}

// Blank writes an empty line.
func (e *Emitter) Blank() {
	e.buf.WriteByte('\n')
}

// Block opens a block (appends " {" to the line and increases indent).
func (e *Emitter) Block(format string, args ...any) {
	e.writeIndent()
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteString(" {\n")
	e.indent++
}

// Entry writes one `key: value,` member of an object literal opened with
// Block. The key is quoted when it is not an identifier.
func (e *Emitter) Entry(key, value string) {
	e.Line("%s: %s,", jsObjectKey(key), value)
}

// EndBlock closes a block (decreases indent and writes "}").
func (e *Emitter) EndBlock() {
	e.EndBlockSuffix("")
}

// EndBlockSuffix closes a block with a suffix (e.g., "};").
func (e *Emitter) EndBlockSuffix(suffix string) {
	if e.indent > 0 {
		e.indent--
	}
	e.writeIndent()
	e.buf.WriteString("}")
	e.buf.WriteString(suffix)
	e.buf.WriteByte('\n')
}

// String returns the accumulated source code.
func (e *Emitter) String() string {
	return e.buf.String()
}

// Len returns the current byte length.
func (e *Emitter) Len() int {
	return e.buf.Len()
}
