// Package diagnostic collects non-fatal findings produced while reflecting
// types, and formats them for the command line.
package diagnostic

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category classifies diagnostics for filtering.
type Category string

const (
	CategoryTypeUnsupported  Category = "type-unsupported"
	CategoryRecursiveType    Category = "recursive-type"
	CategoryUnsupportedName  Category = "unsupported-name"
	CategoryMalformedLiteral Category = "malformed-literal"
	CategoryOpaqueType       Category = "opaque-type"
	CategoryConfigInvalid    Category = "config-invalid"
	CategoryPerformance      Category = "performance"
)

// Diagnostic represents a structured diagnostic message.
type Diagnostic struct {
	Severity Severity
	Category Category
	Site     string // reflection site id, usually "file:line:column"
	Type     string // described type the finding is about
	Message  string
	Hint     string // optional suggestion for fixing the issue
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	var sb strings.Builder

	if d.Site != "" {
		sb.WriteString(d.Site)
		sb.WriteString(" - ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")

	if d.Category != "" {
		sb.WriteString("[")
		sb.WriteString(string(d.Category))
		sb.WriteString("] ")
	}

	sb.WriteString(d.Message)
	if d.Type != "" {
		sb.WriteString(" (in ")
		sb.WriteString(d.Type)
		sb.WriteString(")")
	}

	if d.Hint != "" {
		sb.WriteString("\n  hint: ")
		sb.WriteString(d.Hint)
	}

	return sb.String()
}

// Collector collects diagnostics. It is safe for concurrent use; sites
// reflected in parallel report into the same collector.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
	strict      bool // if true, warnings become errors
	quiet       bool // if true, suppress warnings and info
}

// NewCollector creates a new diagnostic collector.
func NewCollector(strict, quiet bool) *Collector {
	return &Collector{
		strict: strict,
		quiet:  quiet,
	}
}

// Add records d as is, applying strict and quiet modes.
func (c *Collector) Add(d Diagnostic) {
	if c == nil {
		return
	}
	if c.quiet && d.Severity != SeverityError {
		return
	}
	if c.strict && d.Severity == SeverityWarning {
		d.Severity = SeverityError
	}
	c.mu.Lock()
	c.diagnostics = append(c.diagnostics, d)
	c.mu.Unlock()
}

// Warn adds a warning diagnostic.
func (c *Collector) Warn(category Category, site, typ, message string) {
	c.Add(Diagnostic{Severity: SeverityWarning, Category: category, Site: site, Type: typ, Message: message})
}

// WarnWithHint adds a warning with a suggestion.
func (c *Collector) WarnWithHint(category Category, site, typ, message, hint string) {
	c.Add(Diagnostic{Severity: SeverityWarning, Category: category, Site: site, Type: typ, Message: message, Hint: hint})
}

// Error adds an error diagnostic.
func (c *Collector) Error(category Category, site, typ, message string) {
	c.Add(Diagnostic{Severity: SeverityError, Category: category, Site: site, Type: typ, Message: message})
}

// Info adds an informational diagnostic.
func (c *Collector) Info(category Category, site, typ, message string) {
	c.Add(Diagnostic{Severity: SeverityInfo, Category: category, Site: site, Type: typ, Message: message})
}

// Diagnostics returns all collected diagnostics ordered by site. Within a
// site, diagnostics keep the order in which they were reported.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	out := slices.Clone(c.diagnostics)
	c.mu.Unlock()
	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		return cmp.Compare(a.Site, b.Site)
	})
	return out
}

func (c *Collector) count(sev Severity) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors returns true if any error-level diagnostics exist.
func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}

// ErrorCount returns the number of error diagnostics.
func (c *Collector) ErrorCount() int { return c.count(SeverityError) }

// WarningCount returns the number of warning diagnostics.
func (c *Collector) WarningCount() int { return c.count(SeverityWarning) }

// InfoCount returns the number of informational diagnostics.
func (c *Collector) InfoCount() int { return c.count(SeverityInfo) }

// FormatAll formats all diagnostics as a multi-line string.
func (c *Collector) FormatAll() string {
	diags := c.Diagnostics()
	if len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

var printer = message.NewPrinter(language.English)

// Summary returns a summary line like "2 warning(s), 1 error(s)". Counts
// are grouped the English way ("1,204 warning(s)").
func (c *Collector) Summary() string {
	if c == nil {
		return ""
	}
	warnings := c.WarningCount()
	errors := c.ErrorCount()

	parts := []string{}
	if errors > 0 {
		parts = append(parts, printer.Sprintf("%d error(s)", errors))
	}
	if warnings > 0 {
		parts = append(parts, printer.Sprintf("%d warning(s)", warnings))
	}
	if len(parts) == 0 {
		return "no issues"
	}
	return strings.Join(parts, ", ")
}
