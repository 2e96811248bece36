// Package mdc compiles a constrained markdown dialect into the ADF-shaped
// document tree both target platforms consume. The compiler is a pure,
// single-pass transformation with no fatal error path: any text input
// produces a document, with malformed constructs degrading to plain
// paragraphs rather than failing.
package mdc

import (
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/docforge/docforge-mcp/pkg/adf"
)

// Compiler binds the engine to one target's style table and a diagnostic
// logger. Instances are safe for concurrent use; compilation keeps no state
// between invocations beyond the process-wide identifier generator.
type Compiler struct {
	style  *Style
	logger *logrus.Logger
}

// NewCompiler returns a compiler for the given style. A nil logger gets a
// default logrus logger writing to stderr, keeping diagnostics off the
// stdout JSON stream.
func NewCompiler(style *Style, logger *logrus.Logger) *Compiler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Compiler{style: style, logger: logger}
}

// Style returns the compiler's style table.
func (c *Compiler) Style() *Style {
	return c.style
}

// Compile strips frontmatter from the raw input and builds the document
// tree. Diagnostics (empty body, unterminated frontmatter) are non-fatal
// and go to the logger.
func (c *Compiler) Compile(input string) *adf.Node {
	body, stripped := StripFrontmatter(input)
	if !stripped && opensFrontmatter(input) {
		c.logger.WithField("target", c.style.Name).
			Warn("unterminated frontmatter, compiling whole input as body")
	}
	if strings.TrimSpace(body) == "" {
		c.logger.WithField("target", c.style.Name).
			Warn("document body is empty after stripping frontmatter")
		emptyBodiesTotal.WithLabelValues(c.style.Name).Inc()
	}
	doc := adf.Doc(scanBlocks(splitLines(body), c.style))
	compilesTotal.WithLabelValues(c.style.Name).Inc()
	return doc
}

// CompileJSON compiles and serializes in one step.
func (c *Compiler) CompileJSON(input string) ([]byte, error) {
	return json.Marshal(c.Compile(input))
}
