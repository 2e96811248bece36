package adf

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tidwall/gjson"
)

var validationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "adf_validations_total",
		Help: "Total number of document validations by outcome",
	},
	[]string{"outcome"},
)

// knownTypes is the closed node-type vocabulary both platforms accept.
// Anything else, at any depth, is a violation.
var knownTypes = map[string]bool{
	"doc":         true,
	"paragraph":   true,
	"heading":     true,
	"text":        true,
	"hardBreak":   true,
	"bulletList":  true,
	"orderedList": true,
	"listItem":    true,
	"codeBlock":   true,
	"blockquote":  true,
	"rule":        true,
	"table":       true,
	"tableRow":    true,
	"tableHeader": true,
	"tableCell":   true,
	"status":      true,
	"mention":     true,
	"inlineCard":  true,
	"embedCard":   true,
}

// ValidationResult is the validator's report. NodeCount is the number of
// recognized nodes seen and is omitted when the input was too malformed to
// walk at all.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors"`
	NodeCount int      `json:"node_count,omitempty"`
}

// Validate checks an arbitrary candidate document against the data-model
// invariants. The input is not assumed to come from this compiler; it may be
// hand-edited JSON. A malformed top-level shape short-circuits with a single
// structural error; once the shape is sound every check runs and violations
// accumulate. The input is never mutated.
func Validate(data []byte) ValidationResult {
	if !gjson.ValidBytes(data) {
		return fail("input is not well-formed JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fail("top-level value must be a JSON object")
	}

	var errs []string

	if version := root.Get("version"); !version.Exists() || version.Int() != DocVersion || version.Type != gjson.Number {
		errs = append(errs, fmt.Sprintf("version: expected %d, got %s", DocVersion, valueOrMissing(root.Get("version"))))
	}
	if docType := root.Get("type"); docType.String() != "doc" {
		errs = append(errs, fmt.Sprintf(`type: expected "doc", got %s`, valueOrMissing(docType)))
	}

	content := root.Get("content")
	switch {
	case !content.Exists():
		errs = append(errs, "content: missing")
	case !content.IsArray():
		errs = append(errs, "content: must be an array")
	}

	count := 0
	walkNode(root, "$", &count, &errs)

	result := ValidationResult{
		Valid:     len(errs) == 0,
		Errors:    errs,
		NodeCount: count,
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	if result.Valid {
		validationsTotal.WithLabelValues("valid").Inc()
	} else {
		validationsTotal.WithLabelValues("invalid").Inc()
	}
	return result
}

func fail(msg string) ValidationResult {
	validationsTotal.WithLabelValues("malformed").Inc()
	return ValidationResult{Valid: false, Errors: []string{msg}}
}

// walkNode runs the per-node checks and recurses into content. Depth is
// unbounded on purpose; hand-edited documents nest arbitrarily.
func walkNode(node gjson.Result, path string, count *int, errs *[]string) {
	nodeType := node.Get("type")
	if nodeType.Exists() {
		if !knownTypes[nodeType.String()] {
			*errs = append(*errs, fmt.Sprintf("%s: unknown node type %q", path, nodeType.String()))
		} else {
			*count++
		}
		if nodeType.String() == "status" {
			if localID := node.Get("attrs.localId"); localID.String() == "" {
				*errs = append(*errs, fmt.Sprintf("%s: status node missing localId", path))
			}
		}
	}

	content := node.Get("content")
	if !content.Exists() {
		return
	}
	if !content.IsArray() {
		// the root's non-array content is already reported above
		if path != "$" {
			*errs = append(*errs, fmt.Sprintf("%s: content must be an array", path))
		}
		return
	}
	i := 0
	content.ForEach(func(_, child gjson.Result) bool {
		walkNode(child, fmt.Sprintf("%s.content[%d]", path, i), count, errs)
		i++
		return true
	})
}

func valueOrMissing(v gjson.Result) string {
	if !v.Exists() {
		return "nothing"
	}
	return v.Raw
}
