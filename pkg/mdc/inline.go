package mdc

import (
	"regexp"
	"unicode/utf8"

	"github.com/docforge/docforge-mcp/pkg/adf"
)

// Inline patterns, tried in priority order. Order matters: mentions share
// the @ marker with plain text, bold shares * with italic, and the plain-run
// pattern must stop at every character another pattern could start on.
var inlinePatterns = struct {
	mention  *regexp.Regexp
	status   *regexp.Regexp
	card     *regexp.Regexp
	bold     *regexp.Regexp
	italic   *regexp.Regexp
	code     *regexp.Regexp
	link     *regexp.Regexp
	issueKey *regexp.Regexp
	plain    *regexp.Regexp
}{
	mention:  regexp.MustCompile(`^@([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`),
	status:   regexp.MustCompile(`^\{status:([^|}]+)\|([A-Za-z]+)\}`),
	card:     regexp.MustCompile(`^\{(?:card|embed):([^}\s]+)\}`),
	bold:     regexp.MustCompile(`^\*\*(.+?)\*\*`),
	italic:   regexp.MustCompile(`^\*([^*]+)\*`),
	code:     regexp.MustCompile("^`([^`]+)`"),
	link:     regexp.MustCompile(`^\[([^\]]*)\]\(([^)\s]+)\)`),
	issueKey: regexp.MustCompile(`^[A-Z][A-Z0-9]+-[0-9]+`),
	plain:    regexp.MustCompile("^[^*`\\[@{A-Z]+"),
}

// tokenizeInline converts one logical line (block prefixes already removed)
// into an ordered inline node sequence covering the whole input. Unclosed
// markers fall through to plain text; the single-rune fallback guarantees
// progress, so there is no failure path.
func tokenizeInline(line string, style *Style) []*adf.Node {
	var nodes []*adf.Node
	rest := line
	for rest != "" {
		node, consumed := nextInline(rest, style)
		nodes = append(nodes, node)
		rest = rest[consumed:]
	}
	return mergeText(nodes)
}

func nextInline(rest string, style *Style) (*adf.Node, int) {
	if m := inlinePatterns.mention.FindStringSubmatch(rest); m != nil {
		return adf.Mention(m[1]), len(m[0])
	}
	if m := inlinePatterns.status.FindStringSubmatch(rest); m != nil {
		return adf.Status(m[1], statusColor(m[2])), len(m[0])
	}
	if m := inlinePatterns.card.FindStringSubmatch(rest); m != nil {
		return adf.Card(style.CardNodeType, m[1]), len(m[0])
	}
	if m := inlinePatterns.bold.FindStringSubmatch(rest); m != nil {
		return adf.MarkedText(m[1], adf.Strong()), len(m[0])
	}
	if m := inlinePatterns.italic.FindStringSubmatch(rest); m != nil {
		return adf.MarkedText(m[1], adf.Em()), len(m[0])
	}
	if m := inlinePatterns.code.FindStringSubmatch(rest); m != nil {
		return adf.MarkedText(m[1], adf.Code()), len(m[0])
	}
	if m := inlinePatterns.link.FindStringSubmatch(rest); m != nil {
		return adf.MarkedText(m[1], adf.Link(m[2])), len(m[0])
	}
	if style.IssueKeyLinks {
		if m := inlinePatterns.issueKey.FindString(rest); m != "" {
			return adf.MarkedText(m, adf.Link(style.IssueBaseURL+"/browse/"+m)), len(m)
		}
	}
	if m := inlinePatterns.plain.FindString(rest); m != "" {
		return adf.Text(m), len(m)
	}
	// nothing matched at this position: consume one rune literally
	_, size := utf8.DecodeRuneInString(rest)
	return adf.Text(rest[:size]), size
}

// mergeText collapses adjacent unmarked text nodes into one so rendered
// content is unchanged with the minimum node count. Re-running it on an
// already merged sequence is a no-op.
func mergeText(nodes []*adf.Node) []*adf.Node {
	merged := make([]*adf.Node, 0, len(nodes))
	for _, node := range nodes {
		if len(merged) > 0 {
			prev := merged[len(merged)-1]
			if prev.Type == "text" && len(prev.Marks) == 0 &&
				node.Type == "text" && len(node.Marks) == 0 {
				prev.Text += node.Text
				continue
			}
		}
		merged = append(merged, node)
	}
	return merged
}
