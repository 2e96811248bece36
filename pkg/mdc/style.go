package mdc

// Style holds the per-platform constants the compiler is parameterized by.
// The grammar and the scanning algorithm are identical for both targets;
// only these values differ.
type Style struct {
	// Name labels the target in diagnostics and metrics.
	Name string

	// HeadingColors maps heading level to the textColor applied to the
	// heading's text children.
	HeadingColors map[int]string

	// AccentColor is the alternate color selected by the `#!` heading
	// marker, independent of the level table.
	AccentColor string

	// CardNodeType is the node type emitted for {card:url} directives.
	CardNodeType string

	// TableLocalIDs mints a localId attribute on table nodes (admonition
	// tables included) for the platform that requires one. Status nodes
	// always get a localId regardless of this flag.
	TableLocalIDs bool

	// IssueKeyLinks turns bare issue keys (e.g. KP-123) into links under
	// IssueBaseURL. When off, keys pass through as plain text.
	IssueKeyLinks bool
	IssueBaseURL  string

	// Admonitions is the set of :::name blocks this target accepts.
	// Unregistered names fall back to plain paragraph text.
	Admonitions map[string]bool
}

// Admonition block names shared by the style tables.
const (
	admonitionMetadata = "metadata"
	admonitionTOC      = "toc"
	admonitionCallout  = "callout"
	admonitionContext  = "context"
)

// statusColors is the closed color enum for status badges; anything else is
// normalized to neutral.
var statusColors = map[string]bool{
	"neutral": true,
	"purple":  true,
	"blue":    true,
	"red":     true,
	"yellow":  true,
	"green":   true,
}

func statusColor(color string) string {
	if statusColors[color] {
		return color
	}
	return "neutral"
}

// ConfluenceStyle targets Confluence pages (atlas_doc_format bodies).
func ConfluenceStyle() *Style {
	return &Style{
		Name: "confluence",
		HeadingColors: map[int]string{
			1: "#0052CC",
			2: "#0747A6",
			3: "#172B4D",
			4: "#403294",
			5: "#006644",
			6: "#6554C0",
		},
		AccentColor:   "#BF2600",
		CardNodeType:  "embedCard",
		TableLocalIDs: true,
		IssueKeyLinks: false,
		Admonitions: map[string]bool{
			admonitionMetadata: true,
			admonitionTOC:      true,
			admonitionCallout:  true,
			admonitionContext:  true,
		},
	}
}

// JiraStyle targets Jira issue descriptions and comments.
func JiraStyle() *Style {
	return &Style{
		Name: "jira",
		HeadingColors: map[int]string{
			1: "#0052CC",
			2: "#00875A",
			3: "#172B4D",
			4: "#172B4D",
			5: "#172B4D",
			6: "#172B4D",
		},
		AccentColor:   "#DE350B",
		CardNodeType:  "inlineCard",
		TableLocalIDs: false,
		IssueKeyLinks: true,
		Admonitions: map[string]bool{
			admonitionMetadata: true,
			admonitionContext:  true,
		},
	}
}

// StyleFor returns the style table for a target name, defaulting to
// Confluence for anything unrecognized.
func StyleFor(target string) *Style {
	if target == "jira" {
		return JiraStyle()
	}
	return ConfluenceStyle()
}
