package adf

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Node represents an ADF node
type Node struct {
	Type    string                 `json:"type"`
	Version int                    `json:"version,omitempty"`
	Text    string                 `json:"text,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Marks   []*Mark                `json:"marks,omitempty"`
	Content []*Node                `json:"content,omitempty"`
}

// Mark represents formatting marks in ADF
type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

type nodeAlias Node

// MarshalJSON keeps a container's content key even when the slice is empty.
// The data model requires content to be an array, never absent, on every
// node that has children; leaf nodes (text, hardBreak, status) carry no
// content key at all.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Content == nil {
		return json.Marshal((*nodeAlias)(n))
	}
	return json.Marshal(struct {
		*nodeAlias
		Content []*Node `json:"content"`
	}{(*nodeAlias)(n), n.Content})
}

// DocVersion is the only document version either platform accepts.
const DocVersion = 1

// PendingMentionPrefix is the sentinel embedded in a mention node's id until
// an external directory lookup replaces it with a real account identifier.
// The publishing workflow greps the serialized JSON for this prefix.
const PendingMentionPrefix = "pending-mention:"

// Doc wraps an ordered block list in the root document node. The content
// slice is always non-nil so an empty document serializes as "content": [].
func Doc(content []*Node) *Node {
	if content == nil {
		content = []*Node{}
	}
	return &Node{Type: "doc", Version: DocVersion, Content: content}
}

// Text returns a plain text node.
func Text(s string) *Node {
	return &Node{Type: "text", Text: s}
}

// MarkedText returns a text node carrying the given marks.
func MarkedText(s string, marks ...*Mark) *Node {
	return &Node{Type: "text", Text: s, Marks: marks}
}

// Paragraph returns a paragraph holding the given inline nodes.
func Paragraph(inline ...*Node) *Node {
	if inline == nil {
		inline = []*Node{}
	}
	return &Node{Type: "paragraph", Content: inline}
}

// EmptyParagraph is the placeholder used where a container must never be
// left with zero children (empty list items, empty blockquotes).
func EmptyParagraph() *Node {
	return &Node{Type: "paragraph", Content: []*Node{}}
}

// Heading returns a heading node at the given level.
func Heading(level int, inline ...*Node) *Node {
	return &Node{
		Type:    "heading",
		Attrs:   map[string]interface{}{"level": level},
		Content: inline,
	}
}

// HardBreak returns an explicit in-paragraph line break.
func HardBreak() *Node {
	return &Node{Type: "hardBreak"}
}

// Rule returns a horizontal rule node.
func Rule() *Node {
	return &Node{Type: "rule"}
}

// CodeBlock returns a code block with the verbatim payload and an optional
// language attribute.
func CodeBlock(language, code string) *Node {
	node := &Node{Type: "codeBlock", Content: []*Node{Text(code)}}
	if language != "" {
		node.Attrs = map[string]interface{}{"language": language}
	}
	return node
}

// Blockquote wraps nested block content.
func Blockquote(blocks []*Node) *Node {
	if len(blocks) == 0 {
		blocks = []*Node{EmptyParagraph()}
	}
	return &Node{Type: "blockquote", Content: blocks}
}

// ListItem holds one or more block nodes; an empty item gets an empty
// paragraph placeholder.
func ListItem(blocks ...*Node) *Node {
	if len(blocks) == 0 {
		blocks = []*Node{EmptyParagraph()}
	}
	return &Node{Type: "listItem", Content: blocks}
}

// BulletList returns a bulletList over the given items.
func BulletList(items ...*Node) *Node {
	return &Node{Type: "bulletList", Content: items}
}

// OrderedList returns an orderedList over the given items. The starting
// value is always 1 regardless of the numbers in the source.
func OrderedList(items ...*Node) *Node {
	return &Node{
		Type:    "orderedList",
		Attrs:   map[string]interface{}{"order": 1},
		Content: items,
	}
}

// Table returns a table over the given rows. When withLocalID is set the
// node is minted a fresh identifier, matching platforms that require one.
func Table(withLocalID bool, rows ...*Node) *Node {
	node := &Node{Type: "table", Content: rows}
	if withLocalID {
		node.Attrs = map[string]interface{}{"localId": uuid.NewString()}
	}
	return node
}

// TableRow returns a tableRow over the given cells.
func TableRow(cells ...*Node) *Node {
	return &Node{Type: "tableRow", Content: cells}
}

// TableHeader returns a header cell holding block content.
func TableHeader(blocks ...*Node) *Node {
	if len(blocks) == 0 {
		blocks = []*Node{EmptyParagraph()}
	}
	return &Node{Type: "tableHeader", Content: blocks}
}

// TableCell returns a data cell holding block content.
func TableCell(blocks ...*Node) *Node {
	if len(blocks) == 0 {
		blocks = []*Node{EmptyParagraph()}
	}
	return &Node{Type: "tableCell", Content: blocks}
}

// Status returns a status badge. Every status node carries a fresh unique
// localId; the validator rejects documents where one is missing.
func Status(text, color string) *Node {
	return &Node{
		Type: "status",
		Attrs: map[string]interface{}{
			"text":    text,
			"color":   color,
			"localId": uuid.NewString(),
		},
	}
}

// Mention returns a mention node whose id is the unresolved placeholder for
// the given email address.
func Mention(email string) *Node {
	return &Node{
		Type: "mention",
		Attrs: map[string]interface{}{
			"id": PendingMentionPrefix + email,
		},
	}
}

// Card returns an inline link card of the given node type ("inlineCard" or
// "embedCard") pointing at url.
func Card(nodeType, url string) *Node {
	return &Node{
		Type:  nodeType,
		Attrs: map[string]interface{}{"url": url},
	}
}

// Strong, Em and Code construct the parameterless marks.
func Strong() *Mark { return &Mark{Type: "strong"} }
func Em() *Mark     { return &Mark{Type: "em"} }
func Code() *Mark   { return &Mark{Type: "code"} }

// Link returns a link mark pointing at href.
func Link(href string) *Mark {
	return &Mark{Type: "link", Attrs: map[string]interface{}{"href": href}}
}

// TextColor returns a textColor mark with the given hex color.
func TextColor(color string) *Mark {
	return &Mark{Type: "textColor", Attrs: map[string]interface{}{"color": color}}
}
