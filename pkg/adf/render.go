package adf

import (
	"fmt"
	"strings"
)

// Render flattens a document tree back into readable markdown-flavoured
// text. It is a display helper for showing remote pages and for diffing page
// versions; it makes no round-trip guarantee and drops styling the text form
// cannot express (heading colors, status colors, table identifiers).
func Render(node *Node) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	renderNode(node, &b, 0)
	return b.String()
}

// RenderText strips all markup and returns the bare text content, used where
// a one-line summary of a document is wanted.
func RenderText(node *Node) string {
	text := Render(node)
	for _, ch := range []string{"\n", "#", "*", "_", "`", ">", "|"} {
		text = strings.ReplaceAll(text, ch, " ")
	}
	return strings.Join(strings.Fields(text), " ")
}

func renderNode(node *Node, b *strings.Builder, depth int) {
	switch node.Type {
	case "doc", "listItem", "tableHeader", "tableCell":
		renderChildren(node, b, depth)
	case "paragraph":
		renderChildren(node, b, depth)
		b.WriteString("\n\n")
	case "heading":
		b.WriteString(strings.Repeat("#", headingLevel(node)) + " ")
		renderChildren(node, b, depth)
		b.WriteString("\n\n")
	case "text":
		b.WriteString(renderText(node))
	case "hardBreak":
		b.WriteString("\n")
	case "rule":
		b.WriteString("---\n\n")
	case "codeBlock":
		lang, _ := node.Attrs["language"].(string)
		b.WriteString("```" + lang + "\n")
		renderChildren(node, b, depth)
		b.WriteString("\n```\n\n")
	case "blockquote":
		var inner strings.Builder
		renderChildren(node, &inner, depth)
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			b.WriteString("> " + line + "\n")
		}
		b.WriteString("\n")
	case "bulletList":
		for _, item := range node.Content {
			b.WriteString(strings.Repeat("  ", depth) + "- ")
			renderListItem(item, b, depth)
		}
		b.WriteString("\n")
	case "orderedList":
		for i, item := range node.Content {
			b.WriteString(fmt.Sprintf("%s%d. ", strings.Repeat("  ", depth), i+1))
			renderListItem(item, b, depth)
		}
		b.WriteString("\n")
	case "table":
		renderTable(node, b)
	case "status":
		text, _ := node.Attrs["text"].(string)
		color, _ := node.Attrs["color"].(string)
		b.WriteString(fmt.Sprintf("{status:%s|%s}", text, color))
	case "mention":
		id, _ := node.Attrs["id"].(string)
		if email, ok := strings.CutPrefix(id, PendingMentionPrefix); ok {
			b.WriteString("@" + email)
		} else {
			b.WriteString("@" + id)
		}
	case "inlineCard", "embedCard":
		url, _ := node.Attrs["url"].(string)
		b.WriteString(fmt.Sprintf("{card:%s}", url))
	default:
		renderChildren(node, b, depth)
	}
}

func renderText(node *Node) string {
	text := node.Text
	for _, mark := range node.Marks {
		switch mark.Type {
		case "strong":
			text = "**" + text + "**"
		case "em":
			text = "*" + text + "*"
		case "code":
			text = "`" + text + "`"
		case "link":
			if href, ok := mark.Attrs["href"].(string); ok {
				text = fmt.Sprintf("[%s](%s)", text, href)
			}
		}
		// textColor is display-only, no text form
	}
	return text
}

func renderListItem(item *Node, b *strings.Builder, depth int) {
	var inner strings.Builder
	renderChildren(item, &inner, depth+1)
	b.WriteString(strings.TrimRight(inner.String(), "\n"))
	b.WriteString("\n")
}

func renderTable(node *Node, b *strings.Builder) {
	for i, row := range node.Content {
		b.WriteString("|")
		for _, cell := range row.Content {
			var inner strings.Builder
			renderChildren(cell, &inner, 0)
			b.WriteString(" " + strings.Join(strings.Fields(inner.String()), " ") + " |")
		}
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("|" + strings.Repeat("---|", len(row.Content)) + "\n")
		}
	}
	b.WriteString("\n")
}

func renderChildren(node *Node, b *strings.Builder, depth int) {
	for _, child := range node.Content {
		renderNode(child, b, depth)
	}
}

func headingLevel(node *Node) int {
	switch l := node.Attrs["level"].(type) {
	case int:
		return l
	case float64:
		return int(l)
	}
	return 1
}
