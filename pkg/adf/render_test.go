package adf

import (
	"strings"
	"testing"
)

func TestRenderBasicBlocks(t *testing.T) {
	doc := Doc([]*Node{
		Heading(2, Text("Title")),
		Paragraph(Text("hello "), MarkedText("world", Strong())),
		BulletList(
			ListItem(Paragraph(Text("one"))),
			ListItem(Paragraph(Text("two"))),
		),
		CodeBlock("go", "x := 1"),
		Rule(),
	})

	out := Render(doc)
	for _, want := range []string{"## Title", "hello **world**", "- one", "- two", "```go\nx := 1\n```", "---"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStatusAndMention(t *testing.T) {
	doc := Doc([]*Node{Paragraph(
		Status("Done", "green"),
		Text(" by "),
		Mention("dev@example.com"),
	)})

	out := Render(doc)
	if !strings.Contains(out, "{status:Done|green}") {
		t.Errorf("status not rendered: %s", out)
	}
	if !strings.Contains(out, "@dev@example.com") {
		t.Errorf("mention not rendered: %s", out)
	}
}

func TestRenderTable(t *testing.T) {
	doc := Doc([]*Node{Table(false,
		TableRow(TableHeader(Paragraph(Text("h1"))), TableHeader(Paragraph(Text("h2")))),
		TableRow(TableCell(Paragraph(Text("a"))), TableCell(Paragraph(Text("b")))),
	)})

	out := Render(doc)
	if !strings.Contains(out, "| h1 | h2 |") {
		t.Errorf("header row not rendered: %s", out)
	}
	if !strings.Contains(out, "| a | b |") {
		t.Errorf("data row not rendered: %s", out)
	}
}

func TestRenderTextStripsMarkup(t *testing.T) {
	doc := Doc([]*Node{
		Heading(1, Text("Head")),
		Paragraph(MarkedText("bold", Strong()), Text(" plain")),
	})
	if got := RenderText(doc); got != "Head bold plain" {
		t.Errorf("RenderText = %q", got)
	}
}

func TestRenderNilIsEmpty(t *testing.T) {
	if Render(nil) != "" {
		t.Error("nil node should render empty")
	}
}
