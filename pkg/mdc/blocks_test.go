package mdc

import (
	"strings"
	"testing"

	"github.com/docforge/docforge-mcp/pkg/adf"
)

func scan(t *testing.T, input string, style *Style) []*adf.Node {
	t.Helper()
	return scanBlocks(splitLines(input), style)
}

func scanOne(t *testing.T, input string, style *Style) *adf.Node {
	t.Helper()
	blocks := scan(t, input, style)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block for %q, got %d", input, len(blocks))
	}
	return blocks[0]
}

func TestHeadingLevelAndColor(t *testing.T) {
	style := ConfluenceStyle()
	block := scanOne(t, "## Title", style)

	if block.Type != "heading" {
		t.Fatalf("type = %s", block.Type)
	}
	if level := block.Attrs["level"]; level != 2 {
		t.Errorf("level = %v", level)
	}
	if len(block.Content) != 1 {
		t.Fatalf("content length = %d", len(block.Content))
	}
	child := block.Content[0]
	if child.Text != "Title" {
		t.Errorf("text = %q", child.Text)
	}
	var color interface{}
	for _, m := range child.Marks {
		if m.Type == "textColor" {
			color = m.Attrs["color"]
		}
	}
	if color != style.HeadingColors[2] {
		t.Errorf("color = %v, want %v", color, style.HeadingColors[2])
	}
}

func TestHeadingColorDeterminism(t *testing.T) {
	style := ConfluenceStyle()
	for _, line := range []string{"### Three", "###! Accent"} {
		first := scanOne(t, line, style).Content[0].Marks
		second := scanOne(t, line, style).Content[0].Marks
		if first[len(first)-1].Attrs["color"] != second[len(second)-1].Attrs["color"] {
			t.Errorf("color not deterministic for %q", line)
		}
	}
}

func TestHeadingAccentMarker(t *testing.T) {
	style := ConfluenceStyle()
	block := scanOne(t, "##! Warning", style)
	if level := block.Attrs["level"]; level != 2 {
		t.Errorf("accent marker changed level: %v", level)
	}
	marks := block.Content[0].Marks
	if color := marks[len(marks)-1].Attrs["color"]; color != style.AccentColor {
		t.Errorf("accent color = %v, want %v", color, style.AccentColor)
	}
}

func TestBulletList(t *testing.T) {
	block := scanOne(t, "- a\n- b", ConfluenceStyle())
	if block.Type != "bulletList" {
		t.Fatalf("type = %s", block.Type)
	}
	if len(block.Content) != 2 {
		t.Fatalf("items = %d", len(block.Content))
	}
	for i, want := range []string{"a", "b"} {
		item := block.Content[i]
		if item.Type != "listItem" || len(item.Content) != 1 {
			t.Fatalf("item %d shape: %+v", i, item)
		}
		para := item.Content[0]
		if para.Type != "paragraph" || para.Content[0].Text != want {
			t.Errorf("item %d text = %q, want %q", i, para.Content[0].Text, want)
		}
	}
}

func TestListOrderPreserved(t *testing.T) {
	input := "- one\n- two\n- three\n- four"
	block := scanOne(t, input, ConfluenceStyle())
	want := []string{"one", "two", "three", "four"}
	for i, item := range block.Content {
		if got := item.Content[0].Content[0].Text; got != want[i] {
			t.Errorf("item %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestOrderedListAlwaysStartsAtOne(t *testing.T) {
	block := scanOne(t, "3. x\n7. y", ConfluenceStyle())
	if block.Type != "orderedList" {
		t.Fatalf("type = %s", block.Type)
	}
	if order := block.Attrs["order"]; order != 1 {
		t.Errorf("order = %v, want 1", order)
	}
	if len(block.Content) != 2 {
		t.Errorf("items = %d", len(block.Content))
	}
}

func TestListContinuationJoinsPreviousItem(t *testing.T) {
	block := scanOne(t, "- first line\n  continued here\n- second", ConfluenceStyle())
	if len(block.Content) != 2 {
		t.Fatalf("items = %d", len(block.Content))
	}
	if got := block.Content[0].Content[0].Content[0].Text; got != "first line continued here" {
		t.Errorf("joined item = %q", got)
	}
}

func TestEmptyBulletGetsPlaceholderParagraph(t *testing.T) {
	block := scanOne(t, "- a\n-", ConfluenceStyle())
	empty := block.Content[1]
	if len(empty.Content) != 1 || empty.Content[0].Type != "paragraph" {
		t.Errorf("empty item shape: %+v", empty)
	}
}

func TestParagraphHardBreaks(t *testing.T) {
	block := scanOne(t, "line one\nline two", ConfluenceStyle())
	if block.Type != "paragraph" {
		t.Fatalf("type = %s", block.Type)
	}
	if len(block.Content) != 3 {
		t.Fatalf("inline nodes = %d: %+v", len(block.Content), block.Content)
	}
	if block.Content[0].Text != "line one" ||
		block.Content[1].Type != "hardBreak" ||
		block.Content[2].Text != "line two" {
		t.Errorf("paragraph content: %+v", block.Content)
	}
}

func TestCodeFence(t *testing.T) {
	block := scanOne(t, "```py\nx=1\n```", ConfluenceStyle())
	if block.Type != "codeBlock" {
		t.Fatalf("type = %s", block.Type)
	}
	if lang := block.Attrs["language"]; lang != "py" {
		t.Errorf("language = %v", lang)
	}
	if block.Content[0].Text != "x=1" {
		t.Errorf("payload = %q", block.Content[0].Text)
	}
}

func TestCodeFencePreservesInterior(t *testing.T) {
	input := "```\n| not | a table |\n# not a heading\n\n  indented\n```"
	block := scanOne(t, input, ConfluenceStyle())
	want := "| not | a table |\n# not a heading\n\n  indented"
	if block.Content[0].Text != want {
		t.Errorf("payload = %q", block.Content[0].Text)
	}
}

func TestUnterminatedFenceConsumesToEnd(t *testing.T) {
	block := scanOne(t, "```go\nfunc main() {}", ConfluenceStyle())
	if block.Type != "codeBlock" || block.Content[0].Text != "func main() {}" {
		t.Errorf("unexpected block: %+v", block)
	}
}

func TestTableMinimumShape(t *testing.T) {
	// header + separator only: a table with one row and no data rows
	block := scanOne(t, "| a | b |\n|---|---|", ConfluenceStyle())
	if block.Type != "table" {
		t.Fatalf("type = %s", block.Type)
	}
	if len(block.Content) != 1 {
		t.Errorf("rows = %d, want 1", len(block.Content))
	}

	// a lone pipe row with no separator is not a table
	para := scanOne(t, "| a | b |", ConfluenceStyle())
	if para.Type != "paragraph" {
		t.Errorf("lone pipe row compiled to %s", para.Type)
	}
}

func TestTableHeaderKeepsSingleStrongMark(t *testing.T) {
	// a header cell already bolded by the author gets no second strong mark
	block := scanOne(t, "| **a** | b |\n|---|---|", ConfluenceStyle())
	for _, cell := range block.Content[0].Content {
		text := cell.Content[0].Content[0]
		strongs := 0
		for _, m := range text.Marks {
			if m.Type == "strong" {
				strongs++
			}
		}
		if strongs != 1 {
			t.Errorf("header cell %q carries %d strong marks, want 1", text.Text, strongs)
		}
	}
}

func TestTableShape(t *testing.T) {
	block := scanOne(t, "| a | b |\n|---|---|\n| 1 | 2 |", ConfluenceStyle())
	if len(block.Content) != 2 {
		t.Fatalf("rows = %d", len(block.Content))
	}

	header := block.Content[0]
	if len(header.Content) != 2 {
		t.Fatalf("header cells = %d", len(header.Content))
	}
	for _, cell := range header.Content {
		if cell.Type != "tableHeader" {
			t.Errorf("header cell type = %s", cell.Type)
		}
		text := cell.Content[0].Content[0]
		var bold bool
		for _, m := range text.Marks {
			bold = bold || m.Type == "strong"
		}
		if !bold {
			t.Errorf("header cell %q missing strong mark", text.Text)
		}
	}

	row := block.Content[1]
	for i, want := range []string{"1", "2"} {
		cell := row.Content[i]
		if cell.Type != "tableCell" {
			t.Errorf("cell type = %s", cell.Type)
		}
		if got := cell.Content[0].Content[0].Text; got != want {
			t.Errorf("cell %d = %q", i, got)
		}
	}

	if id, _ := block.Attrs["localId"].(string); id == "" {
		t.Error("confluence table missing localId")
	}
}

func TestJiraTableHasNoLocalID(t *testing.T) {
	block := scanOne(t, "| a |\n|---|", JiraStyle())
	if block.Attrs != nil {
		t.Errorf("jira table attrs = %v", block.Attrs)
	}
}

func TestBlockquoteRecursion(t *testing.T) {
	block := scanOne(t, "> ## Quoted\n> some text", ConfluenceStyle())
	if block.Type != "blockquote" {
		t.Fatalf("type = %s", block.Type)
	}
	if len(block.Content) != 2 {
		t.Fatalf("nested blocks = %d", len(block.Content))
	}
	if block.Content[0].Type != "heading" || block.Content[1].Type != "paragraph" {
		t.Errorf("nested types: %s, %s", block.Content[0].Type, block.Content[1].Type)
	}
}

func TestNestedBlockquote(t *testing.T) {
	block := scanOne(t, "> outer\n> > inner", ConfluenceStyle())
	if block.Content[1].Type != "blockquote" {
		t.Errorf("inner type = %s", block.Content[1].Type)
	}
}

func TestEmptyBlockquoteGetsPlaceholder(t *testing.T) {
	block := scanOne(t, ">", ConfluenceStyle())
	if len(block.Content) != 1 || block.Content[0].Type != "paragraph" {
		t.Errorf("empty quote content: %+v", block.Content)
	}
}

func TestRule(t *testing.T) {
	for _, input := range []string{"---", "----", "***"} {
		if block := scanOne(t, input, ConfluenceStyle()); block.Type != "rule" {
			t.Errorf("%q compiled to %s", input, block.Type)
		}
	}
}

func TestBlankLinesSeparateParagraphs(t *testing.T) {
	blocks := scan(t, "one\n\ntwo\n\n\nthree", ConfluenceStyle())
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d", len(blocks))
	}
}

func TestMetadataAdmonition(t *testing.T) {
	input := ":::metadata\nOwner: @dev@example.com\nDate: 2024-01-02\n:::"
	block := scanOne(t, input, ConfluenceStyle())
	if block.Type != "table" {
		t.Fatalf("type = %s", block.Type)
	}
	if len(block.Content) != 2 {
		t.Fatalf("rows = %d", len(block.Content))
	}

	owner := block.Content[0]
	key := owner.Content[0].Content[0].Content[0]
	if key.Text != "Owner" || key.Marks[0].Type != "strong" {
		t.Errorf("key cell: %+v", key)
	}
	value := owner.Content[1].Content[0].Content[0]
	if value.Type != "mention" {
		t.Errorf("value node type = %s", value.Type)
	}
}

func TestCalloutAdmonition(t *testing.T) {
	input := ":::callout title=\"Heads up\" color=red\nfirst paragraph\n\nsecond paragraph\n:::"
	block := scanOne(t, input, ConfluenceStyle())
	if block.Type != "table" {
		t.Fatalf("type = %s", block.Type)
	}
	if len(block.Content) != 3 {
		t.Fatalf("rows = %d", len(block.Content))
	}
	badge := block.Content[0].Content[0].Content[0].Content[0]
	if badge.Type != "status" {
		t.Fatalf("badge type = %s", badge.Type)
	}
	if badge.Attrs["text"] != "Heads up" || badge.Attrs["color"] != "red" {
		t.Errorf("badge attrs = %v", badge.Attrs)
	}
}

func TestContextAdmonition(t *testing.T) {
	block := scanOne(t, ":::context\nbackground info\n:::", ConfluenceStyle())
	badge := block.Content[0].Content[0].Content[0].Content[0]
	if badge.Type != "status" || badge.Attrs["color"] != "purple" {
		t.Errorf("context badge: %+v", badge)
	}
}

func TestTOCAdmonition(t *testing.T) {
	block := scanOne(t, ":::toc\n:::", ConfluenceStyle())
	if block.Type != "table" || len(block.Content) != 1 {
		t.Fatalf("toc shape: %+v", block)
	}
}

func TestUnknownAdmonitionFallsBackToParagraph(t *testing.T) {
	// jira does not register callout; the opener is plain paragraph text
	blocks := scan(t, ":::callout title=x\nbody\n:::", JiraStyle())
	for _, b := range blocks {
		if b.Type != "paragraph" {
			t.Errorf("unexpected block type %s", b.Type)
		}
	}
}

func TestUnterminatedAdmonitionConsumesToEnd(t *testing.T) {
	block := scanOne(t, ":::context\ntrailing body", ConfluenceStyle())
	if block.Type != "table" {
		t.Errorf("type = %s", block.Type)
	}
}

func TestParagraphStopsAtBlockStart(t *testing.T) {
	blocks := scan(t, "text line\n# Heading", ConfluenceStyle())
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d", len(blocks))
	}
	if blocks[0].Type != "paragraph" || blocks[1].Type != "heading" {
		t.Errorf("types: %s, %s", blocks[0].Type, blocks[1].Type)
	}
}

func TestMixedDocument(t *testing.T) {
	input := strings.Join([]string{
		"# Release notes",
		"",
		"Intro paragraph with **bold** text.",
		"",
		"- item one",
		"- item two",
		"",
		"```sh",
		"make release",
		"```",
		"",
		"---",
		"",
		"> closing quote",
	}, "\n")

	blocks := scan(t, input, ConfluenceStyle())
	wantTypes := []string{"heading", "paragraph", "bulletList", "codeBlock", "rule", "blockquote"}
	if len(blocks) != len(wantTypes) {
		t.Fatalf("blocks = %d, want %d", len(blocks), len(wantTypes))
	}
	for i, want := range wantTypes {
		if blocks[i].Type != want {
			t.Errorf("block %d = %s, want %s", i, blocks[i].Type, want)
		}
	}
}
