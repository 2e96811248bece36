package mdc

import (
	"regexp"
	"strings"

	"github.com/docforge/docforge-mcp/pkg/adf"
)

// Block-level patterns. Classification runs in a fixed priority order at
// every line boundary (fence → admonition → rule → blockquote → heading →
// table → bullet → ordered → blank → paragraph), so a table-looking line
// inside an open fence is never misclassified.
var blockPatterns = struct {
	fenceOpen      *regexp.Regexp
	fenceClose     *regexp.Regexp
	admonitionOpen *regexp.Regexp
	admonitionEnd  *regexp.Regexp
	rule           *regexp.Regexp
	quote          *regexp.Regexp
	heading        *regexp.Regexp
	tableRow       *regexp.Regexp
	tableSep       *regexp.Regexp
	bullet         *regexp.Regexp
	ordered        *regexp.Regexp
	continuation   *regexp.Regexp
	attrPair       *regexp.Regexp
	metadataPair   *regexp.Regexp
}{
	fenceOpen:      regexp.MustCompile("^```[ \t]*([^`\\s]*)[ \t]*$"),
	fenceClose:     regexp.MustCompile("^```[ \t]*$"),
	admonitionOpen: regexp.MustCompile(`^:::([a-z]+)(?:[ \t]+(.*))?$`),
	admonitionEnd:  regexp.MustCompile(`^:::[ \t]*$`),
	rule:           regexp.MustCompile(`^(?:-{3,}|\*{3,})[ \t]*$`),
	quote:          regexp.MustCompile(`^>[ ]?(.*)$`),
	heading:        regexp.MustCompile(`^(#{1,6})(!)?[ \t]+(.*)$`),
	tableRow:       regexp.MustCompile(`^\|.*\|[ \t]*$`),
	tableSep:       regexp.MustCompile(`^\|(?:[ \t]*:?-+:?[ \t]*\|)+[ \t]*$`),
	bullet:         regexp.MustCompile(`^-(?:[ \t]+(.*))?[ \t]*$`),
	ordered:        regexp.MustCompile(`^[0-9]+\.[ \t]+(.*)$`),
	continuation:   regexp.MustCompile(`^[ \t]{2,}(\S.*)$`),
	attrPair:       regexp.MustCompile(`([a-z]+)=(?:"([^"]*)"|(\S+))`),
	metadataPair:   regexp.MustCompile(`^([^:]+):[ \t]*(.*)$`),
}

// scanBlocks converts an ordered line sequence into an ordered block-node
// list. It is a pure function of its input, so blockquotes can recurse into
// it safely.
func scanBlocks(lines []string, style *Style) []*adf.Node {
	blocks := []*adf.Node{}
	for i := 0; i < len(lines); {
		line := lines[i]
		switch kind := classify(lines, i, style); kind {
		case lineFence:
			node, next := scanFence(lines, i)
			blocks = append(blocks, node)
			i = next
		case lineAdmonition:
			node, next := scanAdmonition(lines, i, style)
			blocks = append(blocks, node)
			i = next
		case lineRule:
			blocks = append(blocks, adf.Rule())
			i++
		case lineQuote:
			node, next := scanBlockquote(lines, i, style)
			blocks = append(blocks, node)
			i = next
		case lineHeading:
			blocks = append(blocks, buildHeading(line, style))
			i++
		case lineTable:
			node, next := scanTable(lines, i, style)
			blocks = append(blocks, node)
			i = next
		case lineBullet, lineOrdered:
			node, next := scanList(lines, i, kind, style)
			blocks = append(blocks, node)
			i = next
		case lineBlank:
			i++
		default:
			node, next := scanParagraph(lines, i, style)
			blocks = append(blocks, node)
			i = next
		}
	}
	return blocks
}

type lineKind int

const (
	lineParagraph lineKind = iota
	lineFence
	lineAdmonition
	lineRule
	lineQuote
	lineHeading
	lineTable
	lineBullet
	lineOrdered
	lineBlank
)

// classify decides what kind of run starts at lines[i]. A pipe row only
// counts as a table when the next line is a separator; an admonition opener
// only counts when the style registers the name. Everything that fails its
// extra condition falls through to paragraph.
func classify(lines []string, i int, style *Style) lineKind {
	line := lines[i]
	switch {
	case blockPatterns.fenceOpen.MatchString(line):
		return lineFence
	case blockPatterns.admonitionOpen.MatchString(line):
		name := blockPatterns.admonitionOpen.FindStringSubmatch(line)[1]
		if style.Admonitions[name] {
			return lineAdmonition
		}
		return lineParagraph
	case blockPatterns.rule.MatchString(line):
		return lineRule
	case blockPatterns.quote.MatchString(line):
		return lineQuote
	case blockPatterns.heading.MatchString(line):
		return lineHeading
	case blockPatterns.tableRow.MatchString(line):
		if i+1 < len(lines) && blockPatterns.tableSep.MatchString(lines[i+1]) {
			return lineTable
		}
		return lineParagraph
	case blockPatterns.bullet.MatchString(line):
		return lineBullet
	case blockPatterns.ordered.MatchString(line):
		return lineOrdered
	case strings.TrimSpace(line) == "":
		return lineBlank
	default:
		return lineParagraph
	}
}

// scanFence consumes a fenced code block. An unterminated fence runs to end
// of input; that is not an error.
func scanFence(lines []string, i int) (*adf.Node, int) {
	language := blockPatterns.fenceOpen.FindStringSubmatch(lines[i])[1]
	var body []string
	j := i + 1
	for ; j < len(lines); j++ {
		if blockPatterns.fenceClose.MatchString(lines[j]) {
			j++
			break
		}
		body = append(body, lines[j])
	}
	return adf.CodeBlock(language, strings.Join(body, "\n")), j
}

// scanBlockquote strips the quote marker from each contiguous quoted line
// and recurses into the scanner on the dequoted lines.
func scanBlockquote(lines []string, i int, style *Style) (*adf.Node, int) {
	var inner []string
	j := i
	for ; j < len(lines); j++ {
		m := blockPatterns.quote.FindStringSubmatch(lines[j])
		if m == nil {
			break
		}
		inner = append(inner, m[1])
	}
	return adf.Blockquote(scanBlocks(inner, style)), j
}

func buildHeading(line string, style *Style) *adf.Node {
	m := blockPatterns.heading.FindStringSubmatch(line)
	level := len(m[1])
	color := style.HeadingColors[level]
	if m[2] == "!" {
		color = style.AccentColor
	}
	inline := tokenizeInline(m[3], style)
	colorText(inline, color)
	return adf.Heading(level, inline...)
}

// colorText applies a textColor mark to the text nodes of an inline
// sequence, leaving non-text nodes alone.
func colorText(inline []*adf.Node, color string) {
	if color == "" {
		return
	}
	for _, node := range inline {
		if node.Type == "text" {
			node.Marks = append(node.Marks, adf.TextColor(color))
		}
	}
}

// scanTable consumes a header row, a separator, and any contiguous data
// rows. The caller has already verified the separator exists.
func scanTable(lines []string, i int, style *Style) (*adf.Node, int) {
	rows := []*adf.Node{headerRow(lines[i], style)}
	j := i + 2 // skip header and separator
	for ; j < len(lines); j++ {
		if !blockPatterns.tableRow.MatchString(lines[j]) {
			break
		}
		var cells []*adf.Node
		for _, raw := range splitCells(lines[j]) {
			cells = append(cells, adf.TableCell(adf.Paragraph(tokenizeInline(raw, style)...)))
		}
		rows = append(rows, adf.TableRow(cells...))
	}
	return adf.Table(style.TableLocalIDs, rows...), j
}

func headerRow(line string, style *Style) *adf.Node {
	var cells []*adf.Node
	for _, raw := range splitCells(line) {
		inline := tokenizeInline(raw, style)
		for _, node := range inline {
			if node.Type == "text" && !hasMark(node, "strong") {
				node.Marks = append(node.Marks, adf.Strong())
			}
		}
		cells = append(cells, adf.TableHeader(adf.Paragraph(inline...)))
	}
	return adf.TableRow(cells...)
}

func hasMark(node *adf.Node, markType string) bool {
	for _, mark := range node.Marks {
		if mark.Type == markType {
			return true
		}
	}
	return false
}

// splitCells splits a pipe-delimited row, dropping the leading and trailing
// empty fields produced by the bounding pipes.
func splitCells(line string) []string {
	fields := strings.Split(strings.TrimRight(line, " \t"), "|")
	if len(fields) > 0 && fields[0] == "" {
		fields = fields[1:]
	}
	if len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	cells := make([]string, len(fields))
	for i, f := range fields {
		cells[i] = strings.TrimSpace(f)
	}
	return cells
}

// scanList consumes a run of list-marker lines plus indented continuation
// lines, which join the previous item's text with a single space.
func scanList(lines []string, i int, kind lineKind, style *Style) (*adf.Node, int) {
	var items []string
	j := i
	for ; j < len(lines); j++ {
		line := lines[j]
		var m []string
		if kind == lineBullet {
			m = blockPatterns.bullet.FindStringSubmatch(line)
		} else {
			m = blockPatterns.ordered.FindStringSubmatch(line)
		}
		if m != nil {
			items = append(items, strings.TrimSpace(m[1]))
			continue
		}
		if c := blockPatterns.continuation.FindStringSubmatch(line); c != nil && len(items) > 0 {
			items[len(items)-1] = strings.TrimSpace(items[len(items)-1] + " " + c[1])
			continue
		}
		break
	}

	listItems := make([]*adf.Node, len(items))
	for k, text := range items {
		if text == "" {
			listItems[k] = adf.ListItem()
			continue
		}
		listItems[k] = adf.ListItem(adf.Paragraph(tokenizeInline(text, style)...))
	}
	if kind == lineBullet {
		return adf.BulletList(listItems...), j
	}
	return adf.OrderedList(listItems...), j
}

// scanParagraph collects a maximal run of otherwise-unclassified non-blank
// lines and tokenizes them as a unit, inserting hardBreak nodes between the
// original source lines.
func scanParagraph(lines []string, i int, style *Style) (*adf.Node, int) {
	var run []string
	j := i
	for ; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "" {
			break
		}
		if j > i && classify(lines, j, style) != lineParagraph {
			break
		}
		run = append(run, lines[j])
	}
	return buildParagraph(run, style), j
}

func buildParagraph(run []string, style *Style) *adf.Node {
	var inline []*adf.Node
	for k, line := range run {
		if k > 0 {
			inline = append(inline, adf.HardBreak())
		}
		inline = append(inline, tokenizeInline(line, style)...)
	}
	return adf.Paragraph(inline...)
}

// scanAdmonition consumes a :::name block through its closing marker (or end
// of input) and lowers it to the block-specific table shape. Admonitions are
// sugar over the table node; the output vocabulary stays closed.
func scanAdmonition(lines []string, i int, style *Style) (*adf.Node, int) {
	m := blockPatterns.admonitionOpen.FindStringSubmatch(lines[i])
	name, attrs := m[1], parseAttrs(m[2])

	var inner []string
	j := i + 1
	for ; j < len(lines); j++ {
		if blockPatterns.admonitionEnd.MatchString(lines[j]) {
			j++
			break
		}
		inner = append(inner, lines[j])
	}

	switch name {
	case admonitionMetadata:
		return buildMetadataTable(inner, style), j
	case admonitionTOC:
		return buildTOCTable(style), j
	case admonitionCallout:
		return buildCalloutTable(attrs, inner, style), j
	default: // admonitionContext; classify admits only registered names
		return buildContextTable(inner, style), j
	}
}

// parseAttrs extracts key=value pairs (values optionally double-quoted) from
// an admonition opening line.
func parseAttrs(raw string) map[string]string {
	attrs := map[string]string{}
	for _, m := range blockPatterns.attrPair.FindAllStringSubmatch(raw, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		attrs[m[1]] = value
	}
	return attrs
}

// buildMetadataTable turns "Key: Value" interior lines into a two-column
// table. Lines without a colon get a best-effort single-cell row rather than
// failing the compile.
func buildMetadataTable(inner []string, style *Style) *adf.Node {
	var rows []*adf.Node
	for _, line := range inner {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := blockPatterns.metadataPair.FindStringSubmatch(line); m != nil {
			key := strings.TrimSpace(m[1])
			rows = append(rows, adf.TableRow(
				adf.TableHeader(adf.Paragraph(adf.MarkedText(key, adf.Strong()))),
				adf.TableCell(adf.Paragraph(tokenizeInline(strings.TrimSpace(m[2]), style)...)),
			))
			continue
		}
		rows = append(rows, adf.TableRow(
			adf.TableCell(adf.Paragraph(tokenizeInline(strings.TrimSpace(line), style)...)),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, adf.TableRow(adf.TableCell()))
	}
	return adf.Table(style.TableLocalIDs, rows...)
}

func buildTOCTable(style *Style) *adf.Node {
	return adf.Table(style.TableLocalIDs, adf.TableRow(
		adf.TableCell(adf.Paragraph(adf.MarkedText("Table of contents", adf.Em()))),
	))
}

// buildCalloutTable emits a header row carrying the callout's status badge
// followed by one row per interior paragraph.
func buildCalloutTable(attrs map[string]string, inner []string, style *Style) *adf.Node {
	title := attrs["title"]
	if title == "" {
		title = "Note"
	}
	rows := []*adf.Node{adf.TableRow(
		adf.TableHeader(adf.Paragraph(adf.Status(title, statusColor(attrs["color"])))),
	)}
	rows = append(rows, paragraphRows(inner, style)...)
	return adf.Table(style.TableLocalIDs, rows...)
}

// buildContextTable is the fixed purple variant of the callout shape.
func buildContextTable(inner []string, style *Style) *adf.Node {
	rows := []*adf.Node{adf.TableRow(
		adf.TableHeader(adf.Paragraph(adf.Status("CONTEXT", "purple"))),
	)}
	rows = append(rows, paragraphRows(inner, style)...)
	return adf.Table(style.TableLocalIDs, rows...)
}

// paragraphRows partitions interior lines on blank-line boundaries into
// paragraphs, each inline-tokenized and wrapped in its own table row.
func paragraphRows(inner []string, style *Style) []*adf.Node {
	var rows []*adf.Node
	var run []string
	flush := func() {
		if len(run) == 0 {
			return
		}
		rows = append(rows, adf.TableRow(adf.TableCell(buildParagraph(run, style))))
		run = nil
	}
	for _, line := range inner {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		run = append(run, line)
	}
	flush()
	return rows
}
