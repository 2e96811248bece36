package mdc

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
)

func newTestCompiler(style *Style) *Compiler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewCompiler(style, logger)
}

func TestCompileWrapsBlocksInDoc(t *testing.T) {
	doc := newTestCompiler(ConfluenceStyle()).Compile("# Title\n\nbody")
	if doc.Type != "doc" {
		t.Errorf("type = %s", doc.Type)
	}
	if doc.Version != 1 {
		t.Errorf("version = %d", doc.Version)
	}
	if len(doc.Content) != 2 {
		t.Errorf("blocks = %d", len(doc.Content))
	}
}

func TestCompileEmptyInputHasArrayContent(t *testing.T) {
	out, err := newTestCompiler(ConfluenceStyle()).CompileJSON("")
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	content, ok := decoded["content"].([]interface{})
	if !ok {
		t.Fatalf("content is %T, want array", decoded["content"])
	}
	if len(content) != 0 {
		t.Errorf("content = %v", content)
	}
}

func TestCompileStripsFrontmatter(t *testing.T) {
	doc := newTestCompiler(ConfluenceStyle()).Compile("---\ntitle: X\n---\nhello")
	if len(doc.Content) != 1 || doc.Content[0].Type != "paragraph" {
		t.Fatalf("content: %+v", doc.Content)
	}
	if doc.Content[0].Content[0].Text != "hello" {
		t.Errorf("text = %q", doc.Content[0].Content[0].Text)
	}
}

func TestCompileWarnsOnUnterminatedFrontmatter(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	compiler := NewCompiler(ConfluenceStyle(), logger)

	for name, input := range map[string]string{
		"lf":             "---\ntitle: x\nbody",
		"crlf":           "---\r\ntitle: x\r\nbody",
		"bare opener":    "---",
		"crlf delimiter": "---\r\nbody",
	} {
		hook.Reset()
		compiler.Compile(input)
		entry := hook.LastEntry()
		if entry == nil || entry.Level != logrus.WarnLevel ||
			!strings.Contains(entry.Message, "unterminated frontmatter") {
			t.Errorf("%s: expected unterminated-frontmatter warning, got %+v", name, entry)
		}
	}

	hook.Reset()
	compiler.Compile("---\ntitle: x\n---\nbody")
	for _, entry := range hook.AllEntries() {
		if strings.Contains(entry.Message, "unterminated frontmatter") {
			t.Errorf("terminated header warned: %+v", entry)
		}
	}
}

func TestCompileSameInputBothTargets(t *testing.T) {
	// the grammar is shared; only styling constants differ
	input := "## Head\n\n| a |\n|---|"
	conf := newTestCompiler(ConfluenceStyle()).Compile(input)
	jira := newTestCompiler(JiraStyle()).Compile(input)

	if len(conf.Content) != len(jira.Content) {
		t.Fatalf("block counts differ: %d vs %d", len(conf.Content), len(jira.Content))
	}
	for i := range conf.Content {
		if conf.Content[i].Type != jira.Content[i].Type {
			t.Errorf("block %d types differ: %s vs %s", i, conf.Content[i].Type, jira.Content[i].Type)
		}
	}
}
