package adf

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestValidateAcceptsCompiledDocument(t *testing.T) {
	doc := Doc([]*Node{
		Heading(1, MarkedText("Title", TextColor("#0052CC"))),
		Paragraph(Text("hello "), MarkedText("world", Strong())),
		BulletList(ListItem(Paragraph(Text("a"))), ListItem()),
		Paragraph(Status("Done", "green"), Mention("dev@example.com")),
	})

	result := Validate(mustJSON(t, doc))
	if !result.Valid {
		t.Fatalf("unexpected violations: %v", result.Errors)
	}
	if result.NodeCount < 10 {
		t.Errorf("node count = %d", result.NodeCount)
	}
}

func TestValidateVersionMismatch(t *testing.T) {
	result := Validate([]byte(`{"version": 2, "type": "doc", "content": []}`))
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "version") {
		t.Errorf("error does not name the version: %q", result.Errors[0])
	}
}

func TestValidateMalformedJSONShortCircuits(t *testing.T) {
	result := Validate([]byte(`{"version": 1,`))
	if result.Valid || len(result.Errors) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.NodeCount != 0 {
		t.Errorf("node count = %d", result.NodeCount)
	}
}

func TestValidateNonObjectShortCircuits(t *testing.T) {
	for _, input := range []string{`[]`, `"doc"`, `42`} {
		result := Validate([]byte(input))
		if result.Valid || len(result.Errors) != 1 {
			t.Errorf("%s: result = %+v", input, result)
		}
	}
}

func TestValidateAccumulatesIndependentViolations(t *testing.T) {
	// four independent violations: version, type, unknown node type,
	// status without localId
	input := `{
		"version": 2,
		"type": "page",
		"content": [
			{"type": "panel", "content": []},
			{"type": "paragraph", "content": [
				{"type": "status", "attrs": {"text": "Done", "color": "green"}}
			]}
		]
	}`
	result := Validate([]byte(input))
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if len(result.Errors) < 4 {
		t.Errorf("errors = %v, want at least 4", result.Errors)
	}
}

func TestValidateMissingContent(t *testing.T) {
	result := Validate([]byte(`{"version": 1, "type": "doc"}`))
	if result.Valid {
		t.Fatal("expected invalid")
	}
	found := false
	for _, e := range result.Errors {
		found = found || strings.Contains(e, "content")
	}
	if !found {
		t.Errorf("no content violation in %v", result.Errors)
	}
}

func TestValidateNonArrayContent(t *testing.T) {
	result := Validate([]byte(`{"version": 1, "type": "doc", "content": "text"}`))
	if result.Valid {
		t.Fatal("expected invalid")
	}
}

func TestValidateNestedUnknownType(t *testing.T) {
	input := `{"version": 1, "type": "doc", "content": [
		{"type": "blockquote", "content": [
			{"type": "paragraph", "content": [
				{"type": "sparkle"}
			]}
		]}
	]}`
	result := Validate([]byte(input))
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "sparkle") {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestValidateStatusRequiresLocalID(t *testing.T) {
	doc := Doc([]*Node{Paragraph(Status("Done", "green"))})
	data := mustJSON(t, doc)

	if result := Validate(data); !result.Valid {
		t.Fatalf("compiled status rejected: %v", result.Errors)
	}

	stripped := strings.Replace(string(data), `"localId"`, `"wasId"`, 1)
	result := Validate([]byte(stripped))
	if result.Valid {
		t.Fatal("status without localId accepted")
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	input := []byte(`{"version": 1, "type": "doc", "content": []}`)
	copied := append([]byte(nil), input...)
	Validate(input)
	if string(input) != string(copied) {
		t.Error("validator mutated its input")
	}
}

func TestValidationResultErrorsAlwaysArray(t *testing.T) {
	result := Validate([]byte(`{"version": 1, "type": "doc", "content": []}`))
	out := mustJSON(t, result)
	if !strings.Contains(string(out), `"errors":[]`) {
		t.Errorf("serialized result = %s", out)
	}
}
