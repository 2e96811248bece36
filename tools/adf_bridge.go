package tools

import (
	"github.com/ctreminiom/go-atlassian/pkg/infra/models"

	"github.com/docforge/docforge-mcp/pkg/adf"
)

// toCommentNode converts a compiled document tree into the go-atlassian
// scheme the typed write APIs accept. The scheme's own marshalling drops
// empty content arrays (omitempty), so anything serialized by hand — page
// bodies, resolved descriptions — must marshal the local Node instead and
// only then be decoded into the scheme.
func toCommentNode(node *adf.Node) *models.CommentNodeScheme {
	if node == nil {
		return nil
	}

	scheme := &models.CommentNodeScheme{
		Version: node.Version,
		Type:    node.Type,
		Text:    node.Text,
	}

	if node.Attrs != nil {
		scheme.Attrs = make(map[string]interface{}, len(node.Attrs))
		for k, v := range node.Attrs {
			scheme.Attrs[k] = v
		}
	}

	for _, mark := range node.Marks {
		scheme.Marks = append(scheme.Marks, &models.MarkScheme{
			Type:  mark.Type,
			Attrs: mark.Attrs,
		})
	}

	if node.Content != nil {
		scheme.Content = make([]*models.CommentNodeScheme, 0, len(node.Content))
		for _, child := range node.Content {
			scheme.Content = append(scheme.Content, toCommentNode(child))
		}
	}

	return scheme
}

// fromCommentNode converts a fetched page body into the local model so it
// can be rendered for display.
func fromCommentNode(node *models.CommentNodeScheme) *adf.Node {
	if node == nil {
		return nil
	}

	local := &adf.Node{
		Type:    node.Type,
		Version: node.Version,
		Text:    node.Text,
	}

	if node.Attrs != nil {
		local.Attrs = make(map[string]interface{}, len(node.Attrs))
		for k, v := range node.Attrs {
			local.Attrs[k] = v
		}
	}

	for _, mark := range node.Marks {
		if mark == nil {
			continue
		}
		local.Marks = append(local.Marks, &adf.Mark{Type: mark.Type, Attrs: mark.Attrs})
	}

	for _, child := range node.Content {
		if converted := fromCommentNode(child); converted != nil {
			local.Content = append(local.Content, converted)
		}
	}

	return local
}
