package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/docforge/docforge-mcp/pkg/adf"
	"github.com/docforge/docforge-mcp/pkg/mdc"
	"github.com/docforge/docforge-mcp/services"
	"github.com/docforge/docforge-mcp/util"
)

// RegisterCompilerTool registers the markdown compiler and the document
// validator as standalone tools, independent of any Atlassian credentials.
func RegisterCompilerTool(s *server.MCPServer) {
	compileTool := mcp.NewTool("markdown_to_adf",
		mcp.WithDescription("Compile the markdown dialect into an ADF document tree. Frontmatter (--- delimited) is stripped before compilation"),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Markdown source text")),
		mcp.WithString("target", mcp.Description("Target platform: confluence (default) or jira")),
	)
	s.AddTool(compileTool, util.ErrorGuard(util.AdaptLegacyHandler(compileHandler)))

	validateTool := mcp.NewTool("adf_validate",
		mcp.WithDescription("Validate an ADF document (JSON) against the data-model invariants. Reports all violations and a recognized-node count"),
		mcp.WithString("document", mcp.Required(), mcp.Description("The document as a JSON string")),
	)
	s.AddTool(validateTool, util.ErrorGuard(util.AdaptLegacyHandler(validateHandler)))
}

// compilerFor builds a compiler whose issue-key links point at the
// configured Atlassian site, when one is configured.
func compilerFor(target string, logger *logrus.Logger) *mdc.Compiler {
	style := mdc.StyleFor(target)
	style.IssueBaseURL = services.AtlassianHost()
	if style.IssueBaseURL == "" {
		style.IssueKeyLinks = false
	}
	return mdc.NewCompiler(style, logger)
}

func compileHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	markdown, ok := arguments["markdown"].(string)
	if !ok {
		return nil, fmt.Errorf("markdown argument is required")
	}
	target, _ := arguments["target"].(string)

	output, err := compilerFor(target, nil).CompileJSON(markdown)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %v", err)
	}
	return mcp.NewToolResultText(string(output)), nil
}

func validateHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	document, ok := arguments["document"].(string)
	if !ok {
		return nil, fmt.Errorf("document argument is required")
	}

	result := adf.Validate([]byte(document))
	output, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize validation result: %v", err)
	}
	return mcp.NewToolResultText(string(output)), nil
}
