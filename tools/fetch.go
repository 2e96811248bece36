package tools

import (
	"fmt"
	"io"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docforge/docforge-mcp/services"
	"github.com/docforge/docforge-mcp/util"
)

func RegisterFetchTool(s *server.MCPServer) {
	tool := mcp.NewTool("get_web_content",
		mcp.WithDescription("Fetches content from a given HTTP/HTTPS URL and converts it to markdown, suitable as input for markdown_to_adf or the page tools"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The complete HTTP/HTTPS URL to fetch content from (e.g., https://example.com)"),
		),
	)

	s.AddTool(tool, util.ErrorGuard(util.AdaptLegacyHandler(fetchHandler)))
}

func fetchHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	url, ok := arguments["url"].(string)
	if !ok {
		return nil, fmt.Errorf("url must be a string")
	}

	resp, err := services.DefaultHttpClient().Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %s", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %s", err)
	}

	mdContent, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to convert HTML to Markdown: %v", err)
	}

	return mcp.NewToolResultText(mdContent), nil
}
