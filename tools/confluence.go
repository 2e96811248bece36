package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/ctreminiom/go-atlassian/pkg/infra/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/docforge/docforge-mcp/pkg/adf"
	"github.com/docforge/docforge-mcp/services"
	"github.com/docforge/docforge-mcp/util"
)

// RegisterConfluenceTool is a function that registers the confluence tools to the server
func RegisterConfluenceTool(s *server.MCPServer) {
	tool := mcp.NewTool("confluence_search",
		mcp.WithDescription("Search Confluence pages by title"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Title text to search for")),
	)
	s.AddTool(tool, util.ErrorGuard(confluenceSearchHandler))

	pageTool := mcp.NewTool("confluence_get_page",
		mcp.WithDescription("Get Confluence page content, rendered from its document tree to readable markdown"),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Confluence page ID")),
	)
	s.AddTool(pageTool, util.ErrorGuard(confluencePageHandler))

	createPageTool := mcp.NewTool("confluence_create_page",
		mcp.WithDescription("Create a Confluence page from markdown-dialect source. A leading frontmatter block (--- delimited, keys: title, space, parent) supplies page metadata; the body is compiled to the page document format and user mentions are resolved before publishing"),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Markdown source, optionally with a frontmatter header")),
		mcp.WithString("space_id", mcp.Description("Space where the page is created (falls back to the frontmatter 'space' key)")),
		mcp.WithString("title", mcp.Description("Page title (falls back to the frontmatter 'title' key)")),
		mcp.WithString("parent_id", mcp.Description("ID of the parent page (optional)")),
	)
	s.AddTool(createPageTool, util.ErrorGuard(confluenceCreatePageHandler))

	updatePageTool := mcp.NewTool("confluence_update_page",
		mcp.WithDescription("Replace a Confluence page's content with freshly compiled markdown-dialect source"),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("ID of the page to update")),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("New page source in the markdown dialect")),
		mcp.WithString("title", mcp.Description("New title of the page (optional)")),
		mcp.WithString("version_number", mcp.Description("Version number for optimistic locking (optional)")),
	)
	s.AddTool(updatePageTool, util.ErrorGuard(confluenceUpdatePageHandler))

	compareTool := mcp.NewTool("confluence_compare_versions",
		mcp.WithDescription("Compare two versions of a Confluence page"),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Confluence page ID")),
		mcp.WithString("source_version", mcp.Required(), mcp.Description("Source version number")),
		mcp.WithString("target_version", mcp.Required(), mcp.Description("Target version number")),
	)
	s.AddTool(compareTool, util.ErrorGuard(confluenceCompareHandler))
}

// pageEnvelope is the frontmatter header the create tool understands. The
// compiler strips the same header before building the body, so metadata
// never leaks into page content.
type pageEnvelope struct {
	Title  string   `yaml:"title"`
	Space  string   `yaml:"space"`
	Parent string   `yaml:"parent"`
	Labels []string `yaml:"labels"`
}

func parseEnvelope(markdown string) pageEnvelope {
	var env pageEnvelope
	// a missing or malformed header is fine; args take precedence anyway
	_, _ = frontmatter.Parse(strings.NewReader(markdown), &env)
	return env
}

// compilePageBody compiles markdown to the page document format, serializes
// it, and resolves mention placeholders. Returns the payload ready for the
// write API. The body is marshalled from the local node model, not the
// go-atlassian scheme, so empty containers keep their content arrays.
func compilePageBody(ctx context.Context, markdown string) (string, error) {
	doc := compilerFor("confluence", nil).Compile(markdown)

	bodyValue, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document body: %v", err)
	}

	resolved, err := resolveMentions(ctx, bodyValue)
	if err != nil {
		return "", err
	}
	return string(resolved), nil
}

// confluenceSearchHandler is a handler for the confluence search tool
func confluenceSearchHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.ConfluenceClient()

	query, ok := arguments["query"].(string)
	if !ok {
		return nil, fmt.Errorf("query argument is required")
	}

	options := &models.PageOptionsScheme{
		Sort:       "created-date",
		Status:     []string{"current"},
		Title:      query,
		BodyFormat: "atlas_doc_format",
	}

	var results strings.Builder
	var cursor string

	for {
		chunk, response, err := client.Page.Gets(ctx, options, cursor, 20)
		if err != nil {
			if response != nil {
				return nil, fmt.Errorf("search failed with status %d: %v", response.Code, err)
			}
			return nil, fmt.Errorf("search failed: %v", err)
		}

		for _, page := range chunk.Results {
			results.WriteString(fmt.Sprintf(`
Title: %s
ID: %s
Status: %s
SpaceId: %s
Summary: %s
----------------------------------------
`,
				page.Title,
				page.ID,
				page.Status,
				page.SpaceID,
				pageSummary(page),
			))
		}

		if chunk.Links == nil || chunk.Links.Next == "" {
			break
		}

		values, err := url.ParseQuery(chunk.Links.Next)
		if err != nil {
			return nil, fmt.Errorf("failed to parse next page URL: %v", err)
		}

		if _, hasCursor := values["cursor"]; hasCursor {
			cursor = values["cursor"][0]
		} else {
			break
		}
	}

	if results.Len() == 0 {
		results.WriteString("No results found")
	}

	return mcp.NewToolResultText(results.String()), nil
}

func confluencePageHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.ConfluenceClient()

	pageID, ok := arguments["page_id"].(string)
	if !ok {
		return nil, fmt.Errorf("page_id argument is required")
	}

	pageIDInt, err := strconv.Atoi(pageID)
	if err != nil {
		return nil, fmt.Errorf("invalid page ID: %v", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	page, response, err := client.Page.Get(ctxWithTimeout, pageIDInt, "atlas_doc_format", false, -1)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to get page: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to get page: %v", err)
	}

	if page == nil {
		return nil, fmt.Errorf("no content returned for page ID: %s", pageID)
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Title: %s\n", page.Title))
	result.WriteString(fmt.Sprintf("ID: %s\n", page.ID))
	result.WriteString(fmt.Sprintf("Space ID: %s\n", page.SpaceID))
	result.WriteString(fmt.Sprintf("Status: %s\n", page.Status))

	if page.Version != nil {
		result.WriteString(fmt.Sprintf("Version: %d (Created: %s)\n",
			page.Version.Number,
			page.Version.CreatedAt,
		))
	}

	result.WriteString("\nContent:\n")
	result.WriteString("----------------------------------------\n")
	result.WriteString(renderPage(page))
	result.WriteString("\n----------------------------------------\n")

	return mcp.NewToolResultText(result.String()), nil
}

// renderPage flattens a page's document body into readable markdown.
func renderPage(page *models.PageScheme) string {
	if page == nil || page.Body == nil || page.Body.AtlasDocFormat == nil {
		return ""
	}

	body := &models.CommentNodeScheme{}
	if err := json.Unmarshal([]byte(page.Body.AtlasDocFormat.Value), body); err != nil {
		return ""
	}

	return adf.Render(fromCommentNode(body))
}

// pageSummary flattens a page body to a single markup-free line for search
// listings. Truncated, best effort; an unparsable body yields an empty
// summary rather than an error.
func pageSummary(page *models.PageScheme) string {
	if page == nil || page.Body == nil || page.Body.AtlasDocFormat == nil {
		return ""
	}

	body := &models.CommentNodeScheme{}
	if err := json.Unmarshal([]byte(page.Body.AtlasDocFormat.Value), body); err != nil {
		return ""
	}

	summary := adf.RenderText(fromCommentNode(body))
	if runes := []rune(summary); len(runes) > 120 {
		return string(runes[:120]) + "..."
	}
	return summary
}

// confluenceCreatePageHandler compiles markdown source and publishes it as a
// new page.
func confluenceCreatePageHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.ConfluenceClient()

	markdown, ok := arguments["markdown"].(string)
	if !ok {
		return nil, fmt.Errorf("markdown argument is required")
	}

	env := parseEnvelope(markdown)

	title, _ := arguments["title"].(string)
	if title == "" {
		title = env.Title
	}
	if title == "" {
		return nil, fmt.Errorf("title is required, either as an argument or a frontmatter 'title' key")
	}

	spaceID, _ := arguments["space_id"].(string)
	if spaceID == "" {
		spaceID = env.Space
	}
	if spaceID == "" {
		return nil, fmt.Errorf("space_id is required, either as an argument or a frontmatter 'space' key")
	}

	bodyValue, err := compilePageBody(ctx, markdown)
	if err != nil {
		return nil, err
	}

	payload := &models.PageCreatePayloadScheme{
		SpaceID: spaceID,
		Status:  "current",
		Title:   title,
		Body: &models.PageBodyRepresentationScheme{
			Representation: "atlas_doc_format",
			Value:          bodyValue,
		},
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	page, response, err := client.Page.Create(ctxWithTimeout, payload)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to create page: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to create page: %v", err)
	}

	result := fmt.Sprintf("Page created successfully!\nTitle: %s\nID: %s\nStatus: %s\nVersion: %d",
		page.Title,
		page.ID,
		page.Status,
		page.Version.Number,
	)

	return mcp.NewToolResultText(result), nil
}

// confluenceUpdatePageHandler recompiles the provided source and replaces
// the page body with it.
func confluenceUpdatePageHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.ConfluenceClient()

	pageID, ok := arguments["page_id"].(string)
	if !ok {
		return nil, fmt.Errorf("page_id argument is required")
	}

	pageIDInt, err := strconv.Atoi(pageID)
	if err != nil {
		return nil, fmt.Errorf("invalid page ID: %v", err)
	}

	markdown, ok := arguments["markdown"].(string)
	if !ok {
		return nil, fmt.Errorf("markdown argument is required")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	// current version is needed for optimistic locking
	page, response, err := client.Page.Get(ctxWithTimeout, pageIDInt, "atlas_doc_format", false, 0)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to get current page: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to get current page: %v", err)
	}

	bodyValue, err := compilePageBody(ctx, markdown)
	if err != nil {
		return nil, err
	}

	payload := &models.PageUpdatePayloadScheme{
		ID: pageIDInt,
		SpaceID: func() int {
			spaceIDInt, err := strconv.Atoi(page.SpaceID)
			if err != nil {
				return 0
			}
			return spaceIDInt
		}(),
		Status: "current",
		Title:  page.Title,
		Body: &models.PageBodyRepresentationScheme{
			Representation: "atlas_doc_format",
			Value:          bodyValue,
		},
		Version: &models.PageUpdatePayloadVersionScheme{
			Number:  page.Version.Number + 1,
			Message: fmt.Sprintf("Updated to version %d", page.Version.Number+1),
		},
	}

	if title, ok := arguments["title"].(string); ok && title != "" {
		payload.Title = title
	}

	if versionStr, ok := arguments["version_number"].(string); ok && versionStr != "" {
		version, err := strconv.Atoi(versionStr)
		if err != nil {
			return nil, fmt.Errorf("invalid version_number: %v", err)
		}
		payload.Version.Number = version
	}

	updatedPage, response, err := client.Page.Update(ctx, pageIDInt, payload)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to update page: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to update page: %v", err)
	}

	result := fmt.Sprintf("Page updated successfully!\nTitle: %s\nID: %s\nStatus: %s\nVersion: %d",
		updatedPage.Title,
		updatedPage.ID,
		updatedPage.Status,
		updatedPage.Version.Number,
	)

	return mcp.NewToolResultText(result), nil
}

func confluenceCompareHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.ConfluenceClient()
	if client == nil {
		return nil, fmt.Errorf("failed to get Confluence client")
	}

	pageID, ok := arguments["page_id"].(string)
	if !ok || pageID == "" {
		return nil, fmt.Errorf("valid page_id argument is required")
	}

	pageIDInt, err := strconv.Atoi(pageID)
	if err != nil {
		return nil, fmt.Errorf("invalid page ID: %v", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	latestPage, response, err := client.Page.Get(ctxWithTimeout, pageIDInt, "atlas_doc_format", false, -1)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to get latest version: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to get latest version: %v", err)
	}

	if latestPage == nil || latestPage.Version == nil {
		return nil, fmt.Errorf("failed to get page version information")
	}

	targetNum := latestPage.Version.Number
	sourceNum := targetNum - 1

	if sourceVersion, ok := arguments["source_version"].(string); ok && sourceVersion != "" {
		if num, err := strconv.Atoi(sourceVersion); err == nil && num > 0 {
			sourceNum = num
		}
	}
	if targetVersion, ok := arguments["target_version"].(string); ok && targetVersion != "" {
		if num, err := strconv.Atoi(targetVersion); err == nil && num > 0 {
			targetNum = num
		}
	}

	if sourceNum <= 0 || targetNum <= 0 || sourceNum >= targetNum {
		return nil, fmt.Errorf("invalid version numbers: source=%d, target=%d", sourceNum, targetNum)
	}

	sourceContent, sourceResp, err := client.Page.Get(ctx, pageIDInt, "atlas_doc_format", false, sourceNum)
	if err != nil {
		if sourceResp != nil {
			return nil, fmt.Errorf("failed to get source version: %s (endpoint: %s)", sourceResp.Bytes.String(), sourceResp.Endpoint)
		}
		return nil, fmt.Errorf("failed to get source version: %v", err)
	}

	diffs := semanticDiff(renderPage(sourceContent), renderPage(latestPage))

	var comparison strings.Builder
	comparison.WriteString(fmt.Sprintf("Comparing Page: %s (ID: %d)\n", latestPage.Title, pageIDInt))
	comparison.WriteString(fmt.Sprintf("Comparing versions: %d → %d\n\n", sourceNum, targetNum))

	if sourceContent.Title != latestPage.Title {
		comparison.WriteString("Title Changes:\n")
		comparison.WriteString(fmt.Sprintf("- Version %d: %s\n", sourceNum, sourceContent.Title))
		comparison.WriteString(fmt.Sprintf("+ Version %d: %s\n\n", targetNum, latestPage.Title))
	} else {
		comparison.WriteString(fmt.Sprintf("Title: %s (unchanged)\n\n", sourceContent.Title))
	}

	comparison.WriteString("Version Information:\n")
	comparison.WriteString(fmt.Sprintf("Source (v%d): Created %s\n",
		sourceContent.Version.Number,
		sourceContent.Version.CreatedAt))
	comparison.WriteString(fmt.Sprintf("Target (v%d): Created %s\n\n",
		latestPage.Version.Number,
		latestPage.Version.CreatedAt))

	comparison.WriteString("Content Changes:\n")
	comparison.WriteString("=================\n")
	comparison.WriteString(diffs)

	return mcp.NewToolResultText(comparison.String()), nil
}

// semanticDiff renders a line-prefixed diff of two rendered page versions.
func semanticDiff(source, target string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(source, target, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var result strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			result.WriteString("- " + strings.ReplaceAll(diff.Text, "\n", "\n- ") + "\n")
		case diffmatchpatch.DiffInsert:
			result.WriteString("+ " + strings.ReplaceAll(diff.Text, "\n", "\n+ ") + "\n")
		case diffmatchpatch.DiffEqual:
			result.WriteString("  " + strings.ReplaceAll(diff.Text, "\n", "\n  ") + "\n")
		}
	}

	return result.String()
}
