package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ctreminiom/go-atlassian/pkg/infra/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docforge/docforge-mcp/pkg/adf"
	"github.com/docforge/docforge-mcp/services"
	"github.com/docforge/docforge-mcp/util"
)

// RegisterJiraTool registers the Jira tools to the server. Issue
// descriptions and comments are authored in the markdown dialect and
// compiled to the document format with the Jira style table.
func RegisterJiraTool(s *server.MCPServer) {
	jiraGetIssueTool := mcp.NewTool("jira_get_issue",
		mcp.WithDescription("Retrieve detailed information about a specific Jira issue including its status, assignee, description, and available transitions"),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("The unique identifier of the Jira issue (e.g., KP-2, PROJ-123)")),
	)

	jiraSearchTool := mcp.NewTool("jira_search_issue",
		mcp.WithDescription("Search for Jira issues using JQL (Jira Query Language). Returns key details like summary, status, and assignee for matching issues"),
		mcp.WithString("jql", mcp.Required(), mcp.Description("JQL query string (e.g., 'project = KP AND status = \"In Progress\"')")),
	)

	jiraCreateIssueTool := mcp.NewTool("jira_create_issue",
		mcp.WithDescription("Create a new Jira issue. The description is markdown-dialect source compiled to the issue document format"),
		mcp.WithString("project_key", mcp.Required(), mcp.Description("Project identifier where the issue will be created (e.g., KP, PROJ)")),
		mcp.WithString("summary", mcp.Required(), mcp.Description("Brief title or headline of the issue")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Detailed explanation of the issue in the markdown dialect")),
		mcp.WithString("issue_type", mcp.Required(), mcp.Description("Type of issue to create (common types: Bug, Task, Story, Epic)")),
	)

	jiraUpdateIssueTool := mcp.NewTool("jira_update_issue",
		mcp.WithDescription("Modify an existing Jira issue. Supports partial updates - only specified fields will be changed; a new description is recompiled from markdown"),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("The unique identifier of the issue to update (e.g., KP-2)")),
		mcp.WithString("summary", mcp.Description("New title for the issue (optional)")),
		mcp.WithString("description", mcp.Description("New description in the markdown dialect (optional)")),
	)

	jiraAddCommentTool := mcp.NewTool("jira_add_comment",
		mcp.WithDescription("Add a comment to a Jira issue, compiled from markdown-dialect source"),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("The issue to comment on (e.g., KP-2)")),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Comment body in the markdown dialect")),
	)

	jiraStatusListTool := mcp.NewTool("jira_list_statuses",
		mcp.WithDescription("Retrieve all available issue status IDs and their names for a specific Jira project"),
		mcp.WithString("project_key", mcp.Required(), mcp.Description("Project identifier (e.g., KP, PROJ)")),
	)

	jiraTransitionTool := mcp.NewTool("jira_transition_issue",
		mcp.WithDescription("Transition an issue through its workflow using a valid transition ID. Get available transitions from jira_get_issue"),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("The issue to transition (e.g., KP-123)")),
		mcp.WithString("transition_id", mcp.Required(), mcp.Description("Transition ID from available transitions list")),
	)

	s.AddTool(jiraGetIssueTool, util.ErrorGuard(util.AdaptLegacyHandler(jiraIssueHandler)))
	s.AddTool(jiraSearchTool, util.ErrorGuard(util.AdaptLegacyHandler(jiraSearchHandler)))
	s.AddTool(jiraCreateIssueTool, util.ErrorGuard(util.AdaptLegacyHandler(jiraCreateIssueHandler)))
	s.AddTool(jiraUpdateIssueTool, util.ErrorGuard(util.AdaptLegacyHandler(jiraUpdateIssueHandler)))
	s.AddTool(jiraAddCommentTool, util.ErrorGuard(util.AdaptLegacyHandler(jiraAddCommentHandler)))
	s.AddTool(jiraStatusListTool, util.ErrorGuard(util.AdaptLegacyHandler(jiraGetStatusesHandler)))
	s.AddTool(jiraTransitionTool, util.ErrorGuard(util.AdaptLegacyHandler(jiraTransitionIssueHandler)))
}

// compileDescription compiles markdown-dialect source into the scheme Jira's
// v3 API expects for descriptions and comment bodies. Mention placeholders
// are resolved on the serialized form before the scheme is built; a single
// unresolvable address fails the whole compile, same as the page path.
func compileDescription(ctx context.Context, markdown string) (*models.CommentNodeScheme, error) {
	doc := compilerFor("jira", nil).Compile(markdown)

	serialized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal description: %v", err)
	}

	resolved, err := resolveMentions(ctx, serialized)
	if err != nil {
		return nil, err
	}

	scheme := &models.CommentNodeScheme{}
	if err := json.Unmarshal(resolved, scheme); err != nil {
		return nil, fmt.Errorf("failed to rebuild description: %v", err)
	}
	return scheme, nil
}

func jiraIssueHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	client := services.JiraClient()

	issueKey, ok := arguments["issue_key"].(string)
	if !ok {
		return nil, fmt.Errorf("issue_key argument is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	issue, response, err := client.Issue.Get(ctx, issueKey, nil, []string{"transitions"})
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to get issue: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to get issue: %v", err)
	}

	reporterName := "Unassigned"
	if issue.Fields.Reporter != nil {
		reporterName = issue.Fields.Reporter.DisplayName
	}
	assigneeName := "Unassigned"
	if issue.Fields.Assignee != nil {
		assigneeName = issue.Fields.Assignee.DisplayName
	}
	priorityName := "None"
	if issue.Fields.Priority != nil {
		priorityName = issue.Fields.Priority.Name
	}

	description := adf.Render(fromCommentNode(issue.Fields.Description))

	var transitions strings.Builder
	for _, transition := range issue.Transitions {
		transitions.WriteString(fmt.Sprintf("  - %s (ID: %s)\n", transition.Name, transition.ID))
	}

	result := fmt.Sprintf(`Key: %s
Summary: %s
Status: %s
Reporter: %s
Assignee: %s
Priority: %s

Description:
%s
Available Transitions:
%s`,
		issue.Key,
		issue.Fields.Summary,
		issue.Fields.Status.Name,
		reporterName,
		assigneeName,
		priorityName,
		description,
		transitions.String(),
	)

	return mcp.NewToolResultText(result), nil
}

func jiraSearchHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	client := services.JiraClient()

	jql, ok := arguments["jql"].(string)
	if !ok {
		return nil, fmt.Errorf("jql argument is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	searchResult, response, err := client.Issue.Search.Get(ctx, jql, nil, nil, 0, 30, "")
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("search failed: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("search failed: %v", err)
	}

	if len(searchResult.Issues) == 0 {
		return mcp.NewToolResultText("No issues found"), nil
	}

	var results strings.Builder
	for _, issue := range searchResult.Issues {
		assigneeName := "Unassigned"
		if issue.Fields.Assignee != nil {
			assigneeName = issue.Fields.Assignee.DisplayName
		}
		results.WriteString(fmt.Sprintf(`
Key: %s
Summary: %s
Status: %s
Assignee: %s
----------------------------------------
`,
			issue.Key,
			issue.Fields.Summary,
			issue.Fields.Status.Name,
			assigneeName,
		))
	}

	return mcp.NewToolResultText(results.String()), nil
}

func jiraCreateIssueHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	client := services.JiraClient()

	projectKey, ok := arguments["project_key"].(string)
	if !ok {
		return nil, fmt.Errorf("project_key argument is required")
	}

	summary, ok := arguments["summary"].(string)
	if !ok {
		return nil, fmt.Errorf("summary argument is required")
	}

	description, ok := arguments["description"].(string)
	if !ok {
		return nil, fmt.Errorf("description argument is required")
	}

	issueType, ok := arguments["issue_type"].(string)
	if !ok {
		return nil, fmt.Errorf("issue_type argument is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	descriptionScheme, err := compileDescription(ctx, description)
	if err != nil {
		return nil, err
	}

	var payload = models.IssueScheme{
		Fields: &models.IssueFieldsScheme{
			Summary:     summary,
			Project:     &models.ProjectScheme{Key: projectKey},
			Description: descriptionScheme,
			IssueType:   &models.IssueTypeScheme{Name: issueType},
		},
	}

	issue, response, err := client.Issue.Create(ctx, &payload, nil)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to create issue: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to create issue: %v", err)
	}

	result := fmt.Sprintf("Issue created successfully!\nKey: %s\nID: %s\nURL: %s", issue.Key, issue.ID, issue.Self)
	return mcp.NewToolResultText(result), nil
}

func jiraUpdateIssueHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	client := services.JiraClient()

	issueKey, ok := arguments["issue_key"].(string)
	if !ok {
		return nil, fmt.Errorf("issue_key argument is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	payload := &models.IssueScheme{
		Fields: &models.IssueFieldsScheme{},
	}

	if summary, ok := arguments["summary"].(string); ok && summary != "" {
		payload.Fields.Summary = summary
	}

	if description, ok := arguments["description"].(string); ok && description != "" {
		descriptionScheme, err := compileDescription(ctx, description)
		if err != nil {
			return nil, err
		}
		payload.Fields.Description = descriptionScheme
	}

	response, err := client.Issue.Update(ctx, issueKey, true, payload, nil, nil)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to update issue: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to update issue: %v", err)
	}

	return mcp.NewToolResultText("Issue updated successfully!"), nil
}

func jiraAddCommentHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	client := services.JiraClient()

	issueKey, ok := arguments["issue_key"].(string)
	if !ok || issueKey == "" {
		return nil, fmt.Errorf("valid issue_key is required")
	}

	markdown, ok := arguments["markdown"].(string)
	if !ok {
		return nil, fmt.Errorf("markdown argument is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	body, err := compileDescription(ctx, markdown)
	if err != nil {
		return nil, err
	}

	payload := &models.CommentPayloadScheme{
		Body: body,
	}

	comment, response, err := client.Issue.Comment.Add(ctx, issueKey, payload, nil)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to add comment: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to add comment: %v", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Comment added successfully! (ID: %s)", comment.ID)), nil
}

func jiraGetStatusesHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	client := services.JiraClient()

	projectKey, ok := arguments["project_key"].(string)
	if !ok {
		return nil, fmt.Errorf("project_key argument is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	issueTypes, response, err := client.Project.Statuses(ctx, projectKey)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("failed to get statuses: %s (endpoint: %s)", response.Bytes.String(), response.Endpoint)
		}
		return nil, fmt.Errorf("failed to get statuses: %v", err)
	}

	if len(issueTypes) == 0 {
		return mcp.NewToolResultText("No issue types found for this project."), nil
	}

	var result strings.Builder
	result.WriteString("Available Statuses:\n")
	for _, issueType := range issueTypes {
		result.WriteString(fmt.Sprintf("\nIssue Type: %s\n", issueType.Name))
		for _, status := range issueType.Statuses {
			result.WriteString(fmt.Sprintf("  - %s: %s\n", status.Name, status.ID))
		}
	}

	return mcp.NewToolResultText(result.String()), nil
}

func jiraTransitionIssueHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	client := services.JiraClient()

	issueKey, ok := arguments["issue_key"].(string)
	if !ok || issueKey == "" {
		return nil, fmt.Errorf("valid issue_key is required")
	}

	transitionID, ok := arguments["transition_id"].(string)
	if !ok || transitionID == "" {
		return nil, fmt.Errorf("valid transition_id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	response, err := client.Issue.Move(ctx, issueKey, transitionID, nil)
	if err != nil {
		if response != nil {
			return nil, fmt.Errorf("transition failed: %s (endpoint: %s)",
				response.Bytes.String(),
				response.Endpoint)
		}
		return nil, fmt.Errorf("transition failed: %v", err)
	}

	return mcp.NewToolResultText("Issue transition completed successfully"), nil
}
