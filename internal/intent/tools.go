package intent

import "strings"

// Read-capable GitHub MCP tools, always available once a repository is in
// play.
var githubReadTools = []string{
	"mcp__github__get_me",
	"mcp__github__get_issue",
	"mcp__github__get_issue_comments",
	"mcp__github__list_issues",
	"mcp__github__search_issues",
	"mcp__github__get_pull_request",
	"mcp__github__list_pull_requests",
	"mcp__github__get_pull_request_files",
	"mcp__github__search_repositories",
	"mcp__github__get_file_contents",
	"mcp__github__list_commits",
	"mcp__github__search_code",
}

// Write-capable tools, gated on repository ownership.
var githubWriteTools = []string{
	"mcp__github__create_issue",
	"mcp__github__add_issue_comment",
	"mcp__github__update_issue",
	"mcp__github__create_pull_request",
	"mcp__github__merge_pull_request",
	"mcp__github__update_pull_request_branch",
	"mcp__github__create_or_update_file",
	"mcp__github__push_files",
	"mcp__github__create_branch",
	"mcp__github__create_pending_pull_request_review",
	"mcp__github__add_pull_request_review_comment",
	"mcp__github__create_and_submit_pull_request_review",
	"mcp__github__request_copilot_review",
}

// AllowedTools returns the GitHub tool lists for a repository; write tools
// only when the operator owns it.
func AllowedTools(isOwnRepo bool) (read, write []string) {
	read = githubReadTools
	if isOwnRepo {
		write = githubWriteTools
	}
	return read, write
}

// BuildRepoPrompt renders the repository context section appended to the
// job's system prompt.
func BuildRepoPrompt(rc *RepoContext) string {
	var sb strings.Builder

	sb.WriteString("\n\n## GitHub Repository Context\n")
	sb.WriteString("Repository: " + rc.Slug() + "\n")
	if rc.Ref != "" {
		sb.WriteString("Ref: " + rc.Ref + "\n")
	}
	if rc.Path != "" {
		sb.WriteString("File/Path: " + rc.Path + "\n")
	}

	read, write := AllowedTools(rc.IsOwnRepo)

	if rc.IsOwnRepo {
		sb.WriteString("Access Level: Full (Owner)\n\n")
		sb.WriteString("You have full access to this repository. You can:\n")
		sb.WriteString("- Create and update files\n")
		sb.WriteString("- Create branches and pull requests\n")
		sb.WriteString("- Manage issues (create, update, close)\n")
		sb.WriteString("- Perform code reviews\n")
		sb.WriteString("- Merge pull requests\n\n")
		sb.WriteString("Use the appropriate GitHub tools to help the user with their request.\n")
	} else {
		sb.WriteString("Access Level: Read-Only\n\n")
		sb.WriteString("You have read-only access to this repository. You can:\n")
		sb.WriteString("- Analyze code structure and patterns\n")
		sb.WriteString("- Search for specific implementations\n")
		sb.WriteString("- Review issues and pull requests\n")
		sb.WriteString("- Examine commit history\n")
		sb.WriteString("- Provide insights and suggestions\n\n")
		sb.WriteString("Note: You cannot modify this repository as you don't have write access.\n")
	}

	sb.WriteString("\nAllowed GitHub tools: ")
	sb.WriteString(strings.Join(append(append([]string{}, read...), write...), ", "))
	sb.WriteString("\n")

	return sb.String()
}
