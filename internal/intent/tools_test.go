package intent

import (
	"strings"
	"testing"
)

func TestAllowedTools(t *testing.T) {
	read, write := AllowedTools(false)
	if len(read) == 0 {
		t.Fatal("read tools empty")
	}
	if len(write) != 0 {
		t.Errorf("write tools = %v for a repo the operator does not own", write)
	}

	read, write = AllowedTools(true)
	if len(write) == 0 {
		t.Fatal("owned repo must unlock write tools")
	}
	found := false
	for _, tool := range write {
		if tool == "mcp__github__create_pull_request" {
			found = true
		}
	}
	if !found {
		t.Errorf("write tools = %v, want create_pull_request", write)
	}
	for _, tool := range read {
		if strings.HasPrefix(tool, "mcp__github__create") {
			t.Errorf("write-capable tool %q in the read set", tool)
		}
	}
}

func TestBuildRepoPrompt_ToolGating(t *testing.T) {
	owned := BuildRepoPrompt(&RepoContext{Owner: "acme", Repo: "widgets", IsOwnRepo: true})
	if !strings.Contains(owned, "mcp__github__create_pull_request") {
		t.Error("owned repo prompt missing write tools")
	}
	if !strings.Contains(owned, "mcp__github__search_code") {
		t.Error("owned repo prompt missing read tools")
	}

	readonly := BuildRepoPrompt(&RepoContext{Owner: "other", Repo: "widgets"})
	if strings.Contains(readonly, "mcp__github__create_pull_request") {
		t.Error("read-only repo prompt leaks write tools")
	}
	if !strings.Contains(readonly, "mcp__github__search_code") {
		t.Error("read-only repo prompt missing read tools")
	}
	if !strings.Contains(readonly, "Access Level: Read-Only") {
		t.Error("read-only repo prompt missing access section")
	}
}
