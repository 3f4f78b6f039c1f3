package intent

import (
	"reflect"
	"testing"
)

func TestInferCapabilities_Baseline(t *testing.T) {
	caps := InferCapabilities("what's the weather like", false)
	if !reflect.DeepEqual(caps, []string{"chat", "knowledge-base"}) {
		t.Errorf("caps = %v", caps)
	}
}

func TestInferCapabilities_Keywords(t *testing.T) {
	caps := InferCapabilities("review the code in this branch", false)
	if caps[len(caps)-1] != "github" {
		t.Errorf("caps = %v, want github appended", caps)
	}

	caps = InferCapabilities("search my notion pages", false)
	found := false
	for _, c := range caps {
		if c == "notion" {
			found = true
		}
	}
	if !found {
		t.Errorf("caps = %v, want notion", caps)
	}
}

func TestInferCapabilities_RepoImpliesGitHub(t *testing.T) {
	caps := InferCapabilities("summarize acme/widgets", true)
	if caps[len(caps)-1] != "github" {
		t.Errorf("caps = %v, want github from repo detection", caps)
	}
}

func TestExtract_Composed(t *testing.T) {
	in := Extract("<@U777> review https://github.com/acme/widgets using opus", "acme", 0)

	if in.Question != "review https://github.com/acme/widgets" {
		t.Errorf("Question = %q", in.Question)
	}
	if in.Model != ModelOpus {
		t.Errorf("Model = %q", in.Model)
	}
	if in.Repo == nil || !in.Repo.IsOwnRepo {
		t.Errorf("Repo = %+v, want owned acme/widgets", in.Repo)
	}
	if in.SessionID != "" {
		t.Errorf("SessionID = %q, want empty", in.SessionID)
	}
	if in.Continuation {
		t.Error("fresh conversation must not be a continuation")
	}
}

func TestExtract_ExplicitSession(t *testing.T) {
	in := Extract("resume session `abc123` and finish the tests", "", 3)
	if in.SessionID != "abc123" {
		t.Errorf("SessionID = %q", in.SessionID)
	}
}

func TestIsContinuation(t *testing.T) {
	if !IsContinuation("continue", true) {
		t.Error("'continue' with history must classify as continuation")
	}
	if !IsContinuation("<@U1> go ahead!", true) {
		t.Error("'go ahead' with history must classify as continuation")
	}
	if !IsContinuation("👍", true) {
		t.Error("bare affirmative emoji with history must classify as continuation")
	}
	if IsContinuation("continue", false) {
		t.Error("empty thread must never classify as continuation")
	}
	if IsContinuation("continue working on the parser module and then add tests", true) {
		t.Error("long message must not classify as continuation")
	}
}
