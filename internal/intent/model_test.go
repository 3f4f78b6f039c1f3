package intent

import "testing"

func TestResolveModel_SlashDirective(t *testing.T) {
	id, ok := ResolveModel("fix this /model opus please")
	if !ok || id != ModelOpus {
		t.Errorf("ResolveModel = %q, %v; want %q", id, ok, ModelOpus)
	}

	id, ok = ResolveModel("/haiku summarize the channel")
	if !ok || id != ModelHaiku {
		t.Errorf("ResolveModel = %q, %v; want %q", id, ok, ModelHaiku)
	}
}

func TestResolveModel_PhraseBeatsBareAlias(t *testing.T) {
	// "using haiku" is the explicit choice even though "with opus" comes
	// first in text order.
	id, ok := ResolveModel("compare with opus later but answer using haiku")
	if !ok || id != ModelHaiku {
		t.Errorf("ResolveModel = %q, %v; want %q", id, ok, ModelHaiku)
	}
}

func TestResolveModel_WithPhraseAlone(t *testing.T) {
	id, ok := ResolveModel("summarize the channel with opus")
	if !ok || id != ModelOpus {
		t.Errorf("ResolveModel = %q, %v; want %q", id, ok, ModelOpus)
	}
}

func TestResolveModel_PhraseIgnoresUnknownWord(t *testing.T) {
	// "with something" must not resolve a model.
	if id, ok := ResolveModel("help me with something"); ok {
		t.Errorf("ResolveModel = %q; want no match", id)
	}
}

func TestResolveModel_Preset(t *testing.T) {
	id, ok := ResolveModel("give me a fast answer")
	if !ok || id != ModelHaiku {
		t.Errorf("ResolveModel = %q, %v; want %q", id, ok, ModelHaiku)
	}
}

func TestResolveModel_BareAlias(t *testing.T) {
	id, ok := ResolveModel("opus should handle this")
	if !ok || id != ModelOpus {
		t.Errorf("ResolveModel = %q, %v; want %q", id, ok, ModelOpus)
	}
}

func TestResolveModel_CanonicalID(t *testing.T) {
	id, ok := ResolveModel("run it on claude-sonnet-4-5-20250929")
	if !ok || id != ModelSonnet {
		t.Errorf("ResolveModel = %q, %v; want %q", id, ok, ModelSonnet)
	}
}

func TestResolveModel_ToneWord(t *testing.T) {
	id, ok := ResolveModel("give me a comprehensive security review")
	if !ok || id != ModelOpus {
		t.Errorf("ResolveModel = %q, %v; want %q", id, ok, ModelOpus)
	}
}

func TestResolveModel_NoMatch(t *testing.T) {
	if id, ok := ResolveModel("what changed last week?"); ok {
		t.Errorf("ResolveModel = %q; want no match", id)
	}
}

func TestCleanQuestion_StripsMentionAndDirectives(t *testing.T) {
	got := CleanQuestion("<@U12345ABC> /model opus summarize the repo using sonnet")
	want := "summarize the repo"
	if got != want {
		t.Errorf("CleanQuestion = %q, want %q", got, want)
	}
}

func TestCleanQuestion_Idempotent(t *testing.T) {
	inputs := []string{
		"summarize the repo",
		"<@U99> review jerryzhao173985/incremental-game-generator with opus",
		"   spaced   out   ",
		"help me with something",
	}
	for _, in := range inputs {
		once := CleanQuestion(in)
		twice := CleanQuestion(once)
		if once != twice {
			t.Errorf("CleanQuestion not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestCleanQuestion_KeepsUnrelatedWith(t *testing.T) {
	got := CleanQuestion("help me with something")
	if got != "help me with something" {
		t.Errorf("CleanQuestion = %q; natural 'with' phrase must survive", got)
	}
}
