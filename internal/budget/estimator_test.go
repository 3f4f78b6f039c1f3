package budget

import "testing"

func TestEstimate_SimpleQuestion(t *testing.T) {
	turns, timeout, profile := Estimate(Inputs{
		Question:     "what is the capital of france",
		Capabilities: []string{"chat", "knowledge-base"},
	})

	if turns != BaseTurns {
		t.Errorf("turns = %d, want %d", turns, BaseTurns)
	}
	if timeout != 12 {
		t.Errorf("timeout = %d, want 12", timeout)
	}
	if profile.HasWriteIntent || profile.DeepAnalysis {
		t.Errorf("profile flagged write/deep for a plain question: %+v", profile)
	}
	if profile.Score != 0 {
		t.Errorf("score = %d, want 0", profile.Score)
	}
}

func TestEstimate_CodebasePRRequest(t *testing.T) {
	turns, timeout, profile := Estimate(Inputs{
		Question:     "analyze the entire codebase and create a PR",
		Capabilities: []string{"chat", "knowledge-base", "github"},
	})

	// 15 base + 10 source-control + 10 pr-creation + 5 codebase-analysis.
	if turns != 40 {
		t.Errorf("turns = %d, want 40", turns)
	}
	if timeout != MaxTimeoutMinutes {
		t.Errorf("timeout = %d, want clamped to %d", timeout, MaxTimeoutMinutes)
	}
	if !profile.HasWriteIntent {
		t.Error("PR creation must flag write intent")
	}
	if !profile.DeepAnalysis {
		t.Error("entire-codebase request must flag deep analysis")
	}
	if profile.FileTouchEstimate != maxFileTouches {
		t.Errorf("FileTouchEstimate = %d, want %d", profile.FileTouchEstimate, maxFileTouches)
	}
	wantPhases := []string{phaseSourceControl, phaseAnalysis}
	if len(profile.Phases) != len(wantPhases) {
		t.Fatalf("phases = %v, want %v", profile.Phases, wantPhases)
	}
	for i, p := range wantPhases {
		if profile.Phases[i] != p {
			t.Errorf("phases = %v, want %v", profile.Phases, wantPhases)
		}
	}
}

func TestEstimate_ThreadLengthBonuses(t *testing.T) {
	base := Inputs{
		Question:     "please summarize this document for the team",
		Capabilities: []string{"chat", "knowledge-base"},
	}

	turns0, _, _ := Estimate(base)

	base.ThreadLen = 6
	turns6, _, _ := Estimate(base)

	base.ThreadLen = 16
	turns16, _, _ := Estimate(base)

	if turns0 != BaseTurns {
		t.Errorf("turns at thread 0 = %d, want %d", turns0, BaseTurns)
	}
	if turns6 != turns0+threadBonusStep {
		t.Errorf("turns at thread 6 = %d, want %d", turns6, turns0+threadBonusStep)
	}
	if turns16 != turns0+2*threadBonusStep {
		t.Errorf("turns at thread 16 = %d, want %d", turns16, turns0+2*threadBonusStep)
	}
}

func TestEstimate_ShortMessageInThread(t *testing.T) {
	turns, _, _ := Estimate(Inputs{
		Question:     "continue",
		Capabilities: []string{"chat", "knowledge-base"},
		ThreadLen:    3,
	})

	if turns != BaseTurns+shortInThreadBonus {
		t.Errorf("turns = %d, want %d", turns, BaseTurns+shortInThreadBonus)
	}
}

func TestEstimate_CapsAtMaximum(t *testing.T) {
	turns, timeout, _ := Estimate(Inputs{
		Question:     "build an app, then refactor it, debug the failing tests, create a pull request, and finish the entire codebase as discussed earlier",
		Capabilities: []string{"chat", "knowledge-base", "notion", "github"},
		ThreadLen:    20,
	})

	if turns != MaxTurns {
		t.Errorf("turns = %d, want %d", turns, MaxTurns)
	}
	if timeout != MaxTimeoutMinutes {
		t.Errorf("timeout = %d, want %d", timeout, MaxTimeoutMinutes)
	}
}

func TestEstimate_WriteIntentRaisesTimeout(t *testing.T) {
	readTurns, readTimeout, readProfile := Estimate(Inputs{
		Question:     "summarize the parser module",
		Capabilities: []string{"chat", "knowledge-base"},
	})
	writeTurns, writeTimeout, writeProfile := Estimate(Inputs{
		Question:     "refactor the parser module",
		Capabilities: []string{"chat", "knowledge-base"},
	})

	if readProfile.HasWriteIntent {
		t.Error("summarize must not flag write intent")
	}
	if !writeProfile.HasWriteIntent {
		t.Error("refactor must flag write intent")
	}
	if writeTurns != readTurns+5 {
		t.Errorf("write turns = %d, read turns = %d", writeTurns, readTurns)
	}
	// 20*40*1.5+120 = 1320s vs 15*40+120 = 720s.
	if readTimeout != 12 || writeTimeout != 22 {
		t.Errorf("timeouts = %d/%d, want 12/22", readTimeout, writeTimeout)
	}
}

func TestEstimate_ContextualMarkerNeedsThread(t *testing.T) {
	q := "apply the same fix we talked about previously to the other handler"

	fresh, _, _ := Estimate(Inputs{Question: q, Capabilities: []string{"chat", "knowledge-base"}})
	threaded, _, _ := Estimate(Inputs{Question: q, Capabilities: []string{"chat", "knowledge-base"}, ThreadLen: 2})

	if threaded != fresh+5 {
		t.Errorf("threaded = %d, fresh = %d, want +5 continuation bonus only in thread", threaded, fresh)
	}
}
