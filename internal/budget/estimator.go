// Package budget derives the turn and timeout budgets for a dispatch job
// from the extracted signals. Everything here is purely computed per call;
// nothing is persisted.
package budget

import (
	"math"
	"regexp"
	"strings"
)

const (
	// Turn budget bounds. The ceiling matches the hard input limit of the
	// execution workflow.
	BaseTurns = 15
	MaxTurns  = 50

	// Timeout derivation. The ceiling stays safely under the execution
	// backend's own wall-clock limit.
	secondsPerTurn    = 40
	bufferSeconds     = 120
	MinTimeoutMinutes = 6
	MaxTimeoutMinutes = 45

	sourceControlBonus = 10
	threadBonusStep    = 5
	shortInThreadBonus = 10
	shortMessageLen    = 20

	maxFileTouches = 10
)

// Inputs are the signals feeding the estimate.
type Inputs struct {
	// Question is the cleaned question text.
	Question string
	// Capabilities is the inferred tool capability set.
	Capabilities []string
	// ThreadLen is the number of messages already in the thread.
	ThreadLen int
}

// Profile is the observability-only complexity summary; it never feeds back
// into the turn or timeout numbers beyond the factors documented on Estimate.
type Profile struct {
	HasWriteIntent    bool
	FileTouchEstimate int
	DeepAnalysis      bool
	CapabilityCount   int
	Score             int
	Phases            []string
}

type marker struct {
	name        string
	re          *regexp.Regexp
	bonus       int
	needsThread bool
	write       bool
	deep        bool
	phase       string
}

// Complexity markers. All bonuses are independent and additive; no marker
// suppresses another.
var markers = []marker{
	{name: "multi-step", bonus: 5,
		re: regexp.MustCompile(`(?i)\b(?:then|after that|step by step|multiple steps|one by one)\b`)},
	{name: "refactor", bonus: 5, write: true, phase: phaseImplementation,
		re: regexp.MustCompile(`(?i)\b(?:refactor|rewrite|restructure|migrate|redesign)\b`)},
	{name: "pr-issue-creation", bonus: 10, write: true, phase: phaseSourceControl,
		re: regexp.MustCompile(`(?i)\b(?:create|open|submit|raise)\b[^.!?]{0,40}?\b(?:prs?|pull requests?|issues?)\b`)},
	{name: "major-build", bonus: 10, write: true, phase: phaseImplementation,
		re: regexp.MustCompile(`(?i)\b(?:build|implement|scaffold|develop)\b[^.!?]{0,40}?\b(?:app|application|service|feature|project|website|api|tool)\b`)},
	{name: "debugging", bonus: 5, phase: phaseAnalysis,
		re: regexp.MustCompile(`(?i)\b(?:debug|diagnose|investigate|troubleshoot|broken|failing|error|bug)\b`)},
	{name: "codebase-analysis", bonus: 5, deep: true, phase: phaseAnalysis,
		re: regexp.MustCompile(`(?i)\b(?:entire|whole|full|complete)\s+(?:codebase|repo(?:sitory)?|project)\b`)},
	{name: "contextual-continuation", bonus: 5, needsThread: true,
		re: regexp.MustCompile(`(?i)\b(?:as discussed|as mentioned|mentioned earlier|like before|previous(?:ly)?|earlier)\b`)},
	{name: "completion-request", bonus: 5,
		re: regexp.MustCompile(`(?i)\b(?:finish|complete|finalize|wrap up|get it done)\b`)},
}

const (
	phaseSourceControl  = "source-control"
	phaseImplementation = "implementation"
	phaseTesting        = "testing"
	phaseAnalysis       = "analysis"
)

var (
	testingRe  = regexp.MustCompile(`(?i)\b(?:tests?|testing|coverage|unit tests?)\b`)
	filePathRe = regexp.MustCompile(`\b[\w./-]+\.(?:go|ts|tsx|js|jsx|py|rs|java|c|cc|cpp|h|rb|md|json|ya?ml|toml|sql|sh)\b`)
)

// Estimate computes the bounded turn budget, the bounded timeout in minutes
// and the complexity profile for one mention.
//
// Turns: fixed base, additive bonuses for the source-control capability,
// each matched marker, thread-length thresholds and a short message inside
// an active thread, capped at MaxTurns.
//
// Timeout: turns times a per-turn allowance, multiplied by factors (each
// >= 1) for write intent, estimated file touches, deep analysis and
// capability count, plus a fixed buffer, converted to minutes and clamped.
func Estimate(in Inputs) (turns, timeoutMinutes int, profile Profile) {
	hasSourceControl := false
	for _, c := range in.Capabilities {
		if c == "github" {
			hasSourceControl = true
			break
		}
	}

	turns = BaseTurns
	score := 0
	phases := make([]string, 0, 4)
	if hasSourceControl {
		turns += sourceControlBonus
		score += sourceControlBonus
		phases = appendPhase(phases, phaseSourceControl)
	}

	for _, m := range markers {
		if m.needsThread && in.ThreadLen == 0 {
			continue
		}
		if !m.re.MatchString(in.Question) {
			continue
		}
		turns += m.bonus
		score += m.bonus
		if m.write {
			profile.HasWriteIntent = true
		}
		if m.deep {
			profile.DeepAnalysis = true
		}
		if m.phase != "" {
			phases = appendPhase(phases, m.phase)
		}
	}

	if testingRe.MatchString(in.Question) {
		phases = appendPhase(phases, phaseTesting)
	}

	if in.ThreadLen > 5 {
		turns += threadBonusStep
	}
	if in.ThreadLen > 15 {
		turns += threadBonusStep
	}
	score += in.ThreadLen

	// A short message in an active thread usually continues unfinished
	// work; give it room to pick the task back up.
	if in.ThreadLen > 0 && len(strings.TrimSpace(in.Question)) < shortMessageLen {
		turns += shortInThreadBonus
	}

	if turns > MaxTurns {
		turns = MaxTurns
	}

	profile.FileTouchEstimate = estimateFileTouches(in.Question, profile.DeepAnalysis)
	profile.CapabilityCount = len(in.Capabilities)
	profile.Score = score
	profile.Phases = phases

	timeoutMinutes = timeoutFor(turns, profile)
	return turns, timeoutMinutes, profile
}

func estimateFileTouches(question string, deep bool) int {
	if deep {
		return maxFileTouches
	}
	n := len(filePathRe.FindAllString(question, -1))
	if n > maxFileTouches {
		n = maxFileTouches
	}
	return n
}

func timeoutFor(turns int, p Profile) int {
	seconds := float64(turns * secondsPerTurn)

	if p.HasWriteIntent {
		seconds *= 1.5
	}
	seconds *= 1 + 0.05*float64(p.FileTouchEstimate)
	if p.DeepAnalysis {
		seconds *= 1.3
	}
	if p.CapabilityCount > 2 {
		seconds *= 1 + 0.1*float64(p.CapabilityCount-2)
	}

	seconds += bufferSeconds

	minutes := int(math.Ceil(seconds / 60))
	if minutes < MinTimeoutMinutes {
		minutes = MinTimeoutMinutes
	}
	if minutes > MaxTimeoutMinutes {
		minutes = MaxTimeoutMinutes
	}
	return minutes
}

func appendPhase(phases []string, phase string) []string {
	for _, p := range phases {
		if p == phase {
			return phases
		}
	}
	return append(phases, phase)
}
