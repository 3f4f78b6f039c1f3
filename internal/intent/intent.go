// Package intent turns the free text of a mention into structured job
// signals. Every extractor is a pure function; failure of one never blocks
// the others, and ambiguity is not an error (callers fall back to defaults).
package intent

import "strings"

// Intent is the structured reading of one mention. Derived once, never
// mutated afterwards.
type Intent struct {
	// Question is the text with mention tokens and model directives removed.
	Question string
	// Model is a canonical model identifier, empty when nothing matched.
	Model string
	// Capabilities is the ordered tool set; "chat" and "knowledge-base" are
	// always present.
	Capabilities []string
	// Repo is the referenced repository, nil when none was detected.
	Repo *RepoContext
	// SessionID is an explicitly requested session, empty otherwise.
	SessionID string
	// Continuation marks short low-information text inside a live thread.
	Continuation bool
}

// Extract derives the full intent for a mention. operatorUser is the
// configured GitHub identity used for repository ownership; threadLen is the
// number of messages already in the thread (0 outside threads).
func Extract(text, operatorUser string, threadLen int) Intent {
	model, _ := ResolveModel(text)
	repo := ExtractRepoContext(text, operatorUser)
	sessionID, _ := ExtractSessionID(text)

	return Intent{
		Question:     CleanQuestion(text),
		Model:        model,
		Capabilities: InferCapabilities(text, repo != nil),
		Repo:         repo,
		SessionID:    sessionID,
		Continuation: IsContinuation(text, threadLen > 0),
	}
}

// InferCapabilities returns the ordered capability set for the job. The
// source-control capability is added on explicit keywords or whenever a
// repository reference was independently detected.
func InferCapabilities(text string, hasRepo bool) []string {
	caps := []string{"chat", "knowledge-base"}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "notion") {
		caps = append(caps, "notion")
	}
	if strings.Contains(lower, "github") || strings.Contains(lower, "code") || hasRepo {
		caps = append(caps, "github")
	}

	return caps
}
