package intent

import (
	"regexp"
	"strings"
)

var explicitSessionRe = regexp.MustCompile("(?i)\\b(?:continue|resume)\\s+session\\s+`?([A-Za-z0-9_-]+)`?")

// ExtractSessionID matches explicit "continue/resume session <id>" phrasing.
// Anything else reports false; implicit continuity is the resolver's job.
func ExtractSessionID(text string) (string, bool) {
	m := explicitSessionRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// continuationRe recognizes whole short messages that only make sense as
// "keep going" in an existing conversation, including bare affirmatives.
var continuationRe = regexp.MustCompile(`(?i)^(?:please\s+)?(?:continue|go ahead|do it|proceed|keep going|carry on|finish(?: it| this)?|complete (?:it|this)|solve (?:it|this)|wrap (?:it )?up|yes(?: please)?|ok(?:ay)?|sure|👍|✅|🚀)\s*[.!]*$`)

const continuationMaxLen = 32

// IsContinuation classifies short, low-information text as a continuation
// request. Only fires with non-empty thread history so fresh conversations
// never trip it.
func IsContinuation(text string, hasHistory bool) bool {
	if !hasHistory {
		return false
	}
	t := strings.TrimSpace(mentionTokenRe.ReplaceAllString(text, ""))
	if t == "" || len([]rune(t)) > continuationMaxLen {
		return false
	}
	return continuationRe.MatchString(t)
}
