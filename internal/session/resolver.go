// Package session decides whether a mention continues a prior unfinished job
// and derives the deterministic session identifier a resumed job needs.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/stellarlinkco/slackclaw/internal/intent"
	"github.com/stellarlinkco/slackclaw/internal/slack"
)

// idHexLen is the truncated width of derived session ids.
const idHexLen = 16

// unfinishedPhrases in a recent bot message signal work the user may be
// asking to resume. "working on" covers the bot's own progress
// acknowledgement replies.
var unfinishedPhrases = []string{
	"continue",
	"remaining",
	"incomplete",
	"working on",
}

// recentBotWindow bounds how many trailing bot messages are inspected.
const recentBotWindow = 5

// Derive computes the session id for a thread. It is pure: identical
// {channel, threadRoot} on the same calendar day always produce the same id,
// and the day in the input bounds a session's lifetime to one day.
func Derive(channel, threadRoot string, now time.Time) string {
	sum := sha256.Sum256([]byte(channel + ":" + threadRoot + ":" + now.UTC().Format("2006-01-02")))
	return hex.EncodeToString(sum[:])[:idHexLen]
}

// Resolve picks the session id for a mention: an explicit id verbatim,
// otherwise a derived id when the mention sits in a thread or was classified
// as an auto-continuation, otherwise none.
func Resolve(explicitID, channel, threadRoot string, inThread, autoContinuation bool, now time.Time) string {
	if explicitID != "" {
		return explicitID
	}
	if inThread || autoContinuation {
		return Derive(channel, threadRoot, now)
	}
	return ""
}

// DetectAutoContinuation reports whether a short continuation-phrased
// message follows a bot message that signalled unfinished work. Both sides
// must hold: a bare "continue" in a thread where the bot never said it left
// something open is not a continuation.
func DetectAutoContinuation(text string, history []slack.Message) bool {
	if !intent.IsContinuation(text, len(history) > 0) {
		return false
	}

	inspected := 0
	for i := len(history) - 1; i >= 0 && inspected < recentBotWindow; i-- {
		if !history[i].IsBot {
			continue
		}
		inspected++
		lower := strings.ToLower(history[i].Text)
		for _, phrase := range unfinishedPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return false
}
