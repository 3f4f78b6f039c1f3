package dispatch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stellarlinkco/slackclaw/internal/slack"
)

// BuildThreadPrompt renders the thread history section of the system prompt.
// Messages are sorted chronologically by ts; the latest one is marked so the
// job knows which message it is answering.
func BuildThreadPrompt(history []slack.Message) string {
	if len(history) == 0 {
		return ""
	}

	sorted := make([]slack.Message, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return tsValue(sorted[i].TS) < tsValue(sorted[j].TS)
	})

	var lines []string
	for i, msg := range sorted {
		prefix := "•"
		if i == len(sorted)-1 {
			prefix = "➤"
		}
		user := msg.User
		if msg.IsBot {
			user += " (bot)"
		}
		lines = append(lines, fmt.Sprintf("%s [%s] %s: %s", prefix, formatTS(msg.TS), user, msg.Text))
	}

	var sb strings.Builder
	sb.WriteString("\n\nSLACK THREAD CONTEXT:\n")
	fmt.Fprintf(&sb, "This is a Slack thread with %d messages. Here is the complete conversation history in chronological order:\n\n", len(history))
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\nThe message marked with ➤ is the most recent one that you're responding to.\n")
	sb.WriteString(`
IMPORTANT CONTEXT INTERPRETATION:
- If the latest message is short (e.g., "do it", "solve this", "continue", "go ahead"), it refers to completing a task mentioned earlier in the thread
- Review the ENTIRE thread history to understand what task needs to be completed
- Look for any unfinished work, requests, or problems that were discussed but not resolved
- If a previous message mentioned creating a PR, fixing an issue, or any other specific task, that's what the user wants you to complete
- DO NOT ask for clarification if the context makes the task clear - proceed with the implementation

Use this context to provide relevant and contextual responses.
When summarizing, consider the flow of conversation and key points from each participant.`)

	return sb.String()
}

func tsValue(ts string) float64 {
	v, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatTS(ts string) string {
	v := tsValue(ts)
	if v == 0 {
		return ts
	}
	return time.Unix(int64(v), 0).UTC().Format("03:04 PM")
}
