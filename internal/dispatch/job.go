// Package dispatch composes and sends the workflow_dispatch job that hands a
// mention to the execution backend.
package dispatch

import (
	"fmt"
	"strconv"
)

// MaxWorkflowInputs is the hard input-count limit GitHub enforces on
// workflow_dispatch events.
const MaxWorkflowInputs = 10

// Job is the outbound job description. Created once, sent once, never
// retried here.
type Job struct {
	Question       string
	SlackChannel   string
	SlackTS        string // placeholder message ts
	SlackThreadTS  string
	SystemPrompt   string
	Model          string // optional
	GitHubContext  string // serialized repo context, optional
	MaxTurns       int
	TimeoutMinutes int
	SessionID      string // optional
}

// Inputs renders the job as workflow inputs. Numeric budgets are serialized
// as string decimals; optional fields ride along as empty strings so the
// workflow's input declaration stays stable.
func (j *Job) Inputs() (map[string]string, error) {
	inputs := map[string]string{
		"question":        j.Question,
		"slack_channel":   j.SlackChannel,
		"slack_ts":        j.SlackTS,
		"slack_thread_ts": j.SlackThreadTS,
		"system_prompt":   j.SystemPrompt,
		"model":           j.Model,
		"github_context":  j.GitHubContext,
		"max_turns":       strconv.Itoa(j.MaxTurns),
		"timeout_minutes": strconv.Itoa(j.TimeoutMinutes),
		"session_id":      j.SessionID,
	}
	if len(inputs) > MaxWorkflowInputs {
		return nil, fmt.Errorf("workflow inputs exceed limit: %d > %d", len(inputs), MaxWorkflowInputs)
	}
	return inputs, nil
}
