package intent

import (
	"encoding/json"
	"regexp"
	"strings"
)

// RepoContext is a repository reference detected in a mention. Owner and
// Repo are never empty, contain no whitespace, and the owner is never one of
// the excluded words below.
type RepoContext struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	IsOwnRepo bool   `json:"isOwnRepo"`
	Ref       string `json:"ref,omitempty"`
	Path      string `json:"path,omitempty"`
	URL       string `json:"url"`
}

func (rc *RepoContext) Slug() string {
	return rc.Owner + "/" + rc.Repo
}

// Serialize renders the context as the single structured field the dispatch
// workflow accepts.
func (rc *RepoContext) Serialize() string {
	data, err := json.Marshal(rc)
	if err != nil {
		return rc.Slug()
	}
	return string(data)
}

// excludedOwners blocks known false positives from natural-language phrases
// that look like owner/repo pairs ("model/with something"). The generic scan
// stays intentionally greedy for coverage; this list is the guard.
var excludedOwners = map[string]bool{
	"model": true,
	"with":  true,
	"using": true,
	"mode":  true,
}

var (
	sshRepoRe = regexp.MustCompile(`git@github\.com:([A-Za-z0-9-]+)/([A-Za-z0-9._-]+)`)
	cloneRe   = regexp.MustCompile(`(?i)\bgit\s+clone\s+(?:https?://github\.com/|git@github\.com:)?([A-Za-z0-9-]+)/([A-Za-z0-9._-]+)`)
	slugRe    = regexp.MustCompile(`\b([A-Za-z0-9-]+)/([A-Za-z0-9._-]+)\b`)
)

type repoMatcher func(string) (owner, repo, ref, path string, ok bool)

// Ordered from most to least specific; first match wins.
var repoMatchers = []repoMatcher{
	matchWebURL,
	matchSSHRepo,
	matchCloneCommand,
	matchBareSlug,
}

// ExtractRepoContext scans text for a repository reference. operatorUser is
// the configured identity for the ownership check; empty means nothing is
// ever owned.
func ExtractRepoContext(text, operatorUser string) *RepoContext {
	for _, match := range repoMatchers {
		owner, repo, ref, path, ok := match(text)
		if !ok {
			continue
		}
		repo = normalizeRepoName(repo)
		if owner == "" || repo == "" || excludedOwners[strings.ToLower(owner)] {
			continue
		}
		return &RepoContext{
			Owner:     owner,
			Repo:      repo,
			IsOwnRepo: operatorUser != "" && strings.EqualFold(owner, operatorUser),
			Ref:       ref,
			Path:      path,
			URL:       "https://github.com/" + owner + "/" + repo,
		}
	}
	return nil
}

func normalizeRepoName(repo string) string {
	repo = strings.TrimSuffix(repo, ".git")
	return strings.Trim(repo, ".")
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func isOwnerChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}

func isRepoChar(c byte) bool {
	return isOwnerChar(c) || c == '.' || c == '_'
}

func isRefChar(c byte) bool {
	switch c {
	case '/', ' ', '\t', '\n', '\r', '<', '>', ',', ')', ']', '?', '#':
		return false
	}
	return true
}

func isPathChar(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '<', '>', ',', ')', ']', '?', '#':
		return false
	}
	return true
}

// takeRun returns the longest leading run of bytes satisfying pred. Taking
// the longest run is what keeps multi-hyphen repository names intact; a lazy
// match here once truncated them to a single character.
func takeRun(s string, pred func(byte) bool) string {
	i := 0
	for i < len(s) && pred(s[i]) {
		i++
	}
	return s[:i]
}

// matchWebURL parses github.com web URLs, including markdown-link and
// angle-bracket wrapped forms, with optional /tree, /blob or /pull suffixes.
// A /pull number or /tree ref is surfaced as the ref, never discarded.
func matchWebURL(text string) (string, string, string, string, bool) {
	const marker = "github.com/"
	// Lower only ASCII so byte offsets stay valid; full Unicode folding can
	// change byte lengths (e.g. 'İ') and corrupt the slice positions.
	idx := strings.Index(lowerASCII(text), marker)
	if idx < 0 {
		return "", "", "", "", false
	}
	rest := text[idx+len(marker):]

	owner := takeRun(rest, isOwnerChar)
	rest = rest[len(owner):]
	if owner == "" || !strings.HasPrefix(rest, "/") {
		return "", "", "", "", false
	}
	rest = rest[1:]

	repo := takeRun(rest, isRepoChar)
	rest = rest[len(repo):]
	if repo == "" {
		return "", "", "", "", false
	}

	var ref, path string
	switch {
	case strings.HasPrefix(rest, "/tree/"), strings.HasPrefix(rest, "/blob/"):
		rest = rest[len("/tree/"):]
		ref = takeRun(rest, isRefChar)
		rest = rest[len(ref):]
		if strings.HasPrefix(rest, "/") {
			path = takeRun(rest[1:], isPathChar)
		}
	case strings.HasPrefix(rest, "/pull/"):
		ref = takeRun(rest[len("/pull/"):], func(c byte) bool { return c >= '0' && c <= '9' })
	}

	return owner, repo, ref, path, true
}

func matchSSHRepo(text string) (string, string, string, string, bool) {
	m := sshRepoRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", "", "", false
	}
	return m[1], m[2], "", "", true
}

func matchCloneCommand(text string) (string, string, string, string, bool) {
	m := cloneRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", "", "", false
	}
	return m[1], m[2], "", "", true
}

// matchBareSlug is the generic owner/repo token scan. Only the first token
// is considered; an excluded owner means no context rather than a further
// scan, matching the established behavior.
func matchBareSlug(text string) (string, string, string, string, bool) {
	m := slugRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", "", "", false
	}
	return m[1], m[2], "", "", true
}
