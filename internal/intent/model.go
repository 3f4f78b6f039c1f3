package intent

import (
	"regexp"
	"strings"
)

// Canonical model identifiers the dispatch workflow accepts.
const (
	ModelSonnet = "claude-sonnet-4-5-20250929"
	ModelOpus   = "claude-opus-4-1-20250805"
	ModelHaiku  = "claude-3-5-haiku-20241022"
)

// modelAliases maps user-facing aliases and presets to canonical ids.
var modelAliases = map[string]string{
	"sonnet":   ModelSonnet,
	"opus":     ModelOpus,
	"haiku":    ModelHaiku,
	"fast":     ModelHaiku,
	"quick":    ModelHaiku,
	"advanced": ModelOpus,
	"smart":    ModelOpus,
	"balanced": ModelSonnet,
	"default":  ModelSonnet,
}

var (
	slashModelRe     = regexp.MustCompile(`(?i)(?:^|\s)/model[:=\s]+([A-Za-z0-9._-]+)`)
	slashAliasRe     = regexp.MustCompile(`(?i)(?:^|\s)/(opus|sonnet|haiku|fast|advanced|balanced)\b`)
	modelPhraseRe    = regexp.MustCompile(`(?i)\b(using|with|model[:=])\s*(?:the\s+)?([A-Za-z0-9._-]+)(?:\s+(?:model|mode))?\b`)
	presetModeRe     = regexp.MustCompile(`(?i)\b(fast|quick|advanced|smart|balanced)\s+(?:mode|model|response|answer)\b`)
	bareAliasRe      = regexp.MustCompile(`(?i)\b(opus|sonnet|haiku|claude-[a-z0-9.-]+)\b`)
	toneWordRe       = regexp.MustCompile(`(?i)\b(comprehensive|thorough|in-depth|detailed)\b`)
	mentionTokenRe   = regexp.MustCompile(`<@[A-Z0-9]+>`)
	slashDirectiveRe = regexp.MustCompile(`(?i)(?:^|\s)/(?:model[:=\s]+[A-Za-z0-9._-]+|opus|sonnet|haiku|fast|advanced|balanced)\b`)
	phraseStripRe    = regexp.MustCompile(`(?i)\b(?:using|with)\s+(?:the\s+)?(?:opus|sonnet|haiku|fast|quick|advanced|smart|balanced|default|claude-[a-z0-9.-]+)\b(?:\s+(?:model|mode))?`)
	modelColonRe     = regexp.MustCompile(`(?i)\bmodel[:=]\s*[A-Za-z0-9._-]+`)
	spaceRunRe       = regexp.MustCompile(`[ \t]{2,}`)
)

// canonicalModel resolves an alias or an already-canonical id; reports false
// for anything else so natural-language words don't leak through.
func canonicalModel(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if id, ok := modelAliases[key]; ok {
		return id, true
	}
	if strings.HasPrefix(key, "claude-") {
		return key, true
	}
	return "", false
}

type modelMatcher func(string) (string, bool)

// Ordered: first structural match wins.
var modelMatchers = []modelMatcher{
	matchSlashDirective,
	matchModelPhrase,
	matchPreset,
	matchBareAlias,
	matchToneWord,
}

// ResolveModel maps free text to a canonical model id. Returns false when
// nothing matches; the caller applies its own default.
func ResolveModel(text string) (string, bool) {
	for _, match := range modelMatchers {
		if id, ok := match(text); ok {
			return id, true
		}
	}
	return "", false
}

func matchSlashDirective(text string) (string, bool) {
	if m := slashModelRe.FindStringSubmatch(text); m != nil {
		if id, ok := canonicalModel(m[1]); ok {
			return id, true
		}
	}
	if m := slashAliasRe.FindStringSubmatch(text); m != nil {
		return canonicalModel(m[1])
	}
	return "", false
}

// matchModelPhrase resolves natural-language model phrases. "using" and
// "model:" are explicit choices and outrank "with", which often appears in
// incidental phrasing ("compare with opus"); within each rank the leftmost
// match wins.
func matchModelPhrase(text string) (string, bool) {
	withFallback := ""
	for _, m := range modelPhraseRe.FindAllStringSubmatch(text, -1) {
		id, ok := canonicalModel(m[2])
		if !ok {
			continue
		}
		if strings.EqualFold(m[1], "with") {
			if withFallback == "" {
				withFallback = id
			}
			continue
		}
		return id, true
	}
	if withFallback != "" {
		return withFallback, true
	}
	return "", false
}

func matchPreset(text string) (string, bool) {
	if m := presetModeRe.FindStringSubmatch(text); m != nil {
		return canonicalModel(m[1])
	}
	return "", false
}

func matchBareAlias(text string) (string, bool) {
	if m := bareAliasRe.FindStringSubmatch(text); m != nil {
		return canonicalModel(m[1])
	}
	return "", false
}

func matchToneWord(text string) (string, bool) {
	if toneWordRe.MatchString(text) {
		return ModelOpus, true
	}
	return "", false
}

// CleanQuestion strips mention tokens, slash directives and model phrases,
// then normalizes whitespace. Idempotent: cleaning clean text is a no-op.
func CleanQuestion(text string) string {
	out := mentionTokenRe.ReplaceAllString(text, "")
	out = slashDirectiveRe.ReplaceAllString(out, "")
	out = phraseStripRe.ReplaceAllString(out, "")
	out = modelColonRe.ReplaceAllString(out, "")
	out = spaceRunRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
