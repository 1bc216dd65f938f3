package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"leadqual_backend/internal/scoring/domain"
)

// NoResponseExplanation is used only when the classifier produced no text.
const NoResponseExplanation = "No AI response; defaulted to Medium."

const maxExplanationRunes = 500

var (
	// The strict label is a prefix match: "INTENT: Highest" reads as High.
	strictIntentRe = regexp.MustCompile(`(?i)INTENT:\s*(HIGH|MEDIUM|LOW)`)
	strictReasonRe = regexp.MustCompile(`(?is)REASON:\s*(.{1,500})`)
)

// Parsed is the structured judgment extracted from a model response.
type Parsed struct {
	Intent      domain.Intent
	Explanation string
}

// matcher inspects normalized text and reports whether it produced a result.
type matcher func(text string) (Parsed, bool)

type heuristicTier struct {
	intent   domain.Intent
	label    *regexp.Regexp
	keywords *regexp.Regexp
}

var heuristicTiers = []heuristicTier{
	{
		intent:   domain.IntentHigh,
		label:    regexp.MustCompile(`\bHIGH\b`),
		keywords: keywordRe("very interested", "high intent", "ready to buy", "ready to evaluate", "actively looking"),
	},
	{
		intent:   domain.IntentMedium,
		label:    regexp.MustCompile(`\bMEDIUM\b`),
		keywords: keywordRe("may", "might", "consider", "curious", "explore"),
	},
	{
		intent:   domain.IntentLow,
		label:    regexp.MustCompile(`\bLOW\b`),
		keywords: keywordRe("not interested", "unlikely", "low intent", "no need", "no budget"),
	},
}

// matchers are evaluated in order; the last one always matches.
var matchers = []matcher{
	matchStrict,
	matchHeuristic,
	matchDefault,
}

// ParseIntent extracts an intent and a short explanation from raw model
// text. It never fails: blank input yields the no-response default and
// unrecognised text falls through to Medium.
func ParseIntent(raw string) Parsed {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if text == "" {
		return Parsed{Intent: domain.IntentMedium, Explanation: NoResponseExplanation}
	}
	for _, m := range matchers {
		if p, ok := m(text); ok {
			return p
		}
	}
	return matchDefaultResult(text)
}

func matchStrict(text string) (Parsed, bool) {
	m := strictIntentRe.FindStringSubmatch(text)
	if m == nil {
		return Parsed{}, false
	}
	intent, ok := domain.ParseIntent(m[1])
	if !ok {
		return Parsed{}, false
	}

	explanation := ""
	if r := strictReasonRe.FindStringSubmatch(text); r != nil {
		explanation = firstLine(strings.TrimSpace(r[1]))
	}
	if explanation == "" {
		explanation = FirstSentences(text)
	}
	return Parsed{Intent: intent, Explanation: explanation}, true
}

func matchHeuristic(text string) (Parsed, bool) {
	upper := strings.ToUpper(text)
	for _, tier := range heuristicTiers {
		if tier.label.MatchString(upper) || tier.keywords.MatchString(text) {
			return Parsed{Intent: tier.intent, Explanation: FirstSentences(text)}, true
		}
	}
	return Parsed{}, false
}

func matchDefault(text string) (Parsed, bool) {
	return matchDefaultResult(text), true
}

func matchDefaultResult(text string) Parsed {
	return Parsed{Intent: domain.IntentMedium, Explanation: FirstSentences(text)}
}

// FirstSentences returns up to two leading sentences of text joined by a
// space and capped at 500 characters. A sentence ends at '.', '!' or '?'
// followed by whitespace.
func FirstSentences(text string) string {
	runes := []rune(text)
	sentences := make([]string, 0, 2)
	start := 0
	for i := 0; i < len(runes) && len(sentences) < 2; i++ {
		if !isSentenceEnd(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if len(sentences) < 2 {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return strings.TrimSpace(truncateRunes(strings.Join(sentences, " "), maxExplanationRunes))
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func keywordRe(keywords ...string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
