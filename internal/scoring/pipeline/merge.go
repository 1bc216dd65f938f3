package pipeline

import (
	"fmt"

	"leadqual_backend/internal/scoring/domain"
)

const maxFinalScore = 100

var intentPoints = map[domain.Intent]int{
	domain.IntentHigh:   50,
	domain.IntentMedium: 30,
	domain.IntentLow:    10,
}

// AIPoints maps an intent to its score contribution. Unknown intents score
// as Medium.
func AIPoints(intent domain.Intent) int {
	if p, ok := intentPoints[intent]; ok {
		return p
	}
	return intentPoints[domain.IntentMedium]
}

// FinalScore clamps the sum of rule and AI points to [0, 100].
func FinalScore(ruleTotal, aiPoints int) int {
	return max(0, min(maxFinalScore, ruleTotal+aiPoints))
}

// ComposeReasoning renders the stored reasoning string for a lead.
func ComposeReasoning(b RuleBreakdown, explanation string) string {
	return fmt.Sprintf("Rule: role %d, industry %d, completeness %d. AI: %s",
		b.Role, b.Industry, b.Completeness, explanation)
}

// Evaluation is the complete scoring outcome for one lead.
type Evaluation struct {
	Rules  RuleBreakdown
	Parsed Parsed
	Result domain.ResultInput
}

// Merge combines the rule breakdown with the parsed classifier judgment.
func Merge(rules RuleBreakdown, parsed Parsed) Evaluation {
	return Evaluation{
		Rules:  rules,
		Parsed: parsed,
		Result: domain.ResultInput{
			Intent:    parsed.Intent,
			Score:     FinalScore(rules.Total(), AIPoints(parsed.Intent)),
			Reasoning: ComposeReasoning(rules, parsed.Explanation),
		},
	}
}
