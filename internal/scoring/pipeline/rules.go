// Package pipeline implements the per-lead scoring steps: deterministic
// rules, prompt construction, intent classification, response parsing and
// the merge into a bounded final score.
package pipeline

import (
	"strings"

	"leadqual_backend/internal/scoring/domain"
)

const (
	maxRoleScore         = 20
	influencerRoleScore  = 10
	maxIndustryScore     = 20
	partialIndustryScore = 10
	completenessScore    = 10

	// MaxRuleScore is the upper bound of RuleBreakdown.Total.
	MaxRuleScore = maxRoleScore + maxIndustryScore + completenessScore
)

var decisionMakerKeywords = []string{
	"ceo", "chief", "cto", "cfo", "coo", "founder", "co-founder",
	"vp", "vice president", "head of", "director", "owner",
}

var influencerKeywords = []string{
	"manager", "lead", "principal", "senior", "growth", "product", "marketing",
}

// RuleBreakdown holds the three deterministic sub-scores of a lead.
type RuleBreakdown struct {
	Role         int
	Industry     int
	Completeness int
}

// Total is the rule subtotal, always within [0, MaxRuleScore].
func (b RuleBreakdown) Total() int {
	return b.Role + b.Industry + b.Completeness
}

// ScoreRules computes all rule sub-scores for lead against offer.
func ScoreRules(lead domain.Lead, offer domain.Offer) RuleBreakdown {
	return RuleBreakdown{
		Role:         RoleScore(lead.Role),
		Industry:     IndustryScore(lead.Industry, offer.IdealUseCases),
		Completeness: CompletenessScore(lead),
	}
}

// RoleScore gives 20 points to decision makers and 10 to influencers.
// Matching is substring based on the lower-cased role.
func RoleScore(role string) int {
	r := strings.ToLower(role)
	if containsAny(r, decisionMakerKeywords) {
		return maxRoleScore
	}
	if containsAny(r, influencerKeywords) {
		return influencerRoleScore
	}
	return 0
}

// IndustryScore gives 20 points for an exact (case-insensitive) match with an
// ideal use case and 10 points for a fuzzy overlap.
func IndustryScore(industry string, idealUseCases []string) int {
	ind := normalize(industry)
	if ind == "" {
		return 0
	}

	useCases := make([]string, 0, len(idealUseCases))
	for _, uc := range idealUseCases {
		if n := normalize(uc); n != "" {
			useCases = append(useCases, n)
		}
	}

	for _, uc := range useCases {
		if uc == ind {
			return maxIndustryScore
		}
	}

	tokens := strings.Fields(ind)
	for _, uc := range useCases {
		if strings.Contains(ind, uc) || strings.Contains(uc, ind) {
			return partialIndustryScore
		}
		for _, tok := range tokens {
			if strings.Contains(uc, tok) {
				return partialIndustryScore
			}
		}
	}
	return 0
}

// CompletenessScore is all-or-nothing over the five required profile fields.
func CompletenessScore(lead domain.Lead) int {
	for _, field := range []string{lead.Name, lead.Role, lead.Company, lead.Industry, lead.Location} {
		if strings.TrimSpace(field) == "" {
			return 0
		}
	}
	return completenessScore
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
