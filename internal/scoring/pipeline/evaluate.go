package pipeline

import (
	"context"

	"leadqual_backend/internal/scoring/domain"
)

// Evaluate runs every step for a single lead. The classifier outcome is
// returned so callers can log failures; a failed call has already been
// folded into the default Medium path.
func Evaluate(ctx context.Context, classifier *Classifier, offer domain.Offer, lead domain.Lead) (Evaluation, Outcome) {
	rules := ScoreRules(lead, offer)
	outcome := classifier.Classify(ctx, BuildPrompt(offer, lead))
	return Merge(rules, ParseIntent(outcome.ResponseText())), outcome
}
