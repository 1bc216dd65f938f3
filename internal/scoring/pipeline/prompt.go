package pipeline

import (
	"fmt"
	"strings"

	"leadqual_backend/internal/scoring/domain"
)

const bioPlaceholder = "N/A"

// BuildPrompt renders the single classification prompt for one lead.
func BuildPrompt(offer domain.Offer, lead domain.Lead) string {
	bio := bioPlaceholder
	if lead.Bio != nil && strings.TrimSpace(*lead.Bio) != "" {
		bio = strings.TrimSpace(*lead.Bio)
	}

	return fmt.Sprintf(`You are an expert B2B sales qualification assistant.

Offer:
- Name: %s
- Value propositions: %s
- Ideal use cases: %s

Prospect:
- Name: %s
- Role: %s
- Company: %s
- Industry: %s
- Location: %s
- LinkedIn bio: %s

Classify this prospect's buying intent for the offer as High, Medium, or Low.
Respond in exactly two lines and nothing else:
INTENT: <High|Medium|Low>
REASON: <one or two sentences explaining the classification>`,
		offer.Name,
		strings.Join(offer.ValueProps, "; "),
		strings.Join(offer.IdealUseCases, "; "),
		lead.Name,
		lead.Role,
		lead.Company,
		lead.Industry,
		lead.Location,
		bio,
	)
}
