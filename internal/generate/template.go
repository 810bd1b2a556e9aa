package generate

import (
	"context"

	"github.com/ignite/review-responder/internal/ozon"
	"github.com/ignite/review-responder/internal/reply"
	"github.com/ignite/review-responder/internal/triage"
)

// TemplateGenerator is the synchronous fallback for the AI lanes: rating-
// and keyword-conditioned templates, no network. Used when Bedrock is
// disabled or unreachable at startup.
type TemplateGenerator struct {
	selector *reply.Selector
}

// NewTemplateGenerator wraps a reply selector as a Generator.
func NewTemplateGenerator(selector *reply.Selector) *TemplateGenerator {
	return &TemplateGenerator{selector: selector}
}

// Generate resolves every review through the fallback templates. Coverage
// is total by construction but validated anyway to keep the contract
// uniform across generators.
func (g *TemplateGenerator) Generate(_ context.Context, reviews []ozon.Review, _ string) (map[string]string, error) {
	replies := make(map[string]string, len(reviews))
	for _, review := range reviews {
		lane := triage.LaneAIPositive
		if review.Rating <= 3 {
			lane = triage.LaneAINegative
		}
		text, err := g.selector.Select(review, lane)
		if err != nil {
			return nil, err
		}
		replies[review.ID] = text
	}
	return ValidateCoverage(reviews, replies)
}
