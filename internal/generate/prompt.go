package generate

import (
	"fmt"
	"strings"

	"github.com/ignite/review-responder/internal/ozon"
)

// systemPrompt frames the model as the seller's support voice.
const systemPrompt = `You are the customer support voice of a marketplace seller replying to product reviews in Russian.

## Response Guidelines
1. Every reply must be unique and personalized to the review content
2. Acknowledge specific products and emotions the customer mentions
3. Use emoji sparingly and appropriately
4. STRICTLY follow the company policy rules - never promise refunds or compensation
5. Packaging or delivery problems: direct the customer to the marketplace support
6. Product did not fit: offer a usage consultation
7. Tone: polite, professional, empathetic
8. Negative reviews (1-3 stars) need more empathy, an apology, and an invitation to direct messages

Return ONLY a JSON array, one object per review:
[{"id": "...", "reply": "..."}]`

// BuildPrompt packages the review batch and the policy document into one
// generation request.
func BuildPrompt(reviews []ozon.Review, policyText string) string {
	var b strings.Builder

	if policyText != "" {
		b.WriteString("## Company policy rules (binding):\n")
		b.WriteString(policyText)
		b.WriteString("\n\n")
	}

	b.WriteString("## Reviews to answer:\n")
	for i, review := range reviews {
		fmt.Fprintf(&b, "\n%d. ID: %s\n   Rating: %d★\n", i+1, review.ID, review.Rating)
		if review.HasText() {
			fmt.Fprintf(&b, "   Text: %s\n", review.Text)
		}
		if review.HasPhotos() {
			fmt.Fprintf(&b, "   Photos: %d\n", review.PhotosCount)
		}
		fmt.Fprintf(&b, "   SKU: %d\n", review.SKU)
	}

	b.WriteString("\nReturn the JSON array with one reply per review id. Cover every id.")
	return b.String()
}
