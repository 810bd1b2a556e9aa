// Package generate produces AI-drafted reply text for the AI lanes. The
// external generator receives the full batch of eligible reviews plus the
// company policy document and must return one reply per review id; a partial
// response fails the whole batch, since sending guessed defaults is unsafe.
package generate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ignite/review-responder/internal/ozon"
)

// Generator drafts one reply per review id.
type Generator interface {
	Generate(ctx context.Context, reviews []ozon.Review, policyText string) (map[string]string, error)
}

// IncompleteGenerationError reports review ids the generator omitted.
// Fatal for the whole batch.
type IncompleteGenerationError struct {
	Missing []string
}

func (e *IncompleteGenerationError) Error() string {
	return fmt.Sprintf("generator omitted %d review ids: %s", len(e.Missing), strings.Join(e.Missing, ", "))
}

// ValidateCoverage checks that replies covers every requested review id
// with non-blank text. Extra ids are dropped; missing or blank ids fail
// the batch. The orchestrator applies this to every Generator's output,
// so a misbehaving implementation can never leak an empty reply.
func ValidateCoverage(reviews []ozon.Review, replies map[string]string) (map[string]string, error) {
	var missing []string
	covered := make(map[string]string, len(reviews))

	for _, review := range reviews {
		text, ok := replies[review.ID]
		if !ok || strings.TrimSpace(text) == "" {
			missing = append(missing, review.ID)
			continue
		}
		covered[review.ID] = text
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &IncompleteGenerationError{Missing: missing}
	}

	return covered, nil
}
