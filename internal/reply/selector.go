// Package reply resolves a classified review to reply text. Auto lanes draw
// from fixed template pools; AI lanes fall back to rating- and
// keyword-conditioned templates when no external generator is in use.
package reply

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/osteele/liquid"

	"github.com/ignite/review-responder/internal/ozon"
	"github.com/ignite/review-responder/internal/policy"
	"github.com/ignite/review-responder/internal/triage"
)

// NoStrategyError reports a lane the selector has no generator for.
type NoStrategyError struct {
	Lane triage.Lane
}

func (e *NoStrategyError) Error() string {
	return fmt.Sprintf("no reply strategy configured for lane %s", e.Lane)
}

// Selector resolves lane + review to reply text. The randomness source is
// injected so template choice is reproducible under test.
type Selector struct {
	rng        *rand.Rand
	engine     *liquid.Engine
	noTextTmpl []*liquid.Template
	photoTmpl  []*liquid.Template
}

// NewSelector parses the template pools and checks every source against the
// policy compliance rules. A violating template is a construction error, not
// a runtime one.
func NewSelector(rng *rand.Rand) (*Selector, error) {
	if rng == nil {
		return nil, fmt.Errorf("selector requires a randomness source")
	}

	s := &Selector{
		rng:    rng,
		engine: liquid.NewEngine(),
	}

	var err error
	if s.noTextTmpl, err = s.parsePool("no_text", noTextPool); err != nil {
		return nil, err
	}
	if s.photoTmpl, err = s.parsePool("photos", photoPool); err != nil {
		return nil, err
	}

	for _, src := range []string{fallbackFiveStarPhotos, fallbackFiveStar, fallbackFourStar, fallbackThreeStar, fallbackApologetic, fallbackNeutralContact} {
		if err := policy.CheckCompliance(src); err != nil {
			return nil, fmt.Errorf("fallback template violates policy: %w", err)
		}
	}

	return s, nil
}

func (s *Selector) parsePool(name string, sources []string) ([]*liquid.Template, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("template pool %s is empty", name)
	}

	templates := make([]*liquid.Template, 0, len(sources))
	for i, src := range sources {
		if err := policy.CheckCompliance(src); err != nil {
			return nil, fmt.Errorf("pool %s template %d violates policy: %w", name, i, err)
		}
		tmpl, err := s.engine.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("pool %s template %d does not parse: %w", name, i, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

func (s *Selector) bindings(review ozon.Review) liquid.Bindings {
	return liquid.Bindings{
		"rating":       review.Rating,
		"photos_count": review.PhotosCount,
		"sku":          review.SKU,
	}
}

// Select resolves reply text for the given lane. Skip lanes have no
// strategy and fail with NoStrategyError; the orchestrator must not route
// them here.
func (s *Selector) Select(review ozon.Review, lane triage.Lane) (string, error) {
	switch lane {
	case triage.LaneAutoNoText:
		return s.renderRandom(s.noTextTmpl, review)
	case triage.LaneAutoWithPhotos:
		return s.renderRandom(s.photoTmpl, review)
	case triage.LaneAIPositive, triage.LaneAINegative:
		return s.fallbackFor(review), nil
	default:
		return "", &NoStrategyError{Lane: lane}
	}
}

func (s *Selector) renderRandom(pool []*liquid.Template, review ozon.Review) (string, error) {
	tmpl := pool[s.rng.Intn(len(pool))]
	out, err := tmpl.RenderString(s.bindings(review))
	if err != nil {
		return "", fmt.Errorf("rendering reply template: %w", err)
	}
	return out, nil
}

// fallbackFor picks the synchronous AI-lane template by rating and, for
// 1-2★, by a lexicon match against the review text.
func (s *Selector) fallbackFor(review ozon.Review) string {
	switch {
	case review.Rating >= 5:
		if review.HasPhotos() {
			return fallbackFiveStarPhotos
		}
		return fallbackFiveStar
	case review.Rating == 4:
		return fallbackFourStar
	case review.Rating == 3:
		return fallbackThreeStar
	default:
		if MatchesNegativeLexicon(review.Text) {
			return fallbackApologetic
		}
		return fallbackNeutralContact
	}
}

// MatchesNegativeLexicon reports whether text mentions a defect-related term.
func MatchesNegativeLexicon(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range negativeLexicon {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
