package reply

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/review-responder/internal/ozon"
	"github.com/ignite/review-responder/internal/triage"
)

func newTestSelector(t *testing.T, seed int64) *Selector {
	t.Helper()
	s, err := NewSelector(rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return s
}

func fiveStar(text string, photos int) ozon.Review {
	return ozon.Review{ID: "r1", Rating: 5, Text: text, PhotosCount: photos, Status: ozon.StatusUnprocessed}
}

func TestSelectAutoNoTextDrawsFromPool(t *testing.T) {
	s := newTestSelector(t, 42)

	text, err := s.Select(fiveStar("", 0), triage.LaneAutoNoText)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Contains(t, strings.Join(noTextPool, "\n"), text)
}

func TestSelectAutoWithPhotosRendersPhotoContext(t *testing.T) {
	s := newTestSelector(t, 1)

	// Draw until the conditional template comes up; the pool is small.
	sawSingular, sawPlural := false, false
	for i := 0; i < 200 && !(sawSingular && sawPlural); i++ {
		one, err := s.Select(fiveStar("", 1), triage.LaneAutoWithPhotos)
		require.NoError(t, err)
		many, err := s.Select(fiveStar("", 3), triage.LaneAutoWithPhotos)
		require.NoError(t, err)

		if strings.Contains(one, "ваше фото") {
			sawSingular = true
		}
		if strings.Contains(many, "ваши фотографии") {
			sawPlural = true
		}
	}
	assert.True(t, sawSingular, "singular photo wording never rendered")
	assert.True(t, sawPlural, "plural photo wording never rendered")
}

func TestSelectIsReproducibleWithSameSeed(t *testing.T) {
	a := newTestSelector(t, 7)
	b := newTestSelector(t, 7)

	for i := 0; i < 20; i++ {
		textA, err := a.Select(fiveStar("", 0), triage.LaneAutoNoText)
		require.NoError(t, err)
		textB, err := b.Select(fiveStar("", 0), triage.LaneAutoNoText)
		require.NoError(t, err)
		assert.Equal(t, textA, textB)
	}
}

func TestSelectAIFallbackByRating(t *testing.T) {
	s := newTestSelector(t, 1)

	text, err := s.Select(fiveStar("Отличный товар", 2), triage.LaneAIPositive)
	require.NoError(t, err)
	assert.Equal(t, fallbackFiveStarPhotos, text)

	review := ozon.Review{ID: "r2", Rating: 4, Text: "Неплохо", Status: ozon.StatusUnprocessed}
	text, err = s.Select(review, triage.LaneAIPositive)
	require.NoError(t, err)
	assert.Equal(t, fallbackFourStar, text)

	review.Rating = 3
	text, err = s.Select(review, triage.LaneAINegative)
	require.NoError(t, err)
	assert.Equal(t, fallbackThreeStar, text)
}

func TestSelectNegativeLexiconPicksApologeticVariant(t *testing.T) {
	s := newTestSelector(t, 1)

	defect := ozon.Review{ID: "r3", Rating: 2, Text: "Пришёл БРАК, очень расстроена", Status: ozon.StatusUnprocessed}
	text, err := s.Select(defect, triage.LaneAINegative)
	require.NoError(t, err)
	assert.Equal(t, fallbackApologetic, text)

	vague := ozon.Review{ID: "r4", Rating: 1, Text: "не то, что ожидала", Status: ozon.StatusUnprocessed}
	text, err = s.Select(vague, triage.LaneAINegative)
	require.NoError(t, err)
	assert.Equal(t, fallbackNeutralContact, text)
}

func TestSelectSkipLanesHaveNoStrategy(t *testing.T) {
	s := newTestSelector(t, 1)

	_, err := s.Select(fiveStar("", 0), triage.LaneSkipAlreadyCommented)
	require.Error(t, err)

	var noStrategy *NoStrategyError
	require.ErrorAs(t, err, &noStrategy)
	assert.Equal(t, triage.LaneSkipAlreadyCommented, noStrategy.Lane)

	_, err = s.Select(fiveStar("", 0), triage.LaneSkipUnclassified)
	assert.Error(t, err)
}

func TestMatchesNegativeLexicon(t *testing.T) {
	assert.True(t, MatchesNegativeLexicon("товар ПЛОХОГО качества"))
	assert.True(t, MatchesNegativeLexicon("размер не подошёл"))
	assert.True(t, MatchesNegativeLexicon("arrived broken"))
	assert.False(t, MatchesNegativeLexicon("всё отлично"))
	assert.False(t, MatchesNegativeLexicon(""))
}

func TestPoolsAreCompliant(t *testing.T) {
	// NewSelector re-checks every template against the policy rules;
	// construction succeeding is the assertion.
	_, err := NewSelector(rand.New(rand.NewSource(1)))
	assert.NoError(t, err)
}

func TestNewSelectorRequiresRand(t *testing.T) {
	_, err := NewSelector(nil)
	assert.Error(t, err)
}
