// Package triage routes fetched reviews to processing lanes. Classification
// is a pure function of review fields and caller options; it performs no I/O
// and is deterministic.
package triage

import (
	"fmt"

	"github.com/ignite/review-responder/internal/ozon"
)

// Lane is the processing path a review is routed to.
type Lane string

const (
	// LaneAutoNoText: 5★ with no text, answered from the no-text template pool.
	LaneAutoNoText Lane = "AUTO_NO_TEXT"
	// LaneAutoWithPhotos: 5★ with photos, answered from the photo template pool.
	LaneAutoWithPhotos Lane = "AUTO_WITH_PHOTOS"
	// LaneAIPositive: text-bearing review inside the target rating range.
	LaneAIPositive Lane = "AI_POSITIVE"
	// LaneAINegative: text-bearing 1-3★ review.
	LaneAINegative Lane = "AI_NEGATIVE"
	// LaneSkipAlreadyCommented: a seller comment already exists.
	LaneSkipAlreadyCommented Lane = "SKIP_ALREADY_COMMENTED"
	// LaneSkipUnclassified: no rule matched.
	LaneSkipUnclassified Lane = "SKIP_UNCLASSIFIED"
)

// IsSkip reports whether the lane is terminal without a reply.
func (l Lane) IsSkip() bool {
	return l == LaneSkipAlreadyCommented || l == LaneSkipUnclassified
}

// IsAI reports whether the lane is resolved through the text generator.
func (l Lane) IsAI() bool {
	return l == LaneAIPositive || l == LaneAINegative
}

// Options control lane routing.
//
// PhotoLaneIncludesText selects between two historical behaviors for a 5★
// review that has both text and photos: when true it goes to the photo
// auto-reply lane (photo-autoreply workflow); when false it is reserved for
// the AI lanes (text-aware workflow).
type Options struct {
	TargetRatingMin       int
	TargetRatingMax       int
	PhotoLaneIncludesText bool
}

// DefaultOptions matches the text-aware workflow with a 4-5★ AI target.
func DefaultOptions() Options {
	return Options{TargetRatingMin: 4, TargetRatingMax: 5}
}

// InvalidStateError reports a review that should never have reached the
// classifier. The caller must filter to UNPROCESSED reviews first.
type InvalidStateError struct {
	ReviewID string
	Status   ozon.Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("review %s has status %s, classifier requires UNPROCESSED", e.ReviewID, e.Status)
}

// Classify maps a review to its processing lane. Rules are evaluated in
// precedence order; the first match wins.
func Classify(review ozon.Review, opts Options) (Lane, error) {
	if review.Status != ozon.StatusUnprocessed {
		return "", &InvalidStateError{ReviewID: review.ID, Status: review.Status}
	}

	if review.CommentsCount > 0 {
		return LaneSkipAlreadyCommented, nil
	}

	if review.Rating == 5 && !review.HasText() {
		if review.HasPhotos() {
			return LaneAutoWithPhotos, nil
		}
		return LaneAutoNoText, nil
	}

	if review.Rating == 5 && review.HasPhotos() && opts.PhotoLaneIncludesText {
		return LaneAutoWithPhotos, nil
	}

	if review.HasText() && opts.TargetRatingMin > 0 &&
		review.Rating >= opts.TargetRatingMin && review.Rating <= opts.TargetRatingMax {
		return LaneAIPositive, nil
	}

	if review.HasText() && review.Rating >= 1 && review.Rating <= 3 {
		return LaneAINegative, nil
	}

	return LaneSkipUnclassified, nil
}
