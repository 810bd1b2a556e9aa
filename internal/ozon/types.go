package ozon

import (
	"fmt"
	"strings"
)

// Status is the server-authoritative processing state of a review.
// It is mutated only through ChangeStatus; the engine never caches it
// across runs.
type Status string

const (
	StatusUnprocessed Status = "UNPROCESSED"
	StatusProcessed   Status = "PROCESSED"
)

// SortDir is the review list sort direction.
type SortDir string

const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

// Review is one customer review as returned by the marketplace.
// Instances are read-only snapshots fetched fresh each run.
type Review struct {
	ID            string `json:"id"`
	SKU           int64  `json:"sku"`
	Rating        int    `json:"rating"`
	Text          string `json:"text"`
	Status        Status `json:"status"`
	CommentsCount int    `json:"comments_amount"`
	PhotosCount   int    `json:"photos_amount"`
	PublishedAt   string `json:"published_at"`
}

// HasText reports whether the review carries non-whitespace text.
func (r Review) HasText() bool {
	return strings.TrimSpace(r.Text) != ""
}

// HasPhotos reports whether the review carries at least one photo.
func (r Review) HasPhotos() bool {
	return r.PhotosCount > 0
}

// Validate checks the fields a fetched review must carry. Unknown or
// missing fields fail here, at the source boundary, rather than
// defaulting silently mid-pipeline.
func (r Review) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("review has empty id")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("review %s: rating %d outside 1-5", r.ID, r.Rating)
	}
	if r.CommentsCount < 0 {
		return fmt.Errorf("review %s: negative comments_amount %d", r.ID, r.CommentsCount)
	}
	if r.PhotosCount < 0 {
		return fmt.Errorf("review %s: negative photos_amount %d", r.ID, r.PhotosCount)
	}
	switch r.Status {
	case StatusUnprocessed, StatusProcessed:
	default:
		return fmt.Errorf("review %s: unknown status %q", r.ID, r.Status)
	}
	return nil
}

// Comment is one seller or customer comment under a review.
type Comment struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsOwner     bool   `json:"is_owner"`
	PublishedAt string `json:"published_at"`
}

// ListReviewsRequest describes one review page fetch. RatingMin, RatingMax
// and Status are client-side filters: the list endpoint has none.
type ListReviewsRequest struct {
	Limit     int
	SortDir   SortDir
	SKU       int64
	RatingMin int
	RatingMax int
	Status    Status
}

type listReviewsPayload struct {
	Limit   int    `json:"limit"`
	SortDir string `json:"sort_dir"`
	SKU     int64  `json:"sku,omitempty"`
}

type listReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

type listCommentsPayload struct {
	ReviewID string `json:"review_id"`
	Limit    int    `json:"limit"`
}

type listCommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type createCommentPayload struct {
	ReviewID string `json:"review_id"`
	Text     string `json:"text"`
}

type createCommentResponse struct {
	CommentID string `json:"comment_id"`
}

type changeStatusPayload struct {
	ReviewIDs []string `json:"review_ids"`
	Status    Status   `json:"status"`
}
