package engine

import "time"

// State is the per-review processing state within a single run. States are
// not persisted: a review is re-fetched and re-classified every run, and
// the marketplace status field is the only durable marker.
type State string

const (
	StateClassified    State = "CLASSIFIED"
	StateSkipped       State = "SKIPPED"
	StateReplyPending  State = "REPLY_PENDING"
	StateReplied       State = "REPLIED"
	StateReplyFailed   State = "REPLY_FAILED"
	StateStatusUpdated State = "STATUS_UPDATED"
	StateStatusFailed  State = "STATUS_FAILED"
)

// ReplyAttempt records what happened to one review during a run.
type ReplyAttempt struct {
	ReviewID  string `json:"review_id"`
	SKU       int64  `json:"sku,omitempty"`
	Rating    int    `json:"rating"`
	Lane      string `json:"lane"`
	State     State  `json:"state"`
	ReplyText string `json:"reply_text,omitempty"`
	CommentID string `json:"comment_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RunResult is the audit record of one run. CompensationSet lists reviews
// whose reply was posted but whose status update failed; they surface as
// SKIP_ALREADY_COMMENTED next run and are repaired by mark-processed.
type RunResult struct {
	RunID           string         `json:"run_id"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	DryRun          bool           `json:"dry_run"`
	Aborted         string         `json:"aborted,omitempty"`
	Fetched         int            `json:"fetched"`
	LaneCounts      map[string]int `json:"lane_counts"`
	Planned         int            `json:"planned"`
	Sent            int            `json:"sent"`
	Failed          int            `json:"failed"`
	StatusUpdated   int            `json:"status_updated"`
	CompensationSet []string       `json:"compensation_set,omitempty"`
	Attempts        []ReplyAttempt `json:"attempts"`
}
