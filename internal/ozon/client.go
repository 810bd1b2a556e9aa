package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/review-responder/internal/config"
	"github.com/ignite/review-responder/internal/pkg/httpretry"
)

// Client is the Ozon Seller API client. Read endpoints (review list,
// comment list) go through a retrying client; write endpoints (comment
// create, status change) are never retried, since the API has no
// idempotency key for comment creation.
type Client struct {
	baseURL     string
	clientID    string
	apiKey      string
	readClient  httpretry.HTTPDoer
	writeClient httpretry.HTTPDoer
}

// NewClient creates a new Ozon Seller API client
func NewClient(cfg config.OzonConfig) *Client {
	base := &http.Client{Timeout: cfg.Timeout()}
	return &Client{
		baseURL:     cfg.BaseURL,
		clientID:    cfg.ClientID,
		apiKey:      cfg.APIKey,
		readClient:  httpretry.NewRetryClient(base, 3),
		writeClient: base,
	}
}

// SetHTTPClients sets custom HTTP clients (useful for testing)
func (c *Client) SetHTTPClients(read, write httpretry.HTTPDoer) {
	c.readClient = read
	c.writeClient = write
}

// doRequest performs an authenticated POST to the Ozon Seller API.
// All Ozon Seller endpoints are POST with a JSON body.
func (c *Client) doRequest(ctx context.Context, doer httpretry.HTTPDoer, endpoint string, body interface{}) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// clampLimit applies the server-side page size range [20,100]
func clampLimit(limit int) int {
	if limit < 20 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// ListReviews fetches a page of reviews. Each review is validated at this
// boundary; a malformed review fails the whole fetch. RatingMin/RatingMax
// and Status filters are applied client-side.
func (c *Client) ListReviews(ctx context.Context, req ListReviewsRequest) ([]Review, error) {
	sortDir := req.SortDir
	if sortDir == "" {
		sortDir = SortDesc
	}

	payload := listReviewsPayload{
		Limit:   clampLimit(req.Limit),
		SortDir: string(sortDir),
		SKU:     req.SKU,
	}

	respBody, err := c.doRequest(ctx, c.readClient, "/v1/review/list", payload)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}

	var response listReviewsResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse reviews response: %w", err)
	}

	reviews := make([]Review, 0, len(response.Reviews))
	for _, r := range response.Reviews {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid review in response: %w", err)
		}
		if req.RatingMin > 0 && r.Rating < req.RatingMin {
			continue
		}
		if req.RatingMax > 0 && r.Rating > req.RatingMax {
			continue
		}
		if req.Status != "" && r.Status != req.Status {
			continue
		}
		reviews = append(reviews, r)
	}

	return reviews, nil
}

// ListComments fetches existing comments under a review
func (c *Client) ListComments(ctx context.Context, reviewID string, limit int) ([]Comment, error) {
	payload := listCommentsPayload{
		ReviewID: reviewID,
		Limit:    clampLimit(limit),
	}

	respBody, err := c.doRequest(ctx, c.readClient, "/v1/review/comment/list", payload)
	if err != nil {
		return nil, fmt.Errorf("listing comments for review %s: %w", reviewID, err)
	}

	var response listCommentsResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse comments response: %w", err)
	}

	return response.Comments, nil
}

// CreateComment submits a seller reply to a review and returns the created
// comment ID. Attempted at most once per review per run by the engine.
func (c *Client) CreateComment(ctx context.Context, reviewID, text string) (string, error) {
	payload := createCommentPayload{ReviewID: reviewID, Text: text}

	respBody, err := c.doRequest(ctx, c.writeClient, "/v1/review/comment/create", payload)
	if err != nil {
		return "", fmt.Errorf("replying to review %s: %w", reviewID, err)
	}

	var response createCommentResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("failed to parse comment create response: %w", err)
	}

	return response.CommentID, nil
}

// ChangeStatus updates the processing status for a set of reviews in one
// batched call. All-or-nothing as observed by the caller.
func (c *Client) ChangeStatus(ctx context.Context, reviewIDs []string, status Status) error {
	if len(reviewIDs) == 0 {
		return nil
	}

	payload := changeStatusPayload{ReviewIDs: reviewIDs, Status: status}

	if _, err := c.doRequest(ctx, c.writeClient, "/v1/review/change-status", payload); err != nil {
		return fmt.Errorf("changing status for %d reviews: %w", len(reviewIDs), err)
	}

	return nil
}
