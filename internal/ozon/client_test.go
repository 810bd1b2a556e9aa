package ozon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ignite/review-responder/internal/config"
)

func testClient(serverURL string) *Client {
	return NewClient(config.OzonConfig{
		ClientID:       "12345",
		APIKey:         "test-key",
		BaseURL:        serverURL,
		TimeoutSeconds: 5,
	})
}

func TestListReviews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Client-Id") != "12345" {
			t.Error("Missing Client-Id header")
		}
		if r.Header.Get("Api-Key") != "test-key" {
			t.Error("Missing Api-Key header")
		}
		if r.URL.Path != "/v1/review/list" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}

		var payload listReviewsPayload
		json.NewDecoder(r.Body).Decode(&payload)
		if payload.Limit != 20 {
			t.Errorf("Expected limit clamped to 20, got %d", payload.Limit)
		}
		if payload.SortDir != "DESC" {
			t.Errorf("Expected default sort DESC, got %s", payload.SortDir)
		}

		json.NewEncoder(w).Encode(listReviewsResponse{
			Reviews: []Review{
				{ID: "r1", SKU: 100, Rating: 5, Status: StatusUnprocessed},
				{ID: "r2", SKU: 100, Rating: 2, Text: "плохое качество", Status: StatusUnprocessed},
				{ID: "r3", SKU: 101, Rating: 4, Text: "Неплохо", Status: StatusProcessed},
			},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)

	reviews, err := client.ListReviews(context.Background(), ListReviewsRequest{Limit: 5})
	if err != nil {
		t.Fatalf("ListReviews failed: %v", err)
	}
	if len(reviews) != 3 {
		t.Errorf("Expected 3 reviews, got %d", len(reviews))
	}
}

func TestListReviewsClientSideFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(listReviewsResponse{
			Reviews: []Review{
				{ID: "r1", Rating: 5, Status: StatusUnprocessed},
				{ID: "r2", Rating: 2, Status: StatusUnprocessed},
				{ID: "r3", Rating: 4, Status: StatusProcessed},
				{ID: "r4", Rating: 4, Status: StatusUnprocessed},
			},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)

	reviews, err := client.ListReviews(context.Background(), ListReviewsRequest{
		Limit:     100,
		RatingMin: 4,
		RatingMax: 5,
		Status:    StatusUnprocessed,
	})
	if err != nil {
		t.Fatalf("ListReviews failed: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("Expected 2 reviews after filtering, got %d", len(reviews))
	}
	if reviews[0].ID != "r1" || reviews[1].ID != "r4" {
		t.Errorf("Unexpected filtered set: %s, %s", reviews[0].ID, reviews[1].ID)
	}
}

func TestListReviewsRejectsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(listReviewsResponse{
			Reviews: []Review{
				{ID: "r1", Rating: 5, Status: StatusUnprocessed},
				{ID: "", Rating: 5, Status: StatusUnprocessed},
			},
		})
	}))
	defer server.Close()

	_, err := testClient(server.URL).ListReviews(context.Background(), ListReviewsRequest{Limit: 20})
	if err == nil {
		t.Fatal("Expected error for review with empty id")
	}
}

func TestCreateComment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/review/comment/create" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var payload createCommentPayload
		json.NewDecoder(r.Body).Decode(&payload)
		if payload.ReviewID != "r1" {
			t.Errorf("Expected review_id r1, got %s", payload.ReviewID)
		}
		if payload.Text == "" {
			t.Error("Expected non-empty text")
		}
		json.NewEncoder(w).Encode(createCommentResponse{CommentID: "c100"})
	}))
	defer server.Close()

	commentID, err := testClient(server.URL).CreateComment(context.Background(), "r1", "Спасибо за отзыв!")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if commentID != "c100" {
		t.Errorf("Expected comment ID c100, got %s", commentID)
	}
}

func TestCreateCommentAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"review already answered"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateComment(context.Background(), "r1", "text")
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Body == "" {
		t.Error("Expected error body to be carried")
	}
}

func TestChangeStatus(t *testing.T) {
	var gotPayload changeStatusPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/review/change-status" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := testClient(server.URL).ChangeStatus(context.Background(), []string{"r1", "r2"}, StatusProcessed)
	if err != nil {
		t.Fatalf("ChangeStatus failed: %v", err)
	}
	if len(gotPayload.ReviewIDs) != 2 {
		t.Errorf("Expected 2 review ids, got %d", len(gotPayload.ReviewIDs))
	}
	if gotPayload.Status != StatusProcessed {
		t.Errorf("Expected PROCESSED, got %s", gotPayload.Status)
	}
}

func TestChangeStatusEmptySetIsNoop(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	if err := testClient(server.URL).ChangeStatus(context.Background(), nil, StatusProcessed); err != nil {
		t.Fatalf("ChangeStatus failed: %v", err)
	}
	if called {
		t.Error("Expected no API call for empty id set")
	}
}

func TestWritesAreNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateComment(context.Background(), "r1", "text")
	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Write must be attempted exactly once, got %d calls", calls)
	}
}

func TestReviewValidate(t *testing.T) {
	valid := Review{ID: "r1", Rating: 3, Status: StatusUnprocessed}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid review rejected: %v", err)
	}

	cases := []Review{
		{ID: "", Rating: 3, Status: StatusUnprocessed},
		{ID: "r1", Rating: 0, Status: StatusUnprocessed},
		{ID: "r1", Rating: 6, Status: StatusUnprocessed},
		{ID: "r1", Rating: 3, Status: "PENDING"},
		{ID: "r1", Rating: 3, Status: StatusUnprocessed, CommentsCount: -1},
	}
	for i, r := range cases {
		if err := r.Validate(); err == nil {
			t.Errorf("Case %d: expected validation error", i)
		}
	}
}

func TestListReviewsTransportError(t *testing.T) {
	client := testClient("http://127.0.0.1:0")
	plain := &http.Client{}
	client.SetHTTPClients(plain, plain)
	_, err := client.ListReviews(context.Background(), ListReviewsRequest{Limit: 20})
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if _, ok := AsAPIError(err); ok {
		t.Error("Transport error must not be an APIError")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("Transport error unexpectedly unwraps to APIError")
	}
}
