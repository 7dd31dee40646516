package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIClientSendsBearerAndParsesJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/addJob" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Fatalf("unexpected authorization header %q", got)
		}

		var payload Payload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Type != "delivery" {
			t.Fatalf("unexpected type %q", payload.Type)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"job":     map[string]any{"type": "delivery", "track_token": "AB12CD34"},
		})
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	job, err := c.CreateJob(context.Background(), "tok-123", Payload{Type: "delivery"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.TrackToken != "AB12CD34" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestAPIClientSurfacesErrorMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": `column "trade_year" of relation "jobs" does not exist`,
		})
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	_, err := c.CreateJob(context.Background(), "tok", Payload{Type: "swap"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != `column "trade_year" of relation "jobs" does not exist` {
		t.Fatalf("message must survive verbatim, got %q", apiErr.Message)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
}

func TestAPIClientDefaultsErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)
	_, err := c.CreateJob(context.Background(), "tok", Payload{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Failed to create job." {
		t.Fatalf("unexpected default message %q", apiErr.Message)
	}
}
