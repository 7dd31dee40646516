package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError carries the downstream failure message verbatim; the creation
// workflow inspects it for the trade-column drift heuristic. Details keeps
// whatever diagnostic body the endpoint returned.
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string { return e.Message }

// APIClient posts job payloads to the creation endpoint with the caller's
// bearer token.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type createJobResp struct {
	Success bool            `json:"success"`
	Job     *Job            `json:"job"`
	Error   string          `json:"error"`
	Raw     json.RawMessage `json:"-"`
}

func (c *APIClient) CreateJob(ctx context.Context, bearerToken string, payload Payload) (*Job, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/addJob", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var result createJobResp
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("job endpoint returned http %d", resp.StatusCode),
		}
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Failed to create job."
		}
		var details map[string]any
		_ = json.Unmarshal(raw, &details)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Details: details}
	}

	return result.Job, nil
}
