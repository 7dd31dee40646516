// Package billing wraps the external billing-setup collaborator. The call is
// feature-flag gated and its failure is never fatal to registration.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type setupReq struct {
	DealerID string          `json:"dealerId"`
	TestMode bool            `json:"testMode"`
	AddOns   map[string]bool `json:"addOns"`
}

type setupResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Setup provisions a subscription for the dealer. Test mode, no add-ons.
func (c *Client) Setup(ctx context.Context, dealerID uuid.UUID) error {
	if c.baseURL == "" {
		return fmt.Errorf("billing base url is not configured")
	}

	body := setupReq{
		DealerID: dealerID.String(),
		TestMode: true,
		AddOns: map[string]bool{
			"gps_tracking":      false,
			"signature_capture": false,
		},
	}

	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stripe-billing", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("billing http %d: %s", resp.StatusCode, string(raw))
	}

	var sr setupResp
	if err := json.Unmarshal(raw, &sr); err != nil {
		return fmt.Errorf("billing decode error: %w", err)
	}
	if !sr.Success {
		return fmt.Errorf("billing error: %s", sr.Error)
	}
	return nil
}
