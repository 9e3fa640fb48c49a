package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"andino/config"
	"andino/models"
)

// HTTPAvailabilityClient calls the availability collaborator over REST.
type HTTPAvailabilityClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPAvailabilityClient() *HTTPAvailabilityClient {
	return &HTTPAvailabilityClient{
		BaseURL: config.AppConfig.AvailabilityURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type availabilityRequest struct {
	ServiceRef string           `json:"serviceRef"`
	Dates      models.DateRange `json:"dates"`
	Party      models.Party     `json:"party"`
}

func (c *HTTPAvailabilityClient) CheckAvailability(ctx context.Context, serviceRef string, dr models.DateRange, party models.Party) (*models.AvailabilityResult, error) {
	body, err := json.Marshal(availabilityRequest{ServiceRef: serviceRef, Dates: dr, Party: party})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal availability request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build availability request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("availability request failed: %w", err)
	}
	defer resp.Body.Close()

	// 5xx means the oracle could not answer; that is "unknown", not a verdict.
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("availability collaborator returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected availability response status %d", resp.StatusCode)
	}

	var result models.AvailabilityResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode availability response: %w", err)
	}
	return &result, nil
}
