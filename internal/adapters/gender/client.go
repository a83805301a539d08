// Package gender talks to the name-based gender prediction service.
package gender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// Prediction is the raw answer of the prediction service.
type Prediction struct {
	Gender     string  `json:"gender"`
	Confidence float64 `json:"confidence"` // percent, 0-100
}

// Client calls POST {baseURL}/predict.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    uint64
}

// NewClient creates a prediction client.
// PRE: baseURL is an absolute URL without a trailing /predict
// POST: Requests time out after timeout and 5xx answers are retried twice
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retries:    2,
	}
}

// Predict asks the service for the likely gender of name.
// PRE: name is non-empty
// POST: Returns the decoded prediction or an error
func (c *Client) Predict(ctx context.Context, name string) (Prediction, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return Prediction{}, fmt.Errorf("encode predict request: %w", err)
	}

	var pred Prediction
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(100*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("call predictor: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("predictor returned %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("predictor returned %d", resp.StatusCode)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err != nil {
			return fmt.Errorf("read predictor response: %w", err)
		}
		if err := json.Unmarshal(data, &pred); err != nil {
			return fmt.Errorf("decode predictor response: %w", err)
		}
		return nil
	})
	if err != nil {
		return Prediction{}, err
	}
	return pred, nil
}
