// Package assistant implements the death-summary lookup against the Hugging
// Face inference API. The upstream model answers a fixed prompt template;
// nothing from the response is persisted.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxNewTokens   = 200
	temperature    = 0.7

	// noInformation is returned when the model produces an empty answer.
	noInformation = "No information available."
)

type Client struct {
	http   *http.Client
	url    string
	token  string
	logger zerolog.Logger
}

// NewClient builds a client for the given inference endpoint. The token is
// sent as a bearer credential when set; the public endpoint works without
// one at a reduced rate limit.
func NewClient(url, token string, logger zerolog.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: defaultTimeout},
		url:    url,
		token:  token,
		logger: logger,
	}
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type inferenceResponse struct {
	GeneratedText string `json:"generated_text"`
}

// FamousDeath asks the model for a short factual summary of the person's
// death. A 503 from the upstream means the model is still loading.
func (c *Client) FamousDeath(ctx context.Context, personName string) (string, error) {
	prompt := fmt.Sprintf(
		"Provide a brief, factual summary of how %s died, including the date, location, and cause of death. Keep it concise and respectful.",
		personName,
	)

	body, err := json.Marshal(inferenceRequest{
		Inputs: prompt,
		Parameters: inferenceParameters{
			MaxNewTokens:   maxNewTokens,
			Temperature:    temperature,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("assistant request failed")
		return "", domain.ErrAssistantFailed
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", domain.ErrAssistantUnavailable
	case resp.StatusCode != http.StatusOK:
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(payload)).
			Msg("assistant upstream error")
		return "", domain.ErrAssistantFailed
	}

	var results []inferenceResponse
	if err := json.Unmarshal(payload, &results); err != nil {
		c.logger.Error().Err(err).Msg("assistant response not parseable")
		return "", domain.ErrAssistantFailed
	}
	if len(results) == 0 || strings.TrimSpace(results[0].GeneratedText) == "" {
		return noInformation, nil
	}
	return strings.TrimSpace(results[0].GeneratedText), nil
}
