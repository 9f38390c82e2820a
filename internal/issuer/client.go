package issuer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/engine/retry"
)

// Client hands computed rewards to the downstream issuance service.
type Client interface {
	IssueFungible(ctx context.Context, recipient string, amount int64, ref string) error
	IssueCollectible(ctx context.Context, recipient string, collectibleRef string, ref string) error
}

// HTTPClient posts issuance requests to the token service. Non-2xx
// responses are classified: 4xx is terminal (the grant will dead-letter
// immediately), 5xx and transport errors stay retryable.
type HTTPClient struct {
	endpoint  string
	authToken string
	client    *http.Client
	logger    *slog.Logger
}

func NewHTTPClient(endpoint, authToken string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		endpoint:  endpoint,
		authToken: authToken,
		client:    &http.Client{Timeout: timeout},
		logger:    logger.With("component", "issuer_client"),
	}
}

type issueRequest struct {
	Recipient      string `json:"recipient"`
	Kind           string `json:"kind"`
	Amount         int64  `json:"amount,omitempty"`
	CollectibleRef string `json:"collectible_ref,omitempty"`
	Ref            string `json:"ref"`
}

func (c *HTTPClient) IssueFungible(ctx context.Context, recipient string, amount int64, ref string) error {
	return c.post(ctx, issueRequest{
		Recipient: recipient,
		Kind:      string(model.RewardFungible),
		Amount:    amount,
		Ref:       ref,
	})
}

func (c *HTTPClient) IssueCollectible(ctx context.Context, recipient string, collectibleRef string, ref string) error {
	return c.post(ctx, issueRequest{
		Recipient:      recipient,
		Kind:           string(model.RewardCollectible),
		CollectibleRef: collectibleRef,
		Ref:            ref,
	})
}

func (c *HTTPClient) post(ctx context.Context, reqBody issueRequest) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return retry.Terminal(fmt.Errorf("marshal issue request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/issue", bytes.NewReader(body))
	if err != nil {
		return retry.Terminal(fmt.Errorf("build issue request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return retry.Transient(fmt.Errorf("issue request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("issuance service returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return retry.Transient(err)
	}
	return retry.Terminal(err)
}

// NoopClient logs instead of issuing. Used when no endpoint is
// configured.
type NoopClient struct {
	logger *slog.Logger
}

func NewNoopClient(logger *slog.Logger) *NoopClient {
	return &NoopClient{logger: logger.With("component", "issuer_client")}
}

func (c *NoopClient) IssueFungible(ctx context.Context, recipient string, amount int64, ref string) error {
	c.logger.Info("issuance skipped (no endpoint)", "recipient", recipient, "amount", amount, "ref", ref)
	return nil
}

func (c *NoopClient) IssueCollectible(ctx context.Context, recipient string, collectibleRef string, ref string) error {
	c.logger.Info("issuance skipped (no endpoint)", "recipient", recipient, "collectible", collectibleRef, "ref", ref)
	return nil
}
