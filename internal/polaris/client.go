package polaris

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driven"
	"github.com/castellan-labs/m365vault-cli/internal/logger"
)

// Ensure Client implements the backend port.
var _ driven.Backend = (*Client)(nil)

// graphqlPath is appended to the account URL to form the endpoint.
const graphqlPath = "/api/graphql"

// defaultTimeout bounds a single request round trip.
const defaultTimeout = 60 * time.Second

// Client is an authenticated client for the platform's GraphQL endpoint.
// It holds no mutable session state beyond the rate limiter; concurrent use
// is safe.
type Client struct {
	endpoint      string
	httpClient    *http.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) { c.rateLimiter = NewRateLimiterWithConfig(cfg) }
}

// NewClient creates a client for the given account URL, e.g.
// "https://example.my.vault.com". The GraphQL path is appended.
func NewClient(accountURL string, tokenProvider driven.TokenProvider, opts ...Option) *Client {
	c := &Client{
		endpoint:      strings.TrimRight(accountURL, "/") + graphqlPath,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// graphqlRequest is the wire shape of every call.
type graphqlRequest struct {
	OperationName string `json:"operationName"`
	Query         string `json:"query"`
	Variables     any    `json:"variables,omitempty"`
}

// graphqlEnvelope is the wire shape of every response.
type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute performs one GraphQL call and decodes the data payload into out.
// A non-empty errors array surfaces as domain.ErrBackend with the first
// message; a null data payload surfaces as domain.ErrEmptyResponse.
func (c *Client) execute(ctx context.Context, operationName, query string, variables, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	body, err := json.Marshal(graphqlRequest{
		OperationName: operationName,
		Query:         query,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("polaris: %s request to %s", operationName, c.endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", operationName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if IsRateLimited(resp.StatusCode) {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.rateLimiter.RecordRateLimitError(retryAfter)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed with status %d: %w",
			operationName, resp.StatusCode, WrapError(resp.StatusCode))
	}

	var envelope graphqlEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", operationName, err)
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s: %s", domain.ErrBackend, operationName, envelope.Errors[0].Message)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%w: %s", domain.ErrEmptyResponse, operationName)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", operationName, err)
	}
	return nil
}

// ListSubscriptions returns all tenant organisations, following cursor
// pagination until exhausted.
func (c *Client) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	var after string

	for {
		variables := map[string]any{}
		if after != "" {
			variables["after"] = after
		}

		var resp o365OrgsResponse
		if err := c.execute(ctx, "O365Orgs", o365OrgsQuery, variables, &resp); err != nil {
			return nil, err
		}

		for _, edge := range resp.O365Orgs.Edges {
			subs = append(subs, domain.Subscription{
				ID:     edge.Node.ID,
				Name:   edge.Node.Name,
				Status: edge.Node.Status,
			})
		}

		if !resp.O365Orgs.PageInfo.HasNextPage {
			return subs, nil
		}
		after = resp.O365Orgs.PageInfo.EndCursor
	}
}

// StartBulkRecovery submits one named bulk recovery for one sub-workload
// spec and returns the instance handle.
func (c *Client) StartBulkRecovery(
	ctx context.Context, name string, selector domain.GroupSelector, spec domain.RecoverySpec,
) (*domain.BulkRecoveryInstance, error) {
	input := startBulkRecoveryInput{
		Definition: bulkRecoveryDefinition{
			Name:           name,
			GroupSelector:  toWireSelector(selector, []recoverySpec{toWireSpec(spec)}),
			RecoveryMode:   recoveryModeAdHoc,
			FailureAction:  failureIgnoreAndContinue,
			RecoveryDomain: recoveryDomainO365,
		},
	}

	var resp startBulkRecoveryResponse
	err := c.execute(ctx, "StartBulkRecovery", startBulkRecoveryMutation,
		map[string]any{"input": input}, &resp)
	if err != nil {
		return nil, err
	}

	payload := resp.StartBulkRecovery
	if payload.Error != "" {
		return nil, fmt.Errorf("%w: start recovery %q: %s", domain.ErrBackend, name, payload.Error)
	}
	if payload.BulkRecoveryInstanceID == "" {
		return nil, fmt.Errorf("%w: start recovery %q returned no instance id", domain.ErrEmptyResponse, name)
	}

	return &domain.BulkRecoveryInstance{
		ID:          payload.BulkRecoveryInstanceID,
		TaskchainID: payload.TaskchainID,
		JobID:       payload.JobID,
	}, nil
}

// RecoveryProgress fetches the raw progress state for an instance.
func (c *Client) RecoveryProgress(ctx context.Context, instanceID string) (*domain.ProgressSnapshot, error) {
	var resp bulkRecoveryProgressResponse
	err := c.execute(ctx, "BulkRecoveryProgress", bulkRecoveryProgressQuery,
		map[string]any{"input": instanceInput{BulkRecoveryInstanceID: instanceID}}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.BulkRecoveryProgress.Status == "" {
		return nil, fmt.Errorf("%w: progress for instance %s", domain.ErrEmptyResponse, instanceID)
	}
	return toDomainSnapshot(&resp), nil
}

// CancelRecovery requests cancellation of an in-flight instance.
func (c *Client) CancelRecovery(ctx context.Context, instanceID string) (bool, error) {
	var resp cancelBulkRecoveryResponse
	err := c.execute(ctx, "CancelBulkRecovery", cancelBulkRecoveryMutation,
		map[string]any{"input": instanceInput{BulkRecoveryInstanceID: instanceID}}, &resp)
	if err != nil {
		return false, err
	}
	return resp.CancelBulkRecovery.Success, nil
}

// CompleteOperationalRecovery restores the remaining data for an
// operational recovery instance.
func (c *Client) CompleteOperationalRecovery(ctx context.Context, instanceID string) (bool, error) {
	var resp completeOperationalRecoveryResponse
	err := c.execute(ctx, "CompleteOperationalRecovery", completeOperationalRecoveryMutation,
		map[string]any{"input": instanceInput{BulkRecoveryInstanceID: instanceID}}, &resp)
	if err != nil {
		return false, err
	}
	return resp.CompleteOperationalRecovery.Success, nil
}
