// Package fossa клиент REST API FOSSA: команды, пользователи, приглашения.
package fossa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://app.fossa.com/api"

var errNoToken = errors.New("fossa: api token is empty")

type Config struct {
	BaseURL        string
	Token          string
	OrganizationId int
	Timeout        time.Duration
	HTTPClient     *http.Client
}

type Client struct {
	baseURL    string
	token      string
	orgId      int
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, errNoToken
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		orgId:      cfg.OrganizationId,
		httpClient: httpClient,
		log:        log,
	}, nil
}

// ListTeams GET /teams
func (c *Client) ListTeams(ctx context.Context) ([]TeamPayload, error) {
	var teams []TeamPayload
	if err := c.do(ctx, http.MethodGet, "/teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListUsers GET /users
func (c *Client) ListUsers(ctx context.Context) ([]UserPayload, error) {
	var users []UserPayload
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateTeam POST /teams
func (c *Client) CreateTeam(ctx context.Context, req CreateTeamRequest) (*TeamPayload, error) {
	var team TeamPayload
	if err := c.do(ctx, http.MethodPost, "/teams", req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateTeamUsers PUT /teams/{id}/users
func (c *Client) UpdateTeamUsers(ctx context.Context, teamId int, req UpdateTeamUsersRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/teams/%d/users", teamId), req, nil)
}

// Invite POST /organizations/{orgId}/invite, тело - массив email
func (c *Client) Invite(ctx context.Context, emails []string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/organizations/%d/invite", c.orgId), emails, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	endpoint := c.baseURL + path

	var (
		payload []byte
		reader  io.Reader
	)
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("fossa: encoding %s %s payload: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("fossa: building %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("fossa request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return &RequestError{Method: method, Endpoint: endpoint, Payload: string(payload), Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("fossa request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Method: method, Endpoint: endpoint, Payload: string(payload), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Method:     method,
			Endpoint:   endpoint,
			Payload:    string(payload),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("fossa: decoding %s %s response: %w", method, endpoint, err)
	}
	return nil
}
