// Package letta is a minimal client for the Letta agents API, covering the
// calls the scheduler needs: sending a user message to an agent, checking
// that an agent exists, and listing agents.
package letta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://api.letta.com"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client against baseURL (DefaultBaseURL when empty).
// The token is sent as a bearer credential on every request.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Agent is the subset of the agent resource this tool cares about.
type Agent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type createMessagesRequest struct {
	Messages []message `json:"messages"`
}

// Send delivers payload as a user message to the given agent.
func (c *Client) Send(ctx context.Context, agentID, payload string) error {
	body, err := json.Marshal(createMessagesRequest{
		Messages: []message{{Role: "user", Content: payload}},
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v1/agents/%s/messages", c.baseURL, url.PathEscape(agentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("send message: letta returned %d: %s", resp.StatusCode, readBody(resp))
	}
	log.Debug().Str("agent_id", agentID).Msg("prompt delivered")
	return nil
}

// AgentExists reports whether the agent is known to the Letta server.
func (c *Client) AgentExists(ctx context.Context, agentID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/agents/%s", c.baseURL, url.PathEscape(agentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("get agent: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 400:
		return false, fmt.Errorf("get agent: letta returned %d: %s", resp.StatusCode, readBody(resp))
	}
	return true, nil
}

// ListAgents returns all agents visible to the credential.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/agents", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("list agents: letta returned %d: %s", resp.StatusCode, readBody(resp))
	}

	var agents []Agent
	if err := json.NewDecoder(resp.Body).Decode(&agents); err != nil {
		return nil, fmt.Errorf("list agents: decode: %w", err)
	}
	return agents, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return string(b)
}
