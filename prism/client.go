// Package prism implements the wire protocol of the agent playground: the
// message/part data model, the closed chat event taxonomy, and a streaming
// HTTP client for backends speaking newline-delimited JSON events.
package prism

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrCancelled is reported by Stream.Err when the request context was
// cancelled, so callers can tell a user cancel from a server close or a
// network failure.
var ErrCancelled = errors.New("request cancelled")

// Tool execution modes accepted by the chat endpoint.
const (
	ToolModeAuto            = "auto"
	ToolModeRequestApproval = "request_approval"
)

// maxEventLine bounds a single NDJSON line; message_history snapshots can
// carry a whole transcript in one line.
const maxEventLine = 8 * 1024 * 1024

// Client talks to an agent backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL (e.g. "http://localhost:8000").
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}, nil
}

// BaseURL returns the endpoint this client was created for.
func (c *Client) BaseURL() string { return c.baseURL }

// ChatRequest is the JSON body of a streaming chat call.
type ChatRequest struct {
	Agent               string               `json:"agent"`
	Messages            []Message            `json:"messages"`
	Dependencies        map[string]any       `json:"dependencies,omitempty"`
	Stream              bool                 `json:"stream"`
	UseTools            string               `json:"use_tools,omitempty"`
	DeferredToolResults *DeferredToolResults `json:"deferred_tool_results,omitempty"`
}

// Chat opens one streaming chat request. The returned stream is single-pass
// and not restartable; cancelling ctx aborts the connection and makes the
// next Next call fail with ErrCancelled.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*Stream, error) {
	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chat request failed: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	if resp.Body == nil {
		return nil, errors.New("chat response has no body")
	}

	return newStream(ctx, resp.Body), nil
}

// EventStream is a lazy, single-pass sequence of decoded chat events.
// It is implemented by the native Stream and by the adapters the provider
// layer builds for non-native backends.
type EventStream interface {
	// Next advances to the next event. It returns false at end of stream,
	// on error, or on cancellation; Err distinguishes the three.
	Next() bool
	// Current returns the event read by the last successful Next.
	Current() Event
	// Err returns nil after a natural end of stream, ErrCancelled after a
	// context cancellation, and the underlying error otherwise.
	Err() error
	// Close releases the underlying connection.
	Close() error
}

// Stream decodes newline-delimited JSON events from a chat response body.
// Lines that are not valid JSON, and events with unknown type tags, are
// silently skipped: partial chunks are expected at this layer.
type Stream struct {
	ctx     context.Context
	body    io.ReadCloser
	scanner *bufio.Scanner
	current Event
	err     error
	done    bool
}

var _ EventStream = (*Stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	return &Stream{
		ctx:     ctx,
		body:    body,
		scanner: scanner,
	}
}

func (s *Stream) Next() bool {
	if s.err != nil || s.done {
		return false
	}

	for {
		// Cancellation wins over any buffered data.
		if s.ctx.Err() != nil {
			s.err = ErrCancelled
			return false
		}

		if !s.scanner.Scan() {
			s.done = true
			if err := s.scanner.Err(); err != nil {
				if s.ctx.Err() != nil {
					s.err = ErrCancelled
				} else {
					s.err = fmt.Errorf("stream read failed: %w", err)
				}
			}
			return false
		}

		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		event, err := decodeEvent(line)
		if err != nil {
			// Malformed or unknown line - skip, not fatal.
			continue
		}

		s.current = event
		return true
	}
}

func (s *Stream) Current() Event { return s.current }

func (s *Stream) Err() error { return s.err }

func (s *Stream) Close() error { return s.body.Close() }

// DependencyInfo is one named dependency preset published by an agent.
type DependencyInfo struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// AgentInfo describes one agent registered on the backend.
type AgentInfo struct {
	Name         string           `json:"name"`
	Dependencies []DependencyInfo `json:"dependencies"`
}

// ListAgents fetches the agents available on the backend.
func (c *Client) ListAgents(ctx context.Context) ([]AgentInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/agents", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build agents request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("agents request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agents request failed: %s", resp.Status)
	}

	var payload struct {
		Agents []AgentInfo `json:"agents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode agents response: %w", err)
	}

	return payload.Agents, nil
}
