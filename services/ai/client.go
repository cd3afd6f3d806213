// Package ai is a thin client for an OpenAI-compatible chat completions API,
// used as the streaming relay behind the tutor chat.
package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/chat"
)

const doneSentinel = "[DONE]"

type (
	// Client streams tutor completions. onDelta is invoked once per content
	// chunk, in order; the full concatenated text is returned at the end.
	Client interface {
		StreamChat(ctx context.Context, msgs []chat.Message, onDelta func(delta string)) (string, error)
	}

	client struct {
		baseURL     string
		apiKey      string
		model       string
		maxTokens   int
		temperature float64
		httpClient  *http.Client
	}
)

var _ Client = (*client)(nil)

func NewClient(conf *core.Config) Client {
	return &client{
		baseURL:     strings.TrimRight(conf.AI.BaseURL, "/"),
		apiKey:      conf.AI.APIKey,
		model:       conf.AI.Model,
		maxTokens:   conf.AI.MaxTokens,
		temperature: conf.AI.Temperature,
		httpClient:  &http.Client{Timeout: 2 * time.Minute},
	}
}

type (
	completionRequest struct {
		Model       string         `json:"model"`
		Messages    []chat.Message `json:"messages"`
		Stream      bool           `json:"stream"`
		MaxTokens   int            `json:"max_tokens,omitempty"`
		Temperature float64        `json:"temperature,omitempty"`
	}

	completionChunk struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
)

func (c *client) StreamChat(ctx context.Context, msgs []chat.Message, onDelta func(delta string)) (string, error) {
	reqBody := completionRequest{
		Model:       c.model,
		Messages:    msgs,
		Stream:      true,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", errors.Wrap(err, "encoding completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", errors.Wrap(err, "building completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling completion API")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", errors.Errorf("completion API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == doneSentinel {
			if data == doneSentinel {
				break
			}
			continue
		}

		var chunk completionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue // tolerate non-JSON keepalive lines
		}
		if chunk.Error != nil {
			return full.String(), fmt.Errorf("completion stream error: %s", chunk.Error.Message)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			full.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), errors.Wrap(err, "reading completion stream")
	}
	return full.String(), nil
}
