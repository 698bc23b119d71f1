// ABOUTME: Model gateway that forwards assembled conversation context to the Gemini API
// ABOUTME: Single synchronous call, no retry, no streaming; empty candidates yield an empty reply

package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/hearthside/emberchat/internal/conversation"
)

// ErrUpstream wraps any non-success response from the generative API.
var ErrUpstream = errors.New("upstream model error")

// Client issues generateContent calls against the Gemini API.
// The API key is supplied per call because it lives in the settings
// store and may change at runtime.
type Client struct {
	logger  *slog.Logger
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a Gemini client.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		logger: logger.With("component", "gemini"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate forwards the assembled turns to the model and returns the
// reply text. A leading system turn becomes the system instruction;
// the remaining turns become the request contents in order. On a
// non-success response the error wraps ErrUpstream and carries the
// upstream message. An empty or missing candidate yields "", not an
// error.
func (c *Client) Generate(ctx context.Context, apiKey, model string, turns []conversation.Turn) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions.BaseURL = c.baseURL
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("creating genai client: %w", err)
	}

	contents, genCfg := buildRequest(turns)

	resp, err := client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		c.logger.Error("generateContent failed", "model", model, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	reply := extractReply(resp)
	c.logger.Debug("generateContent succeeded", "model", model, "turns", len(turns), "reply_len", len(reply))
	return reply, nil
}

// buildRequest maps assembled turns onto the genai request shape.
// A leading system turn becomes SystemInstruction; everything else is
// passed through as contents with its role intact.
func buildRequest(turns []conversation.Turn) ([]*genai.Content, *genai.GenerateContentConfig) {
	var genCfg *genai.GenerateContentConfig

	if len(turns) > 0 && turns[0].Role == conversation.RoleSystem {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(turns[0].Text, genai.RoleUser),
		}
		turns = turns[1:]
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		var role genai.Role = genai.RoleUser
		if turn.Role == conversation.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	return contents, genCfg
}

// extractReply joins the first candidate's text parts with newlines.
// Missing candidates, content, or parts all produce an empty reply.
func extractReply(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		parts = append(parts, part.Text)
	}
	return strings.Join(parts, "\n")
}
