// Package policy consults the external advisor for the next action. The
// advisor returns free-form text; everything it says is untrusted until the
// embedded action survives schema validation.
package policy

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region context

// Context is the structured situation report sent with each query.
type Context struct {
	Snapshot    world.Snapshot `json:"snapshot"`
	ActiveGoals []string       `json:"active_goals"`
	LastActions []string       `json:"last_actions"` // recent signatures, oldest first
	LastResult  string         `json:"last_result,omitempty"`
}

// Source proposes the next action for a situation. Implementations must treat
// their own output as untrusted and validate before returning.
type Source interface {
	Propose(ctx context.Context, pc Context) (action.Action, error)
}

// #endregion

// #region client

// generateRequest and generateResponse follow the Ollama generate API.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Client talks to an LLM advisor over HTTP.
type Client struct {
	url    string
	model  string
	httpc  *http.Client
	logger *zap.Logger
}

// NewClient builds a client from config.
func NewClient(cfg config.PolicyConfig, logger *zap.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout()}, logger)
}

// NewClientWithHTTP injects the HTTP client. Used for testing.
func NewClientWithHTTP(cfg config.PolicyConfig, httpc *http.Client, logger *zap.Logger) *Client {
	return &Client{url: cfg.URL, model: cfg.Model, httpc: httpc, logger: logger}
}

// #endregion

// #region propose

const promptHeader = `You control a survival agent in a voxel world. ` +
	`Given the situation below, reply with exactly one JSON action object: ` +
	`{"kind": "...", "params": {...}, "horizon_ms": N, "reason": "..."}. ` +
	`Valid kinds: move, navigate, relocate, mine, place, eat, attack, craft, select_slot.`

// Propose queries the advisor and extracts a validated action from its reply.
func (c *Client) Propose(ctx context.Context, pc Context) (action.Action, error) {
	situation, err := json.Marshal(pc)
	if err != nil {
		return action.Action{}, fmt.Errorf("policy: marshal context: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: promptHeader + "\n\nSituation:\n" + string(situation),
		Stream: false,
	})
	if err != nil {
		return action.Action{}, fmt.Errorf("policy: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return action.Action{}, fmt.Errorf("policy: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return action.Action{}, fmt.Errorf("policy: advisor call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return action.Action{}, fmt.Errorf("policy: advisor status %d", resp.StatusCode)
	}

	var gen generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&gen); err != nil {
		return action.Action{}, fmt.Errorf("policy: decode response: %w", err)
	}

	a, err := ExtractAction(gen.Response)
	if err != nil {
		c.logger.Debug("advisor reply had no usable action",
			zap.String("reply", truncate(gen.Response, 200)), zap.Error(err))
		return action.Action{}, err
	}
	return a, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// #endregion
