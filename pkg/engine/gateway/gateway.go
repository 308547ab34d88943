package gateway

import (
	"context"
	"errors"
	"net"

	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/pkg/engine"
	"ship-computer-be/pkg/llm"
)

// Classified upstream failures. Callers map each to a fixed in-character
// narration and never surface raw transport errors to the bridge.
var (
	ErrTimeout   = errors.New("gateway: model call timed out")
	ErrUpstream  = errors.New("gateway: model backend unavailable")
	ErrMalformed = errors.New("gateway: model output unreadable")
)

const maxCommandLength = 1000

// Gateway turns free-form crew commands into structured results by way of
// a chat-completions provider. When no provider is configured it answers
// from the deterministic mock instead, which keeps the whole pipeline
// usable without any model backend.
type Gateway struct {
	provider llm.LLMProvider
	log      logger.ILogger
	mockMode bool
}

func New(provider llm.LLMProvider, log logger.ILogger, mockMode bool) *Gateway {
	return &Gateway{provider: provider, log: log, mockMode: mockMode || provider == nil}
}

func (g *Gateway) MockMode() bool { return g.mockMode }

// Invoke sends the command to the model and parses the reply. Input is
// truncated to keep prompt cost bounded; truncation is silent because
// commands that long are noise, not intent.
func (g *Gateway) Invoke(ctx context.Context, usr *engine.UserContext, systems map[string]int, directive, text string) (*engine.Result, error) {
	if len(text) > maxCommandLength {
		text = text[:maxCommandLength]
	}

	if g.mockMode {
		return MockResult(text, systems), nil
	}

	messages := []llm.Message{
		{Role: "system", Content: BuildSystemPrompt(usr, systems, directive)},
		{Role: "user", Content: text},
	}

	raw, err := g.provider.Chat(ctx, messages, llm.WithTemperature(0.1))
	if err != nil {
		return nil, g.classify(err)
	}

	res, err := Parse(raw)
	if err != nil {
		g.log.Warn("Gateway", "Model output rejected by parser", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return res, nil
}

func (g *Gateway) classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		g.log.Warn("Gateway", "Model call timed out", map[string]interface{}{"error": err.Error()})
		return ErrTimeout
	}
	g.log.Error("Gateway", "Model backend unreachable", map[string]interface{}{"error": err.Error()})
	return ErrUpstream
}
