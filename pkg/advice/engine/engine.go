// Package engine is the failure-absorption boundary between the conversation
// flow and the generative backend. Converse never returns an error: transport
// failures degrade into a fixed safe result so the conversation can continue.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Palpatine0/TalkThrough/internal/pkg/logger"
	"github.com/Palpatine0/TalkThrough/pkg/advice/response"
	"github.com/Palpatine0/TalkThrough/pkg/llm"
)

const (
	// userMessageLabel prefixes the current turn so the model can tell the
	// accumulated instruction context from the new utterance.
	userMessageLabel = "User's current message:"

	defaultTimeout = 30 * time.Second

	healthCheckPrompt = "Hello, this is a test message."
)

// DegradedReply is returned whenever the backend call fails.
const DegradedReply = "I'm having trouble processing your request right now. Please try again in a moment."

// DegradedSuggestions accompany DegradedReply; always exactly three.
func DegradedSuggestions() []string {
	return []string{
		"Could you rephrase that?",
		"I'm not sure I understand. Can you explain more?",
		"Let's try a different approach to this conversation.",
	}
}

type Engine struct {
	provider llm.LLMProvider
	logger   logger.ILogger
	timeout  time.Duration
}

type Option func(*Engine)

// WithTimeout bounds the wait on a single generation call. The provider
// contract carries no latency bound, so the engine imposes one.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func NewEngine(provider llm.LLMProvider, log logger.ILogger, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		logger:   log,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Converse issues exactly one generation call for the turn and normalizes
// whatever comes back. Any provider error, timeout or blank output resolves
// to the degraded result; the Degraded flag reflects transport failure only,
// never the normalizer's own fallback paths.
func (e *Engine) Converse(ctx context.Context, userText, promptText string) response.Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	fullPrompt := fmt.Sprintf("%s\n\n%s \"%s\"", promptText, userMessageLabel, userText)

	raw, err := e.provider.Generate(ctx, fullPrompt)
	if err != nil {
		e.logger.Warn("engine", "Generation call failed, degrading", map[string]interface{}{
			"error": err.Error(),
		})
		return degradedResult()
	}
	if strings.TrimSpace(raw) == "" {
		e.logger.Warn("engine", "Backend returned empty output, degrading", nil)
		return degradedResult()
	}

	return response.Normalize(raw)
}

// HealthCheck issues one trivial generation call. Operational tooling only;
// the conversation path never calls it.
func (e *Engine) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	_, err := e.provider.Generate(ctx, healthCheckPrompt)
	if err != nil {
		e.logger.Warn("engine", "Health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return true
}

func degradedResult() response.Result {
	return response.Result{
		Reply:       DegradedReply,
		Suggestions: DegradedSuggestions(),
		Degraded:    true,
		ProducedAt:  time.Now(),
	}
}
