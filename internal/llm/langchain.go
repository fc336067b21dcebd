package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/synapse-ops/synapse/internal/types"
)

// LangChainOracle adapts a langchaingo model to the Oracle interface.
// Any provider supported by langchaingo (OpenAI, Google AI, Ollama, ...)
// can back the reasoning loop through this adapter.
type LangChainOracle struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

// LangChainOption is a functional option for configuring the adapter.
type LangChainOption func(*LangChainOracle)

// WithTemperature sets the sampling temperature for oracle calls.
func WithTemperature(temp float64) LangChainOption {
	return func(o *LangChainOracle) {
		if temp >= 0.0 && temp <= 1.0 {
			o.temperature = temp
		}
	}
}

// WithMaxTokens sets the maximum tokens to generate per completion.
func WithMaxTokens(n int) LangChainOption {
	return func(o *LangChainOracle) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// NewLangChainOracle wraps a langchaingo model as a reasoning oracle.
func NewLangChainOracle(model llms.Model, options ...LangChainOption) *LangChainOracle {
	o := &LangChainOracle{
		model:       model,
		temperature: 0.2, // Low temperature for consistent reasoning
		maxTokens:   2000,
	}

	for _, opt := range options {
		opt(o)
	}

	return o
}

// Complete implements Oracle by translating the conversation into
// langchaingo message content and invoking the underlying model once.
func (o *LangChainOracle) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	if o.model == nil {
		return nil, types.NewError(types.ORACLE_CALL_FAILED, "no model configured")
	}

	content := make([]llms.MessageContent, 0, len(messages))
	promptChars := 0
	for _, m := range messages {
		promptChars += len(m.Content)
		switch m.Role {
		case RoleSystem:
			content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		case RoleAssistant:
			content = append(content, llms.TextParts(llms.ChatMessageTypeAI, m.Content))
		default:
			content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		}
	}

	resp, err := o.model.GenerateContent(ctx, content,
		llms.WithTemperature(o.temperature),
		llms.WithMaxTokens(o.maxTokens),
	)
	if err != nil {
		return nil, types.WrapError(types.ORACLE_CALL_FAILED, "completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, types.NewError(types.ORACLE_CALL_FAILED, "completion returned no choices")
	}

	text := resp.Choices[0].Content

	// langchaingo does not surface usage uniformly across providers, so
	// fall back to a rough chars/4 estimate for telemetry purposes.
	usage := TokenUsage{
		PromptTokens:     promptChars / 4,
		CompletionTokens: len(text) / 4,
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

	return &Completion{
		Text:  text,
		Usage: usage,
	}, nil
}

var _ Oracle = (*LangChainOracle)(nil)

// String returns a short description for logging.
func (o *LangChainOracle) String() string {
	return fmt.Sprintf("LangChainOracle{temperature: %.2f, max_tokens: %d}", o.temperature, o.maxTokens)
}
