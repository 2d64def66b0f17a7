// Package docagent implements the Reader/Searcher/Writer/Verifier agent
// roles that the Orchestrator drives through each code component, each
// one a thin, prompt-specific wrapper around an internal/llm.Provider.
package docagent

import (
	"context"
	"fmt"

	"github.com/docwright/docwright/internal/llm"
)

// Memory is a conversation buffer an agent appends to and replays on every
// call, mirroring the original BaseAgent's running message list.
type Memory struct {
	messages []llm.Message
}

// NewMemory returns an empty conversation buffer.
func NewMemory() *Memory {
	return &Memory{}
}

// Add appends one message.
func (m *Memory) Add(role llm.Role, content string) {
	if content == "" {
		return
	}
	m.messages = append(m.messages, llm.Message{Role: role, Content: content})
}

// Messages returns a copy of the buffered messages.
func (m *Memory) Messages() []llm.Message {
	cp := make([]llm.Message, len(m.messages))
	copy(cp, m.messages)
	return cp
}

// Clear empties the buffer.
func (m *Memory) Clear() {
	m.messages = nil
}

// Agent is the completion shape of the LLM-backed roles: given the current
// memory, produce a raw completion. llmAgent implements it, and the Reader,
// Writer and Verifier each wrap an llmAgent with their own prompt
// construction and response parsing.
type Agent interface {
	Name() string
	Complete(ctx context.Context, model string, maxTokens int, memory *Memory, usage *Usage) (string, error)
}

// Usage accumulates token spend across agent calls for one Orchestrator
// run, so a RunSummary can report run-wide totals without every
// Process call threading its own bookkeeping.
type Usage struct {
	Requests     int
	InputTokens  int
	OutputTokens int
}

// Add records one completion's token counts.
func (u *Usage) Add(resp *llm.CompletionResponse) {
	if u == nil || resp == nil {
		return
	}
	u.Requests++
	u.InputTokens += resp.InputTokens
	u.OutputTokens += resp.OutputTokens
}

// llmAgent is the shared implementation backing Reader/Writer/Verifier:
// each owns a Provider (possibly role-specific, per
// config.Config.RateLimits) and a fixed system prompt.
type llmAgent struct {
	name         string
	provider     llm.Provider
	systemPrompt string
}

func (a *llmAgent) Name() string { return a.name }

func (a *llmAgent) Complete(ctx context.Context, model string, maxTokens int, memory *Memory, usage *Usage) (string, error) {
	req := llm.CompletionRequest{
		Model:       model,
		Messages:    memory.Messages(),
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	}
	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s agent: %w", a.name, err)
	}
	usage.Add(resp)
	return resp.Content, nil
}
