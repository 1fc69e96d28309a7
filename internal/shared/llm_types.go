package shared

import (
	"time"
)

// TokenUsage is the token accounting reported for one text-generation call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// IsZero reports whether no tokens were counted, which is the case for calls
// that failed before reaching the provider.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0
}

// AgentMeta describes one collaborator execution: which agent ran, what it
// consumed and how long it took.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}
