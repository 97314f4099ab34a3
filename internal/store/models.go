package store

import "time"

// UsageCounter is one rate-limit window for a context and subject.
type UsageCounter struct {
	Key         string    `json:"key"` // "<context>:<subject>"
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
}

// Generation is a logged successful generation.
type Generation struct {
	ID         string    `json:"id"` // UUID
	Type       string    `json:"type"`
	Context    string    `json:"context"`
	Subject    string    `json:"subject"`
	ParamsJSON string    `json:"-"`
	Content    string    `json:"content"` // JSON of the formatted content
	Model      string    `json:"model"`
	TokensUsed int       `json:"tokens_used"`
	CreatedAt  time.Time `json:"created_at"`
}
