package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// ErrEmptyCompletion is returned when the model answers without any text.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// CompletionRequest is one single-turn prompt.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int32
}

// Completion is the model's answer.
type Completion struct {
	Text       string
	Model      string
	TokensUsed int
}

// Completer produces text completions.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// GeminiClient is a Completer backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, log *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GenAI client")
	}
	return &GeminiClient{client: client, model: model, log: log}, nil
}

func (c *GeminiClient) Close() {
	if c.client == nil {
		return
	}
	if err := c.client.Close(); err != nil {
		c.log.Warn("error closing GenAI client", zap.Error(err))
	} else {
		c.log.Info("GenAI client closed")
	}
}

func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	model := c.client.GenerativeModel(c.model)
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	temp := req.Temperature
	maxTokens := req.MaxTokens
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return Completion{}, errors.Wrap(err, "gemini generate content failed")
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Completion{}, ErrEmptyCompletion
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		} else {
			c.log.Debug("skipping non-text response part", zap.String("part", fmt.Sprintf("%T", part)))
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return Completion{}, ErrEmptyCompletion
	}

	out := Completion{Text: text.String(), Model: c.model}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	return out, nil
}

// Throttled waits on limiter before every call to next. A nil limiter disables throttling.
func Throttled(next Completer, limiter *rate.Limiter) Completer {
	if limiter == nil {
		return next
	}
	return &throttledCompleter{next: next, limiter: limiter}
}

// NewLimiter allows perMinute calls a minute with bursts of the same size. Zero or less
// means unlimited and returns nil.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

type throttledCompleter struct {
	next    Completer
	limiter *rate.Limiter
}

func (t *throttledCompleter) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return Completion{}, errors.Wrap(err, "waiting for LLM rate limiter")
	}
	return t.next.Complete(ctx, req)
}
