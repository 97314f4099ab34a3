// Package backend implements the generation service behind the ai/generate endpoint: rate
// limiting, validation, prompt rendering, the model call, and response formatting.
package backend

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/guestify/mediakit-ai/internal/aistore"
	"github.com/guestify/mediakit-ai/internal/core"
	"github.com/guestify/mediakit-ai/internal/store"
	"github.com/guestify/mediakit-ai/internal/tools"
)

// ErrUnknownType is returned for a content type the tool registry does not know.
var ErrUnknownType = errors.New("unknown content type")

// ValidationError carries the tool's validation message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// GenerationLog records successful generations. *store.SQLiteStore satisfies it.
type GenerationLog interface {
	CreateGeneration(genType, context, subject string, params map[string]any, content any, model string, tokensUsed int) (*store.Generation, error)
	GetGenerationsBySubject(subject string, limit int) ([]store.Generation, error)
}

// Request is one generation call. Subject is the user id in builder context and the client
// address in public context.
type Request struct {
	Type    string
	Params  map[string]any
	Context core.AuthContext
	Subject string
}

type Metadata struct {
	TokensUsed  int    `json:"tokens_used"`
	Model       string `json:"model"`
	GeneratedAt string `json:"generated_at"`
}

// Result is a formatted generation and the caller's remaining allowance.
type Result struct {
	Type     string
	Content  any
	Metadata Metadata
	Usage    aistore.UsageInfo
}

type Service struct {
	tools   *tools.Registry
	llm     Completer
	limiter *RateLimiter
	history GenerationLog
	log     *zap.Logger
	now     func() time.Time
}

func NewService(registry *tools.Registry, llm Completer, limiter *RateLimiter, history GenerationLog, log *zap.Logger) *Service {
	return &Service{
		tools:   registry,
		llm:     llm,
		limiter: limiter,
		history: history,
		log:     log,
		now:     time.Now,
	}
}

// Generate runs one generation. Usage is consumed only when it succeeds.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	tool, ok := s.tools.Lookup(req.Type)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "type %q", req.Type)
	}

	if _, err := s.limiter.Check(req.Context, req.Subject); err != nil {
		return nil, err
	}

	if res := tools.Validate(tool.Validation, req.Params); !res.Valid {
		return nil, &ValidationError{Message: res.Message}
	}

	completion, err := s.llm.Complete(ctx, CompletionRequest{
		SystemPrompt: s.tools.SystemPrompt(req.Type),
		UserPrompt:   RenderPrompt(s.tools.Template(req.Type), req.Params),
		Temperature:  s.tools.Temperature(req.Type),
		MaxTokens:    s.tools.MaxTokens(req.Type),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate %s", req.Type)
	}

	formatted := FormatContent(req.Type, completion.Text, req.Params)

	usage, err := s.limiter.Record(req.Context, req.Subject)
	if err != nil {
		return nil, err
	}

	if _, err := s.history.CreateGeneration(req.Type, string(req.Context), req.Subject, req.Params, formatted, completion.Model, completion.TokensUsed); err != nil {
		s.log.Warn("failed to log generation", zap.String("type", req.Type), zap.Error(err))
	}

	s.log.Info("generation complete",
		zap.String("type", req.Type),
		zap.String("context", string(req.Context)),
		zap.Int("tokens", completion.TokensUsed),
	)
	return &Result{
		Type:    req.Type,
		Content: formatted,
		Metadata: Metadata{
			TokensUsed:  completion.TokensUsed,
			Model:       completion.Model,
			GeneratedAt: s.now().UTC().Format(time.RFC3339),
		},
		Usage: usage,
	}, nil
}

// Usage reports the allowance of a caller.
func (s *Service) Usage(authCtx core.AuthContext, subject string) (aistore.UsageInfo, error) {
	return s.limiter.Usage(authCtx, subject)
}

// History returns a subject's most recent generations.
func (s *Service) History(subject string, limit int) ([]store.Generation, error) {
	gens, err := s.history.GetGenerationsBySubject(subject, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load history")
	}
	return gens, nil
}
