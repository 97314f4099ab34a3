package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/guestify/mediakit-ai/internal/aistore"
	"github.com/guestify/mediakit-ai/internal/config"
	"github.com/guestify/mediakit-ai/internal/content"
	"github.com/guestify/mediakit-ai/internal/tools"
)

const (
	generateRoute      = "ai/generate"
	defaultHTTPTimeout = 60 * time.Second
	maxResponseBytes   = 4 << 20
)

// AuthContext selects the authentication path of a request.
type AuthContext string

const (
	ContextBuilder AuthContext = "builder"
	ContextPublic  AuthContext = "public"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// ClipboardFunc adapts a function such as clipboard.WriteAll to Clipboard.
type ClipboardFunc func(text string) error

// WriteAll calls f.
func (f ClipboardFunc) WriteAll(text string) error { return f(text) }

// ToolRegistry supplies validation rules and the wire type of each content type.
type ToolRegistry interface {
	tools.Resolver
	APIType(contentType string) string
}

// Deps are the collaborators shared by every engine of a session.
type Deps struct {
	Env       config.Environment
	Store     *aistore.Store
	Tools     ToolRegistry
	HTTP      Doer
	Clipboard Clipboard
	Logger    *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Store == nil {
		d.Store = aistore.New()
	}
	if d.Tools == nil {
		d.Tools = tools.Default()
	}
	if d.HTTP == nil {
		d.HTTP = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// Engine issues generation requests for one content type and tracks the latest result.
// Concurrent calls are allowed and are neither serialised nor de-duplicated.
type Engine struct {
	typ  string
	deps Deps
	log  *zap.Logger

	mu         sync.RWMutex
	generating int
	generated  content.Content
	raw        content.Content
	errMsg     string
}

// NewEngine creates an engine for typ.
func NewEngine(typ string, deps Deps) *Engine {
	deps = deps.withDefaults()
	return &Engine{
		typ:  typ,
		deps: deps,
		log:  deps.Logger.With(zap.String("type", typ)),
	}
}

type generateRequest struct {
	Type    string         `json:"type"`
	Params  map[string]any `json:"params"`
	Context AuthContext    `json:"context"`
	Nonce   string         `json:"nonce,omitempty"`
}

type generateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Content json.RawMessage `json:"content"`
	} `json:"data"`
	Usage *aistore.UsageInfo `json:"usage"`
}

// Generate validates params, answers from the cache when possible, and otherwise posts a
// generation request. An empty override picks the context from the environment.
func (e *Engine) Generate(ctx context.Context, params map[string]any, override AuthContext) (content.Content, error) {
	authCtx := override
	if authCtx == "" {
		authCtx = e.Context()
	}

	if res := e.ValidateFields(params); !res.Valid {
		return content.Empty(), e.fail(&ValidationError{Message: res.Message})
	}

	key := CacheKey(e.typ, params)
	if cached, ok := e.deps.Store.GetCachedResult(key); ok {
		e.log.Debug("cache hit", zap.String("key", key))
		e.mu.Lock()
		e.generated = cached
		e.raw = cached
		e.mu.Unlock()
		return cached, nil
	}

	e.mu.Lock()
	e.generating++
	e.errMsg = ""
	e.mu.Unlock()
	e.deps.Store.SetGenerating(true, e.typ)
	defer func() {
		e.mu.Lock()
		e.generating--
		e.mu.Unlock()
		e.deps.Store.SetGenerating(false, "")
	}()

	resp, err := e.post(ctx, params, authCtx)
	if err != nil {
		return content.Empty(), e.fail(err)
	}

	c, err := content.FromJSON(resp.Data.Content)
	if err != nil {
		return content.Empty(), e.fail(&TransportError{Err: err})
	}

	e.mu.Lock()
	e.generated = c
	e.raw = c
	e.mu.Unlock()

	if resp.Usage != nil {
		e.deps.Store.UpdateUsage(*resp.Usage)
	}
	e.deps.Store.CacheResult(key, c)
	e.deps.Store.AddToHistory(e.typ, params, c)

	e.log.Info("content generated", zap.String("context", string(authCtx)), zap.Stringer("kind", c.Kind()))
	return c, nil
}

func (e *Engine) post(ctx context.Context, params map[string]any, authCtx AuthContext) (*generateResponse, error) {
	body := generateRequest{
		Type:    e.deps.Tools.APIType(e.typ),
		Params:  params,
		Context: authCtx,
	}
	if body.Params == nil {
		body.Params = map[string]any{}
	}
	if authCtx == ContextPublic {
		body.Nonce = e.deps.Env.PublicNonce
		if body.Nonce == "" {
			body.Nonce = e.deps.Env.Nonce
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.deps.Env.Endpoint(generateRoute), bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if authCtx == ContextBuilder {
		req.Header.Set("X-WP-Nonce", e.deps.Env.Nonce)
	}

	res, err := e.deps.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var out generateResponse
	decodeErr := json.Unmarshal(data, &out)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, newRequestError(res.StatusCode, out.Message)
	}
	if decodeErr != nil {
		return nil, &TransportError{Err: fmt.Errorf("invalid response from server: %w", decodeErr)}
	}
	if !out.Success {
		return nil, newRequestError(res.StatusCode, out.Message)
	}
	return &out, nil
}

// fail mirrors err into the engine and the store and returns it.
func (e *Engine) fail(err error) error {
	msg := err.Error()
	e.mu.Lock()
	e.errMsg = msg
	e.mu.Unlock()
	e.deps.Store.SetError(msg)

	var verr *ValidationError
	if errors.As(err, &verr) {
		e.log.Debug("validation failed", zap.String("message", msg))
	} else {
		e.log.Warn("generation failed", zap.Error(err))
	}
	return err
}

// Regenerate repeats the newest generation of this type, bypassing its cache slot.
func (e *Engine) Regenerate(ctx context.Context) (content.Content, error) {
	latest, ok := e.deps.Store.LatestByType(e.typ)
	if !ok {
		return content.Empty(), e.fail(ErrNoHistory)
	}
	e.deps.Store.EvictCachedResult(CacheKey(e.typ, latest.Params))
	return e.Generate(ctx, latest.Params, "")
}

// ValidateFields checks params against the type's declared rules.
func (e *Engine) ValidateFields(params map[string]any) tools.Result {
	return tools.Validate(e.deps.Tools.Resolve(e.typ), params)
}

// CopyToClipboard copies the current content. Failures are logged and reported as false.
func (e *Engine) CopyToClipboard() bool {
	c := e.Content()
	if c.IsEmpty() {
		return false
	}
	return e.copyText(c.String())
}

func (e *Engine) copyText(text string) bool {
	if e.deps.Clipboard == nil || text == "" {
		return false
	}
	if err := e.deps.Clipboard.WriteAll(text); err != nil {
		e.log.Warn("failed to copy to clipboard", zap.Error(err))
		return false
	}
	return true
}

// Reset clears the content and error. Cache and history are untouched.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generated = content.Empty()
	e.raw = content.Empty()
	e.errMsg = ""
}

// Context is the auth context used when no override is given.
func (e *Engine) Context() AuthContext {
	if e.deps.Env.LoggedIn {
		return ContextBuilder
	}
	return ContextPublic
}

// Type is the generator type the engine was built for.
func (e *Engine) Type() string { return e.typ }

// Store returns the shared store.
func (e *Engine) Store() *aistore.Store { return e.deps.Store }

func (e *Engine) Content() content.Content {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generated
}

func (e *Engine) RawContent() content.Content {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.raw
}

// LastError is the message of the most recent failure, empty after a success or Reset.
func (e *Engine) LastError() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.errMsg
}

// IsGenerating reports whether any request from this engine is in flight.
func (e *Engine) IsGenerating() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generating > 0
}

// HasContent reports whether the last result is non-empty.
func (e *Engine) HasContent() bool { return !e.Content().IsEmpty() }

// HasError reports whether the store holds an error message.
func (e *Engine) HasError() bool { return e.LastError() != "" }

// IsRateLimited reports whether the last known usage has no requests left.
func (e *Engine) IsRateLimited() bool { return e.deps.Store.IsRateLimited() }

// UsageRemaining is nil until the server has reported usage.
func (e *Engine) UsageRemaining() *int { return e.deps.Store.Usage().Remaining }

// ResetTime is the seconds until the usage window resets, or nil when unknown.
func (e *Engine) ResetTime() *int { return e.deps.Store.Usage().ResetTime }
