package core

import (
	"context"
	"strings"

	"github.com/guestify/mediakit-ai/internal/aistore"
	"github.com/guestify/mediakit-ai/internal/content"
)

// ParseFunc turns generated content into a typed view. It must not fail.
type ParseFunc[T any] func(content.Content) T

// ShapeFunc adjusts caller params before they reach the engine.
type ShapeFunc func(params map[string]any) map[string]any

// TypedGenerator is an Engine plus the parse step of one content type.
type TypedGenerator[T any] struct {
	*Engine
	parse ParseFunc[T]
	shape ShapeFunc
}

// NewTypedGenerator wires an engine for typ to parse. shape may be nil.
func NewTypedGenerator[T any](typ string, deps Deps, parse ParseFunc[T], shape ShapeFunc) *TypedGenerator[T] {
	return &TypedGenerator[T]{
		Engine: NewEngine(typ, deps),
		parse:  parse,
		shape:  shape,
	}
}

// GenerateParsed shapes params, generates, and parses the result.
func (g *TypedGenerator[T]) GenerateParsed(ctx context.Context, params map[string]any, override AuthContext) (T, error) {
	if g.shape != nil {
		params = g.shape(params)
	}
	c, err := g.Engine.Generate(ctx, params, override)
	if err != nil {
		var zero T
		return zero, err
	}
	return g.parse(c), nil
}

// Parsed applies the parse step to the current content.
func (g *TypedGenerator[T]) Parsed() T {
	return g.parse(g.Content())
}

// Parse applies the parse step to any content.
func (g *TypedGenerator[T]) Parse(c content.Content) T {
	return g.parse(c)
}

// withSharedContext fills authorityHook and credentials from the store when the caller
// left them out.
func withSharedContext(store *aistore.Store) ShapeFunc {
	return func(params map[string]any) map[string]any {
		out := make(map[string]any, len(params)+2)
		for k, v := range params {
			out[k] = v
		}
		if _, ok := out["authorityHook"]; !ok {
			if summary := store.AuthorityHookSummary(); summary != "" {
				out["authorityHook"] = summary
			}
		}
		if _, ok := out["credentials"]; !ok {
			if creds := store.CredentialsSummary(); creds != "" {
				out["credentials"] = creds
			}
		}
		return out
	}
}

// setIfPresent writes non-blank strings only, keeping cache keys free of empty fields.
func setIfPresent(params map[string]any, key, value string) {
	if strings.TrimSpace(value) != "" {
		params[key] = value
	}
}

func mergeParams(base, overrides map[string]any) map[string]any {
	for k, v := range overrides {
		base[k] = v
	}
	return base
}
