package core

import (
	"context"

	"github.com/guestify/mediakit-ai/internal/aistore"
	"github.com/guestify/mediakit-ai/internal/content"
)

const (
	TypeAuthorityHook     = "authority_hook"
	TypeImpactIntro       = "impact_intro"
	defaultStatementCount = 5
)

func parseStatements(c content.Content) []content.Variation { return content.Statements(c, 0) }

// AuthorityHooks generates "I help who what..." statements from the six hook fields.
type AuthorityHooks struct {
	*TypedGenerator[[]content.Variation]
}

// NewAuthorityHooks returns a generator of authority hook statements.
func NewAuthorityHooks(deps Deps) *AuthorityHooks {
	deps = deps.withDefaults()
	return &AuthorityHooks{NewTypedGenerator[[]content.Variation](TypeAuthorityHook, deps, parseStatements, nil)}
}

// Generate uses hook, or the shared hook when hook is empty.
func (a *AuthorityHooks) Generate(ctx context.Context, hook aistore.AuthorityHook, count int, override AuthContext) ([]content.Variation, error) {
	if hook == (aistore.AuthorityHook{}) {
		hook = a.Store().AuthorityHook()
	}
	if count <= 0 {
		count = defaultStatementCount
	}
	p := map[string]any{"count": count}
	for _, field := range aistore.AuthorityHookFields {
		v, _ := hook.Get(field)
		setIfPresent(p, field, v)
	}
	return a.GenerateParsed(ctx, p, override)
}

type ImpactIntroRequest struct {
	Credentials  []string
	Achievements []string
	Where        string
	Why          string
	Count        int
}

// ImpactIntros generates one-sentence credential and mission statements.
type ImpactIntros struct {
	*TypedGenerator[[]content.Variation]
}

// NewImpactIntros returns a generator of impact intro statements.
func NewImpactIntros(deps Deps) *ImpactIntros {
	deps = deps.withDefaults()
	return &ImpactIntros{NewTypedGenerator[[]content.Variation](TypeImpactIntro, deps, parseStatements, nil)}
}

// Generate fills empty credential and achievement lists, and where/why, from the store.
func (i *ImpactIntros) Generate(ctx context.Context, req ImpactIntroRequest, override AuthContext) ([]content.Variation, error) {
	shared := i.Store().ImpactIntro()
	hook := i.Store().AuthorityHook()
	if len(req.Credentials) == 0 {
		req.Credentials = shared.Credentials
	}
	if len(req.Achievements) == 0 {
		req.Achievements = shared.Achievements
	}
	if req.Where == "" {
		req.Where = hook.Where
	}
	if req.Why == "" {
		req.Why = hook.Why
	}
	if req.Count <= 0 {
		req.Count = defaultStatementCount
	}

	p := map[string]any{"count": req.Count}
	setIfPresent(p, "credentials", joinList(req.Credentials))
	setIfPresent(p, "achievements", joinList(req.Achievements))
	setIfPresent(p, "where", req.Where)
	setIfPresent(p, "why", req.Why)
	return i.GenerateParsed(ctx, p, override)
}
