package core

import (
	"context"
	"strings"

	"github.com/guestify/mediakit-ai/internal/content"
)

const (
	TypeTopics        = "topics"
	defaultTopicCount = 5
	maxTopics         = 10
)

type TopicsRequest struct {
	Expertise string
	Count     int
}

// Topics generates interview and speaking topics.
type Topics struct {
	*TypedGenerator[[]content.Topic]
}

func parseTopics(c content.Content) []content.Topic { return content.Topics(c, maxTopics) }

// NewTopics returns a podcast topics generator.
func NewTopics(deps Deps) *Topics {
	deps = deps.withDefaults()
	return &Topics{NewTypedGenerator[[]content.Topic](TypeTopics, deps, parseTopics, withSharedContext(deps.Store))}
}

// Generate requests req.Count topics, 5 when unset, and parses titles and categories.
func (t *Topics) Generate(ctx context.Context, req TopicsRequest, override AuthContext) ([]content.Topic, error) {
	count := req.Count
	if count <= 0 {
		count = defaultTopicCount
	}
	p := map[string]any{"count": count}
	setIfPresent(p, "expertise", strings.TrimSpace(req.Expertise))
	return t.GenerateParsed(ctx, p, override)
}

// Titles returns the titles of the current topics.
func (t *Topics) Titles() []string {
	topics := t.Parsed()
	out := make([]string, len(topics))
	for i, topic := range topics {
		out[i] = topic.Title
	}
	return out
}
