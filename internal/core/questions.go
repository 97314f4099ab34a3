package core

import (
	"context"
	"strings"

	"github.com/guestify/mediakit-ai/internal/content"
)

const (
	TypeQuestions        = "questions"
	defaultQuestionCount = 10
	maxQuestions         = 25
)

type QuestionsRequest struct {
	Topics []string
	Count  int
}

// Questions generates interview questions for a set of topics.
type Questions struct {
	*TypedGenerator[[]string]
}

func parseQuestions(c content.Content) []string { return content.ListItems(c, maxQuestions) }

// NewQuestions returns an interview questions generator.
func NewQuestions(deps Deps) *Questions {
	deps = deps.withDefaults()
	return &Questions{NewTypedGenerator[[]string](TypeQuestions, deps, parseQuestions, withSharedContext(deps.Store))}
}

// Generate requests questions for the given topics.
func (q *Questions) Generate(ctx context.Context, req QuestionsRequest, override AuthContext) ([]string, error) {
	count := req.Count
	if count <= 0 {
		count = defaultQuestionCount
	}
	p := map[string]any{"count": count}
	var topics []string
	for _, t := range req.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	setIfPresent(p, "topics", strings.Join(topics, ", "))
	return q.GenerateParsed(ctx, p, override)
}
