package backend

import (
	"math"
	"strconv"
	"strings"

	"github.com/guestify/mediakit-ai/internal/content"
)

const maxQuestions = 25

type statement struct {
	Text string `json:"text"`
}

// FormatContent shapes raw model output for the response body. Types without a shape, and
// shapes that find nothing, return the trimmed text so clients can run their own parsing.
func FormatContent(contentType, raw string, params map[string]any) any {
	text := strings.TrimSpace(raw)
	c := content.Text(text)

	var out any
	found := false
	switch contentType {
	case "topics":
		topics := content.Topics(c, intParam(params, "count", 5))
		out, found = topics, len(topics) > 0
	case "questions":
		questions := content.ListItems(c, maxQuestions)
		out, found = questions, len(questions) > 0
	case "tagline":
		taglines := content.Taglines(c, intParam(params, "count", 10))
		out, found = taglines, len(taglines) > 0
	case "offers":
		tiers := content.TieredOffers(c)
		out, found = tiers, len(tiers) > 0
	case "conversion-offers":
		offers := content.Offers(c, intParam(params, "count", 3))
		out, found = offers, len(offers) > 0
	case "authority_hook", "impact_intro":
		vs := content.Statements(c, intParam(params, "count", 0))
		statements := make([]statement, 0, len(vs))
		for _, v := range vs {
			statements = append(statements, statement{Text: v.Text})
		}
		out, found = statements, len(statements) > 0
	}
	if !found {
		return text
	}
	return out
}

// intParam reads a positive integer parameter sent as a JSON number or a numeric string.
func intParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		if v > 0 && v == math.Trunc(v) {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}
