package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberedLines(t *testing.T) {
	raw := "Here you go:\n1. **Scaling Without Burnout**\n2) \"Hiring Your First Ten\"\n3: ok\nnot numbered"
	assert.Equal(t, []string{"Scaling Without Burnout", "Hiring Your First Ten", "ok"}, NumberedLines(raw, 0, 0))
	assert.Equal(t, []string{"Scaling Without Burnout", "Hiring Your First Ten"}, NumberedLines(raw, 5, 0))
	assert.Equal(t, []string{"Scaling Without Burnout"}, NumberedLines(raw, 0, 1))
}

func TestCleanTopicTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**The Future of Work** - How remote teams win", "The Future of Work"},
		{"\"Leading Through Change\"", "Leading Through Change"},
		{"Pricing Power (a deep dive into value-based pricing models)", "Pricing Power"},
		{"Growth: Lessons learned", "Growth"},
		{"Plain title", "Plain title"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanTopicTitle(tt.in), tt.in)
	}
}

func TestTopics(t *testing.T) {
	raw := "1. The Future of Work - How remote teams win\n2. Leading Through Change\n3. Tiny\n4. Building Resilient Teams"
	got := Topics(Text(raw), 2)
	require.Len(t, got, 2)
	assert.Equal(t, Topic{Title: "The Future of Work", Category: "Topic"}, got[0])
	assert.Equal(t, "Leading Through Change", got[1].Title)

	list := List([]any{
		map[string]any{"title": "Scaling Up", "category": "Growth"},
		"Hiring Well",
	})
	assert.Equal(t, []Topic{
		{Title: "Scaling Up", Category: "Growth"},
		{Title: "Hiring Well", Category: "Topic"},
	}, Topics(list, 0))

	obj := Structured(map[string]any{"topics": []any{"Nested Topic"}})
	assert.Equal(t, []Topic{{Title: "Nested Topic", Category: "Topic"}}, Topics(obj, 0))
}

func TestTopicsFallsBackToLines(t *testing.T) {
	got := Topics(Text("Scaling Without Burnout\nHiring Your First Ten"), 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Hiring Your First Ten", got[1].Title)
}

func TestListItems(t *testing.T) {
	raw := "1. What got you started?\n2. \"How do you hire?\"\n3. What would you\ntell your younger self?\n\nThanks!"
	assert.Equal(t, []string{
		"What got you started?",
		"How do you hire?",
		"What would you\ntell your younger self?",
	}, ListItems(Text(raw), 0))

	assert.Len(t, ListItems(Text(raw), 2), 2)

	lines := "Why now?\nWhat is the biggest myth?\nok"
	assert.Equal(t, []string{"Why now?", "What is the biggest myth?"}, ListItems(Text(lines), 0))

	assert.Equal(t, []string{"a question"}, ListItems(List([]any{map[string]any{"question": "a question"}}), 0))
}

func TestTaglines(t *testing.T) {
	raw := "1. \"Growth without the grind\"\n2. Scale smarter, not harder\n3. Growth without the grind\n4. Hi"
	assert.Equal(t, []string{"Growth without the grind", "Scale smarter, not harder"}, Taglines(Text(raw), 5))

	unnumbered := "- Lead with clarity\n- Build what lasts"
	assert.Equal(t, []string{"Lead with clarity", "Build what lasts"}, Taglines(Text(unnumbered), 5))

	assert.Equal(t, []string{"Short"}, Taglines(Text("Short"), 5))

	obj := Structured(map[string]any{"taglines": []any{"From an object list"}})
	assert.Equal(t, []string{"From an object list"}, Taglines(obj, 5))
}

func TestOffers(t *testing.T) {
	raw := "Package 1: Starter Session\nA 60 minute strategy call with notes.\n\nPackage 2: Growth Sprint\nFour weeks of coaching and async support."
	got := Offers(Text(raw), 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Package 1", got[0].Title)
	assert.Contains(t, got[0].Description, "Starter Session")
	assert.Contains(t, got[1].Description, "Growth Sprint")
}

func TestOffersFallsBackToList(t *testing.T) {
	got := Offers(Text("1. Free audit of your funnel\n2. Done-for-you launch"), 0)
	require.Len(t, got, 2)
	assert.Equal(t, "", got[0].Title)
	assert.Equal(t, "Free audit of your funnel", got[0].Description)
}

func TestOffersStructured(t *testing.T) {
	c := Structured(map[string]any{
		"offers": []any{map[string]any{"name": "VIP Day", "description": "A full day together."}},
	})
	assert.Equal(t, []Offer{{Title: "VIP Day", Description: "A full day together."}}, Offers(c, 0))
}

func TestTieredOffersText(t *testing.T) {
	raw := "ENTRY: Quick Start\nOne call.\nSIGNATURE: Accelerator\nTwelve weeks.\nPREMIUM: Inner Circle\nA full year.\nENTRY: Audit\nA written review."
	got := TieredOffers(Text(raw))
	require.Len(t, got[TierEntry], 2)
	assert.Equal(t, Offer{Title: "Quick Start", Description: "One call."}, got[TierEntry][0])
	assert.Equal(t, "Audit", got[TierEntry][1].Title)
	require.Len(t, got[TierSignature], 1)
	assert.Equal(t, "Accelerator", got[TierSignature][0].Title)
	require.Len(t, got[TierPremium], 1)
	assert.Equal(t, "A full year.", got[TierPremium][0].Description)
}

func TestTieredOffersStructuredAndList(t *testing.T) {
	obj := Structured(map[string]any{
		"entry":   []any{map[string]any{"title": "A"}},
		"premium": []any{map[string]any{"title": "C"}, map[string]any{"title": "D"}},
	})
	got := TieredOffers(obj)
	assert.Len(t, got[TierEntry], 1)
	assert.Empty(t, got[TierSignature])
	assert.Len(t, got[TierPremium], 2)

	list := List([]any{
		map[string]any{"title": "Tagged", "tier": "Premium"},
		map[string]any{"title": "One"},
		map[string]any{"title": "Two"},
	})
	got = TieredOffers(list)
	assert.Equal(t, "Tagged", got[TierPremium][0].Title)
	assert.Equal(t, "One", got[TierEntry][0].Title)
	assert.Equal(t, "Two", got[TierSignature][0].Title)
}

func TestStatements(t *testing.T) {
	raw := "1. I help founders scale revenue when growth stalls.\n2. short\n3. I help coaches fill programs by telling better stories."
	got := Statements(Text(raw), 5)
	assert.Equal(t, []string{
		"I help founders scale revenue when growth stalls.",
		"I help coaches fill programs by telling better stories.",
	}, texts(got))

	paras := "First paragraph statement here.\n\nSecond paragraph statement here."
	assert.Len(t, Statements(Text(paras), 5), 2)

	assert.Equal(t, []string{"tiny"}, texts(Statements(Text(" tiny "), 5)))

	list := List([]any{map[string]any{"text": "from list"}})
	assert.Equal(t, []string{"from list"}, texts(Statements(list, 5)))
}
