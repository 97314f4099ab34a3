package content

import (
	"regexp"
	"strings"
)

// Topic is one interview or speaking topic.
type Topic struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Offer is a service package or conversion offer.
type Offer struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Tier names one of the three fixed offer tiers.
type Tier string

const (
	TierEntry     Tier = "entry"
	TierSignature Tier = "signature"
	TierPremium   Tier = "premium"
)

// Tiers lists the offer tiers in display order.
var Tiers = []Tier{TierEntry, TierSignature, TierPremium}

const defaultTopicCategory = "Topic"

var (
	// "1. text", "2) text", "3: text"
	numberedLine = regexp.MustCompile(`^\d+[.):]\s*(.+)`)
	// start of a numbered list item, used to cut multi-line items apart
	numberedItemStart = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]*`)
	bulletPrefix      = regexp.MustCompile(`^[-*•]\s*`)
	markdownEmphasis  = regexp.MustCompile(`\*+`)
	edgeQuotes        = regexp.MustCompile(`^["'“”]+|["'“”]+$`)

	topicTrailingDescription = regexp.MustCompile(`\s*[-–:]\s+[A-Z].*$`)
	topicTrailingParenthesis = regexp.MustCompile(`\s*\([^)]{30,}\)\s*$`)

	offerSectionStart = regexp.MustCompile(`(?i)\b(?:(?:package|tier|option|level)\s*\d|basic|standard|premium|enterprise)\b`)
	offerTitleLine    = regexp.MustCompile(`(?m)^(.+?)[\n:]`)
	tierHeader        = regexp.MustCompile(`(?mi)^[ \t]*(?:#+[ \t]*)?(?:\*\*)?(entry|signature|premium)\b[^:\n]*:(?:\*\*)?[ \t]*(.*)$`)
)

const quoteCutset = " \t\r\n\"'“”"

// cleanItem strips markdown emphasis and surrounding quotes from a generated line.
func cleanItem(s string) string {
	s = markdownEmphasis.ReplaceAllString(strings.TrimSpace(s), "")
	s = edgeQuotes.ReplaceAllString(s, "")
	return strings.Trim(s, quoteCutset)
}

// NumberedLines returns the cleaned text of every "N." / "N)" / "N:" line longer than minLen,
// stopping after max items. max <= 0 means no limit.
func NumberedLines(text string, minLen, max int) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := cleanItem(m[1])
		if len(item) > minLen {
			out = append(out, item)
		}
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// numberedItems splits text at numbered list headers; each item runs until the next header
// or the first blank line.
func numberedItems(text string) []string {
	locs := numberedItemStart.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		item := text[loc[1]:end]
		if cut := strings.Index(item, "\n\n"); cut >= 0 {
			item = item[:cut]
		}
		if item = cleanItem(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func limit[T any](items []T, max int) []T {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}

// nested looks for the first present key of a structured value.
func nested(c Content, keys ...string) (Content, bool) {
	for _, k := range keys {
		if v, ok := c.Field(k); ok {
			return v, true
		}
	}
	return Empty(), false
}

// ListItems parses a numbered list into strings, falling back to one item per line.
func ListItems(c Content, max int) []string {
	return listItems(c, max, 0)
}

func listItems(c Content, max, depth int) []string {
	if depth > maxDepth {
		return nil
	}
	switch c.Kind() {
	case KindList:
		items, _ := c.List()
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := stringOf(item, "text", "question", "title", "content"); s != "" {
				out = append(out, s)
			}
		}
		return limit(out, max)
	case KindStructured:
		if v, ok := nested(c, "items", "questions", "content"); ok {
			return listItems(v, max, depth+1)
		}
		return nil
	case KindText:
		text, _ := c.Text()
		if items := numberedItems(text); len(items) > 0 {
			return limit(items, max)
		}
		var out []string
		for _, line := range strings.Split(text, "\n") {
			line = strings.Trim(numberedItemStart.ReplaceAllString(strings.TrimSpace(line), ""), " '\"")
			if len(line) > 5 {
				out = append(out, line)
			}
		}
		return limit(out, max)
	}
	return nil
}

// CleanTopicTitle reduces a generated topic line to its short title.
func CleanTopicTitle(s string) string {
	title := cleanItem(s)
	title = topicTrailingDescription.ReplaceAllString(title, "")
	title = topicTrailingParenthesis.ReplaceAllString(title, "")
	return strings.Trim(title, quoteCutset)
}

// Topics parses topics from numbered lines, list elements, or a "topics" object key.
func Topics(c Content, max int) []Topic {
	return topics(c, max, 0)
}

func topics(c Content, max, depth int) []Topic {
	if depth > maxDepth {
		return nil
	}
	switch c.Kind() {
	case KindList:
		items, _ := c.List()
		out := make([]Topic, 0, len(items))
		for _, item := range items {
			title := CleanTopicTitle(stringOf(item, "title", "text", "topic"))
			if title == "" {
				continue
			}
			category := defaultTopicCategory
			if m, ok := item.(map[string]any); ok {
				if s := stringOf(m["category"]); s != "" {
					category = s
				}
			}
			out = append(out, Topic{Title: title, Category: category})
		}
		return limit(out, max)
	case KindStructured:
		if v, ok := nested(c, "topics", "items", "content"); ok {
			return topics(v, max, depth+1)
		}
		return nil
	case KindText:
		text, _ := c.Text()
		var out []Topic
		for _, line := range NumberedLines(text, 0, 0) {
			if title := CleanTopicTitle(line); len(title) > 5 {
				out = append(out, Topic{Title: title, Category: defaultTopicCategory})
			}
			if max > 0 && len(out) >= max {
				break
			}
		}
		if len(out) == 0 {
			for _, item := range ListItems(c, max) {
				out = append(out, Topic{Title: CleanTopicTitle(item), Category: defaultTopicCategory})
			}
		}
		return out
	}
	return nil
}

// Taglines parses up to max distinct taglines.
func Taglines(c Content, max int) []string {
	var raw []string
	switch c.Kind() {
	case KindList, KindStructured:
		if v, ok := nested(c, "taglines", "variations"); ok {
			c = v
		}
		raw = ListItems(c, 0)
	case KindText:
		text, _ := c.Text()
		raw = numberedItems(text)
		if len(raw) == 0 {
			for _, line := range strings.Split(text, "\n") {
				raw = append(raw, cleanItem(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")))
			}
		}
	}

	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, t := range raw {
		t = strings.Trim(t, " '\".-")
		if len(t) <= 5 || len(t) >= 200 {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 && c.Kind() == KindText {
		if text := strings.Trim(c.text, " '\"\n"); text != "" {
			out = []string{text}
		}
	}
	return limit(out, max)
}

// Offers splits generated text into packages at Package/Tier/Option/Level headers or
// tier names, falling back to a numbered list of untitled offers.
func Offers(c Content, max int) []Offer {
	return offers(c, max, 0)
}

func offers(c Content, max, depth int) []Offer {
	if depth > maxDepth {
		return nil
	}
	switch c.Kind() {
	case KindList:
		items, _ := c.List()
		out := make([]Offer, 0, len(items))
		for _, item := range items {
			if o, ok := offerOf(item); ok {
				out = append(out, o)
			}
		}
		return limit(out, max)
	case KindStructured:
		if v, ok := nested(c, "offers", "packages", "items", "content"); ok {
			return offers(v, max, depth+1)
		}
		fields, _ := c.Fields()
		if o, ok := offerOf(fields); ok {
			return []Offer{o}
		}
		return nil
	case KindText:
		text, _ := c.Text()
		out := offerSections(text)
		if len(out) == 0 {
			for _, item := range ListItems(c, 5) {
				out = append(out, Offer{Description: item})
			}
		}
		return limit(out, max)
	}
	return nil
}

func offerOf(item any) (Offer, bool) {
	switch v := item.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return Offer{Description: s}, true
		}
	case map[string]any:
		o := Offer{
			Title:       stringOf(v, "title", "name"),
			Description: stringOf(v, "description", "text", "content"),
		}
		if o.Title != "" || o.Description != "" {
			return o, true
		}
	}
	return Offer{}, false
}

func offerSections(text string) []Offer {
	locs := offerSectionStart.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	// Text before the first header is a preamble.
	starts := make([]int, 0, len(locs))
	for _, loc := range locs {
		if len(starts) == 0 || loc[0] > starts[len(starts)-1] {
			starts = append(starts, loc[0])
		}
	}

	var out []Offer
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		section := strings.TrimSpace(text[start:end])
		if len(section) <= MinSegmentLength {
			continue
		}
		if m := offerTitleLine.FindStringSubmatch(section); m != nil {
			out = append(out, Offer{
				Title:       cleanItem(m[1]),
				Description: strings.TrimSpace(strings.Replace(section, m[0], "", 1)),
			})
			continue
		}
		out = append(out, Offer{Title: "Package", Description: section})
	}
	return out
}

// TieredOffers groups offers by tier. Text uses "ENTRY:", "SIGNATURE:" and "PREMIUM:" headers;
// objects use entry/signature/premium keys; untagged offers are dealt round-robin.
func TieredOffers(c Content) map[Tier][]Offer {
	out := make(map[Tier][]Offer, len(Tiers))

	switch c.Kind() {
	case KindStructured:
		found := false
		for _, t := range Tiers {
			if v, ok := c.Field(string(t)); ok {
				out[t] = Offers(v, 0)
				found = true
			}
		}
		if found {
			return out
		}
		if v, ok := nested(c, "offers", "tiers", "content"); ok {
			return TieredOffers(v)
		}
		return out
	case KindList:
		items, _ := c.List()
		var untagged []Offer
		for _, item := range items {
			o, ok := offerOf(item)
			if !ok {
				continue
			}
			if m, isMap := item.(map[string]any); isMap {
				if tier := Tier(strings.ToLower(stringOf(m["tier"]))); tier.valid() {
					out[tier] = append(out[tier], o)
					continue
				}
			}
			untagged = append(untagged, o)
		}
		distribute(out, untagged)
		return out
	case KindText:
		text, _ := c.Text()
		if locs := tierHeader.FindAllStringSubmatchIndex(text, -1); len(locs) > 0 {
			for i, loc := range locs {
				end := len(text)
				if i+1 < len(locs) {
					end = locs[i+1][0]
				}
				tier := Tier(strings.ToLower(text[loc[2]:loc[3]]))
				out[tier] = append(out[tier], Offer{
					Title:       cleanItem(text[loc[4]:loc[5]]),
					Description: strings.TrimSpace(text[loc[1]:end]),
				})
			}
			return out
		}
		distribute(out, Offers(c, 0))
	}
	return out
}

func (t Tier) valid() bool {
	return t == TierEntry || t == TierSignature || t == TierPremium
}

func distribute(out map[Tier][]Offer, offers []Offer) {
	for i, o := range offers {
		t := Tiers[i%len(Tiers)]
		out[t] = append(out[t], o)
	}
}

// Statements parses short statements such as authority hooks or impact intros: numbered
// lines first, then blank-line paragraphs, then the whole text.
func Statements(c Content, max int) []Variation {
	if c.Kind() != KindText {
		return limit(Variations(c), max)
	}
	text, _ := c.Text()
	texts := NumberedLines(text, 10, max)
	if len(texts) == 0 {
		for _, p := range blankLines.Split(text, -1) {
			if p = strings.TrimSpace(p); len(p) > 10 {
				texts = append(texts, p)
			}
			if max > 0 && len(texts) >= max {
				break
			}
		}
	}
	if len(texts) == 0 {
		if t := strings.TrimSpace(text); t != "" {
			texts = []string{t}
		}
	}
	out := make([]Variation, 0, len(texts))
	for i, t := range texts {
		out = append(out, Variation{ID: i + 1, Text: t, WordCount: WordCount(t)})
	}
	return out
}
