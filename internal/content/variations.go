package content

import (
	"regexp"
	"strings"
)

// MinSegmentLength is the shortest separator or paragraph piece kept as a variation.
const MinSegmentLength = 20

// Variation is one candidate text from a single generation call.
type Variation struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Label     string `json:"label,omitempty"`
	WordCount int    `json:"wordCount"`
}

var (
	separatorLine = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)

	// "OPTION 2:", "**Variation 3 (Punchy):**", "## Version 1 -"
	optionHeader = regexp.MustCompile(`(?mi)^[ \t]*(?:#+[ \t]*)?(?:\*\*)?(?:option|variation|version)[ \t]*(\d+)(?:[ \t]*\(([^)\n]*)\))?(?:\*\*)?[ \t]*[:.)\-–—]?(?:\*\*)?[ \t]*`)

	// "1. ", "2) "
	numberedHeader = regexp.MustCompile(`(?m)^[ \t]*(\d+)[.)][ \t]+`)

	blankLines = regexp.MustCompile(`\n[ \t]*\n+`)
)

// segment is a piece of text cut out of a larger response.
type segment struct {
	label string
	text  string
}

// Variations converts content into variations using the fallback cascade:
// list elements, then separator lines, then anchored OPTION/numbered headers, then
// blank-line paragraphs, then the whole text as one item. Objects recurse into their
// "variations" or "content" key. It never fails; unusable content gives an empty slice.
func Variations(c Content) []Variation {
	segs := segmentsOf(c, 0)
	out := make([]Variation, 0, len(segs))
	for _, s := range segs {
		out = append(out, Variation{
			ID:        len(out) + 1,
			Text:      s.text,
			Label:     s.label,
			WordCount: WordCount(s.text),
		})
	}
	return out
}

const maxDepth = 4

func segmentsOf(c Content, depth int) []segment {
	if depth > maxDepth {
		return nil
	}
	switch c.Kind() {
	case KindList:
		items, _ := c.List()
		out := make([]segment, 0, len(items))
		for _, item := range items {
			text := stringOf(item, "text", "content", "bio", "intro", "description", "title")
			if text == "" {
				continue
			}
			label := ""
			if m, ok := item.(map[string]any); ok {
				label = stringOf(m["label"])
			}
			out = append(out, segment{label: label, text: text})
		}
		return out
	case KindText:
		text, _ := c.Text()
		return splitText(text)
	case KindStructured:
		for _, key := range []string{"variations", "content"} {
			if nested, ok := c.Field(key); ok {
				return segmentsOf(nested, depth+1)
			}
		}
		fields, _ := c.Fields()
		if text := stringOf(fields, "text"); text != "" {
			return []segment{{label: stringOf(fields["label"]), text: text}}
		}
	}
	return nil
}

// splitText applies the text strategies in order; the first that yields a result wins.
func splitText(raw string) []segment {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	if segs := splitSeparators(text); len(segs) >= 2 {
		return segs
	}
	if segs := splitOptionHeaders(text); len(segs) >= 1 {
		return segs
	}
	if segs := splitNumberedHeaders(text); len(segs) >= 2 {
		return segs
	}
	if segs := splitParagraphs(text); len(segs) >= 2 {
		return segs
	}
	return []segment{{text: text}}
}

func splitSeparators(text string) []segment {
	if !separatorLine.MatchString(text) {
		return nil
	}
	var out []segment
	for _, piece := range separatorLine.Split(text, -1) {
		piece = strings.TrimSpace(piece)
		if len(piece) < MinSegmentLength {
			continue
		}
		label, body := stripHeader(piece)
		if body == "" {
			continue
		}
		out = append(out, segment{label: label, text: body})
	}
	return out
}

func splitOptionHeaders(text string) []segment {
	return splitAtHeaders(text, optionHeader, 2)
}

func splitNumberedHeaders(text string) []segment {
	return splitAtHeaders(text, numberedHeader, -1)
}

// splitAtHeaders cuts text at every header match; text before the first header is a
// preamble and is dropped. labelGroup is the submatch holding an inline label, or -1.
func splitAtHeaders(text string, header *regexp.Regexp, labelGroup int) []segment {
	matches := header.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]segment, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(text[m[1]:end])
		body = strings.TrimSpace(separatorLine.ReplaceAllString(body, ""))
		if body == "" {
			continue
		}
		label := ""
		if labelGroup > 0 && m[2*labelGroup] >= 0 {
			label = strings.TrimSpace(text[m[2*labelGroup]:m[2*labelGroup+1]])
		}
		out = append(out, segment{label: label, text: body})
	}
	return out
}

func splitParagraphs(text string) []segment {
	var out []segment
	for _, p := range blankLines.Split(text, -1) {
		p = strings.TrimSpace(p)
		if len(p) < MinSegmentLength {
			continue
		}
		out = append(out, segment{text: p})
	}
	return out
}

// stripHeader removes a leading OPTION or numbered header from a piece of text.
func stripHeader(piece string) (label, body string) {
	if loc := optionHeader.FindStringSubmatchIndex(piece); loc != nil && loc[0] == 0 {
		if loc[4] >= 0 {
			label = strings.TrimSpace(piece[loc[4]:loc[5]])
		}
		return label, strings.TrimSpace(piece[loc[1]:])
	}
	if loc := numberedHeader.FindStringIndex(piece); loc != nil && loc[0] == 0 {
		return "", strings.TrimSpace(piece[loc[1]:])
	}
	return "", piece
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
