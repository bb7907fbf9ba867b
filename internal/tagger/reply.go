package tagger

import (
	"fmt"
	"strings"
)

// Modes for language-model backends
const (
	// ModeCaption asks for one descriptive sentence, kept as a single tag
	ModeCaption = "caption"
	// ModeTags asks for a comma-separated keyword list
	ModeTags = "tags"
)

func buildPrompt(mode string, maxTags int) string {
	if mode == ModeCaption {
		return "Describe this image in one detailed sentence. Reply with the sentence only."
	}
	limit := "5-20"
	if maxTags > 0 {
		limit = fmt.Sprintf("at most %d", maxTags)
	}
	return "Generate " + limit + " comma-separated tags for this image. " +
		"Use short lowercase nouns or adjectives a photographer would use to organize a library. " +
		"Reply with the tags only, no numbering and no explanation."
}

// parseReply turns a model's text answer into candidate tags
func parseReply(mode, text string, maxTags int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}

	if mode == ModeCaption {
		return []string{strings.Join(strings.Fields(text), " ")}
	}

	pieces := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	for i, p := range pieces {
		pieces[i] = strings.Trim(stripMarker(p), `"'`)
	}

	tags := Normalize(pieces)
	if maxTags > 0 && len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// stripMarker removes a leading list bullet such as "-", "*" or "3."
func stripMarker(p string) string {
	p = strings.TrimLeft(strings.TrimSpace(p), "-*• ")
	i := 0
	for i < len(p) && p[i] >= '0' && p[i] <= '9' {
		i++
	}
	if i > 0 && i < len(p) && (p[i] == '.' || p[i] == ')') {
		p = p[i+1:]
	}
	return strings.TrimSpace(p)
}
