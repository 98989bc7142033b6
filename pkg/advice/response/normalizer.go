// Package response normalizes free-form model output into the bounded
// {reply, suggestions} contract the rest of the system depends on.
//
// The fallback ladder is explicit: structured INSIGHT/SUGGESTIONS sections
// first, then numbered lines, then quoted substrings anywhere in the text,
// then fixed defaults. Each rung is a plain function with no error paths, so
// Normalize is total over arbitrary input.
package response

import (
	"regexp"
	"strings"
	"time"
)

// MaxSuggestions bounds the suggested-reply list on every result.
const MaxSuggestions = 3

// Result is the normalized response contract. Suggestions always holds
// between 1 and MaxSuggestions non-empty items. Degraded is set by the engine
// on transport failure, never by parsing fallback.
type Result struct {
	Reply       string    `json:"aiResponse"`
	Suggestions []string  `json:"suggestedReplies"`
	Degraded    bool      `json:"-"`
	ProducedAt  time.Time `json:"timestamp"`
}

var (
	insightRe     = regexp.MustCompile(`(?s)INSIGHT:\s*(.*?)(?:SUGGESTIONS:|$)`)
	suggestionsRe = regexp.MustCompile(`(?s)SUGGESTIONS:\s*(.*)$`)
	ordinalRe     = regexp.MustCompile(`\d+\.\s*([^\n]+)`)
	quotedRe      = regexp.MustCompile(`"([^"]+)"`)
)

// DefaultSuggestions is substituted when nothing usable can be extracted.
func DefaultSuggestions() []string {
	return []string{
		"That's a good point. How do you feel about that?",
		"I understand. What would you like to do next?",
		"That makes sense. Can you tell me more about that?",
	}
}

// DefaultReply is substituted when the extracted reply is empty.
const DefaultReply = "I understand your situation. Let me help you think through this conversation."

// Normalize converts raw model output into a Result. It never fails; every
// anomaly resolves through the fallback ladder.
func Normalize(raw string) Result {
	reply := extractReply(raw)

	suggestions := extractOrdinals(suggestionsSection(raw))
	if len(suggestions) == 0 {
		suggestions = extractQuoted(raw)
	}
	if len(suggestions) == 0 {
		suggestions = DefaultSuggestions()
	}
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}

	if reply == "" {
		reply = DefaultReply
	}

	return Result{
		Reply:       reply,
		Suggestions: suggestions,
		ProducedAt:  time.Now(),
	}
}

// extractReply returns the INSIGHT section when present, otherwise the whole
// text, trimmed.
func extractReply(raw string) string {
	if m := insightRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// suggestionsSection returns everything after the SUGGESTIONS marker, or the
// empty string when the marker is absent.
func suggestionsSection(raw string) string {
	if m := suggestionsRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractOrdinals collects "<n>. text" entries in document order with the
// ordinal prefix stripped.
func extractOrdinals(section string) []string {
	if section == "" {
		return nil
	}
	var out []string
	for _, m := range ordinalRe.FindAllStringSubmatch(section, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// extractQuoted scans the entire raw text for quoted substrings. Fewer than
// two matches is treated as noise and yields nothing.
func extractQuoted(raw string) []string {
	matches := quotedRe.FindAllStringSubmatch(raw, -1)
	if len(matches) < 2 {
		return nil
	}
	out := make([]string, 0, MaxSuggestions)
	for _, m := range matches {
		if s := strings.TrimSpace(m[1]); s != "" {
			out = append(out, s)
		}
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
