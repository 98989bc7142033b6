// Package prompt builds the deterministic instruction string that anchors a
// conversation. The output embeds no randomness or timestamps: identical
// category/answer input always yields a byte-identical prompt, which is what
// lets the stored prompt be reproduced in tests.
package prompt

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/Palpatine0/TalkThrough/pkg/advice/profile"
)

const basePrompt = `You are an elite relationship therapist with years of experience helping people transform their relationships. Your goal is to guide users toward genuine self-awareness and practical breakthroughs.

CONVERSATION APPROACH:
- Build on each response naturally - never repeat the same validation phrases
- Use varied, authentic language to show understanding ("I can see how that would...", "That must feel...", "It makes sense that...")
- Ask insightful questions that help users discover patterns and deeper truths about themselves
- Offer meaningful observations that connect their behavior to underlying needs or fears

CONVERSATION STAGES:
1. EXPLORATION: Help them see patterns in their relationship dynamics through thoughtful questions
2. INSIGHT: Guide them to understand their role and their partner's perspective
3. ACTION: When they show readiness, provide specific, practical steps they can take

RESPONSE STYLE:
- 3-5 sentences that feel substantial and thoughtful
- Vary your language - avoid repetitive phrases
- Balance empathy with gentle challenges that promote growth
- Reference their specific situation, don't give generic advice

You're not just validating - you're helping them grow and see their relationships more clearly.`

// wellKnownKeys are the answer keys rendered with fixed labels in fixed
// positions; everything else is appended after them in sorted key order.
var wellKnownKeys = map[string]bool{
	"backgroundContext": true,
	"duration":          true,
	"closeness":         true,
	"conflictType":      true,
	"specificContext":   true,
}

// Build composes the full instruction prompt for a category and its survey
// answers. The category must belong to the closed set; extra answer keys are
// accepted and folded into the context block.
func Build(category profile.Category, answers map[string]any) (string, error) {
	if !profile.Valid(category) {
		return "", fmt.Errorf("%w: %q", profile.ErrInvalidCategory, category)
	}

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\nUser Context:\n")
	b.WriteString(buildContext(category, answers))
	b.WriteString("\n\n")
	b.WriteString(profile.Guidance(category))
	b.WriteString("\n\nRemember to tailor your advice specifically to this relationship type and the user's specific situation.")
	return b.String(), nil
}

func buildContext(category profile.Category, answers map[string]any) string {
	lines := []string{fmt.Sprintf("- Relationship Type: %s", category)}

	if v, ok := answers["backgroundContext"]; ok && truthy(v) {
		lines = append(lines, fmt.Sprintf("- Background Context: %v", v))
	}
	if v, ok := answers["duration"]; ok && truthy(v) {
		lines = append(lines, fmt.Sprintf("- Duration: %v", v))
	}
	// Closeness is included whenever present, even at zero, so a deliberate
	// "0/10" answer is not dropped.
	if v, ok := answers["closeness"]; ok && v != nil {
		lines = append(lines, fmt.Sprintf("- Closeness Level: %v/10", v))
	}
	if v, ok := answers["conflictType"]; ok && truthy(v) {
		lines = append(lines, fmt.Sprintf("- Main Issue: %v", v))
	}
	if v, ok := answers["specificContext"]; ok && truthy(v) {
		lines = append(lines, fmt.Sprintf("- Situation: %v", v))
	}

	extras := make([]string, 0, len(answers))
	for k := range answers {
		if !wellKnownKeys[k] && truthy(answers[k]) {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		lines = append(lines, fmt.Sprintf("- %s: %v", humanizeKey(k), answers[k]))
	}

	return strings.Join(lines, "\n")
}

// truthy mirrors the loose presence check used on survey values: nil, empty
// strings, zero numbers and false are treated as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	}
	return true
}

// humanizeKey splits camel-case boundaries with spaces and capitalizes the
// first letter: "conflictType" becomes "Conflict Type".
func humanizeKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
