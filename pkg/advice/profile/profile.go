// Package profile holds the static relationship-category table: the closed
// set of categories, their guidance blocks and their survey question catalogs.
package profile

import "errors"

// Category is one of the three closed conversational contexts.
type Category string

const (
	Personal     Category = "personal"
	Professional Category = "professional"
	Casual       Category = "casual"
)

// ErrInvalidCategory is returned wherever a category outside the closed set
// is rejected.
var ErrInvalidCategory = errors.New("invalid relationship category")

// QuestionKind enumerates the supported survey input kinds.
const (
	KindSelect   = "select"
	KindRange    = "range"
	KindTextarea = "textarea"
)

// Question describes a single survey question for a category.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"question"`
	Kind        string   `json:"type"`
	Options     []string `json:"options,omitempty"`
	Min         int      `json:"min,omitempty"`
	Max         int      `json:"max,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Required    bool     `json:"required"`
}

// Categories returns the closed category set in fixed order.
func Categories() []Category {
	return []Category{Personal, Professional, Casual}
}

// Valid reports whether c belongs to the closed category set.
func Valid(c Category) bool {
	switch c {
	case Personal, Professional, Casual:
		return true
	}
	return false
}

// Description returns the caller-facing summary for a category.
func Description(c Category) string {
	switch c {
	case Personal:
		return "Family, friends, and romantic partners"
	case Professional:
		return "Workplace relationships with colleagues, bosses, or clients"
	case Casual:
		return "Acquaintances, neighbors, and other casual contacts"
	}
	return "General relationship guidance"
}

// Guidance returns the category-specific guidance block injected into the
// prompt. Unknown categories fall back to the personal block so a prompt can
// always be produced; validation upstream is expected to reject them first.
func Guidance(c Category) string {
	if g, ok := guidanceBlocks[c]; ok {
		return g
	}
	return guidanceBlocks[Personal]
}

// Questions returns the ordered survey question catalog for a category.
// The optional background-context question is appended identically to every
// catalog. Unknown categories fall back to the personal catalog.
func Questions(c Category) []Question {
	qs, ok := questionCatalogs[c]
	if !ok {
		qs = questionCatalogs[Personal]
	}
	out := make([]Question, 0, len(qs)+1)
	out = append(out, qs...)
	out = append(out, backgroundQuestion)
	return out
}

var guidanceBlocks = map[Category]string{
	Personal: `Personal Relationship Guidance:
- Focus on emotional connection, trust, and long-term relationship health
- Consider the depth of the relationship (family bonds, romantic intimacy, friendship history)
- Balance honesty with maintaining the personal connection
- Address both parties' emotional needs and feelings
- Suggest approaches that strengthen rather than damage the personal bond`,

	Professional: `Professional Relationship Guidance:
- Emphasize professionalism, boundaries, and career implications
- Consider workplace dynamics, hierarchy, and business objectives
- Focus on clear, respectful communication that maintains working relationships
- Address both personal and business concerns appropriately
- Suggest diplomatic approaches that protect professional reputation`,

	Casual: `Casual Relationship Guidance:
- Keep interactions appropriate for the relationship level
- Focus on polite, respectful communication without overstepping
- Consider social norms and expectations in casual settings
- Address issues while maintaining comfortable social interactions
- Suggest light, friendly approaches that don't create awkwardness`,
}

// backgroundQuestion is shared verbatim across all three catalogs.
var backgroundQuestion = Question{
	ID:          "backgroundContext",
	Prompt:      "Any relevant background about you or them? (optional)",
	Kind:        KindTextarea,
	Placeholder: "e.g., different backgrounds, communication styles, family expectations, etc.",
	Required:    false,
}

var questionCatalogs = map[Category][]Question{
	Personal: {
		{
			ID:       "relationshipType",
			Prompt:   "What type of personal relationship is this?",
			Kind:     KindSelect,
			Options:  []string{"Romantic partner", "Family member", "Close friend", "Friend"},
			Required: true,
		},
		{
			ID:       "duration",
			Prompt:   "How long have you known each other?",
			Kind:     KindSelect,
			Options:  []string{"Less than 6 months", "6-12 months", "1-3 years", "3-5 years", "5+ years"},
			Required: true,
		},
		{
			ID:       "closeness",
			Prompt:   "How close are you? (1-10)",
			Kind:     KindRange,
			Min:      1,
			Max:      10,
			Required: true,
		},
		{
			ID:       "conflictType",
			Prompt:   "What's the main challenge?",
			Kind:     KindSelect,
			Options:  []string{"Communication", "Trust issues", "Boundaries", "Values/expectations", "Time/attention", "Life changes", "Other"},
			Required: true,
		},
		{
			ID:          "specificContext",
			Prompt:      "Describe the specific situation you need help with",
			Kind:        KindTextarea,
			Placeholder: "e.g., We've been having issues with...",
			Required:    true,
		},
	},
	Professional: {
		{
			ID:       "workingRelationship",
			Prompt:   "What's your working relationship?",
			Kind:     KindSelect,
			Options:  []string{"They are my boss", "We are peers/colleagues", "They report to me", "Client/Customer", "Vendor/Supplier", "Other"},
			Required: true,
		},
		{
			ID:       "duration",
			Prompt:   "How long have you worked together?",
			Kind:     KindSelect,
			Options:  []string{"Less than 1 month", "1-6 months", "6-12 months", "1-2 years", "2+ years"},
			Required: true,
		},
		{
			ID:       "conflictType",
			Prompt:   "What's the issue?",
			Kind:     KindSelect,
			Options:  []string{"Communication style", "Work performance", "Deadlines/expectations", "Team dynamics", "Authority/hierarchy", "Other"},
			Required: true,
		},
		{
			ID:          "specificContext",
			Prompt:      "Describe the workplace context",
			Kind:        KindTextarea,
			Placeholder: "e.g., During meetings they...",
			Required:    true,
		},
	},
	Casual: {
		{
			ID:       "context",
			Prompt:   "How do you know this person?",
			Kind:     KindSelect,
			Options:  []string{"Neighbor", "Gym/activity buddy", "Classmate", "Social acquaintance", "Online community", "Through mutual friends", "Other"},
			Required: true,
		},
		{
			ID:       "frequency",
			Prompt:   "How often do you interact?",
			Kind:     KindSelect,
			Options:  []string{"Daily", "Weekly", "Monthly", "Occasionally", "Rarely"},
			Required: true,
		},
		{
			ID:       "conflictType",
			Prompt:   "What's the issue?",
			Kind:     KindSelect,
			Options:  []string{"Awkward interaction", "Social expectations", "Communication barrier", "Boundary confusion", "Annoying behavior", "Other"},
			Required: true,
		},
		{
			ID:          "specificContext",
			Prompt:      "Describe the situation",
			Kind:        KindTextarea,
			Placeholder: "e.g., When I see them at the gym...",
			Required:    true,
		},
	},
}
