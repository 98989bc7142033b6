package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const markedOutput = `INSIGHT: You feel unheard when plans change without warning.
SUGGESTIONS:
1. "I'd like us to agree on how we handle schedule changes."
2. Ask them how they see the situation.
3. Take a short break before responding.`

func TestNormalizeMarkedSections(t *testing.T) {
	res := Normalize(markedOutput)

	assert.Equal(t, "You feel unheard when plans change without warning.", res.Reply)
	assert.Equal(t, []string{
		`"I'd like us to agree on how we handle schedule changes."`,
		"Ask them how they see the situation.",
		"Take a short break before responding.",
	}, res.Suggestions)
	assert.False(t, res.Degraded)
	assert.False(t, res.ProducedAt.IsZero())
}

func TestNormalizeCapsSuggestions(t *testing.T) {
	raw := `INSIGHT: Short insight.
SUGGESTIONS:
1. one
2. two
3. three
4. four
5. five`

	res := Normalize(raw)
	assert.Len(t, res.Suggestions, MaxSuggestions)
	assert.Equal(t, []string{"one", "two", "three"}, res.Suggestions)
}

func TestNormalizeQuoteFallback(t *testing.T) {
	raw := `You might try saying "I need some space tonight" or "Can we talk tomorrow instead?" when it comes up.`
	res := Normalize(raw)

	assert.Equal(t, []string{"I need some space tonight", "Can we talk tomorrow instead?"}, res.Suggestions)
	assert.Equal(t, raw, res.Reply)
}

func TestNormalizeSingleQuoteIsNoise(t *testing.T) {
	raw := `They called it a "boundary" and moved on.`
	res := Normalize(raw)

	// One quoted fragment is not a suggestion list.
	assert.Equal(t, DefaultSuggestions(), res.Suggestions)
	assert.Equal(t, raw, res.Reply)
}

func TestNormalizeEmptyInput(t *testing.T) {
	res := Normalize("")

	assert.Equal(t, DefaultReply, res.Reply)
	assert.Equal(t, DefaultSuggestions(), res.Suggestions)
}

func TestNormalizeInsightOnly(t *testing.T) {
	res := Normalize("INSIGHT: Plain observation with no list.")

	assert.Equal(t, "Plain observation with no list.", res.Reply)
	assert.Equal(t, DefaultSuggestions(), res.Suggestions)
}

func TestNormalizeIsPure(t *testing.T) {
	first := Normalize(markedOutput)
	second := Normalize(markedOutput)

	assert.Equal(t, first.Reply, second.Reply)
	assert.Equal(t, first.Suggestions, second.Suggestions)
}

func TestExtractOrdinalsTrimsEntries(t *testing.T) {
	out := extractOrdinals("1.   first   \n2. second\t")
	assert.Equal(t, []string{"first", "second"}, out)
}

func TestExtractOrdinalsEmptySection(t *testing.T) {
	assert.Nil(t, extractOrdinals(""))
}

func TestSuggestionsSectionAbsentMarker(t *testing.T) {
	assert.Empty(t, suggestionsSection("no markers here"))
}
