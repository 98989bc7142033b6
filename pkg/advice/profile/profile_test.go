package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorySetIsClosed(t *testing.T) {
	assert.Equal(t, []Category{Personal, Professional, Casual}, Categories())

	for _, c := range Categories() {
		assert.True(t, Valid(c), "category %q should be valid", c)
	}

	assert.False(t, Valid("romantic"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("PERSONAL"))
}

func TestQuestionIDsUniquePerCatalog(t *testing.T) {
	for _, c := range Categories() {
		seen := map[string]bool{}
		for _, q := range Questions(c) {
			assert.False(t, seen[q.ID], "duplicate question id %q in %q catalog", q.ID, c)
			seen[q.ID] = true
		}
	}
}

func TestBackgroundQuestionSharedAcrossCatalogs(t *testing.T) {
	var reference *Question
	for _, c := range Categories() {
		questions := Questions(c)
		last := questions[len(questions)-1]

		assert.Equal(t, "backgroundContext", last.ID)
		assert.False(t, last.Required)

		if reference == nil {
			reference = &last
			continue
		}
		assert.Equal(t, *reference, last, "background question differs for %q", c)
	}
}

func TestGuidanceFallsBackToPersonal(t *testing.T) {
	assert.Equal(t, Guidance(Personal), Guidance("made-up"))
	assert.NotEqual(t, Guidance(Personal), Guidance(Professional))
	assert.NotEqual(t, Guidance(Professional), Guidance(Casual))
}
