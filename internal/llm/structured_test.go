package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draftFields struct {
	Objectives string `json:"objectives" validate:"required"`
	Methods    string `json:"methods" validate:"required"`
	Resources  string `json:"resources"`
}

func TestExtractJSON_Plain(t *testing.T) {
	got, err := ExtractJSON[draftFields](`{"objectives":"Define a fraction","methods":"Group work"}`)
	require.NoError(t, err)
	assert.Equal(t, "Define a fraction", got.Objectives)
	assert.Equal(t, "Group work", got.Methods)
}

func TestExtractJSON_FencedWithProse(t *testing.T) {
	raw := "Here is the plan:\n```json\n{\"objectives\":\"a {b}\",\"methods\":\"c\"}\n```\nGood luck!"
	got, err := ExtractJSON[draftFields](raw)
	require.NoError(t, err)
	assert.Equal(t, "a {b}", got.Objectives)
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := ExtractJSON[draftFields]("I cannot help with that.")
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Unbalanced(t *testing.T) {
	_, err := ExtractJSON[draftFields](`{"objectives":"x"`)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_FailsValidation(t *testing.T) {
	_, err := ExtractJSON[draftFields](`{"objectives":"x"}`)
	require.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "Methods failed required")
}
