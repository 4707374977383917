package conversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_PlainJSON(t *testing.T) {
	raw := `{"convertedCode": "fmt.Println(\"hi\")", "explanations": ["used fmt"], "warnings": []}`

	res, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, `fmt.Println("hi")`, res.ConvertedCode)
	assert.Equal(t, []string{"used fmt"}, res.Explanations)
	assert.Empty(t, res.Warnings)
}

func TestNormalize_FencedJSON(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"convertedCode\": \"puts 'hi'\", \"explanations\": [], \"warnings\": [\"check quoting\"]}\n```\nHope that helps!"

	res, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "puts 'hi'", res.ConvertedCode)
	assert.Equal(t, []string{"check quoting"}, res.Warnings)
}

func TestNormalize_ProseBracesBeforeJSON(t *testing.T) {
	// A brace in leading prose must not derail extraction of the real object.
	raw := `I wrapped it in a { block } as requested: {"convertedCode": "x = 1"}`

	res, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "x = 1", res.ConvertedCode)
}

func TestNormalize_NilSlicesBecomeEmpty(t *testing.T) {
	res, err := Normalize(`{"convertedCode": "x = 1"}`)
	require.NoError(t, err)
	assert.NotNil(t, res.Explanations)
	assert.NotNil(t, res.Warnings)
}

func TestNormalize_NoJSON(t *testing.T) {
	_, err := Normalize("Sorry, I cannot convert that code.")
	assert.ErrorIs(t, err, ErrNoJSONFound)
}

func TestNormalize_MalformedJSON(t *testing.T) {
	_, err := Normalize(`{"convertedCode": "x = 1"`)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestNormalize_MissingConvertedCode(t *testing.T) {
	_, err := Normalize(`{"explanations": ["no code though"], "warnings": []}`)
	assert.ErrorIs(t, err, ErrMissingConvertedCode)

	_, err = Normalize(`{"convertedCode": "   "}`)
	assert.ErrorIs(t, err, ErrMissingConvertedCode)
}

func TestNormalize_EmptyObjectThenRealOne(t *testing.T) {
	raw := `{} {"convertedCode": "y = 2", "explanations": ["second object wins"]}`

	res, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "y = 2", res.ConvertedCode)
}
