package contract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

const validThread = `
  {
    "hookVariations": {"curiosity": "c", "listicle": "l", "emotional": "e", "contrarian": "x"},
    "bodyPosts": ["one", "two", "three"],
    "ctaVariations": {"question": "q", "recap": "r", "promotional": "p"},
    "hashtags": ["#a", "#b", "#c"]
  }
`

func TestParseThreadValid(t *testing.T) {
	thread, err := ParseThread(validThread, OpThread)
	require.NoError(t, err)

	assert.Equal(t, "x", thread.HookVariations.Contrarian)
	assert.Equal(t, []string{"one", "two", "three"}, thread.BodyPosts)
	assert.Equal(t, "p", thread.CTAVariations.Promotional)
	assert.Equal(t, []string{"#a", "#b", "#c"}, thread.Hashtags)
}

func TestParseThreadRejects(t *testing.T) {
	cases := map[string]string{
		"empty":           "   ",
		"not json":        "Here is your thread!",
		"fenced":          "```json\n" + strings.TrimSpace(validThread) + "\n```",
		"trailing text":   strings.TrimSpace(validThread) + " thanks",
		"missing hashtag": `{"hookVariations": {"curiosity": "c", "listicle": "l", "emotional": "e", "contrarian": "x"}, "bodyPosts": [], "ctaVariations": {"question": "q", "recap": "r", "promotional": "p"}}`,
		"missing hook":    `{"hookVariations": {"curiosity": "c", "listicle": "l", "emotional": "e"}, "bodyPosts": [], "ctaVariations": {"question": "q", "recap": "r", "promotional": "p"}, "hashtags": []}`,
		"wrong type":      `{"hookVariations": {"curiosity": "c", "listicle": "l", "emotional": "e", "contrarian": "x"}, "bodyPosts": "one", "ctaVariations": {"question": "q", "recap": "r", "promotional": "p"}, "hashtags": []}`,
		"non string item": `{"hookVariations": {"curiosity": "c", "listicle": "l", "emotional": "e", "contrarian": "x"}, "bodyPosts": [1], "ctaVariations": {"question": "q", "recap": "r", "promotional": "p"}, "hashtags": []}`,
		"array root":      `[]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			thread, err := ParseThread(raw, OpThread)
			assert.Nil(t, thread)

			var v *Violation
			require.True(t, errors.As(err, &v), "got %v", err)
			assert.Equal(t, OpThread, v.Operation)
		})
	}
}

func TestUserMessages(t *testing.T) {
	_, err := ParseThread("nope", OpThread)
	assert.Equal(t, "The AI returned an invalid response. Please try again.", userMessage(t, err))

	_, err = ParseThread("nope", OpRefinement)
	assert.Equal(t, "The AI returned an invalid refinement. Please try again.", userMessage(t, err))

	_, err = ParseBody("nope")
	assert.Equal(t, "The AI returned an invalid response for the thread body. Please try again.", userMessage(t, err))

	_, err = ParseHook("  \n ")
	assert.Equal(t, "The AI returned an empty hook. Please try again.", userMessage(t, err))
}

func userMessage(t *testing.T, err error) string {
	t.Helper()
	var v *Violation
	require.True(t, errors.As(err, &v))
	return v.UserMessage()
}

func TestParseBody(t *testing.T) {
	posts, err := ParseBody(`{"bodyPosts": ["a", "b"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, posts)

	_, err = ParseBody(`{"posts": ["a"]}`)
	assert.Error(t, err)
}

func TestParseHookTrims(t *testing.T) {
	hook, err := ParseHook("\n  Nobody tells you this about sourdough.  \n")
	require.NoError(t, err)
	assert.Equal(t, "Nobody tells you this about sourdough.", hook)
}

func TestReviewIsAdvisory(t *testing.T) {
	thread, err := ParseThread(validThread, OpThread)
	require.NoError(t, err)
	thread.BodyPosts[1] = strings.Repeat("a", model.MaxPostChars+1)

	advisories := Review(thread, 5)
	kinds := make([]string, 0, len(advisories))
	for _, a := range advisories {
		kinds = append(kinds, a.Kind)
	}
	assert.Contains(t, kinds, AdvisoryBodyCount)
	assert.Contains(t, kinds, AdvisoryOverLength)
	assert.NotContains(t, kinds, AdvisoryHashtagSize)

	assert.Empty(t, ReviewBody([]string{"a", "b"}, 2))
}

func TestJSONSchema(t *testing.T) {
	doc := Thread.JSONSchema()
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []string{"hookVariations", "bodyPosts", "ctaVariations", "hashtags"}, doc["required"])

	props := doc["properties"].(map[string]any)
	body := props["bodyPosts"].(map[string]any)
	assert.Equal(t, "array", body["type"])
	assert.Equal(t, map[string]any{"type": "string"}, body["items"])
}
