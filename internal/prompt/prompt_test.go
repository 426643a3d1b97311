package prompt

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

func testConfig() model.Configuration {
	cfg := model.DefaultConfiguration()
	cfg.Topic = "5 AI tools"
	cfg.Length = 5
	cfg.Niche = model.NicheTech
	cfg.NumberingStyle = model.NumberingEmoji
	return cfg
}

func testThread() model.Thread {
	return model.Thread{
		HookVariations: model.HookVariations{
			Curiosity:  "What if your IDE wrote half your code?",
			Listicle:   "5 AI tools I use every day:",
			Emotional:  "I almost burned out before finding these tools.",
			Contrarian: "AI tools won't make you a better engineer.",
		},
		BodyPosts: []string{"First tool", "Second tool", "Third tool", "Fourth tool", "Fifth tool"},
		CTAVariations: model.CTAVariations{
			Question:    "Which one do you use?",
			Recap:       "Five tools, one workflow.",
			Promotional: "Follow for more.",
		},
		Hashtags: []string{"#AI", "#DevTools", "#Productivity"},
	}
}

func TestCheckTables(t *testing.T) {
	require.NoError(t, CheckTables())
}

func TestGenerationScenario(t *testing.T) {
	p := Generation(testConfig())

	assert.Contains(t, p, "exactly 5 posts")
	assert.Contains(t, p, `"5 AI tools"`)
	assert.Contains(t, p, "\"1\uFE0F\u20E3\", \"2\uFE0F\u20E3\", \"3\uFE0F\u20E3\"")
	assert.NotContains(t, p, "Other")
	assert.Contains(t, p, "under 280 characters")
	assert.Contains(t, p, "single, valid JSON object")
	assert.Contains(t, p, "No Markdown")
	assert.Contains(t, p, "Actionable Steps")
}

func TestGenerationUsesNicheOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Niche = model.NicheOther
	cfg.OtherNiche = "Urban beekeeping"

	for name, p := range map[string]string{
		"generation": Generation(cfg),
		"refinement": Refinement(cfg, testThread(), "make it shorter"),
		"hook":       Hook(cfg, model.HookCuriosity, testThread().HookVariations),
		"body":       Body(cfg, "hook", "cta", testThread().BodyPosts),
	} {
		assert.Contains(t, p, "Urban beekeeping", name)
		assert.NotContains(t, p, "Other", name)
	}
}

func TestGenerationLengthIsLiteral(t *testing.T) {
	cfg := testConfig()
	for length := model.MinLength; length <= model.MaxLength; length++ {
		cfg.Length = length
		assert.Contains(t, Generation(cfg), "exactly "+strconv.Itoa(length)+" posts")
	}
}

func TestNumberingDirective(t *testing.T) {
	cfg := testConfig()

	cfg.NumberingStyle = model.NumberingNone
	p := Generation(cfg)
	assert.Contains(t, p, "Do not add any numbering or prefixes")
	assert.NotRegexp(t, `(?m)^\s*\d+\.`, p)
	for _, style := range model.AllNumberingStyles {
		if style == model.NumberingNone {
			continue
		}
		assert.NotContains(t, p, `"`+string(style)+`"`)
	}

	cases := map[model.NumberingStyle]string{
		model.NumberingEmoji:   "\"1\uFE0F\u20E3\", \"2\uFE0F\u20E3\", \"3\uFE0F\u20E3\"",
		model.NumberingNumeric: `"1.", "2.", "3."`,
		model.NumberingArrow:   "\"\u27A1\uFE0F\", \"\u27A1\uFE0F\", \"\u27A1\uFE0F\"",
	}
	for style, want := range cases {
		cfg.NumberingStyle = style
		p := Generation(cfg)
		assert.Contains(t, p, want, string(style))
		assert.NotContains(t, p, "Do not add any numbering", string(style))
	}
}

func TestNumberingExamplesFollowLength(t *testing.T) {
	cfg := testConfig()
	cfg.Length = 2
	cfg.NumberingStyle = model.NumberingNumeric
	p := Generation(cfg)
	assert.Contains(t, p, `"1.", "2.", and so on`)
	assert.NotContains(t, p, `"3."`)
}

func TestToneSampleIsOptional(t *testing.T) {
	cfg := testConfig()
	assert.NotContains(t, Generation(cfg), "Tone & Voice")

	cfg.ToneSample = "dry, self-deprecating"
	assert.Contains(t, Generation(cfg), `Emulate this writing style: "dry, self-deprecating"`)
}

func TestAudienceAndStyleDescriptions(t *testing.T) {
	cfg := testConfig()
	cfg.Audience = model.AudienceBeginners
	cfg.Style = model.StyleStorytelling
	p := Generation(cfg)
	assert.Contains(t, p, "avoid jargon")
	assert.Contains(t, p, "crafting a narrative")
}

func TestRefinementEmbedsThreadAndInstruction(t *testing.T) {
	thread := testThread()
	p := Refinement(testConfig(), thread, "make the hooks spicier")

	assert.Contains(t, p, `"make the hooks spicier"`)
	assert.Contains(t, p, `"curiosity": "What if your IDE wrote half your code?"`)
	assert.Contains(t, p, `"bodyPosts": [`)
	assert.Contains(t, p, "unless the refinement request explicitly overrides them")
	assert.Contains(t, p, "under 280 characters")
	assert.Contains(t, p, "exactly 5 posts")
}

func TestHookScenario(t *testing.T) {
	hooks := testThread().HookVariations
	p := Hook(testConfig(), model.HookContrarian, hooks)

	for _, ht := range model.AllHookTypes {
		assert.Contains(t, p, `"`+hooks.Get(ht)+`"`)
	}
	assert.Contains(t, p, "- Type: contrarian\n")
	assert.Contains(t, p, "contrarian viewpoint")
	assert.NotContains(t, p, "- Type: curiosity")
	assert.Contains(t, p, "only the text of the new hook")
	assert.Contains(t, p, "Professional yet engaging.")
}

func TestBodyEmbedsContext(t *testing.T) {
	thread := testThread()
	p := Body(testConfig(), thread.HookVariations.Curiosity, thread.CTAVariations.Question, thread.BodyPosts)

	assert.Contains(t, p, `- Hook: "What if your IDE wrote half your code?"`)
	assert.Contains(t, p, `- Call to Action: "Which one do you use?"`)
	assert.Contains(t, p, `["First tool","Second tool","Third tool","Fourth tool","Fifth tool"]`)
	assert.Contains(t, p, "exactly 5 posts")
	assert.Contains(t, p, "only a 'bodyPosts' array")
}

func TestTrendingTopics(t *testing.T) {
	p := TrendingTopics("Finance")
	assert.Contains(t, p, `"Finance"`)
	assert.Contains(t, p, "exactly 5")
	assert.Contains(t, p, "Google Search")
	assert.Contains(t, p, "numbered list")
}

func TestImagePromptClauses(t *testing.T) {
	cfg := testConfig()
	cfg.Images.Branding = model.Branding{Enabled: true, Handle: "alice"}

	hook := HookImage(cfg, "Hook text", model.ImageTechy)
	assert.True(t, strings.HasPrefix(hook, imageStyleClauses[model.ImageTechy]+" "))
	assert.True(t, strings.HasSuffix(hook, qualityClause))
	assert.Equal(t, 1, strings.Count(hook, "@alice"))
	assert.NotContains(t, hook, "@@alice")
	assert.Contains(t, hook, `icon related to the niche: "Tech"`)
	assert.Contains(t, hook, "downward-pointing arrow")

	arrow := strings.Index(hook, "downward-pointing arrow")
	signature := strings.Index(hook, "signature")
	icon := strings.Index(hook, "icon related")
	text := strings.Index(hook, `"Hook text"`)
	assert.True(t, text < icon && icon < arrow && arrow < signature)

	body := BodyImage(cfg, "Body text", model.ImageMinimal)
	assert.Contains(t, body, "icon related to the niche")
	assert.NotContains(t, body, "arrow")

	topic := TopicImage(cfg)
	assert.NotContains(t, topic, "icon related")
	assert.NotContains(t, topic, "arrow")
	assert.Contains(t, topic, `"5 AI tools"`)
	assert.NotContains(t, topic, "  ")
}

func TestImagePromptWithoutBranding(t *testing.T) {
	cfg := testConfig()
	cfg.Images.Branding = model.Branding{Enabled: false, Handle: "alice"}
	for _, p := range []string{TopicImage(cfg), HookImage(cfg, "x", model.ImageBold), BodyImage(cfg, "y", model.ImageGradient)} {
		assert.NotContains(t, p, "signature")
		assert.NotContains(t, p, "alice")
		assert.NotContains(t, p, "  ")
	}

	cfg.Images.Branding = model.Branding{Enabled: true, Handle: "  "}
	assert.NotContains(t, HookImage(cfg, "x", model.ImageBold), "signature")
}

func TestTopicImageCustomMode(t *testing.T) {
	cfg := testConfig()
	cfg.Images.TopicImageMode = model.TopicImageCustom
	cfg.Images.CustomTopicPrompt = "A robot reading a newspaper"

	assert.Equal(t, "A robot reading a newspaper", TopicImage(cfg))

	cfg.Images.Branding = model.Branding{Enabled: true, Handle: "@bob"}
	assert.Equal(t, `A robot reading a newspaper A subtle, stylish, italic signature in the bottom-right corner reads: "@bob".`, TopicImage(cfg))

	cfg.Images.CustomTopicPrompt = ""
	assert.True(t, strings.HasPrefix(TopicImage(cfg), imageStyleClauses[model.ImageMinimal]))
}

func TestEveryImageStyleHasClause(t *testing.T) {
	cfg := testConfig()
	for _, style := range model.AllImageStyles {
		p := BodyImage(cfg, "text", style)
		assert.True(t, strings.HasPrefix(p, imageStyleClauses[style]), string(style))
	}
}

func TestCompilationIsDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.ToneSample = "calm"
	assert.Equal(t, Generation(cfg), Generation(cfg))
	assert.Equal(t, Refinement(cfg, testThread(), "x"), Refinement(cfg, testThread(), "x"))
}
