package prompt

import (
	"fmt"
	"strings"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

// Hook compiles the instruction for regenerating a single hook variant. The
// reply is expected as plain text.
func Hook(cfg model.Configuration, hookType model.HookType, existing model.HookVariations) string {
	var sb strings.Builder
	sb.WriteString("You are ThreadSmith, an expert social media content strategist.\n")
	sb.WriteString("Your task is to regenerate a single hook for a thread.\n\n")
	writeRules(&sb, []string{
		fmt.Sprintf("Character Limit: The hook MUST be under %d characters.", model.MaxPostChars),
		"Plain Text Output: Your output MUST be only the text of the new hook. Do not include JSON, markdown, or any explanations.",
		"Be Different: The new hook must be substantially different from the existing ones provided below.",
	})

	fmt.Fprintf(&sb, "\nTopic: \"%s\"\n", cfg.Topic)
	fmt.Fprintf(&sb, "Niche: \"%s\"\n", cfg.ResolvedNiche())
	fmt.Fprintf(&sb, "Audience: \"%s\"\n", cfg.Audience)
	if tone := strings.TrimSpace(cfg.ToneSample); tone != "" {
		fmt.Fprintf(&sb, "Tone & Voice: Emulate this style: \"%s\"\n", tone)
	} else {
		sb.WriteString("Tone & Voice: Professional yet engaging.\n")
	}

	sb.WriteString("\nExisting Hooks (for reference, do not repeat):\n")
	for _, t := range model.AllHookTypes {
		fmt.Fprintf(&sb, "- %s: \"%s\"\n", t, existing.Get(t))
	}

	sb.WriteString("\nRegenerate this specific hook type:\n")
	fmt.Fprintf(&sb, "- Type: %s\n", hookType)
	fmt.Fprintf(&sb, "- Description: %s\n", hookDescriptions[hookType])
	sb.WriteString("\nGenerate only the new hook text now.\n")
	return sb.String()
}

// Body compiles the instruction for regenerating the body posts between an
// unchanged hook and call to action.
func Body(cfg model.Configuration, hook, cta string, currentBody []string) string {
	var sb strings.Builder
	sb.WriteString("You are ThreadSmith, an AI assistant regenerating the body of an existing social media thread.\n\n")
	sb.WriteString("Context:\n")
	fmt.Fprintf(&sb, "- Hook: \"%s\"\n", hook)
	fmt.Fprintf(&sb, "- Original Body Posts (Do NOT repeat these): %s\n", serializeBody(currentBody))
	fmt.Fprintf(&sb, "- Call to Action: \"%s\"\n", cta)

	sb.WriteString("\nUser Specifications:\n")
	writeSpecifications(&sb, cfg)

	sb.WriteString("\nYour Task:\n")
	sb.WriteString("Generate a completely new set of body posts for the thread. ")
	sb.WriteString("The new posts must be substantially different from the original ones but still logically connect the hook to the call to action.\n\n")
	writeRules(&sb, []string{
		fmt.Sprintf("Character Limit: EACH individual body post MUST be under %d characters.", model.MaxPostChars),
		"JSON Output: Your entire output MUST be a single, valid JSON object containing only a 'bodyPosts' array.",
		noMarkupRule,
		actionableStepsRule,
	})
	sb.WriteString("\nGenerate the new thread body posts now.\n")
	return sb.String()
}

// TrendingTopics compiles the live-search query for topic suggestions.
func TrendingTopics(niche string) string {
	return fmt.Sprintf("Using Google Search, find exactly 5 current, viral, or highly debated trending topics in the \"%s\" niche. "+
		"These topics should be perfect for creating a social media thread. "+
		"Present them as a numbered list of concise, engaging titles. "+
		"Do not include any other text, titles, or explanations before or after the list.", niche)
}

func serializeBody(posts []string) string {
	if posts == nil {
		posts = []string{}
	}
	return encodeJSON(posts, "")
}
