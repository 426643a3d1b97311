package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

const persona = "You are ThreadSmith, an expert social media content strategist specializing in creating viral threads for platforms like Twitter/X."

// Generation compiles the instruction for a full thread generation.
func Generation(cfg model.Configuration) string {
	var sb strings.Builder
	sb.WriteString(persona + "\n")
	sb.WriteString("Your task is to generate a content thread based on the user's specifications.\n\n")
	writeRules(&sb, threadRules)
	sb.WriteString("\nUser Specifications:\n")
	writeSpecifications(&sb, cfg)
	sb.WriteString("\nGenerate the complete thread now.\n")
	return sb.String()
}

// Refinement compiles the instruction for rewriting an existing thread
// according to a free-text user request.
func Refinement(cfg model.Configuration, current model.Thread, instruction string) string {
	var sb strings.Builder
	sb.WriteString("You are ThreadSmith, an AI assistant refining an existing social media thread.\n\n")
	sb.WriteString("Original Thread:\n")
	sb.WriteString(serializeThread(current))
	sb.WriteString("\n\nOriginal User Specifications:\n")
	writeSpecifications(&sb, cfg)
	fmt.Fprintf(&sb, "\nUser's Refinement Request:\n\"%s\"\n\n", instruction)
	sb.WriteString("Your Task:\n")
	sb.WriteString("Regenerate the entire thread based on the refinement request. ")
	sb.WriteString("You MUST adhere to all original specifications unless the refinement request explicitly overrides them.\n\n")
	writeRules(&sb, threadRules)
	sb.WriteString("\nGenerate the refined thread now.\n")
	return sb.String()
}

var threadRules = []string{
	fmt.Sprintf("Character Limit: EACH individual post (hook, body post, CTA) MUST be under %d characters. This is non-negotiable.", model.MaxPostChars),
	"JSON Output: Your entire output MUST be a single, valid JSON object that strictly adheres to the provided schema. Do not include any text, explanations, or markdown formatting outside of the JSON object.",
	noMarkupRule,
	actionableStepsRule,
}

const (
	noMarkupRule        = "No Markdown: Do not use any markdown formatting (such as **, __ or #) within the post content strings."
	actionableStepsRule = "Actionable Steps: If the topic is a 'how-to', a guide, or involves giving instructions, you MUST provide clear, concrete, literal steps the reader can execute. " +
		`For example, instead of just "Open Task Manager", write "Press Ctrl + Shift + Esc to open Task Manager." ` +
		"Break complex tasks into simple steps, ideally one major step per body post."
)

func writeRules(sb *strings.Builder, rules []string) {
	sb.WriteString("CRITICAL RULES:\n")
	for _, rule := range rules {
		fmt.Fprintf(sb, "- %s\n", rule)
	}
}

// writeSpecifications writes the directives shared by generation, refinement
// and body regeneration.
func writeSpecifications(sb *strings.Builder, cfg model.Configuration) {
	fmt.Fprintf(sb, "- Topic: \"%s\"\n", cfg.Topic)
	fmt.Fprintf(sb, "- Niche: \"%s\"\n", cfg.ResolvedNiche())
	fmt.Fprintf(sb, "- Audience: \"%s\". %s\n", cfg.Audience, audienceDescriptions[cfg.Audience])
	fmt.Fprintf(sb, "- Style: \"%s\". %s\n", cfg.Style, styleDescriptions[cfg.Style])
	fmt.Fprintf(sb, "- Thread Length: The body must have exactly %d posts.\n", cfg.Length)
	fmt.Fprintf(sb, "- Emoji Frequency: \"%s\". %s\n", cfg.EmojiFrequency, emojiDirectives[cfg.EmojiFrequency])
	fmt.Fprintf(sb, "- Numbering Style: %s\n", numberingDirective(cfg.NumberingStyle, cfg.Length))
	if tone := strings.TrimSpace(cfg.ToneSample); tone != "" {
		fmt.Fprintf(sb, "- Tone & Voice: Emulate this writing style: \"%s\"\n", tone)
	}
}

func numberingDirective(style model.NumberingStyle, length int) string {
	prefix, ok := numberingPrefixes[style]
	if style == model.NumberingNone || !ok {
		return "Do not add any numbering or prefixes to the start of each body post."
	}
	n := min(length, 3)
	examples := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		examples = append(examples, `"`+prefix(i)+`"`)
	}
	return fmt.Sprintf("Start each body post with the \"%s\" prefix sequence: %s, and so on.", string(style), strings.Join(examples, ", "))
}

func serializeThread(t model.Thread) string {
	return encodeJSON(t, "  ")
}

// encodeJSON renders v without HTML escaping so post text reaches the model
// exactly as written.
func encodeJSON(v any, indent string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimRight(buf.String(), "\n")
}
