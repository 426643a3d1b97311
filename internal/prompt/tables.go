// Package prompt compiles generation requests into natural-language
// instructions. Every function is pure: the same inputs yield the same text.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

var styleDescriptions = map[model.Style]string{
	model.StylePunchy:       "This means short, concise, and highly skim-able sentences.",
	model.StyleDetailed:     "This means more explanatory, step-by-step, and in-depth content.",
	model.StyleStorytelling: "This means crafting a narrative, telling a story to engage the reader emotionally.",
	model.StyleHumorous:     "This means using wit, jokes, and a lighthearted tone to entertain.",
	model.StyleProfessional: "This means using a formal, objective, and authoritative tone suitable for a corporate or academic audience.",
}

var audienceDescriptions = map[model.Audience]string{
	model.AudienceBeginners: "The content should be simple, easy-to-understand, and avoid jargon. Explain concepts from the ground up.",
	model.AudiencePros:      "The content should be advanced, technical, and provide deep insights. Assume the audience is already knowledgeable on the topic.",
	model.AudienceGeneral:   "The content should be accessible and engaging for a broad audience with varying levels of knowledge. Strike a balance between simplicity and depth.",
}

var emojiDirectives = map[model.EmojiFrequency]string{
	model.EmojiNone: "Do not use any emojis.",
	model.EmojiFew:  "Use emojis sparingly, at most one or two per post.",
	model.EmojiMany: "Use emojis generously to add energy to every post.",
}

var hookDescriptions = map[model.HookType]string{
	model.HookCuriosity:  "A hook that piques curiosity.",
	model.HookListicle:   "A hook formatted as a listicle teaser.",
	model.HookEmotional:  "A hook that connects on an emotional level.",
	model.HookContrarian: "A hook that presents a contrarian viewpoint.",
}

var imageStyleClauses = map[model.ImageStyle]string{
	model.ImageMinimal:      "An elegant, minimalist graphic with a subtle gradient background.",
	model.ImageTechy:        "A sleek, futuristic graphic with glowing neon accents on a dark background.",
	model.ImageCasual:       "A friendly graphic with a bright, vibrant solid color background.",
	model.ImageProfessional: "A clean, authoritative graphic with a corporate color palette (e.g., blues, grays).",
	model.ImageBold:         "A maximum attention-grabbing graphic with high-contrast colors (like black, yellow, red).",
	model.ImageDarkMode:     "A sleek dark mode graphic with a charcoal background and crisp neon or white text.",
	model.ImageNotebook:     "A casual graphic resembling a page from a notebook with a textured paper background and a handwritten or typewriter font.",
	model.ImageInfographic:  "An educational, infographic-style graphic with clean icons and a structured layout.",
	model.ImageGradient:     "A modern, aesthetic graphic with a beautiful pastel or vibrant gradient background.",
}

// numberingPrefixes returns the prefix of the n-th body post (1-based).
var numberingPrefixes = map[model.NumberingStyle]func(n int) string{
	model.NumberingEmoji:   keycap,
	model.NumberingNumeric: func(n int) string { return fmt.Sprintf("%d.", n) },
	model.NumberingArrow:   func(int) string { return string(model.NumberingArrow) },
}

func keycap(n int) string {
	if n == 10 {
		return "\U0001F51F"
	}
	var sb strings.Builder
	for _, d := range fmt.Sprint(n) {
		sb.WriteRune(d)
		sb.WriteString("\uFE0F\u20E3")
	}
	return sb.String()
}

// CheckTables verifies that every enum value has an entry in the lookup
// tables. It is run at startup so a new variant without text is caught.
func CheckTables() error {
	var errs []error
	for _, s := range model.AllStyles {
		if styleDescriptions[s] == "" {
			errs = append(errs, fmt.Errorf("style %q has no description", s))
		}
	}
	for _, a := range model.AllAudiences {
		if audienceDescriptions[a] == "" {
			errs = append(errs, fmt.Errorf("audience %q has no description", a))
		}
	}
	for _, e := range model.AllEmojiFrequencies {
		if emojiDirectives[e] == "" {
			errs = append(errs, fmt.Errorf("emoji frequency %q has no directive", e))
		}
	}
	for _, h := range model.AllHookTypes {
		if hookDescriptions[h] == "" {
			errs = append(errs, fmt.Errorf("hook type %q has no description", h))
		}
	}
	for _, s := range model.AllImageStyles {
		if imageStyleClauses[s] == "" {
			errs = append(errs, fmt.Errorf("image style %q has no clause", s))
		}
	}
	for _, n := range model.AllNumberingStyles {
		if n == model.NumberingNone {
			continue
		}
		if numberingPrefixes[n] == nil || numberingPrefixes[n](1) != string(n) {
			errs = append(errs, fmt.Errorf("numbering style %q has no matching prefix sequence", n))
		}
	}
	return errors.Join(errs...)
}
