package prompt

import (
	"fmt"
	"strings"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

const qualityClause = "Ensure zero spelling errors. High quality."

// imageClauses selects the optional parts of a post image prompt.
type imageClauses struct {
	nicheIcon     bool
	downwardArrow bool
}

// TopicImage compiles the prompt for the thread's topic image. In custom mode
// the user's prompt is used verbatim with only the signature appended.
func TopicImage(cfg model.Configuration) string {
	if cfg.UsesCustomTopicImage() {
		custom := cfg.Images.CustomTopicPrompt
		if branding := brandingClause(cfg.Images.Branding); branding != "" {
			custom += " " + branding
		}
		return custom
	}
	return postImage(cfg.Topic, cfg.Images.TopicImageStyle, "", cfg.Images.Branding, imageClauses{})
}

// HookImage compiles the prompt for an image rendering hookText.
func HookImage(cfg model.Configuration, hookText string, style model.ImageStyle) string {
	return postImage(hookText, style, cfg.ResolvedNiche(), cfg.Images.Branding, imageClauses{nicheIcon: true, downwardArrow: true})
}

// BodyImage compiles the prompt for an image rendering a body post.
func BodyImage(cfg model.Configuration, postText string, style model.ImageStyle) string {
	return postImage(postText, style, cfg.ResolvedNiche(), cfg.Images.Branding, imageClauses{nicheIcon: true})
}

// postImage joins the non-empty clauses in a fixed order: style, text, niche
// icon, arrow, signature, quality.
func postImage(text string, style model.ImageStyle, niche string, branding model.Branding, opts imageClauses) string {
	clauses := []string{
		imageStyleClauses[style],
		fmt.Sprintf("The image features the centered text: \"%s\". The typography is the main focus, extremely large, bold, and well-designed.", text),
	}
	if opts.nicheIcon && niche != "" {
		clauses = append(clauses, fmt.Sprintf("Includes a small, subtle, stylish icon related to the niche: \"%s\".", niche))
	}
	if opts.downwardArrow {
		clauses = append(clauses, "A large, stylish downward-pointing arrow icon (↓) is at the bottom.")
	}
	clauses = append(clauses, brandingClause(branding), qualityClause)

	out := clauses[:0]
	for _, c := range clauses {
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}

func brandingClause(b model.Branding) string {
	if !b.Active() {
		return ""
	}
	return fmt.Sprintf("A subtle, stylish, italic signature in the bottom-right corner reads: \"%s\".", b.NormalizedHandle())
}
