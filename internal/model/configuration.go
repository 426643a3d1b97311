// Package model defines the data structures shared by the thread generator.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Length bounds for the thread body.
const (
	MinLength = 2
	MaxLength = 15
)

// ErrInvalidConfiguration is returned when a submitted configuration cannot be used.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Style is the writing style of the thread.
type Style string

const (
	StylePunchy       Style = "Punchy"
	StyleDetailed     Style = "Detailed"
	StyleStorytelling Style = "Storytelling"
	StyleHumorous     Style = "Humorous"
	StyleProfessional Style = "Professional"
)

// AllStyles lists every Style in display order.
var AllStyles = []Style{StylePunchy, StyleDetailed, StyleStorytelling, StyleHumorous, StyleProfessional}

// Niche is the topical domain of the thread.
type Niche string

const (
	NicheTech      Niche = "Tech"
	NicheFinance   Niche = "Finance"
	NicheFitness   Niche = "Fitness"
	NicheEducation Niche = "Education"
	NicheMarketing Niche = "Marketing"
	NicheLifestyle Niche = "Lifestyle"
	NicheOther     Niche = "Other"
)

// AllNiches lists every Niche in display order.
var AllNiches = []Niche{NicheTech, NicheFinance, NicheFitness, NicheEducation, NicheMarketing, NicheLifestyle, NicheOther}

// Audience is the intended reader of the thread.
type Audience string

const (
	AudienceBeginners Audience = "Beginners"
	AudiencePros      Audience = "Pros"
	AudienceGeneral   Audience = "General Audience"
)

// AllAudiences lists every Audience in display order.
var AllAudiences = []Audience{AudienceBeginners, AudiencePros, AudienceGeneral}

// EmojiFrequency controls how many emojis the posts carry.
type EmojiFrequency string

const (
	EmojiNone EmojiFrequency = "None"
	EmojiFew  EmojiFrequency = "Few"
	EmojiMany EmojiFrequency = "Many"
)

// AllEmojiFrequencies lists every EmojiFrequency in display order.
var AllEmojiFrequencies = []EmojiFrequency{EmojiNone, EmojiFew, EmojiMany}

// NumberingStyle is the prefix placed in front of each body post. The value is
// the literal prefix of the first post.
type NumberingStyle string

const (
	NumberingNone    NumberingStyle = "None"
	NumberingEmoji   NumberingStyle = "1\uFE0F\u20E3"
	NumberingNumeric NumberingStyle = "1."
	NumberingArrow   NumberingStyle = "\u27A1\uFE0F"
)

// AllNumberingStyles lists every NumberingStyle in display order.
var AllNumberingStyles = []NumberingStyle{NumberingNone, NumberingEmoji, NumberingNumeric, NumberingArrow}

// ImageStyle is the visual style of a generated post image.
type ImageStyle string

const (
	ImageMinimal      ImageStyle = "Minimal"
	ImageTechy        ImageStyle = "Techy"
	ImageCasual       ImageStyle = "Casual"
	ImageProfessional ImageStyle = "Professional"
	ImageBold         ImageStyle = "Bold / Viral"
	ImageDarkMode     ImageStyle = "Dark Mode"
	ImageNotebook     ImageStyle = "Notebook / Handwritten"
	ImageInfographic  ImageStyle = "Infographic"
	ImageGradient     ImageStyle = "Gradient / Aesthetic"
)

// AllImageStyles lists every ImageStyle in display order.
var AllImageStyles = []ImageStyle{
	ImageMinimal, ImageTechy, ImageCasual, ImageProfessional, ImageBold,
	ImageDarkMode, ImageNotebook, ImageInfographic, ImageGradient,
}

// TopicImageMode selects how the topic image prompt is built.
type TopicImageMode string

const (
	TopicImageStyle  TopicImageMode = "style"
	TopicImageCustom TopicImageMode = "custom"
)

// Branding adds a signature with the user's handle to generated images.
type Branding struct {
	Enabled bool   `json:"enabled"`
	Handle  string `json:"handle"`
}

// NormalizedHandle returns the handle trimmed and prefixed with "@", or "" when
// no handle was given.
func (b Branding) NormalizedHandle() string {
	handle := strings.TrimSpace(b.Handle)
	if handle == "" {
		return ""
	}
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	return handle
}

// Active reports whether a signature should be rendered.
func (b Branding) Active() bool {
	return b.Enabled && b.NormalizedHandle() != ""
}

// ImageOptions configures the images generated alongside a thread.
type ImageOptions struct {
	GenerateTopicImage bool           `json:"generate_topic_image"`
	TopicImageMode     TopicImageMode `json:"topic_image_mode"`
	TopicImageStyle    ImageStyle     `json:"topic_image_style"`
	CustomTopicPrompt  string         `json:"custom_topic_prompt,omitempty"`
	GenerateHookImage  bool           `json:"generate_hook_image"`
	GenerateBodyImages bool           `json:"generate_body_images"`
	PostImageStyle     ImageStyle     `json:"post_image_style"`
	Branding           Branding       `json:"branding"`
}

// Configuration is the snapshot of user choices for one generation request.
type Configuration struct {
	Topic          string         `json:"topic"`
	Niche          Niche          `json:"niche"`
	OtherNiche     string         `json:"other_niche,omitempty"`
	Style          Style          `json:"style"`
	Audience       Audience       `json:"audience"`
	Length         int            `json:"length"`
	EmojiFrequency EmojiFrequency `json:"emoji_frequency"`
	NumberingStyle NumberingStyle `json:"numbering_style"`
	ToneSample     string         `json:"tone_sample,omitempty"`
	Images         ImageOptions   `json:"images"`
}

// DefaultConfiguration returns the configuration a new session starts with.
func DefaultConfiguration() Configuration {
	return Configuration{
		Niche:          NicheTech,
		Style:          StylePunchy,
		Audience:       AudienceGeneral,
		Length:         5,
		EmojiFrequency: EmojiFew,
		NumberingStyle: NumberingEmoji,
		Images: ImageOptions{
			TopicImageMode:  TopicImageStyle,
			TopicImageStyle: ImageMinimal,
			PostImageStyle:  ImageMinimal,
		},
	}
}

// ResolvedNiche returns the niche name used in prompts: the override text when
// the niche is Other and an override was given.
func (c Configuration) ResolvedNiche() string {
	if c.Niche == NicheOther {
		if other := strings.TrimSpace(c.OtherNiche); other != "" {
			return other
		}
	}
	return string(c.Niche)
}

// UsesCustomTopicImage reports whether the topic image is built from the
// user's own prompt.
func (c Configuration) UsesCustomTopicImage() bool {
	return c.Images.TopicImageMode == TopicImageCustom && strings.TrimSpace(c.Images.CustomTopicPrompt) != ""
}

// Validate checks that every enum holds a known value and the length is in range.
func (c Configuration) Validate() error {
	if strings.TrimSpace(c.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidConfiguration)
	}
	if c.Length < MinLength || c.Length > MaxLength {
		return fmt.Errorf("%w: length must be between %d and %d", ErrInvalidConfiguration, MinLength, MaxLength)
	}
	checks := []struct {
		name string
		ok   bool
	}{
		{"niche", contains(AllNiches, c.Niche)},
		{"style", contains(AllStyles, c.Style)},
		{"audience", contains(AllAudiences, c.Audience)},
		{"emoji_frequency", contains(AllEmojiFrequencies, c.EmojiFrequency)},
		{"numbering_style", contains(AllNumberingStyles, c.NumberingStyle)},
		{"topic_image_style", contains(AllImageStyles, c.Images.TopicImageStyle)},
		{"post_image_style", contains(AllImageStyles, c.Images.PostImageStyle)},
		{"topic_image_mode", c.Images.TopicImageMode == TopicImageStyle || c.Images.TopicImageMode == TopicImageCustom},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: unknown %s", ErrInvalidConfiguration, check.name)
		}
	}
	return nil
}

// ValidImageStyle reports whether s is a known image style.
func ValidImageStyle(s ImageStyle) bool {
	return contains(AllImageStyles, s)
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
