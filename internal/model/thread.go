package model

// MaxPostChars is the length limit the generator is asked to respect for
// every hook, body post and CTA.
const MaxPostChars = 280

// HookType names one of the four hook variants.
type HookType string

const (
	HookCuriosity  HookType = "curiosity"
	HookListicle   HookType = "listicle"
	HookEmotional  HookType = "emotional"
	HookContrarian HookType = "contrarian"
)

// AllHookTypes lists the hook variants in display order.
var AllHookTypes = []HookType{HookCuriosity, HookListicle, HookEmotional, HookContrarian}

// ValidHookType reports whether t names a hook variant.
func ValidHookType(t HookType) bool {
	return contains(AllHookTypes, t)
}

// CTAType names one of the three call-to-action variants.
type CTAType string

const (
	CTAQuestion    CTAType = "question"
	CTARecap       CTAType = "recap"
	CTAPromotional CTAType = "promotional"
)

// AllCTATypes lists the CTA variants in display order.
var AllCTATypes = []CTAType{CTAQuestion, CTARecap, CTAPromotional}

// ValidCTAType reports whether t names a CTA variant.
func ValidCTAType(t CTAType) bool {
	return contains(AllCTATypes, t)
}

// HookVariations holds the four interchangeable opening posts.
type HookVariations struct {
	Curiosity  string `json:"curiosity"`
	Listicle   string `json:"listicle"`
	Emotional  string `json:"emotional"`
	Contrarian string `json:"contrarian"`
}

// Get returns the hook text for t.
func (h HookVariations) Get(t HookType) string {
	switch t {
	case HookCuriosity:
		return h.Curiosity
	case HookListicle:
		return h.Listicle
	case HookEmotional:
		return h.Emotional
	case HookContrarian:
		return h.Contrarian
	}
	return ""
}

// With returns a copy of h with the variant t replaced by text.
func (h HookVariations) With(t HookType, text string) HookVariations {
	switch t {
	case HookCuriosity:
		h.Curiosity = text
	case HookListicle:
		h.Listicle = text
	case HookEmotional:
		h.Emotional = text
	case HookContrarian:
		h.Contrarian = text
	}
	return h
}

// CTAVariations holds the three interchangeable closing posts.
type CTAVariations struct {
	Question    string `json:"question"`
	Recap       string `json:"recap"`
	Promotional string `json:"promotional"`
}

// Get returns the CTA text for t.
func (c CTAVariations) Get(t CTAType) string {
	switch t {
	case CTAQuestion:
		return c.Question
	case CTARecap:
		return c.Recap
	case CTAPromotional:
		return c.Promotional
	}
	return ""
}

// Thread is the generated multi-post artifact. The JSON field names are the
// ones the generator is asked to produce.
type Thread struct {
	HookVariations HookVariations `json:"hookVariations"`
	BodyPosts      []string       `json:"bodyPosts"`
	CTAVariations  CTAVariations  `json:"ctaVariations"`
	Hashtags       []string       `json:"hashtags"`
}

// Clone returns a deep copy of the thread.
func (t *Thread) Clone() *Thread {
	if t == nil {
		return nil
	}
	out := *t
	out.BodyPosts = append([]string(nil), t.BodyPosts...)
	out.Hashtags = append([]string(nil), t.Hashtags...)
	return &out
}
