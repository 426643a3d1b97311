package contract

import (
	"fmt"
	"unicode/utf8"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

// Advisory kinds.
const (
	AdvisoryOverLength  = "over_length"
	AdvisoryBodyCount   = "body_count"
	AdvisoryHashtagSize = "hashtag_count"
)

// Advisory is a rule the generator was asked to follow but broke. Advisories
// are reported, never enforced.
type Advisory struct {
	Kind   string
	Detail string
}

// Review lists the advisories for a parsed thread against the expected body
// length.
func Review(t *model.Thread, wantLength int) []Advisory {
	var out []Advisory
	check := func(field, text string) {
		if n := utf8.RuneCountInString(text); n > model.MaxPostChars {
			out = append(out, Advisory{Kind: AdvisoryOverLength, Detail: fmt.Sprintf("%s has %d characters", field, n)})
		}
	}
	for _, ht := range model.AllHookTypes {
		check("hook "+string(ht), t.HookVariations.Get(ht))
	}
	out = append(out, ReviewBody(t.BodyPosts, wantLength)...)
	for _, ct := range model.AllCTATypes {
		check("cta "+string(ct), t.CTAVariations.Get(ct))
	}
	if n := len(t.Hashtags); n < 3 || n > 5 {
		out = append(out, Advisory{Kind: AdvisoryHashtagSize, Detail: fmt.Sprintf("%d hashtags", n)})
	}
	return out
}

// ReviewBody lists the advisories for a body against the expected length.
func ReviewBody(posts []string, wantLength int) []Advisory {
	var out []Advisory
	if len(posts) != wantLength {
		out = append(out, Advisory{Kind: AdvisoryBodyCount, Detail: fmt.Sprintf("got %d body posts, want %d", len(posts), wantLength)})
	}
	for i, post := range posts {
		if n := utf8.RuneCountInString(post); n > model.MaxPostChars {
			out = append(out, Advisory{Kind: AdvisoryOverLength, Detail: fmt.Sprintf("body post %d has %d characters", i+1, n)})
		}
	}
	return out
}
