package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsN(n int) []HistoryItem {
	items := make([]HistoryItem, n)
	for i := range items {
		items[i] = HistoryItem{ID: fmt.Sprintf("item-%d", i)}
	}
	return items
}

func TestPrependHistoryEvictsOldest(t *testing.T) {
	full := itemsN(HistoryLimit)

	got := PrependHistory(full, HistoryItem{ID: "new"}, HistoryLimit)
	require.Len(t, got, HistoryLimit)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "item-0", got[1].ID)
	assert.Equal(t, fmt.Sprintf("item-%d", HistoryLimit-2), got[HistoryLimit-1].ID)

	assert.Equal(t, "item-0", full[0].ID, "input must not be modified")
}

func TestRemoveHistory(t *testing.T) {
	items := itemsN(3)

	got, found := RemoveHistory(items, "item-1")
	assert.True(t, found)
	assert.Equal(t, []HistoryItem{{ID: "item-0"}, {ID: "item-2"}}, got)

	got, found = RemoveHistory(items, "missing")
	assert.False(t, found)
	assert.Equal(t, items, got)
}

func TestNormalizedHandle(t *testing.T) {
	assert.Equal(t, "@alice", Branding{Handle: "alice"}.NormalizedHandle())
	assert.Equal(t, "@alice", Branding{Handle: " @alice "}.NormalizedHandle())
	assert.Equal(t, "", Branding{Handle: "  "}.NormalizedHandle())

	assert.False(t, Branding{Enabled: true}.Active())
	assert.False(t, Branding{Handle: "alice"}.Active())
	assert.True(t, Branding{Enabled: true, Handle: "alice"}.Active())
}

func TestResolvedNiche(t *testing.T) {
	cfg := DefaultConfiguration()
	assert.Equal(t, string(NicheTech), cfg.ResolvedNiche())

	cfg.Niche = NicheOther
	assert.Equal(t, string(NicheOther), cfg.ResolvedNiche())

	cfg.OtherNiche = " Urban beekeeping "
	assert.Equal(t, "Urban beekeeping", cfg.ResolvedNiche())

	cfg.Niche = NicheFinance
	assert.Equal(t, string(NicheFinance), cfg.ResolvedNiche())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfiguration()
	cfg.Topic = "Sourdough"
	require.NoError(t, cfg.Validate())

	bad := []func(c *Configuration){
		func(c *Configuration) { c.Topic = " " },
		func(c *Configuration) { c.Length = MinLength - 1 },
		func(c *Configuration) { c.Length = MaxLength + 1 },
		func(c *Configuration) { c.Style = "Loud" },
		func(c *Configuration) { c.NumberingStyle = "#" },
		func(c *Configuration) { c.Images.PostImageStyle = "Sepia" },
		func(c *Configuration) { c.Images.TopicImageMode = "random" },
	}
	for i, mutate := range bad {
		c := cfg
		mutate(&c)
		err := c.Validate()
		assert.True(t, errors.Is(err, ErrInvalidConfiguration), "case %d: %v", i, err)
	}
}

func TestThreadClone(t *testing.T) {
	orig := &Thread{BodyPosts: []string{"a"}, Hashtags: []string{"#a"}}
	c := orig.Clone()
	c.BodyPosts[0] = "b"
	c.Hashtags[0] = "#b"
	assert.Equal(t, "a", orig.BodyPosts[0])
	assert.Equal(t, "#a", orig.Hashtags[0])

	var none *Thread
	assert.Nil(t, none.Clone())
}

func TestHookVariationsWith(t *testing.T) {
	h := HookVariations{Curiosity: "c", Contrarian: "x"}
	updated := h.With(HookContrarian, "new")
	assert.Equal(t, "new", updated.Get(HookContrarian))
	assert.Equal(t, "c", updated.Get(HookCuriosity))
	assert.Equal(t, "x", h.Contrarian)
}
