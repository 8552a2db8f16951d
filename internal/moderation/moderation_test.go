package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexiconModerator(t *testing.T) {
	m := NewLexiconModerator("scrap", "junk")

	assert.True(t, m.Acceptable("a perfectly fine description of fresh produce"))
	assert.False(t, m.Acceptable("selling scrap metal"))
	assert.False(t, m.Acceptable("SCRAP, in caps and punctuated"))
	assert.True(t, m.Acceptable("a lovely scrapbook for sale"))
	assert.True(t, m.Acceptable(""))
}

func TestLexiconModeratorDefaults(t *testing.T) {
	m := NewLexiconModerator()

	assert.False(t, m.Acceptable("genuine, definitely not counterfeit handbags"))
	assert.True(t, m.Acceptable("organic kale straight from the garden"))
}

func TestAllowAll(t *testing.T) {
	assert.True(t, AllowAll{}.Acceptable("anything at all"))
}
