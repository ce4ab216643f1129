package compose

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanStripsThinkAndQuotes(t *testing.T) {
	assert.Equal(t, "Big news today", Clean(`<think>draft</think> "Big news today" `))
	assert.Equal(t, "it's fine", Clean("'it's fine'"))
	assert.Equal(t, "", Clean("<think>only thoughts</think>"))
}

func TestComposeAppendsLink(t *testing.T) {
	out, err := Compose("Breaking: patch now", "https://example.com/a", 280, true)
	require.NoError(t, err)
	assert.Equal(t, "Breaking: patch now\n\nhttps://example.com/a", out)
}

func TestComposeSkipsPlaceholderLink(t *testing.T) {
	out, err := Compose("Text", "No link available", 280, true)
	require.NoError(t, err)
	assert.Equal(t, "Text", out)

	out, err = Compose("Text", "https://example.com", 280, false)
	require.NoError(t, err)
	assert.Equal(t, "Text", out)
}

func TestComposeTrimsAtWordBoundary(t *testing.T) {
	link := "https://ex.com/x" // 16 runes, suffix is 18
	text := "alpha beta gamma delta epsilon zeta"
	out, err := Compose(text, link, 40, true)
	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), 40)
	assert.True(t, strings.HasSuffix(out, "\n\n"+link))
	body := strings.TrimSuffix(out, "\n\n"+link)
	assert.Equal(t, "alpha beta gamma…", body)
}

func TestComposeCountsRunes(t *testing.T) {
	text := strings.Repeat("🔥", 10)
	out, err := Compose(text, "", 10, true)
	require.NoError(t, err)
	assert.Equal(t, text, out)

	out, err = Compose(text, "", 5, true)
	require.NoError(t, err)
	assert.Equal(t, 5, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "🔥🔥🔥🔥…", out)
}

func TestComposeDropsLinkThatCannotFit(t *testing.T) {
	out, err := Compose("short text", "https://example.com/very/long/path", 20, true)
	require.NoError(t, err)
	assert.Equal(t, "short text", out)
}

func TestComposeEmpty(t *testing.T) {
	_, err := Compose("  \"\" ", "https://example.com", 280, true)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestComposeNoLimit(t *testing.T) {
	long := strings.Repeat("word ", 100)
	out, err := Compose(long, "", 0, false)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(long), out)
}

func TestIsLink(t *testing.T) {
	assert.True(t, IsLink("https://example.com/a?b=c"))
	assert.True(t, IsLink("http://example.com"))
	assert.False(t, IsLink("No link available"))
	assert.False(t, IsLink("ftp://example.com"))
	assert.False(t, IsLink("/relative"))
	assert.False(t, IsLink(""))
}
