package htmltree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectorClassMatch(t *testing.T) {
	root := Parse(`<div class="important">1</div><span class="foo important">2</span><p class="bar baz important">3</p>`)

	sel, err := Compile(".important")
	require.NoError(t, err)

	matches := sel.Select(root)
	require.Len(t, matches, 3)

	var texts []string
	for _, m := range matches {
		texts = append(texts, m.Text())
	}
	require.Equal(t, []string{"1", "2", "3"}, texts)
}

func TestSelectorTagAndID(t *testing.T) {
	root := Parse(`<div id="main"><p id="main">nope</p></div>`)

	sel, err := Compile("div#main")
	require.NoError(t, err)

	matches := sel.Select(root)
	require.Len(t, matches, 1)
	require.Equal(t, "div", matches[0].Tag())
}

func TestSelectorChildCombinator(t *testing.T) {
	root := Parse(`<div><p>direct</p><span><p>nested</p></span></div>`)

	sel, err := Compile("div > p")
	require.NoError(t, err)

	matches := sel.Select(root)
	require.Len(t, matches, 1)
	require.Equal(t, "direct", matches[0].Text())
}

func TestSelectorDescendantCombinator(t *testing.T) {
	root := Parse(`<div><span><p>nested</p></span></div>`)

	sel, err := Compile("div p")
	require.NoError(t, err)

	matches := sel.Select(root)
	require.Len(t, matches, 1)
	require.Equal(t, "nested", matches[0].Text())
}

func TestSelectorContains(t *testing.T) {
	root := Parse(`<li>apple</li><li>banana</li>`)

	sel, err := Compile(`li:contains("ban")`)
	require.NoError(t, err)

	matches := sel.Select(root)
	require.Len(t, matches, 1)
	require.Equal(t, "banana", matches[0].Text())
}

func TestSelectorWildcard(t *testing.T) {
	root := Parse(`<div><p>a</p><span>b</span></div>`)

	sel, err := Compile("*")
	require.NoError(t, err)

	matches := sel.Select(root)
	require.GreaterOrEqual(t, len(matches), 3)
}

func TestSelectorInvalid(t *testing.T) {
	_, err := Compile("..bad")
	require.ErrorIs(t, err, ErrInvalidSelector)

	_, err = Compile("")
	require.ErrorIs(t, err, ErrInvalidSelector)
}
