package htmltree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMisnestedFormatting(t *testing.T) {
	root := Parse(`<b>a<i>b</b>c</i>`)
	require.Equal(t, "html", root.Tag())
	require.Equal(t, "<b>a<i>b</i></b><i>c</i>", root.InnerHTML())
}

func TestParseMisnestedAcrossBlock(t *testing.T) {
	root := Parse(`<b>a<div>b<i>c<div>d</b>e</div>f</i>`)
	want := "<b>a</b><div><b>b<i>c</i></b><i><div><b>d</b>e</div>f</i></div>"
	require.Equal(t, want, root.InnerHTML())
}

func TestParseImplicitListClosure(t *testing.T) {
	root := Parse(`<ul><li>a<li>b<li>c</ul>`)
	ul := root.Iter("ul")
	require.Len(t, ul, 1)

	items := ul[0].Children()
	require.Len(t, items, 3)

	var texts []string
	for _, li := range items {
		texts = append(texts, li.Text())
	}
	require.Equal(t, []string{"a", "b", "c"}, texts)
}

func TestParseVoidTagsDoNotNest(t *testing.T) {
	root := Parse(`<p>one<br>two<img src=x>three</p>`)
	p := root.Iter("p")
	require.Len(t, p, 1)
	require.False(t, p[0].Iter("br")[0].HasChildren())
}

func TestParseSelfClosingNonVoidTagClosesImmediately(t *testing.T) {
	// A self-closed <div/> should not swallow the sibling text, matching
	// HTMLParser's default handle_startendtag firing both handlers.
	root := Parse(`<div/>after`)
	divs := root.Iter("div")
	require.Len(t, divs, 1)
	require.Equal(t, "", divs[0].Text())
}

func TestRootIsAlwaysHTML(t *testing.T) {
	root := Parse(`just text`)
	require.Equal(t, "html", root.Tag())
}

func TestTrailingWhitespaceAroundBodyIsNormalised(t *testing.T) {
	root := Parse("<html>\n<head></head>\n<body>hi</body>\n</html>")
	head := root.Iter("head")
	require.Len(t, head, 1)
	require.Equal(t, "", head[0].Tail())
}

func TestParseFragmentUnwrapsSingleChild(t *testing.T) {
	child := ParseFragment(`<span>hi</span>`)
	require.Equal(t, "span", child.Tag())
	require.Equal(t, "hi", child.Text())
}

func TestParseFragmentKeepsRootWhenMultipleChildren(t *testing.T) {
	root := ParseFragment(`<span>a</span><span>b</span>`)
	require.Equal(t, "html", root.Tag())
	require.Len(t, root.Children(), 2)
}

func TestOuterXMLIsWellFormed(t *testing.T) {
	root := Parse(`<div class=x><br></div>`)
	xml := root.OuterXML()
	require.Contains(t, xml, "<br/>")
	require.Contains(t, xml, `class="x"`)
}

func TestTextContentNormalisesWhitespace(t *testing.T) {
	root := Parse("<p>a  \n  b\tc</p>")
	p := root.Iter("p")[0]
	require.Equal(t, "a b c", p.TextContent())
}
