package htmltree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInnerHTMLEscapesText(t *testing.T) {
	_, root := NewTree()
	root.SetText(`a & b < c > d "e"`)
	out := root.InnerHTML()
	require.Equal(t, `a &amp; b &lt; c &gt; d "e"`, out)
}

func TestInnerHTMLEscapesAttrQuotes(t *testing.T) {
	tree, root := NewTree()
	div := tree.NewElement("div")
	div.SetAttr("title", `say "hi"`)
	_ = root.AppendChild(div)

	require.Contains(t, root.InnerHTML(), `title="say &quot;hi&quot;"`)
}

func TestAttributesSerializeInNameOrder(t *testing.T) {
	tree, root := NewTree()
	div := tree.NewElement("div")
	div.SetAttr("zeta", "1")
	div.SetAttr("alpha", "2")
	_ = root.AppendChild(div)

	out := root.InnerHTML()
	require.Less(t, indexOf(out, "alpha"), indexOf(out, "zeta"))
}

func TestVoidTagsHaveNoEndTagInHTML(t *testing.T) {
	tree, root := NewTree()
	br := tree.NewElement("br")
	_ = root.AppendChild(br)

	require.Equal(t, "<br>", root.InnerHTML())
}

func TestEmptyElementsSelfCloseInXML(t *testing.T) {
	tree, root := NewTree()
	div := tree.NewElement("div")
	_ = root.AppendChild(div)

	require.Equal(t, "<div/>", root.InnerXML())
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
