package htmltree

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dpotapov/browser/charset"
)

// formattingEntry is one (tag, attrs) pair on the active formatting list
// (spec.md §4.D).
type formattingEntry struct {
	tag   string
	attrs []attr
}

// ad hoc scope boundaries used by individual start/end tag rules; these
// are distinct from the named scope sets in tags.go and are grounded
// directly on the exact call sites in
// original_source/src/mechanize_mini/HtmlTree.py's
// _TreeBuildingHTMLParser.handle_starttag (the named table_scope_els and
// select_scope_els sets that spec.md's table documents are declared but
// never consulted there; each call site uses its own one-off boundary).
var (
	tableBoundary  = map[string]bool{"table": true}
	dlOlUlBoundary = map[string]bool{"dl": true, "ol": true, "ul": true}
	selectBoundary = map[string]bool{"select": true}
)

// parser implements the tree-building algorithm of spec.md §4.D. It
// drives a golang.org/x/net/html tokenizer (the same tokenizer the
// teacher's chtml/html package wraps) but replaces the WHATWG insertion-
// mode/adoption-agency machinery with the scope-rule dispatch and
// misnesting-recovery algorithm this library targets.
type parser struct {
	tree *Tree
	oe   []int // open-elements stack; oe[0] is the synthetic root <html>.
	afe  []formattingEntry
}

func newParser() (*parser, *Tree) {
	tree, root := NewTree()
	return &parser{tree: tree, oe: []int{root.idx}}, tree
}

func (p *parser) top() Element {
	return Element{tree: p.tree, idx: p.oe[len(p.oe)-1]}
}

func (p *parser) hasInScope(tag string, scope map[string]bool) bool {
	for i := len(p.oe) - 1; i >= 0; i-- {
		t := p.tree.nodes[p.oe[i]].tag
		if t == tag {
			return true
		}
		if scope[t] {
			return false
		}
	}
	return false
}

// openTag creates a new element, appends it as the last child of the
// current top of the open-elements stack, and pushes it.
func (p *parser) openTag(tag string, attrs []attr) Element {
	e := p.tree.NewElement(tag)
	for _, a := range attrs {
		e.SetAttr(a.name, a.value)
	}
	_ = p.top().AppendChild(e)
	p.oe = append(p.oe, e.idx)
	return e
}

// closeTag pops the open-elements stack down to and including the first
// element whose tag matches.
func (p *parser) closeTag(tag string) {
	for len(p.oe) > 1 {
		idx := p.oe[len(p.oe)-1]
		p.oe = p.oe[:len(p.oe)-1]
		if p.tree.nodes[idx].tag == tag {
			return
		}
	}
}

// popOE pops the top of the open-elements stack unconditionally (used
// right after pushing a void element).
func (p *parser) popOE() {
	if len(p.oe) > 1 {
		p.oe = p.oe[:len(p.oe)-1]
	}
}

// reconstructFormatting is spec.md §4.D.3, translated directly from
// _TreeBuildingHTMLParser.restore_format_stack: walk the open-elements
// stack from the root outward and the active-formatting list from the
// outermost entry inward, consuming a matched pair at a time; whatever is
// left unmatched on the formatting list gets reopened, outermost first, as
// fresh children of the current top.
func (p *parser) reconstructFormatting() {
	if len(p.afe) == 0 {
		return
	}
	ti, fi := 0, 0
	for ti < len(p.oe) && fi < len(p.afe) {
		for ti < len(p.oe) && p.tree.nodes[p.oe[ti]].tag != p.afe[fi].tag {
			ti++
		}
		if ti < len(p.oe) {
			ti++
			fi++
		}
	}
	for ; fi < len(p.afe); fi++ {
		fe := p.afe[fi]
		p.openTag(fe.tag, fe.attrs)
	}
}

func (p *parser) removeLastFormatting(tag string) {
	for i := len(p.afe) - 1; i >= 0; i-- {
		if p.afe[i].tag == tag {
			p.afe = append(p.afe[:i], p.afe[i+1:]...)
			return
		}
	}
}

// startTag implements spec.md §4.D.1.
func (p *parser) startTag(tag string, attrs []attr) {
	if tag == "html" {
		root := Element{tree: p.tree, idx: p.oe[0]}
		for _, a := range attrs {
			root.SetAttr(a.name, a.value)
		}
		return
	}

	for i := range attrs {
		if attrs[i].value == "" {
			attrs[i].value = attrs[i].name
		}
	}

	if blockOpeningTags[tag] && p.hasInScope("p", blockScope) {
		p.closeTag("p")
	}
	if tableContainerTags[tag] && p.hasInScope(tag, tableBoundary) {
		p.closeTag(tag)
	}
	if listItemTags[tag] && p.hasInScope(tag, dlOlUlBoundary) {
		p.closeTag(tag)
	}
	if selectItemTags[tag] && p.hasInScope(tag, selectBoundary) {
		p.closeTag(tag)
	}

	if formattingTags[tag] {
		p.reconstructFormatting()
	}

	p.openTag(tag, attrs)

	if formattingTags[tag] {
		p.afe = append(p.afe, formattingEntry{tag: tag, attrs: cloneAttrs(attrs)})
	}

	if voidTags[tag] {
		p.popOE()
	}
}

func cloneAttrs(attrs []attr) []attr {
	out := make([]attr, len(attrs))
	copy(out, attrs)
	return out
}

// endTag implements spec.md §4.D.2.
func (p *parser) endTag(tag string) {
	if tag == "html" {
		return
	}

	if tag == "p" && !p.hasInScope(tag, blockScope) {
		p.openTag("p", nil)
	}

	if listItemTags[tag] && !p.hasInScope(tag, listScope) {
		return
	}

	if formattingTags[tag] {
		p.closeFormattingEndTag(tag)
		return
	}

	if p.hasInScope(tag, defaultScope) {
		p.closeTag(tag)
	}
}

// closeFormattingEndTag is spec.md §4.D.2's dispatch for a formatting end
// tag: first the "harmless" pop-until-match loop, falling back to the
// recursive misnesting-recovery algorithm (closeFormattingTag) when a
// non-formatting element is in the way.
func (p *parser) closeFormattingEndTag(tag string) {
	onAfe := false
	for _, fe := range p.afe {
		if fe.tag == tag {
			onAfe = true
			break
		}
	}
	if !onAfe {
		return
	}

	onStack := false
	for _, idx := range p.oe {
		if p.tree.nodes[idx].tag == tag {
			onStack = true
			break
		}
	}
	if onStack {
		for len(p.oe) > 1 && formattingTags[p.top().Tag()] && p.top().Tag() != tag {
			p.oe = p.oe[:len(p.oe)-1]
		}
		if p.top().Tag() == tag {
			p.oe = p.oe[:len(p.oe)-1]
		} else {
			p.closeFormattingTag(tag)
		}
	}

	p.removeLastFormatting(tag)
}

// closeFormattingTag is the misnesting-recovery algorithm of spec.md
// §4.D.4, a direct port of close_formatting_tag in
// original_source/src/mechanize_mini/HtmlTree.py.
func (p *parser) closeFormattingTag(tag string) {
	top := p.top()

	if top.Tag() == tag {
		p.oe = p.oe[:len(p.oe)-1]
		return
	}

	if formattingTags[top.Tag()] {
		p.oe = p.oe[:len(p.oe)-1]
		p.closeFormattingTag(tag)
		p.openTag(top.Tag(), attrsOf(top))
		return
	}

	// top is a non-formatting element N: detach it, recurse to close tag,
	// then implant a fresh <tag> containing N's original children/text
	// into N, and reattach N.
	n := top
	p.oe = p.oe[:len(p.oe)-1]
	parent := n.Parent()
	if !parent.IsZero() {
		parent.RemoveChild(n)
	}

	p.closeFormattingTag(tag)

	formatEl := p.tree.NewElement(tag)
	formatEl.SetText(n.Text())
	for c := n.FirstChild(); !c.IsZero(); {
		next := c.NextSibling()
		n.RemoveChild(c)
		_ = formatEl.AppendChild(c)
		c = next
	}
	n.SetText("")
	_ = n.AppendChild(formatEl)

	_ = p.top().AppendChild(n)
	p.oe = append(p.oe, n.idx)
}

func attrsOf(e Element) []attr {
	n := e.n()
	out := make([]attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// text implements spec.md §4.D.5.
func (p *parser) text(data string) {
	if strings.TrimSpace(data) == "" && p.top().Tag() == "html" {
		return
	}

	p.reconstructFormatting()

	top := p.top()
	if top.HasChildren() {
		last := top.LastChild()
		last.SetTail(last.Tail() + data)
	} else {
		top.SetText(top.Text() + data)
	}
}

// finish implements spec.md §4.D.6: trim whitespace-only text/tail
// adjacent to head/body at the root boundary.
func (p *parser) finish() Element {
	root := Element{tree: p.tree, idx: p.oe[0]}
	trimRootWhitespace(root)
	return root
}

func trimRootWhitespace(root Element) {
	if strings.TrimSpace(root.Text()) == "" {
		root.SetText("")
	}
	for c := root.FirstChild(); !c.IsZero(); c = c.NextSibling() {
		tag := c.Tag()
		if tag == "head" || tag == "body" {
			if strings.TrimSpace(c.Tail()) == "" {
				c.SetTail("")
			}
		}
	}
}

// Parse runs the tree-building parser over already-decoded text and
// returns the resulting <html> root.
func Parse(text string) Element {
	p, _ := newParser()

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return p.finish()
		case html.TextToken:
			p.text(string(z.Text()))
		case html.StartTagToken:
			tok := z.Token()
			p.startTag(strings.ToLower(tok.Data), tokenAttrs(tok))
		case html.SelfClosingTagToken:
			// html.parser's default handle_startendtag fires both
			// handlers; void tags are already popped by startTag, so the
			// endTag call is a harmless no-op for them and still closes
			// a self-closed non-void tag correctly.
			tok := z.Token()
			tag := strings.ToLower(tok.Data)
			p.startTag(tag, tokenAttrs(tok))
			p.endTag(tag)
		case html.EndTagToken:
			tok := z.Token()
			p.endTag(strings.ToLower(tok.Data))
		case html.DoctypeToken, html.CommentToken:
			// Neither doctypes nor comments participate in the tree
			// shape this library builds (spec.md scope: no layout, no
			// document-mode switching).
		}
	}
}

func tokenAttrs(tok html.Token) []attr {
	if len(tok.Attr) == 0 {
		return nil
	}
	out := make([]attr, len(tok.Attr))
	for i, a := range tok.Attr {
		out[i] = attr{name: strings.ToLower(a.Key), value: a.Val}
	}
	return out
}

// ParseDocument runs charset detection, decoding and tree-building over
// raw bytes, per spec.md §6.
func ParseDocument(data []byte, hint string) Element {
	label := charset.Detect(data, hint)
	text := charset.Decode(data, label)
	return Parse(text)
}

// ParseFragment parses text and unwraps the single-child case per
// spec.md §6: if the root has exactly one child, no non-whitespace root
// text, and that child's tail is only whitespace, the child is returned
// (tail normalised to empty); otherwise the root is returned.
func ParseFragment(text string) Element {
	root := Parse(text)
	first := root.FirstChild()
	if first.IsZero() || !first.NextSibling().IsZero() {
		return root
	}
	if strings.TrimSpace(root.Text()) != "" {
		return root
	}
	if strings.TrimSpace(first.Tail()) != "" {
		return root
	}
	first.SetTail("")
	return first
}
