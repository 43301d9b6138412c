package htmltree

import (
	"errors"
	"sort"
	"strings"
)

// ErrForeignElement is returned when a mutation would attach an element
// from one Tree as a child of an element from another Tree (spec
// invariant 4: an element attached to document D can only be a child of
// another element attached to D).
var ErrForeignElement = errors.New("htmltree: element belongs to a different tree")

// Element is a handle into a Tree's arena. It is cheap to copy; it is
// invalidated only if the underlying node is removed from its tree.
type Element struct {
	tree *Tree
	idx  int
}

// IsZero reports whether e is the zero Element (no tree attached).
func (e Element) IsZero() bool {
	return e.tree == nil
}

func (e Element) n() *node {
	return &e.tree.nodes[e.idx]
}

// Tag returns the element's lowercased tag name.
func (e Element) Tag() string {
	return e.n().tag
}

// Index returns the arena index backing this handle; two Elements refer
// to the same node iff they share a Tree and an Index.
func (e Element) Index() int {
	return e.idx
}

// Tree returns the owning Tree.
func (e Element) Tree() *Tree {
	return e.tree
}

// Equal reports whether e and o are handles to the same node.
func (e Element) Equal(o Element) bool {
	return e.tree == o.tree && e.idx == o.idx
}

// --- attributes ---------------------------------------------------------

// Attr returns the value of the named attribute (looked up case-
// insensitively) and whether it was present.
func (e Element) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.n().attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute's value, or def if absent.
func (e Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// SetAttr sets (or replaces) the named attribute. The name is stored
// lowercase (spec invariant 1).
func (e Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	n := e.n()
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = value
			return
		}
	}
	n.attrs = append(n.attrs, attr{name: name, value: value})
}

// UnsetAttr removes the named attribute, if present.
func (e Element) UnsetAttr(name string) {
	name = strings.ToLower(name)
	n := e.n()
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// Attrs returns the attributes in insertion order. Callers must not retain
// a reference past the next mutation.
func (e Element) Attrs() []struct{ Name, Value string } {
	n := e.n()
	out := make([]struct{ Name, Value string }, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = struct{ Name, Value string }{a.name, a.value}
	}
	return out
}

// sortedAttrs returns attributes ordered by name, for canonical
// serialization (spec.md §6: "byte-identical output modulo attribute
// ordering, which is canonicalised by name").
func (e Element) sortedAttrs() []attr {
	n := e.n()
	out := make([]attr, len(n.attrs))
	copy(out, n.attrs)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// --- text / tail --------------------------------------------------------

// Text returns the character data before the first child.
func (e Element) Text() string { return e.n().text }

// SetText sets the character data before the first child.
func (e Element) SetText(s string) { e.n().text = s }

// Tail returns the character data after this element's end tag, before
// its next sibling.
func (e Element) Tail() string { return e.n().tail }

// SetTail sets the tail text.
func (e Element) SetTail(s string) { e.n().tail = s }

// --- tree navigation -----------------------------------------------------

// Parent returns the parent element, or the zero Element at the root.
func (e Element) Parent() Element {
	p := e.n().parent
	if p == noIndex {
		return Element{}
	}
	return Element{tree: e.tree, idx: p}
}

// FirstChild returns the first child, or the zero Element if none.
func (e Element) FirstChild() Element {
	c := e.n().firstChild
	if c == noIndex {
		return Element{}
	}
	return Element{tree: e.tree, idx: c}
}

// LastChild returns the last child, or the zero Element if none.
func (e Element) LastChild() Element {
	c := e.n().lastChild
	if c == noIndex {
		return Element{}
	}
	return Element{tree: e.tree, idx: c}
}

// NextSibling returns the next sibling, or the zero Element if none.
func (e Element) NextSibling() Element {
	n := e.n().next
	if n == noIndex {
		return Element{}
	}
	return Element{tree: e.tree, idx: n}
}

// PrevSibling returns the previous sibling, or the zero Element if none.
func (e Element) PrevSibling() Element {
	p := e.n().prev
	if p == noIndex {
		return Element{}
	}
	return Element{tree: e.tree, idx: p}
}

// Children returns the direct children in document order.
func (e Element) Children() []Element {
	var out []Element
	for c := e.FirstChild(); !c.IsZero(); c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

// HasChildren reports whether e has at least one child.
func (e Element) HasChildren() bool {
	return e.n().firstChild != noIndex
}

// --- mutation ------------------------------------------------------------

// AppendChild appends child as the last child of e. child must belong to
// the same Tree and must currently be detached (use RemoveChild first to
// move a node).
func (e Element) AppendChild(child Element) error {
	if child.tree != e.tree {
		return ErrForeignElement
	}
	cn := child.n()
	cn.parent = e.idx
	cn.next = noIndex

	en := e.n()
	if en.lastChild == noIndex {
		en.firstChild = child.idx
		en.lastChild = child.idx
		cn.prev = noIndex
	} else {
		last := en.lastChild
		e.tree.nodes[last].next = child.idx
		cn.prev = last
		en.lastChild = child.idx
	}
	return nil
}

// InsertChild inserts child at position idx among e's children (0 means
// first). idx >= len(children) behaves like AppendChild.
func (e Element) InsertChild(idx int, child Element) error {
	if child.tree != e.tree {
		return ErrForeignElement
	}
	kids := e.Children()
	if idx >= len(kids) {
		return e.AppendChild(child)
	}
	if idx <= 0 {
		return e.prependChild(child)
	}
	before := kids[idx]
	after := kids[idx-1]

	cn := child.n()
	cn.parent = e.idx
	cn.prev = after.idx
	cn.next = before.idx
	e.tree.nodes[after.idx].next = child.idx
	e.tree.nodes[before.idx].prev = child.idx
	return nil
}

func (e Element) prependChild(child Element) error {
	cn := child.n()
	cn.parent = e.idx
	cn.prev = noIndex

	en := e.n()
	if en.firstChild == noIndex {
		en.firstChild = child.idx
		en.lastChild = child.idx
		cn.next = noIndex
	} else {
		first := en.firstChild
		cn.next = first
		e.tree.nodes[first].prev = child.idx
		en.firstChild = child.idx
	}
	return nil
}

// RemoveChild detaches child from e's child list. child's own text/tail
// and subtree are left intact; it becomes a standalone root usable as an
// AppendChild/InsertChild argument elsewhere in the same Tree.
func (e Element) RemoveChild(child Element) {
	if child.tree != e.tree || child.n().parent != e.idx {
		return
	}
	cn := child.n()
	prev, next := cn.prev, cn.next

	en := e.n()
	if prev != noIndex {
		e.tree.nodes[prev].next = next
	} else {
		en.firstChild = next
	}
	if next != noIndex {
		e.tree.nodes[next].prev = prev
	} else {
		en.lastChild = prev
	}

	cn.parent = noIndex
	cn.next = noIndex
	cn.prev = noIndex
}

// --- traversal -----------------------------------------------------------

// Descendants calls yield for every descendant of e, depth-first,
// pre-order, stopping early if yield returns false.
func (e Element) Descendants(yield func(Element) bool) {
	for c := e.FirstChild(); !c.IsZero(); c = c.NextSibling() {
		if !yield(c) {
			return
		}
		cont := true
		c.Descendants(func(d Element) bool {
			cont = yield(d)
			return cont
		})
		if !cont {
			return
		}
	}
}

// DescendantsSlice collects Descendants into a slice.
func (e Element) DescendantsSlice() []Element {
	var out []Element
	e.Descendants(func(d Element) bool {
		out = append(out, d)
		return true
	})
	return out
}

// Iter yields e's descendants whose tag equals tag (case-insensitive),
// mirroring ElementTree.iter(tag) in the Python original this package is
// derived from.
func (e Element) Iter(tag string) []Element {
	tag = strings.ToLower(tag)
	var out []Element
	e.Descendants(func(d Element) bool {
		if d.Tag() == tag {
			out = append(out, d)
		}
		return true
	})
	return out
}

// Itertext calls yield with e's text, then recursively each child's
// itertext followed by that child's tail.
func (e Element) Itertext(yield func(string) bool) {
	if e.n().text != "" {
		if !yield(e.n().text) {
			return
		}
	}
	for c := e.FirstChild(); !c.IsZero(); c = c.NextSibling() {
		cont := true
		c.Itertext(func(s string) bool {
			cont = yield(s)
			return cont
		})
		if !cont {
			return
		}
		if c.n().tail != "" {
			if !yield(c.n().tail) {
				return
			}
		}
	}
}

const asciiWhitespace = " \t\r\n\f"

// TextContent concatenates all text fragments under e, splits them on runs
// of ASCII whitespace, and rejoins with single spaces (spec.md §4.C /
// invariant 3 in §8).
func (e Element) TextContent() string {
	var sb strings.Builder
	e.Itertext(func(s string) bool {
		sb.WriteString(s)
		return true
	})
	fields := strings.FieldsFunc(sb.String(), func(r rune) bool {
		return strings.ContainsRune(asciiWhitespace, r)
	})
	return strings.Join(fields, " ")
}

// --- class list ------------------------------------------------------------

// ClassList parses the class attribute into a set of ASCII-whitespace-
// separated tokens.
func (e Element) ClassList() map[string]struct{} {
	v, _ := e.Attr("class")
	set := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(v, func(r rune) bool {
		return strings.ContainsRune(asciiWhitespace, r)
	}) {
		set[tok] = struct{}{}
	}
	return set
}

// SetClassList writes back the class attribute as space-separated, sorted
// tokens.
func (e Element) SetClassList(classes map[string]struct{}) {
	toks := make([]string, 0, len(classes))
	for c := range classes {
		toks = append(toks, c)
	}
	sort.Strings(toks)
	e.SetAttr("class", strings.Join(toks, " "))
}
