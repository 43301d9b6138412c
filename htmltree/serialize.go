package htmltree

import "strings"

// Serializer implements spec.md §4.C/§4.F: Tree → HTML/XHTML string.
// Grounded on the teacher's chtml/html/node.go serialization walk
// (recursive writer over a node tree) generalised from that package's
// component-output shape to plain document/fragment serialization.

// InnerHTML serializes e's children as HTML.
func (e Element) InnerHTML() string {
	var sb strings.Builder
	writeChildrenHTML(&sb, e)
	return sb.String()
}

// OuterHTML serializes e (including its own tag) as HTML.
func (e Element) OuterHTML() string {
	var sb strings.Builder
	writeElementHTML(&sb, e)
	return sb.String()
}

// InnerXML serializes e's children as well-formed XML, using self-closing
// tags for empty elements.
func (e Element) InnerXML() string {
	var sb strings.Builder
	writeChildrenXML(&sb, e)
	return sb.String()
}

// OuterXML serializes e (including its own tag) as well-formed XML.
func (e Element) OuterXML() string {
	var sb strings.Builder
	writeElementXML(&sb, e)
	return sb.String()
}

func writeChildrenHTML(sb *strings.Builder, e Element) {
	sb.WriteString(escapeText(e.Text()))
	for c := e.FirstChild(); !c.IsZero(); c = c.NextSibling() {
		writeElementHTML(sb, c)
		sb.WriteString(escapeText(c.Tail()))
	}
}

func writeElementHTML(sb *strings.Builder, e Element) {
	tag := e.Tag()
	sb.WriteByte('<')
	sb.WriteString(tag)
	writeAttrs(sb, e)

	if voidTags[tag] {
		sb.WriteString(">")
		return
	}

	sb.WriteByte('>')
	writeChildrenHTML(sb, e)
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteByte('>')
}

func writeChildrenXML(sb *strings.Builder, e Element) {
	sb.WriteString(escapeText(e.Text()))
	for c := e.FirstChild(); !c.IsZero(); c = c.NextSibling() {
		writeElementXML(sb, c)
		sb.WriteString(escapeText(c.Tail()))
	}
}

func writeElementXML(sb *strings.Builder, e Element) {
	tag := e.Tag()
	sb.WriteByte('<')
	sb.WriteString(tag)
	writeAttrs(sb, e)

	if !e.HasChildren() && e.Text() == "" {
		sb.WriteString("/>")
		return
	}

	sb.WriteByte('>')
	writeChildrenXML(sb, e)
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteByte('>')
}

func writeAttrs(sb *strings.Builder, e Element) {
	for _, a := range e.sortedAttrs() {
		sb.WriteByte(' ')
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.value))
		sb.WriteByte('"')
	}
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	return strings.ReplaceAll(escapeText(s), `"`, "&quot;")
}
