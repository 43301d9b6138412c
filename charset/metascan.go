package charset

import (
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// scanMetaCharset walks the bytes as ASCII (invalid bytes replaced,
// mirroring str(html, 'ascii', 'replace') in the Python original) looking
// for <meta charset=...> or <meta http-equiv="content-type"
// content="...charset=..."> candidates, in document order, and returns the
// first candidate whose label resolves in the encoding registry — or ""
// if none do.
//
// This is a small hand-rolled start-tag scanner rather than a full HTML
// tokenizer: decoding untrusted, possibly-mis-encoded bytes with a real
// tokenizer before the encoding is even known is the wrong tool for this
// step (see DESIGN.md). Grounded on the teacher's chtml/html/doctype.go
// byte-scanning idiom (cursor advance over a []byte, IndexAny-based
// boundary search).
func scanMetaCharset(data []byte) string {
	ascii := toASCII(data)
	s := ascii

	for {
		start := strings.IndexByte(s, '<')
		if start == -1 {
			return ""
		}
		s = s[start:]

		if len(s) >= 2 && (s[1] == '!' || s[1] == '/' || s[1] == '?') {
			s = s[1:]
			continue
		}

		tagEnd := strings.IndexByte(s, '>')
		if tagEnd == -1 {
			return ""
		}
		tagSrc := s[1:tagEnd]
		s = s[tagEnd+1:]

		name, rest := splitTagName(tagSrc)
		if !strings.EqualFold(name, "meta") {
			continue
		}

		attrs := parseAttrs(rest)
		if label, ok := attrs["charset"]; ok {
			if resolved := resolveCandidate(label); resolved != "" {
				return resolved
			}
			continue
		}

		if strings.EqualFold(attrs["http-equiv"], "content-type") {
			if content, ok := attrs["content"]; ok {
				if idx := strings.Index(strings.ToLower(content), "charset="); idx != -1 {
					label := strings.TrimSpace(content[idx+len("charset="):])
					label = trimQuotesAndTrailer(label)
					if resolved := resolveCandidate(label); resolved != "" {
						return resolved
					}
				}
			}
		}
	}
}

// resolveCandidate validates a <meta>-derived charset label against the
// encoding registry and applies spec.md §4.A step 3's ASCII-compatible
// assumption: a <meta> tag can only have been read in the first place by
// treating the byte stream as ASCII-compatible, so a UTF-16 label found
// there is self-contradictory and is substituted with utf-8 (grounded on
// HtmlTree.py's _CharsetDetectingHTMLParser.handle_starttag, where this
// substitution lives inside meta-tag handling, not in the BOM or hint
// paths). Returns "" if label does not resolve.
func resolveCandidate(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return ""
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return ""
	}

	name, err := htmlindex.Name(enc)
	if err != nil {
		return ""
	}
	name = strings.ToLower(name)

	if strings.HasPrefix(name, "utf-16") {
		return "utf-8"
	}

	return name
}

// trimQuotesAndTrailer trims a trailing quote/semicolon/whitespace run off
// a charset value extracted from a content="..." attribute, e.g.
// `"utf-8";` or `utf-8; q=1`.
func trimQuotesAndTrailer(s string) string {
	s = strings.Trim(s, `"' `)
	if idx := strings.IndexAny(s, ";\"' \t"); idx != -1 {
		s = s[:idx]
	}
	return s
}

func toASCII(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		if b < 0x80 {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

// splitTagName splits "meta charset=utf-8 " into ("meta", " charset=utf-8 ").
func splitTagName(tagSrc string) (name, rest string) {
	tagSrc = strings.TrimPrefix(tagSrc, "/")
	i := 0
	for i < len(tagSrc) && !isTagSpace(tagSrc[i]) && tagSrc[i] != '/' {
		i++
	}
	return tagSrc[:i], tagSrc[i:]
}

func isTagSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

// parseAttrs is a minimal name="value"/name='value'/name=value/name
// attribute-list scanner sufficient for <meta> tags. Keys are lowercased.
func parseAttrs(s string) map[string]string {
	out := make(map[string]string)
	i := 0
	n := len(s)
	for i < n {
		for i < n && (isTagSpace(s[i]) || s[i] == '/') {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && !isTagSpace(s[i]) && s[i] != '=' && s[i] != '/' {
			i++
		}
		key := strings.ToLower(s[start:i])
		if key == "" {
			i++
			continue
		}

		for i < n && isTagSpace(s[i]) {
			i++
		}

		if i >= n || s[i] != '=' {
			out[key] = ""
			continue
		}
		i++ // consume '='
		for i < n && isTagSpace(s[i]) {
			i++
		}

		if i < n && (s[i] == '"' || s[i] == '\'') {
			quote := s[i]
			i++
			start = i
			for i < n && s[i] != quote {
				i++
			}
			out[key] = s[start:i]
			if i < n {
				i++
			}
		} else {
			start = i
			for i < n && !isTagSpace(s[i]) {
				i++
			}
			out[key] = s[start:i]
		}
	}
	return out
}
