// Package charset implements the encoding-sniffing rules that decide how
// raw HTML bytes become characters: a WHATWG-inspired detector (hint, BOM,
// <meta> scan, legacy aliasing) and a never-fails byte decoder.
//
// Grounded on original_source/src/mechanize_mini/HtmlTree.py's
// detect_charset/_CharsetDetectingHTMLParser for the exact precedence and
// legacy-alias rules, and on the Go encoding idiom shown in
// other_examples/ddee2475_..._encoding.go.go (BOM table as a pure lookup,
// label normalization returning a canonical value).
package charset

import (
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Detect maps raw bytes plus an optional external hint (e.g. an HTTP
// Content-Type charset parameter) to a canonical encoding label, following
// the 7-step precedence in spec.md §4.A. It never fails: an unresolvable
// label falls back to windows-1252.
func Detect(data []byte, hint string) string {
	label := strings.TrimSpace(hint)

	if label == "" {
		if bom := sniffBOM(data); bom != "" {
			return canonicalize(bom)
		}
		if meta := scanMetaCharset(data); meta != "" {
			label = meta
		}
	}

	if label == "" {
		label = "windows-1252"
	}

	return canonicalize(label)
}

// sniffBOM returns "utf-8", "utf-16be", "utf-16le" or "" based on the
// first bytes of data (spec.md §4.A step 2). A BOM overrides any
// in-document <meta>, which Detect implements by only consulting the meta
// scan when no BOM was found.
func sniffBOM(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return "utf-8"
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return "utf-16be"
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return "utf-16le"
	default:
		return ""
	}
}

// canonicalize resolves label through the encoding registry (step 5),
// applies the legacy alias rule (step 6), and returns the canonical label
// (step 7). It does not apply the <meta>-only UTF-16-to-utf-8 substitution
// (step 3); that lives in resolveCandidate, since it must not fire on a
// genuine UTF-16 BOM (spec.md §4.A step 2) or an external hint.
func canonicalize(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))

	enc, err := htmlindex.Get(label)
	if err != nil {
		return "windows-1252"
	}

	name, err := htmlindex.Name(enc)
	if err != nil {
		return "windows-1252"
	}
	name = strings.ToLower(name)

	if name == "iso-8859-1" || name == "us-ascii" || name == "windows-1252" {
		return "windows-1252"
	}

	return name
}
