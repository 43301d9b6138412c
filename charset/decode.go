package charset

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// Decode converts data to a Go string using the encoding named by label
// (normally the output of Detect), never failing: bytes the encoding
// cannot map are replaced rather than rejected, and an unresolvable label
// falls back to windows-1252, matching a browser's permissive decoding
// rather than a strict validating decoder.
//
// Grounded on detect_charset's caller in
// original_source/src/mechanize_mini/HtmlTree.py, which always feeds the
// detected label straight into Python's str(data, charset, 'replace').
func Decode(data []byte, label string) string {
	enc := encodingFor(label)

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil || out == nil {
		out, _, _ = transformWithReplacement(data, enc)
	}

	return stripBOM(string(out))
}

func encodingFor(label string) encoding.Encoding {
	label = strings.ToLower(strings.TrimSpace(label))
	if enc, err := htmlindex.Get(label); err == nil {
		return enc
	}
	return charmap.Windows1252
}

// transformWithReplacement decodes byte by byte, in case the whole-buffer
// decode above fails outright, so that Decode itself never returns an error
// to its caller.
func transformWithReplacement(data []byte, enc encoding.Encoding) ([]byte, int, error) {
	dec := enc.NewDecoder()
	var sb strings.Builder
	for _, b := range data {
		chunk, err := dec.Bytes([]byte{b})
		if err != nil || len(chunk) == 0 {
			sb.WriteRune('�')
			continue
		}
		sb.Write(chunk)
	}
	return []byte(sb.String()), len(data), nil
}

// stripBOM removes a leading U+FEFF that decoding a BOM-prefixed UTF-8/
// UTF-16 document leaves behind as a real codepoint.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "﻿")
}
