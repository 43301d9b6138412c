package charset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		hint string
		want string
	}{
		{
			name: "meta charset utf8",
			data: []byte(`<meta charset="utf8">`),
			want: "utf-8",
		},
		{
			name: "bom wins over meta",
			data: append([]byte{0xEF, 0xBB, 0xBF}, []byte(`<meta charset="ascii">`)...),
			want: "utf-8",
		},
		{
			name: "unresolvable meta falls back to windows-1252",
			data: []byte(`<meta charset="trololo">`),
			want: "windows-1252",
		},
		{
			name: "http-equiv content-type meta",
			data: []byte(`<meta http-equiv="Content-Type" content="text/html; charset=UTF-8">`),
			want: "utf-8",
		},
		{
			name: "external hint wins over document",
			data: []byte(`<meta charset="utf8">`),
			hint: "iso-8859-1",
			want: "windows-1252",
		},
		{
			name: "us-ascii aliases to windows-1252",
			data: []byte(`<meta charset="us-ascii">`),
			want: "windows-1252",
		},
		{
			name: "no signal at all defaults to windows-1252",
			data: []byte(`<p>hello</p>`),
			want: "windows-1252",
		},
		{
			name: "utf-16 bom is not substituted with utf-8",
			data: []byte{0xFE, 0xFF, 0x00, 0x61},
			want: "utf-16be",
		},
		{
			name: "utf-16le bom is not substituted with utf-8",
			data: []byte{0xFF, 0xFE, 0x61, 0x00},
			want: "utf-16le",
		},
		{
			name: "meta charset declaring utf-16 is substituted with utf-8",
			data: []byte(`<meta charset="utf-16">`),
			want: "utf-8",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Detect(tc.data, tc.hint)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDetectNeverReturnsLegacyAliases(t *testing.T) {
	for _, label := range []string{"iso-8859-1", "us-ascii", "ISO-8859-1", "ascii"} {
		got := Detect(nil, label)
		require.NotEqual(t, "iso-8859-1", got)
		require.NotEqual(t, "us-ascii", got)
	}
}
