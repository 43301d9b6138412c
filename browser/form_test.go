package browser

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubClient struct {
	responses   map[string]*Response
	lastURL     string
	lastHeaders map[string]string
}

func (c *stubClient) Open(ctx context.Context, u string, headers map[string]string, body []byte) (*Response, error) {
	c.lastURL = u
	c.lastHeaders = headers
	if r, ok := c.responses[u]; ok {
		return r, nil
	}
	return &Response{URL: u, Status: 200, Headers: map[string][]string{}}, nil
}

func newTestDocument(t *testing.T, html string) (*Document, *stubClient) {
	t.Helper()
	client := &stubClient{responses: map[string]*Response{}}
	resp := &Response{
		URL:     "http://example.com/page",
		Status:  200,
		Headers: map[string][]string{"Content-Type": {"text/html; charset=utf-8"}},
		Body:    []byte(html),
	}
	doc := newDocument(resp, client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return doc, client
}

func TestFormGetSubmission(t *testing.T) {
	html := `<form accept-charset="UTF-8">
		<input name="name" value="M&#252;&#223;t&#233;rma&#241;">
		<input type=radio name=b checked>
		<select name=b multiple>
			<option value=a selected>A</option>
			<option value=b>B</option>
			<option value=c selected>C</option>
		</select>
	</form>`
	doc, _ := newTestDocument(t, html)

	forms := doc.Forms()
	require.Len(t, forms, 1)
	f := FormIn(doc, forms[0])

	encoded, err := f.Encode()
	require.NoError(t, err)
	require.Equal(t, "name=M%C3%BC%C3%9Ft%C3%A9rma%C3%B1&b=on&b=a&b=c", encoded)
}

func TestFormGetFieldSingle(t *testing.T) {
	doc, _ := newTestDocument(t, `<form><input name=x value=hello></form>`)
	f := FormIn(doc, doc.Forms()[0])

	v, err := f.GetField("x")
	require.NoError(t, err)
	require.Equal(t, "hello", v)
}

func TestFormGetFieldUnknownName(t *testing.T) {
	doc, _ := newTestDocument(t, `<form><input name=x value=hello></form>`)
	f := FormIn(doc, doc.Forms()[0])

	_, err := f.GetField("nope")
	require.ErrorAs(t, err, new(*InputNotFoundError))
}

func TestFormGetFieldRadioGroup(t *testing.T) {
	doc, _ := newTestDocument(t, `<form>
		<input type=radio name=color value=red>
		<input type=radio name=color value=blue checked>
	</form>`)
	f := FormIn(doc, doc.Forms()[0])

	v, err := f.GetField("color")
	require.NoError(t, err)
	require.Equal(t, "blue", v)
}

func TestFormGetFieldAmbiguousNonRadioDuplicates(t *testing.T) {
	doc, _ := newTestDocument(t, `<form>
		<input name=x value=a>
		<input name=x value=b>
	</form>`)
	f := FormIn(doc, doc.Forms()[0])

	_, err := f.GetField("x")
	require.ErrorAs(t, err, new(*UnsupportedFormError))
}

func TestFormSetFieldRadioGroup(t *testing.T) {
	doc, _ := newTestDocument(t, `<form>
		<input type=radio name=color value=red>
		<input type=radio name=color value=blue>
	</form>`)
	f := FormIn(doc, doc.Forms()[0])

	require.NoError(t, f.SetField("color", "blue"))

	v, err := f.GetField("color")
	require.NoError(t, err)
	require.Equal(t, "blue", v)
}

func TestFormSetFieldRadioGroupIdempotent(t *testing.T) {
	doc, _ := newTestDocument(t, `<form>
		<input type=radio name=color value=red>
		<input type=radio name=color value=blue>
	</form>`)
	f := FormIn(doc, doc.Forms()[0])

	require.NoError(t, f.SetField("color", "blue"))
	before, err := f.Encode()
	require.NoError(t, err)

	require.NoError(t, f.SetField("color", "blue"))
	after, err := f.Encode()
	require.NoError(t, err)

	require.Equal(t, before, after)
}

func TestFormActionFallsBackToPageURL(t *testing.T) {
	doc, _ := newTestDocument(t, `<form></form>`)
	f := FormIn(doc, doc.Forms()[0])
	require.Equal(t, doc.URL, f.Action())
}

func TestFormActionResolvesAgainstBase(t *testing.T) {
	doc, _ := newTestDocument(t, `<form action="submit"></form>`)
	f := FormIn(doc, doc.Forms()[0])

	resolved, err := url.Parse(f.Action())
	require.NoError(t, err)
	require.Equal(t, "/submit", resolved.Path)
}

func TestFormSubmitGETAppendsQuery(t *testing.T) {
	doc, client := newTestDocument(t, `<form action="/search"><input name=q value=hi></form>`)
	f := FormIn(doc, doc.Forms()[0])

	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.Contains(t, client.lastURL, "q=hi")
}
