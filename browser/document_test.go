package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseURIDefaultsToResponseURL(t *testing.T) {
	doc, _ := newTestDocument(t, `<p>hi</p>`)
	require.Equal(t, "http://example.com/page", doc.BaseURI())
}

func TestBaseURIFromBaseTag(t *testing.T) {
	doc, _ := newTestDocument(t, `<base href="http://other.example/dir/">`)
	require.Equal(t, "http://other.example/dir/", doc.BaseURI())
}

func TestBaseURIStripsFragment(t *testing.T) {
	client := &stubClient{responses: map[string]*Response{}}
	resp := &Response{URL: "http://example.com/page#section", Status: 200, Body: []byte("<p>hi</p>")}
	doc := newDocument(resp, client, nil)
	require.Equal(t, "http://example.com/page", doc.BaseURI())
}

func TestAnchorFollowResolvesAndSetsReferer(t *testing.T) {
	doc, client := newTestDocument(t, `<a href="/next">go</a>`)

	anchors := doc.Anchors()
	require.Len(t, anchors, 1)

	_, err := Follow(context.Background(), doc, anchors[0])
	require.NoError(t, err)
	require.Equal(t, "http://example.com/next", client.lastURL)
	require.Equal(t, "http://example.com/page", client.lastHeaders["Referer"])
}

func TestNon2xxStatusStillReturnsDocument(t *testing.T) {
	client := &stubClient{responses: map[string]*Response{
		"http://example.com/missing": {URL: "http://example.com/missing", Status: 404, Body: []byte("<p>not found</p>")},
	}}

	doc, err := doOpen(context.Background(), client, "http://example.com/missing", nil, nil)
	require.Error(t, err)
	require.NotNil(t, doc)

	var httpErr *HttpError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, 404, httpErr.Status)
}
