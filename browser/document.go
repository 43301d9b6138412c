// Package browser implements the high-level browsing surface on top of
// htmltree: a Document bundling decoded bytes with a parsed tree and a
// base URI, plus Form and Anchor wrappers that know how to talk to an
// HttpClient. Grounded on original_source/src/mechanize_mini.py's Page/
// Browser split, adapted to an explicit collaborator interface instead
// of a Browser object the Page holds a back-reference to.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/dpotapov/browser/charset"
	"github.com/dpotapov/browser/htmltree"
)

// Document is the result of a navigation: the decoded bytes, the
// canonical charset label, the request URL, response headers, status,
// the parsed root element, and the base URI links resolve against.
type Document struct {
	Bytes    []byte
	Charset  string
	URL      string
	Headers  map[string][]string
	Status   int
	Root     htmltree.Element
	baseURI  string
	client   HttpClient
	logger   *slog.Logger
}

// Open performs a navigation through client and parses the result into a
// new Document. The charset parameter of the response's Content-Type
// header, if any, is used as the external charset hint. A nil logger
// means slog.Default().
func Open(ctx context.Context, client HttpClient, requestURL string, logger *slog.Logger) (*Document, error) {
	return doOpen(ctx, client, requestURL, nil, logger)
}

func doOpen(ctx context.Context, client HttpClient, requestURL string, headers map[string]string, logger *slog.Logger) (*Document, error) {
	return doRequest(ctx, client, requestURL, headers, nil, logger)
}

// doRequest runs one request through client, including a POST body when
// non-nil, and turns the result (or a too-many-redirects/non-2xx status)
// into a Document plus the matching error from §7's error surface.
func doRequest(ctx context.Context, client HttpClient, requestURL string, headers map[string]string, body []byte, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	resp, err := client.Open(ctx, requestURL, headers, body)
	if err != nil {
		if errors.Is(err, ErrTooManyRedirects) && resp != nil {
			doc := newDocument(resp, client, logger)
			return doc, &TooManyRedirectsError{HttpError{Status: doc.Status, Document: doc}}
		}
		return nil, fmt.Errorf("browser: open %s: %w", requestURL, err)
	}

	doc := newDocument(resp, client, logger)

	if doc.Status < 200 || doc.Status >= 300 {
		return doc, &HttpError{Status: doc.Status, Document: doc}
	}

	return doc, nil
}

func newDocument(resp *Response, client HttpClient, logger *slog.Logger) *Document {
	if logger == nil {
		logger = slog.Default()
	}

	hint := charsetHintFromContentType(headerFirst(resp.Headers, "Content-Type"))

	label := charset.Detect(resp.Body, hint)
	text := charset.Decode(resp.Body, label)
	root := htmltree.Parse(text)

	doc := &Document{
		Bytes:   resp.Body,
		Charset: label,
		URL:     resp.URL,
		Headers: resp.Headers,
		Status:  resp.Status,
		Root:    root,
		client:  client,
		logger:  logger,
	}
	doc.baseURI = computeBaseURI(root, resp.URL)

	logger.Debug("parsed document", slog.String("url", doc.URL), slog.String("charset", doc.Charset), slog.Int("status", doc.Status))

	return doc
}

func headerFirst(headers map[string][]string, name string) string {
	for k, vs := range headers {
		if equalFold(k, name) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// charsetHintFromContentType extracts the charset parameter from an HTTP
// Content-Type header value, e.g. "text/html; charset=iso-8859-1".
func charsetHintFromContentType(contentType string) string {
	parts := strings.Split(contentType, ";")
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if v, ok := strings.CutPrefix(strings.ToLower(p), "charset="); ok {
			return strings.Trim(v, `"'`)
		}
	}
	return ""
}

// computeBaseURI resolves the base URI per the glossary: the first
// <base href> if present (resolved against responseURL), else
// responseURL, fragment stripped.
func computeBaseURI(root htmltree.Element, responseURL string) string {
	base := responseURL

	for _, b := range root.Iter("base") {
		if href, ok := b.Attr("href"); ok && href != "" {
			if resolved, err := resolveURL(responseURL, href); err == nil {
				base = resolved
			}
			break
		}
	}

	return stripFragment(base)
}

func resolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

func stripFragment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	return u.String()
}

// BaseURI returns the absolute URL relative links in this document are
// resolved against.
func (d *Document) BaseURI() string {
	return d.baseURI
}

// Navigate resolves href against BaseURI and opens it through the same
// HttpClient, setting Referer to this document's URL with any fragment
// stripped.
func (d *Document) Navigate(ctx context.Context, href string) (*Document, error) {
	target, err := resolveURL(d.baseURI, href)
	if err != nil {
		return nil, fmt.Errorf("browser: resolve %q against %q: %w", href, d.baseURI, err)
	}

	headers := map[string]string{"Referer": stripFragment(d.URL)}
	return doOpen(ctx, d.client, target, headers, d.logger)
}

// Forms returns every <form> element in the document, wrapped as Form.
func (d *Document) Forms() []htmltree.Form {
	els := d.Root.Iter("form")
	out := make([]htmltree.Form, len(els))
	for i, e := range els {
		out[i] = htmltree.AsForm(e)
	}
	return out
}

// Anchors returns every <a> element in the document, wrapped as Anchor.
func (d *Document) Anchors() []htmltree.Anchor {
	els := d.Root.Iter("a")
	out := make([]htmltree.Anchor, len(els))
	for i, e := range els {
		out[i] = htmltree.AsAnchor(e)
	}
	return out
}
