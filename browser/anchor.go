package browser

import (
	"context"

	"github.com/dpotapov/browser/htmltree"
)

// Follow resolves a's href against doc's base URI and navigates through
// doc's HttpClient, per spec.md §4.H.
func Follow(ctx context.Context, doc *Document, a htmltree.Anchor) (*Document, error) {
	return doc.Navigate(ctx, a.HrefAttr())
}
