// Package browser talks to the application's rendered UI.
package browser

import (
	"context"
)

// Client queries and drives the rendered UI. Every lookup is by selector;
// implementations must not cache element handles across calls.
type Client interface {
	// WaitForText blocks until the first match of selector has non-empty text
	WaitForText(ctx context.Context, selector string) error
	// Count returns the number of nodes matching selector
	Count(ctx context.Context, selector string) (int, error)
	// Text returns the text of the first match or domain.ErrNoSuchElement
	Text(ctx context.Context, selector string) (string, error)
	// Texts returns the text of every match, in document order
	Texts(ctx context.Context, selector string) ([]string, error)
	// Click clicks the first match
	Click(ctx context.Context, selector string) error
	// Back navigates one history entry back
	Back(ctx context.Context) error
}
