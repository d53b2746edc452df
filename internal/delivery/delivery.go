// Package delivery defines the contract every transport entrypoint
// (HTTP, future workers) satisfies so main can run them uniformly.
package delivery

import "context"

// Delivery is a long-running transport server. Serve blocks until the
// server stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
