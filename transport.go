package canbits

import "context"

// Transport carries a driven trace to a simulated bus and returns what was
// monitored on the bus during the same cycles. Exchanges are strictly
// request/response. Implementations should be safe for concurrent use.
type Transport interface {
	// Exchange drives the trace and returns the monitored bus trace.
	// Context cancellation should abort the exchange and return the context
	// error.
	Exchange(ctx context.Context, drive Trace) (Trace, error)

	// Close releases resources. Further exchanges return ErrClosed.
	Close() error
}
