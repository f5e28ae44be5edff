package venice

import "context"

// RoundTripFunc executes one request envelope and returns its response
// envelope or a typed error.
type RoundTripFunc func(ctx context.Context, req *Request) (*Response, error)

// Middleware wraps a RoundTripFunc to add behavior around the transport.
// A middleware may inspect or modify the outgoing request, short-circuit by
// not calling next, and inspect or replace the response or error on the way
// back.
type Middleware func(next RoundTripFunc) RoundTripFunc

type namedMiddleware struct {
	name string
	mw   Middleware
}

// Use registers a middleware under a name. Registration order determines
// position in the onion: the first registered middleware is outermost, so it
// sees the request first and the response last. Registering an existing name
// replaces that middleware in place.
func (c *Client) Use(name string, mw Middleware) {
	c.mwMu.Lock()
	defer c.mwMu.Unlock()
	for i, nm := range c.middlewares {
		if nm.name == name {
			c.middlewares[i].mw = mw
			return
		}
	}
	c.middlewares = append(c.middlewares, namedMiddleware{name: name, mw: mw})
}

// RemoveMiddleware unregisters a middleware by name. It reports whether the
// name was registered.
func (c *Client) RemoveMiddleware(name string) bool {
	c.mwMu.Lock()
	defer c.mwMu.Unlock()
	for i, nm := range c.middlewares {
		if nm.name == name {
			c.middlewares = append(c.middlewares[:i], c.middlewares[i+1:]...)
			return true
		}
	}
	return false
}

// ClearMiddlewares unregisters every middleware.
func (c *Client) ClearMiddlewares() {
	c.mwMu.Lock()
	c.middlewares = nil
	c.mwMu.Unlock()
}

// applyMiddleware wraps next in the registered chain. Applied in reverse
// registration order so the first registered middleware ends up outermost.
func (c *Client) applyMiddleware(next RoundTripFunc) RoundTripFunc {
	c.mwMu.RLock()
	defer c.mwMu.RUnlock()
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		next = c.middlewares[i].mw(next)
	}
	return next
}
