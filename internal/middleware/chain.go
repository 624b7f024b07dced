package middleware

import "net/http"

// Chain wraps h so that the given middleware run in the listed order:
// the first argument sees the request first. Wrapping therefore happens
// back to front.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
