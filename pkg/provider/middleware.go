package provider

import (
	"net/http"
)

type MiddlewareFunc func(http.Handler) http.Handler

type cacheControlMiddleware struct {
	nextHandler http.Handler
}

func newCacheControlMiddleware(next http.Handler) cacheControlMiddleware {
	return cacheControlMiddleware{
		nextHandler: next,
	}
}

// ServeHTTP prevents authorization responses, which carry credentials in the
// redirect URI, from being cached.
func (handler cacheControlMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Header().Set("Pragma", "no-cache")
	handler.nextHandler.ServeHTTP(w, r)
}
