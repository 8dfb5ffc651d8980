package api

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingTransport returns a RoundTripper that honours server cache
// headers, so repeated hierarchy GETs inside one session turn into
// conditional requests. With a cache directory the cache persists across
// runs; otherwise it lives in memory.
func NewCachingTransport(cacheDir string) http.RoundTripper {
	if cacheDir == "" {
		return httpcache.NewTransport(httpcache.NewMemoryCache())
	}
	return httpcache.NewTransport(diskcache.New(cacheDir))
}
