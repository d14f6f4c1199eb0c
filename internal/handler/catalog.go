package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Catalog is the movie catalog the proxy endpoints forward to.
type Catalog interface {
	Search(ctx context.Context, query, page string) (json.RawMessage, error)
	Popular(ctx context.Context) (json.RawMessage, error)
	NowPlaying(ctx context.Context) (json.RawMessage, error)
	TopRated(ctx context.Context) (json.RawMessage, error)
	Upcoming(ctx context.Context) (json.RawMessage, error)
	Trending(ctx context.Context, window string) (json.RawMessage, error)
	Discover(ctx context.Context, filters url.Values) (json.RawMessage, error)
	Genres(ctx context.Context) (json.RawMessage, error)
	Languages(ctx context.Context) (json.RawMessage, error)
	WatchProviders(ctx context.Context) (json.RawMessage, error)
	Movie(ctx context.Context, id string) (json.RawMessage, error)
	Trailer(ctx context.Context, id string) (json.RawMessage, error)
}

// CatalogHandler proxies catalog browsing requests. Provider payloads are
// written back unchanged.
type CatalogHandler struct {
	catalog Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) proxy(fetch func(r *http.Request) (json.RawMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := fetch(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeRaw(w, http.StatusOK, body)
	}
}

// HandleSearch handles GET /api/search-tmdb/?query= requests.
func (h *CatalogHandler) HandleSearch() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		q := r.URL.Query()
		return h.catalog.Search(r.Context(), q.Get("query"), q.Get("page"))
	})
}

// HandlePopular handles GET /api/tmdb/popular/ requests.
func (h *CatalogHandler) HandlePopular() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.Popular(r.Context())
	})
}

// HandleNowPlaying handles GET /api/tmdb/now-playing/ requests.
func (h *CatalogHandler) HandleNowPlaying() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.NowPlaying(r.Context())
	})
}

// HandleTopRated handles GET /api/tmdb/top-rated/ requests.
func (h *CatalogHandler) HandleTopRated() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.TopRated(r.Context())
	})
}

// HandleUpcoming handles GET /api/tmdb/upcoming/ requests.
func (h *CatalogHandler) HandleUpcoming() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.Upcoming(r.Context())
	})
}

// HandleTrending handles GET /api/tmdb/trending/{window}/ requests.
func (h *CatalogHandler) HandleTrending() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.Trending(r.Context(), chi.URLParam(r, "window"))
	})
}

// HandleDiscover handles GET /api/tmdb/discover/ requests.
func (h *CatalogHandler) HandleDiscover() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.Discover(r.Context(), r.URL.Query())
	})
}

// HandleGenres handles GET /api/tmdb/genres/ requests.
func (h *CatalogHandler) HandleGenres() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.Genres(r.Context())
	})
}

// HandleLanguages handles GET /api/tmdb/languages/ requests.
func (h *CatalogHandler) HandleLanguages() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.Languages(r.Context())
	})
}

// HandleWatchProviders handles GET /api/tmdb/watch-providers/ requests.
func (h *CatalogHandler) HandleWatchProviders() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.WatchProviders(r.Context())
	})
}

// HandleMovie handles GET /api/tmdb/movie/{id}/ requests.
func (h *CatalogHandler) HandleMovie() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.Movie(r.Context(), chi.URLParam(r, "id"))
	})
}

// HandleTrailer handles GET /api/tmdb/movie/{id}/videos/ requests.
func (h *CatalogHandler) HandleTrailer() http.HandlerFunc {
	return h.proxy(func(r *http.Request) (json.RawMessage, error) {
		return h.catalog.Trailer(r.Context(), chi.URLParam(r, "id"))
	})
}
