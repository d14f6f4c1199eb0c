package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cinelist/cinelist-go/internal/identity"
	"github.com/cinelist/cinelist-go/internal/middleware"
	"github.com/cinelist/cinelist-go/internal/service"
)

// RouterConfig carries everything the HTTP surface is built from.
type RouterConfig struct {
	Logger   *slog.Logger
	Verifier identity.Verifier
	Users    *service.UserService
	Status   *service.StatusService
	Shares   *service.ShareService
	Catalog  Catalog

	AllowedOrigins []string
	PublicRPS      float64
	PublicBurst    int
}

// NewRouter wires handlers and middleware into a chi router.
func NewRouter(cfg RouterConfig) http.Handler {
	movies := NewMovieHandler(cfg.Status)
	shares := NewShareHandler(cfg.Shares)
	users := NewUserHandler(cfg.Users)
	tmdb := NewCatalogHandler(cfg.Catalog)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.Verifier, cfg.Users))

			r.Get("/me/", users.HandleMe)

			r.Get("/movies/", movies.HandleList)
			r.Get("/movies/{tmdb_id}/", movies.HandleGet)
			r.Post("/movie-status/", movies.HandleSetStatus)

			r.Get("/shared-lists/", shares.HandleList)
			r.Post("/shared-lists/", shares.HandleCreate)
			r.Get("/shared-lists/{id}/", shares.HandleGet)
			r.Put("/shared-lists/{id}/", shares.HandleUpdate)
			r.Delete("/shared-lists/{id}/", shares.HandleDelete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.PublicRPS, cfg.PublicBurst))

			r.Get("/public-list/{id}/", shares.HandlePublic)

			r.Get("/search-tmdb/", tmdb.HandleSearch())
			r.Route("/tmdb", func(r chi.Router) {
				r.Get("/popular/", tmdb.HandlePopular())
				r.Get("/now-playing/", tmdb.HandleNowPlaying())
				r.Get("/top-rated/", tmdb.HandleTopRated())
				r.Get("/upcoming/", tmdb.HandleUpcoming())
				r.Get("/trending/{window}/", tmdb.HandleTrending())
				r.Get("/discover/", tmdb.HandleDiscover())
				r.Get("/genres/", tmdb.HandleGenres())
				r.Get("/languages/", tmdb.HandleLanguages())
				r.Get("/watch-providers/", tmdb.HandleWatchProviders())
				r.Get("/movie/{id}/", tmdb.HandleMovie())
				r.Get("/movie/{id}/videos/", tmdb.HandleTrailer())
			})
		})
	})

	return r
}
