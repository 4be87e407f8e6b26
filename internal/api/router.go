package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New builds the stitcher's HTTP handler: a chi router carrying
// permissive CORS (required so browser-side HLS/DASH players can
// fetch manifests cross-origin, per spec §6) and the routes listed in
// spec §6's endpoint table.
func New(deps Deps) http.Handler {
	a := &api{Deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", a.handleHealth)

	r.Route("/stitch/{sid}", func(r chi.Router) {
		r.Get("/playlist.m3u8", a.handlePlaylist)
		r.Get("/manifest.mpd", a.handleManifest)
		r.Get("/segment/*", a.handleSegment)
		r.Get("/ad/{adName}", a.handleAd)
		r.Get("/asset-list/{breakID}", a.handleAssetList)
	})

	r.Get("/demo/playlist.m3u8", a.handleDemoPlaylist)
	r.Get("/demo/manifest.mpd", a.handleDemoManifest)

	return r
}
