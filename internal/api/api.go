// Package api wires the stitcher's HTTP surface: the playlist,
// manifest, segment, ad and asset-list proxy handlers (spec §4.13-4.16
// and §6), plus health and demo fixture endpoints.
package api

import (
	"time"

	"github.com/streamops/stitcher/internal/ad"
	"github.com/streamops/stitcher/internal/cache"
	"github.com/streamops/stitcher/internal/config"
	"github.com/streamops/stitcher/internal/httpclient"
	"github.com/streamops/stitcher/internal/logger"
	"github.com/streamops/stitcher/internal/metrics"
	"github.com/streamops/stitcher/internal/session"
)

// Deps bundles every collaborator a handler needs. Built once in
// cmd/server and shared by all requests.
type Deps struct {
	Config     *config.Config
	Logger     logger.Logger
	HTTPClient *httpclient.Client
	Sessions   session.Manager
	AdProvider ad.Provider
	Metrics    *metrics.Counters
	ByteCache  *cache.ByteCache
	StartedAt  time.Time
	Version    string
}

// api holds the Deps plus nothing else; every handler is a method on
// it so they share the same collaborators without package-level
// globals.
type api struct {
	Deps
}
