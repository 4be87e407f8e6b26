package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/streamops/stitcher/internal/apperr"
	"github.com/streamops/stitcher/internal/model"
	"github.com/streamops/stitcher/internal/tracking"
)

const (
	defaultSegmentContentType = "video/MP2T"
	proxyRetryAttempts        = 2
	proxyRetryDelay           = 500 * time.Millisecond
)

// handleSegment implements the segment half of spec §4.16: proxy the
// upstream content segment's bytes through, passing its Content-Type
// where present.
func (a *api) handleSegment(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := validSessionID(sid); err != nil {
		writeAppError(w, a.Logger.Warnf, err)
		return
	}

	segPath := chi.URLParam(r, "*")
	segOrigin := r.URL.Query().Get("origin")
	if segOrigin == "" {
		writeAppError(w, a.Logger.Warnf, apperr.New(apperr.KindInvalidOrigin, "segment request missing origin"))
		return
	}

	fetchURL := strings.TrimSuffix(segOrigin, "/") + "/" + segPath

	body, contentType, ok := a.ByteCache.Get(fetchURL)
	if !ok {
		result, err := a.HTTPClient.FetchWithRetry(r.Context(), fetchURL, proxyRetryAttempts, proxyRetryDelay)
		if err != nil {
			a.Metrics.Inc("origin_failure")
			writeAppError(w, a.Logger.Warnf, apperr.Wrap(apperr.KindOriginFetch, "failed to fetch segment", err))
			return
		}
		body, contentType = result.Body, result.ContentType
		a.ByteCache.Set(fetchURL, body, contentType)
	}

	if contentType == "" {
		contentType = defaultSegmentContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(body)
}

// handleAd implements the ad half of spec §4.16: resolve the ad name
// to its creative URL via the configured provider, proxy its bytes,
// and fire any tracking beacons the provider attached to this
// segment's resolution.
func (a *api) handleAd(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := validSessionID(sid); err != nil {
		writeAppError(w, a.Logger.Warnf, err)
		return
	}

	adName := chi.URLParam(r, "adName")
	resolved, ok := a.AdProvider.ResolveSegmentWithTracking(adName, sid)
	if !ok {
		writeAppError(w, a.Logger.Warnf, apperr.New(apperr.KindOriginFetch, "ad creative could not be resolved"))
		return
	}

	result, err := a.HTTPClient.FetchWithRetry(r.Context(), resolved.URL, proxyRetryAttempts, proxyRetryDelay)
	if err != nil {
		a.Metrics.Inc("origin_failure")
		writeAppError(w, a.Logger.Warnf, apperr.Wrap(apperr.KindOriginFetch, "failed to fetch ad creative", err))
		return
	}

	a.fireTracking(resolved.Tracking)

	contentType := result.ContentType
	if contentType == "" {
		contentType = defaultSegmentContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(result.Body)
}

// fireTracking dispatches impression beacons (once, on the ad's first
// segment) and any quartile/lifecycle events whose threshold this
// segment crosses, per spec §4.10. A nil info (the default for
// providers that don't track, e.g. static/slate) is a no-op.
func (a *api) fireTracking(t *model.AdTrackingInfo) {
	if t == nil {
		return
	}
	if t.SegmentIndex == 0 {
		for _, imp := range t.ImpressionURLs {
			tracking.FireBeacon(a.HTTPClient, a.Metrics, a.Logger, imp, "impression")
		}
	}
	fired := tracking.EventsForSegment(t.SegmentIndex, t.TotalSegments, t.TrackingEvents)
	for _, ev := range fired {
		tracking.FireBeacon(a.HTTPClient, a.Metrics, a.Logger, ev.URL, ev.Event)
	}
}
