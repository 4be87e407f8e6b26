package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamops/stitcher/internal/apperr"
	"github.com/streamops/stitcher/internal/dash"
	"github.com/streamops/stitcher/internal/model"
)

const dashContentType = "application/dash+xml"

// handleManifest implements spec §4.14: the DASH analogue of
// handlePlaylist — fetch, parse, detect SCTE-35 EventStream signals,
// insert mirrored ad Periods, rewrite hierarchical BaseURLs and
// SegmentTemplates, serialize.
func (a *api) handleManifest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := chi.URLParam(r, "sid")
	if err := validSessionID(sid); err != nil {
		writeAppError(w, a.Logger.Warnf, err)
		return
	}

	origin, err := resolveOrigin(r.URL.Query().Get("origin"), a.Config.OriginURL)
	if err != nil {
		writeAppError(w, a.Logger.Warnf, err)
		return
	}

	if _, err := a.Sessions.GetOrCreate(ctx, sid, origin); err != nil {
		writeAppError(w, a.Logger.Errorf, apperr.Wrap(apperr.KindInternal, "session store error", err))
		return
	}
	_ = a.Sessions.Touch(ctx, sid)

	result, err := a.HTTPClient.FetchOnce(ctx, origin)
	if err != nil {
		a.Metrics.Inc("origin_failure")
		writeAppError(w, a.Logger.Warnf, apperr.Wrap(apperr.KindOriginFetch, "failed to fetch origin manifest", err))
		return
	}

	mpd, err := dash.ParseMPD(result.Body)
	if err != nil {
		writeAppError(w, a.Logger.Warnf, err)
		return
	}

	breaks := dash.DetectDashAdBreaks(mpd, a.Logger)
	if len(breaks) > 0 {
		adsPerBreak := make([][]model.AdSegment, len(breaks))
		for i, b := range breaks {
			adsPerBreak[i] = a.AdProvider.GetAdSegments(ctx, b.Duration, sid)
		}
		mpd = dash.InterleaveAdsMpd(mpd, breaks, adsPerBreak, sid, a.Config.BaseURL)
	}

	dash.RewriteDashURLs(mpd, sid, a.Config.BaseURL, originBaseOf(origin))

	body, err := dash.SerializeMPD(mpd)
	if err != nil {
		writeAppError(w, a.Logger.Errorf, apperr.Wrap(apperr.KindPlaylistModify, "failed to serialize MPD", err))
		return
	}

	w.Header().Set("Content-Type", dashContentType)
	w.Write(body)
}
