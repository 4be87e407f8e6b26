package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mogiioin/hls-m3u8/m3u8"

	"github.com/streamops/stitcher/internal/apperr"
	"github.com/streamops/stitcher/internal/config"
	"github.com/streamops/stitcher/internal/hls"
	"github.com/streamops/stitcher/internal/model"
)

const hlsContentType = "application/vnd.apple.mpegurl"

// handlePlaylist implements spec §4.13: fetch the origin playlist,
// parse it, detect ad breaks, interleave (SSAI) or inject
// Interstitials (SGAI), rewrite segment URLs, and serialize.
func (a *api) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := chi.URLParam(r, "sid")
	if err := validSessionID(sid); err != nil {
		writeAppError(w, a.Logger.Warnf, err)
		return
	}

	track := r.URL.Query().Get("track")
	if track == "" {
		track = "video"
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
		writeAppError(w, a.Logger.Warnf, apperr.Wrap(apperr.KindOriginFetch, "failed to fetch origin playlist", err))
		return
	}

	playlist, listType, err := hls.Parse(result.Body)
	if err != nil {
		writeAppError(w, a.Logger.Warnf, err)
		return
	}

	originBase := originBaseOf(origin)

	if listType == m3u8.MASTER {
		master := playlist.(*m3u8.MasterPlaylist)
		hls.RewriteMasterURLs(master, sid, a.Config.BaseURL, originBase)
		w.Header().Set("Content-Type", hlsContentType)
		w.Write(hls.Serialize(master))
		return
	}

	media := playlist.(*m3u8.MediaPlaylist)

	if track == "subtitles" {
		hls.RewriteContentURLs(media, sid, a.Config.BaseURL, originBase)
		w.Header().Set("Content-Type", hlsContentType)
		w.Write(hls.Serialize(media))
		return
	}

	breaks := hls.DetectAdBreaks(media)
	if len(breaks) > 0 {
		switch a.Config.StitchingMode {
		case config.ModeSGAI:
			hls.EnsureProgramDateTime(media)
			hls.InjectInterstitials(media, breaks, sid, a.Config.BaseURL)
		default:
			adsPerBreak := make([][]model.AdSegment, len(breaks))
			for i, b := range breaks {
				adsPerBreak[i] = a.AdProvider.GetAdSegments(ctx, float64(b.DurationSeconds), sid)
			}
			media = hls.InterleaveAds(media, breaks, adsPerBreak, sid, a.Config.BaseURL, a.Logger)
		}
	}

	hls.RewriteContentURLs(media, sid, a.Config.BaseURL, originBase)

	w.Header().Set("Content-Type", hlsContentType)
	w.Write(hls.Serialize(media))
}
