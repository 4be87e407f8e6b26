package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// assetListAsset is one entry in the Interstitials asset-list JSON
// document. Field names are uppercased per the HLS Interstitials spec
// (spec §4.15); do not rename.
type assetListAsset struct {
	URI      string  `json:"URI"`
	Duration float64 `json:"DURATION"`
}

type assetListResponse struct {
	Assets []assetListAsset `json:"ASSETS"`
}

// handleAssetList implements spec §4.15: GET
// /stitch/{sid}/asset-list/{bid}?dur={duration}.
func (a *api) handleAssetList(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := validSessionID(sid); err != nil {
		writeAppError(w, a.Logger.Warnf, err)
		return
	}

	dur := 30.0
	if raw := r.URL.Query().Get("dur"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			dur = parsed
		}
	}

	creatives := a.AdProvider.GetAdCreatives(r.Context(), dur, sid)

	resp := assetListResponse{Assets: make([]assetListAsset, 0, len(creatives))}
	for _, c := range creatives {
		resp.Assets = append(resp.Assets, assetListAsset{URI: c.URI, Duration: c.DurationSeconds})
	}

	writeJSON(w, http.StatusOK, resp)
}
