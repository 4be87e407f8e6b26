// Package hls implements HLS media- and master-playlist parsing and
// serialization (delegated to the mogiioin/hls-m3u8 codec), SCTE-35
// CUE-tag ad-break detection, SSAI segment interleaving, and SGAI
// (Interstitials) DateRange injection.
package hls

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/mogiioin/hls-m3u8/m3u8"

	"github.com/streamops/stitcher/internal/apperr"
)

// stitchMarker identifies a URI as already routed through the
// stitcher's segment proxy; such URIs are left untouched by
// RewriteContentURLs.
const stitchMarker = "/stitch/"

// Parse decodes a raw playlist document, returning either a
// *m3u8.MasterPlaylist or a *m3u8.MediaPlaylist depending on content.
func Parse(data []byte) (m3u8.Playlist, m3u8.ListType, error) {
	playlist, listType, err := m3u8.Decode(*bytes.NewBuffer(data), false)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindPlaylistParse, "failed to parse HLS playlist", err)
	}
	return playlist, listType, nil
}

// Serialize re-encodes a playlist to its text form.
func Serialize(p m3u8.Playlist) []byte {
	return p.Encode().Bytes()
}

// RewriteContentURLs rewrites every media-playlist segment URI that is
// not already stitcher-managed to route through
// {base_url}/stitch/{session_id}/segment/{segname}?origin={seg_origin}.
func RewriteContentURLs(p *m3u8.MediaPlaylist, sessionID, baseURL, originBase string) {
	base := strings.TrimSuffix(baseURL, "/")
	for _, seg := range p.GetAllSegments() {
		if seg == nil || strings.Contains(seg.URI, stitchMarker) {
			continue
		}
		segOrigin, segName := splitSegmentURI(seg.URI, originBase)
		seg.URI = fmt.Sprintf("%s/stitch/%s/segment/%s?origin=%s", base, sessionID, segName, url.QueryEscape(segOrigin))
	}
	p.ResetCache()
}

// splitSegmentURI implements the spec's seg_origin/segname derivation:
// an absolute URI is split at its last '/'; a relative URI is resolved
// against originBase in full.
func splitSegmentURI(uri, originBase string) (segOrigin, segName string) {
	if strings.HasPrefix(uri, "http") {
		idx := strings.LastIndex(uri, "/")
		if idx < 0 {
			return originBase, uri
		}
		return uri[:idx], uri[idx+1:]
	}
	return originBase, uri
}

// RewriteMasterURLs rewrites every variant and alternative-media URI
// in a master playlist to route through the stitcher's playlist proxy.
func RewriteMasterURLs(p *m3u8.MasterPlaylist, sessionID, baseURL, originBase string) {
	base := strings.TrimSuffix(baseURL, "/")

	for _, v := range p.Variants {
		if v.URI == "" {
			continue
		}
		absolute := resolveAbsolute(v.URI, originBase)
		v.URI = fmt.Sprintf("%s/stitch/%s/playlist.m3u8?origin=%s", base, sessionID, url.QueryEscape(absolute))
	}

	for _, alt := range p.GetAllAlternatives() {
		if alt.URI == "" {
			continue
		}
		absolute := resolveAbsolute(alt.URI, originBase)
		rewritten := fmt.Sprintf("%s/stitch/%s/playlist.m3u8?origin=%s", base, sessionID, url.QueryEscape(absolute))
		switch strings.ToUpper(alt.Type) {
		case "SUBTITLES":
			rewritten += "&track=subtitles"
		case "AUDIO":
			rewritten += "&track=audio"
		}
		alt.URI = rewritten
	}

	p.ResetCache()
}

func resolveAbsolute(uri, originBase string) string {
	if strings.HasPrefix(uri, "http") {
		return uri
	}
	return strings.TrimSuffix(originBase, "/") + "/" + strings.TrimPrefix(uri, "/")
}
