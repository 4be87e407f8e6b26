package hls

import (
	"fmt"

	"github.com/mogiioin/hls-m3u8/m3u8"

	"github.com/streamops/stitcher/internal/logger"
	"github.com/streamops/stitcher/internal/model"
)

// InterleaveAds replaces the segments inside each ad break with the
// ads resolved for that break, producing a fresh media playlist.
// Precondition: len(breaks) == len(ads); on mismatch the input
// playlist is returned unchanged with a warning logged.
func InterleaveAds(p *m3u8.MediaPlaylist, breaks []AdBreak, ads [][]model.AdSegment, sessionID, baseURL string, log logger.Logger) *m3u8.MediaPlaylist {
	if len(breaks) != len(ads) {
		log.Warnf("hls: interleave called with %d breaks but %d ad lists, leaving playlist unchanged", len(breaks), len(ads))
		return p
	}

	segments := p.GetAllSegments()
	var out []*m3u8.MediaSegment
	cursor := 0

	for bi, b := range breaks {
		breakAds := ads[bi]

		out = append(out, segments[cursor:b.StartIndex]...)

		if len(breakAds) == 0 {
			out = append(out, segments[b.StartIndex:b.EndIndex]...)
			cursor = b.EndIndex
			continue
		}

		for ai, ad := range breakAds {
			out = append(out, &m3u8.MediaSegment{
				URI:           fmt.Sprintf("%s/stitch/%s/ad/break-%d-seg-%d.ts", trimSlash(baseURL), sessionID, bi, ai),
				Duration:      float64(ad.DurationSeconds),
				Title:         fmt.Sprintf("Ad Break %d", bi+1),
				Discontinuity: ai == 0,
			})
		}

		cursor = b.EndIndex
		if cursor < len(segments) {
			next := *segments[cursor]
			next.Discontinuity = true
			out = append(out, &next)
			cursor++
		}
	}

	out = append(out, segments[cursor:]...)

	return rebuildMediaPlaylist(p, out)
}

// rebuildMediaPlaylist constructs a new MediaPlaylist carrying the
// given segment order and the source playlist's header fields. A
// brand-new playlist is required because the m3u8 codec's media
// playlist is a fixed-capacity ring buffer sized at construction.
func rebuildMediaPlaylist(src *m3u8.MediaPlaylist, segments []*m3u8.MediaSegment) *m3u8.MediaPlaylist {
	capacity := uint(len(segments))
	if capacity == 0 {
		capacity = 1
	}
	out, _ := m3u8.NewMediaPlaylist(0, capacity)
	out.TargetDuration = src.TargetDuration
	out.SeqNo = src.SeqNo
	out.MediaType = src.MediaType
	out.Key = src.Key
	out.Map = src.Map

	for _, seg := range segments {
		_ = out.AppendSegment(seg)
	}
	if src.Closed {
		out.Close()
	}
	return out
}

func trimSlash(s string) string {
	if len(s) > 0 && s[len(s)-1] == '/' {
		return s[:len(s)-1]
	}
	return s
}
