package hls

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mogiioin/hls-m3u8/m3u8"
)

// syntheticEpoch is the fixed anchor used to synthesize
// EXT-X-PROGRAM-DATE-TIME values when a playlist carries none, so
// Interstitials DateRange start times have something to be computed
// against.
var syntheticEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// EnsureProgramDateTime assigns synthetic PDTs to every segment,
// starting at syntheticEpoch and advancing by each segment's
// duration, unless any segment already carries a PDT (in which case
// the playlist is left untouched).
func EnsureProgramDateTime(p *m3u8.MediaPlaylist) {
	segments := p.GetAllSegments()
	for _, seg := range segments {
		if seg != nil && !seg.ProgramDateTime.IsZero() {
			return
		}
	}

	t := syntheticEpoch
	for _, seg := range segments {
		if seg == nil {
			continue
		}
		seg.ProgramDateTime = t
		t = t.Add(time.Duration(seg.Duration * float64(time.Second)))
	}
	p.ResetCache()
}

// startDateAt walks back from index to the nearest segment carrying a
// non-zero PDT and accumulates segment durations forward to recover
// the effective program-date-time at index.
func startDateAt(segments []*m3u8.MediaSegment, index int) time.Time {
	anchor := index
	for anchor >= 0 && (segments[anchor] == nil || segments[anchor].ProgramDateTime.IsZero()) {
		anchor--
	}
	if anchor < 0 {
		return syntheticEpoch
	}

	t := segments[anchor].ProgramDateTime
	for i := anchor; i < index; i++ {
		if segments[i] != nil {
			t = t.Add(time.Duration(segments[i].Duration * float64(time.Second)))
		}
	}
	return t
}

// InjectInterstitials attaches a CLASS="com.apple.hls.interstitial"
// DateRange to the segment at each break's start index, pointing the
// player at the asset-list endpoint for that break, then strips every
// legacy CUE-OUT/CUE-OUT-CONT/CUE-IN tag from the playlist (they would
// otherwise confuse an interstitial-aware player).
func InjectInterstitials(p *m3u8.MediaPlaylist, breaks []AdBreak, sessionID, baseURL string) {
	segments := p.GetAllSegments()

	for i, b := range breaks {
		if b.StartIndex < 0 || b.StartIndex >= len(segments) || segments[b.StartIndex] == nil {
			continue
		}
		seg := segments[b.StartIndex]
		startDate := startDateAt(segments, b.StartIndex)
		assetListURL := fmt.Sprintf("%s/stitch/%s/asset-list/%d?dur=%g", trimSlash(baseURL), sessionID, i, b.DurationSeconds)

		tag := &dateRangeTag{
			id:           fmt.Sprintf("ad-break-%d", i),
			class:        "com.apple.hls.interstitial",
			startDate:    startDate,
			duration:     float64(b.DurationSeconds),
			assetListURL: assetListURL,
		}
		if seg.Custom == nil {
			seg.Custom = make(m3u8.CustomMap)
		}
		seg.Custom[tag.TagName()] = tag
	}

	for _, seg := range segments {
		if seg != nil {
			seg.SCTE = nil
		}
	}
	p.ResetCache()
}

// dateRangeTag renders the EXT-X-DATERANGE line for one Interstitials
// break as a segment-level CustomTag, since the m3u8 codec only
// serializes its own DateRange type at the end of the playlist rather
// than at the owning segment's position.
type dateRangeTag struct {
	id           string
	class        string
	startDate    time.Time
	duration     float64
	assetListURL string
}

func (t *dateRangeTag) TagName() string { return "#EXT-X-DATERANGE" }

func (t *dateRangeTag) Encode() *bytes.Buffer {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, `#EXT-X-DATERANGE:ID="%s",CLASS="%s",START-DATE="%s",DURATION=%s,X-ASSET-LIST="%s",X-RESUME-OFFSET=0,X-RESTRICT="SKIP,JUMP"`,
		t.id, t.class, t.startDate.Format(m3u8.DATETIME), formatDuration(t.duration), t.assetListURL)
	return buf
}

func (t *dateRangeTag) String() string {
	return t.Encode().String()
}

func formatDuration(d float64) string {
	return fmt.Sprintf("%g", d)
}
