package hls

import (
	"math"

	"github.com/mogiioin/hls-m3u8/m3u8"
)

// AdBreak describes one ad-insertion window detected within a media
// playlist's segment list. Always derived; never persisted.
type AdBreak struct {
	StartIndex      int
	EndIndex        int
	DurationSeconds float32
}

// DetectAdBreaks scans a media playlist's segments for SCTE-35
// CUE-OUT/CUE-OUT-CONT/CUE-IN signalling (decoded by the m3u8 codec
// into each segment's SCTE field) and returns one AdBreak per
// detected CUE-OUT…CUE-IN window.
//
// A duplicate CUE-OUT while a break is already open does not nest;
// CUE-OUT-CONT is observational only. A playlist that ends with an
// open break emits it closing at the segment count.
func DetectAdBreaks(p *m3u8.MediaPlaylist) []AdBreak {
	segments := p.GetAllSegments()

	var breaks []AdBreak
	open := false
	var startIndex int
	var duration float32

	for i, seg := range segments {
		if seg == nil || seg.SCTE == nil {
			continue
		}
		switch seg.SCTE.CueType {
		case m3u8.SCTE35Cue_Start:
			if open {
				continue
			}
			d := float32(seg.SCTE.Time)
			if math.IsNaN(float64(d)) || d < 0 {
				continue
			}
			open = true
			startIndex = i
			duration = d
		case m3u8.SCTE35Cue_Mid:
			// Observational only; the break's duration and start were
			// already captured at CUE-OUT.
		case m3u8.SCTE35Cue_End:
			if !open {
				continue
			}
			breaks = append(breaks, AdBreak{StartIndex: startIndex, EndIndex: i, DurationSeconds: duration})
			open = false
		}
	}

	if open {
		breaks = append(breaks, AdBreak{StartIndex: startIndex, EndIndex: len(segments), DurationSeconds: duration})
	}

	return breaks
}
