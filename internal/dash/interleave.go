package dash

import (
	"fmt"
	"strconv"

	"github.com/streamops/stitcher/internal/model"
)

// defaultBandwidth is used when a mirrored AdaptationSet's content
// Representation carries no usable bandwidth value.
const defaultBandwidth = 500_000

// InterleaveAdsMpd inserts one synthesized ad Period per break that has
// ads, walking breaks in reverse index order so that earlier breaks'
// indices stay valid while later ones are processed.
func InterleaveAdsMpd(m *MPD, breaks []DashAdBreak, ads [][]model.AdSegment, sessionID, baseURL string) *MPD {
	for i := len(breaks) - 1; i >= 0; i-- {
		b := breaks[i]
		if i >= len(ads) || len(ads[i]) == 0 {
			continue
		}

		adPeriod := buildAdPeriod(m, b, ads[i], i, sessionID, baseURL)

		insertAt := b.PeriodIndex + 1
		if insertAt > len(m.Periods) {
			insertAt = len(m.Periods)
		}
		m.Periods = append(m.Periods, Period{})
		copy(m.Periods[insertAt+1:], m.Periods[insertAt:])
		m.Periods[insertAt] = adPeriod
	}

	return m
}

func buildAdPeriod(m *MPD, b DashAdBreak, segs []model.AdSegment, breakIdx int, sessionID, baseURL string) Period {
	var totalDuration float64
	segmentURLs := make([]SegmentURL, 0, len(segs))
	for j, s := range segs {
		totalDuration += float64(s.DurationSeconds)
		segmentURLs = append(segmentURLs, SegmentURL{
			Media: fmt.Sprintf("%s/stitch/%s/ad/break-%d-seg-%d.ts", trimSlash(baseURL), sessionID, breakIdx, j),
		})
	}

	period := Period{
		ID:       fmt.Sprintf("ad-%d", breakIdx),
		Duration: formatISODuration(totalDuration),
	}

	var contentSets []AdaptationSet
	if b.PeriodIndex < len(m.Periods) {
		contentSets = m.Periods[b.PeriodIndex].Sets
	}

	if len(contentSets) == 0 {
		period.Sets = []AdaptationSet{
			fallbackAdaptationSet(segmentURLs),
		}
		return period
	}

	mirrored := make([]AdaptationSet, 0, len(contentSets))
	for _, cs := range contentSets {
		mirrored = append(mirrored, mirrorAdaptationSet(cs, segmentURLs))
	}
	period.Sets = mirrored
	return period
}

func fallbackAdaptationSet(segmentURLs []SegmentURL) AdaptationSet {
	return AdaptationSet{
		ContentType: "video",
		MimeType:    "video/mp4",
		Representations: []Representation{
			{
				ID:        "ad-fallback",
				Bandwidth: defaultBandwidth,
				SegmentList: &SegmentList{
					SegmentURLs: segmentURLs,
				},
			},
		},
	}
}

func mirrorAdaptationSet(content AdaptationSet, segmentURLs []SegmentURL) AdaptationSet {
	bandwidth := defaultBandwidth
	if len(content.Representations) > 0 && content.Representations[0].Bandwidth > 0 {
		bandwidth = content.Representations[0].Bandwidth
	}

	return AdaptationSet{
		ContentType: content.ContentType,
		MimeType:    content.MimeType,
		Lang:        content.Lang,
		Representations: []Representation{
			{
				ID:        fmt.Sprintf("%s-ad", content.ID),
				Bandwidth: bandwidth,
				SegmentList: &SegmentList{
					SegmentURLs: segmentURLs,
				},
			},
		},
	}
}

// formatISODuration renders a second count as an ISO-8601 duration
// (e.g. "PT30S", "PT5.5S"), the format Period.Duration requires.
func formatISODuration(seconds float64) string {
	if seconds == float64(int64(seconds)) {
		return fmt.Sprintf("PT%dS", int64(seconds))
	}
	s := strconv.FormatFloat(seconds, 'f', -1, 64)
	return fmt.Sprintf("PT%sS", s)
}

func trimSlash(s string) string {
	if len(s) > 0 && s[len(s)-1] == '/' {
		return s[:len(s)-1]
	}
	return s
}
