package dash

import (
	"strings"

	"github.com/streamops/stitcher/internal/logger"
)

// SignalType identifies the kind of SCTE-35 splice signal a break was
// derived from. The stitcher only distinguishes splice-insert breaks;
// time-signal variants are not modeled separately since the binary
// payload is never decoded.
type SignalType string

// SpliceInsert is the only signal type DASH EventStream detection
// produces.
const SpliceInsert SignalType = "SpliceInsert"

// DashAdBreak describes one ad-insertion opportunity found in an MPD's
// EventStreams.
type DashAdBreak struct {
	PeriodIndex      int
	PeriodID         string
	Duration         float64
	PresentationTime float64
	SignalType       SignalType
}

const scte35SchemePrefix = "urn:scte:scte35:"

// DetectDashAdBreaks scans every Period's EventStreams for SCTE-35
// scheme events and returns one break per valid Event.
func DetectDashAdBreaks(m *MPD, log logger.Logger) []DashAdBreak {
	var breaks []DashAdBreak

	for pi := range m.Periods {
		p := &m.Periods[pi]
		for _, es := range p.EventStreams {
			if !strings.HasPrefix(es.SchemeIDURI, scte35SchemePrefix) {
				continue
			}
			timescale := es.Timescale
			if timescale == 0 {
				timescale = 1
			}
			for _, ev := range es.Events {
				if ev.Duration == nil {
					continue
				}
				presentationTime := float64(ev.PresentationTime) / float64(timescale)
				duration := float64(*ev.Duration) / float64(timescale)

				if duration <= 0 || duration > 600 || presentationTime < 0 {
					if log != nil {
						log.Warnf("dash: skipping out-of-range event in period %s: duration=%v presentation_time=%v", p.ID, duration, presentationTime)
					}
					continue
				}

				breaks = append(breaks, DashAdBreak{
					PeriodIndex:      pi,
					PeriodID:         p.ID,
					Duration:         duration,
					PresentationTime: presentationTime,
					SignalType:       SpliceInsert,
				})
			}
		}
	}

	return breaks
}
