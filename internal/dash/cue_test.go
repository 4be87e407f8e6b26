package dash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/streamops/stitcher/internal/logger"
)

func u64(v uint64) *uint64 { return &v }

func TestDetectDashAdBreaks_ConvertsTimescale(t *testing.T) {
	m := &MPD{
		Periods: []Period{
			{
				ID: "p0",
				EventStreams: []EventStream{
					{
						SchemeIDURI: "urn:scte:scte35:2013:xml",
						Timescale:   90000,
						Events: []Event{
							{PresentationTime: 900000, Duration: u64(2700000), ID: "1"},
						},
					},
				},
			},
		},
	}

	breaks := DetectDashAdBreaks(m, logger.NewLogger("error"))
	assert.Len(t, breaks, 1)
	assert.Equal(t, 0, breaks[0].PeriodIndex)
	assert.Equal(t, "p0", breaks[0].PeriodID)
	assert.InDelta(t, 10.0, breaks[0].PresentationTime, 0.001)
	assert.InDelta(t, 30.0, breaks[0].Duration, 0.001)
	assert.Equal(t, SpliceInsert, breaks[0].SignalType)
}

func TestDetectDashAdBreaks_IgnoresNonScteScheme(t *testing.T) {
	m := &MPD{
		Periods: []Period{
			{
				EventStreams: []EventStream{
					{SchemeIDURI: "urn:mpeg:dash:event:2012", Events: []Event{{PresentationTime: 0, Duration: u64(10)}}},
				},
			},
		},
	}
	assert.Empty(t, DetectDashAdBreaks(m, logger.NewLogger("error")))
}

func TestDetectDashAdBreaks_SkipsMissingOrOutOfRangeDuration(t *testing.T) {
	m := &MPD{
		Periods: []Period{
			{
				EventStreams: []EventStream{
					{
						SchemeIDURI: "urn:scte:scte35:2013:xml",
						Timescale:   1,
						Events: []Event{
							{PresentationTime: 0},                // no duration: skipped
							{PresentationTime: 1, Duration: u64(0)},    // zero: skipped
							{PresentationTime: 2, Duration: u64(700)},  // > 600: skipped
							{PresentationTime: 3, Duration: u64(30)},   // valid
						},
					},
				},
			},
		},
	}
	breaks := DetectDashAdBreaks(m, logger.NewLogger("error"))
	assert.Len(t, breaks, 1)
	assert.InDelta(t, 3.0, breaks[0].PresentationTime, 0.001)
}

func TestDetectDashAdBreaks_DefaultTimescaleIsOne(t *testing.T) {
	m := &MPD{
		Periods: []Period{
			{
				EventStreams: []EventStream{
					{SchemeIDURI: "urn:scte:scte35:2013:xml", Events: []Event{{PresentationTime: 5, Duration: u64(15)}}},
				},
			},
		},
	}
	breaks := DetectDashAdBreaks(m, logger.NewLogger("error"))
	assert.InDelta(t, 5.0, breaks[0].PresentationTime, 0.001)
	assert.InDelta(t, 15.0, breaks[0].Duration, 0.001)
}
