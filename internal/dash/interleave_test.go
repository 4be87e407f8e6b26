package dash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamops/stitcher/internal/model"
)

func sampleMPD() *MPD {
	return &MPD{
		Periods: []Period{
			{
				ID: "p0",
				Sets: []AdaptationSet{
					{
						ID:          "v0",
						ContentType: "video",
						MimeType:    "video/mp4",
						Representations: []Representation{
							{ID: "v0-rep", Bandwidth: 2_000_000},
						},
					},
					{
						ID:          "a0",
						ContentType: "audio",
						MimeType:    "audio/mp4",
						Representations: []Representation{
							{ID: "a0-rep", Bandwidth: 128_000},
						},
					},
				},
			},
			{ID: "p1"},
		},
	}
}

func TestInterleaveAdsMpd_InsertsPeriodAfterSignalPeriod(t *testing.T) {
	m := sampleMPD()
	breaks := []DashAdBreak{{PeriodIndex: 0, PeriodID: "p0", Duration: 20, PresentationTime: 0}}
	ads := [][]model.AdSegment{
		{{URI: "a", DurationSeconds: 10}, {URI: "b", DurationSeconds: 10}},
	}

	out := InterleaveAdsMpd(m, breaks, ads, "sess", "https://stitcher.example.com")

	require.Len(t, out.Periods, 3)
	assert.Equal(t, "p0", out.Periods[0].ID)
	assert.Equal(t, "ad-0", out.Periods[1].ID)
	assert.Equal(t, "p1", out.Periods[2].ID)
	assert.Equal(t, "PT20S", out.Periods[1].Duration)
}

func TestInterleaveAdsMpd_DurationSumsSegmentDurations(t *testing.T) {
	m := sampleMPD()
	breaks := []DashAdBreak{{PeriodIndex: 0, PeriodID: "p0", Duration: 30}}
	ads := [][]model.AdSegment{
		{{URI: "a", DurationSeconds: 10.5}, {URI: "b", DurationSeconds: 10}, {URI: "c", DurationSeconds: 9.5}},
	}

	out := InterleaveAdsMpd(m, breaks, ads, "sess", "https://stitcher.example.com")
	assert.Equal(t, "PT30S", out.Periods[1].Duration)
}

func TestInterleaveAdsMpd_MirrorsAdaptationSets(t *testing.T) {
	m := sampleMPD()
	breaks := []DashAdBreak{{PeriodIndex: 0, PeriodID: "p0", Duration: 10}}
	ads := [][]model.AdSegment{{{URI: "a", DurationSeconds: 10}}}

	out := InterleaveAdsMpd(m, breaks, ads, "sess", "https://stitcher.example.com")

	adPeriod := out.Periods[1]
	require.Len(t, adPeriod.Sets, 2)
	assert.Equal(t, "video", adPeriod.Sets[0].ContentType)
	assert.Equal(t, "audio", adPeriod.Sets[1].ContentType)
	require.Len(t, adPeriod.Sets[0].Representations, 1)
	assert.Equal(t, 2_000_000, adPeriod.Sets[0].Representations[0].Bandwidth)
	require.NotNil(t, adPeriod.Sets[0].Representations[0].SegmentList)
	assert.Equal(t, "https://stitcher.example.com/stitch/sess/ad/break-0-seg-0.ts",
		adPeriod.Sets[0].Representations[0].SegmentList.SegmentURLs[0].Media)
}

func TestInterleaveAdsMpd_SkipsBreakWithNoAds(t *testing.T) {
	m := sampleMPD()
	breaks := []DashAdBreak{{PeriodIndex: 0, PeriodID: "p0", Duration: 10}}
	ads := [][]model.AdSegment{{}}

	out := InterleaveAdsMpd(m, breaks, ads, "sess", "https://stitcher.example.com")
	assert.Len(t, out.Periods, 2)
}

func TestInterleaveAdsMpd_FallbackWhenContentPeriodHasNoSets(t *testing.T) {
	m := &MPD{Periods: []Period{{ID: "p0"}}}
	breaks := []DashAdBreak{{PeriodIndex: 0, PeriodID: "p0", Duration: 10}}
	ads := [][]model.AdSegment{{{URI: "a", DurationSeconds: 10}}}

	out := InterleaveAdsMpd(m, breaks, ads, "sess", "https://stitcher.example.com")

	require.Len(t, out.Periods, 2)
	require.Len(t, out.Periods[1].Sets, 1)
	assert.Equal(t, "video/mp4", out.Periods[1].Sets[0].MimeType)
	assert.Equal(t, defaultBandwidth, out.Periods[1].Sets[0].Representations[0].Bandwidth)
}

func TestInterleaveAdsMpd_ReverseOrderPreservesEarlierIndices(t *testing.T) {
	m := &MPD{Periods: []Period{{ID: "p0"}, {ID: "p1"}, {ID: "p2"}}}
	breaks := []DashAdBreak{
		{PeriodIndex: 0, PeriodID: "p0", Duration: 5},
		{PeriodIndex: 2, PeriodID: "p2", Duration: 5},
	}
	ads := [][]model.AdSegment{
		{{URI: "a", DurationSeconds: 5}},
		{{URI: "b", DurationSeconds: 5}},
	}

	out := InterleaveAdsMpd(m, breaks, ads, "sess", "https://stitcher.example.com")

	require.Len(t, out.Periods, 5)
	ids := []string{out.Periods[0].ID, out.Periods[1].ID, out.Periods[2].ID, out.Periods[3].ID, out.Periods[4].ID}
	assert.Equal(t, []string{"p0", "ad-0", "p1", "p2", "ad-1"}, ids)
}
