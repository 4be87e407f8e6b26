package dash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSerializeMPD_RoundTrip(t *testing.T) {
	raw := []byte(`<?xml version="1.0"?>
<MPD type="static" profiles="urn:mpeg:dash:profile:isoff-on-demand:2011" minBufferTime="PT2S">
  <Period id="p0">
    <AdaptationSet contentType="video" mimeType="video/mp4">
      <Representation id="v0" bandwidth="1000000">
        <SegmentTemplate media="chunk-$Number$.m4s" initialization="init.mp4"/>
      </Representation>
    </AdaptationSet>
  </Period>
</MPD>`)

	m, err := ParseMPD(raw)
	require.NoError(t, err)
	assert.Equal(t, "static", m.Type)
	assert.Len(t, m.Periods, 1)

	out, err := SerializeMPD(m)
	require.NoError(t, err)
	assert.Contains(t, string(out), `type="static"`)
}

func TestParseMPD_InvalidXML(t *testing.T) {
	_, err := ParseMPD([]byte("not xml"))
	require.Error(t, err)
}

func TestRewriteDashURLs_HierarchicalBase(t *testing.T) {
	m := &MPD{
		BaseURLs: []BaseURL{{Value: "https://origin.example.com/content/"}},
		Periods: []Period{
			{
				BaseURLs: []BaseURL{{Value: "period1/"}},
				Sets: []AdaptationSet{
					{
						BaseURLs: []BaseURL{{Value: "video/"}},
						Representations: []Representation{
							{
								SegmentTemplate: &SegmentTemplate{
									Media:          "chunk-$Number$.m4s",
									Initialization: "init.mp4",
								},
							},
						},
					},
				},
			},
		},
	}

	RewriteDashURLs(m, "sess-1", "https://stitcher.example.com", "https://fallback.example.com")

	rep := m.Periods[0].Sets[0].Representations[0]
	assert.Contains(t, rep.SegmentTemplate.Media, "/stitch/sess-1/segment/chunk-$Number$.m4s?origin=")
	assert.Contains(t, rep.SegmentTemplate.Media, "video%2F")
	assert.Empty(t, m.BaseURLs)
	assert.Empty(t, m.Periods[0].BaseURLs)
	assert.Empty(t, m.Periods[0].Sets[0].BaseURLs)
}

func TestRewriteDashURLs_AbsoluteBaseReplaces(t *testing.T) {
	m := &MPD{
		Periods: []Period{
			{
				BaseURLs: []BaseURL{{Value: "https://cdn2.example.com/"}},
				Sets: []AdaptationSet{
					{
						Representations: []Representation{
							{SegmentTemplate: &SegmentTemplate{Media: "seg-$Number$.m4s"}},
						},
					},
				},
			},
		},
	}

	RewriteDashURLs(m, "sess-2", "https://stitcher.example.com", "https://origin.example.com")

	media := m.Periods[0].Sets[0].Representations[0].SegmentTemplate.Media
	assert.Contains(t, media, "origin=https%3A%2F%2Fcdn2.example.com")
}

func TestCompose(t *testing.T) {
	assert.Equal(t, "https://a.example.com/x", compose("https://a.example.com/x", ""))
	assert.Equal(t, "https://b.example.com/y", compose("https://a.example.com/x", "https://b.example.com/y"))
	assert.Equal(t, "https://a.example.com/x/y", compose("https://a.example.com/x", "y"))
	assert.Equal(t, "https://a.example.com/x/y", compose("https://a.example.com/x/", "/y"))
}
