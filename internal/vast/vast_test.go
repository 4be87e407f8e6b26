package vast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const inlineVast = `<?xml version="1.0" encoding="UTF-8"?>
<VAST version="3.0">
  <Ad id="1">
    <InLine>
      <AdSystem>StreamOps</AdSystem>
      <AdTitle>Sample Ad</AdTitle>
      <Impression><![CDATA[http://track.example.com/imp]]></Impression>
      <Creatives>
        <Creative id="c1">
          <Linear>
            <Duration>00:00:15.500</Duration>
            <TrackingEvents>
              <Tracking event="start"><![CDATA[http://track.example.com/start]]></Tracking>
              <Tracking event="complete">http://track.example.com/complete</Tracking>
            </TrackingEvents>
            <MediaFiles>
              <MediaFile delivery="progressive" type="video/mp4" bitrate="500" width="640" height="360"><![CDATA[  http://cdn.example.com/ad-500.mp4  ]]></MediaFile>
              <MediaFile delivery="progressive" type="video/mp4" bitrate="2000" width="1280" height="720">http://cdn.example.com/ad-2000.mp4</MediaFile>
              <MediaFile delivery="streaming" type="application/x-mpegURL">http://cdn.example.com/ad.m3u8</MediaFile>
            </MediaFiles>
          </Linear>
        </Creative>
      </Creatives>
    </InLine>
  </Ad>
</VAST>`

const emptyVast = `<?xml version="1.0"?><VAST version="3.0"></VAST>`

const wrapperVast = `<?xml version="1.0"?>
<VAST version="3.0">
  <Ad id="2">
    <Wrapper>
      <VASTAdTagURI><![CDATA[http://downstream.example.com/vast]]></VASTAdTagURI>
      <Impression>http://track.example.com/wrapper-imp</Impression>
    </Wrapper>
  </Ad>
</VAST>`

func TestParse_InLineCreativeWithMultipleMediaFiles(t *testing.T) {
	resp, err := Parse([]byte(inlineVast))
	require.NoError(t, err)
	require.Equal(t, "3.0", resp.Version)
	require.Len(t, resp.Ads, 1)

	inline := resp.Ads[0].InLine
	require.NotNil(t, inline)
	require.Equal(t, "StreamOps", inline.AdSystem)
	require.Equal(t, []string{"http://track.example.com/imp"}, inline.Impressions)

	require.Len(t, inline.Creatives, 1)
	linear := inline.Creatives[0].Linear
	require.NotNil(t, linear)
	require.InDelta(t, 15.5, linear.DurationSeconds(), 0.001)
	require.Len(t, linear.MediaFiles, 3)
	require.Equal(t, "http://cdn.example.com/ad-500.mp4", linear.MediaFiles[0].TrimmedURL())
}

func TestParse_EmptyVastYieldsNoAds(t *testing.T) {
	resp, err := Parse([]byte(emptyVast))
	require.NoError(t, err)
	require.Empty(t, resp.Ads)
}

func TestParse_WrapperCarriesAdTagURI(t *testing.T) {
	resp, err := Parse([]byte(wrapperVast))
	require.NoError(t, err)
	require.Len(t, resp.Ads, 1)
	require.NotNil(t, resp.Ads[0].Wrapper)
	require.Equal(t, "http://downstream.example.com/vast", resp.Ads[0].Wrapper.AdTagURI)
}

func TestParse_MalformedXMLReturnsError(t *testing.T) {
	_, err := Parse([]byte("<VAST version=\"3.0\">"))
	require.Error(t, err)
}

func TestDurationSeconds_MalformedReturnsZero(t *testing.T) {
	l := &Linear{DurationRaw: "not-a-duration"}
	require.Equal(t, 0.0, l.DurationSeconds())
}

func TestSelectBestMediaFile_PrefersHLS(t *testing.T) {
	files := []MediaFile{
		{Delivery: "progressive", MimeType: "video/mp4", Bitrate: 2000},
		{Delivery: "streaming", MimeType: "application/x-mpegURL"},
	}
	best, ok := SelectBestMediaFile(files)
	require.True(t, ok)
	require.Equal(t, "application/x-mpegURL", best.MimeType)
}

func TestSelectBestMediaFile_HighestBitrateProgressiveWhenNoHLS(t *testing.T) {
	files := []MediaFile{
		{Delivery: "progressive", MimeType: "video/mp4", Bitrate: 500},
		{Delivery: "progressive", MimeType: "video/mp4", Bitrate: 2000},
		{Delivery: "progressive", MimeType: "video/webm", Bitrate: 9000},
	}
	best, ok := SelectBestMediaFile(files)
	require.True(t, ok)
	require.Equal(t, 2000, best.Bitrate)
}

func TestSelectBestMediaFile_NoneWhenNothingMatches(t *testing.T) {
	files := []MediaFile{
		{Delivery: "streaming", MimeType: "video/webm"},
	}
	_, ok := SelectBestMediaFile(files)
	require.False(t, ok)
}
