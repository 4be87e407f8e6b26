package hls

import (
	"testing"

	"github.com/mogiioin/hls-m3u8/m3u8"
	"github.com/stretchr/testify/require"
)

func parseMedia(t *testing.T, text string) *m3u8.MediaPlaylist {
	t.Helper()
	p, listType, err := Parse([]byte(text))
	require.NoError(t, err)
	require.Equal(t, m3u8.MEDIA, listType)
	return p.(*m3u8.MediaPlaylist)
}

const elevenSegmentPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:6.000,
seg0.ts
#EXTINF:6.000,
seg1.ts
#EXTINF:6.000,
seg2.ts
#EXTINF:6.000,
seg3.ts
#EXTINF:6.000,
seg4.ts
#EXT-X-CUE-OUT:30
#EXTINF:6.000,
seg5.ts
#EXT-X-CUE-OUT-CONT:ElapsedTime=6.000,Duration=30.000
#EXTINF:6.000,
seg6.ts
#EXT-X-CUE-OUT-CONT:ElapsedTime=12.000,Duration=30.000
#EXTINF:6.000,
seg7.ts
#EXT-X-CUE-IN
#EXTINF:6.000,
seg8.ts
#EXTINF:6.000,
seg9.ts
#EXTINF:6.000,
seg10.ts
#EXT-X-ENDLIST
`

func TestDetectAdBreaks_SingleBreak(t *testing.T) {
	p := parseMedia(t, elevenSegmentPlaylist)

	breaks := DetectAdBreaks(p)
	require.Len(t, breaks, 1)
	require.Equal(t, 5, breaks[0].StartIndex)
	require.Equal(t, 8, breaks[0].EndIndex)
	require.InDelta(t, 30.0, breaks[0].DurationSeconds, 0.001)
}

func TestDetectAdBreaks_NoBreaksWhenNoCues(t *testing.T) {
	p := parseMedia(t, `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXTINF:6.000,
seg0.ts
#EXTINF:6.000,
seg1.ts
#EXT-X-ENDLIST
`)
	require.Empty(t, DetectAdBreaks(p))
}

func TestDetectAdBreaks_DuplicateCueOutDoesNotNest(t *testing.T) {
	p := parseMedia(t, `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXT-X-CUE-OUT:30
#EXTINF:6.000,
seg0.ts
#EXT-X-CUE-OUT:30
#EXTINF:6.000,
seg1.ts
#EXT-X-CUE-IN
#EXTINF:6.000,
seg2.ts
#EXT-X-ENDLIST
`)
	breaks := DetectAdBreaks(p)
	require.Len(t, breaks, 1)
	require.Equal(t, 0, breaks[0].StartIndex)
	require.Equal(t, 2, breaks[0].EndIndex)
}

func TestDetectAdBreaks_OpenBreakClosesAtEnd(t *testing.T) {
	p := parseMedia(t, `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXT-X-CUE-OUT:12
#EXTINF:6.000,
seg0.ts
#EXTINF:6.000,
seg1.ts
#EXT-X-ENDLIST
`)
	breaks := DetectAdBreaks(p)
	require.Len(t, breaks, 1)
	require.Equal(t, 0, breaks[0].StartIndex)
	require.Equal(t, 2, breaks[0].EndIndex)
}
