package api

import "net/http"

// demoPlaylist is a static fixture matching the S1/S2 end-to-end
// scenarios: eleven segments, a 30s CUE-OUT opening at segment index
// 5, CUE-OUT-CONT continuations at 6 and 7, and a CUE-IN closing the
// break at 8.
const demoPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:10.0,
seg0.ts
#EXTINF:10.0,
seg1.ts
#EXTINF:10.0,
seg2.ts
#EXTINF:10.0,
seg3.ts
#EXTINF:10.0,
seg4.ts
#EXT-X-CUE-OUT:30
#EXTINF:10.0,
seg5.ts
#EXT-X-CUE-OUT-CONT
#EXTINF:10.0,
seg6.ts
#EXT-X-CUE-OUT-CONT
#EXTINF:10.0,
seg7.ts
#EXT-X-CUE-IN
#EXTINF:10.0,
seg8.ts
#EXTINF:10.0,
seg9.ts
#EXTINF:10.0,
seg10.ts
#EXT-X-ENDLIST
`

// demoManifest is a static fixture matching the S4 scenario: two
// content Periods, the first carrying an EventStream signalling a
// 30-second SCTE-35 splice at presentation time 50.
const demoManifest = `<?xml version="1.0" encoding="UTF-8"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static" profiles="urn:mpeg:dash:profile:isoff-on-demand:2011" minBufferTime="PT2S">
  <Period id="content-0" duration="PT60S">
    <EventStream schemeIdUri="urn:scte:scte35:2013:xml" timescale="1">
      <Event presentationTime="50" duration="30" id="1"/>
    </EventStream>
    <AdaptationSet contentType="video" mimeType="video/mp4" segmentAlignment="true">
      <SegmentTemplate media="$RepresentationID$/$Number$.m4s" initialization="$RepresentationID$/init.mp4" timescale="1" startNumber="1"/>
      <Representation id="v0" bandwidth="2000000" codecs="avc1.4d401f" width="1280" height="720"/>
    </AdaptationSet>
    <AdaptationSet contentType="audio" mimeType="audio/mp4" lang="en">
      <SegmentTemplate media="$RepresentationID$/$Number$.m4s" initialization="$RepresentationID$/init.mp4" timescale="1" startNumber="1"/>
      <Representation id="a0" bandwidth="128000" codecs="mp4a.40.2"/>
    </AdaptationSet>
  </Period>
  <Period id="content-1" duration="PT60S">
    <AdaptationSet contentType="video" mimeType="video/mp4" segmentAlignment="true">
      <SegmentTemplate media="$RepresentationID$/$Number$.m4s" initialization="$RepresentationID$/init.mp4" timescale="1" startNumber="1"/>
      <Representation id="v0" bandwidth="2000000" codecs="avc1.4d401f" width="1280" height="720"/>
    </AdaptationSet>
    <AdaptationSet contentType="audio" mimeType="audio/mp4" lang="en">
      <SegmentTemplate media="$RepresentationID$/$Number$.m4s" initialization="$RepresentationID$/init.mp4" timescale="1" startNumber="1"/>
      <Representation id="a0" bandwidth="128000" codecs="mp4a.40.2"/>
    </AdaptationSet>
  </Period>
</MPD>
`

func (a *api) handleDemoPlaylist(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", hlsContentType)
	w.Write([]byte(demoPlaylist))
}

func (a *api) handleDemoManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", dashContentType)
	w.Write([]byte(demoManifest))
}
