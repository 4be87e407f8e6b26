// Package model holds the small set of value types shared across the
// HLS, DASH, VAST and ad-provider packages, so none of them needs to
// import another's internals just to pass ad data around.
package model

// AdSegment is one physical ad segment, as produced by an ad provider
// and consumed by both interleavers.
type AdSegment struct {
	URI             string
	DurationSeconds float32
	Tracking        *AdTrackingInfo
}

// AdCreative describes one ad asset for the Interstitials asset list:
// a full playable URL rather than a stitcher-proxied segment.
type AdCreative struct {
	URI             string
	DurationSeconds float64
}

// TrackingEvent pairs a VAST quartile/lifecycle event name with its
// beacon URL.
type TrackingEvent struct {
	Event string
	URL   string
}

// AdTrackingInfo carries everything the tracking engine needs to fire
// beacons for one ad segment as playback reaches it.
type AdTrackingInfo struct {
	ImpressionURLs []string
	TrackingEvents []TrackingEvent
	ErrorURL       string
	TotalSegments  uint32
	SegmentIndex   uint32
}
