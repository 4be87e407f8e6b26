// Package ad implements the ad-provider contract (§4.9): static slate
// fills, VAST resolution with wrapper-chasing and slate fallback, and
// plain slate. All providers translate a requested break duration into
// a list of proxy-routed AdSegments.
package ad

import (
	"context"

	"github.com/streamops/stitcher/internal/model"
)

// ResolvedSegment pairs a segment's playable URL with its tracking
// metadata, as returned by resolve_segment_with_tracking.
type ResolvedSegment struct {
	URL      string
	Tracking *model.AdTrackingInfo
}

// Provider is the common ad-provider contract. Every provider
// implementation fills an ad break of a requested duration with one or
// more AdSegments, and later resolves an individual ad segment's name
// back to a playable URL when the stitcher proxies that segment.
type Provider interface {
	// GetAdSegments fills durationSeconds worth of ad break for the
	// given session, returning the proxy-routed segment list.
	GetAdSegments(ctx context.Context, durationSeconds float64, sessionID string) []model.AdSegment

	// ResolveSegmentURL maps a previously emitted ad segment name (as
	// embedded in its proxy URL) back to its origin URL, or returns
	// false if the name is unknown.
	ResolveSegmentURL(adName string) (string, bool)

	// ResolveSegmentWithTracking is like ResolveSegmentURL but also
	// returns tracking metadata when the provider has any. The default
	// behavior (no tracking) is implemented by wrapping
	// ResolveSegmentURL; VAST overrides it to surface impressions and
	// quartile beacons.
	ResolveSegmentWithTracking(adName, sessionID string) (ResolvedSegment, bool)

	// GetAdCreatives returns the Interstitials (SGAI) asset-list view
	// of the same fill: one AdCreative per segment by default.
	GetAdCreatives(ctx context.Context, durationSeconds float64, sessionID string) []model.AdCreative
}

// resolveWithTrackingDefault implements the spec's default
// resolve_segment_with_tracking behavior (tracking = None) in terms
// of a provider's own ResolveSegmentURL.
func resolveWithTrackingDefault(p Provider, adName string) (ResolvedSegment, bool) {
	url, ok := p.ResolveSegmentURL(adName)
	if !ok {
		return ResolvedSegment{}, false
	}
	return ResolvedSegment{URL: url}, true
}

// creativesFromSegmentsDefault implements the spec's default
// get_ad_creatives behavior: map segments 1:1 to creatives, dropping
// tracking since asset-list creatives are full playable URLs.
func creativesFromSegmentsDefault(segments []model.AdSegment) []model.AdCreative {
	creatives := make([]model.AdCreative, 0, len(segments))
	for _, s := range segments {
		creatives = append(creatives, model.AdCreative{
			URI:             s.URI,
			DurationSeconds: float64(s.DurationSeconds),
		})
	}
	return creatives
}
