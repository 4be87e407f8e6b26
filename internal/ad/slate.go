package ad

import (
	"context"
	"fmt"
	"strings"

	"github.com/streamops/stitcher/internal/model"
)

// SlateProvider fills an ad break with a looping slate asset, used
// both as a standalone provider and as the VAST provider's fallback
// when VAST resolution yields no usable creative.
type SlateProvider struct {
	SlateURL        string
	SegmentDuration float64
	SegmentCount    int
}

// NewSlateProvider constructs a SlateProvider with the §4.9.3 default
// segment_count of 10 when count <= 0.
func NewSlateProvider(slateURL string, segmentDuration float64, count int) *SlateProvider {
	if count <= 0 {
		count = 10
	}
	return &SlateProvider{SlateURL: strings.TrimSuffix(slateURL, "/"), SegmentDuration: segmentDuration, SegmentCount: count}
}

// FillDuration returns ceil(d/segment_duration) (at least 1) slate
// segments named "slate-seg-{i}.ts".
func (p *SlateProvider) FillDuration(durationSeconds float64) []model.AdSegment {
	n := segmentsNeeded(durationSeconds, p.SegmentDuration)
	segments := make([]model.AdSegment, 0, n)
	for i := 0; i < n; i++ {
		segments = append(segments, model.AdSegment{
			URI:             fmt.Sprintf("slate-seg-%d.ts", i),
			DurationSeconds: float32(p.SegmentDuration),
		})
	}
	return segments
}

var _ Provider = (*SlateProvider)(nil)

func (p *SlateProvider) GetAdSegments(_ context.Context, durationSeconds float64, _ string) []model.AdSegment {
	return p.FillDuration(durationSeconds)
}

// ResolveSegmentURL maps "slate-seg-{i}.ts" to the slate asset's
// i-mod-segment_count rendition.
func (p *SlateProvider) ResolveSegmentURL(adName string) (string, bool) {
	i, ok := parseSegIndex(adName)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s/out_%03d.ts", p.SlateURL, i%p.SegmentCount), true
}

func (p *SlateProvider) ResolveSegmentWithTracking(adName, _ string) (ResolvedSegment, bool) {
	return resolveWithTrackingDefault(p, adName)
}

func (p *SlateProvider) GetAdCreatives(ctx context.Context, durationSeconds float64, sessionID string) []model.AdCreative {
	return creativesFromSegmentsDefault(p.GetAdSegments(ctx, durationSeconds, sessionID))
}
