package ad

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/streamops/stitcher/internal/model"
)

// StaticProvider fills every ad break with a fixed sequence of
// segments drawn from a single pre-encoded ad asset.
type StaticProvider struct {
	AdSourceURL     string
	SegmentDuration float64
	SegmentCount    int
}

// NewStaticProvider constructs a StaticProvider with the §4.9.1
// default segment_count of 10 when count <= 0.
func NewStaticProvider(adSourceURL string, segmentDuration float64, count int) *StaticProvider {
	if count <= 0 {
		count = 10
	}
	return &StaticProvider{AdSourceURL: strings.TrimSuffix(adSourceURL, "/"), SegmentDuration: segmentDuration, SegmentCount: count}
}

var _ Provider = (*StaticProvider)(nil)

func (p *StaticProvider) GetAdSegments(_ context.Context, durationSeconds float64, _ string) []model.AdSegment {
	n := segmentsNeeded(durationSeconds, p.SegmentDuration)
	segments := make([]model.AdSegment, 0, n)
	for i := 0; i < n; i++ {
		segments = append(segments, model.AdSegment{
			URI:             fmt.Sprintf("%s/ad-segment-%d.ts", p.AdSourceURL, i),
			DurationSeconds: float32(p.SegmentDuration),
		})
	}
	return segments
}

// ResolveSegmentURL parses ad_name of the form "break-{b}-seg-{i}.ts"
// and maps it to the static asset's i-mod-segment_count rendition.
func (p *StaticProvider) ResolveSegmentURL(adName string) (string, bool) {
	i, ok := parseSegIndex(adName)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s/out_%03d.ts", p.AdSourceURL, i%p.SegmentCount), true
}

func (p *StaticProvider) ResolveSegmentWithTracking(adName, _ string) (ResolvedSegment, bool) {
	return resolveWithTrackingDefault(p, adName)
}

func (p *StaticProvider) GetAdCreatives(ctx context.Context, durationSeconds float64, sessionID string) []model.AdCreative {
	return creativesFromSegmentsDefault(p.GetAdSegments(ctx, durationSeconds, sessionID))
}

// segmentsNeeded computes ceil(duration/segmentDuration), at least 1.
func segmentsNeeded(durationSeconds, segmentDuration float64) int {
	if segmentDuration <= 0 {
		return 1
	}
	n := int(math.Ceil(durationSeconds / segmentDuration))
	if n < 1 {
		n = 1
	}
	return n
}

// parseSegIndex extracts the segment index from an ad_name of the
// form "break-{b}-seg-{i}.ts" (or "slate-seg-{i}.ts"). Malformed
// input yields ok == false.
func parseSegIndex(adName string) (int, bool) {
	name := strings.TrimSuffix(adName, ".ts")
	idx := strings.LastIndex(name, "-seg-")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[idx+len("-seg-"):])
	if err != nil {
		return 0, false
	}
	return n, true
}
