package ad

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/streamops/stitcher/internal/httpclient"
	"github.com/streamops/stitcher/internal/logger"
	"github.com/streamops/stitcher/internal/model"
	"github.com/streamops/stitcher/internal/vast"
)

const (
	maxWrapperDepth = 5
	vastTimeout     = 2 * time.Second
	vastRetryDelay  = 500 * time.Millisecond
	vastMaxAttempts = 2

	metricSlateFallback = "slate_fallback"
)

// resolvedAd is one creative resolved out of a (possibly nested) VAST
// response: its playable URL, linear duration, whether it is an HLS
// rendition, and the impression/tracking pixels collected across every
// wrapper level that led to it.
type resolvedAd struct {
	CreativeURL    string
	Duration       float64
	IsHLS          bool
	Impressions    []string
	TrackingEvents []model.TrackingEvent
	ErrorURL       string
}

// VastProvider fills ad breaks by requesting a VAST document from a
// configured endpoint, resolving wrapper chains, and falling back to
// slate when the endpoint yields nothing usable.
type VastProvider struct {
	Endpoint string
	client   *httpclient.Client
	cache    *creativeCache
	slate    *SlateProvider
	metrics  MetricsRecorder
	logger   logger.Logger
}

// MetricsRecorder lets the VAST provider surface a small set of named
// event counts (currently just slate_fallback) without depending on a
// concrete metrics implementation.
type MetricsRecorder interface {
	Inc(name string)
}

// NewVastProvider builds a VastProvider. slate may be nil, in which
// case an empty VAST response yields an empty ad list.
func NewVastProvider(endpoint string, client *httpclient.Client, slate *SlateProvider, metrics MetricsRecorder, sessionTTL time.Duration, log logger.Logger) *VastProvider {
	cache := newCreativeCache(sessionTTL, 10_000, log)
	cache.Start()
	return &VastProvider{
		Endpoint: endpoint,
		client:   client,
		cache:    cache,
		slate:    slate,
		metrics:  metrics,
		logger:   log,
	}
}

// Stop halts the provider's background cache sweep. Call once at
// process shutdown.
func (p *VastProvider) Stop() {
	p.cache.Stop()
}

// resolveEndpoint substitutes the [DURATION] and [CACHEBUSTING]
// macros into the configured VAST endpoint template.
func (p *VastProvider) resolveEndpoint(durationSeconds float64) string {
	url := strings.ReplaceAll(p.Endpoint, "[DURATION]", strconv.Itoa(int(durationSeconds)))
	url = strings.ReplaceAll(url, "[CACHEBUSTING]", strconv.FormatInt(time.Now().UnixMilli(), 10))
	return url
}

// fetchVast executes the VAST request (with retry) and resolves its
// ad tree — including any Wrapper chain — into a flat list of
// resolvedAd. depth > maxWrapperDepth aborts the recursion.
func (p *VastProvider) fetchVast(ctx context.Context, url string, depth int, sessionID string) ([]resolvedAd, bool) {
	if depth > maxWrapperDepth {
		p.logger.Warnf("ad: vast wrapper depth exceeded for session %s", sessionID)
		return nil, false
	}

	result, err := p.client.FetchWithRetry(ctx, url, vastMaxAttempts, vastRetryDelay)
	if err != nil {
		p.logger.Warnf("ad: vast fetch failed for session %s: %v", sessionID, err)
		return nil, false
	}

	resp, err := vast.Parse(result.Body)
	if err != nil {
		p.logger.Warnf("ad: vast parse failed for session %s: %v", sessionID, err)
		return nil, false
	}

	var resolved []resolvedAd
	for _, a := range resp.Ads {
		if a == nil {
			continue
		}
		if a.InLine != nil {
			for _, creative := range a.InLine.Creatives {
				if creative == nil || creative.Linear == nil {
					continue
				}
				best, ok := vast.SelectBestMediaFile(creative.Linear.MediaFiles)
				if !ok {
					continue
				}
				resolved = append(resolved, resolvedAd{
					CreativeURL:    best.TrimmedURL(),
					Duration:       creative.Linear.DurationSeconds(),
					IsHLS:          best.MimeType == "application/x-mpegURL",
					Impressions:    append([]string(nil), a.InLine.Impressions...),
					TrackingEvents: convertTrackingEvents(creative.Linear.TrackingEvents),
					ErrorURL:       a.InLine.ErrorURL,
				})
			}
		}
		if a.Wrapper != nil && a.Wrapper.AdTagURI != "" {
			nested, ok := p.fetchVast(ctx, a.Wrapper.AdTagURI, depth+1, sessionID)
			if ok {
				for i := range nested {
					nested[i].Impressions = append(append([]string(nil), a.Wrapper.Impressions...), nested[i].Impressions...)
					nested[i].TrackingEvents = append(convertTrackingEvents(a.Wrapper.TrackingEvents), nested[i].TrackingEvents...)
				}
				resolved = append(resolved, nested...)
			}
		}
	}

	return resolved, true
}

// convertTrackingEvents adapts the VAST package's TrackingEvent shape
// to the model package's, keeping internal/vast free of a model
// dependency.
func convertTrackingEvents(events []vast.TrackingEvent) []model.TrackingEvent {
	if len(events) == 0 {
		return nil
	}
	out := make([]model.TrackingEvent, 0, len(events))
	for _, e := range events {
		out = append(out, model.TrackingEvent{Event: e.Event, URL: e.URL})
	}
	return out
}

var _ Provider = (*VastProvider)(nil)

// GetAdSegments implements §4.9.2: fetch the VAST endpoint, emit one
// segment per resolved creative, or fall back to slate.
//
// TODO: every call names its segments "break-0-seg-{i}.ts" regardless
// of which ad break actually triggered it; a session with multiple
// concurrent breaks can collide on this cache key.
func (p *VastProvider) GetAdSegments(ctx context.Context, durationSeconds float64, sessionID string) []model.AdSegment {
	fetchCtx, cancel := context.WithTimeout(ctx, vastTimeout)
	defer cancel()

	ads, ok := p.fetchVast(fetchCtx, p.resolveEndpoint(durationSeconds), 0, sessionID)
	if !ok || len(ads) == 0 {
		if p.slate != nil {
			if p.metrics != nil {
				p.metrics.Inc(metricSlateFallback)
			}
			return p.slate.FillDuration(durationSeconds)
		}
		return nil
	}

	segments := make([]model.AdSegment, 0, len(ads))
	for i, a := range ads {
		name := fmt.Sprintf("break-0-seg-%d.ts", i)
		p.cache.Set(sessionID+":"+name, ResolvedCreative{
			CreativeURL:    a.CreativeURL,
			Duration:       a.Duration,
			IsHLS:          a.IsHLS,
			ImpressionURLs: a.Impressions,
			TrackingEvents: a.TrackingEvents,
			ErrorURL:       a.ErrorURL,
			TotalSegments:  uint32(len(ads)),
		})
		segments = append(segments, model.AdSegment{URI: name, DurationSeconds: float32(a.Duration)})
	}
	return segments
}

// ResolveSegmentURL maps a previously emitted ad_name back to its
// resolved creative URL, delegating slate-seg names to the slate
// fallback when configured.
func (p *VastProvider) ResolveSegmentURL(adName string) (string, bool) {
	if strings.HasPrefix(adName, "slate-seg-") {
		if p.slate == nil {
			return "", false
		}
		return p.slate.ResolveSegmentURL(adName)
	}

	entry, ok := p.cache.GetBySuffix(adName)
	if !ok {
		return "", false
	}
	return entry.CreativeURL, true
}

// ResolveSegmentWithTracking surfaces the impression/quartile beacons
// collected from the VAST response alongside the resolved URL; slate
// fallback segments carry none, matching the default behavior.
func (p *VastProvider) ResolveSegmentWithTracking(adName, sessionID string) (ResolvedSegment, bool) {
	if strings.HasPrefix(adName, "slate-seg-") {
		return resolveWithTrackingDefault(p, adName)
	}

	entry, ok := p.cache.GetBySuffix(adName)
	if !ok {
		return ResolvedSegment{}, false
	}

	index, _ := parseSegIndex(adName)
	return ResolvedSegment{
		URL: entry.CreativeURL,
		Tracking: &model.AdTrackingInfo{
			ImpressionURLs: entry.ImpressionURLs,
			TrackingEvents: entry.TrackingEvents,
			ErrorURL:       entry.ErrorURL,
			TotalSegments:  entry.TotalSegments,
			SegmentIndex:   uint32(index),
		},
	}, true
}

// GetAdCreatives overrides the package default: an AdSegment.URI here
// is the opaque "break-{b}-seg-{i}.ts" proxy name, not a playable URL,
// so each one is resolved back to its real VAST/slate creative URL
// before being handed to the Interstitials asset-list response.
func (p *VastProvider) GetAdCreatives(ctx context.Context, durationSeconds float64, sessionID string) []model.AdCreative {
	segments := p.GetAdSegments(ctx, durationSeconds, sessionID)
	creatives := make([]model.AdCreative, 0, len(segments))
	for _, s := range segments {
		url, ok := p.ResolveSegmentURL(s.URI)
		if !ok {
			continue
		}
		creatives = append(creatives, model.AdCreative{URI: url, DurationSeconds: float64(s.DurationSeconds)})
	}
	return creatives
}
