// Package tracking implements VAST quartile threshold-crossing logic
// and best-effort beacon dispatch for ad segment playback (§4.10).
package tracking

import (
	"time"

	"github.com/streamops/stitcher/internal/httpclient"
	"github.com/streamops/stitcher/internal/logger"
	"github.com/streamops/stitcher/internal/model"
)

// beaconTimeout bounds how long a fire-and-forget tracking beacon is
// allowed to hang before being abandoned.
const beaconTimeout = 2 * time.Second

// MetricsRecorder lets the tracking engine surface beacon-failure
// counts without depending on a concrete metrics implementation.
type MetricsRecorder interface {
	Inc(name string)
}

const metricBeaconFailure = "beacon_failure"

// EventsForSegment selects which of an ad's tracking events should
// fire as playback reaches segmentIndex out of totalSegments,
// including start/complete lifecycle events alongside VAST quartiles.
func EventsForSegment(segmentIndex, totalSegments uint32, events []model.TrackingEvent) []model.TrackingEvent {
	if totalSegments == 0 {
		return nil
	}

	progress := progressAt(segmentIndex, totalSegments)
	prevProgress := prevProgressAt(segmentIndex, totalSegments)

	var fired []model.TrackingEvent
	for _, e := range events {
		if shouldFire(e.Event, segmentIndex, totalSegments, progress, prevProgress) {
			fired = append(fired, e)
		}
	}
	return fired
}

func progressAt(segmentIndex, totalSegments uint32) float64 {
	if totalSegments == 1 {
		return 1.0
	}
	return float64(segmentIndex) / float64(totalSegments-1)
}

func prevProgressAt(segmentIndex, totalSegments uint32) float64 {
	if totalSegments == 1 {
		return -1.0
	}
	if segmentIndex == 0 {
		return 0.0
	}
	return float64(segmentIndex-1) / float64(totalSegments-1)
}

func shouldFire(event string, segmentIndex, totalSegments uint32, progress, prevProgress float64) bool {
	switch event {
	case "start":
		return segmentIndex == 0
	case "firstQuartile":
		return progress >= 0.25 && prevProgress < 0.25
	case "midpoint":
		return progress >= 0.50 && prevProgress < 0.50
	case "thirdQuartile":
		return progress >= 0.75 && prevProgress < 0.75
	case "complete":
		return segmentIndex == totalSegments-1
	default:
		return false
	}
}

// FireBeacon dispatches a best-effort GET to url in the background.
// Failures are logged and counted, never returned — playback must
// never stall on a tracking pixel.
func FireBeacon(client *httpclient.Client, metrics MetricsRecorder, log logger.Logger, url, eventName string) {
	if url == "" {
		return
	}
	log.Debugf("tracking: firing %s beacon to %s", eventName, url)
	client.FireAndForgetWithCallback(url, beaconTimeout, func(err error) {
		log.Warnf("tracking: %s beacon failed for %s: %v", eventName, url, err)
		if metrics != nil {
			metrics.Inc(metricBeaconFailure)
		}
	})
}
