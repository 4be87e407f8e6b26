package tracking

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streamops/stitcher/internal/httpclient"
	"github.com/streamops/stitcher/internal/logger"
	"github.com/streamops/stitcher/internal/model"
)

func ev(names ...string) []model.TrackingEvent {
	out := make([]model.TrackingEvent, 0, len(names))
	for _, n := range names {
		out = append(out, model.TrackingEvent{Event: n, URL: "http://track.example.com/" + n})
	}
	return out
}

func names(events []model.TrackingEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Event)
	}
	return out
}

func TestEventsForSegment_ZeroTotalIsEmpty(t *testing.T) {
	require.Empty(t, EventsForSegment(0, 0, ev("start")))
}

func TestEventsForSegment_SingleSegmentFiresEverything(t *testing.T) {
	fired := EventsForSegment(0, 1, ev("start", "firstQuartile", "midpoint", "thirdQuartile", "complete"))
	require.ElementsMatch(t, []string{"start", "firstQuartile", "midpoint", "thirdQuartile", "complete"}, names(fired))
}

func TestEventsForSegment_TwoSegmentsCrossAllQuartilesOnSecond(t *testing.T) {
	first := EventsForSegment(0, 2, ev("start", "firstQuartile", "midpoint", "thirdQuartile", "complete"))
	require.ElementsMatch(t, []string{"start"}, names(first))

	second := EventsForSegment(1, 2, ev("start", "firstQuartile", "midpoint", "thirdQuartile", "complete"))
	require.ElementsMatch(t, []string{"firstQuartile", "midpoint", "thirdQuartile", "complete"}, names(second))
}

func TestEventsForSegment_MiddleSegmentOfManyFiresNothingNew(t *testing.T) {
	fired := EventsForSegment(2, 10, ev("start", "firstQuartile", "midpoint", "thirdQuartile", "complete"))
	require.Empty(t, fired)
}

func TestEventsForSegment_FirstQuartileCrossingFires(t *testing.T) {
	// 10 segments: progress at index 2 = 2/9 = 0.222, at index 3 = 3/9 = 0.333 -> crosses 0.25
	fired := EventsForSegment(3, 10, ev("firstQuartile"))
	require.Len(t, fired, 1)
	require.Equal(t, "firstQuartile", fired[0].Event)
}

func TestEventsForSegment_UnknownEventIgnored(t *testing.T) {
	fired := EventsForSegment(0, 1, ev("clickthrough"))
	require.Empty(t, fired)
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingMetrics) Inc(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[name]++
}

func (m *countingMetrics) get(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

func TestFireBeacon_SuccessDoesNotRecordFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	metrics := &countingMetrics{}
	client := httpclient.New(logger.NewLogger("error"))
	FireBeacon(client, metrics, logger.NewLogger("error"), srv.URL, "start")

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0, metrics.get(metricBeaconFailure))
}

func TestFireBeacon_FailureRecordsMetric(t *testing.T) {
	metrics := &countingMetrics{}
	client := httpclient.New(logger.NewLogger("error"))
	FireBeacon(client, metrics, logger.NewLogger("error"), "http://127.0.0.1:1/unreachable", "start")

	require.Eventually(t, func() bool {
		return metrics.get(metricBeaconFailure) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestFireBeacon_EmptyURLIsNoOp(t *testing.T) {
	metrics := &countingMetrics{}
	client := httpclient.New(logger.NewLogger("error"))
	FireBeacon(client, metrics, logger.NewLogger("error"), "", "start")
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, 0, metrics.get(metricBeaconFailure))
}
