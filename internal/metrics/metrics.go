// Package metrics holds small in-process atomic counters for slate
// fallbacks, beacon failures, origin failures and session evictions.
// Snapshot reads them; no HTTP endpoint or log line exposes them.
package metrics

import "sync/atomic"

// Counters is a fixed set of named atomic counters. Zero value is
// ready to use.
type Counters struct {
	slateFallback  atomic.Int64
	beaconFailure  atomic.Int64
	originFailure  atomic.Int64
	sessionEvicted atomic.Int64
}

// Inc increments the counter for name. Unknown names are ignored
// rather than panicking, since callers pass string constants from
// several packages.
func (c *Counters) Inc(name string) {
	switch name {
	case "slate_fallback":
		c.slateFallback.Add(1)
	case "beacon_failure":
		c.beaconFailure.Add(1)
	case "origin_failure":
		c.originFailure.Add(1)
	case "session_evicted":
		c.sessionEvicted.Add(1)
	}
}

// Snapshot is a point-in-time read of every counter, suitable for
// embedding in a /health response.
type Snapshot struct {
	SlateFallback  int64 `json:"slate_fallback"`
	BeaconFailure  int64 `json:"beacon_failure"`
	OriginFailure  int64 `json:"origin_failure"`
	SessionEvicted int64 `json:"session_evicted"`
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		SlateFallback:  c.slateFallback.Load(),
		BeaconFailure:  c.beaconFailure.Load(),
		OriginFailure:  c.originFailure.Load(),
		SessionEvicted: c.sessionEvicted.Load(),
	}
}
