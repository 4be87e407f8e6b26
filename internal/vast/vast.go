// Package vast implements a parser for the subset of the IAB VAST 3.0
// tree this stitcher needs: InLine/Wrapper ad trees down to Linear
// creatives, their MediaFiles, and tracking events. The whole document
// is decoded in one encoding/xml Unmarshal call; it is not parsed as a
// stream.
package vast

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/streamops/stitcher/internal/apperr"
)

// VastResponse is the root <VAST> document.
type VastResponse struct {
	Version string    `xml:"version,attr"`
	Ads     []*VastAd `xml:"Ad"`
}

// VastAd is one <Ad> element, carrying either an InLine or a Wrapper
// but never both.
type VastAd struct {
	ID      string   `xml:"id,attr"`
	InLine  *InLine  `xml:"InLine"`
	Wrapper *Wrapper `xml:"Wrapper"`
}

// InLine is a terminal ad definition: it carries the creatives
// themselves rather than a redirect to another VAST document.
type InLine struct {
	AdSystem    string        `xml:"AdSystem"`
	AdTitle     string        `xml:"AdTitle"`
	Impressions []string      `xml:"Impression"`
	ErrorURL    string        `xml:"Error"`
	Creatives   []*Creative   `xml:"Creatives>Creative"`
}

// Wrapper redirects to another VAST document via AdTagURI.
type Wrapper struct {
	AdTagURI       string           `xml:"VASTAdTagURI"`
	Impressions    []string         `xml:"Impression"`
	TrackingEvents []TrackingEvent  `xml:"Creatives>Creative>Linear>TrackingEvents>Tracking"`
}

// Creative wraps a Linear ad unit; only Linear creatives are
// recognised, matching the §4.8 scope.
type Creative struct {
	ID     string  `xml:"id,attr"`
	Linear *Linear `xml:"Linear"`
}

// Linear is a pre-roll/mid-roll/post-roll video creative.
type Linear struct {
	DurationRaw    string          `xml:"Duration"`
	MediaFiles     []MediaFile     `xml:"MediaFiles>MediaFile"`
	TrackingEvents []TrackingEvent `xml:"TrackingEvents>Tracking"`
}

// DurationSeconds parses the VAST Duration field (HH:MM:SS or
// HH:MM:SS.mmm). A malformed value returns 0 per §4.8.
func (l *Linear) DurationSeconds() float64 {
	d, ok := parseDuration(l.DurationRaw)
	if !ok {
		return 0
	}
	return d
}

// MediaFile is one encoded rendition of a Linear creative.
type MediaFile struct {
	Delivery string `xml:"delivery,attr"`
	MimeType string `xml:"type,attr"`
	Width    int    `xml:"width,attr"`
	Height   int    `xml:"height,attr"`
	Bitrate  int    `xml:"bitrate,attr"`
	Codec    string `xml:"codec,attr"`
	URL      string `xml:",chardata"`
}

// TrimmedURL returns the MediaFile's URL with surrounding whitespace
// removed; CDATA content is unwrapped automatically by encoding/xml.
func (m MediaFile) TrimmedURL() string {
	return strings.TrimSpace(m.URL)
}

// TrackingEvent is one <Tracking event="..."> pixel.
type TrackingEvent struct {
	Event string `xml:"event,attr"`
	URL   string `xml:",chardata"`
}

// Parse decodes a raw VAST document. An empty <VAST>...</VAST> with no
// <Ad> children is valid and yields an empty Ads slice.
func Parse(data []byte) (*VastResponse, error) {
	var resp VastResponse
	if err := xml.Unmarshal(data, &resp); err != nil {
		return nil, apperr.Wrap(apperr.KindConversion, "failed to parse VAST response", err)
	}
	return &resp, nil
}

// SelectBestMediaFile implements §4.8's selection rule: prefer the
// first HLS rendition; otherwise the highest-bitrate progressive
// MP4; otherwise none.
func SelectBestMediaFile(files []MediaFile) (MediaFile, bool) {
	for _, f := range files {
		if f.MimeType == "application/x-mpegURL" {
			return f, true
		}
	}

	var best MediaFile
	found := false
	for _, f := range files {
		if f.Delivery != "progressive" || f.MimeType != "video/mp4" {
			continue
		}
		if !found || f.Bitrate > best.Bitrate {
			best = f
			found = true
		}
	}
	return best, found
}

// parseDuration parses HH:MM:SS or HH:MM:SS.mmm into seconds.
func parseDuration(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return 0, false
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, true
}
