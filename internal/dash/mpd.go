// Package dash implements DASH MPD parsing, SCTE-35 ad-break
// detection, hierarchical BaseURL/SegmentTemplate URL rewriting, and
// ad-Period interleaving.
package dash

import "encoding/xml"

// MPD is the root element of a Media Presentation Description.
type MPD struct {
	XMLName               xml.Name  `xml:"MPD"`
	Xmlns                  string    `xml:"xmlns,attr,omitempty"`
	Type                   string    `xml:"type,attr"`
	Profiles               string    `xml:"profiles,attr"`
	MinimumUpdatePeriod    string    `xml:"minimumUpdatePeriod,attr,omitempty"`
	TimeShiftBufferDepth   string    `xml:"timeShiftBufferDepth,attr,omitempty"`
	AvailabilityStartTime  string    `xml:"availabilityStartTime,attr,omitempty"`
	PublishTime            string    `xml:"publishTime,attr,omitempty"`
	MaxSegmentDuration     string    `xml:"maxSegmentDuration,attr,omitempty"`
	MinBufferTime          string    `xml:"minBufferTime,attr"`
	BaseURLs               []BaseURL `xml:"BaseURL"`
	Periods                []Period  `xml:"Period"`
}

// BaseURL is a <BaseURL> element; only its text value is modeled and
// participates in the spec's hierarchical resolution. Attributes such
// as serviceLocation/byteRange are not kept and are dropped on
// re-serialization.
type BaseURL struct {
	Value string `xml:",chardata"`
}

// Period represents a media content period.
type Period struct {
	ID          string          `xml:"id,attr,omitempty"`
	Start       string          `xml:"start,attr,omitempty"`
	Duration    string          `xml:"duration,attr,omitempty"`
	BaseURLs    []BaseURL       `xml:"BaseURL"`
	EventStreams []EventStream  `xml:"EventStream"`
	Sets        []AdaptationSet `xml:"AdaptationSet"`
}

// EventStream carries SCTE-35 (or other scheme) signalling events.
type EventStream struct {
	SchemeIDURI string  `xml:"schemeIdUri,attr"`
	Timescale   uint64  `xml:"timescale,attr,omitempty"`
	Events      []Event `xml:"Event"`
}

// Event is a single signalled event within an EventStream.
type Event struct {
	PresentationTime uint64 `xml:"presentationTime,attr"`
	Duration         *uint64 `xml:"duration,attr"`
	ID               string `xml:"id,attr,omitempty"`
}

// AdaptationSet represents a set of interchangeable representations.
type AdaptationSet struct {
	ID               string           `xml:"id,attr,omitempty"`
	ContentType      string           `xml:"contentType,attr,omitempty"`
	Lang             string           `xml:"lang,attr,omitempty"`
	MimeType         string           `xml:"mimeType,attr,omitempty"`
	SegmentAlignment bool             `xml:"segmentAlignment,attr,omitempty"`
	StartWithSAP     int              `xml:"startWithSAP,attr,omitempty"`
	BaseURLs         []BaseURL        `xml:"BaseURL"`
	Representations  []Representation `xml:"Representation"`
	SegmentTemplate  *SegmentTemplate `xml:"SegmentTemplate"`
}

// Representation represents a specific media stream.
type Representation struct {
	ID                string           `xml:"id,attr"`
	Bandwidth         int              `xml:"bandwidth,attr"`
	Codecs            string           `xml:"codecs,attr,omitempty"`
	Width             int              `xml:"width,attr,omitempty"`
	Height            int              `xml:"height,attr,omitempty"`
	FrameRate         string           `xml:"frameRate,attr,omitempty"`
	AudioSamplingRate int              `xml:"audioSamplingRate,attr,omitempty"`
	BaseURLs          []BaseURL        `xml:"BaseURL"`
	SegmentTemplate   *SegmentTemplate `xml:"SegmentTemplate"`
	SegmentList       *SegmentList     `xml:"SegmentList"`
}

// SegmentTemplate defines the URL structure for templated segments.
type SegmentTemplate struct {
	Timescale      int             `xml:"timescale,attr,omitempty"`
	Initialization string          `xml:"initialization,attr,omitempty"`
	Media          string          `xml:"media,attr,omitempty"`
	StartNumber    *int            `xml:"startNumber,attr"`
	Timeline       SegmentTimeline `xml:"SegmentTimeline"`
}

// SegmentTimeline defines the timeline of segments.
type SegmentTimeline struct {
	Segments []S `xml:"S"`
}

// S represents a single segment or a series of segments.
type S struct {
	T uint64 `xml:"t,attr,omitempty"`
	D uint64 `xml:"d,attr"`
	R int    `xml:"r,attr,omitempty"`
}

// SegmentList is used for ad Periods synthesized by the interleaver:
// a flat, explicit list of segment URLs rather than a template.
type SegmentList struct {
	SegmentURLs []SegmentURL `xml:"SegmentURL"`
}

// SegmentURL is one entry of a SegmentList.
type SegmentURL struct {
	Media string `xml:"media,attr"`
}
