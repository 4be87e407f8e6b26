package dash

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/streamops/stitcher/internal/apperr"
)

// ParseMPD decodes a raw MPD document.
func ParseMPD(data []byte) (*MPD, error) {
	var m MPD
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, apperr.Wrap(apperr.KindMpdParse, "failed to parse MPD", err)
	}
	return &m, nil
}

// SerializeMPD re-encodes an MPD, preserving the standard XML prolog.
func SerializeMPD(m *MPD) ([]byte, error) {
	body, err := xml.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConversion, "failed to serialize MPD", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// compose resolves a relative reference against a parent base per the
// spec's hierarchical BaseURL rule.
func compose(parentBase, relative string) string {
	if relative == "" {
		return parentBase
	}
	if strings.HasPrefix(relative, "http") {
		return relative
	}
	return strings.TrimSuffix(parentBase, "/") + "/" + strings.TrimPrefix(relative, "/")
}

// levelBase returns the first BaseURL's value composed against
// parentBase, and clears the list as the spec requires.
func levelBase(urls *[]BaseURL, parentBase string) string {
	base := parentBase
	if len(*urls) > 0 {
		base = compose(parentBase, (*urls)[0].Value)
	}
	*urls = nil
	return base
}

// RewriteDashURLs walks the MPD's BaseURL hierarchy and rewrites every
// SegmentTemplate's media/initialization attributes to route through
// the stitcher's segment proxy.
func RewriteDashURLs(m *MPD, sessionID, baseURL, originBase string) {
	mpdBase := levelBase(&m.BaseURLs, originBase)

	for pi := range m.Periods {
		p := &m.Periods[pi]
		periodBase := levelBase(&p.BaseURLs, mpdBase)

		for ai := range p.Sets {
			as := &p.Sets[ai]
			setBase := levelBase(&as.BaseURLs, periodBase)

			if as.SegmentTemplate != nil {
				rewriteTemplate(as.SegmentTemplate, sessionID, baseURL, setBase)
			}

			for ri := range as.Representations {
				rep := &as.Representations[ri]
				repBase := levelBase(&rep.BaseURLs, setBase)

				if rep.SegmentTemplate != nil {
					rewriteTemplate(rep.SegmentTemplate, sessionID, baseURL, repBase)
				}
			}
		}
	}
}

func rewriteTemplate(t *SegmentTemplate, sessionID, baseURL, segmentOrigin string) {
	if t.Media != "" {
		t.Media = proxySegmentURL(baseURL, sessionID, t.Media, segmentOrigin)
	}
	if t.Initialization != "" {
		t.Initialization = proxySegmentURL(baseURL, sessionID, t.Initialization, segmentOrigin)
	}
}

// proxySegmentURL builds {base_url}/stitch/{session_id}/segment/{templateOrName}?origin={segmentOrigin}.
// Template macros ($Number$/$Time$) are left untouched in the path.
func proxySegmentURL(baseURL, sessionID, templateOrName, segmentOrigin string) string {
	return fmt.Sprintf("%s/stitch/%s/segment/%s?origin=%s",
		strings.TrimSuffix(baseURL, "/"),
		sessionID,
		strings.TrimPrefix(templateOrName, "/"),
		url.QueryEscape(segmentOrigin))
}
