package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/streamops/stitcher/internal/apperr"
	"github.com/streamops/stitcher/internal/originvalidate"
)

// writeAppError converts a tagged *apperr.Error (or any error, mapped
// to InternalError) to an HTTP response, per the taxonomy's fixed
// status mapping (spec §7). The error's full text is written as the
// body for every kind; for InvalidOrigin that text never contains the
// rejected address, because originvalidate's errors carry only a
// generic message.
func writeAppError(w http.ResponseWriter, log logFn, err error) {
	status := apperr.HTTPStatus(err)
	log("api: request failed: %v", err)
	http.Error(w, err.Error(), status)
}

type logFn func(format string, v ...interface{})

// validSessionID validates the {sid} path parameter. The spec
// places no format requirement on it beyond being a non-empty,
// URL-safe path segment.
func validSessionID(sid string) error {
	if sid == "" || strings.ContainsAny(sid, "/?#") {
		return apperr.New(apperr.KindInvalidSession, "session id must be a non-empty path segment")
	}
	return nil
}

// resolveOrigin implements spec §4.13/§4.14 step 1: a client-supplied
// ?origin= is SSRF-validated; an absent one falls back to the
// operator-trusted configured origin, unvalidated.
func resolveOrigin(queryOrigin, configuredOrigin string) (string, error) {
	if queryOrigin == "" {
		return configuredOrigin, nil
	}
	if err := originvalidate.Validate(queryOrigin); err != nil {
		return "", apperr.Wrap(apperr.KindInvalidOrigin, "origin rejected", err)
	}
	return queryOrigin, nil
}

// originBaseOf returns the directory portion of a full origin URL,
// used as the fallback base for resolving relative segment/template
// URIs found inside the fetched manifest.
func originBaseOf(originURL string) string {
	idx := strings.LastIndex(originURL, "/")
	if idx < 0 {
		return originURL
	}
	return originURL[:idx]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
