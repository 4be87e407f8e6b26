// Package config loads the stitcher's configuration from environment
// variables, as laid out in the spec's external-interfaces section.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/streamops/stitcher/internal/apperr"
)

// StitchingMode selects between traditional segment replacement (SSAI)
// and HLS-Interstitials signalling (SGAI).
type StitchingMode string

const (
	ModeSSAI StitchingMode = "ssai"
	ModeSGAI StitchingMode = "sgai"
)

// AdProviderType selects which ad provider backs the stitcher.
type AdProviderType string

const (
	ProviderAuto   AdProviderType = "auto"
	ProviderStatic AdProviderType = "static"
	ProviderVAST   AdProviderType = "vast"
)

// SessionStoreKind selects the session-manager backend.
type SessionStoreKind string

const (
	SessionStoreMemory SessionStoreKind = "memory"
	SessionStoreRemote SessionStoreKind = "remote"
)

// Config is the immutable, fully-resolved configuration for a running
// stitcher instance.
type Config struct {
	DevMode bool

	Port    string
	BaseURL string

	OriginURL string

	StitchingMode StitchingMode

	AdProviderType       AdProviderType
	AdSourceURL          string
	AdSegmentDuration    float64
	VastEndpoint         string
	SlateURL             string
	SlateSegmentDuration float64

	SessionStore   SessionStoreKind
	RemoteStoreURL string
	SessionTTL     time.Duration
}

// devDefaults are applied when DEV_MODE is enabled and a value is not
// otherwise supplied, so the binary is runnable with zero setup.
var devDefaults = map[string]string{
	"PORT":                   "8080",
	"BASE_URL":               "http://localhost:8080",
	"ORIGIN_URL":             "http://localhost:8080/demo/playlist.m3u8",
	"STITCHING_MODE":         "ssai",
	"AD_PROVIDER_TYPE":       "auto",
	"AD_SOURCE_URL":          "http://localhost:8080/demo/ads",
	"AD_SEGMENT_DURATION":    "6",
	"VAST_ENDPOINT":          "",
	"SLATE_URL":              "",
	"SLATE_SEGMENT_DURATION": "6",
	"SESSION_STORE":          "memory",
	"REMOTE_STORE_URL":       "",
	"SESSION_TTL_SECS":       "3600",
}

// Load reads the environment and builds a Config, applying dev-mode
// defaults where DEV_MODE is truthy. In non-dev mode, PORT, BASE_URL
// and ORIGIN_URL are required and their absence is a ConfigError.
func Load() (*Config, error) {
	devMode := isTruthy(os.Getenv("DEV_MODE"))

	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if devMode {
			return devDefaults[key]
		}
		return ""
	}

	if !devMode {
		for _, key := range []string{"PORT", "BASE_URL", "ORIGIN_URL"} {
			if os.Getenv(key) == "" {
				return nil, apperr.New(apperr.KindConfig, fmt.Sprintf("required environment variable %s is not set", key))
			}
		}
	}

	adSegDur, err := parseFloatDefault(get("AD_SEGMENT_DURATION"), 6)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "invalid AD_SEGMENT_DURATION", err)
	}
	slateSegDur, err := parseFloatDefault(get("SLATE_SEGMENT_DURATION"), 6)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "invalid SLATE_SEGMENT_DURATION", err)
	}
	ttlSecs, err := parseIntDefault(get("SESSION_TTL_SECS"), 3600)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "invalid SESSION_TTL_SECS", err)
	}

	mode := StitchingMode(get("STITCHING_MODE"))
	if mode != ModeSSAI && mode != ModeSGAI {
		mode = ModeSSAI
	}

	providerType := AdProviderType(get("AD_PROVIDER_TYPE"))
	switch providerType {
	case ProviderStatic, ProviderVAST:
	default:
		providerType = ProviderAuto
	}
	if providerType == ProviderAuto {
		if get("VAST_ENDPOINT") != "" {
			providerType = ProviderVAST
		} else {
			providerType = ProviderStatic
		}
	}

	store := SessionStoreKind(get("SESSION_STORE"))
	if store != SessionStoreRemote {
		store = SessionStoreMemory
	}

	cfg := &Config{
		DevMode:              devMode,
		Port:                 get("PORT"),
		BaseURL:              get("BASE_URL"),
		OriginURL:            get("ORIGIN_URL"),
		StitchingMode:        mode,
		AdProviderType:       providerType,
		AdSourceURL:          get("AD_SOURCE_URL"),
		AdSegmentDuration:    adSegDur,
		VastEndpoint:         get("VAST_ENDPOINT"),
		SlateURL:             get("SLATE_URL"),
		SlateSegmentDuration: slateSegDur,
		SessionStore:         store,
		RemoteStoreURL:       get("REMOTE_STORE_URL"),
		SessionTTL:           time.Duration(ttlSecs) * time.Second,
	}

	return cfg, nil
}

func isTruthy(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True", "yes":
		return true
	default:
		return false
	}
}

func parseFloatDefault(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

func parseIntDefault(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
