package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRedisManager_KeyUsesPrefix(t *testing.T) {
	r := &RedisManager{}
	require.Equal(t, "ritcher:session:abc123", r.key("abc123"))
}

func TestRedisRecord_RoundTripsThroughJSON(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	rec := redisRecord{
		ID:                 "sess-1",
		OriginURL:          "http://origin.example.com",
		CreatedAtEpochS:    now.Unix(),
		LastAccessedEpochS: now.Unix(),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.Contains(t, string(data), `"id":"sess-1"`)

	var decoded redisRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, rec, decoded)
}

func TestNewRedisManager_InvalidURLReturnsError(t *testing.T) {
	_, err := NewRedisManager("not-a-valid-redis-url", time.Hour, nil)
	require.Error(t, err)
}
