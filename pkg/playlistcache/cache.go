// Package playlistcache stores serialized playlist manifests keyed by their
// source identity. It prefers Redis when a connection is available and falls
// back to JSON envelope files under the cache directory, so the acquisition
// chain can serve the last known playlist while offline.
package playlistcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"player-backend/pkg/fileutil"
	"player-backend/pkg/redis"
)

var logger = log.With().Str("component", "playlist-cache").Logger()

// ErrNotFound is returned when no fresh entry exists for a key.
var ErrNotFound = errors.New("playlist cache: entry not found")

// Cache is a key to manifest-bytes store with TTL semantics.
type Cache struct {
	redisClient *redis.Client // nil when Redis is not configured/reachable
	dir         string
	ttl         time.Duration
}

// fileEntry is the on-disk envelope of the file fallback.
type fileEntry struct {
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// New creates a cache. redisClient may be nil, in which case only the file
// fallback is used.
func New(redisClient *redis.Client, dir string, ttl time.Duration) *Cache {
	return &Cache{
		redisClient: redisClient,
		dir:         dir,
		ttl:         ttl,
	}
}

// Put stores payload under key in every available backend. Backend failures
// are logged, not returned.
func (c *Cache) Put(ctx context.Context, key string, payload []byte) {
	if c.redisClient != nil {
		if err := c.redisClient.SetWithExpiration(ctx, redisKey(key), payload, c.ttl); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to store playlist in redis")
		}
	}

	entry := fileEntry{StoredAt: time.Now(), Payload: payload}
	data, err := json.Marshal(entry)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to encode playlist cache entry")
		return
	}
	if err := fileutil.WriteFileOverwrite(c.filePath(key), data, 0644); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to store playlist cache file")
	}
}

// Get returns the cached payload for key, or ErrNotFound when no backend has
// a fresh entry.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.redisClient != nil {
		payload, err := c.redisClient.GetBytes(ctx, redisKey(key))
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Redis playlist lookup failed")
		} else if payload != nil {
			return payload, nil
		}
	}

	data, err := fileutil.ReadFileIfExists(c.filePath(key))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotFound
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt cache file is treated as a miss and removed.
		logger.Warn().Err(err).Str("key", key).Msg("Corrupt playlist cache file, removing")
		os.Remove(c.filePath(key))
		return nil, ErrNotFound
	}
	if c.ttl > 0 && time.Since(entry.StoredAt) > c.ttl {
		return nil, ErrNotFound
	}
	return entry.Payload, nil
}

// Invalidate drops key from every backend.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c.redisClient != nil {
		if _, err := c.redisClient.Del(ctx, redisKey(key)); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to delete playlist from redis")
		}
	}
	os.Remove(c.filePath(key))
}

func redisKey(key string) string {
	return "player-backend:playlist:" + key
}

var unsafeChars = regexp.MustCompile(`[\\/:*?"<>|@ ]`)

func (c *Cache) filePath(key string) string {
	name := unsafeChars.ReplaceAllString(key, "-")
	return filepath.Join(c.dir, fmt.Sprintf("playlist-%s.json", name))
}
