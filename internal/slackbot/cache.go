package slackbot

import (
	"context"
	"log/slog"
	"sync"
)

// ConversationLookup resolves a channel ID to its display name, usually
// via the Slack conversations API.
type ConversationLookup interface {
	ConversationName(ctx context.Context, channelID string) (string, error)
}

type cacheEntry struct {
	name string
	ok   bool
}

// ChannelNameCache memoizes channel ID to display name lookups for the
// lifetime of the process. A failed lookup is cached as unknown so the
// remote call is never repeated for that channel; until Invalidate is
// called, such a channel can never match an allowed-channel filter.
type ChannelNameCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	lookup  ConversationLookup
	logger  *slog.Logger
}

// NewChannelNameCache creates an empty cache backed by the given lookup.
func NewChannelNameCache(log *slog.Logger, lookup ConversationLookup) *ChannelNameCache {
	return &ChannelNameCache{
		entries: make(map[string]cacheEntry),
		lookup:  lookup,
		logger:  log.With(slog.String("component", "channel_cache")),
	}
}

// Resolve returns the display name for channelID. The first call per
// channel performs a remote lookup; every later call is served from the
// cache, including cached failures (ok=false).
func (c *ChannelNameCache) Resolve(ctx context.Context, channelID string) (string, bool) {
	c.mu.Lock()
	if entry, found := c.entries[channelID]; found {
		c.mu.Unlock()
		return entry.name, entry.ok
	}
	c.mu.Unlock()

	name, err := c.lookup.ConversationName(ctx, channelID)
	entry := cacheEntry{name: name, ok: err == nil}
	if err != nil {
		entry = cacheEntry{}
		c.logger.Warn("channel name lookup failed",
			slog.String("channel_id", channelID),
			slog.Any("error", err),
		)
	}

	c.mu.Lock()
	c.entries[channelID] = entry
	c.mu.Unlock()
	return entry.name, entry.ok
}

// Invalidate drops the cached entry for channelID so the next Resolve
// performs a fresh lookup.
func (c *ChannelNameCache) Invalidate(channelID string) {
	c.mu.Lock()
	delete(c.entries, channelID)
	c.mu.Unlock()
}
