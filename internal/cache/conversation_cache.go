// Package cache holds the client's view of every conversation: one ordered
// message list per direct-peer or group key. All engine writes go through
// ReplaceAll so a reader can never observe a partially applied update.
package cache

import (
	"sync"

	"zap-chat/go-client/pkg/models"
)

type ConversationCache struct {
	mu            sync.RWMutex
	conversations map[models.ConversationKey][]models.Message
}

func NewConversationCache() *ConversationCache {
	return &ConversationCache{
		conversations: make(map[models.ConversationKey][]models.Message),
	}
}

// Get returns a copy of the conversation's ordered messages. A missing key
// yields an empty slice, never nil surprises for range callers.
func (c *ConversationCache) Get(key models.ConversationKey) []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Message(nil), c.conversations[key]...)
}

// Put replaces the conversation wholesale; used when hydrating from a
// history fetch.
func (c *ConversationCache) Put(key models.ConversationKey, msgs []models.Message) {
	if !key.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations[key] = append([]models.Message(nil), msgs...)
}

// Invalidate drops the conversation entirely so the next reader refetches.
func (c *ConversationCache) Invalidate(key models.ConversationKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conversations, key)
}

// ReplaceAll atomically swaps the conversation for transform's result. The
// transform receives a private copy; returning nil stores an empty
// conversation. The stored result is returned to the caller.
func (c *ConversationCache) ReplaceAll(key models.ConversationKey, transform func([]models.Message) []models.Message) []models.Message {
	if !key.Valid() || transform == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	current := append([]models.Message(nil), c.conversations[key]...)
	next := transform(current)
	c.conversations[key] = next
	return append([]models.Message(nil), next...)
}

func (c *ConversationCache) Contains(key models.ConversationKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.conversations[key]
	return ok
}

func (c *ConversationCache) Keys() []models.ConversationKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]models.ConversationKey, 0, len(c.conversations))
	for k := range c.conversations {
		keys = append(keys, k)
	}
	return keys
}
