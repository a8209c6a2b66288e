// Package typing owns ephemeral typing state: the local debounce timer that
// decides when to tell peers we stopped typing, and the per-conversation set
// of peers currently typing at us.
package typing

import (
	"strings"
	"sync"
	"time"

	"zap-chat/go-client/pkg/models"
)

const DefaultDebounce = 800 * time.Millisecond

// TimerFactory schedules a callback after d. Production uses time.AfterFunc;
// tests install a manual clock.
type TimerFactory func(d time.Duration, fn func()) Timer

type Timer interface {
	Stop() bool
}

// Emitter carries the two outbound signals the coordinator produces. Both are
// fire-and-forget.
type Emitter struct {
	Typing     func(key models.ConversationKey)
	StopTyping func(key models.ConversationKey)
}

type localSlot struct {
	timer      Timer
	generation uint64
}

// Coordinator holds at most one pending debounce timer per conversation.
// Starting a new one implicitly cancels the prior; cancel-on-switch is
// enforced here, not by callers remembering to do it.
type Coordinator struct {
	mu       sync.Mutex
	debounce time.Duration
	newTimer TimerFactory
	emit     Emitter

	local  map[models.ConversationKey]*localSlot
	remote map[models.ConversationKey]map[string]string
	gen    uint64
}

func NewCoordinator(debounce time.Duration, emit Emitter, factory TimerFactory) *Coordinator {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if factory == nil {
		factory = func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		}
	}
	return &Coordinator{
		debounce: debounce,
		newTimer: factory,
		emit:     emit,
		local:    make(map[models.ConversationKey]*localSlot),
		remote:   make(map[models.ConversationKey]map[string]string),
	}
}

// Keystroke registers local typing activity. The first keystroke of a burst
// emits a typing signal; every keystroke restarts the stop-typing timer, so
// one burst produces exactly one stop-typing emission, debounce after the
// last key.
func (c *Coordinator) Keystroke(key models.ConversationKey) {
	if !key.Valid() {
		return
	}
	c.mu.Lock()
	slot, active := c.local[key]
	if active {
		slot.timer.Stop()
	}
	c.gen++
	gen := c.gen
	next := &localSlot{generation: gen}
	next.timer = c.newTimer(c.debounce, func() { c.expire(key, gen) })
	c.local[key] = next
	c.mu.Unlock()

	if !active && c.emit.Typing != nil {
		c.emit.Typing(key)
	}
}

func (c *Coordinator) expire(key models.ConversationKey, gen uint64) {
	c.mu.Lock()
	slot, ok := c.local[key]
	if !ok || slot.generation != gen {
		// A newer keystroke or a cancel got here first.
		c.mu.Unlock()
		return
	}
	delete(c.local, key)
	c.mu.Unlock()

	if c.emit.StopTyping != nil {
		c.emit.StopTyping(key)
	}
}

// StopNow ends a local typing burst immediately (the user hit send). Emits
// stop-typing once if a burst was pending, nothing otherwise.
func (c *Coordinator) StopNow(key models.ConversationKey) {
	c.mu.Lock()
	slot, active := c.local[key]
	if active {
		slot.timer.Stop()
		delete(c.local, key)
	}
	c.mu.Unlock()

	if active && c.emit.StopTyping != nil {
		c.emit.StopTyping(key)
	}
}

// CancelSilently drops any pending timer for key with no emission. Used when
// the conversation is switched away: firing stop-typing at the old peer
// after the switch would reference the wrong conversation.
func (c *Coordinator) CancelSilently(key models.ConversationKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot, ok := c.local[key]; ok {
		slot.timer.Stop()
		delete(c.local, key)
	}
}

// SwitchConversation cancels every pending local timer and clears remote
// typing indicators for the conversation being left.
func (c *Coordinator) SwitchConversation(previous models.ConversationKey) {
	c.mu.Lock()
	for key, slot := range c.local {
		slot.timer.Stop()
		delete(c.local, key)
	}
	if previous.Valid() {
		delete(c.remote, previous)
	}
	c.mu.Unlock()
}

// ApplyRemoteTyping records a peer typing in the conversation.
func (c *Coordinator) ApplyRemoteTyping(key models.ConversationKey, userID, username string) {
	userID = strings.TrimSpace(userID)
	if !key.Valid() || userID == "" {
		return
	}
	if strings.TrimSpace(username) == "" {
		username = userID
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.remote[key]
	if !ok {
		set = make(map[string]string)
		c.remote[key] = set
	}
	set[userID] = username
}

func (c *Coordinator) ApplyRemoteStopTyping(key models.ConversationKey, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.remote[key]; ok {
		delete(set, userID)
		if len(set) == 0 {
			delete(c.remote, key)
		}
	}
}

// TypingUsers returns peer id → display name for the conversation.
func (c *Coordinator) TypingUsers(key models.ConversationKey) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.remote[key]))
	for id, name := range c.remote[key] {
		out[id] = name
	}
	return out
}

// PendingLocal reports whether a local debounce timer is armed for key.
func (c *Coordinator) PendingLocal(key models.ConversationKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.local[key]
	return ok
}
