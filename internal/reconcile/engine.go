// Package reconcile is the client's core: it merges optimistic local sends
// and server-pushed events into the conversation cache while keeping message
// ids unique, seen implying delivered, and optimistic entries always
// superseded or rolled back.
package reconcile

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"zap-chat/go-client/internal/cache"
	"zap-chat/go-client/internal/metrics"
	"zap-chat/go-client/internal/presence"
	"zap-chat/go-client/internal/typing"
	"zap-chat/go-client/pkg/models"
)

var (
	ErrInvalidConversation = errors.New("invalid conversation key")
	ErrEmptyContent        = errors.New("message content is empty")
)

// Emits are the outbound signals the engine produces. All fire-and-forget;
// an emit error surfaces only on SubmitOptimistic so the caller can decide
// to roll back.
type Emits struct {
	SendMessage      func(to, content string) error
	SendGroupMessage func(groupID, content string) error
	MarkSeen         func(withUser string) error
	MessageDelivered func(messageID, from string) error
	ActiveChat       func(chatWith *string) error
}

type Deps struct {
	SelfID   string
	Cache    *cache.ConversationCache
	Presence *presence.Tracker
	Typing   *typing.Coordinator
	Stale    *cache.StaleSet
	Emits    Emits
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
	NewTemp  func() string
}

// Handle identifies exactly one optimistic entry for rollback.
type Handle struct {
	Key    models.ConversationKey
	TempID string
}

type Engine struct {
	deps Deps

	mu        sync.Mutex
	activeKey models.ConversationKey
	hasActive bool
}

func NewEngine(deps Deps) *Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.NewTemp == nil {
		deps.NewTemp = func() string { return "temp-" + uuid.NewString() }
	}
	if deps.Stale == nil {
		deps.Stale = cache.NewStaleSet()
	}
	return &Engine{deps: deps}
}

// SubmitOptimistic appends a provisional message to the conversation and
// emits the corresponding send event. The returned handle identifies the
// entry for rollback; a non-nil error alongside a valid handle means the
// emit failed and the caller should roll back.
func (e *Engine) SubmitOptimistic(key models.ConversationKey, content string) (Handle, error) {
	if !key.Valid() {
		return Handle{}, ErrInvalidConversation
	}
	if strings.TrimSpace(content) == "" {
		return Handle{}, ErrEmptyContent
	}

	msg := models.Message{
		ID:         e.deps.NewTemp(),
		SenderID:   e.deps.SelfID,
		Content:    content,
		CreatedAt:  e.deps.Now(),
		Optimistic: true,
	}
	if key.Type == models.ConversationTypeGroup {
		msg.GroupID = key.ID
	} else {
		msg.ReceiverID = key.ID
	}

	e.deps.Cache.ReplaceAll(key, func(cur []models.Message) []models.Message {
		if key.Type == models.ConversationTypeGroup {
			// Group conversations are cached newest-first.
			return append([]models.Message{msg}, cur...)
		}
		return append(cur, msg)
	})
	e.deps.Metrics.OptimisticSubmits.Inc()

	// Sending ends the local typing burst.
	if e.deps.Typing != nil {
		e.deps.Typing.StopNow(key)
	}

	handle := Handle{Key: key, TempID: msg.ID}
	var err error
	if key.Type == models.ConversationTypeGroup {
		if e.deps.Emits.SendGroupMessage != nil {
			err = e.deps.Emits.SendGroupMessage(key.ID, content)
		}
	} else {
		if e.deps.Emits.SendMessage != nil {
			err = e.deps.Emits.SendMessage(key.ID, content)
		}
	}
	return handle, err
}

// RollbackOptimistic removes exactly the one entry the handle names; used on
// send failure. Unknown handles are a no-op.
func (e *Engine) RollbackOptimistic(handle Handle) {
	if !handle.Key.Valid() || handle.TempID == "" {
		return
	}
	removed := false
	e.deps.Cache.ReplaceAll(handle.Key, func(cur []models.Message) []models.Message {
		out := cur[:0]
		for _, m := range cur {
			if m.Optimistic && m.ID == handle.TempID {
				removed = true
				continue
			}
			out = append(out, m)
		}
		return out
	})
	if removed {
		e.deps.Metrics.OptimisticRollbacks.Inc()
	}
}

// SetActiveConversation switches the open conversation. The previous
// conversation's typing timer is cancelled silently, the server learns the
// new active peer, and for a direct conversation the peer's unseen messages
// are marked seen.
func (e *Engine) SetActiveConversation(key *models.ConversationKey) {
	e.mu.Lock()
	previous := e.activeKey
	hadActive := e.hasActive
	if key != nil && key.Valid() {
		e.activeKey = *key
		e.hasActive = true
	} else {
		e.activeKey = models.ConversationKey{}
		e.hasActive = false
	}
	e.mu.Unlock()

	if e.deps.Typing != nil && hadActive {
		e.deps.Typing.SwitchConversation(previous)
	}

	var chatWith *string
	if key != nil && key.Type == models.ConversationTypeDirect {
		peer := key.ID
		chatWith = &peer
	}
	if e.deps.Emits.ActiveChat != nil {
		_ = e.deps.Emits.ActiveChat(chatWith)
	}

	if key != nil && key.Type == models.ConversationTypeDirect {
		e.markConversationSeenLocally(*key)
		if e.deps.Emits.MarkSeen != nil {
			_ = e.deps.Emits.MarkSeen(key.ID)
		}
	}
}

func (e *Engine) activeConversation() (models.ConversationKey, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeKey, e.hasActive
}

// markConversationSeenLocally flips every peer message in the conversation
// to seen (and therefore delivered).
func (e *Engine) markConversationSeenLocally(key models.ConversationKey) {
	e.deps.Cache.ReplaceAll(key, func(cur []models.Message) []models.Message {
		for i := range cur {
			if cur[i].SenderID != e.deps.SelfID {
				cur[i].Seen = true
				cur[i].Delivered = true
			}
		}
		return cur
	})
}
