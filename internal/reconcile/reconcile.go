package reconcile

import (
	"sort"

	"zap-chat/go-client/internal/cache"
	"zap-chat/go-client/pkg/models"
)

// ReconcileIncoming merges one authoritative message into the cache.
//
// A self-echo supersedes every optimistic entry in the conversation and is
// absorbed if its id already landed. A peer message is deduped by id; when
// its conversation is the active one it arrives already seen (and the server
// gets a mark-seen), otherwise a delivered ack goes back instead.
func (e *Engine) ReconcileIncoming(msg models.Message) {
	key := models.ConversationKeyFor(msg, e.deps.SelfID)
	if !key.Valid() || msg.ID == "" {
		e.deps.Metrics.MalformedEvents.Inc()
		return
	}
	groupOrder := key.Type == models.ConversationTypeGroup

	if msg.SenderID == e.deps.SelfID {
		e.reconcileEcho(key, msg, groupOrder)
		return
	}

	activeKey, hasActive := e.activeConversation()
	active := hasActive && activeKey == key
	if active {
		msg.Seen = true
		msg.Delivered = true
	} else {
		msg.Seen = false
	}

	duplicate := false
	e.deps.Cache.ReplaceAll(key, func(cur []models.Message) []models.Message {
		if containsID(cur, msg.ID) {
			duplicate = true
			return cur
		}
		return insertAuthoritative(cur, msg, groupOrder)
	})
	if duplicate {
		e.deps.Metrics.DuplicatesAbsorbed.Inc()
		return
	}
	e.deps.Metrics.MessagesReconciled.Inc()

	if groupOrder {
		// A new group message changes the list preview; force a refetch.
		e.deps.Stale.MarkStale(cache.ResourceGroupList)
		return
	}
	if active {
		if e.deps.Emits.MarkSeen != nil {
			_ = e.deps.Emits.MarkSeen(msg.SenderID)
		}
	} else if e.deps.Emits.MessageDelivered != nil {
		_ = e.deps.Emits.MessageDelivered(msg.ID, msg.SenderID)
	}
}

// reconcileEcho handles the server echo of our own send: every optimistic
// entry in the conversation is superseded, and duplicate echoes collapse to
// one authoritative entry.
func (e *Engine) reconcileEcho(key models.ConversationKey, msg models.Message, groupOrder bool) {
	duplicate := false
	e.deps.Cache.ReplaceAll(key, func(cur []models.Message) []models.Message {
		out := make([]models.Message, 0, len(cur))
		for _, m := range cur {
			if m.Optimistic {
				continue
			}
			out = append(out, m)
		}
		if containsID(out, msg.ID) {
			duplicate = true
			return out
		}
		return insertAuthoritative(out, msg, groupOrder)
	})
	if duplicate {
		e.deps.Metrics.DuplicatesAbsorbed.Inc()
		return
	}
	e.deps.Metrics.MessagesReconciled.Inc()
	if groupOrder {
		e.deps.Stale.MarkStale(cache.ResourceGroupList)
	}
}

// MarkDelivered flips the referenced message to delivered. A delivered ack
// can outrun the echo carrying the authoritative id, so the ack additionally
// resolves the oldest still-undelivered optimistic entry in the same
// conversation — FIFO by submission order. This is best-effort, not
// authoritative: with several sends in flight an ack may resolve a
// different entry than the one it was issued for.
func (e *Engine) MarkDelivered(messageID string) {
	if messageID == "" {
		e.deps.Metrics.MalformedEvents.Inc()
		return
	}
	for _, key := range e.deps.Cache.Keys() {
		if !containsID(e.deps.Cache.Get(key), messageID) {
			continue
		}
		e.deps.Cache.ReplaceAll(key, func(cur []models.Message) []models.Message {
			for i := range cur {
				if cur[i].ID == messageID {
					cur[i].Delivered = true
				}
			}
			resolveOldestOptimistic(cur)
			return cur
		})
		return
	}

	// An ack for an id no conversation knows (it outran the echo, or the
	// message never existed) is a no-op; the echo that eventually lands
	// carries the authoritative flags anyway.
	e.deps.Metrics.OrphanEvents.Inc()
	e.deps.Logger.Debug("delivered ack for unknown message",
		"component", "reconcile", "operation", "mark_delivered", "message_id", messageID)
}

// MarkSeenBatch flips all of our own sent messages in the conversation with
// byUserID to seen. Unknown conversations are a no-op.
func (e *Engine) MarkSeenBatch(byUserID string) {
	key := models.DirectKey(byUserID)
	if !key.Valid() {
		e.deps.Metrics.MalformedEvents.Inc()
		return
	}
	if !e.deps.Cache.Contains(key) {
		e.deps.Metrics.OrphanEvents.Inc()
		return
	}
	e.deps.Cache.ReplaceAll(key, func(cur []models.Message) []models.Message {
		for i := range cur {
			if cur[i].SenderID == e.deps.SelfID {
				cur[i].Seen = true
				cur[i].Delivered = true
			}
		}
		return cur
	})
}

// HydrateHistory seeds a conversation from a REST history page, normalized
// to the canonical cache order.
func (e *Engine) HydrateHistory(key models.ConversationKey, msgs []models.Message) {
	if !key.Valid() {
		return
	}
	ordered := models.SortByCreatedAt(msgs)
	if key.Type == models.ConversationTypeGroup {
		ordered = models.Reversed(ordered)
	}
	e.deps.Cache.Put(key, ordered)
}

func containsID(msgs []models.Message, id string) bool {
	for _, m := range msgs {
		if m.ID == id {
			return true
		}
	}
	return false
}

// resolveOldestOptimistic marks the oldest undelivered optimistic entry
// delivered, in place.
func resolveOldestOptimistic(msgs []models.Message) {
	oldest := -1
	for i := range msgs {
		if !msgs[i].Optimistic || msgs[i].Delivered {
			continue
		}
		if oldest == -1 || msgs[i].CreatedAt.Before(msgs[oldest].CreatedAt) {
			oldest = i
		}
	}
	if oldest >= 0 {
		msgs[oldest].Delivered = true
	}
}

// insertAuthoritative places msg among the authoritative entries by
// createdAt while optimistic entries keep the logical "now" slot: the tail
// for oldest-first direct conversations, the head for newest-first groups.
func insertAuthoritative(cur []models.Message, msg models.Message, groupOrder bool) []models.Message {
	auth := make([]models.Message, 0, len(cur)+1)
	opt := make([]models.Message, 0, 2)
	for _, m := range cur {
		if m.Optimistic {
			opt = append(opt, m)
			continue
		}
		auth = append(auth, m)
	}
	if groupOrder {
		auth = models.Reversed(auth)
	}
	auth = append(auth, msg)
	sort.SliceStable(auth, func(i, j int) bool {
		return auth[i].CreatedAt.Before(auth[j].CreatedAt)
	})
	if groupOrder {
		return append(append(make([]models.Message, 0, len(cur)+1), opt...), models.Reversed(auth)...)
	}
	return append(auth, opt...)
}
