package models

import (
	"sort"
	"strings"
)

const (
	ConversationTypeDirect = "direct"
	ConversationTypeGroup  = "group"
)

// ConversationKey indexes the conversation cache: the peer id for direct
// conversations, the group id for group conversations.
type ConversationKey struct {
	Type string
	ID   string
}

func DirectKey(peerID string) ConversationKey {
	return ConversationKey{Type: ConversationTypeDirect, ID: strings.TrimSpace(peerID)}
}

func GroupKey(groupID string) ConversationKey {
	return ConversationKey{Type: ConversationTypeGroup, ID: strings.TrimSpace(groupID)}
}

func (k ConversationKey) Valid() bool {
	return k.ID != "" && (k.Type == ConversationTypeDirect || k.Type == ConversationTypeGroup)
}

func (k ConversationKey) String() string {
	return k.Type + ":" + k.ID
}

// ConversationKeyFor derives the cache key for a message as seen by selfID.
// Direct messages key on the peer regardless of direction.
func ConversationKeyFor(msg Message, selfID string) ConversationKey {
	if msg.GroupID != "" {
		return GroupKey(msg.GroupID)
	}
	if msg.SenderID == selfID {
		return DirectKey(msg.ReceiverID)
	}
	return DirectKey(msg.SenderID)
}

// SortByCreatedAt orders messages oldest-first with a stable sort, so entries
// sharing a timestamp keep their arrival order. Optimistic entries carry the
// local submission time and therefore stay in the "now" slot.
func SortByCreatedAt(msgs []Message) []Message {
	out := append([]Message(nil), msgs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Reversed returns a newest-first copy; group conversations are cached in this
// order and reversed only for display.
func Reversed(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		out = append(out, msgs[i])
	}
	return out
}

// HasDuplicateID reports whether any two messages share an id.
func HasDuplicateID(msgs []Message) bool {
	seen := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.ID]; ok {
			return true
		}
		seen[m.ID] = struct{}{}
	}
	return false
}
