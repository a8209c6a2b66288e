// Package groupsync reacts to membership-change events. Membership
// correctness favors a fresh authoritative fetch over incremental patches,
// so every event invalidates the affected cached resources instead of
// editing them.
package groupsync

import (
	"log/slog"

	"zap-chat/go-client/internal/cache"
	"zap-chat/go-client/internal/transport"
	"zap-chat/go-client/pkg/models"
)

type Deps struct {
	Conversations *cache.ConversationCache
	Stale         *cache.StaleSet
	// JoinGroups re-subscribes the transport to all of our group channels.
	JoinGroups func() error
	Logger     *slog.Logger
}

type Synchronizer struct {
	deps Deps
}

func NewSynchronizer(deps Deps) *Synchronizer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Stale == nil {
		deps.Stale = cache.NewStaleSet()
	}
	return &Synchronizer{deps: deps}
}

// HandleEvent consumes membership-related transport events; everything else
// passes through untouched.
func (s *Synchronizer) HandleEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.KindGroupMemberAdded, transport.KindGroupMemberRemoved,
		transport.KindMemberLeftGroup:
		s.invalidateDetail(ev.GroupID)
		s.deps.Stale.MarkStale(cache.ResourceGroupList)

	case transport.KindAddedToGroup:
		// We don't know which group yet; the refetched list will say.
		s.deps.Stale.MarkStale(cache.ResourceGroupList)
		if s.deps.JoinGroups != nil {
			if err := s.deps.JoinGroups(); err != nil {
				s.deps.Logger.Warn("join-groups after membership change failed",
					"component", "groupsync", "operation", "resubscribe", "error", err.Error())
			}
		}

	case transport.KindRemovedFromGroup:
		s.deps.Stale.MarkStale(cache.ResourceGroupList)
	}
}

func (s *Synchronizer) invalidateDetail(groupID string) {
	if groupID == "" {
		return
	}
	s.deps.Stale.MarkStale(cache.ResourceGroupDetail(groupID))
	if s.deps.Conversations != nil {
		// Dropping the conversation forces the next open to refetch
		// history under the new membership.
		s.deps.Conversations.Invalidate(models.GroupKey(groupID))
	}
}
