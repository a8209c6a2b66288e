package reconcile

import (
	"zap-chat/go-client/internal/transport"
	"zap-chat/go-client/pkg/models"
)

// HandleEvent consumes one normalized transport event. It never returns an
// error: a malformed or unknown event is counted and skipped so one bad
// event cannot stall reconciliation of the ones behind it.
func (e *Engine) HandleEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.KindReceiveMessage, transport.KindReceiveGroupMessage:
		e.ReconcileIncoming(ev.Message)

	case transport.KindUserOnline:
		if e.deps.Presence != nil {
			e.deps.Presence.SetOnline(ev.UserID)
		}
	case transport.KindUserOffline:
		if e.deps.Presence != nil {
			e.deps.Presence.SetOffline(ev.UserID)
		}
	case transport.KindOnlineUsersList:
		if e.deps.Presence != nil {
			e.deps.Presence.ReplaceAll(ev.OnlineUserIDs)
		}

	case transport.KindUserTyping:
		if e.deps.Typing != nil && ev.UserID != e.deps.SelfID {
			e.deps.Typing.ApplyRemoteTyping(models.DirectKey(ev.UserID), ev.UserID, ev.Username)
		}
	case transport.KindUserStopTyping:
		if e.deps.Typing != nil {
			e.deps.Typing.ApplyRemoteStopTyping(models.DirectKey(ev.UserID), ev.UserID)
		}
	case transport.KindGroupUserTyping:
		if e.deps.Typing != nil && ev.UserID != e.deps.SelfID {
			e.deps.Typing.ApplyRemoteTyping(models.GroupKey(ev.GroupID), ev.UserID, ev.Username)
		}
	case transport.KindGroupUserStopTyping:
		if e.deps.Typing != nil {
			e.deps.Typing.ApplyRemoteStopTyping(models.GroupKey(ev.GroupID), ev.UserID)
		}

	case transport.KindMessagesSeen:
		e.MarkSeenBatch(ev.UserID)
	case transport.KindMessageDelivered:
		e.MarkDelivered(ev.MessageID)

	case transport.KindGroupMemberAdded, transport.KindGroupMemberRemoved,
		transport.KindMemberLeftGroup, transport.KindAddedToGroup,
		transport.KindRemovedFromGroup:
		// Membership changes belong to the group synchronizer, which
		// registers its own transport listener.

	default:
		e.deps.Metrics.MalformedEvents.Inc()
	}
}
