package transport

import "zap-chat/go-client/pkg/models"

// Wire event names, both directions. The server speaks one envelope shape:
// {"event": <name>, "data": <payload>}.
const (
	// Outbound.
	EventSendMessage      = "send-message"
	EventSendGroupMessage = "send-group-message"
	EventTyping           = "typing"
	EventStopTyping       = "stop-typing"
	EventGroupTyping      = "group-typing"
	EventGroupStopTyping  = "group-stop-typing"
	EventMarkSeen         = "mark-seen"
	EventActiveChat       = "active-chat"
	EventGetOnlineUsers   = "get-online-users"
	EventJoinGroups       = "join-groups"

	// Both directions: clients ack delivery with the same name the server
	// uses to fan the ack out.
	EventMessageDelivered = "message-delivered"

	// Inbound.
	EventReceiveMessage      = "receive-message"
	EventReceiveGroupMessage = "receive-group-message"
	EventUserOnline          = "user-online"
	EventUserOffline         = "user-offline"
	EventOnlineUsersList     = "online-users-list"
	EventUserTyping          = "user-typing"
	EventUserStopTyping      = "user-stop-typing"
	EventGroupUserTyping     = "group-user-typing"
	EventGroupUserStopTyping = "group-user-stop-typing"
	EventMessagesSeen        = "messages-seen"
	EventGroupMemberAdded    = "group-member-added"
	EventGroupMemberRemoved  = "group-member-removed"
	EventMemberLeftGroup     = "member-left-group"
	EventAddedToGroup        = "added-to-group"
	EventRemovedFromGroup    = "removed-from-group"
)

type EventKind string

const (
	KindReceiveMessage      EventKind = "receive_message"
	KindReceiveGroupMessage EventKind = "receive_group_message"
	KindUserOnline          EventKind = "user_online"
	KindUserOffline         EventKind = "user_offline"
	KindOnlineUsersList     EventKind = "online_users_list"
	KindUserTyping          EventKind = "user_typing"
	KindUserStopTyping      EventKind = "user_stop_typing"
	KindGroupUserTyping     EventKind = "group_user_typing"
	KindGroupUserStopTyping EventKind = "group_user_stop_typing"
	KindMessagesSeen        EventKind = "messages_seen"
	KindMessageDelivered    EventKind = "message_delivered"
	KindGroupMemberAdded    EventKind = "group_member_added"
	KindGroupMemberRemoved  EventKind = "group_member_removed"
	KindMemberLeftGroup     EventKind = "member_left_group"
	KindAddedToGroup        EventKind = "added_to_group"
	KindRemovedFromGroup    EventKind = "removed_from_group"
)

// Event is the one typed shape every inbound wire event is normalized into
// before the reconciliation engine sees it. Only the fields relevant to the
// Kind are populated.
type Event struct {
	Kind EventKind

	Message       models.Message
	UserID        string
	Username      string
	GroupID       string
	MessageID     string
	OnlineUserIDs []string
}
