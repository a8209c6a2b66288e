package transport

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"zap-chat/go-client/pkg/models"
)

// Envelope is the wire frame, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

var (
	ErrUnknownEvent     = errors.New("unknown inbound event")
	ErrMalformedPayload = errors.New("malformed event payload")

	// ErrBadFrame marks a frame that failed envelope decoding; the read
	// loop skips it instead of treating the connection as lost.
	ErrBadFrame = errors.New("undecodable wire frame")
)

// DecodeInbound normalizes one wire envelope into a typed Event. The server
// historically duck-types several payloads (a bare id string where newer
// versions send an enveloped object); both spellings decode to the same
// Event so the reconciliation engine only ever sees one shape.
func DecodeInbound(env Envelope) (Event, error) {
	switch env.Event {
	case EventReceiveMessage:
		msg, err := decodeWireMessage(env.Data)
		if err != nil {
			return Event{}, err
		}
		if msg.SenderID == "" || (msg.ReceiverID == "" && msg.GroupID == "") {
			return Event{}, ErrMalformedPayload
		}
		return Event{Kind: KindReceiveMessage, Message: msg}, nil

	case EventReceiveGroupMessage:
		msg, err := decodeWireMessage(env.Data)
		if err != nil {
			return Event{}, err
		}
		if msg.SenderID == "" || msg.GroupID == "" {
			return Event{}, ErrMalformedPayload
		}
		return Event{Kind: KindReceiveGroupMessage, Message: msg}, nil

	case EventUserOnline:
		id, err := decodeUserRef(env.Data)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindUserOnline, UserID: id}, nil

	case EventUserOffline:
		id, err := decodeUserRef(env.Data)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindUserOffline, UserID: id}, nil

	case EventOnlineUsersList:
		ids, err := decodeUserList(env.Data)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindOnlineUsersList, OnlineUserIDs: ids}, nil

	case EventUserTyping:
		id, err := decodeUserRef(env.Data)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindUserTyping, UserID: id}, nil

	case EventUserStopTyping:
		id, err := decodeUserRef(env.Data)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindUserStopTyping, UserID: id}, nil

	case EventGroupUserTyping:
		var p struct {
			GroupID  string `json:"groupId"`
			UserID   string `json:"userId"`
			Username string `json:"username"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil || p.GroupID == "" || p.UserID == "" {
			return Event{}, ErrMalformedPayload
		}
		return Event{Kind: KindGroupUserTyping, GroupID: p.GroupID, UserID: p.UserID, Username: p.Username}, nil

	case EventGroupUserStopTyping:
		var p struct {
			GroupID string `json:"groupId"`
			UserID  string `json:"userId"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil || p.GroupID == "" || p.UserID == "" {
			return Event{}, ErrMalformedPayload
		}
		return Event{Kind: KindGroupUserStopTyping, GroupID: p.GroupID, UserID: p.UserID}, nil

	case EventMessagesSeen:
		id, err := decodeStringRef(env.Data, "by")
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindMessagesSeen, UserID: id}, nil

	case EventMessageDelivered:
		id, err := decodeStringRef(env.Data, "messageId")
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindMessageDelivered, MessageID: id}, nil

	case EventGroupMemberAdded, EventGroupMemberRemoved, EventMemberLeftGroup:
		var p struct {
			GroupID string `json:"groupId"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil || p.GroupID == "" {
			return Event{}, ErrMalformedPayload
		}
		kind := map[string]EventKind{
			EventGroupMemberAdded:   KindGroupMemberAdded,
			EventGroupMemberRemoved: KindGroupMemberRemoved,
			EventMemberLeftGroup:    KindMemberLeftGroup,
		}[env.Event]
		return Event{Kind: kind, GroupID: p.GroupID}, nil

	case EventAddedToGroup:
		return Event{Kind: KindAddedToGroup}, nil

	case EventRemovedFromGroup:
		return Event{Kind: KindRemovedFromGroup}, nil
	}
	return Event{}, ErrUnknownEvent
}

func decodeWireMessage(data json.RawMessage) (models.Message, error) {
	var p struct {
		ID         string          `json:"id"`
		SenderID   string          `json:"senderId"`
		ReceiverID string          `json:"receiverId"`
		GroupID    string          `json:"groupId"`
		Content    string          `json:"content"`
		CreatedAt  json.RawMessage `json:"createdAt"`
		Seen       bool            `json:"seen"`
		Delivered  bool            `json:"delivered"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Message{}, ErrMalformedPayload
	}
	if strings.TrimSpace(p.ID) == "" {
		return models.Message{}, ErrMalformedPayload
	}
	return models.Message{
		ID:         strings.TrimSpace(p.ID),
		SenderID:   strings.TrimSpace(p.SenderID),
		ReceiverID: strings.TrimSpace(p.ReceiverID),
		GroupID:    strings.TrimSpace(p.GroupID),
		Content:    p.Content,
		CreatedAt:  decodeTimestamp(p.CreatedAt),
		Seen:       p.Seen,
		Delivered:  p.Delivered || p.Seen,
	}, nil
}

// decodeTimestamp accepts RFC3339 strings or unix milliseconds; a missing or
// unreadable value falls back to arrival time, which keeps the entry in the
// "now" slot instead of dropping the message.
func decodeTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Now().UTC()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
		return time.Now().UTC()
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC()
	}
	return time.Now().UTC()
}

// decodeUserRef accepts "u1" or {"userId": "u1"}.
func decodeUserRef(data json.RawMessage) (string, error) {
	return decodeStringRef(data, "userId")
}

// decodeStringRef accepts a bare JSON string or an object carrying the value
// under field.
func decodeStringRef(data json.RawMessage, field string) (string, error) {
	if len(data) == 0 {
		return "", ErrMalformedPayload
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return "", ErrMalformedPayload
		}
		return s, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", ErrMalformedPayload
	}
	raw, ok := obj[field]
	if !ok {
		return "", ErrMalformedPayload
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", ErrMalformedPayload
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrMalformedPayload
	}
	return s, nil
}

// decodeUserList accepts ["u1","u2"] or {"userIds": [...]} (and the older
// {"users": [...]}).
func decodeUserList(data json.RawMessage) ([]string, error) {
	if len(data) == 0 {
		return nil, ErrMalformedPayload
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		return trimAll(ids), nil
	}
	var obj struct {
		UserIDs []string `json:"userIds"`
		Users   []string `json:"users"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, ErrMalformedPayload
	}
	if obj.UserIDs != nil {
		return trimAll(obj.UserIDs), nil
	}
	if obj.Users != nil {
		return trimAll(obj.Users), nil
	}
	return nil, ErrMalformedPayload
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
