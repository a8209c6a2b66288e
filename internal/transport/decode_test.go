package transport

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDecodeReceiveMessage(t *testing.T) {
	env := Envelope{
		Event: EventReceiveMessage,
		Data:  json.RawMessage(`{"id":"m1","senderId":"u2","receiverId":"u1","content":"hi","createdAt":"2026-08-29T10:00:00Z"}`),
	}
	ev, err := DecodeInbound(env)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Kind != KindReceiveMessage {
		t.Fatalf("wrong kind: %s", ev.Kind)
	}
	msg := ev.Message
	if msg.ID != "m1" || msg.SenderID != "u2" || msg.ReceiverID != "u1" || msg.Content != "hi" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	want := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	if !msg.CreatedAt.Equal(want) {
		t.Fatalf("createdAt mismatch: %v", msg.CreatedAt)
	}
}

func TestDecodeReceiveMessageEpochMillis(t *testing.T) {
	env := Envelope{
		Event: EventReceiveGroupMessage,
		Data:  json.RawMessage(`{"id":"m2","senderId":"u2","groupId":"g1","content":"yo","createdAt":1787000000000}`),
	}
	ev, err := DecodeInbound(env)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Message.CreatedAt.UnixMilli() != 1787000000000 {
		t.Fatalf("epoch millis not decoded: %v", ev.Message.CreatedAt)
	}
}

func TestDecodeSeenImpliesDelivered(t *testing.T) {
	env := Envelope{
		Event: EventReceiveMessage,
		Data:  json.RawMessage(`{"id":"m1","senderId":"u2","receiverId":"u1","content":"x","seen":true}`),
	}
	ev, err := DecodeInbound(env)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !ev.Message.Seen || !ev.Message.Delivered {
		t.Fatalf("seen must imply delivered at the boundary: %+v", ev.Message)
	}
}

func TestDecodeDuckTypedUserRef(t *testing.T) {
	for _, data := range []string{`"u2"`, `{"userId":"u2"}`} {
		ev, err := DecodeInbound(Envelope{Event: EventUserOffline, Data: json.RawMessage(data)})
		if err != nil {
			t.Fatalf("decode %s failed: %v", data, err)
		}
		if ev.Kind != KindUserOffline || ev.UserID != "u2" {
			t.Fatalf("unexpected event for %s: %+v", data, ev)
		}
	}
}

func TestDecodeDuckTypedDeliveredRef(t *testing.T) {
	for _, data := range []string{`"m9"`, `{"messageId":"m9"}`} {
		ev, err := DecodeInbound(Envelope{Event: EventMessageDelivered, Data: json.RawMessage(data)})
		if err != nil {
			t.Fatalf("decode %s failed: %v", data, err)
		}
		if ev.Kind != KindMessageDelivered || ev.MessageID != "m9" {
			t.Fatalf("unexpected event for %s: %+v", data, ev)
		}
	}
}

func TestDecodeDuckTypedOnlineList(t *testing.T) {
	for _, data := range []string{`["u2","u3"]`, `{"userIds":["u2","u3"]}`} {
		ev, err := DecodeInbound(Envelope{Event: EventOnlineUsersList, Data: json.RawMessage(data)})
		if err != nil {
			t.Fatalf("decode %s failed: %v", data, err)
		}
		if len(ev.OnlineUserIDs) != 2 || ev.OnlineUserIDs[0] != "u2" || ev.OnlineUserIDs[1] != "u3" {
			t.Fatalf("unexpected list for %s: %v", data, ev.OnlineUserIDs)
		}
	}
}

func TestDecodeMessagesSeenBy(t *testing.T) {
	ev, err := DecodeInbound(Envelope{Event: EventMessagesSeen, Data: json.RawMessage(`{"by":"u2"}`)})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Kind != KindMessagesSeen || ev.UserID != "u2" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodeGroupTypingRequiresIDs(t *testing.T) {
	_, err := DecodeInbound(Envelope{Event: EventGroupUserTyping, Data: json.RawMessage(`{"groupId":"g1"}`)})
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}

	ev, err := DecodeInbound(Envelope{
		Event: EventGroupUserTyping,
		Data:  json.RawMessage(`{"groupId":"g1","userId":"u2","username":"bob"}`),
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.GroupID != "g1" || ev.UserID != "u2" || ev.Username != "bob" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodeMembershipEvents(t *testing.T) {
	cases := []struct {
		event string
		kind  EventKind
	}{
		{EventGroupMemberAdded, KindGroupMemberAdded},
		{EventGroupMemberRemoved, KindGroupMemberRemoved},
		{EventMemberLeftGroup, KindMemberLeftGroup},
	}
	for _, tc := range cases {
		ev, err := DecodeInbound(Envelope{Event: tc.event, Data: json.RawMessage(`{"groupId":"g7"}`)})
		if err != nil {
			t.Fatalf("%s decode failed: %v", tc.event, err)
		}
		if ev.Kind != tc.kind || ev.GroupID != "g7" {
			t.Fatalf("%s: unexpected event %+v", tc.event, ev)
		}
	}

	for _, event := range []string{EventAddedToGroup, EventRemovedFromGroup} {
		ev, err := DecodeInbound(Envelope{Event: event})
		if err != nil {
			t.Fatalf("%s decode failed: %v", event, err)
		}
		if ev.GroupID != "" {
			t.Fatalf("%s should carry no group id: %+v", event, ev)
		}
	}
}

func TestDecodeUnknownEvent(t *testing.T) {
	if _, err := DecodeInbound(Envelope{Event: "mystery"}); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestDecodeMissingTimestampFallsBackToNow(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	ev, err := DecodeInbound(Envelope{
		Event: EventReceiveMessage,
		Data:  json.RawMessage(`{"id":"m1","senderId":"u2","receiverId":"u1","content":"x"}`),
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if ev.Message.CreatedAt.Before(before) {
		t.Fatalf("missing createdAt should default to arrival time, got %v", ev.Message.CreatedAt)
	}
}
