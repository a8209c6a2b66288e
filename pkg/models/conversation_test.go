package models

import (
	"testing"
	"time"
)

func ts(sec int) time.Time {
	return time.Date(2026, 3, 1, 10, 0, sec, 0, time.UTC)
}

func TestConversationKeyForDirectKeysOnPeer(t *testing.T) {
	sent := Message{SenderID: "self", ReceiverID: "peer"}
	received := Message{SenderID: "peer", ReceiverID: "self"}

	if got := ConversationKeyFor(sent, "self"); got != DirectKey("peer") {
		t.Fatalf("sent message keyed %v", got)
	}
	if got := ConversationKeyFor(received, "self"); got != DirectKey("peer") {
		t.Fatalf("received message keyed %v", got)
	}
}

func TestConversationKeyForGroupWinsOverDirection(t *testing.T) {
	msg := Message{SenderID: "peer", ReceiverID: "self", GroupID: "g1"}
	if got := ConversationKeyFor(msg, "self"); got != GroupKey("g1") {
		t.Fatalf("group message keyed %v", got)
	}
}

func TestKeyValidity(t *testing.T) {
	if (ConversationKey{}).Valid() {
		t.Fatalf("zero key must be invalid")
	}
	if DirectKey("  ").Valid() {
		t.Fatalf("blank id must be invalid")
	}
	if !GroupKey("g1").Valid() {
		t.Fatalf("group key must be valid")
	}
}

func TestSortByCreatedAtIsStable(t *testing.T) {
	msgs := []Message{
		{ID: "b", CreatedAt: ts(2)},
		{ID: "c", CreatedAt: ts(2)},
		{ID: "a", CreatedAt: ts(1)},
	}
	got := SortByCreatedAt(msgs)
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if msgs[0].ID != "b" {
		t.Fatalf("input slice must not be mutated: %+v", msgs)
	}
}

func TestReversed(t *testing.T) {
	msgs := []Message{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := Reversed(msgs)
	if got[0].ID != "c" || got[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestHasDuplicateID(t *testing.T) {
	if HasDuplicateID([]Message{{ID: "a"}, {ID: "b"}}) {
		t.Fatalf("distinct ids flagged as duplicate")
	}
	if !HasDuplicateID([]Message{{ID: "a"}, {ID: "a"}}) {
		t.Fatalf("duplicate ids not flagged")
	}
}
