package app

import (
	"encoding/base64"
	"testing"

	"zap-chat/go-client/pkg/models"
)

func testToken(t *testing.T, userID, username string) string {
	t.Helper()
	payload := base64.RawURLEncoding.EncodeToString(
		[]byte(`{"userId":"` + userID + `","username":"` + username + `"}`))
	return "hdr." + payload + ".sig"
}

func TestNewWiresEverything(t *testing.T) {
	c, err := New(Options{Token: testToken(t, "u1", "ann")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.SelfID() != "u1" {
		t.Fatalf("unexpected self id: %q", c.SelfID())
	}
	for name, ok := range map[string]bool{
		"conversations": c.Conversations != nil,
		"presence":      c.Presence != nil,
		"typing":        c.Typing != nil,
		"transport":     c.Transport != nil,
		"engine":        c.Engine != nil,
		"groups":        c.Groups != nil,
		"rest":          c.REST != nil,
	} {
		if !ok {
			t.Fatalf("%s not wired", name)
		}
	}
}

func TestNewRejectsBadToken(t *testing.T) {
	if _, err := New(Options{Token: "garbage"}); err == nil {
		t.Fatalf("expected an error for a malformed token")
	}
}

func TestEngineAndTypingShareTheTransportEmitters(t *testing.T) {
	c, err := New(Options{Token: testToken(t, "u1", "ann")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	// Disconnected transport drops the emit but must not panic; the engine
	// keeps the optimistic entry for the caller to roll back.
	handle, err := c.Engine.SubmitOptimistic(models.DirectKey("u2"), "hi")
	if err == nil {
		t.Fatalf("expected a transport error while disconnected")
	}
	c.Engine.RollbackOptimistic(handle)
	if got := c.Conversations.Get(models.DirectKey("u2")); len(got) != 0 {
		t.Fatalf("rollback must leave the conversation empty, got %+v", got)
	}
}
