package cache

import (
	"sync"
	"testing"
	"time"

	"zap-chat/go-client/pkg/models"
)

func msg(id, sender string, at time.Time) models.Message {
	return models.Message{ID: id, SenderID: sender, Content: "x", CreatedAt: at}
}

func TestGetMissingKeyReturnsEmpty(t *testing.T) {
	c := NewConversationCache()
	got := c.Get(models.DirectKey("nobody"))
	if len(got) != 0 {
		t.Fatalf("expected empty conversation, got %d entries", len(got))
	}
}

func TestPutThenGetReturnsCopy(t *testing.T) {
	c := NewConversationCache()
	key := models.DirectKey("u2")
	now := time.Now()
	c.Put(key, []models.Message{msg("m1", "u2", now)})

	got := c.Get(key)
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("unexpected conversation: %+v", got)
	}
	got[0].ID = "mutated"
	if c.Get(key)[0].ID != "m1" {
		t.Fatal("Get must return a copy, not shared backing storage")
	}
}

func TestReplaceAllSwapsAtomically(t *testing.T) {
	c := NewConversationCache()
	key := models.DirectKey("u2")
	now := time.Now()
	c.Put(key, []models.Message{msg("m1", "u2", now)})

	result := c.ReplaceAll(key, func(cur []models.Message) []models.Message {
		return append(cur, msg("m2", "u2", now.Add(time.Second)))
	})
	if len(result) != 2 {
		t.Fatalf("expected transform result of 2, got %d", len(result))
	}
	if got := c.Get(key); len(got) != 2 || got[1].ID != "m2" {
		t.Fatalf("stored conversation mismatch: %+v", got)
	}
}

func TestReplaceAllTransformGetsPrivateCopy(t *testing.T) {
	c := NewConversationCache()
	key := models.DirectKey("u2")
	c.Put(key, []models.Message{msg("m1", "u2", time.Now())})

	c.ReplaceAll(key, func(cur []models.Message) []models.Message {
		cur[0].ID = "scribbled"
		return nil
	})
	if got := c.Get(key); len(got) != 0 {
		t.Fatalf("nil transform result should store empty conversation, got %+v", got)
	}
}

func TestInvalidateDropsEntry(t *testing.T) {
	c := NewConversationCache()
	key := models.GroupKey("g1")
	c.Put(key, []models.Message{msg("m1", "u2", time.Now())})
	c.Invalidate(key)
	if c.Contains(key) {
		t.Fatal("invalidated key should be absent")
	}
}

func TestConcurrentReplaceAllKeepsEveryWrite(t *testing.T) {
	c := NewConversationCache()
	key := models.DirectKey("u2")
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.ReplaceAll(key, func(cur []models.Message) []models.Message {
				return append(cur, msg(string(rune('a'+n%26))+"-"+time.Now().String(), "u2", now))
			})
		}(i)
	}
	wg.Wait()
	if got := c.Get(key); len(got) != 50 {
		t.Fatalf("expected 50 entries after concurrent appends, got %d", len(got))
	}
}

func TestStaleSetLifecycle(t *testing.T) {
	s := NewStaleSet()
	s.MarkStale(ResourceGroupDetail("g1"))
	s.MarkStale(ResourceGroupList)

	if !s.IsStale(ResourceGroupDetail("g1")) || !s.IsStale(ResourceGroupList) {
		t.Fatal("marked resources should be stale")
	}
	s.ClearStale(ResourceGroupDetail("g1"))
	if s.IsStale(ResourceGroupDetail("g1")) {
		t.Fatal("cleared resource should not be stale")
	}
	if len(s.StaleResources()) != 1 {
		t.Fatalf("expected one stale resource, got %v", s.StaleResources())
	}
}
