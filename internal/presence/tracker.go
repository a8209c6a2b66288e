// Package presence tracks this client's event-derived belief about which
// users are online. There is no TTL: a silently dropped peer stays online
// here until the next bulk list arrives.
package presence

import (
	"strings"
	"sync"

	"zap-chat/go-client/pkg/models"
)

type Tracker struct {
	mu     sync.RWMutex
	online map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{online: make(map[string]bool)}
}

func (t *Tracker) SetOnline(userID string) {
	t.set(userID, true)
}

func (t *Tracker) SetOffline(userID string) {
	t.set(userID, false)
}

func (t *Tracker) set(userID string, online bool) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online[userID] = online
}

// ReplaceAll applies a bulk online-users list. It is authoritative over every
// previously known user: ids absent from the list go offline even if an
// earlier individual event had them online. Unknown ids in the list become
// known and online.
func (t *Tracker) ReplaceAll(onlineIDs []string) {
	next := make(map[string]struct{}, len(onlineIDs))
	for _, id := range onlineIDs {
		id = strings.TrimSpace(id)
		if id != "" {
			next[id] = struct{}{}
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.online {
		_, listed := next[id]
		t.online[id] = listed
	}
	for id := range next {
		t.online[id] = true
	}
}

func (t *Tracker) IsOnline(userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.online[userID]
}

// OnlineSet returns the ids currently believed online.
func (t *Tracker) OnlineSet() map[string]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]bool, len(t.online))
	for id, on := range t.online {
		if on {
			out[id] = true
		}
	}
	return out
}

// Apply overwrites the IsOnline flag on a roster fetched over REST; the
// roster's own flag is not authoritative.
func (t *Tracker) Apply(users []models.User) []models.User {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.User, len(users))
	for i, u := range users {
		u.IsOnline = t.online[u.ID]
		out[i] = u
	}
	return out
}
