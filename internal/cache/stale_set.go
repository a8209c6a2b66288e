package cache

import "sync"

// Resource names for non-conversation cached fetches.
const (
	ResourceGroupList = "groups:list"
	ResourceUserList  = "users:list"
)

func ResourceGroupDetail(groupID string) string {
	return "groups:detail:" + groupID
}

// StaleSet tracks REST-backed resources whose cached copy has been
// invalidated by a membership event. Readers check IsStale to decide whether
// a fresh authoritative fetch is needed and clear the flag once it lands.
type StaleSet struct {
	mu    sync.Mutex
	stale map[string]struct{}
}

func NewStaleSet() *StaleSet {
	return &StaleSet{stale: make(map[string]struct{})}
}

func (s *StaleSet) MarkStale(resource string) {
	if resource == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale[resource] = struct{}{}
}

func (s *StaleSet) IsStale(resource string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.stale[resource]
	return ok
}

// ClearStale acknowledges a completed refetch.
func (s *StaleSet) ClearStale(resource string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stale, resource)
}

func (s *StaleSet) StaleResources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.stale))
	for r := range s.stale {
		out = append(out, r)
	}
	return out
}
