package manager

import (
	"sync"
	"time"

	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/rotation"
)

// Session is one game's rotation queue plus the lock that serialises every
// command against it.
type Session struct {
	ID        string
	Game      string // display name as first given
	Key       string // folded lookup key
	CreatedAt time.Time

	mu      sync.Mutex
	queue   *rotation.Queue
	retired bool // replaced by Switch or deleted; guarded by mu
}

// Do runs fn with exclusive access to the queue. fn must not keep the
// queue pointer after returning.
func (s *Session) Do(fn func(q *rotation.Queue)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.queue)
}

// Live is Do for commands that must not land in a queue that has been
// switched away or deleted. It reports false, without running fn, once the
// session is retired.
func (s *Session) Live(fn func(q *rotation.Queue)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired {
		return false
	}
	fn(s.queue)
	return true
}

func (s *Session) retire() {
	s.mu.Lock()
	s.retired = true
	s.mu.Unlock()
}

// Info is a point-in-time copy of a session for listings.
type Info struct {
	ID        string                 `json:"id"`
	Game      string                 `json:"game"`
	Capacity  int                    `json:"capacity"`
	Current   []rotation.Participant `json:"current"`
	Waiting   []rotation.Participant `json:"waiting"`
	Status    string                 `json:"status"`
	CreatedAt time.Time              `json:"createdAt"`
}

func (s *Session) Info() Info {
	info := Info{ID: s.ID, Game: s.Game, CreatedAt: s.CreatedAt}
	s.Do(func(q *rotation.Queue) {
		info.Capacity = q.Capacity()
		info.Current = q.Current()
		info.Waiting = q.Waiting()
		info.Status = q.Status()
	})
	return info
}

// Has reports whether player is a member of the session's queue.
func (s *Session) Has(player string) bool {
	var ok bool
	s.Do(func(q *rotation.Queue) {
		_, ok = q.Find(player)
	})
	return ok
}
