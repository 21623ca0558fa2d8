package manager

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"

	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/rotation"
)

var (
	ErrSessionExists = errors.New("queue already exists for game")
	ErrNoSession     = errors.New("no queue for game")
	ErrAmbiguous     = errors.New("game cannot be inferred")
	ErrInvalidGame   = errors.New("invalid game name")
)

// Manager maps game names, case-insensitively, to sessions. Each session
// has its own lock; the manager lock only guards the map.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Key normalises a game name the way lookups do. A Caser is stateful, so
// each call builds its own.
func Key(game string) string {
	return cases.Fold().String(strings.TrimSpace(game))
}

// Create starts a session for game with the given capacity and initial
// players.
func (m *Manager) Create(game string, capacity int, players ...string) (*Session, error) {
	key := Key(game)
	if key == "" {
		return nil, ErrInvalidGame
	}
	q, err := rotation.New(capacity, players...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[key]; ok {
		return nil, errors.Wrapf(ErrSessionExists, "%s", game)
	}
	s := &Session{
		ID:        uuid.NewString(),
		Game:      strings.TrimSpace(game),
		Key:       key,
		CreatedAt: time.Now(),
		queue:     q,
	}
	m.sessions[key] = s
	return s, nil
}

func (m *Manager) Get(game string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[Key(game)]
	return s, ok
}

func (m *Manager) Delete(game string) bool {
	m.mu.Lock()
	key := Key(game)
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()
	if ok {
		s.retire()
	}
	return ok
}

// List returns sessions ordered by game key.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Resolve picks the session a command is aimed at. An explicit game must
// exist. Without one, the only session wins, otherwise the only session
// player belongs to.
func (m *Manager) Resolve(game, player string) (*Session, error) {
	if strings.TrimSpace(game) != "" {
		s, ok := m.Get(game)
		if !ok {
			return nil, errors.Wrapf(ErrNoSession, "%s", game)
		}
		return s, nil
	}

	all := m.List()
	switch len(all) {
	case 0:
		return nil, ErrNoSession
	case 1:
		return all[0], nil
	}
	var found *Session
	for _, s := range all {
		if !s.Has(player) {
			continue
		}
		if found != nil {
			return nil, ErrAmbiguous
		}
		found = s
	}
	if found == nil {
		return nil, ErrAmbiguous
	}
	return found, nil
}

// Switch moves every member of from into a fresh queue for to (replacing
// any existing one) and appends extra players not already present. from is
// emptied and retired, and dropped when it is a different game. Members keep
// join order; the first capacity start in current.
//
// from stays locked until the map points at the new session, so a command
// racing the switch either lands before it (and is carried over) or sees
// from as retired.
func (m *Manager) Switch(from *Session, to string, capacity int, extra ...string) (*Session, error) {
	key := Key(to)
	if key == "" {
		return nil, ErrInvalidGame
	}

	s, replaced, err := m.switchLocked(from, key, strings.TrimSpace(to), capacity, extra)
	if err != nil {
		return nil, err
	}
	// retired outside from's lock so two session locks are never held together
	if replaced != nil && replaced != from {
		replaced.retire()
	}
	return s, nil
}

func (m *Manager) switchLocked(from *Session, key, game string, capacity int, extra []string) (*Session, *Session, error) {
	from.mu.Lock()
	defer from.mu.Unlock()
	if from.retired {
		return nil, nil, errors.Wrapf(ErrNoSession, "%s", from.Game)
	}

	players := from.queue.Names()
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		seen[p] = true
	}
	for _, p := range extra {
		if !seen[p] {
			players = append(players, p)
			seen[p] = true
		}
	}

	q, err := rotation.New(capacity, players...)
	if err != nil {
		return nil, nil, err
	}
	from.queue.Empty()
	from.retired = true

	s := &Session{
		ID:        uuid.NewString(),
		Game:      game,
		Key:       key,
		CreatedAt: time.Now(),
		queue:     q,
	}
	// lock order is session then manager; nothing takes them the other way
	m.mu.Lock()
	if from.Key != key && m.sessions[from.Key] == from {
		delete(m.sessions, from.Key)
	}
	replaced := m.sessions[key]
	m.sessions[key] = s
	m.mu.Unlock()
	return s, replaced, nil
}
