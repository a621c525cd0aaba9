package session

import (
	"container/list"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flexigpt/lingo-go/internal/dialog"
	"github.com/flexigpt/lingo-go/spec"
)

const (
	DefaultTTL         = 30 * time.Minute
	DefaultMaxSessions = 4096
)

type StoreConfig struct {
	TTL         time.Duration
	MaxSessions int

	Engine *dialog.Engine
	Logger *slog.Logger
}

// Store keeps conversations keyed by session id. Idle sessions expire after the TTL and the least
// recently used session is evicted once MaxSessions is exceeded.
type Store struct {
	mu sync.Mutex

	ttl         time.Duration
	maxSessions int

	lru *list.List                       // front=MRU
	m   map[spec.SessionID]*list.Element // id -> element(Value=*item)

	cfg StoreConfig
}

type item struct {
	s        *Session
	lastUsed time.Time
}

func NewStore(cfg StoreConfig) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	maxS := cfg.MaxSessions
	if maxS <= 0 {
		maxS = DefaultMaxSessions
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		ttl:         ttl,
		maxSessions: maxS,
		lru:         list.New(),
		m:           map[spec.SessionID]*list.Element{},
		cfg:         cfg,
	}
}

// NewSessionID mints a UUIDv7 id and creates an empty session for it.
func (st *Store) NewSessionID() spec.SessionID {
	now := time.Now()
	id := spec.SessionID(uuid.Must(uuid.NewV7()).String())

	st.mu.Lock()
	defer st.mu.Unlock()

	st.evictExpiredLocked(now)
	st.insertLocked(id, now)
	return id
}

// Acquire returns the session for id, creating it when the store does not hold one. Callers may
// bring their own ids; only blank ids are rejected.
func (st *Store) Acquire(id spec.SessionID) (*Session, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, fmt.Errorf("%w: session id is required", spec.ErrInvalidArgument)
	}
	now := time.Now()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.evictExpiredLocked(now)
	if s, ok := st.lookupLocked(id, now); ok {
		return s, nil
	}
	return st.insertLocked(id, now), nil
}

func (st *Store) Get(id spec.SessionID) (*Session, bool) {
	now := time.Now()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.evictExpiredLocked(now)
	return st.lookupLocked(id, now)
}

// Delete drops the session and reports whether it existed.
func (st *Store) Delete(id spec.SessionID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	e := st.m[id]
	if e == nil {
		return false
	}
	st.deleteElemLocked(e)
	return true
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lru.Len()
}

func (st *Store) lookupLocked(id spec.SessionID, now time.Time) (*Session, bool) {
	e := st.m[id]
	if e == nil {
		return nil, false
	}
	it, _ := e.Value.(*item)
	if it == nil || it.s == nil || it.s.closed.Load() {
		st.deleteElemLocked(e)
		return nil, false
	}

	it.lastUsed = now
	st.lru.MoveToFront(e)
	return it.s, true
}

func (st *Store) insertLocked(id spec.SessionID, now time.Time) *Session {
	s := newSession(SessionConfig{
		ID:     id,
		Engine: st.cfg.Engine,
		Logger: st.cfg.Logger,
		Touch:  func() { st.touch(id) },
	})

	e := st.lru.PushFront(&item{s: s, lastUsed: now})
	st.m[id] = e

	st.evictOverLimitLocked()
	return s
}

func (st *Store) evictExpiredLocked(now time.Time) {
	if st.ttl <= 0 {
		return
	}
	for e := st.lru.Back(); e != nil; {
		prev := e.Prev()
		it, ok := e.Value.(*item)
		if !ok || it == nil || it.s == nil {
			st.deleteElemLocked(e)
			e = prev
			continue
		}
		if now.Sub(it.lastUsed) <= st.ttl {
			break
		}
		st.cfg.Logger.Debug("session expired", "session", it.s.id)
		st.deleteElemLocked(e)
		e = prev
	}
}

func (st *Store) evictOverLimitLocked() {
	if st.maxSessions <= 0 {
		return
	}
	for st.lru.Len() > st.maxSessions {
		e := st.lru.Back()
		if e == nil {
			return
		}
		st.deleteElemLocked(e)
	}
}

func (st *Store) deleteElemLocked(e *list.Element) {
	it, _ := e.Value.(*item)
	if it != nil && it.s != nil {
		delete(st.m, it.s.id)
		it.s.closed.Store(true)
	}
	st.lru.Remove(e)
}

// touch updates lastUsed and MRU position for an existing session.
func (st *Store) touch(id spec.SessionID) {
	now := time.Now()
	st.mu.Lock()
	defer st.mu.Unlock()
	st.evictExpiredLocked(now)
	st.lookupLocked(id, now)
}
