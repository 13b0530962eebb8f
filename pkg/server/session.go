package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/core/zoom"
	"github.com/matzehuels/treemap/pkg/errors"
)

// Event types reported in navigation responses.
const (
	EventSelect   = "select"
	EventZoomIn   = "zoom_in"
	EventZoomOut  = "zoom_out"
	EventZoomFull = "zoom_full"
)

// Event is one observer notification.
type Event struct {
	Type   string `json:"type"`
	NodeID int64  `json:"node_id,omitempty"`
	Label  string `json:"label,omitempty"`
}

type session struct {
	id      string
	created time.Time

	mu     sync.Mutex
	nav    *zoom.Navigator
	events []Event
}

func newSession(nav *zoom.Navigator) *session {
	s := &session{
		id:      uuid.NewString(),
		created: time.Now(),
		nav:     nav,
	}
	nav.Register(&zoom.ObserverFuncs{
		Select:   func(n *tree.Node) { s.record(EventSelect, n) },
		ZoomIn:   func(n *tree.Node) { s.record(EventZoomIn, n) },
		ZoomOut:  func() { s.record(EventZoomOut, nil) },
		ZoomFull: func() { s.record(EventZoomFull, nil) },
	})
	return s
}

// record runs with s.mu held by the navigating handler.
func (s *session) record(typ string, n *tree.Node) {
	e := Event{Type: typ}
	if n != nil {
		e.NodeID = n.ID()
		e.Label = n.Label()
	}
	s.events = append(s.events, e)
}

// drain returns and clears the recorded events. Callers hold s.mu.
func (s *session) drain() []Event {
	out := s.events
	s.events = nil
	if out == nil {
		out = []Event{}
	}
	return out
}

// node resolves id within the session's tree. Callers hold s.mu.
func (s *session) node(id int64) (*tree.Node, error) {
	n := s.nav.Root().FindByID(id)
	if n == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "node %d not found in session %s", id, s.id)
	}
	return n, nil
}

// store is the in-memory session table.
type store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newStore() *store {
	return &store{sessions: make(map[string]*session)}
}

func (st *store) add(s *session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
}

func (st *store) get(id string) (*session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return s, nil
}

func (st *store) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *store) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
