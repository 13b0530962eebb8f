package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/core/tree"
	"github.com/matzehuels/treemap/pkg/errors"
	tmio "github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/render"
)

// NodeRef identifies a node in responses.
type NodeRef struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// State is the navigation state of a session.
type State struct {
	ID         string    `json:"id"`
	RootID     int64     `json:"root_id"`
	Current    NodeRef   `json:"current"`
	RootShown  bool      `json:"root_shown"`
	Depth      int       `json:"depth"`
	Breadcrumb []NodeRef `json:"breadcrumb"`
	Selected   *NodeRef  `json:"selected,omitempty"`
	Viewport   tree.Rect `json:"viewport"`
	NodeCount  int       `json:"node_count"`
	Events     []Event   `json:"events"`
}

type viewportRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
		"build":    buildinfo.Get(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts := s.defaults
	opts.InputFormat = r.URL.Query().Get("format")
	if opts.InputFormat == "" {
		opts.InputFormat = tmio.FormatJSON
	}
	var err error
	if opts.Width, err = queryFloat(r, "width", opts.Width); err != nil {
		writeError(w, err)
		return
	}
	if opts.Height, err = queryFloat(r, "height", opts.Height); err != nil {
		writeError(w, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	root, err := s.runner.LoadReader(ctx, body, "request body", opts)
	if err != nil {
		writeError(w, err)
		return
	}
	nav, err := s.runner.Layout(ctx, root, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := newSession(nav)
	s.sessions.add(sess)
	observability.Navigation().OnSessionOpen(ctx, sess.id, root.Count())
	s.Logger.Info("session opened", "id", sess.id, "nodes", root.Count())

	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusCreated, sess.state())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) (any, error) {
		return sess.state(), nil
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.sessions.remove(id) {
		writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id))
		return
	}
	observability.Navigation().OnSessionClose(r.Context(), id)
	s.Logger.Info("session closed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) (any, error) {
		return render.BuildLayout(sess.nav.Current())
	})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	var opts []render.SVGOption
	if sel := sess.nav.Selected(); sel != nil {
		opts = append(opts, render.WithSelected(sel.ID()))
	}
	svg, err := render.RenderSVG(sess.nav.Current(), opts...)
	sess.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleZoomIn(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, "zoom_in", func(sess *session, n *tree.Node) error {
		return sess.nav.ZoomIn(n)
	})
}

func (s *Server) handleZoomOut(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, "zoom_out", func(sess *session, _ *tree.Node) error {
		return sess.nav.ZoomOut()
	})
}

func (s *Server) handleZoomFull(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, "zoom_full", func(sess *session, _ *tree.Node) error {
		return sess.nav.ZoomFull()
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, "select", func(sess *session, n *tree.Node) error {
		return sess.nav.Select(n)
	})
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, "clear_selection", func(sess *session, _ *tree.Node) error {
		return sess.nav.Select(nil)
	})
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode viewport"))
		return
	}
	s.navigate(w, r, "resize", func(sess *session, _ *tree.Node) error {
		return sess.nav.Resize(tree.NewRect(0, 0, req.Width, req.Height))
	})
}

// withSession runs fn under the session lock and writes its result as JSON.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session) (any, error)) {
	sess, err := s.sessions.get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	v, err := fn(sess)
	sess.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// navigate resolves the optional {nodeID}, runs action under the session
// lock and answers with the new state and the events it raised.
func (s *Server) navigate(w http.ResponseWriter, r *http.Request, action string, fn func(*session, *tree.Node) error) {
	sess, err := s.sessions.get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var target *tree.Node
	var nodeID int64
	if raw := chi.URLParam(r, "nodeID"); raw != "" {
		if nodeID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "node id %q", raw))
			return
		}
		if target, err = sess.node(nodeID); err != nil {
			writeError(w, err)
			return
		}
	}

	start := time.Now()
	err = fn(sess, target)
	observability.Navigation().OnNavigate(r.Context(), sess.id, action, nodeID, time.Since(start), err)
	if err != nil && !errors.Is(err, errors.ErrCodeObserver) {
		sess.drain()
		writeError(w, err)
		return
	}
	if err != nil {
		s.Logger.Warn("observer failed", "session", sess.id, "action", action, "err", err)
	}
	writeJSON(w, http.StatusOK, sess.state())
}

// state snapshots the session and drains its events. Callers hold s.mu.
func (s *session) state() State {
	nav := s.nav
	st := State{
		ID:        s.id,
		RootID:    nav.Root().ID(),
		Current:   ref(nav.Current()),
		RootShown: nav.IsRootShown(),
		Depth:     nav.Depth(),
		Viewport:  nav.Viewport(),
		NodeCount: nav.Root().Count(),
		Events:    s.drain(),
	}
	for _, n := range nav.Breadcrumb() {
		st.Breadcrumb = append(st.Breadcrumb, ref(n))
	}
	if sel := nav.Selected(); sel != nil {
		r := ref(sel)
		st.Selected = &r
	}
	return st
}

func ref(n *tree.Node) NodeRef { return NodeRef{ID: n.ID(), Label: n.Label()} }

func queryFloat(r *http.Request, key string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "query %s", key)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
