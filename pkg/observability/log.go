package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// NavigationLogger writes navigation events to a logger: sessions at info
// level, individual navigation calls at debug level and failed calls as
// warnings.
type NavigationLogger struct {
	logger *log.Logger
}

// NewNavigationLogger returns hooks logging to l, or to log.Default() if l
// is nil.
func NewNavigationLogger(l *log.Logger) *NavigationLogger {
	if l == nil {
		l = log.Default()
	}
	return &NavigationLogger{logger: l}
}

func (h *NavigationLogger) OnNavigate(_ context.Context, session, action string, nodeID int64, d time.Duration, err error) {
	kv := []any{"session", session, "action", action}
	if nodeID != 0 {
		kv = append(kv, "node", nodeID)
	}
	kv = append(kv, "duration", d)
	if err != nil {
		h.logger.Warn("navigation failed", append(kv, "error", err)...)
		return
	}
	h.logger.Debug("navigation", kv...)
}

func (h *NavigationLogger) OnSessionOpen(_ context.Context, session string, nodeCount int) {
	h.logger.Info("session opened", "session", session, "nodes", nodeCount)
}

func (h *NavigationLogger) OnSessionClose(_ context.Context, session string) {
	h.logger.Info("session closed", "session", session)
}

var _ NavigationHooks = (*NavigationLogger)(nil)
