package nats

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/version"
)

// resyncInterval limits how often a mirror asks publishers for static data
// after seeing frames for unknown subjects.
const resyncInterval = time.Second

// Mirror subscribes to the subject hierarchy and replays every message into
// a local livelink.Provider, so a consumer sees the same subjects the
// publisher streams.
type Mirror struct {
	url        string
	target     livelink.Provider
	conn       *nats.Conn
	sub        *nats.Subscription
	logger     *slog.Logger
	mu         sync.Mutex
	lastResync time.Time
	now        func() time.Time
}

// NewMirror creates a mirror replaying into target.
func NewMirror(url string, target livelink.Provider, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}

	return &Mirror{
		url:    url,
		target: target,
		logger: logger.With("component", "nats-mirror"),
		now:    time.Now,
	}
}

// Start connects, subscribes and asks publishers for their static data.
func (m *Mirror) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, err := nats.Connect(m.url,
		nats.Name(version.ClientName("mirror")),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				m.logger.Warn("NATS mirror disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			m.logger.Info("NATS mirror reconnected")
		}),
	)
	if err != nil {
		return err
	}

	// One wildcard subscription keeps static, frame and removed messages of a
	// subject in publish order.
	sub, err := conn.Subscribe(SubjectSubjectsPrefix+".>", m.handle)
	if err != nil {
		conn.Close()
		return err
	}
	if err := conn.Flush(); err != nil {
		m.logger.Warn("Failed to flush subscription", "error", err)
	}

	m.conn = conn
	m.sub = sub
	m.logger.Info("NATS mirror subscribed", "url", m.url)

	m.requestResyncLocked("mirror_start")
	return nil
}

func (m *Mirror) handle(msg *nats.Msg) {
	name, kind, ok := ParseTopic(msg.Subject)
	if !ok {
		m.logger.Debug("Ignoring message on unexpected subject", "subject", msg.Subject)
		return
	}

	switch kind {
	case KindStatic:
		sm, err := UnmarshalStatic(msg.Data)
		if err != nil {
			m.logger.Warn("Failed to unmarshal static data", "error", err, "subject", msg.Subject)
			return
		}
		if err := m.target.UpdateSubjectStaticData(name, sm.Role, sm.Data); err != nil {
			m.logger.Warn("Failed to mirror static data", "error", err, "subject", string(name))
		}

	case KindFrame:
		fm, err := UnmarshalFrame(msg.Data)
		if err != nil {
			m.logger.Warn("Failed to unmarshal frame data", "error", err, "subject", msg.Subject)
			return
		}
		err = m.target.UpdateSubjectFrameData(name, fm.Data)
		if errors.Is(err, livelink.ErrSubjectNotRegistered) {
			m.mu.Lock()
			m.requestResyncLocked("unknown_subject")
			m.mu.Unlock()
			return
		}
		if err != nil {
			m.logger.Warn("Failed to mirror frame data", "error", err, "subject", string(name))
		}

	case KindRemoved:
		if err := m.target.RemoveSubject(name); err != nil {
			m.logger.Warn("Failed to mirror removal", "error", err, "subject", string(name))
		}

	default:
		m.logger.Debug("Ignoring unknown message kind", "kind", kind)
	}
}

// requestResyncLocked publishes a resync request, at most once per
// resyncInterval. Must hold m.mu.
func (m *Mirror) requestResyncLocked(reason string) {
	if m.conn == nil {
		return
	}
	now := m.now()
	if !m.lastResync.IsZero() && now.Sub(m.lastResync) < resyncInterval {
		return
	}
	m.lastResync = now

	data, err := ControlMessage{
		Action:    ActionResync,
		Timestamp: now.Format(time.RFC3339),
		Reason:    reason,
	}.Marshal()
	if err != nil {
		return
	}
	if err := m.conn.Publish(SubjectControlResync(), data); err != nil {
		m.logger.Warn("Failed to request resync", "error", err)
	}
}

// Stop unsubscribes and closes the connection.
func (m *Mirror) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sub != nil {
		_ = m.sub.Unsubscribe()
		m.sub = nil
	}
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.logger.Info("NATS mirror stopped")
}

// IsConnected returns true if the mirror is connected to NATS.
func (m *Mirror) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil && m.conn.IsConnected()
}
