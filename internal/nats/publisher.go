package nats

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/version"
)

// Publisher is a livelink.Provider that publishes subject records to NATS.
// It degrades to bookkeeping only while disconnected and resends static
// data after reconnects and on resync requests.
type Publisher struct {
	url       string
	source    string
	conn      *nats.Conn
	sub       *nats.Subscription
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool
	versions  *livelink.Versions
	statics   map[livelink.SubjectName]StaticMessage
	now       func() time.Time

	reconnectWait time.Duration
}

var _ livelink.Provider = (*Publisher)(nil)

// NewPublisher creates a publisher for the server at url. Every message it
// sends carries a random source id.
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	source := uuid.NewString()

	return &Publisher{
		url:      url,
		source:   source,
		logger:   logger.With("component", "nats-publisher", "source", source),
		versions: livelink.NewVersions(),
		statics:  make(map[livelink.SubjectName]StaticMessage),
		now:      time.Now,

		reconnectWait: 2 * time.Second,
	}
}

// Source returns the id stamped on every message.
func (p *Publisher) Source() string { return p.source }

// Connect establishes the NATS connection. A server that is not reachable
// yet is retried in the background and the publisher works offline until the
// first connect, which sends the static data of every subject.
func (p *Publisher) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	opts := []nats.Option{
		nats.Name(version.ClientName("publisher")),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(p.reconnectWait),
		nats.MaxReconnects(-1),
		nats.ConnectHandler(func(_ *nats.Conn) {
			p.mu.Lock()
			p.connected = true
			p.mu.Unlock()
			p.logger.Info("Connected to NATS, sending static data", "url", p.url)
			p.resync()
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			p.mu.Lock()
			p.connected = false
			p.mu.Unlock()
			if err != nil {
				p.logger.Warn("NATS disconnected", "error", err)
			} else {
				p.logger.Debug("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			p.mu.Lock()
			p.connected = true
			p.mu.Unlock()
			p.logger.Info("NATS reconnected, resending static data")
			p.resync()
		}),
	}

	conn, err := nats.Connect(p.url, opts...)
	if err != nil {
		p.logger.Warn("Failed to connect to NATS, publishing offline", "error", err)
		return err
	}

	sub, err := conn.Subscribe(SubjectControlResync(), p.handleControl)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to control subject: %w", err)
	}
	p.conn = conn
	p.sub = sub

	if !conn.IsConnected() {
		p.logger.Warn("NATS not reachable yet, retrying in background", "url", p.url)
		return nil
	}
	if err := conn.Flush(); err != nil {
		p.logger.Warn("Failed to flush control subscription", "error", err)
	}
	p.connected = true
	p.logger.Info("Connected to NATS", "url", p.url)
	return nil
}

// UpdateSubjectStaticData registers name and publishes its static data.
func (p *Publisher) UpdateSubjectStaticData(name livelink.SubjectName, role livelink.Role, data livelink.StaticData) error {
	version, err := p.versions.Static(name)
	if err != nil {
		return err
	}
	data.Version = version
	data.Role = role

	msg := StaticMessage{
		Source:    p.source,
		Subject:   string(name),
		Role:      role,
		Timestamp: p.now().Format(time.RFC3339Nano),
		Data:      data,
	}

	p.mu.Lock()
	p.statics[name] = msg
	p.mu.Unlock()

	return p.publish(SubjectTopic(name, KindStatic), msg)
}

// UpdateSubjectFrameData publishes frame data for a registered subject.
func (p *Publisher) UpdateSubjectFrameData(name livelink.SubjectName, data livelink.FrameData) error {
	version, err := p.versions.Frame(name)
	if err != nil {
		return err
	}
	data.StaticVersion = version

	return p.publish(SubjectTopic(name, KindFrame), FrameMessage{
		Source:    p.source,
		Subject:   string(name),
		Timestamp: p.now().Format(time.RFC3339Nano),
		Data:      data,
	})
}

// RemoveSubject announces the removal of a registered subject.
func (p *Publisher) RemoveSubject(name livelink.SubjectName) error {
	if !p.versions.Remove(name) {
		return nil
	}

	p.mu.Lock()
	delete(p.statics, name)
	p.mu.Unlock()

	return p.publish(SubjectTopic(name, KindRemoved), RemovedMessage{
		Source:    p.source,
		Subject:   string(name),
		Timestamp: p.now().Format(time.RFC3339Nano),
	})
}

type marshaler interface {
	Marshal() ([]byte, error)
}

// publish is a no-op while disconnected.
func (p *Publisher) publish(topic string, m marshaler) error {
	p.mu.RLock()
	conn := p.conn
	connected := p.connected
	p.mu.RUnlock()

	if conn == nil || !connected {
		return nil
	}

	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", topic, err)
	}
	if err := conn.Publish(topic, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) handleControl(msg *nats.Msg) {
	ctrl, err := UnmarshalControl(msg.Data)
	if err != nil {
		p.logger.Warn("Failed to unmarshal control message", "error", err)
		return
	}
	if ctrl.Action != ActionResync {
		p.logger.Debug("Ignoring control message", "action", ctrl.Action)
		return
	}
	p.logger.Debug("Resync requested", "reason", ctrl.Reason)
	p.resync()
}

// resync republishes the latest static data of every subject.
func (p *Publisher) resync() {
	p.mu.RLock()
	msgs := make([]StaticMessage, 0, len(p.statics))
	for _, m := range p.statics {
		msgs = append(msgs, m)
	}
	p.mu.RUnlock()

	slices.SortFunc(msgs, func(a, b StaticMessage) int { return cmp.Compare(a.Data.Version, b.Data.Version) })
	for _, m := range msgs {
		if err := p.publish(SubjectTopic(livelink.SubjectName(m.Subject), KindStatic), m); err != nil {
			p.logger.Warn("Failed to resend static data", "subject", m.Subject, "error", err)
		}
	}
}

// IsConnected returns true if connected to NATS.
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected && p.conn != nil
}

// Close flushes pending messages and closes the connection. Subjects are not
// removed; callers close stream objects first.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sub != nil {
		_ = p.sub.Unsubscribe()
		p.sub = nil
	}
	if p.conn != nil {
		if p.conn.IsConnected() {
			_ = p.conn.Flush()
		}
		p.conn.Close()
		p.conn = nil
	}
	p.connected = false
	p.logger.Debug("NATS publisher closed")
}
