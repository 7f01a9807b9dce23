// Package session schedules stream objects. It owns every object it is given
// and is the only caller of their methods: changes requested from other
// goroutines are queued as commands and executed between ticks.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/smazurov/subjectlink/internal/events"
	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/metrics"
	"github.com/smazurov/subjectlink/internal/streamobject"
)

// DefaultFrameRate is the tick rate used when Config.FrameRate is unset.
const DefaultFrameRate = 30

// Config configures a Session.
type Config struct {
	// FrameRate is the number of ticks per second.
	FrameRate float64
	// Factory builds objects for Create and Sync.
	Factory *streamobject.Factory
	// Bus receives SubjectUpdatedEvent notifications. Optional.
	Bus *events.Bus
	// BeforeTick runs at the start of every tick, before any frame is pushed.
	BeforeTick func(now time.Time)
	Logger     *slog.Logger
	Now        func() time.Time
}

type entry struct {
	obj  streamobject.StreamObject
	spec *streamobject.Spec // nil when added directly
}

type command struct {
	fn   func() error
	done chan error
}

type state int

const (
	stateIdle state = iota
	stateRunning
	stateClosed
)

// Session ticks a set of stream objects at a fixed rate.
type Session struct {
	cfg      Config
	interval time.Duration
	logger   *slog.Logger

	// exec serializes every call into stream objects.
	exec    sync.Mutex
	entries map[livelink.SubjectName]*entry
	order   []livelink.SubjectName

	mu    sync.Mutex
	state state
	cmds  chan command
	done  chan struct{}
}

// New creates an idle session. Objects can be added before Run.
func New(cfg Config) *Session {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultFrameRate
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Session{
		cfg:      cfg,
		interval: time.Duration(float64(time.Second) / cfg.FrameRate),
		logger:   cfg.Logger.With("component", "session"),
		entries:  make(map[livelink.SubjectName]*entry),
		cmds:     make(chan command),
		done:     make(chan struct{}),
	}
}

// Interval returns the time between ticks.
func (s *Session) Interval() time.Duration { return s.interval }

// do runs fn on the session's thread of control.
func (s *Session) do(fn func() error) error {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()

	switch st {
	case stateClosed:
		return ErrClosed
	case stateIdle:
		s.exec.Lock()
		defer s.exec.Unlock()
		return fn()
	}

	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case s.cmds <- cmd:
		return <-cmd.done
	case <-s.done:
		return ErrClosed
	}
}

// Run ticks until ctx is done, then closes every object so all subjects are
// removed from the provider. A session runs once.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.state != stateIdle {
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = stateRunning
	s.mu.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Session started", "frame_rate", s.cfg.FrameRate, "subjects", len(s.order))

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case cmd := <-s.cmds:
			s.exec.Lock()
			cmd.done <- cmd.fn()
			s.exec.Unlock()
		case <-ticker.C:
			s.exec.Lock()
			s.tick()
			s.exec.Unlock()
		}
	}
}

func (s *Session) shutdown() {
	s.mu.Lock()
	s.state = stateClosed
	close(s.done)
	s.mu.Unlock()

	s.exec.Lock()
	defer s.exec.Unlock()

	for _, name := range slices.Clone(s.order) {
		if err := s.removeLocked(name); err != nil {
			s.logger.Warn("Failed to remove subject on shutdown", "subject", string(name), "error", err)
		}
	}
	metrics.SetActiveSubjects(0)
	s.logger.Info("Session stopped")
}

// Tick runs one frame immediately.
func (s *Session) Tick() error {
	return s.do(func() error {
		s.tick()
		return nil
	})
}

func (s *Session) tick() {
	start := s.cfg.Now()
	if s.cfg.BeforeTick != nil {
		s.cfg.BeforeTick(start)
	}

	for _, name := range slices.Clone(s.order) {
		e := s.entries[name]
		if !e.obj.IsValid() {
			s.logger.Info("Subject no longer valid, removing", "subject", string(name))
			if err := s.removeLocked(name); err != nil {
				s.logger.Warn("Failed to remove invalid subject", "subject", string(name), "error", err)
			}
			continue
		}
		if err := e.obj.UpdateSubjectFrame(); err != nil {
			s.logger.Warn("Failed to update subject frame", "subject", string(name), "error", err)
		}
	}

	metrics.SetActiveSubjects(len(s.order))
	metrics.ObserveTick(s.cfg.Now().Sub(start))
}

// Add takes ownership of obj. On error the caller keeps ownership.
func (s *Session) Add(obj streamobject.StreamObject) error {
	return s.do(func() error { return s.addLocked(obj, nil) })
}

func (s *Session) addLocked(obj streamobject.StreamObject, spec *streamobject.Spec) error {
	name := obj.SubjectName()
	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSubject, name)
	}
	s.entries[name] = &entry{obj: obj, spec: spec}
	s.order = append(s.order, name)
	s.logger.Debug("Subject added", "subject", string(name), "kind", streamobject.KindOf(obj))
	return nil
}

// Create builds an object from spec with the configured factory and adds it.
func (s *Session) Create(spec streamobject.Spec) (Info, error) {
	var info Info
	err := s.do(func() error {
		e, err := s.createLocked(spec)
		if err != nil {
			return err
		}
		info = describe(e)
		return nil
	})
	return info, err
}

func (s *Session) createLocked(spec streamobject.Spec) (*entry, error) {
	if s.cfg.Factory == nil {
		return nil, ErrNoFactory
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	name := spec.SubjectName()
	if _, ok := s.entries[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSubject, name)
	}
	obj, err := s.cfg.Factory.New(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create subject %s: %w", name, err)
	}
	if err := s.addLocked(obj, &spec); err != nil {
		return nil, errors.Join(err, obj.Close())
	}
	return s.entries[obj.SubjectName()], nil
}

// Remove closes the named object and unregisters its subject.
func (s *Session) Remove(name livelink.SubjectName) error {
	return s.do(func() error { return s.removeLocked(name) })
}

func (s *Session) removeLocked(name livelink.SubjectName) error {
	e, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, name)
	}
	delete(s.entries, name)
	s.order = slices.DeleteFunc(s.order, func(n livelink.SubjectName) bool { return n == name })
	s.logger.Debug("Subject removed", "subject", string(name))
	return e.obj.Close()
}

// Get returns a snapshot of the named object.
func (s *Session) Get(name livelink.SubjectName) (Info, error) {
	var info Info
	err := s.do(func() error {
		e, ok := s.entries[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrSubjectNotFound, name)
		}
		info = describe(e)
		return nil
	})
	return info, err
}

// List returns snapshots of all objects in the order they were added.
func (s *Session) List() []Info {
	var out []Info
	_ = s.do(func() error {
		out = make([]Info, 0, len(s.order))
		for _, name := range s.order {
			out = append(out, describe(s.entries[name]))
		}
		return nil
	})
	return out
}
