// Package streamobject publishes scene entities as subjects on a
// livelink.Provider.
//
// Every streamed entity kind implements StreamObject. Objects are not safe for
// concurrent use; the session package calls them from a single goroutine.
package streamobject

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/scene"
)

// ErrUnsupportedMode is returned when a streaming mode is out of range for
// an object that has modes.
var ErrUnsupportedMode = errors.New("unsupported streaming mode")

// AcceptsMode reports whether obj can switch to mode. Objects without stream
// options ignore mode changes, so any mode is accepted.
func AcceptsMode(obj StreamObject, mode int) bool {
	options := obj.StreamOptions()
	if options == "" {
		return true
	}
	return mode >= 0 && mode <= strings.Count(options, "~")
}

// StreamObject is the capability set shared by all streamed entities.
type StreamObject interface {
	// ShouldShowInUI reports whether the subject is user-selectable.
	ShouldShowInUI() bool
	// StreamOptions describes the available streaming modes, "~" separated.
	StreamOptions() string

	SubjectName() livelink.SubjectName
	UpdateSubjectName(name livelink.SubjectName) error

	StreamingMode() int
	UpdateStreamingMode(mode int) error

	ActiveStatus() bool
	UpdateActiveStatus(active bool)

	SendAnimatableStatus() bool
	// UpdateSendAnimatableStatus refreshes static data when the value changes.
	UpdateSendAnimatableStatus(sendAnimatable bool) error

	// ModelPointer returns the scene entity behind the subject, or nil.
	ModelPointer() *scene.Model
	RootName() string
	IsValid() bool

	// Refresh rebuilds and pushes static data.
	Refresh() error
	// UpdateSubjectFrame pushes frame data when active and the entity resolves.
	UpdateSubjectFrame() error
	// Close removes the subject from the provider. Further calls are no-ops.
	Close() error
}

// Option configures a stream object before its first refresh.
type Option func(*base)

// WithActive sets the initial active state.
func WithActive(active bool) Option {
	return func(b *base) { b.active = active }
}

// WithSendAnimatable sets the initial send-animatable state.
func WithSendAnimatable(sendAnimatable bool) Option {
	return func(b *base) { b.sendAnimatable = sendAnimatable }
}

// WithClock overrides the clock used to stamp frame data.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) { b.logger = logger }
}

// base holds the state every stream object kind shares.
type base struct {
	provider       livelink.Provider
	name           livelink.SubjectName
	active         bool
	sendAnimatable bool
	closed         bool
	now            func() time.Time
	logger         *slog.Logger

	// shape of the last static record the provider accepted
	declaredCamera     string
	declaredProperties []string
}

func newBase(provider livelink.Provider, name livelink.SubjectName, opts []Option) base {
	b := base{
		provider: provider,
		name:     name,
		active:   true,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) SubjectName() livelink.SubjectName { return b.name }

func (b *base) ActiveStatus() bool { return b.active }

func (b *base) UpdateActiveStatus(active bool) { b.active = active }

func (b *base) SendAnimatableStatus() bool { return b.sendAnimatable }

// swapSendAnimatable stores v and reports whether it changed.
func (b *base) swapSendAnimatable(v bool) bool {
	if b.sendAnimatable == v {
		return false
	}
	b.sendAnimatable = v
	return true
}

func (b *base) pushStatic(role livelink.Role, data livelink.StaticData) error {
	if b.closed {
		return nil
	}
	if err := b.provider.UpdateSubjectStaticData(b.name, role, data); err != nil {
		return err
	}
	b.declaredCamera = ""
	if data.Camera != nil {
		b.declaredCamera = data.Camera.CameraName
	}
	b.declaredProperties = slices.Clone(data.PropertyNames)
	return nil
}

// declares reports whether the last static record was built for camera and
// properties. Frames built for anything else need a refresh first.
func (b *base) declares(camera string, properties []string) bool {
	return b.declaredCamera == camera && slices.Equal(b.declaredProperties, properties)
}

func (b *base) pushFrame(data livelink.FrameData) error {
	if b.closed {
		return nil
	}
	return b.provider.UpdateSubjectFrameData(b.name, data)
}

func (b *base) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.logger.Debug("Removing subject", "subject", string(b.name))
	return b.provider.RemoveSubject(b.name)
}

// rename moves the subject to a new name. The caller refreshes afterwards.
func (b *base) rename(name livelink.SubjectName) (bool, error) {
	if name == "" || name == b.name || b.closed {
		return false, nil
	}
	if err := b.provider.RemoveSubject(b.name); err != nil {
		return false, err
	}
	b.logger.Debug("Renaming subject", "subject", string(b.name), "new_subject", string(name))
	b.name = name
	return true, nil
}

// register runs the initial refresh and unregisters again if it fails.
func register(obj StreamObject) error {
	if err := obj.Refresh(); err != nil {
		return errors.Join(err, obj.Close())
	}
	return nil
}
