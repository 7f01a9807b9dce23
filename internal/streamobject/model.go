package streamobject

import (
	"strings"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/scene"
)

// Model streaming modes.
const (
	ModeWorldSpace = iota
	ModeLocalSpace
)

var modelModes = []string{"World Space", "Local Space"}

// ModelLookup resolves scene models and their hierarchy roots.
type ModelLookup interface {
	Model(name string) *scene.Model
	Root(name string) string
}

// Model streams the transform of one named scene model.
type Model struct {
	base
	lookup ModelLookup
	target string
	mode   int
}

var _ StreamObject = (*Model)(nil)

// NewModel registers a transform subject for the model named target.
func NewModel(provider livelink.Provider, lookup ModelLookup, name livelink.SubjectName, target string, mode int, opts ...Option) (*Model, error) {
	if mode < 0 || mode >= len(modelModes) {
		return nil, ErrUnsupportedMode
	}
	if name == "" {
		name = livelink.SubjectName(target)
	}
	o := &Model{
		base:   newBase(provider, name, opts),
		lookup: lookup,
		target: target,
		mode:   mode,
	}
	if err := register(o); err != nil {
		return nil, err
	}
	return o, nil
}

// Target returns the scene name of the streamed model.
func (o *Model) Target() string { return o.target }

// ShouldShowInUI is always true.
func (o *Model) ShouldShowInUI() bool { return true }

// StreamOptions lists the model modes.
func (o *Model) StreamOptions() string { return strings.Join(modelModes, "~") }

// UpdateSubjectName moves the subject under a new name.
func (o *Model) UpdateSubjectName(name livelink.SubjectName) error {
	renamed, err := o.rename(name)
	if err != nil || !renamed {
		return err
	}
	return o.Refresh()
}

// StreamingMode returns the current mode.
func (o *Model) StreamingMode() int { return o.mode }

// UpdateStreamingMode switches between world and local space. The static
// shape does not depend on the mode, so no refresh is sent.
func (o *Model) UpdateStreamingMode(mode int) error {
	if mode < 0 || mode >= len(modelModes) {
		return ErrUnsupportedMode
	}
	o.mode = mode
	return nil
}

// UpdateSendAnimatableStatus refreshes static data when the value changes.
func (o *Model) UpdateSendAnimatableStatus(sendAnimatable bool) error {
	if !o.swapSendAnimatable(sendAnimatable) {
		return nil
	}
	return o.Refresh()
}

// ModelPointer returns the model, or nil once it is gone.
func (o *Model) ModelPointer() *scene.Model { return o.lookup.Model(o.target) }

// RootName returns the top of the model's hierarchy.
func (o *Model) RootName() string { return o.lookup.Root(o.target) }

// IsValid reports whether the model still exists.
func (o *Model) IsValid() bool { return o.lookup.Model(o.target) != nil }

// Refresh pushes transform static data.
func (o *Model) Refresh() error {
	data := livelink.NewStaticData(livelink.RoleTransform)
	UpdateTransformStaticData(o.lookup.Model(o.target), o.sendAnimatable, &data)
	return o.pushStatic(livelink.RoleTransform, data)
}

// UpdateSubjectFrame pushes the model transform while active, refreshing
// first when the model's properties changed since the last static record.
func (o *Model) UpdateSubjectFrame() error {
	if !o.active {
		return nil
	}
	model := o.lookup.Model(o.target)
	if model == nil {
		return nil
	}

	if !o.declares("", declaredProperties(model, o.sendAnimatable)) {
		if err := o.Refresh(); err != nil {
			return err
		}
	}

	data := livelink.NewFrameData(livelink.RoleTransform, o.now())
	UpdateTransformFrameData(model, o.sendAnimatable, &data)
	if o.mode == ModeLocalSpace {
		data.Transform = model.Local
	}
	return o.pushFrame(data)
}
