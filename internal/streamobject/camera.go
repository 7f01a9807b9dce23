package streamobject

import (
	"strings"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/scene"
)

// Camera streaming modes.
const (
	ModeCamera = iota
	ModeTransformOnly
)

var cameraModes = []string{"Camera", "Transform Only"}

// CameraLookup resolves scene cameras by name.
type CameraLookup interface {
	Camera(name string) *scene.Camera
}

// Camera streams one named scene camera.
type Camera struct {
	base
	lookup CameraLookup
	target string
	mode   int
}

var _ StreamObject = (*Camera)(nil)

// NewCamera registers a subject for the camera named target.
func NewCamera(provider livelink.Provider, lookup CameraLookup, name livelink.SubjectName, target string, mode int, opts ...Option) (*Camera, error) {
	if mode < 0 || mode >= len(cameraModes) {
		return nil, ErrUnsupportedMode
	}
	if name == "" {
		name = livelink.SubjectName(target)
	}
	o := &Camera{
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

// Target returns the scene name of the streamed camera.
func (o *Camera) Target() string { return o.target }

// ShouldShowInUI is always true.
func (o *Camera) ShouldShowInUI() bool { return true }

// StreamOptions lists the camera modes.
func (o *Camera) StreamOptions() string { return strings.Join(cameraModes, "~") }

// UpdateSubjectName moves the subject under a new name.
func (o *Camera) UpdateSubjectName(name livelink.SubjectName) error {
	renamed, err := o.rename(name)
	if err != nil || !renamed {
		return err
	}
	return o.Refresh()
}

// StreamingMode returns the current mode.
func (o *Camera) StreamingMode() int { return o.mode }

// UpdateStreamingMode switches between camera and transform roles.
func (o *Camera) UpdateStreamingMode(mode int) error {
	if mode < 0 || mode >= len(cameraModes) {
		return ErrUnsupportedMode
	}
	if mode == o.mode {
		return nil
	}
	o.mode = mode
	return o.Refresh()
}

// UpdateSendAnimatableStatus refreshes static data when the value changes.
func (o *Camera) UpdateSendAnimatableStatus(sendAnimatable bool) error {
	if !o.swapSendAnimatable(sendAnimatable) {
		return nil
	}
	return o.Refresh()
}

// ModelPointer returns the camera node, or nil once it is gone.
func (o *Camera) ModelPointer() *scene.Model {
	cam := o.lookup.Camera(o.target)
	if cam == nil {
		return nil
	}
	return &cam.Model
}

// RootName is empty; cameras are streamed on their own.
func (o *Camera) RootName() string { return "" }

// IsValid reports whether the camera still exists.
func (o *Camera) IsValid() bool { return o.lookup.Camera(o.target) != nil }

func (o *Camera) role() livelink.Role {
	if o.mode == ModeTransformOnly {
		return livelink.RoleTransform
	}
	return livelink.RoleCamera
}

// Refresh pushes static data for the current mode.
func (o *Camera) Refresh() error {
	cam := o.lookup.Camera(o.target)
	role := o.role()

	data := livelink.NewStaticData(role)
	var model *scene.Model
	if cam != nil {
		model = &cam.Model
	}
	UpdateTransformStaticData(model, o.sendAnimatable, &data)
	if role == livelink.RoleCamera {
		UpdateCameraStaticData(cam, &data)
	}
	return o.pushStatic(role, data)
}

// UpdateSubjectFrame pushes the camera frame while active, refreshing first
// when the camera's properties no longer match the static record.
func (o *Camera) UpdateSubjectFrame() error {
	if !o.active {
		return nil
	}
	cam := o.lookup.Camera(o.target)
	if cam == nil {
		return nil
	}

	role := o.role()
	declaredCamera := ""
	if role == livelink.RoleCamera {
		declaredCamera = cam.Name
	}
	if !o.declares(declaredCamera, declaredProperties(&cam.Model, o.sendAnimatable)) {
		if err := o.Refresh(); err != nil {
			return err
		}
	}

	data := livelink.NewFrameData(role, o.now())
	UpdateTransformFrameData(&cam.Model, o.sendAnimatable, &data)
	if role == livelink.RoleCamera {
		UpdateCameraFrameData(cam, &data)
	}
	return o.pushFrame(data)
}
