package streamobject

import (
	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/scene"
)

// ActiveCameraSubject is the fixed subject name of the viewport camera.
const ActiveCameraSubject livelink.SubjectName = "EditorActiveCamera"

// ActiveCamera streams whichever camera the viewport currently renders
// through. Its name and mode are fixed and it is never shown in subject
// lists.
type ActiveCamera struct {
	base
	source scene.CameraSource
}

var _ StreamObject = (*ActiveCamera)(nil)

// NewActiveCamera registers the viewport camera subject with provider.
// The subject exists with static data before NewActiveCamera returns.
func NewActiveCamera(provider livelink.Provider, source scene.CameraSource, opts ...Option) (*ActiveCamera, error) {
	o := &ActiveCamera{
		base:   newBase(provider, ActiveCameraSubject, opts),
		source: source,
	}
	if err := register(o); err != nil {
		return nil, err
	}
	return o, nil
}

// ShouldShowInUI is always false.
func (o *ActiveCamera) ShouldShowInUI() bool { return false }

// StreamOptions is empty.
func (o *ActiveCamera) StreamOptions() string { return "" }

// UpdateSubjectName is a no-op.
func (o *ActiveCamera) UpdateSubjectName(livelink.SubjectName) error { return nil }

// StreamingMode is always 0.
func (o *ActiveCamera) StreamingMode() int { return 0 }

// UpdateStreamingMode is a no-op.
func (o *ActiveCamera) UpdateStreamingMode(int) error { return nil }

// UpdateSendAnimatableStatus refreshes static data when the value changes.
func (o *ActiveCamera) UpdateSendAnimatableStatus(sendAnimatable bool) error {
	if !o.swapSendAnimatable(sendAnimatable) {
		return nil
	}
	return o.Refresh()
}

// ModelPointer is nil; the subject follows whichever camera is current.
func (o *ActiveCamera) ModelPointer() *scene.Model { return nil }

// RootName is empty.
func (o *ActiveCamera) RootName() string { return "" }

// IsValid is always true.
func (o *ActiveCamera) IsValid() bool { return true }

// Refresh pushes camera static data for the current camera. A missing camera
// still declares the subject's shape.
func (o *ActiveCamera) Refresh() error {
	return o.refresh(o.source.CurrentCamera())
}

func (o *ActiveCamera) refresh(cam *scene.Camera) error {
	data := livelink.NewStaticData(livelink.RoleCamera)
	var model *scene.Model
	if cam != nil {
		model = &cam.Model
	}
	UpdateTransformStaticData(model, o.sendAnimatable, &data)
	UpdateCameraStaticData(cam, &data)
	return o.pushStatic(livelink.RoleCamera, data)
}

// UpdateSubjectFrame pushes the current camera's frame. Nothing is sent while
// inactive or while no camera is current. When the current camera is not the
// one the static record describes, static data is refreshed first.
func (o *ActiveCamera) UpdateSubjectFrame() error {
	if !o.active {
		return nil
	}
	cam := o.source.CurrentCamera()
	if cam == nil {
		return nil
	}
	if !o.declares(cam.Name, declaredProperties(&cam.Model, o.sendAnimatable)) {
		if err := o.refresh(cam); err != nil {
			return err
		}
	}

	data := livelink.NewFrameData(livelink.RoleCamera, o.now())
	UpdateTransformFrameData(&cam.Model, o.sendAnimatable, &data)
	UpdateCameraFrameData(cam, &data)
	return o.pushFrame(data)
}
