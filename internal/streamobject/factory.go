package streamobject

import (
	"errors"
	"fmt"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/scene"
)

// Kind names a stream object implementation.
type Kind string

// Known kinds.
const (
	KindActiveCamera Kind = "active_camera"
	KindCamera       Kind = "camera"
	KindModel        Kind = "model"
)

// ErrUnknownKind is returned for a Spec whose kind has no implementation.
var ErrUnknownKind = errors.New("unknown stream object kind")

// Spec is the configured description of one subject.
type Spec struct {
	Kind           Kind   `toml:"kind" json:"kind"`
	Name           string `toml:"name,omitempty" json:"name,omitempty"`
	Target         string `toml:"target,omitempty" json:"target,omitempty"`
	Mode           int    `toml:"mode,omitempty" json:"mode,omitempty"`
	Active         *bool  `toml:"active,omitempty" json:"active,omitempty"`
	SendAnimatable bool   `toml:"send_animatable,omitempty" json:"send_animatable,omitempty"`
}

// IsActive defaults to true when Active is unset.
func (s Spec) IsActive() bool {
	return s.Active == nil || *s.Active
}

// SubjectName returns the subject the spec publishes under.
func (s Spec) SubjectName() livelink.SubjectName {
	switch {
	case s.Kind == KindActiveCamera:
		return ActiveCameraSubject
	case s.Name != "":
		return livelink.SubjectName(s.Name)
	default:
		return livelink.SubjectName(s.Target)
	}
}

// Validate checks the spec can be built.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindActiveCamera:
		return nil
	case KindCamera, KindModel:
		if s.Target == "" {
			return fmt.Errorf("%s subject requires a target", s.Kind)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}

// Factory builds stream objects against one provider and scene.
type Factory struct {
	Provider livelink.Provider
	Scene    *scene.Scene
	Options  []Option
}

// New builds and registers the stream object described by spec.
func (f *Factory) New(spec Spec) (StreamObject, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	opts := append([]Option{
		WithActive(spec.IsActive()),
		WithSendAnimatable(spec.SendAnimatable),
	}, f.Options...)

	switch spec.Kind {
	case KindActiveCamera:
		return NewActiveCamera(f.Provider, f.Scene, opts...)
	case KindCamera:
		return NewCamera(f.Provider, f.Scene, livelink.SubjectName(spec.Name), spec.Target, spec.Mode, opts...)
	default:
		return NewModel(f.Provider, f.Scene, livelink.SubjectName(spec.Name), spec.Target, spec.Mode, opts...)
	}
}

// KindOf returns the kind of obj, or "" for foreign implementations.
func KindOf(obj StreamObject) Kind {
	switch obj.(type) {
	case *ActiveCamera:
		return KindActiveCamera
	case *Camera:
		return KindCamera
	case *Model:
		return KindModel
	default:
		return ""
	}
}
