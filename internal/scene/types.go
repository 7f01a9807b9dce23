package scene

import (
	"maps"

	"github.com/smazurov/subjectlink/internal/livelink"
)

// Model is a snapshot of a scene node. Local is relative to Parent; World is
// filled in by Scene when the snapshot is taken.
type Model struct {
	Name       string             `toml:"name"`
	Parent     string             `toml:"parent"`
	Local      livelink.Transform `toml:"-"`
	World      livelink.Transform `toml:"-"`
	Properties map[string]float64 `toml:"properties"`
}

// Camera is a snapshot of a scene camera.
type Camera struct {
	Model

	FieldOfView    float64                 `toml:"field_of_view"`
	AspectRatio    float64                 `toml:"aspect_ratio"`
	FocalLength    float64                 `toml:"focal_length"`
	FocusDistance  float64                 `toml:"focus_distance"`
	Aperture       float64                 `toml:"aperture"`
	FilmBackWidth  float64                 `toml:"film_back_width"`
	FilmBackHeight float64                 `toml:"film_back_height"`
	Projection     livelink.ProjectionMode `toml:"projection"`
}

// CameraSource answers "which camera is the viewport currently rendering".
// A nil result means no camera is resolvable right now.
type CameraSource interface {
	CurrentCamera() *Camera
}

// CameraSourceFunc adapts a function to CameraSource.
type CameraSourceFunc func() *Camera

// CurrentCamera calls f.
func (f CameraSourceFunc) CurrentCamera() *Camera { return f() }

func (m Model) clone() Model {
	m.Properties = maps.Clone(m.Properties)
	return m
}

func (c Camera) clone() Camera {
	c.Model = c.Model.clone()
	return c
}
