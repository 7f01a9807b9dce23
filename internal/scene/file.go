package scene

import (
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/subjectlink/internal/livelink"
)

// fileTransform is the on-disk transform. Rotation is yaw/pitch in degrees.
type fileTransform struct {
	Location livelink.Vector  `toml:"location"`
	Yaw      float64          `toml:"yaw"`
	Pitch    float64          `toml:"pitch"`
	Scale    *livelink.Vector `toml:"scale"`
}

type fileModel struct {
	Name       string             `toml:"name"`
	Parent     string             `toml:"parent"`
	Transform  fileTransform      `toml:"transform"`
	Properties map[string]float64 `toml:"properties"`
}

type fileCamera struct {
	fileModel
	FieldOfView    float64 `toml:"field_of_view"`
	AspectRatio    float64 `toml:"aspect_ratio"`
	FocalLength    float64 `toml:"focal_length"`
	FocusDistance  float64 `toml:"focus_distance"`
	Aperture       float64 `toml:"aperture"`
	FilmBackWidth  float64 `toml:"film_back_width"`
	FilmBackHeight float64 `toml:"film_back_height"`
	Projection     string  `toml:"projection"`
	Orbit          *Orbit  `toml:"orbit"`
}

// File is the TOML scene description.
type File struct {
	CurrentCamera string       `toml:"current_camera"`
	Cameras       []fileCamera `toml:"cameras"`
	Models        []fileModel  `toml:"models"`
}

func (t fileTransform) transform() livelink.Transform {
	out := livelink.Transform{
		Location: t.Location,
		Rotation: YawPitch(t.Yaw*math.Pi/180, t.Pitch*math.Pi/180),
		Scale:    livelink.Vector{X: 1, Y: 1, Z: 1},
	}
	if t.Scale != nil {
		out.Scale = *t.Scale
	}
	return out
}

// LoadFile reads a TOML scene file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}
	return &f, nil
}

// Apply loads the file contents into s and returns the camera orbits it
// declares, keyed by camera name.
func (f *File) Apply(s *Scene) (map[string]Orbit, error) {
	orbits := make(map[string]Orbit)
	for _, fm := range f.Models {
		m := Model{
			Name:       fm.Name,
			Parent:     fm.Parent,
			Local:      fm.Transform.transform(),
			Properties: fm.Properties,
		}
		if err := s.UpsertModel(m); err != nil {
			return nil, fmt.Errorf("model %q: %w", fm.Name, err)
		}
	}
	for _, fc := range f.Cameras {
		c := Camera{
			Model: Model{
				Name:       fc.Name,
				Parent:     fc.Parent,
				Local:      fc.Transform.transform(),
				Properties: fc.Properties,
			},
			FieldOfView:    fc.FieldOfView,
			AspectRatio:    fc.AspectRatio,
			FocalLength:    fc.FocalLength,
			FocusDistance:  fc.FocusDistance,
			Aperture:       fc.Aperture,
			FilmBackWidth:  fc.FilmBackWidth,
			FilmBackHeight: fc.FilmBackHeight,
			Projection:     livelink.ProjectionMode(fc.Projection),
		}
		if c.Projection == "" {
			c.Projection = livelink.ProjectionPerspective
		}
		if c.FieldOfView == 0 {
			c.FieldOfView = FieldOfViewFromFocalLength(c.FocalLength, c.FilmBackWidth)
		}
		if err := s.UpsertCamera(c); err != nil {
			return nil, fmt.Errorf("camera %q: %w", fc.Name, err)
		}
		if fc.Orbit != nil {
			orbits[fc.Name] = *fc.Orbit
		}
	}
	if f.CurrentCamera != "" {
		if err := s.SetCurrentCamera(f.CurrentCamera); err != nil {
			return nil, fmt.Errorf("current camera %q: %w", f.CurrentCamera, err)
		}
	}
	return orbits, nil
}

// Default returns the scene used when no scene file is configured: a
// producer camera orbiting the origin and a static witness camera.
func Default() (*Scene, map[string]Orbit) {
	s := New()
	_ = s.UpsertCamera(Camera{
		Model: Model{
			Name:  "Producer Perspective",
			Local: livelink.IdentityTransform,
		},
		FocalLength:    35,
		FilmBackWidth:  36,
		FilmBackHeight: 24,
		FieldOfView:    FieldOfViewFromFocalLength(35, 36),
		AspectRatio:    1.5,
		FocusDistance:  500,
		Aperture:       2.8,
		Projection:     livelink.ProjectionPerspective,
	})
	_ = s.UpsertCamera(Camera{
		Model: Model{
			Name: "Witness",
			Local: livelink.Transform{
				Location: livelink.Vector{X: -400, Z: 150},
				Rotation: livelink.IdentityQuat,
				Scale:    livelink.Vector{X: 1, Y: 1, Z: 1},
			},
		},
		FocalLength:    50,
		FilmBackWidth:  36,
		FilmBackHeight: 24,
		FieldOfView:    FieldOfViewFromFocalLength(50, 36),
		AspectRatio:    1.5,
		FocusDistance:  400,
		Aperture:       4,
		Projection:     livelink.ProjectionPerspective,
	})
	_ = s.SetCurrentCamera("Producer Perspective")
	return s, map[string]Orbit{
		"Producer Perspective": {Radius: 500, Height: 200, Speed: 0.25},
	}
}
