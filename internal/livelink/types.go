package livelink

import (
	"errors"
	"time"
)

// SubjectName identifies a subject on a Provider.
type SubjectName string

// String returns the name as a plain string.
func (n SubjectName) String() string { return string(n) }

// Role declares what kind of data a subject carries.
type Role string

// Supported roles.
const (
	RoleTransform Role = "transform"
	RoleCamera    Role = "camera"
)

// ProjectionMode of a camera lens.
type ProjectionMode string

// Projection modes.
const (
	ProjectionPerspective  ProjectionMode = "perspective"
	ProjectionOrthographic ProjectionMode = "orthographic"
)

var (
	// ErrSubjectNotRegistered is returned when frame data arrives for a
	// subject that never received static data.
	ErrSubjectNotRegistered = errors.New("subject has no static data")
	// ErrEmptySubjectName is returned for pushes without a subject name.
	ErrEmptySubjectName = errors.New("subject name is empty")
)

// Vector is a 3-component vector.
type Vector struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
	Z float64 `json:"z" toml:"z"`
}

// Quat is a rotation quaternion.
type Quat struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
	Z float64 `json:"z" toml:"z"`
	W float64 `json:"w" toml:"w"`
}

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quat{W: 1}

// Transform is a location/rotation/scale triple.
type Transform struct {
	Location Vector `json:"location"`
	Rotation Quat   `json:"rotation"`
	Scale    Vector `json:"scale"`
}

// IdentityTransform has no translation or rotation and unit scale.
var IdentityTransform = Transform{
	Rotation: IdentityQuat,
	Scale:    Vector{X: 1, Y: 1, Z: 1},
}

// TransformStatic describes which transform channels a subject provides.
type TransformStatic struct {
	IsLocationSupported bool `json:"is_location_supported"`
	IsRotationSupported bool `json:"is_rotation_supported"`
	IsScaleSupported    bool `json:"is_scale_supported"`
	Animatable          bool `json:"animatable"`
}

// CameraStatic describes which lens channels a camera subject provides.
type CameraStatic struct {
	CameraName                string  `json:"camera_name"`
	IsFieldOfViewSupported    bool    `json:"is_field_of_view_supported"`
	IsAspectRatioSupported    bool    `json:"is_aspect_ratio_supported"`
	IsFocalLengthSupported    bool    `json:"is_focal_length_supported"`
	IsProjectionModeSupported bool    `json:"is_projection_mode_supported"`
	FilmBackWidth             float64 `json:"film_back_width"`
	FilmBackHeight            float64 `json:"film_back_height"`
}

// StaticData is the infrequently changing description of a subject.
// Version is assigned by the Provider when the record is accepted.
type StaticData struct {
	Version       uint64          `json:"version"`
	Role          Role            `json:"role"`
	Transform     TransformStatic `json:"transform"`
	Camera        *CameraStatic   `json:"camera,omitempty"`
	PropertyNames []string        `json:"property_names,omitempty"`
}

// CameraFrame carries per-tick lens values.
type CameraFrame struct {
	FieldOfView    float64        `json:"field_of_view"`
	AspectRatio    float64        `json:"aspect_ratio"`
	FocalLength    float64        `json:"focal_length"`
	FocusDistance  float64        `json:"focus_distance"`
	Aperture       float64        `json:"aperture"`
	ProjectionMode ProjectionMode `json:"projection_mode"`
}

// FrameData is the per-tick payload of a subject. StaticVersion is stamped by
// the Provider with the version of the static data it belongs to.
type FrameData struct {
	StaticVersion  uint64       `json:"static_version"`
	WorldTime      time.Time    `json:"world_time"`
	Transform      Transform    `json:"transform"`
	Camera         *CameraFrame `json:"camera,omitempty"`
	PropertyValues []float64    `json:"property_values,omitempty"`
}

// NewStaticData returns an empty static record for role.
func NewStaticData(role Role) StaticData {
	sd := StaticData{Role: role}
	if role == RoleCamera {
		sd.Camera = &CameraStatic{}
	}
	return sd
}

// NewFrameData returns an empty frame record for role, stamped with now.
func NewFrameData(role Role, now time.Time) FrameData {
	fd := FrameData{
		WorldTime: now,
		Transform: IdentityTransform,
	}
	if role == RoleCamera {
		fd.Camera = &CameraFrame{}
	}
	return fd
}
