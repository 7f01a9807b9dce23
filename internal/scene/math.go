package scene

import (
	"math"

	"github.com/smazurov/subjectlink/internal/livelink"
)

// Compose returns child expressed in parent's space.
func Compose(parent, child livelink.Transform) livelink.Transform {
	scaled := livelink.Vector{
		X: child.Location.X * parent.Scale.X,
		Y: child.Location.Y * parent.Scale.Y,
		Z: child.Location.Z * parent.Scale.Z,
	}
	rotated := Rotate(parent.Rotation, scaled)
	return livelink.Transform{
		Location: livelink.Vector{
			X: parent.Location.X + rotated.X,
			Y: parent.Location.Y + rotated.Y,
			Z: parent.Location.Z + rotated.Z,
		},
		Rotation: Mul(parent.Rotation, child.Rotation),
		Scale: livelink.Vector{
			X: parent.Scale.X * child.Scale.X,
			Y: parent.Scale.Y * child.Scale.Y,
			Z: parent.Scale.Z * child.Scale.Z,
		},
	}
}

// Mul returns the Hamilton product a*b.
func Mul(a, b livelink.Quat) livelink.Quat {
	return livelink.Quat{
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
	}
}

// Rotate applies q to v.
func Rotate(q livelink.Quat, v livelink.Vector) livelink.Vector {
	p := livelink.Quat{X: v.X, Y: v.Y, Z: v.Z}
	conj := livelink.Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
	r := Mul(Mul(q, p), conj)
	return livelink.Vector{X: r.X, Y: r.Y, Z: r.Z}
}

// YawPitch builds a rotation from yaw around Z followed by pitch around Y,
// both in radians.
func YawPitch(yaw, pitch float64) livelink.Quat {
	qYaw := livelink.Quat{Z: math.Sin(yaw / 2), W: math.Cos(yaw / 2)}
	qPitch := livelink.Quat{Y: math.Sin(pitch / 2), W: math.Cos(pitch / 2)}
	return Mul(qYaw, qPitch)
}

// FieldOfViewFromFocalLength returns the horizontal field of view in degrees
// for a lens on a film back of the given width, both in millimetres.
func FieldOfViewFromFocalLength(focalLength, filmBackWidth float64) float64 {
	if focalLength <= 0 || filmBackWidth <= 0 {
		return 0
	}
	return 2 * math.Atan(filmBackWidth/(2*focalLength)) * 180 / math.Pi
}
