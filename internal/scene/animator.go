package scene

import (
	"math"
	"time"

	"github.com/smazurov/subjectlink/internal/livelink"
)

// Orbit moves a camera around Center at Radius and Height, facing the
// center. Speed is in radians per second.
type Orbit struct {
	Center livelink.Vector `toml:"center"`
	Radius float64         `toml:"radius"`
	Height float64         `toml:"height"`
	Speed  float64         `toml:"speed"`
}

// Pose returns the orbit transform at elapsed time.
func (o Orbit) Pose(elapsed time.Duration) livelink.Transform {
	angle := o.Speed * elapsed.Seconds()
	loc := livelink.Vector{
		X: o.Center.X + o.Radius*math.Cos(angle),
		Y: o.Center.Y + o.Radius*math.Sin(angle),
		Z: o.Center.Z + o.Height,
	}
	yaw := angle + math.Pi
	pitch := 0.0
	if o.Radius > 0 {
		pitch = math.Atan2(o.Height, o.Radius)
	}
	return livelink.Transform{
		Location: loc,
		Rotation: YawPitch(yaw, pitch),
		Scale:    livelink.Vector{X: 1, Y: 1, Z: 1},
	}
}

// Animator drives camera orbits on a scene.
type Animator struct {
	scene  *Scene
	orbits map[string]Orbit
	start  time.Time
}

// NewAnimator creates an animator starting at start.
func NewAnimator(s *Scene, orbits map[string]Orbit, start time.Time) *Animator {
	return &Animator{scene: s, orbits: orbits, start: start}
}

// Step poses every orbiting camera for time now. Cameras removed from the
// scene are skipped.
func (a *Animator) Step(now time.Time) {
	elapsed := now.Sub(a.start)
	for name, orbit := range a.orbits {
		_ = a.scene.SetLocal(name, orbit.Pose(elapsed))
	}
}
