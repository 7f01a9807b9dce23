// Package scene is an in-memory stand-in for the host application's scene:
// named models and cameras, a parent hierarchy, and the viewport's current
// camera. All queries return copies.
package scene

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/smazurov/subjectlink/internal/livelink"
)

var (
	// ErrCameraNotFound is returned when a camera name is unknown.
	ErrCameraNotFound = errors.New("camera not found")
	// ErrModelNotFound is returned when a model name is unknown.
	ErrModelNotFound = errors.New("model not found")
	// ErrEmptyName is returned when a model or camera has no name.
	ErrEmptyName = errors.New("name is required")
)

// maxDepth bounds hierarchy walks so a parent cycle cannot hang a query.
const maxDepth = 64

// Scene holds models and cameras. Cameras are also nodes of the hierarchy and
// can parent models.
type Scene struct {
	mu      sync.RWMutex
	models  map[string]Model
	cameras map[string]Camera
	current string
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		models:  make(map[string]Model),
		cameras: make(map[string]Camera),
	}
}

// CurrentCamera returns the camera the viewport renders through, or nil.
func (s *Scene) CurrentCamera() *Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cameraLocked(s.current)
}

// CurrentCameraName returns the name of the current camera, which may not
// resolve to a camera.
func (s *Scene) CurrentCameraName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrentCamera switches the viewport camera.
func (s *Scene) SetCurrentCamera(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cameras[name]; !ok {
		return ErrCameraNotFound
	}
	s.current = name
	return nil
}

// ClearCurrentCamera leaves the viewport without a resolvable camera.
func (s *Scene) ClearCurrentCamera() {
	s.mu.Lock()
	s.current = ""
	s.mu.Unlock()
}

// Camera returns a snapshot of the named camera, or nil.
func (s *Scene) Camera(name string) *Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cameraLocked(name)
}

// Model returns a snapshot of the named model, or nil. Cameras are not
// returned here.
func (s *Scene) Model(name string) *Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[name]
	if !ok {
		return nil
	}
	snap := m.clone()
	snap.World = s.worldLocked(m.Name)
	return &snap
}

// Cameras returns all cameras sorted by name.
func (s *Scene) Cameras() []Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Camera, 0, len(s.cameras))
	for name := range s.cameras {
		out = append(out, *s.cameraLocked(name))
	}
	slices.SortFunc(out, func(a, b Camera) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Models returns all models sorted by name.
func (s *Scene) Models() []Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Model, 0, len(s.models))
	for _, m := range s.models {
		snap := m.clone()
		snap.World = s.worldLocked(m.Name)
		out = append(out, snap)
	}
	slices.SortFunc(out, func(a, b Model) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Root returns the top-most ancestor of name, or name itself when it has no
// parent. Unknown names return "".
func (s *Scene) Root(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root := ""
	for i := 0; i < maxDepth && name != ""; i++ {
		parent, ok := s.parentLocked(name)
		if !ok {
			break
		}
		root = name
		name = parent
	}
	return root
}

// UpsertModel adds or replaces a model.
func (s *Scene) UpsertModel(m Model) error {
	if m.Name == "" {
		return ErrEmptyName
	}
	s.mu.Lock()
	s.models[m.Name] = m.clone()
	s.mu.Unlock()
	return nil
}

// UpsertCamera adds or replaces a camera.
func (s *Scene) UpsertCamera(c Camera) error {
	if c.Name == "" {
		return ErrEmptyName
	}
	s.mu.Lock()
	s.cameras[c.Name] = c.clone()
	s.mu.Unlock()
	return nil
}

// SetLocal updates the local transform of a model or camera.
func (s *Scene) SetLocal(name string, t livelink.Transform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cameras[name]; ok {
		c.Local = t
		s.cameras[name] = c
		return nil
	}
	if m, ok := s.models[name]; ok {
		m.Local = t
		s.models[name] = m
		return nil
	}
	return ErrModelNotFound
}

// RemoveModel deletes a model. Children keep their parent name and are
// treated as roots until it comes back.
func (s *Scene) RemoveModel(name string) {
	s.mu.Lock()
	delete(s.models, name)
	s.mu.Unlock()
}

// RemoveCamera deletes a camera. Removing the current camera leaves the
// viewport without a resolvable camera.
func (s *Scene) RemoveCamera(name string) {
	s.mu.Lock()
	delete(s.cameras, name)
	s.mu.Unlock()
}

func (s *Scene) cameraLocked(name string) *Camera {
	c, ok := s.cameras[name]
	if !ok {
		return nil
	}
	snap := c.clone()
	snap.World = s.worldLocked(c.Name)
	return &snap
}

func (s *Scene) parentLocked(name string) (string, bool) {
	if c, ok := s.cameras[name]; ok {
		return c.Parent, true
	}
	if m, ok := s.models[name]; ok {
		return m.Parent, true
	}
	return "", false
}

func (s *Scene) localLocked(name string) (livelink.Transform, bool) {
	if c, ok := s.cameras[name]; ok {
		return c.Local, true
	}
	if m, ok := s.models[name]; ok {
		return m.Local, true
	}
	return livelink.Transform{}, false
}

// worldLocked composes local transforms from the root down.
func (s *Scene) worldLocked(name string) livelink.Transform {
	var chain []livelink.Transform
	for i := 0; i < maxDepth && name != ""; i++ {
		local, ok := s.localLocked(name)
		if !ok {
			break
		}
		chain = append(chain, local)
		name, _ = s.parentLocked(name)
	}
	world := livelink.IdentityTransform
	for i := len(chain) - 1; i >= 0; i-- {
		world = Compose(world, chain[i])
	}
	return world
}
