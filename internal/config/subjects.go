package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/streamobject"
)

// ErrSubjectNotConfigured is returned when a subject is not in the file.
var ErrSubjectNotConfigured = errors.New("subject not configured")

// SubjectsConfig represents the complete subjects configuration file.
//
//	version = 1
//
//	[[subjects]]
//	kind = "active_camera"
//
//	[[subjects]]
//	kind = "camera"
//	name = "Witness"
//	target = "Witness Camera"
//	mode = 1
type SubjectsConfig struct {
	Version  int                 `toml:"version" json:"version"`
	Subjects []streamobject.Spec `toml:"subjects" json:"subjects"`
}

// DefaultSubjects is used when no subjects file exists: the editor's active
// camera only.
func DefaultSubjects() []streamobject.Spec {
	return []streamobject.Spec{{Kind: streamobject.KindActiveCamera}}
}

// LoadSubjects reads the specs of a subjects file. A missing file yields
// DefaultSubjects. Specs are not validated here.
func LoadSubjects(path string) ([]streamobject.Spec, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSubjects(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read subjects config: %w", err)
	}

	var cfg SubjectsConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse subjects config: %w", err)
	}
	return cfg.Subjects, nil
}

// ValidateSubjects checks every spec and that subject names are unique.
func ValidateSubjects(specs []streamobject.Spec) error {
	var errs []error
	seen := make(map[livelink.SubjectName]int, len(specs))
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("subjects[%d]: %w", i, err))
			continue
		}
		name := spec.SubjectName()
		if prev, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("subjects[%d]: subject %q already defined by subjects[%d]", i, name, prev))
			continue
		}
		seen[name] = i
	}
	return errors.Join(errs...)
}

// SubjectsManager keeps the subjects file in sync with changes made at
// runtime.
type SubjectsManager struct {
	mu         sync.Mutex
	configPath string
	config     *SubjectsConfig
}

// NewSubjectsManager creates a manager for the file at configPath.
func NewSubjectsManager(configPath string) *SubjectsManager {
	if configPath == "" {
		configPath = "subjects.toml"
	}

	return &SubjectsManager{
		configPath: configPath,
		config: &SubjectsConfig{
			Version:  1,
			Subjects: DefaultSubjects(),
		},
	}
}

// Path returns the file the manager reads and writes.
func (sm *SubjectsManager) Path() string { return sm.configPath }

// Load loads the subjects configuration from file.
func (sm *SubjectsManager) Load() error {
	specs, err := LoadSubjects(sm.configPath)
	if err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.config.Subjects = specs
	return nil
}

// Save writes the subjects configuration to file.
func (sm *SubjectsManager) Save() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.saveLocked()
}

func (sm *SubjectsManager) saveLocked() error {
	// Ensure directory exists
	dir := filepath.Dir(sm.configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(sm.config)
	if err != nil {
		return fmt.Errorf("failed to marshal subjects config: %w", err)
	}

	if err := os.WriteFile(sm.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write subjects config: %w", err)
	}

	return nil
}

// Specs returns a copy of the configured specs.
func (sm *SubjectsManager) Specs() []streamobject.Spec {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return slices.Clone(sm.config.Subjects)
}

// Put adds spec, or replaces the spec stored under previous, and saves.
// Pass the spec's own subject name as previous to replace in place.
func (sm *SubjectsManager) Put(previous livelink.SubjectName, spec streamobject.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	idx := slices.IndexFunc(sm.config.Subjects, func(s streamobject.Spec) bool {
		return s.SubjectName() == previous
	})
	if idx >= 0 {
		sm.config.Subjects[idx] = spec
	} else {
		sm.config.Subjects = append(sm.config.Subjects, spec)
	}
	return sm.saveLocked()
}

// Remove deletes the spec publishing name and saves.
func (sm *SubjectsManager) Remove(name livelink.SubjectName) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	before := len(sm.config.Subjects)
	sm.config.Subjects = slices.DeleteFunc(sm.config.Subjects, func(s streamobject.Spec) bool {
		return s.SubjectName() == name
	})
	if len(sm.config.Subjects) == before {
		return fmt.Errorf("%w: %s", ErrSubjectNotConfigured, name)
	}
	return sm.saveLocked()
}
