package session

import (
	"errors"
	"fmt"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/streamobject"
)

// SyncResult reports what a Sync changed.
type SyncResult struct {
	Created []livelink.SubjectName
	Updated []livelink.SubjectName
	Removed []livelink.SubjectName
}

// Sync reconciles the objects created from specs with specs. Objects whose
// kind or target changed are rebuilt, others are updated in place. Objects
// added directly with Add are left alone. Every spec is attempted; the
// returned error joins all failures.
func (s *Session) Sync(specs []streamobject.Spec) (SyncResult, error) {
	var result SyncResult
	err := s.do(func() error {
		var errs []error

		desired := make(map[livelink.SubjectName]streamobject.Spec, len(specs))
		for _, spec := range specs {
			if err := spec.Validate(); err != nil {
				errs = append(errs, err)
				continue
			}
			name := spec.SubjectName()
			if _, dup := desired[name]; dup {
				errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateSubject, name))
				continue
			}
			desired[name] = spec
		}

		for _, name := range append([]livelink.SubjectName(nil), s.order...) {
			e := s.entries[name]
			if e.spec == nil {
				continue
			}
			want, ok := desired[name]
			if ok && want.Kind == e.spec.Kind && want.Target == e.spec.Target {
				continue
			}
			if err := s.removeLocked(name); err != nil {
				errs = append(errs, err)
			}
			result.Removed = append(result.Removed, name)
		}

		for _, spec := range specs {
			name := spec.SubjectName()
			if want, ok := desired[name]; !ok || want != spec {
				continue
			}
			e, exists := s.entries[name]
			if !exists {
				if _, err := s.createLocked(spec); err != nil {
					errs = append(errs, err)
					continue
				}
				result.Created = append(result.Created, name)
				continue
			}
			if e.spec == nil {
				errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateSubject, name))
				continue
			}
			if sameSettings(*e.spec, spec) {
				continue
			}
			active := spec.IsActive()
			mode := spec.Mode
			sendAnimatable := spec.SendAnimatable
			if err := s.applyLocked(e, SubjectUpdate{Mode: &mode, SendAnimatable: &sendAnimatable, Active: &active}); err != nil {
				errs = append(errs, err)
				continue
			}
			result.Updated = append(result.Updated, name)
		}

		return errors.Join(errs...)
	})
	return result, err
}

func sameSettings(a, b streamobject.Spec) bool {
	return a.Mode == b.Mode && a.SendAnimatable == b.SendAnimatable && a.IsActive() == b.IsActive()
}
