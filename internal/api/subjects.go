package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/subjectlink/internal/api/models"
	"github.com/smazurov/subjectlink/internal/config"
	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/session"
	"github.com/smazurov/subjectlink/internal/streamobject"
)

// registerSubjectRoutes sets up the subject endpoints.
func (s *Server) registerSubjectRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-subjects",
		Method:      http.MethodGet,
		Path:        "/api/subjects",
		Summary:     "List Subjects",
		Description: "List every stream object in the session with its latest published records",
		Tags:        []string{"subjects"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.SubjectListResponse, error) {
		infos := s.session.List()
		list := make([]models.SubjectData, 0, len(infos))
		for _, info := range infos {
			list = append(list, s.subjectData(info))
		}
		return &models.SubjectListResponse{
			Body: models.SubjectListData{
				Subjects: list,
				Count:    len(list),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-subject",
		Method:      http.MethodGet,
		Path:        "/api/subjects/{name}",
		Summary:     "Get Subject",
		Description: "Get one stream object by subject name",
		Tags:        []string{"subjects"},
		Errors:      []int{401, 404},
		Security:    withAuth(),
	}, func(_ context.Context, input *models.SubjectPath) (*models.SubjectResponse, error) {
		info, err := s.session.Get(livelink.SubjectName(input.Name))
		if err != nil {
			return nil, s.mapSubjectError(err)
		}
		return &models.SubjectResponse{Body: s.subjectData(info)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-subject",
		Method:        http.MethodPost,
		Path:          "/api/subjects",
		Summary:       "Create Subject",
		Description:   "Start streaming a scene camera or model as a new subject",
		Tags:          []string{"subjects"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{400, 401, 409, 500},
		Security:      withAuth(),
	}, func(_ context.Context, input *models.SubjectCreateRequest) (*models.SubjectResponse, error) {
		spec := streamobject.Spec{
			Kind:           streamobject.Kind(input.Body.Kind),
			Name:           input.Body.Name,
			Target:         input.Body.Target,
			Mode:           input.Body.Mode,
			Active:         input.Body.Active,
			SendAnimatable: input.Body.SendAnimatable,
		}
		if err := spec.Validate(); err != nil {
			return nil, huma.Error400BadRequest("Invalid subject", err)
		}

		info, err := s.session.Create(spec)
		if err != nil {
			return nil, s.mapSubjectError(err)
		}
		s.persist(info.Name, info)

		return &models.SubjectResponse{Body: s.subjectData(info)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-subject",
		Method:      http.MethodPatch,
		Path:        "/api/subjects/{name}",
		Summary:     "Update Subject",
		Description: "Change name, streaming mode, active or send_animatable status of a subject. Properties an object keeps fixed stay unchanged.",
		Tags:        []string{"subjects"},
		Errors:      []int{400, 401, 404, 409, 500},
		Security:    withAuth(),
	}, func(_ context.Context, input *models.SubjectUpdateRequest) (*models.SubjectResponse, error) {
		update := session.SubjectUpdate{
			Mode:           input.Body.Mode,
			SendAnimatable: input.Body.SendAnimatable,
			Active:         input.Body.Active,
		}
		if input.Body.Name != nil {
			name := livelink.SubjectName(*input.Body.Name)
			update.Name = &name
		}

		previous := livelink.SubjectName(input.Name)
		info, err := s.session.Update(previous, update)
		if err != nil {
			return nil, s.mapSubjectError(err)
		}
		s.persist(previous, info)

		return &models.SubjectResponse{Body: s.subjectData(info)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-subject",
		Method:      http.MethodDelete,
		Path:        "/api/subjects/{name}",
		Summary:     "Delete Subject",
		Description: "Stop streaming a subject and unregister it from providers",
		Tags:        []string{"subjects"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(_ context.Context, input *models.SubjectPath) (*struct{}, error) {
		name := livelink.SubjectName(input.Name)
		info, err := s.session.Get(name)
		if err != nil {
			return nil, s.mapSubjectError(err)
		}
		if err := s.session.Remove(name); err != nil {
			return nil, s.mapSubjectError(err)
		}

		if info.Managed && s.subjects != nil {
			if err := s.subjects.Remove(name); err != nil && !errors.Is(err, config.ErrSubjectNotConfigured) {
				s.logger.Warn("Failed to remove subject from subjects file", "subject", input.Name, "error", err)
			}
		}
		return nil, nil
	})
}

// persist writes a managed subject back to the subjects file. The session
// already holds the change, so a failed write is logged rather than returned.
func (s *Server) persist(previous livelink.SubjectName, info session.Info) {
	if s.subjects == nil || !info.Managed {
		return
	}
	if err := s.subjects.Put(previous, specFromInfo(info)); err != nil {
		s.logger.Warn("Failed to save subjects file", "subject", string(info.Name), "error", err)
	}
}

// specFromInfo rebuilds the file representation of a managed object.
func specFromInfo(info session.Info) streamobject.Spec {
	active := info.Active
	spec := streamobject.Spec{
		Kind:           info.Kind,
		Target:         info.Target,
		Mode:           info.Mode,
		Active:         &active,
		SendAnimatable: info.SendAnimatable,
	}
	if info.Kind != streamobject.KindActiveCamera && string(info.Name) != info.Target {
		spec.Name = string(info.Name)
	}
	return spec
}

func (s *Server) subjectData(info session.Info) models.SubjectData {
	data := models.SubjectData{
		Name:           string(info.Name),
		Kind:           string(info.Kind),
		Target:         info.Target,
		Root:           info.Root,
		Active:         info.Active,
		SendAnimatable: info.SendAnimatable,
		Mode:           info.Mode,
		StreamOptions:  info.StreamOptions,
		ShowInUI:       info.ShowInUI,
		Valid:          info.Valid,
		Managed:        info.Managed,
	}
	if s.memory == nil {
		return data
	}
	if subject, ok := s.memory.Subject(info.Name); ok {
		data.Role = string(subject.Role)
		data.StaticPushes = subject.StaticPushes
		data.FramePushes = subject.FramePushes
		data.Static = &subject.Static
		data.LastFrame = subject.LastFrame
	}
	return data
}

// mapSubjectError converts session and stream object errors to HTTP errors.
func (s *Server) mapSubjectError(err error) error {
	switch {
	case errors.Is(err, session.ErrSubjectNotFound):
		return huma.Error404NotFound("Subject not found", err)
	case errors.Is(err, session.ErrDuplicateSubject):
		return huma.Error409Conflict("Subject already exists", err)
	case errors.Is(err, streamobject.ErrUnknownKind),
		errors.Is(err, streamobject.ErrUnsupportedMode),
		errors.Is(err, livelink.ErrEmptySubjectName):
		return huma.Error400BadRequest("Invalid subject", err)
	case errors.Is(err, session.ErrClosed):
		return huma.Error503ServiceUnavailable("Session is shutting down", err)
	default:
		s.logger.Error("Subject operation failed", "error", err)
		return huma.Error500InternalServerError("Subject operation failed", err)
	}
}
