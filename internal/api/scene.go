package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/subjectlink/internal/api/models"
	"github.com/smazurov/subjectlink/internal/events"
	"github.com/smazurov/subjectlink/internal/scene"
)

// registerSceneRoutes sets up the scene endpoints.
func (s *Server) registerSceneRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-cameras",
		Method:      http.MethodGet,
		Path:        "/api/scene/cameras",
		Summary:     "List Cameras",
		Description: "List scene cameras and the camera the viewport currently renders through",
		Tags:        []string{"scene"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.CameraListResponse, error) {
		current := s.scene.CurrentCameraName()
		cameras := s.scene.Cameras()
		list := make([]models.CameraData, 0, len(cameras))
		for _, cam := range cameras {
			list = append(list, cameraData(cam, current))
		}
		return &models.CameraListResponse{
			Body: models.CameraListData{
				Cameras: list,
				Current: current,
				Count:   len(list),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-current-camera",
		Method:      http.MethodPut,
		Path:        "/api/scene/current-camera",
		Summary:     "Set Current Camera",
		Description: "Switch the viewport camera. The EditorActiveCamera subject follows on the next tick.",
		Tags:        []string{"scene"},
		Errors:      []int{400, 401, 404},
		Security:    withAuth(),
	}, func(_ context.Context, input *models.CurrentCameraRequest) (*models.CurrentCameraResponse, error) {
		name := input.Body.Camera
		if err := s.scene.SetCurrentCamera(name); err != nil {
			if errors.Is(err, scene.ErrCameraNotFound) {
				return nil, huma.Error404NotFound("Camera not found: "+name, err)
			}
			return nil, huma.Error400BadRequest("Invalid camera", err)
		}

		cam := s.scene.Camera(name)
		if cam == nil {
			return nil, huma.Error404NotFound("Camera not found: " + name)
		}

		s.eventBus.Publish(events.CameraChangedEvent{
			Camera:    name,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		s.logger.Info("Current camera changed", "camera", name)

		return &models.CurrentCameraResponse{Body: cameraData(*cam, name)}, nil
	})
}

func cameraData(cam scene.Camera, current string) models.CameraData {
	return models.CameraData{
		Name:          cam.Name,
		Parent:        cam.Parent,
		Current:       cam.Name == current,
		World:         cam.World,
		FieldOfView:   cam.FieldOfView,
		AspectRatio:   cam.AspectRatio,
		FocalLength:   cam.FocalLength,
		FocusDistance: cam.FocusDistance,
		Aperture:      cam.Aperture,
		Projection:    cam.Projection,
	}
}
