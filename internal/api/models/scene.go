package models

import "github.com/smazurov/subjectlink/internal/livelink"

// CameraData describes one scene camera.
type CameraData struct {
	Name          string                  `json:"name" example:"Producer Perspective" doc:"Camera name"`
	Parent        string                  `json:"parent,omitempty" example:"Rig" doc:"Parent node"`
	Current       bool                    `json:"current" example:"true" doc:"Whether the viewport renders through this camera"`
	World         livelink.Transform      `json:"world" doc:"World transform"`
	FieldOfView   float64                 `json:"field_of_view" example:"54.4" doc:"Horizontal field of view in degrees"`
	AspectRatio   float64                 `json:"aspect_ratio" example:"1.777" doc:"Aspect ratio"`
	FocalLength   float64                 `json:"focal_length" example:"35" doc:"Focal length in millimeters"`
	FocusDistance float64                 `json:"focus_distance" example:"500" doc:"Focus distance"`
	Aperture      float64                 `json:"aperture" example:"2.8" doc:"Aperture f-stop"`
	Projection    livelink.ProjectionMode `json:"projection" example:"perspective" doc:"Projection mode"`
}

type CameraListData struct {
	Cameras []CameraData `json:"cameras" doc:"Scene cameras sorted by name"`
	Current string       `json:"current" example:"Producer Perspective" doc:"Current camera name"`
	Count   int          `json:"count" example:"2" doc:"Number of cameras"`
}

type CameraListResponse struct {
	Body CameraListData
}

type CurrentCameraRequest struct {
	Body struct {
		Camera string `json:"camera" minLength:"1" example:"Camera.001" doc:"Camera to render through"`
	}
}

type CurrentCameraResponse struct {
	Body CameraData
}
