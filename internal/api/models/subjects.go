package models

import "github.com/smazurov/subjectlink/internal/livelink"

// SubjectData describes one stream object and what its provider last saw.
type SubjectData struct {
	Name           string               `json:"name" example:"EditorActiveCamera" doc:"Subject name"`
	Kind           string               `json:"kind" example:"active_camera" doc:"Stream object kind"`
	Target         string               `json:"target,omitempty" example:"Camera.001" doc:"Scene object streamed by the subject"`
	Root           string               `json:"root,omitempty" example:"Rig" doc:"Hierarchy root of the streamed model"`
	Active         bool                 `json:"active" example:"true" doc:"Whether frames are sent"`
	SendAnimatable bool                 `json:"send_animatable" example:"false" doc:"Whether animatable properties are sent"`
	Mode           int                  `json:"mode" example:"0" doc:"Streaming mode"`
	StreamOptions  string               `json:"stream_options,omitempty" doc:"Kind specific options"`
	ShowInUI       bool                 `json:"show_in_ui" example:"false" doc:"Whether the subject is listed to users"`
	Valid          bool                 `json:"valid" example:"true" doc:"Whether the streamed scene object still exists"`
	Managed        bool                 `json:"managed" example:"true" doc:"Whether the subject comes from the subjects file"`
	Role           string               `json:"role,omitempty" example:"camera" doc:"Role declared with the last static data"`
	StaticPushes   uint64               `json:"static_pushes,omitempty" example:"1" doc:"Static data records accepted"`
	FramePushes    uint64               `json:"frame_pushes,omitempty" example:"1200" doc:"Frame data records accepted"`
	Static         *livelink.StaticData `json:"static,omitempty" doc:"Last static data record"`
	LastFrame      *livelink.FrameData  `json:"last_frame,omitempty" doc:"Last frame data record"`
}

type SubjectListData struct {
	Subjects []SubjectData `json:"subjects" doc:"Stream objects in session order"`
	Count    int           `json:"count" example:"2" doc:"Number of stream objects"`
}

type SubjectListResponse struct {
	Body SubjectListData
}

type SubjectResponse struct {
	Body SubjectData
}

type SubjectPath struct {
	Name string `path:"name" minLength:"1" example:"EditorActiveCamera" doc:"Subject name"`
}

type SubjectCreateData struct {
	Kind           string `json:"kind" enum:"active_camera,camera,model" example:"camera" doc:"Stream object kind"`
	Name           string `json:"name,omitempty" example:"Hero" doc:"Subject name; defaults to the target"`
	Target         string `json:"target,omitempty" example:"Camera.001" doc:"Scene camera or model to stream"`
	Mode           int    `json:"mode,omitempty" minimum:"0" example:"0" doc:"Streaming mode"`
	Active         *bool  `json:"active,omitempty" example:"true" doc:"Whether frames are sent; defaults to true"`
	SendAnimatable bool   `json:"send_animatable,omitempty" example:"false" doc:"Whether animatable properties are sent"`
}

type SubjectCreateRequest struct {
	Body SubjectCreateData
}

type SubjectUpdateData struct {
	Name           *string `json:"name,omitempty" minLength:"1" example:"Hero" doc:"New subject name"`
	Mode           *int    `json:"mode,omitempty" minimum:"0" example:"1" doc:"New streaming mode"`
	SendAnimatable *bool   `json:"send_animatable,omitempty" example:"true" doc:"Send animatable properties"`
	Active         *bool   `json:"active,omitempty" example:"false" doc:"Send frames"`
}

type SubjectUpdateRequest struct {
	Name string `path:"name" minLength:"1" example:"EditorActiveCamera" doc:"Subject name"`
	Body SubjectUpdateData
}
