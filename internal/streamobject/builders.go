package streamobject

import (
	"slices"

	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/scene"
)

// UpdateTransformStaticData declares the transform channels of model. With
// sendAnimatable set, the model's animatable properties are declared too.
// A nil model still declares the channels.
func UpdateTransformStaticData(model *scene.Model, sendAnimatable bool, data *livelink.StaticData) {
	data.Transform = livelink.TransformStatic{
		IsLocationSupported: true,
		IsRotationSupported: true,
		IsScaleSupported:    true,
		Animatable:          sendAnimatable,
	}
	data.PropertyNames = declaredProperties(model, sendAnimatable)
}

// UpdateCameraStaticData declares the lens channels of cam. A nil camera
// still declares the channels with empty film back values.
func UpdateCameraStaticData(cam *scene.Camera, data *livelink.StaticData) {
	static := livelink.CameraStatic{
		IsFieldOfViewSupported:    true,
		IsAspectRatioSupported:    true,
		IsFocalLengthSupported:    true,
		IsProjectionModeSupported: true,
	}
	if cam != nil {
		static.CameraName = cam.Name
		static.FilmBackWidth = cam.FilmBackWidth
		static.FilmBackHeight = cam.FilmBackHeight
	}
	data.Camera = &static
}

// UpdateTransformFrameData copies the world transform of model and, with
// sendAnimatable set, its property values in declaration order.
func UpdateTransformFrameData(model *scene.Model, sendAnimatable bool, data *livelink.FrameData) {
	data.Transform = model.World
	data.PropertyValues = nil
	if !sendAnimatable {
		return
	}
	names := propertyNames(model)
	if len(names) == 0 {
		return
	}
	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = model.Properties[name]
	}
	data.PropertyValues = values
}

// UpdateCameraFrameData copies the lens values of cam.
func UpdateCameraFrameData(cam *scene.Camera, data *livelink.FrameData) {
	data.Camera = &livelink.CameraFrame{
		FieldOfView:    cam.FieldOfView,
		AspectRatio:    cam.AspectRatio,
		FocalLength:    cam.FocalLength,
		FocusDistance:  cam.FocusDistance,
		Aperture:       cam.Aperture,
		ProjectionMode: cam.Projection,
	}
}

// declaredProperties lists the property names a static record for model
// declares.
func declaredProperties(model *scene.Model, sendAnimatable bool) []string {
	if model == nil || !sendAnimatable {
		return nil
	}
	return propertyNames(model)
}

func propertyNames(model *scene.Model) []string {
	if len(model.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(model.Properties))
	for name := range model.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
