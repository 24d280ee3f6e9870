package ui

import (
	"fmt"
	"path/filepath"

	"wildfox-engine/internal/scene"
)

// Field is one read-only inspector line.
type Field struct {
	Label string
	Value string
}

func vec3String(v [3]float32) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", v[0], v[1], v[2])
}

// InspectorFields summarizes o for the inspector header. Editable values get their own
// widgets; these lines are what the panel shows as text.
func InspectorFields(o *scene.Object) []Field {
	if o == nil || o.Removed() {
		return nil
	}
	tex := "none"
	if o.Params.TexturePath != "" {
		tex = filepath.Base(o.Params.TexturePath)
	}
	rotate := "off"
	if o.Params.AutoRotate {
		rotate = fmt.Sprintf("%.0f°/s", o.Params.RotateSpeed)
	}
	triangles := 0
	if m := o.Model(); m != nil {
		triangles = m.TriangleCount()
	}
	return []Field{
		{"Name", o.Name},
		{"ID", fmt.Sprint(o.ID())},
		{"Source", o.Source},
		{"Position", vec3String(o.Transform.Position())},
		{"Rotation", vec3String(o.Transform.Rotation())},
		{"Scale", vec3String(o.Transform.Scale())},
		{"Color", vec3String(o.Params.Color)},
		{"Texture", tex},
		{"Auto-rotate", rotate},
		{"Triangles", fmt.Sprint(triangles)},
	}
}
