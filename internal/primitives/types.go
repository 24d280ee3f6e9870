package primitives

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// PrimitiveDef is the YAML definition for a default primitive (e.g. assets/primitives/cube.yaml).
// The file name is the primitive's name; Type picks the generator, so "crate.yaml" with
// type cube and size [2, 2, 2] registers a larger box under the name "crate".
type PrimitiveDef struct {
	Type     string     `yaml:"type"`
	Size     [3]float32 `yaml:"size,omitempty"`
	Color    string     `yaml:"color,omitempty"`
	Segments int        `yaml:"segments,omitempty"`
	Tiles    float32    `yaml:"tiles,omitempty"`
	Texture  string     `yaml:"texture,omitempty"`
}

// defaultColor is the albedo for primitives whose definition names no color.
const defaultColor = "#808080"

// size returns Size with zero components replaced by 1.
func (d PrimitiveDef) size() mgl32.Vec3 {
	s := mgl32.Vec3(d.Size)
	for i := range s {
		if s[i] == 0 {
			s[i] = 1
		}
	}
	return s
}

// RGB parses Color ("#rgb", "#rrggbb", or "r,g,b" in 0..1) into linear floats.
func (d PrimitiveDef) RGB() (mgl32.Vec3, error) {
	c := strings.TrimSpace(d.Color)
	if c == "" {
		c = defaultColor
	}
	return ParseColor(c)
}

// ParseColor accepts "#rgb", "#rrggbb" or three comma-separated floats.
func ParseColor(s string) (mgl32.Vec3, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return mgl32.Vec3{}, fmt.Errorf("color %q: want #rgb or #rrggbb", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("color %q: %w", s, err)
		}
		return mgl32.Vec3{
			float32((v>>16)&0xff) / 255,
			float32((v>>8)&0xff) / 255,
			float32(v&0xff) / 255,
		}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("color %q: want three components", s)
	}
	var out mgl32.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("color %q: %w", s, err)
		}
		out[i] = mgl32.Clamp(float32(f), 0, 1)
	}
	return out, nil
}
