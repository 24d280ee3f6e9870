package mapgen

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/mesh"
)

// HeightMapOptions controls procedural terrain generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Z.
// HeightScale is the maximum height of the terrain in world units.
// Seed controls randomness; Seed == 0 uses a time-based seed.
// Octaves, Frequency, Lacunarity, and Gain control the fractal noise shape.
type HeightMapOptions struct {
	Width       int     `yaml:"width" toml:"width"`
	Depth       int     `yaml:"depth" toml:"depth"`
	TileSize    float32 `yaml:"tile_size" toml:"tile_size"`
	HeightScale float32 `yaml:"height_scale" toml:"height_scale"`

	Seed       int64   `yaml:"seed" toml:"seed"`
	Octaves    int     `yaml:"octaves" toml:"octaves"`
	Frequency  float32 `yaml:"frequency" toml:"frequency"`
	Lacunarity float32 `yaml:"lacunarity" toml:"lacunarity"`
	Gain       float32 `yaml:"gain" toml:"gain"`
}

// DefaultHeightMapOptions returns a sane default configuration.
func DefaultHeightMapOptions() HeightMapOptions {
	return HeightMapOptions{
		Width:       32,
		Depth:       32,
		TileSize:    1.0,
		HeightScale: 3.0,
		Seed:        0,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2.0,
		Gain:        0.5,
	}
}

// normalized fills zero or negative fields with defaults and resolves the seed.
func (o HeightMapOptions) normalized() HeightMapOptions {
	d := DefaultHeightMapOptions()
	if o.Width <= 1 {
		o.Width = d.Width
	}
	if o.Depth <= 1 {
		o.Depth = d.Depth
	}
	if o.TileSize <= 0 {
		o.TileSize = d.TileSize
	}
	if o.HeightScale <= 0 {
		o.HeightScale = d.HeightScale
	}
	if o.Octaves <= 0 {
		o.Octaves = d.Octaves
	}
	if o.Frequency <= 0 {
		o.Frequency = d.Frequency
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = d.Lacunarity
	}
	if o.Gain <= 0 {
		o.Gain = d.Gain
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// Heights samples fractal noise on a (Width+1)×(Depth+1) vertex grid, row by row along Z.
// Every value lies in [0, HeightScale].
func Heights(opts HeightMapOptions) []float32 {
	opts = opts.normalized()
	cols, rows := opts.Width+1, opts.Depth+1
	out := make([]float32, 0, cols*rows)
	for z := 0; z < rows; z++ {
		for x := 0; x < cols; x++ {
			h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency, opts.Seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			if !isFinite(h) {
				h = 0
			}
			out = append(out, mgl32.Clamp(h, 0, 1)*opts.HeightScale)
		}
	}
	return out
}

// Terrain builds a single deformed grid mesh centered on the origin in XZ, base at Y=0.
// Normals come from central differences of neighbouring heights; UVs span one tile per unit.
func Terrain(opts HeightMapOptions) mesh.Data {
	opts = opts.normalized()
	heights := Heights(opts)
	cols, rows := opts.Width+1, opts.Depth+1
	startX := -float32(opts.Width) * opts.TileSize / 2
	startZ := -float32(opts.Depth) * opts.TileSize / 2

	at := func(x, z int) float32 {
		x = max(0, min(cols-1, x))
		z = max(0, min(rows-1, z))
		return heights[z*cols+x]
	}

	d := mesh.Data{Vertices: make([]gpu.Vertex, 0, cols*rows)}
	for z := 0; z < rows; z++ {
		for x := 0; x < cols; x++ {
			dx := (at(x+1, z) - at(x-1, z)) / (2 * opts.TileSize)
			dz := (at(x, z+1) - at(x, z-1)) / (2 * opts.TileSize)
			n := mgl32.Vec3{-dx, 1, -dz}.Normalize()
			t := mgl32.Vec3{1, dx, 0}.Normalize()
			d.Vertices = append(d.Vertices, gpu.Vertex{
				Position:  mgl32.Vec3{startX + float32(x)*opts.TileSize, at(x, z), startZ + float32(z)*opts.TileSize},
				Normal:    n,
				TexCoords: mgl32.Vec2{float32(x), float32(z)},
				Tangent:   t,
				Bitangent: n.Cross(t).Normalize(),
			})
		}
	}
	stride := uint32(cols)
	for z := 0; z < opts.Depth; z++ {
		for x := 0; x < opts.Width; x++ {
			a := uint32(z)*stride + uint32(x)
			b := a + stride
			d.Indices = append(d.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return d
}

// fractalValueNoise2D is simple fractal value noise: layered smooth value noise with
// configurable octaves, lacunarity, and gain. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum float32
	var amplitude float32 = 1
	var maxAmp float32 = 0
	freq := float32(1)

	for i := 0; i < octaves; i++ {
		n := valueNoise2D(x*freq, y*freq, int32(seed)+int32(i))
		sum += n * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] using a hash-based lattice and bicubic-like easing.
func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math32.Floor(x))
	y0 := int32(math32.Floor(y))
	tx := x - float32(x0)
	ty := y - float32(y0)

	// Lattice values at cell corners.
	v00 := hash2D(x0, y0, seed)
	v10 := hash2D(x0+1, y0, seed)
	v01 := hash2D(x0, y0+1, seed)
	v11 := hash2D(x0+1, y0+1, seed)

	// Smooth interpolation.
	sx := smoothStep(tx)
	sy := smoothStep(ty)

	ix0 := lerp(v00, v10, sx)
	ix1 := lerp(v01, v11, sx)
	return lerp(ix0, ix1, sy)
}

// hash2D maps integer lattice coordinates to a deterministic pseudo-random float in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	// Convert to [0,1]
	const invMaxInt = 1.0 / 2147483647.0
	return float32(n&0x7fffffff) * float32(invMaxInt)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothStep is Perlin-style cubic easing: 3t^2 - 2t^3.
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

