package mapgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeightsStayInRangeAndRepeat(t *testing.T) {
	opts := DefaultHeightMapOptions()
	opts.Width, opts.Depth, opts.Seed = 8, 6, 42

	a := Heights(opts)
	b := Heights(opts)
	require.Len(t, a, 9*7)
	assert.Equal(t, a, b, "same seed gives the same terrain")
	for _, h := range a {
		assert.GreaterOrEqual(t, h, float32(0))
		assert.LessOrEqual(t, h, opts.HeightScale)
	}
}

func TestTerrainGrid(t *testing.T) {
	opts := DefaultHeightMapOptions()
	opts.Width, opts.Depth, opts.Seed, opts.TileSize = 4, 4, 7, 2

	d := Terrain(opts)
	require.NoError(t, d.Validate())
	assert.Len(t, d.Vertices, 25)
	assert.Len(t, d.Indices, 4*4*6)
	assert.Equal(t, float32(-4), d.Vertices[0].Position.X())
	assert.Equal(t, float32(4), d.Vertices[24].Position.Z())
	for _, v := range d.Vertices {
		assert.Greater(t, v.Normal.Y(), float32(0), "normals point up")
	}
	for i := 0; i < len(d.Indices); i += 3 {
		a := d.Vertices[d.Indices[i]].Position
		b := d.Vertices[d.Indices[i+1]].Position
		c := d.Vertices[d.Indices[i+2]].Position
		assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Y(), float32(0))
	}
}

func TestNormalizedFillsDefaults(t *testing.T) {
	o := HeightMapOptions{}.normalized()
	d := DefaultHeightMapOptions()
	assert.Equal(t, d.Width, o.Width)
	assert.Equal(t, d.Octaves, o.Octaves)
	assert.NotZero(t, o.Seed)
}

func TestValueNoiseBounds(t *testing.T) {
	for i := 0; i < 200; i++ {
		v := fractalValueNoise2D(float32(i)*0.37, float32(i)*0.11, 3, 4, 2, 0.5)
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}
