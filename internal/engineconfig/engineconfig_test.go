package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileGivesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestRoundTripBothFormats(t *testing.T) {
	for _, name := range []string{"engine.yaml", "engine.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg", name)
			want := Default()
			want.Window.Title = "test"
			want.Render.Wireframe = true
			want.Camera.Speed = 7
			want.Skybox = nil

			require.NoError(t, Save(path, want))
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "test", got.Window.Title)
			assert.True(t, got.Render.Wireframe)
			assert.Equal(t, float32(7), got.Camera.Speed)
			assert.Equal(t, want.Render.ClearColor, got.Render.ClearColor)
		})
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yml")
	require.NoError(t, os.WriteFile(path, []byte("show_fps: true\nwindow:\n  width: 640\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.True(t, p.ShowFPS)
	assert.Equal(t, 640, p.Window.Width)
	assert.Equal(t, 720, p.Window.Height)
	assert.True(t, p.Editor.Enabled)
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte("window = [[[\n"), 0o644))

	p, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), p)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Load("engine.json")
	assert.Error(t, err)
	assert.Error(t, Save(filepath.Join(t.TempDir(), "x.ini"), Default()))
}

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		EnvLogLevel: "debug",
		EnvAssetDir: "  ",
		EnvEditor:   "false",
	}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
	p := Default()
	require.NoError(t, ApplyEnv(&p, lookup))
	assert.Equal(t, "debug", p.LogLevel)
	assert.Equal(t, "assets", p.AssetDir, "blank values are ignored")
	assert.False(t, p.Editor.Enabled)

	vars[EnvEditor] = "maybe"
	p = Default()
	assert.Error(t, ApplyEnv(&p, lookup))
	assert.True(t, p.Editor.Enabled)
}
