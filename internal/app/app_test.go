package app

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/gpu/gputest"
	"wildfox-engine/internal/logger"
	"wildfox-engine/internal/mesh"
	"wildfox-engine/internal/platform"
	"wildfox-engine/internal/platform/platformtest"
	"wildfox-engine/internal/primitives"
	"wildfox-engine/internal/render"
	"wildfox-engine/internal/texture"
)

type harness struct {
	win *platformtest.Window
	dev *gputest.Device
	app *App
}

func newHarness(t *testing.T, editor bool, hooks Hooks) *harness {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Editor = editor
	h := &harness{win: platformtest.New(), dev: gputest.New()}
	prims := primitives.NewRegistry(nil)
	h.app = New(cfg, Deps{
		Window: h.win,
		Device: h.dev,
		Decoder: texture.DecoderFunc(func([]byte) (gpu.Image, error) {
			return gpu.Image{Pixels: make([]byte, 3), Width: 1, Height: 1, Channels: 3}, nil
		}),
		Factory: func(kind string) (*mesh.Model, error) {
			return prims.Build(h.dev, kind)
		},
		Log: logger.Discard(),
	}, hooks)
	return h
}

func (h *harness) addCube(t *testing.T) {
	t.Helper()
	model, err := primitives.NewRegistry(nil).Build(h.dev, "cube")
	require.NoError(t, err)
	h.app.Registry().Create("Cube1", model, nil)
}

func TestInitFailsWhenWindowCannotOpen(t *testing.T) {
	h := newHarness(t, true, Hooks{})
	h.win.FailCreate = true

	err := h.app.Init()
	assert.ErrorIs(t, err, ErrInit)
	assert.ErrorIs(t, h.app.Run(), ErrNotInitialized)
	assert.NotPanics(t, h.app.Shutdown)
	assert.Zero(t, h.dev.LiveTotal())
}

func TestInitHookErrorAbortsStartup(t *testing.T) {
	shutdowns := 0
	h := newHarness(t, true, Hooks{
		Init:     func(*App) error { return errors.New("no assets") },
		Shutdown: func(*App) { shutdowns++ },
	})

	err := h.app.Init()
	assert.ErrorIs(t, err, ErrInit)
	assert.True(t, h.win.Closed)
	assert.Zero(t, h.dev.LiveTotal(), "partial state is released")

	h.app.Shutdown()
	assert.Zero(t, shutdowns, "shutdown hook only runs after a successful init")
}

func TestFrameOrderAndLifecycle(t *testing.T) {
	var calls []string
	inits, shutdowns := 0, 0
	h := newHarness(t, false, Hooks{
		Init: func(a *App) error {
			inits++
			return nil
		},
		Update: func(a *App, dt float32) { calls = append(calls, "update") },
		Render: func(a *App) { calls = append(calls, "render") },
		Shutdown: func(a *App) {
			shutdowns++
		},
	})
	h.win.CloseAfter = 3

	require.NoError(t, h.app.Init())
	require.NoError(t, h.app.Init(), "init is idempotent")
	require.NoError(t, h.app.Run())

	assert.Equal(t, 1, inits)
	assert.Equal(t, 3, h.win.Frames)
	assert.Equal(t, 3, h.win.Swaps)
	assert.Equal(t, uint64(3), h.app.Frame())
	assert.Equal(t, []string{"update", "render", "update", "render", "update", "render"}, calls)

	h.app.Shutdown()
	h.app.Shutdown()
	assert.Equal(t, 1, shutdowns)
	assert.True(t, h.win.Closed)
	assert.Zero(t, h.dev.LiveTotal())
}

func TestRenderDrawsSceneEveryFrame(t *testing.T) {
	h := newHarness(t, false, Hooks{})
	h.win.CloseAfter = 2
	require.NoError(t, h.app.Init())
	h.addCube(t)

	require.NoError(t, h.app.Run())
	assert.Len(t, h.dev.Draws, 2, "one cube per frame")
	assert.Len(t, h.dev.Clears, 2)
	assert.Equal(t, 1, h.app.Pipeline().Stats().Objects)
	assert.Equal(t, 12, h.app.Pipeline().Stats().Triangles)
}

func TestEscapeStopsLoop(t *testing.T) {
	h := newHarness(t, false, Hooks{})
	h.win.CloseAfter = 100
	h.win.OnPoll = func(w *platformtest.Window, frame int) {
		w.Keys[platform.KeyEscape] = frame >= 2
	}
	require.NoError(t, h.app.Init())
	require.NoError(t, h.app.Run())

	assert.Equal(t, 2, h.win.Frames)
	assert.False(t, h.app.Running())
}

func TestWalkCameraWithoutEditor(t *testing.T) {
	h := newHarness(t, false, Hooks{})
	h.win.CloseAfter = 10
	h.win.OnPoll = func(w *platformtest.Window, frame int) {
		w.Keys[platform.KeyW] = true
	}
	require.NoError(t, h.app.Init())
	assert.Equal(t, platform.CursorDisabled, h.win.Cursor, "camera is always driven without the editor")
	start := h.app.Camera().Position()

	require.NoError(t, h.app.Run())
	end := h.app.Camera().Position()
	assert.Less(t, end.Z(), start.Z(), "forward is -Z at the default yaw")
	assert.InDelta(t, start.Y(), end.Y(), 1e-6)
}

func TestMouseLookAndScroll(t *testing.T) {
	h := newHarness(t, false, Hooks{})
	h.win.CloseAfter = 3
	h.win.OnPoll = func(w *platformtest.Window, frame int) {
		switch frame {
		case 1:
			w.MoveCursor(100, 100)
		case 2:
			w.MoveCursor(150, 80)
			w.ScrollBy(0, -10)
		}
	}
	require.NoError(t, h.app.Init())
	cam := h.app.Camera()
	yaw, pitch, zoom := cam.Yaw(), cam.Pitch(), cam.Zoom()

	require.NoError(t, h.app.Run())
	assert.InDelta(t, yaw+50*cam.MouseSensitivity(), cam.Yaw(), 1e-4)
	assert.InDelta(t, pitch+20*cam.MouseSensitivity(), cam.Pitch(), 1e-4)
	assert.NotEqual(t, zoom, cam.Zoom())
}

func TestEditorCameraControlMode(t *testing.T) {
	h := newHarness(t, true, Hooks{})
	h.win.CloseAfter = 4
	h.win.OnPoll = func(w *platformtest.Window, frame int) {
		switch frame {
		case 1:
			w.Keys[platform.KeyW] = true
		case 2:
			w.Click(platform.MouseRight, true)
		case 3:
			w.Keys[platform.KeyW] = false
			w.Keys[platform.KeyEscape] = true
		}
	}
	require.NoError(t, h.app.Init())
	ed := h.app.Editor()
	require.NotNil(t, ed)
	assert.Equal(t, platform.CursorNormal, h.win.Cursor)
	start := h.app.Camera().Position()

	require.NoError(t, h.app.Run())
	assert.Equal(t, 4, h.win.Frames, "escape releases the camera instead of quitting")
	assert.False(t, ed.ControllingCamera())
	assert.Equal(t, platform.CursorNormal, h.win.Cursor)
	assert.NotEqual(t, start, h.app.Camera().Position(), "frame 2 moved while controlling")
}

func TestEditorRendersOffscreen(t *testing.T) {
	h := newHarness(t, true, Hooks{})
	h.win.CloseAfter = 1
	require.NoError(t, h.app.Init())

	w, hgt := h.app.RenderSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, hgt)
	require.NoError(t, h.app.Run())
	require.NotEmpty(t, h.dev.Targets)
	assert.Equal(t, h.app.Target().ID(), h.dev.Targets[0])
	assert.Equal(t, gpu.InvalidID, h.dev.BoundTarget(), "window surface is bound again after the pass")

	id, err := h.app.Editor().RequestCreate("sphere")
	require.NoError(t, err)
	o, ok := h.app.Registry().Get(id)
	require.True(t, ok)
	assert.Equal(t, "Sphere1", o.Name)
}

func TestPanicSkipsFrameAndLoopContinues(t *testing.T) {
	h := newHarness(t, false, Hooks{
		Update: func(a *App, dt float32) {
			if a.Frame() == 2 {
				panic("bad frame")
			}
		},
	})
	h.win.CloseAfter = 4
	require.NoError(t, h.app.Init())
	h.addCube(t)

	require.NoError(t, h.app.Run())
	assert.Equal(t, uint64(1), h.app.SkippedFrames())
	assert.Equal(t, 4, h.win.Swaps)
	assert.Len(t, h.dev.Draws, 3, "the panicking frame drew nothing")
}

func TestAutoRotateAdvancesWithClock(t *testing.T) {
	h := newHarness(t, false, Hooks{})
	h.win.CloseAfter = 11
	require.NoError(t, h.app.Init())
	h.addCube(t)
	o := h.app.Registry().Objects()[0]
	o.Params.AutoRotate = true
	o.Params.RotateSpeed = 60

	require.NoError(t, h.app.Run())
	// The first tick has no delta; ten more ticks of 1/60 s at 60°/s.
	assert.InDelta(t, 10.0, o.Transform.Rotation().Y(), 1e-3)
}

type fakeOverlay struct {
	updates, draws int
	keyboard       bool
	w, h           int
}

func (o *fakeOverlay) Update(*platform.Input) { o.updates++ }
func (o *fakeOverlay) WantsKeyboard() bool    { return o.keyboard }
func (o *fakeOverlay) Draw(w, h int)          { o.draws, o.w, o.h = o.draws+1, w, h }

func TestOverlayClaimsKeyboard(t *testing.T) {
	h := newHarness(t, false, Hooks{})
	h.win.CloseAfter = 3
	h.win.OnPoll = func(w *platformtest.Window, frame int) {
		w.Keys[platform.KeyW] = true
		w.Keys[platform.KeyEscape] = true
		if frame == 2 {
			w.Resize(640, 480)
		}
	}
	ov := &fakeOverlay{keyboard: true}
	require.NoError(t, h.app.Init())
	h.app.SetOverlay(ov)
	start := h.app.Camera().Position()

	require.NoError(t, h.app.Run())
	assert.Equal(t, 3, h.win.Frames, "escape is ignored while typing")
	assert.Equal(t, start, h.app.Camera().Position())
	assert.Equal(t, 3, ov.updates)
	assert.Equal(t, 3, ov.draws)
	assert.Equal(t, 640, ov.w)
	assert.Equal(t, 480, ov.h)
}

func TestSkyboxDrawnBeforeScene(t *testing.T) {
	h := newHarness(t, false, Hooks{})
	h.win.CloseAfter = 1
	require.NoError(t, h.app.Init())
	h.app.Textures().ReadFile = func(path string) ([]byte, error) {
		if path == "missing.jpg" {
			return nil, os.ErrNotExist
		}
		return []byte("jpg"), nil
	}
	faces := []string{"r.jpg", "l.jpg", "t.jpg", "b.jpg", "f.jpg", "k.jpg"}

	bad := append([]string{}, faces...)
	bad[3] = "missing.jpg"
	assert.Error(t, h.app.SetSkybox(bad))
	assert.Nil(t, h.app.Skybox())

	require.NoError(t, h.app.SetSkybox(faces))
	h.addCube(t)
	require.NoError(t, h.app.Run())

	require.Len(t, h.dev.Draws, 2)
	assert.Equal(t, h.app.Shaders().Get(render.SkyboxShader).ID(), h.dev.Draws[0].Program, "sky first")
	assert.Equal(t, h.app.Shaders().Get(render.DefaultShader).ID(), h.dev.Draws[1].Program)
	sky := h.dev.States[1]
	assert.False(t, sky.DepthTest)
	assert.False(t, sky.DepthWrite)
	assert.Equal(t, h.app.Pipeline().Settings().State(), h.dev.States[2], "frame state restored")
}
