package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func tree(t *testing.T) string {
	root := t.TempDir()
	touch(t, filepath.Join(root, "textures", "Brick_Wall.png"))
	touch(t, filepath.Join(root, "textures", "wood", "oak-planks.JPG"))
	touch(t, filepath.Join(root, "textures", "notes.txt"))
	touch(t, filepath.Join(root, "models", "teapot.obj"))
	return root
}

func TestScanDirFiltersByExtension(t *testing.T) {
	root := tree(t)
	list, err := ScanDir(filepath.Join(root, "textures"), Exts[Textures])
	require.NoError(t, err)
	assert.Equal(t, []string{"Brick_Wall.png", "wood/oak-planks.JPG"}, list)

	list, err = ScanDir(filepath.Join(root, "missing"), Exts[Textures])
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindLooseNames(t *testing.T) {
	root := tree(t)
	f := &Finder{Roots: []string{filepath.Join(root, "nope"), root}}

	p, err := f.Find(Textures, "brick wall")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "textures", "Brick_Wall.png"), p)

	p, err = f.Find(Textures, "assets/textures/wood/oak-planks.JPG")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "textures", "wood", "oak-planks.JPG"), p)

	p, err = f.Find(Models, "TEAPOT")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "models", "teapot.obj"), p)

	_, err = f.Find(Textures, "marble")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = f.Find(Textures, "notes")
	assert.ErrorIs(t, err, os.ErrNotExist, "wrong extension")
}

func TestFindSkybox(t *testing.T) {
	root := t.TempDir()
	f := &Finder{Roots: []string{root}}
	_, ok := f.FindSkybox("")
	assert.False(t, ok)

	for i, stem := range SkyboxFaces {
		ext := ".jpg"
		if i == 2 {
			ext = ".png"
		}
		touch(t, filepath.Join(root, "skybox", "day", stem+ext))
	}
	faces, ok := f.FindSkybox("day")
	require.True(t, ok)
	require.Len(t, faces, 6)
	assert.Equal(t, filepath.Join(root, "skybox", "day", "right.jpg"), faces[0])
	assert.Equal(t, filepath.Join(root, "skybox", "day", "top.png"), faces[2])

	require.NoError(t, os.Remove(faces[5]))
	_, ok = f.FindSkybox("day")
	assert.False(t, ok)
}

func TestBaseDirs(t *testing.T) {
	assert.Equal(t, []string{"assets", filepath.Join("..", "..", "assets")}, BaseDirs(""))
	assert.Equal(t, []string{"/srv/a"}, BaseDirs("/srv/a"))
}
