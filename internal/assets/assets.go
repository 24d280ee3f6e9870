// Package assets finds files under the asset roots by kind and by loose name.
package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind groups asset files by what loads them.
type Kind string

const (
	Textures Kind = "textures"
	Models   Kind = "models"
	Skybox   Kind = "skybox"
	Fonts    Kind = "fonts"
	UI       Kind = "ui"
)

// Exts lists the file extensions considered for each kind.
var Exts = map[Kind][]string{
	Textures: {".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"},
	Models:   {".obj"},
	Skybox:   {".png", ".jpg", ".jpeg", ".bmp"},
	Fonts:    {".ttf", ".otf"},
	UI:       {".css"},
}

// SkyboxFaces are the cubemap face file stems in +X, -X, +Y, -Y, +Z, -Z order.
var SkyboxFaces = [6]string{"right", "left", "top", "bottom", "front", "back"}

// Finder resolves asset names against a list of roots, first match wins.
type Finder struct {
	Roots []string
}

// BaseDirs returns candidate asset roots for root, relative to the process cwd, so the
// binary finds its assets when run from the repo root or from cmd/<name>.
func BaseDirs(root string) []string {
	if root == "" {
		root = "assets"
	}
	if filepath.IsAbs(root) {
		return []string{root}
	}
	return []string{root, filepath.Join("..", "..", root)}
}

// NewFinder returns a finder over BaseDirs(root).
func NewFinder(root string) *Finder { return &Finder{Roots: BaseDirs(root)} }

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// ScanDir returns relative, slash-separated, sorted paths of files under dir with one of
// exts. A missing dir yields no paths and no error.
func ScanDir(dir string, exts []string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !hasExt(path, exts) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out, err
}

// Dir returns the first existing <root>/<kind> directory.
func (f *Finder) Dir(kind Kind) (string, bool) {
	for _, root := range f.Roots {
		dir := filepath.Join(root, string(kind))
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir, true
		}
	}
	return "", false
}

// List returns every file of kind under the first root that has that kind's directory.
func (f *Finder) List(kind Kind) ([]string, error) {
	dir, ok := f.Dir(kind)
	if !ok {
		return nil, nil
	}
	return ScanDir(dir, Exts[kind])
}

// normalizeForMatch lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// StripKindPrefix removes a leading "assets/<kind>/" so callers may pass either form.
func StripKindPrefix(kind Kind, path string) string {
	path = filepath.ToSlash(strings.TrimSpace(path))
	path = strings.TrimPrefix(path, "assets/")
	return strings.TrimPrefix(path, string(kind)+"/")
}

// Find resolves search to a file of kind. An existing path is returned as is; otherwise
// the kind's directories are searched for a file whose path contains search, ignoring
// case, spaces, dashes and underscores. Shorter matches win.
func (f *Finder) Find(kind Kind, search string) (string, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", os.ErrNotExist
	}
	if st, err := os.Stat(search); err == nil && !st.IsDir() {
		return search, nil
	}
	rel := StripKindPrefix(kind, search)
	norm := normalizeForMatch(strings.TrimSuffix(rel, filepath.Ext(rel)))
	var best string
	for _, root := range f.Roots {
		dir := filepath.Join(root, string(kind))
		list, err := ScanDir(dir, Exts[kind])
		if err != nil {
			continue
		}
		for _, p := range list {
			if p == rel {
				return filepath.Join(dir, filepath.FromSlash(p)), nil
			}
			if norm != "" && strings.Contains(normalizeForMatch(p), norm) {
				full := filepath.Join(dir, filepath.FromSlash(p))
				if best == "" || len(full) < len(best) {
					best = full
				}
			}
		}
		if best != "" {
			return best, nil
		}
	}
	return "", os.ErrNotExist
}

// FindSkybox returns the six face paths of the skybox in dir (under <root>/skybox),
// matching each face stem with any supported extension. ok is false when any face is
// missing.
func (f *Finder) FindSkybox(name string) (faces []string, ok bool) {
	base, found := f.Dir(Skybox)
	if !found {
		return nil, false
	}
	dir := filepath.Join(base, name)
	for _, stem := range SkyboxFaces {
		path := ""
		for _, ext := range Exts[Skybox] {
			p := filepath.Join(dir, stem+ext)
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return nil, false
		}
		faces = append(faces, path)
	}
	return faces, true
}
