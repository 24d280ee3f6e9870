package texture

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"wildfox-engine/internal/gpu"
)

// cubemapKeyPrefix marks cache keys built from six face paths.
const cubemapKeyPrefix = "cubemap_"

// Cache loads each texture path once and owns the uploaded object until Unload or UnloadAll.
// Failed loads are never cached, so a later call retries from disk.
type Cache struct {
	// ReadFile reads encoded bytes for a path. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)

	mu      sync.Mutex
	dev     gpu.Device
	dec     Decoder
	log     *slog.Logger
	entries map[string]*gpu.Handle
}

// NewCache returns an empty cache that uploads through dev.
func NewCache(dev gpu.Device, dec Decoder, log *slog.Logger) *Cache {
	if dec == nil {
		dec = ImageDecoder{FlipVertical: true}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		ReadFile: os.ReadFile,
		dev:      dev,
		dec:      dec,
		log:      log,
		entries:  map[string]*gpu.Handle{},
	}
}

// Key is the canonical form of path used for lookups.
func Key(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// CubemapKey joins canonical face paths behind the cubemap prefix.
func CubemapKey(faces []string) string {
	var b strings.Builder
	b.WriteString(cubemapKeyPrefix)
	for i, f := range faces {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(Key(f))
	}
	return b.String()
}

// wrapFor picks REPEAT for 1- and 3-channel images and CLAMP when there is alpha,
// so transparent edges do not bleed across tiles.
func wrapFor(channels int) gpu.WrapMode {
	if channels == 4 {
		return gpu.WrapClamp
	}
	return gpu.WrapRepeat
}

func (c *Cache) decodeFile(path string) (gpu.Image, bool) {
	data, err := c.ReadFile(path)
	if err != nil {
		c.log.Error("texture read failed", "path", path, "err", err)
		return gpu.Image{}, false
	}
	img, err := c.dec.Decode(data)
	if err != nil {
		c.log.Error("texture decode failed", "path", path, "err", err)
		return gpu.Image{}, false
	}
	return img, true
}

// Load returns the texture for path, decoding and uploading it on first use.
// Returns gpu.InvalidID when the file cannot be read, decoded or uploaded.
func (c *Cache) Load(path string) gpu.ID {
	key := Key(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.entries[key]; ok {
		return h.ID()
	}
	img, ok := c.decodeFile(path)
	if !ok {
		return gpu.InvalidID
	}
	id, err := c.dev.CreateTexture(img, gpu.TextureOptions{Wrap: wrapFor(img.Channels), Mipmaps: true})
	if err != nil || id == gpu.InvalidID {
		c.log.Error("texture upload failed", "path", path, "err", err)
		return gpu.InvalidID
	}
	c.entries[key] = gpu.NewHandle(c.dev, gpu.KindTexture2D, id)
	c.log.Debug("texture loaded", "path", key, "id", id, "width", img.Width, "height", img.Height, "channels", img.Channels)
	return id
}

// LoadCubemap returns a cubemap built from six faces in +X, -X, +Y, -Y, +Z, -Z order.
// Any unreadable face fails the whole cubemap.
func (c *Cache) LoadCubemap(faces []string) gpu.ID {
	if len(faces) != 6 {
		c.log.Error("cubemap needs six faces", "got", len(faces))
		return gpu.InvalidID
	}
	key := CubemapKey(faces)
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.entries[key]; ok {
		return h.ID()
	}
	var imgs [6]gpu.Image
	for i, f := range faces {
		img, ok := c.decodeFile(f)
		if !ok {
			c.log.Error("cubemap face failed", "face", i, "path", f)
			return gpu.InvalidID
		}
		imgs[i] = img
	}
	id, err := c.dev.CreateCubemap(imgs)
	if err != nil || id == gpu.InvalidID {
		c.log.Error("cubemap upload failed", "err", err)
		return gpu.InvalidID
	}
	c.entries[key] = gpu.NewHandle(c.dev, gpu.KindCubemap, id)
	return id
}

// IsLoaded reports whether path (or a cubemap key) is cached.
func (c *Cache) IsLoaded(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[c.lookupKey(path)]
	return ok
}

func (c *Cache) lookupKey(path string) string {
	if strings.HasPrefix(path, cubemapKeyPrefix) {
		return path
	}
	return Key(path)
}

// Unload releases one cached texture. Unknown paths are ignored.
func (c *Cache) Unload(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.lookupKey(path)
	if h, ok := c.entries[key]; ok {
		h.Release()
		delete(c.entries, key)
	}
}

// UnloadAll releases every cached texture.
func (c *Cache) UnloadAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, h := range c.entries {
		h.Release()
		delete(c.entries, key)
	}
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the cached keys, sorted.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Bind attaches the cached texture id to sampler on unit of p, as a cubemap or a 2D
// texture depending on how it was loaded. Ids the cache does not own bind nothing and
// report false.
func (c *Cache) Bind(p *gpu.Program, sampler string, unit int, id gpu.ID) bool {
	c.mu.Lock()
	kind, ok := gpu.KindTexture2D, false
	for _, h := range c.entries {
		if h.ID() == id {
			kind, ok = h.Kind(), true
			break
		}
	}
	c.mu.Unlock()
	if !ok || id == gpu.InvalidID {
		return false
	}
	p.SetSampler(sampler, unit, kind, id)
	return true
}
