// Package catalog owns the set of meme templates. The catalog is loaded
// once at startup by scanning a directory and is immutable afterwards, so
// concurrent reads need no locking; reload means constructing a new catalog.
package catalog

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	// Registered decoders for the recognized template formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/timmy/memegen/internal/domain"
	"github.com/timmy/memegen/internal/logger"
)

// recognizedExts maps template file extensions to the format name recorded
// on the Template. Files with other extensions are skipped silently.
var recognizedExts = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".webp": "webp",
}

// Catalog is an immutable template lookup table keyed by id.
type Catalog struct {
	templates map[string]*domain.Template
	ids       []string
}

// Options control catalog loading.
type Options struct {
	// MaxDimension, when positive, downscales templates whose longer side
	// exceeds it. Zero disables scaling.
	MaxDimension int
}

// Load scans dir and decodes every recognized image file into a Template.
// A file that carries a recognized extension but fails to decode fails the
// whole load: bad data must be caught before serving traffic, not at
// request time.
func Load(dir string, opts Options) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrCatalogLoad, dir, err)
	}

	c := &Catalog{templates: make(map[string]*domain.Template)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		format, ok := recognizedExts[strings.ToLower(filepath.Ext(name))]
		if !ok {
			continue
		}

		path := filepath.Join(dir, name)
		img, err := decodeTemplate(path)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrCatalogLoad, path, err)
		}
		if opts.MaxDimension > 0 {
			b := img.Bounds()
			if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
				img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
			}
		}

		id := strings.TrimSuffix(name, filepath.Ext(name))
		if _, dup := c.templates[id]; dup {
			return nil, fmt.Errorf("%w: duplicate template id %q", domain.ErrCatalogLoad, id)
		}

		bounds := img.Bounds()
		c.templates[id] = &domain.Template{
			ID:     id,
			Path:   path,
			Pixels: img,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			Format: format,
		}
		c.ids = append(c.ids, id)
	}

	sort.Strings(c.ids)
	logger.With(logger.Fields{logger.FieldCount: len(c.ids)}).
		Info(nil, "Template catalog loaded from %s", dir)
	return c, nil
}

// New builds a catalog from already-constructed templates. Intended for
// tests and embedded setups.
func New(templates ...*domain.Template) *Catalog {
	c := &Catalog{templates: make(map[string]*domain.Template, len(templates))}
	for _, t := range templates {
		c.templates[t.ID] = t
		c.ids = append(c.ids, t.ID)
	}
	sort.Strings(c.ids)
	return c
}

// List returns all templates sorted by id.
func (c *Catalog) List() []*domain.Template {
	out := make([]*domain.Template, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.templates[id])
	}
	return out
}

// IDs returns the sorted template ids.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Resolve looks up a template by exact, case-sensitive id.
func (c *Catalog) Resolve(id string) (*domain.Template, error) {
	t, ok := c.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, id)
	}
	return t, nil
}

// Len returns the number of loaded templates.
func (c *Catalog) Len() int {
	return len(c.ids)
}

func decodeTemplate(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}
