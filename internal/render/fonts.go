package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/timmy/memegen/internal/logger"
)

// FaceSource resolves a font face for a given point size. Face itself must
// be safe for concurrent use; each returned face belongs to its caller and
// is not shared. Implementations must be deterministic: the same size
// always yields a face with identical metrics.
type FaceSource interface {
	Face(size int) (font.Face, error)
}

// FontLibrary is a FaceSource backed by a single TTF/OTF file. With no
// font file configured it falls back to the built-in fixed-size bitmap
// face, which keeps the service usable on hosts without font assets.
type FontLibrary struct {
	parsed *opentype.Font // nil means bitmap fallback
}

// LoadFonts reads and parses the font file at path. An empty path selects
// the bitmap fallback; a non-empty path that cannot be read or parsed is a
// startup error, not a silent fallback.
func LoadFonts(path string) (*FontLibrary, error) {
	if path == "" {
		logger.Warn("No font file configured, using built-in bitmap face")
		return &FontLibrary{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font %s: %w", path, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	return &FontLibrary{parsed: parsed}, nil
}

// Face returns a new face for the given size. An opentype.Face mutates a
// shared glyph buffer and is not safe for concurrent use, so faces are
// never shared between callers; only the parsed font is. Metrics are a
// pure function of the font and size, so every face for a size measures
// identically.
func (l *FontLibrary) Face(size int) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("non-positive font size %d", size)
	}
	if l.parsed == nil {
		// The bitmap face has one fixed size and no mutable state; callers
		// still get working metrics for measurement and drawing.
		return basicfont.Face7x13, nil
	}

	f, err := opentype.NewFace(l.parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %dpt face: %w", size, err)
	}
	return f, nil
}
