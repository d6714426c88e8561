// Package render holds the text layout engine and the meme compositor: the
// pipeline that turns a template plus text blocks into an encoded image.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/timmy/memegen/internal/domain"
	"github.com/timmy/memegen/internal/logger"
	"github.com/timmy/memegen/internal/storage"
)

// TemplateSource resolves template ids to templates. Satisfied by
// catalog.Catalog; tests supply fakes.
type TemplateSource interface {
	Resolve(id string) (*domain.Template, error)
}

// CompositorConfig carries the per-request limits and styling defaults.
type CompositorConfig struct {
	Defaults      domain.StyleDefaults
	MaxTextBlocks int
}

// Compositor orchestrates one generation call: resolve the template, lay
// out each text block, draw, encode, persist. It holds no per-request
// state, so concurrent Generate calls need no coordination.
type Compositor struct {
	templates TemplateSource
	engine    *Engine
	fonts     FaceSource
	store     storage.OutputStore
	cfg       CompositorConfig
}

// NewCompositor wires a compositor over its collaborators.
func NewCompositor(templates TemplateSource, engine *Engine, fonts FaceSource, store storage.OutputStore, cfg CompositorConfig) *Compositor {
	return &Compositor{
		templates: templates,
		engine:    engine,
		fonts:     fonts,
		store:     store,
		cfg:       cfg,
	}
}

// Defaults returns the configured styling defaults, for callers that need
// to normalize requests before handing them over.
func (c *Compositor) Defaults() domain.StyleDefaults {
	return c.cfg.Defaults
}

// Generate renders one meme. The template's pixel data is never mutated:
// drawing happens on a per-call clone. Identical requests produce
// pixel-identical output; only the persisted reference differs per call.
func (c *Compositor) Generate(ctx context.Context, req *domain.MemeRequest) (*domain.RenderedMeme, error) {
	start := time.Now()

	if err := req.Validate(c.cfg.MaxTextBlocks); err != nil {
		return nil, err
	}

	tpl, err := c.templates.Resolve(req.TemplateID)
	if err != nil {
		return nil, err
	}
	ctx = logger.SetTemplateID(ctx, tpl.ID)

	canvas := imaging.Clone(tpl.Pixels)

	for i, block := range req.TextBlocks {
		lay, err := c.engine.Layout(tpl.Width, tpl.Height, block)
		if err != nil {
			return nil, fmt.Errorf("%w: laying out block %d: %v", domain.ErrRender, i, err)
		}
		face, err := c.fonts.Face(lay.FontSize)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %v", domain.ErrRender, i, err)
		}

		// Colors were validated with the request.
		fill, _ := domain.ParseColor(block.FontColor)
		stroke, _ := domain.ParseColor(block.StrokeColor)

		for _, line := range lay.Lines {
			drawLine(canvas, face, line, fill, stroke, block.StrokeWidth)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("%w: png encode: %v", domain.ErrRender, err)
	}

	meme, err := c.store.Save(ctx, buf.Bytes(), storage.SaveOptions{
		TemplateID: tpl.ID,
		Format:     "png",
		Width:      tpl.Width,
		Height:     tpl.Height,
	})
	if err != nil {
		return nil, err
	}

	logger.With(logger.Fields{
		logger.FieldReference:  meme.Reference,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldSize:       buf.Len(),
	}).Info(ctx, "Rendered meme with %d text block(s)", len(req.TextBlocks))

	return meme, nil
}

// drawLine rasterizes one positioned line. The stroke pass draws the text
// at every offset within the stroke radius before the fill pass draws on
// top, so the outline stays visible under overlapping glyphs.
func drawLine(dst draw.Image, face font.Face, line PositionedLine, fill, stroke color.Color, strokeWidth int) {
	d := &font.Drawer{Dst: dst, Face: face}

	if strokeWidth > 0 {
		d.Src = image.NewUniform(stroke)
		for dy := -strokeWidth; dy <= strokeWidth; dy++ {
			for dx := -strokeWidth; dx <= strokeWidth; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				d.Dot = fixed.P(line.X+dx, line.Y+dy)
				d.DrawString(line.Text)
			}
		}
	}

	d.Src = image.NewUniform(fill)
	d.Dot = fixed.P(line.X, line.Y)
	d.DrawString(line.Text)
}
