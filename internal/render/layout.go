package render

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"

	"github.com/timmy/memegen/internal/domain"
)

// PositionedLine is one wrapped line with its drawing position. X is the
// left edge of the line; Y is the text baseline.
type PositionedLine struct {
	Text string
	X    int
	Y    int
}

// Layout is the placement result for one text block: the wrapped lines and
// the font size they were measured at.
type Layout struct {
	Lines    []PositionedLine
	FontSize int
}

// EngineConfig bounds the shrink-to-fit loop.
type EngineConfig struct {
	// MinFontSize is the floor; below it lines are clipped instead.
	MinFontSize int
	// FontSizeStep is the shrink decrement per iteration, in points.
	FontSizeStep int
}

// Engine computes text placement for a canvas. All behavior is
// deterministic: identical inputs produce identical layouts.
type Engine struct {
	fonts FaceSource
	cfg   EngineConfig
}

// NewEngine creates a layout engine over the given face source.
func NewEngine(fonts FaceSource, cfg EngineConfig) *Engine {
	if cfg.MinFontSize <= 0 {
		cfg.MinFontSize = 10
	}
	if cfg.FontSizeStep <= 0 {
		cfg.FontSizeStep = 2
	}
	return &Engine{fonts: fonts, cfg: cfg}
}

// zoneRect is a resolved placement rectangle in canvas coordinates.
type zoneRect struct {
	x, y, w, h int
}

// Named zones span 90% of the canvas width with a 5% vertical margin and
// may occupy up to 40% of the canvas height before shrinking engages.
func resolveZone(canvasW, canvasH int, z domain.Zone) zoneRect {
	switch z.Kind {
	case domain.ZoneCustom:
		return zoneRect{x: z.X, y: z.Y, w: z.W, h: z.H}
	case domain.ZoneBottom:
		margin := canvasH * 5 / 100
		boxW := canvasW * 90 / 100
		boxH := canvasH * 40 / 100
		return zoneRect{x: (canvasW - boxW) / 2, y: canvasH - margin - boxH, w: boxW, h: boxH}
	default: // top
		margin := canvasH * 5 / 100
		boxW := canvasW * 90 / 100
		boxH := canvasH * 40 / 100
		return zoneRect{x: (canvasW - boxW) / 2, y: margin, w: boxW, h: boxH}
	}
}

// Layout wraps and positions one text block on a canvas of the given size.
//
// The block's content is uppercased, word-wrapped to the zone width, and
// centered per line. If the wrapped text is taller than the zone, the font
// size is reduced in fixed steps down to the configured floor, re-wrapping
// at each step, and the largest fitting size is used. If the text still
// overflows at the floor, trailing lines are dropped. A single word wider
// than the zone is placed unbroken; that is documented overflow, not an
// error.
func (e *Engine) Layout(canvasW, canvasH int, block domain.TextBlock) (*Layout, error) {
	zone := resolveZone(canvasW, canvasH, block.Zone)
	content := strings.ToUpper(strings.Join(strings.Fields(block.Content), " "))

	floor := e.cfg.MinFontSize
	if block.FontSize < floor {
		// Never grow above the requested size.
		floor = block.FontSize
	}

	size := block.FontSize
	for {
		face, err := e.fonts.Face(size)
		if err != nil {
			return nil, fmt.Errorf("resolving %dpt face: %w", size, err)
		}

		lines := wrapWords(face, content, zone.w)
		lineH := face.Metrics().Height.Ceil()
		total := lineH * len(lines)

		if total <= zone.h || size <= floor {
			if total > zone.h {
				// At the floor and still overflowing: clip trailing lines.
				max := zone.h / lineH
				if max < 1 {
					max = 1
				}
				if len(lines) > max {
					lines = lines[:max]
				}
			}
			return e.position(face, zone, block.Zone.Kind, lines, size), nil
		}

		size -= e.cfg.FontSizeStep
		if size < floor {
			size = floor
		}
	}
}

// position computes per-line coordinates. Top and custom zones anchor to
// the zone's top edge; bottom zones grow upward from the zone's bottom
// edge. Lines are centered horizontally within the zone.
func (e *Engine) position(face font.Face, zone zoneRect, kind domain.ZoneKind, lines []string, size int) *Layout {
	metrics := face.Metrics()
	lineH := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	total := lineH * len(lines)

	startY := zone.y
	if kind == domain.ZoneBottom {
		startY = zone.y + zone.h - total
	}

	out := &Layout{FontSize: size, Lines: make([]PositionedLine, 0, len(lines))}
	for i, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		out.Lines = append(out.Lines, PositionedLine{
			Text: line,
			X:    zone.x + (zone.w-width)/2,
			Y:    startY + ascent + i*lineH,
		})
	}
	return out
}

// wrapWords greedily packs words into lines no wider than maxW. A word that
// alone exceeds maxW gets its own line, unbroken.
func wrapWords(face font.Face, content string, maxW int) []string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate).Ceil() <= maxW {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
