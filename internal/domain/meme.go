package domain

import (
	"fmt"
	"strings"
	"time"
)

// ZoneKind identifies where on the canvas a text block is placed.
type ZoneKind string

const (
	ZoneTop    ZoneKind = "top"
	ZoneBottom ZoneKind = "bottom"
	ZoneCustom ZoneKind = "custom"
)

// Zone is the placement region for a text block. For ZoneTop and ZoneBottom
// the rectangle fields are ignored and the layout engine derives the region
// from the canvas size; for ZoneCustom the caller-supplied rectangle is used
// directly.
type Zone struct {
	Kind ZoneKind `json:"kind"`
	X    int      `json:"x,omitempty"`
	Y    int      `json:"y,omitempty"`
	W    int      `json:"w,omitempty"`
	H    int      `json:"h,omitempty"`
}

// TopZone returns the standard top placement.
func TopZone() Zone { return Zone{Kind: ZoneTop} }

// BottomZone returns the standard bottom placement.
func BottomZone() Zone { return Zone{Kind: ZoneBottom} }

// CustomZone returns a placement over the given rectangle.
func CustomZone(x, y, w, h int) Zone {
	return Zone{Kind: ZoneCustom, X: x, Y: y, W: w, H: h}
}

// TextBlock is one piece of caption text with its styling. Colors are names
// from the closed color table or #rrggbb hex strings.
type TextBlock struct {
	Content     string `json:"content"`
	Zone        Zone   `json:"zone"`
	FontSize    int    `json:"font_size"`
	FontColor   string `json:"font_color"`
	StrokeColor string `json:"stroke_color"`
	StrokeWidth int    `json:"stroke_width"`
}

// StyleDefaults carries the configured fallback styling applied to blocks
// that leave a field unset.
type StyleDefaults struct {
	FontSize    int
	FontColor   string
	StrokeColor string
	StrokeWidth int
}

// MemeRequest asks for one rendered meme: a template plus an ordered
// sequence of text blocks.
type MemeRequest struct {
	TemplateID string      `json:"template_id"`
	TextBlocks []TextBlock `json:"text_blocks"`
}

// Normalize fills unset styling fields from the configured defaults.
// A zero FontSize means "use the default"; an explicit negative size is left
// alone so validation can reject it.
func (r *MemeRequest) Normalize(d StyleDefaults) {
	for i := range r.TextBlocks {
		b := &r.TextBlocks[i]
		if b.FontSize == 0 {
			b.FontSize = d.FontSize
		}
		if b.FontColor == "" {
			b.FontColor = d.FontColor
		}
		if b.StrokeColor == "" {
			b.StrokeColor = d.StrokeColor
		}
		if b.StrokeWidth == 0 {
			b.StrokeWidth = d.StrokeWidth
		}
	}
}

// Validate checks the request shape against the configured block limit.
// Template existence is the catalog's concern, not checked here.
func (r *MemeRequest) Validate(maxBlocks int) error {
	if r.TemplateID == "" {
		return fmt.Errorf("%w: template_id is required", ErrInvalidTextBlock)
	}
	if len(r.TextBlocks) == 0 {
		return fmt.Errorf("%w: at least one text block is required", ErrInvalidTextBlock)
	}
	if maxBlocks > 0 && len(r.TextBlocks) > maxBlocks {
		return fmt.Errorf("%w: too many text blocks (%d > %d)", ErrInvalidTextBlock, len(r.TextBlocks), maxBlocks)
	}
	for i, b := range r.TextBlocks {
		if strings.TrimSpace(b.Content) == "" {
			return fmt.Errorf("%w: block %d has empty content", ErrInvalidTextBlock, i)
		}
		if b.FontSize <= 0 {
			return fmt.Errorf("%w: block %d has non-positive font size %d", ErrInvalidTextBlock, i, b.FontSize)
		}
		if b.StrokeWidth < 0 {
			return fmt.Errorf("%w: block %d has negative stroke width %d", ErrInvalidTextBlock, i, b.StrokeWidth)
		}
		if _, err := ParseColor(b.FontColor); err != nil {
			return fmt.Errorf("%w: block %d font color: %v", ErrInvalidTextBlock, i, err)
		}
		if _, err := ParseColor(b.StrokeColor); err != nil {
			return fmt.Errorf("%w: block %d stroke color: %v", ErrInvalidTextBlock, i, err)
		}
		switch b.Zone.Kind {
		case ZoneTop, ZoneBottom:
		case ZoneCustom:
			if b.Zone.W <= 0 || b.Zone.H <= 0 {
				return fmt.Errorf("%w: block %d custom zone has non-positive size", ErrInvalidTextBlock, i)
			}
		default:
			return fmt.Errorf("%w: block %d has unknown zone kind %q", ErrInvalidTextBlock, i, b.Zone.Kind)
		}
	}
	return nil
}

// RenderedMeme describes one persisted output image. Immutable; cleanup of
// the underlying file is an external policy.
type RenderedMeme struct {
	// Reference is the store-relative path or URL fragment under which the
	// rendered file is addressable.
	Reference string    `json:"reference"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}
