// Package tool is the function-call boundary: it translates structured
// tool invocations from a language model into compositor calls and back
// into structured results. It owns all vendor-shape knowledge so the
// compositor's contract stays model-agnostic.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/timmy/memegen/internal/domain"
	"github.com/timmy/memegen/internal/logger"
)

// Generator is the compositor-side contract the adapter calls into.
type Generator interface {
	Generate(ctx context.Context, req *domain.MemeRequest) (*domain.RenderedMeme, error)
}

// TemplateLister lists the available template ids.
type TemplateLister interface {
	IDs() []string
}

// Adapter translates tool payloads. It has no logic of its own beyond
// shape validation and translation.
type Adapter struct {
	generator Generator
	templates TemplateLister
	defaults  domain.StyleDefaults
}

// NewAdapter wires the adapter over the compositor and catalog.
func NewAdapter(generator Generator, templates TemplateLister, defaults domain.StyleDefaults) *Adapter {
	return &Adapter{
		generator: generator,
		templates: templates,
		defaults:  defaults,
	}
}

// Definitions returns the tool declarations to advertise to the model.
func (a *Adapter) Definitions() []Definition {
	return []Definition{
		GenerateMemeDefinition(a.templates.IDs()),
		ListTemplatesDefinition(),
	}
}

// generateMemeArgs is the expected argument shape of the generate_meme tool.
type generateMemeArgs struct {
	TemplateID  string `json:"template_id"`
	TopText     string `json:"top_text"`
	BottomText  string `json:"bottom_text"`
	FontSize    int    `json:"font_size"`
	FontColor   string `json:"font_color"`
	StrokeColor string `json:"stroke_color"`
	StrokeWidth int    `json:"stroke_width"`
}

// Invoke dispatches one tool call. Shape mismatches fail with
// SchemaValidationError before the compositor is touched; everything else
// is translation.
func (a *Adapter) Invoke(ctx context.Context, name string, args json.RawMessage) (map[string]any, error) {
	ctx = logger.WithField(ctx, logger.FieldTool, name)

	switch name {
	case NameGenerateMeme:
		return a.invokeGenerate(ctx, args)
	case NameListTemplates:
		ids := a.templates.IDs()
		return map[string]any{"templates": ids, "count": len(ids)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tool %q", domain.ErrSchemaValidation, name)
	}
}

func (a *Adapter) invokeGenerate(ctx context.Context, args json.RawMessage) (map[string]any, error) {
	var parsed generateMemeArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding generate_meme arguments: %v", domain.ErrSchemaValidation, err)
	}
	if strings.TrimSpace(parsed.TemplateID) == "" {
		return nil, fmt.Errorf("%w: template_id is required", domain.ErrSchemaValidation)
	}
	if strings.TrimSpace(parsed.TopText) == "" {
		return nil, fmt.Errorf("%w: top_text is required", domain.ErrSchemaValidation)
	}

	req := &domain.MemeRequest{
		TemplateID: parsed.TemplateID,
		TextBlocks: []domain.TextBlock{
			{
				Content:     parsed.TopText,
				Zone:        domain.TopZone(),
				FontSize:    parsed.FontSize,
				FontColor:   parsed.FontColor,
				StrokeColor: parsed.StrokeColor,
				StrokeWidth: parsed.StrokeWidth,
			},
		},
	}
	if strings.TrimSpace(parsed.BottomText) != "" {
		req.TextBlocks = append(req.TextBlocks, domain.TextBlock{
			Content:     parsed.BottomText,
			Zone:        domain.BottomZone(),
			FontSize:    parsed.FontSize,
			FontColor:   parsed.FontColor,
			StrokeColor: parsed.StrokeColor,
			StrokeWidth: parsed.StrokeWidth,
		})
	}
	req.Normalize(a.defaults)

	meme, err := a.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Tool call generated meme %s", meme.Reference)
	return map[string]any{
		"reference":  meme.Reference,
		"width":      meme.Width,
		"height":     meme.Height,
		"created_at": meme.CreatedAt,
	}, nil
}
