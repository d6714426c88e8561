package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/memegen/internal/domain"
	"github.com/timmy/memegen/internal/logger"
)

// Generator is the compositor-side contract the HTTP layer calls into.
type Generator interface {
	Generate(ctx context.Context, req *domain.MemeRequest) (*domain.RenderedMeme, error)
	Defaults() domain.StyleDefaults
}

// TemplateLister lists the loaded templates.
type TemplateLister interface {
	List() []*domain.Template
}

// MemeHandler handles meme generation and template listing endpoints.
type MemeHandler struct {
	generator Generator
	templates TemplateLister
}

// NewMemeHandler creates a new meme handler.
func NewMemeHandler(generator Generator, templates TemplateLister) *MemeHandler {
	return &MemeHandler{
		generator: generator,
		templates: templates,
	}
}

// generateRequest is the transport shape of a generation call: the classic
// top/bottom caption pair plus optional styling overrides.
type generateRequest struct {
	TemplateID  string `json:"template_id" binding:"required"`
	TopText     string `json:"top_text" binding:"required"`
	BottomText  string `json:"bottom_text"`
	FontSize    int    `json:"font_size" binding:"omitempty,gte=1,lte=200"`
	FontColor   string `json:"font_color"`
	StrokeColor string `json:"stroke_color"`
	StrokeWidth int    `json:"stroke_width" binding:"gte=0,lte=10"`
}

// Generate handles POST /api/v1/meme/generate.
func (h *MemeHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	memeReq := &domain.MemeRequest{
		TemplateID: req.TemplateID,
		TextBlocks: []domain.TextBlock{
			{
				Content:     req.TopText,
				Zone:        domain.TopZone(),
				FontSize:    req.FontSize,
				FontColor:   req.FontColor,
				StrokeColor: req.StrokeColor,
				StrokeWidth: req.StrokeWidth,
			},
		},
	}
	if req.BottomText != "" {
		memeReq.TextBlocks = append(memeReq.TextBlocks, domain.TextBlock{
			Content:     req.BottomText,
			Zone:        domain.BottomZone(),
			FontSize:    req.FontSize,
			FontColor:   req.FontColor,
			StrokeColor: req.StrokeColor,
			StrokeWidth: req.StrokeWidth,
		})
	}
	memeReq.Normalize(h.generator.Defaults())

	ctx := c.Request.Context()
	meme, err := h.generator.Generate(ctx, memeReq)
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"error":      err.Error(),
			"request_id": logger.GetRequestID(ctx),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"reference":  meme.Reference,
		"width":      meme.Width,
		"height":     meme.Height,
		"created_at": meme.CreatedAt,
	})
}

// ListTemplates handles GET /api/v1/meme/templates.
func (h *MemeHandler) ListTemplates(c *gin.Context) {
	templates := h.templates.List()

	type templateInfo struct {
		ID     string `json:"id"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	out := make([]templateInfo, 0, len(templates))
	for _, t := range templates {
		out = append(out, templateInfo{ID: t.ID, Width: t.Width, Height: t.Height, Format: t.Format})
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": out,
		"count":     len(out),
	})
}

// statusFor maps the error taxonomy to transport status codes: bad input
// is the caller's fault, system faults are 500s.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTemplateNotFound):
		return http.StatusNotFound
	case domain.IsBadInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
