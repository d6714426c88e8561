package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/memegen/internal/logger"
	"github.com/timmy/memegen/internal/service"
	"github.com/timmy/memegen/internal/tool"
)

// AIHandler handles prompt-driven meme generation: the model interprets the
// prompt and invokes the meme tools through the function-call adapter.
type AIHandler struct {
	ai      *service.AIService
	adapter *tool.Adapter
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(ai *service.AIService, adapter *tool.Adapter) *AIHandler {
	return &AIHandler{ai: ai, adapter: adapter}
}

type aiGenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// GenerateWithAI handles POST /api/v1/meme/generate-with-ai.
func (h *AIHandler) GenerateWithAI(c *gin.Context) {
	var req aiGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !h.ai.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "AI service is not configured. Set OPENAI_API_KEY and enable ai in config.",
		})
		return
	}

	ctx := logger.WithFields(c.Request.Context(), logger.Fields{logger.FieldComponent: "ai"})
	resp, err := h.ai.GenerateWithTools(ctx, req.Prompt, h.adapter.Definitions())
	if err != nil {
		logger.CtxError(ctx, "AI generation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI request failed: " + err.Error()})
		return
	}

	for _, call := range resp.Calls {
		if call.Name != tool.NameGenerateMeme {
			continue
		}
		result, err := h.adapter.Invoke(ctx, call.Name, call.Arguments)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"result":  result,
			"ai_text": resp.Text,
		})
		return
	}

	// The model answered without generating; hand its text back so the
	// caller can refine the prompt.
	c.JSON(http.StatusOK, gin.H{
		"success":     false,
		"message":     "The model did not generate a meme",
		"ai_response": resp.Text,
	})
}
