package tool

import (
	"strings"

	"github.com/timmy/memegen/internal/domain"
)

// Tool names the model may invoke.
const (
	NameGenerateMeme  = "generate_meme"
	NameListTemplates = "list_meme_templates"
)

// Definition is a vendor-neutral function declaration: name, description,
// and a JSON-schema parameter object. The AI client translates it into
// whatever envelope its wire format wants.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// GenerateMemeDefinition declares the meme-generation tool. The template id
// is advertised as an enum of the real catalog ids so the model cannot
// invent names; there is no fuzzy matching to fall back on.
func GenerateMemeDefinition(templateIDs []string) Definition {
	return Definition{
		Name: NameGenerateMeme,
		Description: "Generates a meme image by adding caption text to a meme template. " +
			"Use this when the user wants to create a meme or add humorous captions to a known meme format.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"template_id": map[string]any{
					"type":        "string",
					"description": "Id of the meme template to caption.",
					"enum":        templateIDs,
				},
				"top_text": map[string]any{
					"type":        "string",
					"description": "Text for the top of the meme, usually the setup of the joke.",
				},
				"bottom_text": map[string]any{
					"type":        "string",
					"description": "Text for the bottom of the meme, usually the punchline. Optional.",
				},
				"font_size": map[string]any{
					"type":        "integer",
					"description": "Font size in points (default 40).",
					"minimum":     10,
					"maximum":     200,
				},
				"font_color": map[string]any{
					"type":        "string",
					"description": "Text fill color: one of " + strings.Join(domain.ColorNames(), ", ") + ", or #rrggbb.",
				},
				"stroke_color": map[string]any{
					"type":        "string",
					"description": "Text outline color: one of " + strings.Join(domain.ColorNames(), ", ") + ", or #rrggbb.",
				},
				"stroke_width": map[string]any{
					"type":        "integer",
					"description": "Outline width in pixels (default 2).",
					"minimum":     0,
					"maximum":     10,
				},
			},
			"required": []string{"template_id", "top_text"},
		},
	}
}

// ListTemplatesDefinition declares the template-listing tool.
func ListTemplatesDefinition() Definition {
	return Definition{
		Name:        NameListTemplates,
		Description: "Returns the ids of all meme templates available for generation.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	}
}
