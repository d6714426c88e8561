package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/memegen/internal/api/middleware"
	"github.com/timmy/memegen/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	lastReq *domain.MemeRequest
	meme    *domain.RenderedMeme
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, req *domain.MemeRequest) (*domain.RenderedMeme, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.meme, nil
}

func (f *fakeGenerator) Defaults() domain.StyleDefaults {
	return domain.StyleDefaults{FontSize: 40, FontColor: "white", StrokeColor: "black", StrokeWidth: 2}
}

type fakeLister struct{ templates []*domain.Template }

func (f *fakeLister) List() []*domain.Template { return f.templates }

func newTestRouter(gen *fakeGenerator, lister *fakeLister) *gin.Engine {
	h := NewMemeHandler(gen, lister)
	r := gin.New()
	r.POST("/api/v1/meme/generate", h.Generate)
	r.GET("/api/v1/meme/templates", h.ListTemplates)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpoint(t *testing.T) {
	gen := &fakeGenerator{meme: &domain.RenderedMeme{
		Reference: "/static/memes/drake_20250601_120000_abcd1234.png",
		Width:     400, Height: 400,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
	r := newTestRouter(gen, &fakeLister{})

	w := doJSON(r, http.MethodPost, "/api/v1/meme/generate",
		`{"template_id":"drake","top_text":"Old way","bottom_text":"New way"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "/static/memes/drake_20250601_120000_abcd1234.png", resp["reference"])
	assert.Equal(t, float64(400), resp["width"])

	require.NotNil(t, gen.lastReq)
	require.Len(t, gen.lastReq.TextBlocks, 2)
	assert.Equal(t, domain.ZoneTop, gen.lastReq.TextBlocks[0].Zone.Kind)
	assert.Equal(t, domain.ZoneBottom, gen.lastReq.TextBlocks[1].Zone.Kind)
	assert.Equal(t, 40, gen.lastReq.TextBlocks[0].FontSize, "defaults applied before generation")
}

func TestGenerateEndpointTopOnly(t *testing.T) {
	gen := &fakeGenerator{meme: &domain.RenderedMeme{Reference: "r"}}
	r := newTestRouter(gen, &fakeLister{})

	w := doJSON(r, http.MethodPost, "/api/v1/meme/generate",
		`{"template_id":"drake","top_text":"solo"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, gen.lastReq.TextBlocks, 1)
}

func TestGenerateEndpointErrors(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		generator  *fakeGenerator
		wantStatus int
	}{
		{
			name:       "missing template_id",
			body:       `{"top_text":"hi"}`,
			generator:  &fakeGenerator{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing top_text",
			body:       `{"template_id":"drake"}`,
			generator:  &fakeGenerator{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"template_id":`,
			generator:  &fakeGenerator{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "font size out of range",
			body:       `{"template_id":"drake","top_text":"hi","font_size":500}`,
			generator:  &fakeGenerator{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown template",
			body:       `{"template_id":"nonexistent","top_text":"hi"}`,
			generator:  &fakeGenerator{err: domain.ErrTemplateNotFound},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid block",
			body:       `{"template_id":"drake","top_text":"hi","font_color":"sparkle"}`,
			generator:  &fakeGenerator{err: domain.ErrInvalidTextBlock},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "render failure",
			body:       `{"template_id":"drake","top_text":"hi"}`,
			generator:  &fakeGenerator{err: domain.ErrRender},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "store failure",
			body:       `{"template_id":"drake","top_text":"hi"}`,
			generator:  &fakeGenerator{err: domain.ErrStoreWrite},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(tc.generator, &fakeLister{})
			w := doJSON(r, http.MethodPost, "/api/v1/meme/generate", tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp, "error")
		})
	}
}

func TestGenerateEndpointErrorCarriesRequestID(t *testing.T) {
	gen := &fakeGenerator{err: domain.ErrTemplateNotFound}
	h := NewMemeHandler(gen, &fakeLister{})
	r := gin.New()
	r.Use(middleware.LoggerMiddleware())
	r.POST("/api/v1/meme/generate", h.Generate)

	w := doJSON(r, http.MethodPost, "/api/v1/meme/generate",
		`{"template_id":"nonexistent","top_text":"hi"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, w.Header().Get("X-Request-ID"), resp["request_id"])
	assert.NotEmpty(t, resp["request_id"])
}

func TestListTemplatesEndpoint(t *testing.T) {
	lister := &fakeLister{templates: []*domain.Template{
		{ID: "distracted", Width: 800, Height: 450, Format: "jpeg"},
		{ID: "drake", Width: 400, Height: 400, Format: "png"},
	}}
	r := newTestRouter(&fakeGenerator{}, lister)

	w := doJSON(r, http.MethodGet, "/api/v1/meme/templates", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Templates []struct {
			ID     string `json:"id"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
			Format string `json:"format"`
		} `json:"templates"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Templates, 2)
	assert.Equal(t, "distracted", resp.Templates[0].ID)
	assert.Equal(t, 450, resp.Templates[0].Height)
	assert.Equal(t, "drake", resp.Templates[1].ID)
}

func TestListTemplatesEmptyCatalogStillAnswers(t *testing.T) {
	r := newTestRouter(&fakeGenerator{}, &fakeLister{})

	w := doJSON(r, http.MethodGet, "/api/v1/meme/templates", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(0), resp["count"])
}
