package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/timmy/memegen/internal/catalog"
	"github.com/timmy/memegen/internal/domain"
	"github.com/timmy/memegen/internal/storage"
)

const publicBase = "/static/memes"

func newTemplate(id string, w, h int) *domain.Template {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.NRGBA{40, 80, 160, 255}}, image.Point{}, draw.Src)
	return &domain.Template{ID: id, Pixels: img, Width: w, Height: h, Format: "png"}
}

func newTestCompositor(t *testing.T, templates ...*domain.Template) (*Compositor, string) {
	t.Helper()

	fonts, err := LoadFonts("")
	require.NoError(t, err)

	outDir := t.TempDir()
	store, err := storage.NewLocalStore(outDir, publicBase)
	require.NoError(t, err)

	engine := NewEngine(fonts, EngineConfig{MinFontSize: 10, FontSizeStep: 2})
	comp := NewCompositor(catalog.New(templates...), engine, fonts, store, CompositorConfig{
		Defaults: domain.StyleDefaults{
			FontSize:    40,
			FontColor:   "white",
			StrokeColor: "black",
			StrokeWidth: 2,
		},
		MaxTextBlocks: 8,
	})
	return comp, outDir
}

func drakeRequest() *domain.MemeRequest {
	return &domain.MemeRequest{
		TemplateID: "drake",
		TextBlocks: []domain.TextBlock{
			{Content: "Old way", Zone: domain.TopZone(), FontSize: 40, FontColor: "white", StrokeColor: "black", StrokeWidth: 2},
			{Content: "New way", Zone: domain.BottomZone(), FontSize: 40, FontColor: "white", StrokeColor: "black", StrokeWidth: 2},
		},
	}
}

func storedFile(t *testing.T, outDir, reference string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(reference, publicBase+"/"))
	return filepath.Join(outDir, strings.TrimPrefix(reference, publicBase+"/"))
}

func TestGenerateDrakeScenario(t *testing.T) {
	comp, outDir := newTestCompositor(t, newTemplate("drake", 400, 400))

	meme, err := comp.Generate(context.Background(), drakeRequest())
	require.NoError(t, err)

	assert.Equal(t, 400, meme.Width)
	assert.Equal(t, 400, meme.Height)
	assert.False(t, meme.CreatedAt.IsZero())

	// the reference points at a newly created, decodable PNG
	path := storedFile(t, outDir, meme.Reference)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestGenerateIsContentDeterministic(t *testing.T) {
	comp, outDir := newTestCompositor(t, newTemplate("drake", 400, 400))

	first, err := comp.Generate(context.Background(), drakeRequest())
	require.NoError(t, err)
	second, err := comp.Generate(context.Background(), drakeRequest())
	require.NoError(t, err)

	// distinct references, pixel-identical content
	require.NotEqual(t, first.Reference, second.Reference)

	a, err := os.ReadFile(storedFile(t, outDir, first.Reference))
	require.NoError(t, err)
	b, err := os.ReadFile(storedFile(t, outDir, second.Reference))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "identical requests must produce identical pixels")
}

func TestGenerateNeverMutatesTemplate(t *testing.T) {
	tpl := newTemplate("drake", 400, 400)
	comp, _ := newTestCompositor(t, tpl)

	var before bytes.Buffer
	require.NoError(t, png.Encode(&before, tpl.Pixels))

	_, err := comp.Generate(context.Background(), drakeRequest())
	require.NoError(t, err)

	var after bytes.Buffer
	require.NoError(t, png.Encode(&after, tpl.Pixels))
	assert.True(t, bytes.Equal(before.Bytes(), after.Bytes()), "template pixel data must be untouched")
}

func TestGenerateUnknownTemplateWritesNothing(t *testing.T) {
	comp, outDir := newTestCompositor(t, newTemplate("drake", 400, 400))

	req := drakeRequest()
	req.TemplateID = "nonexistent"
	_, err := comp.Generate(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file may be written for a failed resolve")
}

func TestGenerateRejectsInvalidRequests(t *testing.T) {
	comp, outDir := newTestCompositor(t, newTemplate("drake", 400, 400))

	testCases := []struct {
		name   string
		mutate func(*domain.MemeRequest)
	}{
		{name: "no blocks", mutate: func(r *domain.MemeRequest) { r.TextBlocks = nil }},
		{name: "negative font size", mutate: func(r *domain.MemeRequest) { r.TextBlocks[0].FontSize = -1 }},
		{name: "unknown color", mutate: func(r *domain.MemeRequest) { r.TextBlocks[0].FontColor = "sparkle" }},
		{name: "too many blocks", mutate: func(r *domain.MemeRequest) {
			for i := 0; i < 10; i++ {
				r.TextBlocks = append(r.TextBlocks, r.TextBlocks[0])
			}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := drakeRequest()
			tc.mutate(req)
			_, err := comp.Generate(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrInvalidTextBlock)
		})
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "invalid requests must not reach the store")
}

func TestGenerateWithCustomZone(t *testing.T) {
	comp, _ := newTestCompositor(t, newTemplate("drake", 400, 400))

	req := &domain.MemeRequest{
		TemplateID: "drake",
		TextBlocks: []domain.TextBlock{
			{Content: "boxed", Zone: domain.CustomZone(50, 50, 300, 100), FontSize: 20, FontColor: "yellow", StrokeColor: "black", StrokeWidth: 1},
		},
	}
	meme, err := comp.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 400, meme.Width)
}

func TestGenerateConcurrentRequests(t *testing.T) {
	fontPath := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(fontPath, goregular.TTF, 0o644))
	fonts, err := LoadFonts(fontPath)
	require.NoError(t, err)

	outDir := t.TempDir()
	store, err := storage.NewLocalStore(outDir, publicBase)
	require.NoError(t, err)

	engine := NewEngine(fonts, EngineConfig{MinFontSize: 10, FontSizeStep: 2})
	comp := NewCompositor(catalog.New(newTemplate("drake", 400, 400)), engine, fonts, store, CompositorConfig{
		Defaults: domain.StyleDefaults{
			FontSize:    40,
			FontColor:   "white",
			StrokeColor: "black",
			StrokeWidth: 2,
		},
		MaxTextBlocks: 8,
	})

	const n = 8
	refs := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meme, err := comp.Generate(context.Background(), drakeRequest())
			errs[i] = err
			if err == nil {
				refs[i] = meme.Reference
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[refs[i]], "duplicate reference %s", refs[i])
		seen[refs[i]] = true
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestGenerateChangesPixels(t *testing.T) {
	tpl := newTemplate("drake", 400, 400)
	comp, outDir := newTestCompositor(t, tpl)

	meme, err := comp.Generate(context.Background(), drakeRequest())
	require.NoError(t, err)

	var plain bytes.Buffer
	require.NoError(t, png.Encode(&plain, tpl.Pixels))
	rendered, err := os.ReadFile(storedFile(t, outDir, meme.Reference))
	require.NoError(t, err)
	assert.False(t, bytes.Equal(plain.Bytes(), rendered), "rendered output must differ from the bare template")
}
