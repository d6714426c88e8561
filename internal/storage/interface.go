package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/timmy/memegen/internal/domain"
)

// SaveOptions carries the metadata the store needs to name and describe a
// rendered buffer.
type SaveOptions struct {
	TemplateID string
	Format     string // encoded format extension, e.g. "png"
	Width      int
	Height     int
}

// OutputStore persists rendered meme buffers under collision-resistant
// names and returns an addressable reference. Implementations must be safe
// for concurrent use: two concurrent Save calls never race on a path.
type OutputStore interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (*domain.RenderedMeme, error)
}

// newObjectName builds a unique file name. The template id and timestamp
// make names human-scannable in the output directory; the uuid token is
// what guarantees uniqueness under concurrency.
func newObjectName(opts SaveOptions, now time.Time) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s.%s",
		opts.TemplateID, now.UTC().Format("20060102_150405"), token, opts.Format)
}
