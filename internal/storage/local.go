package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/timmy/memegen/internal/domain"
	"github.com/timmy/memegen/internal/logger"
)

// LocalStore writes rendered memes to a directory on the local filesystem.
// References are expressed under a public mount path so the transport layer
// can serve them statically.
type LocalStore struct {
	root       string
	publicBase string
}

// NewLocalStore creates the output root if needed.
func NewLocalStore(root, publicBase string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating output dir %s: %v", domain.ErrStoreWrite, root, err)
	}
	return &LocalStore{
		root:       root,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

// Save writes the buffer under a unique name and returns its reference.
// Write failures are surfaced, not retried: a full disk or bad permissions
// would fail identically on retry.
func (s *LocalStore) Save(ctx context.Context, data []byte, opts SaveOptions) (*domain.RenderedMeme, error) {
	now := time.Now()
	name := newObjectName(opts, now)
	path := filepath.Join(s.root, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: writing %s: %v", domain.ErrStoreWrite, path, err)
	}

	reference := s.publicBase + "/" + name
	logger.With(logger.Fields{
		logger.FieldReference: reference,
		logger.FieldSize:      len(data),
	}).Debug(ctx, "Stored rendered meme")

	return &domain.RenderedMeme{
		Reference: reference,
		Width:     opts.Width,
		Height:    opts.Height,
		CreatedAt: now.UTC(),
	}, nil
}

// Root returns the directory rendered files are written to.
func (s *LocalStore) Root() string {
	return s.root
}
