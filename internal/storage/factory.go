package storage

import "fmt"

// Config selects and configures an OutputStore backend.
type Config struct {
	Backend       string // "local" (default) or "s3"
	Dir           string // output root for the local backend
	PublicBaseURL string // mount path for local references
	S3            S3Config
}

// NewStore creates an OutputStore instance based on the configuration.
func NewStore(cfg *Config) (OutputStore, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.Dir, cfg.PublicBaseURL)
	case "s3":
		return NewS3Store(&cfg.S3)
	default:
		return nil, fmt.Errorf("unknown output store backend %q", cfg.Backend)
	}
}
