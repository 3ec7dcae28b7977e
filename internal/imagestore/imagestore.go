// Package imagestore persists phrase illustrations keyed by phrase date.
package imagestore

import (
	"context"
	"fmt"
	"time"

	"github.com/polyphrases/polyphrases/internal/awsclient"
	"github.com/polyphrases/polyphrases/internal/config"
	"github.com/polyphrases/polyphrases/internal/model"
)

// Store saves and locates the illustration for a calendar date
type Store interface {
	// Save writes a JPEG for day and returns its public URL
	Save(ctx context.Context, day time.Time, data []byte) (string, error)
	Exists(ctx context.Context, day time.Time) (bool, error)
	URL(day time.Time) string
}

// FileName returns the object name for day, e.g. "2024-05-01.jpg"
func FileName(day time.Time) string {
	return day.Format(model.DateLayout) + ".jpg"
}

// New builds the configured store
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Image.Storage {
	case "local":
		return NewLocalStore(cfg.Image.Local.Dir, cfg.Site.URL), nil
	case "s3":
		awsCfg, err := awsclient.Load(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		return NewS3Store(awsCfg, cfg.Image.S3), nil
	default:
		return nil, fmt.Errorf("unknown image storage %q", cfg.Image.Storage)
	}
}
