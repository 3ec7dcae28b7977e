package service

import (
	"context"
	"time"

	"github.com/polyphrases/polyphrases/internal/model"
)

// PhraseStore is the phrase persistence used by both jobs.
// Implemented by repository.PhraseRepository.
type PhraseStore interface {
	GetByDate(ctx context.Context, day time.Time) (*model.Phrase, error)
	NextWithoutImage(ctx context.Context, day *time.Time) (*model.Phrase, error)
	MarkIllustrated(ctx context.Context, id int64) error
}

// SubscriberStore is the subscriber persistence used by dispatch.
// Implemented by repository.SubscriberRepository.
type SubscriberStore interface {
	ListDue(ctx context.Context, day time.Time, limit int) ([]*model.Subscriber, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status model.VerificationStatus) error
	UpdateLastSent(ctx context.Context, id int64, day time.Time) error
}

// TokenDeriver produces subscriber link tokens. Implemented by
// auth.TokenService.
type TokenDeriver interface {
	Derive(id int64, email string) (string, error)
}

// ImageLocator answers whether a date has a stored illustration.
// Implemented by the imagestore stores.
type ImageLocator interface {
	Exists(ctx context.Context, day time.Time) (bool, error)
	URL(day time.Time) string
}

// Locker guards a run against concurrent execution. Implemented by
// database.Redis.
type Locker interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) error
}

// startOfDay returns midnight of t's calendar day in t's location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
