package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/polyphrases/polyphrases/internal/config"
	"github.com/polyphrases/polyphrases/internal/email"
	"github.com/polyphrases/polyphrases/internal/imagegen"
	"github.com/polyphrases/polyphrases/internal/model"
	"github.com/polyphrases/polyphrases/internal/repository"
)

var (
	testNow   = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	testToday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	errStore  = errors.New("connection reset")
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: config.EnvProduction,
		Site: config.SiteConfig{
			URL:            "https://polyphrases.example",
			Name:           "Poly Phrases",
			MailingAddress: "30 N Gould St Ste N, Sheridan, WY 82801",
		},
		Redis:    config.RedisConfig{LockTTL: time.Minute},
		Dispatch: config.DispatchConfig{BatchSize: 20, Timezone: "UTC"},
		Image:    config.ImageConfig{MaxWidth: 64},
	}
}

// stubRand answers the 1..100 engagement draw with draw and every other
// pool draw with 0
type stubRand struct {
	draw int
}

func (r stubRand) IntN(n int) int {
	if n == 100 {
		return r.draw - 1
	}
	return 0
}

type fakePhrases struct {
	phrase  *model.Phrase
	getErr  error
	nextArg *time.Time
	nextErr error
	markErr error
	marked  []int64
	calls   int
}

func (f *fakePhrases) GetByDate(_ context.Context, day time.Time) (*model.Phrase, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.phrase == nil || f.phrase.DateKey() != day.Format(model.DateLayout) {
		return nil, repository.ErrNotFound
	}
	return f.phrase, nil
}

func (f *fakePhrases) NextWithoutImage(_ context.Context, day *time.Time) (*model.Phrase, error) {
	f.calls++
	f.nextArg = day
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	if f.phrase == nil || f.phrase.HasImage {
		return nil, repository.ErrNotFound
	}
	return f.phrase, nil
}

func (f *fakePhrases) MarkIllustrated(_ context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakeSubscribers struct {
	due       []*model.Subscriber
	listErr   error
	listLimit int
	deleted   []int64
	statuses  map[int64]model.VerificationStatus
	lastSent  map[int64]string
	// failLastSent makes UpdateLastSent fail for that subscriber id
	failLastSent int64
	// gone holds ids whose row was removed after ListDue
	gone map[int64]bool
}

func newFakeSubscribers(subs ...*model.Subscriber) *fakeSubscribers {
	return &fakeSubscribers{
		due:      subs,
		statuses: map[int64]model.VerificationStatus{},
		lastSent: map[int64]string{},
	}
}

func (f *fakeSubscribers) mutations() int {
	return len(f.deleted) + len(f.statuses) + len(f.lastSent)
}

func (f *fakeSubscribers) ListDue(_ context.Context, _ time.Time, limit int) ([]*model.Subscriber, error) {
	f.listLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.due, nil
}

func (f *fakeSubscribers) Delete(_ context.Context, id int64) error {
	if f.gone[id] {
		return repository.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSubscribers) UpdateStatus(_ context.Context, id int64, status model.VerificationStatus) error {
	if f.gone[id] {
		return repository.ErrNotFound
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeSubscribers) UpdateLastSent(_ context.Context, id int64, day time.Time) error {
	if id == f.failLastSent {
		return errStore
	}
	if f.gone[id] {
		return repository.ErrNotFound
	}
	f.lastSent[id] = day.Format(model.DateLayout)
	return nil
}

type fakeSender struct {
	sent   []email.Message
	failTo map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg email.Message) error {
	if f.failTo[msg.To] {
		return errors.New("smtp: 421 service not available")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Derive(id int64, _ string) (string, error) {
	return fmt.Sprintf("tok-%d", id), nil
}

type fakeImages struct {
	exists bool
	err    error
}

func (f fakeImages) Exists(context.Context, time.Time) (bool, error) {
	return f.exists, f.err
}

func (f fakeImages) URL(day time.Time) string {
	return "https://polyphrases.example/images/" + day.Format(model.DateLayout) + ".jpg"
}

type fakeGenerator struct {
	img   *imagegen.Image
	err   error
	calls []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (*imagegen.Image, error) {
	f.calls = append(f.calls, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

type fakeSaver struct {
	day  time.Time
	data []byte
	err  error
}

func (f *fakeSaver) Save(_ context.Context, day time.Time, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.day = day
	f.data = data
	return "https://polyphrases.example/images/" + day.Format(model.DateLayout) + ".jpg", nil
}
