package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/polyphrases/polyphrases/internal/config"
	"github.com/polyphrases/polyphrases/internal/email"
	"github.com/polyphrases/polyphrases/internal/engagement"
	"github.com/polyphrases/polyphrases/internal/logger"
	"github.com/polyphrases/polyphrases/internal/model"
	"github.com/polyphrases/polyphrases/internal/newsletter"
	"github.com/polyphrases/polyphrases/internal/repository"
)

const dispatchLockPrefix = "polyphrases:dispatch:"

// Per-subscriber outcomes recorded in the audit log
const (
	OutcomeDeleted    = "deleted"
	OutcomeSent       = "sent"
	OutcomeSkipped    = "skipped"
	OutcomeStale      = "marked_stale"
	OutcomeSendFailed = "send_failed"
)

// DispatchReport summarizes one dispatch run
type DispatchReport struct {
	Date     string `json:"date"`
	Locked   bool   `json:"locked"`
	NoPhrase bool   `json:"noPhrase"`
	Selected int    `json:"selected"`
	Deleted  int    `json:"deleted"`
	Sent     int    `json:"sent"`
	Skipped  int    `json:"skipped"`
	Stale    int    `json:"stale"`
	Failed   int    `json:"failed"`
	Missing  int    `json:"missing"`
}

// DispatchService sends today's phrase to one batch of due subscribers.
type DispatchService struct {
	phrases     PhraseStore
	subscribers SubscriberStore
	sender      email.Sender
	tokens      TokenDeriver
	images      ImageLocator
	locker      Locker
	cfg         *config.Config
	log         *logger.Logger
	rng         newsletter.Rand
	now         func() time.Time
}

// NewDispatchService creates a new DispatchService. locker may be nil,
// in which case runs are not guarded against overlap.
func NewDispatchService(
	phrases PhraseStore,
	subscribers SubscriberStore,
	sender email.Sender,
	tokens TokenDeriver,
	images ImageLocator,
	locker Locker,
	cfg *config.Config,
	log *logger.Logger,
	rng newsletter.Rand,
) *DispatchService {
	return &DispatchService{
		phrases:     phrases,
		subscribers: subscribers,
		sender:      sender,
		tokens:      tokens,
		images:      images,
		locker:      locker,
		cfg:         cfg,
		log:         log.WithComponent("dispatch"),
		rng:         rng,
		now:         time.Now,
	}
}

// Today returns the dispatch day in the configured timezone
func (s *DispatchService) Today() (time.Time, error) {
	loc, err := s.cfg.Dispatch.Location()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load dispatch timezone: %w", err)
	}
	return startOfDay(s.now().In(loc)), nil
}

// Run processes one batch. Store errors abort the run and are returned;
// updates already made stand. Transport errors are logged and the
// subscriber is left for the next run.
func (s *DispatchService) Run(ctx context.Context) (*DispatchReport, error) {
	today, err := s.Today()
	if err != nil {
		return nil, err
	}
	report := &DispatchReport{Date: today.Format(model.DateLayout)}

	if s.locker != nil {
		key := dispatchLockPrefix + report.Date
		token := uuid.NewString()
		acquired, err := s.locker.TryLock(ctx, key, token, s.cfg.Redis.LockTTL)
		if err != nil {
			return report, fmt.Errorf("failed to acquire dispatch lock: %w", err)
		}
		if !acquired {
			report.Locked = true
			s.log.Info().Str("lock", key).Msg("another dispatch run holds the lock, exiting")
			return report, nil
		}
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
				s.log.Warn().Err(err).Str("lock", key).Msg("failed to release dispatch lock")
			}
		}()
	}

	phrase, err := s.phrases.GetByDate(ctx, today)
	if errors.Is(err, repository.ErrNotFound) {
		report.NoPhrase = true
		s.log.Info().Str("date", report.Date).Msg("no phrase for today, nothing to send")
		return report, nil
	}
	if err != nil {
		return report, fmt.Errorf("failed to get today's phrase: %w", err)
	}

	subscribers, err := s.subscribers.ListDue(ctx, today, s.cfg.Dispatch.BatchSize)
	if err != nil {
		return report, fmt.Errorf("failed to list due subscribers: %w", err)
	}
	report.Selected = len(subscribers)
	if len(subscribers) == 0 {
		s.log.Info().Str("date", report.Date).Msg("no subscribers due")
		return report, nil
	}

	run := newsletter.NewRunConfig(today, s.cfg.Site.URL, s.cfg.Site.Name, s.cfg.Site.MailingAddress, s.rng)
	imageURL := s.imageURL(ctx, today)

	s.log.Debug().
		Int64("phrase_id", phrase.ID).
		Str("accent", run.AccentColor).
		Bool("has_image", imageURL != "").
		Int("selected", len(subscribers)).
		Msg("dispatch run prepared")

	for _, sub := range subscribers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.process(ctx, run, phrase, sub, imageURL, report); err != nil {
			return report, err
		}
	}

	s.log.Info().
		Str("date", report.Date).
		Int("selected", report.Selected).
		Int("sent", report.Sent).
		Int("skipped", report.Skipped).
		Int("stale", report.Stale).
		Int("deleted", report.Deleted).
		Int("failed", report.Failed).
		Msg("dispatch run finished")

	return report, nil
}

// imageURL returns the illustration link for day, or "" when none is stored.
// A lookup failure only drops the image from today's emails.
func (s *DispatchService) imageURL(ctx context.Context, day time.Time) string {
	if s.images == nil {
		return ""
	}
	ok, err := s.images.Exists(ctx, day)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to check illustration, sending without image")
		return ""
	}
	if !ok {
		return ""
	}
	return s.images.URL(day)
}

func (s *DispatchService) process(ctx context.Context, run newsletter.RunConfig, phrase *model.Phrase, sub *model.Subscriber, imageURL string, report *DispatchReport) error {
	log := s.log.WithSubscriber(sub.ID, sub.Email)

	if !newsletter.ValidAddress(sub.Email) {
		if err := s.subscribers.Delete(ctx, sub.ID); err != nil {
			return s.storeFailure(log, report, sub.ID, "delete", err)
		}
		report.Deleted++
		log.Outcome(sub.ID, "invalid_address", OutcomeDeleted, false, nil)
		return nil
	}

	res := engagement.Decide(sub.Delivered, sub.Opens, sub.Clicks, s.rng)
	log.Debug().
		Int("delivered", sub.Delivered).
		Float64("open_ratio", res.OpenRatio).
		Float64("click_ratio", res.ClickRatio).
		Int("draw", res.Draw).
		Str("reason", res.Reason).
		Msg("engagement scored")

	switch res.Decision {
	case engagement.MarkStale:
		if err := s.subscribers.UpdateStatus(ctx, sub.ID, model.StatusStale); err != nil {
			return s.storeFailure(log, report, sub.ID, "mark stale", err)
		}
		if err := s.subscribers.UpdateLastSent(ctx, sub.ID, run.Today); err != nil {
			return s.storeFailure(log, report, sub.ID, "update last sent", err)
		}
		report.Stale++
		log.Outcome(sub.ID, res.Decision.String(), OutcomeStale, true, ratioMeta(res))
		return nil

	case engagement.Skip:
		if err := s.subscribers.UpdateLastSent(ctx, sub.ID, run.Today); err != nil {
			return s.storeFailure(log, report, sub.ID, "update last sent", err)
		}
		report.Skipped++
		log.Outcome(sub.ID, res.Decision.String(), OutcomeSkipped, true, ratioMeta(res))
		return nil
	}

	if err := s.send(ctx, log, run, phrase, sub, imageURL); err != nil {
		report.Failed++
		log.Error().Err(err).Msg("failed to send newsletter")
		meta := ratioMeta(res)
		meta["error"] = err.Error()
		log.Outcome(sub.ID, res.Decision.String(), OutcomeSendFailed, false, meta)
		return nil
	}

	updated := true
	if err := s.subscribers.UpdateLastSent(ctx, sub.ID, run.Today); err != nil {
		if ferr := s.storeFailure(log, report, sub.ID, "update last sent", err); ferr != nil {
			return ferr
		}
		updated = false
	}
	report.Sent++
	log.Outcome(sub.ID, res.Decision.String(), OutcomeSent, updated, ratioMeta(res))
	return nil
}

// storeFailure decides whether a per-subscriber write error ends the run.
// A row deleted since ListDue matched nothing; it is logged and the batch
// continues. Any other error aborts.
func (s *DispatchService) storeFailure(log *logger.Logger, report *DispatchReport, id int64, op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		report.Missing++
		log.Warn().Str("op", op).Msg("subscriber no longer exists, continuing")
		return nil
	}
	return fmt.Errorf("failed to %s for subscriber %d: %w", op, id, err)
}

// send personalizes, renders and transmits one email
func (s *DispatchService) send(ctx context.Context, log *logger.Logger, run newsletter.RunConfig, phrase *model.Phrase, sub *model.Subscriber, imageURL string) error {
	eng, err := newsletter.Personalize(sub.Streak, sub.Points, s.rng)
	if err != nil {
		log.Warn().
			Int("streak", sub.Streak).
			Int("points", sub.Points).
			Msg("invalid progress figures, using fallback message")
		eng = newsletter.PersonalizeFallback(sub.Streak, sub.Points, s.rng)
	}
	log.Debug().Str("tier", eng.Tier).Msg("message tier selected")

	token, err := s.tokens.Derive(sub.ID, sub.Email)
	if err != nil {
		return fmt.Errorf("failed to derive token: %w", err)
	}

	msg, err := newsletter.Compose(run, phrase, sub, eng, token, imageURL)
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, email.Message{
		To:       msg.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTML,
		TextBody: msg.Text,
	})
}

func ratioMeta(res engagement.Result) map[string]interface{} {
	meta := map[string]interface{}{
		"open_ratio":  res.OpenRatio,
		"click_ratio": res.ClickRatio,
	}
	if res.Draw > 0 {
		meta["draw"] = res.Draw
	}
	return meta
}
