package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/polyphrases/polyphrases/internal/config"
	"github.com/polyphrases/polyphrases/internal/imagegen"
	"github.com/polyphrases/polyphrases/internal/imagestore"
	"github.com/polyphrases/polyphrases/internal/logger"
	"github.com/polyphrases/polyphrases/internal/model"
	"github.com/polyphrases/polyphrases/internal/repository"
)

// IllustrationReport summarizes one image job run
type IllustrationReport struct {
	PhraseID int64  `json:"phraseId,omitempty"`
	Date     string `json:"date,omitempty"`
	URL      string `json:"url,omitempty"`
	NoPhrase bool   `json:"noPhrase"`
}

// ImageSaver persists a normalized illustration
type ImageSaver interface {
	Save(ctx context.Context, day time.Time, data []byte) (string, error)
}

// IllustrationService generates and stores the image for one phrase.
type IllustrationService struct {
	phrases    PhraseStore
	generator  imagegen.Generator
	store      ImageSaver
	httpClient *http.Client
	cfg        *config.Config
	log        *logger.Logger
}

// NewIllustrationService creates a new IllustrationService.
func NewIllustrationService(
	phrases PhraseStore,
	generator imagegen.Generator,
	store ImageSaver,
	cfg *config.Config,
	log *logger.Logger,
) *IllustrationService {
	return &IllustrationService{
		phrases:    phrases,
		generator:  generator,
		store:      store,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cfg:        cfg,
		log:        log.WithComponent("illustrate"),
	}
}

// Run illustrates the phrase for day, or the earliest phrase still lacking
// an image when day is nil. Finding nothing to do is not an error.
// A failed flag update after the image is stored is returned as is; the
// stored file is kept and the next run will regenerate it.
func (s *IllustrationService) Run(ctx context.Context, day *time.Time) (*IllustrationReport, error) {
	report := &IllustrationReport{}

	phrase, err := s.phrases.NextWithoutImage(ctx, day)
	if errors.Is(err, repository.ErrNotFound) {
		report.NoPhrase = true
		event := s.log.Info()
		if day != nil {
			event = event.Str("date", day.Format(model.DateLayout))
		}
		event.Msg("no phrase needs an illustration")
		return report, nil
	}
	if err != nil {
		return report, fmt.Errorf("failed to fetch phrase for image: %w", err)
	}
	report.PhraseID = phrase.ID
	report.Date = phrase.DateKey()

	s.log.Info().Int64("phrase_id", phrase.ID).Str("date", report.Date).Str("prompt", phrase.Text).Msg("generating image")

	img, err := s.generator.Generate(ctx, phrase.Text)
	if err != nil {
		return report, fmt.Errorf("failed to generate image: %w", err)
	}

	raw, err := imagestore.Fetch(ctx, s.httpClient, img)
	if err != nil {
		return report, err
	}

	data, err := imagestore.Normalize(raw, s.cfg.Image.MaxWidth)
	if err != nil {
		return report, err
	}

	url, err := s.store.Save(ctx, phrase.Date, data)
	if err != nil {
		return report, fmt.Errorf("failed to save image: %w", err)
	}
	report.URL = url

	if err := s.phrases.MarkIllustrated(ctx, phrase.ID); err != nil {
		return report, fmt.Errorf("failed to flag phrase %d as illustrated: %w", phrase.ID, err)
	}

	s.log.Info().Int64("phrase_id", phrase.ID).Str("url", url).Int("bytes", len(data)).Msg("image saved and phrase flagged")
	return report, nil
}
