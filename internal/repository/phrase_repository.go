package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/polyphrases/polyphrases/internal/database"
	"github.com/polyphrases/polyphrases/internal/model"
)

// phraseColumns lists the selected columns; translation columns follow
// model.Languages order
var phraseColumns = func() string {
	cols := []string{"id", "date", "phrase"}
	for _, lang := range model.Languages {
		cols = append(cols, lang.Column)
	}
	cols = append(cols, "has_image", "created_at")
	return strings.Join(cols, ", ")
}()

// PhraseRepository handles phrase data persistence
type PhraseRepository struct {
	db *database.Postgres
}

// NewPhraseRepository creates a new PhraseRepository
func NewPhraseRepository(db *database.Postgres) *PhraseRepository {
	return &PhraseRepository{db: db}
}

// GetByDate retrieves the phrase scheduled for the given calendar day
func (r *PhraseRepository) GetByDate(ctx context.Context, day time.Time) (*model.Phrase, error) {
	query := `SELECT ` + phraseColumns + ` FROM phrases WHERE date = $1 LIMIT 1`
	return r.scanPhrase(r.db.QueryRowContext(ctx, query, day.Format(model.DateLayout)))
}

// NextWithoutImage retrieves one phrase that has no illustration yet. When
// day is non-nil only the phrase for that day is considered, otherwise the
// earliest undecorated phrase is returned.
func (r *PhraseRepository) NextWithoutImage(ctx context.Context, day *time.Time) (*model.Phrase, error) {
	if day != nil {
		query := `SELECT ` + phraseColumns + ` FROM phrases WHERE has_image = false AND date = $1 LIMIT 1`
		return r.scanPhrase(r.db.QueryRowContext(ctx, query, day.Format(model.DateLayout)))
	}
	query := `SELECT ` + phraseColumns + ` FROM phrases WHERE has_image = false ORDER BY date ASC LIMIT 1`
	return r.scanPhrase(r.db.QueryRowContext(ctx, query))
}

// MarkIllustrated flags the phrase as having an image
func (r *PhraseRepository) MarkIllustrated(ctx context.Context, id int64) error {
	query := `UPDATE phrases SET has_image = true WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update phrase image status: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanPhrase scans a single phrase row
func (r *PhraseRepository) scanPhrase(row *sql.Row) (*model.Phrase, error) {
	var p model.Phrase
	translations := make([]sql.NullString, len(model.Languages))

	dest := []interface{}{&p.ID, &p.Date, &p.Text}
	for i := range translations {
		dest = append(dest, &translations[i])
	}
	dest = append(dest, &p.HasImage, &p.CreatedAt)

	err := row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan phrase: %w", err)
	}

	p.Translations = make(map[string]string, len(model.Languages))
	for i, lang := range model.Languages {
		p.Translations[lang.Code] = translations[i].String
	}
	return &p, nil
}
