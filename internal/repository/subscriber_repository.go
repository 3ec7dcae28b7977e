package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/polyphrases/polyphrases/internal/database"
	"github.com/polyphrases/polyphrases/internal/model"
)

var subscriberColumns = func() string {
	cols := []string{"id", "email", "verified"}
	for _, lang := range model.Languages {
		cols = append(cols, lang.Column)
	}
	cols = append(cols, "delivered", "opens", "clicks", "streak", "points", "last_sent", "created_at")
	return strings.Join(cols, ", ")
}()

// SubscriberRepository handles subscriber data persistence
type SubscriberRepository struct {
	db *database.Postgres
}

// NewSubscriberRepository creates a new SubscriberRepository
func NewSubscriberRepository(db *database.Postgres) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// ListDue returns up to limit verified subscribers whose last send happened
// before the given day
func (r *SubscriberRepository) ListDue(ctx context.Context, day time.Time, limit int) ([]*model.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + `
		FROM subscribers
		WHERE verified = $1 AND last_sent < $2
		ORDER BY id
		LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, model.StatusVerified, day.Format(model.DateLayout), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []*model.Subscriber
	for rows.Next() {
		var s model.Subscriber
		optIn := make([]bool, len(model.Languages))

		dest := []interface{}{&s.ID, &s.Email, &s.Status}
		for i := range optIn {
			dest = append(dest, &optIn[i])
		}
		dest = append(dest, &s.Delivered, &s.Opens, &s.Clicks, &s.Streak, &s.Points, &s.LastSent, &s.CreatedAt)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}

		s.Languages = make(model.LanguageSet, len(model.Languages))
		for i, lang := range model.Languages {
			if optIn[i] {
				s.Languages[lang.Code] = true
			}
		}
		subscribers = append(subscribers, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscribers: %w", err)
	}
	return subscribers, nil
}

// Delete removes a subscriber
func (r *SubscriberRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM subscribers WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus updates the subscriber's verification status
func (r *SubscriberRepository) UpdateStatus(ctx context.Context, id int64, status model.VerificationStatus) error {
	query := `UPDATE subscribers SET verified = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update subscriber status: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLastSent records the day the subscriber was last handled
func (r *SubscriberRepository) UpdateLastSent(ctx context.Context, id int64, day time.Time) error {
	query := `UPDATE subscribers SET last_sent = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, day.Format(model.DateLayout), id)
	if err != nil {
		return fmt.Errorf("failed to update last sent: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
