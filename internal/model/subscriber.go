package model

import "time"

// VerificationStatus represents the verification state of a subscriber.
// Values are stored as integers for compatibility with existing rows.
type VerificationStatus int16

const (
	StatusUnverified   VerificationStatus = 0
	StatusVerified     VerificationStatus = 1
	StatusUnsubscribed VerificationStatus = 2
	StatusStale        VerificationStatus = 6
)

// String returns the status name
func (s VerificationStatus) String() string {
	switch s {
	case StatusUnverified:
		return "unverified"
	case StatusVerified:
		return "verified"
	case StatusUnsubscribed:
		return "unsubscribed"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Subscriber represents a newsletter recipient
type Subscriber struct {
	ID        int64              `json:"id"`
	Email     string             `json:"email"`
	Status    VerificationStatus `json:"status"`
	Languages LanguageSet        `json:"languages"`
	Delivered int                `json:"delivered"`
	Opens     int                `json:"opens"`
	Clicks    int                `json:"clicks"`
	Streak    int                `json:"streak"`
	Points    int                `json:"points"`
	LastSent  time.Time          `json:"lastSent"`
	CreatedAt time.Time          `json:"createdAt"`
}

// IsVerified checks if the subscriber has confirmed their address
func (s *Subscriber) IsVerified() bool {
	return s.Status == StatusVerified
}

// DueOn reports whether the subscriber is eligible for dispatch on the given day
func (s *Subscriber) DueOn(day time.Time) bool {
	return s.IsVerified() && s.LastSent.Format(DateLayout) < day.Format(DateLayout)
}
