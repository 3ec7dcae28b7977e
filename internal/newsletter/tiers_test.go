package newsletter

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRand returns the queued values in order, modulo n
type seqRand struct {
	values []int
}

func (r *seqRand) IntN(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

func TestTiers_ExhaustiveAndExclusive(t *testing.T) {
	for streak := 0; streak <= 60; streak++ {
		for _, points := range []int{0, 1, 2, 50, 999, 100000} {
			matches := 0
			for _, tier := range Tiers {
				if tier.Match(streak, points) {
					matches++
				}
			}
			assert.Equal(t, 1, matches, "streak=%d points=%d", streak, points)
		}
	}
}

func TestSelectTier(t *testing.T) {
	tests := []struct {
		streak, points int
		want           string
	}{
		{0, 0, "not_started"},
		{0, 15, "points_no_streak"},
		{1, 0, "earn_points"},
		{9, 0, "earn_points"},
		{1, 10, "one_day"},
		{2, 10, "two_days"},
		{3, 10, "three_to_five_days"},
		{5, 10, "three_to_five_days"},
		{6, 10, "six_to_ten_days"},
		{10, 10, "six_to_ten_days"},
		{11, 10, "eleven_to_twenty_days"},
		{20, 10, "eleven_to_twenty_days"},
		{21, 10, "twentyone_to_thirty_days"},
		{30, 10, "twentyone_to_thirty_days"},
		{31, 10, "over_thirty_days"},
		{365, 10, "over_thirty_days"},
	}

	for _, tt := range tests {
		tier, err := SelectTier(tt.streak, tt.points)
		require.NoError(t, err)
		assert.Equal(t, tt.want, tier.Name, "streak=%d points=%d", tt.streak, tt.points)
	}
}

func TestSelectTier_RejectsNegative(t *testing.T) {
	_, err := SelectTier(-1, 5)
	assert.ErrorIs(t, err, ErrInvalidProgress)

	_, err = SelectTier(3, -5)
	assert.ErrorIs(t, err, ErrInvalidProgress)

	_, err = Personalize(-2, 0, &seqRand{})
	assert.ErrorIs(t, err, ErrInvalidProgress)
}

func TestDayWord(t *testing.T) {
	assert.Equal(t, "day", DayWord(1))
	for _, n := range []int{0, 2, 3, 10, 31} {
		assert.Equal(t, "days", DayWord(n))
	}
}

func TestPersonalize_Interpolation(t *testing.T) {
	// emoji, motivation, message
	e, err := Personalize(1, 40, &seqRand{values: []int{0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, "one_day", e.Tier)
	assert.Equal(t, Emojis[0], e.Emoji)
	assert.Equal(t, Motivations[0], e.Motivation)
	assert.Equal(t, "Great start! You practiced for 1 day and earned 40 points! Keep up the great work!", e.Text)

	e, err = Personalize(1, 0, &seqRand{values: []int{0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, "You've practiced for 1 day but haven't earned any points yet. Try the practice sessions, you'll love them!", e.Text)

	e, err = Personalize(4, 0, &seqRand{values: []int{0, 0, 1}})
	require.NoError(t, err)
	assert.Equal(t, "4 days of effort! Engage in activities to earn points and track your progress!", e.Text)

	e, err = Personalize(0, 12, &seqRand{values: []int{0, 1, 0}})
	require.NoError(t, err)
	assert.Equal(t, "You have 12 points but haven't started practicing consistently yet! You're on a roll!", e.Text)
}

func TestPersonalize_NoPlaceholdersLeft(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for streak := 0; streak <= 40; streak++ {
		for _, points := range []int{0, 7} {
			for i := 0; i < 10; i++ {
				e, err := Personalize(streak, points, rng)
				require.NoError(t, err)
				assert.False(t, strings.Contains(e.Text, "{"), "unexpanded placeholder in %q", e.Text)
			}
		}
	}
}

func TestPersonalize_NotStartedOmitsFigures(t *testing.T) {
	for i := 0; i < len(Tiers[0].Messages); i++ {
		e, err := Personalize(0, 0, &seqRand{values: []int{0, 0, i}})
		require.NoError(t, err)
		assert.Equal(t, Tiers[0].Messages[i], e.Text)
	}
}

func TestPersonalizeFallback(t *testing.T) {
	e := PersonalizeFallback(-3, 5, &seqRand{values: []int{0, 0, 0}})
	assert.Equal(t, "fallback", e.Tier)
	assert.Equal(t, "Keep it up! You've practiced for -3 days and earned 5 points! Keep up the great work!", e.Text)
}

func TestTiers_FivePhrasings(t *testing.T) {
	for _, tier := range Tiers {
		if tier.Name == "points_no_streak" {
			assert.Len(t, tier.Messages, 1)
			continue
		}
		assert.Len(t, tier.Messages, 5, tier.Name)
	}
	assert.Len(t, FallbackTier.Messages, 5)
	assert.Len(t, Motivations, 99)
	assert.Len(t, Palette, 12)
}
