package newsletter

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidProgress is returned when a subscriber's streak or points are
// negative and no tier applies
var ErrInvalidProgress = errors.New("streak and points must be non-negative")

// Tier is one engagement message variant. Messages may reference {streak},
// {points}, {days} and {motivation}.
type Tier struct {
	Name     string
	Match    func(streak, points int) bool
	Messages []string
}

// Tiers is evaluated in order; for non-negative streak and points exactly
// one entry matches
var Tiers = []Tier{
	{
		Name:  "not_started",
		Match: func(s, p int) bool { return s == 0 && p == 0 },
		Messages: []string{
			"You haven't started practicing yet! Click the button below to kickstart your language learning adventure!",
			"Ready to begin your language journey? Tap the button and start today!",
			"Your path to fluency starts now! Hit the button below and dive in!",
			"The first step awaits! Click below to embark on your language adventure!",
			"No better time than now to start learning! Press the button and let's go!",
		},
	},
	{
		Name:  "points_no_streak",
		Match: func(s, p int) bool { return s == 0 && p > 0 },
		Messages: []string{
			"You have {points} points but haven't started practicing consistently yet! {motivation}",
		},
	},
	{
		Name:  "earn_points",
		Match: func(s, p int) bool { return s > 0 && p == 0 },
		Messages: []string{
			"You've practiced for {streak} {days} but haven't earned any points yet. Try the practice sessions, you'll love them!",
			"{streak} {days} of effort! Engage in activities to earn points and track your progress!",
			"Keep going! Participate in practice sessions to start earning points!",
			"You're on your way! Earn points by completing practice tasks!",
			"Let's boost your progress! Start earning points with practice sessions!",
		},
	},
	{
		Name:  "one_day",
		Match: func(s, p int) bool { return s == 1 && p > 0 },
		Messages: []string{
			"Great start! You practiced for 1 day and earned {points} points! {motivation}",
			"Fantastic beginning! 1 day down, many more to go! {motivation}",
			"You're off to a flying start with 1 day of practice and {points} points! {motivation}",
			"Awesome job on your first day! {motivation}",
			"One day in, and you're already making progress! {motivation}",
		},
	},
	{
		Name:  "two_days",
		Match: func(s, p int) bool { return s == 2 && p > 0 },
		Messages: []string{
			"Awesome! You've practiced for {streak} consecutive days and earned {points} points! {motivation}",
			"Two days strong! Keep the momentum going! {motivation}",
			"Great consistency over {streak} days! {motivation}",
			"Back-to-back practice! {streak} days and counting! {motivation}",
			"You're building a habit! {streak} days straight! {motivation}",
		},
	},
	{
		Name:  "three_to_five_days",
		Match: streakBetween(3, 5),
		Messages: []string{
			"Impressive! {streak} days of consistent practice and {points} points earned! {motivation}",
			"You're on fire! {streak} days in a row! {motivation}",
			"Keep it up! {streak} days of dedication! {motivation}",
			"Outstanding commitment over {streak} days! {motivation}",
			"You're unstoppable! {streak} days and going strong! {motivation}",
		},
	},
	{
		Name:  "six_to_ten_days",
		Match: streakBetween(6, 10),
		Messages: []string{
			"Outstanding! {streak} consecutive days of practice and {points} points accumulated! {motivation}",
			"Tenacity at its best! {streak} days running! {motivation}",
			"Double digits! {streak} days of progress! {motivation}",
			"You're a star performer! {streak} days straight! {motivation}",
			"Keep soaring! {streak} days of excellence! {motivation}",
		},
	},
	{
		Name:  "eleven_to_twenty_days",
		Match: streakBetween(11, 20),
		Messages: []string{
			"Amazing! {streak} days in a row and {points} points collected! {motivation}",
			"Your dedication shines through {streak} days! {motivation}",
			"Over {streak} days of relentless effort! {motivation}",
			"You're a role model with {streak} days of practice! {motivation}",
			"Keep the energy high! {streak} days and counting! {motivation}",
		},
	},
	{
		Name:  "twentyone_to_thirty_days",
		Match: streakBetween(21, 30),
		Messages: []string{
			"Exceptional! {streak} consecutive days of practice and {points} points earned! {motivation}",
			"What a milestone! {streak} days of unwavering dedication! {motivation}",
			"You're a powerhouse with {streak} days of learning! {motivation}",
			"Incredible persistence over {streak} days! {motivation}",
			"Keep breaking records! {streak} days achieved! {motivation}",
		},
	},
	{
		Name:  "over_thirty_days",
		Match: func(s, p int) bool { return s > 30 && p > 0 },
		Messages: []string{
			"Legendary! Over {streak} days of continuous practice and {points} points amassed! {motivation}",
			"You're rewriting the record books with {streak} days! {motivation}",
			"An inspiration to all! {streak} days of commitment! {motivation}",
			"Your journey is epic! {streak} days and unstoppable! {motivation}",
			"You're a legend with {streak} days of practice! {motivation}",
		},
	},
}

// FallbackTier is used when a subscriber's progress figures fail validation
var FallbackTier = Tier{
	Name:  "fallback",
	Match: func(int, int) bool { return true },
	Messages: []string{
		"Keep it up! You've practiced for {streak} {days} and earned {points} points! {motivation}",
		"Great job! {streak} {days} of learning! {motivation}",
		"You're making steady progress over {streak} {days}! {motivation}",
		"Stay focused! {streak} {days} down! {motivation}",
		"Keep the dedication strong! {streak} {days} and counting! {motivation}",
	},
}

func streakBetween(lo, hi int) func(int, int) bool {
	return func(s, p int) bool { return s >= lo && s <= hi && p > 0 }
}

// DayWord returns "day" for a streak of exactly one and "days" otherwise
func DayWord(streak int) string {
	if streak == 1 {
		return "day"
	}
	return "days"
}

// SelectTier returns the tier for the given progress
func SelectTier(streak, points int) (*Tier, error) {
	if streak < 0 || points < 0 {
		return nil, ErrInvalidProgress
	}
	for i := range Tiers {
		if Tiers[i].Match(streak, points) {
			return &Tiers[i], nil
		}
	}
	// not reachable for non-negative input
	return nil, ErrInvalidProgress
}

// Engagement is the personalized part of one email
type Engagement struct {
	Tier       string
	Text       string
	Motivation string
	Emoji      string
}

// Personalize draws the emoji, motivation and tier phrasing for a subscriber
func Personalize(streak, points int, rng Rand) (Engagement, error) {
	tier, err := SelectTier(streak, points)
	if err != nil {
		return Engagement{}, err
	}
	return personalize(tier, streak, points, rng), nil
}

// PersonalizeFallback renders the generic fallback tier regardless of the
// progress figures
func PersonalizeFallback(streak, points int, rng Rand) Engagement {
	return personalize(&FallbackTier, streak, points, rng)
}

func personalize(tier *Tier, streak, points int, rng Rand) Engagement {
	emoji := pick(Emojis, rng)
	motivation := pick(Motivations, rng)
	text := pick(tier.Messages, rng)

	r := strings.NewReplacer(
		"{streak}", strconv.Itoa(streak),
		"{points}", strconv.Itoa(points),
		"{days}", DayWord(streak),
		"{motivation}", motivation,
	)
	return Engagement{
		Tier:       tier.Name,
		Text:       r.Replace(text),
		Motivation: motivation,
		Emoji:      emoji,
	}
}

func pick(pool []string, rng Rand) string {
	return pool[rng.IntN(len(pool))]
}
