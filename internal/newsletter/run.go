package newsletter

import (
	crand "crypto/rand"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/polyphrases/polyphrases/internal/model"
)

// Rand is the random source for message, emoji and color draws. IntN
// returns a uniform integer in [0, n).
type Rand interface {
	IntN(n int) int
}

// NewRand returns a ChaCha8 generator seeded from crypto/rand
func NewRand() *rand.Rand {
	var seed [32]byte
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

// RunConfig holds the values shared by every email of one dispatch run
type RunConfig struct {
	Today          time.Time
	AccentColor    string
	SiteURL        string
	SiteName       string
	MailingAddress string
}

// NewRunConfig draws the run's accent color and normalizes the site URL
func NewRunConfig(today time.Time, siteURL, siteName, mailingAddress string, rng Rand) RunConfig {
	return RunConfig{
		Today:          today,
		AccentColor:    pick(Palette, rng),
		SiteURL:        strings.TrimRight(siteURL, "/"),
		SiteName:       siteName,
		MailingAddress: mailingAddress,
	}
}

// TodayKey returns the run day formatted as YYYY-MM-DD
func (c RunConfig) TodayKey() string {
	return c.Today.Format(model.DateLayout)
}
