// Package engagement scores a subscriber's open and click history and
// decides whether today's phrase should be sent.
package engagement

import "fmt"

// Decision thresholds. These values must match historical behaviour exactly.
const (
	MinDelivered      = 3
	ClickRatioAlways  = 49.0
	OpenRatioAlways   = 65.0
	OpenRatioMaybe    = 35.0
	MaybeSendPercent  = 70
	maybeSendDrawSize = 100
)

// Decision is the outcome of scoring a subscriber
type Decision int

const (
	Send Decision = iota
	Skip
	MarkStale
)

// String returns the decision name
func (d Decision) String() string {
	switch d {
	case Send:
		return "send"
	case Skip:
		return "skip"
	case MarkStale:
		return "mark_stale"
	default:
		return "unknown"
	}
}

// Rand is the random source used for the probabilistic send. IntN returns a
// uniform integer in [0, n).
type Rand interface {
	IntN(n int) int
}

// Result carries the decision together with the figures behind it
type Result struct {
	Decision   Decision
	OpenRatio  float64
	ClickRatio float64
	// Draw is the uniform [1,100] draw, or 0 when no draw was needed
	Draw   int
	Reason string
}

// Ratios returns opens and clicks as percentages of delivered emails. Both
// are zero when nothing has been delivered yet.
func Ratios(delivered, opens, clicks int) (openRatio, clickRatio float64) {
	if delivered == 0 {
		return 0, 0
	}
	d := float64(delivered)
	return float64(opens) / d * 100, float64(clicks) / d * 100
}

// Decide applies the send policy:
//   - always send with fewer than 3 deliveries, click ratio above 49 or open
//     ratio above 65
//   - send 70% of the time when the open ratio is above 35
//   - otherwise mark the subscriber stale
//
// rng is only consulted on the probabilistic path.
func Decide(delivered, opens, clicks int, rng Rand) Result {
	openRatio, clickRatio := Ratios(delivered, opens, clicks)
	res := Result{OpenRatio: openRatio, ClickRatio: clickRatio}

	switch {
	case delivered < MinDelivered || clickRatio > ClickRatioAlways || openRatio > OpenRatioAlways:
		res.Decision = Send
		res.Reason = "low delivered or high engagement"
	case openRatio > OpenRatioMaybe:
		res.Draw = rng.IntN(maybeSendDrawSize) + 1
		if res.Draw <= MaybeSendPercent {
			res.Decision = Send
		} else {
			res.Decision = Skip
		}
		res.Reason = fmt.Sprintf("open ratio between 35%% and 65%%, draw %d <= %d", res.Draw, MaybeSendPercent)
	default:
		res.Decision = MarkStale
		res.Reason = "open ratio at or below 35%"
	}
	return res
}
