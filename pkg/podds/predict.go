package podds

import (
	"fmt"
	"strconv"
)

// Outcome is the favoured full-time result of a match
type Outcome string

const (
	HomeWin Outcome = "Home Win"
	Draw    Outcome = "Draw"
	AwayWin Outcome = "Away Win"
)

func (o Outcome) String() string {
	return string(o)
}

// PredictOutcome picks the strictly largest of the three probabilities.
// Home is checked first, then draw. Anything else, including any tie
// involving away or a three-way tie, is an away win.
func PredictOutcome(home, draw, away float64) Outcome {
	if home > draw && home > away {
		return HomeWin
	}
	if draw > home && draw > away {
		return Draw
	}
	return AwayWin
}

// PredictGoals returns "Over t" when over is strictly more likely, else "Under t"
func PredictGoals(over, under, threshold float64) string {
	t := strconv.FormatFloat(threshold, 'f', -1, 64)
	if over > under {
		return "Over " + t
	}
	return "Under " + t
}

// FormatPercentage renders a 0..1 probability as a percentage with two decimals
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}
