package podds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictOutcome(t *testing.T) {
	tests := []struct {
		name             string
		home, draw, away float64
		want             Outcome
	}{
		{"home favourite", 0.6, 0.3, 0.1, HomeWin},
		{"draw favourite", 0.2, 0.5, 0.3, Draw},
		{"away favourite", 0.2, 0.3, 0.5, AwayWin},
		{"three way tie goes away", 0.5, 0.5, 0.5, AwayWin},
		{"home and draw tie goes away", 0.4, 0.4, 0.2, AwayWin},
		{"home and away tie goes away", 0.4, 0.2, 0.4, AwayWin},
		{"draw and away tie goes away", 0.2, 0.4, 0.4, AwayWin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PredictOutcome(tt.home, tt.draw, tt.away))
		})
	}
}

func TestPredictOutcomePicksStrictMaximum(t *testing.T) {
	values := []float64{0, 0.1, 0.25, 0.33, 0.5, 0.9}
	for _, h := range values {
		for _, d := range values {
			for _, a := range values {
				got := PredictOutcome(h, d, a)
				switch {
				case h > d && h > a:
					assert.Equal(t, HomeWin, got, "home=%v draw=%v away=%v", h, d, a)
				case d > h && d > a:
					assert.Equal(t, Draw, got, "home=%v draw=%v away=%v", h, d, a)
				case a > h && a > d:
					assert.Equal(t, AwayWin, got, "home=%v draw=%v away=%v", h, d, a)
				}
			}
		}
	}
}

func TestPredictGoals(t *testing.T) {
	assert.Equal(t, "Over 1.5", PredictGoals(0.6, 0.4, 1.5))
	assert.Equal(t, "Under 2.5", PredictGoals(0.4, 0.4, 2.5))
	assert.Equal(t, "Under 2.5", PredictGoals(0.3, 0.7, Over2p5GoalsThreshold))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "45.67%", FormatPercentage(0.4567))
	assert.Equal(t, "100.00%", FormatPercentage(1.0))
	assert.Equal(t, "0.00%", FormatPercentage(0.0))
	assert.Equal(t, "33.33%", FormatPercentage(1.0/3.0))
}
