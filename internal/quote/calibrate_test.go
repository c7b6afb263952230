package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmoothRate_BasicSmoothing(t *testing.T) {
	// current=150, delivered $12,000 for 100 points
	// implied = 120, new = 0.7*150 + 0.3*120 = 141
	got := SmoothRate(150, 12000, 100)
	assert.InDelta(t, 141, got, 1e-9)
}

func TestSmoothRate_InsufficientDataNoChange(t *testing.T) {
	assert.InDelta(t, 150, SmoothRate(150, 12000, 0), 1e-9)
	assert.InDelta(t, 150, SmoothRate(150, 0, 100), 1e-9)
}

func TestCalibrateRate_ReplaysOldestFirst(t *testing.T) {
	// 150 -> 141 after the first delivery, then the $180/point delivery
	// pulls it back up: 0.7*141 + 0.3*180 = 152.7
	got := CalibrateRate(150, []Delivered{
		{Dollars: 12000, Points: 100},
		{Dollars: 9000, Points: 50},
	})
	assert.InDelta(t, 152.7, got, 1e-9)
}

func TestCalibrateRate_DefaultsWhenUnset(t *testing.T) {
	assert.InDelta(t, DefaultDollarsPerPoint, CalibrateRate(0, nil), 1e-9)
}
