package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcMeterLine(t *testing.T) {
	tests := []struct {
		name      string
		last      float64
		current   float64
		rate      float64
		wantUnits float64
		wantCost  float64
	}{
		{"normal delta", 100, 110, 18, 10, 180},
		{"zero delta", 50, 50, 18, 0, 0},
		{"negative delta clamps to zero", 120, 100, 18, 0, 0},
		{"fractional units", 10, 12.5, 7, 2.5, 17.5},
		{"zero rate", 0, 40, 0, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := CalcMeterLine(tt.last, tt.current, tt.rate)
			assert.Equal(t, tt.wantUnits, line.Units)
			assert.Equal(t, tt.wantCost, line.Cost)
		})
	}
}
