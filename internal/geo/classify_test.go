package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyReach(t *testing.T) {
	tests := []struct {
		name       string
		distanceKM float64
		expected   string
	}{
		{name: "local: zero distance", distanceKM: 0, expected: ReachLocal},
		{name: "local: village mandi", distanceKM: 12.5, expected: ReachLocal},
		{name: "local: at threshold", distanceKM: 25.0, expected: ReachLocal},
		{name: "regional: barely past local", distanceKM: 25.1, expected: ReachRegional},
		{name: "regional: district mandi", distanceKM: 95.0, expected: ReachRegional},
		{name: "regional: at threshold", distanceKM: 100.0, expected: ReachRegional},
		{name: "distant: barely past regional", distanceKM: 100.1, expected: ReachDistant},
		{name: "distant: Nagpur to Mumbai", distanceKM: 684.0, expected: ReachDistant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyReach(tt.distanceKM))
		})
	}
}
