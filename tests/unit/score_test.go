// Package tests contains unit tests for the hygiene score.
package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	jsonoutput "github.com/dthorne/relvet/shared/json_output"
)

// TestHygieneScore tests the severity-weighted score
func TestHygieneScore(t *testing.T) {
	tests := []struct {
		name     string
		critical int
		high     int
		medium   int
		low      int
		want     int
	}{
		{name: "clean scan", want: 100},
		{name: "one critical", critical: 1, want: 85},
		{name: "one of each", critical: 1, high: 1, medium: 1, low: 1, want: 73},
		{name: "floored at zero", critical: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jsonoutput.Score(tt.critical, tt.high, tt.medium, tt.low)
			assert.Equal(t, tt.want, got)
		})
	}
}
