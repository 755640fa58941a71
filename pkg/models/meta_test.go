package models

import (
	"math"
	"testing"
)

func TestPowerIndex(t *testing.T) {
	tests := []struct {
		name     string
		wins     int
		losses   int
		expected float64
	}{
		{
			name:     "Positive record",
			wins:     9,
			losses:   0,
			expected: 3.0, // 9 / sqrt(9)
		},
		{
			name:     "Even record",
			wins:     5,
			losses:   5,
			expected: 0,
		},
		{
			name:     "Losing record",
			wins:     0,
			losses:   4,
			expected: -2.0,
		},
		{
			name:     "No games",
			wins:     0,
			losses:   0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PowerIndex(tt.wins, tt.losses)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("PowerIndex(%d, %d) = %v, want %v", tt.wins, tt.losses, got, tt.expected)
			}
		})
	}
}

func TestWinRate(t *testing.T) {
	tests := []struct {
		name                string
		wins, losses, ties  int
		expected            float64
	}{
		{
			name: "All wins",
			wins: 10, losses: 0, ties: 0,
			expected: 100,
		},
		{
			name: "Ties count as half",
			wins: 4, losses: 4, ties: 2,
			expected: 50,
		},
		{
			name: "No games",
			wins: 0, losses: 0, ties: 0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WinRate(tt.wins, tt.losses, tt.ties)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("WinRate(%d, %d, %d) = %v, want %v", tt.wins, tt.losses, tt.ties, got, tt.expected)
			}
		})
	}
}
