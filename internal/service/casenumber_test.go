package service

import (
	"testing"
	"time"
)

func TestNextCaseNumber(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		year     int
		expected string
	}{
		{name: "first case of the year", count: 0, year: 2024, expected: "PV-2024-001"},
		{name: "fifth case", count: 4, year: 2024, expected: "PV-2024-005"},
		{name: "sequence crosses padding width", count: 999, year: 2025, expected: "PV-2025-1000"},
		{name: "negative count treated as zero", count: -1, year: 2026, expected: "PV-2026-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(tt.year, time.March, 15, 10, 0, 0, 0, time.UTC)
			got := NextCaseNumber(tt.count, now)
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
