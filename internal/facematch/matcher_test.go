package facematch

import (
	"math"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/facecodec"
)

// at returns a 2-d encoding at distance d from the origin along the x axis.
func at(d float64) facecodec.Encoding {
	return facecodec.Encoding{d, 0}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     facecodec.Encoding
		expected float64
	}{
		{"identical", facecodec.Encoding{1, 2, 3}, facecodec.Encoding{1, 2, 3}, 0},
		{"3-4-5", facecodec.Encoding{0, 0}, facecodec.Encoding{3, 4}, 5},
		{"dimension mismatch", facecodec.Encoding{1}, facecodec.Encoding{1, 2}, math.Inf(1)},
		{"empty", nil, nil, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.IsInf(tt.expected, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("Distance = %v, want +Inf", got)
				}
				return
			}
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Distance = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIdentify(t *testing.T) {
	query := at(0)

	tests := []struct {
		name         string
		roster       Roster
		expectedName string
		expectedID   int64
	}{
		{
			name: "one within tolerance",
			roster: Roster{
				{UserID: 1, Name: "Alice", Encoding: at(0.4)},
				{UserID: 2, Name: "Bob", Encoding: at(0.95)},
			},
			expectedName: "Alice",
			expectedID:   1,
		},
		{
			name: "both beyond tolerance",
			roster: Roster{
				{UserID: 1, Name: "Alice", Encoding: at(0.91)},
				{UserID: 2, Name: "Bob", Encoding: at(0.95)},
			},
			expectedName: UnknownName,
		},
		{
			name: "exactly at tolerance is rejected",
			roster: Roster{
				{UserID: 1, Name: "Alice", Encoding: at(0.9)},
			},
			expectedName: UnknownName,
		},
		{
			name: "nearest wins regardless of order",
			roster: Roster{
				{UserID: 1, Name: "Alice", Encoding: at(0.6)},
				{UserID: 2, Name: "Bob", Encoding: at(0.2)},
				{UserID: 3, Name: "Carol", Encoding: at(0.5)},
			},
			expectedName: "Bob",
			expectedID:   2,
		},
		{
			name: "tie keeps first seen",
			roster: Roster{
				{UserID: 1, Name: "Alice", Encoding: at(0.3)},
				{UserID: 2, Name: "Bob", Encoding: facecodec.Encoding{0, 0.3}},
			},
			expectedName: "Alice",
			expectedID:   1,
		},
		{
			name: "mismatched dimension never matches",
			roster: Roster{
				{UserID: 1, Name: "Alice", Encoding: facecodec.Encoding{0, 0, 0}},
			},
			expectedName: UnknownName,
		},
		{
			name:         "empty roster",
			roster:       nil,
			expectedName: UnknownName,
		},
	}

	m := NewMatcher(0.9)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Identify(query, tt.roster)
			if got.Name != tt.expectedName {
				t.Errorf("Identify name = %q, want %q", got.Name, tt.expectedName)
			}
			if got.UserID != tt.expectedID {
				t.Errorf("Identify user id = %d, want %d", got.UserID, tt.expectedID)
			}
			if got.Known() != (tt.expectedName != UnknownName) {
				t.Errorf("Known() = %v for %q", got.Known(), got.Name)
			}
		})
	}
}

func TestIdentify_ReportsDistance(t *testing.T) {
	m := NewMatcher(1)
	got := m.Identify(facecodec.Encoding{0, 0}, Roster{{UserID: 7, Name: "Dana", Encoding: facecodec.Encoding{0.3, 0.4}}})
	if math.Abs(got.Distance-0.5) > 1e-12 {
		t.Errorf("Distance = %v, want 0.5", got.Distance)
	}
}

func TestNewMatcher_DefaultTolerance(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, DefaultTolerance},
		{-1, DefaultTolerance},
		{math.NaN(), DefaultTolerance},
		{0.6, 0.6},
	}

	for _, tt := range tests {
		if got := NewMatcher(tt.input).Tolerance(); got != tt.expected {
			t.Errorf("NewMatcher(%v).Tolerance() = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
