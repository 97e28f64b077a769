package currency

import (
	"math"
	"testing"
)

func TestToSecondaryFromPrimary(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		rate  float64
		want  float64
	}{
		{"simple", 15000, 0.75, 20000},
		{"rounds to cents", 10, 0.64, 15.63},
		{"zero value", 0, 0.64, 0},
		{"zero rate", 100, 0, 0},
		{"negative rate", 100, -1, 0},
		{"nan value", math.NaN(), 0.64, 0},
		{"inf rate", 100, math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToSecondaryFromPrimary(tt.value, tt.rate)
			if got != tt.want {
				t.Errorf("ToSecondaryFromPrimary(%v, %v) = %v, want %v", tt.value, tt.rate, got, tt.want)
			}
		})
	}
}

func TestToPrimaryFromSecondary(t *testing.T) {
	if got := ToPrimaryFromSecondary(200, 0.75); got != 150 {
		t.Fatalf("ToPrimaryFromSecondary(200, 0.75) = %v, want 150", got)
	}
	// No rounding on this direction.
	if got := ToPrimaryFromSecondary(1.111, 0.333); math.Abs(got-0.369963) > 1e-12 {
		t.Fatalf("ToPrimaryFromSecondary(1.111, 0.333) = %v, want 0.369963", got)
	}
}

func TestRoundTripWithinOneCent(t *testing.T) {
	rates := []float64{0.5, 0.64, 0.66, 0.75, 1, 1.37, 1.99}
	values := []float64{0, 0.01, 1.234567, 99.995, 1234.5678, 20480, 987654.321}

	for _, rate := range rates {
		for _, usd := range values {
			back := ToPrimaryFromSecondary(ToSecondaryFromPrimary(usd, rate), rate)
			if diff := math.Abs(back - usd); diff > 0.01 {
				t.Errorf("round trip usd=%v rate=%v drifted by %v", usd, rate, diff)
			}
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   float64
	}{
		{1.005, 2, 1.01},
		{2.5, 0, 3},
		{0.0000014, 6, 0.000001},
		{0.0000015, 6, 0.000002},
		{123.456789123, 6, 123.456789},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
	if got := Round(math.Inf(1), 2); !math.IsInf(got, 1) {
		t.Errorf("Round(+Inf) = %v, want +Inf", got)
	}
}

func TestPair(t *testing.T) {
	p := Pair(20480, 0.64)
	if p.USD != 20480 || p.AUD != 32000 {
		t.Fatalf("Pair(20480, 0.64) = %+v, want {USD:20480 AUD:32000}", p)
	}
}
