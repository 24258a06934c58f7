package stats

import (
	"errors"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"single", []float64{7}, 7},
		{"odd", []float64{3, 1, 2}, 2},
		{"even interpolates", []float64{4, 1, 3, 2}, 2.5},
		{"uneven gap", []float64{10, 0}, 5},
		{"duplicates", []float64{1, 1, 1, 9}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Median(tt.xs)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Median() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	xs := []float64{3, 1, 2}
	if _, err := Median(xs); err != nil {
		t.Fatal(err)
	}
	if xs[0] != 3 || xs[1] != 1 || xs[2] != 2 {
		t.Errorf("input reordered: %v", xs)
	}
}

func TestQuantile(t *testing.T) {
	xs := []float64{0, 10, 20, 30, 40}
	for p, want := range map[float64]float64{0: 0, 0.25: 10, 0.5: 20, 1: 40} {
		got, err := Quantile(xs, p)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Quantile(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestEmpty(t *testing.T) {
	for name, fn := range map[string]func([]float64) (float64, error){
		"median": Median,
		"mean":   Mean,
		"min":    Min,
		"max":    Max,
	} {
		if _, err := fn(nil); !errors.Is(err, ErrEmpty) {
			t.Errorf("%s(nil) error = %v, want ErrEmpty", name, err)
		}
	}
}

func TestMinMaxMean(t *testing.T) {
	xs := []float64{50, 950, 500}
	if v, _ := Min(xs); v != 50 {
		t.Errorf("Min() = %v", v)
	}
	if v, _ := Max(xs); v != 950 {
		t.Errorf("Max() = %v", v)
	}
	if v, _ := Mean(xs); v != 500 {
		t.Errorf("Mean() = %v", v)
	}
}
