package metrics

import (
	"testing"

	"github.com/YuminosukeSato/pulsar/pkg/errors"
)

func TestBaseline(t *testing.T) {
	tests := []struct {
		name   string
		labels []int
		want   float64
		wantOK bool
	}{
		{
			name:   "balanced",
			labels: []int{0, 1, 0, 1},
			want:   0.5,
			wantOK: true,
		},
		{
			name:   "imbalanced",
			labels: []int{0, 0, 0, 1},
			want:   0.75,
			wantOK: true,
		},
		{
			name:   "single class",
			labels: []int{1, 1, 1},
			wantOK: false,
		},
		{
			name:   "three classes",
			labels: []int{0, 1, 2},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Baseline(tt.labels)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Baseline() = %v, want %v", got, tt.want)
			}
			if ok && got+(1-got) != 1.0 {
				t.Errorf("baseline + (1 - baseline) = %v", got+(1-got))
			}
		})
	}
}

func TestBaselineEmpty(t *testing.T) {
	_, _, err := Baseline(nil)
	var valErr *errors.ValueError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValueError, got %v", err)
	}
}

func TestUniqueLabelsAndShares(t *testing.T) {
	labels := []int{1, 0, 1, 1}

	unique := UniqueLabels(labels)
	if len(unique) != 2 || unique[0] != 0 || unique[1] != 1 {
		t.Errorf("UniqueLabels() = %v", unique)
	}

	shares := ClassShares(labels)
	if shares[0] != 0.25 || shares[1] != 0.75 {
		t.Errorf("ClassShares() = %v", shares)
	}
}
