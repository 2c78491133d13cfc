package dataset

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pulsar/pkg/errors"
	"github.com/YuminosukeSato/pulsar/pkg/log"
)

// FeatureSummary holds descriptive statistics of one raw feature column.
// Std is the sample standard deviation and is NaN for a single record.
// Quartiles interpolate linearly between the closest ranks, the same rule
// pandas describe uses: position (n-1)*p in the sorted column.
type FeatureSummary struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

var summaryPercentiles = []float64{25, 50, 75}

// linearPercentile returns the percent-th percentile (0..100) by linear
// interpolation between closest ranks.
func linearPercentile(input stats.Float64Data, percent float64) (float64, error) {
	if input.Len() == 0 {
		return math.NaN(), stats.ErrEmptyInput
	}
	if percent < 0 || percent > 100 {
		return math.NaN(), stats.ErrBounds
	}
	sorted := append(stats.Float64Data(nil), input...)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * percent / 100
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[i], nil
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i]), nil
}

// Describe summarises every raw feature column.
func (d *Dataset) Describe() ([]FeatureSummary, error) {
	n, c := d.unscaled.Dims()
	out := make([]FeatureSummary, c)

	for j := 0; j < c; j++ {
		col := stats.Float64Data(mat.Col(nil, j, d.unscaled))
		desc, err := stats.DescribePercentileFunc(col, false, &summaryPercentiles, linearPercentile)
		if err != nil {
			return nil, errors.Wrapf(err, "describe %s", FeatureNames[j])
		}

		s := FeatureSummary{
			Name:  FeatureNames[j],
			Count: desc.Count,
			Mean:  desc.Mean,
			Std:   math.NaN(),
			Min:   desc.Min,
			Max:   desc.Max,
		}
		quartiles := []*float64{&s.Q25, &s.Median, &s.Q75}
		for k, p := range desc.DescriptionPercentiles {
			*quartiles[k] = p.Value
		}
		if n > 1 {
			// desc.Std is the population deviation
			if s.Std, err = stats.StandardDeviationSample(col); err != nil {
				return nil, errors.Wrapf(err, "describe %s", s.Name)
			}
		}
		out[j] = s
	}

	d.logger.Debug("Dataset described",
		log.OperationKey, log.OperationDescribe,
		log.DatasetIDKey, d.id,
	)
	return out, nil
}
