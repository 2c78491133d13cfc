package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pulsar/metrics"
	"github.com/YuminosukeSato/pulsar/pkg/log"
)

// Dataset is an immutable, fully validated table of records together with
// its raw and min-max scaled feature matrices. Accessors return copies.
type Dataset struct {
	id     string
	source string

	records  []Record
	unscaled *mat.Dense
	scaled   *mat.Dense
	labels   []int

	baseline    float64
	hasBaseline bool

	dataMin []float64
	dataMax []float64

	logger log.Logger
}

// ID returns the instance identifier attached to log records.
func (d *Dataset) ID() string { return d.id }

// Source returns the path (or "reader") the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the records in file order.
func (d *Dataset) Records() []Record {
	return append([]Record(nil), d.records...)
}

// UnscaledFeatures returns the raw n×8 feature matrix, row-aligned with Labels.
func (d *Dataset) UnscaledFeatures() *mat.Dense {
	return mat.DenseCopyOf(d.unscaled)
}

// ScaledFeatures returns the features scaled to [0, 1] per column using this
// dataset's own minimum and maximum. Constant columns are all 0.
func (d *Dataset) ScaledFeatures() *mat.Dense {
	return mat.DenseCopyOf(d.scaled)
}

// Labels returns the class labels.
func (d *Dataset) Labels() []int {
	return append([]int(nil), d.labels...)
}

// LabelVector returns the labels as an n×1 matrix for model.Fitter inputs.
func (d *Dataset) LabelVector() *mat.VecDense {
	v := mat.NewVecDense(len(d.labels), nil)
	for i, y := range d.labels {
		v.SetVec(i, float64(y))
	}
	return v
}

// Baseline returns the share of label-0 records. ok is false unless the
// dataset holds exactly two distinct labels.
func (d *Dataset) Baseline() (baseline float64, ok bool) {
	return d.baseline, d.hasBaseline
}

// ClassCounts returns the number of records per label.
func (d *Dataset) ClassCounts() map[int]int {
	return metrics.ClassCounts(d.labels)
}

// FeatureRange returns the per-column minimum and maximum used for scaling.
func (d *Dataset) FeatureRange() (min, max []float64) {
	return append([]float64(nil), d.dataMin...), append([]float64(nil), d.dataMax...)
}

// Frame returns the raw table with the 9 schema column names.
func (d *Dataset) Frame() dataframe.DataFrame {
	return NewFrame(d.unscaled, d.labels)
}

// FeatureFrame returns the feature columns only, raw or scaled.
func (d *Dataset) FeatureFrame(scaled bool) dataframe.DataFrame {
	m := d.unscaled
	if scaled {
		m = d.scaled
	}
	return dataframe.New(featureSeries(m)...)
}

// NewFrame builds a DataFrame in the dataset schema from a feature matrix
// and the row-aligned labels.
func NewFrame(features mat.Matrix, labels []int) dataframe.DataFrame {
	cols := featureSeries(features)
	cols = append(cols, series.New(append([]int(nil), labels...), series.Int, ClassColumn))
	return dataframe.New(cols...)
}

func featureSeries(m mat.Matrix) []series.Series {
	_, c := m.Dims()
	cols := make([]series.Series, 0, c)
	for j := 0; j < c; j++ {
		name := ""
		if j < NumFeatures {
			name = FeatureNames[j]
		}
		cols = append(cols, series.New(mat.Col(nil, j, m), series.Float, name))
	}
	return cols
}
