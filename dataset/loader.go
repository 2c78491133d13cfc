// Package dataset loads pulsar candidate tables, separates labels from
// features, min-max scales the features and computes the class baseline.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pulsar/metrics"
	"github.com/YuminosukeSato/pulsar/pkg/errors"
	"github.com/YuminosukeSato/pulsar/pkg/log"
	"github.com/YuminosukeSato/pulsar/preprocessing"
)

// DefaultExtension is appended to names passed to Load that carry none.
const DefaultExtension = ".csv"

// Loader reads datasets relative to a base directory.
// The process working directory is never changed.
type Loader struct {
	basePath string
	comma    rune
	logger   log.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithComma sets the field delimiter (default ',').
func WithComma(r rune) LoaderOption {
	return func(l *Loader) {
		l.comma = r
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger log.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader resolving relative names against basePath.
// An empty basePath resolves against the working directory.
func NewLoader(basePath string, opts ...LoaderOption) *Loader {
	l := &Loader{
		basePath: basePath,
		comma:    ',',
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.GetLogger()
	}
	l.logger = l.logger.With(log.ComponentKey, "dataset")
	return l
}

// Path returns the file Load would read for name: ".csv" is appended when
// name has no extension, and relative names are joined to the base path.
func (l *Loader) Path(name string) string {
	if filepath.Ext(name) == "" {
		name += DefaultExtension
	}
	if filepath.IsAbs(name) || l.basePath == "" {
		return name
	}
	return filepath.Join(l.basePath, name)
}

// Load reads and validates the named file.
func (l *Loader) Load(name string) (*Dataset, error) {
	path := l.Path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	return l.load(f, path)
}

// LoadReader reads and validates a dataset from r.
func (l *Loader) LoadReader(r io.Reader) (*Dataset, error) {
	return l.load(r, "reader")
}

func (l *Loader) load(r io.Reader, source string) (*Dataset, error) {
	start := time.Now()
	logger := l.logger.With(log.SourceKey, source)

	rows, lines, err := l.readRows(r)
	if err != nil {
		fields := []any{err, log.OperationKey, log.OperationLoad}
		var schemaErr *errors.SchemaError
		switch {
		case errors.Is(err, errors.ErrEmptyData):
			fields = append(fields, log.ErrorCodeKey, log.ErrorEmptyData)
		case errors.As(err, &schemaErr):
			fields = append(fields, log.ErrorCodeKey, log.ErrorSchema)
		}
		logger.Error("Dataset rejected", fields...)
		return nil, err
	}

	records, err := parseRecords(rows, lines)
	if err != nil {
		logger.Error("Dataset rejected", err,
			log.OperationKey, log.OperationLoad,
			log.ErrorCodeKey, log.ErrorSchema,
		)
		return nil, err
	}

	ds, err := build(records, source, logger)
	if err != nil {
		return nil, err
	}

	fields := []any{
		log.OperationKey, log.OperationLoad,
		log.DatasetIDKey, ds.id,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, NumFeatures,
		log.ClassCountsKey, ds.ClassCounts(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if b, ok := ds.Baseline(); ok {
		fields = append(fields, log.BaselineKey, b)
	} else {
		logger.Debug("Baseline undefined: label column does not hold exactly two classes",
			log.DatasetIDKey, ds.id)
	}
	logger.Info("Dataset loaded", fields...)

	return ds, nil
}

// readRows reads every row and checks the column count before any value is
// parsed, so a malformed file never yields partial arrays.
func (l *Loader) readRows(r io.Reader) (rows [][]string, lines []int, err error) {
	reader := csv.NewReader(r)
	reader.Comma = l.comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.NewModelError("Loader.Load", "malformed delimited input", err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(row) != NumColumns {
			return nil, nil, errors.NewSchemaError("Loader.Load", line, NumColumns, len(row))
		}
		rows = append(rows, row)
		lines = append(lines, line)
	}

	if len(rows) == 0 {
		return nil, nil, errors.NewModelError("Loader.Load", "no rows", errors.ErrEmptyData)
	}
	return rows, lines, nil
}

func parseRecords(rows [][]string, lines []int) ([]Record, error) {
	records := make([]Record, len(rows))
	warnedLabel := false

	for i, row := range rows {
		rowNum := lines[i]
		for j := 0; j < NumFeatures; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
			if err != nil {
				return nil, errors.NewSchemaValueError("Loader.Load", rowNum,
					"feature "+strconv.Quote(FeatureNames[j])+" is not numeric: "+strconv.Quote(row[j]))
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.NewSchemaValueError("Loader.Load", rowNum,
					"feature "+strconv.Quote(FeatureNames[j])+" is not finite")
			}
			records[i].Features[j] = v
		}

		label, converted, err := parseLabel(row[NumFeatures])
		if err != nil {
			return nil, errors.NewSchemaValueError("Loader.Load", rowNum, err.Error())
		}
		if converted && !warnedLabel {
			errors.Warn(errors.NewDataConversionWarning("float", "int", "label column written with a fractional part of zero"))
			warnedLabel = true
		}
		records[i].Label = label
	}
	return records, nil
}

// parseLabel accepts "1" and "1.0" alike; converted reports the second form.
func parseLabel(s string) (label int, converted bool, err error) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		if !validLabel(y) {
			return 0, false, errors.Newf("label %d is not in {0, 1}", y)
		}
		return y, false, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false, errors.Newf("label %q is not a discrete integer class", s)
	}
	y := int(f)
	if !validLabel(y) {
		return 0, false, errors.Newf("label %d is not in {0, 1}", y)
	}
	return y, true, nil
}

func build(records []Record, source string, logger log.Logger) (*Dataset, error) {
	n := len(records)
	raw := mat.NewDense(n, NumFeatures, nil)
	labels := make([]int, n)
	for i, rec := range records {
		raw.SetRow(i, rec.Features[:])
		labels[i] = rec.Label
	}

	scaler := preprocessing.NewMinMaxScalerDefault().WithFeatureNames(FeatureNames[:])
	scaled, err := scaler.FitTransform(raw)
	if err != nil {
		return nil, errors.Wrap(err, "scale features")
	}

	baseline, hasBaseline, err := metrics.Baseline(labels)
	if err != nil {
		return nil, errors.Wrap(err, "compute baseline")
	}

	return &Dataset{
		id:          uuid.NewString(),
		source:      source,
		records:     records,
		unscaled:    raw,
		scaled:      mat.DenseCopyOf(scaled),
		labels:      labels,
		baseline:    baseline,
		hasBaseline: hasBaseline,
		dataMin:     scaler.DataMin,
		dataMax:     scaler.DataMax,
		logger:      logger,
	}, nil
}
