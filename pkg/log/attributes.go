package log

// Operation context.
const (
	// ComponentKey identifies the package emitting the record.
	// Examples: "dataset", "preprocessing", "montecarlo"
	ComponentKey = "ml.component"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ModelNameKey identifies the estimator type, e.g. "MinMaxScaler".
	ModelNameKey = "model.name"

	// DatasetIDKey carries the per-instance uuid of a loaded dataset.
	DatasetIDKey = "dataset.id"

	// SourceKey names the file or reader a dataset was loaded from.
	SourceKey = "dataset.source"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"

	// ClassKey is the class partition (0 or 1) a record refers to.
	ClassKey = "data.class"

	// ClassCountsKey holds a map of label to row count.
	ClassCountsKey = "data.class_counts"

	// BaselineKey records the share of label-0 rows.
	BaselineKey = "metrics.baseline"
)

// Performance and configuration.
const (
	DurationMsKey = "perf.duration_ms"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// SamplesPerClassKey records the number of synthetic rows drawn per class.
	SamplesPerClassKey = "config.samples_per_class"
)

// Error context.
const (
	ErrorCodeKey = "error.code"
)

// Standard attribute values.
const (
	OperationLoad     = "load"
	OperationFit      = "fit"
	OperationSample   = "sample"
	OperationDescribe = "describe"

	ErrorSchema             = "SCHEMA_VIOLATION"
	ErrorEmptyData          = "EMPTY_DATA"
	ErrorSingularDispersion = "SINGULAR_DISPERSION"
)
