// Package pulsar loads the HTRU2 pulsar candidate table and generates
// synthetic candidates from it.
//
// The library is organized into several packages:
//
//   - dataset: CSV loading, schema validation, min-max scaled features, baseline
//   - montecarlo: per-class multivariate normal resampling
//   - preprocessing: MinMaxScaler
//   - metrics: class counts and the baseline (share of label 0)
//   - config: environment and .env configuration
//   - core/model: estimator interfaces and fitted-state tracking
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// # Quick Start
//
//	loader := dataset.NewLoader("/data")
//	ds, err := loader.Load("pulsar_data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if b, ok := ds.Baseline(); ok {
//	    fmt.Println("baseline:", b)
//	}
//
//	synthetic, err := montecarlo.Generate(ds, 1000, montecarlo.DefaultSeed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(synthetic.ClassCounts()) // map[0:1000 1:1000]
//
// # Synthetic data
//
// The resampler fits each class on the unscaled features with the class mean
// and the Pearson correlation matrix as the dispersion parameter. Generated
// columns therefore have unit variance rather than the variance of the
// observed data. Output is deterministic for a given seed.
package pulsar
