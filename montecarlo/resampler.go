// Package montecarlo は各クラスの経験平均と相関行列から多変量正規分布を構成し、
// 合成サンプルを生成するモンテカルロ・リサンプラーを提供する
package montecarlo

import (
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pulsar/core/model"
	"github.com/YuminosukeSato/pulsar/dataset"
	"github.com/YuminosukeSato/pulsar/pkg/errors"
	"github.com/YuminosukeSato/pulsar/pkg/log"
)

// DefaultSeed は乱数シードの既定値
const DefaultSeed uint64 = 27

// shuffleStream は既定のシャッフル用PCGの第2シード
const shuffleStream uint64 = 0x9e3779b97f4a7c15

// Resampler はラベル0と1の2クラスそれぞれに多変量正規分布を当てはめ、
// そこから合成データを生成する
//
// クラスの分割は常に0と1の2つに固定される。
// 各クラスのサンプリングは同じシードから始まる独立した乱数源を使う。
type Resampler struct {
	state *model.StateManager

	seed       uint64
	shuffleSrc rand.Source
	logger     log.Logger

	classes [len(dataset.Classes)]*ClassModel
}

// Option はResamplerの設定オプション
type Option func(*Resampler)

// WithSeed はサンプリングの乱数シードを設定する
func WithSeed(seed uint64) Option {
	return func(r *Resampler) {
		r.seed = seed
	}
}

// WithShuffleSource は行のシャッフルに使う乱数源を設定する
// 指定しない場合はシードから導出したPCGを Sample のたびに作り直す
// 指定した乱数源の状態は Sample の呼び出しをまたいで進む
func WithShuffleSource(src rand.Source) Option {
	return func(r *Resampler) {
		r.shuffleSrc = src
	}
}

// WithLogger はロガーを設定する
func WithLogger(logger log.Logger) Option {
	return func(r *Resampler) {
		r.logger = logger
	}
}

// NewResampler は新しいResamplerを作成する
//
// 使用例:
//
//	r := montecarlo.NewResampler(montecarlo.WithSeed(27))
//	if err := r.Fit(ds.UnscaledFeatures(), ds.LabelVector()); err != nil {
//	    return err
//	}
//	synthetic, err := r.Sample(1000)
func NewResampler(opts ...Option) *Resampler {
	r := &Resampler{
		state: model.NewStateManager("Resampler"),
		seed:  DefaultSeed,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.GetLogger()
	}
	r.logger = r.logger.With(log.ComponentKey, "montecarlo", log.ModelNameKey, "Resampler")
	return r
}

// Seed は設定されているシードを返す
func (r *Resampler) Seed() uint64 {
	return r.seed
}

// Fit は未スケーリングの特徴量 X（n×特徴量数）とラベル y（n×1、値は0か1）から
// クラスごとの平均ベクトルと相関行列を推定する
//
// どちらかのクラスの行が2未満、または相関行列が半正定値でない場合は
// クラス番号を含む SingularDispersionError を返し、モデルは未学習のままになる
func (r *Resampler) Fit(X, y mat.Matrix) error {
	r.state.Reset()

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("Resampler.Fit", "empty data", errors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yRows != rows {
		return errors.NewDimensionError("Resampler.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("Resampler.Fit", 1, yCols, 1)
	}

	parts, err := partition(X, y)
	if err != nil {
		return err
	}

	var fitted [len(dataset.Classes)]*ClassModel
	errs := make([]error, len(dataset.Classes))
	var g errgroup.Group
	for i, class := range dataset.Classes {
		g.Go(func() error {
			fitted[i], errs[i] = fitClassModel(class, parts[i])
			return errs[i]
		})
	}
	if g.Wait() != nil {
		err := firstError(errs)
		r.logFailure("Resampler fit failed", err, log.OperationFit)
		return err
	}

	r.classes = fitted
	r.state.SetFitted(cols, rows)

	counts := make(map[int]int, len(fitted))
	for _, m := range fitted {
		counts[m.Class] = m.NSamples
	}
	r.logger.Info("Resampler fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassCountsKey, counts,
	)
	return nil
}

// Sample はクラスごとに n 行ずつ生成し、結合してシャッフルした合成データを返す
//
// 同じ学習データ・n・シードに対しては、行の値も順序も毎回同じになる
// (WithShuffleSource を指定した場合、順序はその乱数源に従う)
func (r *Resampler) Sample(n int) (*SyntheticDataset, error) {
	if err := r.state.RequireFitted("Sample"); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, errors.NewValidationError("n", "sample size per class must be at least 1", n)
	}
	start := time.Now()
	nFeatures, _ := r.state.GetDimensions()

	draws := make([]*mat.Dense, len(r.classes))
	errs := make([]error, len(r.classes))
	var g errgroup.Group
	for i, m := range r.classes {
		g.Go(func() error {
			// 各クラスは同じシードから始まる専用の乱数源を持つ
			draws[i], errs[i] = m.draw(n, rand.NewPCG(r.seed, 0))
			if errs[i] == nil {
				errs[i] = errors.CheckMatrix("Resampler.Sample", draws[i], n, nFeatures)
			}
			return errs[i]
		})
	}
	if g.Wait() != nil {
		err := firstError(errs)
		r.logFailure("Sampling failed", err, log.OperationSample)
		return nil, err
	}

	synthetic := r.assemble(draws, n)

	r.logger.Info("Synthetic dataset generated",
		log.OperationKey, log.OperationSample,
		log.SamplesPerClassKey, n,
		log.SamplesKey, synthetic.Len(),
		log.RandomSeedKey, r.seed,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return synthetic, nil
}

// ClassModels は学習済みのクラスモデルのコピーをクラス順に返す
func (r *Resampler) ClassModels() ([]ClassModel, error) {
	if err := r.state.RequireFitted("ClassModels"); err != nil {
		return nil, err
	}
	out := make([]ClassModel, len(r.classes))
	for i, m := range r.classes {
		out[i] = m.clone()
	}
	return out, nil
}

// assemble はクラス0、クラス1の順に行を連結してからシャッフルする
func (r *Resampler) assemble(draws []*mat.Dense, n int) *SyntheticDataset {
	total := n * len(draws)
	_, cols := draws[0].Dims()

	order := make([]int, total)
	for i := range order {
		order[i] = i
	}
	src := r.shuffleSrc
	if src == nil {
		src = rand.NewPCG(r.seed, shuffleStream)
	}
	rand.New(src).Shuffle(total, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	features := mat.NewDense(total, cols, nil)
	labels := make([]int, total)
	for dst, idx := range order {
		class := idx / n
		features.SetRow(dst, draws[class].RawRowView(idx%n))
		labels[dst] = r.classes[class].Class
	}
	return &SyntheticDataset{features: features, labels: labels}
}

func (r *Resampler) logFailure(msg string, err error, op string) {
	fields := []any{err, log.OperationKey, op}
	var dispErr *errors.SingularDispersionError
	if errors.As(err, &dispErr) {
		fields = append(fields, log.ClassKey, dispErr.Class, log.ErrorCodeKey, log.ErrorSingularDispersion)
	}
	r.logger.Error(msg, fields...)
}

// partition は行をラベル0と1に分ける。空のクラスは nil になる
func partition(X, y mat.Matrix) ([]*mat.Dense, error) {
	rows, cols := X.Dims()
	var idx [len(dataset.Classes)][]int
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		found := false
		for c, class := range dataset.Classes {
			if v == float64(class) {
				idx[c] = append(idx[c], i)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.NewValidationError("y", "labels must be 0 or 1", v)
		}
	}

	parts := make([]*mat.Dense, len(dataset.Classes))
	for c, members := range idx {
		if len(members) == 0 {
			continue
		}
		part := mat.NewDense(len(members), cols, nil)
		for k, i := range members {
			for j := 0; j < cols; j++ {
				part.Set(k, j, X.At(i, j))
			}
		}
		parts[c] = part
	}
	return parts, nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Generate はデータセットの未スケーリング特徴量とラベルで Resampler を学習し、
// クラスごとに n 行の合成データを生成する
func Generate(ds *dataset.Dataset, n int, seed uint64, opts ...Option) (*SyntheticDataset, error) {
	if ds == nil {
		return nil, errors.NewValidationError("dataset", "must not be nil", nil)
	}
	r := NewResampler(append(opts, WithSeed(seed))...)
	if err := r.Fit(ds.UnscaledFeatures(), ds.LabelVector()); err != nil {
		return nil, errors.Wrapf(err, "generate from dataset %s", ds.ID())
	}
	return r.Sample(n)
}

var _ model.Fitter = (*Resampler)(nil)
