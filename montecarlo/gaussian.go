package montecarlo

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/pulsar/pkg/errors"
)

// psdTol 相関行列の最小固有値がこれより小さければ半正定値ではないとみなす
const psdTol = 1e-10

// ClassModel は1クラス分の多変量正規モデル
//
// 分散パラメータには共分散行列ではなく相関行列を用いる。
// そのため生成される特徴量の分散は元データではなく1に揃う。
type ClassModel struct {
	// Class はこのモデルが生成する行に付与するラベル
	Class int
	// NSamples は学習に使った行数
	NSamples int
	// Mean は列ごとの経験平均
	Mean []float64
	// Correlation は経験相関行列
	Correlation *mat.SymDense
	// Singular は相関行列が半正定値だが正則ではないことを示す
	Singular bool

	// factor は Singular のときの Q·sqrt(Λ)
	factor *mat.Dense
}

// fitClassModel はクラス class に属する行 x から平均と相関行列を推定する
func fitClassModel(class int, x *mat.Dense) (*ClassModel, error) {
	if x == nil {
		return nil, errors.NewSingularDispersionError(class, "partition is empty")
	}
	r, c := x.Dims()
	if r < 2 {
		return nil, errors.NewSingularDispersionError(class,
			fmt.Sprintf("partition has %d row, at least 2 are required", r))
	}

	m := &ClassModel{
		Class:    class,
		NSamples: r,
		Mean:     make([]float64, c),
	}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		m.Mean[j] = stat.Mean(col, nil)
	}
	if err := errors.CheckNumericalStability("class mean", m.Mean, 0); err != nil {
		return nil, err
	}

	corr, err := correlation(x)
	if err != nil {
		return nil, errors.NewSingularDispersionError(class, err.Error())
	}
	m.Correlation = corr

	if err := m.prepareDispersion(); err != nil {
		return nil, err
	}
	return m, nil
}

// correlation は列ごとの相関行列を返す
// 分散0の列は対角1・非対角0として扱う
func correlation(x *mat.Dense) (*mat.SymDense, error) {
	r, c := x.Dims()
	corr := mat.NewSymDense(c, nil)
	err := errors.SafeExecute("stat.CorrelationMatrix", func() error {
		stat.CorrelationMatrix(corr, x, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		if floats.Max(col) != floats.Min(col) {
			continue
		}
		for k := 0; k < c; k++ {
			corr.SetSym(j, k, 0)
		}
		corr.SetSym(j, j, 1)
	}

	if err := errors.CheckMatrix("correlation", corr, c, c); err != nil {
		return nil, err
	}
	return corr, nil
}

// prepareDispersion は相関行列が正定値か、半正定値かを判定する
// 半正定値で特異な場合はサンプリング用に固有分解の因子を保持する
func (m *ClassModel) prepareDispersion() error {
	var chol mat.Cholesky
	if chol.Factorize(m.Correlation) {
		return nil
	}

	var eig mat.EigenSym
	var ok bool
	err := errors.SafeExecute("mat.EigenSym", func() error {
		ok = eig.Factorize(m.Correlation, true)
		return nil
	})
	if err != nil || !ok {
		return errors.NewSingularDispersionError(m.Class, "eigen decomposition of the correlation matrix failed")
	}

	values := eig.Values(nil)
	if minEig := floats.Min(values); minEig < -psdTol {
		return errors.NewSingularDispersionError(m.Class,
			fmt.Sprintf("correlation matrix is not positive semi-definite (smallest eigenvalue %.3g)", minEig))
	}

	n := len(values)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)
	m.factor = mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.factor.Set(i, j, vectors.At(i, j)*math.Sqrt(math.Max(values[j], 0)))
		}
	}
	m.Singular = true
	return nil
}

// draw はモデルから n 行を生成する。同じ src の状態からは同じ行が得られる
func (m *ClassModel) draw(n int, src rand.Source) (*mat.Dense, error) {
	c := len(m.Mean)
	out := mat.NewDense(n, c, nil)

	if !m.Singular {
		normal, ok := distmv.NewNormal(m.Mean, m.Correlation, src)
		if !ok {
			return nil, errors.NewSingularDispersionError(m.Class, "correlation matrix is not positive definite")
		}
		for i := 0; i < n; i++ {
			normal.Rand(out.RawRowView(i))
		}
		return out, nil
	}

	std := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	z := mat.NewVecDense(c, nil)
	row := mat.NewVecDense(c, nil)
	mean := mat.NewVecDense(c, m.Mean)
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			z.SetVec(j, std.Rand())
		}
		row.MulVec(m.factor, z)
		row.AddVec(row, mean)
		out.SetRow(i, row.RawVector().Data)
	}
	return out, nil
}

func (m *ClassModel) clone() ClassModel {
	cp := *m
	cp.Mean = append([]float64(nil), m.Mean...)
	cp.Correlation = mat.NewSymDense(m.Correlation.SymmetricDim(), nil)
	cp.Correlation.CopySym(m.Correlation)
	if m.factor != nil {
		cp.factor = mat.DenseCopyOf(m.factor)
	}
	return cp
}
