// Package preprocessing は特徴量のスケーリングを提供する
package preprocessing

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pulsar/core/model"
	"github.com/YuminosukeSato/pulsar/core/parallel"
	"github.com/YuminosukeSato/pulsar/pkg/errors"
)

// constantRangeTol 未満の範囲を持つ列は定数列として扱う（float64 の機械イプシロンの10倍）
const constantRangeTol = 10 * 2.220446049250313e-16

// parallelFitThreshold を超える要素数の行列は列ごとに並列でFitする
const parallelFitThreshold = 1 << 16

// MinMaxScaler はscikit-learn互換のMin-Maxスケーラー
// データを指定した範囲（デフォルト[0,1]）にスケーリングする
//
// 定数列（max - min が機械イプシロンの10倍未満）のスケールは1として扱うため、
// その列の変換後の値はすべて FeatureRange[0] になる。
// このとき ConstantFeatureWarning が errors.Warn に送られる。
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin は学習データの各列の最小値
	DataMin []float64

	// DataMax は学習データの各列の最大値
	DataMax []float64

	// Scale は各列のスケール (max - min、定数列では1)
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64

	// FeatureNames は警告メッセージに使う列名（省略可）
	FeatureNames []string
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewMinMaxScaler([2]float64{0.0, 1.0})
//	XScaled, err := scaler.FitTransform(X)
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault はデフォルト設定([0,1]範囲)でMinMaxScalerを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// WithFeatureNames は列名を設定してスケーラー自身を返す
func (m *MinMaxScaler) WithFeatureNames(names []string) *MinMaxScaler {
	m.FeatureNames = append([]string(nil), names...)
	return m
}

// Fit は訓練データから各列の最小値・最大値を計算する
// 失敗した場合は未学習状態に戻る
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	m.Reset()
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if m.FeatureRange[0] >= m.FeatureRange[1] {
		return errors.NewValidationError("feature_range", "minimum must be smaller than maximum", m.FeatureRange)
	}

	m.NFeatures = c
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)
	constant := make([]bool, c)

	// 各列は独立しているので列単位で分割できる
	parallel.ParallelizeWithThreshold(c, r*c, parallelFitThreshold, func(start, end int) {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			mat.Col(col, j, X)
			// r > 0 なので stats.Min/Max はエラーを返さない
			lo, _ := stats.Min(col)
			hi, _ := stats.Max(col)
			m.DataMin[j] = lo
			m.DataMax[j] = hi

			if math.Abs(hi-lo) < constantRangeTol {
				m.Scale[j] = 1.0
				constant[j] = true
			} else {
				m.Scale[j] = hi - lo
			}
		}
	})

	for j := 0; j < c; j++ {
		if constant[j] {
			errors.Warn(errors.NewConstantFeatureWarning(m.featureName(j), j, m.DataMin[j]))
		}
	}

	m.SetFitted()
	return nil
}

// Transform は学習済みの最小値・最大値を使ってデータをスケーリングする
//
//	X_scaled = (X - X.min) / (X.max - X.min) * (max - min) + min
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			scaled := (X.At(i, j)-m.DataMin[j])/m.Scale[j]*featureRange + m.FeatureRange[0]
			result.Set(i, j, scaled)
		}
	}

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元の範囲に戻す
// 定数列は元の定数値に戻る
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			original := ((X.At(i, j)-m.FeatureRange[0])/featureRange)*m.Scale[j] + m.DataMin[j]
			result.Set(i, j, original)
		}
	}

	return result, nil
}

// GetParams はスケーラーのパラメータを取得する
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}

func (m *MinMaxScaler) featureName(j int) string {
	if j < len(m.FeatureNames) {
		return m.FeatureNames[j]
	}
	return ""
}

var (
	_ model.Transformer     = (*MinMaxScaler)(nil)
	_ model.ParameterGetter = (*MinMaxScaler)(nil)
)
