package model

import "gonum.org/v1/gonum/mat"

// Fitter はラベル付きデータから学習するモデルのインターフェース
type Fitter interface {
	// Fit は特徴量行列 X とラベル列 y からパラメータを推定する
	Fit(X, y mat.Matrix) error
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter はハイパーパラメータを公開するモデルのインターフェース
type ParameterGetter interface {
	GetParams() map[string]interface{}
}
