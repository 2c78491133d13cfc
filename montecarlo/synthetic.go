package montecarlo

import (
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pulsar/dataset"
	"github.com/YuminosukeSato/pulsar/metrics"
)

// SyntheticDataset は Resampler が生成した行とラベル
// 行はシャッフル済みで、特徴量の列順はデータセットのスキーマと同じ
type SyntheticDataset struct {
	features *mat.Dense
	labels   []int
}

// Len は行数を返す
func (s *SyntheticDataset) Len() int { return len(s.labels) }

// Features は特徴量行列のコピーを返す
func (s *SyntheticDataset) Features() *mat.Dense {
	return mat.DenseCopyOf(s.features)
}

// Labels はラベルのコピーを返す
func (s *SyntheticDataset) Labels() []int {
	return append([]int(nil), s.labels...)
}

// Row は i 行目をレコードとして返す
func (s *SyntheticDataset) Row(i int) dataset.Record {
	rec := dataset.Record{Label: s.labels[i]}
	copy(rec.Features[:], s.features.RawRowView(i))
	return rec
}

// Records はすべての行をレコードとして返す
func (s *SyntheticDataset) Records() []dataset.Record {
	out := make([]dataset.Record, s.Len())
	for i := range out {
		out[i] = s.Row(i)
	}
	return out
}

// ClassCounts はラベルごとの行数を返す
func (s *SyntheticDataset) ClassCounts() map[int]int {
	return metrics.ClassCounts(s.labels)
}

// Frame はデータセットと同じ9列の DataFrame を返す
func (s *SyntheticDataset) Frame() dataframe.DataFrame {
	return dataset.NewFrame(s.features, s.labels)
}
