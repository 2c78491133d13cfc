// Package metrics は分類データのクラス構成とベースラインを計算する
package metrics

import (
	"sort"

	"github.com/YuminosukeSato/pulsar/pkg/errors"
)

// ClassCounts は各ラベルの出現回数を返す
func ClassCounts(labels []int) map[int]int {
	counts := make(map[int]int)
	for _, y := range labels {
		counts[y]++
	}
	return counts
}

// UniqueLabels はラベルの種類を昇順で返す
func UniqueLabels(labels []int) []int {
	counts := ClassCounts(labels)
	unique := make([]int, 0, len(counts))
	for y := range counts {
		unique = append(unique, y)
	}
	sort.Ints(unique)
	return unique
}

// Baseline はラベル0の割合（常に0と予測する分類器の正解率）を計算する
//
// ちょうど2種類のラベルが存在する場合にのみ定義され、
// それ以外では ok == false を返す（エラーではない）。
func Baseline(labels []int) (baseline float64, ok bool, err error) {
	if len(labels) == 0 {
		return 0, false, errors.NewValueError("Baseline", "empty label vector")
	}

	counts := ClassCounts(labels)
	if len(counts) != 2 {
		return 0, false, nil
	}
	return float64(counts[0]) / float64(len(labels)), true, nil
}

// ClassShares はラベルごとの割合を返す
func ClassShares(labels []int) map[int]float64 {
	shares := make(map[int]float64)
	if len(labels) == 0 {
		return shares
	}
	for y, n := range ClassCounts(labels) {
		shares[y] = float64(n) / float64(len(labels))
	}
	return shares
}
