// Package stats provides the descriptive statistics the landscape analysis
// needs: moments, Pearson/Spearman correlation, ranks, argmax.
//
// Conventions follow numpy defaults: population variance (ddof=0), and NaN
// for correlations over degenerate (constant or too-short) input. Callers
// render NaN as "n/a".
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of xs, or NaN for empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the population variance of xs, or NaN for empty input.
func Variance(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

// Covariance returns the population covariance of xs and ys.
// The slices must have equal length; otherwise NaN.
func Covariance(xs, ys []float64) float64 {
	if len(xs) == 0 || len(xs) != len(ys) {
		return math.NaN()
	}
	mx, my := Mean(xs), Mean(ys)
	sum := 0.0
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(len(xs))
}

// Pearson returns the Pearson correlation coefficient of xs and ys.
// NaN when either series is constant or the lengths differ.
func Pearson(xs, ys []float64) float64 {
	cov := Covariance(xs, ys)
	vx, vy := Variance(xs), Variance(ys)
	if vx == 0 || vy == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(vx*vy)
}

// Ranks returns 1-based ranks of xs with ties assigned their average rank
// (fractional ranking, as scipy.stats.rankdata does).
func Ranks(xs []float64) []float64 {
	n := len(xs)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		// positions i..j share the value; average rank is the mean of
		// ranks i+1..j+1
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// Spearman returns the Spearman rank correlation: Pearson over fractional
// ranks. NaN on degenerate input.
func Spearman(xs, ys []float64) float64 {
	if len(xs) == 0 || len(xs) != len(ys) {
		return math.NaN()
	}
	return Pearson(Ranks(xs), Ranks(ys))
}

// ArgMax returns the index of the largest value, or -1 for empty input.
// Ties resolve to the first occurrence.
func ArgMax(xs []float64) int {
	if len(xs) == 0 {
		return -1
	}
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}
