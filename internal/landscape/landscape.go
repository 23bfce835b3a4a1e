// Package landscape computes fitness-landscape metrics over an indexed
// search space: fitness distance correlation, local maxima, neutral
// networks, random-walk autocorrelation, and attraction basins.
//
// All methods operate on the (fitness, genotype) vectors captured at
// construction and never mutate them. Randomized methods draw from a
// seeded generator owned by the Analysis, so runs are reproducible.
package landscape

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"natsfla/internal/genotype"
	"natsfla/internal/stats"
)

// Analysis holds one landscape: fitness per architecture plus the indexed
// genotype universe used for neighborhood queries.
type Analysis struct {
	fits []float64
	uni  *genotype.Universe
	rng  *rand.Rand
}

// Option configures an Analysis at construction.
type Option func(*Analysis)

// WithSeed fixes the random source for walks and autocorrelation sampling.
func WithSeed(seed int64) Option {
	return func(a *Analysis) { a.rng = rand.New(rand.NewSource(seed)) }
}

// New builds an Analysis over parallel fitness and genotype slices.
func New(fits []float64, genotypes []string, opts ...Option) (*Analysis, error) {
	if len(fits) != len(genotypes) {
		return nil, fmt.Errorf("landscape: %d fitnesses vs %d genotypes", len(fits), len(genotypes))
	}
	if len(fits) == 0 {
		return nil, fmt.Errorf("landscape: empty search space")
	}
	uni, err := genotype.NewUniverse(genotypes)
	if err != nil {
		return nil, err
	}
	a := &Analysis{
		fits: fits,
		uni:  uni,
		rng:  rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Size returns the number of architectures in the landscape.
func (a *Analysis) Size() int { return len(a.fits) }

// FDC returns the fitness distance correlation: the Pearson correlation
// between fitness and edit distance to the global maximum. Landscapes that
// guide search toward the optimum have strongly negative FDC.
func (a *Analysis) FDC() (float64, error) {
	optArch := a.uni.Arch(stats.ArgMax(a.fits))
	dists := make([]float64, a.Size())
	for i := range dists {
		d, err := genotype.EditDistance(a.uni.Arch(i), optArch)
		if err != nil {
			return 0, fmt.Errorf("landscape: distance to optimum: %w", err)
		}
		dists[i] = float64(d)
	}
	return stats.Pearson(a.fits, dists), nil
}

// LocalMaxima returns the indices whose neighborhood contains no strictly
// fitter architecture. Strictly-worse neighbors are pruned from future
// consideration, since they cannot be maxima themselves.
func (a *Analysis) LocalMaxima() []int {
	visited := make(map[int]bool, a.Size())
	var maxima []int
	for i := 0; i < a.Size(); i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		localMax := true
		for _, nbr := range a.uni.Neighbors(i) {
			if a.fits[nbr] > a.fits[i] {
				localMax = false
			} else if a.fits[nbr] < a.fits[i] {
				visited[nbr] = true
			}
		}
		if localMax {
			maxima = append(maxima, i)
		}
	}
	return maxima
}

// NeutralNet returns the sorted indices of the neutral network around
// start: the connected component of equal-fitness neighbors.
func (a *Analysis) NeutralNet(start int) []int {
	queue := []int{start}
	visited := map[int]bool{start: true}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, nbr := range a.uni.Neighbors(curr) {
			if !visited[nbr] && a.fits[nbr] == a.fits[curr] {
				visited[nbr] = true
				queue = append(queue, nbr)
			}
		}
	}
	net := make([]int, 0, len(visited))
	for i := range visited {
		net = append(net, i)
	}
	sort.Ints(net)
	return net
}

// NeutralNets returns every neutral network with at least two members.
// Each architecture belongs to at most one returned network.
func (a *Analysis) NeutralNets() [][]int {
	assigned := make(map[int]bool, a.Size())
	var nets [][]int
	for i := 0; i < a.Size(); i++ {
		if assigned[i] {
			continue
		}
		net := a.NeutralNet(i)
		for _, j := range net {
			assigned[j] = true
		}
		if len(net) > 1 {
			nets = append(nets, net)
		}
	}
	return nets
}

// PercolationIndex returns the number of distinct fitness values adjacent
// to the given neutral network.
func (a *Analysis) PercolationIndex(net []int) int {
	inNet := make(map[int]bool, len(net))
	for _, i := range net {
		inNet[i] = true
	}
	values := map[float64]bool{}
	for _, i := range net {
		for _, nbr := range a.uni.Neighbors(i) {
			if !inNet[nbr] {
				values[a.fits[nbr]] = true
			}
		}
	}
	return len(values)
}

// NetInfo describes one neutral network.
type NetInfo struct {
	Size             int
	Fitness          float64
	PercolationIndex int
	MaxEditDistance  int
	AvgEditDistance  float64
}

// NeutralNetsAnalysis returns per-network structure for every neutral
// network in the landscape: size, shared fitness, percolation index, and
// the max/mean pairwise edit distance between members.
func (a *Analysis) NeutralNetsAnalysis() ([]NetInfo, error) {
	nets := a.NeutralNets()
	infos := make([]NetInfo, 0, len(nets))
	for _, net := range nets {
		info := NetInfo{
			Size:             len(net),
			Fitness:          a.fits[net[0]],
			PercolationIndex: a.PercolationIndex(net),
		}
		var sum, count int
		for i := 0; i < len(net); i++ {
			for j := i + 1; j < len(net); j++ {
				d, err := genotype.EditDistance(a.uni.Arch(net[i]), a.uni.Arch(net[j]))
				if err != nil {
					return nil, fmt.Errorf("landscape: neutral net distances: %w", err)
				}
				sum += d
				count++
				if d > info.MaxEditDistance {
					info.MaxEditDistance = d
				}
			}
		}
		if count > 0 {
			info.AvgEditDistance = float64(sum) / float64(count)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// RandomWalk returns a walk of the given length starting at start, moving
// to a uniformly chosen neighbor at each step.
func (a *Analysis) RandomWalk(start, length int) []int {
	walk := make([]int, 0, length)
	curr := start
	walk = append(walk, curr)
	for step := 1; step < length; step++ {
		nbrs := a.uni.Neighbors(curr)
		if len(nbrs) == 0 {
			break
		}
		curr = nbrs[a.rng.Intn(len(nbrs))]
		walk = append(walk, curr)
	}
	return walk
}

// Autocorrelation estimates the lag-k autocorrelation of fitness along
// random walks: the mean correlation between the walk's fitness series and
// itself shifted by lag, over the given number of trials.
func (a *Analysis) Autocorrelation(lag, trials, walkLen int) float64 {
	if lag < 1 || walkLen <= lag || trials < 1 {
		return math.NaN()
	}
	sum, n := 0.0, 0
	for t := 0; t < trials; t++ {
		walk := a.RandomWalk(a.rng.Intn(a.Size()), walkLen)
		if len(walk) <= lag {
			continue
		}
		fits := make([]float64, len(walk))
		for i, idx := range walk {
			fits[i] = a.fits[idx]
		}
		r := stats.Pearson(fits[:len(fits)-lag], fits[lag:])
		if math.IsNaN(r) {
			// Flat walk segment; carries no correlation signal.
			continue
		}
		sum += r
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// WeakBasin returns the sorted indices of the weak basin of attraction of
// start: every architecture with a strictly increasing path to it.
func (a *Analysis) WeakBasin(start int) []int {
	queue := []int{start}
	visited := map[int]bool{start: true}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, nbr := range a.uni.Neighbors(curr) {
			if !visited[nbr] && a.fits[nbr] < a.fits[curr] {
				visited[nbr] = true
				queue = append(queue, nbr)
			}
		}
	}
	basin := make([]int, 0, len(visited))
	for i := range visited {
		basin = append(basin, i)
	}
	sort.Ints(basin)
	return basin
}

// WeakBasins returns the weak basin of each of the given local maxima.
func (a *Analysis) WeakBasins(maxima []int) map[int][]int {
	basins := make(map[int][]int, len(maxima))
	for _, m := range maxima {
		basins[m] = a.WeakBasin(m)
	}
	return basins
}

// StrongBasins filters weak basins down to members that belong to exactly
// one of them.
func StrongBasins(weak map[int][]int) map[int][]int {
	counts := map[int]int{}
	for _, basin := range weak {
		for _, i := range basin {
			counts[i]++
		}
	}
	strong := make(map[int][]int, len(weak))
	for m, basin := range weak {
		var unique []int
		for _, i := range basin {
			if counts[i] == 1 {
				unique = append(unique, i)
			}
		}
		strong[m] = unique
	}
	return strong
}
