package landscape

import (
	"math"
)

// SummaryOptions bound the expensive parts of a full landscape summary.
type SummaryOptions struct {
	AutocorrLag     int
	AutocorrTrials  int
	AutocorrWalkLen int
	// BasinLimit caps how many local maxima get a basin computed, fittest
	// first. 0 means all of them.
	BasinLimit int
}

// DefaultSummaryOptions mirror the survey defaults of the original study:
// short autocorrelation sampling and basins for the top 3 maxima.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		AutocorrLag:     1,
		AutocorrTrials:  10,
		AutocorrWalkLen: 10,
		BasinLimit:      3,
	}
}

// Summary is the headline metric set for one landscape.
type Summary struct {
	Size              int
	FDC               float64
	NumLocalMaxima    int
	Modality          float64 // local maxima per architecture
	Autocorrelation   float64
	CorrelationLength float64 // 1/autocorrelation
	NumWeakBasins     int
	NumStrongBasins   int // strong basins that are non-empty
	LargestBasinShare float64
}

// CorrelationLength converts an autocorrelation into the correlation
// length 1/rho. NaN or zero autocorrelation has no defined length.
func CorrelationLength(rho float64) float64 {
	if math.IsNaN(rho) || rho == 0 {
		return math.NaN()
	}
	return 1 / rho
}

// Summarize runs the full metric suite over the landscape.
func (a *Analysis) Summarize(opts SummaryOptions) (*Summary, error) {
	fdc, err := a.FDC()
	if err != nil {
		return nil, err
	}

	maxima := a.LocalMaxima()
	basinTargets := maxima
	if opts.BasinLimit > 0 && len(basinTargets) > opts.BasinLimit {
		basinTargets = fittestFirst(a.fits, maxima)[:opts.BasinLimit]
	}
	weak := a.WeakBasins(basinTargets)
	strong := StrongBasins(weak)

	autocorr := a.Autocorrelation(opts.AutocorrLag, opts.AutocorrTrials, opts.AutocorrWalkLen)
	corrLen := CorrelationLength(autocorr)

	largest := 0
	for _, basin := range weak {
		if len(basin) > largest {
			largest = len(basin)
		}
	}
	nonEmptyStrong := 0
	for _, basin := range strong {
		if len(basin) > 0 {
			nonEmptyStrong++
		}
	}

	return &Summary{
		Size:              a.Size(),
		FDC:               fdc,
		NumLocalMaxima:    len(maxima),
		Modality:          float64(len(maxima)) / float64(a.Size()),
		Autocorrelation:   autocorr,
		CorrelationLength: corrLen,
		NumWeakBasins:     len(weak),
		NumStrongBasins:   nonEmptyStrong,
		LargestBasinShare: float64(largest) / float64(a.Size()),
	}, nil
}

// fittestFirst returns the indices sorted by descending fitness without
// mutating the input.
func fittestFirst(fits []float64, idxs []int) []int {
	out := make([]int, len(idxs))
	copy(out, idxs)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && fits[out[j]] > fits[out[j-1]]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
