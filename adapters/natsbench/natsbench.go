// Package natsbench is the client for the NATS-Bench topology search space
// benchmark: precomputed training results for 15625 cell architectures on
// three image datasets.
//
// The benchmark is consumed through the Client interface. Three
// implementations exist: Store reads a local benchmark file (SQLite),
// HTTPClient talks to a hosted benchmark endpoint, and MemClient is an
// in-memory fake for tests. All of them are deterministic: the same query
// always returns the same record.
package natsbench

import (
	"context"
	"errors"
	"fmt"
)

// Datasets of the topology search space.
const (
	CIFAR10    = "cifar10"
	CIFAR100   = "cifar100"
	ImageNet16 = "ImageNet16-120"
)

// Datasets returns the supported dataset names in canonical order.
func Datasets() []string {
	return []string{CIFAR10, CIFAR100, ImageNet16}
}

// SearchSpaceSize is the number of architectures in the topology search
// space (5 operations on 6 edges: 5^6).
const SearchSpaceSize = 15625

// DefaultHP is the default training budget (epochs) to query.
const DefaultHP = 200

// ErrNotFound reports a benchmark entry that does not exist: an
// out-of-range architecture index or an unpopulated (dataset, hp) slot.
var ErrNotFound = errors.New("benchmark entry not found")

// Info is the precomputed result record for one (architecture, dataset,
// hp) query.
type Info struct {
	TrainAccuracy float64 `json:"train-accuracy"`
	TestAccuracy  float64 `json:"test-accuracy"`
	TrainLoss     float64 `json:"train-loss"`
	TestLoss      float64 `json:"test-loss"`
}

// Metric names accepted by Info.Metric.
const (
	MetricTrainAccuracy = "train-accuracy"
	MetricTestAccuracy  = "test-accuracy"
	MetricTrainLoss     = "train-loss"
	MetricTestLoss      = "test-loss"
)

// Metrics returns the metric names an Info record carries.
func Metrics() []string {
	return []string{MetricTrainAccuracy, MetricTestAccuracy, MetricTrainLoss, MetricTestLoss}
}

// Metric returns the named scalar from the record.
func (in *Info) Metric(name string) (float64, error) {
	switch name {
	case MetricTrainAccuracy:
		return in.TrainAccuracy, nil
	case MetricTestAccuracy:
		return in.TestAccuracy, nil
	case MetricTrainLoss:
		return in.TrainLoss, nil
	case MetricTestLoss:
		return in.TestLoss, nil
	default:
		return 0, fmt.Errorf("natsbench: unknown metric %q", name)
	}
}

// Client queries the benchmark. Implementations must be deterministic for
// identical queries under an unchanged benchmark source.
type Client interface {
	// Size returns the number of architectures in the source.
	Size(ctx context.Context) (int, error)
	// Arch returns the architecture string for an index.
	Arch(ctx context.Context, index int) (string, error)
	// MoreInfo returns the result record for (index, dataset, hp).
	MoreInfo(ctx context.Context, index int, dataset string, hp int) (*Info, error)
}
