// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans. Use these functions in
// CLI output and tables; keep the raw codes for CSV fields, map keys, and
// equality comparisons.
package display

var datasets = map[string]string{
	"cifar10":        "CIFAR-10",
	"cifar10-valid":  "CIFAR-10 (validation split)",
	"cifar100":       "CIFAR-100",
	"ImageNet16-120": "ImageNet16-120",
}

// Dataset returns the human-readable name for a benchmark dataset code.
// Unknown codes are returned as-is.
func Dataset(code string) string {
	if name, ok := datasets[code]; ok {
		return name
	}
	return code
}

var metrics = map[string]string{
	"train-accuracy": "Train Accuracy",
	"test-accuracy":  "Test Accuracy",
	"train-loss":     "Train Loss",
	"test-loss":      "Test Loss",
}

// Metric returns the human-readable name for a benchmark metric code.
func Metric(code string) string {
	if name, ok := metrics[code]; ok {
		return name
	}
	return code
}

// MetricWithCode returns "Test Accuracy (test-accuracy)" format.
func MetricWithCode(code string) string {
	if name, ok := metrics[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}

var ops = map[string]string{
	"none":         "Zero",
	"skip_connect": "Skip Connect",
	"nor_conv_1x1": "1x1 Convolution",
	"nor_conv_3x3": "3x3 Convolution",
	"avg_pool_3x3": "3x3 Average Pool",
}

// Op returns the human-readable name for a cell operation code.
func Op(code string) string {
	if name, ok := ops[code]; ok {
		return name
	}
	return code
}

var landscapeMetrics = map[string]string{
	"fdc":                "Fitness Distance Correlation",
	"local_maxima":       "Local Maxima",
	"modality":           "Modality",
	"autocorrelation":    "Autocorrelation",
	"correlation_length": "Correlation Length",
	"weak_basins":        "Weak Basins",
	"strong_basins":      "Strong Basins",
	"largest_basin":      "Largest Basin Share",
}

// LandscapeMetric returns the human-readable name for a landscape metric
// key as used in summary artifacts.
func LandscapeMetric(key string) string {
	if name, ok := landscapeMetrics[key]; ok {
		return name
	}
	return key
}
