package display

import "testing"

func TestDataset(t *testing.T) {
	if got := Dataset("cifar10"); got != "CIFAR-10" {
		t.Errorf("Dataset(cifar10) = %q", got)
	}
	if got := Dataset("mnist"); got != "mnist" {
		t.Errorf("unknown dataset should pass through, got %q", got)
	}
}

func TestMetric(t *testing.T) {
	if got := Metric("test-accuracy"); got != "Test Accuracy" {
		t.Errorf("Metric(test-accuracy) = %q", got)
	}
	if got := MetricWithCode("test-accuracy"); got != "Test Accuracy (test-accuracy)" {
		t.Errorf("MetricWithCode = %q", got)
	}
	if got := MetricWithCode("flops"); got != "flops" {
		t.Errorf("unknown metric should pass through, got %q", got)
	}
}

func TestOp(t *testing.T) {
	if got := Op("nor_conv_3x3"); got != "3x3 Convolution" {
		t.Errorf("Op(nor_conv_3x3) = %q", got)
	}
	if got := Op("sep_conv_5x5"); got != "sep_conv_5x5" {
		t.Errorf("unknown op should pass through, got %q", got)
	}
}

func TestLandscapeMetric(t *testing.T) {
	if got := LandscapeMetric("fdc"); got != "Fitness Distance Correlation" {
		t.Errorf("LandscapeMetric(fdc) = %q", got)
	}
}
