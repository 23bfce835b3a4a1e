package natsbench

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutAndQuery(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	arch := "|nor_conv_3x3~0|+|none~0|none~1|+|none~0|none~1|skip_connect~2|"
	if err := s.PutArch(ctx, 0, arch); err != nil {
		t.Fatalf("PutArch: %v", err)
	}
	want := Info{TrainAccuracy: 99.1, TestAccuracy: 93.5, TrainLoss: 0.02, TestLoss: 0.21}
	if err := s.PutInfo(ctx, 0, CIFAR10, 200, &want); err != nil {
		t.Fatalf("PutInfo: %v", err)
	}

	n, err := s.Size(ctx)
	if err != nil || n != 1 {
		t.Errorf("Size = %d, %v; want 1, nil", n, err)
	}
	got, err := s.Arch(ctx, 0)
	if err != nil || got != arch {
		t.Errorf("Arch = %q, %v; want %q", got, err, arch)
	}
	info, err := s.MoreInfo(ctx, 0, CIFAR10, 200)
	if err != nil {
		t.Fatalf("MoreInfo: %v", err)
	}
	if diff := cmp.Diff(&want, info); diff != "" {
		t.Errorf("MoreInfo mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Determinism(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.PutArch(ctx, 0, "|none~0|+|none~0|none~1|+|none~0|none~1|none~2|"); err != nil {
		t.Fatalf("PutArch: %v", err)
	}
	info := Info{TestAccuracy: 10.0}
	if err := s.PutInfo(ctx, 0, CIFAR100, 12, &info); err != nil {
		t.Fatalf("PutInfo: %v", err)
	}
	first, err := s.MoreInfo(ctx, 0, CIFAR100, 12)
	if err != nil {
		t.Fatalf("MoreInfo: %v", err)
	}
	second, err := s.MoreInfo(ctx, 0, CIFAR100, 12)
	if err != nil {
		t.Fatalf("MoreInfo (repeat): %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated query differs (-first +second):\n%s", diff)
	}
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.Arch(ctx, 7); !errors.Is(err, ErrNotFound) {
		t.Errorf("Arch(7) err = %v, want ErrNotFound", err)
	}
	if _, err := s.MoreInfo(ctx, 0, CIFAR10, 200); !errors.Is(err, ErrNotFound) {
		t.Errorf("MoreInfo err = %v, want ErrNotFound", err)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bench.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.PutArch(ctx, 3, "|none~0|+|none~0|none~1|+|none~0|none~1|none~2|"); err != nil {
		t.Fatalf("PutArch: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if _, err := s2.Arch(ctx, 3); err != nil {
		t.Errorf("Arch after reopen: %v", err)
	}
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	seed := strings.Join([]string{
		"arch_index,arch_str,dataset,hp,train_accuracy,test_accuracy,train_loss,test_loss",
		`0,"|none~0|+|none~0|none~1|+|none~0|none~1|none~2|",cifar10,200,50.1,45.2,1.2,1.5`,
		`0,"|none~0|+|none~0|none~1|+|none~0|none~1|none~2|",cifar100,200,30.0,25.5,2.2,2.5`,
		`1,"|skip_connect~0|+|none~0|none~1|+|none~0|none~1|none~2|",cifar10,200,88.8,85.1,0.3,0.5`,
	}, "\n") + "\n"

	n, err := ImportCSV(ctx, s, strings.NewReader(seed))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if n != 3 {
		t.Errorf("imported %d rows, want 3", n)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Archs != 2 || stats.Results != 3 {
		t.Errorf("Stats = %+v, want 2 archs, 3 results", stats)
	}
	if stats.ResultsBySlot["cifar10/hp200"] != 2 {
		t.Errorf("cifar10/hp200 slot = %d, want 2", stats.ResultsBySlot["cifar10/hp200"])
	}

	info, err := s.MoreInfo(ctx, 1, CIFAR10, 200)
	if err != nil {
		t.Fatalf("MoreInfo: %v", err)
	}
	if info.TestAccuracy != 85.1 {
		t.Errorf("TestAccuracy = %v, want 85.1", info.TestAccuracy)
	}
}

func TestImportCSV_BadHeader(t *testing.T) {
	s := openTestStore(t)
	_, err := ImportCSV(context.Background(), s, strings.NewReader("a,b,c,d,e,f,g,h\n"))
	if err == nil {
		t.Error("bad header: want error")
	}
}

func TestInfoMetric(t *testing.T) {
	info := Info{TrainAccuracy: 1, TestAccuracy: 2, TrainLoss: 3, TestLoss: 4}
	for name, want := range map[string]float64{
		MetricTrainAccuracy: 1,
		MetricTestAccuracy:  2,
		MetricTrainLoss:     3,
		MetricTestLoss:      4,
	} {
		got, err := info.Metric(name)
		if err != nil || got != want {
			t.Errorf("Metric(%s) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := info.Metric("flops"); err == nil {
		t.Error("unknown metric: want error")
	}
}
