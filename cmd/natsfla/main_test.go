package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"natsfla/adapters/natsbench"
	"natsfla/internal/dataset"
	"natsfla/internal/genotype"
)

// edge0Arch builds a cell that varies only the first operation edge, so
// the five of them form a clique at edit distance 1.
func edge0Arch(op genotype.Op) string {
	return fmt.Sprintf("|%s~0|+|none~0|none~1|+|none~0|none~1|none~2|", op)
}

// runCmd executes one CLI invocation against a fresh command tree, so no
// flag state carries over between invocations.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// seedBench writes a five-architecture benchmark file with results on two
// datasets at the default training budget.
func seedBench(t *testing.T, path string) {
	t.Helper()
	store, err := natsbench.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for i, op := range genotype.Ops() {
		if err := store.PutArch(ctx, i, edge0Arch(op)); err != nil {
			t.Fatalf("PutArch(%d): %v", i, err)
		}
		acc := float64(10 * (i + 1))
		for _, ds := range []string{natsbench.CIFAR10, natsbench.CIFAR100} {
			info := &natsbench.Info{
				TrainAccuracy: acc + 5,
				TestAccuracy:  acc,
				TrainLoss:     1.0 / acc,
				TestLoss:      2.0 / acc,
			}
			if err := store.PutInfo(ctx, i, ds, natsbench.DefaultHP, info); err != nil {
				t.Fatalf("PutInfo(%d, %s): %v", i, ds, err)
			}
			acc -= 2 // cifar100 trails cifar10, same ranking
		}
	}
}

func TestExtractThenAnalyze(t *testing.T) {
	dir := t.TempDir()
	benchPath := filepath.Join(dir, "bench.db")
	csvPath := filepath.Join(dir, "out.csv")
	seedBench(t, benchPath)

	out, err := runCmd(t, "extract", "--bench", benchPath, "-o", csvPath,
		"--datasets", "cifar10,cifar100")
	if err != nil {
		t.Fatalf("extract: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Wrote 10 rows") {
		t.Errorf("extract output = %q, want 10 rows", out)
	}

	table, err := dataset.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if table.Len() != 10 {
		t.Fatalf("table.Len() = %d, want 10", table.Len())
	}

	out, err = runCmd(t, "analyze", "--in", csvPath)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	// Header cells render uppercased; row cells keep their case.
	for _, want := range []string{"Fitness Distance Correlation", "CIFAR-10", "CIFAR-100", "SPEARMAN", "Global Optimum"} {
		if !strings.Contains(out, want) {
			t.Errorf("analyze output missing %q:\n%s", want, out)
		}
	}
	// Identical ranking on both datasets.
	if !strings.Contains(out, "1.0000") {
		t.Errorf("analyze output: want Spearman 1.0000:\n%s", out)
	}

	summaryPath := filepath.Join(dir, "summary.csv")
	out, err = runCmd(t, "analyze", "--in", csvPath, "--dataset", "cifar10", "-o", summaryPath)
	if err != nil {
		t.Fatalf("analyze -o: %v\n%s", err, out)
	}
	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("summary artifact: %v", err)
	}
	if !strings.Contains(string(data), "cifar10,fdc,") {
		t.Errorf("summary artifact missing fdc row:\n%s", data)
	}
}

func TestExtract_RepeatedRunsIndependent(t *testing.T) {
	dir := t.TempDir()
	benchPath := filepath.Join(dir, "bench.db")
	seedBench(t, benchPath)

	wide := filepath.Join(dir, "wide.csv")
	if out, err := runCmd(t, "extract", "--bench", benchPath, "-o", wide,
		"--datasets", "cifar10,cifar100"); err != nil {
		t.Fatalf("extract two datasets: %v\n%s", err, out)
	}

	// A later run with a narrower dataset list must not inherit anything
	// from the earlier one.
	narrow := filepath.Join(dir, "narrow.csv")
	out, err := runCmd(t, "extract", "--bench", benchPath, "-o", narrow,
		"--datasets", "cifar10")
	if err != nil {
		t.Fatalf("extract one dataset: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Wrote 5 rows") {
		t.Errorf("extract output = %q, want 5 rows", out)
	}
	table, err := dataset.ReadFile(narrow)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := table.Datasets(); len(got) != 1 || got[0] != "cifar10" {
		t.Errorf("Datasets = %v, want [cifar10]", got)
	}
}

func TestWalkSweep(t *testing.T) {
	dir := t.TempDir()
	benchPath := filepath.Join(dir, "bench.db")
	csvPath := filepath.Join(dir, "out.csv")
	seedBench(t, benchPath)
	if out, err := runCmd(t, "extract", "--bench", benchPath, "-o", csvPath,
		"--datasets", "cifar10"); err != nil {
		t.Fatalf("extract: %v\n%s", err, out)
	}

	seriesPath := filepath.Join(dir, "series.csv")
	out, err := runCmd(t, "walk", "--in", csvPath, "--dataset", "cifar10",
		"--lengths", "5,8", "-o", seriesPath)
	if err != nil {
		t.Fatalf("walk: %v\n%s", err, out)
	}
	if !strings.Contains(out, "WALK LENGTH") {
		t.Errorf("walk output missing table:\n%s", out)
	}
	data, err := os.ReadFile(seriesPath)
	if err != nil {
		t.Fatalf("series artifact: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("series artifact has %d lines, want header + 2", len(lines))
	}
}

func TestNeutralNetworks(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "flat.csv")

	// Two equal-fitness neighbors form one neutral network.
	table := dataset.New()
	fits := []float64{10, 20, 20, 30, 40}
	for i, op := range genotype.Ops() {
		row := dataset.Row{
			ArchIndex: i,
			ArchStr:   edge0Arch(op),
			Dataset:   "cifar10",
			Metric:    "test-accuracy",
			Value:     fits[i],
		}
		if err := table.Append(row); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := table.WriteFile(csvPath); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	netsPath := filepath.Join(dir, "nets.csv")
	out, err := runCmd(t, "neutral", "--in", csvPath, "--dataset", "cifar10", "-o", netsPath)
	if err != nil {
		t.Fatalf("neutral: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 found") {
		t.Errorf("neutral output = %q, want one network", out)
	}
	if !strings.Contains(out, "PERCOLATION") {
		t.Errorf("neutral output missing table:\n%s", out)
	}

	data, err := os.ReadFile(netsPath)
	if err != nil {
		t.Fatalf("networks artifact: %v", err)
	}
	// Size 2 at fitness 20; the neighbors outside the net carry fitnesses
	// 10, 30 and 40, so the percolation index is 3.
	if !strings.Contains(string(data), "cifar10,2,20,3,1,1") {
		t.Errorf("networks artifact missing expected row:\n%s", data)
	}
}

func TestArchInspect(t *testing.T) {
	arch := edge0Arch(genotype.OpSkip)
	out, err := runCmd(t, "arch", arch, "--neighbors")
	if err != nil {
		t.Fatalf("arch: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Skip Connect") {
		t.Errorf("arch output missing operation name:\n%s", out)
	}
	if !strings.Contains(out, "24 one-edit neighbors") {
		t.Errorf("arch output missing neighbors:\n%s", out)
	}

	dir := t.TempDir()
	benchPath := filepath.Join(dir, "bench.db")
	seedBench(t, benchPath)
	out, err = runCmd(t, "arch", "3", "--bench", benchPath)
	if err != nil {
		t.Fatalf("arch by index: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Architecture 3") {
		t.Errorf("arch output missing index line:\n%s", out)
	}
	if !strings.Contains(out, "Results at 200 epochs") {
		t.Errorf("arch output missing results table:\n%s", out)
	}

	// Index resolved from an extraction CSV, no benchmark source.
	csvPath := filepath.Join(dir, "out.csv")
	if out, err := runCmd(t, "extract", "--bench", benchPath, "-o", csvPath,
		"--datasets", "cifar10"); err != nil {
		t.Fatalf("extract: %v\n%s", err, out)
	}
	out, err = runCmd(t, "arch", "2", "--in", csvPath)
	if err != nil {
		t.Fatalf("arch from CSV: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Extracted results") {
		t.Errorf("arch output missing CSV results:\n%s", out)
	}

	if out, err := runCmd(t, "arch", "not-an-arch"); err == nil {
		t.Errorf("malformed cell: want error, got:\n%s", out)
	}
}

func TestBenchImportAndInfo(t *testing.T) {
	dir := t.TempDir()
	benchPath := filepath.Join(dir, "bench.db")
	seedPath := filepath.Join(dir, "seed.csv")

	seed := "arch_index,arch_str,dataset,hp,train_accuracy,test_accuracy,train_loss,test_loss\n" +
		fmt.Sprintf("0,%s,cifar10,200,95.5,91.2,0.15,0.31\n", edge0Arch(genotype.OpNone)) +
		fmt.Sprintf("1,%s,cifar10,200,96.1,92.4,0.12,0.28\n", edge0Arch(genotype.OpSkip))
	if err := os.WriteFile(seedPath, []byte(seed), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := runCmd(t, "bench", "import", "--bench", benchPath, seedPath)
	if err != nil {
		t.Fatalf("bench import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Imported 2 records") {
		t.Errorf("import output = %q", out)
	}

	out, err = runCmd(t, "bench", "info", "--bench", benchPath)
	if err != nil {
		t.Fatalf("bench info: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 architectures, 2 result records") {
		t.Errorf("info output = %q", out)
	}
	if !strings.Contains(out, "cifar10/hp200") {
		t.Errorf("info output missing slot row:\n%s", out)
	}
}
