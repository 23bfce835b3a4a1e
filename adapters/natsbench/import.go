package natsbench

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// importHeader is the seed CSV format accepted by ImportCSV: one row per
// (architecture, dataset, hp) with the full result record.
var importHeader = []string{
	"arch_index", "arch_str", "dataset", "hp",
	"train_accuracy", "test_accuracy", "train_loss", "test_loss",
}

// ImportCSV loads seed rows into a benchmark store. Returns the number of
// result rows written.
func ImportCSV(ctx context.Context, s *Store, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(importHeader)

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("natsbench: import: read header: %w", err)
	}
	for i, col := range importHeader {
		if header[i] != col {
			return 0, fmt.Errorf("natsbench: import: header column %d is %q, want %q", i, header[i], col)
		}
	}

	count := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("natsbench: import: line %d: %w", line, err)
		}
		index, err := strconv.Atoi(rec[0])
		if err != nil {
			return count, fmt.Errorf("natsbench: import: line %d: arch_index: %w", line, err)
		}
		hp, err := strconv.Atoi(rec[3])
		if err != nil {
			return count, fmt.Errorf("natsbench: import: line %d: hp: %w", line, err)
		}
		var vals [4]float64
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(rec[4+i], 64)
			if err != nil {
				return count, fmt.Errorf("natsbench: import: line %d: %s: %w", line, importHeader[4+i], err)
			}
			vals[i] = v
		}
		if err := s.PutArch(ctx, index, rec[1]); err != nil {
			return count, err
		}
		info := Info{TrainAccuracy: vals[0], TestAccuracy: vals[1], TrainLoss: vals[2], TestLoss: vals[3]}
		if err := s.PutInfo(ctx, index, rec[2], hp, &info); err != nil {
			return count, err
		}
		count++
	}
}
