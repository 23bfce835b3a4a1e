package natsbench

import (
	"context"
	"fmt"
)

type infoKey struct {
	index   int
	dataset string
	hp      int
}

// MemClient is an in-memory Client for tests and dry runs.
type MemClient struct {
	archs []string
	infos map[infoKey]Info
}

// NewMemClient returns an empty in-memory benchmark.
func NewMemClient() *MemClient {
	return &MemClient{infos: make(map[infoKey]Info)}
}

// AddArch appends an architecture and returns its index.
func (m *MemClient) AddArch(arch string) int {
	m.archs = append(m.archs, arch)
	return len(m.archs) - 1
}

// SetInfo stores the result record for (index, dataset, hp).
func (m *MemClient) SetInfo(index int, dataset string, hp int, info Info) {
	m.infos[infoKey{index, dataset, hp}] = info
}

// Size implements Client.
func (m *MemClient) Size(ctx context.Context) (int, error) {
	return len(m.archs), nil
}

// Arch implements Client.
func (m *MemClient) Arch(ctx context.Context, index int) (string, error) {
	if index < 0 || index >= len(m.archs) {
		return "", fmt.Errorf("%w: architecture %d", ErrNotFound, index)
	}
	return m.archs[index], nil
}

// MoreInfo implements Client.
func (m *MemClient) MoreInfo(ctx context.Context, index int, dataset string, hp int) (*Info, error) {
	info, ok := m.infos[infoKey{index, dataset, hp}]
	if !ok {
		return nil, fmt.Errorf("%w: arch %d dataset %s hp %d", ErrNotFound, index, dataset, hp)
	}
	return &info, nil
}
