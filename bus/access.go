// Package bus implements the paged memory bus shared by both cores: a
// fast-path page table of backing slices, a coarser-grained timing table,
// and a region-keyed slow fallback for anything the fast path doesn't cover.
package bus

// AccessType tags a memory access so the bus can suppress side effects
// (watchpoints, open-bus logging, DMA-visible latches) for debug accesses,
// per spec.md §4.3.
type AccessType int

// The four access kinds the core distinguishes.
const (
	CPUAccess AccessType = iota
	DMAAccess
	DebugCPUAccess
	DebugDMAAccess
)

// IsDebug reports whether this access must never trigger side effects.
func (a AccessType) IsDebug() bool {
	return a == DebugCPUAccess || a == DebugDMAAccess
}

// IsDMA reports whether this access originates from a DMA channel rather
// than the CPU's own fetch/load/store pipeline.
func (a AccessType) IsDMA() bool {
	return a == DMAAccess || a == DebugDMAAccess
}
