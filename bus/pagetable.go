package bus

// PageTable is the fast-path pointer table described in spec.md §3: one
// slice per direction (read/write), indexed by addr>>shift. A nil entry
// means "use the slow fallback". Page size is 1<<shift; it differs per
// core (ARM7: 32 KiB/shift 15, ARM9: 4 KiB/shift 12, the CP15 protection
// granularity).
type PageTable struct {
	shift uint
	read  [][]byte
	write [][]byte
}

// NewPageTable returns an empty PageTable with 1<<shift-sized pages over the
// full 32-bit address space.
func NewPageTable(shift uint) *PageTable {
	n := 1 << (32 - shift)
	return &PageTable{
		shift: shift,
		read:  make([][]byte, n),
		write: make([][]byte, n),
	}
}

// PageShift is the log2 of this table's page size.
func (p *PageTable) PageShift() uint { return p.shift }

// PageSize is this table's page size in bytes.
func (p *PageTable) PageSize() uint32 { return 1 << p.shift }

func (p *PageTable) index(addr uint32) uint32 { return addr >> p.shift }

// ReadPage returns the backing slice covering addr for reads, or nil if the
// page isn't fast-pathed.
func (p *PageTable) ReadPage(addr uint32) []byte { return p.read[p.index(addr)] }

// WritePage returns the backing slice covering addr for writes, or nil if
// the page isn't fast-pathed.
func (p *PageTable) WritePage(addr uint32) []byte { return p.write[p.index(addr)] }

// pageSlices splits backing into one slice per page covering [lo, hi], each
// sized to a full page (backing's length must be an exact multiple of the
// page size and line up with lo/hi page boundaries).
func (p *PageTable) pageSlices(lo, hi uint32, backing []byte) [][]byte {
	size := p.PageSize()
	n := int((hi-lo)/size) + 1
	slices := make([][]byte, n)
	for i := 0; i < n; i++ {
		start := uint32(i) * size
		slices[i] = backing[start : start+size]
	}
	return slices
}

// MapReadWrite installs backing as both the read and write fast path for
// every page in [lo, hi]. backing must span exactly that range, a whole
// number of pages.
func (p *PageTable) MapReadWrite(lo, hi uint32, backing []byte) {
	slices := p.pageSlices(lo, hi, backing)
	loPage := p.index(lo)
	for i, s := range slices {
		p.read[loPage+uint32(i)] = s
		p.write[loPage+uint32(i)] = s
	}
}

// MapReadOnly installs backing as the read-only fast path for [lo, hi],
// leaving the write side unmapped (so writes fall to the slow path, where a
// ROM region handler can reject or ignore them). This keeps the invariant
// that a writable page is always also readable (spec.md §3) without ever
// implying the reverse.
func (p *PageTable) MapReadOnly(lo, hi uint32, backing []byte) {
	slices := p.pageSlices(lo, hi, backing)
	loPage := p.index(lo)
	for i, s := range slices {
		p.read[loPage+uint32(i)] = s
		p.write[loPage+uint32(i)] = nil
	}
}

// Unmap clears both the read and write fast path for every page in [lo, hi],
// forcing accesses back to the slow fallback.
func (p *PageTable) Unmap(lo, hi uint32) {
	loPage := p.index(lo)
	hiPage := p.index(hi)
	for i := loPage; i <= hiPage; i++ {
		p.read[i] = nil
		p.write[i] = nil
	}
}
