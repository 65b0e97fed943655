package bus

import (
	"encoding/binary"

	"github.com/jetsetilly/twincore/logger"
)

// Bus combines a fast-path PageTable, a coarser TimingTable, and a slow
// region fallback into the complete per-core memory bus described in
// spec.md §4.3/§4.4. NullAccessBoundary and IllegalAccessValue follow the
// teacher's architecture.Map fields (hardware/memory/cartridge/arm/
// architecture/architecture.go: NullAccessBoundary, IllegalAccessValue),
// generalised from per-cartridge constants into per-core construction
// parameters.
type Bus struct {
	Pages   *PageTable
	Timings *TimingTable
	regions regionChain

	NullAccessBoundary uint32
	IllegalAccessValue uint32
	tag                string // used only for log lines, e.g. "ARM7", "ARM9"
}

// NewBus returns a Bus over the given fast-path page table and timing
// table. tag identifies the owning core in log lines.
func NewBus(tag string, pages *PageTable, timings *TimingTable) *Bus {
	return &Bus{Pages: pages, Timings: timings, tag: tag}
}

// RegisterRegion adds a slow-fallback handler, consulted in the order
// regions are registered.
func (b *Bus) RegisterRegion(r Region) {
	b.regions.register(r)
}

func (b *Bus) checkNull(event string, addr uint32, at AccessType) {
	if at.IsDebug() {
		return
	}
	if addr < b.NullAccessBoundary {
		logger.Logf(b.tag, "%s: probable null pointer dereference of %#08x", event, addr)
	}
}

func (b *Bus) illegalAccess(event string, addr uint32, at AccessType) {
	if at.IsDebug() {
		return
	}
	logger.Logf(b.tag, "%s: unrecognised address %#08x", event, addr)
}

// Read8 reads a byte, consulting the fast path then the region fallback.
func (b *Bus) Read8(addr uint32, at AccessType) uint8 {
	b.checkNull("read 8bit", addr, at)

	if page := b.Pages.ReadPage(addr); page != nil {
		return page[addr&(b.Pages.PageSize()-1)]
	}
	if r := b.regions.find(addr); r != nil {
		if v, ok := r.Read8(addr, at); ok {
			return v
		}
	}
	b.illegalAccess("read 8bit", addr, at)
	return uint8(b.IllegalAccessValue)
}

// Write8 writes a byte.
func (b *Bus) Write8(addr uint32, v uint8, at AccessType) {
	b.checkNull("write 8bit", addr, at)

	if page := b.Pages.WritePage(addr); page != nil {
		page[addr&(b.Pages.PageSize()-1)] = v
		return
	}
	if r := b.regions.find(addr); r != nil {
		if r.Write8(addr, v, at) {
			return
		}
	}
	b.illegalAccess("write 8bit", addr, at)
}

// Read16 reads a halfword. A misaligned address reads the containing
// aligned halfword and rotates it right by (addr&1)*8, the ARM "rotated
// read" misalignment policy (spec.md §4.3).
func (b *Bus) Read16(addr uint32, at AccessType) uint16 {
	aligned := addr &^ 1
	b.checkNull("read 16bit", addr, at)

	var v uint16
	if page := b.Pages.ReadPage(aligned); page != nil {
		off := aligned & (b.Pages.PageSize() - 1)
		v = binary.LittleEndian.Uint16(page[off:])
	} else if r := b.regions.find(aligned); r != nil {
		var ok bool
		if v, ok = r.Read16(aligned, at); !ok {
			b.illegalAccess("read 16bit", addr, at)
			v = uint16(b.IllegalAccessValue)
		}
	} else {
		b.illegalAccess("read 16bit", addr, at)
		v = uint16(b.IllegalAccessValue)
	}

	rot := (addr & 1) * 8
	return v>>rot | v<<(16-rot)
}

// Write16 writes a halfword, silently ignoring the low address bit.
func (b *Bus) Write16(addr uint32, v uint16, at AccessType) {
	aligned := addr &^ 1
	b.checkNull("write 16bit", addr, at)

	if page := b.Pages.WritePage(aligned); page != nil {
		off := aligned & (b.Pages.PageSize() - 1)
		binary.LittleEndian.PutUint16(page[off:], v)
		return
	}
	if r := b.regions.find(aligned); r != nil {
		if r.Write16(aligned, v, at) {
			return
		}
	}
	b.illegalAccess("write 16bit", addr, at)
}

// Read32 reads a word. A misaligned address reads the containing aligned
// word and rotates it right by (addr&3)*8 (spec.md §4.3).
func (b *Bus) Read32(addr uint32, at AccessType) uint32 {
	aligned := addr &^ 3
	b.checkNull("read 32bit", addr, at)

	var v uint32
	if page := b.Pages.ReadPage(aligned); page != nil {
		off := aligned & (b.Pages.PageSize() - 1)
		v = binary.LittleEndian.Uint32(page[off:])
	} else if r := b.regions.find(aligned); r != nil {
		var ok bool
		if v, ok = r.Read32(aligned, at); !ok {
			b.illegalAccess("read 32bit", addr, at)
			v = b.IllegalAccessValue
		}
	} else {
		b.illegalAccess("read 32bit", addr, at)
		v = b.IllegalAccessValue
	}

	rot := (addr & 3) * 8
	return v>>rot | v<<(32-rot)
}

// Write32 writes a word, silently ignoring the low address bits.
func (b *Bus) Write32(addr uint32, v uint32, at AccessType) {
	aligned := addr &^ 3
	b.checkNull("write 32bit", addr, at)

	if page := b.Pages.WritePage(aligned); page != nil {
		off := aligned & (b.Pages.PageSize() - 1)
		binary.LittleEndian.PutUint32(page[off:], v)
		return
	}
	if r := b.regions.find(aligned); r != nil {
		if r.Write32(aligned, v, at) {
			return
		}
	}
	b.illegalAccess("write 32bit", addr, at)
}
