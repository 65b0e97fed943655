package bus_test

import (
	"testing"

	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/test"
)

func newARM9Bus() (*bus.Bus, []byte) {
	pages := bus.NewPageTable(12) // 4 KiB, CP15 granularity
	timings := bus.NewTimingTable(24)
	b := bus.NewBus("ARM9", pages, timings)
	b.IllegalAccessValue = 0

	ram := make([]byte, 0x1000*2)
	pages.MapReadWrite(0x0200_0000, 0x0200_1FFF, ram)
	return b, ram
}

func TestFastPathReadWriteWord(t *testing.T) {
	b, _ := newARM9Bus()

	b.Write32(0x0200_0000, 0xdeadbeef, bus.CPUAccess)
	test.ExpectEquality(t, b.Read32(0x0200_0000, bus.CPUAccess), uint32(0xdeadbeef))
}

func TestFastPathSecondPageOfARegion(t *testing.T) {
	b, _ := newARM9Bus()

	b.Write32(0x0200_1000, 0x11223344, bus.CPUAccess)
	test.ExpectEquality(t, b.Read32(0x0200_1000, bus.CPUAccess), uint32(0x11223344))
}

func TestMisalignedWordReadRotates(t *testing.T) {
	b, _ := newARM9Bus()

	b.Write32(0x0200_0000, 0x11223344, bus.CPUAccess)
	// reading at +1 rotates the aligned word right by 8 bits
	got := b.Read32(0x0200_0001, bus.CPUAccess)
	test.ExpectEquality(t, got, uint32(0x44112233))
}

func TestMisalignedHalfReadRotates(t *testing.T) {
	b, _ := newARM9Bus()

	b.Write16(0x0200_0000, 0x1122, bus.CPUAccess)
	got := b.Read16(0x0200_0001, bus.CPUAccess)
	test.ExpectEquality(t, got, uint16(0x2211))
}

func TestUnmappedReadFallsBackToIllegalValue(t *testing.T) {
	b, _ := newARM9Bus()
	b.IllegalAccessValue = 0xBAAD

	test.ExpectEquality(t, b.Read32(0x0A00_0000, bus.DebugCPUAccess), uint32(0xBAAD))
}

type stubRegion struct {
	lo, hi uint32
	mem    map[uint32]uint32
}

func (s *stubRegion) Contains(addr uint32) bool { return addr >= s.lo && addr <= s.hi }
func (s *stubRegion) Read8(addr uint32, at bus.AccessType) (uint8, bool) {
	return uint8(s.mem[addr]), true
}
func (s *stubRegion) Read16(addr uint32, at bus.AccessType) (uint16, bool) {
	return uint16(s.mem[addr]), true
}
func (s *stubRegion) Read32(addr uint32, at bus.AccessType) (uint32, bool) {
	return s.mem[addr], true
}
func (s *stubRegion) Write8(addr uint32, v uint8, at bus.AccessType) bool {
	s.mem[addr] = uint32(v)
	return true
}
func (s *stubRegion) Write16(addr uint32, v uint16, at bus.AccessType) bool {
	s.mem[addr] = uint32(v)
	return true
}
func (s *stubRegion) Write32(addr uint32, v uint32, at bus.AccessType) bool {
	s.mem[addr] = v
	return true
}

func TestSlowFallbackRegionDispatch(t *testing.T) {
	b, _ := newARM9Bus()
	region := &stubRegion{lo: 0x0400_0000, hi: 0x0400_0FFF, mem: map[uint32]uint32{}}
	b.RegisterRegion(region)

	b.Write32(0x0400_0004, 0x99, bus.CPUAccess)
	test.ExpectEquality(t, b.Read32(0x0400_0004, bus.CPUAccess), uint32(0x99))
}

func TestTimingTableSetRangeAndGet(t *testing.T) {
	timings := bus.NewTimingTable(24)
	timings.SetRange(bus.Cycles{N32: 20, S32: 4, N16: 18, S16: 2, Code: 18}, 0x0200_0000, 0x02FF_FFFF)

	c := timings.Get(0x0200_1234)
	test.ExpectEquality(t, c.N32, uint8(20))
	test.ExpectEquality(t, c.Code, uint8(18))
}

func TestReadOnlyPageWriteFallsThrough(t *testing.T) {
	pages := bus.NewPageTable(12)
	timings := bus.NewTimingTable(24)
	b := bus.NewBus("ARM9", pages, timings)

	rom := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	backing := make([]byte, 0x1000)
	copy(backing, rom)
	pages.MapReadOnly(0x0800_0000, 0x0800_0FFF, backing)

	region := &stubRegion{lo: 0x0800_0000, hi: 0x0800_0FFF, mem: map[uint32]uint32{}}
	b.RegisterRegion(region)

	test.ExpectEquality(t, b.Read8(0x0800_0000, bus.CPUAccess), uint8(0xAA))

	b.Write8(0x0800_0000, 0xFF, bus.CPUAccess)
	test.ExpectEquality(t, region.mem[0x0800_0000], uint32(0xFF))
	// ROM fast path must be untouched by the slow-path write
	test.ExpectEquality(t, b.Read8(0x0800_0000, bus.CPUAccess), uint8(0xAA))
}
