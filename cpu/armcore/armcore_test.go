package armcore_test

import (
	"testing"

	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/cpu/arm7"
	"github.com/jetsetilly/twincore/irq"
	"github.com/jetsetilly/twincore/schedule"
	"github.com/jetsetilly/twincore/test"
)

// newTestARM7 returns an ARM7 core with a flat 64 KiB RAM region at
// 0x0200_0000, enough room for every scenario below without touching CP15
// (the ARM7 has none, so instruction fetch and data access are unchecked).
func newTestARM7() *arm7.ARM7 {
	pages := bus.NewPageTable(15)
	timings := bus.NewTimingTable(15)
	b := bus.NewBus("ARM7", pages, timings)

	ram := make([]byte, 0x1_0000)
	pages.MapReadWrite(0x0200_0000, 0x0200_FFFF, ram)

	sched := schedule.New(1)
	return arm7.New(b, &irq.Lines{}, sched)
}

func TestAddSetsFlagsOnSignedOverflow(t *testing.T) {
	c := newTestARM7()

	const instrAddr = 0x0200_0000
	c.Bus.Write32(instrAddr, 0xE0902001, bus.CPUAccess) // ADDS r2, r0, r1

	c.Regs().SetR(15, instrAddr+8)
	c.Regs().SetR(0, 0x7FFFFFFF)
	c.Regs().SetR(1, 1)

	c.Step()

	test.ExpectEquality(t, c.Regs().R(2), uint32(0x80000000))
	cpsr := c.Regs().CPSR()
	test.ExpectEquality(t, cpsr.N(), true)
	test.ExpectEquality(t, cpsr.Z(), false)
	test.ExpectEquality(t, cpsr.C(), false)
	test.ExpectEquality(t, cpsr.V(), true)
}

func TestBranchWithLinkSetsLinkRegisterAndTarget(t *testing.T) {
	c := newTestARM7()

	const instrAddr = 0x0200_0000
	c.Bus.Write32(instrAddr, 0xEB000002, bus.CPUAccess) // BL #+16

	c.Regs().SetR(15, 0x0200_0008)

	c.Step()

	test.ExpectEquality(t, c.Regs().R(14), uint32(0x0200_0004))
	test.ExpectEquality(t, c.Regs().R(15), uint32(0x0200_0018))
}

func TestThumbLongBranchWithLink(t *testing.T) {
	c := newTestARM7()

	const prefixAddr = 0x0200_0000
	const suffixAddr = 0x0200_0002
	c.Bus.Write16(prefixAddr, 0xF000, bus.CPUAccess)
	c.Bus.Write16(suffixAddr, 0xF802, bus.CPUAccess)

	cpsr := c.Regs().CPSR().SetT(true)
	c.Regs().SetCPSRFlagsAndControl(cpsr)
	c.Regs().SetR(15, 0x0200_0004)

	c.Step() // prefix half-word

	test.ExpectEquality(t, c.Regs().R(14), uint32(0x0200_0004))

	c.Step() // suffix half-word

	test.ExpectEquality(t, c.Regs().R(14), uint32(0x0200_0005))
	test.ExpectEquality(t, c.InstructionPC(), uint32(0x0200_0008))
}

func TestConditionNotSatisfiedSkipsBranchButAdvancesPC(t *testing.T) {
	c := newTestARM7()

	const instrAddr = 0x0200_0000
	c.Bus.Write32(instrAddr, 0x0A000000, bus.CPUAccess) // BEQ #+0

	c.Regs().SetR(15, 0x0200_0008)
	cpsr := c.Regs().CPSR().SetZ(false)
	c.Regs().SetCPSRFlagsAndControl(cpsr)

	c.Step()

	test.ExpectEquality(t, c.Regs().R(15), uint32(0x0200_000C))
}
