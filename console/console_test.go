package console_test

import (
	"testing"

	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/console"
	"github.com/jetsetilly/twincore/schedule"
	"github.com/jetsetilly/twincore/test"
)

func newBuses() (*bus.Bus, *bus.Bus) {
	pages9 := bus.NewPageTable(12)
	timings9 := bus.NewTimingTable(24)
	bus9 := bus.NewBus("ARM9", pages9, timings9)

	pages7 := bus.NewPageTable(15)
	timings7 := bus.NewTimingTable(15)
	bus7 := bus.NewBus("ARM7", pages7, timings7)

	return bus9, bus7
}

func TestRunUntilAdvancesSchedulerTime(t *testing.T) {
	bus9, bus7 := newBuses()
	c := console.New(console.DefaultModel, bus9, bus7, int(console.ReservedSlots))

	// Halt both cores so the batch loop is driven purely by the scheduler
	// and the coprocessor completion events, not by whatever garbage
	// instruction an empty bus fetches.
	c.ARM9.Halt()
	c.ARM7.Halt()

	c.RunUntil(1000)

	test.ExpectEquality(t, c.Sched.CurTime() >= schedule.Timestamp(1000), true)
}

func TestRunUntilDeliversDividerCompletion(t *testing.T) {
	bus9, bus7 := newBuses()
	c := console.New(console.DefaultModel, bus9, bus7, int(console.ReservedSlots))
	c.ARM9.Halt()
	c.ARM7.Halt()

	c.Divider.WriteNumerator(10, c.Sched)
	c.Divider.WriteDenominator(3, c.Sched)
	test.ExpectEquality(t, c.Divider.Control().Busy(), true)

	c.RunUntil(100)

	test.ExpectEquality(t, c.Divider.Control().Busy(), false)
	test.ExpectEquality(t, c.Divider.Quotient(), uint64(3))
	test.ExpectEquality(t, c.Divider.Remainder(), uint64(1))
}

func TestRunUntilDeliversSqrtCompletion(t *testing.T) {
	bus9, bus7 := newBuses()
	c := console.New(console.DefaultModel, bus9, bus7, int(console.ReservedSlots))
	c.ARM9.Halt()
	c.ARM7.Halt()

	c.Sqrt.WriteInput(100, c.Sched)

	c.RunUntil(50)

	test.ExpectEquality(t, c.Sqrt.Control().Busy(), false)
	test.ExpectEquality(t, c.Sqrt.Result(), uint32(10))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	bus9, bus7 := newBuses()
	c := console.New(console.DefaultModel, bus9, bus7, int(console.ReservedSlots))
	c.ARM9.Halt()
	c.ARM7.Halt()

	c.ARM9.Regs().SetR(0, 0x1234)
	c.IRQ9.SetEnable(0xFF)
	c.IRQ9.SetMaster(true)
	c.IRQ9.Raise(5)
	c.Divider.WriteNumerator(10, c.Sched)
	c.Divider.WriteDenominator(3, c.Sched)

	snap := c.Snapshot()

	// Mutate everything the snapshot captured.
	c.ARM9.Regs().SetR(0, 0)
	c.IRQ9.SetEnable(0)
	c.IRQ9.SetMaster(false)
	c.IRQ9.AcknowledgeRequest(^uint32(0))
	c.RunUntil(100) // let the divider resolve and drift the clock

	c.Restore(snap)

	test.ExpectEquality(t, c.ARM9.Regs().R(0), uint32(0x1234))
	test.ExpectEquality(t, c.IRQ9.Enable(), uint32(0xFF))
	test.ExpectEquality(t, c.IRQ9.Master(), true)
	test.ExpectEquality(t, c.IRQ9.Request(), uint32(1<<5))
	test.ExpectEquality(t, c.Divider.Numerator(), uint64(10))
	test.ExpectEquality(t, c.Divider.Denominator(), uint64(3))
}

