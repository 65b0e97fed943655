package console

import (
	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/coproc"
	"github.com/jetsetilly/twincore/cpu/arm7"
	"github.com/jetsetilly/twincore/cpu/arm9"
	"github.com/jetsetilly/twincore/irq"
	"github.com/jetsetilly/twincore/logger"
	"github.com/jetsetilly/twincore/schedule"
)

// Scheduler slots the console itself owns. A host wiring DMA channels and
// timers onto the same Schedule should allocate its own slots starting at
// ReservedSlots, per spec.md §3's "scheduler slot: a pre-allocated identity
// under which exactly one future event can be scheduled".
const (
	SlotDivider schedule.Slot = iota
	SlotSqrt
	ReservedSlots
)

// Core is the dual-CPU execution engine: the ARM9 and ARM7 interpreters,
// their independent interrupt controllers, the coprocessor math units (ARM9
// only), and the shared scheduler that orders all of it (spec.md §2's
// "control flow" and §5's cooperative, single-threaded model).
type Core struct {
	Model Model

	Sched *schedule.Schedule

	ARM9 *arm9.ARM9
	ARM7 *arm7.ARM7

	IRQ9 *irq.Lines
	IRQ7 *irq.Lines

	Divider *coproc.Divider
	Sqrt    *coproc.Sqrt
}

// New returns a Core wired over bus9 (the ARM9's page/timing/region bus) and
// bus7 (the ARM7's), with capacity scheduler slots (must be at least
// ReservedSlots; a real console adds one slot per timer and DMA channel on
// top of that).
func New(model Model, bus9, bus7 *bus.Bus, capacity int) *Core {
	if capacity < int(ReservedSlots) {
		capacity = int(ReservedSlots)
	}
	sched := schedule.New(capacity)

	irq9 := &irq.Lines{}
	irq7 := &irq.Lines{}

	var opts []arm9.Option
	if model.HighVectors {
		opts = append(opts, arm9.WithHighVectors)
	}
	if model.AccuratePipeline {
		opts = append(opts, arm9.WithAccuratePipeline)
	}

	c := &Core{
		Model:   model,
		Sched:   sched,
		ARM9:    arm9.New(bus9, irq9, sched, opts...),
		ARM7:    arm7.New(bus7, irq7, sched),
		IRQ9:    irq9,
		IRQ7:    irq7,
		Divider: coproc.NewDivider(SlotDivider, sched),
		Sqrt:    coproc.NewSqrt(SlotSqrt, sched),
	}
	return c
}

// RunUntil is the batch loop spec.md §2 describes: compute a batch end (the
// earliest of the next due event, target, and the model's batch-cycle cap),
// run the ARM9 to it, then the ARM7 (whose clock is half), then drain every
// event due at or before that time, and repeat until target is reached.
func (c *Core) RunUntil(target schedule.Timestamp) {
	c.Sched.SetTargetTimeBefore(target)

	for c.Sched.CurTime() < target {
		batchEnd := schedule.Min(c.Sched.BatchEnd(c.Model.BatchCycles), target)

		c.ARM9.RunUntil(batchEnd)
		c.ARM7.RunUntil(batchEnd)

		// The ARM9 is the clock owner (spec.md §3); its RunUntil already
		// pushed cur_time forward as it went. A core parked in WFI for the
		// whole batch leaves cur_time short of batchEnd, which would spin
		// this loop forever without due events to wake it — so the loop
		// itself is the monotone backstop.
		c.Sched.SetCurTimeAfter(batchEnd)

		c.drainEvents()
	}

	c.Sched.SetTargetTime(schedule.Forever)
}

// drainEvents services every event due at or before cur_time, in timestamp
// order with ties broken by ascending slot index (spec.md §4.8) — that
// ordering is exactly what PopPendingEvent already guarantees, so this is a
// plain drain loop dispatching on the popped kind.
func (c *Core) drainEvents() {
	for {
		kind, _, ok := c.Sched.PopPendingEvent()
		if !ok {
			return
		}
		switch kind.(type) {
		case coproc.DivResultReady:
			c.Divider.HandleResultReady()
		case coproc.SqrtResultReady:
			c.Sqrt.HandleResultReady()
		default:
			logger.Logf("console", "unhandled scheduler event kind %T", kind)
		}
	}
}

// InvalidateWord notifies both cores that backing memory at addr changed
// underneath them (spec.md §6), used by DMA and debuggers.
func (c *Core) InvalidateWord(addr uint32) {
	c.ARM9.InvalidateWord(addr)
	c.ARM7.InvalidateWord(addr)
}

// InvalidateWordRange is InvalidateWord over [lo, hi], inclusive.
func (c *Core) InvalidateWordRange(lo, hi uint32) {
	c.ARM9.InvalidateWordRange(lo, hi)
	c.ARM7.InvalidateWordRange(lo, hi)
}
