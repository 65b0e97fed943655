package console

import (
	"github.com/jetsetilly/twincore/coproc"
	"github.com/jetsetilly/twincore/cpu/armcore"
	"github.com/jetsetilly/twincore/irq"
	"github.com/jetsetilly/twincore/schedule"
)

// IrqState is the flat, pointer-free snapshot of one core's interrupt
// controller (spec.md §6's savestate layout has no explicit IRQ section,
// but "no pointers; all offsets" applies to every piece of mutable core
// state, and a halted-CPU's wake condition depends on this).
type IrqState struct {
	Enable  uint32
	Request uint32
	Master  bool
}

// CoprocState is the divider and sqrt units' register contents. Neither
// unit exposes its own Snapshot/Restore (both are small enough that the
// console, which already knows their concrete type, copies the registers
// directly); the scheduler completion event each owns is restored as part
// of Schedule's own Snapshot/Restore, re-bound via SetEvent at construction
// time since NewDivider/NewSqrt already did that for this Core's instances.
type CoprocState struct {
	DivControl     coproc.DivControl
	DivNumerator   uint64
	DivDenominator uint64
	DivQuotient    uint64
	DivRemainder   uint64

	SqrtControl coproc.SqrtControl
	SqrtInput   uint64
	SqrtResult  uint32
}

// State is everything a Core needs to resume identically: both cores'
// architectural state, both interrupt controllers, the coprocessor
// registers, and the scheduler's time bookkeeping (spec.md §6).
type State struct {
	ARM9 armcore.State
	ARM7 armcore.State

	IRQ9 IrqState
	IRQ7 IrqState

	Coproc CoprocState

	Sched schedule.Snapshot
}

func snapshotIrq(l *irq.Lines) IrqState {
	return IrqState{Enable: l.Enable(), Request: l.Request(), Master: l.Master()}
}

// restoreIrq restores a Lines controller's enable/master/request state.
// Lines has no bulk "set request mask" setter (only Raise/AcknowledgeRequest,
// matching the guest-visible register semantics), so the request mask is
// restored bit-by-bit: clear everything, then raise exactly the bits the
// snapshot recorded.
func restoreIrq(l *irq.Lines, s IrqState) {
	l.SetEnable(s.Enable)
	l.SetMaster(s.Master)
	l.AcknowledgeRequest(^uint32(0))
	for i := 0; i < 32; i++ {
		if s.Request&(1<<uint(i)) != 0 {
			l.Raise(irq.Source(i))
		}
	}
}

// Snapshot captures the console's full architectural state.
func (c *Core) Snapshot() State {
	return State{
		ARM9: c.ARM9.Core.Snapshot(),
		ARM7: c.ARM7.Core.Snapshot(),
		IRQ9: snapshotIrq(c.IRQ9),
		IRQ7: snapshotIrq(c.IRQ7),
		Coproc: CoprocState{
			DivControl:     c.Divider.Control(),
			DivNumerator:   c.Divider.Numerator(),
			DivDenominator: c.Divider.Denominator(),
			DivQuotient:    c.Divider.Quotient(),
			DivRemainder:   c.Divider.Remainder(),
			SqrtControl:    c.Sqrt.Control(),
			SqrtInput:      c.Sqrt.Input(),
			SqrtResult:     c.Sqrt.Result(),
		},
		Sched: c.Sched.Snapshot(),
	}
}

// Restore is the inverse of Snapshot.
func (c *Core) Restore(s State) {
	c.ARM9.Core.Restore(s.ARM9)
	c.ARM7.Core.Restore(s.ARM7)
	restoreIrq(c.IRQ9, s.IRQ9)
	restoreIrq(c.IRQ7, s.IRQ7)
	c.Sched.Restore(s.Sched)

	// Coprocessor registers are restored by direct field assignment via the
	// small write helpers each unit already exposes; none of these writes
	// should reschedule a fresh completion since Sched.Restore already put
	// the original completion event back.
	c.Divider.RestoreRegisters(s.Coproc.DivControl, s.Coproc.DivNumerator, s.Coproc.DivDenominator, s.Coproc.DivQuotient, s.Coproc.DivRemainder)
	c.Sqrt.RestoreRegisters(s.Coproc.SqrtControl, s.Coproc.SqrtInput, s.Coproc.SqrtResult)
}
