package armcore

import (
	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/schedule"
)

// baseCycles is the minimal bus-cycle charge for a single-cycle ALU
// instruction with no memory access, used by the handlers that don't do
// their own fine-grained timing (spec.md §9 notes the per-peripheral timing
// detail as a TODO the replacement should not guess beyond; this baseline
// keeps every instruction charging at least one sequential code fetch).
const baseCycles = schedule.Timestamp(1)

// Step executes exactly one instruction (ARM or Thumb, depending on the
// current T-bit) and returns the number of native cycles it cost, in this
// core's own clock domain (ARM7 cycles or ARM9 cycles, not yet converted to
// schedule.Timestamp ticks).
func (c *Core) Step() schedule.Timestamp {
	if c.halted {
		return baseCycles
	}

	pc := c.Banks.R(15)
	fetchAddr := pc - c.pcOffset()
	if !c.checkExecute(fetchAddr, bus.CPUAccess) {
		c.RaisePrefetchAbort()
		return baseCycles
	}

	if c.Thumb() {
		opcode := c.Bus.Read16(fetchAddr, bus.CPUAccess)
		index := int(opcode>>6) & 0x3ff
		c.advancePC()
		c.thumbTable[index](c, opcode)
	} else {
		instr := c.Bus.Read32(fetchAddr, bus.CPUAccess)
		c.advancePC()
		cond := psrCond(instr)
		if c.cfg.Variant == ARMv5TE && cond == 0xF {
			index := armDecodeIndex(instr)
			c.armTable[index](c, instr)
		} else if c.satisfiesCondition(instr, cond) {
			index := armDecodeIndex(instr)
			c.armTable[index](c, instr)
		}
		// condition false: the instruction already "executed" as a no-op;
		// advancePC() above is the only visible effect, matching spec.md
		// §4.7's "false skips execution, advances r15" for both cores. The
		// skipped instruction still costs baseCycles, like every other one;
		// no timing-table lookup is made.
	}
	return baseCycles
}

func psrCond(instr uint32) uint8 { return uint8(instr >> 28) }

// RunUntil advances this core until its local clock reaches targetARM9Time,
// expressed in the shared schedule.Timestamp domain (spec.md §2's batch
// loop: "runs the ARM9 to that time, then the ARM7"). The ARM9 core is the
// clock owner: only it pushes its consumed time into Sched via
// SetCurTimeAfter; the ARM7 tracks its own localTime purely to know when to
// stop, since Sched.CurTime() is defined on the ARM9 domain (spec.md §3).
func (c *Core) RunUntil(targetARM9Time schedule.Timestamp) {
	for c.localTime < targetARM9Time {
		if c.halted {
			next := schedule.Min(c.Sched.NextEventTime(), targetARM9Time)
			if next <= c.localTime {
				next = targetARM9Time
			}
			c.localTime = next
			if c.cfg.Variant == ARMv5TE {
				c.Sched.SetCurTimeAfter(c.localTime)
			}
			c.CheckIRQ()
			continue
		}

		c.CheckIRQ()
		native := c.Step()
		c.localTime += native * c.cfg.ClockDiv
		if c.cfg.Variant == ARMv5TE {
			c.Sched.SetCurTimeAfter(c.localTime)
		}
	}
}

// Halt enters WFI: the local clock advances to the next scheduler event (or
// the batch target, whichever RunUntil is driving toward) without executing
// instructions, per spec.md §4.7/§5.
func (c *Core) Halt() {
	c.halted = true
}
