package armcore

import "github.com/jetsetilly/twincore/psr"

// vectorBase returns 0x00000000 or 0xFFFF0000 depending on the ARM9's CP15
// high-vectors flag (always 0 for the ARM7, spec.md §4.7/§6).
func (c *Core) vectorBase() uint32 {
	if c.highVectors {
		return 0xFFFF0000
	}
	return 0
}

// Exception vector offsets (spec.md §6).
const (
	vectorReset     = 0x00
	vectorUndefined = 0x04
	vectorSWI       = 0x08
	vectorPrefetch  = 0x0C
	vectorData      = 0x10
	vectorReserved  = 0x14
	vectorIRQ       = 0x18
	vectorFIQ       = 0x1C
)

// enterException performs the common exception-entry sequence (spec.md
// §4.7): switch mode, save the outgoing CPSR into the new mode's SPSR, save
// the return address (+4 or +8 depending on exception class) into r14, mask
// IRQ (and FIQ for reset/FIQ), clear T, and jump to the vector.
func (c *Core) enterException(mode psr.Mode, vectorOffset uint32, returnAddr uint32, maskFIQ bool) {
	oldCPSR := c.Banks.CPSR()

	_ = c.Banks.SetMode(mode)
	c.Banks.SetSPSR(oldCPSR)

	c.Banks.SetR(14, returnAddr)

	newCPSR := oldCPSR.SetMode(mode).SetT(false).SetI(true)
	if maskFIQ {
		newCPSR = newCPSR.SetF(true)
	}
	c.Banks.SetCPSRFlagsAndControl(newCPSR)

	c.Jump(c.vectorBase() + vectorOffset)
}

// RaiseSWI enters the Supervisor exception for a SWI instruction. Called
// from within the SWI handler itself, after Step() has already advanced r15
// past this instruction, so InstructionPC() already reads as the address of
// the instruction after the SWI — exactly the return address this exception
// wants.
func (c *Core) RaiseSWI() {
	c.enterException(psr.Supervisor, vectorSWI, c.InstructionPC(), false)
}

// RaiseUndefined enters the Undefined-instruction exception. Used both for
// genuinely undefined encodings and for the "decoder has no defined entry"
// fallback spec.md §7 requires (log once, treat as undefined instruction).
// Same return-address reasoning as RaiseSWI: it always runs from within the
// offending instruction's own handler.
func (c *Core) RaiseUndefined() {
	c.enterException(psr.Undefined, vectorUndefined, c.InstructionPC(), false)
}

// RaisePrefetchAbort enters the Abort (prefetch) exception: return address
// is the aborting instruction's address + 4, regardless of Thumb/ARM state.
// Called from Step() before advancePC() runs, so InstructionPC() here still
// reads as the aborting instruction's own address.
func (c *Core) RaisePrefetchAbort() {
	c.enterException(psr.Abort, vectorPrefetch, c.InstructionPC()+4, false)
}

// RaiseDataAbort enters the Abort (data) exception: return address is the
// aborting instruction's address + 8. Called from within a load/store
// handler, after advancePC() has already moved r15 one instruction ahead;
// subtracting that instruction's width first recovers the true aborting
// address before adding the exception's own +8.
func (c *Core) RaiseDataAbort() {
	c.enterException(psr.Abort, vectorData, c.InstructionPC()-instrWidth(c.Thumb())+8, false)
}

// RaiseIRQ enters the IRQ exception unconditionally; CheckIRQ is the caller
// that tests for a pending line and a clear CPSR I bit, between
// instructions (spec.md §4.7's exception list, §5's batch-boundary
// suspension semantics).
func (c *Core) RaiseIRQ() {
	c.enterException(psr.IRQ, vectorIRQ, c.InstructionPC()+4+instrWidth(c.Thumb()), false)
}

// RaiseFIQ enters the FIQ exception, additionally masking further FIQs.
func (c *Core) RaiseFIQ() {
	c.enterException(psr.FIQ, vectorFIQ, c.InstructionPC()+4+instrWidth(c.Thumb()), true)
}

func instrWidth(thumb bool) uint32 {
	if thumb {
		return 2
	}
	return 4
}

// CheckIRQ wakes a halted core or, if unmasked IRQ is pending, enters the
// IRQ exception prologue. The driver calls this once per instruction
// boundary (or after a WFI wake), matching spec.md §4.7's WFI/IRQ wake
// semantics and §5's "driver regains control only at the batch boundary"
// note — this check happens inside the batch, at instruction granularity.
func (c *Core) CheckIRQ() {
	if !c.Irqs.Pending() {
		return
	}
	if c.halted {
		c.halted = false
	}
	if !c.Banks.CPSR().I() {
		c.RaiseIRQ()
	}
}
