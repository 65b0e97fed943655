package armcore

import "github.com/jetsetilly/twincore/psr"

// satisfiesCondition evaluates instr's encoded condition field against the
// current CPSR, using the ARM7 or ARM9 truth table per this core's variant
// (spec.md §4.1's NV divergence). Callers on the ARM9 path already route a
// cond of 0xF to the unconditional table before reaching here (run.go); this
// is kept defensive rather than assuming that invariant.
func (c *Core) satisfiesCondition(instr uint32, cond uint8) bool {
	w := c.Banks.CPSR()
	if c.cfg.Variant == ARMv5TE {
		return psr.SatisfiesARM9(w, psr.Cond(cond))
	}
	return psr.SatisfiesARM7(w, psr.Cond(cond))
}
