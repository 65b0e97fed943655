package armcore

// execBranch implements B and BL, and on ARMv5TE also the BLX
// immediate-offset form: BLX shares B/BL's bits27:20 | 7:4 table slot and is
// only distinguished by the instruction's condition field being the
// unconditional encoding 0xF, which Step() routes here unfiltered for that
// case (spec.md §4.7, ARMv5TE-only unconditional instruction space). BLX
// additionally switches to Thumb state and takes an extra bit of offset
// precision from bit 24 (the "H" bit), the bit B/BL use as the link flag.
func execBranch(c *Core, instr uint32) {
	isBLX := c.cfg.Variant == ARMv5TE && instr>>28 == 0xF

	offset := instr & 0xffffff
	if offset&0x800000 != 0 {
		offset |= 0xff000000
	}
	offset <<= 2
	if isBLX && instr&(1<<24) != 0 {
		offset += 2
	}

	link := isBLX || instr&(1<<24) != 0
	// Step() already ran advancePC() before this handler: InstructionPC()
	// reads as this instruction's address + 4, one instruction's width ahead
	// of the true fetch address. Adding the remaining 4 recovers the
	// architectural "PC reads as address+8" convention the branch-target
	// formula needs; the link value doesn't need the adjustment, since
	// address+4 is exactly the address of the instruction after this one.
	target := c.InstructionPC() + 4 + offset

	if link {
		c.Banks.SetR(14, c.InstructionPC())
	}
	if isBLX {
		cpsr := c.Banks.CPSR().SetT(true)
		c.Banks.SetCPSRFlagsAndControl(cpsr)
	}
	c.Jump(target)
}

// execBranchExchange implements BX (both variants) and, on ARMv5TE, BLX
// register-form: jump to Rm with instruction-set interworking driven by its
// bit 0 (spec.md §4.7).
func execBranchExchange(c *Core, instr uint32) {
	rm := int(instr & 0xf)
	target := c.Banks.R(rm)
	isBLX := c.cfg.Variant == ARMv5TE && (instr>>4)&0xf == 0x3
	if isBLX {
		c.Banks.SetR(14, c.InstructionPC())
	}
	c.JumpExchange(target)
}

// execCountLeadingZeros implements the ARMv5TE CLZ instruction.
func execCountLeadingZeros(c *Core, instr uint32) {
	rd := int((instr >> 12) & 0xf)
	rm := int(instr & 0xf)

	v := c.Banks.R(rm)
	count := uint32(0)
	if v == 0 {
		count = 32
	} else {
		for v&0x80000000 == 0 {
			count++
			v <<= 1
		}
	}
	c.Banks.SetR(rd, count)
}
