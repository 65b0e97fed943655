package armcore

import "github.com/jetsetilly/twincore/bus"

// execThumbLoadAddress implements format 12: ADD Rd, PC|SP, #imm8*4.
func execThumbLoadAddress(c *Core, opcode uint16) {
	sp := opcode&0x0800 != 0
	rd := int((opcode & 0x0700) >> 8)
	imm := uint32(opcode&0xff) << 2

	var base uint32
	if sp {
		base = c.Banks.R(13)
	} else {
		// InstructionPC() already reflects advancePC()'s +2, one instruction
		// ahead of the fetch address; +2 more recovers the Thumb "PC reads as
		// address+4" convention this instruction uses.
		base = (c.InstructionPC() + 2) &^ 3
	}
	c.Banks.SetR(rd, base+imm)
}

// execThumbAddOffsetToSP implements format 13: ADD SP, #+/-imm7*4.
func execThumbAddOffsetToSP(c *Core, opcode uint16) {
	negative := opcode&0x80 != 0
	imm := uint32(opcode&0x7f) << 2

	sp := c.Banks.R(13)
	if negative {
		sp -= imm
	} else {
		sp += imm
	}
	c.Banks.SetR(13, sp)
}

// execThumbPushPopRegisters implements format 14: PUSH/POP {Rlist, LR|PC}.
func execThumbPushPopRegisters(c *Core, opcode uint16) {
	load := opcode&0x0800 != 0
	includeExtra := opcode&0x0100 != 0 // LR on PUSH, PC on POP
	rlist := opcode & 0xff

	at := bus.CPUAccess
	sp := c.Banks.R(13)

	if load {
		for i := 0; i < 8; i++ {
			if rlist&(1<<uint(i)) != 0 {
				c.Banks.SetR(i, c.read32(sp, at))
				sp += 4
			}
		}
		if includeExtra {
			value := c.read32(sp, at)
			sp += 4
			c.JumpExchange(value)
		}
		c.Banks.SetR(13, sp)
		return
	}

	if includeExtra {
		sp -= 4
	}
	for i := 7; i >= 0; i-- {
		if rlist&(1<<uint(i)) != 0 {
			sp -= 4
		}
	}
	writeAddr := sp
	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			c.write32(writeAddr, c.Banks.R(i), at)
			writeAddr += 4
		}
	}
	if includeExtra {
		c.write32(writeAddr, c.Banks.R(14), at)
	}
	c.Banks.SetR(13, sp)
}

// execThumbMultipleLoadStore implements format 15: LDMIA/STMIA Rb!, {Rlist}.
func execThumbMultipleLoadStore(c *Core, opcode uint16) {
	load := opcode&0x0800 != 0
	rb := int((opcode & 0x0700) >> 8)
	rlist := opcode & 0xff

	at := bus.CPUAccess
	addr := c.Banks.R(rb)

	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) == 0 {
			continue
		}
		if load {
			c.Banks.SetR(i, c.read32(addr, at))
		} else {
			c.write32(addr, c.Banks.R(i), at)
		}
		addr += 4
	}

	if rlist == 0 {
		// empty register list: r15 is transferred and Rb advances by 64
		// (mirrors the ARM-mode empty-list rule, ARM ARM A4.1.20 note).
		if load {
			c.Jump(c.read32(addr, at) &^ 1)
		} else {
			c.write32(addr, c.Banks.R(15), at)
		}
		addr += 64
	}

	c.Banks.SetR(rb, addr)
}

// execThumbConditionalBranch implements format 16: Bcond label.
func execThumbConditionalBranch(c *Core, opcode uint16) {
	cond := uint8((opcode & 0x0f00) >> 8)
	if !c.satisfiesCondition(uint32(opcode), cond) {
		return
	}
	offset := int32(int8(opcode & 0xff))
	c.Jump(uint32(int32(c.InstructionPC()+2) + offset*2))
}

// execThumbSoftwareInterrupt implements format 17: SWI #imm8.
func execThumbSoftwareInterrupt(c *Core, opcode uint16) {
	c.RaiseSWI()
}

// execThumbUnconditionalBranch implements format 18: B label.
func execThumbUnconditionalBranch(c *Core, opcode uint16) {
	offset := opcode & 0x7ff
	signed := int32(int16(offset<<5)) >> 4 // sign-extend the 11-bit field, *2
	c.Jump(uint32(int32(c.InstructionPC()+2) + signed))
}

// execThumbLongBranchWithLink implements format 19's first half-word
// (H=0b10): LR := PC + (offset_high << 12), pending the suffix half-word.
func execThumbLongBranchWithLink(c *Core, opcode uint16) {
	offset := uint32(opcode & 0x7ff)
	signed := int32(offset<<21) >> 9 // sign-extend the 11-bit field into bits 22:12
	lr := uint32(int32(c.InstructionPC()+2) + signed)
	c.Banks.SetR(14, lr)
}

// execThumbLongBranchWithLinkSuffix implements format 19's second half-word
// (H=0b11): target = LR + (offset_low << 1), LR := (PC of the instruction
// after this one) | 1, branch, stay in Thumb state.
func execThumbLongBranchWithLinkSuffix(c *Core, opcode uint16) {
	offset := uint32(opcode&0x7ff) << 1
	target := c.Banks.R(14) + offset

	// InstructionPC() here already reads as this instruction's own
	// address + 2, i.e. the address of the instruction after it.
	nextInstr := c.InstructionPC()
	c.Banks.SetR(14, nextInstr|1)
	c.Jump(target)
}

// execThumbBLXSuffix implements the ARMv5TE-only BLX suffix half-word
// (H=0b01): identical to the BL suffix except the low bit of the offset is
// forced to 0 (word alignment) and the core switches to ARM state.
func execThumbBLXSuffix(c *Core, opcode uint16) {
	offset := uint32(opcode&0x7ff) << 1
	target := c.Banks.R(14) + offset
	target &^= 3

	nextInstr := c.InstructionPC()
	c.Banks.SetR(14, nextInstr|1)

	cpsr := c.Banks.CPSR().SetT(false)
	c.Banks.SetCPSRFlagsAndControl(cpsr)
	c.Jump(target)
}
