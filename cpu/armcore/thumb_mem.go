package armcore

import "github.com/jetsetilly/twincore/bus"

// execThumbPCRelativeLoad implements format 6: LDR Rd, [PC, #imm8*4]. The
// base is the current instruction's address rounded down to a word boundary
// plus 4, per the ARM7TDMI Data Sheet's note that bit 1 of PC is forced to 0
// here regardless of the actual alignment.
func execThumbPCRelativeLoad(c *Core, opcode uint16) {
	rd := int((opcode & 0x0700) >> 8)
	imm := uint32(opcode&0xff) << 2

	base := (c.InstructionPC() + 2) &^ 3
	value := c.read32(base+imm, bus.CPUAccess)
	c.Banks.SetR(rd, value)
}

// execThumbLoadStoreRegOffset implements format 7: LDR/STR{B} Rd, [Rb, Ro].
func execThumbLoadStoreRegOffset(c *Core, opcode uint16) {
	load := opcode&0x0800 != 0
	byteAccess := opcode&0x0400 != 0
	ro := int((opcode & 0x1c0) >> 6)
	rb := int((opcode & 0x38) >> 3)
	rd := int(opcode & 0x7)

	addr := c.Banks.R(rb) + c.Banks.R(ro)
	at := bus.CPUAccess

	if load {
		if byteAccess {
			c.Banks.SetR(rd, uint32(c.read8(addr, at)))
		} else {
			c.Banks.SetR(rd, c.read32(addr, at))
		}
	} else {
		if byteAccess {
			c.write8(addr, uint8(c.Banks.R(rd)), at)
		} else {
			c.write32(addr, c.Banks.R(rd), at)
		}
	}
}

// execThumbLoadStoreSignExtended implements format 8: STRH/LDRH/LDRSB/LDRSH
// with a register offset.
func execThumbLoadStoreSignExtended(c *Core, opcode uint16) {
	hFlag := opcode&0x0800 != 0
	signExtend := opcode&0x0400 != 0
	ro := int((opcode & 0x1c0) >> 6)
	rb := int((opcode & 0x38) >> 3)
	rd := int(opcode & 0x7)

	addr := c.Banks.R(rb) + c.Banks.R(ro)
	at := bus.CPUAccess

	switch {
	case !signExtend && !hFlag: // STRH
		c.write16(addr, uint16(c.Banks.R(rd)), at)
	case !signExtend && hFlag: // LDRH
		c.Banks.SetR(rd, uint32(c.read16(addr, at)))
	case signExtend && !hFlag: // LDRSB
		v := c.read8(addr, at)
		c.Banks.SetR(rd, uint32(int32(int8(v))))
	default: // LDRSH
		v := c.read16(addr, at)
		c.Banks.SetR(rd, uint32(int32(int16(v))))
	}
}

// execThumbLoadStoreImmOffset implements format 9: LDR/STR{B} Rd, [Rb, #imm].
// The immediate is word-scaled for the word form and unscaled for the byte
// form (ARM7TDMI Data Sheet format 9).
func execThumbLoadStoreImmOffset(c *Core, opcode uint16) {
	byteAccess := opcode&0x1000 != 0
	load := opcode&0x0800 != 0
	imm := uint32((opcode & 0x7c0) >> 6)
	rb := int((opcode & 0x38) >> 3)
	rd := int(opcode & 0x7)

	if !byteAccess {
		imm <<= 2
	}

	addr := c.Banks.R(rb) + imm
	at := bus.CPUAccess

	if load {
		if byteAccess {
			c.Banks.SetR(rd, uint32(c.read8(addr, at)))
		} else {
			c.Banks.SetR(rd, c.read32(addr, at))
		}
	} else {
		if byteAccess {
			c.write8(addr, uint8(c.Banks.R(rd)), at)
		} else {
			c.write32(addr, c.Banks.R(rd), at)
		}
	}
}

// execThumbLoadStoreHalfword implements format 10: LDRH/STRH Rd, [Rb, #imm5*2].
func execThumbLoadStoreHalfword(c *Core, opcode uint16) {
	load := opcode&0x0800 != 0
	imm := uint32((opcode&0x7c0)>>6) << 1
	rb := int((opcode & 0x38) >> 3)
	rd := int(opcode & 0x7)

	addr := c.Banks.R(rb) + imm
	at := bus.CPUAccess

	if load {
		c.Banks.SetR(rd, uint32(c.read16(addr, at)))
	} else {
		c.write16(addr, uint16(c.Banks.R(rd)), at)
	}
}

// execThumbSPRelativeLoadStore implements format 11: LDR/STR Rd, [SP, #imm8*4].
func execThumbSPRelativeLoadStore(c *Core, opcode uint16) {
	load := opcode&0x0800 != 0
	rd := int((opcode & 0x0700) >> 8)
	imm := uint32(opcode&0xff) << 2

	addr := c.Banks.R(13) + imm
	at := bus.CPUAccess

	if load {
		c.Banks.SetR(rd, c.read32(addr, at))
	} else {
		c.write32(addr, c.Banks.R(rd), at)
	}
}
