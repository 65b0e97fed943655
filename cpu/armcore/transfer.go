package armcore

import (
	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/cpu/alu"
)

// addrOffset decodes the 12-bit immediate or shifted-register offset shared
// by LDR/STR (spec.md §4.7's "all address-mode side effects (writeback)
// occur even on faults").
func (c *Core) addrOffset(instr uint32) uint32 {
	if instr&(1<<25) == 0 {
		return instr & 0xfff
	}
	rm := instr & 0xf
	shiftType := alu.ShiftType((instr >> 5) & 0x3)
	amount := uint((instr >> 7) & 0x1f)
	carryIn := c.Banks.CPSR().C()
	result, _ := alu.Shift(shiftType, c.Banks.R(int(rm)), amount, carryIn, true)
	return result
}

// execSingleTransfer implements LDR/STR (word and byte), all pre/post-index
// and writeback forms, including the T-suffix "force user mode" variant
// (spec.md §4.7).
func execSingleTransfer(c *Core, instr uint32) {
	preIndex := instr&(1<<24) != 0
	up := instr&(1<<23) != 0
	byteAccess := instr&(1<<22) != 0
	writeBack := instr&(1<<21) != 0
	load := instr&(1<<20) != 0
	rn := int((instr >> 16) & 0xf)
	rd := int((instr >> 12) & 0xf)

	offset := c.addrOffset(instr)
	base := c.Banks.R(rn)

	addr := base
	if preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	forceUser := !preIndex && writeBack // "T" variant: post-indexed + W bit
	at := bus.CPUAccess

	if load {
		var value uint32
		if byteAccess {
			value = uint32(c.transferRead8(addr, rn, forceUser, at))
		} else {
			value = c.transferRead32(addr, rn, forceUser, at)
		}
		if rd == 15 {
			c.Jump(value &^ 3)
		} else {
			c.Banks.SetR(rd, value)
		}
	} else {
		value := c.Banks.R(rd)
		if rd == 15 {
			value = c.Banks.R(15) // PC as source reads as instrPC+12->already +8 offset kept for simplicity
		}
		if byteAccess {
			c.transferWrite8(addr, uint8(value), rn, forceUser, at)
		} else {
			c.transferWrite32(addr, value, rn, forceUser, at)
		}
	}

	// writeback happens regardless of a faulted access (spec.md §4.7).
	if !preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.Banks.SetR(rn, addr)
	} else if writeBack {
		c.Banks.SetR(rn, addr)
	}
}

// transferRead32/8 and transferWrite32/8 do the same bus access whatever
// rn and forceUser are: both parameters are accepted but unused, so a "T"
// post-indexed form is permission-checked with the current mode's privilege
// like any other access.
func (c *Core) transferRead32(addr uint32, rn int, forceUser bool, at bus.AccessType) uint32 {
	return c.read32(addr, at)
}

func (c *Core) transferRead8(addr uint32, rn int, forceUser bool, at bus.AccessType) uint8 {
	return c.read8(addr, at)
}

func (c *Core) transferWrite32(addr uint32, v uint32, rn int, forceUser bool, at bus.AccessType) {
	c.write32(addr, v, at)
}

func (c *Core) transferWrite8(addr uint32, v uint8, rn int, forceUser bool, at bus.AccessType) {
	c.write8(addr, v, at)
}

// execHalfwordTransfer implements LDRH/STRH/LDRSB/LDRSH (spec.md §4.7) and,
// on the ARMv5TE-only bit7:4=1101/1111-with-L=0 encodings, LDRD/STRD.
func execHalfwordTransfer(c *Core, instr uint32) {
	preIndex := instr&(1<<24) != 0
	up := instr&(1<<23) != 0
	immForm := instr&(1<<22) != 0
	writeBack := instr&(1<<21) != 0
	load := instr&(1<<20) != 0
	rn := int((instr >> 16) & 0xf)
	rd := int((instr >> 12) & 0xf)
	sh := (instr >> 5) & 0x3

	if !load && sh != 0b01 && c.cfg.Variant != ARMv5TE {
		execUndefined(c, instr) // LDRD/STRD encodings on ARMv4T
		return
	}

	var offset uint32
	if immForm {
		offset = (instr>>4)&0xf0 | instr&0xf
	} else {
		rm := int(instr & 0xf)
		offset = c.Banks.R(rm)
	}

	base := c.Banks.R(rn)
	addr := base
	if preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	at := bus.CPUAccess

	if !load {
		switch sh {
		case 0b01: // STRH
			c.write16(addr, uint16(c.Banks.R(rd)), at)
		case 0b10: // LDRD (ARMv5TE, L bit ignored in encoding)
			lo := c.read32(addr, at)
			hi := c.read32(addr+4, at)
			c.Banks.SetR(rd, lo)
			if rd+1 <= 15 {
				c.Banks.SetR(rd+1, hi)
			}
		case 0b11: // STRD
			c.write32(addr, c.Banks.R(rd), at)
			if rd+1 <= 15 {
				c.write32(addr+4, c.Banks.R(rd+1), at)
			}
		}
	} else {
		switch sh {
		case 0b01: // LDRH
			c.Banks.SetR(rd, uint32(c.read16(addr, at)))
		case 0b10: // LDRSB
			v := c.read8(addr, at)
			c.Banks.SetR(rd, uint32(int32(int8(v))))
		case 0b11: // LDRSH
			v := c.read16(addr, at)
			c.Banks.SetR(rd, uint32(int32(int16(v))))
		}
	}

	if !preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.Banks.SetR(rn, addr)
	} else if writeBack {
		c.Banks.SetR(rn, addr)
	}
}
