package armcore

import (
	"github.com/jetsetilly/twincore/cpu/alu"
	"github.com/jetsetilly/twincore/psr"
)

// dpOperand2 decodes a data-processing instruction's second operand: either
// a rotated 8-bit immediate (with its own shifter carry-out) or a register
// shifted by an immediate amount or by another register's low byte
// (spec.md §4.7).
func (c *Core) dpOperand2(instr uint32) (value uint32, shifterCarry bool) {
	carryIn := c.Banks.CPSR().C()

	if instr&(1<<25) != 0 {
		imm := instr & 0xff
		rot := (instr >> 8 & 0xf) * 2
		if rot == 0 {
			return imm, carryIn
		}
		return imm>>rot | imm<<(32-rot), imm&(1<<(rot-1)) != 0
	}

	rm := instr & 0xf
	shiftType := alu.ShiftType((instr >> 5) & 0x3)
	var amount uint
	var immediate bool
	if instr&(1<<4) != 0 {
		// register-specified shift amount: using Rs adds an internal cycle
		// and Rm's PC reads as instrPC+12 rather than +8 in this form. Rm=15
		// here reads raw R(15), which after advancePC() in Step() is exactly
		// instrPC+12 (ARM ARM A5.1.1).
		rs := (instr >> 8) & 0xf
		amount = uint(c.Banks.R(int(rs)) & 0xff)
		immediate = false
		if amount == 0 {
			return c.Banks.R(int(rm)), carryIn
		}
	} else {
		amount = uint((instr >> 7) & 0x1f)
		immediate = true
	}

	value = c.Banks.R(int(rm))
	result, out := alu.Shift(shiftType, value, amount, carryIn, immediate)
	return result, out
}

// dpOp is one of the sixteen ARM data-processing operations.
type dpOp uint8

const (
	dpAND dpOp = iota
	dpEOR
	dpSUB
	dpRSB
	dpADD
	dpADC
	dpSBC
	dpRSC
	dpTST
	dpTEQ
	dpCMP
	dpCMN
	dpORR
	dpMOV
	dpBIC
	dpMVN
)

func execDataProcessing(c *Core, instr uint32) {
	op := dpOp((instr >> 21) & 0xf)
	s := instr&(1<<20) != 0
	rn := int((instr >> 16) & 0xf)
	rd := int((instr >> 12) & 0xf)

	op2, shiftCarry := c.dpOperand2(instr)
	a := c.Banks.R(rn)

	var result uint32
	var n, z, cOut, v bool
	logical := false

	switch op {
	case dpAND:
		result = a & op2
		logical = true
	case dpEOR:
		result = a ^ op2
		logical = true
	case dpSUB:
		result, n, z, cOut, v = alu.SubWithCarry(a, op2, true)
	case dpRSB:
		result, n, z, cOut, v = alu.SubWithCarry(op2, a, true)
	case dpADD:
		result, n, z, cOut, v = alu.AddWithCarry(a, op2, false)
	case dpADC:
		result, n, z, cOut, v = alu.AddWithCarry(a, op2, c.Banks.CPSR().C())
	case dpSBC:
		result, n, z, cOut, v = alu.SubWithCarry(a, op2, c.Banks.CPSR().C())
	case dpRSC:
		result, n, z, cOut, v = alu.SubWithCarry(op2, a, c.Banks.CPSR().C())
	case dpTST:
		result = a & op2
		logical = true
	case dpTEQ:
		result = a ^ op2
		logical = true
	case dpCMP:
		result, n, z, cOut, v = alu.SubWithCarry(a, op2, true)
	case dpCMN:
		result, n, z, cOut, v = alu.AddWithCarry(a, op2, false)
	case dpORR:
		result = a | op2
		logical = true
	case dpMOV:
		result = op2
		logical = true
	case dpBIC:
		result = a &^ op2
		logical = true
	case dpMVN:
		result = ^op2
		logical = true
	}

	if logical {
		n = result&0x80000000 != 0
		z = result == 0
		cOut = shiftCarry
		v = c.Banks.CPSR().V()
	}

	isTestOp := op == dpTST || op == dpTEQ || op == dpCMP || op == dpCMN
	if !isTestOp {
		if rd == 15 {
			if s {
				// MOVS/ADDS etc with Rd=r15: CPSR <- SPSR, a privileged mode
				// restore (spec.md §4.7).
				c.Banks.SetCPSRFlagsAndControl(c.Banks.SPSR())
				if err := c.Banks.SetMode(c.Banks.SPSR().Mode()); err != nil {
					c.log("%v", err)
				}
			}
			c.Jump(result)
			return
		}
		c.Banks.SetR(rd, result)
	}

	if s && (rd != 15 || isTestOp) {
		w := c.Banks.CPSR().SetN(n).SetZ(z).SetC(cOut).SetV(v)
		c.Banks.SetCPSRFlagsAndControl(w)
	}
}

// execPSRTransfer implements MRS (PSR -> register) and MSR (register/imm ->
// PSR, whole word or flags-only), spec.md §4.7.
func execPSRTransfer(c *Core, instr uint32) {
	usesSPSR := instr&(1<<22) != 0
	isMSR := instr&(1<<21) != 0

	if !isMSR {
		rd := int((instr >> 12) & 0xf)
		if usesSPSR {
			c.Banks.SetR(rd, uint32(c.Banks.SPSR()))
		} else {
			c.Banks.SetR(rd, uint32(c.Banks.CPSR()))
		}
		return
	}

	var value uint32
	if instr&(1<<25) != 0 {
		imm := instr & 0xff
		rot := (instr >> 8 & 0xf) * 2
		value = imm>>rot | imm<<(32-rot)
	} else {
		rm := int(instr & 0xf)
		value = c.Banks.R(rm)
	}

	var mask uint32
	if instr&(1<<19) != 0 {
		mask |= 0xff000000 // flags field (f)
	}
	if instr&(1<<18) != 0 {
		mask |= 0x00ff0000 // status field (s), reserved on classic ARM
	}
	if instr&(1<<17) != 0 {
		mask |= 0x0000ff00 // extension field (x), reserved
	}
	if instr&(1<<16) != 0 {
		mask |= 0x000000ff // control field (c): mode/T/I/F
	}

	if usesSPSR {
		if c.Banks.Mode().HasSPSR() {
			cur := uint32(c.Banks.SPSR())
			c.Banks.SetSPSR(psr.Word((cur &^ mask) | (value & mask)))
		}
		return
	}

	cur := uint32(c.Banks.CPSR())
	newWord := psr.Word((cur &^ mask) | (value & mask))
	if mask&0xff != 0 {
		// control field touched: may imply a mode change, which needs the
		// bank save/load SetMode performs (spec.md §4.2).
		if err := c.Banks.SetMode(newWord.Mode()); err != nil {
			c.log("%v", err)
		}
		c.Banks.SetCPSRFlagsAndControl(newWord)
	} else {
		c.Banks.SetCPSRFlagsAndControl(newWord)
	}
}
