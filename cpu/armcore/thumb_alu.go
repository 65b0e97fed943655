package armcore

import "github.com/jetsetilly/twincore/cpu/alu"

// execThumbMoveShiftedRegister implements format 1: LSL/LSR/ASR Rd, Rm, #imm5
// (spec.md §4.7).
func execThumbMoveShiftedRegister(c *Core, opcode uint16) {
	op := (opcode & 0x1800) >> 11
	shift := uint((opcode & 0x7c0) >> 6)
	rm := int((opcode & 0x38) >> 3)
	rd := int(opcode & 0x7)

	carryIn := c.Banks.CPSR().C()
	value := c.Banks.R(rm)

	var result uint32
	var carryOut bool
	switch op {
	case 0b00:
		result, carryOut = alu.Shift(alu.LSL, value, shift, carryIn, true)
	case 0b01:
		result, carryOut = alu.Shift(alu.LSR, value, shift, carryIn, true)
	case 0b10:
		result, carryOut = alu.Shift(alu.ASR, value, shift, carryIn, true)
	default:
		execUndefined16(c, opcode)
		return
	}

	c.Banks.SetR(rd, result)
	w := c.Banks.CPSR().SetN(result&0x80000000 != 0).SetZ(result == 0).SetC(carryOut)
	c.Banks.SetCPSRFlagsAndControl(w)
}

// execThumbAddSubtract implements format 2: ADD/SUB Rd, Rn, Rm|#imm3.
func execThumbAddSubtract(c *Core, opcode uint16) {
	immediate := opcode&0x0400 != 0
	subtract := opcode&0x0200 != 0
	imm := uint32((opcode & 0x01c0) >> 6)
	rn := int((opcode & 0x38) >> 3)
	rd := int(opcode & 0x7)

	a := c.Banks.R(rn)
	b := imm
	if !immediate {
		b = c.Banks.R(int(imm))
	}

	var result uint32
	var n, z, cOut, v bool
	if subtract {
		result, n, z, cOut, v = alu.SubWithCarry(a, b, true)
	} else {
		result, n, z, cOut, v = alu.AddWithCarry(a, b, false)
	}
	c.Banks.SetR(rd, result)
	w := c.Banks.CPSR().SetN(n).SetZ(z).SetC(cOut).SetV(v)
	c.Banks.SetCPSRFlagsAndControl(w)
}

// execThumbMovCmpAddSubImm implements format 3: MOV/CMP/ADD/SUB Rd, #imm8.
func execThumbMovCmpAddSubImm(c *Core, opcode uint16) {
	op := (opcode & 0x1800) >> 11
	rd := int((opcode & 0x0700) >> 8)
	imm := uint32(opcode & 0xff)

	switch op {
	case 0b00: // MOV
		c.Banks.SetR(rd, imm)
		w := c.Banks.CPSR().SetN(false).SetZ(imm == 0)
		c.Banks.SetCPSRFlagsAndControl(w)
	case 0b01: // CMP
		_, n, z, cOut, v := alu.SubWithCarry(c.Banks.R(rd), imm, true)
		w := c.Banks.CPSR().SetN(n).SetZ(z).SetC(cOut).SetV(v)
		c.Banks.SetCPSRFlagsAndControl(w)
	case 0b10: // ADD
		result, n, z, cOut, v := alu.AddWithCarry(c.Banks.R(rd), imm, false)
		c.Banks.SetR(rd, result)
		w := c.Banks.CPSR().SetN(n).SetZ(z).SetC(cOut).SetV(v)
		c.Banks.SetCPSRFlagsAndControl(w)
	case 0b11: // SUB
		result, n, z, cOut, v := alu.SubWithCarry(c.Banks.R(rd), imm, true)
		c.Banks.SetR(rd, result)
		w := c.Banks.CPSR().SetN(n).SetZ(z).SetC(cOut).SetV(v)
		c.Banks.SetCPSRFlagsAndControl(w)
	}
}

// execThumbALUOperations implements format 4: the sixteen two-register ALU
// operations (AND..MVN, plus MUL and NEG which have no ARM-mode equivalent in
// this encoding slot).
func execThumbALUOperations(c *Core, opcode uint16) {
	op := (opcode & 0x03c0) >> 6
	rs := int((opcode & 0x38) >> 3)
	rd := int(opcode & 0x7)

	dst := c.Banks.R(rd)
	src := c.Banks.R(rs)
	carryIn := c.Banks.CPSR().C()

	var result uint32
	var n, z, cOut, v bool
	logical := false
	cOut = carryIn
	v = c.Banks.CPSR().V()

	switch op {
	case 0b0000: // AND
		result = dst & src
		logical = true
	case 0b0001: // EOR
		result = dst ^ src
		logical = true
	case 0b0010: // LSL
		result, cOut = alu.Shift(alu.LSL, dst, uint(src&0xff), carryIn, false)
		logical = true
	case 0b0011: // LSR
		result, cOut = alu.Shift(alu.LSR, dst, uint(src&0xff), carryIn, false)
		logical = true
	case 0b0100: // ASR
		result, cOut = alu.Shift(alu.ASR, dst, uint(src&0xff), carryIn, false)
		logical = true
	case 0b0101: // ADC
		result, n, z, cOut, v = alu.AddWithCarry(dst, src, carryIn)
	case 0b0110: // SBC
		result, n, z, cOut, v = alu.SubWithCarry(dst, src, carryIn)
	case 0b0111: // ROR
		result, cOut = alu.Shift(alu.ROR, dst, uint(src&0xff), carryIn, false)
		logical = true
	case 0b1000: // TST
		result = dst & src
		logical = true
	case 0b1001: // NEG
		result, n, z, cOut, v = alu.SubWithCarry(0, src, true)
	case 0b1010: // CMP
		result, n, z, cOut, v = alu.SubWithCarry(dst, src, true)
	case 0b1011: // CMN
		result, n, z, cOut, v = alu.AddWithCarry(dst, src, false)
	case 0b1100: // ORR
		result = dst | src
		logical = true
	case 0b1101: // MUL
		result = dst * src
		logical = true
	case 0b1110: // BIC
		result = dst &^ src
		logical = true
	case 0b1111: // MVN
		result = ^src
		logical = true
	}

	if logical {
		n = result&0x80000000 != 0
		z = result == 0
	}

	isTestOp := op == 0b1000 || op == 0b1010 || op == 0b1011
	if !isTestOp {
		c.Banks.SetR(rd, result)
	}

	w := c.Banks.CPSR().SetN(n).SetZ(z).SetC(cOut).SetV(v)
	c.Banks.SetCPSRFlagsAndControl(w)
}

// execThumbHiRegisterOps implements format 5: ADD/CMP/MOV on any register
// pair including r8-r15, and BX/BLX.
func execThumbHiRegisterOps(c *Core, opcode uint16) {
	op := (opcode & 0x300) >> 8
	hi1 := opcode&0x80 != 0
	hi2 := opcode&0x40 != 0
	rs := int((opcode & 0x38) >> 3)
	rd := int(opcode & 0x7)
	if hi1 {
		rd += 8
	}
	if hi2 {
		rs += 8
	}

	switch op {
	case 0b00: // ADD
		result := c.Banks.R(rd) + c.Banks.R(rs)
		if rd == 15 {
			c.Jump(result)
			return
		}
		c.Banks.SetR(rd, result)
	case 0b01: // CMP
		_, n, z, cOut, v := alu.SubWithCarry(c.Banks.R(rd), c.Banks.R(rs), true)
		w := c.Banks.CPSR().SetN(n).SetZ(z).SetC(cOut).SetV(v)
		c.Banks.SetCPSRFlagsAndControl(w)
	case 0b10: // MOV
		value := c.Banks.R(rs)
		if rd == 15 {
			c.Jump(value)
			return
		}
		c.Banks.SetR(rd, value)
	case 0b11: // BX / BLX(reg), ARMv5TE
		isBLX := c.cfg.Variant == ARMv5TE && hi1
		target := c.Banks.R(rs)
		if isBLX {
			c.Banks.SetR(14, c.InstructionPC()|1)
		}
		c.JumpExchange(target)
	}
}

func execUndefined16(c *Core, opcode uint16) {
	c.log("undefined thumb instruction %#04x at %#08x", opcode, c.InstructionPC())
	c.RaiseUndefined()
}
