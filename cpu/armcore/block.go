package armcore

import (
	"math/bits"

	"github.com/jetsetilly/twincore/bus"
)

// execBlockTransfer implements LDM/STM, including the S-bit user-bank and
// exception-return forms (spec.md §4.7).
func execBlockTransfer(c *Core, instr uint32) {
	preIndex := instr&(1<<24) != 0
	up := instr&(1<<23) != 0
	sBit := instr&(1<<22) != 0
	writeBack := instr&(1<<21) != 0
	load := instr&(1<<20) != 0
	rn := int((instr >> 16) & 0xf)
	list := uint16(instr & 0xffff)

	count := bits.OnesCount16(list)
	base := c.Banks.R(rn)

	var start uint32
	if up {
		start = base
	} else {
		start = base - uint32(count)*4
	}

	// exception-return form: S set, r15 in the list, load. CPSR is restored
	// from SPSR once the full transfer completes (ARM ARM A4.1.20).
	exceptionReturn := sBit && load && list&(1<<15) != 0
	// user-bank form: S set, but not the exception-return shape.
	userBank := sBit && !exceptionReturn

	addr := start
	if preIndex {
		addr += 4
	}

	at := bus.CPUAccess

	for r := 0; r < 16; r++ {
		if list&(1<<r) == 0 {
			continue
		}
		if load {
			value := c.read32(addr, at)
			writeUserOrBanked(c, r, value, userBank)
			if r == 15 {
				if exceptionReturn {
					c.Banks.SetCPSRFlagsAndControl(c.Banks.SPSR())
					if err := c.Banks.SetMode(c.Banks.SPSR().Mode()); err != nil {
						c.log("%v", err)
					}
				}
				c.Jump(value &^ 3)
			}
		} else {
			value := readUserOrBanked(c, r, userBank)
			c.write32(addr, value, at)
		}
		addr += 4
	}

	if list == 0 {
		// empty register list: unpredictable on real hardware, but this core
		// still performs the r15-sized transfer and writeback real silicon
		// is documented to do (ARM ARM A4.1.20 note), rather than doing
		// nothing silently.
		if load {
			value := c.read32(addr, at)
			c.Jump(value &^ 3)
		} else {
			c.write32(addr, c.Banks.R(15), at)
		}
		count = 16 // writeback below moves Rn by 64, as for a full list
	}

	if writeBack && (!load || list&(1<<rn) == 0) {
		if up {
			c.Banks.SetR(rn, base+uint32(count)*4)
		} else {
			c.Banks.SetR(rn, base-uint32(count)*4)
		}
	}
}

func writeUserOrBanked(c *Core, r int, value uint32, userBank bool) {
	if !userBank {
		c.Banks.SetR(r, value)
		return
	}
	switch {
	case r == 13 || r == 14:
		r13, r14 := c.Banks.UserBankR13R14()
		if r == 13 {
			r13 = value
		} else {
			r14 = value
		}
		c.Banks.SetUserBankR13R14(r13, r14)
	case r >= 8 && r <= 12:
		v := c.Banks.UserBankOther()
		v[r-8] = value
		c.Banks.SetUserBankOther(v)
	default:
		c.Banks.SetR(r, value)
	}
}

func readUserOrBanked(c *Core, r int, userBank bool) uint32 {
	if !userBank {
		return c.Banks.R(r)
	}
	switch {
	case r == 13 || r == 14:
		r13, r14 := c.Banks.UserBankR13R14()
		if r == 13 {
			return r13
		}
		return r14
	case r >= 8 && r <= 12:
		v := c.Banks.UserBankOther()
		return v[r-8]
	default:
		return c.Banks.R(r)
	}
}
