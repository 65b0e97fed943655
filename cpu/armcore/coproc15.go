package armcore

import "github.com/jetsetilly/twincore/cp15"

// cp15Region mirrors one of the ARM9 protection unit's eight region
// descriptors (ARM946E-S-style: c6,CRm=region,opcode2=0 for base/size/enable;
// the data and code permission nibbles live in the shared c5 registers).
type cp15Region struct {
	base     uint32
	sizeBits uint32 // region size is 1 << (sizeBits+1), per the c6 encoding
	enabled  bool
	dataRaw  uint8
	codeRaw  uint8
}

func (r cp15Region) bounds() (lower, upper uint32) {
	size := uint32(1) << (r.sizeBits + 1)
	return r.base, r.base + size - 1
}

// cp15Regs is the ARM9's simplified CP15 coprocessor register file: a
// control word and eight protection regions, sufficient for spec.md §4.5/§7's
// "map/unmap protection regions, toggle high vectors, toggle Thumb-load
// disable, halt" behaviour. There is no cache or MMU to model, so c7's
// cache-maintenance operations and c2/c3's MMU-only registers are accepted
// and ignored rather than raising undefined instruction, matching how real
// software probes for unimplemented cache ops on this family of core.
type cp15Regs struct {
	control uint32
	regions [8]cp15Region
}

func (c *Core) recomputeRegion(m *cp15.PermMap, n int) {
	r := c.cp15.regions[n]
	if !r.enabled {
		return
	}
	lower, upper := r.bounds()
	perms, err := cp15.SetDataFromRaw(0, r.dataRaw)
	if err != nil {
		c.log("%v", err)
	}
	perms, err = cp15.SetCodeFromRaw(perms, r.codeRaw)
	if err != nil {
		c.log("%v", err)
	}
	m.SetRange(perms, lower, upper)
}

// execCoprocRegTransfer implements MRC/MCR. Only coprocessor 15 is wired to
// anything; every other coprocessor number raises the undefined instruction
// exception (spec.md §4.7: "Other coprocessors raise undefined instruction").
func execCoprocRegTransfer(c *Core, instr uint32) {
	cpNum := (instr >> 8) & 0xf
	if cpNum != 15 || c.cfg.Cp15 == nil {
		execUndefined(c, instr)
		return
	}

	load := instr&(1<<20) != 0 // MRC when set, MCR when clear
	crn := (instr >> 16) & 0xf
	rd := int((instr >> 12) & 0xf)
	opc2 := (instr >> 5) & 0x7
	crm := instr & 0xf

	switch {
	case crn == 1 && crm == 0 && opc2 == 0: // control register
		if load {
			c.Banks.SetR(rd, c.cp15.control)
			return
		}
		v := c.Banks.R(rd)
		c.cp15.control = v
		c.highVectors = v&(1<<13) != 0
		c.tbitLoadDisable = v&(1<<15) != 0

	case crn == 6 && opc2 == 0 && crm <= 7: // region base/size/enable
		region := &c.cp15.regions[crm]
		if load {
			v := region.base&^0xfff | region.sizeBits<<1
			if region.enabled {
				v |= 1
			}
			c.Banks.SetR(rd, v)
			return
		}
		v := c.Banks.R(rd)
		region.base = v &^ 0xfff
		region.sizeBits = (v >> 1) & 0x1f
		region.enabled = v&1 != 0
		c.recomputeRegion(c.cfg.Cp15, int(crm))

	case crn == 5 && crm == 0 && opc2 == 2: // data access permissions, packed 3 bits x 8 regions
		if load {
			var v uint32
			for i := 0; i < 8; i++ {
				v |= uint32(c.cp15.regions[i].dataRaw) << (i * 3)
			}
			c.Banks.SetR(rd, v)
			return
		}
		v := c.Banks.R(rd)
		for i := 0; i < 8; i++ {
			c.cp15.regions[i].dataRaw = uint8(v>>(i*3)) & 0x7
			c.recomputeRegion(c.cfg.Cp15, i)
		}

	case crn == 5 && crm == 0 && opc2 == 3: // code (instruction) access permissions
		if load {
			var v uint32
			for i := 0; i < 8; i++ {
				v |= uint32(c.cp15.regions[i].codeRaw) << (i * 3)
			}
			c.Banks.SetR(rd, v)
			return
		}
		v := c.Banks.R(rd)
		for i := 0; i < 8; i++ {
			c.cp15.regions[i].codeRaw = uint8(v>>(i*3)) & 0x7
			c.recomputeRegion(c.cfg.Cp15, i)
		}

	case crn == 7 && crm == 0 && opc2 == 4: // wait-for-interrupt (MCR only)
		if !load {
			c.Halt()
		}

	case crn == 7: // cache/write-buffer maintenance: no cache modeled, accepted as a no-op
		if load {
			c.Banks.SetR(rd, 0)
		}

	default:
		c.log("unhandled CP15 access crn=%d crm=%d opc2=%d", crn, crm, opc2)
		if load {
			c.Banks.SetR(rd, 0)
		}
	}
}

// execSWI enters the Supervisor exception (spec.md §4.7).
func execSWI(c *Core, instr uint32) {
	c.RaiseSWI()
}

// execUndefined enters the Undefined-instruction exception: used both for
// genuinely undefined encodings and as the decoder's fallback for any
// encoding this core doesn't implement (spec.md §7: "log once, continue").
func execUndefined(c *Core, instr uint32) {
	c.log("undefined instruction %#08x at %#08x", instr, c.InstructionPC())
	c.RaiseUndefined()
}
