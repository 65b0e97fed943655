package armcore

// thumbHandler executes one decoded 16-bit Thumb instruction.
type thumbHandler func(c *Core, opcode uint16)

// classifyThumb follows the same top-level cascade as the Thumb instruction
// formats laid out in the ARM7TDMI Data Sheet chapter 5 (figure 5-1),
// generalised from a single ARMv4T-subset decoder (the teacher's
// hardware/memory/cartridge/arm package) to the full Thumb set both cores
// share, plus the ARMv5TE BLX-suffix extension to format 19.
func classifyThumb(index int, variant Variant) thumbHandler {
	opcode := uint16(index) << 6

	switch {
	case opcode&0xf800 == 0xf800:
		return execThumbLongBranchWithLinkSuffix // format 19, H=0b11 (BL suffix)
	case opcode&0xf800 == 0xf000:
		return execThumbLongBranchWithLink // format 19, H=0b10 (BL prefix)
	case opcode&0xf800 == 0xe800:
		if variant == ARMv5TE {
			return execThumbBLXSuffix // ARMv5TE BLX suffix half-word, H=0b01
		}
		return execThumbUnconditionalBranch // ARMv4T: undefined space, decodes as format 18 on real hardware
	case opcode&0xf800 == 0xe000:
		return execThumbUnconditionalBranch // format 18, H=0b00
	case opcode&0xff00 == 0xdf00:
		return execThumbSoftwareInterrupt // format 17
	case opcode&0xf000 == 0xd000:
		return execThumbConditionalBranch // format 16
	case opcode&0xf000 == 0xc000:
		return execThumbMultipleLoadStore // format 15
	case opcode&0xf600 == 0xb400:
		return execThumbPushPopRegisters // format 14
	case opcode&0xff00 == 0xb000:
		return execThumbAddOffsetToSP // format 13
	case opcode&0xf000 == 0xa000:
		return execThumbLoadAddress // format 12
	case opcode&0xf000 == 0x9000:
		return execThumbSPRelativeLoadStore // format 11
	case opcode&0xf000 == 0x8000:
		return execThumbLoadStoreHalfword // format 10
	case opcode&0xe000 == 0x6000:
		return execThumbLoadStoreImmOffset // format 9
	case opcode&0xf200 == 0x5200:
		return execThumbLoadStoreSignExtended // format 8
	case opcode&0xf200 == 0x5000:
		return execThumbLoadStoreRegOffset // format 7
	case opcode&0xf800 == 0x4800:
		return execThumbPCRelativeLoad // format 6
	case opcode&0xfc00 == 0x4400:
		return execThumbHiRegisterOps // format 5
	case opcode&0xfc00 == 0x4000:
		return execThumbALUOperations // format 4
	case opcode&0xe000 == 0x2000:
		return execThumbMovCmpAddSubImm // format 3
	case opcode&0xf800 == 0x1800:
		return execThumbAddSubtract // format 2
	default: // opcode&0xe000 == 0x0000
		return execThumbMoveShiftedRegister // format 1
	}
}
