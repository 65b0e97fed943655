package armcore

// armHandler executes one decoded 32-bit ARM instruction. Handlers re-derive
// whatever operand fields they need from the full instruction word; the
// 12-bit table index (spec.md §4.7: "bits[27:20] | bits[7:4]") only ever
// carries enough information to route to the right encoding class, which is
// exactly what those 12 bits determine architecturally.
type armHandler func(c *Core, instr uint32)

// armDecodeIndex extracts the 12-bit dispatch key from a full ARM
// instruction word.
func armDecodeIndex(instr uint32) int {
	return int((instr>>16)&0xff0 | (instr>>4)&0xf)
}

var (
	arm7ARMTable [4096]armHandler
	arm9ARMTable [4096]armHandler

	arm7ThumbTable [1024]thumbHandler
	arm9ThumbTable [1024]thumbHandler
)

func init() {
	for i := 0; i < 4096; i++ {
		arm7ARMTable[i] = classifyARM(i, ARMv4T)
		arm9ARMTable[i] = classifyARM(i, ARMv5TE)
	}
	for i := 0; i < 1024; i++ {
		arm7ThumbTable[i] = classifyThumb(i, ARMv4T)
		arm9ThumbTable[i] = classifyThumb(i, ARMv5TE)
	}
}

// classifyARM is the build-time table population spec.md §4.7 calls for: one
// call per one of the 4096 possible 12-bit keys, each returning the handler
// for that encoding's class. This follows the standard ARMv4T/v5TE top-level
// decode tree (ARM Architecture Reference Manual, chapter A3).
func classifyARM(index int, variant Variant) armHandler {
	b2720 := uint32(index>>4) & 0xff // bits 27..20
	b74 := uint32(index) & 0xf       // bits 7..4

	b27 := b2720>>7&1 != 0
	b26 := b2720>>6&1 != 0
	b25 := b2720>>5&1 != 0
	b24 := b2720>>4&1 != 0
	b23 := b2720>>3&1 != 0
	b22 := b2720>>2&1 != 0
	b21 := b2720>>1&1 != 0
	b20 := b2720&1 != 0

	b7 := b74>>3&1 != 0
	b6 := b74>>2&1 != 0
	b5 := b74>>1&1 != 0
	b4 := b74&1 != 0

	switch {
	case b27 && b26: // 11x : coprocessor / SWI space
		if b25 {
			if b24 { // 111
				return execSWI
			}
			// 1110
			if b4 {
				if variant == ARMv5TE {
					return execCoprocRegTransfer
				}
				return execUndefined
			}
			return execUndefined // CDP: no coprocessor data-operation unit in this core
		}
		// 110: coprocessor data transfer (LDC/STC) - no coprocessor memory
		// transfer unit in this core (CP15 is register-only); undefined.
		return execUndefined

	case b27 && !b26: // 10x
		if b25 {
			return execBranch // B/BL
		}
		return execBlockTransfer // LDM/STM

	case !b27 && b26: // 01x: single data transfer, or undefined
		if b25 && b4 {
			return execUndefined // register-offset form with bit4 set: undefined
		}
		return execSingleTransfer

	default: // 00x: data processing / PSR transfer / multiply / halfword transfer / swap
		if !b25 && b7 && b4 {
			// multiply / multiply-long / swap / halfword&signed transfer family
			switch {
			case !b6 && !b5: // 1001
				if b23 {
					return execMultiplyLong
				}
				// b23==0: MUL/MLA (bit24==0) or SWP/SWPB (bit24==1); the
				// handler itself tests bit24 on the full instruction.
				return execMultiplyOrSwap
			default:
				// 1011 (LDRH/STRH), 1101 (LDRSB / LDRD v5TE), 1111 (LDRSH / STRD v5TE)
				return execHalfwordTransfer
			}
		}

		// PSR transfer (MRS/MSR), BX/BLX/CLZ, and the ARMv5TE enhanced
		// half-multiply family all share the same top byte (bits24:23=10,
		// S=0); b25 and bits7:4 are the only differentiators, since the
		// multiply/swap/halfword family above has already claimed every
		// b7&&b4 case with b25==0.
		if b24 && !b23 && !b20 {
			if b25 {
				// MSR immediate form: bits7:4 here are the top of the
				// rotated immediate field, not a real opcode discriminator.
				return execPSRTransfer
			}
			switch {
			case b7 && !b4:
				if variant == ARMv5TE {
					return execSignedHalfMultiply
				}
				return execUndefined
			case !b7 && b4:
				if !b21 {
					return execUndefined
				}
				if !b22 {
					// BX (bits7:4=0001) or BLX register (0011, ARMv5TE)
					if b5 {
						if variant == ARMv5TE {
							return execBranchExchange
						}
						return execUndefined
					}
					return execBranchExchange
				}
				// CLZ, ARMv5TE only
				if variant == ARMv5TE {
					return execCountLeadingZeros
				}
				return execUndefined
			default:
				// bits7:4==0000: MRS or MSR register form.
				return execPSRTransfer
			}
		}
		// TST/TEQ/CMP/CMN (S must be 1) otherwise share the remaining data
		// processing opcode space.
		return execDataProcessing
	}
}
