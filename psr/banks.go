package psr

import "fmt"

// ErrUnpredictableMode is returned by Banks.SetMode when asked to switch to a
// mode value that isn't one of the seven architecturally defined modes. Per
// spec.md §4.2 this is not fatal: the raw mode bits are kept in the CPSR
// (matching real hardware's "unpredictable" behaviour) and no register bank
// swap takes place, since there is no defined bank to swap to.
type ErrUnpredictableMode struct {
	Raw Mode
}

func (e ErrUnpredictableMode) Error() string {
	return fmt.Sprintf("unpredictable CPSR mode value %#x", uint32(e.Raw))
}

// Banks is the register file of a single CPU core: sixteen general purpose
// registers in the active mode, the banked shadows reachable from every other
// mode, and the current/saved program status words. It is a flat struct of
// arrays — mode transitions copy slices rather than swapping pointers, which
// keeps the layout trivially serialisable for a savestate (see spec.md §6)
// and avoids the lifetime games a pointer-swapping design would invite; see
// DESIGN.md for the banked-register grounding note.
type Banks struct {
	mode Mode

	gprs [16]uint32
	cpsr Word
	spsr Word // meaningful only when mode.HasSPSR()

	fiqR8_12   [5]uint32
	otherR8_12 [5]uint32

	r13_14Usr [2]uint32
	r13_14Fiq [2]uint32
	r13_14Irq [2]uint32
	r13_14Svc [2]uint32
	r13_14Abt [2]uint32
	r13_14Und [2]uint32

	spsrFiq Word
	spsrIrq Word
	spsrSvc Word
	spsrAbt Word
	spsrUnd Word
}

// NewBanks returns a Banks in User mode with every register zeroed, the
// state before armcore's ResetVectors() sets the mode and PC.
func NewBanks() *Banks {
	b := &Banks{mode: User}
	b.cpsr = b.cpsr.SetMode(User)
	return b
}

// Mode is the CPU's current execution mode.
func (b *Banks) Mode() Mode { return b.mode }

// R reads general purpose register n (0-15) in the active mode.
func (b *Banks) R(n int) uint32 { return b.gprs[n] }

// SetR writes general purpose register n (0-15) in the active mode.
func (b *Banks) SetR(n int, v uint32) { b.gprs[n] = v }

// CPSR is the current program status word.
func (b *Banks) CPSR() Word { return b.cpsr }

// SetCPSRFlagsAndControl replaces the whole CPSR word verbatim, including the
// mode field, WITHOUT performing the bank save/load that a mode change
// normally requires. Used for restoring flags/T/I/F bits that don't imply a
// mode change; callers changing mode must go through SetMode instead.
func (b *Banks) SetCPSRFlagsAndControl(w Word) {
	b.cpsr = w.SetMode(b.mode)
}

// SPSR is the saved program status word of the active mode. It reads as the
// current CPSR in User/System mode, where there is no SPSR bank — matching
// the "unpredictable, read CPSR" behaviour noted in the original source this
// spec was distilled from (core/src/cpu/engines_common.rs, the `spsr!` macro).
func (b *Banks) SPSR() Word {
	if !b.mode.HasSPSR() {
		return b.cpsr
	}
	return b.spsr
}

// SetSPSR writes the SPSR of the active mode. It is a silent no-op in
// User/System mode (there is no bank to write into); callers that need to
// flag this as unpredictable should check HasSPSR() themselves first.
func (b *Banks) SetSPSR(w Word) {
	if !b.mode.HasSPSR() {
		return
	}
	b.spsr = w
}

func (b *Banks) saveR1314(m Mode) {
	var bank *[2]uint32
	switch m {
	case User, System:
		bank = &b.r13_14Usr
	case FIQ:
		bank = &b.r13_14Fiq
	case IRQ:
		bank = &b.r13_14Irq
	case Supervisor:
		bank = &b.r13_14Svc
	case Abort:
		bank = &b.r13_14Abt
	case Undefined:
		bank = &b.r13_14Und
	default:
		return
	}
	bank[0] = b.gprs[13]
	bank[1] = b.gprs[14]
}

func (b *Banks) loadR1314(m Mode) {
	var bank *[2]uint32
	switch m {
	case User, System:
		bank = &b.r13_14Usr
	case FIQ:
		bank = &b.r13_14Fiq
	case IRQ:
		bank = &b.r13_14Irq
	case Supervisor:
		bank = &b.r13_14Svc
	case Abort:
		bank = &b.r13_14Abt
	case Undefined:
		bank = &b.r13_14Und
	default:
		return
	}
	b.gprs[13] = bank[0]
	b.gprs[14] = bank[1]
}

func (b *Banks) saveSPSR(m Mode) {
	switch m {
	case FIQ:
		b.spsrFiq = b.spsr
	case IRQ:
		b.spsrIrq = b.spsr
	case Supervisor:
		b.spsrSvc = b.spsr
	case Abort:
		b.spsrAbt = b.spsr
	case Undefined:
		b.spsrUnd = b.spsr
	}
}

func (b *Banks) loadSPSR(m Mode) Word {
	switch m {
	case FIQ:
		return b.spsrFiq
	case IRQ:
		return b.spsrIrq
	case Supervisor:
		return b.spsrSvc
	case Abort:
		return b.spsrAbt
	case Undefined:
		return b.spsrUnd
	default:
		return 0
	}
}

// SetMode performs the bank save/load that a mode transition requires: the
// outgoing registers (r8-r14 for FIQ, r13-r14 otherwise) are saved into the
// bank owned by the outgoing mode and the incoming bank is loaded, all
// relative to the caller — spec.md §4.2's "atomically" requirement, which
// here just means "before this call returns", since the core is
// single-threaded (see SPEC_FULL.md §5).
//
// An undefined mode value does not panic: the raw bits are kept in CPSR (see
// ErrUnpredictableMode) and no bank swap happens, matching documented
// hardware "unpredictable" behaviour rather than crashing the emulator.
func (b *Banks) SetMode(new Mode) error {
	old := b.mode

	if !new.Valid() {
		b.cpsr = b.cpsr.SetMode(new)
		return ErrUnpredictableMode{Raw: new}
	}

	if old == new {
		return nil
	}

	if old == FIQ {
		copy(b.fiqR8_12[:], b.gprs[8:13])
	} else {
		copy(b.otherR8_12[:], b.gprs[8:13])
	}
	b.saveR1314(old)
	if old.HasSPSR() {
		b.saveSPSR(old)
	}

	if new == FIQ {
		copy(b.gprs[8:13], b.fiqR8_12[:])
	} else {
		copy(b.gprs[8:13], b.otherR8_12[:])
	}
	b.loadR1314(new)
	if new.HasSPSR() {
		b.spsr = b.loadSPSR(new)
	} else {
		b.spsr = 0
	}

	b.mode = new
	b.cpsr = b.cpsr.SetMode(new)
	return nil
}

// Snapshot is the savestate-friendly flat copy of every GPR, banked shadow,
// and status word described in spec.md §6. No pointers, all value types.
type Snapshot struct {
	GPRs        [16]uint32
	CPSR        Word
	SPSR        Word
	R8_12FIQ    [5]uint32
	R8_12Other  [5]uint32
	R13_14Usr   [2]uint32
	R13_14FIQ   [2]uint32
	R13_14IRQ   [2]uint32
	R13_14SVC   [2]uint32
	R13_14Abt   [2]uint32
	R13_14Und   [2]uint32
	SPSRFIQ     Word
	SPSRIRQ     Word
	SPSRSVC     Word
	SPSRAbt     Word
	SPSRUnd     Word
	CurrentMode Mode
}

// Snapshot copies every bank into a flat, pointer-free struct suitable for a
// savestate.
func (b *Banks) Snapshot() Snapshot {
	return Snapshot{
		GPRs:        b.gprs,
		CPSR:        b.cpsr,
		SPSR:        b.spsr,
		R8_12FIQ:    b.fiqR8_12,
		R8_12Other:  b.otherR8_12,
		R13_14Usr:   b.r13_14Usr,
		R13_14FIQ:   b.r13_14Fiq,
		R13_14IRQ:   b.r13_14Irq,
		R13_14SVC:   b.r13_14Svc,
		R13_14Abt:   b.r13_14Abt,
		R13_14Und:   b.r13_14Und,
		SPSRFIQ:     b.spsrFiq,
		SPSRIRQ:     b.spsrIrq,
		SPSRSVC:     b.spsrSvc,
		SPSRAbt:     b.spsrAbt,
		SPSRUnd:     b.spsrUnd,
		CurrentMode: b.mode,
	}
}

// Restore is the inverse of Snapshot: regs(); set_regs(prev); regs() must
// round-trip (spec.md §8 invariant 7).
func (b *Banks) Restore(s Snapshot) {
	b.gprs = s.GPRs
	b.cpsr = s.CPSR
	b.spsr = s.SPSR
	b.fiqR8_12 = s.R8_12FIQ
	b.otherR8_12 = s.R8_12Other
	b.r13_14Usr = s.R13_14Usr
	b.r13_14Fiq = s.R13_14FIQ
	b.r13_14Irq = s.R13_14IRQ
	b.r13_14Svc = s.R13_14SVC
	b.r13_14Abt = s.R13_14Abt
	b.r13_14Und = s.R13_14Und
	b.spsrFiq = s.SPSRFIQ
	b.spsrIrq = s.SPSRIRQ
	b.spsrSvc = s.SPSRSVC
	b.spsrAbt = s.SPSRAbt
	b.spsrUnd = s.SPSRUnd
	b.mode = s.CurrentMode
}

// UserBankR13R14 returns the User-mode r13/r14 shadow directly, for the
// "load/store user registers" and exception-return LDM forms that bypass the
// active-mode bank (spec.md §4.7).
func (b *Banks) UserBankR13R14() (r13, r14 uint32) {
	if b.mode == User || b.mode == System {
		return b.gprs[13], b.gprs[14]
	}
	return b.r13_14Usr[0], b.r13_14Usr[1]
}

// SetUserBankR13R14 writes the User-mode r13/r14 shadow directly.
func (b *Banks) SetUserBankR13R14(r13, r14 uint32) {
	if b.mode == User || b.mode == System {
		b.gprs[13] = r13
		b.gprs[14] = r14
		return
	}
	b.r13_14Usr[0] = r13
	b.r13_14Usr[1] = r14
}

// UserBankOther returns the shared (non-FIQ) r8-r12 bank directly, for the
// "load/store user registers" forms used while in FIQ mode.
func (b *Banks) UserBankOther() [5]uint32 {
	if b.mode != FIQ {
		return [5]uint32{b.gprs[8], b.gprs[9], b.gprs[10], b.gprs[11], b.gprs[12]}
	}
	return b.otherR8_12
}

// SetUserBankOther writes the shared (non-FIQ) r8-r12 bank directly.
func (b *Banks) SetUserBankOther(v [5]uint32) {
	if b.mode != FIQ {
		b.gprs[8], b.gprs[9], b.gprs[10], b.gprs[11], b.gprs[12] = v[0], v[1], v[2], v[3], v[4]
		return
	}
	b.otherR8_12 = v
}
