// Package armcore implements the ARM/Thumb interpreter shared by both
// cores (spec.md §4.7): instruction decode, the sixteen data-processing
// operations, the multiply and load/store families, block transfer,
// branches, and the guest exception flow. The ARMv4T "ARM7" and ARMv5TE
// "ARM9" cores differ only in a handful of places — the enhanced DSP
// multiplies, BLX/CLZ/LDRD/STRD, CP15, high vectors, the unconditional
// instruction space, and bus-cycle accounting — so rather than duplicate
// the ~90% of the instruction set both share, this package holds one
// configurable engine and cpu/arm7, cpu/arm9 each supply a Config that
// switches the variant-specific slice on.
//
// Grounded on the teacher's hardware/memory/cartridge/arm package (a single
// ARMv4T-subset interpreter for DPC+/CDFJ cartridges) for the overall shape
// of an ARM core — register file, status flags, decode-then-execute,
// bus-cycle helper calls around every access — generalised to the full
// ARMv4T/ARMv5TE instruction set spec.md §4.7 requires, since the teacher's
// core is Thumb-only and single-mode.
package armcore

import (
	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/cp15"
	"github.com/jetsetilly/twincore/irq"
	"github.com/jetsetilly/twincore/logger"
	"github.com/jetsetilly/twincore/psr"
	"github.com/jetsetilly/twincore/schedule"
)

// Variant selects the instruction set extensions available to a Core.
type Variant int

const (
	// ARMv4T is the ARM7's instruction set: 32-bit ARM plus 16-bit Thumb,
	// no enhanced DSP multiplies, no BLX/CLZ/LDRD/STRD, no CP15.
	ARMv4T Variant = iota
	// ARMv5TE is the ARM9's instruction set: ARMv4T plus BLX, CLZ,
	// half/word multiplies, LDRD/STRD, and the CP15 coprocessor. The
	// saturating QADD/QSUB family is not decoded.
	ARMv5TE
)

// Config carries the per-core constants that distinguish ARM7 from ARM9
// within the shared engine.
type Config struct {
	Tag     string // "ARM7" or "ARM9", used only in log lines
	Variant Variant

	// ClockDiv converts this core's native cycle count into schedule.Timestamp
	// ticks (spec.md §3: "ARM7 cycles are exactly two ARM9 cycles").
	ClockDiv schedule.Timestamp

	// Cp15 is non-nil only for the ARM9; a nil Cp15 makes every access
	// unconditionally permitted and routes MRC/MCR to the undefined
	// instruction handler.
	Cp15 *cp15.PermMap

	// HighVectors selects the 0xFFFF0000 exception vector base instead of
	// 0x00000000. Always false and immutable for the ARM7.
	HighVectors bool

	// AccuratePipeline is recorded here but read by no code in this
	// package: Step() always fetches from the bus at r15 and the pipeline
	// slots are never filled, so self-modifying code sees the newly written
	// instruction whether or not this is set.
	AccuratePipeline bool
}

// Core is the shared interpreter engine. cpu/arm7.ARM7 and cpu/arm9.ARM9
// each embed one, configured by Config.
type Core struct {
	cfg Config

	Banks *psr.Banks
	Bus   *bus.Bus
	Irqs  *irq.Lines
	Sched *schedule.Schedule

	// localTime is this core's own consumed time, expressed in
	// schedule.Timestamp (ARM9-domain) units. Only the ARM9 core's localTime
	// is ever written back into Sched (it owns the canonical clock); the
	// ARM7 core tracks its own localTime purely to know when to stop a batch
	// (spec.md §5: "the driver picks batch sizes, runs ARM9 ... then ARM7").
	localTime schedule.Timestamp

	halted bool

	// pipeline is saved and restored with the core's state; no code fills
	// it, and Jump/InvalidateWord only clear pipelineValid.
	pipeline      [2]uint32
	pipelineValid bool

	armTable   *[4096]armHandler
	thumbTable *[1024]thumbHandler

	// highVectors and tbitLoadDisable mirror cfg's initial values but are
	// mutable at runtime: CP15's control register (c1,c0,0) toggles them on
	// the ARM9 (spec.md §4.5/§4.7, "toggle high vectors, toggle Thumb-load
	// disable"). Always equal to cfg's immutable value on the ARM7, which has
	// no CP15.
	highVectors     bool
	tbitLoadDisable bool

	cp15 cp15Regs
}

// NewCore returns a Core wired to the given shared peripherals, with its
// register file in the state banks was given in (psr.NewBanks: User mode,
// all GPRs zero). ResetVectors sets the mode, CPSR control bits and PC
// before the first RunUntil; it does not set SP or LR.
func NewCore(cfg Config, banks *psr.Banks, b *bus.Bus, irqs *irq.Lines, sched *schedule.Schedule) *Core {
	c := &Core{cfg: cfg, Banks: banks, Bus: b, Irqs: irqs, Sched: sched}
	c.highVectors = cfg.HighVectors
	if cfg.Variant == ARMv5TE {
		c.armTable = &arm9ARMTable
		c.thumbTable = &arm9ThumbTable
	} else {
		c.armTable = &arm7ARMTable
		c.thumbTable = &arm7ThumbTable
	}
	return c
}

// Tag identifies the owning core in log lines ("ARM7" or "ARM9").
func (c *Core) Tag() string { return c.cfg.Tag }

// Variant reports this core's instruction-set variant.
func (c *Core) Variant() Variant { return c.cfg.Variant }

// Thumb reports whether the core is currently executing 16-bit Thumb
// instructions (CPSR T-bit).
func (c *Core) Thumb() bool { return c.Banks.CPSR().T() }

// pcOffset is the pipeline offset added to r15 on top of the address of the
// currently executing instruction: 8 in ARM state, 4 in Thumb (spec.md §3).
func (c *Core) pcOffset() uint32 {
	if c.Thumb() {
		return 4
	}
	return 8
}

// InstructionPC returns the address of the instruction currently being
// executed (r15 minus the pipeline offset).
func (c *Core) InstructionPC() uint32 {
	return c.Banks.R(15) - c.pcOffset()
}

// advancePC moves r15 forward by one instruction's width, the normal
// (non-branching) case.
func (c *Core) advancePC() {
	if c.Thumb() {
		c.Banks.SetR(15, c.Banks.R(15)+2)
	} else {
		c.Banks.SetR(15, c.Banks.R(15)+4)
	}
}

// Jump redirects the PC to addr and reloads the pipeline: aligning (AND ~3
// in ARM, AND ~1 in Thumb per the current T-bit) and refilling the two
// pipeline slots (spec.md §4.7, "Pipeline model").
func (c *Core) Jump(addr uint32) {
	if c.Thumb() {
		addr &^= 1
	} else {
		addr &^= 3
	}
	c.Banks.SetR(15, addr+c.pcOffset())
	c.pipelineValid = false
}

// JumpExchange is Jump plus an instruction-set switch driven by the target
// address's bit 0 (BX's interworking behaviour on both variants, and BLX's
// on the ARM9 — spec.md §4.7: "BX with bit 0 = 1 enter Thumb").
func (c *Core) JumpExchange(addr uint32) {
	thumb := addr&1 != 0
	cpsr := c.Banks.CPSR().SetT(thumb)
	c.Banks.SetCPSRFlagsAndControl(cpsr)
	c.Jump(addr)
}

// Regs exposes the register bank for introspection/savestate (spec.md §6).
func (c *Core) Regs() *psr.Banks { return c.Banks }

// InvalidateWord notifies this core that backing memory at addr changed
// underneath it (spec.md §6: "used by DMA and debuggers; relevant for any
// instruction/JIT cache"). This core has no instruction cache beyond the
// optional accurate-pipeline prefetch slots, so invalidation just drops
// those — the next Step() re-fetches from the bus either way.
func (c *Core) InvalidateWord(addr uint32) {
	c.pipelineValid = false
}

// InvalidateWordRange is InvalidateWord over [lo, hi], inclusive.
func (c *Core) InvalidateWordRange(lo, hi uint32) {
	c.pipelineValid = false
}

// ResetVectors sets the entry point + CPSR per the reset exception, the
// state a driver establishes before the first RunUntil; no banked r13 or
// r14 is written. Per spec.md's reset vector (offset 0x00) and exception entry
// semantics (§4.7): mode=Supervisor, I=1, F=1 (ARM7 only — the ARM9 carries
// the bit but never tests it outside CPSR transfer), T=0.
func (c *Core) ResetVectors(entry uint32) {
	cpsr := c.Banks.CPSR().SetI(true).SetF(true).SetT(false)
	c.Banks.SetCPSRFlagsAndControl(cpsr)
	_ = c.Banks.SetMode(psr.Supervisor)
	c.Jump(entry)
}

// Halted reports whether the core is parked in WFI.
func (c *Core) Halted() bool { return c.halted }

func (c *Core) log(format string, args ...any) {
	logger.Logf(c.cfg.Tag, format, args...)
}
