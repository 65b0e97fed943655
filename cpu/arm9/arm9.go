// Package arm9 configures the shared armcore.Core for the ARMv5TE "ARM9"
// side of the machine: CP15 wired in, the canonical clock domain (ClockDiv
// 1, spec.md §3), and the variant-specific instruction extensions (BLX,
// CLZ, half/word multiplies, LDRD/STRD) that armcore's decode tables gate on
// Variant.
package arm9

import (
	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/cp15"
	"github.com/jetsetilly/twincore/cpu/armcore"
	"github.com/jetsetilly/twincore/irq"
	"github.com/jetsetilly/twincore/psr"
	"github.com/jetsetilly/twincore/schedule"
)

// ClockDiv is the number of ARM9-domain schedule.Timestamp ticks one ARM9
// cycle costs: the ARM9 defines the domain, so this is always 1.
const ClockDiv = schedule.Timestamp(1)

// ARM9 is the thin, variant-specific wrapper around armcore.Core.
type ARM9 struct {
	*armcore.Core

	Cp15 *cp15.PermMap
}

// Option configures optional ARM9 behaviour at construction time.
type Option func(*armcore.Config)

// WithHighVectors sets the ARM9's initial exception vector base to
// 0xFFFF0000 instead of 0x00000000 (spec.md §6). CP15's control register can
// still toggle this at runtime; this only sets the power-on default.
func WithHighVectors(cfg *armcore.Config) { cfg.HighVectors = true }

// WithAccuratePipeline sets Config.AccuratePipeline. armcore does not read
// that flag, so this option leaves instruction fetch unchanged: no
// prefetched opcodes are kept, and self-modifying code always sees the
// newly written instruction.
func WithAccuratePipeline(cfg *armcore.Config) { cfg.AccuratePipeline = true }

// New returns an ARM9 bound to the given bus and shared peripherals, with
// its own CP15 permission map.
func New(b *bus.Bus, irqs *irq.Lines, sched *schedule.Schedule, opts ...Option) *ARM9 {
	banks := psr.NewBanks()
	perms := &cp15.PermMap{}

	cfg := armcore.Config{
		Tag:      "ARM9",
		Variant:  armcore.ARMv5TE,
		ClockDiv: ClockDiv,
		Cp15:     perms,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &ARM9{
		Core: armcore.NewCore(cfg, banks, b, irqs, sched),
		Cp15: perms,
	}
}
