// Package arm7 configures the shared armcore.Core for the ARMv4T "ARM7"
// side of the machine: no CP15, base exception vectors only, and a clock
// twice as slow as the ARM9 (spec.md §3: "ARM7 cycles are exactly two ARM9
// cycles").
package arm7

import (
	"github.com/jetsetilly/twincore/bus"
	"github.com/jetsetilly/twincore/cpu/armcore"
	"github.com/jetsetilly/twincore/irq"
	"github.com/jetsetilly/twincore/psr"
	"github.com/jetsetilly/twincore/schedule"
)

// ClockDiv is the number of ARM9-domain schedule.Timestamp ticks one ARM7
// cycle costs.
const ClockDiv = schedule.Timestamp(2)

// ARM7 is the thin, variant-specific wrapper around armcore.Core.
type ARM7 struct {
	*armcore.Core
}

// New returns an ARM7 bound to the given bus and shared peripherals. The
// ARM7 never sees high vectors and has no CP15 coprocessor.
func New(b *bus.Bus, irqs *irq.Lines, sched *schedule.Schedule) *ARM7 {
	banks := psr.NewBanks()
	cfg := armcore.Config{
		Tag:         "ARM7",
		Variant:     armcore.ARMv4T,
		ClockDiv:    ClockDiv,
		Cp15:        nil,
		HighVectors: false,
	}
	return &ARM7{Core: armcore.NewCore(cfg, banks, b, irqs, sched)}
}
