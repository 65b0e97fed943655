// Package console is the top-level driver that ties the two CPU cores, the
// shared scheduler, the coprocessor math units, and each core's interrupt
// lines into the single cooperative engine spec.md §2 describes: an outer
// caller asks the console to advance to a target timestamp, and the
// console runs the ARM9, then the ARM7 at half its clock, then drains due
// events, repeating until the target is reached.
package console

import "github.com/jetsetilly/twincore/schedule"

// Model carries the fixed, per-machine constants spec.md leaves as hardware
// facts rather than runtime-tunable settings: the batch-cycle cap the
// scheduler's BatchEnd uses (spec.md §4.8), the ARM9's power-on default for
// its CP15-controlled high-vectors flag, and the ARM9's accurate-pipeline
// option.
//
// Modelled on the teacher's architecture.Map (hardware/memory/cartridge/arm/
// architecture/architecture.go), generalised from a per-cartridge ARM
// variant descriptor into a per-console-model one; see DESIGN.md for why
// the teacher's disk-backed preferences layer is not adopted here instead.
type Model struct {
	// BatchCycles bounds how far a single RunUntil iteration advances before
	// re-checking for due events, in the ARM9 (schedule.Timestamp) domain.
	BatchCycles schedule.Timestamp

	// HighVectors is the ARM9's power-on default for its exception vector
	// base (false: 0x00000000, true: 0xFFFF0000). CP15's control register
	// can still toggle this at runtime; this only seeds the reset state.
	HighVectors bool

	// AccuratePipeline is passed to the ARM9 only, as
	// arm9.WithAccuratePipeline. armcore records it in Config but no code
	// reads it, so it does not change how instructions are fetched. Off by
	// default.
	AccuratePipeline bool
}

// DefaultModel is the conservative baseline: no high vectors, no accurate
// pipeline tracking, and a batch size large enough to amortise the
// batch-loop overhead without starving event latency (the shortest
// coprocessor completion is the square-root unit's 26 cycles, the divider's
// is 36; an event scheduled during a batch is only drained at that batch's
// end).
var DefaultModel = Model{
	BatchCycles:      512,
	HighVectors:      false,
	AccuratePipeline: false,
}
