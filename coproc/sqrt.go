// Package coproc implements the ARM9 coprocessor math units: the integer
// divider and the integer square root engine. Both are "busy"-bit units
// driven by the shared scheduler — writing an operand or the control word
// cancels any in-flight completion and reschedules a fresh one after a fixed
// latency; result() always returns the last computed value, possibly stale
// until the completion event fires.
package coproc

import "github.com/jetsetilly/twincore/schedule"

// sqrtLatency is the fixed number of cycles between a write and the result
// becoming valid, regardless of operand width.
const sqrtLatency = schedule.Timestamp(26)

// SqrtControl is the square-root unit's control word: bit 0 selects 64-bit
// input, bit 15 reports busy.
type SqrtControl uint16

// Input64Bit reports whether the unit is configured for a 64-bit input.
func (c SqrtControl) Input64Bit() bool { return c&1 != 0 }

// Busy reports whether a result is still being computed.
func (c SqrtControl) Busy() bool { return c&0x8000 != 0 }

func (c SqrtControl) withBusy(busy bool) SqrtControl {
	if busy {
		return c | 0x8000
	}
	return c &^ 0x8000
}

// Sqrt is the one-bit-at-a-time restoring square root engine (spec.md §4.6).
type Sqrt struct {
	control SqrtControl
	input   uint64
	result  uint32
	slot    schedule.Slot
}

// NewSqrt returns a Sqrt bound to the given scheduler slot, which the caller
// has already reserved (one slot per math unit, per spec.md §3).
func NewSqrt(slot schedule.Slot, sched *schedule.Schedule) *Sqrt {
	sched.SetEvent(slot, SqrtResultReady{})
	return &Sqrt{slot: slot}
}

// SqrtResultReady is the event kind bound to the sqrt engine's slot,
// exported so a driver popping events off the shared scheduler can
// dispatch on it with a type switch.
type SqrtResultReady struct{}

func (s *Sqrt) scheduleDataReady(sched *schedule.Schedule) {
	if s.control.Busy() {
		sched.CancelEvent(s.slot)
	}
	s.control = s.control.withBusy(true)
	sched.ScheduleEvent(s.slot, sched.CurTime()+sqrtLatency)
}

// Control returns the current control word.
func (s *Sqrt) Control() SqrtControl { return s.control }

// WriteControl updates the input-width bit (the busy bit is read-only to
// software) and restarts the computation.
func (s *Sqrt) WriteControl(value SqrtControl, sched *schedule.Schedule) {
	s.control = (s.control & 0x8000) | (value & 0x0001)
	s.scheduleDataReady(sched)
}

// Input returns the current radicand.
func (s *Sqrt) Input() uint64 { return s.input }

// WriteInput sets the radicand and restarts the computation.
func (s *Sqrt) WriteInput(value uint64, sched *schedule.Schedule) {
	s.input = value
	s.scheduleDataReady(sched)
}

// Result returns the current result, which is stale until the completion
// event fires; reading never blocks (spec.md §4.6).
func (s *Sqrt) Result() uint32 { return s.result }

// HandleResultReady runs the restoring square-root algorithm and clears
// busy. Called by the owner when the scheduler pops the sqrt slot's event.
func (s *Sqrt) HandleResultReady() {
	s.control = s.control.withBusy(false)

	var input uint64
	var bit uint64
	if s.control.Input64Bit() {
		input, bit = s.input, uint64(1)<<62
	} else {
		input, bit = uint64(uint32(s.input)), uint64(1)<<30
	}

	var result uint64
	for bit > input {
		bit >>= 2
	}
	for bit != 0 {
		if input >= result+bit {
			input -= result + bit
			result = (result >> 1) + bit
		} else {
			result >>= 1
		}
		bit >>= 2
	}
	s.result = uint32(result)
}

// RestoreRegisters sets every register directly from a savestate without
// touching the scheduler; see Divider.RestoreRegisters for why.
func (s *Sqrt) RestoreRegisters(control SqrtControl, input uint64, result uint32) {
	s.control = control
	s.input = input
	s.result = result
}
