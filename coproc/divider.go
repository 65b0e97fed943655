package coproc

import "github.com/jetsetilly/twincore/schedule"

// DivMode selects the divider's operand widths.
type DivMode uint8

// The three divider operating modes (spec.md §4.6).
const (
	Div32By32 DivMode = iota
	Div64By32
	Div64By64
)

// divLatency32By32 is the completion latency for the 32/32 mode; every other
// mode takes longer because of the wider operands.
const (
	divLatency32By32 = schedule.Timestamp(36)
	divLatencyWide   = schedule.Timestamp(68)
)

// DivControl is the divider's control word: bits 0-1 select the mode, bit 14
// reports division-by-zero, bit 15 reports busy.
type DivControl uint16

// Mode extracts the configured operating mode.
func (c DivControl) Mode() DivMode { return DivMode(c & 0x3) }

// DivideByZero reports whether the last division had a zero denominator.
func (c DivControl) DivideByZero() bool { return c&0x4000 != 0 }

// Busy reports whether a result is still being computed.
func (c DivControl) Busy() bool { return c&0x8000 != 0 }

func (c DivControl) withMode(m DivMode) DivControl {
	return (c &^ 0x3) | DivControl(m&0x3)
}

func (c DivControl) withDivideByZero(v bool) DivControl {
	if v {
		return c | 0x4000
	}
	return c &^ 0x4000
}

func (c DivControl) withBusy(v bool) DivControl {
	if v {
		return c | 0x8000
	}
	return c &^ 0x8000
}

// Divider is the ARM9's integer division coprocessor (spec.md §4.6).
type Divider struct {
	control     DivControl
	numerator   uint64
	denominator uint64
	quotient    uint64
	remainder   uint64
	slot        schedule.Slot
}

// DivResultReady is the event kind bound to the divider's slot, exported so
// a driver popping events off the shared scheduler can dispatch on it with a
// type switch (spec.md §3's "scheduler slot... holding {event kind, ...}").
type DivResultReady struct{}

// NewDivider returns a Divider bound to the given scheduler slot.
func NewDivider(slot schedule.Slot, sched *schedule.Schedule) *Divider {
	sched.SetEvent(slot, DivResultReady{})
	return &Divider{slot: slot}
}

func (d *Divider) latency() schedule.Timestamp {
	if d.control.Mode() == Div32By32 {
		return divLatency32By32
	}
	return divLatencyWide
}

func (d *Divider) scheduleDataReady(sched *schedule.Schedule) {
	if d.control.Busy() {
		sched.CancelEvent(d.slot)
	}
	d.control = d.control.withBusy(true)
	sched.ScheduleEvent(d.slot, sched.CurTime()+d.latency())
}

// Control returns the current control word.
func (d *Divider) Control() DivControl { return d.control }

// WriteControl updates the operating mode and restarts the computation.
func (d *Divider) WriteControl(mode DivMode, sched *schedule.Schedule) {
	d.control = d.control.withMode(mode)
	d.scheduleDataReady(sched)
}

// Numerator returns the raw numerator register.
func (d *Divider) Numerator() uint64 { return d.numerator }

// WriteNumerator sets the numerator and restarts the computation.
func (d *Divider) WriteNumerator(value uint64, sched *schedule.Schedule) {
	d.numerator = value
	d.scheduleDataReady(sched)
}

// Denominator returns the raw denominator register.
func (d *Divider) Denominator() uint64 { return d.denominator }

// WriteDenominator sets the denominator and restarts the computation.
func (d *Divider) WriteDenominator(value uint64, sched *schedule.Schedule) {
	d.denominator = value
	d.scheduleDataReady(sched)
}

// Quotient returns the current quotient, stale until the completion event
// fires.
func (d *Divider) Quotient() uint64 { return d.quotient }

// Remainder returns the current remainder, stale until the completion event
// fires.
func (d *Divider) Remainder() uint64 { return d.remainder }

// HandleResultReady performs the division and clears busy. Numerator width
// is always 64 bits of storage; Div32By32 and Div64By32 interpret only the
// low 32 bits of the denominator, per spec.md §4.6.
func (d *Divider) HandleResultReady() {
	d.control = d.control.withBusy(false)

	mode := d.control.Mode()

	var num int64
	var den int64
	switch mode {
	case Div32By32:
		num = int64(int32(d.numerator))
		den = int64(int32(d.denominator))
	case Div64By32:
		num = int64(d.numerator)
		den = int64(int32(d.denominator))
	default: // Div64By64
		num = int64(d.numerator)
		den = int64(d.denominator)
	}

	if den == 0 {
		// spec.md §4.6: quotient is the numerator sign-extended, remainder is
		// the numerator verbatim.
		d.control = d.control.withDivideByZero(true)
		d.remainder = d.numerator
		d.quotient = uint64(num)
		return
	}

	d.control = d.control.withDivideByZero(false)
	// Two's-complement division truncating toward zero, matching Go's
	// native integer division semantics.
	d.quotient = uint64(num / den)
	d.remainder = uint64(num % den)
}

// RestoreRegisters sets every register directly from a savestate without
// touching the scheduler: the completion event this unit was waiting on (if
// any) is restored separately via the shared Schedule's own Snapshot/Restore,
// which preserves each slot's scheduled flag and time; the busy bit is part
// of control and is restored here.
func (d *Divider) RestoreRegisters(control DivControl, numerator, denominator, quotient, remainder uint64) {
	d.control = control
	d.numerator = numerator
	d.denominator = denominator
	d.quotient = quotient
	d.remainder = remainder
}
