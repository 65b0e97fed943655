// Package schedule implements the cooperative event scheduler shared by both
// CPU cores: a monotonic cycle counter, a small set of preallocated event
// slots, and the batch-end arithmetic the driver uses to decide how far to
// run each core before draining due events.
package schedule

// Timestamp is a monotonic cycle count on the ARM9 clock domain. ARM7 cycles
// are exactly two ARM9 cycles (see SPEC_FULL.md §3); callers convert at the
// driver level, the scheduler itself only ever compares Timestamps.
type Timestamp uint64

// Forever is returned by NextEventTime when no event is scheduled.
const Forever = Timestamp(^uint64(0))

// Max returns the larger of two Timestamps.
func Max(a, b Timestamp) Timestamp {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of two Timestamps.
func Min(a, b Timestamp) Timestamp {
	if a < b {
		return a
	}
	return b
}

// Slot identifies a preallocated event slot. The concrete slot set (divider,
// sqrt, each timer, each DMA channel, IPC, ...) is defined by the owning
// package; Schedule itself only ever indexes by the raw integer so it never
// allocates on the hot path.
type Slot int

type slot struct {
	kind      any
	bound     bool
	scheduled bool
	time      Timestamp
}

// Schedule is a fixed-capacity event queue ordered by time, with ties broken
// by ascending slot index (spec.md §4.8's determinism requirement). It is not
// a heap: the slot count is small enough (a few dozen at most) that a linear
// scan for the minimum is cheaper than the bookkeeping a heap would need, and
// it keeps cancel/reschedule trivially O(1).
type Schedule struct {
	curTime    Timestamp
	targetTime Timestamp
	slots      []slot
}

// New returns a Schedule with capacity preallocated slots, all initially
// unbound and unscheduled.
func New(capacity int) *Schedule {
	return &Schedule{slots: make([]slot, capacity)}
}

// CurTime is the scheduler's current position.
func (s *Schedule) CurTime() Timestamp { return s.curTime }

// SetCurTime sets the scheduler's current position directly.
func (s *Schedule) SetCurTime(t Timestamp) { s.curTime = t }

// SetCurTimeAfter advances cur_time monotonically: it never moves backward.
func (s *Schedule) SetCurTimeAfter(t Timestamp) { s.curTime = Max(s.curTime, t) }

// TargetTime is the time the driver currently wants to reach.
func (s *Schedule) TargetTime() Timestamp { return s.targetTime }

// SetTargetTime sets the target directly.
func (s *Schedule) SetTargetTime(t Timestamp) { s.targetTime = t }

// SetTargetTimeBefore pulls target_time in monotonically: it never moves
// later, only earlier or unchanged.
func (s *Schedule) SetTargetTimeBefore(t Timestamp) { s.targetTime = Min(s.targetTime, t) }

// SetEvent binds kind to slot, without scheduling it. A slot must be bound
// before it can be scheduled; re-binding a slot that is already scheduled
// keeps its scheduled time.
func (s *Schedule) SetEvent(i Slot, kind any) {
	s.slots[i].kind = kind
	s.slots[i].bound = true
}

// ScheduleEvent places (or replaces) the event in slot i at time t. At most
// one entry exists per slot; re-scheduling an already-scheduled slot just
// replaces its time, per spec.md §3's invariant.
func (s *Schedule) ScheduleEvent(i Slot, t Timestamp) {
	s.slots[i].scheduled = true
	s.slots[i].time = t
}

// CancelEvent removes any pending schedule for slot i. The bound kind is
// left in place; only the "due at time t" state is cleared.
func (s *Schedule) CancelEvent(i Slot) {
	s.slots[i].scheduled = false
}

// NextEventTime is the earliest scheduled time across every slot, or Forever
// if nothing is scheduled.
func (s *Schedule) NextEventTime() Timestamp {
	next := Forever
	for i := range s.slots {
		if s.slots[i].scheduled && s.slots[i].time < next {
			next = s.slots[i].time
		}
	}
	return next
}

// PopPendingEvent returns the earliest scheduled event with time <= cur_time,
// clearing its scheduled state, or ok=false if none is due. Ties are broken
// by ascending slot index, matching spec.md §4.8's determinism requirement.
func (s *Schedule) PopPendingEvent() (kind any, t Timestamp, ok bool) {
	best := -1
	for i := range s.slots {
		if !s.slots[i].scheduled || s.slots[i].time > s.curTime {
			continue
		}
		if best == -1 || s.slots[i].time < s.slots[best].time {
			best = i
		}
	}
	if best == -1 {
		return nil, 0, false
	}
	s.slots[best].scheduled = false
	return s.slots[best].kind, s.slots[best].time, true
}

// BatchEnd computes the end of the next run batch: the earliest of the next
// due event and cur_time+batchCycles, per spec.md §4.8.
func (s *Schedule) BatchEnd(batchCycles Timestamp) Timestamp {
	return Min(s.NextEventTime(), s.curTime+batchCycles)
}

// Snapshot is the savestate-friendly flat copy of scheduler state. kind
// values are opaque to the scheduler (see Slot), so a snapshot only restores
// the time bookkeeping; bound event kinds are expected to be re-bound by the
// owner via SetEvent after Restore, the same way the owner originally
// constructed the schedule.
type Snapshot struct {
	CurTime    Timestamp
	TargetTime Timestamp
	Scheduled  []bool
	Times      []Timestamp
}

// Snapshot copies the scheduler's time bookkeeping into a flat struct.
func (s *Schedule) Snapshot() Snapshot {
	scheduled := make([]bool, len(s.slots))
	times := make([]Timestamp, len(s.slots))
	for i := range s.slots {
		scheduled[i] = s.slots[i].scheduled
		times[i] = s.slots[i].time
	}
	return Snapshot{CurTime: s.curTime, TargetTime: s.targetTime, Scheduled: scheduled, Times: times}
}

// Restore is the inverse of Snapshot. It does not touch bound event kinds;
// callers must re-bind slots via SetEvent if those aren't already set from
// construction.
func (s *Schedule) Restore(snap Snapshot) {
	s.curTime = snap.CurTime
	s.targetTime = snap.TargetTime
	for i := range s.slots {
		if i < len(snap.Scheduled) {
			s.slots[i].scheduled = snap.Scheduled[i]
			s.slots[i].time = snap.Times[i]
		}
	}
}
