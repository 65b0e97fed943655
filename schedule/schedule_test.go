package schedule_test

import (
	"testing"

	"github.com/jetsetilly/twincore/schedule"
	"github.com/jetsetilly/twincore/test"
)

const (
	slotDivider schedule.Slot = iota
	slotSqrt
	slotTimer0
)

func TestBatchEndIsMinOfEventAndCap(t *testing.T) {
	s := schedule.New(3)
	s.SetEvent(slotTimer0, "timer0")
	s.ScheduleEvent(slotTimer0, 100)

	test.ExpectEquality(t, s.BatchEnd(64), schedule.Timestamp(64))

	s.SetCurTimeAfter(50)
	test.ExpectEquality(t, s.BatchEnd(64), schedule.Timestamp(100))
}

func TestBatchEndWithNoEventsIsCapped(t *testing.T) {
	s := schedule.New(3)
	test.ExpectEquality(t, s.BatchEnd(64), schedule.Timestamp(64))
}

func TestPopPendingEventOrdersBySlotIndexOnTie(t *testing.T) {
	s := schedule.New(3)
	s.SetEvent(slotDivider, "divider")
	s.SetEvent(slotSqrt, "sqrt")
	s.ScheduleEvent(slotSqrt, 10)
	s.ScheduleEvent(slotDivider, 10)

	s.SetCurTimeAfter(10)

	kind, at, ok := s.PopPendingEvent()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, kind.(string), "divider")
	test.ExpectEquality(t, at, schedule.Timestamp(10))

	kind, at, ok = s.PopPendingEvent()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, kind.(string), "sqrt")
	test.ExpectEquality(t, at, schedule.Timestamp(10))

	_, _, ok = s.PopPendingEvent()
	test.ExpectFailure(t, ok)
}

func TestRescheduleReplacesRatherThanDuplicates(t *testing.T) {
	s := schedule.New(2)
	s.SetEvent(slotDivider, "divider")
	s.ScheduleEvent(slotDivider, 36)
	s.ScheduleEvent(slotDivider, 72)

	test.ExpectEquality(t, s.NextEventTime(), schedule.Timestamp(72))
}

func TestCancelEventClearsSchedule(t *testing.T) {
	s := schedule.New(2)
	s.SetEvent(slotDivider, "divider")
	s.ScheduleEvent(slotDivider, 36)
	s.CancelEvent(slotDivider)

	test.ExpectEquality(t, s.NextEventTime(), schedule.Forever)
}

func TestSetCurTimeAfterIsMonotone(t *testing.T) {
	s := schedule.New(1)
	s.SetCurTimeAfter(100)
	s.SetCurTimeAfter(50)
	test.ExpectEquality(t, s.CurTime(), schedule.Timestamp(100))
}

func TestSetTargetTimeBeforeIsMonotone(t *testing.T) {
	s := schedule.New(1)
	s.SetTargetTime(1000)
	s.SetTargetTimeBefore(500)
	s.SetTargetTimeBefore(800)
	test.ExpectEquality(t, s.TargetTime(), schedule.Timestamp(500))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := schedule.New(2)
	s.SetEvent(slotDivider, "divider")
	s.ScheduleEvent(slotDivider, 36)
	s.SetCurTimeAfter(10)
	s.SetTargetTime(5000)

	snap := s.Snapshot()

	s2 := schedule.New(2)
	s2.SetEvent(slotDivider, "divider")
	s2.Restore(snap)

	test.ExpectEquality(t, s2.CurTime(), s.CurTime())
	test.ExpectEquality(t, s2.TargetTime(), s.TargetTime())
	test.ExpectEquality(t, s2.NextEventTime(), s.NextEventTime())
}
