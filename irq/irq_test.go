package irq_test

import (
	"testing"

	"github.com/jetsetilly/twincore/irq"
	"github.com/jetsetilly/twincore/schedule"
	"github.com/jetsetilly/twincore/test"
)

func TestPendingRequiresMasterEnableAndMask(t *testing.T) {
	var l irq.Lines
	l.SetEnable(0xFFFF)
	l.Raise(3)

	test.ExpectEquality(t, l.Pending(), false) // master disabled

	l.SetMaster(true)
	test.ExpectEquality(t, l.Pending(), true)
}

func TestDisabledLineDoesNotPend(t *testing.T) {
	var l irq.Lines
	l.SetMaster(true)
	l.SetEnable(0)
	l.Raise(3)

	test.ExpectEquality(t, l.Pending(), false)
}

func TestAcknowledgeClearsRequest(t *testing.T) {
	var l irq.Lines
	l.SetMaster(true)
	l.SetEnable(0xFFFF)
	l.Raise(3)
	l.AcknowledgeRequest(1 << 3)

	test.ExpectEquality(t, l.Pending(), false)
	test.ExpectEquality(t, l.Request(), uint32(0))
}

func TestRequestTimerWakesHaltedSchedule(t *testing.T) {
	var l irq.Lines
	l.SetMaster(true)
	l.SetEnable(0xFFFF)

	sched := schedule.New(1)
	sched.SetCurTimeAfter(1000)
	sched.SetTargetTime(1_000_000)

	l.RequestTimer(0, sched)

	test.ExpectEquality(t, sched.TargetTime(), schedule.Timestamp(1000))
}

func TestRequestTimerDoesNotWakeWhenDisabled(t *testing.T) {
	var l irq.Lines
	l.SetMaster(false)

	sched := schedule.New(1)
	sched.SetCurTimeAfter(1000)
	sched.SetTargetTime(1_000_000)

	l.RequestTimer(0, sched)

	test.ExpectEquality(t, sched.TargetTime(), schedule.Timestamp(1_000_000))
}
