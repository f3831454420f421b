// Implements the replay mechanism named in §6 ("Replay mode: consumes a
// prior realloc_schedule and applies its park/unpark events at the recorded
// times, overriding the allocation controller"). The schedule is sparse and
// out-of-order relative to task events, so it is held in a small
// container/heap priority queue that the per-tick core-allocation step
// drains of the events due at the current tick.
package sim

import (
	"container/heap"

	"github.com/estuhr1206/scheduling-policies-sim/sim/trace"
)

// ReallocEvent is one recorded park/unpark decision from a prior run's
// realloc_schedule trace stream, replayed at its original tick.
type ReallocEvent struct {
	Time            int64
	ThreadID        int
	IsPark          bool
	QueueOccupancy  int64
	WorkInSystem    int64
	seq             int64 // insertion order, used only to break exact time ties
}

// eventQueue is a min-heap of ReallocEvents ordered by (Time, seq) so that
// events scheduled for the same tick replay in the order they were
// originally recorded — this is what makes replay deterministic (§8
// property 7, S5).
type eventQueue struct {
	events []ReallocEvent
	nextSeq int64
}

func newEventQueue() *eventQueue {
	eq := &eventQueue{}
	heap.Init(eq)
	return eq
}

func (eq *eventQueue) Len() int { return len(eq.events) }

func (eq *eventQueue) Less(i, j int) bool {
	a, b := eq.events[i], eq.events[j]
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.seq < b.seq
}

func (eq *eventQueue) Swap(i, j int) {
	eq.events[i], eq.events[j] = eq.events[j], eq.events[i]
}

func (eq *eventQueue) Push(x any) {
	ev := x.(ReallocEvent)
	eq.events = append(eq.events, ev)
}

func (eq *eventQueue) Pop() any {
	old := eq.events
	n := len(old)
	ev := old[n-1]
	eq.events = old[:n-1]
	return ev
}

// Schedule enqueues a replay event, stamping it with the next insertion
// sequence number.
func (eq *eventQueue) Schedule(ev ReallocEvent) {
	ev.seq = eq.nextSeq
	eq.nextSeq++
	heap.Push(eq, ev)
}

// PeekTime reports the tick of the earliest pending event and whether one
// exists.
func (eq *eventQueue) PeekTime() (int64, bool) {
	if eq.Len() == 0 {
		return 0, false
	}
	return eq.events[0].Time, true
}

// PopDue removes and returns every event scheduled at exactly tick now, in
// recorded order.
func (eq *eventQueue) PopDue(now int64) []ReallocEvent {
	var due []ReallocEvent
	for eq.Len() > 0 {
		t, ok := eq.PeekTime()
		if !ok || t != now {
			break
		}
		due = append(due, heap.Pop(eq).(ReallocEvent))
	}
	return due
}

// loadReallocSchedule seeds a replay queue from a previously recorded
// realloc_schedule trace.
func loadReallocSchedule(records []trace.ReallocScheduleRecord) *eventQueue {
	eq := newEventQueue()
	for _, r := range records {
		eq.Schedule(ReallocEvent{
			Time:           r.Time,
			ThreadID:       r.ThreadID,
			IsPark:         r.IsPark,
			QueueOccupancy: r.QueueOccupancy,
			WorkInSystem:   r.WorkInSystem,
		})
	}
	return eq
}
