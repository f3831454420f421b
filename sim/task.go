// Defines the Task struct that models a single unit of work admitted into
// the simulation: an arrival time, a fixed service-time cost, and the
// bookkeeping needed to compute queueing delay and completion time.

package sim

// TaskID identifies a Task for the lifetime of a run. IDs are assigned in
// generation order and never reused.
type TaskID int64

// Task is a single schedulable unit of work generated by a client's workload
// and admitted onto one core's Queue. Tasks carry no pointers to their
// owning Client or Queue — all relations are by ID, resolved through the
// owning SimulationState, so Task itself stays pure data.
type Task struct {
	ID           TaskID
	ClientID     int
	ServiceTime  int64 // total ticks of work required
	TimeLeft     int64 // ticks of work remaining; decremented while running
	ArrivalTime  int64 // tick the task was generated; Client.SpendCredits rewrites it to the admission tick
	EnqueueTime  int64 // tick the task was admitted onto a queue
	StartTime    int64 // tick the task first ran on a core, -1 until then
	CompleteTime int64 // tick the task finished, -1 until then

	// QueueLengthAtAdmit is the system task count observed at the moment
	// this task was admitted onto a core queue, carried along so the single
	// task_times record emitted on completion can report both halves of the
	// row without a second, partial write.
	QueueLengthAtAdmit int64
}

// NewTask constructs a Task freshly admitted at the given tick, not yet
// queued or started.
func NewTask(id TaskID, clientID int, serviceTime, arrivalTime int64) Task {
	return Task{
		ID:           id,
		ClientID:     clientID,
		ServiceTime:  serviceTime,
		TimeLeft:     serviceTime,
		ArrivalTime:  arrivalTime,
		EnqueueTime:  arrivalTime,
		StartTime:    -1,
		CompleteTime: -1,
	}
}

// QueueingDelay returns the ticks the task waited between enqueue and first
// execution. Undefined (returns 0) if the task has not yet started.
func (t Task) QueueingDelay() int64 {
	if t.StartTime < 0 {
		return 0
	}
	return t.StartTime - t.EnqueueTime
}

// SojournTime returns the total ticks from arrival to completion. Undefined
// (returns 0) if the task has not yet completed.
func (t Task) SojournTime() int64 {
	if t.CompleteTime < 0 {
		return 0
	}
	return t.CompleteTime - t.ArrivalTime
}

// Done reports whether the task has consumed all of its required service time.
func (t Task) Done() bool {
	return t.TimeLeft <= 0
}
