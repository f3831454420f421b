// Package trace provides the nine output trace streams named in the
// external-interface contract (task_times, credit_pool, cores_over_time,
// throughput_over_time, drops_record, core_deallocations, breakwater_info,
// realloc_schedule, ws_checks). This package has no dependency on sim/ — it
// stores pure data types, exactly one record struct per stream, and an
// in-memory Recorder that accumulates them.
package trace

// TaskTimeRecord is one entry of the task_times stream: per-task arrival,
// total time in system, and queue occupancy observed at admission.
type TaskTimeRecord struct {
	TaskID                  int64
	ArrivalTime             int64
	TimeInSystem            int64
	TotalQueueLengthAtAdmit int64
}

// CreditPoolRecord is one entry of the credit_pool stream: a snapshot of the
// global credit pool taken on every control-loop invocation.
type CreditPoolRecord struct {
	Time                  int64
	TotalCredits          int64
	CreditsIssued         int64
	OvercommitmentCredits int64
}

// CoresOverTimeRecord is one entry of the cores_over_time stream.
type CoresOverTimeRecord struct {
	Time            int64
	AvailableQueues int
	ActiveThreads   int
}

// ThroughputRecord is one entry of the throughput_over_time stream.
type ThroughputRecord struct {
	Time                int64
	ThroughputPerSecond float64
}

// DropRecord is one entry of the drops_record stream. CoresAtDrop is the
// supplemented (available_queue_count) sample described in SPEC_FULL.md.
type DropRecord struct {
	Time        int64
	TaskDropped int64
	SystemTasks int64
	CoresAtDrop int64
}

// CoreDeallocationRecord is one entry of the core_deallocations stream,
// captured on every metrics sampling tick.
// The Client0* fields mirror the single-synthetic-client diagnostic view
// the original implementation records alongside the system-wide snapshot.
type CoreDeallocationRecord struct {
	Time                  int64
	AvailableQueues       int
	TotalCredits          int64
	MaxDelay              int64
	MaxDelayQueueID       int
	MaxLength             int64
	MaxLengthQueueID      int
	SystemTasks           int64
	Client0Window         int64
	Client0CInUse         int64
	Client0DroppedCredits int64
	Client0Demand         int64
	Client0PendingLen     int64
}

// BreakwaterInfoRecord is the single aggregate-counters snapshot of the
// breakwater_info stream, taken at end of run.
type BreakwaterInfoRecord struct {
	TotalDropped  int64
	TotalTimedOut int64
}

// ReallocScheduleRecord is one entry of the realloc_schedule stream: a
// single park/unpark decision, with enough context to replay it
// deterministically against a fresh run (§6 "Replay mode").
type ReallocScheduleRecord struct {
	Time           int64
	ThreadID       int
	IsPark         bool
	Attempted      bool
	QueueOccupancy int64
	WorkInSystem   int64
	BufferCores    int
}

// WorkStealCheckRecord is one entry of the ws_checks stream.
type WorkStealCheckRecord struct {
	LocalID        int
	RemoteID       int
	SinceLastCheck int64
	RemoteLen      int64
	CheckCount     int64
	Succeeded      bool
}
