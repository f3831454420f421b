// Implements SimulationState, the sole owner of every mutable collection in
// a run, and the fixed-order per-tick main loop (§2 System Overview, §4.1
// Clock and Event Loop). Every other type in this package is data that
// SimulationState drives; nothing outside this file calls components in any
// order other than the one fixed here.

package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/estuhr1206/scheduling-policies-sim/sim/trace"
	"github.com/estuhr1206/scheduling-policies-sim/sim/workload"
)

// SimulationState owns every aggregate collection for one run (§3). A fresh
// value is constructed per run; nothing here is shared across runs, which
// is what lets independent parameter-sweep processes each hold their own
// engine with no cross-talk (§5).
type SimulationState struct {
	Config Config
	Clock  int64

	rng *PartitionedRNG

	Workers []*Worker
	Queues  []*Queue
	Clients []*Client
	Server  *BreakwaterServer

	allocator *CoreAllocator

	pendingArrivals []Task
	arrivalCursor   int

	parked     map[int]bool
	allocating map[int]bool

	lastControlLoop  int64
	lastSampleTick   int64
	prevWorkingCores int

	replayQueue *eventQueue

	Recorder *trace.Recorder
	Metrics  Metrics
}

// NewSimulationState constructs a fresh run from a validated Config. It
// pre-generates the full arrival sequence (§4.2), builds the worker/queue
// topology, and seeds the Breakwater server and clients.
func NewSimulationState(cfg Config) *SimulationState {
	key := NewSimulationKey(cfg.Seed)
	rng := NewPartitionedRNG(key)

	s := &SimulationState{
		Config:     cfg,
		rng:        rng,
		parked:     make(map[int]bool),
		allocating: make(map[int]bool),
	}

	s.allocator = NewCoreAllocator(cfg.CoreAllocation)

	s.Queues = make([]*Queue, cfg.CoreAllocation.NumQueues)
	for i := range s.Queues {
		s.Queues[i] = NewQueue(i)
	}

	s.Workers = make([]*Worker, cfg.CoreAllocation.NumThreads)
	for i := range s.Workers {
		queueID := i % cfg.CoreAllocation.NumQueues
		if len(cfg.CoreAllocation.Mapping) == cfg.CoreAllocation.NumThreads {
			queueID = cfg.CoreAllocation.Mapping[i]
		}
		s.Workers[i] = NewWorker(i, queueID)
		if cfg.Breakwater.ZeroInitialCores {
			s.Workers[i].State = StateParked
			s.parked[i] = true
		}
	}

	s.Server = NewBreakwaterServer(cfg.Breakwater)

	s.Clients = make([]*Client, cfg.Breakwater.NumClients)
	for i := range s.Clients {
		s.Clients[i] = NewClient(i)
	}
	for _, c := range s.Clients {
		c.Registered = true
		newWindow := s.Server.RegisterClient(c.ID, c.Window)
		c.SetWindow(newWindow)
	}

	workloadRNG := rng.ForSubsystem(SubsystemWorkload)
	s.pendingArrivals = s.generateArrivals(cfg, workloadRNG)

	s.Recorder = trace.NewRecorder(trace.StreamConfig{
		TaskTimes:          cfg.Trace.RecordTaskTimes,
		CreditPool:         cfg.Trace.RecordCreditPool,
		CoresOverTime:      cfg.Trace.RecordCoresOverTime,
		ThroughputOverTime: cfg.Trace.RecordThroughputOverTime,
		Drops:              cfg.Trace.RecordDrops,
		CoreDeallocations:  cfg.Trace.RecordCoreDeallocations,
		BreakwaterInfo:     cfg.Trace.RecordBreakwaterInfo,
		ReallocSchedule:    cfg.Trace.RecordReallocSchedule,
		WorkStealChecks:    cfg.Trace.RecordWorkStealChecks,
	})

	return s
}

func (s *SimulationState) generateArrivals(cfg Config, rng *rand.Rand) []Task {
	if cfg.Workload.LoadShift == LoadShiftByRTT {
		schedule := workload.NewRTTToggleRateSchedule(cfg.Breakwater.RTT)
		return GenerateTasksWithSchedule(cfg.Workload, cfg.SimDuration, cfg.Breakwater.NumClients, rng, schedule)
	}
	return GenerateTasks(cfg.Workload, cfg.SimDuration, cfg.Breakwater.NumClients, rng)
}

// incompleteTasksRemain reports whether any task is still pending, queued,
// or in flight anywhere in the engine — part of the main loop's
// continuation condition (§4.1).
func (s *SimulationState) incompleteTasksRemain() bool {
	if s.arrivalCursor < len(s.pendingArrivals) {
		return true
	}
	for _, c := range s.Clients {
		if len(c.Pending) > 0 {
			return true
		}
	}
	for _, q := range s.Queues {
		if q.Length() > 0 {
			return true
		}
	}
	for _, w := range s.Workers {
		if w.CurrentTask != nil {
			return true
		}
	}
	return false
}

// Run drives the per-tick main loop while time has not yet reached the
// horizon AND some task is still incomplete or pending injection (§4.1).
func (s *SimulationState) Run() {
	for s.Clock < s.Config.SimDuration && s.incompleteTasksRemain() {
		s.step()
		s.Clock++
	}
	s.finalizeBreakwaterInfo()
	logrus.Infof("run %q complete at tick %d: %d completed, %d dropped",
		s.Config.RunName, s.Clock, s.Metrics.CompletedTasks, s.Metrics.DroppedTasks)
}

// step executes exactly one tick's fixed-order cycle (§2):
//  1. arrival injector
//  2. Breakwater control loop (when due)
//  3. per-client control
//  4. worker step
//  5. core-allocation controller
//  6. metrics sampling
func (s *SimulationState) step() {
	s.injectArrivals()
	s.runControlLoopIfDue()
	s.runClientControl()
	s.runWorkers()
	s.runCoreAllocation()
	s.sampleMetrics()
}

// injectArrivals releases every pre-generated task whose arrival time has
// come due into its assigned client's pending queue (§2 step 1).
func (s *SimulationState) injectArrivals() {
	for s.arrivalCursor < len(s.pendingArrivals) && s.pendingArrivals[s.arrivalCursor].ArrivalTime <= s.Clock {
		task := s.pendingArrivals[s.arrivalCursor]
		s.arrivalCursor++
		client := s.Clients[task.ClientID]
		client.EnqueueTask(task)
	}
}

// maxQueueDelay returns the maximum CurrentDelay across all core queues, and
// the id of the queue that attains it.
func (s *SimulationState) maxQueueDelay() (delay int64, queueID int) {
	for _, q := range s.Queues {
		d := q.CurrentDelay(s.Clock)
		if d > delay {
			delay = d
			queueID = q.ID
		}
	}
	return delay, queueID
}

func (s *SimulationState) maxQueueLength() (length int64, queueID int) {
	for _, q := range s.Queues {
		l := q.LengthByServiceTime()
		if l > length {
			length = l
			queueID = q.ID
		}
	}
	return length, queueID
}

// runControlLoopIfDue fires the Breakwater control loop once every RTT
// ticks (§2 step 2, §4.5).
func (s *SimulationState) runControlLoopIfDue() {
	if !s.Config.Breakwater.Enabled {
		return
	}
	if s.Clock-s.lastControlLoop < s.Config.Breakwater.RTT {
		return
	}
	s.lastControlLoop = s.Clock

	maxDelay, _ := s.maxQueueDelay()
	s.Server.MaxDelay = maxDelay

	workingCores := s.workingCoreCount()
	newlyAdded := workingCores - s.prevWorkingCores
	if newlyAdded < 0 {
		newlyAdded = 0
	}
	s.Server.RunControlLoop(newlyAdded)
	s.prevWorkingCores = workingCores

	if s.Config.Breakwater.ControlLoopLazyDistribution && len(s.Clients) > 0 {
		s.distributeToClient(s.Clients[0])
	}

	s.Recorder.RecordCreditPool(trace.CreditPoolRecord{
		Time:                  s.Clock,
		TotalCredits:          s.Server.TotalCredits,
		CreditsIssued:         s.Server.CreditsIssued,
		OvercommitmentCredits: s.Server.Overcommitment,
	})
}

// distributeToClient runs §4.6's lazy distribution for one client and
// applies the result, then kicks its control step (spend_credits) so the
// new window is acted on immediately.
func (s *SimulationState) distributeToClient(c *Client) {
	newWindow, _ := s.Server.DistributeDelta(c.Window, c.Demand())
	c.SetWindow(newWindow)
	s.runClientSpend(c)
}

// runClientControl implements §2 step 3 and §4.7: every client attempts to
// spend credits against its current window.
func (s *SimulationState) runClientControl() {
	for _, c := range s.Clients {
		s.runClientSpend(c)
	}
}

func (s *SimulationState) runClientSpend(c *Client) {
	for {
		maxDelay, _ := s.maxQueueDelay()
		result, task := c.SpendCredits(s.Clock, s.Config.Breakwater.TargetDelay, s.Config.Breakwater.AQMEnabled, maxDelay, s.availableQueueCount(), true)
		switch result {
		case AdmitNone:
			return
		case AdmitDropped:
			s.Metrics.RecordDrop()
			s.Recorder.RecordDrop(trace.DropRecord{
				Time:        s.Clock,
				TaskDropped: 1,
				SystemTasks: s.systemTaskCount(),
				CoresAtDrop: int64(s.availableQueueCount()),
			})
			return
		case AdmitAdmitted:
			q := s.Queues[s.pickAvailableQueue()]
			task.QueueLengthAtAdmit = s.systemTaskCount()
			q.Enqueue(task, s.Clock, true)
			// Loop again: a client may spend multiple credits in the same
			// tick while it still has both demand and CUnused.
		}
	}
}

func (s *SimulationState) systemTaskCount() int64 {
	var n int64
	for _, q := range s.Queues {
		n += int64(q.Length())
	}
	for _, w := range s.Workers {
		if w.CurrentTask != nil {
			n++
		}
	}
	return n
}

func (s *SimulationState) availableQueueCount() int {
	n := 0
	for _, w := range s.Workers {
		if !w.IsParked() {
			n++
		}
	}
	return n
}

func (s *SimulationState) pickAvailableQueue() int {
	candidates := make([]int, 0, len(s.Queues))
	for _, w := range s.Workers {
		if !w.IsParked() {
			candidates = append(candidates, w.QueueID)
		}
	}
	if len(candidates) == 0 {
		return 0
	}
	rng := s.rng.ForSubsystem(SubsystemBreakwater)
	return candidates[rng.Intn(len(candidates))]
}

// runWorkers implements §2 step 4 and the per-worker state machine of §4.4.
func (s *SimulationState) runWorkers() {
	for _, w := range s.Workers {
		s.stepWorker(w)
	}
}

func (s *SimulationState) stepWorker(w *Worker) {
	switch w.State {
	case StateParked:
		return
	case StateAllocating:
		if s.Clock >= w.UnparkAt {
			w.State = StateLocal
		}
		return
	}

	if w.CurrentTask != nil {
		w.CurrentTask.TimeLeft--
		if w.CurrentTask.Done() {
			task := *w.CurrentTask
			task.CompleteTime = s.Clock
			w.CurrentTask = nil
			w.State = StateYield
			s.completeTask(task)
			if w.ScheduledDealloc {
				// A replayed park event arrived while this worker was still
				// busy (§4.8 deallocate rule); honor it now that the task
				// it was holding for has finished.
				w.ScheduledDealloc = false
				s.parkWorker(w)
			}
			return
		}
		return
	}

	q := s.Queues[w.QueueID]
	if q.Length() > 0 {
		if task, ok := q.Dequeue(); ok {
			if task.StartTime < 0 {
				task.StartTime = s.Clock
			}
			w.CurrentTask = &task
			w.State = StateLocal
			w.SearchStart = 0
			return
		}
	}

	// No local work: search for something to steal (§4.4 step 4).
	if w.State != StateSteal {
		w.State = StateSteal
		w.SearchStart = s.Clock
	}
	s.attemptSteal(w)

	if w.CurrentTask == nil && s.allocator.SearchExhausted(s.Clock, w.SearchStart) {
		working := s.workingCoreCount()
		bufferMin, _ := s.allocator.BufferCoreBounds(working)
		currentBuffer := s.countBufferCores()
		if s.allocator.CanPark(currentBuffer, bufferMin, s.availableQueueCount()) {
			s.parkWorker(w)
		}
	}
}

func (s *SimulationState) completeTask(task Task) {
	c := s.Clients[task.ClientID]
	c.AcknowledgeCompletion()
	s.Metrics.RecordCompletion(task.SojournTime())
	s.Recorder.RecordTaskTime(trace.TaskTimeRecord{
		TaskID:                  int64(task.ID),
		ArrivalTime:             task.ArrivalTime,
		TimeInSystem:            task.SojournTime(),
		TotalQueueLengthAtAdmit: task.QueueLengthAtAdmit,
	})

	s.distributeToClient(c)
}

func (s *SimulationState) attemptSteal(w *Worker) {
	rng := s.rng.ForSubsystem(SubsystemWorkSteal)
	candidates := make([]*Queue, 0, len(s.Queues))
	for _, q := range s.Queues {
		if q.ID != w.QueueID {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return
	}

	var target *Queue
	switch s.Config.CoreAllocation.WorkStealPolicy {
	case WorkStealRoundRobin:
		target = candidates[int(s.Clock)%len(candidates)]
	default:
		target = candidates[rng.Intn(len(candidates))]
	}

	succeeded := false
	if target.Length() >= 2 && !target.IsLocked() {
		if target.Lock(w.ID) {
			if task, ok := target.DequeueTail(); ok {
				if task.StartTime < 0 {
					task.StartTime = s.Clock
				}
				w.CurrentTask = &task
				w.State = StateLocal
				succeeded = true
			}
			target.Unlock(w.ID)
		}
	}

	s.Recorder.RecordWorkStealCheck(trace.WorkStealCheckRecord{
		LocalID:        w.QueueID,
		RemoteID:       target.ID,
		SinceLastCheck: s.Clock - target.lastWorkSteal,
		RemoteLen:      int64(target.Length()),
		Succeeded:      succeeded,
	})
	target.lastWorkSteal = s.Clock
}

func (s *SimulationState) workingCoreCount() int {
	n := 0
	for _, w := range s.Workers {
		if !w.IsParked() {
			n++
		}
	}
	return n
}

func (s *SimulationState) countBufferCores() int {
	n := 0
	for _, w := range s.Workers {
		q := s.Queues[w.QueueID]
		if w.IsBufferCore(q.Length() == 0, true) {
			n++
		}
	}
	return n
}

// countPairedCores reports how many cores could be spending their time on a
// productive, non-local task right now: the smaller of the queued task
// count and the count of idle cores (not parked and not holding a task;
// a worker still serving its allocation delay counts as idle).
// Diagnostic only; never consulted by any control decision.
func (s *SimulationState) countPairedCores() int {
	queued := 0
	for _, q := range s.Queues {
		queued += q.Length()
	}

	idle := 0
	for _, w := range s.Workers {
		if w.CurrentTask == nil && w.State != StateParked {
			idle++
		}
	}

	paired := queued
	if idle < paired {
		paired = idle
	}
	return paired
}

func (s *SimulationState) parkWorker(w *Worker) {
	if w.CurrentTask != nil {
		w.ScheduledDealloc = true
		return
	}
	q := s.Queues[w.QueueID]
	q.Unlock(w.ID)
	w.State = StateParked
	s.parked[w.ID] = true

	s.Recorder.RecordReallocSchedule(trace.ReallocScheduleRecord{
		Time:           s.Clock,
		ThreadID:       w.ID,
		IsPark:         true,
		Attempted:      true,
		QueueOccupancy: int64(q.Length()),
		WorkInSystem:   s.systemTaskCount(),
	})
}

func (s *SimulationState) unparkWorker(w *Worker) {
	delete(s.parked, w.ID)
	if s.Config.CoreAllocation.AllocationDelayTicks > 0 {
		w.State = StateAllocating
		w.UnparkAt = s.Clock + s.Config.CoreAllocation.AllocationDelayTicks
	} else {
		w.State = StateLocal
	}

	s.Recorder.RecordReallocSchedule(trace.ReallocScheduleRecord{
		Time:      s.Clock,
		ThreadID:  w.ID,
		IsPark:    false,
		Attempted: true,
	})
}

// runCoreAllocation implements §2 step 5: unpark a worker when observed
// delay or queued work exceeds the allocation threshold (§4.8), or — in
// replay mode — apply a previously-recorded park/unpark schedule instead.
// Live parking on search exhaustion happens in stepWorker, not here.
func (s *SimulationState) runCoreAllocation() {
	if s.Config.CoreAllocation.ReallocationReplay && s.replayQueue != nil {
		for _, ev := range s.replayQueue.PopDue(s.Clock) {
			w := s.Workers[ev.ThreadID]
			if ev.IsPark {
				s.parkWorker(w)
			} else {
				s.unparkWorker(w)
			}
		}
		return
	}

	maxDelay, _ := s.maxQueueDelay()
	maxLen, _ := s.maxQueueLength()
	if s.allocator.ShouldUnpark(maxDelay, maxLen) {
		if w := s.mostRecentlyParked(); w != nil {
			s.unparkWorker(w)
		}
	}
}

// mostRecentlyParked returns the highest-id parked worker, approximating
// LIFO unpark order (§4.8: "unpark the most-recently parked thread (LIFO)")
// without needing a separate parked-order stack.
func (s *SimulationState) mostRecentlyParked() *Worker {
	var best *Worker
	for _, w := range s.Workers {
		if w.IsParked() {
			best = w
		}
	}
	return best
}

// sampleMetrics implements §2 step 6: periodic counters are updated on the
// configured sampling interval.
func (s *SimulationState) sampleMetrics() {
	interval := s.Config.Trace.SampleIntervalTicks
	if interval <= 0 {
		interval = 1000
	}
	if s.Clock-s.lastSampleTick < interval {
		return
	}
	s.lastSampleTick = s.Clock

	busy := 0
	for _, w := range s.Workers {
		if w.CurrentTask != nil {
			busy++
		}
	}
	s.Metrics.SampleUtilization(busy, len(s.Workers))
	s.Metrics.ResetInterval()
	s.Metrics.NumPairedCores = s.countPairedCores()

	s.Recorder.RecordCoresOverTime(trace.CoresOverTimeRecord{
		Time:            s.Clock,
		AvailableQueues: s.availableQueueCount(),
		ActiveThreads:   busy,
	})

	throughput := 0.0
	if s.Clock > 0 {
		throughput = float64(s.Metrics.CompletedTasks) / float64(s.Clock) * 1e9
	}
	s.Recorder.RecordThroughput(trace.ThroughputRecord{
		Time:                s.Clock,
		ThroughputPerSecond: throughput,
	})

	maxDelay, maxDelayQ := s.maxQueueDelay()
	maxLen, maxLenQ := s.maxQueueLength()
	var c0 *Client
	if len(s.Clients) > 0 {
		c0 = s.Clients[0]
	}
	rec := trace.CoreDeallocationRecord{
		Time:             s.Clock,
		AvailableQueues:  s.availableQueueCount(),
		TotalCredits:     s.Server.TotalCredits,
		MaxDelay:         maxDelay,
		MaxDelayQueueID:  maxDelayQ,
		MaxLength:        maxLen,
		MaxLengthQueueID: maxLenQ,
		SystemTasks:      s.systemTaskCount(),
	}
	if c0 != nil {
		rec.Client0Window = c0.Window
		rec.Client0CInUse = c0.CInUse
		rec.Client0DroppedCredits = c0.DroppedTasks
		rec.Client0Demand = c0.Demand()
		rec.Client0PendingLen = int64(len(c0.Pending))
	}
	s.Recorder.RecordCoreDeallocation(rec)
}

func (s *SimulationState) finalizeBreakwaterInfo() {
	var dropped, timedOut int64
	for _, c := range s.Clients {
		dropped += c.DroppedTasks
	}
	s.Server.TotalDropped = dropped
	s.Server.TotalTimedOut = timedOut
	s.Recorder.SetBreakwaterInfo(trace.BreakwaterInfoRecord{
		TotalDropped:  dropped,
		TotalTimedOut: timedOut,
	})
}

// LoadReplaySchedule wires a previously-recorded realloc_schedule into this
// run so runCoreAllocation replays it instead of computing live decisions
// (§6 Replay mode, §8 property 7).
func (s *SimulationState) LoadReplaySchedule(records []trace.ReallocScheduleRecord) {
	s.replayQueue = loadReallocSchedule(records)
}
