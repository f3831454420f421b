// Package sim provides the core discrete-event simulation engine for a
// Breakwater-style credit-pool admission controller combined with a
// dynamically-resized core-allocation worker pool.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - task.go: Task lifecycle (generated → pending → queued → running → completed)
//   - queue.go: per-core FIFO with lock/unlock and delay bookkeeping
//   - worker.go: the tagged-variant work-search state machine
//   - client.go / server.go: credit-pool admission and distribution
//   - allocator.go: park/unpark and buffer-core policy
//   - simulator.go: the per-tick main loop that wires all of the above together
//
// # Sub-packages
//
//   - sim/workload/: task arrival and service-time generation, load-shift schedules
//   - sim/trace/: pure trace record types and the in-memory Recorder/Summary
//
// # Concurrency model
//
// The engine is single-threaded cooperative (§5): every per-tick step runs
// sequentially in a fixed component order. There are no real locks and no
// goroutines in the simulation kernel; "locks" on a Queue are boolean
// ownership tags that reject concurrent mutation within a tick rather than
// blocking.
package sim
