// Tracks simulation-wide counters for periodic sampling and final
// reporting. No control decision reads them.

package sim

import "fmt"

// Metrics aggregates run-wide counters for final reporting and for the
// periodic sampling step of the per-tick cycle (§2 step 6).
type Metrics struct {
	CompletedTasks int
	DroppedTasks   int64
	TotalLatency   int64 // sum of sojourn times across completed tasks

	// CurrentUtilization is the fraction of worker observations that found
	// the worker holding a task, over the samples of the last closed
	// interval.
	CurrentUtilization float64

	// NumPairedCores is a diagnostic, non-gating count of cores that could
	// be spending time on a productive non-local task; never used in any
	// control decision.
	NumPairedCores int

	intervalBusyTicks int64
	intervalTotalTicks int64
}

// RecordCompletion folds a completed task's sojourn time into the running
// totals.
func (m *Metrics) RecordCompletion(sojourn int64) {
	m.CompletedTasks++
	m.TotalLatency += sojourn
}

// RecordDrop increments the drop counter.
func (m *Metrics) RecordDrop() {
	m.DroppedTasks++
}

// SampleUtilization folds one tick's busy/total observation into the
// current-interval accumulators, used to compute CurrentUtilization at the
// next ResetInterval call.
func (m *Metrics) SampleUtilization(busyThreads, totalThreads int) {
	m.intervalBusyTicks += int64(busyThreads)
	m.intervalTotalTicks += int64(totalThreads)
}

// ResetInterval finalizes CurrentUtilization from the accumulated sample
// and resets the accumulators for the next interval (§2 step 6: "periodic
// counters... are updated").
func (m *Metrics) ResetInterval() {
	if m.intervalTotalTicks > 0 {
		m.CurrentUtilization = float64(m.intervalBusyTicks) / float64(m.intervalTotalTicks)
	}
	m.intervalBusyTicks = 0
	m.intervalTotalTicks = 0
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Completed Tasks      : %d\n", m.CompletedTasks)
	fmt.Printf("Dropped Tasks        : %d\n", m.DroppedTasks)
	if m.CompletedTasks > 0 {
		avgLatency := float64(m.TotalLatency) / float64(m.CompletedTasks)
		fmt.Printf("Average Latency      : %.2f ticks\n", avgLatency)
	}
	fmt.Printf("Utilization (last interval) : %.4f\n", m.CurrentUtilization)
}
