// Implements the core-allocation (buffer-core / park-unpark) controller
// (§4.8). It decides, once per tick, whether to park a worker whose
// work-search has exhausted its budget, or unpark one in response to
// delay pressure — while keeping the buffer-core count within its
// configured range.

package sim

import "math"

// CoreAllocator holds the park/unpark controller's configuration and
// derived bookkeeping. It operates on Worker/Queue state owned by
// SimulationState, passed in at call time rather than held by reference,
// matching the index-based ownership model (§3).
type CoreAllocator struct {
	cfg CoreAllocationConfig
}

func NewCoreAllocator(cfg CoreAllocationConfig) *CoreAllocator {
	return &CoreAllocator{cfg: cfg}
}

// BufferCoreBounds returns the allowed [min, max] buffer-core count for the
// given count of currently-working (non-parked) cores, resolving the
// absolute-vs-percentage config per §4.8.
func (a *CoreAllocator) BufferCoreBounds(working int) (min, max int) {
	if !a.cfg.BufferCoresEnabled {
		return 0, working
	}
	if a.cfg.BufferCoreCountMin > 0 {
		min = a.cfg.BufferCoreCountMin
	} else if a.cfg.BufferCorePctMin > 0 {
		min = int(math.Ceil(float64(working) * a.cfg.BufferCorePctMin / 100))
	}
	if a.cfg.BufferCoreCountMax > 0 {
		max = a.cfg.BufferCoreCountMax
	} else if a.cfg.BufferCorePctMax > 0 {
		max = int(math.Ceil(float64(working) * a.cfg.BufferCorePctMax / 100))
		if max < 1 {
			max = 1
		}
	} else {
		max = working
	}
	if max < min {
		max = min
	}
	return min, max
}

// CanPark reports whether parking the given worker keeps the system within
// its buffer-core minimum and leaves at least one available queue (§4.8
// deallocate rule).
func (a *CoreAllocator) CanPark(currentBufferCores, bufferMin, availableQueues int) bool {
	if availableQueues <= 1 {
		return false
	}
	if a.cfg.BufferCoresEnabled && currentBufferCores-1 < bufferMin {
		return false
	}
	return true
}

// ShouldUnpark reports whether delay pressure warrants unparking a worker,
// given the current max observed delay and queue length against the
// configured allocation threshold (§4.8 allocate rule).
func (a *CoreAllocator) ShouldUnpark(maxDelay int64, maxQueueLen int64) bool {
	if !a.cfg.DelayRangeEnabled {
		return false
	}
	return maxDelay > a.cfg.ReallocationThresholdMax || maxQueueLen > a.cfg.ReallocationThresholdMax
}

// SearchExhausted reports whether a worker has searched (in STEAL state)
// longer than the configured minimum work-search budget.
func (a *CoreAllocator) SearchExhausted(now int64, searchStart int64) bool {
	return now-searchStart >= a.cfg.MinimumWorkSearchTime
}
