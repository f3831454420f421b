package sim

import "testing"

func TestCoreAllocator_BufferCoreBounds_DisabledReturnsFullRange(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.BufferCoresEnabled = false
	a := NewCoreAllocator(cfg)

	min, max := a.BufferCoreBounds(8)

	if min != 0 || max != 8 {
		t.Errorf("BufferCoreBounds: got (%d,%d), want (0,8)", min, max)
	}
}

func TestCoreAllocator_BufferCoreBounds_AbsoluteCounts(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.BufferCoresEnabled = true
	cfg.BufferCoreCountMin = 1
	cfg.BufferCoreCountMax = 3
	a := NewCoreAllocator(cfg)

	min, max := a.BufferCoreBounds(8)

	if min != 1 || max != 3 {
		t.Errorf("BufferCoreBounds: got (%d,%d), want (1,3)", min, max)
	}
}

func TestCoreAllocator_BufferCoreBounds_PercentageCounts(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.BufferCoresEnabled = true
	cfg.BufferCorePctMin = 10  // ceil(8*0.1) = 1
	cfg.BufferCorePctMax = 50  // ceil(8*0.5) = 4
	a := NewCoreAllocator(cfg)

	min, max := a.BufferCoreBounds(8)

	if min != 1 {
		t.Errorf("BufferCoreBounds min: got %d, want 1", min)
	}
	if max != 4 {
		t.Errorf("BufferCoreBounds max: got %d, want 4", max)
	}
}

func TestCoreAllocator_BufferCoreBounds_MaxNeverBelowMin(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.BufferCoresEnabled = true
	cfg.BufferCoreCountMin = 5
	cfg.BufferCoreCountMax = 2
	a := NewCoreAllocator(cfg)

	min, max := a.BufferCoreBounds(8)

	if max < min {
		t.Errorf("BufferCoreBounds: got max %d < min %d", max, min)
	}
}

func TestCoreAllocator_CanPark_RefusesWhenOnlyOneQueueAvailable(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	a := NewCoreAllocator(cfg)

	if a.CanPark(5, 0, 1) {
		t.Error("CanPark: got true with availableQueues=1, want false")
	}
}

func TestCoreAllocator_CanPark_RefusesBelowBufferMinimum(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.BufferCoresEnabled = true
	a := NewCoreAllocator(cfg)

	// currentBufferCores-1 < bufferMin: 2-1=1 < 2
	if a.CanPark(2, 2, 4) {
		t.Error("CanPark: got true when parking would breach buffer-core minimum")
	}
}

func TestCoreAllocator_CanPark_AllowsWhenAboveMinimumAndEnoughQueues(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.BufferCoresEnabled = true
	a := NewCoreAllocator(cfg)

	if !a.CanPark(3, 1, 4) {
		t.Error("CanPark: got false, want true (3-1=2 >= min 1, 4 queues available)")
	}
}

func TestCoreAllocator_ShouldUnpark_DisabledAlwaysFalse(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.DelayRangeEnabled = false
	a := NewCoreAllocator(cfg)

	if a.ShouldUnpark(1_000_000, 1_000_000) {
		t.Error("ShouldUnpark: got true with DelayRangeEnabled=false, want false")
	}
}

func TestCoreAllocator_ShouldUnpark_TriggersOnDelayOrLengthOverThreshold(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.DelayRangeEnabled = true
	cfg.ReallocationThresholdMax = 1000
	a := NewCoreAllocator(cfg)

	if !a.ShouldUnpark(2000, 0) {
		t.Error("ShouldUnpark: got false for delay over threshold, want true")
	}
	if !a.ShouldUnpark(0, 2000) {
		t.Error("ShouldUnpark: got false for length over threshold, want true")
	}
	if a.ShouldUnpark(500, 500) {
		t.Error("ShouldUnpark: got true for both under threshold, want false")
	}
}

func TestCoreAllocator_SearchExhausted_RespectsMinimumWorkSearchTime(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.MinimumWorkSearchTime = 100
	a := NewCoreAllocator(cfg)

	if a.SearchExhausted(150, 100) {
		t.Error("SearchExhausted: got true before the budget elapsed (50 < 100)")
	}
	if !a.SearchExhausted(200, 100) {
		t.Error("SearchExhausted: got false once the budget elapsed (100 >= 100)")
	}
}
