package sim

import "testing"

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate(): got %v, want nil", err)
	}
}

func TestConfig_Validate_RejectsZeroSimDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimDuration = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Validate: got nil error for SimDuration=0, want an error")
	}
}

func TestConfig_Validate_RejectsEmptyRunName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RunName = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate: got nil error for empty RunName, want an error")
	}
}

func TestWorkloadConfig_Validate_RejectsNonPositiveAverageLoad(t *testing.T) {
	cfg := DefaultWorkloadConfig()
	cfg.AverageLoad = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Validate: got nil for AverageLoad=0, want an error")
	}
}

func TestWorkloadConfig_Validate_RejectsUnknownArrivalModel(t *testing.T) {
	cfg := DefaultWorkloadConfig()
	cfg.ArrivalModel = "bogus"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate: got nil for an unknown ArrivalModel, want an error")
	}
}

func TestBreakwaterConfig_Validate_SkipsChecksWhenDisabled(t *testing.T) {
	cfg := BreakwaterConfig{Enabled: false}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate on a disabled config: got %v, want nil", err)
	}
}

func TestBreakwaterConfig_Validate_RejectsMinGreaterThanMax(t *testing.T) {
	cfg := DefaultBreakwaterConfig()
	cfg.MinCredits = 500
	cfg.MaxCredits = 100

	if err := cfg.Validate(); err == nil {
		t.Error("Validate: got nil for MinCredits > MaxCredits, want an error")
	}
}

func TestCoreAllocationConfig_Validate_RejectsMappingLengthMismatch(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.NumThreads = 4
	cfg.Mapping = []int{0, 1}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate: got nil for a Mapping shorter than NumThreads, want an error")
	}
}

func TestCoreAllocationConfig_Validate_RejectsMappingOutOfRange(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.NumThreads = 2
	cfg.NumQueues = 2
	cfg.Mapping = []int{0, 5}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate: got nil for a Mapping entry out of range, want an error")
	}
}

func TestCoreAllocationConfig_Validate_RejectsReplayAndRecordTogether(t *testing.T) {
	cfg := DefaultCoreAllocationConfig()
	cfg.ReallocationReplay = true
	cfg.ReallocationRecord = true

	if err := cfg.Validate(); err == nil {
		t.Error("Validate: got nil for ReallocationReplay+ReallocationRecord both set, want an error")
	}
}

func TestTraceConfig_Validate_RejectsNonPositiveSampleInterval(t *testing.T) {
	cfg := DefaultTraceConfig()
	cfg.SampleIntervalTicks = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Validate: got nil for SampleIntervalTicks=0, want an error")
	}
}
