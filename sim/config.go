package sim

import "fmt"

// ArrivalModel selects how inter-arrival gaps are generated.
type ArrivalModel string

const (
	ArrivalPoisson ArrivalModel = "poisson"
	ArrivalRegular ArrivalModel = "regular"
)

// ServiceTimeModel selects how per-task service time is generated.
type ServiceTimeModel string

const (
	ServiceTimeConstant    ServiceTimeModel = "constant"
	ServiceTimeExponential ServiceTimeModel = "exponential"
	ServiceTimeBimodal     ServiceTimeModel = "bimodal"
)

// LoadShiftMode selects the optional load-shift schedule applied on top of
// the base arrival rate.
type LoadShiftMode string

const (
	LoadShiftNone     LoadShiftMode = "none"
	LoadShiftOverTime LoadShiftMode = "varyload_over_time"
	LoadShiftByRTT    LoadShiftMode = "varyload_by_rtt"
)

// InitialCreditsMode selects how BreakwaterServer.CreditsIssued is seeded
// when InitialCredits is enabled (spec Open Question).
type InitialCreditsMode string

const (
	InitialCreditsZero  InitialCreditsMode = "zero"
	InitialCreditsTotal InitialCreditsMode = "total"
)

// WorkStealPolicy selects how a STEAL-state worker picks a remote queue.
type WorkStealPolicy string

const (
	WorkStealRandom       WorkStealPolicy = "random"
	WorkStealRoundRobin   WorkStealPolicy = "round_robin"
	WorkStealFlagTargeted WorkStealPolicy = "flag"
)

// WorkloadConfig groups task-generation parameters (§4.2).
type WorkloadConfig struct {
	AverageLoad       float64          // average_system_load: fraction of capacity, 0 < x
	LoadThreadCount   int              // load_thread_count: nominal number of concurrent generators
	AvgServiceTime    float64          // AVERAGE_SERVICE_TIME in ticks
	ArrivalModel      ArrivalModel     // poisson or regular
	ServiceTimeModel  ServiceTimeModel // constant, exponential, or bimodal
	LoadShift         LoadShiftMode    // none, varyload_over_time, varyload_by_rtt
	BimodalLow        float64          // bimodal low mode (default 500)
	BimodalHigh       float64          // bimodal high mode (default 5500)
	BimodalHighWeight float64          // probability mass on the high mode (default 0.1, i.e. 9:1)
}

// DefaultWorkloadConfig returns Poisson arrivals with a constant service
// time of 1000 ticks, as in the literal scenario S1 of spec §8. The bimodal
// parameters default to the 9:1 mixture of 500 and 5500, used only when
// ServiceTimeModel is set to bimodal.
func DefaultWorkloadConfig() WorkloadConfig {
	return WorkloadConfig{
		AverageLoad:       0.5,
		LoadThreadCount:   4,
		AvgServiceTime:    1000,
		ArrivalModel:      ArrivalPoisson,
		ServiceTimeModel:  ServiceTimeConstant,
		LoadShift:         LoadShiftNone,
		BimodalLow:        500,
		BimodalHigh:       5500,
		BimodalHighWeight: 0.1,
	}
}

// Validate reports the first invalid field found.
func (c WorkloadConfig) Validate() error {
	if c.AverageLoad <= 0 {
		return fmt.Errorf("workload: AverageLoad must be > 0, got %v", c.AverageLoad)
	}
	if c.LoadThreadCount <= 0 {
		return fmt.Errorf("workload: LoadThreadCount must be > 0, got %d", c.LoadThreadCount)
	}
	if c.AvgServiceTime <= 0 {
		return fmt.Errorf("workload: AvgServiceTime must be > 0, got %v", c.AvgServiceTime)
	}
	switch c.ArrivalModel {
	case ArrivalPoisson, ArrivalRegular:
	default:
		return fmt.Errorf("workload: unknown ArrivalModel %q", c.ArrivalModel)
	}
	switch c.ServiceTimeModel {
	case ServiceTimeConstant, ServiceTimeExponential, ServiceTimeBimodal:
	default:
		return fmt.Errorf("workload: unknown ServiceTimeModel %q", c.ServiceTimeModel)
	}
	switch c.LoadShift {
	case LoadShiftNone, LoadShiftOverTime, LoadShiftByRTT:
	default:
		return fmt.Errorf("workload: unknown LoadShift %q", c.LoadShift)
	}
	if c.BimodalHighWeight < 0 || c.BimodalHighWeight > 1 {
		return fmt.Errorf("workload: BimodalHighWeight must be in [0,1], got %v", c.BimodalHighWeight)
	}
	return nil
}

// BreakwaterConfig groups the global credit-pool controller's parameters
// (§4.5–§4.7).
type BreakwaterConfig struct {
	Enabled bool

	RTT                    int64   // control-loop period, ticks
	TargetDelay            int64   // d_t, ticks
	AggressivenessAlpha    float64 // α, additive-increase coefficient
	ReductionBeta          float64 // β, multiplicative-decrease coefficient
	MaxCredits             int64   // constant max_credits (unless VariableMaxCredits)
	MinCredits             int64   // constant min_credits (unless VariableMinCredits)
	ServerInitialCredits   int64   // Ctotal at t=0

	VariableMaxCredits bool // 25 + RTT/5000*150 + target_delay/100 + 150
	VariableMinCredits bool // max(MinCredits, RTT/5000*19)

	InitialCreditsIssued InitialCreditsMode // "zero" or "total"; default zero
	ZeroInitialCores     bool               // start with zero unparked cores, let allocator ramp up

	RampAlpha            bool    // enable the ramp_alpha per-core additive bonus
	PerCoreAlphaIncrease  float64 // PER_CORE_ALPHA_INCREASE

	NumClients int

	ClientDeregisterEnabled      bool // spec Open Question, default false
	ControlLoopLazyDistribution  bool // spec Open Question, default false

	AQMEnabled bool // gate for §4.7's 2*target_delay admission check; default true
}

// DefaultBreakwaterConfig matches the RTT=5000/target_delay=10000 literal
// scenario S1/S2 defaults from spec §8.
func DefaultBreakwaterConfig() BreakwaterConfig {
	return BreakwaterConfig{
		Enabled:                     true,
		RTT:                         5000,
		TargetDelay:                 10000,
		AggressivenessAlpha:         1.0,
		ReductionBeta:               0.5,
		MaxCredits:                  200,
		MinCredits:                  10,
		ServerInitialCredits:        10,
		VariableMaxCredits:          false,
		VariableMinCredits:          false,
		InitialCreditsIssued:        InitialCreditsZero,
		ZeroInitialCores:            false,
		RampAlpha:                   false,
		PerCoreAlphaIncrease:        1.0,
		NumClients:                  1,
		ClientDeregisterEnabled:     false,
		ControlLoopLazyDistribution: false,
		AQMEnabled:                  true,
	}
}

func (c BreakwaterConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RTT <= 0 {
		return fmt.Errorf("breakwater: RTT must be > 0, got %d", c.RTT)
	}
	if c.TargetDelay <= 0 {
		return fmt.Errorf("breakwater: TargetDelay must be > 0, got %d", c.TargetDelay)
	}
	if c.AggressivenessAlpha <= 0 {
		return fmt.Errorf("breakwater: AggressivenessAlpha must be > 0, got %v", c.AggressivenessAlpha)
	}
	if c.ReductionBeta <= 0 {
		return fmt.Errorf("breakwater: ReductionBeta must be > 0, got %v", c.ReductionBeta)
	}
	if !c.VariableMaxCredits && c.MaxCredits <= 0 {
		return fmt.Errorf("breakwater: MaxCredits must be > 0, got %d", c.MaxCredits)
	}
	if !c.VariableMinCredits && c.MinCredits < 0 {
		return fmt.Errorf("breakwater: MinCredits must be >= 0, got %d", c.MinCredits)
	}
	if !c.VariableMaxCredits && !c.VariableMinCredits && c.MinCredits > c.MaxCredits {
		return fmt.Errorf("breakwater: MinCredits (%d) must be <= MaxCredits (%d)", c.MinCredits, c.MaxCredits)
	}
	if c.NumClients <= 0 {
		return fmt.Errorf("breakwater: NumClients must be > 0, got %d", c.NumClients)
	}
	switch c.InitialCreditsIssued {
	case InitialCreditsZero, InitialCreditsTotal, "":
	default:
		return fmt.Errorf("breakwater: unknown InitialCreditsIssued %q", c.InitialCreditsIssued)
	}
	return nil
}

// CoreAllocationConfig groups the buffer-core and park/unpark controller's
// parameters (§4.8).
type CoreAllocationConfig struct {
	NumThreads int
	NumQueues  int
	// Mapping binds thread i to queue Mapping[i]. Empty means 1:1 identity.
	Mapping []int

	WorkStealPolicy       WorkStealPolicy
	MinimumWorkSearchTime int64 // MINIMUM_WORK_SEARCH_TIME, ticks
	AllocationDelayTicks  int64 // ticks a worker spends ALLOCATING before becoming productive

	BufferCoresEnabled bool
	BufferCoreCountMin int
	BufferCoreCountMax int
	BufferCorePctMin   float64
	BufferCorePctMax   float64

	DelayRangeEnabled       bool
	ReallocationThresholdMax int64 // ALLOCATION_THRESHOLD analogue
	ThresholdMin            int64
	DelayRangeByServiceTime bool

	ReallocationReplay bool // consume a prior realloc_schedule instead of controlling live
	ReallocationRecord bool // record the realloc_schedule this run produces
}

// DefaultCoreAllocationConfig matches the num_threads=4, no-buffer-core
// defaults used by S1/S2.
func DefaultCoreAllocationConfig() CoreAllocationConfig {
	return CoreAllocationConfig{
		NumThreads:               4,
		NumQueues:                4,
		Mapping:                  nil,
		WorkStealPolicy:          WorkStealRandom,
		MinimumWorkSearchTime:    100,
		AllocationDelayTicks:     0,
		BufferCoresEnabled:       false,
		BufferCoreCountMin:       0,
		BufferCoreCountMax:       0,
		BufferCorePctMin:         0,
		BufferCorePctMax:         0,
		DelayRangeEnabled:        false,
		ReallocationThresholdMax: 20000,
		ThresholdMin:             5000,
		DelayRangeByServiceTime:  false,
		ReallocationReplay:       false,
		ReallocationRecord:       false,
	}
}

func (c CoreAllocationConfig) Validate() error {
	if c.NumThreads <= 0 {
		return fmt.Errorf("core_allocation: NumThreads must be > 0, got %d", c.NumThreads)
	}
	if c.NumQueues <= 0 {
		return fmt.Errorf("core_allocation: NumQueues must be > 0, got %d", c.NumQueues)
	}
	if len(c.Mapping) != 0 && len(c.Mapping) != c.NumThreads {
		return fmt.Errorf("core_allocation: Mapping length %d must equal NumThreads %d", len(c.Mapping), c.NumThreads)
	}
	for _, q := range c.Mapping {
		if q < 0 || q >= c.NumQueues {
			return fmt.Errorf("core_allocation: Mapping entry %d out of range [0,%d)", q, c.NumQueues)
		}
	}
	switch c.WorkStealPolicy {
	case WorkStealRandom, WorkStealRoundRobin, WorkStealFlagTargeted:
	default:
		return fmt.Errorf("core_allocation: unknown WorkStealPolicy %q", c.WorkStealPolicy)
	}
	if c.MinimumWorkSearchTime < 0 {
		return fmt.Errorf("core_allocation: MinimumWorkSearchTime must be >= 0, got %d", c.MinimumWorkSearchTime)
	}
	if c.BufferCoresEnabled && c.BufferCoreCountMin > c.BufferCoreCountMax && c.BufferCoreCountMax != 0 {
		return fmt.Errorf("core_allocation: BufferCoreCountMin (%d) must be <= BufferCoreCountMax (%d)", c.BufferCoreCountMin, c.BufferCoreCountMax)
	}
	if c.ReallocationReplay && c.ReallocationRecord {
		return fmt.Errorf("core_allocation: ReallocationReplay and ReallocationRecord are mutually exclusive")
	}
	return nil
}

// TraceConfig toggles individual output trace streams (§6).
type TraceConfig struct {
	RecordTaskTimes        bool
	RecordCreditPool       bool
	RecordCoresOverTime    bool
	RecordThroughputOverTime bool
	RecordDrops            bool
	RecordCoreDeallocations bool
	RecordBreakwaterInfo   bool
	RecordReallocSchedule  bool
	RecordWorkStealChecks  bool

	SampleIntervalTicks int64 // period for cores_over_time / throughput_over_time sampling
}

func DefaultTraceConfig() TraceConfig {
	return TraceConfig{
		RecordTaskTimes:          true,
		RecordCreditPool:         true,
		RecordCoresOverTime:      true,
		RecordThroughputOverTime: true,
		RecordDrops:              true,
		RecordCoreDeallocations:  true,
		RecordBreakwaterInfo:     true,
		RecordReallocSchedule:    false,
		RecordWorkStealChecks:    false,
		SampleIntervalTicks:      1000,
	}
}

func (c TraceConfig) Validate() error {
	if c.SampleIntervalTicks <= 0 {
		return fmt.Errorf("trace: SampleIntervalTicks must be > 0, got %d", c.SampleIntervalTicks)
	}
	return nil
}

// Config is the frozen configuration record the engine consumes. Loading it
// from YAML or flags is an external collaborator's job (§1 Out of Scope);
// the engine only ever sees a validated Config value.
type Config struct {
	SimDuration int64
	Seed        int64
	RunName     string

	Workload       WorkloadConfig
	Breakwater     BreakwaterConfig
	CoreAllocation CoreAllocationConfig
	Trace          TraceConfig
}

// DefaultConfig returns the S1 literal-scenario configuration from spec §8.
func DefaultConfig() Config {
	return Config{
		SimDuration:    1_000_000,
		Seed:           1,
		RunName:        "default",
		Workload:       DefaultWorkloadConfig(),
		Breakwater:     DefaultBreakwaterConfig(),
		CoreAllocation: DefaultCoreAllocationConfig(),
		Trace:          DefaultTraceConfig(),
	}
}

// Validate checks every sub-config and the top-level fields, returning the
// first error encountered.
func (c Config) Validate() error {
	if c.SimDuration <= 0 {
		return fmt.Errorf("config: SimDuration must be > 0, got %d", c.SimDuration)
	}
	if c.RunName == "" {
		return fmt.Errorf("config: RunName must not be empty")
	}
	if err := c.Workload.Validate(); err != nil {
		return err
	}
	if err := c.Breakwater.Validate(); err != nil {
		return err
	}
	if err := c.CoreAllocation.Validate(); err != nil {
		return err
	}
	if err := c.Trace.Validate(); err != nil {
		return err
	}
	return nil
}
