package cmd

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/estuhr1206/scheduling-policies-sim/sim"
)

// ScenarioFile is the YAML document shape accepted by --config. It mirrors
// sim.Config's grouped sub-configs; all sections must be listed to satisfy
// strict KnownFields(true) parsing, so a typo'd key is a hard error rather
// than a silently-ignored field.
type ScenarioFile struct {
	SimDuration int64  `yaml:"sim_duration"`
	Seed        int64  `yaml:"seed"`
	RunName     string `yaml:"run_name"`

	Workload struct {
		AverageLoad       float64 `yaml:"average_load"`
		LoadThreadCount   int     `yaml:"load_thread_count"`
		AvgServiceTime    float64 `yaml:"avg_service_time"`
		ArrivalModel      string  `yaml:"arrival_model"`
		ServiceTimeModel  string  `yaml:"service_time_model"`
		LoadShift         string  `yaml:"load_shift"`
		BimodalLow        float64 `yaml:"bimodal_low"`
		BimodalHigh       float64 `yaml:"bimodal_high"`
		BimodalHighWeight float64 `yaml:"bimodal_high_weight"`
	} `yaml:"workload"`

	Breakwater struct {
		Enabled                     bool    `yaml:"enabled"`
		RTT                         int64   `yaml:"rtt"`
		TargetDelay                 int64   `yaml:"target_delay"`
		AggressivenessAlpha         float64 `yaml:"aggressiveness_alpha"`
		ReductionBeta               float64 `yaml:"reduction_beta"`
		MaxCredits                  int64   `yaml:"max_credits"`
		MinCredits                  int64   `yaml:"min_credits"`
		ServerInitialCredits        int64   `yaml:"server_initial_credits"`
		VariableMaxCredits          bool    `yaml:"variable_max_credits"`
		VariableMinCredits          bool    `yaml:"variable_min_credits"`
		InitialCreditsIssued        string  `yaml:"initial_credits_issued"`
		ZeroInitialCores            bool    `yaml:"zero_initial_cores"`
		RampAlpha                   bool    `yaml:"ramp_alpha"`
		PerCoreAlphaIncrease        float64 `yaml:"per_core_alpha_increase"`
		NumClients                  int     `yaml:"num_clients"`
		ClientDeregisterEnabled     bool    `yaml:"client_deregister_enabled"`
		ControlLoopLazyDistribution bool    `yaml:"control_loop_lazy_distribution"`
		AQMEnabled                  bool    `yaml:"aqm_enabled"`
	} `yaml:"breakwater"`

	CoreAllocation struct {
		NumThreads               int     `yaml:"num_threads"`
		NumQueues                int     `yaml:"num_queues"`
		Mapping                  []int   `yaml:"mapping"`
		WorkStealPolicy          string  `yaml:"work_steal_policy"`
		MinimumWorkSearchTime    int64   `yaml:"minimum_work_search_time"`
		AllocationDelayTicks     int64   `yaml:"allocation_delay_ticks"`
		BufferCoresEnabled       bool    `yaml:"buffer_cores_enabled"`
		BufferCoreCountMin       int     `yaml:"buffer_core_count_min"`
		BufferCoreCountMax       int     `yaml:"buffer_core_count_max"`
		BufferCorePctMin         float64 `yaml:"buffer_core_pct_min"`
		BufferCorePctMax         float64 `yaml:"buffer_core_pct_max"`
		DelayRangeEnabled        bool    `yaml:"delay_range_enabled"`
		ReallocationThresholdMax int64   `yaml:"reallocation_threshold_max"`
		ThresholdMin             int64   `yaml:"threshold_min"`
		DelayRangeByServiceTime  bool    `yaml:"delay_range_by_service_time"`
		ReallocationReplay       bool    `yaml:"reallocation_replay"`
		ReallocationRecord       bool    `yaml:"reallocation_record"`
	} `yaml:"core_allocation"`

	Trace struct {
		RecordTaskTimes          bool  `yaml:"record_task_times"`
		RecordCreditPool         bool  `yaml:"record_credit_pool"`
		RecordCoresOverTime      bool  `yaml:"record_cores_over_time"`
		RecordThroughputOverTime bool  `yaml:"record_throughput_over_time"`
		RecordDrops              bool  `yaml:"record_drops"`
		RecordCoreDeallocations  bool  `yaml:"record_core_deallocations"`
		RecordBreakwaterInfo     bool  `yaml:"record_breakwater_info"`
		RecordReallocSchedule    bool  `yaml:"record_realloc_schedule"`
		RecordWorkStealChecks    bool  `yaml:"record_ws_checks"`
		SampleIntervalTicks      int64 `yaml:"sample_interval_ticks"`
	} `yaml:"trace"`
}

// LoadScenarioFile parses a YAML scenario file with strict field checking,
// so a typo'd key is a hard parse error rather than a silently-ignored one.
func LoadScenarioFile(path string) ScenarioFile {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("failed to read config file %s: %v", path, err)
	}
	var sf ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil {
		logrus.Fatalf("failed to parse config YAML %s: %v", path, err)
	}
	return sf
}

// ToEngineConfig converts a parsed ScenarioFile into sim.Config, layering
// its non-zero fields over the provided defaults so a scenario file only
// needs to specify the knobs it cares to override.
func (sf ScenarioFile) ToEngineConfig(defaults sim.Config) sim.Config {
	cfg := defaults

	if sf.SimDuration != 0 {
		cfg.SimDuration = sf.SimDuration
	}
	if sf.Seed != 0 {
		cfg.Seed = sf.Seed
	}
	if sf.RunName != "" {
		cfg.RunName = sf.RunName
	}

	w := sf.Workload
	if w.AverageLoad != 0 {
		cfg.Workload.AverageLoad = w.AverageLoad
	}
	if w.LoadThreadCount != 0 {
		cfg.Workload.LoadThreadCount = w.LoadThreadCount
	}
	if w.AvgServiceTime != 0 {
		cfg.Workload.AvgServiceTime = w.AvgServiceTime
	}
	if w.ArrivalModel != "" {
		cfg.Workload.ArrivalModel = sim.ArrivalModel(w.ArrivalModel)
	}
	if w.ServiceTimeModel != "" {
		cfg.Workload.ServiceTimeModel = sim.ServiceTimeModel(w.ServiceTimeModel)
	}
	if w.LoadShift != "" {
		cfg.Workload.LoadShift = sim.LoadShiftMode(w.LoadShift)
	}
	if w.BimodalLow != 0 {
		cfg.Workload.BimodalLow = w.BimodalLow
	}
	if w.BimodalHigh != 0 {
		cfg.Workload.BimodalHigh = w.BimodalHigh
	}
	if w.BimodalHighWeight != 0 {
		cfg.Workload.BimodalHighWeight = w.BimodalHighWeight
	}

	bw := sf.Breakwater
	cfg.Breakwater.Enabled = bw.Enabled || cfg.Breakwater.Enabled
	if bw.RTT != 0 {
		cfg.Breakwater.RTT = bw.RTT
	}
	if bw.TargetDelay != 0 {
		cfg.Breakwater.TargetDelay = bw.TargetDelay
	}
	if bw.AggressivenessAlpha != 0 {
		cfg.Breakwater.AggressivenessAlpha = bw.AggressivenessAlpha
	}
	if bw.ReductionBeta != 0 {
		cfg.Breakwater.ReductionBeta = bw.ReductionBeta
	}
	if bw.MaxCredits != 0 {
		cfg.Breakwater.MaxCredits = bw.MaxCredits
	}
	if bw.MinCredits != 0 {
		cfg.Breakwater.MinCredits = bw.MinCredits
	}
	if bw.ServerInitialCredits != 0 {
		cfg.Breakwater.ServerInitialCredits = bw.ServerInitialCredits
	}
	cfg.Breakwater.VariableMaxCredits = bw.VariableMaxCredits || cfg.Breakwater.VariableMaxCredits
	cfg.Breakwater.VariableMinCredits = bw.VariableMinCredits || cfg.Breakwater.VariableMinCredits
	if bw.InitialCreditsIssued != "" {
		cfg.Breakwater.InitialCreditsIssued = sim.InitialCreditsMode(bw.InitialCreditsIssued)
	}
	cfg.Breakwater.ZeroInitialCores = bw.ZeroInitialCores || cfg.Breakwater.ZeroInitialCores
	cfg.Breakwater.RampAlpha = bw.RampAlpha || cfg.Breakwater.RampAlpha
	if bw.PerCoreAlphaIncrease != 0 {
		cfg.Breakwater.PerCoreAlphaIncrease = bw.PerCoreAlphaIncrease
	}
	if bw.NumClients != 0 {
		cfg.Breakwater.NumClients = bw.NumClients
	}
	cfg.Breakwater.ClientDeregisterEnabled = bw.ClientDeregisterEnabled || cfg.Breakwater.ClientDeregisterEnabled
	cfg.Breakwater.ControlLoopLazyDistribution = bw.ControlLoopLazyDistribution || cfg.Breakwater.ControlLoopLazyDistribution
	cfg.Breakwater.AQMEnabled = bw.AQMEnabled || cfg.Breakwater.AQMEnabled

	ca := sf.CoreAllocation
	if ca.NumThreads != 0 {
		cfg.CoreAllocation.NumThreads = ca.NumThreads
	}
	if ca.NumQueues != 0 {
		cfg.CoreAllocation.NumQueues = ca.NumQueues
	}
	if len(ca.Mapping) != 0 {
		cfg.CoreAllocation.Mapping = ca.Mapping
	}
	if ca.WorkStealPolicy != "" {
		cfg.CoreAllocation.WorkStealPolicy = sim.WorkStealPolicy(ca.WorkStealPolicy)
	}
	if ca.MinimumWorkSearchTime != 0 {
		cfg.CoreAllocation.MinimumWorkSearchTime = ca.MinimumWorkSearchTime
	}
	if ca.AllocationDelayTicks != 0 {
		cfg.CoreAllocation.AllocationDelayTicks = ca.AllocationDelayTicks
	}
	cfg.CoreAllocation.BufferCoresEnabled = ca.BufferCoresEnabled || cfg.CoreAllocation.BufferCoresEnabled
	if ca.BufferCoreCountMin != 0 {
		cfg.CoreAllocation.BufferCoreCountMin = ca.BufferCoreCountMin
	}
	if ca.BufferCoreCountMax != 0 {
		cfg.CoreAllocation.BufferCoreCountMax = ca.BufferCoreCountMax
	}
	if ca.BufferCorePctMin != 0 {
		cfg.CoreAllocation.BufferCorePctMin = ca.BufferCorePctMin
	}
	if ca.BufferCorePctMax != 0 {
		cfg.CoreAllocation.BufferCorePctMax = ca.BufferCorePctMax
	}
	cfg.CoreAllocation.DelayRangeEnabled = ca.DelayRangeEnabled || cfg.CoreAllocation.DelayRangeEnabled
	if ca.ReallocationThresholdMax != 0 {
		cfg.CoreAllocation.ReallocationThresholdMax = ca.ReallocationThresholdMax
	}
	if ca.ThresholdMin != 0 {
		cfg.CoreAllocation.ThresholdMin = ca.ThresholdMin
	}
	cfg.CoreAllocation.DelayRangeByServiceTime = ca.DelayRangeByServiceTime || cfg.CoreAllocation.DelayRangeByServiceTime
	cfg.CoreAllocation.ReallocationReplay = ca.ReallocationReplay || cfg.CoreAllocation.ReallocationReplay
	cfg.CoreAllocation.ReallocationRecord = ca.ReallocationRecord || cfg.CoreAllocation.ReallocationRecord

	tr := sf.Trace
	cfg.Trace.RecordTaskTimes = tr.RecordTaskTimes || cfg.Trace.RecordTaskTimes
	cfg.Trace.RecordCreditPool = tr.RecordCreditPool || cfg.Trace.RecordCreditPool
	cfg.Trace.RecordCoresOverTime = tr.RecordCoresOverTime || cfg.Trace.RecordCoresOverTime
	cfg.Trace.RecordThroughputOverTime = tr.RecordThroughputOverTime || cfg.Trace.RecordThroughputOverTime
	cfg.Trace.RecordDrops = tr.RecordDrops || cfg.Trace.RecordDrops
	cfg.Trace.RecordCoreDeallocations = tr.RecordCoreDeallocations || cfg.Trace.RecordCoreDeallocations
	cfg.Trace.RecordBreakwaterInfo = tr.RecordBreakwaterInfo || cfg.Trace.RecordBreakwaterInfo
	cfg.Trace.RecordReallocSchedule = tr.RecordReallocSchedule || cfg.Trace.RecordReallocSchedule
	cfg.Trace.RecordWorkStealChecks = tr.RecordWorkStealChecks || cfg.Trace.RecordWorkStealChecks
	if tr.SampleIntervalTicks != 0 {
		cfg.Trace.SampleIntervalTicks = tr.SampleIntervalTicks
	}

	return cfg
}
