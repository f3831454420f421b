// Implements task pre-generation (§4.2): a deterministic, seeded pre-pass
// that produces the full sorted sequence of Tasks a run will inject, before
// the per-tick main loop starts.

package sim

import (
	"math/rand"
	"sort"

	"github.com/estuhr1206/scheduling-policies-sim/sim/workload"
)

// GenerateTasks produces a sorted-by-arrival-time sequence of Tasks for the
// full [0, simDuration) horizon, round-robining client assignment across
// numClients. The workload RNG subsystem is used exclusively, so the same
// seed always reproduces the same sequence (§4.2 "seeded with a
// deterministic function of the run name").
func GenerateTasks(cfg WorkloadConfig, simDuration int64, numClients int, rng *rand.Rand) []Task {
	if numClients <= 0 {
		numClients = 1
	}

	arrivalModel := workload.NewArrivalModel(string(cfg.ArrivalModel))
	serviceSampler := workload.NewServiceTimeSampler(
		string(cfg.ServiceTimeModel), cfg.AvgServiceTime,
		cfg.BimodalLow, cfg.BimodalHigh, cfg.BimodalHighWeight,
	)

	var schedule workload.RateSchedule
	switch cfg.LoadShift {
	case LoadShiftOverTime:
		schedule = workload.NewPhaseRateSchedule(simDuration)
	case LoadShiftByRTT:
		// The RTT-toggle schedule is parameterized by RTT, which lives in
		// BreakwaterConfig; callers that want varyload_by_rtt construct the
		// schedule themselves via GenerateTasksWithSchedule. Here we fall
		// back to a fixed schedule so GenerateTasks alone never panics on a
		// zero RTT.
		schedule = workload.FixedRateSchedule{}
	default:
		schedule = workload.FixedRateSchedule{}
	}

	return generateTasks(cfg, simDuration, numClients, rng, arrivalModel, serviceSampler, schedule)
}

// GenerateTasksWithSchedule is GenerateTasks with an explicit RateSchedule,
// used when the caller needs the RTT-toggle variant (which depends on
// BreakwaterConfig.RTT, a sibling config group).
func GenerateTasksWithSchedule(cfg WorkloadConfig, simDuration int64, numClients int, rng *rand.Rand, schedule workload.RateSchedule) []Task {
	arrivalModel := workload.NewArrivalModel(string(cfg.ArrivalModel))
	serviceSampler := workload.NewServiceTimeSampler(
		string(cfg.ServiceTimeModel), cfg.AvgServiceTime,
		cfg.BimodalLow, cfg.BimodalHigh, cfg.BimodalHighWeight,
	)
	return generateTasks(cfg, simDuration, numClients, rng, arrivalModel, serviceSampler, schedule)
}

func generateTasks(cfg WorkloadConfig, simDuration int64, numClients int, rng *rand.Rand, arrivalModel workload.ArrivalModel, serviceSampler workload.ServiceTimeSampler, schedule workload.RateSchedule) []Task {
	baseRate := cfg.AverageLoad * float64(cfg.LoadThreadCount) / cfg.AvgServiceTime

	var tasks []Task
	var now int64
	var nextID TaskID
	client := 0

	for now < simDuration {
		rate := baseRate * schedule.NextRate(now)
		gap := arrivalModel.NextGap(rng, rate)
		now += gap
		if now >= simDuration {
			break
		}
		serviceTime := serviceSampler.Sample(rng)
		tasks = append(tasks, NewTask(nextID, client, serviceTime, now))
		nextID++
		client = (client + 1) % numClients
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].ArrivalTime < tasks[j].ArrivalTime
	})
	return tasks
}
