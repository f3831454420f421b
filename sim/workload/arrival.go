// Package workload generates the pre-pass sequence of task arrival times
// and service times consumed by sim.SimulationState at init (§4.2), plus
// the load-shift rate schedulers that modulate arrival rate over the run.
package workload

import "math/rand"

// ArrivalModel generates successive inter-arrival gaps, in ticks, for the
// aggregate task stream.
type ArrivalModel interface {
	// NextGap returns the next inter-arrival gap in ticks given the current
	// target rate in tasks/tick. Always returns a positive value.
	NextGap(rng *rand.Rand, ratePerTick float64) int64
}

// PoissonArrivals generates exponentially-distributed inter-arrival gaps.
type PoissonArrivals struct{}

func (PoissonArrivals) NextGap(rng *rand.Rand, ratePerTick float64) int64 {
	if ratePerTick <= 0 {
		ratePerTick = 1e-12
	}
	gap := int64(rng.ExpFloat64() / ratePerTick)
	if gap < 1 {
		return 1
	}
	return gap
}

// RegularArrivals generates a fixed inter-arrival gap equal to 1/rate,
// truncated to whole ticks (spec §4.2 "regular_arrivals": deterministic
// arrival spacing).
type RegularArrivals struct{}

func (RegularArrivals) NextGap(_ *rand.Rand, ratePerTick float64) int64 {
	if ratePerTick <= 0 {
		ratePerTick = 1e-12
	}
	gap := int64(1.0 / ratePerTick)
	if gap < 1 {
		return 1
	}
	return gap
}

// NewArrivalModel selects an ArrivalModel by name, matching
// sim.ArrivalModel's "poisson"/"regular" values.
func NewArrivalModel(name string) ArrivalModel {
	switch name {
	case "regular":
		return RegularArrivals{}
	default:
		return PoissonArrivals{}
	}
}

// RateSchedule computes the instantaneous arrival-rate multiplier applied
// on top of the workload's base rate at a given tick. The two variants
// named in spec §9 Design Notes ("share a small interface next_rate(now)")
// are modeled here as a tagged-variant-style small interface plus distinct
// constructor functions, matching NewArrivalModel's factory shape above.
type RateSchedule interface {
	// NextRate returns the load multiplier in effect at tick now.
	NextRate(now int64) float64
}

// FixedRateSchedule applies a constant multiplier of 1.0 — the no-load-shift
// default.
type FixedRateSchedule struct{}

func (FixedRateSchedule) NextRate(_ int64) float64 { return 1.0 }

// PhaseRateSchedule implements varyload_over_time: the run duration is
// split into len(Phases) equal intervals, each applying its own multiplier.
type PhaseRateSchedule struct {
	Phases      []float64
	SimDuration int64
}

// NewPhaseRateSchedule returns the spec-literal 4-phase schedule
// [1.0, 0.2, 0.5, 1.4] used by scenario S4, over the given run duration.
func NewPhaseRateSchedule(simDuration int64) PhaseRateSchedule {
	return PhaseRateSchedule{
		Phases:      []float64{1.0, 0.2, 0.5, 1.4},
		SimDuration: simDuration,
	}
}

func (p PhaseRateSchedule) NextRate(now int64) float64 {
	if len(p.Phases) == 0 || p.SimDuration <= 0 {
		return 1.0
	}
	phaseLen := p.SimDuration / int64(len(p.Phases))
	if phaseLen <= 0 {
		return p.Phases[0]
	}
	idx := int(now / phaseLen)
	if idx >= len(p.Phases) {
		idx = len(p.Phases) - 1
	}
	return p.Phases[idx]
}

// RTTToggleRateSchedule implements varyload_by_rtt: the multiplier toggles
// between Low and High every ToggleEvery ticks (spec: "every 15*RTT").
type RTTToggleRateSchedule struct {
	Low, High  float64
	ToggleEvery int64
}

// NewRTTToggleRateSchedule returns the spec-literal [0.1, 0.8] toggle every
// 15*RTT ticks.
func NewRTTToggleRateSchedule(rtt int64) RTTToggleRateSchedule {
	return RTTToggleRateSchedule{Low: 0.1, High: 0.8, ToggleEvery: 15 * rtt}
}

func (t RTTToggleRateSchedule) NextRate(now int64) float64 {
	if t.ToggleEvery <= 0 {
		return t.High
	}
	period := now / t.ToggleEvery
	if period%2 == 0 {
		return t.High
	}
	return t.Low
}
