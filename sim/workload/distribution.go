package workload

import "math/rand"

// ServiceTimeSampler generates a task's required service time, in ticks.
type ServiceTimeSampler interface {
	// Sample returns a positive service time.
	Sample(rng *rand.Rand) int64
}

// ConstantServiceTime always returns the configured mean.
type ConstantServiceTime struct {
	Mean float64
}

func (s ConstantServiceTime) Sample(_ *rand.Rand) int64 {
	if s.Mean < 1 {
		return 1
	}
	return int64(s.Mean)
}

// ExponentialServiceTime draws from Exponential(1/Mean).
type ExponentialServiceTime struct {
	Mean float64
}

func (s ExponentialServiceTime) Sample(rng *rand.Rand) int64 {
	val := rng.ExpFloat64() * s.Mean
	t := int64(val)
	if t < 1 {
		return 1
	}
	return t
}

// BimodalServiceTime draws High with probability HighWeight, Low otherwise.
// The spec-literal default is a 9:1 mixture of {500, 5500} (HighWeight 0.1).
type BimodalServiceTime struct {
	Low, High float64
	HighWeight float64
}

// NewBimodalServiceTime returns the spec-literal 9:1 mixture of 500 and 5500.
func NewBimodalServiceTime() BimodalServiceTime {
	return BimodalServiceTime{Low: 500, High: 5500, HighWeight: 0.1}
}

func (s BimodalServiceTime) Sample(rng *rand.Rand) int64 {
	weight := s.HighWeight
	if weight <= 0 {
		weight = 0.1
	}
	var val float64
	if rng.Float64() < weight {
		val = s.High
	} else {
		val = s.Low
	}
	t := int64(val)
	if t < 1 {
		return 1
	}
	return t
}

// NewServiceTimeSampler selects a ServiceTimeSampler by name, matching
// sim.ServiceTimeModel's values.
func NewServiceTimeSampler(name string, mean, bimodalLow, bimodalHigh, bimodalHighWeight float64) ServiceTimeSampler {
	switch name {
	case "exponential":
		return ExponentialServiceTime{Mean: mean}
	case "bimodal":
		low, high, weight := bimodalLow, bimodalHigh, bimodalHighWeight
		if low <= 0 {
			low = 500
		}
		if high <= 0 {
			high = 5500
		}
		if weight <= 0 {
			weight = 0.1
		}
		return BimodalServiceTime{Low: low, High: high, HighWeight: weight}
	default:
		return ConstantServiceTime{Mean: mean}
	}
}
