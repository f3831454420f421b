package trace

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates statistics from a Recorder at the end of a run: task
// latency distribution, drop count, and how often the credit pool sat at
// its observed maximum and minimum.
type Summary struct {
	CompletedTasks int
	DroppedTasks   int64

	MeanTimeInSystem   float64
	P50TimeInSystem    float64
	P95TimeInSystem    float64
	P99TimeInSystem    float64
	StdDevTimeInSystem float64

	MeanThroughputPerSecond float64

	CreditPoolAtMax int // number of control-loop samples where TotalCredits == observed max
	CreditPoolAtMin int // number of control-loop samples where TotalCredits == observed min
}

// Summarize computes aggregate statistics from a Recorder. Safe for nil or
// empty recorders (returns zero-value fields).
func Summarize(r *Recorder) *Summary {
	s := &Summary{}
	if r == nil {
		return s
	}

	s.CompletedTasks = len(r.TaskTimes)
	for _, d := range r.Drops {
		s.DroppedTasks += d.TaskDropped
	}

	if len(r.TaskTimes) > 0 {
		times := make([]float64, len(r.TaskTimes))
		for i, t := range r.TaskTimes {
			times[i] = float64(t.TimeInSystem)
		}
		sortedCopy := append([]float64(nil), times...)
		sort.Float64s(sortedCopy)

		s.MeanTimeInSystem = stat.Mean(times, nil)
		s.StdDevTimeInSystem = stat.StdDev(times, nil)
		s.P50TimeInSystem = stat.Quantile(0.50, stat.Empirical, sortedCopy, nil)
		s.P95TimeInSystem = stat.Quantile(0.95, stat.Empirical, sortedCopy, nil)
		s.P99TimeInSystem = stat.Quantile(0.99, stat.Empirical, sortedCopy, nil)
	}

	if len(r.ThroughputOverTime) > 0 {
		throughputs := make([]float64, len(r.ThroughputOverTime))
		for i, t := range r.ThroughputOverTime {
			throughputs[i] = t.ThroughputPerSecond
		}
		s.MeanThroughputPerSecond = stat.Mean(throughputs, nil)
	}

	if len(r.CreditPool) > 0 {
		maxSeen, minSeen := r.CreditPool[0].TotalCredits, r.CreditPool[0].TotalCredits
		for _, c := range r.CreditPool {
			if c.TotalCredits > maxSeen {
				maxSeen = c.TotalCredits
			}
			if c.TotalCredits < minSeen {
				minSeen = c.TotalCredits
			}
		}
		for _, c := range r.CreditPool {
			if c.TotalCredits == maxSeen {
				s.CreditPoolAtMax++
			}
			if c.TotalCredits == minSeen {
				s.CreditPoolAtMin++
			}
		}
	}

	return s
}
