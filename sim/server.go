// Implements BreakwaterServer, the global credit-pool controller (§3
// BreakwaterServer, §4.5 Global Credit-Pool Control, §4.6 Lazy Per-Client
// Distribution).

package sim

import "math"

// BreakwaterServer owns the global credit pool and the additive-increase/
// multiplicative-decrease control loop that adjusts it. It holds client ids
// only (a relation, not ownership) — SimulationState owns the Client values
// (§3 Ownership summary).
type BreakwaterServer struct {
	cfg BreakwaterConfig

	TotalCredits  int64 // Ctotal
	CreditsIssued int64 // sum of client windows
	Overcommitment int64

	MaxDelay  int64 // last observed max delay, set by the caller before RunControlLoop
	PrevCores int   // working-core count observed at the previous control loop, for ramp_alpha

	ClientIDs []int

	TotalDropped  int64
	TotalTimedOut int64
}

// NewBreakwaterServer constructs a server seeded per
// Breakwater.InitialCreditsIssued (spec Open Question).
func NewBreakwaterServer(cfg BreakwaterConfig) *BreakwaterServer {
	s := &BreakwaterServer{cfg: cfg, TotalCredits: cfg.ServerInitialCredits}
	if cfg.InitialCreditsIssued == InitialCreditsTotal {
		s.CreditsIssued = s.TotalCredits
	}
	return s
}

// MaxCredits returns the current max_credits bound, constant or variable
// per §4.5.
func (s *BreakwaterServer) MaxCredits() int64 {
	if !s.cfg.VariableMaxCredits {
		return s.cfg.MaxCredits
	}
	return 25 + (s.cfg.RTT/5000)*150 + s.cfg.TargetDelay/100 + 150
}

// MinCredits returns the current min_credits bound, constant or variable
// per §4.5.
func (s *BreakwaterServer) MinCredits() int64 {
	if !s.cfg.VariableMinCredits {
		return s.cfg.MinCredits
	}
	variable := (s.cfg.RTT / 5000) * 19
	if s.cfg.MinCredits > variable {
		return s.cfg.MinCredits
	}
	return variable
}

// RunControlLoop applies one control-loop invocation (§4.5): adjusts
// TotalCredits from s.MaxDelay (which the caller must set beforehand from
// the current max observed queue delay), then recomputes Overcommitment.
// newlyAddedCores is the number of cores that became working since the
// previous invocation, used only when RampAlpha is enabled.
func (s *BreakwaterServer) RunControlLoop(newlyAddedCores int) {
	dt := s.cfg.TargetDelay
	d := s.MaxDelay
	n := int64(s.cfg.NumClients)
	maxCredits := s.MaxCredits()
	minCredits := s.MinCredits()

	if d < dt {
		increase := int64(math.Floor(s.cfg.AggressivenessAlpha * float64(n)))
		if increase < 1 {
			increase = 1
		}
		s.TotalCredits += increase

		if s.cfg.RampAlpha && newlyAddedCores > 0 {
			perCoreIncrease := s.cfg.PerCoreAlphaIncrease + (1-float64(s.cfg.RTT/5000))*5
			s.TotalCredits += int64(perCoreIncrease * float64(newlyAddedCores))
		}

		if s.TotalCredits > maxCredits {
			s.TotalCredits = maxCredits
		}
	} else {
		r := 1 - s.cfg.ReductionBeta*float64(d-dt)/float64(dt)
		if r < 0.5 {
			r = 0.5
		}
		s.TotalCredits = int64(math.Floor(float64(s.TotalCredits) * r))
		if s.TotalCredits < minCredits {
			s.TotalCredits = minCredits
		}
	}

	n = int64(len(s.ClientIDs))
	if n <= 0 {
		n = 1
	}
	overcommit := (s.TotalCredits - s.CreditsIssued) / n
	if overcommit < 1 {
		overcommit = 1
	}
	s.Overcommitment = overcommit
}

// RegisterClient adds clientID to the server's client list (§4.6 trigger a:
// "client registration") and returns the new window the client should
// distribute to, computed by the same rule as a distribution event.
func (s *BreakwaterServer) RegisterClient(clientID int, currentWindow int64) int64 {
	s.ClientIDs = append(s.ClientIDs, clientID)
	return s.Distribute(currentWindow, 0)
}

// DeregisterClient removes clientID from the server's client list, gated by
// Breakwater.ClientDeregisterEnabled (spec Open Question, default off).
func (s *BreakwaterServer) DeregisterClient(clientID int) {
	if !s.cfg.ClientDeregisterEnabled {
		return
	}
	for i, id := range s.ClientIDs {
		if id == clientID {
			s.ClientIDs = append(s.ClientIDs[:i], s.ClientIDs[i+1:]...)
			return
		}
	}
}

// Distribute implements §4.6's lazy per-client distribution formula for one
// client, given its current window Cx and demand D. It adds the window
// change to s.CreditsIssued itself and returns the new window, which the
// caller applies via Client.SetWindow, so the server's aggregate
// CreditsIssued tracks every client's window exactly (§8 property 2).
func (s *BreakwaterServer) Distribute(cx int64, demand int64) int64 {
	newWindow, _ := s.distributeDelta(cx, demand)
	return newWindow
}

// DistributeDelta is Distribute but also returns the window delta it has
// already added to CreditsIssued.
func (s *BreakwaterServer) DistributeDelta(cx int64, demand int64) (newWindow int64, delta int64) {
	return s.distributeDelta(cx, demand)
}

func (s *BreakwaterServer) distributeDelta(cx int64, demand int64) (int64, int64) {
	available := s.TotalCredits - s.CreditsIssued

	var newWindow int64
	switch {
	case available > 0:
		newWindow = minInt64(demand+s.Overcommitment, cx+available)
	case available < 0:
		newWindow = minInt64(demand+s.Overcommitment, cx-1)
	default:
		newWindow = cx
	}
	if newWindow < 0 {
		newWindow = 0
	}

	delta := newWindow - cx
	s.CreditsIssued += delta
	return newWindow, delta
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
