package sim

import "testing"

func defaultTestBreakwaterConfig() BreakwaterConfig {
	cfg := DefaultBreakwaterConfig()
	cfg.NumClients = 1
	cfg.ServerInitialCredits = 10
	return cfg
}

func TestNewBreakwaterServer_ZeroInitialCreditsIssuedByDefault(t *testing.T) {
	cfg := defaultTestBreakwaterConfig()
	cfg.InitialCreditsIssued = InitialCreditsZero

	s := NewBreakwaterServer(cfg)

	if s.CreditsIssued != 0 {
		t.Errorf("CreditsIssued: got %d, want 0", s.CreditsIssued)
	}
	if s.TotalCredits != cfg.ServerInitialCredits {
		t.Errorf("TotalCredits: got %d, want %d", s.TotalCredits, cfg.ServerInitialCredits)
	}
}

func TestNewBreakwaterServer_TotalInitialCreditsIssued_SeedsFromTotal(t *testing.T) {
	cfg := defaultTestBreakwaterConfig()
	cfg.InitialCreditsIssued = InitialCreditsTotal

	s := NewBreakwaterServer(cfg)

	if s.CreditsIssued != s.TotalCredits {
		t.Errorf("CreditsIssued: got %d, want %d (TotalCredits)", s.CreditsIssued, s.TotalCredits)
	}
}

func TestBreakwaterServer_MaxMinCredits_ConstantMode(t *testing.T) {
	cfg := defaultTestBreakwaterConfig()
	cfg.MaxCredits = 200
	cfg.MinCredits = 10
	s := NewBreakwaterServer(cfg)

	if got := s.MaxCredits(); got != 200 {
		t.Errorf("MaxCredits: got %d, want 200", got)
	}
	if got := s.MinCredits(); got != 10 {
		t.Errorf("MinCredits: got %d, want 10", got)
	}
}

func TestBreakwaterServer_MaxMinCredits_VariableMode(t *testing.T) {
	// GIVEN RTT=5000, target_delay=10000 with variable bounds enabled
	cfg := defaultTestBreakwaterConfig()
	cfg.RTT = 5000
	cfg.TargetDelay = 10000
	cfg.VariableMaxCredits = true
	cfg.VariableMinCredits = true
	cfg.MinCredits = 10
	s := NewBreakwaterServer(cfg)

	// THEN MaxCredits = 25 + (5000/5000)*150 + 10000/100 + 150 = 25+150+100+150 = 425
	if got := s.MaxCredits(); got != 425 {
		t.Errorf("MaxCredits: got %d, want 425", got)
	}
	// AND MinCredits = max(10, (5000/5000)*19) = max(10,19) = 19
	if got := s.MinCredits(); got != 19 {
		t.Errorf("MinCredits: got %d, want 19", got)
	}
}

func TestBreakwaterServer_RunControlLoop_BelowTarget_AdditiveIncrease(t *testing.T) {
	// GIVEN a server whose last observed max delay is below target_delay
	cfg := defaultTestBreakwaterConfig()
	cfg.AggressivenessAlpha = 1.0
	cfg.NumClients = 1
	cfg.TargetDelay = 10000
	s := NewBreakwaterServer(cfg)
	s.ClientIDs = []int{0}
	before := s.TotalCredits
	s.MaxDelay = 100 // well below target

	// WHEN the control loop runs
	s.RunControlLoop(0)

	// THEN TotalCredits increases by at least 1 (floor(alpha*numClients))
	if s.TotalCredits <= before {
		t.Errorf("TotalCredits: got %d, want > %d (additive increase)", s.TotalCredits, before)
	}
}

func TestBreakwaterServer_RunControlLoop_AboveTarget_MultiplicativeDecrease(t *testing.T) {
	// GIVEN a server whose last observed max delay is far above target_delay
	cfg := defaultTestBreakwaterConfig()
	cfg.ReductionBeta = 0.5
	cfg.TargetDelay = 10000
	cfg.MinCredits = 1
	s := NewBreakwaterServer(cfg)
	s.ClientIDs = []int{0}
	s.TotalCredits = 100
	s.MaxDelay = 30000 // 2x over target

	// WHEN the control loop runs
	s.RunControlLoop(0)

	// THEN TotalCredits decreases: r = max(1 - 0.5*(30000-10000)/10000, 0.5) = max(1-1, 0.5) = 0.5
	// new TotalCredits = floor(100*0.5) = 50
	if s.TotalCredits != 50 {
		t.Errorf("TotalCredits: got %d, want 50", s.TotalCredits)
	}
}

func TestBreakwaterServer_RunControlLoop_NeverBelowMinCredits(t *testing.T) {
	cfg := defaultTestBreakwaterConfig()
	cfg.ReductionBeta = 1.0
	cfg.TargetDelay = 1000
	cfg.MinCredits = 20
	s := NewBreakwaterServer(cfg)
	s.ClientIDs = []int{0}
	s.TotalCredits = 25
	s.MaxDelay = 1_000_000 // massive overshoot, r clamps at 0.5 floor anyway

	s.RunControlLoop(0)

	if s.TotalCredits < cfg.MinCredits {
		t.Errorf("TotalCredits: got %d, want >= MinCredits (%d)", s.TotalCredits, cfg.MinCredits)
	}
}

func TestBreakwaterServer_RegisterClient_AppendsAndDistributes(t *testing.T) {
	cfg := defaultTestBreakwaterConfig()
	cfg.ServerInitialCredits = 10
	cfg.InitialCreditsIssued = InitialCreditsZero
	s := NewBreakwaterServer(cfg)

	newWindow := s.RegisterClient(0, 0)

	if len(s.ClientIDs) != 1 || s.ClientIDs[0] != 0 {
		t.Errorf("ClientIDs: got %v, want [0]", s.ClientIDs)
	}
	if newWindow < 0 {
		t.Errorf("newWindow: got %d, want >= 0", newWindow)
	}
}

func TestBreakwaterServer_DeregisterClient_DisabledByDefault_NoOp(t *testing.T) {
	cfg := defaultTestBreakwaterConfig()
	cfg.ClientDeregisterEnabled = false
	s := NewBreakwaterServer(cfg)
	s.ClientIDs = []int{0, 1}

	s.DeregisterClient(0)

	if len(s.ClientIDs) != 2 {
		t.Errorf("ClientIDs after disabled deregister: got %v, want unchanged [0 1]", s.ClientIDs)
	}
}

func TestBreakwaterServer_DeregisterClient_Enabled_Removes(t *testing.T) {
	cfg := defaultTestBreakwaterConfig()
	cfg.ClientDeregisterEnabled = true
	s := NewBreakwaterServer(cfg)
	s.ClientIDs = []int{0, 1, 2}

	s.DeregisterClient(1)

	want := []int{0, 2}
	if len(s.ClientIDs) != len(want) {
		t.Fatalf("ClientIDs: got %v, want %v", s.ClientIDs, want)
	}
	for i, id := range want {
		if s.ClientIDs[i] != id {
			t.Errorf("ClientIDs[%d]: got %d, want %d", i, s.ClientIDs[i], id)
		}
	}
}

func TestBreakwaterServer_Distribute_AvailableCredits_GrantsUpToDemandPlusOvercommit(t *testing.T) {
	// GIVEN a server with 10 available credits and overcommitment of 2
	cfg := defaultTestBreakwaterConfig()
	s := NewBreakwaterServer(cfg)
	s.TotalCredits = 20
	s.CreditsIssued = 10
	s.Overcommitment = 2

	// WHEN a client with window 3 and demand 4 is distributed to
	newWindow, delta := s.DistributeDelta(3, 4)

	// THEN newWindow = min(demand+overcommit, cx+available) = min(6, 3+10) = 6
	if newWindow != 6 {
		t.Errorf("newWindow: got %d, want 6", newWindow)
	}
	if delta != 3 {
		t.Errorf("delta: got %d, want 3", delta)
	}
	if s.CreditsIssued != 13 {
		t.Errorf("CreditsIssued: got %d, want 13", s.CreditsIssued)
	}
}

func TestBreakwaterServer_Distribute_OvercommittedCredits_ShrinksWindowByOne(t *testing.T) {
	// GIVEN a server with negative available credits (overcommitted)
	cfg := defaultTestBreakwaterConfig()
	s := NewBreakwaterServer(cfg)
	s.TotalCredits = 10
	s.CreditsIssued = 15
	s.Overcommitment = 1

	// WHEN a client with window 5 is distributed to
	newWindow, _ := s.DistributeDelta(5, 100)

	// THEN newWindow = min(demand+overcommit, cx-1) = min(101, 4) = 4
	if newWindow != 4 {
		t.Errorf("newWindow: got %d, want 4", newWindow)
	}
}

func TestBreakwaterServer_Distribute_ExactlyZeroAvailable_WindowUnchanged(t *testing.T) {
	cfg := defaultTestBreakwaterConfig()
	s := NewBreakwaterServer(cfg)
	s.TotalCredits = 10
	s.CreditsIssued = 10

	newWindow, delta := s.DistributeDelta(7, 100)

	if newWindow != 7 {
		t.Errorf("newWindow: got %d, want 7 (unchanged)", newWindow)
	}
	if delta != 0 {
		t.Errorf("delta: got %d, want 0", delta)
	}
}

func TestBreakwaterServer_Distribute_NeverReturnsNegativeWindow(t *testing.T) {
	cfg := defaultTestBreakwaterConfig()
	s := NewBreakwaterServer(cfg)
	s.TotalCredits = 0
	s.CreditsIssued = 100

	newWindow, _ := s.DistributeDelta(0, 0)

	if newWindow < 0 {
		t.Errorf("newWindow: got %d, want >= 0", newWindow)
	}
}
