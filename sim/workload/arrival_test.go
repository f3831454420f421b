package workload

import (
	"math/rand"
	"testing"
)

func TestPoissonArrivals_NextGap_AlwaysPositive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	model := PoissonArrivals{}

	for i := 0; i < 100; i++ {
		if gap := model.NextGap(rng, 0.01); gap < 1 {
			t.Fatalf("NextGap: got %d, want >= 1", gap)
		}
	}
}

func TestRegularArrivals_NextGap_IsDeterministicGivenRate(t *testing.T) {
	model := RegularArrivals{}

	got := model.NextGap(nil, 0.01)

	if got != 100 {
		t.Errorf("NextGap at rate 0.01: got %d, want 100", got)
	}
}

func TestRegularArrivals_NextGap_NeverBelowOne(t *testing.T) {
	model := RegularArrivals{}

	if got := model.NextGap(nil, 1000); got < 1 {
		t.Errorf("NextGap at a very high rate: got %d, want >= 1", got)
	}
}

func TestNewArrivalModel_SelectsByName(t *testing.T) {
	if _, ok := NewArrivalModel("regular").(RegularArrivals); !ok {
		t.Error("NewArrivalModel(\"regular\"): got a different type, want RegularArrivals")
	}
	if _, ok := NewArrivalModel("poisson").(PoissonArrivals); !ok {
		t.Error("NewArrivalModel(\"poisson\"): got a different type, want PoissonArrivals")
	}
	if _, ok := NewArrivalModel("unknown").(PoissonArrivals); !ok {
		t.Error("NewArrivalModel(\"unknown\"): got a different type, want PoissonArrivals (default)")
	}
}

func TestFixedRateSchedule_AlwaysReturnsOne(t *testing.T) {
	s := FixedRateSchedule{}

	if got := s.NextRate(123456); got != 1.0 {
		t.Errorf("NextRate: got %v, want 1.0", got)
	}
}

func TestPhaseRateSchedule_SplitsDurationIntoEqualPhases(t *testing.T) {
	// GIVEN the spec-literal 4-phase schedule over a 4000-tick run
	s := NewPhaseRateSchedule(4000)

	// THEN each 1000-tick quarter uses its own multiplier
	cases := []struct {
		now  int64
		want float64
	}{
		{0, 1.0},
		{999, 1.0},
		{1000, 0.2},
		{2000, 0.5},
		{3000, 1.4},
		{3999, 1.4},
	}
	for _, c := range cases {
		if got := s.NextRate(c.now); got != c.want {
			t.Errorf("NextRate(%d): got %v, want %v", c.now, got, c.want)
		}
	}
}

func TestPhaseRateSchedule_ClampsPastFinalPhase(t *testing.T) {
	s := NewPhaseRateSchedule(4000)

	if got := s.NextRate(10_000); got != 1.4 {
		t.Errorf("NextRate past the horizon: got %v, want 1.4 (last phase)", got)
	}
}

func TestRTTToggleRateSchedule_TogglesEveryFifteenRTT(t *testing.T) {
	// GIVEN RTT=1000, so toggle period is 15000 ticks
	s := NewRTTToggleRateSchedule(1000)

	if got := s.NextRate(0); got != 0.8 {
		t.Errorf("NextRate(0): got %v, want 0.8 (High)", got)
	}
	if got := s.NextRate(15000); got != 0.1 {
		t.Errorf("NextRate(15000): got %v, want 0.1 (Low)", got)
	}
	if got := s.NextRate(30000); got != 0.8 {
		t.Errorf("NextRate(30000): got %v, want 0.8 (High again)", got)
	}
}
