package pricing

import (
	"strings"
	"testing"

	"github.com/islaride/islaride-shared/zones"
)

func TestDefaultFeeSchedule_ValidAgainstDefaultRegistry(t *testing.T) {
	// The cluster and premium lists are maintained by hand; this is the test
	// that catches a zone rename leaving a dangling reference.
	s := DefaultFeeSchedule()
	if err := s.Validate(zones.DefaultIslandRegistry()); err != nil {
		t.Fatalf("default schedule invalid against default registry: %v", err)
	}
}

func TestFeeSchedule_Validate(t *testing.T) {
	r := zones.DefaultIslandRegistry()

	tests := []struct {
		name    string
		mutate  func(*FeeSchedule)
		wantErr string
	}{
		{
			"empty currency",
			func(s *FeeSchedule) { s.Currency = "" },
			"currency",
		},
		{
			"with-stop fee not above short fee",
			func(s *FeeSchedule) { s.WithinZoneWithStopFee = s.WithinZoneShortFee },
			"with-stop",
		},
		{
			"premium below standard airport rate",
			func(s *FeeSchedule) { s.AirportPremiumPerMile = 1.0 },
			"premium",
		},
		{
			"negative fee",
			func(s *FeeSchedule) { s.CrossZoneBaseFee = -8 },
			"non-negative",
		},
		{
			"multiplier below one",
			func(s *FeeSchedule) { s.LateNightMultiplier = 0.9 },
			"at least 1.0",
		},
		{
			"hour out of range",
			func(s *FeeSchedule) { s.LateNightStartHour = 24 },
			"out of range",
		},
		{
			"early morning must not wrap",
			func(s *FeeSchedule) { s.EarlyMorningStartHour, s.EarlyMorningEndHour = 23, 2 },
			"wrap",
		},
		{
			"unknown premium zone",
			func(s *FeeSchedule) { s.AirportPremiumZoneIDs = append(s.AirportPremiumZoneIDs, "zone_99") },
			"unknown zone",
		},
		{
			"unknown cluster zone",
			func(s *FeeSchedule) { s.WesternClusterZoneIDs = []string{"gone"} },
			"unknown zone",
		},
		{
			"zone in both clusters",
			func(s *FeeSchedule) {
				s.EasternClusterZoneIDs = append(s.EasternClusterZoneIDs, zones.WestBayZoneID)
			},
			"both long-distance clusters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultFeeSchedule()
			tt.mutate(&s)

			err := s.Validate(r)
			if err == nil {
				t.Fatal("Validate should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFeeSchedule_ValidateWithoutRegistry(t *testing.T) {
	// A nil registry skips only the zone-reference checks.
	s := DefaultFeeSchedule()
	if err := s.Validate(nil); err != nil {
		t.Fatalf("Validate(nil): %v", err)
	}

	s.WithinZoneShortFee = -1
	if err := s.Validate(nil); err == nil {
		t.Error("numeric checks should still run without a registry")
	}
}

func TestNewEngine_RejectsBadSchedule(t *testing.T) {
	s := DefaultFeeSchedule()
	s.WesternClusterZoneIDs = []string{"zone_missing"}

	if _, err := NewEngine(zones.DefaultIslandRegistry(), s); err == nil {
		t.Error("NewEngine should reject a schedule referencing unknown zones")
	}
}
