package estimate

import (
	"testing"

	"github.com/OpenTransitTools/transitmatch/business/data/schedule"
	"github.com/matryer/is"
)

func TestNewDirectionMatcher(t *testing.T) {
	tests := []struct {
		name      string
		strategy  string
		threshold float64
		wantErr   bool
	}{
		{name: "compass strategy", strategy: CompassStrategy, threshold: 0, wantErr: false},
		{name: "headsign strategy", strategy: HeadsignStrategy, threshold: 0.8, wantErr: false},
		{name: "headsign threshold at one is allowed", strategy: HeadsignStrategy, threshold: 1, wantErr: false},
		{name: "headsign threshold zero rejected", strategy: HeadsignStrategy, threshold: 0, wantErr: true},
		{name: "headsign threshold above one rejected", strategy: HeadsignStrategy, threshold: 1.5, wantErr: true},
		{name: "unknown strategy rejected", strategy: "bearing", threshold: 0.8, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher, err := NewDirectionMatcher(tt.strategy, tt.threshold)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewDirectionMatcher(%q, %v) expected error, got none", tt.strategy, tt.threshold)
				}
				return
			}
			if err != nil {
				t.Errorf("NewDirectionMatcher(%q, %v) unexpected error: %v", tt.strategy, tt.threshold, err)
			}
			if matcher == nil {
				t.Errorf("NewDirectionMatcher(%q, %v) returned nil matcher", tt.strategy, tt.threshold)
			}
		})
	}
}

func TestCompassDirectionMatcher(t *testing.T) {
	matcher, err := NewDirectionMatcher(CompassStrategy, 0)
	if err != nil {
		t.Fatalf("unable to build compass matcher: %v", err)
	}
	tests := []struct {
		name        string
		directionId int
		compassTag  string
		want        bool
	}{
		{name: "direction 0 north", directionId: 0, compassTag: NorthBound, want: true},
		{name: "direction 0 east", directionId: 0, compassTag: EastBound, want: true},
		{name: "direction 0 south", directionId: 0, compassTag: SouthBound, want: false},
		{name: "direction 1 south", directionId: 1, compassTag: SouthBound, want: true},
		{name: "direction 1 west", directionId: 1, compassTag: WestBound, want: true},
		{name: "direction 1 north", directionId: 1, compassTag: NorthBound, want: false},
		{name: "missing tag never matches", directionId: 0, compassTag: "", want: false},
		{name: "unrecognized tag never matches", directionId: 1, compassTag: "Southbound", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			report := &VehicleReport{VehicleId: "5401", Direction: tt.compassTag}
			trip := &schedule.Trip{TripId: "t1", DirectionId: tt.directionId}
			is.Equal(tt.want, matcher.SameDirection(report, trip))
		})
	}
}

func Test_jaccardSimilarity(t *testing.T) {
	tests := []struct {
		name string
		s    string
		t    string
		want float64
	}{
		{name: "identical strings", s: "Downtown", t: "Downtown", want: 1},
		{name: "case insensitive", s: "Downtown", t: "DOWNTOWN", want: 1},
		{name: "one side empty", s: "Broad St", t: "", want: 0},
		{name: "other side empty", s: "", t: "Broad St", want: 0},
		{name: "both empty is zero not one", s: "", t: "", want: 0},
		{name: "half overlap", s: "abc", t: "abd", want: 0.5},
		{name: "no overlap", s: "ab", t: "cd", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jaccardSimilarity(tt.s, tt.t); got != tt.want {
				t.Errorf("jaccardSimilarity(%q, %q) = %v, want %v", tt.s, tt.t, got, tt.want)
			}
		})
	}
}

func TestHeadsignDirectionMatcher(t *testing.T) {
	is := is.New(t)
	matcher, err := NewDirectionMatcher(HeadsignStrategy, DefaultSimilarityThreshold)
	is.NoErr(err)

	trip := &schedule.Trip{TripId: "t1", TripHeadsign: "54th-City"}

	// the similarity meets the threshold exactly
	is.True(matcher.SameDirection(&VehicleReport{Destination: "54th-City"}, trip))

	// diverted or blank headsigns fall below the threshold
	is.True(!matcher.SameDirection(&VehicleReport{Destination: "Wissahickon"}, trip))
	is.True(!matcher.SameDirection(&VehicleReport{Destination: ""}, trip))

	// two empty headsigns never match under this strategy
	emptyTrip := &schedule.Trip{TripId: "t2", TripHeadsign: ""}
	is.True(!matcher.SameDirection(&VehicleReport{Destination: ""}, emptyTrip))
}
