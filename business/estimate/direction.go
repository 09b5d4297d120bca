package estimate

import (
	"fmt"
	"strings"

	"github.com/OpenTransitTools/transitmatch/business/data/schedule"
)

// compass tags as reported by the realtime feed
const (
	NorthBound = "NorthBound"
	EastBound  = "EastBound"
	SouthBound = "SouthBound"
	WestBound  = "WestBound"
)

// direction matching strategy names accepted by NewDirectionMatcher
const (
	CompassStrategy  = "compass"
	HeadsignStrategy = "headsign"
)

// DefaultSimilarityThreshold is the headsign similarity ratio a trip must
// meet to be considered in the vehicle's direction of travel
const DefaultSimilarityThreshold = 0.8

// ValidCompassDirection returns true if tag is one of the four compass tags
// the feed is expected to report
func ValidCompassDirection(tag string) bool {
	switch tag {
	case NorthBound, EastBound, SouthBound, WestBound:
		return true
	}
	return false
}

// DirectionMatcher decides whether a candidate trip is plausibly in a
// vehicle's direction of travel
type DirectionMatcher interface {
	SameDirection(report *VehicleReport, trip *schedule.Trip) bool
}

// NewDirectionMatcher builds the DirectionMatcher for strategy.
// similarityThreshold only applies to the headsign strategy and must be in
// (0, 1]. An unknown strategy or out of range threshold is a configuration
// error, callers should fail before processing any vehicle.
func NewDirectionMatcher(strategy string, similarityThreshold float64) (DirectionMatcher, error) {
	switch strategy {
	case CompassStrategy:
		return &compassDirectionMatcher{}, nil
	case HeadsignStrategy:
		if similarityThreshold <= 0 || similarityThreshold > 1 {
			return nil, fmt.Errorf("headsign similarity threshold %v out of range (0, 1]",
				similarityThreshold)
		}
		return &headsignDirectionMatcher{threshold: similarityThreshold}, nil
	}
	return nil, fmt.Errorf("unknown direction matching strategy %q", strategy)
}

// compassDirectionMatcher maps a trip's binary direction id to the compass
// pair it is expected to travel, direction 0 runs north or east, direction 1
// runs south or west. A missing or unrecognized compass tag never matches.
// That is a deliberate simplification and a known source of false negatives.
type compassDirectionMatcher struct {
}

func (c *compassDirectionMatcher) SameDirection(report *VehicleReport, trip *schedule.Trip) bool {
	switch trip.DirectionId {
	case 0:
		return report.Direction == NorthBound || report.Direction == EastBound
	case 1:
		return report.Direction == SouthBound || report.Direction == WestBound
	}
	return false
}

// headsignDirectionMatcher compares the trip's headsign with the destination
// text the vehicle reports. Sometimes the reported headsign is an empty
// string. Sometimes it says something other than what you'd expect, like
// when a route is diverted. Neither is always helpful, the threshold keeps
// near matches in play.
type headsignDirectionMatcher struct {
	threshold float64
}

func (h *headsignDirectionMatcher) SameDirection(report *VehicleReport, trip *schedule.Trip) bool {
	return jaccardSimilarity(trip.TripHeadsign, report.Destination) >= h.threshold
}

// jaccardSimilarity calculates the similarity between two strings as the
// ratio of unique characters in common to unique characters in either,
// case insensitive. Two empty strings have similarity 0, not 1.
func jaccardSimilarity(s, t string) float64 {
	s = strings.ToLower(s)
	t = strings.ToLower(t)
	if len(s) == 0 && len(t) == 0 {
		return 0
	}

	sChars := make(map[rune]bool)
	for _, c := range s {
		sChars[c] = true
	}

	allChars := make(map[rune]bool)
	common := 0
	for _, c := range t {
		if !allChars[c] && sChars[c] {
			common++
		}
		allChars[c] = true
	}
	for c := range sChars {
		allChars[c] = true
	}

	return float64(common) / float64(len(allChars))
}
