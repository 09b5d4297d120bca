package estimate

import (
	"errors"
	"math"

	"github.com/OpenTransitTools/transitmatch/business/data/schedule"
)

// ErrNoStops indicates a nearest stop search over an empty stop set.
// Callers treat it as "no match possible" for the vehicle, not a fatal error.
var ErrNoStops = errors.New("no candidate stops")

// NearestStop returns the stop nearest to lat,lon by flat plane euclidean
// distance on raw degrees. No geodesic correction, adequate at route scale.
// Earlier stops win exact distance ties.
func NearestStop(stops []*schedule.Stop, lat float64, lon float64) (*schedule.Stop, error) {
	if len(stops) == 0 {
		return nil, ErrNoStops
	}
	var nearest *schedule.Stop
	var distance float64
	for _, stop := range stops {
		latDiff := lat - stop.StopLat
		lonDiff := lon - stop.StopLon
		currentDistance := math.Sqrt(latDiff*latDiff + lonDiff*lonDiff)
		if nearest == nil || currentDistance < distance {
			nearest = stop
			distance = currentDistance
		}
	}
	return nearest, nil
}
