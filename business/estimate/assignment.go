package estimate

import (
	"log"
	"math"
	"time"

	"github.com/OpenTransitTools/transitmatch/business/data/schedule"
)

// DepartureSource supplies the scheduled departures at a stop for the trips
// still eligible for assignment. Implementations typically query the static
// schedule store. Departures should be ordered by departure time.
type DepartureSource interface {
	DeparturesAtStop(stopId string, tripIds []string) ([]*schedule.Departure, error)
}

// TripPool is the mutable set of trips still eligible for assignment during
// one reconciliation pass. It shrinks as vehicles claim trips and never
// grows. A pool belongs to exactly one pass, build a fresh one per pass.
type TripPool struct {
	byTripId map[string]*schedule.Trip
}

// NewTripPool builds a TripPool holding trips
func NewTripPool(trips []*schedule.Trip) *TripPool {
	byTripId := make(map[string]*schedule.Trip, len(trips))
	for _, trip := range trips {
		byTripId[trip.TripId] = trip
	}
	return &TripPool{byTripId: byTripId}
}

// Find returns the pooled trip with tripId, or nil if it has been claimed
// or was never pooled
func (p *TripPool) Find(tripId string) *schedule.Trip {
	return p.byTripId[tripId]
}

// Remove takes the trip with tripId out of the pool
func (p *TripPool) Remove(tripId string) {
	delete(p.byTripId, tripId)
}

// TripIds returns the ids of all trips still in the pool
func (p *TripPool) TripIds() []string {
	tripIds := make([]string, 0, len(p.byTripId))
	for tripId := range p.byTripId {
		tripIds = append(tripIds, tripId)
	}
	return tripIds
}

// Size returns how many trips remain in the pool
func (p *TripPool) Size() int {
	return len(p.byTripId)
}

// Engine runs one reconciliation pass, matching each vehicle report to the
// pooled trip with the smallest absolute lateness at the vehicle's nearest
// stop. Assignment is greedy in report order: a claimed trip leaves the pool
// before the next vehicle is considered, so no two vehicles in a pass claim
// the same trip, and the result is order dependent rather than globally
// optimal. Not safe for use by concurrent passes, each pass builds its own
// Engine and TripPool.
type Engine struct {
	log     *log.Logger
	pool    *TripPool
	matcher DirectionMatcher
	loc     *time.Location
}

// NewEngine builds an Engine for a single pass over pool.
// loc is the civil time zone the schedule's departure strings are local to.
func NewEngine(log *log.Logger, pool *TripPool, matcher DirectionMatcher, loc *time.Location) *Engine {
	return &Engine{
		log:     log,
		pool:    pool,
		matcher: matcher,
		loc:     loc,
	}
}

// match holds the winning trip and departure for one vehicle
type match struct {
	trip            *schedule.Trip
	departure       *schedule.Departure
	stop            *schedule.Stop
	latenessMinutes int
}

// Run processes reports in order, producing one VehicleEstimate per report.
// A vehicle that cannot be matched still yields an estimate, with the match
// fields absent.
func (e *Engine) Run(now time.Time,
	reports []*VehicleReport,
	stops []*schedule.Stop,
	departures DepartureSource) []*VehicleEstimate {

	results := make([]*VehicleEstimate, 0, len(reports))
	for _, report := range reports {
		vehicleEstimate := makeVehicleEstimate(report)

		if m := e.matchReport(now, report, stops, departures); m != nil {
			// the trip is now associated with a vehicle, remove it from the pool
			e.pool.Remove(m.trip.TripId)

			lateness := m.latenessMinutes
			vehicleEstimate.LatenessMinutes = &lateness

			// it doesn't matter what block the vehicle thought it belonged to,
			// the block of the matched trip is the one riders will see
			blockId := m.trip.BlockId
			vehicleEstimate.BlockId = &blockId

			tripId := m.trip.TripId
			vehicleEstimate.TripId = &tripId
			expected := m.departure.DepartureTime
			vehicleEstimate.ExpectedDeparture = &expected
			stopName := m.stop.StopName
			vehicleEstimate.NearestStop = &stopName
		}

		results = append(results, vehicleEstimate)
	}
	return results
}

// matchReport finds the pooled trip with a departure at the report's nearest
// stop closest to the vehicle's actual observed instant. Returns nil when no
// departure survives the direction filter, when there are no candidate
// stops, or when departures cannot be retrieved. All are local to the
// vehicle and never abort the pass.
func (e *Engine) matchReport(now time.Time,
	report *VehicleReport,
	stops []*schedule.Stop,
	departures DepartureSource) *match {

	nearest, err := NearestStop(stops, report.Latitude, report.Longitude)
	if err != nil {
		return nil
	}

	stopDepartures, err := departures.DeparturesAtStop(nearest.StopId, e.pool.TripIds())
	if err != nil {
		e.log.Printf("unable to load departures at stop %s for vehicle %s. error:%v\n",
			nearest.StopId, report.VehicleId, err)
		return nil
	}

	// correct for the age of the sample when the feed served it
	actual := now.Add(-time.Duration(report.OffsetMinutes) * time.Minute)

	var best *match
	var bestLateness time.Duration
	for _, departure := range stopDepartures {
		trip := e.pool.Find(departure.TripId)
		if trip == nil {
			continue
		}
		if !e.matcher.SameDirection(report, trip) {
			continue
		}
		scheduled, err := InterpretScheduleTime(departure.DepartureTime, now, e.loc)
		if err != nil {
			e.log.Printf("skipping departure of trip %s at stop %s. error:%v\n",
				departure.TripId, nearest.StopId, err)
			continue
		}

		lateness := actual.Sub(scheduled)
		if best == nil || absDuration(lateness) < absDuration(bestLateness) {
			best = &match{
				trip:      trip,
				departure: departure,
				stop:      nearest,
			}
			bestLateness = lateness
		}
	}
	if best == nil {
		return nil
	}
	best.latenessMinutes = roundToMinutes(bestLateness)
	return best
}

// roundToMinutes converts a signed lateness to whole minutes, rounding
// halves away from zero in both signs
func roundToMinutes(d time.Duration) int {
	return int(math.Round(d.Seconds() / 60))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
