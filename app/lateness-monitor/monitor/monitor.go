// Package monitor polls a TransitView style vehicle feed for configured
// routes and reconciles each route's vehicles against its scheduled trips
package monitor

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/OpenTransitTools/transitmatch/business/data/schedule"
	"github.com/OpenTransitTools/transitmatch/business/data/vehicle"
	"github.com/OpenTransitTools/transitmatch/business/estimate"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
)

// Settings holds the runtime configuration of the estimate loop
type Settings struct {
	FeedUrl             string
	RouteShortNames     []string
	LoopEverySeconds    int
	StaleReportSeconds  int
	DirectionStrategy   string
	SimilarityThreshold float64
	ScheduleTimezone    string
	EstimateSubject     string
	PublishOverNats     bool
	RecordToDatabase    bool
}

// RunEstimateLoop starts the loop that polls the vehicle feed for each
// configured route, records raw telemetry, runs one reconciliation pass per
// route and direction and publishes the resulting estimate batches.
// Configuration problems are returned before any vehicle is processed.
func RunEstimateLoop(log *log.Logger,
	db *sqlx.DB,
	natsConn *nats.Conn,
	settings Settings,
	shutdownSignal chan os.Signal) error {

	matcher, err := estimate.NewDirectionMatcher(settings.DirectionStrategy, settings.SimilarityThreshold)
	if err != nil {
		return fmt.Errorf("configuring direction matcher: %w", err)
	}
	loc, err := time.LoadLocation(settings.ScheduleTimezone)
	if err != nil {
		return fmt.Errorf("loading schedule timezone %q: %w", settings.ScheduleTimezone, err)
	}

	// resolve the configured route numbers once, a bad route is fatal at startup
	var routes []*schedule.Route
	for _, shortName := range settings.RouteShortNames {
		route, err := schedule.GetRouteByShortName(db, shortName)
		if err != nil {
			return fmt.Errorf("resolving configured route %q: %w", shortName, err)
		}
		routes = append(routes, route)
	}

	serviceCalendar := schedule.MakeServiceCalendar()
	publisher := makeEstimatePublisher(log, natsConn, settings.EstimateSubject,
		settings.PublishOverNats)

	loopDuration := time.Duration(settings.LoopEverySeconds) * time.Second

	sleepChan := make(chan bool)
	sleep := time.Duration(0) //sleep for zero seconds the first time

	for {

		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("Exiting on shutdown signal")
			return nil
		case <-sleepChan:
			break
		}

		//set default sleep for next loop in the event of an error after continue statements
		sleep = loopDuration

		// mark the time we start working
		start := time.Now()

		for _, route := range routes {
			err = reconcileRoute(log, db, route, serviceCalendar, matcher, loc, publisher, settings)
			if err != nil {
				log.Printf("error reconciling route %s. error:%v\n", route.RouteShortName, err)
			}
		}

		// attempt to run the loop every LoopEverySeconds by subtracting the time it took to perform the work
		workTook := time.Now().Sub(start)

		log.Printf("work took %s\n", fmtDuration(workTook))

		// if the work took longer than LoopEverySeconds don't sleep at all on the next loop
		if workTook >= loopDuration {
			sleep = time.Duration(0)
		} else {
			sleep = loopDuration - workTook
		}

	}
}

// reconcileRoute fetches the live feed for one route, persists raw rows and
// runs one reconciliation pass per direction, publishing each batch
func reconcileRoute(log *log.Logger,
	db *sqlx.DB,
	route *schedule.Route,
	serviceCalendar *schedule.ServiceCalendar,
	matcher estimate.DirectionMatcher,
	loc *time.Location,
	publisher *estimatePublisher,
	settings Settings) error {

	reports, err := getVehicleReports(log, settings.FeedUrl, route.RouteShortName)
	if err != nil {
		return fmt.Errorf("loading vehicle positions: %w", err)
	}
	log.Printf("loaded %d vehicle positions for route %s\n", len(reports), route.RouteShortName)

	now := time.Now()

	if settings.RecordToDatabase {
		recordReports(log, db, route.RouteId, reports, now)
	}
	reports = appendRecentlySeen(log, db, route.RouteId, reports, now, settings.StaleReportSeconds)

	serviceId := serviceCalendar.ServiceIdFor(now.In(loc))

	for directionId := 0; directionId <= 1; directionId++ {
		estimates, err := runPass(log, db, route, directionId, serviceId, reports, now, matcher, loc)
		if err != nil {
			log.Printf("error running pass for route %s direction %d. error:%v\n",
				route.RouteShortName, directionId, err)
			continue
		}
		publisher.publish(&estimate.RouteEstimates{
			RouteId:     route.RouteId,
			DirectionId: directionId,
			Timestamp:   now.Unix(),
			Estimates:   estimates,
		})
	}
	return nil
}

// runPass loads the schedule data for one route direction, builds a fresh
// trip pool and engine and runs a single reconciliation pass over reports.
// The pool never outlives the pass.
func runPass(log *log.Logger,
	db *sqlx.DB,
	route *schedule.Route,
	directionId int,
	serviceId string,
	reports []*estimate.VehicleReport,
	now time.Time,
	matcher estimate.DirectionMatcher,
	loc *time.Location) ([]*estimate.VehicleEstimate, error) {

	rd, err := schedule.GetRouteDirection(db, route.RouteId, directionId)
	if err != nil {
		return nil, err
	}
	stops, err := schedule.GetStopsForRouteDirection(db, rd)
	if err != nil {
		return nil, fmt.Errorf("loading stops: %w", err)
	}
	trips, err := schedule.GetTripsForRouteDirection(db, rd, serviceId)
	if err != nil {
		return nil, fmt.Errorf("loading trips: %w", err)
	}

	pool := estimate.NewTripPool(trips)
	engine := estimate.NewEngine(log, pool, matcher, loc)
	return engine.Run(now, reports, stops, &dbDepartureSource{db: db}), nil
}

// dbDepartureSource implements estimate.DepartureSource against the schedule store
type dbDepartureSource struct {
	db *sqlx.DB
}

func (d *dbDepartureSource) DeparturesAtStop(stopId string, tripIds []string) ([]*schedule.Departure, error) {
	return schedule.GetDeparturesAtStop(d.db, stopId, tripIds)
}

// recordReports upserts one raw telemetry row per report. Row failures are
// logged and skipped, raw persistence never blocks matching.
func recordReports(log *log.Logger,
	db *sqlx.DB,
	routeId string,
	reports []*estimate.VehicleReport,
	now time.Time) {

	countSavedRows := 0
	for _, report := range reports {
		row := makeVehicleRow(routeId, report, now)
		err := vehicle.UpsertVehicle(db, row)
		if err != nil {
			log.Printf("Error saving vehicle row %+v. error: %v", row, err)
		} else {
			countSavedRows++
		}
	}
	if countSavedRows > 0 {
		log.Printf("Saved %d vehicle rows", countSavedRows)
	}
}

// makeVehicleRow converts a report to its persisted form. An unrecognized
// compass tag is stored as empty so it never overwrites a previously stored
// valid one.
func makeVehicleRow(routeId string, report *estimate.VehicleReport, now time.Time) *vehicle.Vehicle {
	direction := report.Direction
	if !estimate.ValidCompassDirection(direction) {
		direction = ""
	}
	return &vehicle.Vehicle{
		VehicleId:        report.VehicleId,
		RouteId:          routeId,
		VehicleLat:       report.Latitude,
		VehicleLon:       report.Longitude,
		VehicleLabel:     report.Label,
		BlockId:          report.BlockId,
		VehicleDirection: direction,
		TripHeadsign:     report.Destination,
		GpsPollTime:      now.Add(-time.Duration(report.OffsetMinutes) * time.Minute),
		UpdatedAt:        now,
	}
}

// appendRecentlySeen adds reports for vehicles absent from the current feed
// response but polled within the staleness window, a single dropped poll
// should not make a vehicle vanish from the estimates. Feed order is kept
// for vehicles the feed did return.
func appendRecentlySeen(log *log.Logger,
	db *sqlx.DB,
	routeId string,
	reports []*estimate.VehicleReport,
	now time.Time,
	staleReportSeconds int) []*estimate.VehicleReport {

	since := now.Add(-time.Duration(staleReportSeconds) * time.Second)
	records, err := vehicle.GetRecentVehicles(db, routeId, since)
	if err != nil {
		log.Printf("unable to load recent vehicle rows for route %s. error:%v\n", routeId, err)
		return reports
	}

	seen := make(map[string]bool, len(reports))
	for _, report := range reports {
		seen[report.VehicleId] = true
	}
	for _, record := range records {
		if seen[record.VehicleId] {
			continue
		}
		reports = append(reports, &estimate.VehicleReport{
			VehicleId:     record.VehicleId,
			Label:         record.VehicleLabel,
			Latitude:      record.VehicleLat,
			Longitude:     record.VehicleLon,
			Direction:     record.VehicleDirection,
			Destination:   record.TripHeadsign,
			BlockId:       record.BlockId,
			OffsetMinutes: int(now.Sub(record.GpsPollTime) / time.Minute),
		})
	}
	return reports
}

//fmtDuration returns a string presentation of time.Duration for logging
func fmtDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	mill := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d.%d", h, m, mill)
}
