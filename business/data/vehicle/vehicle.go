// Package vehicle persists raw realtime vehicle telemetry rows.
// Raw rows are kept independently of trip matching so a poll that arrives
// with partial data can fall back on previously stored values.
package vehicle

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// Vehicle is the persisted raw telemetry row for one physical vehicle
type Vehicle struct {
	VehicleId        string    `db:"vehicle_id" json:"vehicle_id"`
	RouteId          string    `db:"route_id" json:"route_id"`
	VehicleLat       float64   `db:"vehicle_lat" json:"vehicle_lat"`
	VehicleLon       float64   `db:"vehicle_lon" json:"vehicle_lon"`
	VehicleLabel     string    `db:"vehicle_label" json:"vehicle_label"`
	BlockId          string    `db:"block_id" json:"block_id"`
	VehicleDirection string    `db:"vehicle_direction" json:"vehicle_direction"`
	TripHeadsign     string    `db:"trip_headsign" json:"trip_headsign"`
	GpsPollTime      time.Time `db:"gps_poll_time" json:"gps_poll_time"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// UpsertVehicle saves one telemetry row, updating any existing row for the
// same vehicle id. Empty label, direction and headsign values never overwrite
// previously stored values, the feed frequently omits them.
func UpsertVehicle(db *sqlx.DB, v *Vehicle) error {
	statementString := "insert into vehicle ( " +
		"vehicle_id, " +
		"route_id, " +
		"vehicle_lat, " +
		"vehicle_lon, " +
		"vehicle_label, " +
		"block_id, " +
		"vehicle_direction, " +
		"trip_headsign, " +
		"gps_poll_time, " +
		"updated_at) " +
		"values (" +
		":vehicle_id, " +
		":route_id, " +
		":vehicle_lat, " +
		":vehicle_lon, " +
		":vehicle_label, " +
		":block_id, " +
		":vehicle_direction, " +
		":trip_headsign, " +
		":gps_poll_time, " +
		":updated_at) " +
		"on conflict (vehicle_id) do update set " +
		"route_id = excluded.route_id, " +
		"vehicle_lat = excluded.vehicle_lat, " +
		"vehicle_lon = excluded.vehicle_lon, " +
		"vehicle_label = case when excluded.vehicle_label = '' " +
		"then vehicle.vehicle_label else excluded.vehicle_label end, " +
		"block_id = excluded.block_id, " +
		"vehicle_direction = case when excluded.vehicle_direction = '' " +
		"then vehicle.vehicle_direction else excluded.vehicle_direction end, " +
		"trip_headsign = case when excluded.trip_headsign = '' " +
		"then vehicle.trip_headsign else excluded.trip_headsign end, " +
		"gps_poll_time = excluded.gps_poll_time, " +
		"updated_at = excluded.updated_at"
	statementString = db.Rebind(statementString)
	_, err := db.NamedExec(statementString, v)
	return err
}

// GetRecentVehicles retrieves rows for routeId polled at or after since.
// Rows older than the staleness window are left behind, a vehicle that
// stopped reporting should not be matched against the schedule.
func GetRecentVehicles(db *sqlx.DB, routeId string, since time.Time) ([]*Vehicle, error) {
	query := "select vehicle_id, route_id, vehicle_lat, vehicle_lon, vehicle_label, " +
		"block_id, vehicle_direction, trip_headsign, gps_poll_time, updated_at " +
		"from vehicle where route_id = ? and gps_poll_time >= ? " +
		"order by vehicle_id"
	var results []*Vehicle
	err := db.Select(&results, db.Rebind(query), routeId, since)
	if err != nil {
		return nil, err
	}
	return results, nil
}
