package schedule

import (
	"github.com/jmoiron/sqlx"
)

// Trip is a scheduled run along a specific route and direction on a specific
// service day, from a gtfs trips.txt file. Immutable within a reconciliation pass.
type Trip struct {
	TripId       string `db:"trip_id" json:"trip_id"`
	RouteId      string `db:"route_id" json:"route_id"`
	ServiceId    string `db:"service_id" json:"service_id"`
	DirectionId  int    `db:"direction_id" json:"direction_id"`
	TripHeadsign string `db:"trip_headsign" json:"trip_headsign"`
	BlockId      string `db:"block_id" json:"block_id"`
}

// GetTripsForRouteDirection retrieves all trips running on one direction of a
// route under serviceId. The result seeds the trip pool for one
// reconciliation pass.
func GetTripsForRouteDirection(db *sqlx.DB, rd *RouteDirection, serviceId string) ([]*Trip, error) {
	query := "select trip_id, route_id, service_id, direction_id, trip_headsign, block_id " +
		"from trip where route_id = ? and direction_id = ? and service_id = ?"
	var results []*Trip
	err := db.Select(&results, db.Rebind(query), rd.RouteId, rd.DirectionId, serviceId)
	if err != nil {
		return nil, err
	}
	return results, nil
}
