package schedule

import (
	"github.com/jmoiron/sqlx"
)

// Stop is a fixed geographic point with stable identity from a gtfs stops.txt file.
// Immutable within a reconciliation pass.
type Stop struct {
	StopId   string  `db:"stop_id" json:"stop_id"`
	StopName string  `db:"stop_name" json:"stop_name"`
	StopLat  float64 `db:"stop_lat" json:"stop_lat"`
	StopLon  float64 `db:"stop_lon" json:"stop_lon"`
}

// GetStopsForRouteDirection retrieves the stops served by one direction of a
// route, in stop sequence order
func GetStopsForRouteDirection(db *sqlx.DB, rd *RouteDirection) ([]*Stop, error) {
	query := "select s.stop_id, s.stop_name, s.stop_lat, s.stop_lon from stop s " +
		"join simplified_stop ss on s.stop_id = ss.stop_id " +
		"where ss.route_id = ? and ss.direction_id = ? " +
		"order by ss.stop_sequence"
	var results []*Stop
	err := db.Select(&results, db.Rebind(query), rd.RouteId, rd.DirectionId)
	if err != nil {
		return nil, err
	}
	return results, nil
}
