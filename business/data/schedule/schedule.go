// Package schedule provides lookup of static route, stop and trip schedule data
package schedule

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Route contains data from a gtfs route definition in a routes.txt file
type Route struct {
	RouteId        string `db:"route_id" json:"route_id"`
	RouteShortName string `db:"route_short_name" json:"route_short_name"`
	RouteLongName  string `db:"route_long_name" json:"route_long_name"`
	RouteType      int    `db:"route_type" json:"route_type"`
}

// RouteDirection identifies one of the two directions of travel on a route
type RouteDirection struct {
	RouteId       string `db:"route_id" json:"route_id"`
	DirectionId   int    `db:"direction_id" json:"direction_id"`
	DirectionName string `db:"direction_name" json:"direction_name"`
}

// GetRouteByShortName retrieves the Route with routeShortName, the rider facing
// route number used by the realtime feed
func GetRouteByShortName(db *sqlx.DB, routeShortName string) (*Route, error) {
	query := "select route_id, route_short_name, route_long_name, route_type " +
		"from route where route_short_name = ?"
	route := Route{}
	err := db.Get(&route, db.Rebind(query), routeShortName)
	if err != nil {
		return nil, fmt.Errorf("unable to find route with short name %q: %w", routeShortName, err)
	}
	return &route, nil
}

// GetRouteDirection retrieves the RouteDirection for routeId and directionId
func GetRouteDirection(db *sqlx.DB, routeId string, directionId int) (*RouteDirection, error) {
	query := "select route_id, direction_id, direction_name " +
		"from route_direction where route_id = ? and direction_id = ?"
	rd := RouteDirection{}
	err := db.Get(&rd, db.Rebind(query), routeId, directionId)
	if err != nil {
		return nil, fmt.Errorf("unable to find direction %d of route %s: %w", directionId, routeId, err)
	}
	return &rd, nil
}
