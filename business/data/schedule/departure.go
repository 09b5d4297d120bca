package schedule

import (
	"github.com/OpenTransitTools/transitmatch/foundation/database"
	"github.com/jmoiron/sqlx"
)

// Departure is the scheduled departure of one trip at one stop from a gtfs
// stop_times.txt file. DepartureTime is the raw "HH:MM:SS" string, hours may
// exceed 24 to denote past midnight continuation of a service day.
type Departure struct {
	TripId        string `db:"trip_id" json:"trip_id"`
	DepartureTime string `db:"departure_time" json:"departure_time"`
}

// GetDeparturesAtStop retrieves the scheduled departures at stopId for tripIds,
// ordered by departure time. An empty tripIds yields no departures.
func GetDeparturesAtStop(db *sqlx.DB, stopId string, tripIds []string) ([]*Departure, error) {
	if len(tripIds) == 0 {
		return nil, nil
	}
	statementString := "select trip_id, departure_time from stop_time " +
		"where stop_id = :stop_id and trip_id in (:trip_ids) " +
		"order by departure_time"
	query, args, err := database.PrepareNamedQueryFromMap(statementString, db, map[string]interface{}{
		"stop_id":  stopId,
		"trip_ids": tripIds,
	})
	if err != nil {
		return nil, err
	}
	var results []*Departure
	err = db.Select(&results, query, args...)
	if err != nil {
		return nil, err
	}
	return results, nil
}
