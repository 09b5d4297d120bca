// Package estimate reconciles live vehicle position reports for a transit
// route against the static trip/stop-time schedule, producing a best-guess
// trip assignment and a signed lateness in minutes for each vehicle.
// The package is purely computational. Feed retrieval, persistence and
// response rendering are the caller's concern.
package estimate

// VehicleReport is one live position sample for one physical vehicle as
// read from the realtime feed. Reports with missing or unparseable
// coordinates must be discarded before they reach this package.
type VehicleReport struct {
	VehicleId string
	Label     string
	Latitude  float64
	Longitude float64
	// Direction is the compass tag self reported by the feed, may be empty or unrecognized
	Direction string
	// Destination is the rider facing headsign text, may be empty
	Destination string
	// BlockId as self reported by the feed. Untrusted once a schedule match exists.
	BlockId string
	// OffsetMinutes is the age of the sample in minutes when it was served
	OffsetMinutes int
}

// VehicleEstimate is the result of one reconciliation pass for one vehicle.
// The match related fields are nil when no scheduled trip could be assigned,
// which is a normal outcome, not a failure.
// Json field names stay compatible with the upstream TransitView feed.
type VehicleEstimate struct {
	VehicleId         string  `json:"VehicleID"`
	Latitude          float64 `json:"lat"`
	Longitude         float64 `json:"lng"`
	Label             string  `json:"label"`
	Direction         string  `json:"Direction"`
	Destination       string  `json:"destination"`
	LatenessMinutes   *int    `json:"lateness,omitempty"`
	BlockId           *string `json:"BlockID,omitempty"`
	TripId            *string `json:"trip_id,omitempty"`
	ExpectedDeparture *string `json:"expected,omitempty"`
	NearestStop       *string `json:"nearest_stop,omitempty"`
}

// RouteEstimates is the batch a reconciliation pass produces for one route
// and direction, in feed order. Batches travel as json between the monitor
// and the serving side.
type RouteEstimates struct {
	RouteId     string             `json:"route_id"`
	DirectionId int                `json:"direction_id"`
	Timestamp   int64              `json:"timestamp"`
	Estimates   []*VehicleEstimate `json:"bus"`
}

// makeVehicleEstimate builds an unmatched VehicleEstimate carrying the
// report fields through to the response
func makeVehicleEstimate(report *VehicleReport) *VehicleEstimate {
	return &VehicleEstimate{
		VehicleId:   report.VehicleId,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		Label:       report.Label,
		Direction:   report.Direction,
		Destination: report.Destination,
	}
}
