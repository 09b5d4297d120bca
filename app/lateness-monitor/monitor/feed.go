package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/OpenTransitTools/transitmatch/business/estimate"
	"github.com/OpenTransitTools/transitmatch/foundation/httpclient"
)

// transitViewVehicle contains one vehicle read from a TransitView style json
// feed. Every field arrives as a string, coordinates included.
type transitViewVehicle struct {
	Lat         string `json:"lat"`
	Lng         string `json:"lng"`
	Label       string `json:"label"`
	VehicleId   string `json:"VehicleID"`
	BlockId     string `json:"BlockID"`
	Direction   string `json:"Direction"`
	Destination string `json:"destination"`
	Offset      string `json:"Offset"`
}

// transitViewResponse is the feed's top level wrapper
type transitViewResponse struct {
	Bus []transitViewVehicle `json:"bus"`
}

/*
getVehicleReports retrieves the realtime feed for one route and loads it into
estimate.VehicleReports in feed order. Any changes to the feed format can be
handled here and not elsewhere in the program.
Vehicles without usable coordinates are discarded, they carry nothing the
matching pass can use.
*/
func getVehicleReports(log *log.Logger, feedUrl string, routeShortName string) ([]*estimate.VehicleReport, error) {
	url := feedUrl + "/" + routeShortName
	body, err := httpclient.GetBytes(url)
	if err != nil {
		return nil, err
	}
	reports, err := parseVehicleReports(log, body)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal feed response from %s: %w", url, err)
	}
	return reports, nil
}

// parseVehicleReports converts a feed response body to reports in feed order
func parseVehicleReports(log *log.Logger, body []byte) ([]*estimate.VehicleReport, error) {
	response := transitViewResponse{}
	err := json.Unmarshal(body, &response)
	if err != nil {
		return nil, err
	}

	var reports []*estimate.VehicleReport
	for i := range response.Bus {
		report, err := makeVehicleReport(&response.Bus[i])
		if err != nil {
			log.Printf("discarding feed vehicle %q: %v\n", response.Bus[i].VehicleId, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// makeVehicleReport converts one feed record to an estimate.VehicleReport.
// Returns an error when latitude or longitude is empty or unparseable.
func makeVehicleReport(v *transitViewVehicle) (*estimate.VehicleReport, error) {
	latString := strings.TrimSpace(v.Lat)
	lngString := strings.TrimSpace(v.Lng)
	if latString == "" || lngString == "" {
		return nil, fmt.Errorf("missing coordinates")
	}
	lat, err := strconv.ParseFloat(latString, 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable latitude %q", v.Lat)
	}
	lng, err := strconv.ParseFloat(lngString, 64)
	if err != nil {
		return nil, fmt.Errorf("unparseable longitude %q", v.Lng)
	}

	// the feed reports offset minutes as a string, a missing or garbled
	// offset means the sample is current
	offsetMinutes, err := strconv.Atoi(strings.TrimSpace(v.Offset))
	if err != nil {
		offsetMinutes = 0
	}

	return &estimate.VehicleReport{
		VehicleId:     strings.TrimSpace(v.VehicleId),
		Label:         strings.TrimSpace(v.Label),
		Latitude:      lat,
		Longitude:     lng,
		Direction:     strings.TrimSpace(v.Direction),
		Destination:   strings.TrimSpace(v.Destination),
		BlockId:       strings.TrimSpace(v.BlockId),
		OffsetMinutes: offsetMinutes,
	}, nil
}
