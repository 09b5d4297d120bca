package monitor

import (
	"encoding/json"
	"log"

	"github.com/OpenTransitTools/transitmatch/business/estimate"
	"github.com/nats-io/nats.go"
)

//estimatePublisher takes estimate batches produced by reconciliation passes
//and sends them to their destination over nats
type estimatePublisher struct {
	log             *log.Logger
	natsConnection  *nats.Conn
	subject         string
	publishOverNats bool
}

//makeEstimatePublisher creates estimatePublisher
func makeEstimatePublisher(log *log.Logger,
	natsConnection *nats.Conn,
	subject string,
	publishOverNats bool) *estimatePublisher {
	return &estimatePublisher{
		log:             log,
		natsConnection:  natsConnection,
		subject:         subject,
		publishOverNats: publishOverNats,
	}
}

//publish sends estimate.RouteEstimates over NATS according to publishOverNats.
//Publish failures are logged, estimates are ephemeral and the next pass
//replaces them.
func (p *estimatePublisher) publish(batch *estimate.RouteEstimates) {
	matched := 0
	for _, vehicleEstimate := range batch.Estimates {
		if vehicleEstimate.LatenessMinutes != nil {
			p.log.Printf("Vehicle %s on route %s direction %d matched trip %s, %d minutes\n",
				vehicleEstimate.VehicleId, batch.RouteId, batch.DirectionId,
				*vehicleEstimate.TripId, *vehicleEstimate.LatenessMinutes)
			matched++
		}
	}
	p.log.Printf("route %s direction %d: %d of %d vehicles matched\n",
		batch.RouteId, batch.DirectionId, matched, len(batch.Estimates))

	if !p.publishOverNats {
		return
	}
	jsonData, err := json.Marshal(batch)
	if err != nil {
		p.log.Printf("failed to marshal RouteEstimates in estimatePublisher.publish, error:%v", err)
		return
	}
	err = p.natsConnection.Publish(p.subject, jsonData)
	if err != nil {
		p.log.Printf("failed to send RouteEstimates in estimatePublisher.publish, error:%v", err)
	}
}
