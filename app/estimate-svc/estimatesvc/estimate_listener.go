package estimatesvc

import (
	"encoding/json"
	logger "log"
	"os"
	"sync"

	"github.com/OpenTransitTools/transitmatch/business/estimate"
	"github.com/nats-io/nats.go"
)

//runEstimateListener starts NATS subscription on estimateSubject for
//estimate.RouteEstimates messages. Stores results in estimateCollection.
//Ends NATS subscription and returns on shutdownSignal
func runEstimateListener(
	log *logger.Logger,
	wg *sync.WaitGroup,
	natsConn *nats.Conn,
	collection *estimateCollection,
	estimateSubject string,
	shutdownSignal chan bool) {
	wg.Add(1)
	defer wg.Done()

	ch := make(chan *nats.Msg, 64)
	log.Printf("Subscribing to estimates on subject:%s on nats: %v\n", estimateSubject,
		natsConn.Servers())
	sub, err := natsConn.ChanSubscribe(estimateSubject, ch)
	if err != nil {
		log.Printf("Unable to establish subscription to nats server: %v\n", err)
		os.Exit(1)
	}

	for {
		select {
		case msg := <-ch:
			processEstimatesFromMsg(log, msg, collection)
			break
		case <-shutdownSignal:
			log.Printf("ending estimate listener on shutdown signal\n")
			log.Printf("unsubscribing to nats\n")
			err = sub.Unsubscribe()
			if err != nil {
				log.Printf("Error unsubscribing to nats:%s", err)
			}
			return
		}
	}
}

//processEstimatesFromMsg un-marshal estimate.RouteEstimates from nats.Msg and
//store the result in estimateCollection
func processEstimatesFromMsg(log *logger.Logger, msg *nats.Msg, collection *estimateCollection) {
	var batch estimate.RouteEstimates
	err := json.Unmarshal(msg.Data, &batch)
	if err != nil {
		log.Printf("error parsing RouteEstimates: %s, payload:%s", err, string(msg.Data))
		return
	}
	collection.addBatch(&batch)
}
