// Package estimatesvc serves the most recent lateness estimate batches
// produced by the lateness monitor
package estimatesvc

import (
	logger "log"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

//StartServices brings up backgroundLoop, estimateListener and webservice.
//Returns on shutdown signal
func StartServices(log *logger.Logger,
	expireEstimateSeconds int,
	httpPort int,
	natsConn *nats.Conn,
	estimateSubject string,
	shutdownSignal chan os.Signal) {

	wg := sync.WaitGroup{}

	//create shared container
	collection := makeEstimateCollection()

	//create shutdown channels
	backgroundLoopShutdown := make(chan bool, 1)
	estimateListenerShutdown := make(chan bool, 1)
	webServiceShutdown := make(chan bool, 1)

	//start all child services
	go runBackgroundLoop(log, &wg, collection, backgroundLoopShutdown, expireEstimateSeconds)
	go runEstimateListener(log, &wg, natsConn, collection, estimateSubject, estimateListenerShutdown)
	go runWebService(log, &wg, collection, httpPort, webServiceShutdown)

	<-shutdownSignal
	log.Printf("Exiting on shutdown signal, shutting down subroutines")
	backgroundLoopShutdown <- true
	estimateListenerShutdown <- true
	webServiceShutdown <- true
	wg.Wait()
	log.Printf("Subroutines shut down, exiting estimate service")
}

//runBackgroundLoop frequently expires stale batches in the collection
func runBackgroundLoop(log *logger.Logger,
	wg *sync.WaitGroup,
	collection *estimateCollection,
	shutdownSignal chan bool,
	expireEstimateSeconds int) {
	wg.Add(1)
	defer wg.Done()

	sleepChan := make(chan bool)

	loopDuration := time.Duration(3) * time.Second
	sleep := loopDuration

	for {

		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("Exiting background loop on shutdown signal")

			return
		case <-sleepChan:
		}

		removedBatches, currentSize := collection.expireBatches(time.Now(), expireEstimateSeconds)

		if removedBatches > 0 {
			log.Printf("Estimate collection has %d batches. Removed %d stale batches",
				currentSize, removedBatches)
		}

	}
}
