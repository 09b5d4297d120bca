package estimatesvc

import (
	"fmt"
	"sync"
	"time"

	"github.com/OpenTransitTools/transitmatch/business/estimate"
)

// estimateCollection contains the latest estimate batch for each route and
// direction and provides thread safe access to them
type estimateCollection struct {
	mu      sync.Mutex
	batches map[string]*estimate.RouteEstimates
}

// makeEstimateCollection estimateCollection factory
func makeEstimateCollection() *estimateCollection {
	return &estimateCollection{
		batches: make(map[string]*estimate.RouteEstimates),
	}
}

// batchKey builds the map key for one route and direction
func batchKey(routeId string, directionId int) string {
	return fmt.Sprintf("%s:%d", routeId, directionId)
}

// addBatch stores a new batch, discards it if the collection already holds a
// newer batch for the same route and direction
func (c *estimateCollection) addBatch(batch *estimate.RouteEstimates) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := batchKey(batch.RouteId, batch.DirectionId)
	if current, present := c.batches[key]; present {
		//incoming batch is older than the stored one, don't replace it
		if current.Timestamp > batch.Timestamp {
			return false
		}
	}
	c.batches[key] = batch
	return true
}

// getBatch returns the stored batch for routeId and directionId or nil
func (c *estimateCollection) getBatch(routeId string, directionId int) *estimate.RouteEstimates {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches[batchKey(routeId, directionId)]
}

// expireBatches removes all batches older than expireAfterSeconds.
// returns the number of batches that have been removed and how many remain.
func (c *estimateCollection) expireBatches(at time.Time, expireAfterSeconds int) (removed int, currentSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	newBatches := make(map[string]*estimate.RouteEstimates)
	for key, batch := range c.batches {
		seconds := at.Unix() - batch.Timestamp
		if seconds < int64(expireAfterSeconds) {
			newBatches[key] = batch
		}
	}
	previousSize := len(c.batches)
	c.batches = newBatches
	currentSize = len(c.batches)
	return previousSize - currentSize, currentSize
}
