package estimatesvc

import (
	"testing"
	"time"

	"github.com/OpenTransitTools/transitmatch/business/estimate"
	"github.com/matryer/is"
)

func makeTestBatch(routeId string, directionId int, timestamp int64) *estimate.RouteEstimates {
	return &estimate.RouteEstimates{
		RouteId:     routeId,
		DirectionId: directionId,
		Timestamp:   timestamp,
		Estimates:   []*estimate.VehicleEstimate{{VehicleId: "5401"}},
	}
}

func TestEstimateCollection_addBatch(t *testing.T) {
	is := is.New(t)
	collection := makeEstimateCollection()

	is.True(collection.addBatch(makeTestBatch("3231", 0, 100)))
	is.Equal(int64(100), collection.getBatch("3231", 0).Timestamp)

	// directions are stored independently
	is.True(collection.addBatch(makeTestBatch("3231", 1, 100)))
	is.True(collection.getBatch("3231", 1) != nil)

	// a newer batch replaces the stored one
	is.True(collection.addBatch(makeTestBatch("3231", 0, 200)))
	is.Equal(int64(200), collection.getBatch("3231", 0).Timestamp)

	// an older batch is discarded
	is.True(!collection.addBatch(makeTestBatch("3231", 0, 150)))
	is.Equal(int64(200), collection.getBatch("3231", 0).Timestamp)
}

func TestEstimateCollection_getBatch_missing(t *testing.T) {
	is := is.New(t)
	collection := makeEstimateCollection()
	is.True(collection.getBatch("3231", 0) == nil)
}

func TestEstimateCollection_expireBatches(t *testing.T) {
	is := is.New(t)
	collection := makeEstimateCollection()
	now := time.Now()

	collection.addBatch(makeTestBatch("3231", 0, now.Unix()-600))
	collection.addBatch(makeTestBatch("3231", 1, now.Unix()-10))

	removed, currentSize := collection.expireBatches(now, 300)
	is.Equal(1, removed)
	is.Equal(1, currentSize)
	is.True(collection.getBatch("3231", 0) == nil)
	is.True(collection.getBatch("3231", 1) != nil)
}
