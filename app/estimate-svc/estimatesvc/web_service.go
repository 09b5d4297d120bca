package estimatesvc

import (
	"context"
	"encoding/json"
	logger "log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

//defaultHttpHandler simple default http handler for default route
type defaultHttpHandler struct {
}

//ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

//routeEstimatesHandler holds data needed to respond to estimate requests
type routeEstimatesHandler struct {
	log        *logger.Logger
	collection *estimateCollection
}

//routeEstimatesHandler factory
func makeRouteEstimatesHandler(log *logger.Logger, collection *estimateCollection) *routeEstimatesHandler {
	return &routeEstimatesHandler{
		log:        log,
		collection: collection,
	}
}

//ServeHTTP implements routeEstimatesHandler's http.Handler interface.
//Serves the latest estimate batch for the route in the path and the
//direction in the query string, direction 0 when absent.
func (h *routeEstimatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	routeId := mux.Vars(r)["routeId"]

	directionId := 0
	directionValue := r.FormValue("direction")
	if directionValue != "" {
		parsed, err := strconv.Atoi(directionValue)
		if err != nil || (parsed != 0 && parsed != 1) {
			http.Error(w, "direction must be 0 or 1", http.StatusBadRequest)
			return
		}
		directionId = parsed
	}

	batch := h.collection.getBatch(routeId, directionId)
	if batch == nil {
		http.Error(w, "no estimates for route", http.StatusNotFound)
		return
	}

	jsonData, err := json.Marshal(batch)
	if err != nil {
		h.log.Printf("Error marshaling RouteEstimates to json: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	byteCount, err := w.Write(jsonData)
	if err != nil {
		h.log.Printf("Error writing json response: %s", err)
		return
	}
	h.log.Printf("wrote %d bytes in json response.", byteCount)
}

//createServer creates configured http.Server for responding to estimate requests
func createServer(log *logger.Logger,
	collection *estimateCollection,
	httpPort int) *http.Server {

	estimateService := makeRouteEstimatesHandler(log, collection)

	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{})
	r.Handle("/routes/{routeId}/estimates", estimateService)
	srv := &http.Server{
		Addr: strings.Join([]string{"0.0.0.0", strconv.Itoa(httpPort)}, ":"),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}
	return srv
}

//runWebService starts up the estimate web service, and terminates on shutdown signal
func runWebService(log *logger.Logger,
	wg *sync.WaitGroup,
	collection *estimateCollection,
	httpPort int,
	shutdownSignal chan bool,
) {
	wg.Add(1)
	defer wg.Done()
	srv := createServer(log, collection, httpPort)
	log.Printf("Starting server on port %d", httpPort)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()
	shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer serverCancelFunc()

	<-shutdownSignal
	log.Printf("ending webservice on shutdown signal")
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("error shutting down webservice, error:%s", err)
	}
}
