package main

import (
	"fmt"
	logger "log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/OpenTransitTools/transitmatch/app/lateness-monitor/monitor"
	"github.com/OpenTransitTools/transitmatch/foundation/database"
	"github.com/ardanlabs/conf"
	"github.com/nats-io/nats.go"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "LATENESS_MONITOR : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	var cfg struct {
		conf.Version
		Args conf.Args
		DB   struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
		}
		NATS struct {
			URL             string `conf:"default:nats://localhost:4222"`
			EstimateSubject string `conf:"default:vehicle-lateness-estimates"`
			Publish         bool   `conf:"default:true"`
		}
		Feed struct {
			VehicleLocationsUrl string `conf:"default:http://www3.septa.org/transitview/bus_route_data"`
			Routes              string `conf:"default:4"`
			LoadEverySeconds    int    `conf:"default:30"`
			StaleReportSeconds  int    `conf:"default:1800"`
			RecordToDatabase    bool   `conf:"default:true"`
		}
		Match struct {
			DirectionStrategy   string  `conf:"default:headsign"`
			SimilarityThreshold float64 `conf:"default:0.8"`
			ScheduleTimezone    string  `conf:"default:America/New_York"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Estimate vehicle lateness against the static schedule"
	const prefix = "LATENESS"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	// =========================================================================
	// Start Database

	log.Println("main: Initializing database support")

	db, err := database.Open(database.Config{
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Printf("main: Database Stopping : %s", cfg.DB.Host)
		err = db.Close()
		if err != nil {
			log.Printf("main: error closing database: %v", err)
		}
	}()

	// =========================================================================
	// Start NATS

	log.Printf("main: Connecting to NATS at %s", cfg.NATS.URL)

	natsConn, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("connecting to nats: %w", err)
	}
	defer natsConn.Close()

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	settings := monitor.Settings{
		FeedUrl:             cfg.Feed.VehicleLocationsUrl,
		RouteShortNames:     strings.Split(cfg.Feed.Routes, ","),
		LoopEverySeconds:    cfg.Feed.LoadEverySeconds,
		StaleReportSeconds:  cfg.Feed.StaleReportSeconds,
		DirectionStrategy:   cfg.Match.DirectionStrategy,
		SimilarityThreshold: cfg.Match.SimilarityThreshold,
		ScheduleTimezone:    cfg.Match.ScheduleTimezone,
		EstimateSubject:     cfg.NATS.EstimateSubject,
		PublishOverNats:     cfg.NATS.Publish,
		RecordToDatabase:    cfg.Feed.RecordToDatabase,
	}

	return monitor.RunEstimateLoop(log, db, natsConn, settings, shutdown)
}
