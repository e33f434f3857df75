package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"gridwalk/internal/api"
	"gridwalk/internal/config"
	"gridwalk/internal/grid"
	"gridwalk/internal/intersection"
	"gridwalk/internal/mapillary"
	"gridwalk/internal/postgres"
	"gridwalk/internal/redis"
	"gridwalk/internal/service/cache"
	"gridwalk/internal/service/imagery"
	"gridwalk/internal/service/session"
	"gridwalk/internal/worker"
)

func main() {
	setupLogging()

	cfg, err := loadConfiguration()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	redisClient := redis.New(cfg.RedisUrl)
	defer closeConnections(redisClient)

	setupSignalHandler(redisClient)

	gridModel := grid.NewManhattan()
	streetViewCache := cache.New(redisClient)
	selector := imagery.NewSelector(mapillary.New(cfg.MapillaryToken))
	imageryService := imagery.NewService(streetViewCache, selector)
	sessions := session.NewSessionService(gridModel, imageryService)

	graph := loadIntersectionGraph(cfg)

	worker.StartAllWorkers(streetViewCache)

	reportMemoryStats()

	runAPIServer(cfg, api.Dependencies{
		Imagery:  imageryService,
		Sessions: sessions,
		Cache:    streetViewCache,
		Graph:    graph,
	})
}

func setupLogging() {
	// Set up logging to file and terminal
	logFile, err := os.OpenFile("gridwalk.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	// Note: We're not closing the file here since it needs to stay open
	// for the entire application lifetime. This is a minor resource leak
	// but acceptable for this use case.

	// Use MultiWriter to output logs to both terminal and file
	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)
}

func loadConfiguration() (config.Config, error) {
	// Try loading from config package first
	cfg, err := config.LoadConfig()
	if err != nil {
		// Fallback to loading from environment directly
		log.Println("Failed to load config via config package, using fallback method")

		cfg.Port = getEnvWithDefault("PORT", ":8080")
		cfg.DBUrl = getEnvWithDefault("DB_URL", "")
		cfg.RedisUrl = getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0")
		cfg.MapillaryToken = getEnvWithDefault("MAPILLARY_TOKEN", "")
		cfg.GraphSource = getEnvWithDefault("GRAPH_SOURCE", "")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	value := viper.GetString(key)
	if value == "" {
		log.Printf("%s environment variable is not set, using default", key)
		return defaultValue
	}
	return value
}

// loadIntersectionGraph loads the intersection graph from whichever
// source is configured. A GeoJSON file takes precedence over PostgreSQL,
// and with neither configured the graph endpoints stay unmounted.
func loadIntersectionGraph(cfg config.Config) *intersection.Graph {
	if cfg.GraphSource != "" {
		graph, err := intersection.LoadGeoJSON(cfg.GraphSource)
		if err != nil {
			log.Printf("Failed to load intersection graph from %s: %v", cfg.GraphSource, err)
			return nil
		}
		return graph
	}

	if cfg.DBUrl != "" {
		db, err := postgres.Init(cfg.DBUrl)
		if err != nil {
			log.Printf("Failed to connect to PostgreSQL for intersections: %v", err)
			return nil
		}
		defer func() {
			// The database is only needed while loading the graph
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}()

		graph, err := intersection.LoadPostgres(db)
		if err != nil {
			log.Printf("Failed to load intersections from PostgreSQL: %v", err)
			return nil
		}
		return graph
	}

	log.Println("No intersection graph source configured, graph endpoints disabled")
	return nil
}

func runAPIServer(cfg config.Config, deps api.Dependencies) {
	// Initialize Gin router
	r := gin.Default()

	// Configure API routes
	api.SetupRouter(r, deps)

	// Start the server
	r.Run(cfg.Port)
}

func reportMemoryStats() {
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			log.Printf("Alloc = %v MiB, TotalAlloc = %v MiB, Sys = %v MiB, NumGC = %v",
				m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024, m.NumGC)
		}
	}()
}

func closeConnections(redisClient *redis.Client) {
	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Connections closed successfully")
}

func setupSignalHandler(redisClient *redis.Client) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutdown signal received, closing connections...")
		closeConnections(redisClient)
		os.Exit(0)
	}()
}
