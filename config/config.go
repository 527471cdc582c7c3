package config

import (
	"log"
	"os"
	"strconv"
)

const (
	defaultDatabasePath        = "photowell.db"
	defaultListenAddr          = ":8090"
	defaultUIOrigin            = "http://localhost:5173"
	defaultThumbnailMaxSize    = 300
	defaultMaxFileSizeBytes    = 50 * 1024 * 1024 // 50 MiB
	defaultMinAlbumYear        = 1900
	defaultThumbnailQueueSize  = 200
	defaultNumThumbnailWorkers = 2
)

type Config struct {
	// database path
	DatabasePath string

	// HTTP surface for the local UI
	ListenAddr string
	UIOrigin   string

	// import limits
	MaxFileSizeBytes int64

	// album date-period bounds
	MinAlbumYear int

	// thumbnail generation settings
	ThumbnailMaxSize int

	// thumbnail backfill worker settings
	ThumbnailQueueSize  int
	NumThumbnailWorkers int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	cfg := Config{
		DatabasePath:        getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		ListenAddr:          getEnvOrDefault("LISTEN_ADDR", defaultListenAddr),
		UIOrigin:            getEnvOrDefault("UI_ORIGIN", defaultUIOrigin),
		MaxFileSizeBytes:    int64(getEnvIntOrDefault("MAX_FILE_SIZE_BYTES", defaultMaxFileSizeBytes)),
		MinAlbumYear:        getEnvIntOrDefault("MIN_ALBUM_YEAR", defaultMinAlbumYear),
		ThumbnailMaxSize:    getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		ThumbnailQueueSize:  getEnvIntOrDefault("THUMBNAIL_QUEUE_SIZE", defaultThumbnailQueueSize),
		NumThumbnailWorkers: getEnvIntOrDefault("NUM_THUMBNAIL_WORKERS", defaultNumThumbnailWorkers),
	}

	return cfg, nil
}
