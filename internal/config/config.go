package config

import (
	"os"
	"strconv"
)

// Config is the service's environment-driven settings. Zero-configuration
// startup works against a local Mongo.
type Config struct {
	MongoURI         string
	MongoDB          string
	Port             string
	UserAgent        string
	FetchConcurrency int64
	CatalogMinVotes  int
}

func Load() Config {
	return Config{
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "letterboxd-movies"),
		Port:             getEnv("PORT", "8000"),
		UserAgent:        getEnv("SCRAPER_USER_AGENT", "ReelHotTakesBot/1.0"),
		FetchConcurrency: int64(getEnvInt("FETCH_CONCURRENCY", 10)),
		CatalogMinVotes:  getEnvInt("CATALOG_MIN_VOTES", 100000),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
