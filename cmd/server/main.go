package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/api"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/config"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/ratings"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/recommend"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/scrape"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := catalog.Connect(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to document store: %v", err)
	}
	defer client.Disconnect(context.Background())

	store := catalog.NewStore(client, cfg.MongoDB)
	fetcher := scrape.NewFetcher(cfg.UserAgent, cfg.FetchConcurrency)
	metadata := scrape.NewMetadataClient(fetcher, store)
	scraper := scrape.NewScraper(fetcher, metadata)
	ratingsSvc := ratings.NewService(store, scraper)
	engine := recommend.NewEngine(store, recommend.DefaultConfig())

	// Warm the index up front; a failure here is not fatal, the first
	// recommendation request retries the load.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := engine.LoadCatalog(loadCtx, cfg.CatalogMinVotes); err != nil {
		log.Printf("Catalog preload failed: %v", err)
	}
	loadCancel()

	server := api.NewServer(engine, ratingsSvc, cfg.CatalogMinVotes)

	addr := ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, server.Routes()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
