package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/config"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/scrape"
)

// requestDelay spaces out sequential title API calls. Bulk loads hammer the
// API for hours, so unlike the interactive resync path they back off between
// every call.
const requestDelay = 300 * time.Millisecond

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: bulkload <csv_file>")
		os.Exit(1)
	}
	csvPath := os.Args[1]

	cfg := config.Load()
	ctx := context.Background()

	client, err := catalog.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to document store: %v", err)
	}
	defer client.Disconnect(context.Background())

	store := catalog.NewStore(client, cfg.MongoDB)
	fetcher := scrape.NewFetcher(cfg.UserAgent, cfg.FetchConcurrency)
	metadata := scrape.NewMetadataClient(fetcher, store)

	ids, err := readIMDBIDs(csvPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", csvPath, err)
	}
	log.Printf("Found %d IMDb IDs in %s", len(ids), csvPath)

	var errored []string
	for _, id := range ids {
		existing, err := store.FindMovieByIMDBID(ctx, id)
		if err != nil {
			log.Fatalf("Store lookup failed for %s: %v", id, err)
		}
		if existing != nil {
			log.Printf("[Skipping] %s (%s) already in DB", existing.Title, id)
			continue
		}

		movie, err := metadata.FetchByIMDBID(ctx, id)
		if err != nil {
			log.Printf("[Error] %s: %v", id, err)
			errored = append(errored, id)
		} else {
			if err := store.UpsertMovieByIMDBID(ctx, *movie); err != nil {
				log.Fatalf("Upsert failed for %s: %v", id, err)
			}
			log.Printf("[Inserting] %s (%s)", movie.Title, id)
		}

		time.Sleep(requestDelay)
	}

	log.Printf("Total errored: %d", len(errored))
	if len(errored) > 0 {
		if err := os.WriteFile("errored_ids.txt", []byte(strings.Join(errored, "\n")+"\n"), 0o644); err != nil {
			log.Printf("Failed to save errored IDs: %v", err)
		} else {
			log.Printf("Saved %d errored IDs to errored_ids.txt", len(errored))
		}
	}
}

// readIMDBIDs pulls the imdbId column (second field) out of a MovieLens
// links CSV, zero-padding the numeric part to the tt0000000 form.
func readIMDBIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil { // header
		return nil, err
	}

	var ids []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			continue
		}
		raw := strings.TrimSpace(row[1])
		if raw == "" {
			continue
		}
		for len(raw) < 7 {
			raw = "0" + raw
		}
		ids = append(ids, "tt"+raw)
	}
	return ids, nil
}
