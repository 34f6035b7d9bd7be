package recommend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/index"
)

// ErrNotLoaded is returned by Recommend before the first successful catalog
// load publishes an index.
var ErrNotLoaded = errors.New("catalog not loaded; call LoadCatalog first")

// CatalogSource is the filtered bulk read the engine builds its index from.
type CatalogSource interface {
	LoadCatalog(ctx context.Context, minVotes int) ([]catalog.Movie, error)
}

// Engine owns the process-wide feature index. Loads build into a fresh
// index and publish it atomically, so a request arriving mid-rebuild is
// served against either the old or the new fully-built index.
type Engine struct {
	source CatalogSource
	cfg    Config
	idx    atomic.Pointer[index.Index]
}

func NewEngine(source CatalogSource, cfg Config) *Engine {
	return &Engine{source: source, cfg: cfg}
}

// LoadCatalog rebuilds the feature index wholesale. The previous index keeps
// serving until the new one is complete.
func (e *Engine) LoadCatalog(ctx context.Context, minVotes int) error {
	rows, err := e.source.LoadCatalog(ctx, minVotes)
	if err != nil {
		return fmt.Errorf("loading catalog rows: %w", err)
	}
	idx, err := index.Build(rows, minVotes)
	if err != nil {
		return err
	}
	e.idx.Store(idx)
	log.Printf("[Catalog] index built: %d rows", idx.Len())
	return nil
}

// Loaded reports whether an index has been published.
func (e *Engine) Loaded() bool {
	return e.idx.Load() != nil
}

// Recommend resolves the rated entries against the catalog, builds the user
// profile, and returns up to k ranked rows the user has not already rated.
// The second result is how many entries resolved, for diagnostics.
func (e *Engine) Recommend(ratings []catalog.UserRating, k, minVotes int) ([]Recommendation, int, error) {
	idx := e.idx.Load()
	if idx == nil {
		return nil, 0, ErrNotLoaded
	}

	rows, matched := Resolve(idx, ratings, e.cfg.FuzzyCutoff)
	if len(rows) < len(ratings) {
		log.Printf("[Recommend] resolved %d/%d rated titles", len(rows), len(ratings))
	}

	profile, ok := buildProfile(idx, rows, ratingWeights(matched))
	if !ok {
		return rank(idx, nil, nil, k, minVotes, e.cfg), 0, nil
	}

	rated := make(map[int]bool, len(rows))
	for _, row := range rows {
		rated[row] = true
	}
	return rank(idx, profile, rated, k, minVotes, e.cfg), len(rows), nil
}
