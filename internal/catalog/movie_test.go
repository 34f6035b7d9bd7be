package catalog_test

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jakekressley/Reel-Hot-Takes-api-v2/internal/catalog"
)

func TestFromDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  bson.M
		want catalog.Movie
	}{
		{
			name: "legacy capitalized fields",
			doc: bson.M{
				"Title":         "  Heat ",
				"Year":          1995,
				"Genres":        bson.A{"Crime", "Drama"},
				"Average Score": 8.3,
				"Vote Count":    700000,
				"Overview":      "A cat and mouse chase across Los Angeles.",
				"Poster":        "heat.jpg",
			},
			want: catalog.Movie{
				Title:    "Heat",
				Year:     1995,
				Genres:   []string{"Crime", "Drama"},
				Average:  8.3,
				Votes:    700000,
				Overview: "A cat and mouse chase across Los Angeles.",
				Poster:   "heat.jpg",
			},
		},
		{
			name: "lowercase fields",
			doc: bson.M{
				"imdb_id":  "tt0113277",
				"title":    "Heat",
				"year":     int32(1995),
				"genres":   []string{"Crime", "Drama"},
				"average":  8.3,
				"votes":    int64(700000),
				"overview": "A cat and mouse chase across Los Angeles.",
				"poster":   "heat.jpg",
			},
			want: catalog.Movie{
				IMDBID:   "tt0113277",
				Title:    "Heat",
				Year:     1995,
				Genres:   []string{"Crime", "Drama"},
				Average:  8.3,
				Votes:    700000,
				Overview: "A cat and mouse chase across Los Angeles.",
				Poster:   "heat.jpg",
			},
		},
		{
			name: "api-shaped fields",
			doc: bson.M{
				"title":        "Heat",
				"vote_average": "8.3",
				"vote_count":   "700000",
				"plot":         "A cat and mouse chase across Los Angeles.",
			},
			want: catalog.Movie{
				Title:    "Heat",
				Average:  8.3,
				Votes:    700000,
				Overview: "A cat and mouse chase across Los Angeles.",
			},
		},
		{
			name: "capitalized wins when both casings exist",
			doc: bson.M{
				"Title":         "Heat",
				"title":         "heat (legacy)",
				"Average Score": 8.3,
				"average":       0.0,
			},
			want: catalog.Movie{Title: "Heat", Average: 8.3},
		},
		{
			name: "space separated genre string",
			doc:  bson.M{"title": "Heat", "genres": "Crime Drama"},
			want: catalog.Movie{Title: "Heat", Genres: []string{"Crime", "Drama"}},
		},
		{
			name: "empty document",
			doc:  bson.M{},
			want: catalog.Movie{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.FromDocument(tt.doc)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromDocument mismatch\n got: %+v\nwant: %+v", got, tt.want)
			}
		})
	}
}
