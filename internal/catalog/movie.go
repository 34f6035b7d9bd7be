package catalog

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Movie is the canonical catalog record. Documents in the store carry the
// same fields under several historical names and casings; FromDocument
// reconciles them once, at decode time, so nothing downstream has to.
type Movie struct {
	IMDBID   string   `bson:"imdb_id,omitempty" json:"imdb_id,omitempty"`
	Title    string   `bson:"title" json:"title"`
	Year     int      `bson:"year,omitempty" json:"year,omitempty"`
	Genres   []string `bson:"genres,omitempty" json:"genres"`
	Average  float64  `bson:"average,omitempty" json:"average"`
	Votes    int      `bson:"votes,omitempty" json:"votes"`
	Overview string   `bson:"overview,omitempty" json:"overview,omitempty"`
	Poster   string   `bson:"poster,omitempty" json:"poster,omitempty"`
}

// UserRating is one scraped (title, rating) entry plus the metadata the
// recommender and hotness endpoints need.
type UserRating struct {
	Title      string   `bson:"title" json:"title"`
	IMDBID     string   `bson:"imdb_id,omitempty" json:"imdb_id,omitempty"`
	UserRating int      `bson:"user_rating" json:"user_rating"`
	Poster     string   `bson:"poster,omitempty" json:"poster,omitempty"`
	Year       int      `bson:"year,omitempty" json:"year,omitempty"`
	Genres     []string `bson:"genres,omitempty" json:"genres"`
	Average    float64  `bson:"average,omitempty" json:"average"`
	Votes      int      `bson:"votes,omitempty" json:"votes"`
	Overview   string   `bson:"overview,omitempty" json:"overview,omitempty"`
}

// FromDocument builds a Movie from a raw store document, trying each known
// alternate field name in order.
func FromDocument(doc bson.M) Movie {
	return Movie{
		IMDBID:   docString(doc, "imdb_id", "imdbId"),
		Title:    strings.TrimSpace(docString(doc, "Title", "title")),
		Year:     docInt(doc, "Year", "year"),
		Genres:   docStrings(doc, "Genres", "genres"),
		Average:  docFloat(doc, "Average Score", "average", "vote_average"),
		Votes:    docInt(doc, "Vote Count", "votes", "vote_count"),
		Overview: docString(doc, "Overview", "overview", "plot"),
		Poster:   docString(doc, "Poster", "poster"),
	}
}

func docString(doc bson.M, keys ...string) string {
	for _, k := range keys {
		if s, ok := doc[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func docStrings(doc bson.M, keys ...string) []string {
	for _, k := range keys {
		switch v := doc[k].(type) {
		case []string:
			if len(v) > 0 {
				return v
			}
		case bson.A:
			out := make([]string, 0, len(v))
			for _, e := range v {
				if s, ok := e.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case []interface{}:
			out := make([]string, 0, len(v))
			for _, e := range v {
				if s, ok := e.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.Fields(v)
			}
		}
	}
	return nil
}

func docFloat(doc bson.M, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := toFloat(doc[k]); ok {
			return f
		}
	}
	return 0
}

func docInt(doc bson.M, keys ...string) int {
	for _, k := range keys {
		if f, ok := toFloat(doc[k]); ok {
			return int(f)
		}
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
