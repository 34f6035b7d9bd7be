package index

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Vectorizer builds TF-IDF vectors over unigrams and bigrams. Text is
// case-folded only: titles and overviews are short, so stop words stay in.
// Alphabetic terms are stemmed so inflected overview words share a column.
type Vectorizer struct {
	Ngrams int  // max n-gram length, default 2
	Stem   bool // snowball-stem alphabetic tokens, default on

	terms map[string]int
	idf   []float64
}

func NewVectorizer() *Vectorizer {
	return &Vectorizer{Ngrams: 2, Stem: true}
}

func (v *Vectorizer) tokenize(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	if v.Stem {
		for i, w := range words {
			words[i] = stemToken(w)
		}
	}
	if v.Ngrams < 2 {
		return words
	}
	grams := make([]string, 0, 2*len(words))
	grams = append(grams, words...)
	for n := 2; n <= v.Ngrams; n++ {
		for i := 0; i+n <= len(words); i++ {
			grams = append(grams, strings.Join(words[i:i+n], " "))
		}
	}
	return grams
}

func stemToken(w string) string {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return w
	}
	stemmed, err := snowball.Stem(w, "english", true)
	if err != nil {
		return w
	}
	return stemmed
}

// Fit learns the vocabulary and document frequencies from the corpus and
// returns one L2-normalized TF-IDF vector per document. Columns are assigned
// in sorted term order so repeated builds of the same corpus are identical.
func (v *Vectorizer) Fit(corpus []string) []SparseVector {
	counts := make([]map[string]int, len(corpus))
	df := make(map[string]int)
	for i, text := range corpus {
		tf := make(map[string]int)
		for _, term := range v.tokenize(text) {
			tf[term]++
		}
		counts[i] = tf
		for term := range tf {
			df[term]++
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	v.terms = make(map[string]int, len(vocab))
	v.idf = make([]float64, len(vocab))
	n := float64(len(corpus))
	for col, term := range vocab {
		v.terms[term] = col
		// smoothed idf, shifted so terms in every document still count
		v.idf[col] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([]SparseVector, len(corpus))
	for i, tf := range counts {
		vec := make(SparseVector, len(tf))
		for term, count := range tf {
			col := v.terms[term]
			vec[col] = float64(count) * v.idf[col]
		}
		if norm := vec.Norm(); norm > 0 {
			vec.Scale(1 / norm)
		}
		vectors[i] = vec
	}
	return vectors
}

// NumTerms reports the learned vocabulary size.
func (v *Vectorizer) NumTerms() int {
	return len(v.terms)
}
