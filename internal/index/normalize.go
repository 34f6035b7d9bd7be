package index

import (
	"regexp"
	"strconv"
	"strings"
)

var punctRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// NormalizeTitle produces the matching key for a free-text title: lowercase,
// trailing article moved to the front, punctuation stripped, whitespace
// collapsed. The result is a fixed point of the function.
func NormalizeTitle(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return ""
	}
	switch {
	case strings.HasSuffix(t, ", the"):
		t = "the " + strings.TrimSpace(t[:len(t)-len(", the")])
	case strings.HasSuffix(t, ", a"):
		t = "a " + strings.TrimSpace(t[:len(t)-len(", a")])
	case strings.HasSuffix(t, ", an"):
		t = "an " + strings.TrimSpace(t[:len(t)-len(", an")])
	}
	t = punctRe.ReplaceAllString(t, "")
	return strings.Join(strings.Fields(t), " ")
}

// TitleYearKey builds the composite key that disambiguates remakes sharing a
// title. A zero year falls back to the bare normalized title.
func TitleYearKey(title string, year int) string {
	key := NormalizeTitle(title)
	if year > 0 {
		return key + "::" + strconv.Itoa(year)
	}
	return key
}
