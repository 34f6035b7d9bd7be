package scrape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RatedFilm is one entry from a user's films grid: the display title, the
// 0-10 half-star rating (0 = unrated) and the film's detail-page path.
type RatedFilm struct {
	Title  string
	Rating int
	Link   string
}

// ParseFilmsPage extracts the rated-films grid from one profile page, in
// page order. Malformed entries are skipped; an absent grid yields nil.
func ParseFilmsPage(html string) ([]RatedFilm, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse films page: %w", err)
	}

	grid := doc.Find(".grid").First()
	if grid.Length() == 0 {
		return nil, nil
	}

	var films []RatedFilm
	grid.Find("li.griditem").Each(func(_ int, li *goquery.Selection) {
		title := strings.TrimSpace(li.Find("img").First().AttrOr("alt", ""))
		if title == "" {
			return
		}

		rating := 0
		if classes := strings.Fields(li.Find("span.rating").First().AttrOr("class", "")); len(classes) > 0 {
			last := classes[len(classes)-1]
			if i := strings.LastIndex(last, "-"); i >= 0 {
				if r, err := strconv.Atoi(last[i+1:]); err == nil {
					rating = r
				}
			}
		}

		link := li.Find("div.react-component").First().AttrOr("data-item-link", "")
		if link == "" {
			return
		}

		films = append(films, RatedFilm{Title: title, Rating: rating, Link: link})
	})
	return films, nil
}

// ParsePageCount reads the pagination footer of a user's films listing.
// An error body means the user does not exist (0 pages); a listing with no
// paginator is a single page.
func ParsePageCount(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("failed to parse films listing: %w", err)
	}

	if doc.Find("body.error").Length() > 0 {
		return 0, nil
	}

	pages := doc.Find("li.paginate-page")
	if pages.Length() == 0 {
		return 1, nil
	}
	text := strings.ReplaceAll(strings.TrimSpace(pages.Last().Find("a").Text()), ",", "")
	count, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("unreadable page count %q: %w", text, err)
	}
	return count, nil
}

// ParseIMDBID pulls the IMDb title id out of a film detail page's footer
// links.
func ParseIMDBID(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse film page: %w", err)
	}

	href := doc.Find("p.text-link.text-footer a[data-track-action='IMDb']").First().AttrOr("href", "")
	if href == "" {
		return "", fmt.Errorf("no IMDb link on film page")
	}
	parts := strings.Split(strings.TrimRight(href, "/"), "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("unreadable IMDb link %q", href)
	}
	return parts[len(parts)-2], nil
}
