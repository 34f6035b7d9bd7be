package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/semaphore"
)

// Fetcher performs throttled page fetches. One Fetcher is shared across the
// whole process, so its gate bounds every in-flight request system-wide, not
// per user. Robots rules are checked and cached per host.
type Fetcher struct {
	client      *http.Client
	gate        *semaphore.Weighted
	robotsCache map[string]*robotstxt.RobotsData
	robotsMu    sync.RWMutex
	userAgent   string
}

func NewFetcher(userAgent string, maxInFlight int64) *Fetcher {
	if maxInFlight <= 0 {
		maxInFlight = 10
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		gate:        semaphore.NewWeighted(maxInFlight),
		robotsCache: make(map[string]*robotstxt.RobotsData),
		userAgent:   userAgent,
	}
}

// FetchHTML returns the response body for urlStr. Non-2xx responses are not
// errors here: callers detect error pages from the markup itself.
func (f *Fetcher) FetchHTML(ctx context.Context, urlStr string) (string, error) {
	if !f.isAllowed(urlStr) {
		return "", fmt.Errorf("disallowed by robots.txt: %s", urlStr)
	}

	if err := f.gate.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire fetch slot: %w", err)
	}
	defer f.gate.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", urlStr, err)
	}
	return string(body), nil
}

func (f *Fetcher) isAllowed(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)

	f.robotsMu.RLock()
	robots, exists := f.robotsCache[robotsURL]
	f.robotsMu.RUnlock()

	if !exists {
		robots = f.fetchRobotsTxt(robotsURL)
		f.robotsMu.Lock()
		f.robotsCache[robotsURL] = robots
		f.robotsMu.Unlock()
	}

	if robots == nil {
		return true
	}
	return robots.FindGroup(f.userAgent).Test(u.Path)
}

func (f *Fetcher) fetchRobotsTxt(robotsURL string) *robotstxt.RobotsData {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return robots
}
