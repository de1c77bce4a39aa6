package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobscout/aggregator-service/internal/model"
)

const (
	feedBridgeDelay       = time.Second
	feedBridgeMaxPerQuery = 5
	feedBridgeUserAgent   = "jobscout-aggregator/1.0"
)

// Posts must look like an actual job announcement to be kept at all.
var (
	feedHiringTerms = []string{"hiring", "job", "role", "position", "vacancy", "looking for"}
	feedRejectTerms = []string{"intern", "director", "vp", "head of"}
)

// DefaultFeedBridges are public RSS-bridge instances tried in order.
var DefaultFeedBridges = []string{
	"https://rss-bridge.org/bridge01",
	"https://rss-bridge.bb8.fun",
}

// DefaultFeedQueries are the X/Twitter search expressions used when no
// custom queries are configured.
var DefaultFeedQueries = []string{
	`"hiring" "London" (analyst OR "product manager")`,
	`"data analyst" "London" hiring`,
	`"product manager" "London" hiring`,
	`from:AIJobAlert analyst London`,
}

// FeedBridgeFetcher pulls job announcement posts from X/Twitter through
// public RSS-bridge instances. Bridges come and go; each query is tried
// against every configured bridge until one answers.
type FeedBridgeFetcher struct {
	Bridges  []string // base URLs, tried in order
	Queries  []string // provider-specific search expressions
	Location string
	client   *http.Client
}

// NewFeedBridgeFetcher constructs a fetcher with a shared HTTP client.
func NewFeedBridgeFetcher(bridges, queries []string, location string) *FeedBridgeFetcher {
	return &FeedBridgeFetcher{
		Bridges:  bridges,
		Queries:  queries,
		Location: location,
		client:   &http.Client{Timeout: httpTimeout},
	}
}

func (f *FeedBridgeFetcher) Source() model.Source { return model.SourceFeedBridge }

type mrssFeed struct {
	Items []mrssItem `xml:"channel>item"`
}

type mrssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

// Fetch ignores the pipeline queries: the bridge expressions are fixed
// per-provider search strings configured at construction time.
func (f *FeedBridgeFetcher) Fetch(ctx context.Context, _ []string) ([]model.JobPosting, error) {
	if len(f.Bridges) == 0 {
		log.Println("[feedbridge] no bridge instances configured — skipping provider")
		return nil, nil
	}

	var postings []model.JobPosting
	for i, query := range f.Queries {
		if i > 0 {
			time.Sleep(feedBridgeDelay)
		}

		batch, err := f.fetchQuery(ctx, query)
		if err != nil {
			log.Printf("[feedbridge] query %q unavailable: %v", truncate(query, 35), err)
			continue
		}
		postings = append(postings, batch...)
	}

	return postings, nil
}

// fetchQuery tries each bridge in order until one returns a parseable feed.
func (f *FeedBridgeFetcher) fetchQuery(ctx context.Context, query string) ([]model.JobPosting, error) {
	var lastErr error
	for _, bridge := range f.Bridges {
		postings, err := f.fetchFromBridge(ctx, bridge, query)
		if err != nil {
			lastErr = err
			continue
		}
		return postings, nil
	}
	return nil, fmt.Errorf("all bridges failed: %w", lastErr)
}

func (f *FeedBridgeFetcher) fetchFromBridge(ctx context.Context, bridge, query string) ([]model.JobPosting, error) {
	params := url.Values{}
	params.Set("action", "display")
	params.Set("bridge", "TwitterBridge")
	params.Set("context", "By keyword")
	params.Set("q", query)
	params.Set("format", "Mrss")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bridge+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", feedBridgeUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var feed mrssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("xml unmarshal: %w", err)
	}

	items := feed.Items
	if len(items) > feedBridgeMaxPerQuery {
		items = items[:feedBridgeMaxPerQuery]
	}

	var postings []model.JobPosting
	for _, item := range items {
		text := strings.TrimSpace(item.Title)
		if text == "" || item.Link == "" || !looksLikeJobPost(text) {
			continue
		}

		postings = append(postings, model.JobPosting{
			Title:         "[X] " + truncate(text, 120),
			Company:       "(via X/Twitter)",
			Location:      f.Location,
			URL:           item.Link,
			Source:        model.SourceFeedBridge,
			Description:   truncate(stripHTML(item.Description), 300),
			ProviderJobID: item.Link, // the post URL is the only stable id
		})
	}

	return postings, nil
}

func looksLikeJobPost(text string) bool {
	t := strings.ToLower(text)
	hiring := false
	for _, term := range feedHiringTerms {
		if strings.Contains(t, term) {
			hiring = true
			break
		}
	}
	if !hiring {
		return false
	}
	for _, term := range feedRejectTerms {
		if strings.Contains(t, term) {
			return false
		}
	}
	return true
}
