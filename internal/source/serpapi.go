package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"jobscout/aggregator-service/internal/model"
)

const (
	serpAPIBaseURL = "https://serpapi.com/search.json"

	// SerpAPI bills per request; keep the quota spend small.
	serpAPIMaxQueries = 3
	serpAPIDelay      = time.Second
	serpAPITimeout    = 20 * time.Second
)

// SerpAPIFetcher fetches Google Jobs results through SerpAPI's structured
// search endpoint.
type SerpAPIFetcher struct {
	APIKey   string
	Location string // e.g. "London, United Kingdom"
	client   *http.Client
	baseURL  string
}

// NewSerpAPIFetcher constructs a fetcher with a shared HTTP client.
func NewSerpAPIFetcher(apiKey, location string) *SerpAPIFetcher {
	return &SerpAPIFetcher{
		APIKey:   apiKey,
		Location: location,
		client:   &http.Client{Timeout: serpAPITimeout},
		baseURL:  serpAPIBaseURL,
	}
}

func (f *SerpAPIFetcher) Source() model.Source { return model.SourceSerpAPI }

// Fetch runs the first serpAPIMaxQueries queries through SerpAPI. Returns
// nil without error when the API key is missing.
func (f *SerpAPIFetcher) Fetch(ctx context.Context, queries []string) ([]model.JobPosting, error) {
	if f.APIKey == "" {
		log.Println("[serpapi] SERPAPI_KEY not set — skipping provider")
		return nil, nil
	}

	if len(queries) > serpAPIMaxQueries {
		queries = queries[:serpAPIMaxQueries]
	}

	var postings []model.JobPosting
	for i, query := range queries {
		if i > 0 {
			time.Sleep(serpAPIDelay)
		}

		batch, err := f.fetchQuery(ctx, query)
		if err != nil {
			log.Printf("[serpapi] query %q failed: %v — continuing", query, err)
			continue
		}
		postings = append(postings, batch...)
		log.Printf("[serpapi] query %q: %d postings", query, len(batch))
	}

	return postings, nil
}

func (f *SerpAPIFetcher) fetchQuery(ctx context.Context, query string) ([]model.JobPosting, error) {
	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", query)
	params.Set("location", f.Location)
	params.Set("api_key", f.APIKey)
	params.Set("chips", "date_posted:week")
	params.Set("num", strconv.Itoa(maxPerQuery))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned %d: %s", resp.StatusCode, string(body))
	}

	// The response nests job fields under several optional objects; gjson
	// paths are less noise than mirror structs here.
	var postings []model.JobPosting
	for _, item := range gjson.GetBytes(body, "jobs_results").Array() {
		title := item.Get("title").String()
		if title == "" {
			continue
		}

		postings = append(postings, model.JobPosting{
			Title:         title,
			Company:       orUnknown(item.Get("company_name").String()),
			Location:      item.Get("location").String(),
			URL:           item.Get("apply_options.0.link").String(),
			Source:        model.SourceSerpAPI,
			Salary:        item.Get("detected_extensions.salary").String(),
			Description:   truncate(item.Get("description").String(), descriptionLimit),
			PostedDate:    item.Get("detected_extensions.posted_at").String(),
			ProviderJobID: item.Get("job_id").String(),
		})
	}

	return postings, nil
}
