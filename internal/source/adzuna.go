package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"jobscout/aggregator-service/internal/model"
)

const (
	adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"
	adzunaMaxDays = 7
	adzunaDelay   = 500 * time.Millisecond
)

// AdzunaFetcher fetches postings from the Adzuna aggregator API. If AppID or
// AppKey is empty, Fetch returns (nil, nil) gracefully; the run simply
// proceeds without this provider.
type AdzunaFetcher struct {
	AppID     string
	AppKey    string
	Country   string // "gb", "fr", "us", …
	Location  string
	MinSalary int
	client    *http.Client
	baseURL   string
}

// NewAdzunaFetcher constructs a fetcher with a shared HTTP client.
func NewAdzunaFetcher(appID, appKey, country, location string, minSalary int) *AdzunaFetcher {
	return &AdzunaFetcher{
		AppID:     appID,
		AppKey:    appKey,
		Country:   country,
		Location:  location,
		MinSalary: minSalary,
		client:    &http.Client{Timeout: httpTimeout},
		baseURL:   adzunaBaseURL,
	}
}

func (f *AdzunaFetcher) Source() model.Source { return model.SourceAdzuna }

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   float64        `json:"salary_min"`
	SalaryMax   float64        `json:"salary_max"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Fetch runs every query against Adzuna with an inter-query delay. A failed
// query is logged and skipped. Returns nil without error when credentials
// are missing.
func (f *AdzunaFetcher) Fetch(ctx context.Context, queries []string) ([]model.JobPosting, error) {
	if f.AppID == "" || f.AppKey == "" {
		log.Println("[adzuna] ADZUNA_APP_ID / ADZUNA_APP_KEY not set — skipping provider")
		return nil, nil
	}

	var postings []model.JobPosting
	for i, query := range queries {
		if i > 0 {
			time.Sleep(adzunaDelay)
		}

		batch, err := f.fetchQuery(ctx, query)
		if err != nil {
			log.Printf("[adzuna] query %q failed: %v — continuing", query, err)
			continue
		}
		postings = append(postings, batch...)
		log.Printf("[adzuna] query %q: %d postings", query, len(batch))
	}

	return postings, nil
}

func (f *AdzunaFetcher) fetchQuery(ctx context.Context, query string) ([]model.JobPosting, error) {
	endpoint := fmt.Sprintf("%s/%s/search/1", f.baseURL, f.Country)

	params := url.Values{}
	params.Set("app_id", f.AppID)
	params.Set("app_key", f.AppKey)
	params.Set("what", query)
	params.Set("where", f.Location)
	params.Set("results_per_page", strconv.Itoa(maxPerQuery))
	params.Set("max_days_old", strconv.Itoa(adzunaMaxDays))
	params.Set("sort_by", "date")
	params.Set("content-type", "application/json")
	if f.MinSalary > 0 {
		params.Set("salary_min", strconv.Itoa(f.MinSalary))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

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
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	postings := make([]model.JobPosting, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		postings = append(postings, model.JobPosting{
			Title:         r.Title,
			Company:       orUnknown(r.Company.DisplayName),
			Location:      r.Location.DisplayName,
			URL:           r.RedirectURL,
			Source:        model.SourceAdzuna,
			Salary:        formatSalaryGBP(r.SalaryMin, r.SalaryMax),
			Description:   truncate(stripHTML(r.Description), descriptionLimit),
			PostedDate:    truncate(r.Created, 10),
			ProviderJobID: r.ID,
		})
	}

	return postings, nil
}
