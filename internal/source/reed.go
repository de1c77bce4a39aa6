package source

import (
	"context"
	"encoding/base64"
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
	reedBaseURL     = "https://www.reed.co.uk/api/1.0/search"
	reedJobURL      = "https://www.reed.co.uk/jobs/%d"
	reedMaxResults  = 100 // Reed's documented per-request maximum
	reedRadiusMiles = 15
	reedDelay       = 500 * time.Millisecond
)

// ReedFetcher fetches postings from the Reed regional job-board API.
// Reed authenticates with HTTP Basic using the API key as the username and
// an empty password.
type ReedFetcher struct {
	APIKey    string
	Location  string
	MinSalary int
	client    *http.Client
	baseURL   string
}

// NewReedFetcher constructs a fetcher with a shared HTTP client.
func NewReedFetcher(apiKey, location string, minSalary int) *ReedFetcher {
	return &ReedFetcher{
		APIKey:    apiKey,
		Location:  location,
		MinSalary: minSalary,
		client:    &http.Client{Timeout: httpTimeout},
		baseURL:   reedBaseURL,
	}
}

func (f *ReedFetcher) Source() model.Source { return model.SourceReed }

type reedResponse struct {
	Results []reedResult `json:"results"`
}

type reedResult struct {
	JobID          int64   `json:"jobId"`
	JobTitle       string  `json:"jobTitle"`
	EmployerName   string  `json:"employerName"`
	LocationName   string  `json:"locationName"`
	MinimumSalary  float64 `json:"minimumSalary"`
	MaximumSalary  float64 `json:"maximumSalary"`
	JobDescription string  `json:"jobDescription"`
	Date           string  `json:"date"`
}

// Fetch runs every query against Reed with an inter-query delay. Returns
// nil without error when the API key is missing.
func (f *ReedFetcher) Fetch(ctx context.Context, queries []string) ([]model.JobPosting, error) {
	if f.APIKey == "" {
		log.Println("[reed] REED_API_KEY not set — skipping provider")
		return nil, nil
	}

	var postings []model.JobPosting
	for i, query := range queries {
		if i > 0 {
			time.Sleep(reedDelay)
		}

		batch, err := f.fetchQuery(ctx, query)
		if err != nil {
			log.Printf("[reed] query %q failed: %v — continuing", query, err)
			continue
		}
		postings = append(postings, batch...)
		log.Printf("[reed] query %q: %d postings", query, len(batch))
	}

	return postings, nil
}

func (f *ReedFetcher) fetchQuery(ctx context.Context, query string) ([]model.JobPosting, error) {
	params := url.Values{}
	params.Set("keywords", query)
	params.Set("locationName", f.Location)
	params.Set("distancefromlocation", strconv.Itoa(reedRadiusMiles))
	params.Set("resultsToTake", strconv.Itoa(reedMaxResults))
	if f.MinSalary > 0 {
		params.Set("minimumSalary", strconv.Itoa(f.MinSalary))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(f.APIKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
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
		return nil, fmt.Errorf("reed returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp reedResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	postings := make([]model.JobPosting, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		postings = append(postings, model.JobPosting{
			Title:         r.JobTitle,
			Company:       orUnknown(r.EmployerName),
			Location:      r.LocationName,
			URL:           fmt.Sprintf(reedJobURL, r.JobID),
			Source:        model.SourceReed,
			Salary:        formatSalaryGBP(r.MinimumSalary, r.MaximumSalary),
			Description:   truncate(stripHTML(r.JobDescription), descriptionLimit),
			PostedDate:    truncate(r.Date, 10),
			ProviderJobID: strconv.FormatInt(r.JobID, 10),
		})
	}

	return postings, nil
}
