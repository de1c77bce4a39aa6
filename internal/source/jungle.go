package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"jobscout/aggregator-service/internal/model"
)

const (
	jungleQueryURL   = "https://%s-dsn.algolia.net/1/indexes/%s/query"
	jungleJobURL     = "https://www.welcometothejungle.com/en/companies/%s/jobs/%s"
	jungleReferer    = "https://www.welcometothejungle.com/"
	jungleMaxQueries = 5
	jungleHitsPerQ   = 20
	jungleDelay      = 300 * time.Millisecond
)

// JungleFetcher queries the Welcome to the Jungle job board through its
// public Algolia index. Postings are kept only when the company has an
// office in the configured city.
type JungleFetcher struct {
	AppID    string
	APIKey   string
	Index    string
	City     string // office city filter, e.g. "London"
	client   *http.Client
	queryURL string // overrides the Algolia DSN URL in tests
}

// NewJungleFetcher constructs a fetcher with a shared HTTP client.
func NewJungleFetcher(appID, apiKey, index, city string) *JungleFetcher {
	return &JungleFetcher{
		AppID:  appID,
		APIKey: apiKey,
		Index:  index,
		City:   city,
		client: &http.Client{Timeout: httpTimeout},
	}
}

func (f *JungleFetcher) Source() model.Source { return model.SourceJungle }

// Fetch queries the Algolia index for each search term. Returns nil without
// error when credentials are missing.
func (f *JungleFetcher) Fetch(ctx context.Context, queries []string) ([]model.JobPosting, error) {
	if f.AppID == "" || f.APIKey == "" {
		log.Println("[jungle] JUNGLE_ALGOLIA_APP_ID / JUNGLE_ALGOLIA_API_KEY not set — skipping provider")
		return nil, nil
	}

	if len(queries) > jungleMaxQueries {
		queries = queries[:jungleMaxQueries]
	}

	var postings []model.JobPosting
	for i, query := range queries {
		if i > 0 {
			time.Sleep(jungleDelay)
		}

		batch, err := f.fetchQuery(ctx, query)
		if err != nil {
			log.Printf("[jungle] query %q failed: %v — continuing", query, err)
			continue
		}
		postings = append(postings, batch...)
		log.Printf("[jungle] query %q: %d postings", query, len(batch))
	}

	return postings, nil
}

func (f *JungleFetcher) fetchQuery(ctx context.Context, query string) ([]model.JobPosting, error) {
	endpoint := f.queryURL
	if endpoint == "" {
		endpoint = fmt.Sprintf(jungleQueryURL, f.AppID, f.Index)
	}

	payload, err := json.Marshal(map[string]any{
		"query":       query,
		"hitsPerPage": jungleHitsPerQ,
		"filters":     "offices.country_code:GB",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-algolia-application-id", f.AppID)
	req.Header.Set("x-algolia-api-key", f.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", jungleReferer)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("algolia returned %d: %s", resp.StatusCode, string(body))
	}

	var postings []model.JobPosting
	for _, hit := range gjson.GetBytes(body, "hits").Array() {
		title := hit.Get("name").String()
		if title == "" {
			continue
		}

		location, hasCity := f.officeLocations(hit)
		if !hasCity {
			continue
		}

		orgSlug := hit.Get("organization.slug").String()
		slug := hit.Get("slug").String()
		jobURL := ""
		if orgSlug != "" && slug != "" {
			jobURL = fmt.Sprintf(jungleJobURL, orgSlug, slug)
		}

		providerID := hit.Get("reference").String()
		if providerID == "" {
			providerID = hit.Get("objectID").String()
		}

		postings = append(postings, model.JobPosting{
			Title:         title,
			Company:       orUnknown(hit.Get("organization.name").String()),
			Location:      location,
			URL:           jobURL,
			Source:        model.SourceJungle,
			Salary:        jungleSalary(hit),
			Description:   truncate(hit.Get("summary").String(), descriptionLimit),
			PostedDate:    hit.Get("published_at_date").String(),
			ProviderJobID: providerID,
		})
	}

	return postings, nil
}

// officeLocations joins the hit's office cities and reports whether any of
// them matches the configured city.
func (f *JungleFetcher) officeLocations(hit gjson.Result) (string, bool) {
	var cities []string
	hasCity := false
	for _, office := range hit.Get("offices").Array() {
		city := office.Get("city").String()
		if city == "" {
			continue
		}
		if strings.Contains(strings.ToLower(city), strings.ToLower(f.City)) {
			hasCity = true
		}
		cities = append(cities, city)
	}
	if len(cities) == 0 {
		return f.City, hasCity
	}
	return strings.Join(cities, ", "), hasCity
}

func jungleSalary(hit gjson.Result) string {
	min := hit.Get("salary_minimum").Float()
	if min == 0 {
		min = hit.Get("salary_yearly_minimum").Float()
	}
	if min == 0 {
		return ""
	}
	max := hit.Get("salary_maximum").Float()

	sym := hit.Get("salary_currency").String()
	switch sym {
	case "GBP":
		sym = "£"
	case "EUR":
		sym = "€"
	}

	if max > 0 {
		return fmt.Sprintf("%s%s - %s%s", sym, groupThousands(int(min)), sym, groupThousands(int(max)))
	}
	return fmt.Sprintf("From %s%s", sym, groupThousands(int(min)))
}
