package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobscout/aggregator-service/internal/model"
)

const (
	linkedinBaseURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

	// LinkedIn's guest endpoint is scrape-sensitive: fewer queries, long
	// delays, or it starts answering 429.
	linkedinMaxQueries = 7
	linkedinDelay      = 2 * time.Second

	linkedinUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// The guest listing page is HTML meant for search engines; these patterns
// pull the card fields out of it. LinkedIn can change the markup at any
// time, in which case the adapter silently yields nothing.
var (
	linkedinTitlePattern    = regexp.MustCompile(`(?s)<h3[^>]*class="[^"]*base-search-card__title[^"]*"[^>]*>\s*(.*?)\s*</h3>`)
	linkedinCompanyPattern  = regexp.MustCompile(`(?s)<h4[^>]*class="[^"]*base-search-card__subtitle[^"]*"[^>]*>\s*(.*?)\s*</h4>`)
	linkedinLocationPattern = regexp.MustCompile(`(?s)<span[^>]*class="[^"]*job-search-card__location[^"]*"[^>]*>\s*(.*?)\s*</span>`)
	linkedinLinkPattern     = regexp.MustCompile(`(?s)<a[^>]*class="[^"]*base-card__full-link[^"]*"[^>]*href="([^"]*)"`)
	linkedinDatePattern     = regexp.MustCompile(`<time[^>]*datetime="([^"]*)"`)
	linkedinJobIDPattern    = regexp.MustCompile(`/view/[^/]*-(\d+)`)
)

// LinkedInFetcher scrapes LinkedIn's public (logged-out) job listing pages.
// No credentials are involved; the rate limit is the constraint.
type LinkedInFetcher struct {
	Location string // e.g. "London, United Kingdom"
	client   *http.Client
	baseURL  string
}

// NewLinkedInFetcher constructs a fetcher with a shared HTTP client.
func NewLinkedInFetcher(location string) *LinkedInFetcher {
	return &LinkedInFetcher{
		Location: location,
		client:   &http.Client{Timeout: httpTimeout},
		baseURL:  linkedinBaseURL,
	}
}

func (f *LinkedInFetcher) Source() model.Source { return model.SourceLinkedIn }

// Fetch scrapes the public listing for each query, capped at
// linkedinMaxQueries, with a multi-second delay between queries.
func (f *LinkedInFetcher) Fetch(ctx context.Context, queries []string) ([]model.JobPosting, error) {
	if len(queries) > linkedinMaxQueries {
		queries = queries[:linkedinMaxQueries]
	}

	var postings []model.JobPosting
	for i, query := range queries {
		if i > 0 {
			time.Sleep(linkedinDelay)
		}

		batch, err := f.fetchQuery(ctx, query)
		if err != nil {
			log.Printf("[linkedin] query %q failed: %v — continuing", query, err)
			continue
		}
		postings = append(postings, batch...)
		log.Printf("[linkedin] query %q: %d postings", query, len(batch))
	}

	return postings, nil
}

func (f *LinkedInFetcher) fetchQuery(ctx context.Context, query string) ([]model.JobPosting, error) {
	params := url.Values{}
	params.Set("keywords", query)
	params.Set("location", f.Location)
	params.Set("f_TPR", "r604800") // past week
	params.Set("start", "0")
	params.Set("count", strconv.Itoa(maxPerQuery))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", linkedinUserAgent)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

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
		return nil, fmt.Errorf("linkedin returned %d", resp.StatusCode)
	}

	return f.parseListing(string(body)), nil
}

// parseListing extracts job cards from the guest listing HTML. Cards are
// aligned positionally: the i-th title belongs with the i-th company and
// link, so the usable count is the minimum of the three.
func (f *LinkedInFetcher) parseListing(html string) []model.JobPosting {
	titles := linkedinTitlePattern.FindAllStringSubmatch(html, -1)
	companies := linkedinCompanyPattern.FindAllStringSubmatch(html, -1)
	locations := linkedinLocationPattern.FindAllStringSubmatch(html, -1)
	links := linkedinLinkPattern.FindAllStringSubmatch(html, -1)
	dates := linkedinDatePattern.FindAllStringSubmatch(html, -1)

	n := len(titles)
	if len(companies) < n {
		n = len(companies)
	}
	if len(links) < n {
		n = len(links)
	}

	postings := make([]model.JobPosting, 0, n)
	for i := 0; i < n; i++ {
		title := stripHTML(titles[i][1])
		if title == "" {
			continue
		}

		jobURL, _, _ := strings.Cut(links[i][1], "?")

		providerID := ""
		if m := linkedinJobIDPattern.FindStringSubmatch(jobURL); m != nil {
			providerID = m[1]
		}

		location := ""
		if i < len(locations) {
			location = stripHTML(locations[i][1])
		}
		posted := ""
		if i < len(dates) {
			posted = truncate(dates[i][1], 10)
		}

		postings = append(postings, model.JobPosting{
			Title:         title,
			Company:       orUnknown(stripHTML(companies[i][1])),
			Location:      location,
			URL:           jobURL,
			Source:        model.SourceLinkedIn,
			PostedDate:    posted,
			ProviderJobID: providerID,
		})
	}

	return postings
}
