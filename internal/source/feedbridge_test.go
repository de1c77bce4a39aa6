package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobscout/aggregator-service/internal/model"
)

const mrssSample = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <item>
      <title>We are hiring a Data Analyst in London! DM for details</title>
      <link>https://x.example/status/1</link>
      <description>&lt;p&gt;Join our analytics team.&lt;/p&gt;</description>
    </item>
    <item>
      <title>Hiring a VP of Analytics</title>
      <link>https://x.example/status/2</link>
      <description>senior leadership</description>
    </item>
    <item>
      <title>Lovely weather today</title>
      <link>https://x.example/status/3</link>
      <description>no vacancy here</description>
    </item>
  </channel>
</rss>`

// Feed items that read like job posts become postings; leadership roles and
// non-job chatter are filtered out.
func TestFeedBridgeFetcher_FiltersAndMaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("bridge") != "TwitterBridge" {
			t.Errorf("bridge = %q, want TwitterBridge", r.URL.Query().Get("bridge"))
		}
		w.Write([]byte(mrssSample))
	}))
	defer srv.Close()

	f := NewFeedBridgeFetcher([]string{srv.URL}, []string{`"hiring" analyst`}, "London")
	postings, err := f.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("len(postings) = %d, want 1", len(postings))
	}

	p := postings[0]
	if p.Title != "[X] We are hiring a Data Analyst in London! DM for details" {
		t.Errorf("Title = %q, want the [X] prefix and post text", p.Title)
	}
	if p.Company != "(via X/Twitter)" {
		t.Errorf("Company = %q", p.Company)
	}
	if p.URL != "https://x.example/status/1" || p.ProviderJobID != p.URL {
		t.Errorf("URL/ProviderJobID = %q / %q, want the post link for both", p.URL, p.ProviderJobID)
	}
	if p.Description != "Join our analytics team." {
		t.Errorf("Description = %q, want the markup stripped", p.Description)
	}
	if p.Source != model.SourceFeedBridge {
		t.Errorf("Source = %s, want feedbridge", p.Source)
	}
}

// A dead first bridge falls through to the next one.
func TestFeedBridgeFetcher_FallsBackToNextBridge(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer dead.Close()
	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mrssSample))
	}))
	defer alive.Close()

	f := NewFeedBridgeFetcher([]string{dead.URL, alive.URL}, []string{"hiring analyst"}, "London")
	postings, err := f.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(postings) != 1 {
		t.Errorf("len(postings) = %d, want 1 from the fallback bridge", len(postings))
	}
}

// No configured bridges means the provider is skipped entirely.
func TestFeedBridgeFetcher_NoBridges(t *testing.T) {
	f := NewFeedBridgeFetcher(nil, []string{"hiring"}, "London")
	postings, err := f.Fetch(context.Background(), nil)
	if err != nil || postings != nil {
		t.Errorf("Fetch = (%v, %v), want (nil, nil)", postings, err)
	}
}

// ── looksLikeJobPost ──────────────────────────────────────────────────────

func TestLooksLikeJobPost(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"We are hiring a data analyst", true},
		{"New role open in our product team", true},
		{"Looking for an analyst to join us", true},
		{"Great sunset tonight", false},
		{"Hiring interns for the summer", false},
		{"Hiring a Head of Data", false},
	}
	for _, c := range cases {
		if got := looksLikeJobPost(c.text); got != c.want {
			t.Errorf("looksLikeJobPost(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}
