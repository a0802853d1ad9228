package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frank-whw/infohound/internal/model"
)

// fakeHN serves a topstories list and per-id items under the HN API paths.
func fakeHN(t *testing.T, ids []int64, items map[int64]hnItem) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ids)
	})
	mux.HandleFunc("/item/", func(w http.ResponseWriter, r *http.Request) {
		var id int64
		if _, err := fmt.Sscanf(r.URL.Path, "/item/%d.json", &id); err != nil {
			http.NotFound(w, r)
			return
		}
		item, ok := items[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(item)
	})

	return httptest.NewServer(mux)
}

func hnConfig(apiBase string, maxPerDay, minScore int) model.SourceConfig {
	cfg := model.SourceConfig{
		ID:        "hackernews",
		Name:      "Hacker News",
		Type:      model.SourceTypeAPI,
		URL:       apiBase,
		Category:  model.CategoryTechDeep,
		MaxPerDay: maxPerDay,
	}
	if minScore > 0 {
		cfg.Filter = &model.SourceFilter{MinScore: minScore}
	}
	return cfg
}

func TestHackerNewsFetch(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><article>story body</article></body></html>"))
	}))
	defer pageServer.Close()

	now := time.Now().Unix()
	server := fakeHN(t, []int64{1, 2, 3, 4}, map[int64]hnItem{
		1: {ID: 1, Title: "Popular Story", URL: pageServer.URL + "/1", Score: 250, Descendants: 42, By: "alice", Time: now},
		2: {ID: 2, Title: "Ask HN: no URL", Score: 300, Time: now},
		3: {ID: 3, Title: "Low Score", URL: pageServer.URL + "/3", Score: 12, Time: now},
		4: {ID: 4, Title: "Another Good One", URL: pageServer.URL + "/4", Score: 150, By: "bob", Time: now},
	})
	defer server.Close()

	c := NewHackerNews(hnConfig(server.URL, 10, 100), newRSSTestDeps(t))

	articles, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2 (no-URL and low-score stories dropped)", len(articles))
	}

	a := articles[0]
	if a.ID != "hn-1" {
		t.Errorf("ID = %q, want hn-1", a.ID)
	}
	if a.Title != "Popular Story" {
		t.Errorf("Title = %q", a.Title)
	}
	if !strings.Contains(a.Content, "story body") {
		t.Errorf("Content = %q", a.Content)
	}
	if a.Metadata["score"] != 250 || a.Metadata["comments"] != 42 || a.Metadata["author"] != "alice" {
		t.Errorf("Metadata = %v", a.Metadata)
	}
}

func TestHackerNewsFetchCapsAtMaxPerDay(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><article>body</article></body></html>"))
	}))
	defer pageServer.Close()

	now := time.Now().Unix()
	ids := make([]int64, 5)
	items := make(map[int64]hnItem, 5)
	for i := range ids {
		id := int64(i + 1)
		ids[i] = id
		items[id] = hnItem{ID: id, Title: fmt.Sprintf("Story %d", id), URL: fmt.Sprintf("%s/%d", pageServer.URL, id), Score: 200, Time: now}
	}

	server := fakeHN(t, ids, items)
	defer server.Close()

	c := NewHackerNews(hnConfig(server.URL, 2, 100), newRSSTestDeps(t))

	articles, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("got %d articles, want maxPerDay=2", len(articles))
	}
}

func TestHackerNewsFetchToleratesItemFailure(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><article>body</article></body></html>"))
	}))
	defer pageServer.Close()

	now := time.Now().Unix()
	// Item 2 is missing from the fake server: its fetch 404s and is skipped.
	server := fakeHN(t, []int64{1, 2, 3}, map[int64]hnItem{
		1: {ID: 1, Title: "First", URL: pageServer.URL + "/1", Score: 200, Time: now},
		3: {ID: 3, Title: "Third", URL: pageServer.URL + "/3", Score: 200, Time: now},
	})
	defer server.Close()

	c := NewHackerNews(hnConfig(server.URL, 10, 100), newRSSTestDeps(t))

	articles, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("got %d articles, want 2", len(articles))
	}
}

func TestHackerNewsFetchToleratesScrapeFailure(t *testing.T) {
	now := time.Now().Unix()
	server := fakeHN(t, []int64{1}, map[int64]hnItem{
		1: {ID: 1, Title: "Unreachable", URL: "http://127.0.0.1:1/nope", Score: 200, Time: now},
	})
	defer server.Close()

	c := NewHackerNews(hnConfig(server.URL, 10, 100), newRSSTestDeps(t))

	articles, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1 (scrape failure keeps the story)", len(articles))
	}
	if articles[0].Content != "" {
		t.Errorf("Content = %q, want empty", articles[0].Content)
	}
}

func TestHackerNewsFetchListFailureYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewHackerNews(hnConfig(server.URL, 10, 100), newRSSTestDeps(t))

	articles, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned an error for a failed list fetch: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("got %d articles, want 0", len(articles))
	}
}

func TestHackerNewsItemCached(t *testing.T) {
	itemRequests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]int64{1})
	})
	mux.HandleFunc("/item/", func(w http.ResponseWriter, r *http.Request) {
		itemRequests++
		json.NewEncoder(w).Encode(hnItem{ID: 1, Title: "Cached", URL: "http://127.0.0.1:1/x", Score: 200, Time: time.Now().Unix()})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	deps := newRSSTestDeps(t)
	c := NewHackerNews(hnConfig(server.URL, 10, 100), deps)

	for i := 0; i < 2; i++ {
		if _, err := c.Fetch(context.Background()); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}

	if itemRequests != 1 {
		t.Errorf("item endpoint hit %d times, want 1 (second run cached)", itemRequests)
	}
}
