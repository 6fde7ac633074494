package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkwarude-cell/foodscan/internal/cache"
)

const recipePage = `<!doctype html>
<html>
<head>
<title>Falafel Burgers</title>
<meta property="og:title" content="Easy Falafel Burgers">
<meta name="description" content="A simple chickpea falafel recipe.">
</head>
<body>
<nav>Home | Recipes</nav>
<article>
<h1>Falafel Burgers</h1>
<p>Blend chickpeas with herbs and spices, shape and fry.</p>
</article>
<footer>Copyright</footer>
<script>trackPageView()</script>
</body>
</html>`

type memKV struct {
	m    map[string][]byte
	puts int
	gets int
}

func newMemKV() *memKV { return &memKV{m: make(map[string][]byte)} }

func (k *memKV) Get(key string) ([]byte, error) {
	k.gets++
	v, ok := k.m[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return v, nil
}

func (k *memKV) Put(key string, value []byte, ttl time.Duration) error {
	k.puts++
	k.m[key] = append([]byte(nil), value...)
	return nil
}

func (k *memKV) Delete(key string) error {
	delete(k.m, key)
	return nil
}

func recipeServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		switch r.URL.Path {
		case "/recipe":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(recipePage))
		case "/image.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSummarizesPage(t *testing.T) {
	srv := recipeServer(t, nil)
	f := NewRecipeFetcher(nil, time.Minute)

	rs, err := f.Fetch(context.Background(), srv.URL+"/recipe")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if rs.Title != "Easy Falafel Burgers" {
		t.Fatalf("og:title must win, got %q", rs.Title)
	}
	if rs.Description != "A simple chickpea falafel recipe." {
		t.Fatalf("description %q", rs.Description)
	}
	if !strings.Contains(rs.Text, "chickpeas") {
		t.Fatalf("body text lost: %q", rs.Text)
	}
	if strings.Contains(rs.Text, "trackPageView") {
		t.Fatalf("script content leaked into text: %q", rs.Text)
	}
}

func TestFetchRejectsBadInput(t *testing.T) {
	f := NewRecipeFetcher(nil, time.Minute)
	if _, err := f.Fetch(context.Background(), "ftp://example.com/recipe"); err == nil {
		t.Fatal("non-http scheme accepted")
	}

	srv := recipeServer(t, nil)
	if _, err := f.Fetch(context.Background(), srv.URL+"/image.png"); err == nil {
		t.Fatal("non-html content type accepted")
	}
}

func TestFetchUsesCache(t *testing.T) {
	hits := 0
	srv := recipeServer(t, &hits)
	kv := newMemKV()
	f := NewRecipeFetcher(kv, time.Minute)

	first, err := f.Fetch(context.Background(), srv.URL+"/recipe")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if kv.puts != 1 {
		t.Fatalf("summary not cached, puts %d", kv.puts)
	}

	second, err := f.Fetch(context.Background(), srv.URL+"/recipe")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if hits != 1 {
		t.Fatalf("server hit %d times, want 1", hits)
	}
	if second.Title != first.Title || second.Text != first.Text {
		t.Fatalf("cached summary differs: %+v vs %+v", second, first)
	}
}

func TestNextUserAgentPoolOnly(t *testing.T) {
	pool := make(map[string]struct{}, len(userAgents))
	for _, ua := range userAgents {
		pool[ua] = struct{}{}
	}
	for i := 0; i < 100; i++ {
		if _, ok := pool[NextUserAgent()]; !ok {
			t.Fatal("user agent outside pool")
		}
	}
}

func TestCancelledContext(t *testing.T) {
	srv := recipeServer(t, nil)
	f := NewRecipeFetcher(nil, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, srv.URL+"/recipe"); err == nil {
		t.Fatal("cancelled context accepted")
	}
}
