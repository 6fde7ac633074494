// Package web fetches recipe pages referenced by dish profiles and distills
// them into a compact summary for display alongside a detected dish.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/dkwarude-cell/foodscan/internal/cache"
)

const (
	RequestTimeout  = 20 * time.Second
	MaxResponseSize = 1 * 1024 * 1024 // 1MB
)

// RecipeSummary is the distilled content of a recipe page.
type RecipeSummary struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Text        string `json:"text"`
}

// RecipeFetcher retrieves and summarizes recipe pages, caching results in
// the shared KV. A nil cache disables caching but not fetching.
type RecipeFetcher struct {
	c     *colly.Collector
	cache cache.KV
	ttl   time.Duration
}

func NewRecipeFetcher(cacheStore cache.KV, ttl time.Duration) *RecipeFetcher {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       1 * time.Second,
	})
	c.SetRequestTimeout(RequestTimeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", NextUserAgent())
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})
	return &RecipeFetcher{c: c, cache: cacheStore, ttl: ttl}
}

func (f *RecipeFetcher) cacheKey(rawURL string) string { return "recipe|" + rawURL }

// Fetch resolves a recipe URL into a summary.
func (f *RecipeFetcher) Fetch(ctx context.Context, rawURL string) (*RecipeSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, errors.New("recipe url must start with http:// or https://")
	}
	if f.cache != nil {
		if v, err := f.cache.Get(f.cacheKey(rawURL)); err == nil {
			var rs RecipeSummary
			if json.Unmarshal(v, &rs) == nil {
				return &rs, nil
			}
		}
	}

	var pageHTML []byte
	var finalURL, contentType string

	originalCtx := f.c.Context
	f.c.Context = ctx
	defer func() { f.c.Context = originalCtx }()

	f.c.OnResponse(func(r *colly.Response) {
		if ctx.Err() != nil {
			return
		}
		finalURL = r.Request.URL.String()
		pageHTML = append([]byte(nil), r.Body...)
		contentType = r.Headers.Get("Content-Type")
	})

	if err := f.c.Visit(rawURL); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(pageHTML) == 0 {
		return nil, errors.New("empty response body")
	}
	if len(pageHTML) > MaxResponseSize {
		pageHTML = pageHTML[:MaxResponseSize]
	}
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, errors.New("unsupported content type for recipe page")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	// Remove non-visible and navigational elements
	doc.Find("script, style, noscript, iframe, object, embed, img, video, picture, svg, canvas, audio, form, input, button, select, nav, header, footer, aside").Remove()

	title := strings.TrimSpace(doc.Find("head > title").First().Text())
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && og != "" {
		title = strings.TrimSpace(og)
	}
	desc := strings.TrimSpace(doc.Find("meta[name=description]").AttrOr("content", ""))

	plainText := strings.Join(strings.Fields(doc.Find("body").Text()), " ")

	doc.Find("a").Remove()

	htmlStr, err := doc.Html()
	if err != nil {
		return nil, err
	}
	bodyText := plainText
	if markdown, err := htmltomarkdown.ConvertString(htmlStr); err == nil {
		bodyText = markdown
	}

	rs := &RecipeSummary{
		URL:         finalURL,
		Title:       title,
		Description: desc,
		Text:        bodyText,
	}
	if f.cache != nil {
		if b, err := json.Marshal(rs); err == nil {
			_ = f.cache.Put(f.cacheKey(rawURL), b, f.ttl)
		}
	}
	return rs, nil
}
