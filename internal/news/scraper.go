package news

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"sensex-scalper/internal/logger"
)

// Source defines one site to pull index headlines from.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // "{query}" is replaced with the search term
	Container  string
	Title      string
	RateLimit  time.Duration
}

// Scraper pulls recent headlines for an index from financial news sites.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{query}.html",
			Container:  "li.clearfix",
			Title:      "h2 a, h3 a",
			RateLimit:  2 * time.Second,
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{query}",
			Container:  "div.story-box",
			Title:      "a",
			RateLimit:  2 * time.Second,
		},
	}
}

// Headlines fetches up to maxHeadlines recent headlines mentioning query.
// Source failures are logged and skipped; an empty result is not an error.
func (s *Scraper) Headlines(ctx context.Context, query string, maxHeadlines int) []string {
	headlines := []string{}
	perSource := maxHeadlines / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	for _, src := range s.sources {
		found, err := s.scrapeSource(ctx, src, query, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", src.Name, "query", query)
			continue
		}
		headlines = append(headlines, found...)
		time.Sleep(src.RateLimit)
	}

	logger.Info(ctx, "Headline scraping completed", "query", query, "headlines", len(headlines))
	return headlines
}

func (s *Scraper) scrapeSource(ctx context.Context, src Source, query string, max int) ([]string, error) {
	found := []string{}

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(src.BaseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})
	c.OnHTML(src.Container, func(e *colly.HTMLElement) {
		if len(found) >= max {
			return
		}
		title := strings.TrimSpace(e.ChildText(src.Title))
		if title != "" {
			found = append(found, title)
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", src.Name, "url", r.Request.URL.String())
	})

	target := src.BaseURL + strings.ReplaceAll(src.SearchPath, "{query}", strings.ToLower(query))
	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("visit %s: %w", target, err)
	}
	c.Wait()
	return found, nil
}

// ParseHeadlines extracts headline text from a raw HTML document using the
// given selector. Split out from the network path so parsing is testable.
func ParseHeadlines(r io.Reader, selector string, max int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	headlines := []string{}
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			headlines = append(headlines, t)
		}
		return len(headlines) < max
	})
	return headlines, nil
}

func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
