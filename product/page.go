package product

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// PageSource exposes the page a detector is attached to: its URL and the
// structured-data blocks embedded in it.
type PageSource interface {
	URL() string
	StructuredData(ctx context.Context) ([]string, error)
}

// BlocksFromHTML extracts the raw contents of every structured-data script
// block in an HTML document.
func BlocksFromHTML(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}
	var blocks []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		blocks = append(blocks, sel.Text())
	})
	return blocks, nil
}

// StaticPage is a PageSource over an already-fetched document. Embedders
// that hold the page HTML (and tests) use it directly.
type StaticPage struct {
	PageURL string
	HTML    []byte
}

func (s StaticPage) URL() string { return s.PageURL }

func (s StaticPage) StructuredData(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return BlocksFromHTML(s.HTML)
}

// CollyPage is a PageSource that fetches the page on demand with a colly
// collector scoped to the page's host.
type CollyPage struct {
	url       string
	collector *colly.Collector
}

// NewCollyPage builds a live page source for the given URL.
func NewCollyPage(pageURL, userAgent string, timeout time.Duration) (*CollyPage, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("page url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(userAgent),
	)
	collector.SetRequestTimeout(timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &CollyPage{url: pageURL, collector: collector}, nil
}

func (p *CollyPage) URL() string { return p.url }

// StructuredData visits the page and collects its structured-data blocks.
func (p *CollyPage) StructuredData(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var blocks []string
	var fetchErr error

	collector := p.collector.Clone()
	collector.OnHTML(`script[type="application/ld+json"]`, func(e *colly.HTMLElement) {
		blocks = append(blocks, e.Text)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(p.url); err != nil {
		return nil, fmt.Errorf("visit %s: %w", p.url, err)
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", p.url, fetchErr)
	}
	return blocks, nil
}
