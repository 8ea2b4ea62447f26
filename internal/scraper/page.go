package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/procyclingstats/internal/logger"
	"github.com/pfrederiksen/procyclingstats/internal/pageurl"
)

const (
	notFoundSelector = ".page-title > .main > h1"
	notFoundTitle    = "Page not found"
)

// ErrNotFetched is returned when reading a page that has no document yet
var ErrNotFetched = errors.New("page has not been fetched")

// PageNotFoundError is returned when the site serves its not-found page
type PageNotFoundError struct {
	URL string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page not found: %s", e.URL)
}

// FetchError wraps a transport failure
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Option configures a Page
type Option func(*Page)

// WithFetcher sets the transport used by Update
func WithFetcher(f Fetcher) Option {
	return func(p *Page) {
		p.fetcher = f
	}
}

// WithHTML preloads a document from body so the page starts fetched
func WithHTML(body []byte) Option {
	return func(p *Page) {
		p.preload = body
	}
}

// WithLogger sets the logger for fetch diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(p *Page) {
		p.log = l
	}
}

// Page is one procyclingstats page and its most recently fetched document
type Page struct {
	url     string
	fetcher Fetcher
	log     *logger.Logger
	preload []byte
	doc     *goquery.Document
}

// New validates rawURL against pattern and returns an unfetched page, or a
// fetched one when WithHTML is given.
func New(rawURL string, pattern *pageurl.Pattern, opts ...Option) (*Page, error) {
	abs, err := pageurl.Normalize(rawURL, pattern)
	if err != nil {
		return nil, err
	}

	p := &Page{
		url:     abs,
		fetcher: DefaultFetcher,
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.preload != nil {
		doc, err := Parse(p.preload)
		if err != nil {
			return nil, fmt.Errorf("loading HTML for %s: %w", abs, err)
		}
		p.doc = doc
		p.preload = nil
	}
	return p, nil
}

// Update fetches the page once and replaces the document. On any error the
// previous document, if any, is kept.
func (p *Page) Update(ctx context.Context) error {
	p.log.Debug("fetching page", logger.Fields{"url": p.url})

	start := time.Now()
	body, err := p.fetcher.Fetch(ctx, p.url)
	logger.IncrCounter("scraper.fetch")
	logger.RecordTiming("scraper.fetch", time.Since(start))
	if err != nil {
		logger.IncrCounter("scraper.fetch_errors")
		return &FetchError{URL: p.url, Err: err}
	}

	doc, err := Parse(body)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", p.url, err)
	}
	if IsNotFound(doc) {
		return &PageNotFoundError{URL: p.url}
	}

	p.doc = doc
	return nil
}

// HTML returns the current document or ErrNotFetched
func (p *Page) HTML() (*goquery.Document, error) {
	if p.doc == nil {
		return nil, ErrNotFetched
	}
	return p.doc, nil
}

// Fetched reports whether a document is loaded
func (p *Page) Fetched() bool {
	return p.doc != nil
}

// URL returns the absolute URL
func (p *Page) URL() string {
	return p.url
}

// RelativeURL returns the URL without scheme and host
func (p *Page) RelativeURL() string {
	return pageurl.Relative(p.url)
}

func (p *Page) String() string {
	return p.url
}

// Parse builds a document from raw markup
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// IsNotFound reports whether doc is the site's not-found page. Pages without
// the title heading are treated as normal pages.
func IsNotFound(doc *goquery.Document) bool {
	heading := doc.Find(notFoundSelector).First()
	if heading.Length() == 0 {
		return false
	}
	return strings.TrimSpace(heading.Text()) == notFoundTitle
}
