package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pfrederiksen/procyclingstats/internal/logger"
	"github.com/pfrederiksen/procyclingstats/internal/pageurl"
)

var riderPattern = pageurl.MustCompile(`rider`+pageurl.URLStr+pageurl.TrailingSlashes, "rider/tadej-pogacar")

const (
	riderHTML    = `<html><body><div class="page-title"><div class="main"><h1>Tadej Pogačar</h1></div></div></body></html>`
	notFoundHTML = `<html><body><div class="page-title"><div class="main"><h1>Page not found</h1></div></div></body></html>`
)

type stubFetcher struct {
	bodies []string
	err    error
	calls  int
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	body := f.bodies[0]
	if len(f.bodies) > 1 {
		f.bodies = f.bodies[1:]
	}
	return []byte(body), nil
}

func heading(t *testing.T, p *Page) string {
	t.Helper()
	doc, err := p.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	return doc.Find("h1").Text()
}

func TestNewValidatesURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
		wantRel string
	}{
		{name: "relative", url: "rider/tadej-pogacar", wantRel: "rider/tadej-pogacar"},
		{name: "leading slash", url: "/rider/tadej-pogacar/", wantRel: "rider/tadej-pogacar"},
		{name: "absolute", url: "https://www.procyclingstats.com/rider/tadej-pogacar", wantRel: "rider/tadej-pogacar"},
		{name: "wrong shape", url: "race/tour-de-france/2022", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.url, riderPattern)
			if tt.wantErr {
				var invalid *pageurl.InvalidURLError
				if !errors.As(err, &invalid) {
					t.Fatalf("New() error = %v, want InvalidURLError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := p.RelativeURL(); got != tt.wantRel {
				t.Errorf("RelativeURL() = %q, want %q", got, tt.wantRel)
			}
			if p.Fetched() {
				t.Error("new page should not be fetched")
			}
		})
	}
}

func TestHTMLBeforeUpdate(t *testing.T) {
	p, err := New("rider/tadej-pogacar", riderPattern)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := p.HTML(); !errors.Is(err, ErrNotFetched) {
		t.Errorf("HTML() error = %v, want ErrNotFetched", err)
	}
}

func TestWithHTML(t *testing.T) {
	f := &stubFetcher{bodies: []string{riderHTML}}
	p, err := New("rider/tadej-pogacar", riderPattern, WithHTML([]byte(notFoundHTML)), WithFetcher(f))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := heading(t, p); got != "Page not found" {
		t.Errorf("preloaded heading = %q, want no landmark check", got)
	}
	if f.calls != 0 {
		t.Errorf("fetcher called %d times, want 0", f.calls)
	}

	if err := p.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := heading(t, p); got != "Tadej Pogačar" {
		t.Errorf("heading after Update() = %q", got)
	}
}

func TestUpdateKeepsDocumentOnFailure(t *testing.T) {
	transport := errors.New("connection reset")

	tests := []struct {
		name  string
		fetch *stubFetcher
		check func(t *testing.T, err error)
	}{
		{
			name:  "not found page",
			fetch: &stubFetcher{bodies: []string{riderHTML, notFoundHTML}},
			check: func(t *testing.T, err error) {
				var nf *PageNotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("Update() error = %v, want PageNotFoundError", err)
				}
				if !strings.HasSuffix(nf.URL, "rider/tadej-pogacar") {
					t.Errorf("PageNotFoundError.URL = %q", nf.URL)
				}
			},
		},
		{
			name:  "transport failure",
			fetch: &stubFetcher{bodies: []string{riderHTML}},
			check: func(t *testing.T, err error) {
				var fe *FetchError
				if !errors.As(err, &fe) {
					t.Fatalf("Update() error = %v, want FetchError", err)
				}
				if !errors.Is(err, transport) {
					t.Errorf("FetchError should unwrap to the transport error")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New("rider/tadej-pogacar", riderPattern, WithFetcher(tt.fetch), WithLogger(logger.Nop()))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if err := p.Update(context.Background()); err != nil {
				t.Fatalf("first Update() error = %v", err)
			}
			if tt.name == "transport failure" {
				tt.fetch.err = transport
			}

			tt.check(t, p.Update(context.Background()))

			if got := heading(t, p); got != "Tadej Pogačar" {
				t.Errorf("heading after failed Update() = %q, want previous document", got)
			}
		})
	}
}

func TestUpdateNotFoundWhenUnfetched(t *testing.T) {
	p, err := New("rider/nobody", riderPattern, WithFetcher(&stubFetcher{bodies: []string{notFoundHTML}}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var nf *PageNotFoundError
	if err := p.Update(context.Background()); !errors.As(err, &nf) {
		t.Fatalf("Update() error = %v, want PageNotFoundError", err)
	}
	if _, err := p.HTML(); !errors.Is(err, ErrNotFetched) {
		t.Errorf("HTML() error = %v, want ErrNotFetched", err)
	}
}

func TestHTTPFetcher(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
		wantTitle  string
	}{
		{name: "ok", statusCode: http.StatusOK, body: riderHTML, wantTitle: "Tadej Pogačar"},
		{name: "status codes are not interpreted", statusCode: http.StatusNotFound, body: riderHTML, wantTitle: "Tadej Pogačar"},
		{name: "not found landmark", statusCode: http.StatusOK, body: notFoundHTML, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); ua != "pcs-test" {
					t.Errorf("User-Agent = %q, want pcs-test", ua)
				}
				if r.URL.Path != "/rider/tadej-pogacar" {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p, err := New(server.URL+"/rider/tadej-pogacar", riderPattern,
				WithFetcher(NewHTTPFetcher("pcs-test", 0)))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			err = p.Update(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("Update() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if got := heading(t, p); got != tt.wantTitle {
				t.Errorf("heading = %q, want %q", got, tt.wantTitle)
			}
		})
	}
}

func TestHTTPFetcherTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL + "/rider/tadej-pogacar"
	server.Close()

	p, err := New(url, riderPattern, WithFetcher(NewHTTPFetcher("", 0)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var fe *FetchError
	if err := p.Update(context.Background()); !errors.As(err, &fe) {
		t.Fatalf("Update() error = %v, want FetchError", err)
	}
}

func TestUpdateRecordsMetrics(t *testing.T) {
	before := logger.GetMetricsSnapshot()
	p, err := New("rider/tadej-pogacar", riderPattern, WithFetcher(&stubFetcher{bodies: []string{riderHTML}}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	after := logger.GetMetricsSnapshot()

	if fetches(after)-fetches(before) != 1 {
		t.Errorf("scraper.fetch counter grew by %d, want 1", fetches(after)-fetches(before))
	}
}

func fetches(snapshot map[string]interface{}) int64 {
	counters, _ := snapshot["counters"].(map[string]int64)
	return counters["scraper.fetch"]
}
