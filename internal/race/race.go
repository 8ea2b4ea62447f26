package race

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/pageurl"
	"github.com/pfrederiksen/procyclingstats/internal/scraper"
	"github.com/pfrederiksen/procyclingstats/internal/table"
)

// Pattern accepts race/{id}/{year}/{stage} where stage is a numbered stage,
// the prologue, a general classification or a one-day result.
var Pattern = pageurl.MustCompile(`
	race`+pageurl.URLStr+pageurl.Year+`
	/(?:stage-\d+|prologue|gc|result)
	(?:/[^/?#]+)?
	`+pageurl.TrailingSlashes,
	"race/tour-de-france/2022/stage-1")

var operations = field.MustSet(
	field.Op("date", date),
	field.Op("distance", distance),
	field.Op("name", name),
	field.Op("results", func(doc *goquery.Document) ([]*table.Row, error) {
		return results(doc)
	}),
	field.Op("stage_type", stageType),
)

// Operations returns the fields Parse extracts
func Operations() *field.Set {
	return operations
}

// Race is one stage or one-day race result page
type Race struct {
	page *scraper.Page
}

// New validates url and returns an unfetched race unless scraper.WithHTML is given
func New(url string, opts ...scraper.Option) (*Race, error) {
	page, err := scraper.New(url, Pattern, opts...)
	if err != nil {
		return nil, err
	}
	return &Race{page: page}, nil
}

func (r *Race) Page() *scraper.Page {
	return r.page
}

func (r *Race) Update(ctx context.Context) error {
	return r.page.Update(ctx)
}

// CanonicalURL returns race/{id}/{year}/{stage}
func (r *Race) CanonicalURL() string {
	segments := pageurl.Segments(r.page.RelativeURL())
	return strings.Join(segments[:4], "/")
}

func (r *Race) Equal(other *Race) bool {
	return other != nil && r.CanonicalURL() == other.CanonicalURL()
}

func (r *Race) String() string {
	return r.CanonicalURL()
}

// Parse extracts every field from the fetched page
func (r *Race) Parse(opts field.Options) (*field.Record, error) {
	doc, err := r.page.HTML()
	if err != nil {
		return nil, err
	}
	return field.Dispatch(doc, operations, opts)
}

// Build fetches the page and parses it
func (r *Race) Build(ctx context.Context, opts field.Options) (*field.Record, error) {
	if err := r.Update(ctx); err != nil {
		return nil, err
	}
	return r.Parse(opts)
}

// Name returns the race name
func (r *Race) Name() (string, error) {
	return extract(r, name)
}

// Date returns the race day as YYYY-MM-DD
func (r *Race) Date() (string, error) {
	return extract(r, date)
}

// Distance returns the distance in kilometers
func (r *Race) Distance() (float64, error) {
	return extract(r, distance)
}

// StageType returns ITT, TTT or RR
func (r *Race) StageType() (string, error) {
	return extract(r, stageType)
}

// Results returns the result table. Fields: rank, rider_name, rider_url,
// team_name, team_url, age, pcs_points, uci_points, time; no fields means all.
func (r *Race) Results(fields ...string) ([]*table.Row, error) {
	doc, err := r.page.HTML()
	if err != nil {
		return nil, err
	}
	return results(doc, fields...)
}

func extract[T any](r *Race, fn func(*goquery.Document) (T, error)) (T, error) {
	doc, err := r.page.HTML()
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(doc)
}
