package rider

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/pageurl"
	"github.com/pfrederiksen/procyclingstats/internal/scraper"
	"github.com/pfrederiksen/procyclingstats/internal/table"
)

// Pattern accepts rider/{id} optionally followed by an overview or season page
var Pattern = pageurl.MustCompile(`
	rider`+pageurl.URLStr+`
	(?:`+pageurl.Overview+pageurl.Anything+`|`+pageurl.Year+pageurl.Anything+`)?
	`+pageurl.TrailingSlashes,
	"rider/tadej-pogacar")

var operations = field.MustSet(
	field.Op("birthdate", birthdate),
	field.Op("height", height),
	field.Op("name", name),
	field.Op("nationality", nationality),
	field.Op("place_of_birth", placeOfBirth),
	field.Op("points_per_season_history", func(doc *goquery.Document) ([]*table.Row, error) {
		return pointsPerSeasonHistory(doc)
	}),
	field.Op("teams_history", func(doc *goquery.Document) ([]*table.Row, error) {
		return teamsHistory(doc)
	}),
	field.Op("weight", weight),
)

// Operations returns the fields Parse extracts
func Operations() *field.Set {
	return operations
}

// Rider is one rider page
type Rider struct {
	page *scraper.Page
}

// New validates url and returns an unfetched rider unless scraper.WithHTML is given
func New(url string, opts ...scraper.Option) (*Rider, error) {
	page, err := scraper.New(url, Pattern, opts...)
	if err != nil {
		return nil, err
	}
	return &Rider{page: page}, nil
}

// Page returns the underlying page
func (r *Rider) Page() *scraper.Page {
	return r.page
}

// Update fetches the rider page
func (r *Rider) Update(ctx context.Context) error {
	return r.page.Update(ctx)
}

// CanonicalURL returns rider/{id}, which identifies the rider regardless of
// the subpage the URL pointed to.
func (r *Rider) CanonicalURL() string {
	segments := pageurl.Segments(r.page.RelativeURL())
	return "rider/" + segments[1]
}

// Equal reports whether both riders refer to the same canonical page
func (r *Rider) Equal(other *Rider) bool {
	return other != nil && r.CanonicalURL() == other.CanonicalURL()
}

func (r *Rider) String() string {
	return r.CanonicalURL()
}

// Parse extracts every field from the fetched page
func (r *Rider) Parse(opts field.Options) (*field.Record, error) {
	doc, err := r.page.HTML()
	if err != nil {
		return nil, err
	}
	return field.Dispatch(doc, operations, opts)
}

// Build fetches the page and parses it
func (r *Rider) Build(ctx context.Context, opts field.Options) (*field.Record, error) {
	if err := r.Update(ctx); err != nil {
		return nil, err
	}
	return r.Parse(opts)
}

// Birthdate returns the date of birth as YYYY-MM-DD
func (r *Rider) Birthdate() (string, error) {
	return extract(r, birthdate)
}

// PlaceOfBirth returns the rider's birth town
func (r *Rider) PlaceOfBirth() (string, error) {
	return extract(r, placeOfBirth)
}

// Name returns the rider's full name
func (r *Rider) Name() (string, error) {
	return extract(r, name)
}

// Weight returns the weight in kilograms
func (r *Rider) Weight() (int, error) {
	return extract(r, weight)
}

// Height returns the height in meters
func (r *Rider) Height() (float64, error) {
	return extract(r, height)
}

// Nationality returns the two letter country code in upper case
func (r *Rider) Nationality() (string, error) {
	return extract(r, nationality)
}

// TeamsHistory returns the teams the rider rode for, one row per team and
// season. Fields: season, since, until, team_name, team_url, class; no fields
// means all of them.
func (r *Rider) TeamsHistory(fields ...string) ([]*table.Row, error) {
	doc, err := r.page.HTML()
	if err != nil {
		return nil, err
	}
	return teamsHistory(doc, fields...)
}

// PointsPerSeasonHistory returns PCS points and ranking per season.
// Fields: season, points, rank.
func (r *Rider) PointsPerSeasonHistory(fields ...string) ([]*table.Row, error) {
	doc, err := r.page.HTML()
	if err != nil {
		return nil, err
	}
	return pointsPerSeasonHistory(doc, fields...)
}

func extract[T any](r *Rider, fn func(*goquery.Document) (T, error)) (T, error) {
	doc, err := r.page.HTML()
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(doc)
}
