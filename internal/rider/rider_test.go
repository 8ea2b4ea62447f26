package rider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/pageurl"
	"github.com/pfrederiksen/procyclingstats/internal/scraper"
	"github.com/pfrederiksen/procyclingstats/internal/table"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "fixtures", name))
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return data
}

func load(t *testing.T, name string) *Rider {
	t.Helper()
	r, err := New("rider/tadej-pogacar", scraper.WithHTML(fixture(t, name)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func rowMaps(rows []*table.Row) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = r.Map()
	}
	return out
}

func TestPattern(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"rider/tadej-pogacar", true},
		{"rider/tadej-pogacar/", true},
		{"rider/tadej-pogacar/overview", true},
		{"rider/tadej-pogacar/overview/extra", true},
		{"rider/tadej-pogacar/2022", true},
		{"rider/tadej-pogacar/2022/statistics//", true},
		{"rider", false},
		{"rider/tadej-pogacar/statistics", false},
		{"team/uae-team-emirates-2023", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Pattern.Match(tt.url); got != tt.valid {
				t.Errorf("Pattern.Match(%q) = %v, want %v", tt.url, got, tt.valid)
			}
		})
	}
}

func TestCanonicalURL(t *testing.T) {
	a, err := New("https://www.procyclingstats.com/rider/tadej-pogacar/2022/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b, err := New("/rider/tadej-pogacar/overview")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := a.CanonicalURL(); got != "rider/tadej-pogacar" {
		t.Errorf("CanonicalURL() = %q, want rider/tadej-pogacar", got)
	}
	if !a.Equal(b) {
		t.Errorf("%s and %s should be equal", a.Page(), b.Page())
	}

	if _, err := New("race/tour-de-france/2022"); err == nil {
		t.Error("New() accepted a race URL")
	} else {
		var invalid *pageurl.InvalidURLError
		if !errors.As(err, &invalid) || invalid.Example != "rider/tadej-pogacar" {
			t.Errorf("New() error = %v, want InvalidURLError with example", err)
		}
	}
}

func TestScalarFields(t *testing.T) {
	tests := []struct {
		fixture     string
		name        string
		birthdate   string
		place       string
		weight      int
		height      float64
		nationality string
	}{
		{"rider.html", "Tadej Pogačar", "1998-09-21", "Komenda", 66, 1.76, "SI"},
		{"rider_special.html", "Wout van Aert", "1994-09-15", "Herentals", 78, 1.90, "BE"},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			r := load(t, tt.fixture)
			check := func(label string, got, want any, err error) {
				t.Helper()
				if err != nil {
					t.Errorf("%s() error = %v", label, err)
					return
				}
				if got != want {
					t.Errorf("%s() = %v, want %v", label, got, want)
				}
			}

			n, err := r.Name()
			check("Name", n, tt.name, err)
			bd, err := r.Birthdate()
			check("Birthdate", bd, tt.birthdate, err)
			pob, err := r.PlaceOfBirth()
			check("PlaceOfBirth", pob, tt.place, err)
			w, err := r.Weight()
			check("Weight", w, tt.weight, err)
			h, err := r.Height()
			check("Height", h, tt.height, err)
			nat, err := r.Nationality()
			check("Nationality", nat, tt.nationality, err)
		})
	}
}

func TestSparseProfileIsUnavailable(t *testing.T) {
	r := load(t, "rider_sparse.html")

	if _, err := r.Weight(); !errors.Is(err, field.ErrUnavailable) {
		t.Errorf("Weight() error = %v, want ErrUnavailable", err)
	}
	if _, err := r.Height(); !errors.Is(err, field.ErrUnavailable) {
		t.Errorf("Height() error = %v, want ErrUnavailable", err)
	}
	if _, err := r.Birthdate(); !errors.Is(err, field.ErrUnavailable) {
		t.Errorf("Birthdate() error = %v, want ErrUnavailable", err)
	}
	if _, err := r.PlaceOfBirth(); !errors.Is(err, field.ErrUnavailable) {
		t.Errorf("PlaceOfBirth() error = %v, want ErrUnavailable", err)
	}
	if nat, err := r.Nationality(); err != nil || nat != "DK" {
		t.Errorf("Nationality() = %q, %v, want DK", nat, err)
	}
}

func TestTeamsHistory(t *testing.T) {
	r := load(t, "rider.html")

	tests := []struct {
		name   string
		fields []string
		want   []map[string]any
	}{
		{
			name: "all fields",
			want: []map[string]any{
				{"season": 2024, "team_name": "UAE Team Emirates", "team_url": "team/uae-team-emirates-2024", "class": "WT", "since": "01-01", "until": "12-31"},
				{"season": 2019, "team_name": "UAE Team Emirates", "team_url": "team/uae-team-emirates-2019", "class": "WT", "since": "01-01", "until": "12-31"},
				{"season": 2018, "team_name": "Ljubljana Gusto Xaurum", "team_url": "team/ljubljana-gusto-xaurum-2018", "class": "CT", "since": "01-01", "until": "07-31"},
				{"season": 2018, "team_name": "UAE Team Emirates", "team_url": "team/uae-team-emirates-2018", "class": "WT", "since": "08-01", "until": "12-31"},
			},
		},
		{
			name:   "class pruned unless requested",
			fields: []string{"season", "since"},
			want: []map[string]any{
				{"season": 2024, "since": "01-01"},
				{"season": 2019, "since": "01-01"},
				{"season": 2018, "since": "01-01"},
				{"season": 2018, "since": "08-01"},
			},
		},
		{
			name:   "only derived fields",
			fields: []string{"until"},
			want: []map[string]any{
				{"until": "12-31"},
				{"until": "12-31"},
				{"until": "07-31"},
				{"until": "12-31"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := r.TeamsHistory(tt.fields...)
			if err != nil {
				t.Fatalf("TeamsHistory() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, rowMaps(rows)); diff != "" {
				t.Errorf("TeamsHistory() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	rows, err := r.TeamsHistory()
	if err != nil {
		t.Fatalf("TeamsHistory() error = %v", err)
	}
	wantKeys := []string{"season", "team_name", "team_url", "class", "since", "until"}
	if got := rows[0].Keys(); !cmp.Equal(got, wantKeys) {
		t.Errorf("row keys = %v, want %v", got, wantKeys)
	}

	var unknown *table.UnknownFieldError
	if _, err := r.TeamsHistory("team_class"); !errors.As(err, &unknown) {
		t.Errorf("TeamsHistory(team_class) error = %v, want UnknownFieldError", err)
	}
}

func TestPointsPerSeasonHistory(t *testing.T) {
	r := load(t, "rider.html")

	rows, err := r.PointsPerSeasonHistory("season", "points")
	if err != nil {
		t.Fatalf("PointsPerSeasonHistory() error = %v", err)
	}
	want := []map[string]any{
		{"season": 2024, "points": 4401},
		{"season": 2023, "points": 3035},
		{"season": 2019, "points": 1409},
	}
	if diff := cmp.Diff(want, rowMaps(rows)); diff != "" {
		t.Errorf("PointsPerSeasonHistory() mismatch (-want +got):\n%s", diff)
	}

	sparse := load(t, "rider_sparse.html")
	rows, err = sparse.PointsPerSeasonHistory()
	if err != nil {
		t.Fatalf("PointsPerSeasonHistory() on sparse page error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("PointsPerSeasonHistory() on sparse page = %d rows, want 0", len(rows))
	}
}

func TestParse(t *testing.T) {
	r := load(t, "rider_sparse.html")

	record, err := r.Parse(field.Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(Operations().Names(), record.Keys()); diff != "" {
		t.Errorf("record keys mismatch (-want +got):\n%s", diff)
	}
	for _, key := range []string{"birthdate", "height", "place_of_birth", "weight"} {
		if v, _ := record.Get(key); v != nil {
			t.Errorf("record[%s] = %v, want nil", key, v)
		}
	}
	if v, _ := record.Get("nationality"); v != "DK" {
		t.Errorf("record[nationality] = %v, want DK", v)
	}

	omitted, err := r.Parse(field.Options{OmitIgnored: true})
	if err != nil {
		t.Fatalf("Parse(OmitIgnored) error = %v", err)
	}
	want := []string{"name", "nationality", "points_per_season_history", "teams_history"}
	if diff := cmp.Diff(want, omitted.Keys()); diff != "" {
		t.Errorf("omitted record keys mismatch (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(omitted)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	wantJSON := `{"name":"Unknown Neo-Pro","nationality":"DK","points_per_season_history":[],"teams_history":[]}`
	if string(data) != wantJSON {
		t.Errorf("json = %s, want %s", data, wantJSON)
	}
}

func TestParseBeforeFetch(t *testing.T) {
	r, err := New("rider/tadej-pogacar")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := r.Parse(field.Options{}); !errors.Is(err, scraper.ErrNotFetched) {
		t.Errorf("Parse() error = %v, want ErrNotFetched", err)
	}
	if _, err := r.Weight(); !errors.Is(err, scraper.ErrNotFetched) {
		t.Errorf("Weight() error = %v, want ErrNotFetched", err)
	}
}

func TestBuild(t *testing.T) {
	body := fixture(t, "rider.html")
	notFound := fixture(t, "not_found.html")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rider/nobody" {
			w.Write(notFound)
			return
		}
		w.Write(body)
	}))
	defer server.Close()

	fetcher := scraper.NewHTTPFetcher("", 0)

	r, err := New(server.URL+"/rider/tadej-pogacar", scraper.WithFetcher(fetcher))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	record, err := r.Build(context.Background(), field.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if v, _ := record.Get("weight"); v != 66 {
		t.Errorf("record[weight] = %v, want 66", v)
	}
	if v, _ := record.Get("teams_history"); len(v.([]*table.Row)) != 4 {
		t.Errorf("record[teams_history] has %d rows, want 4", len(v.([]*table.Row)))
	}

	missing, err := New(server.URL+"/rider/nobody", scraper.WithFetcher(fetcher))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var nf *scraper.PageNotFoundError
	if _, err := missing.Build(context.Background(), field.Options{}); !errors.As(err, &nf) {
		t.Errorf("Build() error = %v, want PageNotFoundError", err)
	}
}
