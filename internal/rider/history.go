package rider

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/procyclingstats/internal/table"
	"github.com/pfrederiksen/procyclingstats/internal/timefmt"
)

var teamsFields = []string{"season", "since", "until", "team_name", "team_url", "class"}

var teamsSchema = table.Schema{
	"season":    {Cell: 0, Convert: table.Int},
	"team_name": {Cell: 1, Selector: "a"},
	"team_url":  {Cell: 1, Selector: "a", Attr: "href"},
}

var pointsFields = []string{"season", "points", "rank"}

var pointsSchema = table.Schema{
	"season": {Cell: 0, Convert: table.Int},
	"points": {Cell: 1, Convert: table.Int},
	"rank":   {Cell: 2, Convert: table.Int},
}

// teamClass turns "(WT)" into "WT". Empty cells and retirement rows carry no
// class and are dropped from the history.
func teamClass(text string) any {
	if text == "" || strings.Contains(text, "retired") {
		return nil
	}
	return strings.NewReplacer("(", "", ")", "", " ", "").Replace(text)
}

func since(text string) any {
	return dayMonthOr(text, "as from", "01-01")
}

func until(text string) any {
	return dayMonthOr(text, "until", "12-31")
}

func dayMonthOr(text, marker, fallback string) any {
	if !strings.Contains(text, marker) {
		return fallback
	}
	date, err := timefmt.DayMonth(text)
	if err != nil {
		return fallback
	}
	return date
}

func teamsHistory(doc *goquery.Document, requested ...string) ([]*table.Row, error) {
	fields, err := table.SelectFields(requested, teamsFields)
	if err != nil {
		return nil, err
	}
	p := table.NewParser(table.FromSelection(doc.Find("ul.list.rdr-teams")), teamsSchema)

	var casual []string
	for _, f := range fields {
		if _, ok := teamsSchema[f]; ok {
			casual = append(casual, f)
		}
	}
	if len(casual) > 0 {
		if err := p.ParseFields(casual...); err != nil {
			return nil, err
		}
	}

	if err := p.Extend("class", p.ParseExtraColumn(2, teamClass)); err != nil {
		return nil, err
	}
	p.Filter(table.NotNil("class"))

	if table.Contains(fields, "since") {
		if err := p.Extend("since", p.ParseExtraColumn(-2, since)); err != nil {
			return nil, err
		}
	}
	if table.Contains(fields, "until") {
		if err := p.Extend("until", p.ParseExtraColumn(-2, until)); err != nil {
			return nil, err
		}
	}
	if !table.Contains(fields, "class") {
		p.Prune("class")
	}
	return p.Rows(), nil
}

func pointsPerSeasonHistory(doc *goquery.Document, requested ...string) ([]*table.Row, error) {
	fields, err := table.SelectFields(requested, pointsFields)
	if err != nil {
		return nil, err
	}
	p := table.NewParser(table.FromSelection(doc.Find("table.rdr-season-stats")), pointsSchema)
	if err := p.ParseFields(fields...); err != nil {
		return nil, err
	}
	return p.Rows(), nil
}
