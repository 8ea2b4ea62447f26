package race

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/procyclingstats/internal/table"
	"github.com/pfrederiksen/procyclingstats/internal/timefmt"
)

// sameTime marks a finisher with the same gap as the rider above
const sameTime = ",,"

var resultsFields = []string{
	"rank", "rider_name", "rider_url", "team_name", "team_url",
	"age", "pcs_points", "uci_points", "time",
}

var resultsSchema = table.Schema{
	"rank":       {Cell: 0, Convert: rank},
	"rider_name": {Cell: 1, Selector: "a"},
	"rider_url":  {Cell: 1, Selector: "a", Attr: "href"},
	"age":        {Cell: 2, Convert: table.Int},
	"team_name":  {Cell: 3, Selector: "a"},
	"team_url":   {Cell: 3, Selector: "a", Attr: "href"},
	"uci_points": {Cell: 4, Convert: table.Int},
	"pcs_points": {Cell: 5, Convert: table.Int},
}

// rank is the position as an int, or the status (DNF, DNS, OTL, DSQ) of a
// rider who did not finish.
func rank(text string) any {
	if n := table.Int(text); n != nil {
		return n
	}
	if text == "" {
		return nil
	}
	return text
}

func raw(text string) any {
	return text
}

func results(doc *goquery.Document, requested ...string) ([]*table.Row, error) {
	fields, err := table.SelectFields(requested, resultsFields)
	if err != nil {
		return nil, err
	}
	p := table.NewParser(table.FromSelection(doc.Find("table.results")), resultsSchema)

	var casual []string
	for _, f := range fields {
		if _, ok := resultsSchema[f]; ok {
			casual = append(casual, f)
		}
	}
	if err := p.ParseFields(casual...); err != nil {
		return nil, err
	}

	if table.Contains(fields, "time") {
		ranks := p.ParseExtraColumn(0, raw)
		gaps := p.ParseExtraColumn(-1, raw)
		if err := p.Extend("time", finishTimes(ranks, gaps)); err != nil {
			return nil, err
		}
	}
	return p.Rows(), nil
}

// finishTimes turns the time column into absolute times. The first finisher
// carries the winning time, everyone else a gap to it. Riders without a
// numeric rank did not finish and get no time.
func finishTimes(ranks, gaps []any) []any {
	times := make([]any, len(ranks))
	winner, prevGap := "", ""
	for i := range ranks {
		if table.Int(ranks[i].(string)) == nil {
			continue
		}
		gap := gaps[i].(string)
		if winner == "" {
			winner = gap
			if t, err := timefmt.FormatTime(winner); err == nil {
				times[i] = t
			}
			prevGap = "0:00"
			continue
		}
		if gap == sameTime || gap == "" {
			gap = prevGap
		}
		prevGap = gap
		if t, err := timefmt.AddTime(winner, gap); err == nil {
			times[i] = t
		}
	}
	return times
}
