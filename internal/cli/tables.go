package cli

import (
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/procyclingstats/internal/filter"
	"github.com/pfrederiksen/procyclingstats/internal/table"
)

// tableQuery extracts one table from a fetched record
type tableQuery func(r record, fields []string) ([]*table.Row, error)

// tableFlags are the flags of the table commands
type tableFlags struct {
	fields []string
	where  []string
}

func (tf *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&tf.fields, "fields", nil, "Fields to include (default all)")
	cmd.Flags().StringArrayVar(&tf.where, "where", nil, "Keep rows matching field=value, field!=value, field>n or field<n (repeatable)")
}

func newTeamsCmd(f *flags) *cobra.Command {
	tf := &tableFlags{}
	cmd := &cobra.Command{
		Use:   "teams <url>",
		Short: "Print a rider's teams history",
		Long: `Print the teams a rider rode for.
Fields: season, since, until, team_name, team_url, class.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd, f, buildRider, args[0], tf, func(r record, fields []string) ([]*table.Row, error) {
				return r.(teamsHistorian).TeamsHistory(fields...)
			})
		},
	}
	tf.register(cmd)
	return cmd
}

func newResultsCmd(f *flags) *cobra.Command {
	tf := &tableFlags{}
	cmd := &cobra.Command{
		Use:   "results <url>",
		Short: "Print the result table of a stage or race",
		Long: `Print a stage or one-day race result table.
Fields: rank, rider_name, rider_url, team_name, team_url, age, pcs_points, uci_points, time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd, f, buildRace, args[0], tf, func(r record, fields []string) ([]*table.Row, error) {
				return r.(resultsReader).Results(fields...)
			})
		},
	}
	tf.register(cmd)
	return cmd
}

type teamsHistorian interface {
	TeamsHistory(fields ...string) ([]*table.Row, error)
}

type resultsReader interface {
	Results(fields ...string) ([]*table.Row, error)
}

func runTable(cmd *cobra.Command, f *flags, build builder, url string, tf *tableFlags, query tableQuery) error {
	cfg, format, err := setup(f)
	if err != nil {
		return err
	}
	where, err := filter.Parse(tf.where)
	if err != nil {
		return err
	}

	records, offline, err := open(f, cfg, build, []string{url})
	if err != nil {
		return err
	}
	if !offline {
		if err := fetch(cmd.Context(), records, 1); err != nil {
			return err
		}
	}

	rows, err := query(records[0], tf.fields)
	if err != nil {
		return err
	}
	rows = where.Apply(rows)
	if err := sortRows(rows, f.sortField); err != nil {
		return err
	}
	return WriteRows(cmd.OutOrStdout(), rows, format)
}
