package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"gsr-report/internal/narrative"
	"gsr-report/internal/report"
	"gsr-report/internal/repository"
)

const dateOnly = "2006-01-02"

type reportOptions struct {
	from  string
	to    string
	lodge string
	dump  bool
}

func newReportCmd(a *app) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the report for a date window as JSON",
		Long: `Builds the Grand Superintendent Report for workings dated between --from
and --to (both inclusive). A date-only --to covers that whole day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "start of the window (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.to, "to", "", "end of the window (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.lodge, "lodge", "", "restrict the report to one lodge id")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "dump the mapping and report structures to stderr")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (a *app) runReport(cmd *cobra.Command, opts *reportOptions) error {
	from, err := parseBound(opts.from, false)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}

	to, err := parseBound(opts.to, true)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	if to.Before(from) {
		return fmt.Errorf("--to %s is before --from %s", opts.to, opts.from)
	}

	ctx := cmd.Context()

	m, err := a.store().Load(ctx)
	if err != nil {
		return err
	}

	cat, err := a.catalog(ctx)
	if err != nil {
		return err
	}

	db, err := a.database()
	if err != nil {
		return err
	}

	agg := report.NewAggregator(
		repository.NewSQLite(db, cat, a.logger.Named("repository")),
		report.WithCatalog(cat),
		report.WithLogger(a.logger.Named("report")),
	)

	res, err := agg.Build(ctx, m, report.Query{From: from, To: to, LodgeID: strings.TrimSpace(opts.lodge)})
	if err != nil {
		return err
	}

	narrative.Fill(res.Report)

	if opts.dump {
		spew.Fdump(cmd.ErrOrStderr(), res.Mapping, res.Report)
	}

	return writeJSON(cmd.OutOrStdout(), res.Report)
}

// parseBound parses a window bound. A date-only upper bound is moved to the
// last instant of that day.
func parseBound(s string, upper bool) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(dateOnly, s); err == nil {
		if upper {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}

		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}

	return t, nil
}
