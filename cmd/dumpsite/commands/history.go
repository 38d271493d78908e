package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
	"git.home.luguber.info/inful/dumpsite/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Site  string `short:"s" help:"Only list runs of this site"`
	Limit int    `short:"n" help:"Number of runs to list" default:"20"`
	RunID string `name:"run" help:"Show the anomalies recorded by this run id"`
	JSON  bool   `help:"Print JSON instead of a table"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cfg.History.Disabled {
		return derrors.ConfigError("run history is disabled").Build()
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signalContext()
	defer cancel()

	if h.RunID != "" {
		entries, err := store.Anomalies(ctx, h.RunID)
		if err != nil {
			return derrors.HistoryError("read anomalies").WithContext("run", h.RunID).WithCause(err).Build()
		}
		if h.JSON {
			return writeJSON(entries)
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "CODE\tSEVERITY\tRESOURCE\tMESSAGE")
		for _, e := range entries {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Code, e.Severity, e.Resource, e.Message)
		}
		return tw.Flush()
	}

	runs, err := store.Runs(ctx, h.Site, h.Limit)
	if err != nil {
		return derrors.HistoryError("read runs").WithCause(err).Build()
	}
	if h.JSON {
		return writeJSON(runs)
	}
	return printRuns(runs)
}

const durationRounding = 10 * time.Millisecond

func printRuns(runs []history.Run) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tSITE\tSTARTED\tDURATION\tOUTCOME\tPAGES\tANOMALIES")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.Site, humanize.Time(r.Started), r.Duration().Round(durationRounding), r.Outcome, r.Pages, r.Anomalies)
	}
	return tw.Flush()
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
