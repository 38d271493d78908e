package commands

import (
	"git.home.luguber.info/inful/dumpsite/internal/pipeline"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Site      []string `short:"s" help:"Inspect only the named site (repeatable)"`
	Pages     bool     `help:"List every page path"`
	Anomalies bool     `help:"List every recorded anomaly"`
}

func (i *InspectCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	sites, err := selectSites(cfg, i.Site)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	runner := pipeline.NewRunner(pipeline.Options{})
	var firstErr error
	for _, site := range sites {
		report, rs, err := runner.Inspect(ctx, site)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if i.Anomalies {
			printf("%s", report.Text())
		} else {
			printf("%s\n", report.Summary())
		}
		if i.Pages {
			for _, p := range rs.Set.Pages {
				printf("  %s\t%s\n", p.Path, p.Title)
			}
		}
	}
	return firstErr
}
