package commands

import (
	"fmt"

	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
	"git.home.luguber.info/inful/dumpsite/internal/output"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Site []string `short:"s" help:"Verify only the named site (repeatable)"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	sites, err := selectSites(cfg, v.Site)
	if err != nil {
		return err
	}
	drifted := 0
	for _, site := range sites {
		drift, err := output.Verify(site.Output)
		if err != nil {
			return err
		}
		for _, d := range drift {
			if d.Err != "" {
				printf("%s\t%s\t%s\n", site.Name, d.Path, d.Err)
				continue
			}
			printf("%s\t%s\tstored=%s actual=%s\n", site.Name, d.Path, d.Stored, d.Actual)
		}
		drifted += len(drift)
	}
	if drifted > 0 {
		return derrors.OutputError(fmt.Sprintf("%d pages changed since they were written", drifted)).Build()
	}
	printf("no drift in %d sites\n", len(sites))
	return nil
}
