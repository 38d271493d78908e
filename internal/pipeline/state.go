package pipeline

import (
	billy "github.com/go-git/go-billy/v5"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/assemble"
	"git.home.luguber.info/inful/dumpsite/internal/assets"
	"git.home.luguber.info/inful/dumpsite/internal/config"
	"git.home.luguber.info/inful/dumpsite/internal/output"
	"git.home.luguber.info/inful/dumpsite/internal/source"
)

// RunState carries the data flowing between the stages of one run.
type RunState struct {
	Site   config.Site
	Report *RunReport
	Log    *anomaly.Log

	Dump    string
	Input   assemble.Input
	Refs    source.ResourceMap
	Media   billy.Filesystem
	Assets  *assets.Resolver
	Set     assemble.DocumentSet
	Written output.Summary
}

func newRunState(site config.Site, report *RunReport) *RunState {
	return &RunState{Site: site, Report: report, Log: anomaly.NewLog()}
}
