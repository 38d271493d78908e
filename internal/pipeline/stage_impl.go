package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"git.home.luguber.info/inful/dumpsite/internal/assemble"
	"git.home.luguber.info/inful/dumpsite/internal/assets"
	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
	"git.home.luguber.info/inful/dumpsite/internal/layout"
	"git.home.luguber.info/inful/dumpsite/internal/links"
	"git.home.luguber.info/inful/dumpsite/internal/media"
	"git.home.luguber.info/inful/dumpsite/internal/output"
	"git.home.luguber.info/inful/dumpsite/internal/sitebuild"
	"git.home.luguber.info/inful/dumpsite/internal/source"
)

func stageExtract(_ context.Context, rs *RunState) error {
	raw, err := os.ReadFile(rs.Site.Dump)
	if err != nil {
		return newFatalStageError(StageExtract, derrors.WrapError(err, derrors.CategoryDump, "read dump").
			WithContext("path", rs.Site.Dump).Build())
	}
	rs.Dump = string(raw)
	tables := source.Tables{Prefix: rs.Site.TablePrefix}

	resources, err := tables.ExtractResources(rs.Dump, rs.Log)
	if err != nil {
		return newFatalStageError(StageExtract, err)
	}
	settings, err := tables.ExtractSettings(rs.Dump, rs.Log)
	if err != nil {
		return newFatalStageError(StageExtract, err)
	}
	redirects, err := tables.ExtractRedirects(rs.Dump, rs.Log)
	if err != nil {
		return newFatalStageError(StageExtract, err)
	}
	system, err := tables.ExtractSystemSettings(rs.Dump, rs.Log)
	if err != nil {
		return newFatalStageError(StageExtract, err)
	}
	rs.Input = assemble.Input{
		Resources:      resources,
		Settings:       settings,
		Redirects:      redirects,
		SystemSettings: system,
	}
	rs.Report.Resources = len(resources)
	return nil
}

func stageGraph(_ context.Context, rs *RunState) error {
	siteStart, _ := strconv.ParseInt(source.SystemSettingValue(rs.Input.SystemSettings, "site_start"), 10, 64)
	home := source.DetectHomepage(rs.Input.Resources, siteStart)
	rs.Refs = source.BuildResourceMap(rs.Input.Resources).WithHome(home)
	return nil
}

func stageAssemble(_ context.Context, rs *RunState) error {
	if rs.Site.MediaRoot != "" {
		rs.Media = osfs.New(rs.Site.MediaRoot)
	} else {
		rs.Media = memfs.New()
	}
	resolver, err := assets.NewResolver(rs.Media, assets.Options{
		UploadDirs: rs.Site.UploadDirs,
		CacheDirs:  rs.Site.CacheDirs,
	})
	if err != nil {
		return newFatalStageError(StageAssemble, err)
	}
	rs.Assets = resolver
	mapper := layout.NewMapper(
		links.NewResolver(rs.Refs),
		links.NewFixer(rs.Site.DeadMarkers, rs.Site.AssetPrefixes),
		resolver,
	)
	rs.Set = assemble.New(mapper, rs.Refs).Assemble(rs.Input, rs.Log)
	for strategy, n := range resolver.Stats() {
		rs.Report.Assets[string(strategy)] = n
	}
	rs.Report.Redirects = len(rs.Set.Redirects)
	return nil
}

func stageWrite(_ context.Context, rs *RunState) error {
	sum, err := output.NewWriter(rs.Site.Output, rs.Site.Name).Write(&rs.Set, rs.Log)
	if err != nil {
		return newFatalStageError(StageWrite, err)
	}
	rs.Written = sum
	rs.Report.Pages = sum.Pages
	return nil
}

func (r *Runner) stageMedia(ctx context.Context, rs *RunState) error {
	if r.opts.Media.Skip || rs.Site.MediaRoot == "" || rs.Assets == nil {
		return nil
	}
	sum, err := media.Copy(ctx, rs.Media, filepath.Join(rs.Site.Output, media.PublicDir),
		rs.Assets.CopyRequests(), media.Options{
			Concurrency: r.opts.Media.Concurrency,
			Encoder:     r.opts.Encoder,
		}, rs.Log)
	if err != nil {
		return newFatalStageError(StageMedia, err)
	}
	rs.Report.Media = sum
	return nil
}

func (r *Runner) stageSiteBuild(ctx context.Context, rs *RunState) error {
	b := sitebuild.Builder{Command: r.opts.SiteBuild.Command, Args: r.opts.SiteBuild.Args}
	if err := b.Run(ctx, rs.Site.Output); err != nil {
		return newWarnStageError(StageSiteBuild, err)
	}
	return nil
}
